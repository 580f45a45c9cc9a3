package stock

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/inventorysync-api/internal/application/dto"
	"github.com/jhoicas/inventorysync-api/internal/domain"
	"github.com/jhoicas/inventorysync-api/internal/domain/entity"
	"github.com/jhoicas/inventorysync-api/internal/domain/repository"
)

// ApplyMovementUseCase aplica movimientos de stock (in, out, damage) de forma
// transaccional: bloquea la fila del producto (SELECT FOR UPDATE), valida el saldo,
// inserta la entrada del libro y actualiza el saldo y los contadores del producto
// en la misma transacción. La serialización por producto la da el bloqueo de fila;
// movimientos sobre productos distintos corren en paralelo sin contención.
type ApplyMovementUseCase struct {
	txRunner TxRunner
	userRepo repository.UserRepository
}

// NewApplyMovementUseCase construye el caso de uso.
func NewApplyMovementUseCase(txRunner TxRunner, userRepo repository.UserRepository) *ApplyMovementUseCase {
	return &ApplyMovementUseCase{txRunner: txRunner, userRepo: userRepo}
}

// MovementInput entrada para aplicar un movimiento. PerformedBy es el principal
// autenticado; el caso de uso lo trata como identificador opaco y no lo valida
// contra la tabla de usuarios (solo lo resuelve para la respuesta).
type MovementInput struct {
	ProductID   string
	Type        string
	Quantity    int64
	Reason      string
	Reference   string
	Notes       string
	PerformedBy string
}

// Apply ejecuta el protocolo de movimiento completo y devuelve la entrada del libro
// (con producto y actor resueltos) más el resumen del producto actualizado.
//
// Orden de validación (cada paso un fallo distinto):
//  1. campos requeridos presentes        → ValidationError (campo faltante)
//  2. quantity entero >= 1               → ValidationError (cantidad inválida)
//  3. type ∈ {in, out, damage}           → ValidationError (tipo inválido)
//  4. producto existe                    → ErrProductNotFound
//  5. out/damage: saldo >= solicitado    → InsufficientStockError{disponible, solicitado}
//
// Un único time.Now() capturado aquí se usa para la fecha del movimiento y para
// last_movement_date del producto, de modo que ambas quedan idénticas. El cliente
// no puede retro-fechar.
func (uc *ApplyMovementUseCase) Apply(ctx context.Context, input MovementInput) (*dto.MovementResponse, *dto.UpdatedProductDTO, error) {
	input.Reason = strings.TrimSpace(input.Reason)

	if input.ProductID == "" {
		return nil, nil, domain.MissingField("product_id")
	}
	if input.Type == "" {
		return nil, nil, domain.MissingField("type")
	}
	if input.Quantity == 0 {
		return nil, nil, domain.MissingField("quantity")
	}
	if input.Reason == "" {
		return nil, nil, domain.MissingField("reason")
	}
	if input.PerformedBy == "" {
		return nil, nil, domain.MissingField("performed_by")
	}
	if input.Quantity < 1 {
		return nil, nil, &domain.ValidationError{Field: "quantity", Detail: "debe ser un entero mayor o igual a 1"}
	}
	if !entity.ValidMovementType(input.Type) {
		return nil, nil, &domain.ValidationError{Field: "type", Detail: "debe ser in, out o damage"}
	}

	now := time.Now()
	var (
		movement *entity.StockMovement
		updated  *entity.Product
	)

	// Transacción: lock de fila, libro primero, producto después; Commit o Rollback.
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}

		previous := product.Quantity
		var next int64
		switch input.Type {
		case entity.MovementTypeIn:
			next = previous + input.Quantity
			product.TotalIn += input.Quantity
		case entity.MovementTypeOut, entity.MovementTypeDamage:
			if previous < input.Quantity {
				return &domain.InsufficientStockError{Available: previous, Requested: input.Quantity}
			}
			next = previous - input.Quantity
			product.TotalOut += input.Quantity
		}

		movement = &entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			Type:          input.Type,
			Quantity:      input.Quantity,
			Reason:        input.Reason,
			Reference:     input.Reference,
			Notes:         input.Notes,
			PerformedBy:   input.PerformedBy,
			Date:          now,
			PreviousStock: previous,
			NewStock:      next,
			CreatedAt:     now,
		}
		if err := movRepo.Create(movement); err != nil {
			return err
		}

		product.Quantity = next
		product.LastMovementDate = now
		product.UpdatedAt = now
		if err := productRepo.UpdateBalances(product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	// Resolver el actor para la respuesta; un actor desconocido no invalida
	// el movimiento ya confirmado.
	actor := entity.MovementActor{ID: input.PerformedBy}
	if user, err := uc.userRepo.GetByID(input.PerformedBy); err == nil && user != nil {
		actor.Name = user.Name
		actor.Email = user.Email
	}

	movDTO := toMovementResponse(&entity.EnrichedMovement{
		StockMovement: *movement,
		Product: entity.MovementProduct{
			ID:       updated.ID,
			SKU:      updated.SKU,
			Name:     updated.Name,
			Category: updated.Category,
		},
		Actor: actor,
	})
	return movDTO, toUpdatedProduct(updated, input.Type), nil
}

// toUpdatedProduct arma el resumen del producto con el contador que cambió.
func toUpdatedProduct(p *entity.Product, movementType string) *dto.UpdatedProductDTO {
	out := &dto.UpdatedProductDTO{
		ID:               p.ID,
		SKU:              p.SKU,
		Name:             p.Name,
		Quantity:         p.Quantity,
		LastMovementDate: p.LastMovementDate,
	}
	if movementType == entity.MovementTypeIn {
		totalIn := p.TotalIn
		out.TotalIn = &totalIn
	} else {
		totalOut := p.TotalOut
		out.TotalOut = &totalOut
	}
	return out
}

func toMovementResponse(m *entity.EnrichedMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID: m.ID,
		Product: dto.MovementProductDTO{
			ID:       m.Product.ID,
			SKU:      m.Product.SKU,
			Name:     m.Product.Name,
			Category: m.Product.Category,
		},
		Type:      m.Type,
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		Reference: m.Reference,
		Notes:     m.Notes,
		PerformedBy: dto.MovementActorDTO{
			ID:    m.Actor.ID,
			Name:  m.Actor.Name,
			Email: m.Actor.Email,
		},
		Date:          m.Date,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		CreatedAt:     m.CreatedAt,
	}
}
