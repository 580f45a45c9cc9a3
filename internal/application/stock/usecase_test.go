package stock_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventorysync-api/internal/application/stock"
	"github.com/jhoicas/inventorysync-api/internal/domain"
	"github.com/jhoicas/inventorysync-api/internal/domain/entity"
	"github.com/jhoicas/inventorysync-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// fakeState emula la base: un mapa de productos y el libro de movimientos.
// fakeTxRunner serializa cada Run con un mutex (el equivalente en memoria del
// SELECT FOR UPDATE) y aplica semántica transaccional: los cambios se preparan
// en staging y solo se publican si fn retorna nil.
// ──────────────────────────────────────────────────────────────────────────────

type fakeState struct {
	mu        sync.Mutex
	products  map[string]entity.Product
	movements []entity.StockMovement
}

func newFakeState(products ...entity.Product) *fakeState {
	s := &fakeState{products: make(map[string]entity.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

type fakeTx struct {
	state           *fakeState
	stagedProducts  map[string]entity.Product
	stagedMovements []entity.StockMovement
	failMovement    error // si no es nil, Create del libro falla
}

type fakeTxRunner struct {
	state        *fakeState
	failMovement error
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(repository.StockMovementRepository, repository.ProductRepository) error) error {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	tx := &fakeTx{
		state:          r.state,
		stagedProducts: make(map[string]entity.Product),
		failMovement:   r.failMovement,
	}
	if err := fn(&fakeMovementRepo{tx: tx}, &fakeProductRepo{tx: tx}); err != nil {
		return err // rollback: el staging se descarta
	}
	for id, p := range tx.stagedProducts {
		r.state.products[id] = p
	}
	r.state.movements = append(r.state.movements, tx.stagedMovements...)
	return nil
}

type fakeProductRepo struct{ tx *fakeTx }

func (f *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	if p, ok := f.tx.stagedProducts[id]; ok {
		copied := p
		return &copied, nil
	}
	p, ok := f.tx.state.products[id]
	if !ok {
		return nil, nil
	}
	copied := p
	return &copied, nil
}

func (f *fakeProductRepo) UpdateBalances(p *entity.Product) error {
	f.tx.stagedProducts[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) Create(*entity.Product) error               { return nil }
func (f *fakeProductRepo) GetByID(string) (*entity.Product, error)    { return nil, nil }
func (f *fakeProductRepo) GetBySKU(string) (*entity.Product, error)   { return nil, nil }
func (f *fakeProductRepo) Update(*entity.Product) error               { return nil }
func (f *fakeProductRepo) List(int, int) ([]*entity.Product, error)   { return nil, nil }
func (f *fakeProductRepo) ListLowStock() ([]*entity.Product, error)   { return nil, nil }
func (f *fakeProductRepo) Delete(string) error                        { return nil }

type fakeMovementRepo struct{ tx *fakeTx }

func (f *fakeMovementRepo) Create(m *entity.StockMovement) error {
	if f.tx.failMovement != nil {
		return f.tx.failMovement
	}
	f.tx.stagedMovements = append(f.tx.stagedMovements, *m)
	return nil
}

func (f *fakeMovementRepo) GetByID(string) (*entity.EnrichedMovement, error) { return nil, nil }
func (f *fakeMovementRepo) List(repository.MovementFilter) ([]*entity.EnrichedMovement, error) {
	return nil, nil
}
func (f *fakeMovementRepo) ListByProduct(string, int, int) ([]*entity.EnrichedMovement, error) {
	return nil, nil
}

type fakeUserRepo struct{ users map[string]entity.User }

func (f *fakeUserRepo) Create(*entity.User) error { return nil }
func (f *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	if u, ok := f.users[id]; ok {
		copied := u
		return &copied, nil
	}
	return nil, nil
}
func (f *fakeUserRepo) GetByEmail(string) (*entity.User, error) { return nil, nil }

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductID = "11111111-1111-1111-1111-111111111111"
	testUserID    = "22222222-2222-2222-2222-222222222222"
)

func testProduct(quantity int64) entity.Product {
	return entity.Product{
		ID:       testProductID,
		SKU:      "WID-001",
		Name:     "Widget industrial",
		Category: "widgets",
		Quantity: quantity,
		Status:   entity.ProductStatusActive,
	}
}

func buildUseCase(state *fakeState) *stock.ApplyMovementUseCase {
	users := &fakeUserRepo{users: map[string]entity.User{
		testUserID: {ID: testUserID, Name: "Ana Torres", Email: "ana@example.com"},
	}}
	return stock.NewApplyMovementUseCase(&fakeTxRunner{state: state}, users)
}

func movementInput(movementType string, quantity int64) stock.MovementInput {
	return stock.MovementInput{
		ProductID:   testProductID,
		Type:        movementType,
		Quantity:    quantity,
		Reason:      "ajuste de prueba",
		PerformedBy: testUserID,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Protocolo de movimientos — escenario completo in → out → damage rechazado
// ──────────────────────────────────────────────────────────────────────────────

// Escenario de referencia: producto con 100 unidades.
//  1. in 50     → saldo 150, previous/new = {100,150}
//  2. out 30    → saldo 120, previous/new = {150,120}
//  3. damage 200 → rechazado con disponible 120 / solicitado 200, estado intacto
func TestApply_EscenarioInOutDamage(t *testing.T) {
	state := newFakeState(testProduct(100))
	uc := buildUseCase(state)
	ctx := context.Background()

	// 1. Entrada de 50
	mov, updated, err := uc.Apply(ctx, movementInput(entity.MovementTypeIn, 50))
	require.NoError(t, err)
	assert.Equal(t, int64(100), mov.PreviousStock)
	assert.Equal(t, int64(150), mov.NewStock)
	assert.Equal(t, int64(150), updated.Quantity)
	require.NotNil(t, updated.TotalIn, "entrada debe reportar total_in")
	assert.Equal(t, int64(50), *updated.TotalIn)
	assert.Nil(t, updated.TotalOut, "entrada no debe reportar total_out")

	// 2. Salida de 30
	mov, updated, err = uc.Apply(ctx, movementInput(entity.MovementTypeOut, 30))
	require.NoError(t, err)
	assert.Equal(t, int64(150), mov.PreviousStock)
	assert.Equal(t, int64(120), mov.NewStock)
	assert.Equal(t, int64(120), updated.Quantity)
	require.NotNil(t, updated.TotalOut, "salida debe reportar total_out")
	assert.Equal(t, int64(30), *updated.TotalOut)

	// 3. Daño de 200 sobre saldo 120 → rechazado, nada cambia
	_, _, err = uc.Apply(ctx, movementInput(entity.MovementTypeDamage, 200))
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(120), insufficient.Available)
	assert.Equal(t, int64(200), insufficient.Requested)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	final := state.products[testProductID]
	assert.Equal(t, int64(120), final.Quantity, "un rechazo no debe tocar el saldo")
	assert.Equal(t, int64(50), final.TotalIn)
	assert.Equal(t, int64(30), final.TotalOut)
	assert.Len(t, state.movements, 2, "el movimiento rechazado no entra al libro")
}

// Producto recién creado con saldo 0: el saldo siempre es la suma de entradas
// menos salidas y daños, y nunca pasa por un valor negativo.
func TestApply_ProductoNuevo_IdentidadContable(t *testing.T) {
	state := newFakeState(testProduct(0))
	uc := buildUseCase(state)
	ctx := context.Background()

	// Sobre saldo 0 ninguna salida cabe.
	_, _, err := uc.Apply(ctx, movementInput(entity.MovementTypeOut, 1))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	steps := []struct {
		movementType string
		quantity     int64
	}{
		{entity.MovementTypeIn, 10},
		{entity.MovementTypeOut, 4},
		{entity.MovementTypeDamage, 3},
		{entity.MovementTypeIn, 2},
	}
	for _, s := range steps {
		_, _, err := uc.Apply(ctx, movementInput(s.movementType, s.quantity))
		require.NoError(t, err)
	}

	final := state.products[testProductID]
	assert.Equal(t, int64(12), final.TotalIn)
	assert.Equal(t, int64(7), final.TotalOut)
	assert.Equal(t, final.TotalIn-final.TotalOut, final.Quantity)

	// Replay del libro: cada entrada es consistente y encadena con la anterior.
	running := int64(0)
	for _, m := range state.movements {
		assert.Equal(t, running, m.PreviousStock)
		if m.Type == entity.MovementTypeIn {
			running += m.Quantity
		} else {
			running -= m.Quantity
		}
		assert.Equal(t, running, m.NewStock)
		assert.GreaterOrEqual(t, running, int64(0), "el saldo nunca pasa por negativo")
	}
}

func TestApply_SalidaExactaDejaSaldoCero(t *testing.T) {
	state := newFakeState(testProduct(40))
	uc := buildUseCase(state)

	mov, updated, err := uc.Apply(context.Background(), movementInput(entity.MovementTypeOut, 40))
	require.NoError(t, err, "vaciar el stock exacto es válido")
	assert.Equal(t, int64(0), mov.NewStock)
	assert.Equal(t, int64(0), updated.Quantity)
}

func TestApply_SalidaMayorAlSaldo_Rechazada(t *testing.T) {
	state := newFakeState(testProduct(10))
	uc := buildUseCase(state)

	_, _, err := uc.Apply(context.Background(), movementInput(entity.MovementTypeOut, 11))
	require.Error(t, err)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(10), insufficient.Available)
	assert.Equal(t, int64(11), insufficient.Requested)

	assert.Equal(t, int64(10), state.products[testProductID].Quantity)
	assert.Empty(t, state.movements)
}

// El daño acumula en total_out igual que una salida.
func TestApply_DanioAcumulaEnTotalOut(t *testing.T) {
	state := newFakeState(testProduct(20))
	uc := buildUseCase(state)

	_, updated, err := uc.Apply(context.Background(), movementInput(entity.MovementTypeDamage, 5))
	require.NoError(t, err)
	require.NotNil(t, updated.TotalOut)
	assert.Equal(t, int64(5), *updated.TotalOut)
	assert.Equal(t, int64(15), updated.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestApply_CamposFaltantes(t *testing.T) {
	state := newFakeState(testProduct(10))
	uc := buildUseCase(state)
	ctx := context.Background()

	cases := []struct {
		name  string
		input stock.MovementInput
		field string
	}{
		{"sin product_id", stock.MovementInput{Type: "in", Quantity: 1, Reason: "r", PerformedBy: testUserID}, "product_id"},
		{"sin type", stock.MovementInput{ProductID: testProductID, Quantity: 1, Reason: "r", PerformedBy: testUserID}, "type"},
		{"sin quantity", stock.MovementInput{ProductID: testProductID, Type: "in", Reason: "r", PerformedBy: testUserID}, "quantity"},
		{"sin reason", stock.MovementInput{ProductID: testProductID, Type: "in", Quantity: 1, PerformedBy: testUserID}, "reason"},
		{"reason solo espacios", stock.MovementInput{ProductID: testProductID, Type: "in", Quantity: 1, Reason: "   ", PerformedBy: testUserID}, "reason"},
		{"sin performed_by", stock.MovementInput{ProductID: testProductID, Type: "in", Quantity: 1, Reason: "r"}, "performed_by"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := uc.Apply(ctx, tc.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
	assert.Empty(t, state.movements, "ningún input inválido debe llegar al libro")
}

func TestApply_CantidadNegativa_Rechazada(t *testing.T) {
	state := newFakeState(testProduct(10))
	uc := buildUseCase(state)

	_, _, err := uc.Apply(context.Background(), movementInput(entity.MovementTypeIn, -3))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "quantity", ve.Field)
}

func TestApply_TipoInvalido_Rechazado(t *testing.T) {
	state := newFakeState(testProduct(10))
	uc := buildUseCase(state)

	_, _, err := uc.Apply(context.Background(), movementInput("transfer", 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApply_ProductoInexistente(t *testing.T) {
	state := newFakeState() // sin productos
	uc := buildUseCase(state)

	_, _, err := uc.Apply(context.Background(), movementInput(entity.MovementTypeIn, 5))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Invariantes del libro
// ──────────────────────────────────────────────────────────────────────────────

// Toda entrada del libro debe cumplir new_stock = previous_stock ± quantity
// según el tipo, y la fecha del movimiento debe ser idéntica a
// last_movement_date del producto (un único instante por operación).
func TestApply_InvariantesDeLaEntrada(t *testing.T) {
	state := newFakeState(testProduct(70))
	uc := buildUseCase(state)
	ctx := context.Background()

	mov, updated, err := uc.Apply(ctx, movementInput(entity.MovementTypeIn, 25))
	require.NoError(t, err)
	assert.Equal(t, mov.PreviousStock+mov.Quantity, mov.NewStock)
	assert.Equal(t, mov.Date, updated.LastMovementDate,
		"la fecha del movimiento y last_movement_date deben venir del mismo time.Now()")
	assert.Equal(t, mov.Date, mov.CreatedAt)

	mov, _, err = uc.Apply(ctx, movementInput(entity.MovementTypeOut, 10))
	require.NoError(t, err)
	assert.Equal(t, mov.PreviousStock-mov.Quantity, mov.NewStock)
}

// Si la inserción en el libro falla, el saldo del producto no debe cambiar:
// libro y producto se confirman juntos o no se confirma nada.
func TestApply_FalloDelLibro_NoActualizaProducto(t *testing.T) {
	state := newFakeState(testProduct(100))
	runner := &fakeTxRunner{state: state, failMovement: errors.New("disco lleno")}
	users := &fakeUserRepo{users: map[string]entity.User{}}
	uc := stock.NewApplyMovementUseCase(runner, users)

	_, _, err := uc.Apply(context.Background(), movementInput(entity.MovementTypeIn, 10))
	require.Error(t, err)

	assert.Equal(t, int64(100), state.products[testProductID].Quantity)
	assert.Empty(t, state.movements)
}

// El actor se resuelve solo para la respuesta; un performed_by desconocido
// no invalida un movimiento ya confirmado.
func TestApply_ActorDesconocido_NoInvalida(t *testing.T) {
	state := newFakeState(testProduct(10))
	uc := buildUseCase(state)

	input := movementInput(entity.MovementTypeIn, 5)
	input.PerformedBy = "99999999-9999-9999-9999-999999999999"

	mov, _, err := uc.Apply(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, input.PerformedBy, mov.PerformedBy.ID)
	assert.Empty(t, mov.PerformedBy.Name, "sin usuario resuelto solo queda el ID")
}

func TestApply_ActorResuelto(t *testing.T) {
	state := newFakeState(testProduct(10))
	uc := buildUseCase(state)

	mov, _, err := uc.Apply(context.Background(), movementInput(entity.MovementTypeIn, 5))
	require.NoError(t, err)
	assert.Equal(t, "Ana Torres", mov.PerformedBy.Name)
	assert.Equal(t, "ana@example.com", mov.PerformedBy.Email)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia — serialización por producto
// ──────────────────────────────────────────────────────────────────────────────

// N salidas concurrentes de 1 unidad contra un saldo de exactamente N: todas
// deben confirmarse, el saldo final debe ser 0 y el libro debe quedar con N
// entradas encadenadas sin solaparse (cada previous_stock = new_stock anterior).
func TestApply_SalidasConcurrentes_SinSobreventa(t *testing.T) {
	const n = 50
	state := newFakeState(testProduct(n))
	uc := buildUseCase(state)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = uc.Apply(context.Background(), movementInput(entity.MovementTypeOut, 1))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoErrorf(t, err, "la salida %d no debe fallar con saldo suficiente", i)
	}

	final := state.products[testProductID]
	assert.Equal(t, int64(0), final.Quantity)
	assert.Equal(t, int64(n), final.TotalOut)
	require.Len(t, state.movements, n)

	// Entradas encadenadas: ningún par se solapa.
	seen := make(map[int64]bool, n)
	for _, m := range state.movements {
		assert.Equal(t, m.PreviousStock-1, m.NewStock)
		assert.False(t, seen[m.PreviousStock], "dos movimientos no pueden partir del mismo saldo")
		seen[m.PreviousStock] = true
	}
}

// Con saldo menor que el número de salidas concurrentes, las que exceden el
// saldo deben rechazarse y el saldo nunca queda negativo.
func TestApply_ConcurrenciaConSaldoInsuficiente(t *testing.T) {
	const n = 30
	const available = 12
	state := newFakeState(testProduct(available))
	uc := buildUseCase(state)

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = uc.Apply(context.Background(), movementInput(entity.MovementTypeOut, 1))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, available, succeeded, "solo caben tantas salidas como saldo había")
	assert.Equal(t, int64(0), state.products[testProductID].Quantity)
	assert.Len(t, state.movements, available)
}
