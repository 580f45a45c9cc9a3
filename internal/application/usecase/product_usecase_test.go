package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventorysync-api/internal/application/dto"
	"github.com/jhoicas/inventorysync-api/internal/application/usecase"
	"github.com/jhoicas/inventorysync-api/internal/domain"
	"github.com/jhoicas/inventorysync-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake en memoria del repositorio de productos
// ──────────────────────────────────────────────────────────────────────────────

type memProductRepo struct {
	byID  map[string]*entity.Product
	bySKU map[string]*entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{
		byID:  make(map[string]*entity.Product),
		bySKU: make(map[string]*entity.Product),
	}
}

func (r *memProductRepo) Create(p *entity.Product) error {
	if _, ok := r.bySKU[p.SKU]; ok {
		return domain.ErrDuplicateSKU
	}
	copied := *p
	r.byID[p.ID] = &copied
	r.bySKU[p.SKU] = &copied
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.byID[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (r *memProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	if p, ok := r.bySKU[sku]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r *memProductRepo) Update(p *entity.Product) error {
	copied := *p
	r.byID[p.ID] = &copied
	r.bySKU[p.SKU] = &copied
	return nil
}

func (r *memProductRepo) UpdateBalances(p *entity.Product) error { return r.Update(p) }

func (r *memProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.byID))
	for _, p := range r.byID {
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (r *memProductRepo) ListLowStock() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.byID {
		if p.Status == entity.ProductStatusActive && p.IsLowStock() {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memProductRepo) Delete(id string) error {
	if p, ok := r.byID[id]; ok {
		delete(r.bySKU, p.SKU)
		delete(r.byID, id)
	}
	return nil
}

func validCreateRequest() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		SKU:      "wid-001",
		Name:     "Widget industrial",
		Category: "widgets",
		Quantity: 25,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_NormalizaSKUYAplicaDefaults(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProductRepo())

	in := validCreateRequest()
	in.SKU = "  wid-001  "
	resp, err := uc.Create(in)
	require.NoError(t, err)

	assert.Equal(t, "WID-001", resp.SKU, "el SKU se guarda en mayúsculas y sin espacios")
	assert.Equal(t, int64(25), resp.Quantity)
	assert.Equal(t, entity.DefaultReorderLevel, resp.ReorderLevel)
	assert.Equal(t, int64(0), resp.TotalIn, "los contadores inician en 0")
	assert.Equal(t, int64(0), resp.TotalOut)
	assert.Equal(t, "kg", resp.WeightUnit, "unidad de peso por defecto")
	assert.Equal(t, entity.ProductStatusActive, resp.Status)
	assert.NotEmpty(t, resp.ID)
}

func TestCreate_SKUDuplicado(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProductRepo())

	_, err := uc.Create(validCreateRequest())
	require.NoError(t, err)

	// Mismo SKU con distinta capitalización: la normalización lo detecta.
	in := validCreateRequest()
	in.SKU = "Wid-001"
	_, err = uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrDuplicateSKU)
}

func TestCreate_CamposRequeridos(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProductRepo())

	cases := []struct {
		name   string
		mutate func(*dto.CreateProductRequest)
	}{
		{"sin sku", func(in *dto.CreateProductRequest) { in.SKU = "   " }},
		{"sin name", func(in *dto.CreateProductRequest) { in.Name = "" }},
		{"sin category", func(in *dto.CreateProductRequest) { in.Category = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateRequest()
			tc.mutate(&in)
			_, err := uc.Create(in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreate_ValoresNegativos_Rechazados(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProductRepo())

	in := validCreateRequest()
	in.Quantity = -1
	_, err := uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad inicial negativa")

	in = validCreateRequest()
	negative := decimal.NewFromInt(-10)
	in.UnitPrice = &negative
	_, err = uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo")

	in = validCreateRequest()
	badLevel := int64(-5)
	in.ReorderLevel = &badLevel
	_, err = uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "nivel de reorden negativo")
}

func TestCreate_UnidadDePesoInvalida(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProductRepo())

	in := validCreateRequest()
	in.WeightUnit = "toneladas"
	_, err := uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete / LowStock
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_SoloCamposDescriptivos(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	created, err := uc.Create(validCreateRequest())
	require.NoError(t, err)

	newName := "Widget reforzado"
	newStatus := entity.ProductStatusInactive
	updated, err := uc.Update(created.ID, dto.UpdateProductRequest{
		Name:   &newName,
		Status: &newStatus,
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget reforzado", updated.Name)
	assert.Equal(t, entity.ProductStatusInactive, updated.Status)
	assert.Equal(t, created.Quantity, updated.Quantity,
		"update de catálogo no debe tocar el saldo")
}

func TestUpdate_ProductoInexistente_DevuelveNil(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProductRepo())

	name := "x"
	resp, err := uc.Update("no-existe", dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestUpdate_EstadoInvalido(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)
	created, err := uc.Create(validCreateRequest())
	require.NoError(t, err)

	bad := "archived"
	_, err = uc.Update(created.ID, dto.UpdateProductRequest{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete_ProductoInexistente(t *testing.T) {
	uc := usecase.NewProductUseCase(newMemProductRepo())
	err := uc.Delete("no-existe")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestDelete_EliminaYLiberaSKU(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	created, err := uc.Create(validCreateRequest())
	require.NoError(t, err)
	require.NoError(t, uc.Delete(created.ID))

	resp, err := uc.GetByID(created.ID)
	require.NoError(t, err)
	assert.Nil(t, resp)

	// El SKU queda libre para un producto nuevo.
	_, err = uc.Create(validCreateRequest())
	assert.NoError(t, err)
}

func TestListLowStock_UmbralInclusivo(t *testing.T) {
	repo := newMemProductRepo()
	uc := usecase.NewProductUseCase(repo)

	level := int64(10)

	inLow := validCreateRequest()
	inLow.SKU = "LOW-001"
	inLow.Quantity = 10 // exactamente en el umbral
	inLow.ReorderLevel = &level
	_, err := uc.Create(inLow)
	require.NoError(t, err)

	inOK := validCreateRequest()
	inOK.SKU = "OK-001"
	inOK.Quantity = 11
	inOK.ReorderLevel = &level
	_, err = uc.Create(inOK)
	require.NoError(t, err)

	low, err := uc.ListLowStock()
	require.NoError(t, err)
	require.Len(t, low, 1, "el umbral es inclusivo: quantity <= reorder_level")
	assert.Equal(t, "LOW-001", low[0].SKU)
}
