package restock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestock-saas/gestock-api/internal/application/dto"
	"github.com/gestock-saas/gestock-api/internal/application/restock"
	"github.com/gestock-saas/gestock-api/internal/domain"
	"github.com/gestock-saas/gestock-api/internal/domain/authz"
	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del workflow de reabastecimiento: pending -> approved|rejected ->
// fulfilled. Solo fulfill toca el libro.
// ──────────────────────────────────────────────────────────────────────────────

const (
	testTenant   = "tenant-chic"
	testBoutique = "btq-paris"
	testProduct  = "prod-polo"
)

type fixture struct {
	store *memory.Store
	uc    *restock.UseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	store.SeedBoutique(testTenant, testBoutique, "Boutique Rivoli")
	store.SeedProduct(testTenant, testProduct, "POLO-001", "Polo clásico")
	uc := restock.NewUseCase(store.TxRunner(), store.Restocks(), store.Boutiques(), store.Products(), nil)
	return &fixture{store: store, uc: uc}
}

func managerStock() authz.Principal {
	return authz.Principal{UserID: "u-manager", TenantID: testTenant, Role: authz.RoleManagerStock}
}

func direccion() authz.Principal {
	return authz.Principal{UserID: "u-pdg", TenantID: testTenant, Role: authz.RolePDG}
}

func (f *fixture) quantity(t *testing.T) int64 {
	t.Helper()
	line, err := f.store.Stock().Get(context.Background(), testTenant, testBoutique, testProduct)
	require.NoError(t, err)
	return line.Quantity
}

func (f *fixture) createPending(t *testing.T, qty int64) *dto.RestockResponse {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), managerStock(), dto.CreateRestockRequest{
		BoutiqueID: testBoutique,
		ProductID:  testProduct,
		Quantity:   qty,
	})
	require.NoError(t, err)
	return resp
}

func TestRestock_CicloCompleto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created := f.createPending(t, 25)
	assert.Equal(t, entity.RestockStatusPending, created.Status)
	assert.Equal(t, int64(0), f.quantity(t), "crear la solicitud no toca el libro")

	approved, err := f.uc.Approve(ctx, direccion(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RestockStatusApproved, approved.Status)
	require.NotNil(t, approved.DecidedAt)
	assert.Equal(t, "u-pdg", approved.DecidedBy)
	assert.Equal(t, int64(0), f.quantity(t), "aprobar tampoco toca el libro")

	fulfilled, err := f.uc.Fulfill(ctx, managerStock(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RestockStatusFulfilled, fulfilled.Status)
	require.NotNil(t, fulfilled.FulfilledAt)
	assert.Equal(t, int64(25), f.quantity(t), "fulfill acredita la cantidad solicitada")

	entries, err := f.store.Audit().ListByKey(ctx, testTenant, testBoutique, testProduct, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ReasonStockEntry, entries[0].Reason)
	assert.Equal(t, int64(25), entries[0].Delta)
	assert.Equal(t, created.ID, entries[0].RefID, "la entrada referencia la solicitud")
}

func TestFulfill_Doble(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.createPending(t, 10)
	_, err := f.uc.Approve(ctx, direccion(), created.ID)
	require.NoError(t, err)
	_, err = f.uc.Fulfill(ctx, managerStock(), created.ID)
	require.NoError(t, err)

	_, err = f.uc.Fulfill(ctx, managerStock(), created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(10), f.quantity(t), "el crédito ocurre una sola vez")
}

func TestFulfill_SinAprobar(t *testing.T) {
	f := newFixture()
	created := f.createPending(t, 10)

	_, err := f.uc.Fulfill(context.Background(), managerStock(), created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(0), f.quantity(t))
}

func TestReject_EsTerminal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.createPending(t, 10)

	rejected, err := f.uc.Reject(ctx, direccion(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RestockStatusRejected, rejected.Status)

	_, err = f.uc.Fulfill(ctx, managerStock(), created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.uc.Approve(ctx, direccion(), created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "una solicitud decidida no se re-decide")
	assert.Equal(t, int64(0), f.quantity(t))
}

func TestApprove_RolSinPermiso(t *testing.T) {
	f := newFixture()
	created := f.createPending(t, 10)

	_, err := f.uc.Approve(context.Background(), managerStock(), created.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized,
		"manager_stock solicita y cumple, pero no decide")
}

func TestCreate_Valida(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Create(ctx, managerStock(), dto.CreateRestockRequest{
		BoutiqueID: testBoutique, ProductID: testProduct, Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(ctx, managerStock(), dto.CreateRestockRequest{
		BoutiqueID: testBoutique, ProductID: "prod-fantasma", Quantity: 5,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListByBoutique_Pagina(t *testing.T) {
	f := newFixture()
	for i := 0; i < 3; i++ {
		f.createPending(t, 5)
	}

	list, err := f.uc.ListByBoutique(context.Background(), managerStock(), testBoutique, 2, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	rest, err := f.uc.ListByBoutique(context.Background(), managerStock(), testBoutique, 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest.Items, 1)
}
