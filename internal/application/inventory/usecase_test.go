package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestock-saas/gestock-api/internal/application/dto"
	"github.com/gestock-saas/gestock-api/internal/application/inventory"
	"github.com/gestock-saas/gestock-api/internal/application/ledger"
	"github.com/gestock-saas/gestock-api/internal/domain"
	"github.com/gestock-saas/gestock-api/internal/domain/authz"
	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de sesiones de inventario físico: Compute es puro reporte (nunca muta
// el libro) y Commit concilia a lo sumo una vez.
// ──────────────────────────────────────────────────────────────────────────────

const (
	testTenant   = "tenant-chic"
	testBoutique = "btq-paris"
	prodPolo     = "prod-polo"
	prodRobe     = "prod-robe"
)

type fixture struct {
	store *memory.Store
	uc    *inventory.UseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	store.SeedBoutique(testTenant, testBoutique, "Boutique Rivoli")
	store.SeedProduct(testTenant, prodPolo, "POLO-001", "Polo clásico")
	store.SeedProduct(testTenant, prodRobe, "ROBE-001", "Robe d'été")
	uc := inventory.NewUseCase(store.TxRunner(), store.Sessions(), store.Stock(), store.Boutiques(), store.Products(), nil)
	return &fixture{store: store, uc: uc}
}

func managerStock() authz.Principal {
	return authz.Principal{UserID: "u-manager", TenantID: testTenant, Role: authz.RoleManagerStock}
}

func (f *fixture) seedStock(t *testing.T, productID string, qty int64) {
	t.Helper()
	err := f.store.TxRunner().Run(context.Background(), func(r ledger.TxRepos) error {
		_, err := ledger.ApplyLineTx(context.Background(), r.Stock, r.Audit, ledger.LineDelta{
			TenantID:   testTenant,
			BoutiqueID: testBoutique,
			ProductID:  productID,
			Delta:      qty,
			Reason:     entity.ReasonStockEntry,
		}, time.Now())
		return err
	})
	require.NoError(t, err)
}

func (f *fixture) quantity(t *testing.T, productID string) int64 {
	t.Helper()
	line, err := f.store.Stock().Get(context.Background(), testTenant, testBoutique, productID)
	require.NoError(t, err)
	return line.Quantity
}

func price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

// ── Compute ───────────────────────────────────────────────────────────────────

func TestCompute_CalculaVarianza(t *testing.T) {
	f := newFixture()
	f.seedStock(t, prodPolo, 10)
	f.seedStock(t, prodRobe, 5)

	resp, err := f.uc.Compute(context.Background(), managerStock(), dto.ComputeSessionRequest{
		BoutiqueID: testBoutique,
		Items: []dto.CountedItemDTO{
			{ProductID: prodPolo, Counted: 8, UnitPrice: price("20.00")},
			{ProductID: prodRobe, Counted: 5, UnitPrice: price("45.50")},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)

	polo := resp.Items[0]
	assert.Equal(t, int64(10), polo.Expected)
	assert.Equal(t, int64(8), polo.Counted)
	assert.Equal(t, int64(-2), polo.Delta)
	require.NotNil(t, polo.ValueDelta)
	assert.True(t, polo.ValueDelta.Equal(decimal.RequireFromString("-40.00")),
		"value_delta = delta × precio unitario")

	robe := resp.Items[1]
	assert.Equal(t, int64(0), robe.Delta)
	require.NotNil(t, robe.ValueDelta)
	assert.True(t, robe.ValueDelta.IsZero())

	assert.Equal(t, int64(-2), resp.TotalDelta)
	assert.True(t, resp.TotalValueDelta.Equal(decimal.RequireFromString("-40.00")))
	assert.Nil(t, resp.CommittedAt)

	// Compute jamás muta el libro.
	assert.Equal(t, int64(10), f.quantity(t, prodPolo))
	assert.Equal(t, int64(5), f.quantity(t, prodRobe))
}

func TestCompute_SinPrecioNoHayValueDelta(t *testing.T) {
	f := newFixture()
	f.seedStock(t, prodPolo, 10)

	resp, err := f.uc.Compute(context.Background(), managerStock(), dto.ComputeSessionRequest{
		BoutiqueID: testBoutique,
		Items:      []dto.CountedItemDTO{{ProductID: prodPolo, Counted: 7}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Nil(t, resp.Items[0].ValueDelta, "sin precio unitario no hay varianza en valor")
	assert.Equal(t, int64(-3), resp.TotalDelta, "la varianza en cantidad sí cuenta")
	assert.True(t, resp.TotalValueDelta.IsZero())
}

func TestCompute_ProductoNuncaMovidoParteDeCero(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Compute(context.Background(), managerStock(), dto.ComputeSessionRequest{
		BoutiqueID: testBoutique,
		Items:      []dto.CountedItemDTO{{ProductID: prodPolo, Counted: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Items[0].Expected)
	assert.Equal(t, int64(4), resp.Items[0].Delta)
}

func TestCompute_Valida(t *testing.T) {
	f := newFixture()
	casos := []struct {
		nombre string
		in     dto.ComputeSessionRequest
	}{
		{"sin items", dto.ComputeSessionRequest{BoutiqueID: testBoutique}},
		{"conteo negativo", dto.ComputeSessionRequest{BoutiqueID: testBoutique,
			Items: []dto.CountedItemDTO{{ProductID: prodPolo, Counted: -1}}}},
		{"producto repetido", dto.ComputeSessionRequest{BoutiqueID: testBoutique,
			Items: []dto.CountedItemDTO{{ProductID: prodPolo, Counted: 1}, {ProductID: prodPolo, Counted: 2}}}},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := f.uc.Compute(context.Background(), managerStock(), c.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCompute_RolCajeroNoComputa(t *testing.T) {
	f := newFixture()
	cajero := authz.Principal{UserID: "u-caisse", TenantID: testTenant, Role: authz.RoleCaissier}

	_, err := f.uc.Compute(context.Background(), cajero, dto.ComputeSessionRequest{
		BoutiqueID: testBoutique,
		Items:      []dto.CountedItemDTO{{ProductID: prodPolo, Counted: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ── Commit ────────────────────────────────────────────────────────────────────

func TestCommit_ConciliaConUnaCorreccionPorLinea(t *testing.T) {
	f := newFixture()
	f.seedStock(t, prodPolo, 10)
	f.seedStock(t, prodRobe, 5)
	ctx := context.Background()

	session, err := f.uc.Compute(ctx, managerStock(), dto.ComputeSessionRequest{
		BoutiqueID: testBoutique,
		Items: []dto.CountedItemDTO{
			{ProductID: prodPolo, Counted: 8},
			{ProductID: prodRobe, Counted: 5}, // delta cero, no genera corrección
		},
	})
	require.NoError(t, err)

	committed, err := f.uc.Commit(ctx, managerStock(), session.ID)
	require.NoError(t, err)
	require.NotNil(t, committed.CommittedAt)

	assert.Equal(t, int64(8), f.quantity(t, prodPolo), "el libro queda alineado al conteo")
	assert.Equal(t, int64(5), f.quantity(t, prodRobe))

	polo, err := f.store.Audit().ListByKey(ctx, testTenant, testBoutique, prodPolo, 0)
	require.NoError(t, err)
	require.Len(t, polo, 2) // entrada inicial + corrección
	assert.Equal(t, entity.ReasonInventoryCorrection, polo[0].Reason)
	assert.Equal(t, int64(-2), polo[0].Delta)
	assert.Equal(t, session.ID, polo[0].RefID, "la corrección referencia la sesión")

	robe, err := f.store.Audit().ListByKey(ctx, testTenant, testBoutique, prodRobe, 0)
	require.NoError(t, err)
	assert.Len(t, robe, 1, "una línea con delta cero no deja corrección")
}

func TestCommit_SoloUnaVez(t *testing.T) {
	f := newFixture()
	f.seedStock(t, prodPolo, 10)
	ctx := context.Background()

	session, err := f.uc.Compute(ctx, managerStock(), dto.ComputeSessionRequest{
		BoutiqueID: testBoutique,
		Items:      []dto.CountedItemDTO{{ProductID: prodPolo, Counted: 8}},
	})
	require.NoError(t, err)

	_, err = f.uc.Commit(ctx, managerStock(), session.ID)
	require.NoError(t, err)

	_, err = f.uc.Commit(ctx, managerStock(), session.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(8), f.quantity(t, prodPolo), "la corrección se aplica una sola vez")
}

// TestCommit_RechazaSiDejaNegativo si el stock se movió después del cómputo y
// la corrección dejaría la cantidad bajo cero, la conciliación entera falla.
func TestCommit_RechazaSiDejaNegativo(t *testing.T) {
	f := newFixture()
	f.seedStock(t, prodPolo, 10)
	ctx := context.Background()

	session, err := f.uc.Compute(ctx, managerStock(), dto.ComputeSessionRequest{
		BoutiqueID: testBoutique,
		Items:      []dto.CountedItemDTO{{ProductID: prodPolo, Counted: 0}}, // delta -10
	})
	require.NoError(t, err)

	// Entre cómputo y conciliación se venden 5 unidades: quedan 5 y la
	// corrección de -10 ya no cabe.
	err = f.store.TxRunner().Run(ctx, func(r ledger.TxRepos) error {
		_, err := ledger.ApplyLineTx(ctx, r.Stock, r.Audit, ledger.LineDelta{
			TenantID: testTenant, BoutiqueID: testBoutique, ProductID: prodPolo,
			Delta: -5, Reason: entity.ReasonSale,
		}, time.Now())
		return err
	})
	require.NoError(t, err)

	_, err = f.uc.Commit(ctx, managerStock(), session.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), f.quantity(t, prodPolo), "nada queda aplicado")

	got, err := f.uc.Get(ctx, managerStock(), session.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CommittedAt, "la sesión sigue sin conciliar y puede reintentarse")
}

func TestCommit_RolCajeroNoConcilia(t *testing.T) {
	f := newFixture()
	cajero := authz.Principal{UserID: "u-caisse", TenantID: testTenant, Role: authz.RoleCaissier}

	_, err := f.uc.Commit(context.Background(), cajero, "ses-cualquiera")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
