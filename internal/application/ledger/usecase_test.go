package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestock-saas/gestock-api/internal/application/dto"
	"github.com/gestock-saas/gestock-api/internal/application/ledger"
	"github.com/gestock-saas/gestock-api/internal/domain"
	"github.com/gestock-saas/gestock-api/internal/domain/authz"
	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del libro de stock sobre el almacén en memoria, que replica la
// semántica transaccional de los adaptadores de PostgreSQL (lock + rollback).
// ──────────────────────────────────────────────────────────────────────────────

const (
	testTenant   = "tenant-chic"
	testBoutique = "btq-paris"
	testProduct  = "prod-polo"
)

func newFixture() (*memory.Store, *ledger.UseCase) {
	store := memory.NewStore()
	store.SeedBoutique(testTenant, testBoutique, "Boutique Rivoli")
	store.SeedProduct(testTenant, testProduct, "POLO-001", "Polo clásico")
	uc := ledger.NewUseCase(store.TxRunner(), store.Stock(), store.Audit(), store.Boutiques(), store.Products(), nil)
	return store, uc
}

func managerStock() authz.Principal {
	return authz.Principal{UserID: "u-manager", TenantID: testTenant, Role: authz.RoleManagerStock}
}

func applyDelta(t *testing.T, uc *ledger.UseCase, delta int64, reason string) *dto.StockLineResponse {
	t.Helper()
	resp, err := uc.ApplyDelta(context.Background(), managerStock(), dto.ApplyDeltaRequest{
		BoutiqueID: testBoutique,
		ProductID:  testProduct,
		Delta:      delta,
		Reason:     reason,
	})
	require.NoError(t, err, "ApplyDelta no debe fallar con datos válidos")
	return resp
}

// ── ApplyDelta ────────────────────────────────────────────────────────────────

func TestApplyDelta_EntradaIncrementa(t *testing.T) {
	_, uc := newFixture()

	resp := applyDelta(t, uc, 10, entity.ReasonStockEntry)
	assert.Equal(t, int64(10), resp.Quantity, "una clave inexistente parte de cero")

	entries, err := uc.Audit(context.Background(), managerStock(), testBoutique, testProduct, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1, "todo delta aplicado deja exactamente una entrada de auditoría")
	assert.Equal(t, int64(10), entries[0].Delta)
	assert.Equal(t, entity.ReasonStockEntry, entries[0].Reason)
	assert.Equal(t, "u-manager", entries[0].ActorUserID)
}

func TestApplyDelta_VentaDescuenta(t *testing.T) {
	_, uc := newFixture()

	applyDelta(t, uc, 10, entity.ReasonStockEntry)
	resp := applyDelta(t, uc, -3, entity.ReasonSale)

	assert.Equal(t, int64(7), resp.Quantity, "10 - 3 = 7")
}

func TestApplyDelta_RechazaStockInsuficiente(t *testing.T) {
	_, uc := newFixture()
	applyDelta(t, uc, 5, entity.ReasonStockEntry)

	_, err := uc.ApplyDelta(context.Background(), managerStock(), dto.ApplyDeltaRequest{
		BoutiqueID: testBoutique,
		ProductID:  testProduct,
		Delta:      -8,
		Reason:     entity.ReasonSale,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El rechazo no deja rastro: ni cantidad ni auditoría.
	summary, err := uc.Summary(context.Background(), managerStock(), testBoutique)
	require.NoError(t, err)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, int64(5), summary.Lines[0].Quantity, "la cantidad no cambia tras un rechazo")

	entries, err := uc.Audit(context.Background(), managerStock(), testBoutique, testProduct, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "un delta rechazado no genera entrada de auditoría")
}

func TestApplyDelta_RolSinPermiso(t *testing.T) {
	_, uc := newFixture()
	cajero := authz.Principal{UserID: "u-caisse", TenantID: testTenant, Role: authz.RoleCaissier}

	_, err := uc.ApplyDelta(context.Background(), cajero, dto.ApplyDeltaRequest{
		BoutiqueID: testBoutique,
		ProductID:  testProduct,
		Delta:      1,
		Reason:     entity.ReasonManualAdjust,
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "caissier no puede ajustar stock")
}

func TestApplyDelta_ValidaEntrada(t *testing.T) {
	_, uc := newFixture()
	casos := []struct {
		nombre string
		in     dto.ApplyDeltaRequest
	}{
		{"delta cero", dto.ApplyDeltaRequest{BoutiqueID: testBoutique, ProductID: testProduct, Delta: 0, Reason: entity.ReasonSale}},
		{"motivo desconocido", dto.ApplyDeltaRequest{BoutiqueID: testBoutique, ProductID: testProduct, Delta: 1, Reason: "regalo"}},
		{"sin boutique", dto.ApplyDeltaRequest{ProductID: testProduct, Delta: 1, Reason: entity.ReasonSale}},
		{"sin producto", dto.ApplyDeltaRequest{BoutiqueID: testBoutique, Delta: 1, Reason: entity.ReasonSale}},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := uc.ApplyDelta(context.Background(), managerStock(), c.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestApplyDelta_BoutiqueInexistente(t *testing.T) {
	_, uc := newFixture()

	_, err := uc.ApplyDelta(context.Background(), managerStock(), dto.ApplyDeltaRequest{
		BoutiqueID: "btq-fantasma",
		ProductID:  testProduct,
		Delta:      1,
		Reason:     entity.ReasonStockEntry,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyDelta_ConcurrenciaSerializada(t *testing.T) {
	_, uc := newFixture()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := uc.ApplyDelta(context.Background(), managerStock(), dto.ApplyDeltaRequest{
				BoutiqueID: testBoutique,
				ProductID:  testProduct,
				Delta:      1,
				Reason:     entity.ReasonStockEntry,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	resp, err := uc.Rebuild(context.Background(), managerStock(), testBoutique, testProduct)
	require.NoError(t, err)
	assert.Equal(t, int64(n), resp.StoredQuantity, "cada delta concurrente se aplica exactamente una vez")
	assert.True(t, resp.Consistent, "la proyección y el libro coinciden tras escrituras concurrentes")
}

// ── Audit ─────────────────────────────────────────────────────────────────────

func TestAudit_MasRecientePrimero(t *testing.T) {
	_, uc := newFixture()
	applyDelta(t, uc, 10, entity.ReasonStockEntry)
	applyDelta(t, uc, -2, entity.ReasonSale)
	applyDelta(t, uc, -1, entity.ReasonSale)

	entries, err := uc.Audit(context.Background(), managerStock(), testBoutique, testProduct, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(-1), entries[0].Delta, "la entrada más reciente va primero")
	assert.Equal(t, int64(10), entries[2].Delta)
}

func TestAudit_RespetaLimite(t *testing.T) {
	_, uc := newFixture()
	applyDelta(t, uc, 10, entity.ReasonStockEntry)
	applyDelta(t, uc, -1, entity.ReasonSale)
	applyDelta(t, uc, -1, entity.ReasonSale)

	entries, err := uc.Audit(context.Background(), managerStock(), testBoutique, testProduct, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

// ── Summary y Rebuild ─────────────────────────────────────────────────────────

func TestSummary_InstantaneaPorBoutique(t *testing.T) {
	store, uc := newFixture()
	store.SeedProduct(testTenant, "prod-chemise", "CHE-001", "Chemise blanche")

	applyDelta(t, uc, 7, entity.ReasonStockEntry)
	_, err := uc.ApplyDelta(context.Background(), managerStock(), dto.ApplyDeltaRequest{
		BoutiqueID: testBoutique, ProductID: "prod-chemise", Delta: 3, Reason: entity.ReasonStockEntry,
	})
	require.NoError(t, err)

	summary, err := uc.Summary(context.Background(), managerStock(), testBoutique)
	require.NoError(t, err)
	require.Len(t, summary.Lines, 2)
	assert.Equal(t, "prod-chemise", summary.Lines[0].ProductID, "las líneas van ordenadas por producto")
	assert.Equal(t, int64(3), summary.Lines[0].Quantity)
	assert.Equal(t, int64(7), summary.Lines[1].Quantity)
}

func TestSummary_BoutiqueInexistente(t *testing.T) {
	_, uc := newFixture()
	_, err := uc.Summary(context.Background(), managerStock(), "btq-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRebuild_ProyeccionConsistente(t *testing.T) {
	_, uc := newFixture()
	applyDelta(t, uc, 10, entity.ReasonStockEntry)
	applyDelta(t, uc, -4, entity.ReasonSale)
	applyDelta(t, uc, 2, entity.ReasonManualAdjust)

	resp, err := uc.Rebuild(context.Background(), managerStock(), testBoutique, testProduct)
	require.NoError(t, err)
	assert.Equal(t, int64(8), resp.ReplayedQuantity, "la suma de deltas reconstruye la cantidad")
	assert.Equal(t, int64(8), resp.StoredQuantity)
	assert.True(t, resp.Consistent)
}

func TestRebuild_DetectaProyeccionCorrupta(t *testing.T) {
	store, uc := newFixture()
	applyDelta(t, uc, 10, entity.ReasonStockEntry)

	// Corrupción simulada: se toca la proyección sin pasar por el libro.
	err := store.Stock().Upsert(context.Background(), &entity.StockLine{
		TenantID: testTenant, BoutiqueID: testBoutique, ProductID: testProduct,
		Quantity: 99, UpdatedAt: time.Now(),
	})
	require.NoError(t, err)

	resp, err := uc.Rebuild(context.Background(), managerStock(), testBoutique, testProduct)
	require.NoError(t, err)
	assert.Equal(t, int64(10), resp.ReplayedQuantity, "el libro es la fuente de verdad")
	assert.Equal(t, int64(99), resp.StoredQuantity)
	assert.False(t, resp.Consistent)
}

// ── Caché de resumen ──────────────────────────────────────────────────────────

// fakeCache implementación mínima de SummaryCache para observar hits,
// misses e invalidaciones sin un Redis de por medio.
type fakeCache struct {
	mu          sync.Mutex
	data        map[string][]*entity.StockLine
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]*entity.StockLine)}
}

func (c *fakeCache) Get(_ context.Context, tenantID, boutiqueID string) ([]*entity.StockLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[tenantID+"/"+boutiqueID], nil
}

func (c *fakeCache) Set(_ context.Context, tenantID, boutiqueID string, lines []*entity.StockLine) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[tenantID+"/"+boutiqueID] = lines
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, tenantID string, boutiqueIDs ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range boutiqueIDs {
		key := tenantID + "/" + id
		delete(c.data, key)
		c.invalidated = append(c.invalidated, key)
	}
	return nil
}

func TestSummary_PueblaElCacheEnMiss(t *testing.T) {
	store, _ := newFixture()
	cache := newFakeCache()
	uc := ledger.NewUseCase(store.TxRunner(), store.Stock(), store.Audit(), store.Boutiques(), store.Products(), cache)

	applyDelta(t, uc, 6, entity.ReasonStockEntry)

	_, err := uc.Summary(context.Background(), managerStock(), testBoutique)
	require.NoError(t, err)
	cached, _ := cache.Get(context.Background(), testTenant, testBoutique)
	require.Len(t, cached, 1, "el primer Summary puebla el caché")
	assert.Equal(t, int64(6), cached[0].Quantity)
}

func TestSummary_BoutiqueVaciaTambienCachea(t *testing.T) {
	store, _ := newFixture()
	cache := newFakeCache()
	uc := ledger.NewUseCase(store.TxRunner(), store.Stock(), store.Audit(), store.Boutiques(), store.Products(), cache)

	summary, err := uc.Summary(context.Background(), managerStock(), testBoutique)
	require.NoError(t, err)
	assert.Empty(t, summary.Lines)

	cached, _ := cache.Get(context.Background(), testTenant, testBoutique)
	require.NotNil(t, cached, "un resumen vacío se cachea como lista vacía, no como ausencia")

	// Escritura directa a la proyección, sin pasar por el libro ni invalidar:
	// el segundo Summary debe salir del caché y no verla.
	err = store.Stock().Upsert(context.Background(), &entity.StockLine{
		TenantID: testTenant, BoutiqueID: testBoutique, ProductID: testProduct,
		Quantity: 9, UpdatedAt: time.Now(),
	})
	require.NoError(t, err)

	summary, err = uc.Summary(context.Background(), managerStock(), testBoutique)
	require.NoError(t, err)
	assert.Empty(t, summary.Lines, "el resumen vacío cacheado sirve los hits siguientes")
}

func TestApplyDelta_InvalidaElCache(t *testing.T) {
	store, _ := newFixture()
	cache := newFakeCache()
	uc := ledger.NewUseCase(store.TxRunner(), store.Stock(), store.Audit(), store.Boutiques(), store.Products(), cache)

	applyDelta(t, uc, 6, entity.ReasonStockEntry)

	assert.Contains(t, cache.invalidated, testTenant+"/"+testBoutique,
		"toda escritura confirmada invalida el resumen de la boutique")
}
