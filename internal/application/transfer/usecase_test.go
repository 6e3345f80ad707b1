package transfer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gestock-saas/gestock-api/internal/application/dto"
	"github.com/gestock-saas/gestock-api/internal/application/ledger"
	"github.com/gestock-saas/gestock-api/internal/application/transfer"
	"github.com/gestock-saas/gestock-api/internal/domain"
	"github.com/gestock-saas/gestock-api/internal/domain/authz"
	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del workflow de traslados: máquina de estados, efectos en el libro y
// token de entrega. El almacén en memoria reproduce commit/rollback.
// ──────────────────────────────────────────────────────────────────────────────

const (
	testTenant = "tenant-chic"
	btqSource  = "btq-paris"
	btqDest    = "btq-lyon"
	prodPolo   = "prod-polo"
	prodRobe   = "prod-robe"
)

type fixture struct {
	store *memory.Store
	uc    *transfer.UseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	store.SeedBoutique(testTenant, btqSource, "Boutique Rivoli")
	store.SeedBoutique(testTenant, btqDest, "Boutique Bellecour")
	store.SeedProduct(testTenant, prodPolo, "POLO-001", "Polo clásico")
	store.SeedProduct(testTenant, prodRobe, "ROBE-001", "Robe d'été")
	uc := transfer.NewUseCase(store.TxRunner(), store.Transfers(), store.Boutiques(), store.Products(), nil)
	return &fixture{store: store, uc: uc}
}

func managerStock() authz.Principal {
	return authz.Principal{UserID: "u-manager", TenantID: testTenant, Role: authz.RoleManagerStock}
}

// seedStock acredita cantidad inicial pasando por el libro, para que la
// auditoría quede completa desde el arranque.
func (f *fixture) seedStock(t *testing.T, boutiqueID, productID string, qty int64) {
	t.Helper()
	err := f.store.TxRunner().Run(context.Background(), func(r ledger.TxRepos) error {
		_, err := ledger.ApplyLineTx(context.Background(), r.Stock, r.Audit, ledger.LineDelta{
			TenantID:   testTenant,
			BoutiqueID: boutiqueID,
			ProductID:  productID,
			Delta:      qty,
			Reason:     entity.ReasonStockEntry,
		}, time.Now())
		return err
	})
	require.NoError(t, err)
}

func (f *fixture) quantity(t *testing.T, boutiqueID, productID string) int64 {
	t.Helper()
	line, err := f.store.Stock().Get(context.Background(), testTenant, boutiqueID, productID)
	require.NoError(t, err)
	return line.Quantity
}

func (f *fixture) auditCount(t *testing.T, boutiqueID, productID string) int {
	t.Helper()
	entries, err := f.store.Audit().ListByKey(context.Background(), testTenant, boutiqueID, productID, 0)
	require.NoError(t, err)
	return len(entries)
}

func (f *fixture) create(t *testing.T, items ...dto.TransferItemDTO) *dto.TransferResponse {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), managerStock(), dto.CreateTransferRequest{
		SourceBoutiqueID: btqSource,
		DestBoutiqueID:   btqDest,
		Items:            items,
	})
	require.NoError(t, err, "Create no debe fallar con datos válidos")
	return resp
}

// ── Ciclo de vida ─────────────────────────────────────────────────────────────

func TestTransfer_CicloCompleto(t *testing.T) {
	f := newFixture()
	f.seedStock(t, btqSource, prodPolo, 10)
	ctx := context.Background()

	created := f.create(t, dto.TransferItemDTO{ProductID: prodPolo, Quantity: 4})
	assert.Equal(t, entity.TransferStatusCreated, created.Status)
	assert.Len(t, created.Token, 32, "el token de entrega tiene 32 caracteres base32")
	assert.Equal(t, int64(10), f.quantity(t, btqSource, prodPolo), "crear no debita el origen")

	sent, err := f.uc.Send(ctx, managerStock(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusInTransit, sent.Status)
	require.NotNil(t, sent.SentAt)
	assert.Equal(t, int64(6), f.quantity(t, btqSource, prodPolo), "send debita el origen")
	assert.Equal(t, int64(0), f.quantity(t, btqDest, prodPolo), "en tránsito no hay crédito en destino")

	received, err := f.uc.Receive(ctx, managerStock(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusReceived, received.Status)
	require.NotNil(t, received.ReceivedAt)
	assert.Equal(t, int64(4), f.quantity(t, btqDest, prodPolo), "receive acredita el destino")

	// La auditoría cuenta el viaje completo con el traslado como referencia.
	salidas, err := f.store.Audit().ListByKey(ctx, testTenant, btqSource, prodPolo, 0)
	require.NoError(t, err)
	require.Len(t, salidas, 2) // entrada inicial + transfer_out
	assert.Equal(t, entity.ReasonTransferOut, salidas[0].Reason)
	assert.Equal(t, int64(-4), salidas[0].Delta)
	assert.Equal(t, created.ID, salidas[0].RefID)

	entradas, err := f.store.Audit().ListByKey(ctx, testTenant, btqDest, prodPolo, 0)
	require.NoError(t, err)
	require.Len(t, entradas, 1)
	assert.Equal(t, entity.ReasonTransferIn, entradas[0].Reason)
	assert.Equal(t, int64(4), entradas[0].Delta)
	assert.Equal(t, created.ID, entradas[0].RefID)
}

func TestCreate_ValidaItems(t *testing.T) {
	f := newFixture()
	casos := []struct {
		nombre string
		in     dto.CreateTransferRequest
	}{
		{"sin items", dto.CreateTransferRequest{SourceBoutiqueID: btqSource, DestBoutiqueID: btqDest}},
		{"cantidad cero", dto.CreateTransferRequest{SourceBoutiqueID: btqSource, DestBoutiqueID: btqDest,
			Items: []dto.TransferItemDTO{{ProductID: prodPolo, Quantity: 0}}}},
		{"producto repetido", dto.CreateTransferRequest{SourceBoutiqueID: btqSource, DestBoutiqueID: btqDest,
			Items: []dto.TransferItemDTO{{ProductID: prodPolo, Quantity: 1}, {ProductID: prodPolo, Quantity: 2}}}},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			_, err := f.uc.Create(context.Background(), managerStock(), c.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreate_BoutiqueDesconocida(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(context.Background(), managerStock(), dto.CreateTransferRequest{
		SourceBoutiqueID: btqSource,
		DestBoutiqueID:   "btq-fantasma",
		Items:            []dto.TransferItemDTO{{ProductID: prodPolo, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSend_InsuficienciaNoAplicaNada(t *testing.T) {
	f := newFixture()
	f.seedStock(t, btqSource, prodPolo, 10)
	f.seedStock(t, btqSource, prodRobe, 1)

	created := f.create(t,
		dto.TransferItemDTO{ProductID: prodPolo, Quantity: 4},
		dto.TransferItemDTO{ProductID: prodRobe, Quantity: 5}, // no alcanza
	)

	_, err := f.uc.Send(context.Background(), managerStock(), created.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Ninguna línea queda aplicada, ni siquiera la suficiente.
	assert.Equal(t, int64(10), f.quantity(t, btqSource, prodPolo))
	assert.Equal(t, int64(1), f.quantity(t, btqSource, prodRobe))
	assert.Equal(t, 1, f.auditCount(t, btqSource, prodPolo), "solo la entrada inicial")
	assert.Equal(t, 1, f.auditCount(t, btqSource, prodRobe))

	// El traslado sigue en created y puede reintentarse.
	got, err := f.uc.Get(context.Background(), managerStock(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCreated, got.Status)
}

func TestSend_DobleEnvio(t *testing.T) {
	f := newFixture()
	f.seedStock(t, btqSource, prodPolo, 10)
	created := f.create(t, dto.TransferItemDTO{ProductID: prodPolo, Quantity: 2})

	_, err := f.uc.Send(context.Background(), managerStock(), created.ID)
	require.NoError(t, err)

	_, err = f.uc.Send(context.Background(), managerStock(), created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(8), f.quantity(t, btqSource, prodPolo), "el origen se debita una sola vez")
}

func TestReceive_SinEnviar(t *testing.T) {
	f := newFixture()
	f.seedStock(t, btqSource, prodPolo, 10)
	created := f.create(t, dto.TransferItemDTO{ProductID: prodPolo, Quantity: 2})

	_, err := f.uc.Receive(context.Background(), managerStock(), created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(0), f.quantity(t, btqDest, prodPolo))
}

func TestReceive_Doble(t *testing.T) {
	f := newFixture()
	f.seedStock(t, btqSource, prodPolo, 10)
	created := f.create(t, dto.TransferItemDTO{ProductID: prodPolo, Quantity: 3})
	ctx := context.Background()

	_, err := f.uc.Send(ctx, managerStock(), created.ID)
	require.NoError(t, err)
	_, err = f.uc.Receive(ctx, managerStock(), created.ID)
	require.NoError(t, err)

	_, err = f.uc.Receive(ctx, managerStock(), created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(3), f.quantity(t, btqDest, prodPolo), "el destino se acredita una sola vez")
}

// ── Token de entrega ──────────────────────────────────────────────────────────

func TestReceiveByToken_Funciona(t *testing.T) {
	f := newFixture()
	f.seedStock(t, btqSource, prodPolo, 10)
	created := f.create(t, dto.TransferItemDTO{ProductID: prodPolo, Quantity: 4})
	ctx := context.Background()

	_, err := f.uc.Send(ctx, managerStock(), created.ID)
	require.NoError(t, err)

	received, err := f.uc.ReceiveByToken(ctx, managerStock(), created.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, received.ID)
	assert.Equal(t, entity.TransferStatusReceived, received.Status)
	assert.Equal(t, int64(4), f.quantity(t, btqDest, prodPolo))
}

func TestReceiveByToken_TenantAjeno(t *testing.T) {
	f := newFixture()
	f.seedStock(t, btqSource, prodPolo, 10)
	created := f.create(t, dto.TransferItemDTO{ProductID: prodPolo, Quantity: 4})

	_, err := f.uc.Send(context.Background(), managerStock(), created.ID)
	require.NoError(t, err)

	intruso := authz.Principal{UserID: "u-x", TenantID: "tenant-otro", Role: authz.RoleManagerStock}
	_, err = f.uc.ReceiveByToken(context.Background(), intruso, created.Token)
	assert.ErrorIs(t, err, domain.ErrNotFound,
		"un token de otro tenant se comporta como inexistente")
}

func TestGetYList_NoExponenToken(t *testing.T) {
	f := newFixture()
	f.seedStock(t, btqSource, prodPolo, 10)
	created := f.create(t, dto.TransferItemDTO{ProductID: prodPolo, Quantity: 1})
	require.NotEmpty(t, created.Token, "solo la respuesta de create expone el token")

	got, err := f.uc.Get(context.Background(), managerStock(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Token)

	list, err := f.uc.List(context.Background(), managerStock(), 10, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Empty(t, list.Items[0].Token)
}

// ── Cancelación ───────────────────────────────────────────────────────────────

func TestCancel_DesdeCreated(t *testing.T) {
	f := newFixture()
	f.seedStock(t, btqSource, prodPolo, 10)
	created := f.create(t, dto.TransferItemDTO{ProductID: prodPolo, Quantity: 4})

	cancelled, err := f.uc.Cancel(context.Background(), managerStock(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, int64(10), f.quantity(t, btqSource, prodPolo), "cancelar desde created no toca el libro")
	assert.Equal(t, 1, f.auditCount(t, btqSource, prodPolo))
}

func TestCancel_EnTransitoDevuelveAlOrigen(t *testing.T) {
	f := newFixture()
	f.seedStock(t, btqSource, prodPolo, 10)
	created := f.create(t, dto.TransferItemDTO{ProductID: prodPolo, Quantity: 4})
	ctx := context.Background()

	_, err := f.uc.Send(ctx, managerStock(), created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(6), f.quantity(t, btqSource, prodPolo))

	cancelled, err := f.uc.Cancel(ctx, managerStock(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransferStatusCancelled, cancelled.Status)
	assert.Equal(t, int64(10), f.quantity(t, btqSource, prodPolo), "la mercancía en tránsito vuelve al origen")
	assert.Equal(t, int64(0), f.quantity(t, btqDest, prodPolo))

	// El origen muestra ida y vuelta: entrada inicial, -4 y +4.
	entries, err := f.store.Audit().ListByKey(ctx, testTenant, btqSource, prodPolo, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, entity.ReasonTransferIn, entries[0].Reason)
	assert.Equal(t, int64(4), entries[0].Delta)
}

func TestCancel_RecibidoEsTerminal(t *testing.T) {
	f := newFixture()
	f.seedStock(t, btqSource, prodPolo, 10)
	created := f.create(t, dto.TransferItemDTO{ProductID: prodPolo, Quantity: 4})
	ctx := context.Background()

	_, err := f.uc.Send(ctx, managerStock(), created.ID)
	require.NoError(t, err)
	_, err = f.uc.Receive(ctx, managerStock(), created.ID)
	require.NoError(t, err)

	_, err = f.uc.Cancel(ctx, managerStock(), created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ── Casos de borde ────────────────────────────────────────────────────────────

// TestTransfer_MismaBoutiqueNetoCero un traslado con origen igual a destino
// termina con la misma cantidad, pero el viaje queda auditado entero.
func TestTransfer_MismaBoutiqueNetoCero(t *testing.T) {
	f := newFixture()
	f.seedStock(t, btqSource, prodPolo, 5)
	ctx := context.Background()

	created, err := f.uc.Create(ctx, managerStock(), dto.CreateTransferRequest{
		SourceBoutiqueID: btqSource,
		DestBoutiqueID:   btqSource,
		Items:            []dto.TransferItemDTO{{ProductID: prodPolo, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = f.uc.Send(ctx, managerStock(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.quantity(t, btqSource, prodPolo))

	_, err = f.uc.Receive(ctx, managerStock(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.quantity(t, btqSource, prodPolo), "el neto es cero")
	assert.Equal(t, 3, f.auditCount(t, btqSource, prodPolo), "entrada inicial, -2 y +2")
}

func TestTransfer_RolSinPermiso(t *testing.T) {
	f := newFixture()
	cajero := authz.Principal{UserID: "u-caisse", TenantID: testTenant, Role: authz.RoleCaissier}

	_, err := f.uc.Create(context.Background(), cajero, dto.CreateTransferRequest{
		SourceBoutiqueID: btqSource,
		DestBoutiqueID:   btqDest,
		Items:            []dto.TransferItemDTO{{ProductID: prodPolo, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
