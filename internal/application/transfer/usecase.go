package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gestock-saas/gestock-api/internal/application/dto"
	"github.com/gestock-saas/gestock-api/internal/application/ledger"
	"github.com/gestock-saas/gestock-api/internal/domain"
	"github.com/gestock-saas/gestock-api/internal/domain/authz"
	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/domain/repository"
)

// Intentos de generación de token ante colisión de unicidad (improbable con
// 160 bits, pero el índice único manda).
const tokenAttempts = 3

// UseCase workflow de traslados entre boutiques: máquina de estados
// created -> in_transit -> received, con cancelled como escape terminal.
// Crear no toca el libro; send debita el origen y receive acredita el
// destino, cada uno en su propia transacción con el registro del traslado
// bloqueado para que enviar y recibir ocurran a lo sumo una vez.
type UseCase struct {
	txRunner     ledger.TxRunner
	transferRepo repository.TransferRepository
	boutiqueRepo repository.BoutiqueRepository
	productRepo  repository.ProductRepository
	cache        ledger.SummaryCache // opcional
}

// NewUseCase construye el workflow. cache puede ser nil.
func NewUseCase(
	txRunner ledger.TxRunner,
	transferRepo repository.TransferRepository,
	boutiqueRepo repository.BoutiqueRepository,
	productRepo repository.ProductRepository,
	cache ledger.SummaryCache,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		transferRepo: transferRepo,
		boutiqueRepo: boutiqueRepo,
		productRepo:  productRepo,
		cache:        cache,
	}
}

// Create registra un traslado en estado created. No reserva ni debita stock:
// la reserva ocurre en send. Origen y destino pueden coincidir (movimiento de
// reconteo interno). La respuesta es la única que expone el token.
func (uc *UseCase) Create(ctx context.Context, p authz.Principal, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	now := time.Now()
	if err := authz.Check(p, authz.ActionTransferCreate, authz.Scope{TenantID: p.TenantID, BoutiqueID: in.SourceBoutiqueID}, now); err != nil {
		return nil, err
	}
	if in.SourceBoutiqueID == "" || in.DestBoutiqueID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity <= 0 || seen[it.ProductID] {
			return nil, domain.ErrInvalidInput
		}
		seen[it.ProductID] = true
	}

	for _, id := range []string{in.SourceBoutiqueID, in.DestBoutiqueID} {
		b, err := uc.boutiqueRepo.GetByID(ctx, p.TenantID, id)
		if err != nil {
			return nil, err
		}
		if b == nil {
			return nil, domain.ErrNotFound
		}
	}
	items := make([]entity.TransferItem, 0, len(in.Items))
	for _, it := range in.Items {
		product, err := uc.productRepo.GetByID(ctx, p.TenantID, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		items = append(items, entity.TransferItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	t := &entity.Transfer{
		ID:               uuid.New().String(),
		TenantID:         p.TenantID,
		SourceBoutiqueID: in.SourceBoutiqueID,
		DestBoutiqueID:   in.DestBoutiqueID,
		Items:            items,
		Reference:        in.Reference,
		Status:           entity.TransferStatusCreated,
		CreatedAt:        now,
		CreatedBy:        p.UserID,
	}
	var err error
	for attempt := 0; attempt < tokenAttempts; attempt++ {
		if t.Token, err = newToken(); err != nil {
			return nil, err
		}
		if err = uc.transferRepo.Create(ctx, t); err == nil {
			break
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}
	return toResponse(t, true), nil
}

// Send transición created -> in_transit: debita todas las líneas del origen
// (motivo transfer_out) en una sola transacción. Si alguna línea no tiene
// stock suficiente, el envío completo falla y ninguna queda aplicada.
func (uc *UseCase) Send(ctx context.Context, p authz.Principal, transferID string) (*dto.TransferResponse, error) {
	now := time.Now()
	if err := authz.Check(p, authz.ActionTransferSend, authz.Scope{TenantID: p.TenantID}, now); err != nil {
		return nil, err
	}
	if transferID == "" {
		return nil, domain.ErrInvalidInput
	}

	var out *entity.Transfer
	err := uc.txRunner.Run(ctx, func(r ledger.TxRepos) error {
		t, err := r.Transfers.GetByIDForUpdate(ctx, p.TenantID, transferID)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if t.Status != entity.TransferStatusCreated {
			return domain.ErrInvalidState
		}
		lines := make([]ledger.LineDelta, 0, len(t.Items))
		for _, it := range t.Items {
			lines = append(lines, ledger.LineDelta{
				TenantID:    p.TenantID,
				BoutiqueID:  t.SourceBoutiqueID,
				ProductID:   it.ProductID,
				Delta:       -it.Quantity,
				Reason:      entity.ReasonTransferOut,
				ActorUserID: p.UserID,
				RefID:       t.ID,
			})
		}
		if err := ledger.ApplyLinesTx(ctx, r.Stock, r.Audit, lines, now); err != nil {
			return err
		}
		t.Status = entity.TransferStatusInTransit
		t.SentAt = &now
		if err := r.Transfers.UpdateStatus(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, p.TenantID, out.SourceBoutiqueID)
	return toResponse(out, false), nil
}

// Receive transición in_transit -> received por ID del traslado.
// Recibir un traslado nunca enviado, ya recibido o cancelado es
// ErrInvalidState: eso es lo que impide el doble receive.
func (uc *UseCase) Receive(ctx context.Context, p authz.Principal, transferID string) (*dto.TransferResponse, error) {
	if transferID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.receive(ctx, p, func(r ledger.TxRepos) (*entity.Transfer, error) {
		return r.Transfers.GetByIDForUpdate(ctx, p.TenantID, transferID)
	})
}

// ReceiveByToken igual que Receive pero resolviendo el token de entrega.
// El token se busca solo dentro del tenant del principal: un token ajeno o
// desconocido es ErrNotFound, indistinguible de uno inexistente.
func (uc *UseCase) ReceiveByToken(ctx context.Context, p authz.Principal, token string) (*dto.TransferResponse, error) {
	if token == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.receive(ctx, p, func(r ledger.TxRepos) (*entity.Transfer, error) {
		return r.Transfers.GetByTokenForUpdate(ctx, p.TenantID, token)
	})
}

func (uc *UseCase) receive(ctx context.Context, p authz.Principal, lookup func(r ledger.TxRepos) (*entity.Transfer, error)) (*dto.TransferResponse, error) {
	now := time.Now()
	if err := authz.Check(p, authz.ActionTransferReceive, authz.Scope{TenantID: p.TenantID}, now); err != nil {
		return nil, err
	}

	var out *entity.Transfer
	err := uc.txRunner.Run(ctx, func(r ledger.TxRepos) error {
		t, err := lookup(r)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if t.Status != entity.TransferStatusInTransit {
			return domain.ErrInvalidState
		}
		lines := make([]ledger.LineDelta, 0, len(t.Items))
		for _, it := range t.Items {
			lines = append(lines, ledger.LineDelta{
				TenantID:    p.TenantID,
				BoutiqueID:  t.DestBoutiqueID,
				ProductID:   it.ProductID,
				Delta:       it.Quantity,
				Reason:      entity.ReasonTransferIn,
				ActorUserID: p.UserID,
				RefID:       t.ID,
			})
		}
		if err := ledger.ApplyLinesTx(ctx, r.Stock, r.Audit, lines, now); err != nil {
			return err
		}
		t.Status = entity.TransferStatusReceived
		t.ReceivedAt = &now
		if err := r.Transfers.UpdateStatus(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, p.TenantID, out.DestBoutiqueID)
	return toResponse(out, false), nil
}

// Cancel cancela un traslado. Desde created no hay efecto en el libro (crear
// nunca debitó). Desde in_transit la mercancía vuelve al origen: se acredita
// cada línea en la boutique de origen (motivo transfer_in, ref el traslado),
// de modo que la auditoría muestra el viaje de ida y vuelta completo.
// Estados terminales rechazan con ErrInvalidState.
func (uc *UseCase) Cancel(ctx context.Context, p authz.Principal, transferID string) (*dto.TransferResponse, error) {
	now := time.Now()
	if err := authz.Check(p, authz.ActionTransferCancel, authz.Scope{TenantID: p.TenantID}, now); err != nil {
		return nil, err
	}
	if transferID == "" {
		return nil, domain.ErrInvalidInput
	}

	var out *entity.Transfer
	err := uc.txRunner.Run(ctx, func(r ledger.TxRepos) error {
		t, err := r.Transfers.GetByIDForUpdate(ctx, p.TenantID, transferID)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		switch t.Status {
		case entity.TransferStatusCreated:
			// sin efecto en el libro
		case entity.TransferStatusInTransit:
			lines := make([]ledger.LineDelta, 0, len(t.Items))
			for _, it := range t.Items {
				lines = append(lines, ledger.LineDelta{
					TenantID:    p.TenantID,
					BoutiqueID:  t.SourceBoutiqueID,
					ProductID:   it.ProductID,
					Delta:       it.Quantity,
					Reason:      entity.ReasonTransferIn,
					ActorUserID: p.UserID,
					RefID:       t.ID,
				})
			}
			if err := ledger.ApplyLinesTx(ctx, r.Stock, r.Audit, lines, now); err != nil {
				return err
			}
		default:
			return domain.ErrInvalidState
		}
		t.Status = entity.TransferStatusCancelled
		t.CancelledAt = &now
		if err := r.Transfers.UpdateStatus(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx, p.TenantID, out.SourceBoutiqueID)
	return toResponse(out, false), nil
}

// Get consulta un traslado por ID (sin token).
func (uc *UseCase) Get(ctx context.Context, p authz.Principal, transferID string) (*dto.TransferResponse, error) {
	if err := authz.Check(p, authz.ActionInventoryRead, authz.Scope{TenantID: p.TenantID}, time.Now()); err != nil {
		return nil, err
	}
	t, err := uc.transferRepo.GetByID(ctx, p.TenantID, transferID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return toResponse(t, false), nil
}

// List lista los traslados del tenant con paginación.
func (uc *UseCase) List(ctx context.Context, p authz.Principal, limit, offset int) (*dto.TransferListResponse, error) {
	if err := authz.Check(p, authz.ActionInventoryRead, authz.Scope{TenantID: p.TenantID}, time.Now()); err != nil {
		return nil, err
	}
	list, err := uc.transferRepo.ListByTenant(ctx, p.TenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toResponse(t, false))
	}
	return &dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func (uc *UseCase) invalidate(ctx context.Context, tenantID string, boutiqueIDs ...string) {
	if uc.cache == nil {
		return
	}
	_ = uc.cache.Invalidate(ctx, tenantID, boutiqueIDs...)
}

func toResponse(t *entity.Transfer, withToken bool) *dto.TransferResponse {
	items := make([]dto.TransferItemDTO, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, dto.TransferItemDTO{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	resp := &dto.TransferResponse{
		ID:               t.ID,
		SourceBoutiqueID: t.SourceBoutiqueID,
		DestBoutiqueID:   t.DestBoutiqueID,
		Items:            items,
		Reference:        t.Reference,
		Status:           t.Status,
		CreatedAt:        t.CreatedAt,
		SentAt:           t.SentAt,
		ReceivedAt:       t.ReceivedAt,
		CancelledAt:      t.CancelledAt,
	}
	if withToken {
		resp.Token = t.Token
	}
	return resp
}
