// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con la misma semántica transaccional que los adaptadores de
// PostgreSQL: Run toma un lock global (serializa a los escritores, que es un
// superconjunto de la exclusión por clave) y revierte el estado completo si
// el callback falla. Pensado para tests y para entornos sin base de datos.
package memory

import (
	"context"
	"sync"

	"github.com/gestock-saas/gestock-api/internal/application/ledger"
	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/domain/repository"
)

type lineKey struct {
	tenantID   string
	boutiqueID string
	productID  string
}

type recordKey struct {
	tenantID string
	id       string
}

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu        sync.Mutex
	lines     map[lineKey]*entity.StockLine
	audits    []*entity.StockAuditEntry
	transfers map[recordKey]*entity.Transfer
	restocks  map[recordKey]*entity.RestockRequest
	sessions  map[recordKey]*entity.InventorySession
	boutiques map[recordKey]*entity.Boutique
	products  map[recordKey]*entity.Product
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		lines:     make(map[lineKey]*entity.StockLine),
		transfers: make(map[recordKey]*entity.Transfer),
		restocks:  make(map[recordKey]*entity.RestockRequest),
		sessions:  make(map[recordKey]*entity.InventorySession),
		boutiques: make(map[recordKey]*entity.Boutique),
		products:  make(map[recordKey]*entity.Product),
	}
}

// snapshot copia el estado mutable para poder revertir un "rollback".
type snapshot struct {
	lines     map[lineKey]*entity.StockLine
	audits    []*entity.StockAuditEntry
	transfers map[recordKey]*entity.Transfer
	restocks  map[recordKey]*entity.RestockRequest
	sessions  map[recordKey]*entity.InventorySession
}

func (s *Store) take() snapshot {
	snap := snapshot{
		lines:     make(map[lineKey]*entity.StockLine, len(s.lines)),
		audits:    make([]*entity.StockAuditEntry, len(s.audits)),
		transfers: make(map[recordKey]*entity.Transfer, len(s.transfers)),
		restocks:  make(map[recordKey]*entity.RestockRequest, len(s.restocks)),
		sessions:  make(map[recordKey]*entity.InventorySession, len(s.sessions)),
	}
	for k, v := range s.lines {
		snap.lines[k] = cloneLine(v)
	}
	copy(snap.audits, s.audits)
	for k, v := range s.transfers {
		snap.transfers[k] = cloneTransfer(v)
	}
	for k, v := range s.restocks {
		snap.restocks[k] = cloneRestock(v)
	}
	for k, v := range s.sessions {
		snap.sessions[k] = cloneSession(v)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.lines = snap.lines
	s.audits = snap.audits
	s.transfers = snap.transfers
	s.restocks = snap.restocks
	s.sessions = snap.sessions
}

// TxRunner runner transaccional sobre el almacén.
func (s *Store) TxRunner() ledger.TxRunner { return &txRunner{store: s} }

type txRunner struct {
	store *Store
}

// Run serializa a los escritores con el lock global y revierte todo el
// estado si fn retorna error, imitando el Commit/Rollback de una tx real.
func (r *txRunner) Run(_ context.Context, fn func(tx ledger.TxRepos) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snap := r.store.take()
	err := fn(ledger.TxRepos{
		Stock:     &stockRepo{store: r.store},
		Audit:     &auditRepo{store: r.store},
		Transfers: &transferRepo{store: r.store},
		Restocks:  &restockRepo{store: r.store},
		Sessions:  &sessionRepo{store: r.store},
	})
	if err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// Accesores de repositorios fuera de transacción (lecturas y master data).

func (s *Store) Stock() repository.StockLineRepository { return &stockRepo{store: s, locking: true} }
func (s *Store) Audit() repository.StockAuditRepository { return &auditRepo{store: s, locking: true} }
func (s *Store) Transfers() repository.TransferRepository {
	return &transferRepo{store: s, locking: true}
}
func (s *Store) Restocks() repository.RestockRepository { return &restockRepo{store: s, locking: true} }
func (s *Store) Sessions() repository.InventorySessionRepository {
	return &sessionRepo{store: s, locking: true}
}
func (s *Store) Boutiques() repository.BoutiqueRepository { return &boutiqueRepo{store: s} }
func (s *Store) Products() repository.ProductRepository   { return &productRepo{store: s} }

func cloneLine(l *entity.StockLine) *entity.StockLine {
	c := *l
	return &c
}

func cloneTransfer(t *entity.Transfer) *entity.Transfer {
	c := *t
	c.Items = append([]entity.TransferItem(nil), t.Items...)
	return &c
}

func cloneRestock(r *entity.RestockRequest) *entity.RestockRequest {
	c := *r
	return &c
}

func cloneSession(s *entity.InventorySession) *entity.InventorySession {
	c := *s
	c.Items = append([]entity.InventorySessionItem(nil), s.Items...)
	return &c
}
