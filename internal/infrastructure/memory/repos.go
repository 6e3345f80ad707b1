package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/gestock-saas/gestock-api/internal/domain"
	"github.com/gestock-saas/gestock-api/internal/domain/entity"
	"github.com/gestock-saas/gestock-api/internal/domain/repository"
	"github.com/gestock-saas/gestock-api/pkg/normalize"
)

var (
	_ repository.StockLineRepository        = (*stockRepo)(nil)
	_ repository.StockAuditRepository       = (*auditRepo)(nil)
	_ repository.TransferRepository         = (*transferRepo)(nil)
	_ repository.RestockRepository          = (*restockRepo)(nil)
	_ repository.InventorySessionRepository = (*sessionRepo)(nil)
	_ repository.BoutiqueRepository         = (*boutiqueRepo)(nil)
	_ repository.ProductRepository          = (*productRepo)(nil)
)

// stockRepo proyección de cantidades. locking indica uso fuera de Run (el
// repo toma el lock él mismo); dentro de una tx el lock ya está tomado.
type stockRepo struct {
	store   *Store
	locking bool
}

func (r *stockRepo) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *stockRepo) Get(_ context.Context, tenantID, boutiqueID, productID string) (*entity.StockLine, error) {
	defer r.lock()()
	if l, ok := r.store.lines[lineKey{tenantID, boutiqueID, productID}]; ok {
		return cloneLine(l), nil
	}
	return &entity.StockLine{TenantID: tenantID, BoutiqueID: boutiqueID, ProductID: productID}, nil
}

func (r *stockRepo) GetForUpdate(ctx context.Context, tenantID, boutiqueID, productID string) (*entity.StockLine, error) {
	// El lock global de Run ya serializa; no hay bloqueo por fila que tomar.
	return r.Get(ctx, tenantID, boutiqueID, productID)
}

func (r *stockRepo) Upsert(_ context.Context, line *entity.StockLine) error {
	defer r.lock()()
	r.store.lines[lineKey{line.TenantID, line.BoutiqueID, line.ProductID}] = cloneLine(line)
	return nil
}

func (r *stockRepo) ListByBoutique(_ context.Context, tenantID, boutiqueID string) ([]*entity.StockLine, error) {
	defer r.lock()()
	var out []*entity.StockLine
	for k, l := range r.store.lines {
		if k.tenantID == tenantID && k.boutiqueID == boutiqueID {
			out = append(out, cloneLine(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

type auditRepo struct {
	store   *Store
	locking bool
}

func (r *auditRepo) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *auditRepo) Append(_ context.Context, e *entity.StockAuditEntry) error {
	defer r.lock()()
	c := *e
	r.store.audits = append(r.store.audits, &c)
	return nil
}

func (r *auditRepo) ListByKey(_ context.Context, tenantID, boutiqueID, productID string, limit int) ([]*entity.StockAuditEntry, error) {
	defer r.lock()()
	var out []*entity.StockAuditEntry
	for _, e := range r.store.audits {
		if e.TenantID == tenantID && e.BoutiqueID == boutiqueID && e.ProductID == productID {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *auditRepo) SumDeltas(_ context.Context, tenantID, boutiqueID, productID string) (int64, error) {
	defer r.lock()()
	var sum int64
	for _, e := range r.store.audits {
		if e.TenantID == tenantID && e.BoutiqueID == boutiqueID && e.ProductID == productID {
			sum += e.Delta
		}
	}
	return sum, nil
}

type transferRepo struct {
	store   *Store
	locking bool
}

func (r *transferRepo) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *transferRepo) Create(_ context.Context, t *entity.Transfer) error {
	defer r.lock()()
	for _, existing := range r.store.transfers {
		if existing.TenantID == t.TenantID && existing.Token == t.Token {
			return domain.ErrDuplicate
		}
	}
	r.store.transfers[recordKey{t.TenantID, t.ID}] = cloneTransfer(t)
	return nil
}

func (r *transferRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Transfer, error) {
	defer r.lock()()
	if t, ok := r.store.transfers[recordKey{tenantID, id}]; ok {
		return cloneTransfer(t), nil
	}
	return nil, nil
}

func (r *transferRepo) GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *transferRepo) GetByTokenForUpdate(_ context.Context, tenantID, token string) (*entity.Transfer, error) {
	defer r.lock()()
	for _, t := range r.store.transfers {
		if t.TenantID == tenantID && t.Token == token {
			return cloneTransfer(t), nil
		}
	}
	return nil, nil
}

func (r *transferRepo) UpdateStatus(_ context.Context, t *entity.Transfer) error {
	defer r.lock()()
	key := recordKey{t.TenantID, t.ID}
	if _, ok := r.store.transfers[key]; !ok {
		return domain.ErrNotFound
	}
	r.store.transfers[key] = cloneTransfer(t)
	return nil
}

func (r *transferRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.Transfer, error) {
	defer r.lock()()
	var out []*entity.Transfer
	for _, t := range r.store.transfers {
		if t.TenantID == tenantID {
			out = append(out, cloneTransfer(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

type restockRepo struct {
	store   *Store
	locking bool
}

func (r *restockRepo) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *restockRepo) Create(_ context.Context, req *entity.RestockRequest) error {
	defer r.lock()()
	r.store.restocks[recordKey{req.TenantID, req.ID}] = cloneRestock(req)
	return nil
}

func (r *restockRepo) GetByID(_ context.Context, tenantID, id string) (*entity.RestockRequest, error) {
	defer r.lock()()
	if req, ok := r.store.restocks[recordKey{tenantID, id}]; ok {
		return cloneRestock(req), nil
	}
	return nil, nil
}

func (r *restockRepo) GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.RestockRequest, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *restockRepo) Update(_ context.Context, req *entity.RestockRequest) error {
	defer r.lock()()
	key := recordKey{req.TenantID, req.ID}
	if _, ok := r.store.restocks[key]; !ok {
		return domain.ErrNotFound
	}
	r.store.restocks[key] = cloneRestock(req)
	return nil
}

func (r *restockRepo) ListByBoutique(_ context.Context, tenantID, boutiqueID string, limit, offset int) ([]*entity.RestockRequest, error) {
	defer r.lock()()
	var out []*entity.RestockRequest
	for _, req := range r.store.restocks {
		if req.TenantID == tenantID && req.BoutiqueID == boutiqueID {
			out = append(out, cloneRestock(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

type sessionRepo struct {
	store   *Store
	locking bool
}

func (r *sessionRepo) lock() func() {
	if !r.locking {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *sessionRepo) Create(_ context.Context, s *entity.InventorySession) error {
	defer r.lock()()
	r.store.sessions[recordKey{s.TenantID, s.ID}] = cloneSession(s)
	return nil
}

func (r *sessionRepo) GetByID(_ context.Context, tenantID, id string) (*entity.InventorySession, error) {
	defer r.lock()()
	if s, ok := r.store.sessions[recordKey{tenantID, id}]; ok {
		return cloneSession(s), nil
	}
	return nil, nil
}

func (r *sessionRepo) GetByIDForUpdate(ctx context.Context, tenantID, id string) (*entity.InventorySession, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *sessionRepo) MarkCommitted(_ context.Context, s *entity.InventorySession) error {
	defer r.lock()()
	key := recordKey{s.TenantID, s.ID}
	if _, ok := r.store.sessions[key]; !ok {
		return domain.ErrNotFound
	}
	r.store.sessions[key] = cloneSession(s)
	return nil
}

func (r *sessionRepo) ListByBoutique(_ context.Context, tenantID, boutiqueID string, limit, offset int) ([]*entity.InventorySession, error) {
	defer r.lock()()
	var out []*entity.InventorySession
	for _, s := range r.store.sessions {
		if s.TenantID == tenantID && s.BoutiqueID == boutiqueID {
			out = append(out, cloneSession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

type boutiqueRepo struct {
	store *Store
}

func (r *boutiqueRepo) Create(_ context.Context, b *entity.Boutique) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *b
	r.store.boutiques[recordKey{b.TenantID, b.ID}] = &c
	return nil
}

func (r *boutiqueRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Boutique, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if b, ok := r.store.boutiques[recordKey{tenantID, id}]; ok {
		c := *b
		return &c, nil
	}
	return nil, nil
}

func (r *boutiqueRepo) Update(_ context.Context, b *entity.Boutique) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := recordKey{b.TenantID, b.ID}
	if _, ok := r.store.boutiques[key]; !ok {
		return domain.ErrNotFound
	}
	c := *b
	r.store.boutiques[key] = &c
	return nil
}

func (r *boutiqueRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.Boutique, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Boutique
	for _, b := range r.store.boutiques {
		if b.TenantID == tenantID {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *boutiqueRepo) Delete(_ context.Context, tenantID, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.boutiques, recordKey{tenantID, id})
	return nil
}

type productRepo struct {
	store *Store
}

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.products {
		if existing.TenantID == p.TenantID && existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	c := *p
	r.store.products[recordKey{p.TenantID, p.ID}] = &c
	return nil
}

func (r *productRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.products[recordKey{tenantID, id}]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *productRepo) GetBySKU(_ context.Context, tenantID, sku string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range r.store.products {
		if p.TenantID == tenantID && p.SKU == sku {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := recordKey{p.TenantID, p.ID}
	if _, ok := r.store.products[key]; !ok {
		return domain.ErrNotFound
	}
	c := *p
	r.store.products[key] = &c
	return nil
}

func (r *productRepo) Search(_ context.Context, tenantID, query string, limit, offset int) ([]*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.store.products {
		if p.TenantID == tenantID && strings.Contains(normalize.Text(p.Name), query) {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

func (r *productRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.store.products {
		if p.TenantID == tenantID {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return page(out, limit, offset), nil
}

func (r *productRepo) Delete(_ context.Context, tenantID, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.products, recordKey{tenantID, id})
	return nil
}

// page aplica limit/offset sobre un slice ya ordenado.
func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	return in
}

// Seed helpers para tests y arranque en memoria.

// SeedBoutique inserta una boutique con marcas de tiempo actuales.
func (s *Store) SeedBoutique(tenantID, id, name string) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boutiques[recordKey{tenantID, id}] = &entity.Boutique{
		ID: id, TenantID: tenantID, Name: name, CreatedAt: now, UpdatedAt: now,
	}
}

// SeedProduct inserta un producto con marcas de tiempo actuales.
func (s *Store) SeedProduct(tenantID, id, sku, name string) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[recordKey{tenantID, id}] = &entity.Product{
		ID: id, TenantID: tenantID, SKU: sku, Name: name, CreatedAt: now, UpdatedAt: now,
	}
}
