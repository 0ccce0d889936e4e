package service

import (
	"context"
	"strings"
	"time"

	"traderhub-api/internal/adminapi"
	"traderhub-api/internal/model"
	"traderhub-api/internal/repository"
)

// In-memory repositories used across the service tests.

type memCatalog struct {
	cats     []*model.Category
	products []*model.Product
	links    []*model.TraderProduct
	nextID   int64
}

func newMemCatalog() *memCatalog { return &memCatalog{} }

func (m *memCatalog) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memCatalog) GetCategoryByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range m.cats {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCatalog) GetCategoryBySourceID(_ context.Context, sourceID int64) (*model.Category, error) {
	for _, c := range m.cats {
		if c.SourceID == sourceID {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCatalog) CreateCategory(_ context.Context, c *model.Category) error {
	c.ID = m.id()
	m.cats = append(m.cats, c)
	return nil
}

func (m *memCatalog) ListCategories(_ context.Context) ([]model.Category, error) {
	out := []model.Category{}
	for _, c := range m.cats {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memCatalog) GetProductBySourceID(_ context.Context, sourceID int64) (*model.Product, error) {
	for _, p := range m.products {
		if p.SourceID == sourceID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCatalog) CreateProduct(_ context.Context, p *model.Product) error {
	p.ID = m.id()
	copied := *p
	m.products = append(m.products, &copied)
	return nil
}

func (m *memCatalog) UpdateProductSync(_ context.Context, p *model.Product) error {
	for _, existing := range m.products {
		if existing.ID == p.ID {
			existing.Price = p.Price
			existing.CentralStock = p.CentralStock
			existing.Version = p.Version
			existing.SyncedAt = p.SyncedAt
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memCatalog) ReplaceProduct(_ context.Context, p *model.Product) error {
	for _, existing := range m.products {
		if existing.ID == p.ID {
			existing.Title = p.Title
			existing.Price = p.Price
			existing.CentralStock = p.CentralStock
			existing.CategoryID = p.CategoryID
			existing.Version = p.Version
			existing.SyncedAt = p.SyncedAt
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memCatalog) GetTraderProduct(_ context.Context, traderID, productID int64) (*model.TraderProduct, error) {
	for _, tp := range m.links {
		if tp.TraderID == traderID && tp.ProductID == productID {
			copied := *tp
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCatalog) CreateTraderProduct(_ context.Context, tp *model.TraderProduct) error {
	tp.ID = m.id()
	copied := *tp
	m.links = append(m.links, &copied)
	return nil
}

func (m *memCatalog) UpdateTraderProduct(_ context.Context, tp *model.TraderProduct) error {
	for i, existing := range m.links {
		if existing.ID == tp.ID {
			copied := *tp
			m.links[i] = &copied
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memCatalog) SetDisplayOrder(_ context.Context, traderID, productID int64, displayOrder int) error {
	for _, tp := range m.links {
		if tp.TraderID == traderID && tp.ProductID == productID {
			tp.DisplayOrder = displayOrder
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memCatalog) curated(tp *model.TraderProduct) *model.CuratedProduct {
	for _, p := range m.products {
		if p.ID == tp.ProductID {
			name := ""
			for _, c := range m.cats {
				if c.ID == p.CategoryID {
					name = c.Name
				}
			}
			return &model.CuratedProduct{
				ID: p.ID, SourceID: p.SourceID, Title: p.Title, Price: p.Price,
				CentralStock: p.CentralStock, CategoryID: p.CategoryID, CategoryName: name,
				LocalDescription: tp.LocalDescription, LocalNotes: tp.LocalNotes,
				LocalImages: tp.LocalImages, Visibility: tp.Visibility, DisplayOrder: tp.DisplayOrder,
			}
		}
	}
	return nil
}

func (m *memCatalog) ListCurated(_ context.Context, traderID int64, page, limit int) ([]model.CuratedProduct, int64, error) {
	out := []model.CuratedProduct{}
	for _, tp := range m.links {
		if tp.TraderID == traderID {
			if cp := m.curated(tp); cp != nil {
				out = append(out, *cp)
			}
		}
	}
	return out, int64(len(out)), nil
}

func (m *memCatalog) GetCurated(_ context.Context, traderID, productID int64) (*model.CuratedProduct, error) {
	for _, tp := range m.links {
		if tp.TraderID == traderID && tp.ProductID == productID {
			if cp := m.curated(tp); cp != nil {
				return cp, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCatalog) ListVisible(_ context.Context, traderID int64, f repository.VisibleFilter) ([]model.CuratedProduct, int64, error) {
	out := []model.CuratedProduct{}
	for _, tp := range m.links {
		if tp.TraderID != traderID || !tp.Visibility {
			continue
		}
		cp := m.curated(tp)
		if cp == nil {
			continue
		}
		if f.CategoryID != 0 && cp.CategoryID != f.CategoryID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(cp.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *cp)
	}
	return out, int64(len(out)), nil
}

func (m *memCatalog) GetVisible(_ context.Context, traderID, productID int64) (*model.CuratedProduct, error) {
	for _, tp := range m.links {
		if tp.TraderID == traderID && tp.ProductID == productID && tp.Visibility {
			if cp := m.curated(tp); cp != nil {
				return cp, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCatalog) ListVisibleCategories(_ context.Context, traderID int64) ([]model.Category, error) {
	seen := map[int64]bool{}
	out := []model.Category{}
	for _, tp := range m.links {
		if tp.TraderID != traderID || !tp.Visibility {
			continue
		}
		cp := m.curated(tp)
		if cp == nil || seen[cp.CategoryID] {
			continue
		}
		seen[cp.CategoryID] = true
		for _, c := range m.cats {
			if c.ID == cp.CategoryID {
				out = append(out, *c)
			}
		}
	}
	return out, nil
}

var _ repository.CatalogRepository = (*memCatalog)(nil)

type memOrders struct {
	orders []*model.Order
	items  map[int64][]model.OrderItem
	nextID int64
}

func newMemOrders() *memOrders { return &memOrders{items: map[int64][]model.OrderItem{}} }

func (m *memOrders) GetBySourceID(_ context.Context, sourceID int64) (*model.Order, error) {
	for _, o := range m.orders {
		if o.SourceID == sourceID {
			copied := *o
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memOrders) Create(_ context.Context, o *model.Order, items []model.OrderItem) error {
	m.nextID++
	o.ID = m.nextID
	copied := *o
	m.orders = append(m.orders, &copied)
	for i := range items {
		items[i].OrderID = o.ID
	}
	m.items[o.ID] = append([]model.OrderItem{}, items...)
	return nil
}

func (m *memOrders) UpdateSync(_ context.Context, o *model.Order) error {
	for _, existing := range m.orders {
		if existing.ID == o.ID {
			existing.Total = o.Total
			existing.Status = o.Status
			existing.Version = o.Version
			existing.SyncedAt = o.SyncedAt
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memOrders) ListByTrader(_ context.Context, traderID int64, page, limit int) ([]model.Order, int64, error) {
	out := []model.Order{}
	for _, o := range m.orders {
		if o.TraderID == traderID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memOrders) ListByCustomer(_ context.Context, traderID int64, email string, page, limit int) ([]model.Order, int64, error) {
	out := []model.Order{}
	for _, o := range m.orders {
		if o.TraderID == traderID && o.CustomerEmail == email {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memOrders) GetForCustomer(_ context.Context, orderID, traderID int64, email string) (*model.Order, error) {
	for _, o := range m.orders {
		if o.ID == orderID && o.TraderID == traderID && o.CustomerEmail == email {
			copied := *o
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memOrders) Items(_ context.Context, orderID int64) ([]model.OrderItem, error) {
	return append([]model.OrderItem{}, m.items[orderID]...), nil
}

func (m *memOrders) Stats(_ context.Context, traderID int64) (*model.OrderStats, error) {
	stats := &model.OrderStats{}
	for _, o := range m.orders {
		if o.TraderID != traderID {
			continue
		}
		stats.TotalOrders++
		stats.TotalRevenue = stats.TotalRevenue.Add(o.Total)
		if o.Status == model.OrderPending {
			stats.PendingOrders++
		}
	}
	return stats, nil
}

var _ repository.OrderRepository = (*memOrders)(nil)

type memAudit struct {
	entries []model.AuditLog
}

func (m *memAudit) Insert(_ context.Context, entry *model.AuditLog) error {
	entry.ID = int64(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memAudit) ListByTrader(_ context.Context, traderID int64, page, limit int) ([]model.AuditLog, int64, error) {
	out := []model.AuditLog{}
	for _, e := range m.entries {
		if e.TraderID == traderID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.AuditRepository = (*memAudit)(nil)

type memSelection struct {
	byTrader map[int64][]int64
}

func newMemSelection() *memSelection { return &memSelection{byTrader: map[int64][]int64{}} }

func (m *memSelection) List(_ context.Context, traderID int64) ([]int64, error) {
	return append([]int64{}, m.byTrader[traderID]...), nil
}

func (m *memSelection) Add(_ context.Context, traderID int64, sourceIDs []int64) error {
	for _, id := range sourceIDs {
		dup := false
		for _, existing := range m.byTrader[traderID] {
			if existing == id {
				dup = true
				break
			}
		}
		if !dup {
			m.byTrader[traderID] = append(m.byTrader[traderID], id)
		}
	}
	return nil
}

func (m *memSelection) Remove(_ context.Context, traderID int64, sourceIDs []int64) error {
	kept := []int64{}
	for _, existing := range m.byTrader[traderID] {
		drop := false
		for _, id := range sourceIDs {
			if existing == id {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, existing)
		}
	}
	m.byTrader[traderID] = kept
	return nil
}

func (m *memSelection) Clear(_ context.Context, traderID int64) error {
	delete(m.byTrader, traderID)
	return nil
}

var _ repository.SelectionRepository = (*memSelection)(nil)

// stubBackend implements BackendClient with overridable functions.
type stubBackend struct {
	syncProducts func(token string, page int) ([]adminapi.FeedProduct, error)
	syncOrders   func(token string, page int) ([]adminapi.FeedOrder, error)
	refresh      func(refreshToken string) (*adminapi.TokenPair, error)
	browse       func(token string, categoryID int64) ([]adminapi.BrowseProduct, error)
	createOrder  func(req adminapi.CustomerOrderRequest) (*adminapi.CustomerOrderResponse, error)
}

func (s *stubBackend) SyncProducts(_ context.Context, token string, page int, _ time.Time) ([]adminapi.FeedProduct, error) {
	if s.syncProducts == nil {
		return nil, nil
	}
	return s.syncProducts(token, page)
}

func (s *stubBackend) SyncOrders(_ context.Context, token string, page int, _ time.Time) ([]adminapi.FeedOrder, error) {
	if s.syncOrders == nil {
		return nil, nil
	}
	return s.syncOrders(token, page)
}

func (s *stubBackend) RegisterTrader(_ context.Context, _ adminapi.RegisterTraderRequest) (*adminapi.RegisterTraderResponse, error) {
	return &adminapi.RegisterTraderResponse{UserID: 77, Status: "PENDING"}, nil
}

func (s *stubBackend) LoginTrader(_ context.Context, _, _ string) (*adminapi.LoginResponse, error) {
	return &adminapi.LoginResponse{UserID: 77, TokenPair: adminapi.TokenPair{AccessToken: "at", RefreshToken: "rt"}}, nil
}

func (s *stubBackend) RefreshToken(_ context.Context, refreshToken string) (*adminapi.TokenPair, error) {
	if s.refresh == nil {
		return &adminapi.TokenPair{AccessToken: "new-at", RefreshToken: "new-rt"}, nil
	}
	return s.refresh(refreshToken)
}

func (s *stubBackend) BrowseProducts(_ context.Context, token string, categoryID int64) ([]adminapi.BrowseProduct, error) {
	if s.browse == nil {
		return nil, nil
	}
	return s.browse(token, categoryID)
}

func (s *stubBackend) BrowseCategories(_ context.Context, _ string) ([]adminapi.BrowseCategory, error) {
	return nil, nil
}

func (s *stubBackend) CreateCustomerOrder(_ context.Context, req adminapi.CustomerOrderRequest) (*adminapi.CustomerOrderResponse, error) {
	if s.createOrder == nil {
		return &adminapi.CustomerOrderResponse{OrderID: 9001, Status: "PENDING"}, nil
	}
	return s.createOrder(req)
}

var _ BackendClient = (*stubBackend)(nil)
