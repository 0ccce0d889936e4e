package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"traderhub-api/internal/adminapi"
	"traderhub-api/internal/model"
	"traderhub-api/internal/repository"
	"traderhub-api/pkg/apierror"
)

// BackendClient is the slice of the admin backend client the services
// depend on. *adminapi.Client satisfies it; tests substitute stubs.
type BackendClient interface {
	SyncProducts(ctx context.Context, token string, page int, since time.Time) ([]adminapi.FeedProduct, error)
	SyncOrders(ctx context.Context, token string, page int, since time.Time) ([]adminapi.FeedOrder, error)
	RegisterTrader(ctx context.Context, req adminapi.RegisterTraderRequest) (*adminapi.RegisterTraderResponse, error)
	LoginTrader(ctx context.Context, email, password string) (*adminapi.LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*adminapi.TokenPair, error)
	BrowseProducts(ctx context.Context, token string, categorySourceID int64) ([]adminapi.BrowseProduct, error)
	BrowseCategories(ctx context.Context, token string) ([]adminapi.BrowseCategory, error)
	CreateCustomerOrder(ctx context.Context, req adminapi.CustomerOrderRequest) (*adminapi.CustomerOrderResponse, error)
}

// SyncResult reports one sync run.
type SyncResult struct {
	Synced  int `json:"synced"`
	New     int `json:"new"`
	Updated int `json:"updated"`
}

// SyncService reconciles the remote product and order feeds into the
// local store.
type SyncService struct {
	backend BackendClient
	catalog repository.CatalogRepository
	orders  repository.OrderRepository
	audit   repository.AuditRepository
	tokens  *TokenService
}

// NewSyncService creates the sync service.
func NewSyncService(backend BackendClient, catalog repository.CatalogRepository,
	orders repository.OrderRepository, audit repository.AuditRepository, tokens *TokenService) *SyncService {
	return &SyncService{backend: backend, catalog: catalog, orders: orders, audit: audit, tokens: tokens}
}

// resolveCategory finds a category by name, creating it from the feed
// row when absent. Names are the dedup key; the remote id is recorded
// only on first sight.
func (s *SyncService) resolveCategory(ctx context.Context, name string, sourceID int64) (*model.Category, error) {
	cat, err := s.catalog.GetCategoryByName(ctx, name)
	if err == nil {
		return cat, nil
	}
	if err != repository.ErrNotFound {
		return nil, err
	}
	cat = &model.Category{
		SourceID: sourceID,
		Name:     name,
		Version:  "v1",
		SyncedAt: time.Now().UTC(),
	}
	if err := s.catalog.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// SyncProducts fetches one page of the product feed and reconciles it.
// A fetch failure aborts before any local write.
func (s *SyncService) SyncProducts(ctx context.Context, trader *model.Trader, accessToken string) (*SyncResult, error) {
	items, err := s.backend.SyncProducts(ctx, accessToken, 1, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("product sync fetch failed: %w", err)
	}

	result := &SyncResult{Synced: len(items)}
	now := time.Now().UTC()

	for _, item := range items {
		cat, err := s.resolveCategory(ctx, item.Category, item.SourceID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve category %q: %w", item.Category, err)
		}

		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			log.Printf("[SyncService] skipping product %d: bad price %q", item.SourceID, item.Price)
			continue
		}

		product, err := s.catalog.GetProductBySourceID(ctx, item.SourceID)
		switch {
		case err == repository.ErrNotFound:
			product = &model.Product{
				SourceID:     item.SourceID,
				Title:        item.Title,
				Price:        price,
				CentralStock: item.CentralStock,
				CategoryID:   cat.ID,
				Version:      item.Version,
				SyncedAt:     now,
			}
			if err := s.catalog.CreateProduct(ctx, product); err != nil {
				return nil, fmt.Errorf("failed to create product %d: %w", item.SourceID, err)
			}
			result.New++
		case err != nil:
			return nil, err
		case product.Version != item.Version:
			product.Price = price
			product.CentralStock = item.CentralStock
			product.Version = item.Version
			product.SyncedAt = now
			if err := s.catalog.UpdateProductSync(ctx, product); err != nil {
				return nil, fmt.Errorf("failed to update product %d: %w", item.SourceID, err)
			}
			result.Updated++
		}

		// Ownership link is created once and never touched again, so
		// curated visibility and ordering survive re-syncs.
		if _, err := s.catalog.GetTraderProduct(ctx, trader.ID, product.ID); err == repository.ErrNotFound {
			tp := &model.TraderProduct{
				TraderID:   trader.ID,
				ProductID:  product.ID,
				Visibility: true,
			}
			if err := s.catalog.CreateTraderProduct(ctx, tp); err != nil {
				return nil, fmt.Errorf("failed to link product %d: %w", item.SourceID, err)
			}
		} else if err != nil {
			return nil, err
		}
	}

	s.writeAudit(ctx, trader.ID, model.AuditSync, "product", map[string]interface{}{
		"synced": result.Synced, "new": result.New, "updated": result.Updated,
	})
	log.Printf("[SyncService] trader %d products: %d synced, %d new, %d updated",
		trader.ID, result.Synced, result.New, result.Updated)
	return result, nil
}

// SyncOrders fetches one page of the order feed and reconciles it.
// Line items are written only for brand-new orders.
func (s *SyncService) SyncOrders(ctx context.Context, trader *model.Trader, accessToken string) (*SyncResult, error) {
	if !trader.Linked() {
		return nil, apierror.BadRequest("Trader not linked to backend user")
	}

	feed, err := s.backend.SyncOrders(ctx, accessToken, 1, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("order sync fetch failed: %w", err)
	}

	result := &SyncResult{Synced: len(feed)}
	now := time.Now().UTC()

	for _, remote := range feed {
		total, err := decimal.NewFromString(remote.TotalPrice)
		if err != nil {
			log.Printf("[SyncService] skipping order %d: bad total %q", remote.SourceID, remote.TotalPrice)
			continue
		}

		order, err := s.orders.GetBySourceID(ctx, remote.SourceID)
		switch {
		case err == repository.ErrNotFound:
			createdAt := now
			if t, perr := time.Parse(time.RFC3339, remote.CreatedAt); perr == nil {
				createdAt = t
			}
			order = &model.Order{
				SourceID:      remote.SourceID,
				TraderID:      trader.ID,
				CustomerEmail: remote.CustomerEmail,
				Total:         total,
				Status:        model.ParseOrderStatus(remote.Status),
				Version:       remote.Version,
				CreatedAt:     createdAt,
				SyncedAt:      now,
			}
			items := make([]model.OrderItem, 0, len(remote.Items))
			for _, ri := range remote.Items {
				product, perr := s.catalog.GetProductBySourceID(ctx, ri.ProductID)
				if perr == repository.ErrNotFound {
					log.Printf("[SyncService] order %d references unknown product %d, skipping item",
						remote.SourceID, ri.ProductID)
					continue
				}
				if perr != nil {
					return nil, perr
				}
				snapshot, derr := decimal.NewFromString(ri.PriceAtPurchase)
				if derr != nil {
					snapshot = product.Price
				}
				items = append(items, model.OrderItem{
					ProductID:     product.ID,
					Quantity:      ri.Quantity,
					PriceSnapshot: snapshot,
				})
			}
			if err := s.orders.Create(ctx, order, items); err != nil {
				return nil, fmt.Errorf("failed to create order %d: %w", remote.SourceID, err)
			}
			result.New++
		case err != nil:
			return nil, err
		case order.Version != remote.Version:
			order.Total = total
			order.Status = model.ParseOrderStatus(remote.Status)
			order.Version = remote.Version
			order.SyncedAt = now
			if err := s.orders.UpdateSync(ctx, order); err != nil {
				return nil, fmt.Errorf("failed to update order %d: %w", remote.SourceID, err)
			}
			result.Updated++
		}
	}

	s.writeAudit(ctx, trader.ID, model.AuditSyncOrders, "order", map[string]interface{}{
		"synced": result.Synced, "new": result.New, "updated": result.Updated,
	})
	log.Printf("[SyncService] trader %d orders: %d synced, %d new, %d updated",
		trader.ID, result.Synced, result.New, result.Updated)
	return result, nil
}

// withRefresh runs fn with the session's backend access token. When the
// failure reads like token expiry it refreshes the backend pair once,
// persists it into the session and retries exactly once.
func (s *SyncService) withRefresh(ctx context.Context, sessionToken string, sess *model.SessionData,
	fn func(accessToken string) (*SyncResult, error)) (*SyncResult, error) {

	result, err := fn(sess.BackendAccessToken)
	if err == nil || !adminapi.LooksExpired(err) {
		return result, err
	}
	if sess.BackendRefreshToken == "" {
		return nil, err
	}

	log.Printf("[SyncService] backend token rejected, refreshing: %v", err)
	pair, rerr := s.backend.RefreshToken(ctx, sess.BackendRefreshToken)
	if rerr != nil {
		return nil, fmt.Errorf("token refresh failed: %w", rerr)
	}
	sess.BackendAccessToken = pair.AccessToken
	sess.BackendRefreshToken = pair.RefreshToken
	if s.tokens != nil {
		if serr := s.tokens.UpdateBackendTokens(ctx, sessionToken, pair.AccessToken, pair.RefreshToken); serr != nil {
			log.Printf("[SyncService] failed to persist refreshed tokens: %v", serr)
		}
	}
	return fn(pair.AccessToken)
}

// SyncProductsWithRefresh is SyncProducts behind the token-refresh wrapper.
func (s *SyncService) SyncProductsWithRefresh(ctx context.Context, trader *model.Trader,
	sessionToken string, sess *model.SessionData) (*SyncResult, error) {
	return s.withRefresh(ctx, sessionToken, sess, func(token string) (*SyncResult, error) {
		return s.SyncProducts(ctx, trader, token)
	})
}

// SyncOrdersWithRefresh is SyncOrders behind the token-refresh wrapper.
func (s *SyncService) SyncOrdersWithRefresh(ctx context.Context, trader *model.Trader,
	sessionToken string, sess *model.SessionData) (*SyncResult, error) {
	return s.withRefresh(ctx, sessionToken, sess, func(token string) (*SyncResult, error) {
		return s.SyncOrders(ctx, trader, token)
	})
}

func (s *SyncService) writeAudit(ctx context.Context, traderID int64, action, entity string, data map[string]interface{}) {
	entry := &model.AuditLog{TraderID: traderID, Action: action, Entity: entity, Data: data}
	if err := s.audit.Insert(ctx, entry); err != nil {
		log.Printf("[SyncService] failed to write audit log: %v", err)
	}
}
