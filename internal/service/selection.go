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

// SelectionService manages the CMS selection cart and its import into
// the local catalog.
type SelectionService struct {
	backend   BackendClient
	selection repository.SelectionRepository
	catalog   repository.CatalogRepository
	audit     repository.AuditRepository
}

// NewSelectionService creates the selection service.
func NewSelectionService(backend BackendClient, selection repository.SelectionRepository,
	catalog repository.CatalogRepository, audit repository.AuditRepository) *SelectionService {
	return &SelectionService{backend: backend, selection: selection, catalog: catalog, audit: audit}
}

// List returns the selected product source ids.
func (s *SelectionService) List(ctx context.Context, traderID int64) ([]int64, error) {
	return s.selection.List(ctx, traderID)
}

// Add records source ids into the selection. Re-adding is a no-op.
func (s *SelectionService) Add(ctx context.Context, traderID int64, sourceIDs []int64) error {
	if len(sourceIDs) == 0 {
		return apierror.BadRequest("No products given")
	}
	return s.selection.Add(ctx, traderID, sourceIDs)
}

// Remove drops source ids from the selection.
func (s *SelectionService) Remove(ctx context.Context, traderID int64, sourceIDs []int64) error {
	if len(sourceIDs) == 0 {
		return apierror.BadRequest("No products given")
	}
	return s.selection.Remove(ctx, traderID, sourceIDs)
}

// Clear empties the selection.
func (s *SelectionService) Clear(ctx context.Context, traderID int64) error {
	return s.selection.Clear(ctx, traderID)
}

// SaveResult reports one selection import.
type SaveResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// SaveSelection imports the selected products from the backend catalog
// into the local store. Products already present are overwritten
// unconditionally with the browsed state; categories are deduplicated
// by name; ownership links are ensured once.
func (s *SelectionService) SaveSelection(ctx context.Context, trader *model.Trader, accessToken string) (*SaveResult, error) {
	sourceIDs, err := s.selection.List(ctx, trader.ID)
	if err != nil {
		return nil, err
	}
	if len(sourceIDs) == 0 {
		return nil, apierror.BadRequest("Selection is empty")
	}

	remote, err := s.backend.BrowseProducts(ctx, accessToken, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to browse backend catalog: %w", err)
	}
	bySource := make(map[int64]adminapi.BrowseProduct, len(remote))
	for _, p := range remote {
		bySource[p.SourceID] = p
	}

	result := &SaveResult{}
	now := time.Now().UTC()

	for _, sourceID := range sourceIDs {
		item, ok := bySource[sourceID]
		if !ok {
			result.Skipped++
			continue
		}

		cat, err := s.resolveCategory(ctx, item.Category)
		if err != nil {
			return nil, err
		}

		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			result.Skipped++
			continue
		}

		product, err := s.catalog.GetProductBySourceID(ctx, sourceID)
		switch {
		case err == repository.ErrNotFound:
			product = &model.Product{
				SourceID:     sourceID,
				Title:        item.Title,
				Price:        price,
				CentralStock: item.CentralStock,
				CategoryID:   cat.ID,
				Version:      item.Version,
				SyncedAt:     now,
			}
			if err := s.catalog.CreateProduct(ctx, product); err != nil {
				return nil, fmt.Errorf("failed to import product %d: %w", sourceID, err)
			}
		case err != nil:
			return nil, err
		default:
			product.Title = item.Title
			product.Price = price
			product.CentralStock = item.CentralStock
			product.CategoryID = cat.ID
			product.Version = item.Version
			product.SyncedAt = now
			if err := s.catalog.ReplaceProduct(ctx, product); err != nil {
				return nil, fmt.Errorf("failed to refresh product %d: %w", sourceID, err)
			}
		}

		if _, err := s.catalog.GetTraderProduct(ctx, trader.ID, product.ID); err == repository.ErrNotFound {
			tp := &model.TraderProduct{TraderID: trader.ID, ProductID: product.ID, Visibility: true}
			if err := s.catalog.CreateTraderProduct(ctx, tp); err != nil {
				return nil, fmt.Errorf("failed to link product %d: %w", sourceID, err)
			}
		} else if err != nil {
			return nil, err
		}
		result.Imported++
	}

	if err := s.selection.Clear(ctx, trader.ID); err != nil {
		log.Printf("[SelectionService] failed to clear selection: %v", err)
	}

	entry := &model.AuditLog{
		TraderID: trader.ID,
		Action:   model.AuditSaveSelection,
		Entity:   "product",
		Data: map[string]interface{}{
			"imported": result.Imported, "skipped": result.Skipped,
		},
	}
	if err := s.audit.Insert(ctx, entry); err != nil {
		log.Printf("[SelectionService] failed to write audit log: %v", err)
	}
	log.Printf("[SelectionService] trader %d imported %d products (%d skipped)",
		trader.ID, result.Imported, result.Skipped)
	return result, nil
}

// resolveCategory deduplicates by name; the browse feed carries the
// remote category id so a new row records it.
func (s *SelectionService) resolveCategory(ctx context.Context, bc adminapi.BrowseCategory) (*model.Category, error) {
	cat, err := s.catalog.GetCategoryByName(ctx, bc.Name)
	if err == nil {
		return cat, nil
	}
	if err != repository.ErrNotFound {
		return nil, err
	}
	cat = &model.Category{
		SourceID: bc.SourceID,
		Name:     bc.Name,
		Version:  "v1",
		SyncedAt: time.Now().UTC(),
	}
	if err := s.catalog.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}
