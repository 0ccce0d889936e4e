package service

import (
	"context"
	"log"

	"traderhub-api/internal/model"
	"traderhub-api/internal/repository"
	"traderhub-api/pkg/apierror"
)

// forbiddenUpdateFields are backend-owned and must never change through
// the trader-facing update path.
var forbiddenUpdateFields = map[string]bool{
	"price":         true,
	"central_stock": true,
	"category_id":   true,
	"source_id":     true,
	"version":       true,
}

// ProductUpdate carries the trader-editable curation fields. Fields is
// the raw key set of the request body, checked against the forbidden
// list before anything is written.
type ProductUpdate struct {
	Fields           map[string]interface{}
	LocalDescription *string
	LocalNotes       *string
	LocalImages      []string
	Visibility       *bool
	DisplayOrder     *int
}

// ProductService exposes the trader's curated product list.
type ProductService struct {
	catalog repository.CatalogRepository
	audit   repository.AuditRepository
}

// NewProductService creates the product service.
func NewProductService(catalog repository.CatalogRepository, audit repository.AuditRepository) *ProductService {
	return &ProductService{catalog: catalog, audit: audit}
}

// List returns the trader's curated products, paginated.
func (s *ProductService) List(ctx context.Context, traderID int64, page, limit int) ([]model.CuratedProduct, int64, error) {
	return s.catalog.ListCurated(ctx, traderID, page, limit)
}

// Get returns one curated product.
func (s *ProductService) Get(ctx context.Context, traderID, productID int64) (*model.CuratedProduct, error) {
	cp, err := s.catalog.GetCurated(ctx, traderID, productID)
	if err == repository.ErrNotFound {
		return nil, apierror.NotFound("Product not found")
	}
	return cp, err
}

// Update applies trader-editable fields. Requests naming any
// backend-owned field are rejected before any mutation.
func (s *ProductService) Update(ctx context.Context, traderID, productID int64, upd ProductUpdate) (*model.TraderProduct, error) {
	for field := range upd.Fields {
		if forbiddenUpdateFields[field] {
			return nil, apierror.ValidationError("Field is managed by the backend and cannot be changed",
				apierror.FieldError{Field: field, Message: "read-only"})
		}
	}

	tp, err := s.catalog.GetTraderProduct(ctx, traderID, productID)
	if err == repository.ErrNotFound {
		return nil, apierror.NotFound("Product not found")
	}
	if err != nil {
		return nil, err
	}

	if upd.LocalDescription != nil {
		tp.LocalDescription = *upd.LocalDescription
	}
	if upd.LocalNotes != nil {
		tp.LocalNotes = *upd.LocalNotes
	}
	if upd.LocalImages != nil {
		tp.LocalImages = upd.LocalImages
	}
	if upd.Visibility != nil {
		tp.Visibility = *upd.Visibility
	}
	if upd.DisplayOrder != nil {
		tp.DisplayOrder = *upd.DisplayOrder
	}

	if err := s.catalog.UpdateTraderProduct(ctx, tp); err != nil {
		return nil, err
	}

	s.writeAudit(ctx, traderID, model.AuditProductUpdate, productID, map[string]interface{}{
		"fields": keys(upd.Fields),
	})
	return tp, nil
}

// Reorder sets the display order for a batch of products.
func (s *ProductService) Reorder(ctx context.Context, traderID int64, order []int64) error {
	if len(order) == 0 {
		return apierror.BadRequest("No products given")
	}
	for pos, productID := range order {
		if err := s.catalog.SetDisplayOrder(ctx, traderID, productID, pos); err != nil {
			return err
		}
	}
	s.writeAudit(ctx, traderID, model.AuditProductOrder, 0, map[string]interface{}{
		"count": len(order),
	})
	return nil
}

// Categories lists all locally known categories.
func (s *ProductService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.catalog.ListCategories(ctx)
}

func (s *ProductService) writeAudit(ctx context.Context, traderID int64, action string, entityID int64, data map[string]interface{}) {
	entry := &model.AuditLog{TraderID: traderID, Action: action, Entity: "product", EntityID: entityID, Data: data}
	if err := s.audit.Insert(ctx, entry); err != nil {
		log.Printf("[ProductService] failed to write audit log: %v", err)
	}
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
