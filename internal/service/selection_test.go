package service

import (
	"context"
	"testing"

	"traderhub-api/internal/adminapi"
	"traderhub-api/internal/model"
)

func browseProduct(sourceID int64, category string) adminapi.BrowseProduct {
	return adminapi.BrowseProduct{
		SourceID: sourceID, Title: "Widget", Price: "19.99", CentralStock: 10,
		Category: adminapi.BrowseCategory{SourceID: 7, Name: category},
		Version:  "v1",
	}
}

func TestSaveSelectionReusesCategoryByName(t *testing.T) {
	catalog := newMemCatalog()
	// The category already exists locally under a different source id.
	_ = catalog.CreateCategory(context.Background(), &model.Category{SourceID: 999, Name: "Electronics", Version: "v1"})

	selection := newMemSelection()
	_ = selection.Add(context.Background(), 1, []int64{100})

	backend := &stubBackend{
		browse: func(string, int64) ([]adminapi.BrowseProduct, error) {
			return []adminapi.BrowseProduct{browseProduct(100, "Electronics")}, nil
		},
	}
	svc := NewSelectionService(backend, selection, catalog, &memAudit{})

	result, err := svc.SaveSelection(context.Background(), activeTrader(), "token")
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 1 {
		t.Fatalf("expected 1 import, got %+v", result)
	}
	if len(catalog.cats) != 1 {
		t.Fatalf("category must be reused by name, got %d categories", len(catalog.cats))
	}
	p, err := catalog.GetProductBySourceID(context.Background(), 100)
	if err != nil {
		t.Fatal(err)
	}
	if p.CategoryID != catalog.cats[0].ID {
		t.Error("imported product not attached to the existing category")
	}
}

func TestSaveSelectionOverwritesExistingProduct(t *testing.T) {
	catalog := newMemCatalog()
	_ = catalog.CreateCategory(context.Background(), &model.Category{Name: "Electronics", Version: "v1"})
	stale := &model.Product{SourceID: 100, Title: "Old Title", CategoryID: 1, CentralStock: 1, Version: "v9"}
	_ = catalog.CreateProduct(context.Background(), stale)

	selection := newMemSelection()
	_ = selection.Add(context.Background(), 1, []int64{100})

	backend := &stubBackend{
		browse: func(string, int64) ([]adminapi.BrowseProduct, error) {
			return []adminapi.BrowseProduct{browseProduct(100, "Electronics")}, nil
		},
	}
	svc := NewSelectionService(backend, selection, catalog, &memAudit{})

	if _, err := svc.SaveSelection(context.Background(), activeTrader(), "token"); err != nil {
		t.Fatal(err)
	}
	p, _ := catalog.GetProductBySourceID(context.Background(), 100)
	// Unlike the sync path, the save path overwrites unconditionally,
	// title included, regardless of the stored version.
	if p.Title != "Widget" || p.Version != "v1" || p.CentralStock != 10 {
		t.Errorf("product not overwritten: %+v", p)
	}
}

func TestSaveSelectionClearsSelectionAndAudits(t *testing.T) {
	catalog := newMemCatalog()
	selection := newMemSelection()
	_ = selection.Add(context.Background(), 1, []int64{100, 404})

	backend := &stubBackend{
		browse: func(string, int64) ([]adminapi.BrowseProduct, error) {
			return []adminapi.BrowseProduct{browseProduct(100, "Electronics")}, nil
		},
	}
	audit := &memAudit{}
	svc := NewSelectionService(backend, selection, catalog, audit)

	result, err := svc.SaveSelection(context.Background(), activeTrader(), "token")
	if err != nil {
		t.Fatal(err)
	}
	if result.Imported != 1 || result.Skipped != 1 {
		t.Fatalf("expected 1 imported, 1 skipped: %+v", result)
	}
	left, _ := selection.List(context.Background(), 1)
	if len(left) != 0 {
		t.Error("selection must be cleared after save")
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.AuditSaveSelection {
		t.Errorf("expected SAVE_SELECTION audit entry, got %+v", audit.entries)
	}
}

func TestSaveSelectionEmpty(t *testing.T) {
	svc := NewSelectionService(&stubBackend{}, newMemSelection(), newMemCatalog(), &memAudit{})
	if _, err := svc.SaveSelection(context.Background(), activeTrader(), "token"); err == nil {
		t.Fatal("expected error for empty selection")
	}
}

func TestSelectionAddIsIdempotent(t *testing.T) {
	selection := newMemSelection()
	svc := NewSelectionService(&stubBackend{}, selection, newMemCatalog(), &memAudit{})

	if err := svc.Add(context.Background(), 1, []int64{100, 200}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Add(context.Background(), 1, []int64{100}); err != nil {
		t.Fatal(err)
	}
	ids, _ := svc.List(context.Background(), 1)
	if len(ids) != 2 {
		t.Errorf("re-adding must not duplicate, got %v", ids)
	}
}
