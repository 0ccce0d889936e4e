package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"traderhub-api/internal/adminapi"
	"traderhub-api/internal/cache"
	"traderhub-api/internal/config"
	"traderhub-api/internal/handler"
	"traderhub-api/internal/repository"
	"traderhub-api/internal/router"
	"traderhub-api/internal/service"
	"traderhub-api/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting TraderHub CMS...")

	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	db, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer db.Close()

	// Redis is preferred for sessions; memory keeps the CMS usable
	// without it, at the cost of sessions not surviving restarts.
	var sessionStore cache.Store
	redisStore, err := cache.NewRedisStore(cfg.Redis)
	if err != nil {
		log.Printf("Warning: Redis unavailable, using in-memory sessions: %v", err)
		sessionStore = cache.NewMemoryStore()
	} else {
		sessionStore = redisStore
	}
	defer sessionStore.Close()

	traderRepo := repository.NewTraderRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	selectionRepo := repository.NewSelectionRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	backend := adminapi.NewClient(cfg.AdminAPI)

	tokenService := service.NewTokenService(sessionStore, cfg.Session.TokenTTL)
	authService := service.NewAuthService(traderRepo, auditRepo, backend, tokenService)
	syncService := service.NewSyncService(backend, catalogRepo, orderRepo, auditRepo, tokenService)
	selectionService := service.NewSelectionService(backend, selectionRepo, catalogRepo, auditRepo)
	productService := service.NewProductService(catalogRepo, auditRepo)
	orderService := service.NewOrderService(orderRepo)

	r := router.NewCMS(router.CMSDeps{
		Health:  handler.NewHealthHandler(cfg.App.Name+"-cms", cfg.App.Version),
		Auth:    handler.NewCMSAuthHandler(authService),
		Product: handler.NewCMSProductHandler(productService),
		Order:   handler.NewCMSOrderHandler(orderService, auditRepo),
		Sync:    handler.NewCMSSyncHandler(syncService, authService),
		Browse:  handler.NewCMSBrowseHandler(backend, selectionService, authService),
		Tokens:  tokenService,
	})

	srv := &http.Server{
		Addr:         cfg.CMSServer.Address(),
		Handler:      r,
		ReadTimeout:  cfg.CMSServer.ReadTimeout,
		WriteTimeout: cfg.CMSServer.WriteTimeout,
	}

	go func() {
		log.Printf("CMS listening on %s", cfg.CMSServer.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down CMS...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CMSServer.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("CMS stopped")
}
