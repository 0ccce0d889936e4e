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
	log.Println("Starting TraderHub shop...")

	cfg := config.MustLoad()
	if os.Getenv("SHOP_SERVER_PORT") == "" {
		cfg.ShopServer.Port = 8081
	}
	log.Printf("Environment: %s, shop %q for trader %d",
		cfg.App.Environment, cfg.Shop.Name, cfg.Shop.TraderID)

	db, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer db.Close()

	var sessionStore cache.Store
	redisStore, err := cache.NewRedisStore(cfg.Redis)
	if err != nil {
		log.Printf("Warning: Redis unavailable, using in-memory sessions and carts: %v", err)
		sessionStore = cache.NewMemoryStore()
	} else {
		sessionStore = redisStore
	}
	defer sessionStore.Close()

	catalogRepo := repository.NewCatalogRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	customerRepo := repository.NewCustomerRepository(db)

	backend := adminapi.NewClient(cfg.AdminAPI)

	tokenService := service.NewTokenService(sessionStore, cfg.Session.TokenTTL)
	customerService := service.NewCustomerService(customerRepo, tokenService)
	cartService := service.NewCartService(sessionStore, catalogRepo, cfg.Shop.TraderID, cfg.Session.CartTTL)
	checkoutService := service.NewCheckoutService(backend, sessionStore, catalogRepo, orderRepo, cfg.Shop.TraderID)
	orderService := service.NewOrderService(orderRepo)

	r := router.NewShop(router.ShopDeps{
		Health:     handler.NewHealthHandler(cfg.Shop.Name, cfg.App.Version),
		Auth:       handler.NewShopAuthHandler(customerService),
		Product:    handler.NewShopProductHandler(catalogRepo, cfg.Shop.TraderID),
		Cart:       handler.NewShopCartHandler(cartService),
		Order:      handler.NewShopOrderHandler(checkoutService, orderService, cfg.Shop.TraderID),
		Tokens:     tokenService,
		CartSecret: cfg.Session.Secret,
		CartTTL:    cfg.Session.CartTTL,
	})

	srv := &http.Server{
		Addr:         cfg.ShopServer.Address(),
		Handler:      r,
		ReadTimeout:  cfg.ShopServer.ReadTimeout,
		WriteTimeout: cfg.ShopServer.WriteTimeout,
	}

	go func() {
		log.Printf("Shop listening on %s", cfg.ShopServer.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down shop...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShopServer.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Shop stopped")
}
