// Package app assembles the storefront from its configuration.
package app

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/notify"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"
	"storefront/internal/storage"
	"storefront/internal/view"
)

// App is a wired storefront ready to serve.
type App struct {
	Echo        *echo.Echo
	Hub         *notify.Hub
	AuthService service.AuthService
}

// New wires repositories, services and handlers onto a fresh echo instance.
func New(cfg *config.Config, logger zerolog.Logger, gormDB *gorm.DB, cacheClient *cache.Client) (*App, error) {
	images, err := storage.NewLocalImageStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	// Initialize repositories
	store := repository.NewStore(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.SessionTTL)
	sessionStore := auth.NewSessionStore(cacheClient)
	hub := notify.NewHub(logger)

	// Initialize services
	authService := service.NewAuthService(store.Users(), jwtService, sessionStore, cfg.AllowAdminSignup, logger)
	productService := service.NewProductService(store, images, hub, cfg.ProductDeleteMode, logger)
	cartService := service.NewCartService(store)
	checkoutService := service.NewCheckoutService(store, cfg.AllowOversell, logger)
	orderService := service.NewOrderService(store.Orders())
	exportService := service.NewExportService(store.Products())

	// Initialize handlers
	handlers := router.Handlers{
		Auth: handler.NewAuthHandler(
			authService,
			int(jwtService.TTL().Seconds()),
			strings.HasPrefix(cfg.PublicBaseURL, "https://"),
			cfg.AllowAdminSignup,
		),
		Shop:   handler.NewShopHandler(productService, cartService, checkoutService, orderService),
		Manage: handler.NewManageHandler(productService, exportService),
		API:    handler.NewAPIHandler(productService, cartService, orderService, images.URL),
		WS:     handler.NewWSHandler(hub, logger),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, logger, authService, renderer, handlers)

	return &App{Echo: e, Hub: hub, AuthService: authService}, nil
}
