package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"storefront/internal/config"
	"storefront/internal/errors"
	"storefront/internal/handler"
	appmw "storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"
	"storefront/internal/storage"
)

// Handlers bundles the HTTP handlers the router mounts.
type Handlers struct {
	Auth   *handler.AuthHandler
	Shop   *handler.ShopHandler
	Manage *handler.ManageHandler
	API    *handler.APIHandler
	WS     *handler.WSHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger zerolog.Logger,
	authService service.AuthService,
	renderer echo.Renderer,
	h Handlers,
) {
	e.Use(middleware.RequestID())
	e.Use(appmw.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(appmw.CORS("/api", cfg.CORSOrigins))
	e.Use(appmw.Session(authService))
	if cfg.CSRFEnabled {
		e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			Skipper: func(c echo.Context) bool {
				path := c.Request().URL.Path
				return strings.HasPrefix(path, "/api") || path == "/ws" || strings.HasPrefix(path, storage.URLPrefix)
			},
			TokenLookup:    "form:csrf",
			ContextKey:     handler.CSRFContextKey,
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}
	e.Renderer = renderer

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static(storage.URLPrefix, cfg.UploadDir)
	e.GET("/ws", h.WS.Serve)

	// Catalog and cart pages
	e.GET("/", h.Shop.Index)
	e.GET("/product/:id", h.Shop.Product)
	e.GET("/cart", h.Shop.Cart, appmw.RequireLogin("Please login to view cart"))
	e.POST("/add_to_cart/:id", h.Shop.AddToCart, appmw.RequireLogin("Please login to add to cart"))
	e.GET("/remove_from_cart/:id", h.Shop.RemoveFromCart, appmw.RequireLogin(""))
	e.POST("/checkout", h.Shop.Checkout, appmw.RequireLogin(""))
	e.GET("/orders", h.Shop.Orders, appmw.RequireLogin(""))

	// Identity pages
	e.GET("/login", h.Auth.LoginPage)
	e.POST("/login", h.Auth.Login)
	e.GET("/register", h.Auth.RegisterPage)
	e.POST("/register", h.Auth.Register)
	e.GET("/logout", h.Auth.Logout)

	admin := e.Group("/admin", appmw.RequireRole("Admin access required", model.RoleAdmin))
	admin.GET("", h.Manage.AdminPage)
	admin.POST("", h.Manage.AdminCreate)
	admin.POST("/delete/:id", h.Manage.AdminDelete)
	admin.GET("/export", h.Manage.AdminExport)

	seller := e.Group("/seller", appmw.RequireRole("Seller access required", model.RoleSeller))
	seller.GET("/products", h.Manage.SellerPage)
	seller.POST("/products", h.Manage.SellerCreate)
	seller.GET("/edit/:id", h.Manage.EditPage)
	seller.POST("/edit/:id", h.Manage.Edit)
	seller.POST("/delete/:id", h.Manage.SellerDelete)

	api := e.Group("/api")
	requireSession := appmw.RequireAPILogin()

	// Public routes
	api.GET("/products", h.API.ListProducts)

	// Session routes
	api.POST("/add_to_cart", h.API.AddToCart, requireSession)
	api.GET("/cart", h.API.GetCart, requireSession)
	api.GET("/orders", h.API.ListOrders, requireSession)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface. Failures are reported as
// validation errors naming the first offending field.
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return errors.Validation(err.Error())
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return errors.Validation(fmt.Sprintf("%s is required", field))
	case "email":
		return errors.Validation("invalid email address")
	case "min":
		return errors.Validation(fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
	case "max":
		return errors.Validation(fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
	default:
		return errors.Validation(fmt.Sprintf("%s is invalid", field))
	}
}
