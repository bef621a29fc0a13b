package handler

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"storefront/internal/service"
	"storefront/internal/view"
)

// ShopHandler serves the customer facing pages: catalog, cart and orders.
type ShopHandler struct {
	productService  service.ProductService
	cartService     service.CartService
	checkoutService service.CheckoutService
	orderService    service.OrderService
}

// NewShopHandler creates a new shop handler.
func NewShopHandler(
	productService service.ProductService,
	cartService service.CartService,
	checkoutService service.CheckoutService,
	orderService service.OrderService,
) *ShopHandler {
	return &ShopHandler{
		productService:  productService,
		cartService:     cartService,
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// Index lists the catalog.
func (h *ShopHandler) Index(c echo.Context) error {
	products, err := h.productService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, view.PageIndex, "Products", echo.Map{"Products": products})
}

// Product shows one product.
func (h *ShopHandler) Product(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.productService.Get(c.Request().Context(), id)
	if err != nil {
		return pageError(c, err, "/")
	}
	return render(c, view.PageProduct, product.Name, echo.Map{"Product": product})
}

// Cart shows the cart with current prices.
func (h *ShopHandler) Cart(c echo.Context) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return pageError(c, err, "/")
	}
	summary, err := h.cartService.Summary(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return render(c, view.PageCart, "Cart", echo.Map{"Cart": summary})
}

// AddToCart adds the form quantity (default 1) of a product to the cart.
func (h *ShopHandler) AddToCart(c echo.Context) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return pageError(c, err, "/")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	quantity := 1
	if raw := strings.TrimSpace(c.FormValue("quantity")); raw != "" {
		quantity, err = strconv.Atoi(raw)
		if err != nil {
			return redirect(c, "/product/"+c.Param("id"), "quantity must be a whole number")
		}
	}

	if _, err := h.cartService.AddItem(c.Request().Context(), p, id, quantity); err != nil {
		return pageError(c, err, "/product/"+c.Param("id"))
	}
	return redirect(c, "/cart", "Added to cart")
}

// RemoveFromCart deletes a cart entry. Entries owned by someone else are
// left untouched.
func (h *ShopHandler) RemoveFromCart(c echo.Context) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return pageError(c, err, "/")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.cartService.RemoveItem(c.Request().Context(), p, id); err != nil {
		return pageError(c, err, "/cart")
	}
	return redirect(c, "/cart", "")
}

// Checkout places an order for the cart.
func (h *ShopHandler) Checkout(c echo.Context) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return pageError(c, err, "/")
	}
	if _, err := h.checkoutService.Checkout(c.Request().Context(), p); err != nil {
		return pageError(c, err, "/cart")
	}
	return redirect(c, "/orders", "Order placed successfully")
}

// Orders lists the user's orders.
func (h *ShopHandler) Orders(c echo.Context) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return pageError(c, err, "/")
	}
	orders, err := h.orderService.ListOrders(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return render(c, view.PageOrders, "Orders", echo.Map{"Orders": orders})
}
