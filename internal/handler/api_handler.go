package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/notify"
	"storefront/internal/service"
)

// APIHandler serves the JSON API.
type APIHandler struct {
	productService service.ProductService
	cartService    service.CartService
	orderService   service.OrderService
	imageURL       notify.ImageURLFunc
}

// NewAPIHandler creates a new API handler. imageURL resolves stored image
// filenames to absolute URLs.
func NewAPIHandler(
	productService service.ProductService,
	cartService service.CartService,
	orderService service.OrderService,
	imageURL notify.ImageURLFunc,
) *APIHandler {
	return &APIHandler{
		productService: productService,
		cartService:    cartService,
		orderService:   orderService,
		imageURL:       imageURL,
	}
}

// ProductResponse represents a catalog entry.
type ProductResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    *string `json:"image_url"`
	SellerID    uint    `json:"seller_id"`
}

// AddToCartRequest represents an add to cart request. Quantity defaults to 1.
type AddToCartRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  *int `json:"quantity"`
}

// MessageResponse represents a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// CartItemResponse represents one cart line.
type CartItemResponse struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

// CartResponse represents the priced cart.
type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total float64            `json:"total"`
}

// OrderItemResponse represents one purchased line.
type OrderItemResponse struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// OrderResponse represents a placed order.
type OrderResponse struct {
	ID         uint                `json:"id"`
	TotalPrice float64             `json:"total_price"`
	CreatedAt  time.Time           `json:"created_at"`
	Items      []OrderItemResponse `json:"items"`
}

// ListProducts godoc
// @Summary List products
// @Tags catalog
// @Produce json
// @Success 200 {array} ProductResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /products [get]
func (h *APIHandler) ListProducts(c echo.Context) error {
	products, err := h.productService.List(c.Request().Context())
	if err != nil {
		return apiError(err)
	}

	resp := make([]ProductResponse, 0, len(products))
	for i := range products {
		payload := notify.NewProductPayload(&products[i], h.imageURL)
		resp = append(resp, ProductResponse(payload))
	}
	return c.JSON(http.StatusOK, resp)
}

// AddToCart godoc
// @Summary Add a product to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Param request body AddToCartRequest true "Product and quantity"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security SessionCookie
// @Router /add_to_cart [post]
func (h *APIHandler) AddToCart(c echo.Context) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return apiError(err)
	}

	var req AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return apiError(errors.Validation("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return apiError(err)
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	if _, err := h.cartService.AddItem(c.Request().Context(), p, req.ProductID, quantity); err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Added to cart"})
}

// GetCart godoc
// @Summary Show the cart
// @Tags cart
// @Produce json
// @Success 200 {object} CartResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security SessionCookie
// @Router /cart [get]
func (h *APIHandler) GetCart(c echo.Context) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return apiError(err)
	}

	summary, err := h.cartService.Summary(c.Request().Context(), p)
	if err != nil {
		return apiError(err)
	}

	resp := CartResponse{Items: make([]CartItemResponse, 0, len(summary.Lines)), Total: summary.Total.InexactFloat64()}
	for _, line := range summary.Lines {
		resp.Items = append(resp.Items, CartItemResponse{
			ID:        line.EntryID,
			ProductID: line.ProductID,
			Name:      line.Name,
			Price:     line.Price.InexactFloat64(),
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal.InexactFloat64(),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// ListOrders godoc
// @Summary List the user's orders
// @Tags orders
// @Produce json
// @Success 200 {array} OrderResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security SessionCookie
// @Router /orders [get]
func (h *APIHandler) ListOrders(c echo.Context) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return apiError(err)
	}

	orders, err := h.orderService.ListOrders(c.Request().Context(), p)
	if err != nil {
		return apiError(err)
	}

	resp := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, newOrderResponse(&orders[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func newOrderResponse(o *model.Order) OrderResponse {
	resp := OrderResponse{
		ID:         o.ID,
		TotalPrice: o.TotalPrice.InexactFloat64(),
		CreatedAt:  o.CreatedAt,
		Items:      make([]OrderItemResponse, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price.InexactFloat64(),
		})
	}
	return resp
}
