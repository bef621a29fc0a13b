package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront/internal/service"
	"storefront/internal/view"
)

const (
	adminPath  = "/admin"
	sellerPath = "/seller/products"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ManageHandler serves the admin and seller product management pages.
type ManageHandler struct {
	productService service.ProductService
	exportService  service.ExportService
}

// NewManageHandler creates a new product management handler.
func NewManageHandler(productService service.ProductService, exportService service.ExportService) *ManageHandler {
	return &ManageHandler{productService: productService, exportService: exportService}
}

// AdminPage lists every product with the add form.
func (h *ManageHandler) AdminPage(c echo.Context) error {
	products, err := h.productService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return render(c, view.PageAdmin, "Admin", echo.Map{
		"Products": products,
		"FormView": newProductFormView(c, adminPath, "Add Product", ProductForm{}),
	})
}

// AdminCreate adds a product owned by the admin.
func (h *ManageHandler) AdminCreate(c echo.Context) error {
	return h.create(c, adminPath)
}

// AdminDelete deletes any product.
func (h *ManageHandler) AdminDelete(c echo.Context) error {
	return h.delete(c, adminPath)
}

// AdminExport downloads the catalog as an xlsx workbook.
func (h *ManageHandler) AdminExport(c echo.Context) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return pageError(c, err, adminPath)
	}

	var buf bytes.Buffer
	if err := h.exportService.WriteXLSX(c.Request().Context(), p, &buf); err != nil {
		return pageError(c, err, adminPath)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=products.xlsx")
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// SellerPage lists the seller's own products with the add form.
func (h *ManageHandler) SellerPage(c echo.Context) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return pageError(c, err, "/")
	}
	products, err := h.productService.ListBySeller(c.Request().Context(), p)
	if err != nil {
		return pageError(c, err, "/")
	}
	return render(c, view.PageSellerProducts, "My products", echo.Map{
		"Products": products,
		"FormView": newProductFormView(c, sellerPath, "Add Product", ProductForm{}),
	})
}

// SellerCreate adds a product owned by the seller.
func (h *ManageHandler) SellerCreate(c echo.Context) error {
	return h.create(c, sellerPath)
}

// EditPage shows the edit form pre-filled with the product.
func (h *ManageHandler) EditPage(c echo.Context) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return pageError(c, err, "/")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.productService.Get(c.Request().Context(), id)
	if err != nil {
		return pageError(c, err, sellerPath)
	}
	if !product.OwnedBy(p.UserID) {
		return redirect(c, sellerPath, "Unauthorized")
	}

	form := ProductForm{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price.StringFixed(2),
		Stock:       strconv.Itoa(product.Stock),
	}
	return render(c, view.PageEditProduct, "Edit product", echo.Map{
		"Product":  product,
		"FormView": newProductFormView(c, c.Request().URL.Path, "Update Product", form),
	})
}

// Edit saves the edit form.
func (h *ManageHandler) Edit(c echo.Context) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return pageError(c, err, "/")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	back := c.Request().URL.Path

	product, err := h.productService.Get(c.Request().Context(), id)
	if err != nil {
		return pageError(c, err, sellerPath)
	}
	if !product.OwnedBy(p.UserID) {
		return redirect(c, sellerPath, "Unauthorized")
	}

	in, closer, err := bindProductForm(c)
	if err != nil {
		return pageError(c, err, back)
	}
	defer closer.Close()

	if _, err := h.productService.Update(c.Request().Context(), p, id, in); err != nil {
		return pageError(c, err, back)
	}
	return redirect(c, sellerPath, "Product updated")
}

// SellerDelete deletes one of the seller's products.
func (h *ManageHandler) SellerDelete(c echo.Context) error {
	return h.delete(c, sellerPath)
}

func (h *ManageHandler) create(c echo.Context, back string) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return pageError(c, err, "/")
	}
	in, closer, err := bindProductForm(c)
	if err != nil {
		return pageError(c, err, back)
	}
	defer closer.Close()

	if _, err := h.productService.Create(c.Request().Context(), p, in); err != nil {
		return pageError(c, err, back)
	}
	return redirect(c, back, "Product added")
}

func (h *ManageHandler) delete(c echo.Context, back string) error {
	p, err := mustPrincipal(c)
	if err != nil {
		return pageError(c, err, "/")
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.productService.Delete(c.Request().Context(), p, id); err != nil {
		return pageError(c, err, back)
	}
	return redirect(c, back, "Product deleted")
}
