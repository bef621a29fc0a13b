// Package view renders the server-side HTML pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/auth"
	"storefront/internal/storage"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page names.
const (
	PageIndex          = "index"
	PageProduct        = "product"
	PageCart           = "cart"
	PageOrders         = "orders"
	PageLogin          = "login"
	PageRegister       = "register"
	PageAdmin          = "admin"
	PageSellerProducts = "seller_products"
	PageEditProduct    = "edit_product"
)

var pages = []string{
	PageIndex, PageProduct, PageCart, PageOrders, PageLogin,
	PageRegister, PageAdmin, PageSellerProducts, PageEditProduct,
}

// Page is the data every template receives.
type Page struct {
	Title     string
	Principal *auth.Principal
	Flashes   []string
	CSRF      string
	Data      interface{}
}

// Renderer implements echo.Renderer over the embedded templates.
type Renderer struct {
	templates map[string]*template.Template
}

// Ensure Renderer implements echo.Renderer
var _ echo.Renderer = (*Renderer)(nil)

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"imageURL": func(filename string) string {
		return storage.URLPrefix + "/" + filename
	},
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html",
			"templates/product_form.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.templates[name] = tmpl
	}
	return r, nil
}

// Render executes the layout for the named page.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}
