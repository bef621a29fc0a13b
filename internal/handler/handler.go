package handler

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/auth"
	"storefront/internal/errors"
	"storefront/internal/flash"
	"storefront/internal/middleware"
	"storefront/internal/service"
	"storefront/internal/view"
)

// CSRFContextKey is where the CSRF middleware leaves the form token.
const CSRFContextKey = "csrf"

func principal(c echo.Context) *auth.Principal {
	return middleware.PrincipalFrom(c)
}

// mustPrincipal is for routes already behind a login gate.
func mustPrincipal(c echo.Context) (auth.Principal, error) {
	p := principal(c)
	if p == nil {
		return auth.Principal{}, errors.ErrNotAuthenticated
	}
	return *p, nil
}

func render(c echo.Context, name, title string, data interface{}) error {
	token, _ := c.Get(CSRFContextKey).(string)
	return c.Render(http.StatusOK, name, view.Page{
		Title:     title,
		Principal: principal(c),
		Flashes:   flash.Pop(c),
		CSRF:      token,
		Data:      data,
	})
}

func redirect(c echo.Context, path, message string) error {
	if message != "" {
		flash.Add(c, message)
	}
	return c.Redirect(http.StatusFound, path)
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.ErrNotFound
	}
	return uint(id), nil
}

// apiError converts a domain error into the JSON error response.
func apiError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// pageError turns domain errors into a redirect with a flash message.
// Anything unexpected is returned for the echo error handler.
func pageError(c echo.Context, err error, back string) error {
	switch {
	case stderrors.Is(err, errors.ErrNotFound):
		return echo.ErrNotFound
	case stderrors.Is(err, errors.ErrNotAuthenticated):
		return redirect(c, middleware.LoginPath, "")
	case stderrors.Is(err, errors.ErrUnauthorized),
		stderrors.Is(err, errors.ErrValidation),
		stderrors.Is(err, errors.ErrEmptyCart),
		stderrors.Is(err, errors.ErrInsufficientStock),
		stderrors.Is(err, errors.ErrDuplicateUsername),
		stderrors.Is(err, errors.ErrDuplicateEmail),
		stderrors.Is(err, errors.ErrInvalidCredentials):
		return redirect(c, back, err.Error())
	default:
		return err
	}
}

// ProductForm is the product create/edit form.
type ProductForm struct {
	Name        string `form:"name" validate:"required,max=100"`
	Description string `form:"description" validate:"required"`
	Price       string `form:"price" validate:"required"`
	Stock       string `form:"stock" validate:"required"`
}

// ProductFormView feeds the shared product form template.
type ProductFormView struct {
	Action string
	Submit string
	CSRF   string
	Form   ProductForm
}

func newProductFormView(c echo.Context, action, submit string, form ProductForm) ProductFormView {
	token, _ := c.Get(CSRFContextKey).(string)
	return ProductFormView{Action: action, Submit: submit, CSRF: token, Form: form}
}

// bindProductForm reads the multipart product form. The returned closer
// releases the uploaded image and must be called once the input is used.
func bindProductForm(c echo.Context) (service.ProductInput, io.Closer, error) {
	var form ProductForm
	if err := c.Bind(&form); err != nil {
		return service.ProductInput{}, nil, errors.Validation("invalid product form")
	}
	if err := c.Validate(&form); err != nil {
		return service.ProductInput{}, nil, err
	}

	price, err := decimal.NewFromString(strings.TrimSpace(form.Price))
	if err != nil {
		return service.ProductInput{}, nil, errors.Validation("price must be a number")
	}
	stock, err := strconv.Atoi(strings.TrimSpace(form.Stock))
	if err != nil {
		return service.ProductInput{}, nil, errors.Validation("stock must be a whole number")
	}

	in := service.ProductInput{
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		Stock:       stock,
	}

	header, err := c.FormFile("image")
	if err != nil || header.Filename == "" {
		return in, nopCloser{}, nil
	}
	file, err := header.Open()
	if err != nil {
		return service.ProductInput{}, nil, errors.Validation("could not read image")
	}
	in.Image = &service.ImageUpload{Filename: header.Filename, Content: file}
	return in, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
