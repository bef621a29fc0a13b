package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/errors"
	"storefront/internal/middleware"
	"storefront/internal/service"
	"storefront/internal/view"
)

// AuthHandler handles the login, registration and logout pages.
type AuthHandler struct {
	authService      service.AuthService
	sessionTTLSecs   int
	secureCookie     bool
	allowAdminSignup bool
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessionTTLSecs int, secureCookie, allowAdminSignup bool) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		sessionTTLSecs:   sessionTTLSecs,
		secureCookie:     secureCookie,
		allowAdminSignup: allowAdminSignup,
	}
}

// RegisterRequest represents a user registration form.
type RegisterRequest struct {
	Username string `form:"username" json:"username" validate:"required,min=4,max=80"`
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=6"`
	Role     string `form:"role" json:"role"`
}

// LoginRequest represents a login form.
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return render(c, view.PageLogin, "Login", nil)
}

// Login verifies credentials and sets the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return redirect(c, middleware.LoginPath, errors.ErrInvalidCredentials.Error())
	}
	if err := c.Validate(&req); err != nil {
		return redirect(c, middleware.LoginPath, errors.ErrInvalidCredentials.Error())
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return pageError(c, err, middleware.LoginPath)
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   h.sessionTTLSecs,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return redirect(c, "/", "Logged in successfully")
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return render(c, view.PageRegister, "Register", echo.Map{"AllowAdmin": h.allowAdminSignup})
}

// Register creates an account and sends the user to the login page.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return redirect(c, "/register", "invalid registration form")
	}
	if err := c.Validate(&req); err != nil {
		return pageError(c, err, "/register")
	}

	_, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return pageError(c, err, "/register")
	}
	return redirect(c, middleware.LoginPath, "Registered successfully")
}

// Logout ends the session and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil {
		if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
			return err
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
	})
	return redirect(c, "/", "Logged out")
}
