package middleware

import (
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"storefront/internal/auth"
	"storefront/internal/service"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "session"

// PrincipalKey is the echo context key of the request principal.
const PrincipalKey = "principal"

// Session resolves the session cookie into an *auth.Principal stored under
// PrincipalKey. Requests without a valid session continue anonymously.
func Session(authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + SessionCookie,
		ContextKey:  PrincipalKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authService.Authenticate(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}

// PrincipalFrom returns the request principal, or nil for anonymous requests.
func PrincipalFrom(c echo.Context) *auth.Principal {
	p, _ := c.Get(PrincipalKey).(*auth.Principal)
	return p
}
