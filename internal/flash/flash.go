// Package flash carries one-shot user messages across a redirect in a cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

// CookieName is the cookie holding pending messages.
const CookieName = "flash"

const contextKey = "flash.pending"

// Add queues msg for the next rendered page.
func Add(c echo.Context, msg string) {
	pending, _ := c.Get(contextKey).([]string)
	if pending == nil {
		pending = read(c)
	}
	pending = append(pending, msg)
	c.Set(contextKey, pending)
	write(c, pending)
}

// Pop returns the pending messages and clears them.
func Pop(c echo.Context) []string {
	pending, ok := c.Get(contextKey).([]string)
	if !ok {
		pending = read(c)
	}
	c.Set(contextKey, []string{})
	if len(pending) > 0 {
		c.SetCookie(&http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}
	return pending
}

func read(c echo.Context) []string {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var msgs []string
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil
	}
	return msgs
}

func write(c echo.Context, msgs []string) {
	raw, _ := json.Marshal(msgs)
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
