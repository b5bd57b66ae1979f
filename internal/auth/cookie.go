package auth

import "net/http"

// CookieName is the cookie carrying the session token.
const CookieName = "token"

// CookieOptions controls the attributes of the token cookie. HttpOnly is
// always set and is not configurable.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
}

// SetTokenCookie issues the session cookie, expiring with the token itself.
func SetTokenCookie(w http.ResponseWriter, token Token, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token.Value,
		Path:     "/",
		Expires:  token.ExpiresAt,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// ClearTokenCookie removes the session cookie from the client.
func ClearTokenCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}
