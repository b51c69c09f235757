package session

import (
	"net/http"
	"time"
)

const CookieName = "auth_token"

func NewCookie(token Token, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(Lifetime / time.Second),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

// Tells the browser to drop the cookie straight away. That's all logging out does:
// the token itself stays valid until it expires.
func ClearCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // net/http writes this out as Max-Age=0
		Expires:  time.Unix(0, 0),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func TokenFromRequest(r *http.Request) (Token, bool) {
	authCookie, err := r.Cookie(CookieName)
	if err != nil || authCookie.Value == "" {
		return "", false
	}
	return authCookie.Value, true
}
