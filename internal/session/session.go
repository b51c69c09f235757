package session

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

type Token = string

const Lifetime = 7 * 24 * time.Hour

// Claims carried by a session token. There's only one principal (whoever knows the passphrase),
// so there's nothing identifying in here, just the flag and the timestamps.
type Claims struct {
	Authenticated bool `json:"authenticated"`
	jwt.RegisteredClaims
}

func (c *Claims) expiredAt(now time.Time) bool {
	return c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time)
}

type SessionHandler interface {
	Start(echo.Context) error
	Destroy(echo.Context)
	GetSessionData(echo.Context) (*Claims, error)
}

var (
	ErrInvalidSession = errors.New("session token was invalid")

	ErrNoSession    = fmt.Errorf("%w: no session cookie", ErrInvalidSession)
	ErrMalformed    = fmt.Errorf("%w: malformed", ErrInvalidSession)
	ErrBadSignature = fmt.Errorf("%w: bad signature", ErrInvalidSession)
	ErrExpired      = fmt.Errorf("%w: expired", ErrInvalidSession)

	ErrSigning  = errors.New("couldn't sign session token")
	ErrNoSecret = errors.New("no session secret is configured")
)

// Short name for an invalid session error, used when logging the outcome of a check
func Reason(err error) string {
	switch {
	case err == nil:
		return "valid"
	case errors.Is(err, ErrNoSession):
		return "missing"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrBadSignature):
		return "bad-signature"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrNoSecret):
		return "not-configured"
	default:
		return "error"
	}
}
