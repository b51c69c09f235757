package session

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

var jwtSigningMethod = jwt.SigningMethodHS256

var errUnsupportedAlg = errors.New("invalid signing method found on jwt")

// Expiry is checked by Validate against the caller's clock, rather than jwt's global TimeFunc
var jwtParser = jwt.NewParser(jwt.WithoutClaimsValidation())

// Mints a token for a freshly authenticated visitor, expiring Lifetime after now
func Issue(secret []byte, now time.Time) (Token, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("%w: %v", ErrSigning, ErrNoSecret)
	}

	claims := &Claims{
		Authenticated: true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(Lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}

	return signed, nil
}

// Checks the token's signature and expiry. Every failure wraps ErrInvalidSession, and is one of
// ErrMalformed, ErrExpired or ErrBadSignature. A past expiry is reported as ErrExpired whether or not the signature holds up.
func Validate(tokenStr Token, secret []byte, now time.Time) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}

	claims := new(Claims)

	_, err := jwtParser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		signingMethod, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok || signingMethod.Alg() != jwtSigningMethod.Alg() {
			return nil, errUnsupportedAlg
		}

		return secret, nil
	})

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		if claims.expiredAt(now) {
			return nil, ErrExpired
		}
		return nil, ErrBadSignature
	default:
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: no expiry", ErrMalformed)
	}

	if !claims.Authenticated {
		return nil, fmt.Errorf("%w: not an authenticated session", ErrMalformed)
	}

	if claims.expiredAt(now) {
		return nil, ErrExpired
	}

	return claims, nil
}

type JWTSessionHandler struct {
	Secret       []byte
	CookieSecure bool

	// Defaults to time.Now
	Clock func() time.Time
}

func (s *JWTSessionHandler) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *JWTSessionHandler) Start(c echo.Context) error {
	signedSessToken, err := Issue(s.Secret, s.now())
	if err != nil {
		return err
	}

	c.SetCookie(NewCookie(signedSessToken, s.CookieSecure))
	return nil
}

func (s *JWTSessionHandler) Destroy(c echo.Context) {
	c.SetCookie(ClearCookie(s.CookieSecure))
}

func (s *JWTSessionHandler) GetSessionData(c echo.Context) (*Claims, error) {
	token, ok := TokenFromRequest(c.Request())
	if !ok {
		return nil, ErrNoSession
	}

	return Validate(token, s.Secret, s.now())
}
