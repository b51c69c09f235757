package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
)

var (
	testSecret    = []byte("this-is-the-active-signing-secret")
	foreignSecret = []byte("somebody-elses-signing-secret!!!")
)

func signClaims(t *testing.T, method jwt.SigningMethod, claims jwt.Claims, key interface{}) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func TestIssueValidateRoundTrip(t *testing.T) {
	now := time.Now()

	for _, secret := range [][]byte{testSecret, []byte("x"), []byte("  spaces  ")} {
		token, err := Issue(secret, now)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}

		claims, err := Validate(token, secret, now)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}

		if !claims.Authenticated {
			t.Errorf("expected authenticated claim")
		}
		if got := claims.IssuedAt.Time; got.Unix() != now.Unix() {
			t.Errorf("iat = %v, want %v", got, now)
		}
		if got := claims.ExpiresAt.Time.Sub(now); got < Lifetime-time.Second || got > Lifetime {
			t.Errorf("lifetime = %v, want ~%v", got, Lifetime)
		}
	}
}

func TestIssuedTokenCarriesNothingElse(t *testing.T) {
	token, err := Issue(testSecret, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}

	for key := range claims {
		switch key {
		case "authenticated", "iat", "exp":
		default:
			t.Errorf("unexpected claim %q", key)
		}
	}
	if len(claims) != 3 {
		t.Errorf("claims = %v", claims)
	}
}

func TestIssueWithoutSecret(t *testing.T) {
	token, err := Issue(nil, time.Now())
	if !errors.Is(err, ErrSigning) {
		t.Fatalf("err = %v, want ErrSigning", err)
	}
	if token != "" {
		t.Errorf("no token should be returned on failure")
	}
}

func TestValidateForeignSecret(t *testing.T) {
	token, err := Issue(foreignSecret, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = Validate(token, testSecret, time.Now())
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("err = %v, want ErrBadSignature", err)
	}
	if !errors.Is(err, ErrInvalidSession) {
		t.Errorf("bad signature should also be an invalid session")
	}
}

func TestValidateTamperedPayload(t *testing.T) {
	token, err := Issue(testSecret, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	// Swap the payload for one with a later expiry, keeping the original signature
	parts := strings.Split(token, ".")
	forged := signClaims(t, jwtSigningMethod, &Claims{
		Authenticated: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(365 * 24 * time.Hour)),
		},
	}, foreignSecret)
	forgedParts := strings.Split(forged, ".")
	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]

	if _, err := Validate(tampered, testSecret, time.Now()); !errors.Is(err, ErrBadSignature) {
		t.Errorf("err = %v, want ErrBadSignature", err)
	}
}

func TestValidateExpired(t *testing.T) {
	issuedAt := time.Now().Add(-8 * 24 * time.Hour)

	token, err := Issue(testSecret, issuedAt)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := Validate(token, testSecret, time.Now()); !errors.Is(err, ErrExpired) {
		t.Errorf("err = %v, want ErrExpired", err)
	}

	// Still reported as expired when the signature doesn't verify either
	if _, err := Validate(token, foreignSecret, time.Now()); !errors.Is(err, ErrExpired) {
		t.Errorf("foreign secret: err = %v, want ErrExpired", err)
	}
}

func TestValidateExpiryBoundary(t *testing.T) {
	issuedAt := time.Unix(1700000000, 0)

	token, err := Issue(testSecret, issuedAt)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	expiresAt := issuedAt.Add(Lifetime)

	if _, err := Validate(token, testSecret, expiresAt.Add(-time.Second)); err != nil {
		t.Errorf("one second before expiry: %v", err)
	}
	if _, err := Validate(token, testSecret, expiresAt); !errors.Is(err, ErrExpired) {
		t.Errorf("at expiry: err = %v, want ErrExpired", err)
	}
}

func TestValidateMalformed(t *testing.T) {
	now := time.Now()
	validExpiry := jwt.NewNumericDate(now.Add(time.Hour))

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"two segments": "abc.def",
		"bad base64":   "!!!.@@@.###",
		"alg none": signClaims(t, jwt.SigningMethodNone, &Claims{
			Authenticated:    true,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: validExpiry},
		}, jwt.UnsafeAllowNoneSignatureType),
		"hs512": signClaims(t, jwt.SigningMethodHS512, &Claims{
			Authenticated:    true,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: validExpiry},
		}, testSecret),
		"no expiry": signClaims(t, jwtSigningMethod, &Claims{
			Authenticated: true,
		}, testSecret),
		"not authenticated": signClaims(t, jwtSigningMethod, &Claims{
			Authenticated:    false,
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: validExpiry},
		}, testSecret),
		"wrong claim type": signClaims(t, jwtSigningMethod, jwt.MapClaims{
			"authenticated": "yes",
			"exp":           validExpiry.Unix(),
		}, testSecret),
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Validate(token, testSecret, now)
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestValidateWithoutSecret(t *testing.T) {
	token, err := Issue(testSecret, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := Validate(token, nil, time.Now()); !errors.Is(err, ErrNoSecret) {
		t.Errorf("err = %v, want ErrNoSecret", err)
	}
}

func TestValidateConcurrently(t *testing.T) {
	now := time.Now()
	token, err := Issue(testSecret, now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	errs := make(chan error, 32)
	for i := 0; i < cap(errs); i++ {
		go func() {
			_, err := Validate(token, testSecret, now)
			errs <- err
		}()
	}

	for i := 0; i < cap(errs); i++ {
		if err := <-errs; err != nil {
			t.Errorf("concurrent validate: %v", err)
		}
	}
}

func TestReason(t *testing.T) {
	cases := map[error]string{
		nil:             "valid",
		ErrNoSession:    "missing",
		ErrExpired:      "expired",
		ErrBadSignature: "bad-signature",
		ErrMalformed:    "malformed",
		ErrNoSecret:     "not-configured",
		ErrSigning:      "error",
	}

	for err, want := range cases {
		if got := Reason(err); got != want {
			t.Errorf("Reason(%v) = %q, want %q", err, got, want)
		}
	}
}
