package accesscontrol

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"strings"
)

var (
	ErrNotConfigured   = errors.New("no passphrase is configured")
	ErrWrongPassphrase = errors.New("passphrase did not match")
)

// Verifier checks submitted passphrases against the one configured shared secret
type Verifier struct {
	digest     [sha256.Size]byte
	configured bool
	length     int
}

// passphrase is expected to already be trimmed by config loading, but it's cheap to do it again
func NewVerifier(passphrase string) *Verifier {
	passphrase = strings.TrimSpace(passphrase)

	return &Verifier{
		digest:     sha256.Sum256([]byte(passphrase)),
		configured: passphrase != "",
		length:     len(passphrase),
	}
}

func (v *Verifier) Configured() bool {
	return v.configured
}

// Length of the configured passphrase, for diagnostics only
func (v *Verifier) ConfiguredLength() int {
	return v.length
}

// Both sides are hashed before comparing so the comparison time doesn't depend on
// the length of the matching prefix, or on the lengths themselves
func (v *Verifier) Verify(submitted string) bool {
	if !v.configured {
		return false
	}

	submittedDigest := sha256.Sum256([]byte(strings.TrimSpace(submitted)))
	return subtle.ConstantTimeCompare(submittedDigest[:], v.digest[:]) == 1
}

// Like Verify, but tells a missing configuration apart from a wrong passphrase
func (v *Verifier) Check(submitted string) error {
	if !v.configured {
		return ErrNotConfigured
	}
	if !v.Verify(submitted) {
		return ErrWrongPassphrase
	}
	return nil
}
