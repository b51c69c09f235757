package accesscontrol

import (
	"fmt"

	"github.com/lachlan2k/sesame/internal/config"
)

const (
	PublicPath    = "/"
	ProtectedPath = "/protected-area"
)

type PathClass int

const (
	// Zero value, so anything missing from the lookup table is denied
	Other PathClass = iota
	Public
	LoginEntry
	Protected
)

func (p PathClass) String() string {
	switch p {
	case Public:
		return "public"
	case LoginEntry:
		return "login-entry"
	case Protected:
		return "protected"
	default:
		return "other"
	}
}

// Classifier maps exact request paths to a PathClass. It's built once and only read afterwards.
type Classifier struct {
	routes map[string]PathClass
}

func NewClassifier(conf *config.Config) (*Classifier, error) {
	routes := map[string]PathClass{
		PublicPath:    Public,
		ProtectedPath: Protected,
	}

	if entry := conf.EntryRoute(); entry != "" {
		if existing, ok := routes[entry]; ok {
			return nil, fmt.Errorf("entry path %s is already the %s path", entry, existing)
		}
		routes[entry] = LoginEntry
	}

	return &Classifier{routes: routes}, nil
}

func (c *Classifier) Classify(path string) PathClass {
	return c.routes[path]
}
