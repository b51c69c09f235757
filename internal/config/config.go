package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// Shorter signing secrets still work, but are flagged at startup
	MinSecretLength = 16
)

// Path segments the login entry path may not take over
var reservedEntryPaths = []string{"api", "static", "protected-area"}

type Config struct {
	ListenPort  int    `toml:"port"`
	Environment string `toml:"environment"`
	LogLevel    string `toml:"log_level"`

	Access struct {
		// The shared passphrase. Surrounding whitespace is trimmed at load time.
		Passphrase string `toml:"passphrase"`
		// Single path segment the login page is served on, e.g. "let-me-in" => /let-me-in
		// Blank disables the login page entirely
		EntryPath string `toml:"entry_path"`
	} `toml:"access"`

	Session struct {
		Secret string `toml:"secret"`
	} `toml:"session"`

	// Non-fatal problems found while loading, reported by the caller once a logger exists
	Warnings []string `toml:"-"`
}

// TOML marshaller doesn't override fields that weren't set in the TOML, so we can apply defaults here
func (c *Config) setDefaults() {
	c.ListenPort = 8080
	c.Environment = EnvDevelopment
	c.LogLevel = "info"
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strOverrides := map[string]*string{
		"APP_ENV":             &c.Environment,
		"LOG_LEVEL":           &c.LogLevel,
		"PRIVATE_ACCESS_CODE": &c.Access.Passphrase,
		"PRIVATE_ENTRY_PATH":  &c.Access.EntryPath,
		"JWT_SECRET":          &c.Session.Secret,
	}

	for key, dst := range strOverrides {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT must be a number, got %q", v)
		}
		c.ListenPort = port
	}

	return nil
}

func (c *Config) normalize() {
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Access.Passphrase = strings.TrimSpace(c.Access.Passphrase)
	c.Access.EntryPath = strings.Trim(strings.TrimSpace(c.Access.EntryPath), "/")
}

func (c *Config) validate() error {
	if c.ListenPort < 1 || c.ListenPort > 65535 {
		return fmt.Errorf("invalid port %d", c.ListenPort)
	}

	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return fmt.Errorf("invalid environment (%s), must be %q or %q", c.Environment, EnvDevelopment, EnvProduction)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level (%s)", c.LogLevel)
	}

	if strings.Contains(c.Access.EntryPath, "/") {
		return fmt.Errorf("entry_path must be a single path segment, got %q", c.Access.EntryPath)
	}

	for _, reserved := range reservedEntryPaths {
		if c.Access.EntryPath == reserved {
			return fmt.Errorf("entry_path %q collides with a built-in route", c.Access.EntryPath)
		}
	}

	c.Warnings = nil

	if c.Access.Passphrase == "" {
		c.Warnings = append(c.Warnings, "No passphrase was provided, every login attempt will fail with a configuration error")
	}

	if c.Access.EntryPath == "" {
		c.Warnings = append(c.Warnings, "No entry_path was provided, the login page is disabled")
	}

	if c.Session.Secret == "" {
		c.Warnings = append(c.Warnings, "No session secret was provided, no sessions can be issued or accepted")
	} else if len(c.Session.Secret) < MinSecretLength {
		c.Warnings = append(c.Warnings, fmt.Sprintf("Your session secret is less than %d characters. Please supply a long, random secret", MinSecretLength))
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Returns the login page path (e.g. "/let-me-in"), or "" when it isn't configured
func (c *Config) EntryRoute() string {
	if c.Access.EntryPath == "" {
		return ""
	}
	return "/" + c.Access.EntryPath
}

// Loads the TOML file at filepath (a missing file is fine, everything can come from the environment),
// then applies environment overrides and validates the result
func Load(filepath string) (*Config, error) {
	return load(filepath, os.LookupEnv)
}

func load(filepath string, lookupEnv func(string) (string, bool)) (*Config, error) {
	conf := new(Config)
	conf.setDefaults()

	if filepath != "" {
		file, err := os.ReadFile(filepath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := toml.Unmarshal(file, conf); err != nil {
				return nil, fmt.Errorf("couldn't parse %s: %w", filepath, err)
			}
		}
	}

	if err := conf.applyEnv(lookupEnv); err != nil {
		return nil, err
	}

	conf.normalize()

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}
