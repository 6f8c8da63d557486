// Package envsource reads credentials from process environment
// variables. It is the highest-signal source for local development and
// CI runners that inject per-account keys through the environment.
package envsource

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-credentials/core"
)

const (
	SourceName = "env"

	// DefaultPrefix namespaces every credential variable the source
	// reads. Deployments that share an environment with other tooling
	// can override it through Config.Prefix.
	DefaultPrefix = "CLOUD_CREDS"

	suffixAccessKeyID     = "ACCESS_KEY_ID"
	suffixSecretAccessKey = "SECRET_ACCESS_KEY"
	suffixSessionToken    = "SESSION_TOKEN"
)

// LookupFunc mirrors os.LookupEnv so tests can supply a fixed
// environment instead of mutating the real one.
type LookupFunc func(key string) (string, bool)

// EnvironFunc mirrors os.Environ, returning "key=value" pairs.
type EnvironFunc func() []string

type Config struct {
	Prefix  string
	Lookup  LookupFunc
	Environ EnvironFunc
}

func DefaultConfig() Config {
	return Config{
		Prefix:  DefaultPrefix,
		Lookup:  os.LookupEnv,
		Environ: os.Environ,
	}
}

// Source resolves credentials from variables shaped as
// <PREFIX>_<ACCOUNT>_<MODE>_<FIELD>, falling back to the mode-less
// <PREFIX>_<ACCOUNT>_<FIELD> form when no per-mode pair exists.
type Source struct {
	prefix  string
	lookup  LookupFunc
	environ EnvironFunc
}

func New(cfg Config) (*Source, error) {
	defaults := DefaultConfig()
	if strings.TrimSpace(cfg.Prefix) == "" {
		cfg.Prefix = defaults.Prefix
	}
	if cfg.Lookup == nil {
		cfg.Lookup = defaults.Lookup
	}
	if cfg.Environ == nil {
		cfg.Environ = defaults.Environ
	}
	if strings.TrimSpace(cfg.Prefix) != cfg.Prefix {
		return nil, fmt.Errorf("envsource: prefix must not contain surrounding whitespace")
	}
	return &Source{prefix: cfg.Prefix, lookup: cfg.Lookup, environ: cfg.Environ}, nil
}

func (s *Source) Name() string { return SourceName }

// IsAvailable reports whether any variable under the configured prefix
// exists at all. Which account it belongs to is a capability question.
func (s *Source) IsAvailable(_ context.Context) (bool, error) {
	marker := s.prefix + "_"
	for _, pair := range s.environ() {
		if strings.HasPrefix(pair, marker) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Source) CanProvideCredentials(_ context.Context, account string) (bool, error) {
	segment := normalizeSegment(account)
	if segment == "" {
		return false, nil
	}
	for _, mode := range []core.AccessMode{core.AccessModeRead, core.AccessModeWrite} {
		if _, ok := s.lookup(s.variable(segment, string(mode), suffixAccessKeyID)); ok {
			return true, nil
		}
	}
	_, ok := s.lookup(s.variable(segment, "", suffixAccessKeyID))
	return ok, nil
}

func (s *Source) Credentials(_ context.Context, account string, mode core.AccessMode) (core.Materialized, error) {
	segment := normalizeSegment(account)
	if segment == "" {
		return nil, fmt.Errorf("envsource: account is required")
	}
	if err := mode.Validate(); err != nil {
		return nil, fmt.Errorf("envsource: %w", err)
	}

	keyID, secret, token, ok := s.readPair(segment, string(mode))
	if !ok {
		keyID, secret, token, ok = s.readPair(segment, "")
	}
	if !ok {
		return nil, fmt.Errorf("envsource: no %s variables for account %q", s.prefix, account)
	}
	if secret == "" {
		return nil, fmt.Errorf("envsource: account %q has an access key id but no secret access key", account)
	}

	return core.RawCredentials{
		Credentials: core.Credentials{
			AccessKeyID:     keyID,
			SecretAccessKey: secret,
			SessionToken:    token,
		},
	}, nil
}

func (s *Source) readPair(segment, mode string) (keyID, secret, token string, ok bool) {
	keyID, ok = s.lookup(s.variable(segment, mode, suffixAccessKeyID))
	if !ok || keyID == "" {
		return "", "", "", false
	}
	secret, _ = s.lookup(s.variable(segment, mode, suffixSecretAccessKey))
	token, _ = s.lookup(s.variable(segment, mode, suffixSessionToken))
	return keyID, secret, token, true
}

func (s *Source) variable(segment, mode, suffix string) string {
	parts := []string{s.prefix, segment}
	if mode != "" {
		parts = append(parts, strings.ToUpper(mode))
	}
	parts = append(parts, suffix)
	return strings.Join(parts, "_")
}

// normalizeSegment upcases the account identifier and collapses every
// non-alphanumeric run into a single underscore so "staging/eu-west"
// and "staging.eu_west" address the same variables.
func normalizeSegment(account string) string {
	trimmed := strings.TrimSpace(account)
	if trimmed == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(trimmed))
	pendingSeparator := false
	for _, r := range strings.ToUpper(trimmed) {
		alnum := (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingSeparator = b.Len() > 0
			continue
		}
		if pendingSeparator {
			b.WriteByte('_')
			pendingSeparator = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

var _ core.Source = (*Source)(nil)
