package core

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// AccessMode selects which credential role a source hands out for an
// account: read-only inspection or write-capable deployment.
type AccessMode string

const (
	AccessModeRead  AccessMode = "read"
	AccessModeWrite AccessMode = "write"
)

// ParseAccessMode normalizes a raw mode value. Unknown values are rejected,
// never defaulted.
func ParseAccessMode(value string) (AccessMode, error) {
	switch AccessMode(strings.ToLower(strings.TrimSpace(value))) {
	case AccessModeRead:
		return AccessModeRead, nil
	case AccessModeWrite:
		return AccessModeWrite, nil
	default:
		return "", fmt.Errorf("core: unknown access mode: %q", value)
	}
}

func (m AccessMode) Validate() error {
	switch m {
	case AccessModeRead, AccessModeWrite:
		return nil
	default:
		return fmt.Errorf("core: unknown access mode: %q", string(m))
	}
}

// CacheKey returns the deterministic memo key for an (account, mode) pair:
// <escaped-account>::<mode>. The account segment is URL-path escaped so
// account identifiers cannot collide across the separator.
func CacheKey(account string, mode AccessMode) string {
	return url.PathEscape(strings.TrimSpace(account)) + "::" + string(mode)
}

// Credentials is the canonical, shape-independent credential record returned
// to callers, tagged with the name of the source that produced it.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Expiration      *time.Time
	Source          string
}

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.AccessKeyID) == "" {
		return fmt.Errorf("core: access key id is required")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		return fmt.Errorf("core: secret access key is required")
	}
	return nil
}

// Resolution is the outcome of one resolution pass. Found=false is the
// "no source could provide" outcome; it is a valid, cacheable value rather
// than an error.
type Resolution struct {
	Credentials Credentials
	Found       bool
}

// Materialized is the value a source hands back from Credentials. Historical
// integrations return three shapes; the sealed union replaces runtime
// method probing with an explicit variant match (see NormalizeMaterialized).
type Materialized interface {
	materializedCredentials()
}

// RawCredentials carries a ready-to-use credential record.
type RawCredentials struct {
	Credentials Credentials
}

func (RawCredentials) materializedCredentials() {}

// CredentialResolver yields a concrete credential record on demand, usually
// via a follow-on network or profile lookup.
type CredentialResolver interface {
	ResolveCredentials(ctx context.Context) (Credentials, error)
}

// ResolvableCredentials wraps a deferred resolution handle.
type ResolvableCredentials struct {
	Resolver CredentialResolver
}

func (ResolvableCredentials) materializedCredentials() {}

// LegacyRefresher is the historical force-refresh shape: refresh must run
// exactly once before the record is usable.
type LegacyRefresher interface {
	ForceRefresh(ctx context.Context) (Credentials, error)
}

// LegacyRefreshableCredentials wraps a legacy refresh handle.
type LegacyRefreshableCredentials struct {
	Refresher LegacyRefresher
}

func (LegacyRefreshableCredentials) materializedCredentials() {}

func cloneTimePointer(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
