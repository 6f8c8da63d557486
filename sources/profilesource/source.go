// Package profilesource serves credentials out of named profiles
// declared in configuration. A profile carries per-mode key records or
// delegates to another profile through a source_profile alias, which
// the source resolves lazily at materialization time.
package profilesource

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-credentials/core"
)

const (
	SourceName = "profile"

	// maxAliasDepth bounds source_profile chains. Config validation
	// rejects dangling aliases, but chains assembled at runtime still
	// need a hard stop.
	maxAliasDepth = 8
)

type Config struct {
	Profiles map[string]core.AccountProfile
}

type Source struct {
	profiles map[string]core.AccountProfile
}

func New(cfg Config) (*Source, error) {
	profiles := make(map[string]core.AccountProfile, len(cfg.Profiles))
	for name, profile := range cfg.Profiles {
		key := strings.TrimSpace(name)
		if key == "" {
			return nil, fmt.Errorf("profilesource: profile name is required")
		}
		profiles[key] = profile
	}
	return &Source{profiles: profiles}, nil
}

func (s *Source) Name() string { return SourceName }

// IsAvailable reports whether any profiles are configured at all. An
// empty profile table means the source has nothing to offer and the
// resolver should move on without logging noise per account.
func (s *Source) IsAvailable(_ context.Context) (bool, error) {
	return len(s.profiles) > 0, nil
}

func (s *Source) CanProvideCredentials(_ context.Context, account string) (bool, error) {
	_, ok := s.profiles[strings.TrimSpace(account)]
	return ok, nil
}

func (s *Source) Credentials(_ context.Context, account string, mode core.AccessMode) (core.Materialized, error) {
	trimmed := strings.TrimSpace(account)
	profile, ok := s.profiles[trimmed]
	if !ok {
		return nil, fmt.Errorf("profilesource: no profile for account %q", account)
	}
	if err := mode.Validate(); err != nil {
		return nil, fmt.Errorf("profilesource: %w", err)
	}

	if record := recordFor(profile, mode); record != nil {
		credentials, err := recordToCredentials(trimmed, record)
		if err != nil {
			return nil, err
		}
		return core.RawCredentials{Credentials: credentials}, nil
	}

	if strings.TrimSpace(profile.SourceProfile) != "" {
		return core.ResolvableCredentials{
			Resolver: &aliasResolver{
				source:  s,
				account: trimmed,
				mode:    mode,
			},
		}, nil
	}

	return nil, fmt.Errorf("profilesource: profile %q has no %s credentials", account, mode)
}

// aliasResolver chases source_profile links when the credentials are
// actually asked for, so a chain pointing at rotated keys always picks
// up the alias target's current records.
type aliasResolver struct {
	source  *Source
	account string
	mode    core.AccessMode
}

func (r *aliasResolver) ResolveCredentials(_ context.Context) (core.Credentials, error) {
	visited := map[string]bool{r.account: true}
	current := r.source.profiles[r.account]

	for depth := 0; depth < maxAliasDepth; depth++ {
		alias := strings.TrimSpace(current.SourceProfile)
		if alias == "" {
			return core.Credentials{}, fmt.Errorf("profilesource: profile chain from %q ends without credentials", r.account)
		}
		if visited[alias] {
			return core.Credentials{}, fmt.Errorf("profilesource: profile chain from %q cycles at %q", r.account, alias)
		}
		visited[alias] = true

		next, ok := r.source.profiles[alias]
		if !ok {
			return core.Credentials{}, fmt.Errorf("profilesource: profile %q references unknown profile %q", r.account, alias)
		}
		if record := recordFor(next, r.mode); record != nil {
			return recordToCredentials(alias, record)
		}
		current = next
	}

	return core.Credentials{}, fmt.Errorf("profilesource: profile chain from %q exceeds depth %d", r.account, maxAliasDepth)
}

func recordFor(profile core.AccountProfile, mode core.AccessMode) *core.ProfileCredentials {
	switch mode {
	case core.AccessModeRead:
		if profile.Read != nil {
			return profile.Read
		}
	case core.AccessModeWrite:
		if profile.Write != nil {
			return profile.Write
		}
	}
	return profile.Default
}

func recordToCredentials(profileName string, record *core.ProfileCredentials) (core.Credentials, error) {
	if strings.TrimSpace(record.AccessKeyID) == "" || strings.TrimSpace(record.SecretAccessKey) == "" {
		return core.Credentials{}, fmt.Errorf("profilesource: profile %q record is missing key material", profileName)
	}
	return core.Credentials{
		AccessKeyID:     record.AccessKeyID,
		SecretAccessKey: record.SecretAccessKey,
		SessionToken:    record.SessionToken,
	}, nil
}

var _ core.Source = (*Source)(nil)
var _ core.CredentialResolver = (*aliasResolver)(nil)
