package core

import (
	"fmt"
	"strings"
)

type EnvSourceConfig struct {
	Enabled bool   `koanf:"enabled" mapstructure:"enabled"`
	Prefix  string `koanf:"prefix" mapstructure:"prefix"`
}

type ProfileCredentials struct {
	AccessKeyID     string `koanf:"access_key_id" mapstructure:"access_key_id"`
	SecretAccessKey string `koanf:"secret_access_key" mapstructure:"secret_access_key"`
	SessionToken    string `koanf:"session_token" mapstructure:"session_token"`
}

// AccountProfile holds the per-mode credential records for one account.
// SourceProfile aliases another account's profile; resolution of the alias
// is deferred until materialization.
type AccountProfile struct {
	Read          *ProfileCredentials `koanf:"read" mapstructure:"read"`
	Write         *ProfileCredentials `koanf:"write" mapstructure:"write"`
	Default       *ProfileCredentials `koanf:"default" mapstructure:"default"`
	SourceProfile string              `koanf:"source_profile" mapstructure:"source_profile"`
}

type ProfileSourceConfig struct {
	Enabled  bool                      `koanf:"enabled" mapstructure:"enabled"`
	Profiles map[string]AccountProfile `koanf:"profiles" mapstructure:"profiles"`
}

type SourcesConfig struct {
	Env     EnvSourceConfig     `koanf:"env" mapstructure:"env"`
	Profile ProfileSourceConfig `koanf:"profile" mapstructure:"profile"`
}

type Config struct {
	ServiceName string        `koanf:"service_name" mapstructure:"service_name"`
	Sources     SourcesConfig `koanf:"sources" mapstructure:"sources"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "credentials",
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	for account, profile := range c.Sources.Profile.Profiles {
		if strings.TrimSpace(account) == "" {
			return fmt.Errorf("core: profile account id is required")
		}
		alias := strings.TrimSpace(profile.SourceProfile)
		hasRecords := profile.Read != nil || profile.Write != nil || profile.Default != nil
		if alias == "" && !hasRecords {
			return fmt.Errorf("core: profile %q needs credentials or a source_profile", account)
		}
		if alias != "" {
			if alias == account {
				return fmt.Errorf("core: profile %q references itself", account)
			}
			if _, ok := c.Sources.Profile.Profiles[alias]; !ok {
				return fmt.Errorf("core: profile %q references unknown source_profile %q", account, alias)
			}
		}
	}
	return nil
}
