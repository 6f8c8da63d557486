package credentials

import (
	"fmt"

	"github.com/goliatone/go-credentials/core"
	"github.com/goliatone/go-credentials/sources/envsource"
	"github.com/goliatone/go-credentials/sources/profilesource"
)

type Config = core.Config

type SourcesConfig = core.SourcesConfig
type EnvSourceConfig = core.EnvSourceConfig
type ProfileSourceConfig = core.ProfileSourceConfig
type AccountProfile = core.AccountProfile
type ProfileCredentials = core.ProfileCredentials

type Option = core.Option

type Service = core.Service

type ServiceDependencies = core.ServiceDependencies

type AccessMode = core.AccessMode

type Credentials = core.Credentials
type Resolution = core.Resolution
type Materialized = core.Materialized
type RawCredentials = core.RawCredentials
type ResolvableCredentials = core.ResolvableCredentials
type LegacyRefreshableCredentials = core.LegacyRefreshableCredentials

type Source = core.Source
type Registry = core.Registry
type MetricsRecorder = core.MetricsRecorder

type FetchRequest = core.FetchRequest

const (
	AccessModeRead  = core.AccessModeRead
	AccessModeWrite = core.AccessModeWrite
)

var (
	WithLogger          = core.WithLogger
	WithLoggerProvider  = core.WithLoggerProvider
	WithMetricsRecorder = core.WithMetricsRecorder
	WithErrorFactory    = core.WithErrorFactory
	WithErrorMapper     = core.WithErrorMapper
	WithConfigProvider  = core.WithConfigProvider
	WithOptionsResolver = core.WithOptionsResolver
	WithRegistry        = core.WithRegistry
	WithSources         = core.WithSources

	ParseAccessMode = core.ParseAccessMode
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

func NewService(cfg Config, opts ...Option) (*Service, error) {
	return core.NewService(cfg, opts...)
}

// Setup builds a service with the built-in sources the configuration
// enables, registered in registry order env then profile, ahead of any
// sources supplied through WithSources.
func Setup(cfg Config, opts ...Option) (*Service, error) {
	builtin, err := builtinSources(cfg)
	if err != nil {
		return nil, err
	}
	if len(builtin) > 0 {
		opts = append([]Option{core.WithSources(builtin...)}, opts...)
	}
	return core.Setup(cfg, opts...)
}

func builtinSources(cfg Config) ([]core.Source, error) {
	var sources []core.Source
	if cfg.Sources.Env.Enabled {
		source, err := envsource.New(envsource.Config{Prefix: cfg.Sources.Env.Prefix})
		if err != nil {
			return nil, fmt.Errorf("credentials: build env source: %w", err)
		}
		sources = append(sources, source)
	}
	if cfg.Sources.Profile.Enabled {
		source, err := profilesource.New(profilesource.Config{Profiles: cfg.Sources.Profile.Profiles})
		if err != nil {
			return nil, fmt.Errorf("credentials: build profile source: %w", err)
		}
		sources = append(sources, source)
	}
	return sources, nil
}
