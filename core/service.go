package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Service assembles the registry, resolution engine, and credential cache
// behind one surface. A Service instance is created per logical session and
// discarded at process end; it carries no persisted state.
type Service struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	errorFactory    ErrorFactory
	errorMapper     ErrorMapper
	configProvider  ConfigProvider
	optionsResolver OptionsResolver
	registry        Registry
	resolver        *Resolver
	cache           *Cache
}

type ServiceDependencies struct {
	Logger          Logger
	LoggerProvider  LoggerProvider
	MetricsRecorder MetricsRecorder
	ErrorFactory    ErrorFactory
	ErrorMapper     ErrorMapper
	ConfigProvider  ConfigProvider
	OptionsResolver OptionsResolver
	Registry        Registry
}

// FetchRequest names the (account, mode) pair credentials are sought for.
type FetchRequest struct {
	Account string
	Mode    AccessMode
}

func (r FetchRequest) Validate() error {
	if strings.TrimSpace(r.Account) == "" {
		return goerrors.NewValidation("core: fetch request validation failed", goerrors.FieldError{
			Field:   "account",
			Message: "account is required",
		}).WithTextCode(CredentialsErrorBadInput)
	}
	if err := r.Mode.Validate(); err != nil {
		return goerrors.NewValidation("core: fetch request validation failed", goerrors.FieldError{
			Field:   "mode",
			Message: err.Error(),
		}).WithTextCode(CredentialsErrorBadInput)
	}
	return nil
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, option := range options {
		if option == nil {
			continue
		}
		option(&builder)
	}

	provider, logger := glog.Resolve("credentials", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	if provider != nil {
		if named := provider.GetLogger("credentials"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.registry == nil {
		builder.registry = NewSourceRegistry()
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	for _, source := range builder.sources {
		if err := builder.registry.Register(source); err != nil {
			return nil, mapBuildError(builder.errorMapper, err)
		}
	}

	resolver, err := NewResolver(builder.registry, logger, builder.metricsRecorder)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	cache, err := NewCache(resolver, builder.registry, logger, builder.metricsRecorder)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	return &Service{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		errorFactory:    builder.errorFactory,
		errorMapper:     builder.errorMapper,
		configProvider:  builder.configProvider,
		optionsResolver: builder.optionsResolver,
		registry:        builder.registry,
		resolver:        resolver,
		cache:           cache,
	}, nil
}

func Setup(cfg Config, options ...Option) (*Service, error) {
	return NewService(cfg, options...)
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return err
	}
	mapped := mapper(err)
	if mapped == nil {
		return err
	}
	return mapped
}

// FetchCredentials returns memoized credentials for the request, resolving
// through the registered sources on first use. A propagated materialization
// error is the winning source's error, unwrapped.
func (s *Service) FetchCredentials(ctx context.Context, req FetchRequest) (Resolution, error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"account": strings.TrimSpace(req.Account),
		"mode":    string(req.Mode),
	}

	if s == nil || s.cache == nil {
		return Resolution{}, fmt.Errorf("core: credential service is not configured")
	}
	if err := req.Validate(); err != nil {
		s.observeOperation(ctx, startedAt, "fetch", err, fields)
		return Resolution{}, mapBuildError(s.errorMapper, err)
	}

	resolution, err := s.cache.Fetch(ctx, req.Account, req.Mode)
	if resolution.Found {
		fields["source"] = resolution.Credentials.Source
	}
	s.observeOperation(ctx, startedAt, "fetch", err, fields)
	return resolution, err
}

// SourceNames reports the names of all registered sources, in trial order.
// Diagnostics only; never cached.
func (s *Service) SourceNames() []string {
	if s == nil || s.registry == nil {
		return nil
	}
	return s.registry.Names()
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) Registry() Registry {
	if s == nil {
		return nil
	}
	return s.registry
}

func (s *Service) Dependencies() ServiceDependencies {
	if s == nil {
		return ServiceDependencies{}
	}
	return ServiceDependencies{
		Logger:          s.logger,
		LoggerProvider:  s.loggerProvider,
		MetricsRecorder: s.metricsRecorder,
		ErrorFactory:    s.errorFactory,
		ErrorMapper:     s.errorMapper,
		ConfigProvider:  s.configProvider,
		OptionsResolver: s.optionsResolver,
		Registry:        s.registry,
	}
}
