package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	skipReasonCheckFailed   = "check_failed"
	skipReasonUnavailable   = "unavailable"
	skipReasonCannotProvide = "cannot_provide"
)

// Resolver walks the source registry in order for one (account, mode) pair:
// availability check, capability check, then materialization by the first
// source that passes both. Check failures are swallowed and logged; a
// materialization or normalization failure aborts the pass and surfaces the
// source's error as-is.
type Resolver struct {
	registry Registry
	logger   Logger
	metrics  MetricsRecorder
}

func NewResolver(registry Registry, logger Logger, metrics MetricsRecorder) (*Resolver, error) {
	if registry == nil {
		return nil, fmt.Errorf("core: source registry is required")
	}
	if metrics == nil {
		metrics = NopMetricsRecorder{}
	}
	return &Resolver{registry: registry, logger: logger, metrics: metrics}, nil
}

func (r *Resolver) Resolve(ctx context.Context, account string, mode AccessMode) (Resolution, error) {
	if r == nil || r.registry == nil {
		return Resolution{}, fmt.Errorf("core: resolver is not configured")
	}
	account = strings.TrimSpace(account)
	passID := uuid.NewString()

	for _, source := range r.registry.List() {
		name := source.Name()
		fields := map[string]any{
			"pass_id": passID,
			"source":  name,
			"account": account,
			"mode":    string(mode),
		}

		available, err := source.IsAvailable(ctx)
		if err != nil {
			r.skipSource(ctx, "credential source availability check failed", name, skipReasonCheckFailed, err, fields)
			continue
		}
		if !available {
			r.skipSource(ctx, "credential source not available", name, skipReasonUnavailable, nil, fields)
			continue
		}

		capable, err := source.CanProvideCredentials(ctx, account)
		if err != nil {
			r.skipSource(ctx, "credential source capability check failed", name, skipReasonCheckFailed, err, fields)
			continue
		}
		if !capable {
			r.skipSource(ctx, "credential source cannot provide for account", name, skipReasonCannotProvide, nil, fields)
			continue
		}

		// The pass is committed to this source: materialization errors
		// propagate unwrapped and no further source is tried.
		materialized, err := source.Credentials(ctx, account, mode)
		if err != nil {
			return Resolution{}, err
		}
		credentials, err := NormalizeMaterialized(ctx, name, materialized)
		if err != nil {
			return Resolution{}, err
		}

		r.logDebug(ctx, "credentials resolved", fields)
		return Resolution{Credentials: credentials, Found: true}, nil
	}

	r.logDebug(ctx, "no credential source could provide for account", map[string]any{
		"pass_id": passID,
		"account": account,
		"mode":    string(mode),
	})
	return Resolution{}, nil
}

func (r *Resolver) skipSource(
	ctx context.Context,
	message string,
	source string,
	reason string,
	cause error,
	fields map[string]any,
) {
	fields = cloneFields(fields)
	fields["reason"] = reason
	if cause != nil {
		fields["error"] = cause.Error()
		r.logWarn(ctx, message, fields)
	} else {
		r.logDebug(ctx, message, fields)
	}
	r.metrics.IncCounter(ctx, "credentials.resolve.source_skipped", 1, map[string]string{
		"source": source,
		"reason": reason,
	})
}

func (r *Resolver) logWarn(ctx context.Context, message string, fields map[string]any) {
	if logger := r.boundLogger(ctx, fields); logger != nil {
		logger.Warn(message, flattenFields(fields)...)
	}
}

func (r *Resolver) logDebug(ctx context.Context, message string, fields map[string]any) {
	if logger := r.boundLogger(ctx, fields); logger != nil {
		logger.Debug(message, flattenFields(fields)...)
	}
}

func (r *Resolver) boundLogger(ctx context.Context, fields map[string]any) Logger {
	if r == nil || r.logger == nil {
		return nil
	}
	logger := r.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(FieldsLogger); ok {
		logger = fieldsLogger.WithFields(cloneFields(fields))
	}
	return logger
}
