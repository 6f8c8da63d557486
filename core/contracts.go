package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// Source is a pluggable provider of account credentials. Sources are tried
// strictly in registry order; availability and capability checks are
// advisory and may fail without aborting a pass, while a Credentials call
// commits the pass to this source.
type Source interface {
	Name() string
	IsAvailable(ctx context.Context) (bool, error)
	CanProvideCredentials(ctx context.Context, account string) (bool, error)
	Credentials(ctx context.Context, account string, mode AccessMode) (Materialized, error)
}

// Registry supplies the ordered sequence of credential sources. The sequence
// is read-only from the engine's perspective and stable within a session.
type Registry interface {
	Register(source Source) error
	Get(name string) (Source, bool)
	List() []Source
	Names() []string
}

// CredentialsResolver runs one resolution pass for an (account, mode) pair.
type CredentialsResolver interface {
	Resolve(ctx context.Context, account string, mode AccessMode) (Resolution, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
