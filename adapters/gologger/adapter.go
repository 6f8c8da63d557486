package gologger

import (
	glog "github.com/goliatone/go-logger/glog"
)

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(name, provider, logger)
}

// Ensure returns the logger unchanged when non-nil, otherwise a nop
// logger, so call sites never need a nil check before logging.
func Ensure(logger glog.Logger) glog.Logger {
	return glog.Ensure(logger)
}

// WithFields binds structured fields when the logger supports the
// fields contract and returns the logger unchanged otherwise.
func WithFields(logger glog.Logger, fields map[string]any) glog.Logger {
	if logger == nil {
		return glog.Nop()
	}
	if len(fields) == 0 {
		return logger
	}
	if fl, ok := logger.(glog.FieldsLogger); ok {
		return fl.WithFields(fields)
	}
	return logger
}
