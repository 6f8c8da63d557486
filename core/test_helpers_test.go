package core

import (
	"context"
	"sync"
)

type stubSource struct {
	mu             sync.Mutex
	name           string
	available      bool
	availableErr   error
	capable        bool
	capableErr     error
	materialized   Materialized
	materializeErr error

	availableCalls   int
	capableCalls     int
	materializeCalls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) IsAvailable(context.Context) (bool, error) {
	s.mu.Lock()
	s.availableCalls++
	s.mu.Unlock()
	return s.available, s.availableErr
}

func (s *stubSource) CanProvideCredentials(context.Context, string) (bool, error) {
	s.mu.Lock()
	s.capableCalls++
	s.mu.Unlock()
	return s.capable, s.capableErr
}

func (s *stubSource) Credentials(context.Context, string, AccessMode) (Materialized, error) {
	s.mu.Lock()
	s.materializeCalls++
	s.mu.Unlock()
	if s.materializeErr != nil {
		return nil, s.materializeErr
	}
	return s.materialized, nil
}

func (s *stubSource) calls() (available, capable, materialize int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.availableCalls, s.capableCalls, s.materializeCalls
}

func workingSource(name string, keyID string) *stubSource {
	return &stubSource{
		name:      name,
		available: true,
		capable:   true,
		materialized: RawCredentials{Credentials: Credentials{
			AccessKeyID:     keyID,
			SecretAccessKey: "secret-" + keyID,
		}},
	}
}

type capturedCounter struct {
	name  string
	value int64
	tags  map[string]string
}

type capturedHistogram struct {
	name  string
	value float64
	tags  map[string]string
}

type captureMetricsRecorder struct {
	mu         sync.Mutex
	counters   []capturedCounter
	histograms []capturedHistogram
}

func (m *captureMetricsRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, capturedCounter{name: name, value: value, tags: cloneTags(tags)})
}

func (m *captureMetricsRecorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms = append(m.histograms, capturedHistogram{name: name, value: value, tags: cloneTags(tags)})
}

func (m *captureMetricsRecorder) counterTotal(name string, tags map[string]string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total int64
	for _, counter := range m.counters {
		if counter.name != name {
			continue
		}
		match := true
		for key, value := range tags {
			if counter.tags[key] != value {
				match = false
				break
			}
		}
		if match {
			total += counter.value
		}
	}
	return total
}

type capturedLog struct {
	level  string
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu       *sync.Mutex
	records  *[]capturedLog
	defaults map[string]any
}

func newCaptureLogger() *captureLogger {
	records := []capturedLog{}
	return &captureLogger{mu: &sync.Mutex{}, records: &records, defaults: map[string]any{}}
}

func (l *captureLogger) WithFields(fields map[string]any) Logger {
	merged := cloneFieldMap(l.defaults)
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{mu: l.mu, records: l.records, defaults: merged}
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) Logger {
	return &captureLogger{mu: l.mu, records: l.records, defaults: cloneFieldMap(l.defaults)}
}

func (l *captureLogger) record(level string, msg string, args ...any) {
	fields := cloneFieldMap(l.defaults)
	for index := 0; index+1 < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			continue
		}
		fields[key] = args[index+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, capturedLog{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) logs() []capturedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]capturedLog(nil), *l.records...)
}

func (l *captureLogger) logsAt(level string) []capturedLog {
	matched := []capturedLog{}
	for _, entry := range l.logs() {
		if entry.level == level {
			matched = append(matched, entry)
		}
	}
	return matched
}

func cloneFieldMap(input map[string]any) map[string]any {
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
