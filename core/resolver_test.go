package core

import (
	"context"
	"errors"
	"testing"
)

func newTestResolver(t *testing.T, logger Logger, metrics MetricsRecorder, sources ...Source) *Resolver {
	t.Helper()
	registry := NewSourceRegistry()
	for _, source := range sources {
		if err := registry.Register(source); err != nil {
			t.Fatalf("register source: %v", err)
		}
	}
	resolver, err := NewResolver(registry, logger, metrics)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return resolver
}

func TestResolver_AvailabilityErrorFailsSoft(t *testing.T) {
	logger := newCaptureLogger()
	broken := &stubSource{name: "broken", availableErr: errors.New("sdk not installed")}
	working := workingSource("working", "AKID-B")
	resolver := newTestResolver(t, logger, nil, broken, working)

	resolution, err := resolver.Resolve(context.Background(), "acct-1", AccessModeRead)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !resolution.Found {
		t.Fatalf("expected resolution from the working source")
	}
	if resolution.Credentials.Source != "working" {
		t.Fatalf("expected source %q, got %q", "working", resolution.Credentials.Source)
	}

	if _, capable, _ := broken.calls(); capable != 0 {
		t.Fatalf("capability check must not run for an unavailable source, got %d calls", capable)
	}

	warnings := logger.logsAt("warn")
	if len(warnings) != 1 {
		t.Fatalf("expected one warning for the swallowed check error, got %d", len(warnings))
	}
	if warnings[0].fields["source"] != "broken" {
		t.Fatalf("expected warning tagged with source name, got %v", warnings[0].fields)
	}
	if warnings[0].fields["error"] != "sdk not installed" {
		t.Fatalf("expected warning to carry the error text, got %v", warnings[0].fields)
	}
}

func TestResolver_CapabilityErrorFailsSoft(t *testing.T) {
	logger := newCaptureLogger()
	flaky := &stubSource{name: "flaky", available: true, capableErr: errors.New("account list unreachable")}
	working := workingSource("working", "AKID-B")
	resolver := newTestResolver(t, logger, nil, flaky, working)

	resolution, err := resolver.Resolve(context.Background(), "acct-1", AccessModeWrite)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolution.Credentials.Source != "working" {
		t.Fatalf("expected fallback to working source, got %q", resolution.Credentials.Source)
	}
	if len(logger.logsAt("warn")) != 1 {
		t.Fatalf("expected one warning for the capability check failure")
	}
	if _, _, materialize := flaky.calls(); materialize != 0 {
		t.Fatalf("flaky source must not be asked to materialize")
	}
}

func TestResolver_MaterializationErrorFailsHard(t *testing.T) {
	cause := errors.New("role assumption denied")
	failing := &stubSource{name: "failing", available: true, capable: true, materializeErr: cause}
	fallback := workingSource("fallback", "AKID-B")
	resolver := newTestResolver(t, newCaptureLogger(), nil, failing, fallback)

	_, err := resolver.Resolve(context.Background(), "acct-1", AccessModeRead)
	if !errors.Is(err, cause) {
		t.Fatalf("expected materialization error to propagate, got %v", err)
	}
	if err.Error() != cause.Error() {
		t.Fatalf("expected unwrapped error, got %q", err.Error())
	}
	if available, _, _ := fallback.calls(); available != 0 {
		t.Fatalf("no further source may be consulted after a materialization failure")
	}
}

func TestResolver_SkipsUnavailableSource(t *testing.T) {
	logger := newCaptureLogger()
	metrics := &captureMetricsRecorder{}
	disabled := &stubSource{name: "disabled", available: false}
	working := workingSource("working", "AKID-B")
	resolver := newTestResolver(t, logger, metrics, disabled, working)

	resolution, err := resolver.Resolve(context.Background(), "acct-1", AccessModeRead)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolution.Credentials.Source != "working" {
		t.Fatalf("expected source %q, got %q", "working", resolution.Credentials.Source)
	}
	if len(logger.logsAt("warn")) != 0 {
		t.Fatalf("a clean unavailable skip must not warn")
	}
	skipped := metrics.counterTotal("credentials.resolve.source_skipped", map[string]string{
		"source": "disabled",
		"reason": "unavailable",
	})
	if skipped != 1 {
		t.Fatalf("expected one unavailable skip counter, got %d", skipped)
	}
}

func TestResolver_OrderDeterminesWinner(t *testing.T) {
	first := workingSource("first", "AKID-1")
	second := workingSource("second", "AKID-2")
	resolver := newTestResolver(t, nil, nil, first, second)

	resolution, err := resolver.Resolve(context.Background(), "acct-1", AccessModeRead)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolution.Credentials.Source != "first" {
		t.Fatalf("expected the first passing source to win, got %q", resolution.Credentials.Source)
	}
	if available, _, _ := second.calls(); available != 0 {
		t.Fatalf("later sources must not be consulted after a win")
	}
}

func TestResolver_ExhaustionReturnsAbsent(t *testing.T) {
	resolver := newTestResolver(t, newCaptureLogger(), nil)

	resolution, err := resolver.Resolve(context.Background(), "acct-1", AccessModeRead)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolution.Found {
		t.Fatalf("expected absent outcome for an empty registry")
	}
}

func TestResolver_CannotProvideSkips(t *testing.T) {
	other := &stubSource{name: "other-accounts", available: true, capable: false}
	working := workingSource("working", "AKID-B")
	resolver := newTestResolver(t, nil, nil, other, working)

	resolution, err := resolver.Resolve(context.Background(), "acct-1", AccessModeRead)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolution.Credentials.Source != "working" {
		t.Fatalf("expected source %q, got %q", "working", resolution.Credentials.Source)
	}
	if _, _, materialize := other.calls(); materialize != 0 {
		t.Fatalf("incapable source must not be asked to materialize")
	}
}
