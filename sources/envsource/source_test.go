package envsource

import (
	"context"
	"testing"

	"github.com/goliatone/go-credentials/core"
)

func lookupFrom(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func environFrom(env map[string]string) EnvironFunc {
	return func() []string {
		pairs := make([]string, 0, len(env))
		for key, value := range env {
			pairs = append(pairs, key+"="+value)
		}
		return pairs
	}
}

func newTestSource(t *testing.T, env map[string]string) *Source {
	t.Helper()
	source, err := New(Config{Lookup: lookupFrom(env), Environ: environFrom(env)})
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	return source
}

func TestSource_NameAndAvailability(t *testing.T) {
	empty := newTestSource(t, nil)
	if empty.Name() != SourceName {
		t.Fatalf("unexpected name: %s", empty.Name())
	}
	available, err := empty.IsAvailable(context.Background())
	if err != nil || available {
		t.Fatalf("expected source without prefixed variables to be unavailable, got %v %v", available, err)
	}

	populated := newTestSource(t, map[string]string{
		"CLOUD_CREDS_STAGING_READ_ACCESS_KEY_ID": "AKID",
		"UNRELATED":                              "x",
	})
	available, err = populated.IsAvailable(context.Background())
	if err != nil || !available {
		t.Fatalf("expected source with prefixed variables to be available, got %v %v", available, err)
	}
}

func TestSource_PerModeVariablesWin(t *testing.T) {
	source := newTestSource(t, map[string]string{
		"CLOUD_CREDS_STAGING_READ_ACCESS_KEY_ID":     "AKID-read",
		"CLOUD_CREDS_STAGING_READ_SECRET_ACCESS_KEY": "secret-read",
		"CLOUD_CREDS_STAGING_ACCESS_KEY_ID":          "AKID-shared",
		"CLOUD_CREDS_STAGING_SECRET_ACCESS_KEY":      "secret-shared",
	})

	materialized, err := source.Credentials(context.Background(), "staging", core.AccessModeRead)
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	raw, ok := materialized.(core.RawCredentials)
	if !ok {
		t.Fatalf("expected raw credentials, got %T", materialized)
	}
	if raw.Credentials.AccessKeyID != "AKID-read" {
		t.Fatalf("expected per-mode variables to win, got %q", raw.Credentials.AccessKeyID)
	}
}

func TestSource_FallsBackToModeLessVariables(t *testing.T) {
	source := newTestSource(t, map[string]string{
		"CLOUD_CREDS_STAGING_ACCESS_KEY_ID":     "AKID-shared",
		"CLOUD_CREDS_STAGING_SECRET_ACCESS_KEY": "secret-shared",
		"CLOUD_CREDS_STAGING_SESSION_TOKEN":     "token-shared",
	})

	materialized, err := source.Credentials(context.Background(), "staging", core.AccessModeWrite)
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	raw := materialized.(core.RawCredentials)
	if raw.Credentials.AccessKeyID != "AKID-shared" || raw.Credentials.SessionToken != "token-shared" {
		t.Fatalf("unexpected credentials: %+v", raw.Credentials)
	}
}

func TestSource_NormalizesAccountSegment(t *testing.T) {
	source := newTestSource(t, map[string]string{
		"CLOUD_CREDS_STAGING_EU_WEST_ACCESS_KEY_ID":     "AKID",
		"CLOUD_CREDS_STAGING_EU_WEST_SECRET_ACCESS_KEY": "secret",
	})

	for _, account := range []string{"staging/eu-west", "staging.eu_west", "  Staging EU West  "} {
		ok, err := source.CanProvideCredentials(context.Background(), account)
		if err != nil {
			t.Fatalf("can provide %q: %v", account, err)
		}
		if !ok {
			t.Fatalf("expected %q to normalize to the same variables", account)
		}
	}
}

func TestSource_CanProvideCredentials(t *testing.T) {
	source := newTestSource(t, map[string]string{
		"CLOUD_CREDS_PROD_WRITE_ACCESS_KEY_ID":     "AKID",
		"CLOUD_CREDS_PROD_WRITE_SECRET_ACCESS_KEY": "secret",
	})

	ok, err := source.CanProvideCredentials(context.Background(), "prod")
	if err != nil || !ok {
		t.Fatalf("expected prod to be providable, got %v %v", ok, err)
	}

	ok, err = source.CanProvideCredentials(context.Background(), "missing")
	if err != nil || ok {
		t.Fatalf("expected missing account to be unprovidable, got %v %v", ok, err)
	}

	ok, err = source.CanProvideCredentials(context.Background(), "   ")
	if err != nil || ok {
		t.Fatalf("expected blank account to be unprovidable, got %v %v", ok, err)
	}
}

func TestSource_CredentialsRequireSecret(t *testing.T) {
	source := newTestSource(t, map[string]string{
		"CLOUD_CREDS_PROD_READ_ACCESS_KEY_ID": "AKID",
	})

	if _, err := source.Credentials(context.Background(), "prod", core.AccessModeRead); err == nil {
		t.Fatal("expected error for key id without secret")
	}
}

func TestSource_CredentialsMissingAccount(t *testing.T) {
	source := newTestSource(t, nil)

	if _, err := source.Credentials(context.Background(), "prod", core.AccessModeRead); err == nil {
		t.Fatal("expected error for absent variables")
	}
	if _, err := source.Credentials(context.Background(), "", core.AccessModeRead); err == nil {
		t.Fatal("expected error for blank account")
	}
	if _, err := source.Credentials(context.Background(), "prod", "admin"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestNew_CustomPrefix(t *testing.T) {
	env := map[string]string{
		"DEPLOY_QA_READ_ACCESS_KEY_ID":     "AKID",
		"DEPLOY_QA_READ_SECRET_ACCESS_KEY": "secret",
	}
	source, err := New(Config{
		Prefix:  "DEPLOY",
		Lookup:  lookupFrom(env),
		Environ: environFrom(env),
	})
	if err != nil {
		t.Fatalf("new source: %v", err)
	}

	ok, err := source.CanProvideCredentials(context.Background(), "qa")
	if err != nil || !ok {
		t.Fatalf("expected custom prefix lookup to succeed, got %v %v", ok, err)
	}
}
