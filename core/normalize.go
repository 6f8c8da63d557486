package core

import (
	"context"
	"fmt"
	"strings"
)

// NormalizeMaterialized converts a materialized value into the canonical
// credential record, stamped with the winning source's name. Resolve and
// force-refresh follow-on errors propagate to the caller unmodified; they
// are genuine credential failures, not "source unavailable".
func NormalizeMaterialized(ctx context.Context, sourceName string, value Materialized) (Credentials, error) {
	var credentials Credentials
	switch shape := value.(type) {
	case RawCredentials:
		credentials = shape.Credentials
	case ResolvableCredentials:
		if shape.Resolver == nil {
			return Credentials{}, fmt.Errorf("core: resolvable credentials from source %q carry no resolver", sourceName)
		}
		resolved, err := shape.Resolver.ResolveCredentials(ctx)
		if err != nil {
			return Credentials{}, err
		}
		credentials = resolved
	case LegacyRefreshableCredentials:
		if shape.Refresher == nil {
			return Credentials{}, fmt.Errorf("core: refreshable credentials from source %q carry no refresher", sourceName)
		}
		// The legacy contract requires exactly one forced refresh before the
		// record is usable.
		refreshed, err := shape.Refresher.ForceRefresh(ctx)
		if err != nil {
			return Credentials{}, err
		}
		credentials = refreshed
	case nil:
		return Credentials{}, fmt.Errorf("core: source %q materialized a nil value", sourceName)
	default:
		return Credentials{}, fmt.Errorf("core: source %q materialized an unknown shape %T", sourceName, value)
	}

	credentials.Source = strings.TrimSpace(sourceName)
	credentials.Expiration = cloneTimePointer(credentials.Expiration)
	return credentials, nil
}
