// Package core contains the canonical credential-resolution contracts,
// domain types, and orchestration logic: the ordered source registry, the
// resolution engine, and the per-session credential cache. Source
// implementations and transport adapters must depend on this package; core
// must not depend on any concrete source.
package core
