package query

import (
	"context"

	"github.com/goliatone/go-credentials/core"
)

// CredentialsReader is the read surface handlers need from the credential
// service. A propagated materialization error is the source's own error;
// handlers pass it through untouched.
type CredentialsReader interface {
	FetchCredentials(ctx context.Context, req core.FetchRequest) (core.Resolution, error)
}

// SourceCatalog reports the registered source names for diagnostics.
type SourceCatalog interface {
	SourceNames() []string
}

type FetchCredentialsQuery struct {
	reader CredentialsReader
}

func NewFetchCredentialsQuery(reader CredentialsReader) *FetchCredentialsQuery {
	return &FetchCredentialsQuery{reader: reader}
}

func (q *FetchCredentialsQuery) Query(ctx context.Context, msg FetchCredentialsMessage) (core.Resolution, error) {
	if q == nil || q.reader == nil {
		return core.Resolution{}, queryDependencyError("query: credentials reader is required")
	}
	return q.reader.FetchCredentials(ctx, core.FetchRequest{
		Account: msg.Account,
		Mode:    msg.Mode,
	})
}

type ListSourcesQuery struct {
	catalog SourceCatalog
}

func NewListSourcesQuery(catalog SourceCatalog) *ListSourcesQuery {
	return &ListSourcesQuery{catalog: catalog}
}

func (q *ListSourcesQuery) Query(ctx context.Context, msg ListSourcesMessage) ([]string, error) {
	if q == nil || q.catalog == nil {
		return nil, queryDependencyError("query: source catalog is required")
	}
	return q.catalog.SourceNames(), nil
}
