package credentials

import (
	"fmt"

	credentialsquery "github.com/goliatone/go-credentials/query"
)

// QueryService is the read surface the facade wires handlers against.
// *core.Service satisfies it.
type QueryService interface {
	credentialsquery.CredentialsReader
	credentialsquery.SourceCatalog
}

type Queries struct {
	FetchCredentials *credentialsquery.FetchCredentialsQuery
	ListSources      *credentialsquery.ListSourcesQuery
}

type Facade struct {
	service QueryService
	queries Queries
}

func NewFacade(service QueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("credentials: query service is required")
	}

	facade := &Facade{service: service}
	facade.queries = Queries{
		FetchCredentials: credentialsquery.NewFetchCredentialsQuery(service),
		ListSources:      credentialsquery.NewListSourcesQuery(service),
	}
	return facade, nil
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() QueryService {
	if f == nil {
		return nil
	}
	return f.service
}
