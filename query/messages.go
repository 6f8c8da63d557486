package query

import (
	"strings"

	"github.com/goliatone/go-credentials/core"
)

const (
	TypeFetchCredentials = "credentials.query.credentials.fetch"
	TypeListSources      = "credentials.query.sources.list"
)

type FetchCredentialsMessage struct {
	Account string
	Mode    core.AccessMode
}

func (FetchCredentialsMessage) Type() string { return TypeFetchCredentials }

func (m FetchCredentialsMessage) Validate() error {
	if strings.TrimSpace(m.Account) == "" {
		return queryValidationError("account", "account is required")
	}
	if err := m.Mode.Validate(); err != nil {
		return queryValidationError("mode", err.Error())
	}
	return nil
}

type ListSourcesMessage struct{}

func (ListSourcesMessage) Type() string { return TypeListSources }

func (ListSourcesMessage) Validate() error { return nil }
