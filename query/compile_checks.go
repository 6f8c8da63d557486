package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-credentials/core"
)

var (
	_ gocmd.Querier[FetchCredentialsMessage, core.Resolution] = (*FetchCredentialsQuery)(nil)
	_ gocmd.Querier[ListSourcesMessage, []string]             = (*ListSourcesQuery)(nil)
)
