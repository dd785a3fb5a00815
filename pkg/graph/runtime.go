package graph

import (
	"net/http"

	msgraph "github.com/nais/msgraph.go/v1.0"

	"github.com/intunerator/intunerator/pkg/config"
)

// Runtime exposes the shared Graph API machinery to the resolver packages.
type Runtime interface {
	Config() *config.Config
	GraphClient() *msgraph.GraphServiceRequestBuilder
	HttpClient() *http.Client
	Rest() *RestClient

	MaxNumberOfPagesToFetch() int
}
