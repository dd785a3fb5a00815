package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	msgraph "github.com/nais/msgraph.go/v1.0"
	"golang.org/x/oauth2"

	"github.com/intunerator/intunerator/pkg/config"
	"github.com/intunerator/intunerator/pkg/graph"
	"github.com/intunerator/intunerator/pkg/retry"
)

const MaxNumberOfPagesToFetch = 1000

type client struct {
	config      *config.Config
	httpClient  *http.Client
	graphClient *msgraph.GraphServiceRequestBuilder
	restClient  *graph.RestClient
}

// New acquires a token source for the configured credentials and wires up the
// typed v1.0 client and the beta REST client on top of it. A failure to
// acquire a token halts the run; a bad credential will not self-correct.
func New(ctx context.Context, cfg *config.Config) (graph.Runtime, error) {
	auth := cfg.Azure.Auth
	if len(auth.ClientId) == 0 || len(auth.ClientSecret) == 0 || len(cfg.Azure.Tenant.Id) == 0 {
		return nil, fmt.Errorf("%w: client id, client secret and tenant id must all be configured", graph.ErrInvalidArgument)
	}

	var ts oauth2.TokenSource
	var err error

	switch auth.Method {
	case config.AuthMethodAzidentity:
		ts, err = NewAzidentityTokenSource(ctx, &cfg.Azure)
	default:
		ts, err = NewClientCredentialsTokenSource(ctx, &cfg.Azure)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: acquiring token source: %w", graph.ErrAuthentication, err)
	}

	httpClient := oauth2.NewClient(ctx, ts)
	graphClient := msgraph.NewClient(httpClient)

	restClient := graph.NewRestClient(httpClient, graph.BetaEndpoint)
	if cfg.Graph.Paging.Enabled {
		restClient = restClient.WithPaging(MaxNumberOfPagesToFetch)
	}
	if cfg.Graph.Retry.Enabled {
		backoff := retry.Fibonacci(1 * time.Second).WithMaxDuration(cfg.Graph.Retry.MaxDuration)
		restClient = restClient.WithRetry(backoff)
	}

	return client{
		config:      cfg,
		httpClient:  httpClient,
		graphClient: graphClient,
		restClient:  restClient,
	}, nil
}

func (c client) Config() *config.Config {
	return c.config
}

func (c client) GraphClient() *msgraph.GraphServiceRequestBuilder {
	return c.graphClient
}

func (c client) HttpClient() *http.Client {
	return c.httpClient
}

func (c client) Rest() *graph.RestClient {
	return c.restClient
}

func (c client) MaxNumberOfPagesToFetch() int {
	return MaxNumberOfPagesToFetch
}
