package fake

import (
	"net/http"
	"net/url"

	msgraph "github.com/nais/msgraph.go/v1.0"

	"github.com/intunerator/intunerator/pkg/config"
	"github.com/intunerator/intunerator/pkg/graph"
)

// Runtime is a graph.Runtime backed by an arbitrary HTTP endpoint, for tests
// that exercise the Graph clients against a local server.
type Runtime struct {
	Cfg        *config.Config
	Client     *http.Client
	Graph      *msgraph.GraphServiceRequestBuilder
	RestClient *graph.RestClient
}

// NewRuntime points both the typed v1.0 client and the REST client at base.
// Typed requests keep their original path, so a request for the groups
// collection arrives at the test server as /v1.0/groups.
func NewRuntime(httpClient *http.Client, base string) Runtime {
	redirected := redirect(httpClient, base)

	return Runtime{
		Cfg:        &config.Config{},
		Client:     redirected,
		Graph:      msgraph.NewClient(redirected),
		RestClient: graph.NewRestClient(redirected, base),
	}
}

func (r Runtime) Config() *config.Config {
	return r.Cfg
}

func (r Runtime) GraphClient() *msgraph.GraphServiceRequestBuilder {
	return r.Graph
}

func (r Runtime) HttpClient() *http.Client {
	return r.Client
}

func (r Runtime) Rest() *graph.RestClient {
	return r.RestClient
}

func (r Runtime) MaxNumberOfPagesToFetch() int {
	return 1000
}

// redirect rewrites the scheme and host of every outgoing request to the
// given endpoint. The typed v1.0 client hardcodes graph.microsoft.com as its
// base, so pointing it at a test server requires transport-level rewriting.
func redirect(httpClient *http.Client, base string) *http.Client {
	target, err := url.Parse(base)
	if err != nil {
		panic(err)
	}

	next := httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	out := *httpClient
	out.Transport = roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		r := req.Clone(req.Context())
		r.URL.Scheme = target.Scheme
		r.URL.Host = target.Host
		return next.RoundTrip(r)
	})

	return &out
}

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
