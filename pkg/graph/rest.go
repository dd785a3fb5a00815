package graph

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nais/msgraph.go/jsonx"

	"github.com/intunerator/intunerator/pkg/retry"
)

const (
	V1Endpoint   = "https://graph.microsoft.com/v1.0"
	BetaEndpoint = "https://graph.microsoft.com/beta"
)

// RestClient issues authenticated GET requests against Graph API surfaces that
// the typed v1.0 client does not cover, such as the beta device app management
// endpoints. Responses outside the 2xx range are mapped to *Error.
type RestClient struct {
	base       string
	httpClient *http.Client
	maxPages   int
	backoff    *retry.Backoff
}

// NewRestClient returns a client rooted at the given base endpoint. The
// http.Client is expected to attach bearer tokens (see oauth2.NewClient).
// By default only the first page of collection responses is consumed and
// failed requests are not retried.
func NewRestClient(httpClient *http.Client, base string) *RestClient {
	return &RestClient{
		base:       base,
		httpClient: httpClient,
		maxPages:   1,
	}
}

// WithPaging enables following @odata.nextLink for up to maxPages pages per
// collection.
func (c *RestClient) WithPaging(maxPages int) *RestClient {
	out := *c
	out.maxPages = maxPages
	return &out
}

// WithRetry enables retries of throttled requests using the given backoff. The
// Retry-After hint from the response is honored as a minimum wait.
func (c *RestClient) WithRetry(backoff retry.Backoff) *RestClient {
	out := *c
	out.backoff = &backoff
	return &out
}

// Get fetches a single resource at path, decoding the JSON response into out.
func (c *RestClient) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.get(ctx, c.url(path, query), out)
}

// GetList fetches a collection at path, unwrapping the standard Graph `value`
// envelope. Pages beyond the first are only fetched when paging is enabled on
// the client.
func GetList[T any](ctx context.Context, c *RestClient, path string, query url.Values) ([]T, error) {
	type envelope struct {
		Value    []T    `json:"value"`
		NextLink string `json:"@odata.nextLink"`
	}

	out := make([]T, 0)
	next := c.url(path, query)

	for page := 1; ; page++ {
		var res envelope
		if err := c.get(ctx, next, &res); err != nil {
			return nil, err
		}

		out = append(out, res.Value...)

		if len(res.NextLink) == 0 || page >= c.maxPages {
			return out, nil
		}
		next = res.NextLink
	}
}

func (c *RestClient) url(path string, query url.Values) string {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *RestClient) get(ctx context.Context, rawURL string, out any) error {
	do := func(ctx context.Context) error {
		return c.getOnce(ctx, rawURL, out)
	}

	if c.backoff == nil {
		return do(ctx)
	}
	return c.backoff.Do(ctx, do)
}

func (c *RestClient) getOnce(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("client-request-id", uuid.New().String())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing http request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(res.Body)
		apiErr := NewError(res, body)

		if c.backoff != nil && apiErr.Retryable() {
			if err := waitRetryAfter(ctx, res); err != nil {
				return err
			}
			return retry.RetryableError(apiErr)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := jsonx.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding json response: %w", err)
	}
	return nil
}

func waitRetryAfter(ctx context.Context, res *http.Response) error {
	wait := retryAfter(res)
	if wait <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

func retryAfter(res *http.Response) time.Duration {
	raw := res.Header.Get("Retry-After")
	if len(raw) == 0 {
		return 0
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
