/* external.go
 * Contains the logic used to fetch data from the JCup tournament service. Every failure is normalised into a
 * TransportError so that the callers only ever deal with one error type for the network boundary
 * Authors: Zachary Bower
 */

package external

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "http://localhost:9001"
	InitPath       = "/api/jcup/init"
	PlayPath       = "/api/jcup/play"
	userAgent      = "JCupClient/1.0"
)

// Client talks to the JCup service. It performs no retries; retry policy belongs to the caller
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Limiter    *rate.Limiter // optional, nil means requests are never paced
}

// NewClient creates a Client for the given base origin.
// Preconditions: Receives base url (e.g. http://localhost:9001), request timeout (0 = none) and maximum requests per
// second (0 = unlimited)
// Postconditions: Returns pointer to Client, or error if the base url is invalid
func NewClient(baseURL string, timeout time.Duration, requestsPerSecond float64) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}

	client := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if requestsPerSecond > 0 {
		client.Limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return client, nil
}

// InitTournament requests a fresh tournament.
// Preconditions: Receives context for the request
// Postconditions: Returns the decoded init payload, or a *TransportError if it occurs
func (c *Client) InitTournament(ctx context.Context) (*InitPayload, error) {
	body, err := c.fetch(ctx, InitPath)
	if err != nil {
		return nil, err
	}

	var payload InitPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &TransportError{Cause: CauseParseError, Err: err}
	}
	return &payload, nil
}

// PlayRound asks the service to simulate the next round.
// Preconditions: Receives context for the request
// Postconditions: Returns the decoded play payload, or a *TransportError if it occurs
func (c *Client) PlayRound(ctx context.Context) (*PlayPayload, error) {
	body, err := c.fetch(ctx, PlayPath)
	if err != nil {
		return nil, err
	}

	var payload PlayPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &TransportError{Cause: CauseParseError, Err: err}
	}
	if payload.Results == nil {
		return nil, &TransportError{Cause: CauseParseError, Err: errors.New("missing 'results' field")}
	}
	return &payload, nil
}

// fetch issues a GET for path and returns the raw body of a 2xx response
func (c *Client) fetch(ctx context.Context, path string) ([]byte, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Cause: err.Error(), Err: err}
		}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, &TransportError{Cause: err.Error(), Err: err}
	}

	// Headers to apply with API requirements
	request.Header.Set("User-Agent", userAgent)
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Accept-Encoding", "gzip")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	response, err := httpClient.Do(request)
	if err != nil {
		cause := err.Error()
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			cause = CauseTimeout
		}
		return nil, &TransportError{Cause: cause, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &TransportError{Status: response.StatusCode, Cause: http.StatusText(response.StatusCode)}
	}

	// Get body from response
	var reader io.Reader = response.Body
	if response.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(response.Body)
		if err != nil {
			return nil, &TransportError{Status: response.StatusCode, Cause: CauseParseError, Err: err}
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &TransportError{Status: response.StatusCode, Cause: err.Error(), Err: err}
	}
	return body, nil
}
