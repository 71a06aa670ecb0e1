/* external_test.go
 * Contains unit tests for external.go HTTP functions using httptest
 * Authors: Zachary Bower
 */

package external

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient creates a client pointed at the given test server
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	client, err := NewClient(server.URL, 2*time.Second, 0)
	require.NoError(t, err)
	return client
}

// region NewClient tests

func TestNewClient_DefaultBaseURL(t *testing.T) {
	client, err := NewClient("", 0, 0)

	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.BaseURL)
	assert.Nil(t, client.Limiter)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client, err := NewClient("http://jcup.local:9001/", 0, 0)

	require.NoError(t, err)
	assert.Equal(t, "http://jcup.local:9001", client.BaseURL)
}

func TestNewClient_InvalidScheme(t *testing.T) {
	_, err := NewClient("ftp://jcup.local", 0, 0)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "scheme must be http or https")
}

func TestNewClient_WithRateLimit(t *testing.T) {
	client, err := NewClient("http://jcup.local", time.Second, 2)

	require.NoError(t, err)
	require.NotNil(t, client.Limiter)
	assert.Equal(t, time.Second, client.HTTPClient.Timeout)
}

// endregion

// region InitTournament tests

func TestInitTournament_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, InitPath, r.URL.Path)
		assert.Equal(t, "JCupClient/1.0", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"fixtures":[[{"team1":{"name":"A"},"team2":{"name":"B"}},{"team1":{"name":"C","id":7},"team2":null}]]}`))
	}))
	defer server.Close()

	payload, err := newTestClient(t, server).InitTournament(context.Background())

	require.NoError(t, err)
	require.Len(t, payload.Fixtures, 1)
	require.Len(t, payload.Fixtures[0], 2)
	assert.Equal(t, "A", payload.Fixtures[0][0].Team1.Name)
	assert.Equal(t, "B", payload.Fixtures[0][0].Team2.Name)
	assert.Equal(t, "C", payload.Fixtures[0][1].Team1.Name)
	assert.Nil(t, payload.Fixtures[0][1].Team2)
}

func TestInitTournament_GzipResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check that client accepts gzip
		assert.Equal(t, "gzip", r.Header.Get("Accept-Encoding"))

		var buf bytes.Buffer
		gzWriter := gzip.NewWriter(&buf)
		gzWriter.Write([]byte(`{"fixtures":[[{"team1":{"name":"A"},"team2":{"name":"B"}}]]}`))
		gzWriter.Close()

		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	payload, err := newTestClient(t, server).InitTournament(context.Background())

	require.NoError(t, err)
	require.Len(t, payload.Fixtures, 1)
	assert.Equal(t, "B", payload.Fixtures[0][0].Team2.Name)
}

func TestInitTournament_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	payload, err := newTestClient(t, server).InitTournament(context.Background())

	assert.Nil(t, payload)
	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusInternalServerError, transportErr.Status)
	assert.Equal(t, "Internal Server Error", transportErr.Cause)
	assert.False(t, transportErr.IsParseError())
}

func TestInitTournament_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(t, server).InitTournament(context.Background())

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusNotFound, transportErr.Status)
	assert.Contains(t, err.Error(), "status 404")
}

func TestInitTournament_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	_, err := newTestClient(t, server).InitTournament(context.Background())

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, CauseParseError, transportErr.Cause)
	assert.True(t, transportErr.IsParseError())
}

func TestInitTournament_WrongShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"fixtures":"soon"}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server).InitTournament(context.Background())

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.True(t, transportErr.IsParseError())
}

func TestInitTournament_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(url, time.Second, 0)
	require.NoError(t, err)

	_, err = client.InitTournament(context.Background())

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, 0, transportErr.Status)
	assert.NotEmpty(t, transportErr.Cause)
	assert.Contains(t, err.Error(), "request failed")
}

func TestInitTournament_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, 20*time.Millisecond, 0)
	require.NoError(t, err)

	_, err = client.InitTournament(context.Background())

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, CauseTimeout, transportErr.Cause)
}

// endregion

// region PlayRound tests

func TestPlayRound_FixtureList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PlayPath, r.URL.Path)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"results":{"roundResults":["A beat B 3-1"],"highlights":[["A scores"]],"nextRoundFixtures":[{"team1":{"name":"A"},"team2":{"name":"C"}}]}}`))
	}))
	defer server.Close()

	payload, err := newTestClient(t, server).PlayRound(context.Background())

	require.NoError(t, err)
	require.NotNil(t, payload.Results)
	assert.Equal(t, []string{"A beat B 3-1"}, payload.Results.RoundResults)
	require.Len(t, payload.Results.Highlights, 1)
	assert.Equal(t, "A scores", payload.Results.Highlights[0][0])
	assert.Contains(t, string(payload.Results.NextRoundFixtures), `"team1"`)
	assert.Nil(t, payload.Results.Winner)
}

func TestPlayRound_SentinelString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"results":{"nextRoundFixtures":"Tournament finished, initializing new tournament.","winner":{"name":"C"}}}`))
	}))
	defer server.Close()

	payload, err := newTestClient(t, server).PlayRound(context.Background())

	require.NoError(t, err)
	assert.Equal(t, `"Tournament finished, initializing new tournament."`, string(payload.Results.NextRoundFixtures))
	require.NotNil(t, payload.Results.Winner)
	assert.Equal(t, "C", payload.Results.Winner.Name)
}

func TestPlayRound_MissingResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server).PlayRound(context.Background())

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.True(t, transportErr.IsParseError())
}

func TestPlayRound_BadGateway(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestClient(t, server).PlayRound(context.Background())

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, http.StatusBadGateway, transportErr.Status)
}

func TestPlayRound_CancelledContextWhileWaitingForLimiter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"results":{"nextRoundFixtures":[]}}`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second, 0.001)
	require.NoError(t, err)

	// First request consumes the only token
	_, err = client.PlayRound(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.PlayRound(ctx)

	var transportErr *TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, 0, transportErr.Status)
}

// endregion

// region TransportError tests

func TestTransportError_Unwrap(t *testing.T) {
	inner := errors.New("dial tcp: connection refused")
	err := &TransportError{Cause: inner.Error(), Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "jcup service request failed: dial tcp: connection refused", err.Error())
}

// endregion
