package books

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndpoint_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseEndpoint("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEndpoint, u.String())

	u, err = parseEndpoint("books.example.com/v1/volumes?key=x#frag")
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "/v1/volumes", u.Path)
	assert.Empty(t, u.RawQuery)
	assert.Empty(t, u.Fragment)

	_, err = parseEndpoint("http://")
	assert.Error(t, err)
}

func TestClient_SearchSendsOnlyEncodedQuery(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	var gotRawQuery, gotUserAgent, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotRawQuery = r.URL.RawQuery
		gotUserAgent = r.Header.Get("User-Agent")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalItems":1,"items":[{"id":"1","volumeInfo":{"title":"Dune"}}]}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL + "/books/v1/volumes")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	got, err := c.Search(ctx, "  frank herbert & dune ")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "Dune", got[0].Title)
	assert.Equal(t, FallbackAuthors, got[0].DisplayAuthors())

	assert.Equal(t, "/books/v1/volumes", gotPath)
	assert.Len(t, gotQuery, 1)
	assert.Equal(t, "  frank herbert & dune ", gotQuery.Get("q"))
	assert.Equal(t, "q=++frank+herbert+%26+dune+", gotRawQuery)
	assert.True(t, strings.HasPrefix(gotUserAgent, "folio/"), "User-Agent = %q", gotUserAgent)
}

func TestClient_SearchMissingItemsIsEmptyNotError(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{}`, `{"totalItems":0,"items":[]}`} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))

		c, err := NewClient(server.URL)
		require.NoError(t, err)

		got, err := c.Search(context.Background(), "zzzzUnlikely")
		server.Close()
		require.NoError(t, err, "body %s", body)
		assert.Empty(t, got, "body %s", body)
	}
}

func TestClient_SearchHTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "broken":
			_, _ = w.Write([]byte("{not-json"))
		default:
			http.Error(w, "quota", http.StatusTooManyRequests)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "quota")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
	assert.Contains(t, err.Error(), "returned status 429")

	_, err = c.Search(context.Background(), "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_SearchTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	c, err := NewClient(endpoint)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "dune")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute request")
}

func TestClient_SearchRejectsBlankQuery(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "   ")
	assert.Error(t, err)
	assert.Zero(t, hits.Load())
}

func TestClient_SearchHonorsCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, WithRateLimit(1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Search(ctx, "dune")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClient_OptionsApply(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	shared := &http.Client{}
	c, err := NewClient(server.URL, WithHTTPClient(shared), WithTimeout(3*time.Second), WithUserAgent("custom/1"))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, c.http.Timeout)
	assert.Zero(t, shared.Timeout, "caller's http.Client must not change")
	assert.NotSame(t, shared, c.http)

	_, err = c.Search(context.Background(), "dune")
	require.NoError(t, err)
	assert.Equal(t, "custom/1", gotUserAgent)
}

func TestClient_TimeoutSurvivesOptionOrder(t *testing.T) {
	c, err := NewClient("http://127.0.0.1:9", WithTimeout(3*time.Second), WithHTTPClient(&http.Client{}))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, c.http.Timeout)

	c, err = NewClient("http://127.0.0.1:9")
	require.NoError(t, err)
	assert.Zero(t, c.http.Timeout)
}

func TestNormalizeQuery_ComposesUnicodeKeepsSpaces(t *testing.T) {
	decomposed := "Jose\u0301 Saramago"
	assert.Equal(t, "  Jos\u00e9 Saramago ", NormalizeQuery("  "+decomposed+" "))
}
