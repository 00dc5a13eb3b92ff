package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFetcher(sizeCap int64) *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{
		Timeout:      5 * time.Second,
		Retries:      2,
		RetryWait:    time.Millisecond,
		RetryMaxWait: 5 * time.Millisecond,
		SizeCap:      sizeCap,
	})
}

func TestFetchHTML(t *testing.T) {
	var ua atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("<html><title>x</title></html>"))
	}))
	defer ts.Close()

	res, err := testFetcher(1024).Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html><title>x</title></html>", string(res.Body))
	assert.Equal(t, ts.URL, res.FinalURL)
	assert.Equal(t, "text/html; charset=utf-8", res.ContentType)
	assert.Greater(t, res.Elapsed, time.Duration(0))
	assert.Contains(t, defaultUserAgents, ua.Load())
}

func TestRejectNonHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("{}"))
	}))
	defer ts.Close()

	_, err := testFetcher(1024).Fetch(context.Background(), ts.URL)
	assert.ErrorIs(t, err, ErrNonHTML)
}

func TestInvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "ftp://example.com/x", "/search.mp"} {
		_, err := testFetcher(0).Fetch(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>ok</p>"))
	}))
	defer ts.Close()

	res, err := testFetcher(0).Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "<p>ok</p>", string(res.Body))
	assert.Equal(t, int32(3), hits.Load())
}

func TestNoRetryOnNotFound(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := testFetcher(0).Fetch(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Equal(t, int32(1), hits.Load())
}

func TestSizeCap(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(strings.Repeat("a", 4096)))
	}))
	defer ts.Close()

	res, err := testFetcher(100).Fetch(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Len(t, res.Body, 100)
}

func TestIsHTML(t *testing.T) {
	assert.True(t, isHTML(""))
	assert.True(t, isHTML("text/html"))
	assert.True(t, isHTML("application/xhtml+xml; charset=utf-8"))
	assert.False(t, isHTML("application/json"))
	assert.False(t, isHTML("text/plain"))
}
