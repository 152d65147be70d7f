package httpfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/iiif-vault/internal/core/ports/driven"
)

func TestFetch_OK(t *testing.T) {
	var gotUA, gotAccept, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		gotCustom = r.Header.Get("X-Test")
		_, _ = w.Write([]byte(`{"id":"m1","type":"Manifest"}`))
	}))
	defer srv.Close()

	f := New(Config{UserAgent: "vault-test", RequestsPerSecond: 100, Burst: 10})
	body, err := f.Fetch(context.Background(), srv.URL, driven.FetchOptions{
		Headers: map[string]string{"X-Test": "yes"},
	})

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"m1","type":"Manifest"}`, string(body))
	assert.Equal(t, "vault-test", gotUA)
	assert.Contains(t, gotAccept, "application/ld+json")
	assert.Equal(t, "yes", gotCustom)
}

func TestFetch_Non200IsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(Config{RequestsPerSecond: 100, Burst: 10})
	_, err := f.Fetch(context.Background(), srv.URL+"/missing", driven.FetchOptions{})

	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, srv.URL+"/missing", httpErr.URL)
	assert.True(t, httpErr.IsClientError())
}

func TestFetch_BearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	f := New(Config{Token: "secret", RequestsPerSecond: 100, Burst: 10})
	_, err := f.Fetch(context.Background(), srv.URL, driven.FetchOptions{})

	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestFetch_TooManyRequestsSetsBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := New(Config{RequestsPerSecond: 100, Burst: 10})
	_, err := f.Fetch(context.Background(), srv.URL, driven.FetchOptions{})

	require.Error(t, err)
	assert.Equal(t, http.StatusTooManyRequests, StatusCode(err))
	assert.True(t, f.limiter.RetryAt().After(time.Now().Add(time.Minute)))

	// The next call waits for the backoff, so a short deadline fails.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = f.Fetch(ctx, srv.URL, driven.FetchOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetch_BreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := New(Config{RequestsPerSecond: 1000, Burst: 100})
	for i := 0; i < 5; i++ {
		_, err := f.Fetch(context.Background(), srv.URL, driven.FetchOptions{})
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, f.State())

	_, err := f.Fetch(context.Background(), srv.URL, driven.FetchOptions{})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(5), hits.Load())
}

func TestFetch_ClientErrorsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(Config{RequestsPerSecond: 1000, Burst: 100})
	for i := 0; i < 10; i++ {
		_, _ = f.Fetch(context.Background(), srv.URL, driven.FetchOptions{})
	}
	assert.Equal(t, gobreaker.StateClosed, f.State())
}

func TestRetryAfter(t *testing.T) {
	assert.Equal(t, time.Duration(0), retryAfter(""))
	assert.Equal(t, 5*time.Second, retryAfter("5"))
	assert.Equal(t, time.Duration(0), retryAfter("soon"))

	future := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
	assert.Greater(t, retryAfter(future), 50*time.Minute)
}

func TestRateLimiter_Defaults(t *testing.T) {
	r := NewRateLimiter(0, 0)
	require.NotNil(t, r)
	assert.NoError(t, r.Wait(context.Background()))

	r.RecordRateLimitError(0)
	assert.True(t, r.RetryAt().After(time.Now().Add(DefaultBackoff-time.Second)))
}
