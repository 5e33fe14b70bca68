// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	RetryBaseDelay = 1 * time.Millisecond
}

func countingServer(t *testing.T, handle func(n int32, w http.ResponseWriter)) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handle(atomic.AddInt32(&calls, 1), w)
	}))
	t.Cleanup(ts.Close)
	return ts, &calls
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		handle     func(n int32, w http.ResponseWriter)
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{
			name:       "immediate success",
			handle:     func(_ int32, w http.ResponseWriter) { w.WriteHeader(http.StatusOK) },
			maxRetries: 3,
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name: "retries then succeeds",
			handle: func(n int32, w http.ResponseWriter) {
				if n <= 2 {
					w.WriteHeader(http.StatusTooManyRequests)
					return
				}
				w.WriteHeader(http.StatusOK)
			},
			maxRetries: 3,
			wantStatus: http.StatusOK,
			wantCalls:  3,
		},
		{
			name:       "exhausts retries and returns last 429",
			handle:     func(_ int32, w http.ResponseWriter) { w.WriteHeader(http.StatusTooManyRequests) },
			maxRetries: 2,
			wantStatus: http.StatusTooManyRequests,
			wantCalls:  3,
		},
		{
			name:       "default retry count",
			handle:     func(_ int32, w http.ResponseWriter) { w.WriteHeader(http.StatusTooManyRequests) },
			maxRetries: 0,
			wantStatus: http.StatusTooManyRequests,
			wantCalls:  defaultMaxRetries + 1,
		},
		{
			name:       "server error is not retried",
			handle:     func(_ int32, w http.ResponseWriter) { w.WriteHeader(http.StatusInternalServerError) },
			maxRetries: 3,
			wantStatus: http.StatusInternalServerError,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts, calls := countingServer(t, tt.handle)

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)

			resp, err := DoWithRetry(context.Background(), ts.Client(), req, tt.maxRetries)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(calls))
		})
	}
}

func TestDoWithRetry_ContextCancelled(t *testing.T) {
	ts, _ := countingServer(t, func(_ int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCheckStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("  upstream unavailable \n"))
	}))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ok")
	require.NoError(t, err)
	resp.Body.Close()
	assert.NoError(t, CheckStatus("test", resp))

	resp, err = http.Get(ts.URL + "/fail")
	require.NoError(t, err)
	defer resp.Body.Close()

	err = CheckStatus("summariser", resp)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.Equal(t, "upstream unavailable", se.Body)
	assert.Equal(t, "summariser returned HTTP 502: upstream unavailable", err.Error())
}
