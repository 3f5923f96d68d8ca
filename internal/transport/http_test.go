package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealerfeeds/internal/config"
	"dealerfeeds/pkg/utils"
)

var fastRetry = config.RetryPolicy{MaxAttempts: 3, InitialDelayMs: 1, MaxDelayMs: 5, BackoffMultiplier: 2}

func newHTTPSource(t *testing.T, url string) *HTTPSource {
	t.Helper()

	src, err := NewHTTPSourceWithClient(url, fastRetry, http.DefaultClient, nil)
	require.NoError(t, err)

	src.tempDir = t.TempDir()

	return src
}

func TestHTTPSource_Fetch(t *testing.T) {
	var userAgent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(inventoryCSV))
	}))
	defer server.Close()

	snapshot, err := newHTTPSource(t, server.URL+"/exports/Vincue.csv").Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Vincue.csv", snapshot.Name)
	assert.True(t, snapshot.Temporary)
	assert.Equal(t, int64(len(inventoryCSV)), snapshot.Size)
	assert.Equal(t, utils.UserAgent, userAgent)

	data, err := os.ReadFile(snapshot.Path)
	require.NoError(t, err)
	assert.Equal(t, inventoryCSV, string(data))

	require.NoError(t, snapshot.Cleanup())
	assert.NoFileExists(t, snapshot.Path)
}

func TestHTTPSource_RetriesTemporaryFailures(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		_, _ = w.Write([]byte(inventoryCSV))
	}))
	defer server.Close()

	snapshot, err := newHTTPSource(t, server.URL).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, defaultExportName, snapshot.Name)
}

func TestHTTPSource_PermanentFailure(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newHTTPSource(t, server.URL+"/missing.csv").Fetch(context.Background())
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrUnexpectedStatusCode))
	assert.Equal(t, int32(1), calls.Load(), "client errors are not retried")
}

func TestHTTPSource_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newHTTPSource(t, server.URL).Fetch(context.Background())
	require.ErrorIs(t, err, ErrUnexpectedStatusCode)
	assert.Contains(t, err.Error(), "attempt 3/3")
	assert.Equal(t, int32(3), calls.Load())
}

func TestNewHTTPSource_Validation(t *testing.T) {
	_, err := NewHTTPSource(" ", fastRetry, 0, nil)
	assert.True(t, errors.Is(err, ErrMissingURL))
}

func TestExportName(t *testing.T) {
	assert.Equal(t, "Vincue.csv", exportName("https://dms.example.com/drop/Vincue.csv?token=x"))
	assert.Equal(t, defaultExportName, exportName("https://dms.example.com"))
	assert.Equal(t, defaultExportName, exportName("https://dms.example.com/"))
}
