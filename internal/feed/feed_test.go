package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aerops-dev/crew-scheduler/backend/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Feed.SnapshotURL = server.URL + "/carrier"
	cfg.Feed.UpdatesURL = server.URL + "/updates"
	cfg.Feed.AppID = "test-id"
	cfg.Feed.AppKey = "test-key"
	cfg.Feed.RequestTimeout = 5
	cfg.Feed.Carriers = []string{"EI", "BA"}

	client := NewClient(cfg)
	client.now = func() time.Time {
		return time.Date(2025, 11, 9, 12, 0, 0, 0, time.UTC)
	}
	return client
}

func TestClientSnapshotRequest(t *testing.T) {
	var got *http.Request
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_, _ = io.WriteString(w, `{"flights":[]}`)
	})

	payload, err := client.Snapshot(context.Background(), "2025-11-10", "", time.UTC)
	require.NoError(t, err)
	assert.JSONEq(t, `{"flights":[]}`, string(payload))

	require.NotNil(t, got)
	assert.Equal(t, "/carrier/EI,BA", got.URL.Path)
	assert.Equal(t, "1", got.URL.Query().Get("startDay"), "tomorrow relative to the pinned clock")
	assert.Equal(t, "2", got.URL.Query().Get("endDay"))
	assert.Equal(t, "test-id", got.Header.Get("app_id"))
	assert.Equal(t, "test-key", got.Header.Get("app_key"))
}

func TestClientSnapshotDirectionFilter(t *testing.T) {
	var query string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := client.Snapshot(context.Background(), "2025-11-09", "Arrival", time.UTC)
	require.NoError(t, err)
	assert.Contains(t, query, "direction=Arrival")
	assert.Contains(t, query, "startDay=0")
}

func TestClientSnapshotRejectsBadDate(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {})
	_, err := client.Snapshot(context.Background(), "09/11/2025", "", time.UTC)
	assert.Error(t, err)
}

func TestClientUpdatesRequest(t *testing.T) {
	var got *http.Request
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := client.Updates(context.Background(), "2025-11-09T11:55:00")
	require.NoError(t, err)
	assert.Equal(t, "/updates", got.URL.Path)
	assert.Equal(t, "2025-11-09T11:55:00", got.URL.Query().Get("latestModTime"))
}

func TestClientSurfacesUpstreamErrors(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.Snapshot(context.Background(), "2025-11-09", "", time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

type fakeFetcher struct {
	payload []byte
	err     error
}

func (f *fakeFetcher) Snapshot(context.Context, string, string, *time.Location) ([]byte, error) {
	return f.payload, f.err
}

type memoryStore struct {
	snapshots map[string][]byte
}

func (m *memoryStore) Store(_ context.Context, dateKey string, payload []byte) error {
	if m.snapshots == nil {
		m.snapshots = map[string][]byte{}
	}
	m.snapshots[dateKey] = payload
	return nil
}

func (m *memoryStore) Load(_ context.Context, dateKey string) ([]byte, error) {
	payload, ok := m.snapshots[dateKey]
	if !ok {
		return nil, ErrNoSnapshot
	}
	return payload, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServiceCachesLiveSnapshot(t *testing.T) {
	store := &memoryStore{}
	svc := NewService(&fakeFetcher{payload: []byte(`[]`)}, store, discardLogger())

	payload, online, err := svc.Snapshot(context.Background(), "2025-11-09", time.UTC)
	require.NoError(t, err)
	assert.True(t, online)
	assert.Equal(t, []byte(`[]`), payload)
	assert.Equal(t, []byte(`[]`), store.snapshots["2025-11-09"])
}

func TestServiceFallsBackToCache(t *testing.T) {
	store := &memoryStore{snapshots: map[string][]byte{"2025-11-09": []byte(`[{"cached":true}]`)}}
	svc := NewService(&fakeFetcher{err: errors.New("connection refused")}, store, discardLogger())

	payload, online, err := svc.Snapshot(context.Background(), "2025-11-09", time.UTC)
	require.NoError(t, err)
	assert.False(t, online)
	assert.Equal(t, []byte(`[{"cached":true}]`), payload)
}

func TestServiceReportsFetchErrorWithoutCache(t *testing.T) {
	fetchErr := errors.New("connection refused")
	svc := NewService(&fakeFetcher{err: fetchErr}, &memoryStore{}, discardLogger())

	_, online, err := svc.Snapshot(context.Background(), "2025-11-09", time.UTC)
	assert.False(t, online)
	assert.ErrorIs(t, err, fetchErr)
}
