package widget

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/statusbox/internal/cms"
	"github.com/five82/statusbox/internal/status"
)

type fakeFetcher struct {
	calls atomic.Int64
	fetch func(ctx context.Context) (*cms.StatusEntry, error)
}

func (f *fakeFetcher) FetchLatestStatus(ctx context.Context) (*cms.StatusEntry, error) {
	f.calls.Add(1)
	if f.fetch == nil {
		return nil, nil
	}
	return f.fetch(ctx)
}

func boolPtr(v bool) *bool { return &v }

func entry(id, title string, busy bool, message string) *cms.StatusEntry {
	return &cms.StatusEntry{
		ID:         cms.EntryID(id),
		Attributes: &cms.StatusAttributes{Title: title, IsBusy: boolPtr(busy), Message: message},
	}
}

func TestRefresh_Outcomes(t *testing.T) {
	cases := []struct {
		name    string
		fetch   func(ctx context.Context) (*cms.StatusEntry, error)
		want    status.Record
		wantErr bool
	}{
		{
			name: "first record passthrough",
			fetch: func(context.Context) (*cms.StatusEntry, error) {
				return entry("1", "Build", true, "Compiling"), nil
			},
			want: status.Record{ID: "1", Title: "Build", IsBusy: true, Message: "Compiling"},
		},
		{
			name: "not busy passthrough",
			fetch: func(context.Context) (*cms.StatusEntry, error) {
				return entry("2", "Desk", false, ""), nil
			},
			want: status.Record{ID: "2", Title: "Desk", IsBusy: false, Message: "Available"},
		},
		{
			name:  "empty collection",
			fetch: func(context.Context) (*cms.StatusEntry, error) { return nil, nil },
			want:  status.Empty(),
		},
		{
			name: "network error",
			fetch: func(context.Context) (*cms.StatusEntry, error) {
				return nil, errors.New("dial tcp: connection refused")
			},
			want:    status.Offline(),
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := New(&fakeFetcher{fetch: tc.fetch}, Options{})
			if !w.Snapshot().Loading() {
				t.Fatalf("Loading() = false before first fetch, want true")
			}

			snap := w.Refresh(context.Background())
			if snap.Status != tc.want {
				t.Fatalf("Status = %#v, want %#v", snap.Status, tc.want)
			}
			if snap.Loading() {
				t.Fatalf("Loading() = true after fetch, want false")
			}
			if snap.LastUpdatedLabel() == "" {
				t.Fatalf("LastUpdatedLabel is empty after fetch")
			}
			if (snap.LastError != nil) != tc.wantErr {
				t.Fatalf("LastError = %v, wantErr %v", snap.LastError, tc.wantErr)
			}
		})
	}
}

func TestRefresh_NilFetcherIsOffline(t *testing.T) {
	w := New(nil, Options{})
	snap := w.Refresh(context.Background())
	if snap.Status != status.Offline() {
		t.Fatalf("Status = %#v, want Offline", snap.Status)
	}
}

func TestRefresh_UsesClockForLastUpdated(t *testing.T) {
	at := time.Date(2026, 10, 16, 9, 5, 7, 0, time.Local)
	w := New(&fakeFetcher{}, Options{Now: func() time.Time { return at }})
	snap := w.Refresh(context.Background())
	if got := snap.LastUpdatedLabel(); got != "09:05:07" {
		t.Fatalf("LastUpdatedLabel = %q, want 09:05:07", got)
	}
}

func TestRefresh_ConcurrentCallsConverge(t *testing.T) {
	f := &fakeFetcher{fetch: func(context.Context) (*cms.StatusEntry, error) {
		time.Sleep(time.Millisecond)
		return entry("4", "Meeting", true, "In a call"), nil
	}}
	w := New(f, Options{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Refresh(context.Background())
		}()
	}
	wg.Wait()

	want := status.Record{ID: "4", Title: "Meeting", IsBusy: true, Message: "In a call"}
	snap := w.Snapshot()
	if snap.Status != want {
		t.Fatalf("Status = %#v, want %#v", snap.Status, want)
	}
	if snap.Fetches != 8 {
		t.Fatalf("Fetches = %d, want 8", snap.Fetches)
	}
}

func TestRefresh_AgainstHTTPServer(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    status.Record
	}{
		{
			name: "busy record",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":[{"id":1,"attributes":{"title":"Build","isBusy":true,"message":"Compiling"}}]}`))
			},
			want: status.Record{ID: "1", Title: "Build", IsBusy: true, Message: "Compiling"},
		},
		{
			name: "string id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":[{"id":"a1b2","attributes":{"title":"Build","isBusy":false,"message":"Idle"}}]}`))
			},
			want: status.Record{ID: "a1b2", Title: "Build", IsBusy: false, Message: "Idle"},
		},
		{
			name: "flattened entry",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":[{"id":9,"title":"Desk","isBusy":true}]}`))
			},
			want: status.Record{ID: "9", Title: "Desk", IsBusy: true, Message: "Busy"},
		},
		{
			name: "empty data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":[]}`))
			},
			want: status.Empty(),
		},
		{
			name: "null body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`null`))
			},
			want: status.Offline(),
		},
		{
			name: "null attributes",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":[{"id":1,"attributes":null}]}`))
			},
			want: status.Offline(),
		},
		{
			name: "entry without status fields",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":[{"id":1}]}`))
			},
			want: status.Offline(),
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			want: status.Offline(),
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":[`))
			},
			want: status.Offline(),
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			want: status.Offline(),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			client, err := cms.NewClient(server.URL)
			if err != nil {
				t.Fatalf("NewClient returned error: %v", err)
			}
			w := New(client, Options{})

			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			snap := w.Refresh(ctx)
			if snap.Status != tc.want {
				t.Fatalf("Status = %#v, want %#v", snap.Status, tc.want)
			}
			if snap.Loading() || snap.LastUpdatedLabel() == "" {
				t.Fatalf("snapshot still loading after fetch: %#v", snap)
			}
		})
	}
}

func TestRefresh_ClosedServerIsOffline(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := cms.NewClient(url)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	snap := New(client, Options{}).Refresh(context.Background())
	if snap.Status != status.Offline() {
		t.Fatalf("Status = %#v, want Offline", snap.Status)
	}
}
