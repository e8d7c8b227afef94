package state

import (
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/five82/statusbox/internal/status"
)

func TestStore_ZeroValueIsLoading(t *testing.T) {
	var s Store
	snap := s.Snapshot()
	if !snap.Loading() {
		t.Fatalf("Loading() = false, want true before first update")
	}
	if snap.LastUpdatedLabel() != "" {
		t.Fatalf("LastUpdatedLabel = %q, want empty", snap.LastUpdatedLabel())
	}
}

func TestStore_UpdateReplacesWholesale(t *testing.T) {
	var s Store

	at := time.Date(2026, 3, 1, 14, 32, 15, 0, time.Local)
	s.Update(status.Record{ID: "1", Title: "Build", IsBusy: true, Message: "Compiling"}, nil, at)
	s.Update(status.Empty(), nil, at.Add(time.Second))

	snap := s.Snapshot()
	if snap.Loading() {
		t.Fatalf("Loading() = true, want false after update")
	}
	if snap.Status != status.Empty() {
		t.Fatalf("Status = %#v, want %#v (no merge with previous record)", snap.Status, status.Empty())
	}
	if snap.LastUpdatedLabel() != "14:32:16" {
		t.Fatalf("LastUpdatedLabel = %q, want 14:32:16", snap.LastUpdatedLabel())
	}
	if snap.Fetches != 2 {
		t.Fatalf("Fetches = %d, want 2", snap.Fetches)
	}
}

func TestStore_ErrorIsRecordedAndCloned(t *testing.T) {
	var s Store

	origErr := errors.New("boom")
	s.Update(status.Offline(), origErr, time.Now())

	snap := s.Snapshot()
	if snap.Status != status.Offline() {
		t.Fatalf("Status = %#v, want Offline", snap.Status)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	s.Update(status.Offline(), errors.New("fail 1"), time.Now())
	s.Update(status.Offline(), errors.New("fail 2"), time.Now())
	if got := s.Snapshot().ConsecutiveFailures; got != 2 {
		t.Fatalf("ConsecutiveFailures = %d, want 2", got)
	}

	s.Update(status.Empty(), nil, time.Now())
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after success", snap.ConsecutiveFailures)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil after success", snap.LastError)
	}
}

func TestStore_ConcurrentUpdatesNeverTear(t *testing.T) {
	var s Store
	a := status.Record{ID: "1", Title: "A", IsBusy: true, Message: "one"}
	b := status.Record{ID: "2", Title: "B", IsBusy: false, Message: "two"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); s.Update(a, nil, time.Now()) }()
		go func() { defer wg.Done(); s.Update(b, nil, time.Now()) }()
	}
	wg.Wait()

	got := s.Snapshot().Status
	if got != a && got != b {
		t.Fatalf("Status = %#v, want exactly one of the written records", got)
	}
}
