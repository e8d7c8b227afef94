package widget

import (
	"context"
	"testing"
	"time"

	"github.com/five82/statusbox/internal/cms"
)

const testInterval = 10 * time.Millisecond

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestMount_InitialFetchAndPeriodicRefresh(t *testing.T) {
	f := &fakeFetcher{fetch: func(context.Context) (*cms.StatusEntry, error) {
		return entry("1", "Build", true, "Compiling"), nil
	}}
	w := New(f, Options{Interval: testInterval})
	t.Cleanup(w.Unmount)

	w.Mount(context.Background())
	if !w.Mounted() {
		t.Fatalf("Mounted() = false after Mount")
	}

	waitFor(t, time.Second, func() bool { return !w.Snapshot().Loading() })
	if got := w.Snapshot().Status.Title; got != "Build" {
		t.Fatalf("Title = %q, want Build", got)
	}
	waitFor(t, time.Second, func() bool { return f.calls.Load() >= 3 })
}

func TestUnmount_StopsTimer(t *testing.T) {
	f := &fakeFetcher{}
	w := New(f, Options{Interval: testInterval})

	w.Mount(context.Background())
	waitFor(t, time.Second, func() bool { return f.calls.Load() >= 2 })

	w.Unmount()
	if w.Mounted() {
		t.Fatalf("Mounted() = true after Unmount")
	}

	// Let any fetch that was already in flight settle.
	time.Sleep(5 * testInterval)
	calls := f.calls.Load()
	fetches := w.Snapshot().Fetches

	time.Sleep(10 * testInterval)
	if got := f.calls.Load(); got != calls {
		t.Fatalf("fetch calls after unmount = %d, want %d", got, calls)
	}
	if got := w.Snapshot().Fetches; got != fetches {
		t.Fatalf("state updates after unmount = %d, want %d", got, fetches)
	}
}

func TestUnmount_BeforeMountIsNoop(t *testing.T) {
	w := New(&fakeFetcher{}, Options{})
	w.Unmount()
	if w.Mounted() {
		t.Fatalf("Mounted() = true, want false")
	}
}

func TestMount_TwiceStartsOneTimer(t *testing.T) {
	f := &fakeFetcher{}
	w := New(f, Options{Interval: time.Hour})
	t.Cleanup(w.Unmount)

	w.Mount(context.Background())
	w.Mount(context.Background())

	waitFor(t, time.Second, func() bool { return f.calls.Load() >= 1 })
	time.Sleep(20 * time.Millisecond)
	if got := f.calls.Load(); got != 1 {
		t.Fatalf("initial fetches = %d, want 1", got)
	}
}

func TestMount_ContextCancelStopsTimer(t *testing.T) {
	f := &fakeFetcher{}
	w := New(f, Options{Interval: testInterval})

	ctx, cancel := context.WithCancel(context.Background())
	w.Mount(ctx)
	waitFor(t, time.Second, func() bool { return f.calls.Load() >= 1 })

	cancel()
	waitFor(t, time.Second, func() bool { return !w.Mounted() })

	time.Sleep(5 * testInterval)
	calls := f.calls.Load()
	time.Sleep(10 * testInterval)
	if got := f.calls.Load(); got != calls {
		t.Fatalf("fetch calls after cancel = %d, want %d", got, calls)
	}
}

func TestMount_InFlightFetchIsNotCancelled(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	f := &fakeFetcher{fetch: func(ctx context.Context) (*cms.StatusEntry, error) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil, ctx.Err()
	}}
	w := New(f, Options{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	w.Mount(ctx)
	<-started
	cancel()
	w.Unmount()
	close(release)

	waitFor(t, time.Second, func() bool { return !w.Snapshot().Loading() })
	if snap := w.Snapshot(); snap.LastError != nil {
		t.Fatalf("in-flight fetch saw error %v, want it to complete uncancelled", snap.LastError)
	}
}

func TestRemount_AfterUnmount(t *testing.T) {
	f := &fakeFetcher{}
	w := New(f, Options{Interval: time.Hour})

	w.Mount(context.Background())
	waitFor(t, time.Second, func() bool { return f.calls.Load() == 1 })
	w.Unmount()

	w.Mount(context.Background())
	t.Cleanup(w.Unmount)
	waitFor(t, time.Second, func() bool { return f.calls.Load() == 2 })
}

func TestTick_RefusedAfterUnmount(t *testing.T) {
	f := &fakeFetcher{}
	w := New(f, Options{Interval: time.Hour})

	m := &mount{stop: make(chan struct{})}
	w.mu.Lock()
	w.mount = m
	w.mu.Unlock()

	if !w.tick(context.Background(), m) {
		t.Fatalf("tick refused while mounted")
	}
	if got := f.calls.Load(); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}

	w.Unmount()
	if w.tick(context.Background(), m) {
		t.Fatalf("tick admitted after Unmount returned")
	}
	if got := f.calls.Load(); got != 1 {
		t.Fatalf("fetch calls after Unmount = %d, want 1", got)
	}
}

func TestUnmount_WaitsForAdmittedTickToReachFetcher(t *testing.T) {
	f := &fakeFetcher{}
	w := New(f, Options{Interval: time.Hour})

	m := &mount{stop: make(chan struct{})}
	w.mu.Lock()
	w.mount = m
	w.mu.Unlock()

	// Admit a tick by hand, then unmount before the fetch begins.
	m.pending.Add(1)
	unmounted := make(chan struct{})
	go func() {
		w.Unmount()
		close(unmounted)
	}()

	select {
	case <-unmounted:
		t.Fatalf("Unmount returned while an admitted tick had not reached the fetcher")
	case <-time.After(20 * time.Millisecond):
	}

	m.pending.Done()
	select {
	case <-unmounted:
	case <-time.After(time.Second):
		t.Fatalf("Unmount did not return after the admitted tick started")
	}
}
