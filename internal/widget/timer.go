package widget

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// mount is the state of one Mount..Unmount cycle.
type mount struct {
	stop chan struct{}
	// pending counts timer fetches that were admitted but have not yet
	// reached the fetcher.
	pending sync.WaitGroup
}

// Mount performs the initial fetch and starts the periodic refresh timer. It
// returns immediately. Mounting an already mounted widget is a no-op.
//
// Cancelling ctx stops the timer like Unmount. In-flight fetches are never
// cancelled by either; they complete against a context detached from ctx.
func (w *Widget) Mount(ctx context.Context) {
	w.mu.Lock()
	if w.mount != nil {
		w.mu.Unlock()
		return
	}
	m := &mount{stop: make(chan struct{})}
	w.mount = m
	w.mu.Unlock()

	w.log.Info("status widget mounted", zap.Duration("interval", w.interval))
	go w.run(ctx, context.WithoutCancel(ctx), m)
}

// Unmount cancels the periodic timer. Once it returns the timer starts no
// further fetches: a tick admitted just before Unmount has already reached
// the fetcher. A fetch already in flight still completes and stores its
// result.
func (w *Widget) Unmount() {
	m := w.detach(nil)
	if m == nil {
		return
	}
	m.pending.Wait()
	w.log.Info("status widget unmounted")
}

// Mounted reports whether the periodic timer is active.
func (w *Widget) Mounted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.mount != nil
}

func (w *Widget) run(ctx, fetchCtx context.Context, m *mount) {
	if !w.tick(fetchCtx, m) {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.detach(m)
			return
		case <-m.stop:
			return
		case <-ticker.C:
			if !w.tick(fetchCtx, m) {
				return
			}
		}
	}
}

// tick runs one timer fetch if m is still the current mount. Admission and
// the pending count change under the same lock Unmount takes, and Unmount
// waits for admitted fetches to start.
func (w *Widget) tick(fetchCtx context.Context, m *mount) bool {
	w.mu.Lock()
	if w.mount != m {
		w.mu.Unlock()
		return false
	}
	m.pending.Add(1)
	w.mu.Unlock()

	var once sync.Once
	started := func() { once.Do(m.pending.Done) }
	defer started()
	w.refresh(fetchCtx, started)
	return true
}

// detach clears the current mount and closes its stop channel. A non-nil
// want detaches only if it is still current. It returns the detached mount.
func (w *Widget) detach(want *mount) *mount {
	w.mu.Lock()
	defer w.mu.Unlock()
	m := w.mount
	if m == nil || (want != nil && m != want) {
		return nil
	}
	w.mount = nil
	close(m.stop)
	return m
}
