package app

import (
	"context"
	"time"

	"github.com/five82/statusbox/internal/config"
)

// Mounter is the lifecycle half of the status widget.
type Mounter interface {
	Mount(ctx context.Context)
	Unmount()
}

// StartPoller mounts the widget, which fetches once and then on every
// interval tick. The returned function unmounts it; fetches already in flight
// are left to finish.
func StartPoller(ctx context.Context, m Mounter) (stop func()) {
	m.Mount(ctx)
	return m.Unmount
}

func resolvePollInterval(pollSeconds int, cfg config.Config) time.Duration {
	if pollSeconds > 0 {
		return time.Duration(pollSeconds) * time.Second
	}
	return cfg.PollInterval
}
