// Package widget implements the status widget: a local view of a remote
// busy/available flag.
//
// # Lifecycle
//
//	w := widget.New(client, widget.Options{Interval: 30 * time.Second})
//	w.Mount(ctx)      // initial fetch + periodic timer
//	defer w.Unmount() // stops the timer, leaves in-flight fetches alone
//
// Until the first fetch completes Snapshot().Loading() is true. After that
// the snapshot always holds a fully-defaulted record.
//
// # Fetch Outcomes
//
//   - One or more entries: the first entry, with field defaults applied
//   - No entries: status.Empty() ("Status", available, "Available")
//   - Any failure: status.Offline() ("Offline", busy, "Connection Error")
//
// Failures are not classified. A 404 from a misconfigured endpoint looks the
// same as a refused connection. The next tick or a manual Refresh is the only
// retry.
//
// # Concurrency
//
// Refresh may run concurrently with the timer. Results are written to a
// state.Store and the last completion wins. Unmount neither waits for nor
// cancels an in-flight fetch, so one late result may still land after it
// returns. It only waits for a tick admitted just before it to reach the
// fetcher, which keeps any timer fetch from starting after it returns.
package widget
