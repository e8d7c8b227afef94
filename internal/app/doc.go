// Package app is the composition root for the statusbox TUI.
//
// Run resolves configuration once at startup and connects the pieces:
//
//	config.LoadEnvFile()  .env into the environment (never overrides)
//	config.Load()         TOML file, then STRAPI_URL / GITHUB_TOKEN
//	logging.New()         zap logger writing to the log file
//	prefs.Load()          saved theme and display mode
//	cms.NewClient()       collection endpoint client for the base URL
//	widget.New()          status widget with its own snapshot store
//	StartPoller()         mounts the widget (initial fetch + timer)
//	ui.Run()              Bubble Tea program (blocks)
//
// When ui.Run returns the widget is unmounted. The timer stops at once; a
// fetch already in flight may still complete and update the store.
//
// Startup problems (bad config, bad base URL, unusable log file, an unknown
// -mode value) are returned from Run. Fetch failures never are: the widget
// turns them into the Offline record and logs them.
package app
