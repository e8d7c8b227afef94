// Package ui renders the status widget as a Bubble Tea program.
//
// The model never fetches on its own schedule. A tea.Tick re-reads the
// widget snapshot once a second; the widget's own timer decides when the
// remote store is queried. Manual refreshes (r, enter, space or a left
// click) run Widget.Refresh as a tea.Cmd and are not cancelled on quit.
//
// # Display modes
//
//   - box: icon and title in a padded box (default)
//   - compact: icon and BUSY or AVAIL on one line
//   - text: icon and the status message
//
// Busy records render in the theme's red fill with 🔴, available records in
// green with 🟢. Mode and theme are cycled with m and T and written back to
// the prefs file.
//
// # Key Bindings
//
//   - r, enter, space: refresh now
//   - m: cycle display mode
//   - T: cycle theme
//   - d: toggle debug line
//   - h or ?: help
//   - q, esc or Ctrl+C: quit
package ui
