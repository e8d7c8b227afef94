package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/statusbox/internal/status"
)

// DisplayMode selects what the status box shows next to its icon.
type DisplayMode int

const (
	// ModeBox shows the record title.
	ModeBox DisplayMode = iota
	// ModeCompact shows BUSY or AVAIL in a one-line box.
	ModeCompact
	// ModeText shows the record message.
	ModeText
)

var modeNames = []string{"box", "compact", "text"}

// ParseDisplayMode maps a mode name to a DisplayMode.
func ParseDisplayMode(name string) (DisplayMode, error) {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	if trimmed == "" {
		return ModeBox, nil
	}
	for i, n := range modeNames {
		if n == trimmed {
			return DisplayMode(i), nil
		}
	}
	return ModeBox, fmt.Errorf("unknown display mode %q (want box, compact or text)", name)
}

func (d DisplayMode) String() string {
	if d < 0 || int(d) >= len(modeNames) {
		return modeNames[0]
	}
	return modeNames[d]
}

// Next returns the following mode in the cycle.
func (d DisplayMode) Next() DisplayMode {
	return DisplayMode((int(d) + 1) % len(modeNames))
}

func statusIcon(busy bool) string {
	if busy {
		return "🔴"
	}
	return "🟢"
}

// boxLabel is the text shown beside the icon for a given mode.
func boxLabel(rec status.Record, mode DisplayMode) string {
	switch mode {
	case ModeCompact:
		return rec.Label()
	case ModeText:
		return rec.Message
	default:
		return rec.Title
	}
}

func renderStatusBox(rec status.Record, mode DisplayMode, theme Theme) string {
	fill, border := theme.BoxColors(rec.IsBusy)
	style := lipgloss.NewStyle().
		Background(lipgloss.Color(fill)).
		Foreground(lipgloss.Color(theme.BoxText)).
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Align(lipgloss.Center)

	icon := statusIcon(rec.IsBusy)
	label := boxLabel(rec, mode)

	switch mode {
	case ModeCompact:
		return style.Padding(0, 1).Render(icon + " " + label)
	case ModeText:
		return style.Padding(1, 2).Width(24).Render(icon + " " + label)
	default:
		return style.Padding(1, 2).Width(20).Render(icon + "\n" + label)
	}
}
