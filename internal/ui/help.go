package ui

import (
	"strings"
)

type helpSection struct {
	title string
	items []helpItem
}

type helpItem struct {
	key  string
	desc string
}

// helpSections builds the overlay contents from the key map, so the overlay
// lists exactly the keys Update reacts to.
func (m Model) helpSections() []helpSection {
	groups := m.keys.FullHelp()
	sections := make([]helpSection, 0, len(groups))
	for i, group := range groups {
		section := helpSection{title: helpSectionTitles[i]}
		for _, b := range group {
			section.items = append(section.items, helpItem{key: bindingKeys(b), desc: b.Help().Desc})
		}
		sections = append(sections, section)
	}
	// Mouse refresh has no key binding.
	sections[0].items = append(sections[0].items, helpItem{key: "click", desc: "refresh now"})
	return sections
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	sections := m.helpSections()

	var b strings.Builder
	b.WriteString(styles.Title.Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")

	keyStyle := styles.Key.Width(16)
	for i, section := range sections {
		b.WriteString(styles.AccentText.Bold(true).Render(section.title))
		b.WriteString("\n")
		for _, item := range section.items {
			b.WriteString(keyStyle.Render(item.key))
			b.WriteString(styles.Text.Render(item.desc))
			b.WriteString("\n")
		}
		if i < len(sections)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Auto-refresh every " + m.refreshEvery.String() + ". Press any key to close."))

	return m.place(b.String())
}
