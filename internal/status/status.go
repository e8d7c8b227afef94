// Package status defines the busy/available record shown by the widget and
// the sentinel records used when the CMS returns nothing or fails.
package status

const (
	defaultTitle     = "Status"
	availableMessage = "Available"
	busyMessage      = "Busy"

	offlineTitle   = "Offline"
	offlineMessage = "Connection Error"
)

// Record is a fully-defaulted status entry. ID is the store's opaque
// identifier, empty for synthesized records.
type Record struct {
	ID      string
	Title   string
	IsBusy  bool
	Message string
}

// New builds a Record from raw CMS fields, applying defaults for anything
// missing. A nil isBusy is treated as not busy.
func New(id string, title string, isBusy *bool, message string) Record {
	busy := isBusy != nil && *isBusy
	if title == "" {
		title = defaultTitle
	}
	if message == "" {
		message = defaultMessage(busy)
	}
	return Record{ID: id, Title: title, IsBusy: busy, Message: message}
}

// Empty is the record shown when the collection has no entries yet.
func Empty() Record {
	return Record{Title: defaultTitle, IsBusy: false, Message: availableMessage}
}

// Offline is the record shown when the CMS could not be read. Unknown state
// is rendered as busy.
func Offline() Record {
	return Record{Title: offlineTitle, IsBusy: true, Message: offlineMessage}
}

// IsOffline reports whether r is the Offline sentinel.
func (r Record) IsOffline() bool {
	return r == Offline()
}

// Label returns the short uppercase state used by compact displays.
func (r Record) Label() string {
	if r.IsBusy {
		return "BUSY"
	}
	return "AVAIL"
}

// StateName returns BUSY or AVAILABLE.
func (r Record) StateName() string {
	if r.IsBusy {
		return "BUSY"
	}
	return "AVAILABLE"
}

func defaultMessage(busy bool) string {
	if busy {
		return busyMessage
	}
	return availableMessage
}
