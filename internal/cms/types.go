package cms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/five82/statusbox/internal/status"
)

var (
	errNullBody       = errors.New("response body is null")
	errMissingData    = errors.New("response has no data list")
	errNullEntry      = errors.New("status entry is null")
	errNullAttributes = errors.New("status entry attributes are null")
	errEmptyEntry     = errors.New("status entry has no attributes or status fields")
)

// CollectionResponse mirrors the collection list payload of /api/status-boxes.
type CollectionResponse struct {
	Data []StatusEntry `json:"data"`
}

// validate rejects payloads without a data list. An empty list is valid.
func (r *CollectionResponse) validate() error {
	if r == nil {
		return errNullBody
	}
	if r.Data == nil {
		return errMissingData
	}
	return nil
}

// EntryID is the opaque record identifier. Strapi emits numbers, other
// stores emit strings; both are kept as text.
type EntryID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *EntryID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		*id = ""
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = EntryID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("status entry id %s is neither string nor number", trimmed)
	}
	*id = EntryID(n.String())
	return nil
}

// StatusEntry is one entry of the status-boxes collection. Older CMS versions
// nest fields under attributes; newer ones emit them inline.
type StatusEntry struct {
	ID         EntryID           `json:"id"`
	Attributes *StatusAttributes `json:"attributes"`
	StatusAttributes
}

// StatusAttributes holds the editable fields of a status box.
type StatusAttributes struct {
	Title   string `json:"title"`
	IsBusy  *bool  `json:"isBusy"`
	Message string `json:"message"`
}

type statusEntryFields StatusEntry

// UnmarshalJSON decodes either entry shape and rejects entries that carry
// no status at all, so they surface as fetch failures.
func (e *StatusEntry) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	if keys == nil {
		return errNullEntry
	}

	var decoded statusEntryFields
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	if raw, ok := keys["attributes"]; ok && bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return errNullAttributes
	}
	if decoded.Attributes == nil && !hasAny(keys, "title", "isBusy", "message") {
		return errEmptyEntry
	}

	*e = StatusEntry(decoded)
	return nil
}

func hasAny(keys map[string]json.RawMessage, names ...string) bool {
	for _, name := range names {
		if _, ok := keys[name]; ok {
			return true
		}
	}
	return false
}

// Record maps the entry to a fully-defaulted status record.
func (e StatusEntry) Record() status.Record {
	attrs := e.StatusAttributes
	if e.Attributes != nil {
		attrs = *e.Attributes
	}
	return status.New(string(e.ID), attrs.Title, attrs.IsBusy, attrs.Message)
}
