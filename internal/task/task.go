// Package task defines the task records exchanged with the backend and the
// draft payload built from the task form.
package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/twiced-technology-gmbh/taskcal/internal/date"
)

// ID is the backend-assigned task identifier. It is opaque to the client;
// the backend may send it as a JSON number or string. The zero value marks
// an unsaved task.
type ID string

// IsZero reports whether the ID is unset.
func (id ID) IsZero() bool { return id == "" }

// String returns the ID as text.
func (id ID) String() string { return string(id) }

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// ParseID validates a user-supplied task ID.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "/?#% ") {
		return "", ValidateTaskID(s)
	}
	return ID(s), nil
}

// Props holds the task fields that have no slot in a calendar event.
type Props struct {
	Priority int     `json:"priority"`
	Duration float64 `json:"duration"`
	Details  string  `json:"details"`
}

// Task is a persisted task as listed by the backend.
type Task struct {
	ID    ID              `json:"id"`
	Title string          `json:"title"`
	Start *date.Timestamp `json:"start"`
	End   *date.Timestamp `json:"end"`
	Props Props           `json:"extendedProps"`
}
