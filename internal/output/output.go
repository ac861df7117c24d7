// Package output renders tasks, groups and the activity log for the
// terminal (lipgloss tables, glamour details), for scripts (one line per
// record) and as JSON.
package output

import (
	"os"
	"strings"
)

// EnvOutput names the variable holding the format used when no flag is given.
const EnvOutput = "TASKCAL_OUTPUT"

// Format selects how a command prints its result.
type Format int

// Formats. FormatTable is the zero-flag default.
const (
	FormatTable Format = iota
	FormatJSON
	FormatCompact
)

var formatNames = map[string]Format{
	"table":   FormatTable,
	"json":    FormatJSON,
	"compact": FormatCompact,
	"oneline": FormatCompact,
}

// String returns the canonical name of f.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatCompact:
		return "compact"
	default:
		return "table"
	}
}

// ParseFormat looks up a format by name, ignoring case and surrounding
// space. "oneline" is an alias for compact.
func ParseFormat(name string) (Format, bool) {
	f, ok := formatNames[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Detect picks the format: --json beats --compact beats --table, then
// $TASKCAL_OUTPUT, then table. Unknown variable values are ignored.
func Detect(jsonFlag, tableFlag, compactFlag bool) Format {
	switch {
	case jsonFlag:
		return FormatJSON
	case compactFlag:
		return FormatCompact
	case tableFlag:
		return FormatTable
	}
	if f, ok := ParseFormat(os.Getenv(EnvOutput)); ok {
		return f
	}
	return FormatTable
}
