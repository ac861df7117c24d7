package task

import (
	"math"
	"strconv"
	"strings"

	"github.com/twiced-technology-gmbh/taskcal/internal/date"
)

// Form holds the raw text of the task form fields, read at submission time.
type Form struct {
	Name     string
	Deadline string
	Priority string
	Duration string
	Details  string
}

// Draft is the payload sent when creating or updating a task.
type Draft struct {
	Name     string  `json:"name"`
	Deadline string  `json:"deadline"`
	Priority int     `json:"priority"`
	Duration float64 `json:"duration"`
	Details  string  `json:"details"`
}

// ParseDraft checks the required fields and converts the form into a Draft.
// Name, deadline, priority and duration are required; details may be blank.
// The deadline must be a datetime-input value and the duration a finite,
// non-negative number.
func ParseDraft(f Form) (Draft, error) {
	name := strings.TrimSpace(f.Name)
	deadline := strings.TrimSpace(f.Deadline)
	priority := strings.TrimSpace(f.Priority)
	duration := strings.TrimSpace(f.Duration)

	var missing []string
	for _, field := range []struct{ name, value string }{
		{"name", name},
		{"deadline", deadline},
		{"priority", priority},
		{"duration", duration},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return Draft{}, ValidateMissing(missing)
	}

	if _, err := date.ParseInput(deadline); err != nil {
		return Draft{}, ValidateDate("deadline", deadline, err)
	}
	p, err := strconv.Atoi(priority)
	if err != nil {
		return Draft{}, ValidateNumber("priority", priority, "a whole number")
	}
	d, err := strconv.ParseFloat(duration, 64)
	if err != nil || d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return Draft{}, ValidateNumber("duration", duration, "a non-negative number")
	}

	return Draft{
		Name:     name,
		Deadline: deadline,
		Priority: p,
		Duration: d,
		Details:  f.Details,
	}, nil
}
