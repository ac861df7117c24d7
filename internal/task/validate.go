package task

import (
	"github.com/twiced-technology-gmbh/taskcal/internal/clierr"
)

// ValidateTaskID returns a CLIError for invalid task ID input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// ValidateDate returns a CLIError for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// ValidateMissing returns a CLIError listing the blank required fields.
func ValidateMissing(fields []string) *clierr.Error {
	return clierr.New(clierr.MissingField, "Please fill in all required fields").
		WithDetails(map[string]any{"fields": fields})
}

// ValidateNumber returns a CLIError for a non-numeric form field.
func ValidateNumber(field, input, want string) *clierr.Error {
	return clierr.Newf(clierr.InvalidInput, "%s must be %s", field, want).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// NotFound returns a CLIError for a task missing from the backend listing.
func NotFound(id ID) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task %s not found", id).
		WithDetails(map[string]any{"id": id.String()})
}
