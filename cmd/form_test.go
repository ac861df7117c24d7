package cmd

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskcal/internal/api"
	"github.com/twiced-technology-gmbh/taskcal/internal/clierr"
	"github.com/twiced-technology-gmbh/taskcal/internal/task"
)

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs("42,7,42")
	require.NoError(t, err)
	assert.Equal(t, []task.ID{"42", "7"}, ids)

	_, err = parseIDs("42,,7")
	var cliErr *clierr.Error
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierr.InvalidTaskID, cliErr.Code)
}

func TestApplyFormFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "edit"}
	addFormFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--due", "2024-06-02T10:00", "--description", "notes"}))

	f := task.Form{Name: "Write report", Deadline: "2024-06-01T07:00", Priority: "1", Duration: "2"}
	assert.True(t, applyFormFlags(cmd, &f))
	assert.Equal(t, task.Form{
		Name: "Write report", Deadline: "2024-06-02T10:00", Priority: "1", Duration: "2", Details: "notes",
	}, f)

	unchanged := &cobra.Command{Use: "edit"}
	addFormFlags(unchanged)
	require.NoError(t, unchanged.ParseFlags(nil))
	assert.False(t, applyFormFlags(unchanged, &f))
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantMsg  string
	}{
		{
			name:     "backend message",
			err:      &api.StatusError{StatusCode: 400, Message: "Invalid isoformat string", RequestID: "r-1"},
			wantCode: clierr.BackendError,
			wantMsg:  "Invalid isoformat string",
		},
		{
			name:     "backend fallback",
			err:      &api.StatusError{StatusCode: 500},
			wantCode: clierr.BackendError,
			wantMsg:  "Failed to save task",
		},
		{
			name:     "transport",
			err:      &api.TransportError{Op: "GET /api/tasks", Err: errors.New("connection refused")},
			wantCode: clierr.TransportError,
			wantMsg:  "GET /api/tasks: connection refused",
		},
		{
			name:     "validation passes through",
			err:      clierr.New(clierr.MissingField, "Please fill in all required fields"),
			wantCode: clierr.MissingField,
			wantMsg:  "Please fill in all required fields",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cliErr *clierr.Error
			require.True(t, errors.As(apiError(tt.err, "Failed to save task"), &cliErr))
			assert.Equal(t, tt.wantCode, cliErr.Code)
			assert.Equal(t, tt.wantMsg, cliErr.Message)
		})
	}

	assert.NoError(t, apiError(nil, "x"))
	plain := errors.New("plain")
	assert.Equal(t, plain, apiError(plain, "x"))
}
