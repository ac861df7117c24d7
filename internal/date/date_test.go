package date

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-06-01T09:00:00", time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)},
		{"2024-06-01T09:00:00.250000", time.Date(2024, 6, 1, 9, 0, 0, 250000000, time.Local)},
		{"2024-06-01T09:00", time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local)},
		{"2024-06-01T09:00:00Z", time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)},
		{"2024-06-01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			ts, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}

	_, err := ParseTimestamp("next tuesday")
	assert.Error(t, err)
}

func TestTimestampJSON(t *testing.T) {
	var v struct {
		Start *Timestamp `json:"start"`
		End   *Timestamp `json:"end"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2024-06-01T09:00:00","end":null}`), &v))
	require.NotNil(t, v.Start)
	assert.Nil(t, v.End)
	assert.Equal(t, 9, v.Start.Hour())
}

func TestInputRoundTrip(t *testing.T) {
	parsed, err := ParseInput("2024-06-01T09:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01T09:00", FormatInput(parsed))

	_, err = ParseInput("2024-06-01")
	assert.Error(t, err)
}

func TestDateContains(t *testing.T) {
	d := New(2024, time.June, 1)
	assert.True(t, d.Contains(time.Date(2024, 6, 1, 23, 59, 0, 0, time.Local)))
	assert.False(t, d.Contains(time.Date(2024, 6, 2, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, "2024-06-03", d.AddDays(2).String())
}
