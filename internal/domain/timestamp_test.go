package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 9, 21, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "rfc3339 zulu", raw: "2024-09-21T10:30:00Z"},
		{name: "rfc3339 offset", raw: "2024-09-21T06:30:00-04:00"},
		{name: "fractional seconds are dropped", raw: "2024-09-21T10:30:00.734Z"},
		{name: "sql datetime", raw: "2024-09-21 10:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.raw)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	_, err := ParseTimestamp("yesterday")
	assert.Error(t, err)

	_, err = ParseTimestamp("  ")
	assert.Error(t, err)

	_, err = ParseTimestamp("2024-09-21T10:30:00Z", "2006-01-02")
	assert.Error(t, err, "explicit layouts replace the defaults")
}
