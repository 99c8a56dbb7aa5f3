package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		minutes int
		want    string
	}{
		{"Midnight", 0, "00:00"},
		{"Morning", 9*60 + 5, "09:05"},
		{"Last minute", MinutesPerDay - 1, "23:59"},
		{"Wraps past midnight", 23*60 + 50 + 20, "00:10"},
		{"Negative wraps back", -10, "23:50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.minutes))
		})
	}
}

func TestParse(t *testing.T) {
	m, err := Parse("23:50")
	require.NoError(t, err)
	assert.Equal(t, 23*60+50, m)

	for _, bad := range []string{"", "24:00", "12:60", "1230", "ab:cd", "12:5"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestBetween(t *testing.T) {
	start, err := Parse("23:50")
	require.NoError(t, err)
	end, err := Parse("00:10")
	require.NoError(t, err)
	assert.Equal(t, 20, Between(start, end))
	assert.Equal(t, 0, Between(start, start))
}

func TestFormatParseRoundTrip(t *testing.T) {
	for m := 0; m < MinutesPerDay; m += 7 {
		got, err := Parse(Format(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}
