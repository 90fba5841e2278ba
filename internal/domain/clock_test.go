package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock_Valid(t *testing.T) {
	cases := map[string]Clock{
		"09:00": {9, 0},
		"9:30":  {9, 30},
		"00:00": {0, 0},
		"23:59": {23, 59},
	}
	for in, want := range cases {
		got, err := ParseClock(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, in := range []string{"", "9", "24:00", "12:60", "noon", "12:5", "123:00", " 09:00"} {
		_, err := ParseClock(in)
		assert.Error(t, err, "should reject %q", in)
		assert.False(t, ValidClock(in))
		assert.Nil(t, ClockOrNil(in))
	}
}

func TestClock_StringAndMinutes(t *testing.T) {
	c := Clock{Hour: 7, Minute: 5}
	assert.Equal(t, "07:05", c.String())
	assert.Equal(t, 425, c.Minutes())
}
