package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardImplLocation(t *testing.T) {
	std, err := NewStandardImpl("")
	require.NoError(t, err)
	require.Equal(t, DefaultLocation, std.Location().String())
	require.Equal(t, DefaultLocation, std.Now().Location().String())

	_, err = NewStandardImpl("Not/AZone")
	require.Error(t, err)
}

func TestDate(t *testing.T) {
	cases := []struct {
		at       time.Time
		expected string
	}{
		{at: time.Date(2024, time.January, 3, 23, 59, 0, 0, time.UTC), expected: "2024-01-03"},
		{at: time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), expected: "2024-12-31"},
	}

	for _, test := range cases {
		require.Equal(t, test.expected, Date(FixedTime{At: test.at}.Now()))
	}
}
