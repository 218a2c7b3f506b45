package commands

import (
	"errors"
	"fmt"
	"testing"

	"highwatch/internal/config"
	"highwatch/internal/fetcher"

	"github.com/stretchr/testify/require"
)

func TestFetchExitCode(t *testing.T) {
	cases := []struct {
		err      error
		expected int
	}{
		{err: nil, expected: exitOK},
		{err: config.ErrConfigNotSet, expected: exitConfig},
		{err: fmt.Errorf("%w: fetch.max_attempts must be at least 1, got 0", config.ErrConfigInvalid), expected: exitConfig},
		{err: &fetcher.ExhaustedError{Attempts: 3, StatusCode: 403}, expected: exitExhausted},
		{err: &fetcher.PayloadError{Err: fetcher.ErrInvalidJSON}, expected: exitNotJSON},
		{err: &fetcher.PayloadError{Err: &fetcher.ShapeError{Type: "object"}}, expected: exitNoRecords},
		{err: &fetcher.SaveError{Path: "data/x.csv", Err: errors.New("disk full")}, expected: exitSave},
		{err: fmt.Errorf("create session: %w", errors.New("boom")), expected: exitOther},
	}

	for _, test := range cases {
		require.Equal(t, test.expected, fetchExitCode(test.err), "%v", test.err)
	}
}
