package commands

import (
	"errors"

	"highwatch/internal/config"
	"highwatch/internal/fetcher"
)

// process exit codes of the fetch command
const (
	exitOK        = 0
	exitOther     = 1
	exitConfig    = 2
	exitExhausted = 3
	exitNotJSON   = 4
	exitNoRecords = 5
	exitSave      = 6
)

func fetchExitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var exhausted *fetcher.ExhaustedError
	var shapeErr *fetcher.ShapeError
	var saveErr *fetcher.SaveError

	switch {
	case errors.Is(err, config.ErrConfigNotSet), errors.Is(err, config.ErrConfigInvalid):
		return exitConfig
	case errors.As(err, &exhausted):
		return exitExhausted
	case errors.Is(err, fetcher.ErrInvalidJSON):
		return exitNotJSON
	case errors.As(err, &shapeErr):
		return exitNoRecords
	case errors.As(err, &saveErr):
		return exitSave
	}
	return exitOther
}
