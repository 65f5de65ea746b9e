package server

import (
	"github.com/rs/zerolog"
)

// RunGuarded invokes run, logging any panic that escapes it. The
// caller decides the process exit status from the returned error and
// panic flag.
func RunGuarded(run func() error, logger zerolog.Logger) (err error, panicked bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			panicked = true
			logger.Error().
				Interface("panic", recovered).
				Msg("Uncaught fault escaped the serve loop")
		}
	}()
	return run(), false
}
