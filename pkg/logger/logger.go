package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process-wide structured logger.
func New() zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
