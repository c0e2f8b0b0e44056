package console

import (
	"log"
	"os"
)

// Logger is the minimal logging surface the controllers need.
type Logger interface {
	Printf(format string, args ...any)
}

// NewLogger creates a standard library logger with a consistent prefix and
// flags.
func NewLogger(component string) *log.Logger {
	prefix := "[" + component + "] "
	return log.New(os.Stdout, prefix, log.LstdFlags|log.Lmicroseconds|log.LUTC)
}
