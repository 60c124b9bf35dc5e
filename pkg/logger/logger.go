package logger

import (
	"fmt"
	"log"
	"os"
)

// New returns a stdlib-backed logger with a tool-name prefix, used by
// the auxiliary commands that do not carry the slog stack.
func New(tool string) *log.Logger {
	prefix := fmt.Sprintf("[%s] ", tool)
	return log.New(os.Stdout, prefix, log.LstdFlags)
}
