package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/prism-rt/prism/pkg/core"
)

// ConsoleMessage is a render log line forwarded to the viewer console.
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Level     string    `json:"level"`
	Timestamp time.Time `json:"timestamp"`
}

// consoleLogger implements core.Logger by writing to the server log and
// forwarding each line to a console channel.
type consoleLogger struct {
	log  zerolog.Logger
	send chan<- ConsoleMessage
}

// NewConsoleLogger creates a logger that mirrors render progress to a
// console channel. A nil channel disables forwarding.
func NewConsoleLogger(log zerolog.Logger, send chan<- ConsoleMessage) core.Logger {
	return &consoleLogger{log: log, send: send}
}

// Printf implements core.Logger.
func (cl *consoleLogger) Printf(format string, args ...interface{}) {
	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	cl.log.Info().Msg(message)

	if cl.send == nil {
		return
	}
	select {
	case cl.send <- ConsoleMessage{
		Message:   message,
		Level:     "info",
		Timestamp: time.Now(),
	}:
	default:
		// Channel full, drop the message instead of blocking the render.
	}
}
