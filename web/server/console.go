package server

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ConsoleMessage is one line of render progress forwarded to the browser.
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by forwarding render progress lines to a
// console channel, with a copy to the server log.
type WebLogger struct {
	jobID       string
	consoleChan chan<- ConsoleMessage
	log         *zap.Logger
}

// NewWebLogger creates a logger for one render job. A nil channel drops the
// browser copy; a nil zap logger drops the server copy.
func NewWebLogger(jobID string, consoleChan chan<- ConsoleMessage, log *zap.Logger) *WebLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebLogger{
		jobID:       jobID,
		consoleChan: consoleChan,
		log:         log,
	}
}

// Printf implements core.Logger. The console stream is best effort: a full
// channel drops the line rather than stalling the render.
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	wl.log.Debug(strings.TrimRight(message, "\n"), zap.String("job", wl.jobID))

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     "info",
	}:
	default:
	}
}
