package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"time"
)

// EventType discriminates session log entries.
type EventType string

const (
	EventSessionStart EventType = "session_start"
	EventPipeline     EventType = "pipeline"
	EventSessionEnd   EventType = "session_end"
)

// LogEntry is one line of a session log.
type LogEntry struct {
	TimestampMicros int64     `json:"timestamp_micros"`
	SessionID       string    `json:"session_id"`
	Event           EventType `json:"event"`

	// Pipeline event fields.
	Raw        string   `json:"raw,omitempty"`
	Programs   []string `json:"programs,omitempty"`
	ExitStatus int      `json:"exit_status"`
	DurationMS int64    `json:"duration_ms,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// LogRecorder is a callback that stores entries in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures shell interaction events.
type Logger struct {
	Record LogRecorder
}

// NewJSONLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJSONLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			entry, err := json.Marshal(le)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewSession creates a logger with an attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// SessionLogger logs entries with a shared session ID.
type SessionLogger struct {
	logger    *Logger
	sessionID string
}

func (l *SessionLogger) record(le *LogEntry) error {
	le.TimestampMicros = time.Now().UnixNano() / int64(time.Microsecond)
	le.SessionID = l.sessionID
	return l.logger.Record(le)
}

// SessionStart records the beginning of an interactive session.
func (l *SessionLogger) SessionStart() error {
	return l.record(&LogEntry{Event: EventSessionStart})
}

// SessionEnd records the end of an interactive session.
func (l *SessionLogger) SessionEnd() error {
	return l.record(&LogEntry{Event: EventSessionEnd})
}

// Pipeline records one executed pipeline. A non-nil execErr means the
// pipeline could not be run at all; a non-zero status is ordinary.
func (l *SessionLogger) Pipeline(raw string, programs []string, status int, elapsed time.Duration, execErr error) error {
	le := &LogEntry{
		Event:      EventPipeline,
		Raw:        raw,
		Programs:   programs,
		ExitStatus: status,
		DurationMS: elapsed.Milliseconds(),
	}
	if execErr != nil {
		le.Error = execErr.Error()
	}
	return l.record(le)
}
