package logging

import (
	"fmt"
	"io"
	"log"
	"regexp"
	"sync"
	"time"
)

const timestampFormat = "2006-01-02 15:04:05.000"

// Logger is the minimal logging interface used throughout the test harness. *log.Logger
// satisfies it.
type Logger interface {
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Printf(message string, args ...interface{}) {}

// NullLogger returns a Logger that discards everything.
func NullLogger() Logger { return nullLogger{} }

// NewStdLogger returns a Logger that writes timestamped lines to the given writer.
func NewStdLogger(w io.Writer, prefix string) Logger {
	return log.New(w, prefix, log.LstdFlags)
}

type CapturedMessage struct {
	Time    time.Time
	Message string
}

type CapturedOutput []CapturedMessage

// CapturingLogger accumulates log lines in memory so that they can be shown only for tests
// that need them. Bearer tokens are masked before a line is stored.
type CapturingLogger struct {
	output []CapturedMessage
	lock   sync.Mutex
}

func (l *CapturingLogger) Printf(message string, args ...interface{}) {
	line := MaskSecrets(fmt.Sprintf(message, args...))
	l.lock.Lock()
	l.output = append(l.output, CapturedMessage{Time: time.Now(), Message: line})
	l.lock.Unlock()
}

func (l *CapturingLogger) Output() CapturedOutput {
	l.lock.Lock()
	ret := append([]CapturedMessage(nil), l.output...)
	l.lock.Unlock()
	return ret
}

func (output CapturedOutput) Dump(dest io.Writer, prefix string) {
	for _, m := range output {
		fmt.Fprintf(dest, "%s[%s] %s\n",
			prefix,
			m.Time.Format(timestampFormat),
			m.Message,
		)
	}
}

var (
	bearerPattern = regexp.MustCompile(`(?i)(bearer\s+)([A-Za-z0-9._~+/=-]+)`)
	jwtPattern    = regexp.MustCompile(`eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*`)
)

// MaskSecrets replaces bearer tokens and anything shaped like a JWT with a short prefix
// followed by "...".
func MaskSecrets(s string) string {
	s = bearerPattern.ReplaceAllStringFunc(s, func(m string) string {
		parts := bearerPattern.FindStringSubmatch(m)
		return parts[1] + MaskToken(parts[2])
	})
	return jwtPattern.ReplaceAllStringFunc(s, MaskToken)
}

// MaskToken keeps the first few characters of a token so that different tokens can still be
// told apart in debug output.
func MaskToken(token string) string {
	const visible = 8
	if len(token) <= visible {
		return "***"
	}
	return token[:visible] + "..."
}
