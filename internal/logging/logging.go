// Package logging builds the slog logger used by the CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/masq"
)

// Levels lists the accepted level names.
var Levels = []string{"debug", "info", "warn", "error"}

// GitHub personal access tokens, classic and fine-grained.
var tokenPattern = regexp.MustCompile(`(ghp|gho|ghs|ghu)_[A-Za-z0-9]{20,}|github_pat_[A-Za-z0-9_]{20,}`)

// Logger holds logger configuration
type Logger struct {
	Level string
	JSON  bool
	Color bool
}

// ParseLevel converts a level name, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q (expected one of %s)", s, strings.Join(Levels, ", "))
	}
}

// Configure configures and returns a logger writing to w. Attributes named
// like credentials and values that look like GitHub tokens are redacted.
func (c *Logger) Configure(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	redact := masq.New(
		masq.WithFieldName("token"),
		masq.WithFieldName("Token"),
		masq.WithFieldPrefix("secret"),
		masq.WithRegex(tokenPattern),
	)

	var handler slog.Handler
	if c.JSON {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redact,
		})
	} else {
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithColor(c.Color),
			clog.WithReplaceAttr(redact),
		)
	}

	return slog.New(handler), nil
}
