// Package notify carries user facing toasts out of the editing components.
package notify

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Notifier shows a transient success or error message to the operator.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type discard struct{}

func (discard) Success(string) {}
func (discard) Error(string)   {}

// Discard drops every message.
var Discard Notifier = discard{}

// Terminal prints messages to w and mirrors them into the log.
type Terminal struct {
	w   io.Writer
	log *zap.Logger
}

func NewTerminal(w io.Writer, log *zap.Logger) *Terminal {
	if log == nil {
		log = zap.NewNop()
	}
	return &Terminal{w: w, log: log}
}

func (t *Terminal) Success(msg string) {
	fmt.Fprintln(t.w, "✓ "+msg)
	t.log.Info("notify", zap.String("level", "success"), zap.String("message", msg))
}

func (t *Terminal) Error(msg string) {
	fmt.Fprintln(t.w, "✗ "+msg)
	t.log.Warn("notify", zap.String("level", "error"), zap.String("message", msg))
}
