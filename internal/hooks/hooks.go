// Package hooks runs user shell commands when wires are made or removed.
package hooks

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/msalah0e/flowdesigner/internal/config"
	"github.com/msalah0e/flowdesigner/internal/wire"
)

// Hook events, passed to scripts as FLOWDESIGNER_EVENT.
const (
	EventWireAdded   = "wire_added"
	EventWireRemoved = "wire_removed"
)

// Runner observes a wire manager and runs the configured script for each
// wire change. Scripts run synchronously, in event order.
type Runner struct {
	wire.NopObserver

	hooks    config.HooksConfig
	document string
	logger   *zap.Logger
	stdout   io.Writer
	stderr   io.Writer
	err      error
}

// New returns a runner for the hooks in h, or nil when none are set.
func New(h config.HooksConfig, document string, logger *zap.Logger) *Runner {
	if h.WireAdded == "" && h.WireRemoved == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		hooks:    h,
		document: document,
		logger:   logger,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// Err returns the first hook failure, if any.
func (r *Runner) Err() error { return r.err }

func (r *Runner) WireAdded(e *wire.Edge) {
	r.run(EventWireAdded, r.hooks.WireAdded, e)
}

func (r *Runner) WireRemoved(e *wire.Edge) {
	r.run(EventWireRemoved, r.hooks.WireRemoved, e)
}

func (r *Runner) run(event, script string, e *wire.Edge) {
	if script == "" {
		return
	}

	cmd := exec.Command("sh", "-c", script)
	cmd.Env = append(os.Environ(),
		"FLOWDESIGNER_EVENT="+event,
		"FLOWDESIGNER_WIRE="+e.Key,
		"FLOWDESIGNER_SOURCE="+e.Source.ID(),
		"FLOWDESIGNER_TARGET="+e.Target.ID(),
		"FLOWDESIGNER_SCOPES="+strings.Join(e.Scopes, ","),
		"FLOWDESIGNER_COLOR="+e.Color,
		"FLOWDESIGNER_DOCUMENT="+r.document,
	)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	if err := cmd.Run(); err != nil {
		r.logger.Warn("hook failed", zap.String("event", event), zap.String("wire", e.Key), zap.Error(err))
		if r.err == nil {
			r.err = err
		}
	}
}
