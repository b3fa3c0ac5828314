// Package cmdfile polls a plain text file for operator commands. The whole
// trimmed file content is one command string; it is re-dispatched only when
// it changes.
package cmdfile

import (
	"context"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"ashborn/internal/brain"
)

type Watcher struct {
	path     string
	interval time.Duration
	disp     Dispatcher
	log      *zap.Logger

	lastCommand string
}

// Dispatcher is the command sink; satisfied by brain.Brain.
type Dispatcher interface {
	Handle(ctx context.Context, cmd brain.Command)
}

func NewWatcher(path string, interval time.Duration, disp Dispatcher, log *zap.Logger) *Watcher {
	return &Watcher{
		path:     path,
		interval: interval,
		disp:     disp,
		log:      log.Named("cmdfile"),
	}
}

// Run polls until ctx is cancelled. A missing file just means no command yet.
func (w *Watcher) Run(ctx context.Context) {
	w.log.Info("listening for commands", zap.String("path", w.path))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info("command file watcher stopped")
			return
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}

// Poll reads the file once and dispatches when the content changed since the
// last read.
func (w *Watcher) Poll(ctx context.Context) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if !os.IsNotExist(err) {
			w.log.Warn("command file read failed", zap.Error(err))
		}
		return
	}

	command := strings.TrimSpace(string(data))
	if command == "" || command == w.lastCommand {
		return
	}
	w.lastCommand = command

	w.log.Info("new command detected", zap.String("command", command))
	w.disp.Handle(ctx, brain.Parse(command))
}
