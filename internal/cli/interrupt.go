package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
)

// InterruptHandler turns SIGINT and SIGTERM into context cancellation and
// tells the user what was left behind.
type InterruptHandler struct {
	writer    io.Writer
	operation string
	// Undo is the command that reverts partial work, shown after an
	// interrupt when set.
	Undo        string
	interrupted atomic.Bool
}

// NewInterruptHandler creates a handler. operation names the interrupted
// work in the message, e.g. "Import".
func NewInterruptHandler(writer io.Writer, operation string) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	if operation == "" {
		operation = "Operation"
	}
	return &InterruptHandler{writer: writer, operation: operation}
}

// HandleInterrupts returns a context cancelled by the first interrupt signal.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context) context.Context {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	return h.watch(ctx, signals)
}

func (h *InterruptHandler) watch(ctx context.Context, signals chan os.Signal) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
		case <-ctx.Done():
			return
		}
		if h.interrupted.CompareAndSwap(false, true) {
			_, _ = fmt.Fprint(h.writer, h.message())
		}
		cancel()
	}()
	return ctx
}

func (h *InterruptHandler) message() string {
	var b strings.Builder
	b.WriteString("\n\n" + FormatWarning(h.operation+" interrupted!") + "\n")
	if h.Undo != "" {
		b.WriteString(FormatInfo("A backup was taken first. Undo partial work with: "+h.Undo) + "\n")
	}
	b.WriteString(FormatInfo("See you later!") + "\n")
	return b.String()
}

// WasInterrupted reports whether a signal arrived.
func (h *InterruptHandler) WasInterrupted() bool {
	return h.interrupted.Load()
}
