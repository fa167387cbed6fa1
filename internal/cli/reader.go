package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputCancelled is returned when the context ends before a line arrives.
var ErrInputCancelled = errors.New("input canceled")

type readResult struct {
	err  error
	line string
}

// LineReader reads terminal lines without blocking past context
// cancellation. One goroutine pumps the source, so a line that arrives after
// a cancelled read is kept for the next one.
type LineReader struct {
	src   *bufio.Reader
	lines chan readResult
	start sync.Once
	mu    sync.Mutex
	err   error
}

// NewLineReader wraps src.
func NewLineReader(src io.Reader) *LineReader {
	return &LineReader{src: bufio.NewReader(src), lines: make(chan readResult, 1)}
}

func (r *LineReader) pump() {
	for {
		line, err := r.src.ReadString('\n')
		r.lines <- readResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}

// ReadLine returns the next line with surrounding space trimmed. A final
// line without a newline is returned before io.EOF.
func (r *LineReader) ReadLine(ctx context.Context) (string, error) {
	if ctx.Err() != nil {
		return "", ErrInputCancelled
	}
	r.mu.Lock()
	err := r.err
	r.mu.Unlock()
	if err != nil {
		return "", err
	}

	r.start.Do(func() { go r.pump() })

	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-r.lines:
		if res.err != nil {
			r.mu.Lock()
			r.err = res.err
			r.mu.Unlock()
			if !errors.Is(res.err, io.EOF) || res.line == "" {
				return "", res.err
			}
		}
		return strings.TrimSpace(res.line), nil
	}
}
