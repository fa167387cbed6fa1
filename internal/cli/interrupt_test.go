package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer    io.Writer
		name      string
		operation string
		want      string
	}{
		{name: "with custom writer", writer: &bytes.Buffer{}, operation: "Import", want: "Import"},
		{name: "with nil writer", writer: nil, want: "Operation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer, tt.operation)
			assert.NotNil(t, handler)
			assert.NotNil(t, handler.writer)
			assert.Equal(t, tt.want, handler.operation)
			assert.False(t, handler.WasInterrupted())
		})
	}
}

func TestWatch_Signal(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output, "Import")
	handler.Undo = "maglo backup restore"
	sigChan := make(chan os.Signal, 2)

	ctx := handler.watch(context.Background(), sigChan)
	select {
	case <-ctx.Done():
		t.Fatal("context should not be canceled initially")
	default:
	}

	sigChan <- os.Interrupt
	sigChan <- os.Interrupt

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled by the signal")
	}

	assert.Eventually(t, handler.WasInterrupted, time.Second, 10*time.Millisecond)
	outputStr := output.String()
	assert.Equal(t, 1, strings.Count(outputStr, "Import interrupted!"))
	assert.Contains(t, outputStr, "maglo backup restore")
}

func TestWatch_ParentCancelIsNotAnInterrupt(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output, "Import")

	parent, cancel := context.WithCancel(context.Background())
	ctx := handler.watch(parent, make(chan os.Signal, 1))
	cancel()

	<-ctx.Done()
	time.Sleep(20 * time.Millisecond)
	assert.False(t, handler.WasInterrupted())
	assert.Empty(t, output.String())
}

func TestInterruptMessage(t *testing.T) {
	tests := []struct {
		name        string
		undo        string
		expected    []string
		notExpected []string
	}{
		{
			name:     "with undo",
			undo:     "maglo backup restore",
			expected: []string{"Import interrupted!", "A backup was taken first", "maglo backup restore", "See you later!"},
		},
		{
			name:        "without undo",
			expected:    []string{"Import interrupted!", "See you later!"},
			notExpected: []string{"backup"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(&bytes.Buffer{}, "Import")
			handler.Undo = tt.undo

			msg := handler.message()
			for _, expected := range tt.expected {
				assert.Contains(t, msg, expected)
			}
			for _, notExpected := range tt.notExpected {
				assert.NotContains(t, msg, notExpected)
			}
		})
	}
}
