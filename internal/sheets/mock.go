package sheets

import (
	"context"
	"sync"
)

// MockWriter records reports instead of publishing them.
type MockWriter struct {
	err   error
	calls []WriteCall
	mu    sync.Mutex
}

// WriteCall is one recorded Write.
type WriteCall struct {
	Error  error
	Report *Report
}

// NewMockWriter returns a writer that accepts every report.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write records the report and returns the configured failure, if any.
func (m *MockWriter) Write(_ context.Context, report *Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, WriteCall{Report: report, Error: m.err})
	return m.err
}

// Fail makes later writes return err. Nil restores success.
func (m *MockWriter) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns a copy of the recorded writes.
func (m *MockWriter) Calls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]WriteCall(nil), m.calls...)
}

// Count is the number of writes so far.
func (m *MockWriter) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Last returns the most recent report, or nil.
func (m *MockWriter) Last() *Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1].Report
}

// Reset forgets recorded writes and the configured failure.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.err = nil
}
