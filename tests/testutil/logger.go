// Package testutil provides shared helpers for ikecreds tests: a capturing
// logger, PKI fixtures and temporary configuration files.
package testutil

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/systmms/ikecreds/internal/logging"
)

// TestLogger captures log output in memory using the same level markers
// as logging.Logger (✓, ⚠, ✗, [DEBUG]).
//
//	logger := testutil.NewTestLogger(t)
//	store := credstore.New(factory, keys, credstore.WithLogger(logger))
//	store.AddCertificate("garbage")
//	logger.AssertContains(t, "failed to create certificate")
type TestLogger struct {
	mu     sync.Mutex
	buffer bytes.Buffer
	debug  bool
}

// NewTestLogger creates a logger that also captures debug output
func NewTestLogger(t *testing.T) *TestLogger {
	t.Helper()
	return &TestLogger{debug: true}
}

func (l *TestLogger) Info(format string, args ...interface{}) {
	l.write("✓", format, args...)
}

func (l *TestLogger) Warn(format string, args ...interface{}) {
	l.write("⚠", format, args...)
}

func (l *TestLogger) Error(format string, args ...interface{}) {
	l.write("✗", format, args...)
}

func (l *TestLogger) Debug(format string, args ...interface{}) {
	if l.debug {
		l.write("[DEBUG]", format, args...)
	}
}

func (l *TestLogger) write(marker, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(&l.buffer, "%s %s\n", marker, fmt.Sprintf(format, args...))
}

// GetOutput returns everything captured so far
func (l *TestLogger) GetOutput() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buffer.String()
}

// Clear drops captured output
func (l *TestLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buffer.Reset()
}

// AssertContains asserts that the output contains substr
func (l *TestLogger) AssertContains(t *testing.T, substr string) {
	t.Helper()
	assert.Contains(t, l.GetOutput(), substr)
}

// AssertNotContains asserts that the output does not contain substr.
// Use it to check that a secret never reached the log.
func (l *TestLogger) AssertNotContains(t *testing.T, substr string) {
	t.Helper()
	assert.NotContains(t, l.GetOutput(), substr)
}

// AssertLogCount asserts how many lines were logged at level
// ("info", "warn", "error" or "debug")
func (l *TestLogger) AssertLogCount(t *testing.T, level string, count int) {
	t.Helper()

	markers := map[string]string{
		"info":  "✓ ",
		"warn":  "⚠ ",
		"error": "✗ ",
		"debug": "[DEBUG] ",
	}
	marker, ok := markers[level]
	if !ok {
		t.Fatalf("Unknown log level: %s", level)
	}

	actual := 0
	for _, line := range strings.Split(l.GetOutput(), "\n") {
		if strings.HasPrefix(line, marker) {
			actual++
		}
	}
	assert.Equal(t, count, actual, "Expected %d %s log messages", count, level)
}

var _ logging.Leveled = (*TestLogger)(nil)
