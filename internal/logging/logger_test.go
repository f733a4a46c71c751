package logging_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/systmms/ikecreds/internal/logging"
)

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, true, true)

	logger.Info("loaded %d certificates", 2)
	logger.Warn("warn message")
	logger.Error("Failed to create certificate.")
	logger.Debug("private_key_filter: %s", "MATCH")

	assert.Equal(t,
		"✓ loaded 2 certificates\n⚠ warn message\n✗ Failed to create certificate.\n[DEBUG] private_key_filter: MATCH\n",
		buf.String())
}

func TestLoggerDebugDisabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, false, true)
	logger.Debug("hidden")

	assert.Empty(t, buf.String())
	assert.False(t, logger.DebugEnabled())
}

func TestLoggerColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, false, false)
	logger.Error("boom")

	assert.Contains(t, buf.String(), "\033[31m")
}

func TestSecretRedaction(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, true, true)

	secretValue := "super-secret-password-12345"
	logger.Info("psk for alice: %s", logging.Secret(secretValue))
	logger.Debug("psk value %v %#v", logging.Secret(secretValue), logging.Secret(secretValue))

	assert.NotContains(t, buf.String(), secretValue)
	assert.Contains(t, buf.String(), "[REDACTED]")
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", logging.Secret("x")))
}

func TestRedact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		secrets  []string
		expected string
	}{
		{
			name:     "single secret redacted",
			input:    "psk is s3cr3t-value",
			secrets:  []string{"s3cr3t-value"},
			expected: "psk is [REDACTED]",
		},
		{
			name:     "short secret ignored",
			input:    "Short secret: ab",
			secrets:  []string{"ab"},
			expected: "Short secret: ab",
		},
		{
			name:     "empty secret ignored",
			input:    "nothing here",
			secrets:  []string{""},
			expected: "nothing here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, logging.Redact(tt.input, tt.secrets))
		})
	}
}
