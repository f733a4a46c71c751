package errors_test

import (
	stderrors "errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/ikecreds/internal/errors"
	"github.com/systmms/ikecreds/internal/keystore"
	"github.com/systmms/ikecreds/internal/logging"
	"github.com/systmms/ikecreds/internal/x509cert"
)

// TestUserErrorFormatting verifies UserError displays properly
func TestUserErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.UserError{
		Message:    "Lookup failed",
		Details:    "no identity given",
		Suggestion: "Pass --id",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "Lookup failed")
	assert.Contains(t, errMsg, "Details: no identity given")
	assert.Contains(t, errMsg, "Try: Pass --id")
}

func TestUserErrorFallsBackToCause(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("boom")
	err := errors.UserError{Err: cause}

	assert.Equal(t, "boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

// TestConfigErrorFormatting verifies ConfigError displays with context
func TestConfigErrorFormatting(t *testing.T) {
	t.Parallel()

	err := errors.ConfigError{
		Field:      "secrets[0].identity",
		Value:      "#zz",
		Message:    "invalid identity",
		Suggestion: "Key-ids are written as #hex",
	}

	errMsg := err.Error()

	assert.Contains(t, errMsg, "secrets[0].identity")
	assert.Contains(t, errMsg, "#zz")
	assert.Contains(t, errMsg, "invalid identity")
	assert.Contains(t, errMsg, "#hex")
}

func TestProvisionError(t *testing.T) {
	t.Parallel()

	first := stderrors.New("certificates[0]: no certificate")
	second := stderrors.New("keys[1]: not found")

	single := errors.ProvisionError{Failures: []error{first}}
	assert.Equal(t, "1 credential failed to load: certificates[0]: no certificate", single.Error())

	multi := errors.ProvisionError{Failures: []error{first, second}}
	assert.Contains(t, multi.Error(), "2 credentials failed to load")
	assert.Contains(t, multi.Error(), "- keys[1]: not found")
	assert.ErrorIs(t, multi, second)
}

func TestKeystoreErrorSuggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		wantSug string
	}{
		{name: "missing", err: &keystore.KeyError{Op: "get", Alias: "vpn", Err: keystore.ErrKeyNotFound}, wantSug: "ikecreds keys import vpn"},
		{name: "unsupported", err: fmt.Errorf("%w: encrypted", keystore.ErrUnsupportedKey), wantSug: "unencrypted"},
		{name: "locked", err: stderrors.New("keychain is locked"), wantSug: "Unlock"},
		{name: "no secret service", err: stderrors.New("The name org.freedesktop.secrets was not provided by any .service files (dbus)"), wantSug: "Secret Service"},
		{name: "unknown", err: stderrors.New("weird"), wantSug: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := errors.KeystoreError("ikecreds", "vpn", tt.err)
			var userErr errors.UserError
			require.ErrorAs(t, err, &userErr)
			assert.Contains(t, userErr.Message, `"vpn"`)
			if tt.wantSug == "" {
				assert.Empty(t, userErr.Suggestion)
			} else {
				assert.Contains(t, userErr.Suggestion, tt.wantSug)
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestSimplifyError(t *testing.T) {
	t.Parallel()

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, errors.SimplifyError(nil))
	})

	t.Run("already friendly", func(t *testing.T) {
		orig := errors.ConfigError{Message: "bad"}
		assert.Equal(t, orig, errors.SimplifyError(orig))
	})

	t.Run("key error", func(t *testing.T) {
		err := errors.SimplifyError(&keystore.KeyError{Op: "get", Alias: "client", Err: keystore.ErrKeyNotFound})
		var userErr errors.UserError
		require.ErrorAs(t, err, &userErr)
		assert.Contains(t, userErr.Suggestion, "keys import client")
	})

	t.Run("no certificate", func(t *testing.T) {
		err := errors.SimplifyError(fmt.Errorf("gw.pem: %w", x509cert.ErrNoCertificate))
		var userErr errors.UserError
		require.ErrorAs(t, err, &userErr)
		assert.Equal(t, "No certificate found", userErr.Message)
	})

	t.Run("yaml", func(t *testing.T) {
		err := errors.SimplifyError(fmt.Errorf("load: %w", stderrors.New("yaml: line 3: did not find expected key")))
		var configErr errors.ConfigError
		require.ErrorAs(t, err, &configErr)
		assert.Equal(t, "Invalid YAML format", configErr.Message)
	})

	t.Run("missing file", func(t *testing.T) {
		_, statErr := os.Stat("/definitely/not/here.yaml")
		err := errors.SimplifyError(statErr)
		var userErr errors.UserError
		require.ErrorAs(t, err, &userErr)
		assert.Equal(t, "File or directory not found", userErr.Message)
	})

	t.Run("unknown passes through", func(t *testing.T) {
		orig := stderrors.New("something else")
		assert.Equal(t, orig, errors.SimplifyError(orig))
	})
}

// TestUserErrorWithSecretRedaction verifies a logging.Secret inside an error
// is redacted in the rendered message
func TestUserErrorWithSecretRedaction(t *testing.T) {
	t.Parallel()

	secretValue := "s3cr3t-psk"
	err := errors.UserError{
		Message: fmt.Sprintf("secret for alice rejected: %s", logging.Secret(secretValue)),
	}

	assert.NotContains(t, err.Error(), secretValue)
	assert.Contains(t, err.Error(), "[REDACTED]")
}
