package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/systmms/ikecreds/internal/keystore"
	"github.com/systmms/ikecreds/internal/x509cert"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// ProvisionError collects the credentials that failed to load from a
// configuration. Loading continues past individual failures.
type ProvisionError struct {
	Failures []error
}

func (e ProvisionError) Error() string {
	if len(e.Failures) == 1 {
		return "1 credential failed to load: " + e.Failures[0].Error()
	}
	msg := fmt.Sprintf("%d credentials failed to load:", len(e.Failures))
	for _, err := range e.Failures {
		msg += "\n  - " + err.Error()
	}
	return msg
}

func (e ProvisionError) Unwrap() []error {
	return e.Failures
}

// KeystoreError adds a suggestion to a failed key store operation
func KeystoreError(service, alias string, err error) error {
	return UserError{
		Message:    fmt.Sprintf("private key %q unavailable in keystore service %q", alias, service),
		Suggestion: getKeystoreSuggestion(alias, err),
		Err:        err,
	}
}

func getKeystoreSuggestion(alias string, err error) string {
	switch {
	case errors.Is(err, keystore.ErrKeyNotFound):
		return fmt.Sprintf("Import the key first: 'ikecreds keys import %s <key.pem>'", alias)
	case errors.Is(err, keystore.ErrUnsupportedKey):
		return "Store an unencrypted PKCS#8, PKCS#1 or SEC 1 PEM key"
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "locked") {
		return "Unlock the login keychain (or the Secret Service collection) and retry"
	}
	if strings.Contains(errStr, "dbus") || strings.Contains(errStr, "secret service") {
		return "No Secret Service is running. Start gnome-keyring or KeePassXC with Secret Service enabled"
	}
	return ""
}

// SimplifyError simplifies complex error messages for users
func SimplifyError(err error) error {
	if err == nil {
		return nil
	}

	// Already a user-friendly error
	var userErr UserError
	if errors.As(err, &userErr) {
		return err
	}
	var configErr ConfigError
	if errors.As(err, &configErr) {
		return err
	}
	var provisionErr ProvisionError
	if errors.As(err, &provisionErr) {
		return err
	}

	var keyErr *keystore.KeyError
	if errors.As(err, &keyErr) {
		return UserError{
			Message:    keyErr.Error(),
			Suggestion: getKeystoreSuggestion(keyErr.Alias, keyErr.Err),
			Err:        err,
		}
	}

	if errors.Is(err, x509cert.ErrNoCertificate) {
		return UserError{
			Message:    "No certificate found",
			Suggestion: "Provide a PEM file containing a '-----BEGIN CERTIFICATE-----' block",
			Err:        err,
		}
	}

	// Unwrap to get the root cause
	rootErr := err
	for {
		unwrapped := errors.Unwrap(rootErr)
		if unwrapped == nil {
			break
		}
		rootErr = unwrapped
	}
	errStr := rootErr.Error()

	if strings.Contains(errStr, "yaml:") {
		return ConfigError{
			Message:    "Invalid YAML format",
			Suggestion: "Check for indentation errors and missing quotes",
		}
	}

	if strings.Contains(errStr, "permission denied") {
		return UserError{
			Message:    "Permission denied",
			Suggestion: "Check file permissions or run with appropriate privileges",
			Err:        err,
		}
	}

	if strings.Contains(errStr, "no such file or directory") {
		return UserError{
			Message:    "File or directory not found",
			Suggestion: "Verify the path exists and is spelled correctly",
			Err:        err,
		}
	}

	// Return original error if we can't simplify it
	return err
}
