package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	ikeerrors "github.com/systmms/ikecreds/internal/errors"
	"github.com/systmms/ikecreds/internal/keystore"
	"github.com/systmms/ikecreds/internal/logging"
	"github.com/systmms/ikecreds/pkg/identity"
)

//go:embed schema.json
var schemaJSON string

// DefaultPath is the configuration file used when --config is not given
const DefaultPath = "ikecreds.yaml"

// Config holds the runtime configuration
type Config struct {
	Path       string
	Logger     *logging.Logger
	Definition *Definition
}

// Definition represents the ikecreds.yaml structure
type Definition struct {
	Version      int                 `yaml:"version"`
	Keystore     KeystoreConfig      `yaml:"keystore,omitempty"`
	Certificates []CertificateSource `yaml:"certificates,omitempty"`
	Keys         []KeyRef            `yaml:"keys,omitempty"`
	Secrets      []SecretConfig      `yaml:"secrets,omitempty"`
}

// KeystoreConfig selects the keyring service holding private keys
type KeystoreConfig struct {
	Service string `yaml:"service,omitempty"`
}

// CertificateSource is a PEM certificate given as a file or inline
type CertificateSource struct {
	File string `yaml:"file,omitempty"`
	PEM  string `yaml:"pem,omitempty"`
}

// KeyRef names a private key in the keystore
type KeyRef struct {
	Alias string `yaml:"alias"`
}

// SecretConfig is a shared secret for one identity. The secret comes from
// the named environment variable or, for tests and demos, a literal value.
type SecretConfig struct {
	Identity string  `yaml:"identity"`
	Env      string  `yaml:"env,omitempty"`
	Value    *string `yaml:"value,omitempty"`
	XAuth    bool    `yaml:"xauth,omitempty"`
}

// Load reads, validates and parses the configuration file
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return ikeerrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Pass --config <file> or create " + DefaultPath,
			}
		}
		return ikeerrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	def, err := Parse(data)
	if err != nil {
		return err
	}

	c.Definition = def
	return nil
}

// Parse validates data against the configuration schema and decodes it
func Parse(data []byte) (*Definition, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, ikeerrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}
	if raw == nil {
		// an empty file configures an empty store
		raw = map[string]interface{}{}
	}

	if doc, ok := raw.(map[string]interface{}); ok {
		if v, ok := doc["version"]; ok && v != 0 {
			return nil, ikeerrors.ConfigError{
				Field:      "version",
				Value:      v,
				Message:    "unsupported configuration version",
				Suggestion: "Set 'version: 0' at the top of your ikecreds.yaml file",
			}
		}
	}

	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, ikeerrors.ConfigError{
			Message:    fmt.Sprintf("failed to decode configuration: %v", err),
			Suggestion: "Check the field types against the documented format",
		}
	}

	if err := def.validateIdentities(); err != nil {
		return nil, err
	}
	return &def, nil
}

func validateSchema(doc interface{}) error {
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return ikeerrors.ConfigError{
			Message:    fmt.Sprintf("configuration cannot be represented as JSON: %v", err),
			Suggestion: "Use only string keys in mappings",
		}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var messages []string
	for _, desc := range result.Errors() {
		messages = append(messages, desc.String())
	}
	return ikeerrors.ConfigError{
		Field:      result.Errors()[0].Field(),
		Message:    "schema validation failed:\n  - " + strings.Join(messages, "\n  - "),
		Suggestion: "Certificates need 'file' or 'pem', keys need 'alias', secrets need 'identity' and one of 'env' or 'value'",
	}
}

func (d *Definition) validateIdentities() error {
	for i, s := range d.Secrets {
		if _, err := identity.FromString(s.Identity); err != nil {
			return ikeerrors.ConfigError{
				Field:      fmt.Sprintf("secrets[%d].identity", i),
				Value:      s.Identity,
				Message:    err.Error(),
				Suggestion: "Use an address, host name, email, DN (CN=...) or #hex key-id",
			}
		}
	}
	return nil
}

// KeystoreService returns the configured keyring service or the default
func (c *Config) KeystoreService() string {
	if c.Definition == nil || c.Definition.Keystore.Service == "" {
		return keystore.DefaultService
	}
	return c.Definition.Keystore.Service
}

// ResolvePath interprets p relative to the configuration file's directory
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(c.Path), p)
}
