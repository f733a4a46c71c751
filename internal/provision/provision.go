// Package provision loads the credentials named in a configuration file
// into a credential store.
package provision

import (
	"errors"
	"fmt"
	"os"

	"github.com/awnumar/memguard"

	"github.com/systmms/ikecreds/internal/config"
	ikeerrors "github.com/systmms/ikecreds/internal/errors"
	"github.com/systmms/ikecreds/internal/keystore"
	"github.com/systmms/ikecreds/internal/logging"
	"github.com/systmms/ikecreds/internal/x509cert"
	"github.com/systmms/ikecreds/pkg/credstore"
	"github.com/systmms/ikecreds/pkg/identity"
)

// ErrCertificateRejected is reported when the store drops a certificate
// that parses
var ErrCertificateRejected = errors.New("certificate rejected by store")

// Target is the part of the store provisioning writes to
type Target interface {
	AddCertificate(pem string)
	AddPrivateKey(ref string) bool
	SetSharedSecret(id *identity.Identity, secret []byte, isXAuth bool)
	Stats() credstore.Stats
}

// Result counts what was loaded
type Result struct {
	Certificates  int
	PrivateKeys   int
	SharedSecrets int
}

// Provisioner applies a loaded configuration to a Target
type Provisioner struct {
	config *config.Config
	logger logging.Leveled

	// LookupEnv resolves secret environment variables; os.LookupEnv by default
	LookupEnv func(string) (string, bool)
	// ReadFile reads certificate files; os.ReadFile by default
	ReadFile func(string) ([]byte, error)
}

// New creates a provisioner for cfg. cfg must already be loaded.
func New(cfg *config.Config, logger logging.Leveled) *Provisioner {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Provisioner{
		config:    cfg,
		logger:    logger,
		LookupEnv: os.LookupEnv,
		ReadFile:  os.ReadFile,
	}
}

// NewStore builds a store backed by the X.509 factory and the configured
// keystore service
func NewStore(cfg *config.Config, opts ...credstore.Option) *credstore.Store {
	return credstore.New(x509cert.NewFactory(), keystore.NewProvider(cfg.KeystoreService()), opts...)
}

// Apply adds every configured credential to target. Individual failures
// are logged and collected into an errors.ProvisionError; the rest are
// still loaded.
func (p *Provisioner) Apply(target Target) (Result, error) {
	var (
		result   Result
		failures []error
	)

	def := p.config.Definition
	if def == nil {
		return result, ikeerrors.UserError{
			Message:    "Configuration not loaded",
			Suggestion: "This is an internal error. Please report it",
		}
	}

	// configured secret values never appear in reported failures
	secrets := p.secretValues(def)
	fail := func(err error) {
		err = redact(err, secrets)
		p.logger.Error("%v", err)
		failures = append(failures, err)
	}

	for i, src := range def.Certificates {
		if err := p.addCertificate(target, src); err != nil {
			fail(fmt.Errorf("certificates[%d]: %w", i, err))
			continue
		}
		result.Certificates++
	}

	for i, ref := range def.Keys {
		if !target.AddPrivateKey(ref.Alias) {
			// the store has already logged why
			err := fmt.Errorf("keys[%d]: private key %q could not be loaded from keystore service %q",
				i, ref.Alias, p.config.KeystoreService())
			failures = append(failures, redact(err, secrets))
			continue
		}
		result.PrivateKeys++
	}

	for i, sc := range def.Secrets {
		if err := p.setSecret(target, sc); err != nil {
			fail(fmt.Errorf("secrets[%d]: %w", i, err))
			continue
		}
		result.SharedSecrets++
	}

	p.logger.Info("Loaded %d certificates, %d private keys, %d shared secrets",
		result.Certificates, result.PrivateKeys, result.SharedSecrets)

	if len(failures) > 0 {
		return result, ikeerrors.ProvisionError{Failures: failures}
	}
	return result, nil
}

func (p *Provisioner) secretValues(def *config.Definition) []string {
	var values []string
	for _, sc := range def.Secrets {
		switch {
		case sc.Value != nil:
			values = append(values, *sc.Value)
		case sc.Env != "":
			if v, ok := p.LookupEnv(sc.Env); ok {
				values = append(values, v)
			}
		}
	}
	return values
}

// redactedError carries a redacted message but still unwraps to the cause
type redactedError struct {
	msg string
	err error
}

func (e redactedError) Error() string { return e.msg }
func (e redactedError) Unwrap() error { return e.err }

func redact(err error, secrets []string) error {
	msg := logging.Redact(err.Error(), secrets)
	if msg == err.Error() {
		return err
	}
	return redactedError{msg: msg, err: err}
}

func (p *Provisioner) addCertificate(target Target, src config.CertificateSource) error {
	pemText := src.PEM
	if src.File != "" {
		path := p.config.ResolvePath(src.File)
		data, err := p.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		pemText = string(data)
	}

	// AddCertificate reports nothing, so a rejected certificate shows up
	// as an unchanged count
	before := target.Stats().Certificates
	target.AddCertificate(pemText)
	if target.Stats().Certificates != before {
		return nil
	}

	name := "inline pem"
	if src.File != "" {
		name = src.File
	}
	if _, err := x509cert.NewFactory().CreateFromPEM([]byte(pemText)); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return fmt.Errorf("%s: %w", name, ErrCertificateRejected)
}

func (p *Provisioner) setSecret(target Target, sc config.SecretConfig) error {
	id, err := identity.FromString(sc.Identity)
	if err != nil {
		return err
	}

	var secret []byte
	switch {
	case sc.Env != "":
		value, ok := p.LookupEnv(sc.Env)
		if !ok {
			return ikeerrors.ConfigError{
				Field:      "env",
				Value:      sc.Env,
				Message:    fmt.Sprintf("environment variable for %s is not set", id),
				Suggestion: fmt.Sprintf("export %s=<secret> before starting ikecreds", sc.Env),
			}
		}
		secret = []byte(value)
	case sc.Value != nil:
		secret = []byte(*sc.Value)
	default:
		return fmt.Errorf("no secret source for %s", id)
	}

	target.SetSharedSecret(id, secret, sc.XAuth)
	memguard.WipeBytes(secret)

	p.logger.Debug("Set shared secret for %s (xauth: %t)", id, sc.XAuth)
	return nil
}
