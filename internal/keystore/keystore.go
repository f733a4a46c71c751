// Package keystore resolves opaque key references (aliases) to private keys
// held in the OS keyring (macOS Keychain, Linux Secret Service, Windows
// Credential Manager).
//
// Each alias is a keyring account under a configurable service name whose
// value is a PEM-encoded private key (PKCS#8, PKCS#1 or SEC 1).
package keystore

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/systmms/ikecreds/pkg/credential"
)

// DefaultService is the keyring service used when none is configured
const DefaultService = "ikecreds"

var (
	// ErrKeyNotFound means the alias has no keyring entry
	ErrKeyNotFound = errors.New("key not found in keystore")
	// ErrUnsupportedKey means the entry is not a usable private key
	ErrUnsupportedKey = errors.New("unsupported private key")
)

// KeyError describes a failed keystore operation
type KeyError struct {
	Op    string
	Alias string
	Err   error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("keystore %s %q: %v", e.Op, e.Alias, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// Client abstracts keyring access so tests can substitute a fake
type Client interface {
	Get(service, account string) (string, error)
	Set(service, account, value string) error
	Delete(service, account string) error
}

type keyringClient struct{}

func (keyringClient) Get(service, account string) (string, error) {
	value, err := keyring.Get(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrKeyNotFound
	}
	return value, err
}

func (keyringClient) Set(service, account, value string) error {
	return keyring.Set(service, account, value)
}

func (keyringClient) Delete(service, account string) error {
	err := keyring.Delete(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrKeyNotFound
	}
	return err
}

// Provider implements credstore.KeyProvider on top of a keyring
type Provider struct {
	service string
	client  Client
}

// NewProvider uses the OS keyring. An empty service selects DefaultService.
func NewProvider(service string) *Provider {
	return NewProviderWithClient(service, keyringClient{})
}

// NewProviderWithClient uses client instead of the OS keyring
func NewProviderWithClient(service string, client Client) *Provider {
	if service == "" {
		service = DefaultService
	}
	return &Provider{service: service, client: client}
}

// Service returns the keyring service name
func (p *Provider) Service() string {
	return p.service
}

// Materialize loads and parses the key stored under alias
func (p *Provider) Materialize(alias string) (credential.PrivateKey, error) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return nil, &KeyError{Op: "get", Alias: alias, Err: errors.New("empty alias")}
	}

	value, err := p.client.Get(p.service, alias)
	if err != nil {
		return nil, &KeyError{Op: "get", Alias: alias, Err: err}
	}

	signer, err := ParsePrivateKeyPEM([]byte(value))
	if err != nil {
		return nil, &KeyError{Op: "parse", Alias: alias, Err: err}
	}

	key, err := credential.NewPrivateKey(signer)
	if err != nil {
		return nil, &KeyError{Op: "parse", Alias: alias, Err: fmt.Errorf("%w: %v", ErrUnsupportedKey, err)}
	}
	return key, nil
}

// Import validates pemKey and stores it under alias
func (p *Provider) Import(alias string, pemKey []byte) error {
	if _, err := ParsePrivateKeyPEM(pemKey); err != nil {
		return &KeyError{Op: "import", Alias: alias, Err: err}
	}
	if err := p.client.Set(p.service, alias, string(pemKey)); err != nil {
		return &KeyError{Op: "import", Alias: alias, Err: err}
	}
	return nil
}

// Remove deletes the entry for alias
func (p *Provider) Remove(alias string) error {
	if err := p.client.Delete(p.service, alias); err != nil {
		return &KeyError{Op: "delete", Alias: alias, Err: err}
	}
	return nil
}

// ParsePrivateKeyPEM decodes the first private key block in data
func ParsePrivateKeyPEM(data []byte) (crypto.Signer, error) {
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, fmt.Errorf("%w: no PEM private key block", ErrUnsupportedKey)
		}

		var (
			key any
			err error
		)
		switch block.Type {
		case "PRIVATE KEY":
			key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
		case "RSA PRIVATE KEY":
			key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
		case "EC PRIVATE KEY":
			key, err = x509.ParseECPrivateKey(block.Bytes)
		case "ENCRYPTED PRIVATE KEY":
			return nil, fmt.Errorf("%w: encrypted keys are not supported", ErrUnsupportedKey)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedKey, err)
		}

		signer, ok := key.(crypto.Signer)
		if !ok {
			return nil, fmt.Errorf("%w: %T cannot sign", ErrUnsupportedKey, key)
		}
		return signer, nil
	}
}
