package fakes

import (
	"sync"

	"github.com/systmms/ikecreds/internal/keystore"
)

// FakeKeychainClient is a test double for keystore.Client
type FakeKeychainClient struct {
	mu sync.Mutex

	// Secrets is a map of service -> account -> value
	Secrets map[string]map[string]string

	// GetErr is returned by Get() if set (overrides Secrets lookup)
	GetErr error

	// SetErr is returned by Set() if set
	SetErr error
}

// NewFakeKeychainClient creates an empty fake keychain
func NewFakeKeychainClient() *FakeKeychainClient {
	return &FakeKeychainClient{
		Secrets: make(map[string]map[string]string),
	}
}

// SetSecret adds a secret to the fake keychain
func (f *FakeKeychainClient) SetSecret(service, account, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Secrets == nil {
		f.Secrets = make(map[string]map[string]string)
	}
	if f.Secrets[service] == nil {
		f.Secrets[service] = make(map[string]string)
	}
	f.Secrets[service][account] = value
}

// Get retrieves a secret from the fake keychain
func (f *FakeKeychainClient) Get(service, account string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.GetErr != nil {
		return "", f.GetErr
	}
	if accounts, ok := f.Secrets[service]; ok {
		if value, ok := accounts[account]; ok {
			return value, nil
		}
	}
	return "", keystore.ErrKeyNotFound
}

// Set stores a secret unless SetErr is configured
func (f *FakeKeychainClient) Set(service, account, value string) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	f.SetSecret(service, account, value)
	return nil
}

// Delete removes a secret
func (f *FakeKeychainClient) Delete(service, account string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.Secrets[service][account]; !ok {
		return keystore.ErrKeyNotFound
	}
	delete(f.Secrets[service], account)
	return nil
}

var _ keystore.Client = (*FakeKeychainClient)(nil)
