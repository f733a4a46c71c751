package fakes

import (
	"bytes"
	"crypto"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/systmms/ikecreds/pkg/credential"
	"github.com/systmms/ikecreds/pkg/identity"
)

// ErrFakeUnknownInput is returned by the fake factories for unregistered input
var ErrFakeUnknownInput = errors.New("fake: unknown input")

// FakePublicKey reports a fixed type and fingerprint
type FakePublicKey struct {
	KeyType credential.KeyType
	KeyID   []byte
}

// NewFakePublicKey creates a public key with one fingerprint
func NewFakePublicKey(t credential.KeyType, keyID []byte) *FakePublicKey {
	return &FakePublicKey{KeyType: t, KeyID: keyID}
}

func (k *FakePublicKey) Type() credential.KeyType {
	return k.KeyType
}

func (k *FakePublicKey) Fingerprint(kind credential.KeyIDKind) ([]byte, bool) {
	if k.KeyID == nil {
		return nil, false
	}
	return bytes.Clone(k.KeyID), true
}

func (k *FakePublicKey) HasFingerprint(fp []byte) bool {
	return k.KeyID != nil && bytes.Equal(k.KeyID, fp)
}

// FakeCertificate is a configurable credential.Certificate.
// A nil Public makes PublicKey fail.
type FakeCertificate struct {
	Public    *FakePublicKey
	SubjectID *identity.Identity
	AltNames  []*identity.Identity

	destroyed atomic.Int32
}

// NewFakeCertificate creates a certificate with the given key and subject
func NewFakeCertificate(public *FakePublicKey, subject *identity.Identity, alt ...*identity.Identity) *FakeCertificate {
	return &FakeCertificate{Public: public, SubjectID: subject, AltNames: alt}
}

func (c *FakeCertificate) Type() credential.CertType {
	return credential.CertX509
}

func (c *FakeCertificate) PublicKey() (credential.PublicKey, error) {
	if c.Public == nil {
		return nil, errors.New("fake: no public key")
	}
	return c.Public, nil
}

func (c *FakeCertificate) Subject() *identity.Identity {
	return c.SubjectID
}

func (c *FakeCertificate) HasSubject(id *identity.Identity) identity.Match {
	best := c.SubjectID.Matches(id)
	for _, alt := range c.AltNames {
		if m := alt.Matches(id); m > best {
			best = m
		}
	}
	return best
}

func (c *FakeCertificate) Destroy() {
	c.destroyed.Add(1)
}

// Destroyed returns how many times Destroy was called
func (c *FakeCertificate) Destroyed() int {
	return int(c.destroyed.Load())
}

// FakePrivateKey is a configurable credential.PrivateKey.
// A nil KeyID makes Fingerprint fail.
type FakePrivateKey struct {
	KeyType credential.KeyType
	KeyID   []byte

	fingerprintCalls atomic.Int32
	destroyed        atomic.Int32
}

func (k *FakePrivateKey) Type() credential.KeyType {
	return k.KeyType
}

func (k *FakePrivateKey) Fingerprint(kind credential.KeyIDKind) ([]byte, bool) {
	k.fingerprintCalls.Add(1)
	if k.KeyID == nil || kind != credential.KeyIDPubkeySHA1 {
		return nil, false
	}
	return bytes.Clone(k.KeyID), true
}

func (k *FakePrivateKey) Public() (credential.PublicKey, error) {
	return NewFakePublicKey(k.KeyType, k.KeyID), nil
}

func (k *FakePrivateKey) Sign(rand io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	return nil, errors.New("fake: cannot sign")
}

func (k *FakePrivateKey) Destroy() {
	k.destroyed.Add(1)
}

// FingerprintCalls returns how many times Fingerprint was called
func (k *FakePrivateKey) FingerprintCalls() int {
	return int(k.fingerprintCalls.Load())
}

// Destroyed returns how many times Destroy was called
func (k *FakePrivateKey) Destroyed() int {
	return int(k.destroyed.Load())
}

// FakeCertificateFactory maps exact PEM text to prepared certificates
type FakeCertificateFactory struct {
	mu    sync.Mutex
	certs map[string]credential.Certificate
}

// NewFakeCertificateFactory creates an empty factory
func NewFakeCertificateFactory() *FakeCertificateFactory {
	return &FakeCertificateFactory{certs: make(map[string]credential.Certificate)}
}

// Register makes CreateFromPEM(pem) return cert
func (f *FakeCertificateFactory) Register(pem string, cert credential.Certificate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.certs[pem] = cert
}

func (f *FakeCertificateFactory) CreateFromPEM(pem []byte) (credential.Certificate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cert, ok := f.certs[string(pem)]
	if !ok {
		return nil, ErrFakeUnknownInput
	}
	return cert, nil
}

// FakeKeyProvider maps references to prepared keys
type FakeKeyProvider struct {
	mu   sync.Mutex
	keys map[string]credential.PrivateKey
}

// NewFakeKeyProvider creates an empty provider
func NewFakeKeyProvider() *FakeKeyProvider {
	return &FakeKeyProvider{keys: make(map[string]credential.PrivateKey)}
}

// Register makes Materialize(ref) return key
func (f *FakeKeyProvider) Register(ref string, key credential.PrivateKey) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys[ref] = key
}

func (f *FakeKeyProvider) Materialize(ref string) (credential.PrivateKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key, ok := f.keys[ref]
	if !ok {
		return nil, ErrFakeUnknownInput
	}
	return key, nil
}

var (
	_ credential.Certificate = (*FakeCertificate)(nil)
	_ credential.PrivateKey  = (*FakePrivateKey)(nil)
)
