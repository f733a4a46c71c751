package credential

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrKeyDestroyed is returned by Sign and Public after Destroy
var ErrKeyDestroyed = errors.New("private key destroyed")

// KeyTypeOf maps a crypto public key to its KeyType
func KeyTypeOf(pub crypto.PublicKey) KeyType {
	switch pub.(type) {
	case *rsa.PublicKey:
		return KeyRSA
	case *ecdsa.PublicKey:
		return KeyECDSA
	case ed25519.PublicKey:
		return KeyEd25519
	default:
		return KeyAny
	}
}

type subjectPublicKeyInfo struct {
	Algorithm pkix.AlgorithmIdentifier
	PublicKey asn1.BitString
}

// ComputeFingerprint derives the key-id of the given kind from a crypto
// public key. It fails for key types x509 cannot marshal.
func ComputeFingerprint(pub crypto.PublicKey, kind KeyIDKind) ([]byte, error) {
	spki, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}

	switch kind {
	case KeyIDPubkeyInfoSHA1:
		sum := sha1.Sum(spki)
		return sum[:], nil
	case KeyIDPubkeySHA1:
		var info subjectPublicKeyInfo
		if _, err := asn1.Unmarshal(spki, &info); err != nil {
			return nil, fmt.Errorf("parse subject public key info: %w", err)
		}
		sum := sha1.Sum(info.PublicKey.RightAlign())
		return sum[:], nil
	default:
		return nil, fmt.Errorf("unsupported key-id kind %d", kind)
	}
}

// cryptoPublicKey adapts a crypto.PublicKey. Fingerprints are computed once
// at construction because the key is immutable.
type cryptoPublicKey struct {
	typ          KeyType
	fingerprints map[KeyIDKind][]byte
}

// NewPublicKey wraps pub, precomputing its fingerprints
func NewPublicKey(pub crypto.PublicKey) (PublicKey, error) {
	if pub == nil {
		return nil, errors.New("no public key")
	}
	typ := KeyTypeOf(pub)
	if typ == KeyAny {
		return nil, fmt.Errorf("unsupported public key type %T", pub)
	}

	fps := make(map[KeyIDKind][]byte, 2)
	for _, kind := range []KeyIDKind{KeyIDPubkeySHA1, KeyIDPubkeyInfoSHA1} {
		fp, err := ComputeFingerprint(pub, kind)
		if err != nil {
			return nil, err
		}
		fps[kind] = fp
	}

	return &cryptoPublicKey{typ: typ, fingerprints: fps}, nil
}

func (k *cryptoPublicKey) Type() KeyType {
	return k.typ
}

func (k *cryptoPublicKey) Fingerprint(kind KeyIDKind) ([]byte, bool) {
	fp, ok := k.fingerprints[kind]
	if !ok {
		return nil, false
	}
	return bytes.Clone(fp), true
}

func (k *cryptoPublicKey) HasFingerprint(fp []byte) bool {
	for _, own := range k.fingerprints {
		if bytes.Equal(own, fp) {
			return true
		}
	}
	return false
}

// SignerKey adapts a crypto.Signer to PrivateKey. Fingerprints are
// recomputed on every call.
type SignerKey struct {
	mu     sync.RWMutex
	signer crypto.Signer
}

// NewPrivateKey wraps signer. Keys whose public half has no known type are
// rejected.
func NewPrivateKey(signer crypto.Signer) (*SignerKey, error) {
	if signer == nil {
		return nil, errors.New("no signer")
	}
	if KeyTypeOf(signer.Public()) == KeyAny {
		return nil, fmt.Errorf("unsupported private key type %T", signer)
	}
	return &SignerKey{signer: signer}, nil
}

func (k *SignerKey) Type() KeyType {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.signer == nil {
		return KeyAny
	}
	return KeyTypeOf(k.signer.Public())
}

func (k *SignerKey) Fingerprint(kind KeyIDKind) ([]byte, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.signer == nil {
		return nil, false
	}
	fp, err := ComputeFingerprint(k.signer.Public(), kind)
	if err != nil {
		return nil, false
	}
	return fp, true
}

func (k *SignerKey) Public() (PublicKey, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.signer == nil {
		return nil, ErrKeyDestroyed
	}
	return NewPublicKey(k.signer.Public())
}

func (k *SignerKey) Sign(rand io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.signer == nil {
		return nil, ErrKeyDestroyed
	}
	return k.signer.Sign(rand, digest, opts)
}

// Destroy drops the signer; the key is unusable afterwards
func (k *SignerKey) Destroy() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.signer = nil
}
