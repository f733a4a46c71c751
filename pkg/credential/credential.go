// Package credential defines the credential kinds and the certificate and
// key contracts the credential store works with.
//
// Parsing is not done here. Certificates and private keys are produced by
// injected collaborators (see internal/x509cert and internal/keystore) and
// only their behaviour is described by the interfaces below.
package credential

import (
	"crypto"
	"fmt"
	"io"

	"github.com/systmms/ikecreds/pkg/identity"
)

// CertType identifies a certificate encoding
type CertType int

const (
	CertAny CertType = iota
	CertX509
	CertX509AC
	CertX509CRL
	CertX509OCSPRequest
	CertX509OCSPResponse
	CertTrustedPubkey
	CertGPG
)

func (t CertType) String() string {
	switch t {
	case CertAny:
		return "any"
	case CertX509:
		return "x509"
	case CertX509AC:
		return "x509-ac"
	case CertX509CRL:
		return "x509-crl"
	case CertX509OCSPRequest:
		return "x509-ocsp-request"
	case CertX509OCSPResponse:
		return "x509-ocsp-response"
	case CertTrustedPubkey:
		return "pubkey"
	case CertGPG:
		return "gpg"
	default:
		return fmt.Sprintf("cert(%d)", int(t))
	}
}

// KeyType identifies a public key algorithm
type KeyType int

const (
	KeyAny KeyType = iota
	KeyRSA
	KeyECDSA
	KeyEd25519
)

func (t KeyType) String() string {
	switch t {
	case KeyAny:
		return "any"
	case KeyRSA:
		return "rsa"
	case KeyECDSA:
		return "ecdsa"
	case KeyEd25519:
		return "ed25519"
	default:
		return fmt.Sprintf("key(%d)", int(t))
	}
}

// ParseKeyType maps a CLI/config name to a KeyType
func ParseKeyType(s string) (KeyType, error) {
	switch s {
	case "", "any":
		return KeyAny, nil
	case "rsa":
		return KeyRSA, nil
	case "ecdsa", "ec":
		return KeyECDSA, nil
	case "ed25519":
		return KeyEd25519, nil
	default:
		return KeyAny, fmt.Errorf("unknown key type %q", s)
	}
}

// SharedKeyType identifies what a shared secret is used for
type SharedKeyType int

const (
	SharedAny SharedKeyType = iota
	// SharedIKE is a pre-shared key for IKE authentication
	SharedIKE
	// SharedEAP is a username/password secret (EAP or XAuth)
	SharedEAP
	SharedPrivateKeyPass
	SharedPIN
)

func (t SharedKeyType) String() string {
	switch t {
	case SharedAny:
		return "any"
	case SharedIKE:
		return "ike"
	case SharedEAP:
		return "eap"
	case SharedPrivateKeyPass:
		return "private-key-pass"
	case SharedPIN:
		return "pin"
	default:
		return fmt.Sprintf("shared(%d)", int(t))
	}
}

// KeyIDKind selects a fingerprint algorithm over a public key
type KeyIDKind int

const (
	// KeyIDPubkeySHA1 is SHA-1 over the subjectPublicKey bit string
	KeyIDPubkeySHA1 KeyIDKind = iota
	// KeyIDPubkeyInfoSHA1 is SHA-1 over the DER SubjectPublicKeyInfo
	KeyIDPubkeyInfoSHA1
)

// PublicKey is the public half of a certificate or private key
type PublicKey interface {
	Type() KeyType
	// Fingerprint returns the key-id of the given kind, false if it
	// cannot be computed.
	Fingerprint(kind KeyIDKind) ([]byte, bool)
	// HasFingerprint reports whether fp equals any supported fingerprint.
	HasFingerprint(fp []byte) bool
}

// Certificate is an immutable parsed certificate
type Certificate interface {
	Type() CertType
	// PublicKey extracts the subject public key. An error means the key
	// could not be extracted (unsupported algorithm, malformed data).
	PublicKey() (PublicKey, error)
	Subject() *identity.Identity
	// HasSubject ranks id against the subject and alternate names.
	HasSubject(id *identity.Identity) identity.Match
	Destroy()
}

// PrivateKey is an opaque signing capability
type PrivateKey interface {
	Type() KeyType
	Fingerprint(kind KeyIDKind) ([]byte, bool)
	Public() (PublicKey, error)
	Sign(rand io.Reader, digest []byte, opts crypto.SignerOpts) ([]byte, error)
	Destroy()
}
