package credstore

import (
	"github.com/systmms/ikecreds/pkg/credential"
	"github.com/systmms/ikecreds/pkg/enumerator"
	"github.com/systmms/ikecreds/pkg/identity"
)

// CertificateFactory turns PEM text into a certificate
type CertificateFactory interface {
	CreateFromPEM(pem []byte) (credential.Certificate, error)
}

// KeyProvider materializes a private key from an opaque reference such as
// a key-store alias
type KeyProvider interface {
	Materialize(ref string) (credential.PrivateKey, error)
}

// SharedMatch is what a shared secret lookup yields. Key stays valid until
// the enumerator that produced it is closed.
type SharedMatch struct {
	Key   *credential.SharedKey
	Me    identity.Match
	Other identity.Match
}

// CredentialSet is the lookup surface the authentication engine consumes
type CredentialSet interface {
	Certificates(certType credential.CertType, keyType credential.KeyType, id *identity.Identity, trusted bool) enumerator.Enumerator[credential.Certificate]
	PrivateKeys(keyType credential.KeyType, id *identity.Identity) enumerator.Enumerator[credential.PrivateKey]
	SharedSecret(kind credential.SharedKeyType, me, other *identity.Identity) enumerator.Enumerator[SharedMatch]
	CDPs(certType credential.CertType, id *identity.Identity) enumerator.Enumerator[string]
	CacheCert(cert credential.Certificate)
}

// Observer receives store events; internal/metrics implements it
type Observer interface {
	CredentialAdded(kind string)
	CredentialRejected(kind string)
	Enumeration(kind, result string)
	EnumeratorOpened()
	EnumeratorClosed()
	Cleared()
}

type nopObserver struct{}

func (nopObserver) CredentialAdded(string)     {}
func (nopObserver) CredentialRejected(string)  {}
func (nopObserver) Enumeration(string, string) {}
func (nopObserver) EnumeratorOpened()          {}
func (nopObserver) EnumeratorClosed()          {}
func (nopObserver) Cleared()                   {}
