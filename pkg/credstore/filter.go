package credstore

import (
	"github.com/systmms/ikecreds/pkg/credential"
	"github.com/systmms/ikecreds/pkg/identity"
)

// matchCertificate decides whether cert satisfies a certificate query.
// The order of the checks is significant: a key-id identity that matches
// the public key fingerprint accepts the certificate without looking at
// its subject.
func matchCertificate(cert credential.Certificate, keyType credential.KeyType, id *identity.Identity) bool {
	public, err := cert.PublicKey()
	if err != nil || public == nil {
		return false
	}
	if keyType != credential.KeyAny && public.Type() != keyType {
		return false
	}
	if id != nil && id.Type() == identity.TypeKeyID && public.HasFingerprint(id.Encoding()) {
		return true
	}
	if id != nil && cert.HasSubject(id) == identity.MatchNever {
		return false
	}
	return true
}

// matchPrivateKey accepts key only if its public key SHA-1 key-id equals
// id. The fingerprint is recomputed on every call.
func matchPrivateKey(key credential.PrivateKey, id *identity.Identity) bool {
	if id == nil {
		return false
	}
	fp, ok := key.Fingerprint(credential.KeyIDPubkeySHA1)
	if !ok {
		return false
	}
	return identity.FromEncoding(identity.TypeKeyID, fp).Equals(id)
}
