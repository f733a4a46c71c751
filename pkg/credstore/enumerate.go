package credstore

import (
	"github.com/systmms/ikecreds/pkg/credential"
	"github.com/systmms/ikecreds/pkg/enumerator"
	"github.com/systmms/ikecreds/pkg/identity"
)

// Certificates enumerates stored certificates whose public key is of
// keyType (or any type for KeyAny) and which match id, if given.
// Only X.509 certificates are stored, so any other certType yields an
// empty enumerator without touching the lock. trusted is accepted for
// interface compatibility and ignored.
func (s *Store) Certificates(certType credential.CertType, keyType credential.KeyType, id *identity.Identity, trusted bool) enumerator.Enumerator[credential.Certificate] {
	if certType != credential.CertX509 && certType != credential.CertAny {
		s.obs.Enumeration(KindCertificate, "empty")
		return enumerator.Empty[credential.Certificate]()
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		s.obs.Enumeration(KindCertificate, "empty")
		return enumerator.Empty[credential.Certificate]()
	}

	s.obs.Enumeration(KindCertificate, "lock")
	return enumerator.Filter(
		enumerator.FromSlice(s.certs, s.readGuard()),
		func(cert credential.Certificate) bool {
			return matchCertificate(cert, keyType, id)
		},
	)
}

// PrivateKeys enumerates stored private keys whose key-id equals id.
// keyType is not used for filtering.
func (s *Store) PrivateKeys(keyType credential.KeyType, id *identity.Identity) enumerator.Enumerator[credential.PrivateKey] {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		s.obs.Enumeration(KindPrivateKey, "empty")
		return enumerator.Empty[credential.PrivateKey]()
	}

	s.obs.Enumeration(KindPrivateKey, "lock")
	return enumerator.Filter(
		enumerator.FromSlice(s.keys, s.readGuard()),
		func(key credential.PrivateKey) bool {
			match := matchPrivateKey(key, id)
			if match {
				s.log.Debug("private key filter: MATCH")
			} else {
				s.log.Debug("private key filter: NO MATCH")
			}
			return match
		},
	)
}

// SharedSecret finds the most recently set secret of the given kind owned
// by me. It returns nil when there is none, which callers must tell apart
// from an empty enumerator.
//
// The result yields once, reporting a perfect match for me and a wildcard
// match for other; other is never compared. The yielded key is a private
// copy that is wiped when the enumerator is closed, and the enumerator
// keeps the read lock until it is exhausted or closed.
func (s *Store) SharedSecret(kind credential.SharedKeyType, me, other *identity.Identity) enumerator.Enumerator[SharedMatch] {
	s.mu.RLock()

	var found *sharedEntry
	if !s.closed && me != nil {
		for _, entry := range s.shared {
			if me.Equals(entry.owner) && entry.kind == kind {
				found = entry
				break
			}
		}
	}
	if found == nil {
		s.mu.RUnlock()
		s.obs.Enumeration(KindShared, "none")
		return nil
	}

	key, err := found.key.Clone()
	if err != nil {
		s.mu.RUnlock()
		s.log.Error("failed to copy shared secret for %s: %v", me, err)
		s.obs.Enumeration(KindShared, "none")
		return nil
	}

	// the read lock taken for the scan is handed to the enumerator
	s.obs.Enumeration(KindShared, "lock")
	return enumerator.Single(
		SharedMatch{Key: key, Me: identity.MatchPerfect, Other: identity.MatchAny},
		s.readGuard(),
		func(m SharedMatch) { m.Key.Destroy() },
	)
}

// CDPs enumerates certificate distribution points. The store keeps none.
func (s *Store) CDPs(certType credential.CertType, id *identity.Identity) enumerator.Enumerator[string] {
	return enumerator.Empty[string]()
}

// CacheCert is a no-op; the store only holds provisioned certificates.
func (s *Store) CacheCert(cert credential.Certificate) {}
