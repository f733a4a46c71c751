package credstore

import (
	"github.com/systmms/ikecreds/internal/logging"
	"github.com/systmms/ikecreds/pkg/credential"
	"github.com/systmms/ikecreds/pkg/enumerator"
	"github.com/systmms/ikecreds/pkg/identity"
)

// Credential kinds used as log and metric labels
const (
	KindCertificate = "certificate"
	KindPrivateKey  = "private_key"
	KindShared      = "shared"
)

// sharedEntry binds a secret to its owner. kind is what lookups match on;
// the key itself is always typed SharedIKE.
type sharedEntry struct {
	owner *identity.Identity
	key   *credential.SharedKey
	kind  credential.SharedKeyType
}

// Store is the credential repository. The zero value is not usable; call New.
type Store struct {
	certFactory CertificateFactory
	keyProvider KeyProvider
	log         logging.Leveled
	obs         Observer

	// mu guards every field below as one unit
	mu     rwLock
	certs  []credential.Certificate
	keys   []credential.PrivateKey
	shared []*sharedEntry // most recent first
	closed bool
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger; the default discards output
func WithLogger(l logging.Leveled) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithObserver sets the event observer, e.g. *metrics.StoreMetrics
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.obs = o
		}
	}
}

// New creates an empty store using the given collaborators to build
// certificates and private keys
func New(certs CertificateFactory, keys KeyProvider, opts ...Option) *Store {
	s := &Store{
		certFactory: certs,
		keyProvider: keys,
		log:         logging.Discard(),
		obs:         nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddCertificate parses pem and stores the certificate. Parse failures are
// logged and leave the store unchanged.
func (s *Store) AddCertificate(pem string) {
	if s.certFactory == nil {
		s.log.Error("failed to create certificate: no certificate factory configured")
		s.obs.CredentialRejected(KindCertificate)
		return
	}

	cert, err := s.certFactory.CreateFromPEM([]byte(pem))
	if err != nil || cert == nil {
		s.log.Error("failed to create certificate: %v", err)
		s.obs.CredentialRejected(KindCertificate)
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cert.Destroy()
		s.log.Warn("credential store closed, dropping certificate %s", cert.Subject())
		return
	}
	s.certs = append(s.certs, cert)
	s.mu.Unlock()

	s.obs.CredentialAdded(KindCertificate)
	s.log.Debug("added certificate %s", cert.Subject())
}

// AddPrivateKey resolves ref through the key provider and stores the key.
// It returns false, leaving the store unchanged, if the key cannot be
// materialized.
func (s *Store) AddPrivateKey(ref string) bool {
	if s.keyProvider == nil {
		s.log.Error("failed to create key %q: no key provider configured", ref)
		s.obs.CredentialRejected(KindPrivateKey)
		return false
	}

	key, err := s.keyProvider.Materialize(ref)
	if err != nil || key == nil {
		s.log.Error("failed to create key %q: %v", ref, err)
		s.obs.CredentialRejected(KindPrivateKey)
		return false
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		key.Destroy()
		s.log.Warn("credential store closed, dropping key %q", ref)
		return false
	}
	s.keys = append(s.keys, key)
	s.mu.Unlock()

	s.obs.CredentialAdded(KindPrivateKey)
	s.log.Debug("added private key %q", ref)
	return true
}

// SetSharedSecret stores secret for id ahead of any earlier secret for the
// same identity. Both id and secret are copied.
//
// isXAuth selects the lookup kind (SharedEAP instead of SharedIKE). The
// stored key is a SharedIKE key either way.
func (s *Store) SetSharedSecret(id *identity.Identity, secret []byte, isXAuth bool) {
	if id == nil {
		s.log.Warn("ignoring shared secret without identity")
		s.obs.CredentialRejected(KindShared)
		return
	}

	kind := credential.SharedIKE
	if isXAuth {
		kind = credential.SharedEAP
	}
	entry := &sharedEntry{
		owner: id.Clone(),
		key:   credential.NewSharedKey(credential.SharedIKE, secret),
		kind:  kind,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		entry.key.Destroy()
		s.log.Warn("credential store closed, dropping shared secret for %s", id)
		return
	}
	s.shared = append([]*sharedEntry{entry}, s.shared...)
	s.mu.Unlock()

	s.obs.CredentialAdded(KindShared)
	s.log.Debug("set %s secret for %s", kind, id)
}

// Clear destroys every stored credential
func (s *Store) Clear() {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()

	s.obs.Cleared()
}

// Close clears the store and rejects later additions. Lookups on a closed
// store find nothing.
func (s *Store) Close() {
	s.mu.Lock()
	s.clearLocked()
	s.closed = true
	s.mu.Unlock()

	s.obs.Cleared()
}

// clearLocked requires the write lock
func (s *Store) clearLocked() {
	for _, cert := range s.certs {
		cert.Destroy()
	}
	for _, key := range s.keys {
		key.Destroy()
	}
	for _, entry := range s.shared {
		entry.key.Destroy()
	}
	s.certs = nil
	s.keys = nil
	s.shared = nil
}

// Stats is a point-in-time count of stored credentials
type Stats struct {
	Certificates  int
	PrivateKeys   int
	SharedSecrets int
}

// Stats counts the stored credentials
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		Certificates:  len(s.certs),
		PrivateKeys:   len(s.keys),
		SharedSecrets: len(s.shared),
	}
}

// readGuard wraps the currently held read lock so an enumerator can
// release it exactly once. Call with s.mu read-locked.
func (s *Store) readGuard() *enumerator.Guard {
	s.obs.EnumeratorOpened()
	return enumerator.NewGuard(func() {
		s.mu.RUnlock()
		s.obs.EnumeratorClosed()
	})
}

var _ CredentialSet = (*Store)(nil)
