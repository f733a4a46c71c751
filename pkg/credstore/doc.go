// Package credstore is the in-memory credential repository consulted by the
// IKE authentication engine.
//
// A Store holds certificates, private keys and shared secrets behind a
// single read-write lock. Mutations (AddCertificate, AddPrivateKey,
// SetSharedSecret, Clear) take the write lock for the duration of the
// change. Lookups return enumerators that hold the read lock until they are
// exhausted or closed, so any number of lookups can run side by side while
// writers wait.
//
// An enumerator that is never exhausted or closed blocks every later writer
// forever. Always close what you get:
//
//	e := store.PrivateKeys(credential.KeyAny, keyID)
//	defer e.Close()
//
// Readers never wait for a pending writer, so a goroutine may open a second
// lookup while it still holds an enumerator. The write lock is not
// reentrant: a goroutine holding an open enumerator must not call a
// mutating method on the same store; it will deadlock.
//
// The store never reports errors. Unparseable certificates are logged and
// dropped, unresolvable key references make AddPrivateKey return false, and
// "nothing found" is an empty enumerator, or nil for SharedSecret.
package credstore
