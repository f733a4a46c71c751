// Package enumerator provides lazy cursors over credential collections that
// may hold a lock for as long as they are open.
//
// An Enumerator is either Active, Exhausted or Disposed. Reaching either
// terminal state releases the attached Guard, and a Guard releases at most
// once no matter how many times Next or Close are called afterwards.
//
// Callers must end every enumerator they receive:
//
//	e := store.Certificates(credential.CertX509, credential.KeyAny, id, false)
//	defer e.Close()
//	for cert := range enumerator.All(e) {
//	    ...
//	}
//
// All closes the enumerator when the loop ends, including on break and on
// panic. The extra Close above is then a no-op.
package enumerator
