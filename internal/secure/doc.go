// Package secure keeps secret bytes out of ordinary Go memory.
//
// Shared secrets handed to the credential store are copied into a
// memguard enclave: encrypted at rest (XSalsa20Poly1305), mlocked where the
// platform allows, and wiped on destruction. Callers only ever receive
// copies of the plaintext.
//
//	buf := secure.NewBuffer([]byte("s3cr3t"))
//	defer buf.Destroy()
//
//	plain, err := buf.Bytes() // independent copy owned by the caller
//
// If mlock is unavailable (commonly RLIMIT_MEMLOCK on Linux) memguard
// degrades to standard memory and the buffer keeps working.
//
// This package does NOT protect against an attacker with access to the
// running process or against hardware-level attacks.
package secure
