package secure

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrDestroyed is returned when reading a buffer after Destroy
var ErrDestroyed = errors.New("secure buffer destroyed")

// Buffer owns one secret value inside a memguard enclave.
//
// An empty secret is represented without an enclave because memguard
// refuses to seal zero bytes.
type Buffer struct {
	mu        sync.RWMutex
	enclave   *memguard.Enclave
	size      int
	destroyed bool
}

// NewBuffer seals a copy of data. The caller's slice is left untouched;
// memguard only wipes the intermediate copy.
func NewBuffer(data []byte) *Buffer {
	b := &Buffer{size: len(data)}
	if len(data) > 0 {
		b.enclave = memguard.NewEnclave(bytes.Clone(data))
	}
	return b
}

// Len returns the secret length in bytes
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// Bytes decrypts the secret and returns a copy owned by the caller
func (b *Buffer) Bytes() ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.destroyed {
		return nil, ErrDestroyed
	}
	if b.enclave == nil {
		return []byte{}, nil
	}

	locked, err := b.enclave.Open()
	if err != nil {
		return nil, err
	}
	defer locked.Destroy()

	return bytes.Clone(locked.Bytes()), nil
}

// Clone seals an independent copy of the secret into a new enclave
func (b *Buffer) Clone() (*Buffer, error) {
	plain, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	defer memguard.WipeBytes(plain)

	return NewBuffer(plain), nil
}

// Equal compares the secret with other in constant time
func (b *Buffer) Equal(other []byte) bool {
	plain, err := b.Bytes()
	if err != nil {
		return false
	}
	defer memguard.WipeBytes(plain)

	return subtle.ConstantTimeCompare(plain, other) == 1
}

// Destroy drops the enclave. Calling it more than once is safe.
func (b *Buffer) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.destroyed {
		return
	}
	b.enclave = nil
	b.size = 0
	b.destroyed = true
}
