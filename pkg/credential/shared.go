package credential

import (
	"github.com/systmms/ikecreds/internal/secure"
)

// SharedKey is a typed symmetric secret. The bytes live in a secure buffer
// and leave it only as copies.
type SharedKey struct {
	typ    SharedKeyType
	secret *secure.Buffer
}

// NewSharedKey copies secret into protected memory
func NewSharedKey(typ SharedKeyType, secret []byte) *SharedKey {
	return &SharedKey{
		typ:    typ,
		secret: secure.NewBuffer(secret),
	}
}

// Type returns the secret kind
func (k *SharedKey) Type() SharedKeyType {
	return k.typ
}

// Bytes returns a copy of the secret. The caller owns and should wipe it.
func (k *SharedKey) Bytes() ([]byte, error) {
	return k.secret.Bytes()
}

// Equal reports whether the secret equals b
func (k *SharedKey) Equal(b []byte) bool {
	return k.secret.Equal(b)
}

// Clone returns a key with an independent copy of the secret
func (k *SharedKey) Clone() (*SharedKey, error) {
	buf, err := k.secret.Clone()
	if err != nil {
		return nil, err
	}
	return &SharedKey{typ: k.typ, secret: buf}, nil
}

// Destroy wipes the secret
func (k *SharedKey) Destroy() {
	k.secret.Destroy()
}
