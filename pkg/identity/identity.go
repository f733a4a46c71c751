// Package identity models the peer identities credentials are looked up by.
package identity

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
)

// Type classifies how an identity is encoded
type Type int

const (
	// TypeAny matches every other identity
	TypeAny Type = iota
	// TypeIPv4 holds a 4-byte address
	TypeIPv4
	// TypeFQDN holds a host name
	TypeFQDN
	// TypeRFC822 holds an email address (user@host)
	TypeRFC822
	// TypeIPv6 holds a 16-byte address
	TypeIPv6
	// TypeDN holds a normalized distinguished name (CN=...,O=...)
	TypeDN
	// TypeKeyID holds a raw public key fingerprint
	TypeKeyID
)

// String returns the short type name used in logs and CLI output
func (t Type) String() string {
	switch t {
	case TypeAny:
		return "any"
	case TypeIPv4:
		return "ipv4"
	case TypeFQDN:
		return "fqdn"
	case TypeRFC822:
		return "rfc822"
	case TypeIPv6:
		return "ipv6"
	case TypeDN:
		return "dn"
	case TypeKeyID:
		return "keyid"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Match ranks how well an identity satisfies a query. Higher is better.
type Match int

const (
	MatchNever   Match = 0
	MatchAny     Match = 1
	MatchPerfect Match = 3
)

// String returns the match name
func (m Match) String() string {
	switch m {
	case MatchNever:
		return "never"
	case MatchAny:
		return "any"
	case MatchPerfect:
		return "perfect"
	default:
		return fmt.Sprintf("match(%d)", int(m))
	}
}

// Identity is an immutable peer identity. A nil *Identity means "no identity".
type Identity struct {
	typ      Type
	encoding []byte
}

// FromEncoding builds an identity of the given type from raw bytes.
// The bytes are copied.
func FromEncoding(t Type, encoding []byte) *Identity {
	return &Identity{
		typ:      t,
		encoding: bytes.Clone(encoding),
	}
}

// Any returns the wildcard identity
func Any() *Identity {
	return &Identity{typ: TypeAny}
}

// FromDN builds a DN identity from its string form, normalizing spacing
// and attribute-name case so "cn=alice, o=Example" equals "CN=alice,O=Example".
func FromDN(dn string) *Identity {
	return &Identity{
		typ:      TypeDN,
		encoding: []byte(normalizeDN(dn)),
	}
}

// FromIP builds an address identity
func FromIP(ip net.IP) *Identity {
	if v4 := ip.To4(); v4 != nil {
		return FromEncoding(TypeIPv4, v4)
	}
	return FromEncoding(TypeIPv6, ip.To16())
}

// FromString parses the textual identity forms accepted in configuration:
//
//	%any, * or empty   wildcard
//	#0a1b2c...         key-id given as hex
//	192.0.2.1, 2001::1 address
//	CN=alice,O=Org     distinguished name
//	alice@example.com  email address
//	@vpn.example.com   host name (leading @ stripped)
//	vpn.example.com    host name
func FromString(s string) (*Identity, error) {
	s = strings.TrimSpace(s)

	switch {
	case s == "" || s == "%any" || s == "*":
		return Any(), nil
	case strings.HasPrefix(s, "#"):
		raw, err := hex.DecodeString(strings.ReplaceAll(s[1:], ":", ""))
		if err != nil {
			return nil, fmt.Errorf("invalid key-id %q: %w", s, err)
		}
		if len(raw) == 0 {
			return nil, fmt.Errorf("invalid key-id %q: empty", s)
		}
		return FromEncoding(TypeKeyID, raw), nil
	}

	if ip := net.ParseIP(s); ip != nil {
		return FromIP(ip), nil
	}

	switch {
	case strings.Contains(s, "="):
		return FromDN(s), nil
	case strings.HasPrefix(s, "@"):
		return FromEncoding(TypeFQDN, []byte(s[1:])), nil
	case strings.Contains(s, "@"):
		return FromEncoding(TypeRFC822, []byte(s)), nil
	default:
		return FromEncoding(TypeFQDN, []byte(s)), nil
	}
}

// MustParse is FromString for literals known to be valid
func MustParse(s string) *Identity {
	id, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Type returns the identity type
func (id *Identity) Type() Type {
	if id == nil {
		return TypeAny
	}
	return id.typ
}

// Encoding returns a copy of the raw identity bytes
func (id *Identity) Encoding() []byte {
	if id == nil {
		return nil
	}
	return bytes.Clone(id.encoding)
}

// Clone returns an independent copy
func (id *Identity) Clone() *Identity {
	if id == nil {
		return nil
	}
	return FromEncoding(id.typ, id.encoding)
}

// Equals reports whether both identities have the same type and encoding.
// Host names and email addresses compare case-insensitively.
func (id *Identity) Equals(other *Identity) bool {
	if id == nil || other == nil {
		return id == other
	}
	if id.typ != other.typ {
		return false
	}
	switch id.typ {
	case TypeFQDN, TypeRFC822:
		return bytes.EqualFold(id.encoding, other.encoding)
	default:
		return bytes.Equal(id.encoding, other.encoding)
	}
}

// Matches ranks id against pattern. A wildcard pattern matches anything
// with MatchAny; otherwise only equality matches.
func (id *Identity) Matches(pattern *Identity) Match {
	if id == nil || pattern == nil {
		return MatchNever
	}
	if id.Equals(pattern) {
		return MatchPerfect
	}
	if pattern.typ == TypeAny {
		return MatchAny
	}
	return MatchNever
}

// String renders the identity in the form FromString accepts
func (id *Identity) String() string {
	if id == nil {
		return "(none)"
	}
	switch id.typ {
	case TypeAny:
		return "%any"
	case TypeIPv4, TypeIPv6:
		return net.IP(id.encoding).String()
	case TypeKeyID:
		return "#" + hex.EncodeToString(id.encoding)
	default:
		return string(id.encoding)
	}
}

func normalizeDN(dn string) string {
	dn = strings.TrimPrefix(strings.TrimSpace(dn), "/")
	sep := ","
	if !strings.Contains(dn, ",") && strings.Contains(dn, "/") {
		sep = "/"
	}

	parts := strings.Split(dn, sep)
	rdns := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			rdns = append(rdns, part)
			continue
		}
		rdns = append(rdns, strings.ToUpper(strings.TrimSpace(key))+"="+strings.TrimSpace(value))
	}
	return strings.Join(rdns, ",")
}
