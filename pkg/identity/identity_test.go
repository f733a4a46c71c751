package identity_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/ikecreds/pkg/identity"
)

func TestFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantType identity.Type
		wantStr  string
		wantErr  bool
	}{
		{name: "any", input: "%any", wantType: identity.TypeAny, wantStr: "%any"},
		{name: "empty", input: "", wantType: identity.TypeAny, wantStr: "%any"},
		{name: "email", input: "alice@example.com", wantType: identity.TypeRFC822, wantStr: "alice@example.com"},
		{name: "fqdn with at", input: "@vpn.example.com", wantType: identity.TypeFQDN, wantStr: "vpn.example.com"},
		{name: "fqdn", input: "vpn.example.com", wantType: identity.TypeFQDN, wantStr: "vpn.example.com"},
		{name: "ipv4", input: "192.0.2.1", wantType: identity.TypeIPv4, wantStr: "192.0.2.1"},
		{name: "ipv6", input: "2001:db8::1", wantType: identity.TypeIPv6, wantStr: "2001:db8::1"},
		{name: "dn", input: "cn=alice, o=Example", wantType: identity.TypeDN, wantStr: "CN=alice,O=Example"},
		{name: "slash dn", input: "/C=CH/CN=bob", wantType: identity.TypeDN, wantStr: "C=CH,CN=bob"},
		{name: "keyid", input: "#0a:1B:2c", wantType: identity.TypeKeyID, wantStr: "#0a1b2c"},
		{name: "bad keyid", input: "#zz", wantErr: true},
		{name: "empty keyid", input: "#", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id, err := identity.FromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, id.Type())
			assert.Equal(t, tt.wantStr, id.String())
		})
	}
}

func TestEquals(t *testing.T) {
	t.Parallel()

	assert.True(t, identity.MustParse("Alice@Example.com").Equals(identity.MustParse("alice@example.com")))
	assert.True(t, identity.MustParse("CN=alice,O=Example").Equals(identity.MustParse("cn=alice, o=Example")))
	assert.False(t, identity.MustParse("alice@example.com").Equals(identity.MustParse("bob@example.com")))
	// same bytes, different type
	assert.False(t, identity.FromEncoding(identity.TypeFQDN, []byte("x")).Equals(identity.FromEncoding(identity.TypeKeyID, []byte("x"))))
	assert.False(t, identity.MustParse("alice").Equals(nil))

	var none *identity.Identity
	assert.True(t, none.Equals(nil))
}

func TestMatches(t *testing.T) {
	t.Parallel()

	alice := identity.MustParse("alice@example.com")
	assert.Equal(t, identity.MatchPerfect, alice.Matches(identity.MustParse("alice@example.com")))
	assert.Equal(t, identity.MatchAny, alice.Matches(identity.Any()))
	assert.Equal(t, identity.MatchNever, alice.Matches(identity.MustParse("bob@example.com")))
	assert.Equal(t, identity.MatchNever, alice.Matches(nil))
}

func TestCloneAndEncodingAreIndependent(t *testing.T) {
	t.Parallel()

	raw := []byte{1, 2, 3}
	id := identity.FromEncoding(identity.TypeKeyID, raw)
	raw[0] = 9

	enc := id.Encoding()
	assert.Equal(t, []byte{1, 2, 3}, enc)
	enc[1] = 9

	clone := id.Clone()
	assert.True(t, clone.Equals(id))
	assert.Equal(t, []byte{1, 2, 3}, clone.Encoding())
}

func TestFromIP(t *testing.T) {
	t.Parallel()

	v4 := identity.FromIP(net.ParseIP("10.0.0.1"))
	assert.Equal(t, identity.TypeIPv4, v4.Type())
	assert.Len(t, v4.Encoding(), 4)
	assert.True(t, v4.Equals(identity.MustParse("10.0.0.1")))
}
