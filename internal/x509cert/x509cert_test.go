package x509cert_test

import (
	"crypto/x509/pkix"
	"encoding/asn1"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/ikecreds/internal/x509cert"
	"github.com/systmms/ikecreds/pkg/credential"
	"github.com/systmms/ikecreds/pkg/identity"
	"github.com/systmms/ikecreds/tests/testutil"
)

func TestCreateFromPEM(t *testing.T) {
	t.Parallel()

	fixture := testutil.GenerateCertificate(t, testutil.CertOptions{CommonName: "gateway", Organization: "Example"})
	factory := x509cert.NewFactory()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "certificate", input: fixture.CertPEM},
		{name: "key block first", input: fixture.KeyPEM + fixture.CertPEM},
		{name: "key only", input: fixture.KeyPEM, wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cert, err := factory.CreateFromPEM([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cert)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, credential.CertX509, cert.Type())
			assert.Equal(t, "O=Example,CN=gateway", cert.Subject().String())
		})
	}

	_, err := factory.CreateFromPEM([]byte(fixture.KeyPEM))
	assert.ErrorIs(t, err, x509cert.ErrNoCertificate)
}

func TestPublicKey(t *testing.T) {
	t.Parallel()

	for keyType, want := range map[string]credential.KeyType{
		"rsa":     credential.KeyRSA,
		"ecdsa":   credential.KeyECDSA,
		"ed25519": credential.KeyEd25519,
	} {
		t.Run(keyType, func(t *testing.T) {
			t.Parallel()

			fixture := testutil.GenerateCertificate(t, testutil.CertOptions{CommonName: "k", KeyType: keyType})
			cert := x509cert.New(fixture.Cert)

			public, err := cert.PublicKey()
			require.NoError(t, err)
			assert.Equal(t, want, public.Type())

			fp, err := credential.ComputeFingerprint(fixture.Key.Public(), credential.KeyIDPubkeySHA1)
			require.NoError(t, err)
			assert.True(t, public.HasFingerprint(fp))
		})
	}
}

func TestHasSubject(t *testing.T) {
	t.Parallel()

	fixture := testutil.GenerateCertificate(t, testutil.CertOptions{
		CommonName:   "alice",
		Organization: "Example",
		Emails:       []string{"alice@example.com"},
		DNSNames:     []string{"vpn.example.com"},
		IPs:          []net.IP{net.ParseIP("192.0.2.10")},
		SubjectKeyID: []byte{0xde, 0xad, 0xbe, 0xef},
	})
	cert := x509cert.New(fixture.Cert)

	tests := []struct {
		name string
		id   *identity.Identity
		want identity.Match
	}{
		{name: "subject dn", id: identity.MustParse("O=Example,CN=alice"), want: identity.MatchPerfect},
		{name: "subject dn spacing", id: identity.MustParse("o=Example, cn=alice"), want: identity.MatchPerfect},
		{name: "subject dn reversed", id: identity.MustParse("CN=alice,O=Example"), want: identity.MatchNever},
		{name: "email", id: identity.MustParse("alice@example.com"), want: identity.MatchPerfect},
		{name: "email case", id: identity.MustParse("Alice@Example.com"), want: identity.MatchPerfect},
		{name: "dns", id: identity.MustParse("vpn.example.com"), want: identity.MatchPerfect},
		{name: "ip", id: identity.MustParse("192.0.2.10"), want: identity.MatchPerfect},
		{name: "subject key id", id: identity.MustParse("#deadbeef"), want: identity.MatchPerfect},
		{name: "wildcard", id: identity.Any(), want: identity.MatchAny},
		{name: "other email", id: identity.MustParse("bob@example.com"), want: identity.MatchNever},
		{name: "other ip", id: identity.MustParse("192.0.2.11"), want: identity.MatchNever},
		{name: "other key id", id: identity.MustParse("#00"), want: identity.MatchNever},
		{name: "none", id: nil, want: identity.MatchNever},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cert.HasSubject(tt.id))
		})
	}

	assert.Len(t, cert.AltNames(), 3)
}

func TestSubjectDNInEncodedOrder(t *testing.T) {
	t.Parallel()

	attr := func(oid asn1.ObjectIdentifier, value any) pkix.RelativeDistinguishedNameSET {
		return pkix.RelativeDistinguishedNameSET{{Type: oid, Value: value}}
	}
	var (
		oidCountry      = asn1.ObjectIdentifier{2, 5, 4, 6}
		oidOrganization = asn1.ObjectIdentifier{2, 5, 4, 10}
		oidOrgUnit      = asn1.ObjectIdentifier{2, 5, 4, 11}
		oidCommonName   = asn1.ObjectIdentifier{2, 5, 4, 3}
		oidEmail        = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}
		oidUnknown      = asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 99999, 1}
	)

	tests := []struct {
		name    string
		rdns    pkix.RDNSequence
		want    string
		matches []string
		misses  []string
	}{
		{
			name: "certificate order",
			rdns: pkix.RDNSequence{
				attr(oidCountry, "CH"),
				attr(oidOrganization, "Example"),
				attr(oidOrgUnit, "VPN"),
				attr(oidCommonName, "moon"),
			},
			want:    "C=CH,O=Example,OU=VPN,CN=moon",
			matches: []string{"C=CH, O=Example, OU=VPN, CN=moon", "c=CH,o=Example,ou=VPN,cn=moon"},
			misses:  []string{"CN=moon, OU=VPN, O=Example, C=CH", "C=CH, O=Example, CN=moon"},
		},
		{
			name: "email attribute",
			rdns: pkix.RDNSequence{
				attr(oidCountry, "CH"),
				attr(oidCommonName, "moon"),
				attr(oidEmail, "moon@example.com"),
			},
			want:    "C=CH,CN=moon,E=moon@example.com",
			matches: []string{"C=CH, CN=moon, E=moon@example.com", "moon@example.com"},
			misses:  []string{"C=CH, CN=moon"},
		},
		{
			name:    "unknown attribute",
			rdns:    pkix.RDNSequence{attr(oidUnknown, "x"), attr(oidCommonName, "moon")},
			want:    "1.3.6.1.4.1.99999.1=x,CN=moon",
			matches: []string{"1.3.6.1.4.1.99999.1=x, CN=moon"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fixture := testutil.GenerateCertificate(t, testutil.CertOptions{SubjectRDNs: tt.rdns})
			cert := x509cert.New(fixture.Cert)

			assert.Equal(t, identity.TypeDN, cert.Subject().Type())
			assert.Equal(t, tt.want, cert.Subject().String())
			for _, id := range tt.matches {
				assert.Equal(t, identity.MatchPerfect, cert.HasSubject(identity.MustParse(id)), id)
			}
			for _, id := range tt.misses {
				assert.Equal(t, identity.MatchNever, cert.HasSubject(identity.MustParse(id)), id)
			}
		})
	}
}

func TestAltNamesAreCopied(t *testing.T) {
	t.Parallel()

	fixture := testutil.GenerateCertificate(t, testutil.CertOptions{CommonName: "a", DNSNames: []string{"a.example"}})
	cert := x509cert.New(fixture.Cert)

	alt := cert.AltNames()
	require.Len(t, alt, 1)
	alt[0] = nil
	assert.NotNil(t, cert.AltNames()[0])
	assert.Same(t, fixture.Cert, cert.X509())
}
