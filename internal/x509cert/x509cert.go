// Package x509cert builds credential.Certificate values from PEM-encoded
// X.509 certificates. Chains are not validated; the store keeps whatever
// parses.
package x509cert

import (
	"bytes"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"github.com/systmms/ikecreds/pkg/credential"
	"github.com/systmms/ikecreds/pkg/identity"
)

// ErrNoCertificate is returned when the input holds no CERTIFICATE block
var ErrNoCertificate = errors.New("no PEM certificate block found")

var oidEmailAddress = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}

// attribute short names used when rendering a subject DN
var attributeNames = map[string]string{
	"2.5.4.3":                    "CN",
	"2.5.4.4":                    "SN",
	"2.5.4.5":                    "serialNumber",
	"2.5.4.6":                    "C",
	"2.5.4.7":                    "L",
	"2.5.4.8":                    "ST",
	"2.5.4.9":                    "street",
	"2.5.4.10":                   "O",
	"2.5.4.11":                   "OU",
	"2.5.4.12":                   "T",
	"2.5.4.13":                   "D",
	"2.5.4.17":                   "postalCode",
	"2.5.4.41":                   "N",
	"2.5.4.42":                   "G",
	"2.5.4.43":                   "I",
	"2.5.4.46":                   "dnQualifier",
	"2.5.4.65":                   "pseudonym",
	"1.2.840.113549.1.9.1":       "E",
	"0.9.2342.19200300.100.1.1":  "UID",
	"0.9.2342.19200300.100.1.25": "DC",
}

// Factory implements credstore.CertificateFactory
type Factory struct{}

// NewFactory returns a certificate factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateFromPEM parses the first CERTIFICATE block in data
func (f *Factory) CreateFromPEM(data []byte) (credential.Certificate, error) {
	rest := data
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			return nil, ErrNoCertificate
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse certificate: %w", err)
		}
		return New(cert), nil
	}
}

// Certificate wraps a parsed X.509 certificate
type Certificate struct {
	cert     *x509.Certificate
	subject  *identity.Identity
	altNames []*identity.Identity
	public   credential.PublicKey
	pubErr   error
}

// New wraps cert. The public key is extracted once; if that fails the
// certificate is still usable but PublicKey reports the error.
func New(cert *x509.Certificate) *Certificate {
	c := &Certificate{
		cert:    cert,
		subject: identity.FromDN(subjectDN(cert)),
	}
	c.public, c.pubErr = credential.NewPublicKey(cert.PublicKey)

	for _, name := range cert.DNSNames {
		c.altNames = append(c.altNames, identity.FromEncoding(identity.TypeFQDN, []byte(name)))
	}
	for _, email := range cert.EmailAddresses {
		c.altNames = append(c.altNames, identity.FromEncoding(identity.TypeRFC822, []byte(email)))
	}
	for _, ip := range cert.IPAddresses {
		c.altNames = append(c.altNames, identity.FromIP(ip))
	}
	// emailAddress in the subject DN is treated like an rfc822 alt name
	for _, attr := range cert.Subject.Names {
		if !attr.Type.Equal(oidEmailAddress) {
			continue
		}
		if email, ok := attr.Value.(string); ok {
			c.altNames = append(c.altNames, identity.FromEncoding(identity.TypeRFC822, []byte(email)))
		}
	}

	return c
}

// subjectDN renders the subject in encoded order ("C=CH,O=Example,CN=moon").
// pkix.Name.String reverses it and prints emailAddress as an OID.
func subjectDN(cert *x509.Certificate) string {
	var rdns pkix.RDNSequence
	if rest, err := asn1.Unmarshal(cert.RawSubject, &rdns); err != nil || len(rest) > 0 {
		return cert.Subject.String()
	}

	parts := make([]string, 0, len(rdns))
	for _, rdn := range rdns {
		attrs := make([]string, 0, len(rdn))
		for _, atv := range rdn {
			name, ok := attributeNames[atv.Type.String()]
			if !ok {
				name = atv.Type.String()
			}
			attrs = append(attrs, name+"="+attributeValue(atv.Value))
		}
		parts = append(parts, strings.Join(attrs, "+"))
	}
	return strings.Join(parts, ",")
}

func attributeValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []byte:
		return "#" + hex.EncodeToString(v)
	default:
		return fmt.Sprint(v)
	}
}

func (c *Certificate) Type() credential.CertType {
	return credential.CertX509
}

func (c *Certificate) PublicKey() (credential.PublicKey, error) {
	if c.pubErr != nil {
		return nil, c.pubErr
	}
	return c.public, nil
}

func (c *Certificate) Subject() *identity.Identity {
	return c.subject
}

// AltNames returns the subjectAltName identities
func (c *Certificate) AltNames() []*identity.Identity {
	return append([]*identity.Identity(nil), c.altNames...)
}

// HasSubject matches id against the subject key identifier (for key-id
// identities), the subject DN and the alternate names
func (c *Certificate) HasSubject(id *identity.Identity) identity.Match {
	if id == nil {
		return identity.MatchNever
	}
	if id.Type() == identity.TypeKeyID && len(c.cert.SubjectKeyId) > 0 &&
		bytes.Equal(id.Encoding(), c.cert.SubjectKeyId) {
		return identity.MatchPerfect
	}

	best := c.subject.Matches(id)
	for _, alt := range c.altNames {
		if m := alt.Matches(id); m > best {
			best = m
		}
	}
	return best
}

// X509 returns the underlying certificate
func (c *Certificate) X509() *x509.Certificate {
	return c.cert
}

// Destroy has nothing to wipe; certificates hold only public data
func (c *Certificate) Destroy() {}

var _ credential.Certificate = (*Certificate)(nil)
