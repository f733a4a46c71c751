package testutil

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/pem"
	"math/big"
	"net"
	"testing"
	"time"
)

// CertOptions describes a self-signed test certificate
type CertOptions struct {
	CommonName   string
	Organization string
	Emails       []string
	DNSNames     []string
	IPs          []net.IP
	// KeyType is "rsa", "ecdsa" (default) or "ed25519"
	KeyType      string
	SubjectKeyID []byte
	// SubjectRDNs, if set, is encoded as the subject verbatim and
	// overrides CommonName and Organization
	SubjectRDNs  pkix.RDNSequence
}

// CertFixture is a generated certificate with its private key
type CertFixture struct {
	Cert    *x509.Certificate
	CertPEM string
	Key     crypto.Signer
	KeyPEM  string
}

// GenerateKey creates a private key of the given type
func GenerateKey(t *testing.T, keyType string) crypto.Signer {
	t.Helper()

	var (
		key crypto.Signer
		err error
	)
	switch keyType {
	case "rsa":
		key, err = rsa.GenerateKey(rand.Reader, 2048)
	case "ed25519":
		_, key, err = ed25519.GenerateKey(rand.Reader)
	case "", "ecdsa":
		key, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	default:
		t.Fatalf("unknown key type %q", keyType)
	}
	if err != nil {
		t.Fatalf("generate %s key: %v", keyType, err)
	}
	return key
}

// KeyPEM encodes key as a PKCS#8 PEM block
func KeyPEM(t *testing.T, key crypto.Signer) string {
	t.Helper()

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

// GenerateCertificate creates a self-signed certificate
func GenerateCertificate(t *testing.T, opts CertOptions) CertFixture {
	t.Helper()

	key := GenerateKey(t, opts.KeyType)

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		t.Fatalf("serial: %v", err)
	}

	subject := pkix.Name{CommonName: opts.CommonName}
	if opts.Organization != "" {
		subject.Organization = []string{opts.Organization}
	}

	tmpl := &x509.Certificate{
		SerialNumber:   serial,
		Subject:        subject,
		NotBefore:      time.Now().Add(-time.Hour),
		NotAfter:       time.Now().Add(24 * time.Hour),
		KeyUsage:       x509.KeyUsageDigitalSignature,
		EmailAddresses: opts.Emails,
		DNSNames:       opts.DNSNames,
		IPAddresses:    opts.IPs,
		SubjectKeyId:   opts.SubjectKeyID,
	}
	if opts.SubjectRDNs != nil {
		raw, err := asn1.Marshal(opts.SubjectRDNs)
		if err != nil {
			t.Fatalf("marshal subject: %v", err)
		}
		tmpl.RawSubject = raw
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, key.Public(), key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}

	return CertFixture{
		Cert:    cert,
		CertPEM: string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})),
		Key:     key,
		KeyPEM:  KeyPEM(t, key),
	}
}
