// Package fakes provides test doubles for the credential store's
// collaborators and for the OS keyring.
//
// Fakes are written by hand so tests control exactly what a certificate
// reports (public key, subject match, fingerprints) or what the keyring
// returns.
//
//	cert := &fakes.FakeCertificate{
//	    Public:    fakes.NewFakePublicKey(credential.KeyRSA, []byte{0x01}),
//	    SubjectID: identity.MustParse("alice@example.com"),
//	}
//	factory := fakes.NewFakeCertificateFactory()
//	factory.Register("alice", cert)
//	store := credstore.New(factory, fakes.NewFakeKeyProvider())
//	store.AddCertificate("alice")
package fakes
