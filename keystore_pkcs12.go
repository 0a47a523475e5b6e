package truststore

import (
	"crypto/x509"
	"io"

	"github.com/pkg/errors"
	"software.sslmate.com/src/go-pkcs12"
)

// loadPKCS12 accepts Java style trust stores, where every certificate bag is
// marked as trusted, as well as key and certificate bundles.
func (ks *KeyStore) loadPKCS12(data []byte, password string) error {
	crts, err := pkcs12.DecodeTrustStore(data, password)
	if errors.Is(err, pkcs12.ErrIncorrectPassword) {
		return err
	}
	if err != nil {
		_, leaf, cas, chainErr := pkcs12.DecodeChain(data, password)
		if chainErr != nil {
			return errors.Wrap(err, "decode")
		}
		crts = append([]*x509.Certificate{leaf}, cas...)
	}

	for _, crt := range crts {
		if err := ks.addParsed("", crt); err != nil {
			return err
		}
	}

	return nil
}

func (ks *KeyStore) storePKCS12(w io.Writer, password string) error {
	entries := make([]pkcs12.TrustStoreEntry, 0, len(ks.entries))
	for _, e := range ks.entries {
		entries = append(entries, pkcs12.TrustStoreEntry{Cert: e.crt, FriendlyName: e.alias})
	}

	encoder := pkcs12.Modern
	if password == "" {
		encoder = pkcs12.Passwordless
	}

	pfx, err := encoder.EncodeTrustStoreEntries(entries, password)
	if err != nil {
		return errors.Wrap(err, "encode")
	}

	_, err = w.Write(pfx)

	return err
}
