package truststore

import (
	"bytes"
	"crypto/x509"
	"io"
	"time"

	"github.com/pavlo-v-chernykh/keystore-go/v4"
	"github.com/pkg/errors"
)

const jksCertificateType = "X509"

func (ks *KeyStore) loadJKS(data []byte, password string) error {
	store := keystore.New(keystore.WithOrderedAliases(), keystore.WithCaseExactAliases())
	if err := store.Load(bytes.NewReader(data), []byte(password)); err != nil {
		return errors.Wrap(err, "load")
	}

	for _, alias := range store.Aliases() {
		var raw keystore.Certificate

		switch {
		case store.IsTrustedCertificateEntry(alias):
			e, err := store.GetTrustedCertificateEntry(alias)
			if err != nil {
				return errors.Wrapf(err, "entry %q", alias)
			}
			raw = e.Certificate
		case store.IsPrivateKeyEntry(alias):
			// The leaf of a key entry's chain is trusted as well.
			chain, err := store.GetPrivateKeyEntryCertificateChain(alias)
			if err != nil {
				return errors.Wrapf(err, "entry %q", alias)
			}
			if len(chain) == 0 {
				continue
			}
			raw = chain[0]
		default:
			continue
		}

		if raw.Type != jksCertificateType {
			return errors.Errorf("entry %q: unsupported certificate type %q", alias, raw.Type)
		}

		crt, err := x509.ParseCertificate(raw.Content)
		if err != nil {
			return errors.Wrapf(err, "entry %q", alias)
		}

		if err := ks.addParsed(alias, crt); err != nil {
			return err
		}
	}

	return nil
}

func (ks *KeyStore) storeJKS(w io.Writer, password string) error {
	store := keystore.New(keystore.WithOrderedAliases(), keystore.WithCaseExactAliases())
	now := time.Now()

	for _, e := range ks.entries {
		err := store.SetTrustedCertificateEntry(e.alias, keystore.TrustedCertificateEntry{
			CreationTime: now,
			Certificate: keystore.Certificate{
				Type:    jksCertificateType,
				Content: e.crt.Raw,
			},
		})
		if err != nil {
			return errors.Wrapf(err, "entry %q", e.alias)
		}
	}

	return errors.Wrap(store.Store(w, []byte(password)), "store")
}
