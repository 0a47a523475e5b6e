package truststore

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"io"

	"github.com/pkg/errors"
)

const pemCertificateType = "CERTIFICATE"

func (ks *KeyStore) loadPEM(data []byte) error {
	rest := bytes.TrimSpace(data)
	if len(rest) == 0 {
		return nil
	}

	var found bool
	for {
		var blk *pem.Block
		blk, rest = pem.Decode(rest)
		if blk == nil {
			break
		}
		found = true

		if blk.Type != pemCertificateType {
			continue
		}

		crt, err := x509.ParseCertificate(blk.Bytes)
		if err != nil {
			return errors.Wrap(err, "parse certificate")
		}

		if err := ks.addParsed("", crt); err != nil {
			return err
		}
	}

	if !found {
		return errors.New("no PEM data found")
	}

	return nil
}

func (ks *KeyStore) storePEM(w io.Writer) error {
	for _, e := range ks.entries {
		if err := pem.Encode(w, &pem.Block{Type: pemCertificateType, Bytes: e.crt.Raw}); err != nil {
			return err
		}
	}

	return nil
}
