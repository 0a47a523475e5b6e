package truststore

import (
	"bytes"
	"crypto/x509"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Type is a keystore encoding.
type Type string

const (
	// TypeJKS is the Java KeyStore format.
	TypeJKS Type = "jks"
	// TypePKCS12 is a PKCS#12 (PFX) archive.
	TypePKCS12 Type = "pkcs12"
	// TypePEM is a bundle of PEM encoded certificates.
	TypePEM Type = "pem"
)

// DefaultType is the keystore type used by Load and New.
const DefaultType = TypeJKS

// ParseType parses a keystore type name. The empty string is DefaultType.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultType, nil
	case "jks":
		return TypeJKS, nil
	case "pkcs12", "p12", "pfx":
		return TypePKCS12, nil
	case "pem", "crt":
		return TypePEM, nil
	}

	return "", errors.Errorf("truststore: unknown keystore type %q", s)
}

type entry struct {
	alias string
	crt   *x509.Certificate
}

// KeyStore is an ordered set of certificates, each filed under an alias.
// A KeyStore is not safe for concurrent modification.
type KeyStore struct {
	typ     Type
	entries []entry
}

// NewKeyStore returns an empty KeyStore that is stored as typ.
func NewKeyStore(typ Type) *KeyStore {
	return &KeyStore{typ: typ}
}

// Load reads a keystore of DefaultType from r.
func Load(r io.Reader, password string) (*KeyStore, error) {
	return LoadType(DefaultType, r, password)
}

// LoadType reads a keystore of the given type from r. Leading and trailing
// whitespace is trimmed from password; an empty password means no password.
//
// PKCS#12 input must be either a trust store whose certificate bags carry the
// Java trusted key usage attribute, or a bundle holding a private key. A file
// of unmarked certificates alone, as written by openssl pkcs12 -nokeys, is
// rejected.
func LoadType(typ Type, r io.Reader, password string) (*KeyStore, error) {
	if r == nil {
		return nil, keystoreError(typ, errors.New("nil reader"))
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, keystoreError(typ, errors.Wrap(err, "read"))
	}

	password = normalizePassword(password)
	ks := NewKeyStore(typ)

	switch typ {
	case TypeJKS:
		err = ks.loadJKS(data, password)
	case TypePKCS12:
		err = ks.loadPKCS12(data, password)
	case TypePEM:
		err = ks.loadPEM(data)
	default:
		err = errors.Errorf("unsupported keystore type %q", typ)
	}
	if err != nil {
		return nil, keystoreError(typ, err)
	}

	return ks, nil
}

func normalizePassword(password string) string {
	return strings.TrimSpace(password)
}

// Type gets the format the store was read from or will be written as.
func (ks *KeyStore) Type() Type {
	return ks.typ
}

// Len is the number of entries in the store.
func (ks *KeyStore) Len() int {
	return len(ks.entries)
}

// SetCertificate files crt under alias, replacing any certificate already
// stored there.
func (ks *KeyStore) SetCertificate(alias string, crt *x509.Certificate) error {
	if alias == "" {
		return errors.New("truststore: empty alias")
	}
	if crt == nil || len(crt.Raw) == 0 {
		return errors.Errorf("truststore: no certificate for alias %q", alias)
	}

	for i := range ks.entries {
		if ks.entries[i].alias == alias {
			ks.entries[i].crt = crt
			return nil
		}
	}

	ks.entries = append(ks.entries, entry{alias: alias, crt: crt})

	return nil
}

// Aliases gets the aliases in store order.
func (ks *KeyStore) Aliases() []string {
	aliases := make([]string, 0, len(ks.entries))
	for _, e := range ks.entries {
		aliases = append(aliases, e.alias)
	}

	return aliases
}

// Certificate gets the certificate filed under alias. The certificate is
// shared with the store and must not be modified.
func (ks *KeyStore) Certificate(alias string) (*x509.Certificate, bool) {
	for _, e := range ks.entries {
		if e.alias == alias {
			return e.crt, true
		}
	}

	return nil, false
}

// Certificates gets every certificate in store order. The certificates are
// shared with the store and must not be modified.
func (ks *KeyStore) Certificates() []*x509.Certificate {
	crts := make([]*x509.Certificate, 0, len(ks.entries))
	for _, e := range ks.entries {
		crts = append(crts, e.crt)
	}

	return crts
}

// Store writes the store to w in its own format.
func (ks *KeyStore) Store(w io.Writer, password string) error {
	password = normalizePassword(password)

	var (
		buf bytes.Buffer
		err error
	)

	switch ks.typ {
	case TypeJKS:
		err = ks.storeJKS(&buf, password)
	case TypePKCS12:
		err = ks.storePKCS12(&buf, password)
	case TypePEM:
		err = ks.storePEM(&buf)
	default:
		err = errors.Errorf("unsupported keystore type %q", ks.typ)
	}
	if err != nil {
		return keystoreError(ks.typ, err)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return keystoreError(ks.typ, errors.Wrap(err, "write"))
	}

	return nil
}

// addParsed appends a freshly decoded certificate, deriving an alias from its
// subject when the format does not carry one.
func (ks *KeyStore) addParsed(alias string, crt *x509.Certificate) error {
	if alias == "" {
		alias = ks.nextAlias(crt)
	}

	return ks.SetCertificate(alias, crt)
}

func (ks *KeyStore) nextAlias(crt *x509.Certificate) string {
	base := strings.ToLower(strings.TrimSpace(crt.Subject.CommonName))
	if base == "" {
		base = "cert"
	}

	alias := base
	for n := 1; ; n++ {
		if _, taken := ks.Certificate(alias); !taken {
			return alias
		}
		alias = base + "-" + strconv.Itoa(n)
	}
}
