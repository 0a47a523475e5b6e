package truststore

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/github/fakeca"
)

const testPassword = "changeit"

var (
	validFrom = time.Now().Add(-time.Hour)
	validTo   = time.Now().Add(24 * time.Hour)
)

// hierarchy is a root CA, an intermediate CA and a leaf.
type hierarchy struct {
	root         *fakeca.Identity
	intermediate *fakeca.Identity
	leaf         *fakeca.Identity
}

func subject(cn string) fakeca.Option {
	return fakeca.Subject(pkix.Name{
		Organization: []string{"truststore"},
		CommonName:   cn,
	})
}

func newHierarchy(name string) *hierarchy {
	root := fakeca.New(
		fakeca.IsCA,
		subject(name+" root"),
		fakeca.NotBefore(validFrom),
		fakeca.NotAfter(validTo),
	)
	intermediate := root.Issue(
		fakeca.IsCA,
		subject(name+" intermediate"),
		fakeca.NotBefore(validFrom),
		fakeca.NotAfter(validTo),
	)
	leaf := intermediate.Issue(
		subject(name+" leaf"),
		fakeca.NotBefore(validFrom),
		fakeca.NotAfter(validTo),
	)

	return &hierarchy{root: root, intermediate: intermediate, leaf: leaf}
}

// chain is the leaf followed by the intermediate, as a peer would send it.
func (h *hierarchy) chain() []*x509.Certificate {
	return []*x509.Certificate{h.leaf.Certificate, h.intermediate.Certificate}
}

func keyStoreOf(t *testing.T, typ Type, crts ...*x509.Certificate) *KeyStore {
	t.Helper()

	ks := NewKeyStore(typ)
	for i, crt := range crts {
		if err := ks.SetCertificate(fmt.Sprintf("ca%d", i), crt); err != nil {
			t.Fatal(err)
		}
	}

	return ks
}

func storeBytes(t *testing.T, typ Type, password string, crts ...*x509.Certificate) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	if err := keyStoreOf(t, typ, crts...).Store(buf, password); err != nil {
		t.Fatal(err)
	}

	return buf.Bytes()
}

func jksBytes(t *testing.T, password string, crts ...*x509.Certificate) []byte {
	t.Helper()
	return storeBytes(t, TypeJKS, password, crts...)
}

// issueLeaf signs a TLS leaf for cn with the given extended key usage. The
// returned certificate carries the issuer after the leaf.
func issueLeaf(t *testing.T, ca *fakeca.Identity, cn string, usage x509.ExtKeyUsage) tls.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	sn, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		t.Fatal(err)
	}

	tmpl := &x509.Certificate{
		SerialNumber:          sn,
		Subject:               pkix.Name{Organization: []string{"truststore"}, CommonName: cn},
		DNSNames:              []string{cn},
		NotBefore:             validFrom,
		NotAfter:              validTo,
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{usage},
		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, ca.Certificate, key.Public(), ca.PrivateKey)
	if err != nil {
		t.Fatal(err)
	}

	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatal(err)
	}

	return tls.Certificate{
		Certificate: [][]byte{der, ca.Certificate.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}
}

func chainOf(crt tls.Certificate) []*x509.Certificate {
	chain := make([]*x509.Certificate, 0, len(crt.Certificate))
	for _, der := range crt.Certificate {
		c, err := x509.ParseCertificate(der)
		if err != nil {
			panic(err)
		}
		chain = append(chain, c)
	}

	return chain
}

// stubTrustManager is a TrustManager that cannot validate X.509 chains.
type stubTrustManager struct{}

func (stubTrustManager) Algorithm() string { return "stub" }

// stubX509TrustManager returns err from every validation.
type stubX509TrustManager struct {
	name    string
	err     error
	issuers []*x509.Certificate
}

func (m *stubX509TrustManager) Algorithm() string { return m.name }

func (m *stubX509TrustManager) ValidateClientChain([]*x509.Certificate, string) error { return m.err }

func (m *stubX509TrustManager) ValidateServerChain([]*x509.Certificate, string) error { return m.err }

func (m *stubX509TrustManager) AcceptedIssuers() []*x509.Certificate { return m.issuers }

// stubFactory hands out a fixed list of trust managers.
type stubFactory struct {
	tms []TrustManager
	err error
}

func (f *stubFactory) Algorithm() string { return "stub" }

func (f *stubFactory) TrustManagers(*KeyStore) ([]TrustManager, error) { return f.tms, f.err }
