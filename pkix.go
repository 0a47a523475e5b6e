package truststore

import (
	"bytes"
	"crypto/x509"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// pkixTrustManager checks chains with the crypto/x509 path builder, using
// only its own anchors as roots. It is immutable once built.
type pkixTrustManager struct {
	anchors [][]byte
	roots   *x509.CertPool
	now     func() time.Time
}

var _ X509TrustManager = (*pkixTrustManager)(nil)

func newPKIXTrustManager(crts []*x509.Certificate, now func() time.Time) *pkixTrustManager {
	m := &pkixTrustManager{
		roots: x509.NewCertPool(),
		now:   now,
	}

	for _, crt := range crts {
		if crt == nil || m.hasAnchor(crt.Raw) {
			continue
		}

		// Keep a private copy so later changes to the caller's certificate
		// cannot alter the anchor set.
		own, err := x509.ParseCertificate(crt.Raw)
		if err != nil {
			continue
		}

		m.anchors = append(m.anchors, own.Raw)
		m.roots.AddCert(own)
	}

	return m
}

func (m *pkixTrustManager) hasAnchor(der []byte) bool {
	for _, a := range m.anchors {
		if bytes.Equal(a, der) {
			return true
		}
	}

	return false
}

// Algorithm implements the TrustManager interface.
func (m *pkixTrustManager) Algorithm() string {
	return AlgorithmPKIX
}

// ValidateClientChain implements the X509TrustManager interface.
func (m *pkixTrustManager) ValidateClientChain(chain []*x509.Certificate, authType string) error {
	return m.validate(DirectionClient, chain, authType, x509.ExtKeyUsageClientAuth)
}

// ValidateServerChain implements the X509TrustManager interface.
func (m *pkixTrustManager) ValidateServerChain(chain []*x509.Certificate, authType string) error {
	return m.validate(DirectionServer, chain, authType, x509.ExtKeyUsageServerAuth)
}

// AcceptedIssuers implements the X509TrustManager interface. Every call
// returns newly parsed certificates.
func (m *pkixTrustManager) AcceptedIssuers() []*x509.Certificate {
	issuers := make([]*x509.Certificate, 0, len(m.anchors))
	for _, der := range m.anchors {
		crt, err := x509.ParseCertificate(der)
		if err != nil {
			// Unreachable: anchors were parsed once already.
			continue
		}
		issuers = append(issuers, crt)
	}

	return issuers
}

func (m *pkixTrustManager) validate(dir Direction, chain []*x509.Certificate, authType string, usage x509.ExtKeyUsage) error {
	if len(chain) == 0 {
		return untrusted(dir, errors.New("empty certificate chain"))
	}
	if strings.TrimSpace(authType) == "" {
		return untrusted(dir, errors.New("empty authentication type"))
	}
	for i, crt := range chain {
		if crt == nil {
			return untrusted(dir, errors.Errorf("nil certificate at position %d", i))
		}
	}
	if len(m.anchors) == 0 {
		return untrusted(dir, errors.New("the trust anchors set is empty"))
	}

	intermediates := x509.NewCertPool()
	for _, crt := range chain[1:] {
		intermediates.AddCert(crt)
	}

	opts := x509.VerifyOptions{
		Roots:         m.roots,
		Intermediates: intermediates,
		KeyUsages:     []x509.ExtKeyUsage{usage},
	}
	if m.now != nil {
		opts.CurrentTime = m.now()
	}

	if _, err := chain[0].Verify(opts); err != nil {
		return untrusted(dir, err)
	}

	return nil
}
