// Package truststore binds a store of trusted certificate authorities to
// X.509 certificate chain validation.
//
// A KeyStore is loaded from JKS, PKCS#12 or PEM data. A Factory turns it into
// trust managers, and DefaultTrustManager wraps the first X509TrustManager
// the factory produces.
package truststore

import (
	"crypto/x509"
)

// TrustManager is anything produced by a Factory.
type TrustManager interface {
	// Algorithm is the name of the factory algorithm that produced the
	// TrustManager.
	Algorithm() string
}

// X509TrustManager is a TrustManager that validates X.509 certificate chains.
type X509TrustManager interface {
	TrustManager

	// ValidateClientChain checks a chain presented by a client. The chain
	// is ordered leaf first. authType names the key algorithm of the leaf.
	ValidateClientChain(chain []*x509.Certificate, authType string) error

	// ValidateServerChain checks a chain presented by a server.
	ValidateServerChain(chain []*x509.Certificate, authType string) error

	// AcceptedIssuers gets the CA certificates trusted for authenticating
	// peers.
	AcceptedIssuers() []*x509.Certificate
}
