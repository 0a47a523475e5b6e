package truststore

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"

	"github.com/pkg/errors"
)

// Key algorithm names passed as authType by the TLS helpers.
const (
	AuthTypeRSA     = "RSA"
	AuthTypeEC      = "EC"
	AuthTypeEd25519 = "Ed25519"
	AuthTypeUnknown = "UNKNOWN"
)

// AuthType gets the key algorithm name of crt.
func AuthType(crt *x509.Certificate) string {
	if crt == nil {
		return AuthTypeUnknown
	}

	switch crt.PublicKey.(type) {
	case *rsa.PublicKey:
		return AuthTypeRSA
	case *ecdsa.PublicKey:
		return AuthTypeEC
	case ed25519.PublicKey:
		return AuthTypeEd25519
	}

	return AuthTypeUnknown
}

func leafAuthType(chain []*x509.Certificate) string {
	if len(chain) == 0 {
		return AuthTypeUnknown
	}

	return AuthType(chain[0])
}

// ClientTLSConfig returns a client configuration whose server certificates
// are checked by tm instead of the system roots. When serverName is set, the
// leaf must also be valid for it.
func ClientTLSConfig(tm X509TrustManager, serverName string) *tls.Config {
	return &tls.Config{
		ServerName: serverName,
		MinVersion: tls.VersionTLS12,
		// Verification is done by VerifyConnection below.
		InsecureSkipVerify: true,
		VerifyConnection: func(cs tls.ConnectionState) error {
			chain := cs.PeerCertificates
			if err := tm.ValidateServerChain(chain, leafAuthType(chain)); err != nil {
				return err
			}
			if len(chain) == 0 {
				return untrusted(DirectionServer, errors.New("empty certificate chain"))
			}
			if cs.ServerName == "" {
				return nil
			}

			return chain[0].VerifyHostname(cs.ServerName)
		},
	}
}

// ServerTLSConfig returns a server configuration that requires a client
// certificate checked by tm. The accepted issuers are advertised to clients
// as acceptable CAs.
func ServerTLSConfig(tm X509TrustManager, certs []tls.Certificate) *tls.Config {
	cas := x509.NewCertPool()
	for _, crt := range tm.AcceptedIssuers() {
		cas.AddCert(crt)
	}

	return &tls.Config{
		Certificates: certs,
		MinVersion:   tls.VersionTLS12,
		ClientCAs:    cas,
		ClientAuth:   tls.RequireAnyClientCert,
		VerifyConnection: func(cs tls.ConnectionState) error {
			chain := cs.PeerCertificates
			if err := tm.ValidateClientChain(chain, leafAuthType(chain)); err != nil {
				return err
			}
			if len(chain) == 0 {
				return untrusted(DirectionClient, errors.New("empty certificate chain"))
			}

			return nil
		},
	}
}
