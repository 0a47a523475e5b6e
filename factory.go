package truststore

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// AlgorithmPKIX names the factory producing PKIX (RFC 5280) trust managers.
const AlgorithmPKIX = "PKIX"

// DefaultAlgorithm gets the name of the default trust-manager algorithm.
func DefaultAlgorithm() string {
	return AlgorithmPKIX
}

// Factory derives trust managers from a KeyStore.
type Factory interface {
	// Algorithm gets the factory's algorithm name.
	Algorithm() string

	// TrustManagers returns the trust managers for ks. A nil ks selects the
	// factory's default trust material.
	TrustManagers(ks *KeyStore) ([]TrustManager, error)
}

// GetFactory returns the factory implementing algorithm. Names are matched
// case-insensitively.
func GetFactory(algorithm string) (Factory, error) {
	switch strings.ToUpper(strings.TrimSpace(algorithm)) {
	case AlgorithmPKIX, "X509", "X.509":
		return PKIXFactory{}, nil
	}

	return nil, errors.Wrapf(ErrNoTrustManager, "unknown algorithm %q", algorithm)
}

// PKIXFactory produces a single PKIX X509TrustManager.
type PKIXFactory struct {
	// Now overrides the time chains are validated at. Nil means time.Now.
	Now func() time.Time
}

// Algorithm implements the Factory interface.
func (PKIXFactory) Algorithm() string {
	return AlgorithmPKIX
}

// TrustManagers implements the Factory interface. A nil ks is replaced by the
// system trust store.
func (f PKIXFactory) TrustManagers(ks *KeyStore) ([]TrustManager, error) {
	if ks == nil {
		sys, err := SystemKeyStore()
		if err != nil {
			return nil, err
		}
		ks = sys
	}

	return []TrustManager{newPKIXTrustManager(ks.Certificates(), f.Now)}, nil
}
