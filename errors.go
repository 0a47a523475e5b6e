package truststore

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoTrustManager is returned when a factory yields no X509TrustManager.
var ErrNoTrustManager = errors.New("truststore: no X509TrustManager in TrustManagerFactory")

// KeystoreError is returned when keystore data could not be read, parsed or
// authenticated with the given password.
type KeystoreError struct {
	Type Type
	Err  error
}

func keystoreError(typ Type, err error) *KeystoreError {
	return &KeystoreError{Type: typ, Err: err}
}

// Error implements the error interface.
func (e *KeystoreError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("truststore: keystore: %v", e.Err)
	}

	return fmt.Sprintf("truststore: %s keystore: %v", e.Type, e.Err)
}

// Cause returns the underlying error.
func (e *KeystoreError) Cause() error { return e.Err }

// Unwrap returns the underlying error.
func (e *KeystoreError) Unwrap() error { return e.Err }

// Direction identifies which side of a connection presented a chain.
type Direction string

const (
	// DirectionClient is a chain presented by a client.
	DirectionClient Direction = "client"
	// DirectionServer is a chain presented by a server.
	DirectionServer Direction = "server"
)

// UntrustedChainError is returned when a certificate chain fails validation.
type UntrustedChainError struct {
	Direction Direction
	Reason    error
}

func untrusted(dir Direction, reason error) *UntrustedChainError {
	return &UntrustedChainError{Direction: dir, Reason: reason}
}

// Error implements the error interface.
func (e *UntrustedChainError) Error() string {
	return fmt.Sprintf("truststore: untrusted %s certificate chain: %v", e.Direction, e.Reason)
}

// Cause returns the reason the chain was rejected.
func (e *UntrustedChainError) Cause() error { return e.Reason }

// Unwrap returns the reason the chain was rejected.
func (e *UntrustedChainError) Unwrap() error { return e.Reason }

// IsUntrusted reports whether err is, or wraps, an UntrustedChainError.
func IsUntrusted(err error) bool {
	var uerr *UntrustedChainError
	return errors.As(err, &uerr)
}
