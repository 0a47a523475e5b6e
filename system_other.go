//go:build !linux

package truststore

import (
	"runtime"

	"github.com/pkg/errors"
)

// SystemKeyStore is only implemented on Linux. Elsewhere the platform keeps
// its roots in a keychain that cannot be enumerated without cgo.
func SystemKeyStore() (*KeyStore, error) {
	return nil, keystoreError(TypePEM, errors.Errorf("system trust store is not supported on %s", runtime.GOOS))
}
