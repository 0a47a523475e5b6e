package truststore

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// CA bundles shipped by the common distributions, in lookup order.
var systemBundleFiles = []string{
	"/etc/ssl/certs/ca-certificates.crt",                // Debian/Ubuntu/Gentoo etc.
	"/etc/pki/tls/certs/ca-bundle.crt",                  // Fedora/RHEL 6
	"/etc/ssl/ca-bundle.pem",                            // OpenSUSE
	"/etc/pki/tls/cacert.pem",                           // OpenELEC
	"/etc/pki/ca-trust/extracted/pem/tls-ca-bundle.pem", // CentOS/RHEL 7
	"/etc/ssl/cert.pem",                                 // Alpine Linux
}

var systemBundleDirs = []string{
	"/etc/ssl/certs",
	"/etc/pki/tls/certs",
}

// SystemKeyStore loads the operating system's CA certificates. SSL_CERT_FILE
// and SSL_CERT_DIR override the default locations.
func SystemKeyStore() (*KeyStore, error) {
	files := systemBundleFiles
	if f := os.Getenv("SSL_CERT_FILE"); f != "" {
		files = []string{f}
	}

	var (
		bundle  bytes.Buffer
		lastErr error
	)

	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			lastErr = err
			continue
		}
		bundle.Write(data)
		bundle.WriteByte('\n')
		break
	}

	dirs, explicitDirs := systemBundleDirs, false
	if d, ok := os.LookupEnv("SSL_CERT_DIR"); ok {
		dirs, explicitDirs = filepath.SplitList(d), true
	}

	// The default directories usually hold the same certificates as the
	// bundle, so they are only read when no bundle was found.
	if bundle.Len() == 0 || explicitDirs {
		for _, dir := range dirs {
			entries, err := os.ReadDir(dir)
			if err != nil {
				lastErr = err
				continue
			}
			for _, de := range entries {
				if de.IsDir() || !isPEMName(de.Name()) {
					continue
				}
				data, err := os.ReadFile(filepath.Join(dir, de.Name()))
				if err != nil {
					continue
				}
				bundle.Write(data)
				bundle.WriteByte('\n')
			}
		}
	}

	if bundle.Len() == 0 {
		if lastErr == nil {
			lastErr = errors.New("no CA certificates found")
		}
		return nil, keystoreError(TypePEM, errors.Wrap(lastErr, "system trust store"))
	}

	return LoadType(TypePEM, &bundle, "")
}

func isPEMName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pem", ".crt":
		return true
	}

	return false
}
