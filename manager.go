package truststore

import (
	"crypto/x509"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultTrustManager is an X509TrustManager backed by a KeyStore. It forwards
// every call to the X509TrustManager its factory derived from the store.
//
// A DefaultTrustManager is immutable and may be shared between goroutines as
// long as its delegate may. The PKIX delegate may.
type DefaultTrustManager struct {
	delegate X509TrustManager
	log      logrus.FieldLogger
}

var _ X509TrustManager = (*DefaultTrustManager)(nil)

type options struct {
	factory Factory
	typ     Type
	log     logrus.FieldLogger
}

// Option configures a DefaultTrustManager.
type Option func(*options)

// WithFactory derives the delegate from f instead of the factory for
// DefaultAlgorithm.
func WithFactory(f Factory) Option {
	return func(o *options) { o.factory = f }
}

// WithKeyStoreType sets the format New reads. It defaults to DefaultType.
func WithKeyStoreType(typ Type) Option {
	return func(o *options) { o.typ = typ }
}

// WithLogger sets the logger. It defaults to the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

func buildOptions(opts []Option) *options {
	o := &options{typ: DefaultType}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logrus.StandardLogger()
	}

	return o
}

// New loads a keystore from r and derives a trust manager from it. The
// password is trimmed, and an empty or blank password means no password.
func New(r io.Reader, password string, opts ...Option) (*DefaultTrustManager, error) {
	o := buildOptions(opts)

	ks, err := LoadType(o.typ, r, password)
	if err != nil {
		return nil, err
	}

	return newTrustManager(ks, o)
}

// NewFromKeyStore derives a trust manager from an already loaded keystore. A
// nil ks is handed to the factory, which for PKIX means the system store.
func NewFromKeyStore(ks *KeyStore, opts ...Option) (*DefaultTrustManager, error) {
	return newTrustManager(ks, buildOptions(opts))
}

func newTrustManager(ks *KeyStore, o *options) (*DefaultTrustManager, error) {
	factory := o.factory
	if factory == nil {
		f, err := GetFactory(DefaultAlgorithm())
		if err != nil {
			return nil, err
		}
		factory = f
	}

	tms, err := factory.TrustManagers(ks)
	if err != nil {
		return nil, errors.Wrapf(err, "truststore: initialize %s trust manager factory", factory.Algorithm())
	}

	delegate, ok := firstX509(tms)
	if !ok {
		return nil, errors.Wrapf(ErrNoTrustManager, "%s factory produced %d trust managers", factory.Algorithm(), len(tms))
	}

	log := o.log.WithField("algorithm", delegate.Algorithm())
	log.WithField("issuers", len(delegate.AcceptedIssuers())).Debug("trust manager initialized")

	return &DefaultTrustManager{delegate: delegate, log: log}, nil
}

func firstX509(tms []TrustManager) (X509TrustManager, bool) {
	for _, tm := range tms {
		if x, ok := tm.(X509TrustManager); ok && x != nil {
			return x, true
		}
	}

	return nil, false
}

// Algorithm implements the TrustManager interface.
func (m *DefaultTrustManager) Algorithm() string {
	return m.delegate.Algorithm()
}

// ValidateClientChain implements the X509TrustManager interface.
func (m *DefaultTrustManager) ValidateClientChain(chain []*x509.Certificate, authType string) error {
	return m.checked(DirectionClient, m.delegate.ValidateClientChain(chain, authType))
}

// ValidateServerChain implements the X509TrustManager interface.
func (m *DefaultTrustManager) ValidateServerChain(chain []*x509.Certificate, authType string) error {
	return m.checked(DirectionServer, m.delegate.ValidateServerChain(chain, authType))
}

// AcceptedIssuers implements the X509TrustManager interface. The returned
// slice belongs to the caller.
func (m *DefaultTrustManager) AcceptedIssuers() []*x509.Certificate {
	issuers := m.delegate.AcceptedIssuers()
	out := make([]*x509.Certificate, len(issuers))
	copy(out, issuers)

	return out
}

// checked makes sure every delegate failure reaches the caller as an
// UntrustedChainError.
func (m *DefaultTrustManager) checked(dir Direction, err error) error {
	if err == nil {
		return nil
	}

	var uerr *UntrustedChainError
	if !errors.As(err, &uerr) {
		err = untrusted(dir, err)
	}

	m.log.WithField("direction", dir).WithError(err).Debug("certificate chain rejected")

	return err
}
