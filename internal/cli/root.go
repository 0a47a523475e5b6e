// Package cli implements the trustcheck command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/github/truststore"
	"github.com/github/truststore/internal/config"
)

// app holds the state shared by every subcommand once flags are parsed.
type app struct {
	configFile string
	cfg        *config.Config
	log        *logrus.Logger
}

// NewRootCmd creates the root command for trustcheck.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "trustcheck",
		Short: "trustcheck - validate X.509 chains against a trust store",
		Long: `trustcheck loads a JKS, PKCS#12 or PEM trust store and checks
certificate chains against it.

Configuration precedence (highest to lowest):
  1. Command-line flags
  2. Environment variables (TRUSTCHECK_*)
  3. Configuration file`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file path (yaml, json or toml)")
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newIssuersCmd(a))
	rootCmd.AddCommand(newVerifyCmd(a))
	rootCmd.AddCommand(newDialCmd(a))

	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	path := a.configFile
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "CONFIG")
	}

	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	log, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log

	return nil
}

func newLogger(cfg config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}
	log.SetLevel(level)

	switch cfg.Format {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, errors.Errorf("invalid log format %q", cfg.Format)
	}

	return log, nil
}

// trustManager builds the trust manager described by the configuration.
func (a *app) trustManager() (*truststore.DefaultTrustManager, error) {
	ts := a.cfg.TrustStore

	factory, err := truststore.GetFactory(ts.Algorithm)
	if err != nil {
		return nil, err
	}

	typ, err := truststore.ParseType(ts.Type)
	if err != nil {
		return nil, err
	}

	opts := []truststore.Option{
		truststore.WithFactory(factory),
		truststore.WithKeyStoreType(typ),
		truststore.WithLogger(a.log),
	}

	if ts.Path == "" {
		a.log.Debug("no trust store path configured, using the system trust store")
		return truststore.NewFromKeyStore(nil, opts...)
	}

	f, err := os.Open(ts.Path)
	if err != nil {
		return nil, errors.Wrap(err, "open trust store")
	}
	defer f.Close()

	a.log.WithFields(logrus.Fields{"path": ts.Path, "type": typ}).Debug("loading trust store")

	return truststore.New(f, ts.Password, opts...)
}
