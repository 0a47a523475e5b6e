package cli

import (
	"crypto/x509"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/github/truststore"
)

func newVerifyCmd(a *app) *cobra.Command {
	var (
		client   bool
		authType string
	)

	cmd := &cobra.Command{
		Use:   "verify CHAIN.pem",
		Short: "Validate a PEM certificate chain, leaf first",
		Long: `Validate a PEM certificate chain against the trust store.

The chain is checked as a server chain unless --client is set. The
authentication type defaults to the key algorithm of the leaf.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := readChain(args[0])
			if err != nil {
				return err
			}

			tm, err := a.trustManager()
			if err != nil {
				return err
			}

			if authType == "" && len(chain) > 0 {
				authType = truststore.AuthType(chain[0])
			}

			validate := tm.ValidateServerChain
			if client {
				validate = tm.ValidateClientChain
			}
			if err := validate(chain, authType); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "OK: %s\n", chain[0].Subject)

			return nil
		},
	}

	cmd.Flags().BoolVar(&client, "client", false, "validate as a client certificate chain")
	cmd.Flags().StringVar(&authType, "auth-type", "", "authentication type (default: key algorithm of the leaf)")

	return cmd
}

func readChain(path string) ([]*x509.Certificate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open chain")
	}
	defer f.Close()

	ks, err := truststore.LoadType(truststore.TypePEM, f, "")
	if err != nil {
		return nil, errors.Wrap(err, "read chain")
	}

	return ks.Certificates(), nil
}
