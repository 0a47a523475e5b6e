package cli

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/github/truststore"
)

func newDialCmd(a *app) *cobra.Command {
	var serverName string

	cmd := &cobra.Command{
		Use:   "dial HOST:PORT",
		Short: "Connect to a TLS server and validate its chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := args[0]
			host, _, err := net.SplitHostPort(addr)
			if err != nil {
				return errors.Wrap(err, "invalid address")
			}
			if serverName == "" {
				serverName = host
			}

			timeout, err := a.cfg.DialTimeout()
			if err != nil {
				return err
			}

			tm, err := a.trustManager()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			dialer := &tls.Dialer{Config: truststore.ClientTLSConfig(tm, serverName)}
			conn, err := dialer.DialContext(ctx, "tcp", addr)
			if err != nil {
				return errors.Wrapf(err, "dial %s", addr)
			}
			defer conn.Close()

			state := conn.(*tls.Conn).ConnectionState()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "OK: %s (%s)\n", addr, tls.VersionName(state.Version))
			for i, crt := range state.PeerCertificates {
				fmt.Fprintf(out, "  %d: %s\n", i, crt.Subject)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&serverName, "server-name", "", "name to verify the server certificate against (default: HOST)")

	return cmd
}
