package cli

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newIssuersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "issuers",
		Short: "List the certificate authorities accepted by the trust store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tm, err := a.trustManager()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SUBJECT\tNOT AFTER\tSHA-256")
			for _, crt := range tm.AcceptedIssuers() {
				sum := sha256.Sum256(crt.Raw)
				fmt.Fprintf(w, "%s\t%s\t%s\n", crt.Subject, crt.NotAfter.UTC().Format(time.RFC3339), hex.EncodeToString(sum[:]))
			}

			return w.Flush()
		},
	}
}
