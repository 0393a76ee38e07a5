package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rustyeddy/tradelog/journal"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export trades as CSV or an Org-mode block",
	Long: `Write the user's trades as CSV, one row per trade in sequence order.
With --format org a session is rendered as an Org-mode heading with a
PROPERTIES drawer and a trade table.

Examples:
  tradelog export --user me@example.com -o trades.csv
  tradelog export --user me@example.com --session 2 --format org`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportOutput  string
	exportSession string
	exportFormat  string
)

func init() {
	rootCmd.AddCommand(exportCmd)
	addUserFlag(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (defaults to stdout)")
	exportCmd.Flags().StringVarP(&exportSession, "session", "s", "", "session number (defaults to every trade for csv, the active session for org)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "csv or org")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "org" {
		return fmt.Errorf("unknown format %q", exportFormat)
	}
	return withApp(cmd, func(ctx context.Context, a *app) error {
		u, err := a.user(ctx)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOutput, err)
			}
			defer f.Close()
			w = f
		}

		if exportFormat == "org" {
			s, err := resolveSession(ctx, a, u.ID, []string{exportSession})
			if err != nil {
				return err
			}
			trades, err := a.ledger.Trades(ctx, u.ID, &s.ID)
			if err != nil {
				return err
			}
			_, err = io.WriteString(w, journal.FormatSessionOrg(*s, trades))
			return err
		}

		var sid *int64
		if exportSession != "" {
			s, err := resolveSession(ctx, a, u.ID, []string{exportSession})
			if err != nil {
				return err
			}
			sid = &s.ID
		}
		if err := a.ledger.Export(ctx, w, u.ID, sid); err != nil {
			return err
		}
		if exportOutput != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported to %s\n", exportOutput)
		}
		return nil
	})
}
