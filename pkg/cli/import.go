package cli

import (
	"github.com/japaniel/connections/pkg/importer"
	"github.com/spf13/cobra"
)

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <Connections.csv>",
		Short: "Import a connections export",
		Long: `Import a connections export (CSV). Leading notes above the header row are
skipped. People already stored, matched by profile URL or by name and
company, are reported as duplicates and left untouched.`,
		Example: `  connections import ~/Downloads/Connections.csv
  connections import Connections.csv -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			im := importer.NewImporter(cc.Store)
			im.Logger = cc.Logger
			rep, err := im.ImportFile(args[0])
			if err != nil {
				if rep != nil {
					// Rows before the failure are committed.
					cc.Out.Printf("Imported %d rows before the error\n", rep.Added)
				}
				return err
			}
			return cc.Out.Report(rep)
		},
	}
}
