package cli

import (
	"github.com/japaniel/connections/pkg/db"
	"github.com/spf13/cobra"
)

func newCompaniesCommand() *cobra.Command {
	var atLeast int
	cmd := &cobra.Command{
		Use:   "companies",
		Short: "List companies with enough people",
		Long: `List companies with at least employee_threshold stored people (see
"connections threshold"), ordered by name. --min overrides the threshold
for one listing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			var companies []db.CompanyCount
			shown := atLeast
			if cmd.Flags().Changed("min") {
				companies, err = cc.Store.CompaniesWithAtLeast(atLeast)
			} else {
				shown, err = cc.Store.EmployeeThreshold()
				if err != nil {
					return err
				}
				companies, err = cc.Store.CompaniesAboveThreshold()
			}
			if err != nil {
				return err
			}
			return cc.Out.Companies(companies, shown)
		},
	}
	cmd.Flags().IntVar(&atLeast, "min", 1, "Minimum number of people")
	return cmd
}
