package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/japaniel/connections/pkg/db"
	"github.com/spf13/cobra"
)

func newResetCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the database and start over",
		Long: `Delete the database file, including its WAL files, and create an empty
one with default settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			if cfg.Database != db.MemoryPath {
				for _, suffix := range []string{"", "-wal", "-shm"} {
					if err := os.Remove(cfg.Database + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
						return fmt.Errorf("failed to remove database: %w", err)
					}
				}
			}

			store, err := openStore(cfg.Database)
			if err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return err
			}
			logger.Info("database reset", "path", cfg.Database)
			newRenderer(cmd.OutOrStdout(), cfg.Output).Printf("Database reset at %s\n", cfg.Database)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	return cmd
}
