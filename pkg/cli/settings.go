package cli

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/japaniel/connections/pkg/db"
	"github.com/spf13/cobra"
)

// noteBudget is the length an invitation note can have.
const noteBudget = 300

// Bounds accepted by "threshold set".
const (
	minThreshold = 1
	maxThreshold = 100
)

func newNoteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Show or change the connection note",
		Long: `The connection note is printed by "connections open" so it can be pasted
into an invitation.`,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the connection note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			note, _, err := cc.Store.GetSetting(db.SettingConnectionNote)
			if err != nil {
				return err
			}
			if cc.Out.json() {
				return cc.Out.JSON(db.Setting{Key: db.SettingConnectionNote, Value: note})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), note)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <text>...",
		Short: "Replace the connection note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			note := strings.Join(args, " ")
			if err := cc.Store.SetSetting(db.SettingConnectionNote, note); err != nil {
				return err
			}
			n := utf8.RuneCountInString(note)
			cc.Out.Printf("Note saved (%d/%d characters)\n", n, noteBudget)
			if n > noteBudget {
				cc.Logger.Warn("connection note longer than an invitation allows", "length", n, "budget", noteBudget)
			}
			return nil
		},
	})
	return cmd
}

func newThresholdCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threshold",
		Short: "Show or change the minimum company size listed by companies",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the employee threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := cc.Store.EmployeeThreshold()
			if err != nil {
				return err
			}
			if cc.Out.json() {
				return cc.Out.JSON(map[string]int{db.SettingEmployeeThreshold: n})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <n>",
		Short: "Set the employee threshold (1-100)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || n < minThreshold || n > maxThreshold {
				return fmt.Errorf("threshold must be a whole number from %d to %d, got %q", minThreshold, maxThreshold, args[0])
			}
			cc, cleanup, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cc.Store.SetSetting(db.SettingEmployeeThreshold, strconv.Itoa(n)); err != nil {
				return err
			}
			cc.Out.Printf("Employee threshold set to %d\n", n)
			return nil
		},
	})
	return cmd
}

func newSettingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setting",
		Short: "Read and write raw settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			v, ok, err := cc.Store.GetSetting(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("setting %q is not set", args[0])
			}
			if cc.Out.json() {
				return cc.Out.JSON(db.Setting{Key: args[0], Value: v})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Create or replace a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := cc.Store.SetSetting(args[0], args[1]); err != nil {
				return err
			}
			cc.Out.Printf("%s = %s\n", args[0], args[1])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := newCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			settings, err := cc.Store.Settings()
			if err != nil {
				return err
			}
			return cc.Out.Settings(settings)
		},
	})
	return cmd
}
