// Package cli provides the command-line interface for connections.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/japaniel/connections/pkg/config"
	"github.com/japaniel/connections/pkg/logging"
	"github.com/japaniel/connections/pkg/opener"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// OpenerFactory builds the opener for a configured browser kind.
type OpenerFactory func(kind string, logger *slog.Logger) (opener.Opener, error)

// Options customize a root command. The zero value is the production setup.
type Options struct {
	// AppDir overrides the directory holding the default database and config.
	AppDir string
	// NewOpener defaults to opener.New.
	NewOpener OpenerFactory
}

type (
	configKey struct{}
	loggerKey struct{}
	openerKey struct{}
)

// NewRootCmd creates the root command with production defaults.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWith(Options{})
}

// NewRootCmdWith creates the root command.
func NewRootCmdWith(opts Options) *cobra.Command {
	if opts.NewOpener == nil {
		opts.NewOpener = func(kind string, logger *slog.Logger) (opener.Opener, error) {
			return opener.New(kind, logger)
		}
	}

	var cfgFile string
	rootCmd := &cobra.Command{
		Use:   "connections",
		Short: "Track which of your connections you have looked up",
		Long: `connections imports a downloaded connections export (CSV) into a local
SQLite database, groups people by company and position, and keeps track of
whose profile you have already opened.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var (
				cfg *config.Config
				err error
			)
			if opts.AppDir != "" {
				cfg, err = config.LoadDir(opts.AppDir, cfgFile, cmd.Root().PersistentFlags())
			} else {
				cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			}
			if err != nil {
				return err
			}

			logger := logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
			if cfg.FileUsed != "" {
				logger.Debug("using config file", "path", cfg.FileUsed)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			ctx = context.WithValue(ctx, openerKey{}, opts.NewOpener)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: <app dir>/config.yaml)")
	rootCmd.PersistentFlags().String("database", "", "Path to the SQLite database")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text|json)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (table|json)")
	rootCmd.PersistentFlags().String("browser", "", "Browser used by open (safari|default|none)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputTable, config.OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("browser", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{opener.KindSafari, opener.KindDefault, opener.KindNone}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newShowCommand())
	rootCmd.AddCommand(newCompaniesCommand())
	rootCmd.AddCommand(newVisitCommand())
	rootCmd.AddCommand(newUnvisitCommand())
	rootCmd.AddCommand(newDeleteCommand())
	rootCmd.AddCommand(newOpenCommand())
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newNoteCommand())
	rootCmd.AddCommand(newThresholdCommand())
	rootCmd.AddCommand(newSettingCommand())
	rootCmd.AddCommand(newResetCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if ctx != nil {
		if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
			return c
		}
	}
	return &config.Config{Output: config.OutputTable, Browser: opener.KindNone}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return slog.New(slog.DiscardHandler)
}

func getOpenerFactory(ctx context.Context) OpenerFactory {
	if ctx != nil {
		if f, ok := ctx.Value(openerKey{}).(OpenerFactory); ok {
			return f
		}
	}
	return func(string, *slog.Logger) (opener.Opener, error) { return opener.Nop{}, nil }
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "connections v%s (%s)\n", Version, GitCommit)
		},
	}
}
