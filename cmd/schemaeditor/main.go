// Command schemaeditor edits the connection, tables and relationships of a
// schema parameter file.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"schemaeditor/internal/config"
	"schemaeditor/windows"
)

// Version is set at build time.
var Version = "0.1.0"

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "schemaeditor [par-file]",
		Short: "Schema configuration editor",
		Long: `schemaeditor edits the parameter file of a database, flat file or XML
schema: its connection, the tables it uses and the relationships between them.

Settings are read from defaults, the --config YAML file, SCHEMAED_ environment
variables and flags, later sources overriding earlier ones.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.ParFile = args[0]
			}

			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			logger.Debug("configuration loaded",
				"config", cfgFile, "accounts", cfg.Accounts, "par_file", cfg.ParFile)

			w, err := windows.CreateMainWindow(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to create main window: %w", err)
			}
			w.ShowAndRun()
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "YAML config file")
	flags.String("par-file", "", "parameter file to open")
	flags.StringSlice("accounts", nil, "account files offering named configurations")
	flags.String("prefix", "", "parameter name prefix (default In_)")
	flags.String("default-dao", "", "DAO type selected at start: DB, FF or XML")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.Int("connect-timeout", 0, "connection test timeout in seconds")

	_ = cmd.RegisterFlagCompletionFunc("default-dao", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"DB", "FF", "XML"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
