package main

import (

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
)

var (
	verbose    bool
	quiet      bool
	configFile string
	logFile    string
)

// logger is replaced in PersistentPreRunE; commands invoked directly (tests)
// log nowhere.
var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "binscan",
	Short: "binscan - binary signature scanner",
	Long: `binscan searches files for binary signatures: hex byte patterns with "??"
placeholders, such as "48 8B 05 ?? ?? ?? ??". For every match it reports the
window offset and the bytes that fell on placeholders.

Signatures come from -p/--pattern, from YAML rule files (-r/--rules) or from
the builtin set of file format and x86-64 signatures.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $HOME/.binscan.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a rotated file instead of stderr")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and builds the logger before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	if err := initConfig(configFile); err != nil {
		return err
	}
	if logFile != "" {
		cfg.Set(keyLogFile, logFile)
	}

	level := cfg.GetString(keyLogLevel)
	switch {
	case verbose:
		level = "debug"
	case quiet:
		level = "error"
	}

	l, err := newLogger(level, cfg.GetString(keyLogFile), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logger = l

	// Match GOMAXPROCS to the container CPU quota before sizing the pools.
	if _, err := maxprocs.Set(maxprocs.Logger(logger.Sugar().Debugf)); err != nil {
		logger.Warn("failed to set GOMAXPROCS", zap.Error(err))
	}

	if used := cfg.ConfigFileUsed(); used != "" {
		logger.Debug("loaded config", zap.String("file", used))
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
