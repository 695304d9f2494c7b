// Package cli implements the jsonecho command-line interface. It is a
// thin caller of the core packages: argument parsing, default path
// selection, and outcome logging live here, nothing else.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jsonecho/jsonecho/pkg/config"
	"github.com/jsonecho/jsonecho/pkg/fsys"
	"github.com/jsonecho/jsonecho/pkg/logging"
)

// DefaultConfigFile is used when no configuration file is given and
// none of the discovery candidates exist.
const DefaultConfigFile = "json-echo.json"

// BuildInfo carries build-time version metadata.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

var (
	flagConfig    string
	flagRoot      string
	flagLogLevel  string
	flagLogFormat string

	buildInfo BuildInfo
)

var rootCmd = &cobra.Command{
	Use:           "jsonecho",
	Short:         "Declarative mock API server backed by JSON route definitions",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "configuration file (discovered in the project root when omitted)")
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "project root (discovered by walking up from the working directory when omitted)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(validateCmd, routesCmd, resolveCmd, initCmd, versionCmd)
}

// Execute runs the CLI.
func Execute(info BuildInfo) error {
	buildInfo = info
	return rootCmd.Execute()
}

// newLogger builds a logger from the global flags.
func newLogger() *slog.Logger {
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(flagLogLevel),
		Format: logging.ParseFormat(flagLogFormat),
	})
}

// newLoader builds a loader rooted per the global flags.
func newLoader(log *slog.Logger) (*config.Loader, error) {
	fs, err := fsys.NewResolver(flagRoot)
	if err != nil {
		return nil, err
	}
	loader := config.NewLoader(fs)
	loader.SetLogger(log)
	return loader, nil
}

// configPath returns the explicit --config value, the first discovered
// configuration file under the root, or the default name.
func configPath(loader *config.Loader) string {
	if flagConfig != "" {
		return flagConfig
	}
	if path, ok := loader.Resolver().FindConfigFile(); ok {
		return path
	}
	return DefaultConfigFile
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "jsonecho %s (commit %s, built %s)\n",
			buildInfo.Version, buildInfo.Commit, buildInfo.BuildDate)
		return nil
	},
}
