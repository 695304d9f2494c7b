package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsonecho/jsonecho/pkg/routestore"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load a configuration and report problems without serving",
	Example: `  # Validate the discovered configuration
  jsonecho validate

  # Validate a specific file
  jsonecho validate -c mocks/json-echo.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		loader, err := newLoader(log)
		if err != nil {
			return err
		}

		path := configPath(loader)
		cfg, err := loader.Load(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		store := routestore.New()
		if err := store.Populate(cfg.Routes); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%d routes, %s:%d)\n",
			path, store.Len(), cfg.Hostname, cfg.Port)
		return nil
	},
}
