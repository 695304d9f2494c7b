package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing configuration file")
}

// starterConfig is the configuration written by `jsonecho init`.
const starterConfig = `{
  "port": 3001,
  "hostname": "localhost",
  "routes": {
    "/api/health": {
      "description": "Service health probe",
      "response": {
        "status": 200,
        "body": {"status": "ok"}
      }
    },
    "/api/users/:id": {
      "description": "Look a user up by id",
      "id_field": "id",
      "response": {
        "status": 200,
        "body": [
          {"id": 1, "name": "Ada"},
          {"id": 2, "name": "Grace"}
        ]
      }
    }
  }
}
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		loader, err := newLoader(log)
		if err != nil {
			return err
		}

		path := flagConfig
		if path == "" {
			path = DefaultConfigFile
		}

		full := loader.Resolver().Resolve(path)
		if _, err := os.Stat(full); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", full)
		}

		if err := loader.Resolver().SaveFile(cmd.Context(), path, []byte(starterConfig)); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", full)
		return nil
	},
}
