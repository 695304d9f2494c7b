package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jsonecho/jsonecho/pkg/routestore"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the routes a configuration defines",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		loader, err := newLoader(log)
		if err != nil {
			return err
		}

		cfg, err := loader.Load(cmd.Context(), configPath(loader))
		if err != nil {
			return err
		}

		store := routestore.New()
		if err := store.Populate(cfg.Routes); err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tSTATUS\tDESCRIPTION")
		for _, m := range store.Models() {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				m.Method(), m.Pattern(), m.Status(), m.Description())
		}
		return w.Flush()
	},
}
