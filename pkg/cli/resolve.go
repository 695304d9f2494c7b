package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resolveOutput string

func init() {
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "", "output file (defaults to overwriting the input)")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Rewrite a configuration with all external responses inlined",
	Long: `Load a configuration, resolve every external response file
reference, and write the result back out with the bodies inline.
Loading the written file again yields the same document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		loader, err := newLoader(log)
		if err != nil {
			return err
		}

		in := configPath(loader)
		cfg, err := loader.Load(cmd.Context(), in)
		if err != nil {
			return err
		}

		out := resolveOutput
		if out == "" {
			out = in
		}
		if err := loader.Save(cmd.Context(), out, cfg); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "resolved %s -> %s (%d routes)\n",
			in, out, cfg.Routes.Len())
		return nil
	},
}
