package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newHeuristicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "heuristics",
		Short: "Print the effective heuristic keyword lists as YAML",
		Long: "Heuristics prints the keyword lists in effect after the configuration is\n" +
			"applied. The output can be pasted under heuristics: in a config file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := getAppContext(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(app.cfg.Heuristics.WithDefaults()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
