package cli

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/vshell/internal/app"
	"github.com/doeshing/vshell/internal/infrastructure/config"
)

func newConfigCommand(build func(*cobra.Command) (*app.Container, error)) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect VShell configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd)
			if err != nil {
				return err
			}
			raw, err := yaml.Marshal(container.Config)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", container.ConfigLoader.Path(), raw)
			return nil
		},
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Diff active configuration against defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd)
			if err != nil {
				return err
			}
			diff := cmp.Diff(config.Default(), container.Config)
			if diff == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No differences from default configuration.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), diff)
			return nil
		},
	})

	return configCmd
}
