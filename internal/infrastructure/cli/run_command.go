package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/vshell/internal/app"
)

func newRunCommand(build func(*cobra.Command) (*app.Container, error)) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "run [phrase]",
		Short: "Execute a single phrase and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd)
			if err != nil {
				return err
			}
			service := container.ShellService
			out := cmd.OutOrStdout()

			resp := service.Handle(strings.Join(args, " "))
			fmt.Fprintln(out, resp.Text)

			// Deletes stage a confirmation; --yes answers it, otherwise the
			// staged delete is cancelled so nothing stays pending on disk.
			if resp.Pending != nil {
				answer := "no"
				if confirm {
					answer = "yes"
				}
				follow := service.Handle(answer)
				fmt.Fprintln(out, follow.Text)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirm, "yes", "y", false, "Confirm a staged delete without prompting")
	return cmd
}
