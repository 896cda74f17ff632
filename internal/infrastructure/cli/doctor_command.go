package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/vshell/internal/app"
	"github.com/doeshing/vshell/internal/domain"
)

func newDoctorCommand(build func(*cobra.Command) (*app.Container, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run environment diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd)
			if err != nil {
				return err
			}
			report, err := container.DoctorService.Run(cmd.Context())
			out := cmd.OutOrStdout()
			for _, check := range report.Checks {
				fmt.Fprintf(out, "%-6s %-14s %s\n", marker(check.Status), check.Name, check.Details)
			}
			if err != nil {
				return err
			}
			if !report.Healthy() {
				return fmt.Errorf("doctor found failing checks")
			}
			return nil
		},
	}
}

func marker(status domain.HealthStatus) string {
	switch status {
	case domain.HealthOK:
		return "[ok]"
	case domain.HealthWarn:
		return "[warn]"
	default:
		return "[fail]"
	}
}
