package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/vshell/internal/app"
)

func newHistoryCommand(build func(*cobra.Command) (*app.Container, error)) *cobra.Command {
	var count int
	var clear bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear the interaction journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if clear {
				if err := container.Journal.Clear(); err != nil {
					return fmt.Errorf("clear history: %w", err)
				}
				fmt.Fprintln(out, "History cleared")
				return nil
			}

			records, err := container.Journal.Recent(count)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "(no history yet)")
				return nil
			}
			for _, rec := range records {
				fmt.Fprintf(out, "%s | %s: %s -> %s\n",
					rec.Timestamp.Format(time.DateTime), rec.Intent, rec.Text, rec.Outcome)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 10, "Number of entries to show")
	cmd.Flags().BoolVar(&clear, "clear", false, "Truncate the journal")
	return cmd
}
