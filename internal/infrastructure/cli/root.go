// Package cli wires the cobra command surface: the interactive shell loop,
// one-shot command execution, and the journal/config/doctor utilities.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/vshell/internal/app"
	"github.com/doeshing/vshell/internal/ports"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool

	// Transcriber, when set, backs the shell's --voice mode. Builds without
	// a speech engine leave it nil and --voice reports it is unavailable.
	Transcriber ports.Transcriber
}

// NewRootCmd wires the cobra root command. Running vshell with no
// subcommand starts the interactive shell.
func NewRootCmd(opts Options) *cobra.Command {
	var (
		configPath  string
		sandboxPath string
	)

	root := &cobra.Command{
		Use:   "vshell",
		Short: "VShell - natural language sandbox shell",
		Long:  "VShell maps natural language phrases to sandboxed file operations with spoken and printed feedback.",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd, opts, configPath, sandboxPath)
			if err != nil {
				return err
			}
			return runShell(cmd, container, opts, shellFlagsFrom(cmd))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default ~/.vshell/config.yaml)")
	root.PersistentFlags().StringVar(&sandboxPath, "sandbox", "", "Sandbox directory (default from config)")
	addShellFlags(root)

	build := func(cmd *cobra.Command) (*app.Container, error) {
		return buildContainer(cmd, opts, configPath, sandboxPath)
	}

	root.AddCommand(newShellCommand(opts, build))
	root.AddCommand(newRunCommand(build))
	root.AddCommand(newHistoryCommand(build))
	root.AddCommand(newConfigCommand(build))
	root.AddCommand(newDoctorCommand(build))
	return root
}

func buildContainer(cmd *cobra.Command, opts Options, configPath, sandboxPath string) (*app.Container, error) {
	return app.BuildContainer(cmd.Context(), app.Options{
		Verbose:     opts.Verbose,
		ConfigPath:  configPath,
		SandboxPath: sandboxPath,
	})
}
