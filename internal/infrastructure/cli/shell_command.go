package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/vshell/internal/app"
	"github.com/doeshing/vshell/internal/infrastructure/speech"
	"github.com/doeshing/vshell/internal/ports"
)

type shellFlags struct {
	noTTS bool
	voice bool
}

func addShellFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-tts", false, "Disable spoken feedback")
	cmd.Flags().Bool("voice", false, "Read commands from the speech engine instead of stdin")
}

func shellFlagsFrom(cmd *cobra.Command) shellFlags {
	noTTS, _ := cmd.Flags().GetBool("no-tts")
	voice, _ := cmd.Flags().GetBool("voice")
	return shellFlags{noTTS: noTTS, voice: voice}
}

func newShellCommand(opts Options, build func(*cobra.Command) (*app.Container, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := build(cmd)
			if err != nil {
				return err
			}
			return runShell(cmd, container, opts, shellFlagsFrom(cmd))
		},
	}
	addShellFlags(cmd)
	return cmd
}

// runShell drives the single command stream: one utterance is fully parsed,
// dispatched and executed before the next is read.
func runShell(cmd *cobra.Command, container *app.Container, opts Options, flags shellFlags) error {
	out := cmd.OutOrStdout()
	speaker := pickSpeaker(container, flags, out)
	source, mode, err := pickSource(container, opts, flags, cmd.InOrStdin())
	if err != nil {
		return err
	}
	service := container.ShellService

	PrintBanner(out)
	service.Start(mode)
	defer service.Shutdown()

	ctx := cmd.Context()
	for {
		fmt.Fprint(out, Prompt(container.State.Rel(container.State.Cwd())))
		text, ok, err := source.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		// Nothing heard or typed is a no-op, not an unknown command.
		if text == "" {
			continue
		}

		resp := service.Handle(text)
		fmt.Fprintln(out, resp.Text)
		speaker.Say(resp.Speak)
		if resp.Exit {
			return nil
		}
	}
}

func pickSpeaker(container *app.Container, flags shellFlags, out io.Writer) ports.Speaker {
	if flags.noTTS || !container.Config.Speech.TTSEnabled {
		return speech.NullSpeaker{}
	}
	return speech.WriterSpeaker{W: out}
}

// pickSource selects where utterances come from. The default is line-based
// stdin; --voice swaps in a capture manager over the configured transcriber
// with the configured listen timeout.
func pickSource(container *app.Container, opts Options, flags shellFlags, in io.Reader) (ports.InputSource, string, error) {
	if !flags.voice {
		return speech.NewTextSource(in), "text", nil
	}
	if opts.Transcriber == nil {
		return nil, "", errors.New("voice mode requires a speech engine; none is configured")
	}
	timeout := time.Duration(container.Config.Speech.ListenTimeoutSeconds) * time.Second
	return speech.NewCaptureManager(opts.Transcriber, timeout, container.Logger), "voice", nil
}
