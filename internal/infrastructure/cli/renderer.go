package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

// PrintBanner writes the welcome banner.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, "+--------------------------------------+")
	fmt.Fprintln(w, "|           VShell v1.0                |")
	fmt.Fprintln(w, "|   Voice/Text controlled sandbox      |")
	fmt.Fprintln(w, "+--------------------------------------+")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Say 'help' for available commands")
	fmt.Fprintln(w)
}

// Prompt renders the shell prompt for the given sandbox-relative directory.
// Color is used only on a real terminal.
func Prompt(rel string) string {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Sprintf("%svshell %s>%s ", colorCyan, rel, colorReset)
	}
	return fmt.Sprintf("vshell %s> ", rel)
}
