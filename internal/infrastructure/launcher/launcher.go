// Package launcher starts external programs for the OPEN_APP and OPEN_FILE
// intents. App launches are validated against a static per-platform
// whitelist resolved once at construction; anything else fails closed with
// no process spawned. User text is never assembled into a shell command
// line.
package launcher

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/doeshing/vshell/internal/domain"
	"github.com/doeshing/vshell/internal/ports"
)

// platformApps maps canonical app tokens to executables per GOOS. Tokens the
// parser emits that are missing here are rejected.
var platformApps = map[string]map[string]string{
	"windows": {
		"notepad": "notepad",
		"calc":    "calc",
		"mspaint": "mspaint",
	},
	"linux": {
		"gedit":      "gedit",
		"calculator": "gnome-calculator",
		"code":       "code",
	},
	"darwin": {
		"calc":    "Calculator",
		"notepad": "TextEdit",
	},
}

// AppLauncher implements ports.Launcher.
type AppLauncher struct {
	goos    string
	allowed map[string]string
	log     ports.Logger

	// start spawns a detached process; swapped in tests.
	start func(name string, args ...string) error
}

// New resolves the whitelist for the current platform, merged with any
// configured extra entries. Extras cannot shadow built-in tokens.
func New(extra map[string]string, log ports.Logger) *AppLauncher {
	return newForOS(runtime.GOOS, extra, log)
}

func newForOS(goos string, extra map[string]string, log ports.Logger) *AppLauncher {
	allowed := make(map[string]string)
	for app, bin := range extra {
		allowed[app] = bin
	}
	for app, bin := range platformApps[goos] {
		allowed[app] = bin
	}
	return &AppLauncher{
		goos:    goos,
		allowed: allowed,
		log:     log,
		start:   startProcess,
	}
}

// OpenApp implements ports.Launcher. The token is looked up before anything
// runs; only whitelisted executables are ever eligible.
func (l *AppLauncher) OpenApp(app string) error {
	bin, ok := l.allowed[app]
	if !ok {
		return fmt.Errorf("%q: %w", app, domain.ErrUnsupportedApp)
	}
	if l.goos == "darwin" {
		return l.start("open", "-a", bin)
	}
	return l.start(bin)
}

// OpenPath implements ports.Launcher: hands an absolute path to the
// platform's file-association handler.
func (l *AppLauncher) OpenPath(path string) error {
	switch l.goos {
	case "windows":
		return l.start("rundll32", "url.dll,FileProtocolHandler", path)
	case "darwin":
		return l.start("open", path)
	default:
		return l.start("xdg-open", path)
	}
}

// Allowed reports the whitelisted app tokens, for doctor output.
func (l *AppLauncher) Allowed() []string {
	apps := make([]string, 0, len(l.allowed))
	for app := range l.allowed {
		apps = append(apps, app)
	}
	return apps
}

func startProcess(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Detach: reap the child in the background so it never blocks the
	// command loop.
	go func() { _ = cmd.Wait() }()
	return nil
}

var _ ports.Launcher = (*AppLauncher)(nil)
