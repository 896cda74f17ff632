// Package doctor runs environment diagnostics: configuration, sandbox
// directory, journal reachability and launcher whitelist.
package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/doeshing/vshell/internal/domain"
	"github.com/doeshing/vshell/internal/infrastructure/launcher"
	"github.com/doeshing/vshell/internal/infrastructure/sandbox"
	"github.com/doeshing/vshell/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	State          *sandbox.State
	Journal        ports.HistoryRepository
	Launcher       *launcher.AppLauncher
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))

	checks = append(checks, s.sandboxCheck())
	checks = append(checks, s.journalCheck())
	checks = append(checks, s.launcherCheck())

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) sandboxCheck() domain.HealthCheck {
	if s.State == nil {
		return fail("Sandbox", "not initialized")
	}
	root := s.State.Root()
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return fail("Sandbox", fmt.Sprintf("%s missing or not a directory", root))
	}
	probe := filepath.Join(root, ".vshell-doctor")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return warn("Sandbox", fmt.Sprintf("%s not writable: %v", root, err))
	}
	_ = os.Remove(probe)
	return ok("Sandbox", root)
}

func (s *Service) journalCheck() domain.HealthCheck {
	if s.Journal == nil {
		return warn("Journal", "history store not initialized")
	}
	if _, err := s.Journal.Recent(1); err != nil {
		return warn("Journal", err.Error())
	}
	return ok("Journal", "reachable")
}

func (s *Service) launcherCheck() domain.HealthCheck {
	if s.Launcher == nil {
		return warn("App whitelist", "launcher not initialized")
	}
	apps := s.Launcher.Allowed()
	if len(apps) == 0 {
		return warn("App whitelist", "empty for this platform")
	}
	sort.Strings(apps)
	return ok("App whitelist", fmt.Sprintf("%d apps: %v", len(apps), apps))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
