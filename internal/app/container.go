// Package app wires up application services with infrastructure adapters.
package app

import (
	"context"

	"github.com/doeshing/vshell/internal/application/doctor"
	"github.com/doeshing/vshell/internal/application/shell"
	"github.com/doeshing/vshell/internal/domain"
	"github.com/doeshing/vshell/internal/infrastructure/config"
	"github.com/doeshing/vshell/internal/infrastructure/executor"
	"github.com/doeshing/vshell/internal/infrastructure/history"
	"github.com/doeshing/vshell/internal/infrastructure/launcher"
	"github.com/doeshing/vshell/internal/infrastructure/parser"
	"github.com/doeshing/vshell/internal/infrastructure/sandbox"
	"github.com/doeshing/vshell/internal/pkg/logger"
	"github.com/doeshing/vshell/internal/ports"
)

// Options tune container construction from the CLI layer.
type Options struct {
	Verbose bool

	// ConfigPath overrides the config file location when non-empty.
	ConfigPath string

	// SandboxPath overrides the configured sandbox directory when non-empty.
	SandboxPath string
}

// Container holds the constructed dependency graph.
type Container struct {
	Config        domain.Config
	ConfigLoader  *config.FileLoader
	State         *sandbox.State
	ShellService  *shell.Service
	DoctorService *doctor.Service
	Journal       ports.HistoryRepository
	Launcher      *launcher.AppLauncher
	Logger        ports.Logger
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	cfgLoader := config.NewFileLoader(opts.ConfigPath)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(opts.Verbose)

	sandboxPath := cfg.Sandbox.Path
	if opts.SandboxPath != "" {
		sandboxPath = opts.SandboxPath
	}
	state, err := sandbox.NewState(sandboxPath)
	if err != nil {
		return nil, err
	}

	journal := history.NewSQLiteStore(cfg.History.Path)
	appLauncher := launcher.New(cfg.Launcher.ExtraApps, log)
	exec := executor.New(state, appLauncher, log)

	shellService := &shell.Service{
		Parser:   parser.New(),
		Executor: exec,
		Journal:  journal,
		Logger:   log,
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		State:          state,
		Journal:        journal,
		Launcher:       appLauncher,
	}

	return &Container{
		Config:        cfg,
		ConfigLoader:  cfgLoader,
		State:         state,
		ShellService:  shellService,
		DoctorService: doctorService,
		Journal:       journal,
		Launcher:      appLauncher,
		Logger:        log,
	}, nil
}
