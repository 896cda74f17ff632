// Package config loads YAML configuration from ~/.vshell/config.yaml
// (overridable via VSHELL_CONFIG or an explicit path). A missing file is
// seeded with defaults on first load.
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/vshell/internal/domain"
	"github.com/doeshing/vshell/internal/ports"
)

// FileLoader loads the configuration file.
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader. path overrides the default location
// when non-empty.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.resolvePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := Default()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

// Path reports the file the loader reads from.
func (l *FileLoader) Path() string { return l.resolvePath() }

func (l *FileLoader) resolvePath() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("VSHELL_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return filepath.Join(userHomeDir(), ".vshell", "config.yaml")
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// Default returns the configuration written on first run.
func Default() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Sandbox: domain.SandboxConfig{
			Path: "sandbox",
		},
		Speech: domain.SpeechConfig{
			TTSEnabled:           true,
			Beep:                 true,
			ListenTimeoutSeconds: 5,
			PhraseLimitSeconds:   6,
		},
		History: domain.HistoryConfig{
			DefaultCount: 10,
		},
	}
}

// hydrateDefaults fills gaps a hand-edited file may leave.
func hydrateDefaults(cfg domain.Config) domain.Config {
	def := Default()
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = def.ConfigFormatVersion
	}
	if cfg.Sandbox.Path == "" {
		cfg.Sandbox.Path = def.Sandbox.Path
	}
	if cfg.Speech.ListenTimeoutSeconds <= 0 {
		cfg.Speech.ListenTimeoutSeconds = def.Speech.ListenTimeoutSeconds
	}
	if cfg.Speech.PhraseLimitSeconds <= 0 {
		cfg.Speech.PhraseLimitSeconds = def.Speech.PhraseLimitSeconds
	}
	if cfg.History.DefaultCount <= 0 {
		cfg.History.DefaultCount = def.History.DefaultCount
	}
	return cfg
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		return filepath.Join(userHomeDir(), strings.TrimPrefix(path, "~"))
	}
	return path
}

func userHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
