package domain

// Config is the persisted user configuration, loaded from
// ~/.vshell/config.yaml (overridable via VSHELL_CONFIG).
type Config struct {
	ConfigFormatVersion string         `yaml:"config_format_version"`
	Sandbox             SandboxConfig  `yaml:"sandbox"`
	Speech              SpeechConfig   `yaml:"speech"`
	History             HistoryConfig  `yaml:"history"`
	Launcher            LauncherConfig `yaml:"launcher"`
}

// SandboxConfig locates the directory subtree all file operations are
// confined to. The directory is created at startup when missing.
type SandboxConfig struct {
	Path string `yaml:"path"`
}

// SpeechConfig tunes the voice front end. The capture and synthesis engines
// are external collaborators; these knobs only shape how VShell drives them.
type SpeechConfig struct {
	TTSEnabled           bool `yaml:"tts_enabled"`
	Beep                 bool `yaml:"beep"`
	ListenTimeoutSeconds int  `yaml:"listen_timeout_seconds"`
	PhraseLimitSeconds   int  `yaml:"phrase_limit_seconds"`
}

// HistoryConfig locates the interaction journal.
type HistoryConfig struct {
	// Path of the SQLite database. Empty means the default
	// ~/.vshell/history/history.db.
	Path string `yaml:"path"`

	// DefaultCount is the entry count used when an utterance asks for
	// history without a number.
	DefaultCount int `yaml:"default_count"`
}

// LauncherConfig extends the built-in platform app whitelist. Keys are the
// spoken app words, values the executable tokens to launch. Entries here are
// additive; they cannot remove built-in whitelist entries.
type LauncherConfig struct {
	ExtraApps map[string]string `yaml:"extra_apps"`
}
