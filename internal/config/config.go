package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"foldr/internal/errors"

	"github.com/gobwas/glob"
)

// DefaultCategory always exists and can be neither renamed nor removed.
const DefaultCategory = "Default"

// MaxRecent caps the recent-targets list.
const MaxRecent = 10

// TimestampLayout is the layout of HistoryEntry.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Action identifies what a history entry records.
type Action string

const (
	ActionMove      Action = "Move"
	ActionSetTarget Action = "SetTarget"
)

// TargetFolder is a configured destination a folder can be moved into.
type TargetFolder struct {
	Path        string `yaml:"path" toml:"path"`
	DisplayName string `yaml:"display_name" toml:"display_name"`
	Category    string `yaml:"category,omitempty" toml:"category,omitempty"`
}

// CategoryName returns the folder's category, treating empty as Default.
func (t TargetFolder) CategoryName() string {
	if t.Category == "" {
		return DefaultCategory
	}
	return t.Category
}

// HistoryEntry is one record of the append-only action log.
type HistoryEntry struct {
	Action    Action `yaml:"action" toml:"action"`
	Path      string `yaml:"path" toml:"path"`
	Extra     string `yaml:"extra,omitempty" toml:"extra,omitempty"`
	Timestamp string `yaml:"timestamp" toml:"timestamp"`
	Category  string `yaml:"category,omitempty" toml:"category,omitempty"` // set on SetTarget entries
}

// Settings holds the user toggles and resource locations.
type Settings struct {
	ConfirmBeforeMove  bool     `yaml:"confirm_before_move" toml:"confirm_before_move"`
	ShowScriptWarnings bool     `yaml:"show_script_warnings" toml:"show_script_warnings"`
	ShowPatchDialog    bool     `yaml:"show_patch_dialog" toml:"show_patch_dialog"`
	ShowRecentTargets  bool     `yaml:"show_recent_targets" toml:"show_recent_targets"`
	JumpToNewFolder    bool     `yaml:"jump_to_new_folder" toml:"jump_to_new_folder"`
	ShowDebugLogs      bool     `yaml:"show_debug_logs" toml:"show_debug_logs"`
	EnableExperimental bool     `yaml:"enable_experimental" toml:"enable_experimental"`
	Language           string   `yaml:"language" toml:"language"`                         // locale code for UI strings
	LocaleDir          string   `yaml:"locale_dir,omitempty" toml:"locale_dir,omitempty"` // empty means built-in tables
	ScriptPatterns     []string `yaml:"script_patterns" toml:"script_patterns"`           // globs selecting script files
}

// Config is the persisted aggregate: targets, categories, recents, history
// and settings.
type Config struct {
	Settings   Settings       `yaml:"settings" toml:"settings"`
	Targets    []TargetFolder `yaml:"targets" toml:"targets"`
	Categories []string       `yaml:"categories" toml:"categories"` // custom categories in user order
	Recent     []string       `yaml:"recent" toml:"recent"`
	History    []HistoryEntry `yaml:"history" toml:"history"`
}

// defaultConfig returns the configuration used for a fresh project.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Settings.ConfirmBeforeMove = true
	cfg.Settings.ShowScriptWarnings = true
	cfg.Settings.ShowPatchDialog = true
	cfg.Settings.ShowRecentTargets = true
	cfg.Settings.JumpToNewFolder = true
	cfg.Settings.ShowDebugLogs = false
	cfg.Settings.EnableExperimental = false
	cfg.Settings.Language = "en"
	cfg.Settings.ScriptPatterns = []string{"**.cs"}

	cfg.Targets = []TargetFolder{}
	cfg.Categories = []string{}
	cfg.Recent = []string{}
	cfg.History = []HistoryEntry{}
	return cfg
}

// New returns a configuration populated with defaults.
func New() *Config {
	return defaultConfig()
}

// DefaultPath returns the config location for a project root.
func DefaultPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".foldr", "config.yaml")
}

// LoadConfigFile loads configuration from path. A missing file yields the
// defaults; fields absent from the file keep their default values.
func LoadConfigFile(p string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", p, errors.InvalidConfig, err)
	}

	if err := codecFor(p).Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", p, errors.InvalidConfig, err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(cfg *Config, p string) error {
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return errors.NewFileError("failed to create config directory", filepath.Dir(p), errors.FileOperationFailed, err)
	}

	data, err := codecFor(p).Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.NewFileError("failed to write config file", p, errors.FileOperationFailed, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return errors.NewFileError("failed to write config file", p, errors.FileOperationFailed, err)
	}
	return nil
}

// normalize fills nil slices left by decoders and cleans stored paths.
func (c *Config) normalize() {
	if c.Targets == nil {
		c.Targets = []TargetFolder{}
	}
	if c.Categories == nil {
		c.Categories = []string{}
	}
	if c.Recent == nil {
		c.Recent = []string{}
	}
	if c.History == nil {
		c.History = []HistoryEntry{}
	}
	if c.Settings.Language == "" {
		c.Settings.Language = "en"
	}
	if len(c.Settings.ScriptPatterns) == 0 {
		c.Settings.ScriptPatterns = []string{"**.cs"}
	}
	for i := range c.Targets {
		c.Targets[i].Path = CleanPath(c.Targets[i].Path)
	}
	for i := range c.Recent {
		c.Recent[i] = CleanPath(c.Recent[i])
	}
}

// Validate checks structural invariants of the configuration.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	seen := make(map[string]bool, len(c.Targets))
	for i, t := range c.Targets {
		param := fmt.Sprintf("targets[%d]", i)
		if t.Path == "" {
			return errors.NewConfigError("target path is required", param, errors.InvalidConfig, nil)
		}
		if seen[t.Path] {
			return errors.NewConfigError("duplicate target path "+t.Path, param, errors.InvalidConfig, nil)
		}
		seen[t.Path] = true
	}

	for i, h := range c.History {
		if h.Action != ActionMove && h.Action != ActionSetTarget {
			return errors.NewConfigError(fmt.Sprintf("unknown history action %q", h.Action), fmt.Sprintf("history[%d]", i), errors.InvalidConfig, nil)
		}
	}

	if len(c.Recent) > MaxRecent {
		return errors.NewConfigError(fmt.Sprintf("more than %d recent targets", MaxRecent), "recent", errors.InvalidConfig, nil)
	}

	for i, p := range c.Settings.ScriptPatterns {
		if _, err := glob.Compile(p, '/'); err != nil {
			return errors.NewConfigError("invalid script pattern "+p, fmt.Sprintf("settings.script_patterns[%d]", i), errors.InvalidConfig, err)
		}
	}
	return nil
}

// CleanPath converts p to the stored form: forward slashes, no trailing slash.
func CleanPath(p string) string {
	p = strings.TrimSpace(filepath.ToSlash(p))
	if p == "" {
		return ""
	}
	return path.Clean(p)
}

// InProject reports whether the cleaned path p names an entry below the
// project root. The root itself, parent references and absolute paths do not.
func InProject(p string) bool {
	if p == "" || p == "." || p == ".." || strings.HasPrefix(p, "../") {
		return false
	}
	return !path.IsAbs(p) && !filepath.IsAbs(filepath.FromSlash(p))
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Settings.ScriptPatterns = append([]string(nil), c.Settings.ScriptPatterns...)
	out.Targets = append([]TargetFolder{}, c.Targets...)
	out.Categories = append([]string{}, c.Categories...)
	out.Recent = append([]string{}, c.Recent...)
	out.History = append([]HistoryEntry{}, c.History...)
	return &out
}
