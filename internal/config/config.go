// Package config loads coverart settings.
//
// Sources are applied in order, later ones winning: built-in defaults, the
// YAML file, COVERART_ environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/simonhull/coverart"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "COVERART_"

// Config is the full set of coverart settings.
type Config struct {
	Backend       string         `koanf:"backend"`
	TagVersion    int            `koanf:"tag_version"`
	DefaultArtist string         `koanf:"default_artist"`
	MaxCoverSize  int            `koanf:"max_cover_size"`
	Save          SaveConfig     `koanf:"save"`
	Log           LogConfig      `koanf:"log"`
	Dropzone      DropzoneConfig `koanf:"dropzone"`
}

// SaveConfig holds defaults for SaveTags options.
type SaveConfig struct {
	BackupSuffix  string `koanf:"backup_suffix"`
	Validate      bool   `koanf:"validate"`
	PreserveMtime bool   `koanf:"preserve_mtime"`
}

// LogConfig selects logger level and encoding.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DropzoneConfig configures the watched drop folder of the editor.
type DropzoneConfig struct {
	Dir      string        `koanf:"dir"`
	Debounce time.Duration `koanf:"debounce"`
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"backend":             coverart.DefaultBackend,
		"tag_version":         int(coverart.ID3v23),
		"default_artist":      "Unknown Artist",
		"max_cover_size":      0,
		"save.backup_suffix":  "",
		"save.validate":       false,
		"save.preserve_mtime": false,
		"log.level":           "warn",
		"log.format":          "console",
		"dropzone.dir":        "",
		"dropzone.debounce":   "250ms",
	}
}

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
}

// Option configures a Loader.
type Option func(*Loader)

// WithConfigFile sets the YAML file to load. An empty path loads none.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithEnvPrefix overrides EnvPrefix. Used by tests.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// NewLoader creates a loader seeded with Defaults.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: EnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load applies defaults, the file, the environment and then overrides, and
// returns the validated result. overrides holds flag values keyed like the
// YAML file ("save.validate").
func (l *Loader) Load(overrides map[string]any) (*Config, error) {
	if err := l.k.Load(mapProvider(Defaults()), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if l.filePath != "" {
		if err := l.k.Load(file.Provider(l.filePath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", l.filePath, err)
		}
	}

	if err := l.k.Load(env.Provider(l.envPrefix, ".", l.envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if len(overrides) > 0 {
		if err := l.k.Load(mapProvider(overrides), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps COVERART_SAVE__BACKUP_SUFFIX to save.backup_suffix.
// A double underscore separates sections since keys contain underscores.
func (l *Loader) envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !coverart.TagVersion(c.TagVersion).Valid() {
		return fmt.Errorf("tag_version %d: want 3 or 4", c.TagVersion)
	}
	if c.MaxCoverSize < 0 {
		return errors.New("max_cover_size must not be negative")
	}
	if c.Dropzone.Debounce < 0 {
		return errors.New("dropzone.debounce must not be negative")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format %q: want json or console", c.Log.Format)
	}
	return nil
}

// AccessorOptions returns the coverart options this config selects.
func (c *Config) AccessorOptions() []coverart.Option {
	return []coverart.Option{
		coverart.WithBackend(c.Backend),
		coverart.WithMaxCoverSize(c.MaxCoverSize),
	}
}

// SaveOptions returns the SaveTags options this config selects.
func (c *Config) SaveOptions() []coverart.SaveOption {
	opts := []coverart.SaveOption{coverart.WithTagVersion(coverart.TagVersion(c.TagVersion))}
	if c.Save.BackupSuffix != "" {
		opts = append(opts, coverart.WithBackup(c.Save.BackupSuffix))
	}
	if c.Save.Validate {
		opts = append(opts, coverart.WithValidation())
	}
	if c.Save.PreserveMtime {
		opts = append(opts, coverart.WithPreserveModTime())
	}
	return opts
}

// mapProvider is a koanf provider over an in-memory map.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("config: map provider does not support ReadBytes")
}

func (m mapProvider) Read() (map[string]any, error) {
	return unflatten(m), nil
}

// unflatten turns {"save.validate": true} into {"save": {"validate": true}}.
func unflatten(flat map[string]any) map[string]any {
	out := make(map[string]any)
	for key, v := range flat {
		parts := strings.Split(key, ".")
		m := out
		for _, p := range parts[:len(parts)-1] {
			next, ok := m[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				m[p] = next
			}
			m = next
		}
		m[parts[len(parts)-1]] = v
	}
	return out
}
