// Package config provides configuration types, defaults and loading for the editor.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/xyproto/rowed/internal/log"
)

// AppName names the config directory.
const AppName = "rowed"

// Config holds all configuration options for the editor.
type Config struct {
	TabStop        int           `mapstructure:"tab_stop"`
	QuitTimes      int           `mapstructure:"quit_times"`
	MessageTimeout time.Duration `mapstructure:"message_timeout"`
	AltScreen      bool          `mapstructure:"alt_screen"`
	WatchFile      bool          `mapstructure:"watch_file"`
	Keys           KeysConfig    `mapstructure:"keys"`
	Log            LogConfig     `mapstructure:"log"`
}

// KeysConfig holds the control-key bindings, written as "ctrl-q" or "ctrl+q".
type KeysConfig struct {
	Quit string `mapstructure:"quit"`
	Save string `mapstructure:"save"`
}

// LogConfig selects the log destination. An empty File disables logging.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		TabStop:        8,
		QuitTimes:      3,
		MessageTimeout: 5 * time.Second,
		AltScreen:      true,
		WatchFile:      true,
		Keys: KeysConfig{
			Quit: "ctrl-q",
			Save: "ctrl-s",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultDir returns the directory searched for config.yaml when no explicit
// path is given.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName)
}

// Load reads configuration from path, or from config.yaml in DefaultDir when
// path is empty. A missing default file is not an error; a missing explicit
// file is. Returns the config and the file actually used ("" for defaults).
func Load(path string) (Config, string, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(DefaultDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, "", fmt.Errorf("reading config: %w", err)
		}
		log.Debug(log.CatConfig, "no config file, using defaults", "dir", DefaultDir())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", fmt.Errorf("invalid config: %w", err)
	}
	return cfg, v.ConfigFileUsed(), nil
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("tab_stop", d.TabStop)
	v.SetDefault("quit_times", d.QuitTimes)
	v.SetDefault("message_timeout", d.MessageTimeout)
	v.SetDefault("alt_screen", d.AltScreen)
	v.SetDefault("watch_file", d.WatchFile)
	v.SetDefault("keys.quit", d.Keys.Quit)
	v.SetDefault("keys.save", d.Keys.Save)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
}

// reserved control bytes already bound by the editor itself.
var reserved = map[byte]string{
	'h' & 0x1f: "backspace",
	'i' & 0x1f: "tab",
	'm' & 0x1f: "enter",
}

// Validate checks that the configuration can drive an editor session.
func (c Config) Validate() error {
	if c.TabStop < 1 {
		return fmt.Errorf("tab_stop must be at least 1, got %d", c.TabStop)
	}
	if c.QuitTimes < 0 {
		return fmt.Errorf("quit_times must not be negative, got %d", c.QuitTimes)
	}
	if c.MessageTimeout <= 0 {
		return fmt.Errorf("message_timeout must be positive, got %s", c.MessageTimeout)
	}
	quit, err := ParseControlKey(c.Keys.Quit)
	if err != nil {
		return fmt.Errorf("keys.quit: %w", err)
	}
	save, err := ParseControlKey(c.Keys.Save)
	if err != nil {
		return fmt.Errorf("keys.save: %w", err)
	}
	if quit == save {
		return fmt.Errorf("keys.quit and keys.save are both %q", c.Keys.Quit)
	}
	for name, k := range map[string]byte{"keys.quit": quit, "keys.save": save} {
		if what, ok := reserved[k]; ok {
			return fmt.Errorf("%s: control key collides with %s", name, what)
		}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// QuitKey returns the control byte bound to quit. Validate must have passed.
func (c Config) QuitKey() byte {
	k, _ := ParseControlKey(c.Keys.Quit)
	return k
}

// SaveKey returns the control byte bound to save. Validate must have passed.
func (c Config) SaveKey() byte {
	k, _ := ParseControlKey(c.Keys.Save)
	return k
}

// ParseControlKey converts "ctrl-q", "ctrl+q" or "^Q" to the byte the
// terminal sends for that chord in raw mode.
func ParseControlKey(s string) (byte, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(k, "ctrl-"), strings.HasPrefix(k, "ctrl+"):
		k = k[len("ctrl-"):]
	case strings.HasPrefix(k, "^"):
		k = k[1:]
	default:
		return 0, fmt.Errorf("%q is not a control key", s)
	}
	if len(k) != 1 || k[0] < 'a' || k[0] > 'z' {
		return 0, fmt.Errorf("%q is not a control key", s)
	}
	return k[0] & 0x1f, nil
}

// Marshal renders the configuration as YAML in the same shape Load reads.
func Marshal(c Config) ([]byte, error) {
	doc := map[string]any{
		"tab_stop":        c.TabStop,
		"quit_times":      c.QuitTimes,
		"message_timeout": c.MessageTimeout.String(),
		"alt_screen":      c.AltScreen,
		"watch_file":      c.WatchFile,
		"keys": map[string]string{
			"quit": c.Keys.Quit,
			"save": c.Keys.Save,
		},
		"log": map[string]string{
			"file":  c.Log.File,
			"level": c.Log.Level,
		},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}
