package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string `mapstructure:"format"`
	Quiet   bool   `mapstructure:"quiet"`
	Verbose bool   `mapstructure:"verbose"`

	// Where the notes live and how session files are named
	Notes NotesConfig `mapstructure:"notes"`
}

// NotesConfig holds the paths and naming shared by every stage
type NotesConfig struct {
	Dir      string `mapstructure:"dir"`
	Source   string `mapstructure:"source"`
	Summary  string `mapstructure:"summary"`
	Tag      string `mapstructure:"tag"`
	Manifest string `mapstructure:"manifest"` // empty = <dir>/.sessnotes-manifest.json
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Format:  "text",
		Quiet:   false,
		Verbose: false,
		Notes: NotesConfig{
			Dir:     ".",
			Source:  "session_notes.md",
			Summary: "summary_session_notes.md",
			Tag:     "tts-stt-cursor",
		},
	}
}

// Load loads configuration from files and environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	// Add config paths (first match wins)
	// 1. Current directory
	v.AddConfigPath(".")
	// 2. Home directory
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	// 3. User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "sessnotes"))
	}
	// 4. System-wide config
	v.AddConfigPath("/etc/sessnotes/")

	// .sessnotesrc in any of the above
	v.SetConfigName(".sessnotesrc")

	// Environment variables
	v.SetEnvPrefix("SESSNOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.BindEnv("format", "SESSNOTES_FORMAT")
	v.BindEnv("quiet", "SESSNOTES_QUIET")
	v.BindEnv("verbose", "SESSNOTES_VERBOSE")
	v.BindEnv("notes.dir", "SESSNOTES_DIR")
	v.BindEnv("notes.source", "SESSNOTES_SOURCE")
	v.BindEnv("notes.summary", "SESSNOTES_SUMMARY")
	v.BindEnv("notes.tag", "SESSNOTES_TAG")
	v.BindEnv("notes.manifest", "SESSNOTES_MANIFEST")

	cfg := Default()
	setDefaults(v, cfg)

	// Try to read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error occurred
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that would be loaded, or ""
func ConfigFile() string {
	v := viper.New()

	v.SetConfigName(".sessnotesrc")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "sessnotes"))
	}

	if err := v.ReadInConfig(); err == nil {
		return v.ConfigFileUsed()
	}

	return ""
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("format", cfg.Format)
	v.SetDefault("quiet", cfg.Quiet)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("notes.dir", cfg.Notes.Dir)
	v.SetDefault("notes.source", cfg.Notes.Source)
	v.SetDefault("notes.summary", cfg.Notes.Summary)
	v.SetDefault("notes.tag", cfg.Notes.Tag)
	v.SetDefault("notes.manifest", cfg.Notes.Manifest)
}
