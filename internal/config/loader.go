package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"

	"github.com/spf13/viper"
)

// envBindings maps config keys to the environment variables that override
// them. The variable names are the ones the bot has always read.
var envBindings = map[string]string{
	"providers.openai.apiKey":     "OPENAI_API_KEY",
	"providers.openrouter.apiKey": "OPENROUTER_API_KEY",
	"tools.weather.apiKey":        "RAPID_API_KEY",
	"tools.news.apiKey":           "NEWS_API_KEY",
	"channels.telegram.token":     "TELEGRAM_BOT_TOKEN",
}

// ConfigPath returns the default configuration file path: ~/.weatherbot/config.json.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".weatherbot/config.json"
	}
	return filepath.Join(home, ".weatherbot", "config.json")
}

// DataDir returns the weatherbot data directory: ~/.weatherbot.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".weatherbot"
	}
	return filepath.Join(home, ".weatherbot")
}

// Load reads the config file at path and layers environment overrides on
// top of it. If path is empty, ConfigPath() is used. A missing file yields
// the defaults; an unreadable or unparsable one logs a warning and also
// falls back to the defaults. Credentials are never validated here.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Failed to read config, using defaults", "path", path, "error", err)
		}
		v = newViper()
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	expandEnvStrings(&cfg)

	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	for key, env := range envBindings {
		// BindEnv only errors when called without a key.
		_ = v.BindEnv(key, env)
	}
	return v
}

// Save writes cfg to path as indented JSON.
// If path is empty, ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// expandEnvStrings replaces ${VAR} references in every string field,
// including string slices and string-valued maps.
func expandEnvStrings(cfg *Config) {
	expandValue(reflect.ValueOf(cfg))
}

func expandValue(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		expandValue(v.Elem())
		return
	}
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			expandValue(v.Field(i))
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(os.ExpandEnv(v.String()))
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			expandValue(v.Index(i))
		}
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String && v.Type().Elem().Kind() == reflect.String {
			for _, key := range v.MapKeys() {
				expanded := os.ExpandEnv(v.MapIndex(key).String())
				v.SetMapIndex(key, reflect.ValueOf(expanded).Convert(v.Type().Elem()))
			}
		}
	}
}
