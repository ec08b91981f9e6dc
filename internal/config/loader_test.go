package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// clearEnv unsets every overriding variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
	}
}

func TestLoad_NonExistent(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agents.Defaults.Model != def.Agents.Defaults.Model {
		t.Errorf("expected default model %q, got %q", def.Agents.Defaults.Model, cfg.Agents.Defaults.Model)
	}
	if cfg.Tools.Weather.APIHost != "weatherapi-com.p.rapidapi.com" {
		t.Errorf("expected default weather host, got %q", cfg.Tools.Weather.APIHost)
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"agents": map[string]any{
			"defaults": map[string]any{
				"model":     "openai/gpt-4o",
				"maxTokens": 4096,
			},
		},
		"tools": map[string]any{
			"news": map[string]any{"apiKey": "news-from-file"},
		},
		"channels": map[string]any{
			"telegram": map[string]any{"enabled": true, "allowFrom": []string{"42", "alice"}},
		},
		"gateway": map[string]any{
			"briefings": []map[string]any{
				{"name": "morning", "cron": "0 7 * * *", "message": "weather in Paris", "chatId": "42"},
			},
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Agents.Defaults.Model != "openai/gpt-4o" {
		t.Errorf("expected model %q, got %q", "openai/gpt-4o", cfg.Agents.Defaults.Model)
	}
	if cfg.Agents.Defaults.MaxTokens != 4096 {
		t.Errorf("expected maxTokens 4096, got %d", cfg.Agents.Defaults.MaxTokens)
	}
	if cfg.Tools.News.APIKey != "news-from-file" {
		t.Errorf("expected news key from file, got %q", cfg.Tools.News.APIKey)
	}
	if !cfg.Channels.Telegram.Enabled || len(cfg.Channels.Telegram.AllowFrom) != 2 {
		t.Errorf("telegram config not loaded: %+v", cfg.Channels.Telegram)
	}
	if len(cfg.Gateway.Briefings) != 1 || cfg.Gateway.Briefings[0].ChatID != "42" {
		t.Errorf("briefings not loaded: %+v", cfg.Gateway.Briefings)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("RAPID_API_KEY", "rapid-env")
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"providers": map[string]any{
			"openai": map[string]any{"apiKey": "sk-file"},
		},
		"tools": map[string]any{
			"news": map[string]any{"apiKey": "news-file"},
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Providers.OpenAI.APIKey != "sk-env" {
		t.Errorf("expected env OpenAI key, got %q", cfg.Providers.OpenAI.APIKey)
	}
	if cfg.Tools.Weather.APIKey != "rapid-env" {
		t.Errorf("expected env RapidAPI key, got %q", cfg.Tools.Weather.APIKey)
	}
	// NEWS_API_KEY is empty, so the file value stays.
	if cfg.Tools.News.APIKey != "news-file" {
		t.Errorf("expected file news key, got %q", cfg.Tools.News.APIKey)
	}
}

func TestLoad_EnvWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWS_API_KEY", "news-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tools.News.APIKey != "news-env" {
		t.Errorf("expected env news key, got %q", cfg.Tools.News.APIKey)
	}
	if cfg.Tools.News.APIBase != "https://newsapi.org/v2" {
		t.Errorf("expected default news base, got %q", cfg.Tools.News.APIBase)
	}
}

func TestLoad_ExpandsEnvReferences(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEATHERBOT_TEST_BASE", "http://localhost:9999")
	dir := t.TempDir()
	path := writeConfig(t, dir, map[string]any{
		"tools": map[string]any{
			"weather": map[string]any{"apiBase": "${WEATHERBOT_TEST_BASE}/weather"},
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tools.Weather.APIBase != "http://localhost:9999/weather" {
		t.Errorf("expected expanded base, got %q", cfg.Tools.Weather.APIBase)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error for invalid JSON (falls back to default), got: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agents.Defaults.Model != def.Agents.Defaults.Model {
		t.Errorf("expected default model %q, got %q", def.Agents.Defaults.Model, cfg.Agents.Defaults.Model)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	original := DefaultConfig()
	original.Agents.Defaults.Model = "deepseek/deepseek-chat"
	original.Agents.Defaults.MaxTokens = 1234
	original.Agents.Defaults.CreatorName = "tester"

	if err := Save(&original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Agents.Defaults.Model != original.Agents.Defaults.Model {
		t.Errorf("model mismatch: got %q, want %q", loaded.Agents.Defaults.Model, original.Agents.Defaults.Model)
	}
	if loaded.Agents.Defaults.MaxTokens != original.Agents.Defaults.MaxTokens {
		t.Errorf("maxTokens mismatch: got %d, want %d", loaded.Agents.Defaults.MaxTokens, original.Agents.Defaults.MaxTokens)
	}
	if loaded.Agents.Defaults.CreatorName != "tester" {
		t.Errorf("creatorName mismatch: got %q", loaded.Agents.Defaults.CreatorName)
	}
}

func TestSave_FilePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := DefaultConfig()
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected permissions 0600, got %04o", perm)
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "dir", "config.json")

	cfg := DefaultConfig()
	if err := Save(&cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}

func TestLoad_PartialConfig_UsesDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	// Only set one field; the rest should come from DefaultConfig.
	path := writeConfig(t, dir, map[string]any{
		"agents": map[string]any{
			"defaults": map[string]any{
				"model": "custom/model",
			},
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	def := DefaultConfig()
	if cfg.Agents.Defaults.Model != "custom/model" {
		t.Errorf("expected model %q, got %q", "custom/model", cfg.Agents.Defaults.Model)
	}
	// Unset fields should retain their defaults.
	if cfg.Agents.Defaults.Temperature != def.Agents.Defaults.Temperature {
		t.Errorf("expected default temperature %v, got %v", def.Agents.Defaults.Temperature, cfg.Agents.Defaults.Temperature)
	}
	if cfg.Agents.Defaults.CreatorName != def.Agents.Defaults.CreatorName {
		t.Errorf("expected default creatorName %q, got %q", def.Agents.Defaults.CreatorName, cfg.Agents.Defaults.CreatorName)
	}
	if cfg.Tools.Weather.TimeoutSeconds != def.Tools.Weather.TimeoutSeconds {
		t.Errorf("expected default weather timeout %d, got %d", def.Tools.Weather.TimeoutSeconds, cfg.Tools.Weather.TimeoutSeconds)
	}
}
