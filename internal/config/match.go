package config

import (
	"strings"

	"github.com/weatherbot/weatherbot/internal/config/provider"
	"github.com/weatherbot/weatherbot/internal/providers"
)

// MatchResult is the resolved LLM provider config and registry name for a model.
type MatchResult struct {
	Provider *provider.ProviderConfig
	Name     string // e.g. "openrouter", "openai"
}

// configured reports whether p can serve requests without further setup.
// Local providers only need an api base.
func configured(spec providers.ProviderSpec, p *provider.ProviderConfig) bool {
	if spec.IsLocal {
		return p.APIBase != ""
	}
	return p.APIKey != ""
}

// MatchProvider resolves which provider config and registry entry to use for model.
// If model is empty, the default model from agents.defaults.model is used.
//
// Priority order:
//  1. Explicit provider prefix in model string (e.g. "deepseek/deepseek-chat" → deepseek)
//  2. Keyword match in model name (registry order)
//  3. Fallback: first configured provider (gateways first, by registry order)
//  4. Keyword match without credentials, so a missing key is reported
//     by the completion client instead of silently picking nothing
func (c *Config) MatchProvider(model string) MatchResult {
	if model == "" {
		model = c.Agents.Defaults.Model
	}
	modelLower := strings.ToLower(model)
	modelNorm := strings.ReplaceAll(modelLower, "-", "_")
	modelPrefix, _, _ := strings.Cut(modelLower, "/")
	normalizedPrefix := strings.ReplaceAll(modelPrefix, "-", "_")

	kwMatches := func(spec providers.ProviderSpec) bool {
		for _, kw := range spec.Keywords {
			kw = strings.ToLower(kw)
			kwNorm := strings.ReplaceAll(kw, "-", "_")
			if strings.Contains(modelLower, kw) || strings.Contains(modelNorm, kwNorm) {
				return true
			}
		}
		return false
	}

	// 1. Explicit provider prefix wins.
	for _, spec := range providers.PROVIDERS {
		p := c.ProviderByName(spec.Name)
		if p == nil {
			continue
		}
		if modelPrefix != "" && normalizedPrefix == spec.Name && configured(spec, p) {
			return MatchResult{Provider: p, Name: spec.Name}
		}
	}

	// 2. Keyword match.
	for _, spec := range providers.PROVIDERS {
		p := c.ProviderByName(spec.Name)
		if p != nil && kwMatches(spec) && configured(spec, p) {
			return MatchResult{Provider: p, Name: spec.Name}
		}
	}

	// 3. Fallback: first configured provider.
	for _, spec := range providers.PROVIDERS {
		p := c.ProviderByName(spec.Name)
		if p != nil && configured(spec, p) {
			return MatchResult{Provider: p, Name: spec.Name}
		}
	}

	// 4. Nothing configured: keyword match alone.
	if spec := providers.FindByModel(model); spec != nil {
		return MatchResult{Provider: c.ProviderByName(spec.Name), Name: spec.Name}
	}

	return MatchResult{}
}

// GetProvider returns the matched ProviderConfig for model (or nil).
func (c *Config) GetProvider(model string) *provider.ProviderConfig {
	return c.MatchProvider(model).Provider
}

// GetProviderName returns the registry name of the matched provider (or "").
func (c *Config) GetProviderName(model string) string {
	return c.MatchProvider(model).Name
}

// GetAPIBase resolves the effective API base URL for model.
// Precedence: user-configured api_base > spec.default_api_base (gateways only).
func (c *Config) GetAPIBase(model string) string {
	result := c.MatchProvider(model)
	if result.Provider != nil && result.Provider.APIBase != "" {
		return result.Provider.APIBase
	}
	if result.Name != "" {
		spec := providers.FindByName(result.Name)
		if spec != nil && spec.IsGateway && spec.DefaultAPIBase != "" {
			return spec.DefaultAPIBase
		}
	}
	return ""
}

// GetAPIKey returns the API key for model (or "").
func (c *Config) GetAPIKey(model string) string {
	p := c.GetProvider(model)
	if p != nil {
		return p.APIKey
	}
	return ""
}
