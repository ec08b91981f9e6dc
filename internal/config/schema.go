// Package config defines the configuration schema for weatherbot.
//
// JSON keys use camelCase; the file lives at ~/.weatherbot/config.json.
package config

import (
	"github.com/weatherbot/weatherbot/internal/config/agent"
	"github.com/weatherbot/weatherbot/internal/config/channel"
	"github.com/weatherbot/weatherbot/internal/config/gateway"
	"github.com/weatherbot/weatherbot/internal/config/provider"
	"github.com/weatherbot/weatherbot/internal/config/tool"
)

// Config is the root configuration object.
type Config struct {
	Agents    agent.AgentsConfig       `json:"agents" mapstructure:"agents"`
	Channels  channel.ChannelsConfig   `json:"channels" mapstructure:"channels"`
	Providers provider.ProvidersConfig `json:"providers" mapstructure:"providers"`
	Gateway   gateway.GatewayConfig    `json:"gateway" mapstructure:"gateway"`
	Tools     tool.ToolsConfig         `json:"tools" mapstructure:"tools"`
}

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() Config {
	return Config{
		Agents:    agent.DefaultAgentsConfig(),
		Channels:  channel.DefaultChannelsConfig(),
		Providers: provider.DefaultProvidersConfig(),
		Gateway:   gateway.DefaultGatewayConfig(),
		Tools:     tool.DefaultToolConfigs(),
	}
}

// ProviderByName returns a pointer to the ProviderConfig field matching the
// given registry name (e.g. "openrouter", "openai"). Returns nil if unknown.
func (c *Config) ProviderByName(name string) *provider.ProviderConfig {
	return c.Providers.ByName(name)
}
