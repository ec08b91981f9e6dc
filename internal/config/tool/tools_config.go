package tool

// ToolsConfig groups all tool-level settings.
type ToolsConfig struct {
	Weather WeatherConfig `json:"weather" mapstructure:"weather"`
	News    NewsConfig    `json:"news" mapstructure:"news"`
}

func DefaultToolConfigs() ToolsConfig {
	return ToolsConfig{
		Weather: DefaultWeatherConfig(),
		News:    DefaultNewsConfig(),
	}
}
