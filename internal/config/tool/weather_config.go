package tool

// WeatherConfig configures the weatherapi.com (RapidAPI) executor.
type WeatherConfig struct {
	APIKey         string `json:"apiKey" mapstructure:"apiKey"`
	APIBase        string `json:"apiBase" mapstructure:"apiBase"`
	APIHost        string `json:"apiHost" mapstructure:"apiHost"`
	TimeoutSeconds int    `json:"timeoutSeconds" mapstructure:"timeoutSeconds"`
}

func DefaultWeatherConfig() WeatherConfig {
	return WeatherConfig{
		APIBase:        "https://weatherapi-com.p.rapidapi.com",
		APIHost:        "weatherapi-com.p.rapidapi.com",
		TimeoutSeconds: 60,
	}
}
