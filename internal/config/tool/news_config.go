package tool

// NewsConfig configures the newsapi.org executor.
type NewsConfig struct {
	APIKey         string `json:"apiKey" mapstructure:"apiKey"`
	APIBase        string `json:"apiBase" mapstructure:"apiBase"`
	TimeoutSeconds int    `json:"timeoutSeconds" mapstructure:"timeoutSeconds"`
}

func DefaultNewsConfig() NewsConfig {
	return NewsConfig{
		APIBase:        "https://newsapi.org/v2",
		TimeoutSeconds: 60,
	}
}
