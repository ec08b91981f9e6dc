package gateway

// BriefingConfig is one scheduled prompt run by the gateway.
type BriefingConfig struct {
	Name    string `json:"name" mapstructure:"name"`
	Cron    string `json:"cron" mapstructure:"cron"`
	TZ      string `json:"tz,omitempty" mapstructure:"tz"`
	Message string `json:"message" mapstructure:"message"`
	// ChatID delivers the reply to a Telegram chat; empty logs it instead.
	ChatID string `json:"chatId,omitempty" mapstructure:"chatId"`
}

// GatewayConfig holds settings for the long-running gateway process.
type GatewayConfig struct {
	Briefings []BriefingConfig `json:"briefings" mapstructure:"briefings"`
}

func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{Briefings: []BriefingConfig{}}
}
