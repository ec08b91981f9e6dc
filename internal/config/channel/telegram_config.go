package channel

// TelegramConfig configures the Telegram channel.
type TelegramConfig struct {
	Enabled        bool     `json:"enabled" mapstructure:"enabled"`
	Token          string   `json:"token" mapstructure:"token"`
	AllowFrom      []string `json:"allowFrom" mapstructure:"allowFrom"`
	ReplyToMessage bool     `json:"replyToMessage" mapstructure:"replyToMessage"`
}

func DefaultTelegramConfig() TelegramConfig {
	return TelegramConfig{AllowFrom: []string{}}
}
