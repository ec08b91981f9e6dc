package provider

const (
	ProviderCustom     = "custom"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderDeepSeek   = "deepseek"
	ProviderGroq       = "groq"
	ProviderMoonshot   = "moonshot"
	ProviderVLLM       = "vllm"
)

// ProviderConfig holds credentials for one LLM provider.
type ProviderConfig struct {
	APIKey       string            `json:"apiKey" mapstructure:"apiKey"`
	APIBase      string            `json:"apiBase,omitempty" mapstructure:"apiBase"`
	ExtraHeaders map[string]string `json:"extraHeaders,omitempty" mapstructure:"extraHeaders"`
}

// ProvidersConfig holds credentials for all supported LLM providers.
type ProvidersConfig struct {
	Custom     ProviderConfig `json:"custom" mapstructure:"custom"`
	OpenAI     ProviderConfig `json:"openai" mapstructure:"openai"`
	OpenRouter ProviderConfig `json:"openrouter" mapstructure:"openrouter"`
	DeepSeek   ProviderConfig `json:"deepseek" mapstructure:"deepseek"`
	Groq       ProviderConfig `json:"groq" mapstructure:"groq"`
	Moonshot   ProviderConfig `json:"moonshot" mapstructure:"moonshot"`
	VLLM       ProviderConfig `json:"vllm" mapstructure:"vllm"`
}

func DefaultProvidersConfig() ProvidersConfig {
	return ProvidersConfig{}
}

// ByName returns a pointer to the ProviderConfig field matching the given
// registry name. Returns nil if the name is unknown.
func (p *ProvidersConfig) ByName(name string) *ProviderConfig {
	switch name {
	case ProviderCustom:
		return &p.Custom
	case ProviderOpenAI:
		return &p.OpenAI
	case ProviderOpenRouter:
		return &p.OpenRouter
	case ProviderDeepSeek:
		return &p.DeepSeek
	case ProviderGroq:
		return &p.Groq
	case ProviderMoonshot:
		return &p.Moonshot
	case ProviderVLLM:
		return &p.VLLM
	}
	return nil
}
