package agent

type AgentDefaults struct {
	Model       string  `json:"model" mapstructure:"model"`
	MaxTokens   int     `json:"maxTokens" mapstructure:"maxTokens"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	// CreatorName is spliced into the system instruction.
	CreatorName string `json:"creatorName" mapstructure:"creatorName"`
}

type AgentsConfig struct {
	Defaults AgentDefaults `json:"defaults" mapstructure:"defaults"`
}

func defaultAgentDefaults() AgentDefaults {
	return AgentDefaults{
		Model:       "gpt-4-0613",
		MaxTokens:   1024,
		Temperature: 0.7,
		CreatorName: "chajasc",
	}
}

func DefaultAgentsConfig() AgentsConfig {
	return AgentsConfig{Defaults: defaultAgentDefaults()}
}
