package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/weatherbot/weatherbot/internal/errorsx"
	"github.com/weatherbot/weatherbot/internal/schema"
)

const (
	DefaultWeatherAPIBase = "https://weatherapi-com.p.rapidapi.com"
	DefaultWeatherAPIHost = "weatherapi-com.p.rapidapi.com"
)

// WeatherTool looks up current conditions through the weatherapi.com
// RapidAPI endpoint and returns the upstream payload unmodified.
type WeatherTool struct {
	apiKey     string
	apiBase    string
	apiHost    string
	httpClient *http.Client
}

// NewWeatherTool creates a WeatherTool.
// apiKey is RAPID_API_KEY; empty apiBase/apiHost fall back to the public
// endpoint and timeout defaults to 60s.
func NewWeatherTool(apiKey, apiBase, apiHost string, timeout time.Duration) *WeatherTool {
	if apiBase == "" {
		apiBase = DefaultWeatherAPIBase
	}
	if apiHost == "" {
		apiHost = DefaultWeatherAPIHost
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &WeatherTool{
		apiKey:     apiKey,
		apiBase:    apiBase,
		apiHost:    apiHost,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (t *WeatherTool) Name() string        { return string(ToolWeather) }
func (t *WeatherTool) Description() string { return "Get the current weather" }
func (t *WeatherTool) Parameters() schema.ParameterSchema {
	return schema.ParameterSchema{
		Properties: []schema.Property{
			{
				Name:        "location",
				Type:        "string",
				Description: "The city and state, e.g. San Francisco, CA",
			},
		},
		Required: []string{"location"},
	}
}

func (t *WeatherTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	if t.apiKey == "" {
		return "", errorsx.Errorf(errorsx.ReasonConfig, "RAPID_API_KEY not configured")
	}
	// Query parameters are text; whatever the model sent goes upstream as-is.
	var location string
	if v, ok := params["location"]; ok && v != nil {
		location = fmt.Sprint(v)
	}

	slog.Info("Weather lookup", "location", location)

	body, status, err := httpGet(ctx, t.httpClient, t.apiBase, "/current.json",
		url.Values{"q": {location}},
		map[string]string{
			"X-RapidAPI-Key":  t.apiKey,
			"X-RapidAPI-Host": t.apiHost,
		})
	if err != nil {
		return "", fmt.Errorf("weather: %w", err)
	}

	if msg, failed := weatherError(body); failed {
		return "", errorsx.Errorf(errorsx.ReasonExternalService, "weather: %s", msg)
	}
	if !isSuccess(status) {
		return "", errorsx.Errorf(errorsx.ReasonExternalService, "weather: HTTP %d: %s", status, snippet(body))
	}

	return string(body), nil
}

// weatherError reports the upstream's {"error":{"message":...}} body, which
// weatherapi.com sends for unknown locations and bad keys.
func weatherError(body []byte) (string, bool) {
	var data struct {
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", false
	}
	if data.Error != nil {
		return data.Error.Message, true
	}
	return "", false
}
