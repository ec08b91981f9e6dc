package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/weatherbot/weatherbot/internal/errorsx"
	"github.com/weatherbot/weatherbot/internal/schema"
)

const (
	DefaultNewsAPIBase = "https://newsapi.org/v2"

	// NoArticlesFound is returned when the upstream succeeds with zero articles.
	NoArticlesFound = "No articles found"

	defaultCategory = "general"
)

// Categories are the top-headline categories newsapi.org accepts.
var Categories = []string{"business", "entertainment", "general", "health", "science", "sports", "technology"}

// Article is the subset of a newsapi.org article returned to the model.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
	URL         string `json:"url"`
}

type headlinesArgs struct {
	Query    string `mapstructure:"query"`
	Country  string `mapstructure:"country"`
	Category string `mapstructure:"category"`
}

type headlinesResponse struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
	Code         string    `json:"code"`
	Message      string    `json:"message"`
}

// HeadlinesTool fetches the single top headline from newsapi.org.
type HeadlinesTool struct {
	apiKey     string
	apiBase    string
	httpClient *http.Client
}

// NewHeadlinesTool creates a HeadlinesTool.
// apiKey is NEWS_API_KEY; empty apiBase falls back to newsapi.org.
func NewHeadlinesTool(apiKey, apiBase string, timeout time.Duration) *HeadlinesTool {
	if apiBase == "" {
		apiBase = DefaultNewsAPIBase
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HeadlinesTool{
		apiKey:     apiKey,
		apiBase:    apiBase,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (t *HeadlinesTool) Name() string { return string(ToolHeadlines) }
func (t *HeadlinesTool) Description() string {
	return "Get top news headlines by country and/or category"
}
func (t *HeadlinesTool) Parameters() schema.ParameterSchema {
	return schema.ParameterSchema{
		Properties: []schema.Property{
			{
				Name:        "query",
				Type:        "string",
				Description: "Freeform keywords or a phrase to search for.",
			},
			{
				Name:        "country",
				Type:        "string",
				Description: "The 2-letter ISO 3166-1 code of the country you want to get headlines for",
			},
			{
				Name:        "category",
				Type:        "string",
				Description: "The category you want to get headlines for",
				Enum:        Categories,
			},
		},
	}
}

func (t *HeadlinesTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	if t.apiKey == "" {
		return "", errorsx.Errorf(errorsx.ReasonConfig, "NEWS_API_KEY not configured")
	}

	var args headlinesArgs
	if err := mapstructure.Decode(params, &args); err != nil {
		return "", errorsx.Wrap(fmt.Errorf("headlines: decode arguments: %w", err), errorsx.ReasonInvalidArguments)
	}

	q := headlinesQuery(args)
	slog.Info("Headlines lookup", "query", q.Encode())

	body, status, err := httpGet(ctx, t.httpClient, t.apiBase, "/top-headlines", q,
		map[string]string{"X-Api-Key": t.apiKey})
	if err != nil {
		return "", fmt.Errorf("headlines: %w", err)
	}

	var data headlinesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		if !isSuccess(status) {
			return "", errorsx.Errorf(errorsx.ReasonExternalService, "headlines: HTTP %d: %s", status, snippet(body))
		}
		return "", errorsx.Wrap(fmt.Errorf("headlines: parse response: %w", err), errorsx.ReasonExternalService)
	}
	if data.Status != "ok" || !isSuccess(status) {
		msg := data.Message
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d: %s", status, snippet(body))
		}
		return "", errorsx.Errorf(errorsx.ReasonExternalService, "headlines: %s", msg)
	}

	slog.Info("Headlines fetched", "totalResults", data.TotalResults, "returned", len(data.Articles))
	if len(data.Articles) == 0 {
		return NoArticlesFound, nil
	}

	out, err := json.Marshal(data.Articles[0])
	if err != nil {
		return "", fmt.Errorf("headlines: marshal article: %w", err)
	}
	return string(out), nil
}

// headlinesQuery builds the top-headlines query. Category defaults to
// "general" and exactly one article is requested.
func headlinesQuery(args headlinesArgs) url.Values {
	q := url.Values{}
	q.Set("category", defaultCategory)
	q.Set("pageSize", "1")
	if args.Query != "" {
		q.Set("q", args.Query)
	}
	if args.Country != "" {
		q.Set("country", args.Country)
	}
	if args.Category != "" {
		q.Set("category", args.Category)
	}
	return q
}
