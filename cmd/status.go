package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/weatherbot/weatherbot/internal/config"
	"github.com/weatherbot/weatherbot/internal/providers"
)

var statusProbe bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show weatherbot configuration and credentials",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusProbe, "probe", false, "Check that each upstream endpoint is reachable")
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := resolvedConfigPath()

	fmt.Printf("%s weatherbot Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:    %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	model := cfg.Agents.Defaults.Model
	fmt.Printf("Model:     %s (%s)\n\n", model, orNone(cfg.GetProviderName(model)))

	fmt.Println("Providers:")
	for _, spec := range providers.PROVIDERS {
		p := cfg.ProviderByName(spec.Name)
		if p == nil {
			continue
		}
		label := spec.Label()
		switch {
		case spec.IsLocal:
			if p.APIBase != "" {
				fmt.Printf("  %-20s ✓ %s\n", label, p.APIBase)
			} else {
				fmt.Printf("  %-20s (not set)\n", label)
			}
		default:
			if p.APIKey != "" {
				fmt.Printf("  %-20s ✓\n", label)
			} else {
				fmt.Printf("  %-20s (not set)\n", label)
			}
		}
	}

	fmt.Println("\nData APIs:")
	fmt.Printf("  %-20s %s\n", "Weather (RapidAPI)", keyMark(cfg.Tools.Weather.APIKey))
	fmt.Printf("  %-20s %s\n", "News (newsapi.org)", keyMark(cfg.Tools.News.APIKey))

	fmt.Println("\nGateway:")
	fmt.Printf("  %-20s %s\n", "Telegram", enabledMark(cfg.Channels.Telegram.Enabled))
	fmt.Printf("  %-20s %d\n", "Briefings", len(cfg.Gateway.Briefings))

	if statusProbe {
		fmt.Println("\nReachability:")
		for _, r := range probeEndpoints(context.Background(), statusEndpoints(cfg)) {
			fmt.Printf("  %-20s %s\n", r.name, r.status)
		}
	}
	return nil
}

type endpoint struct {
	name string
	url  string
}

type probeResult struct {
	name   string
	status string
}

func statusEndpoints(cfg *config.Config) []endpoint {
	model := cfg.Agents.Defaults.Model
	llm := providers.NewOpenAIProvider(cfg.GetAPIKey(model), cfg.GetAPIBase(model), model, cfg.GetProviderName(model), nil, 0)
	base := llm.APIBase()
	return []endpoint{
		{name: "Completion", url: base + "/models"},
		{name: "Weather", url: cfg.Tools.Weather.APIBase + "/current.json"},
		{name: "News", url: cfg.Tools.News.APIBase + "/top-headlines"},
	}
}

// probeEndpoints issues one GET per endpoint concurrently. Any HTTP status
// counts as reachable; only transport failures are reported as errors.
func probeEndpoints(ctx context.Context, endpoints []endpoint) []probeResult {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := &http.Client{}
	results := make([]probeResult, len(endpoints))
	var mu sync.Mutex

	var g errgroup.Group
	for i, ep := range endpoints {
		i, ep := i, ep
		g.Go(func() error {
			status := probeOne(ctx, client, ep.url)
			mu.Lock()
			results[i] = probeResult{name: ep.name, status: status}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func probeOne(ctx context.Context, client *http.Client, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "✗ " + err.Error()
	}
	resp, err := client.Do(req)
	if err != nil {
		return "✗ unreachable"
	}
	resp.Body.Close()
	return fmt.Sprintf("✓ HTTP %d", resp.StatusCode)
}

func keyMark(key string) string {
	if key != "" {
		return "✓"
	}
	return "(not set)"
}

func enabledMark(on bool) string {
	if on {
		return "✓ enabled"
	}
	return "disabled"
}

func orNone(s string) string {
	if s == "" {
		return "no provider matched"
	}
	return s
}
