// Package dependency wires core weatherbot services using go.uber.org/dig.
package dependency

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/dig"

	"github.com/weatherbot/weatherbot/internal/agent"
	"github.com/weatherbot/weatherbot/internal/channels"
	"github.com/weatherbot/weatherbot/internal/config"
	"github.com/weatherbot/weatherbot/internal/cron"
	"github.com/weatherbot/weatherbot/internal/providers"
	"github.com/weatherbot/weatherbot/internal/schema"
	"github.com/weatherbot/weatherbot/internal/session"
	"github.com/weatherbot/weatherbot/internal/tools"
)

// completionTimeout bounds a single chat-completions round trip.
const completionTimeout = 120 * time.Second

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	cfg      *config.Config
	provider schema.LLMProvider
	registry *tools.Registry
	factory  *agent.Factory
	sessions *session.Manager
	channels *channels.Manager
	cronSvc  *cron.Service
}

func (c *Container) Config() *config.Config            { return c.cfg }
func (c *Container) Provider() schema.LLMProvider      { return c.provider }
func (c *Container) Registry() *tools.Registry         { return c.registry }
func (c *Container) AgentFactory() *agent.Factory      { return c.factory }
func (c *Container) Sessions() *session.Manager        { return c.sessions }
func (c *Container) ChannelManager() *channels.Manager { return c.channels }
func (c *Container) CronService() *cron.Service        { return c.cronSvc }

// LLMModel is a named string type so dig can distinguish it from plain
// strings when injecting the effective model name.
type LLMModel string

// New builds and wires all core services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	constructors := []any{
		func() *config.Config { return cfg },
		newProvider,
		resolveLLMModel,
		newToolRegistry,
		newPromptContext,
		newAgentFactory,
		newSessionManager,
		newChannelManager,
		newCronService,
	}
	for _, c := range constructors {
		if err := d.Provide(c); err != nil {
			return nil, err
		}
	}

	var result *Container
	err := d.Invoke(func(
		provider schema.LLMProvider,
		registry *tools.Registry,
		factory *agent.Factory,
		sessions *session.Manager,
		chanMgr *channels.Manager,
		cronSvc *cron.Service,
	) {
		result = &Container{
			cfg:      cfg,
			provider: provider,
			registry: registry,
			factory:  factory,
			sessions: sessions,
			channels: chanMgr,
			cronSvc:  cronSvc,
		}
	})
	if err != nil {
		return nil, fmt.Errorf("wire services: %w", dig.RootCause(err))
	}
	return result, nil
}

// newProvider builds the completion client. A missing API key is not an
// error here; the client reports it when the first request is made.
func newProvider(cfg *config.Config) schema.LLMProvider {
	model := cfg.Agents.Defaults.Model
	result := cfg.MatchProvider(model)

	var extraHeaders map[string]string
	if result.Provider != nil {
		extraHeaders = result.Provider.ExtraHeaders
	}
	return providers.New(providers.Params{
		APIKey:       cfg.GetAPIKey(model),
		APIBase:      cfg.GetAPIBase(model),
		ExtraHeaders: extraHeaders,
		DefaultModel: model,
		ProviderName: result.Name,
		Timeout:      completionTimeout,
	})
}

func resolveLLMModel(cfg *config.Config, p schema.LLMProvider) LLMModel {
	m := cfg.Agents.Defaults.Model
	if m == "" {
		m = p.DefaultModel()
	}
	return LLMModel(m)
}

func newToolRegistry(cfg *config.Config) (*tools.Registry, error) {
	w := cfg.Tools.Weather
	n := cfg.Tools.News
	return tools.NewRegistryBuilder().
		WithTool(tools.NewWeatherTool(w.APIKey, w.APIBase, w.APIHost, seconds(w.TimeoutSeconds))).
		WithTool(tools.NewHeadlinesTool(n.APIKey, n.APIBase, seconds(n.TimeoutSeconds))).
		Build()
}

func newPromptContext(cfg *config.Config) *agent.PromptContext {
	return agent.NewPromptContext(cfg.Agents.Defaults.CreatorName)
}

func newAgentFactory(
	cfg *config.Config,
	p schema.LLMProvider,
	m LLMModel,
	reg *tools.Registry,
	pc *agent.PromptContext,
) *agent.Factory {
	settings := schema.NewAgentSettings(
		string(m),
		cfg.Agents.Defaults.Temperature,
		cfg.Agents.Defaults.MaxTokens,
	)
	return agent.NewFactory(p, reg, settings, pc)
}

func newSessionManager(f *agent.Factory) *session.Manager {
	return session.NewManager(f.NewExchanger)
}

func newChannelManager(cfg *config.Config, sessions *session.Manager) *channels.Manager {
	return channels.NewManager(cfg, sessions)
}

// newCronService schedules every configured briefing. Replies go to the
// Telegram chat named by the briefing, or to the log when it names none.
func newCronService(cfg *config.Config, f *agent.Factory, chanMgr *channels.Manager) (*cron.Service, error) {
	deliver := func(ctx context.Context, b cron.Briefing, reply string) error {
		if b.ChatID == "" {
			slog.Info("cron: briefing reply", "name", b.Name, "reply", reply)
			return nil
		}
		return chanMgr.Send(ctx, "telegram", b.ChatID, reply)
	}

	svc := cron.NewService(f.NewExchanger, deliver)
	for _, bc := range cfg.Gateway.Briefings {
		err := svc.AddBriefing(cron.Briefing{
			Name:    bc.Name,
			Expr:    bc.Cron,
			TZ:      bc.TZ,
			Message: bc.Message,
			ChatID:  bc.ChatID,
		})
		if err != nil {
			return nil, err
		}
	}
	return svc, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
