package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/abhisek/stepcoder/internal/api"
	"github.com/abhisek/stepcoder/internal/app"
	"github.com/abhisek/stepcoder/internal/config"
	"github.com/abhisek/stepcoder/internal/engine"
	"github.com/abhisek/stepcoder/internal/journal"
	"github.com/abhisek/stepcoder/internal/llm"
	"github.com/abhisek/stepcoder/internal/scroll"
	"github.com/abhisek/stepcoder/internal/state"
	"github.com/abhisek/stepcoder/internal/tutor"
	"github.com/spf13/cobra"
)

// runApp opens the journal, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return fmt.Errorf("resolve journal path: %w", err)
	}
	jnl, err := journal.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer func() { _ = jnl.Close() }()

	client := api.NewClient(api.Config{
		BaseURL:    cfg.ServerURL,
		AuthToken:  cfg.AuthToken,
		Timeout:    cfg.RequestTimeout,
		RunTimeout: cfg.RunTimeout,
	})

	driver := scroll.NewDriver()
	redirect := app.NewRedirector(driver)

	engOpts := engine.Options{
		StartPage:     cfg.StartPage,
		Recorder:      jnl,
		HintThreshold: cfg.TutorThreshold,
	}

	// Tutor hints are optional — the course works without a provider.
	if hints := buildHints(ctx, cfg, jnl); hints != nil {
		engOpts.Hints = hints
	}

	eng := engine.New(state.NewStore(), client, driver, redirect, engOpts)

	// Fire-and-forget calls have no caller to hand a 403 to.
	client.OnPermissionDenied(func() {
		redirect.RedirectToLogin("/course/")
	})

	submitFeedback := func(title, description string) error {
		return client.SubmitFeedback(context.Background(), title, description, eng.State())
	}

	return app.Run(ctx, app.Options{
		Engine:   eng,
		Driver:   driver,
		Feedback: submitFeedback,
	})
}

// buildHints assembles the tutor service, or returns nil when disabled
// or unconfigured.
func buildHints(ctx context.Context, cfg config.Config, jnl *journal.Journal) *tutor.Service {
	if cfg.TutorProvider == "off" {
		return nil
	}

	llmCfg, ok := tutorLLMConfig(cfg)
	if !ok {
		fmt.Fprintln(os.Stderr, "No LLM API key found; tutor hints will be unavailable.")
		return nil
	}

	provider, err := llm.NewProvider(ctx, llmCfg, jnl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Tutor hints will be unavailable.")
		return nil
	}
	return tutor.NewService(provider, tutor.DefaultConfig())
}

// tutorLLMConfig resolves the LLM configuration. An empty TutorProvider
// means probe the standard API key variables; an explicit provider
// reads its key from the environment and fails closed when missing.
func tutorLLMConfig(cfg config.Config) (llm.Config, bool) {
	var llmCfg llm.Config
	if cfg.TutorProvider == "" {
		discovered, ok := llm.DiscoverConfig()
		if !ok {
			return llm.Config{}, false
		}
		llmCfg = discovered
	} else {
		llmCfg = llm.DefaultConfig()
		llmCfg.Provider = cfg.TutorProvider
		llmCfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		llmCfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
		llmCfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
		if err := llmCfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Tutor provider misconfigured:", err)
			return llm.Config{}, false
		}
	}

	if cfg.TutorModel != "" {
		switch llmCfg.Provider {
		case "anthropic":
			llmCfg.Anthropic.Model = cfg.TutorModel
		case "openai":
			llmCfg.OpenAI.Model = cfg.TutorModel
		case "gemini":
			llmCfg.Gemini.Model = cfg.TutorModel
		}
	}
	return llmCfg, true
}
