// mvg is the Minimum Viable Guide: a growth-oriented mentor that
// analyzes what a request is really asking for, estimates the asker's
// capability, screens for ethical concerns, and answers with guidance
// calibrated to make the asker more independent, not less.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mvg/internal/config"
	"mvg/internal/guide"
	"mvg/internal/intent"
	"mvg/internal/logging"
	"mvg/internal/memory"
	"mvg/internal/provider"
)

var (
	cfgPath string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mvg",
	Short: "MVG - Minimum Viable Guide",
	Long: `MVG (Minimum Viable Guide) is a mentoring pipeline that turns
"do it for me" requests into guided learning.

Every query runs through four stages:
  1. Intent analysis: what is really being asked, and why
  2. Capability assessment: a 0-100 estimate of the asker's level
  3. Ethical screening: harm, manipulation, dependency, dignity, bias
  4. Response design: level- and motivation-aware guidance

Per-user memory tracks the capability trend across interactions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}

		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

// buildGuide assembles a Guide from the loaded config.
func buildGuide(ctx context.Context) (*guide.Guide, error) {
	opts := []guide.Option{guide.WithLogger(logger)}

	if cfg.Memory.MaxUsers > 0 {
		opts = append(opts, guide.WithStore(memory.NewStoreWithCapacity(cfg.Memory.MaxUsers)))
	}

	if cfg.Intent.PatternFile != "" {
		ps, err := intent.LoadPatternFile(cfg.Intent.PatternFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load pattern file: %w", err)
		}
		opts = append(opts, guide.WithAnalyzer(intent.NewAnalyzerWithPatterns(ps)))
	}

	p, err := buildProvider(ctx)
	if err != nil {
		return nil, err
	}
	if p != nil {
		opts = append(opts, guide.WithProvider(p))
	}

	return guide.New(opts...), nil
}

func buildProvider(ctx context.Context) (provider.Provider, error) {
	switch cfg.Provider.Backend {
	case "", "none":
		return nil, nil
	case "mock":
		return provider.NewMock(), nil
	case "openai":
		return provider.NewOpenAIClient(provider.OpenAIConfig{
			APIKey:  cfg.Provider.APIKey,
			BaseURL: cfg.Provider.BaseURL,
			Model:   cfg.Provider.Model,
			Timeout: cfg.GetProviderTimeout(),
		})
	case "gemini":
		return provider.NewGeminiClient(ctx, cfg.Provider.APIKey, cfg.Provider.Model)
	default:
		return nil, fmt.Errorf("unknown provider backend: %q", cfg.Provider.Backend)
	}
}

func main() {
	// .env values become visible to the config env overrides.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "mvg.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
