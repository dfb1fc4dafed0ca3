package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mvg/internal/intent"
	"mvg/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the guide over HTTP",
	Long: `Starts the HTTP wrapper: POST /respond with a JSON body
{"user_id": ..., "query": ...} returns the response, the reasoning
log, and the analysis metadata. GET /healthz reports liveness.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g, err := buildGuide(ctx)
		if err != nil {
			return err
		}

		// Hot-reload the pattern file when configured. The analyzer keeps
		// the previous patterns if a reload fails.
		if cfg.Intent.PatternFile != "" && cfg.Intent.WatchPatterns {
			watcher, err := intent.NewPatternWatcher(cfg.Intent.PatternFile, g.Analyzer(), logger)
			if err != nil {
				return err
			}
			if err := watcher.Start(ctx); err != nil {
				_ = watcher.Close()
				return err
			}
			defer func() {
				if cerr := watcher.Close(); cerr != nil {
					logger.Warn("failed to close pattern watcher", zap.Error(cerr))
				}
			}()
		}

		srv := server.New(g, cfg, logger)
		return srv.Run(ctx)
	},
}
