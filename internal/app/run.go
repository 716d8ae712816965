package app

import (
	"context"
	"fmt"

	"github.com/vk/artifactgraphgo/internal/artifact"
	"github.com/vk/artifactgraphgo/internal/ctxlog"
	"github.com/vk/artifactgraphgo/internal/engine"
)

// Run executes the main application logic. With a ServePort configured it
// serves the gateway until ctx is cancelled; otherwise it performs a single
// one-shot run of the graph.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.HealthcheckPort > 0 {
		a.startHealthcheck()
		defer a.stopHealthcheck()
	}

	if a.config.ServePort > 0 {
		return a.serve(ctx)
	}
	return a.runOnce(ctx)
}

// runOnce executes the graph a single time, prints the event stream, and
// persists produced artifacts when an output path is configured.
func (a *App) runOnce(ctx context.Context) error {
	req, err := a.buildRequest(ctx)
	if err != nil {
		return err
	}

	a.logger.Info("🚀 Starting artifact graph execution...", "task", req.Task.ID)
	stream := a.engine.Run(ctx, req)

	var produced []artifact.Artifact
	for ev := range stream.Events() {
		switch ev := ev.(type) {
		case engine.Progress:
			if ev.Builder != "" {
				fmt.Fprintf(a.outW, "[%s] %s\n", ev.Builder, ev.Text)
			} else {
				fmt.Fprintln(a.outW, ev.Text)
			}
		case engine.ArtifactProduced:
			produced = append(produced, ev.Artifact)
			fmt.Fprintf(a.outW, "artifact '%s' produced by '%s'\n", ev.Artifact.ID, ev.Builder)
		}
	}
	if err := stream.Err(); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Execution finished.", "artifacts", len(produced))

	if a.config.ArtifactsOutPath != "" && len(produced) > 0 {
		if err := saveArtifacts(a.config.ArtifactsOutPath, produced); err != nil {
			return err
		}
		a.logger.Info("💾 Artifacts saved.", "path", a.config.ArtifactsOutPath, "count", len(produced))
	}
	return nil
}
