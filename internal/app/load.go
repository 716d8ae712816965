package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vk/artifactgraphgo/internal/artifact"
	"github.com/vk/artifactgraphgo/internal/ctxlog"
	"github.com/vk/artifactgraphgo/internal/engine"
	"github.com/vk/artifactgraphgo/internal/task"
)

// buildRequest assembles the one-shot run request from the app config:
// the task itself, prior conversation history, and any artifacts carried
// over from an earlier run.
func (a *App) buildRequest(ctx context.Context) (engine.Request, error) {
	logger := ctxlog.FromContext(ctx)

	req := engine.Request{
		Task:    task.Task{ID: a.config.TaskID, Input: a.config.TaskInput},
		Verbose: a.config.Verbose,
	}

	if a.config.HistoryPath != "" {
		history, err := loadHistory(a.config.HistoryPath)
		if err != nil {
			return engine.Request{}, err
		}
		req.History = history
		logger.Debug("History loaded.", "path", a.config.HistoryPath, "messages", len(history))
	}

	if a.config.ArtifactsInPath != "" {
		arts, err := loadArtifacts(a.config.ArtifactsInPath)
		if err != nil {
			return engine.Request{}, err
		}
		req.Artifacts = arts
		logger.Info("Resuming with pre-existing artifacts.", "path", a.config.ArtifactsInPath, "count", len(arts))
	}

	return req, nil
}

// loadHistory reads a conversation history file: a JSON array of
// role/text messages.
func loadHistory(path string) ([]task.Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	var msgs []task.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("failed to parse history file '%s': %w", path, err)
	}
	return msgs, nil
}

// loadArtifacts reads an artifact file written by a previous run.
func loadArtifacts(path string) ([]artifact.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifacts file: %w", err)
	}
	arts, err := artifact.DecodeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("artifacts file '%s': %w", path, err)
	}
	return arts, nil
}

// saveArtifacts persists a run's produced artifacts for later resumption.
func saveArtifacts(path string, arts []artifact.Artifact) error {
	data, err := artifact.EncodeJSON(arts)
	if err != nil {
		return fmt.Errorf("failed to encode artifacts: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifacts file: %w", err)
	}
	return nil
}
