package gateway

import (
	"encoding/json"
	"errors"
	"fmt"

	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/vk/artifactgraphgo/internal/artifact"
	"github.com/vk/artifactgraphgo/internal/engine"
	"github.com/vk/artifactgraphgo/internal/task"
)

// runRequest is the wire shape of a "run" event payload.
type runRequest struct {
	Task      task.Task       `json:"task"`
	History   []task.Message  `json:"history,omitempty"`
	Artifacts json.RawMessage `json:"artifacts,omitempty"`
	Verbose   bool            `json:"verbose,omitempty"`
}

// decodeRunRequest converts a raw socket.io payload into an engine request.
// The payload arrives as already-parsed JSON, so it round-trips through
// encoding/json to land in the typed struct.
func decodeRunRequest(data any) (engine.Request, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return engine.Request{}, fmt.Errorf("malformed run request: %w", err)
	}
	var wire runRequest
	if err := json.Unmarshal(raw, &wire); err != nil {
		return engine.Request{}, fmt.Errorf("malformed run request: %w", err)
	}
	if wire.Task.ID == "" {
		return engine.Request{}, errors.New("run request is missing task.id")
	}

	var arts []artifact.Artifact
	if len(wire.Artifacts) > 0 {
		arts, err = artifact.DecodeJSON(wire.Artifacts)
		if err != nil {
			return engine.Request{}, fmt.Errorf("malformed run request artifacts: %w", err)
		}
	}

	return engine.Request{
		Task:      wire.Task,
		History:   wire.History,
		Artifacts: arts,
		Verbose:   wire.Verbose,
	}, nil
}

// statusPayload shapes a "status" event. Terminal states carry the produced
// artifact ids; a failed state carries the error text.
func statusPayload(taskID string, state task.State, produced []artifact.ID, runErr error) map[string]any {
	p := map[string]any{
		"state": string(state),
	}
	if taskID != "" {
		p["task"] = taskID
	}
	if state.Terminal() {
		ids := make([]string, len(produced))
		for i, id := range produced {
			ids[i] = string(id)
		}
		p["artifacts"] = ids
	}
	if runErr != nil {
		p["error"] = runErr.Error()
	}
	return p
}

// progressPayload shapes a "progress" event.
func progressPayload(taskID string, ev engine.Progress) map[string]any {
	p := map[string]any{
		"task": taskID,
		"text": ev.Text,
	}
	if ev.Builder != "" {
		p["builder"] = ev.Builder
	}
	return p
}

// artifactPayload shapes an "artifact" event. The artifact travels in the
// same id/type/value/meta form the artifact file format uses, so a client
// can persist the stream and feed it straight back into a later run.
func artifactPayload(taskID string, ev engine.ArtifactProduced) (map[string]any, error) {
	encoded, err := encodeArtifact(ev.Artifact)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"task":     taskID,
		"builder":  ev.Builder,
		"artifact": encoded,
	}, nil
}

func encodeArtifact(a artifact.Artifact) (map[string]any, error) {
	ty := a.Value.Type()
	rawType, err := ctyjson.MarshalType(ty)
	if err != nil {
		return nil, fmt.Errorf("failed to encode type of artifact '%s': %w", a.ID, err)
	}
	rawValue, err := ctyjson.Marshal(a.Value, ty)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value of artifact '%s': %w", a.ID, err)
	}
	out := map[string]any{
		"id":    string(a.ID),
		"type":  json.RawMessage(rawType),
		"value": json.RawMessage(rawValue),
	}
	if len(a.Meta) > 0 {
		out["meta"] = a.Meta
	}
	return out, nil
}
