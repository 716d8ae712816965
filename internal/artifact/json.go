package artifact

import (
	"encoding/json"
	"fmt"

	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// jsonArtifact is the persisted form of one artifact. The cty type is
// stored alongside the value so decoding restores the exact payload type.
type jsonArtifact struct {
	ID    string            `json:"id"`
	Type  json.RawMessage   `json:"type"`
	Value json.RawMessage   `json:"value"`
	Meta  map[string]string `json:"meta,omitempty"`
}

// EncodeJSON serializes artifacts so a caller can persist a run's outputs
// and feed them back to a later run for resumption.
func EncodeJSON(arts []Artifact) ([]byte, error) {
	out := make([]jsonArtifact, 0, len(arts))
	for _, a := range arts {
		ty := a.Value.Type()
		rawType, err := ctyjson.MarshalType(ty)
		if err != nil {
			return nil, fmt.Errorf("failed to encode type of artifact '%s': %w", a.ID, err)
		}
		rawValue, err := ctyjson.Marshal(a.Value, ty)
		if err != nil {
			return nil, fmt.Errorf("failed to encode value of artifact '%s': %w", a.ID, err)
		}
		out = append(out, jsonArtifact{
			ID:    string(a.ID),
			Type:  rawType,
			Value: rawValue,
			Meta:  a.Meta,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

// DecodeJSON restores artifacts previously written by EncodeJSON.
func DecodeJSON(data []byte) ([]Artifact, error) {
	var in []jsonArtifact
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse artifact file: %w", err)
	}
	arts := make([]Artifact, 0, len(in))
	for _, ja := range in {
		ty, err := ctyjson.UnmarshalType(ja.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to decode type of artifact '%s': %w", ja.ID, err)
		}
		v, err := ctyjson.Unmarshal(ja.Value, ty)
		if err != nil {
			return nil, fmt.Errorf("failed to decode value of artifact '%s': %w", ja.ID, err)
		}
		meta := ja.Meta
		if meta == nil {
			meta = map[string]string{MetaKeyID: ja.ID}
		}
		arts = append(arts, Artifact{ID: ID(ja.ID), Value: v, Meta: meta})
	}
	return arts, nil
}
