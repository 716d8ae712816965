package engine

import (
	"github.com/vk/artifactgraphgo/internal/artifact"
)

// Event is one element of a run's output stream. It has exactly two
// variants: Progress and ArtifactProduced. Consumers resolve them with a
// type switch; no other implementations exist.
type Event interface {
	isEvent()
}

// Progress is a human-readable status message. Builder names the builder it
// came from; engine-level messages (plan, summary) leave it empty.
type Progress struct {
	Builder string
	Text    string
}

func (Progress) isEvent() {}

// ArtifactProduced carries one materialized artifact, already tagged and
// recorded in the run's artifact table.
type ArtifactProduced struct {
	Builder  string
	Artifact artifact.Artifact
}

func (ArtifactProduced) isEvent() {}
