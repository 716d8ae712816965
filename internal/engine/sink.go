package engine

import (
	"context"

	"github.com/vk/artifactgraphgo/internal/artifact"
)

// streamSink is the engine's side of the builder emission contract. Each
// produced artifact is schema-checked, recorded in the run table, and only
// then forwarded, so downstream consumers never observe an artifact the
// table does not hold.
type streamSink struct {
	defs   artifact.Definitions
	table  *table
	stream *Stream
}

func (sk *streamSink) Progress(ctx context.Context, builderName, text string) error {
	return sk.stream.emit(ctx, Progress{Builder: builderName, Text: text})
}

func (sk *streamSink) Produce(ctx context.Context, builderName string, a artifact.Artifact) error {
	if err := sk.defs.Validate(a.ID, a.Value); err != nil {
		return err
	}
	sk.table.put(a)
	return sk.stream.emit(ctx, ArtifactProduced{Builder: builderName, Artifact: a})
}
