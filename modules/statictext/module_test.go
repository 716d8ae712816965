package statictext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/artifactgraphgo/internal/artifact"
	"github.com/vk/artifactgraphgo/internal/builder"
	"github.com/vk/artifactgraphgo/internal/task"
)

type captureSink struct {
	produced []artifact.Artifact
}

func (s *captureSink) Progress(context.Context, string, string) error { return nil }

func (s *captureSink) Produce(_ context.Context, _ string, a artifact.Artifact) error {
	s.produced = append(s.produced, a)
	return nil
}

func textContext(t task.Task, sink *captureSink, outputs ...artifact.ID) *builder.Context {
	b := &builder.Builder{Name: "text", Outputs: outputs}
	return builder.NewContext(t, nil, b, nil, sink)
}

func TestOnBuildStaticText(t *testing.T) {
	t.Run("plain text passes through", func(t *testing.T) {
		sink := &captureSink{}
		err := OnBuildStaticText(context.Background(),
			&Input{Text: "hello world"},
			textContext(task.Task{ID: "t-1"}, sink, "greeting"))

		require.NoError(t, err)
		require.Len(t, sink.produced, 1)
		assert.Equal(t, artifact.ID("greeting"), sink.produced[0].ID)
		assert.Equal(t, "hello world", sink.produced[0].Value.AsString())
	})

	t.Run("task placeholders are replaced", func(t *testing.T) {
		sink := &captureSink{}
		err := OnBuildStaticText(context.Background(),
			&Input{Text: "task {{task.id}} says: {{task.input}}"},
			textContext(task.Task{ID: "t-7", Input: "make tea"}, sink, "greeting"))

		require.NoError(t, err)
		require.Len(t, sink.produced, 1)
		assert.Equal(t, "task t-7 says: make tea", sink.produced[0].Value.AsString())
	})

	t.Run("absent task fields replace with nothing", func(t *testing.T) {
		sink := &captureSink{}
		err := OnBuildStaticText(context.Background(),
			&Input{Text: "input: '{{task.input}}'"},
			textContext(task.Task{ID: "t-8"}, sink, "greeting"))

		require.NoError(t, err)
		require.Len(t, sink.produced, 1)
		assert.Equal(t, "input: ''", sink.produced[0].Value.AsString())
	})

	t.Run("every declared output receives the text", func(t *testing.T) {
		sink := &captureSink{}
		err := OnBuildStaticText(context.Background(),
			&Input{Text: "same"},
			textContext(task.Task{ID: "t-9"}, sink, "a", "b"))

		require.NoError(t, err)
		require.Len(t, sink.produced, 2)
		assert.Equal(t, artifact.ID("a"), sink.produced[0].ID)
		assert.Equal(t, artifact.ID("b"), sink.produced[1].ID)
	})
}
