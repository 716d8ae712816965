package envseed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/artifactgraphgo/internal/artifact"
	"github.com/vk/artifactgraphgo/internal/builder"
	"github.com/vk/artifactgraphgo/internal/task"
)

type captureSink struct {
	progress []string
	produced []artifact.Artifact
}

func (s *captureSink) Progress(_ context.Context, _, text string) error {
	s.progress = append(s.progress, text)
	return nil
}

func (s *captureSink) Produce(_ context.Context, _ string, a artifact.Artifact) error {
	s.produced = append(s.produced, a)
	return nil
}

func seedContext(sink *captureSink, outputs ...artifact.ID) *builder.Context {
	b := &builder.Builder{Name: "seed", Outputs: outputs}
	return builder.NewContext(task.Task{ID: "t-1"}, nil, b, nil, sink)
}

func TestOnBuildEnvSeed(t *testing.T) {
	t.Run("allow-list exports only named variables", func(t *testing.T) {
		t.Setenv("AGGO_TEST_HOST", "example.com")
		t.Setenv("AGGO_TEST_TOKEN", "s3cret")

		sink := &captureSink{}
		err := OnBuildEnvSeed(context.Background(),
			&Input{Vars: []string{"AGGO_TEST_HOST", "AGGO_TEST_TOKEN"}},
			seedContext(sink, "env"))

		require.NoError(t, err)
		require.Len(t, sink.produced, 1)
		assert.Equal(t, artifact.ID("env"), sink.produced[0].ID)

		v := sink.produced[0].Value
		assert.Equal(t, "example.com", v.GetAttr("AGGO_TEST_HOST").AsString())
		assert.Equal(t, "s3cret", v.GetAttr("AGGO_TEST_TOKEN").AsString())
		assert.Len(t, v.Type().AttributeTypes(), 2)

		require.Len(t, sink.progress, 1)
		assert.Equal(t, "seeded 2 environment variables", sink.progress[0])
	})

	t.Run("unset variables are omitted", func(t *testing.T) {
		t.Setenv("AGGO_TEST_PRESENT", "yes")

		sink := &captureSink{}
		err := OnBuildEnvSeed(context.Background(),
			&Input{Vars: []string{"AGGO_TEST_PRESENT", "AGGO_TEST_DEFINITELY_NOT_SET"}},
			seedContext(sink, "env"))

		require.NoError(t, err)
		require.Len(t, sink.produced, 1)
		v := sink.produced[0].Value
		assert.True(t, v.Type().HasAttribute("AGGO_TEST_PRESENT"))
		assert.False(t, v.Type().HasAttribute("AGGO_TEST_DEFINITELY_NOT_SET"))
	})

	t.Run("empty allow-list exports the whole environment", func(t *testing.T) {
		t.Setenv("AGGO_TEST_MARKER", "here")

		sink := &captureSink{}
		err := OnBuildEnvSeed(context.Background(), &Input{}, seedContext(sink, "env"))

		require.NoError(t, err)
		require.Len(t, sink.produced, 1)
		v := sink.produced[0].Value
		require.True(t, v.Type().HasAttribute("AGGO_TEST_MARKER"))
		assert.Equal(t, "here", v.GetAttr("AGGO_TEST_MARKER").AsString())
	})

	t.Run("every declared output receives the object", func(t *testing.T) {
		t.Setenv("AGGO_TEST_FAN", "out")

		sink := &captureSink{}
		err := OnBuildEnvSeed(context.Background(),
			&Input{Vars: []string{"AGGO_TEST_FAN"}},
			seedContext(sink, "env_a", "env_b"))

		require.NoError(t, err)
		require.Len(t, sink.produced, 2)
		assert.Equal(t, artifact.ID("env_a"), sink.produced[0].ID)
		assert.Equal(t, artifact.ID("env_b"), sink.produced[1].ID)
		assert.True(t, sink.produced[0].Value.RawEquals(sink.produced[1].Value))
	})

	t.Run("no matches produce an empty object", func(t *testing.T) {
		sink := &captureSink{}
		err := OnBuildEnvSeed(context.Background(),
			&Input{Vars: []string{"AGGO_TEST_NOPE_1", "AGGO_TEST_NOPE_2"}},
			seedContext(sink, "env"))

		require.NoError(t, err)
		require.Len(t, sink.produced, 1)
		assert.True(t, sink.produced[0].Value.RawEquals(cty.EmptyObjectVal))
	})
}
