package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of a complete
// artifact graph: every declared artifact, every builder, and every
// condition that gates them.
type Model struct {
	Artifacts  map[string]*ArtifactDefinition
	Builders   []*BuilderDefinition
	Conditions []*ConditionDefinition
}

// ArtifactDefinition is the format-agnostic representation of an `artifact`
// block: a stable id plus the type its payloads must conform to.
type ArtifactDefinition struct {
	ID          string
	Type        cty.Type
	Description string
}

// BuilderDefinition is the format-agnostic representation of a `builder`
// block. Builders keep the order they were declared in; the scheduler uses
// that order as a tie-break inside a batch.
type BuilderDefinition struct {
	Name        string
	Handler     string
	Description string
	Consumes    []string
	Produces    []string
	Arguments   map[string]hcl.Expression
}

// ConditionDefinition is the format-agnostic representation of a `condition`
// block. The Predicate closes over the source format's expression; it
// receives the condition's resolved inputs keyed by artifact id and returns
// whether the gated builders may run. A predicate error aborts the run.
type ConditionDefinition struct {
	Name      string
	Inputs    []string
	Gates     []string
	Predicate func(inputs map[string]cty.Value) (bool, error)
}
