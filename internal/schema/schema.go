package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// --- Graph File Structures ---

// BuilderArgs represents the content of the 'arguments' block within a
// builder. Its attributes are decoded later against the handler's input
// struct, so the body is kept raw here.
type BuilderArgs struct {
	Body hcl.Body `hcl:",remain"`
}

// ArtifactBlock represents an `artifact` block from a user's graph file. It
// declares an artifact id and the cty type its payloads must conform to.
type ArtifactBlock struct {
	ID          string         `hcl:"id,label"`
	Type        hcl.Expression `hcl:"type,optional"`
	Description string         `hcl:"description,optional"`
}

// BuilderBlock represents a `builder` block from a user's graph file. It is a
// runnable instance of a registered handler, wired to the artifact set by
// its consumes and produces lists.
type BuilderBlock struct {
	Name        string       `hcl:"name,label"`
	Handler     string       `hcl:"handler"`
	Description string       `hcl:"description,optional"`
	Consumes    []string     `hcl:"consumes,optional"`
	Produces    []string     `hcl:"produces"`
	Arguments   *BuilderArgs `hcl:"arguments,block"`
}

// ConditionBlock represents a `condition` block from a user's graph file.
// Its `when` expression is evaluated against `artifact.<id>` variables built
// from the inputs list; it gates every builder whose consumed or produced
// ids intersect `gates`.
type ConditionBlock struct {
	Name   string         `hcl:"name,label"`
	Inputs []string       `hcl:"inputs,optional"`
	When   hcl.Expression `hcl:"when"`
	Gates  []string       `hcl:"gates"`
}

// GraphConfig represents the top-level structure of a user's graph file,
// containing all declared artifacts, builders, and conditions.
type GraphConfig struct {
	Artifacts  []*ArtifactBlock  `hcl:"artifact,block"`
	Builders   []*BuilderBlock   `hcl:"builder,block"`
	Conditions []*ConditionBlock `hcl:"condition,block"`
	Body       hcl.Body          `hcl:",remain"`
}
