// Package engine executes artifact graphs. Given a validated builder set it
// plans batches, skips work whose outputs already exist, evaluates gating
// conditions, runs each batch with bounded concurrency, and streams
// progress events and produced artifacts to the caller as they happen.
//
// The engine holds no state between runs. Resumption is the caller's
// choice: feed the artifacts of a previous run into the next request and
// their producers are skipped.
package engine

import (
	"fmt"
	"sort"

	"github.com/vk/artifactgraphgo/internal/artifact"
	"github.com/vk/artifactgraphgo/internal/builder"
	"github.com/vk/artifactgraphgo/internal/plan"
)

// Engine runs one artifact graph. Safe for concurrent runs; all run state
// lives in the run itself.
type Engine struct {
	builders    []*builder.Builder
	conditions  []*builder.Condition
	defs        artifact.Definitions
	concurrency int

	// knownIDs is the full artifact universe (builder-mentioned ids plus
	// declared definitions), sorted once for stable reporting.
	knownIDs []artifact.ID
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithConditions attaches gating conditions. A condition applies to every
// builder whose inputs or outputs intersect its Then ids.
func WithConditions(conds ...*builder.Condition) Option {
	return func(e *Engine) {
		e.conditions = append(e.conditions, conds...)
	}
}

// WithDefinitions attaches the declared artifact set. When present, every
// id a builder or condition mentions must be declared, and produced
// payloads are checked against their declared types.
func WithDefinitions(defs artifact.Definitions) Option {
	return func(e *Engine) {
		e.defs = defs
	}
}

// WithConcurrency caps how many builders of one batch run at once.
// Zero or negative means no cap.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		e.concurrency = n
	}
}

// New validates the graph and returns an engine for it. Validation covers
// everything knowable without running: empty or duplicate builder names,
// builders with no outputs or no run function, two producers for one id,
// artifacts no composition of builders can produce, references to
// undeclared artifacts, and conditions without a predicate.
func New(builders []*builder.Builder, opts ...Option) (*Engine, error) {
	e := &Engine{builders: builders}
	for _, opt := range opts {
		opt(e)
	}

	seen := make(map[string]bool, len(builders))
	for _, b := range builders {
		if b.Name == "" {
			return nil, fmt.Errorf("builder name must not be empty")
		}
		if seen[b.Name] {
			return nil, fmt.Errorf("duplicate builder name '%s'", b.Name)
		}
		seen[b.Name] = true
		if len(b.Outputs) == 0 {
			return nil, fmt.Errorf("builder '%s' declares no outputs", b.Name)
		}
		if b.Run == nil {
			return nil, fmt.Errorf("builder '%s' has no run function", b.Name)
		}
	}

	if _, err := plan.Producers(builders); err != nil {
		return nil, err
	}

	if unreachable := plan.FindUnreachable(builders); len(unreachable) > 0 {
		return nil, &UnreachableArtifactsError{IDs: unreachable}
	}

	for _, c := range e.conditions {
		if c.Predicate == nil {
			return nil, fmt.Errorf("condition '%s' has no predicate", c.Name)
		}
	}

	if e.defs != nil {
		for _, b := range builders {
			for _, id := range b.Inputs {
				if !e.defs.Has(id) {
					return nil, fmt.Errorf("builder '%s' consumes undeclared artifact '%s'", b.Name, id)
				}
			}
			for _, id := range b.Outputs {
				if !e.defs.Has(id) {
					return nil, fmt.Errorf("builder '%s' produces undeclared artifact '%s'", b.Name, id)
				}
			}
		}
		for _, c := range e.conditions {
			for _, id := range c.Inputs {
				if !e.defs.Has(id) {
					return nil, fmt.Errorf("condition '%s' reads undeclared artifact '%s'", c.Name, id)
				}
			}
			for _, id := range c.Then {
				if !e.defs.Has(id) {
					return nil, fmt.Errorf("condition '%s' gates undeclared artifact '%s'", c.Name, id)
				}
			}
		}
	}

	e.knownIDs = collectKnownIDs(builders, e.defs)
	return e, nil
}

// collectKnownIDs gathers every id the graph can talk about, sorted.
func collectKnownIDs(builders []*builder.Builder, defs artifact.Definitions) []artifact.ID {
	set := make(map[artifact.ID]struct{})
	for _, b := range builders {
		for _, id := range b.Inputs {
			set[id] = struct{}{}
		}
		for _, id := range b.Outputs {
			set[id] = struct{}{}
		}
	}
	for id := range defs {
		set[id] = struct{}{}
	}
	ids := make([]artifact.ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
