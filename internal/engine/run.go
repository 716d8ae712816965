package engine

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/artifactgraphgo/internal/artifact"
	"github.com/vk/artifactgraphgo/internal/builder"
	"github.com/vk/artifactgraphgo/internal/ctxlog"
	"github.com/vk/artifactgraphgo/internal/plan"
	"github.com/vk/artifactgraphgo/internal/task"
)

// Request describes one run of the graph.
type Request struct {
	Task    task.Task
	History []task.Message

	// Artifacts are values produced earlier, recognized by their id tag.
	// Builders whose outputs are all present here are skipped.
	Artifacts []artifact.Artifact

	// Verbose adds plan, skip-set, and summary progress events.
	Verbose bool
}

// Run starts the graph and returns its event stream immediately. The run
// proceeds only as fast as the caller consumes events; cancel ctx to
// abandon it. Once the stream's channel closes, Stream.Err reports the
// outcome.
func (e *Engine) Run(ctx context.Context, req Request) *Stream {
	s := newStream()
	go func() {
		s.close(e.run(ctx, req, s))
	}()
	return s
}

func (e *Engine) run(ctx context.Context, req Request, s *Stream) error {
	logger := ctxlog.FromContext(ctx).With("task", req.Task.ID)
	logger.Info("▶️ Starting artifact graph run.", "builders", len(e.builders), "supplied_artifacts", len(req.Artifacts))

	tbl := newTable()
	e.seedTable(ctx, req.Artifacts, tbl)

	active, err := e.applySkips(ctx, req, tbl, s)
	if err != nil {
		return err
	}

	p, err := plan.Compute(active)
	if err != nil {
		logger.Error("Planning failed.", "error", err)
		return err
	}
	if req.Verbose && len(p.Batches) > 0 {
		if err := s.emit(ctx, Progress{Text: "plan: " + p.Describe()}); err != nil {
			return err
		}
	}

	for i, batch := range p.Batches {
		logger.Debug("Starting batch.", "batch", i+1, "builders", len(batch))

		runnable, err := e.gateBatch(ctx, batch, tbl, s)
		if err != nil {
			return err
		}
		if err := e.runBatch(ctx, req, runnable, tbl, s); err != nil {
			logger.Error("Batch failed.", "batch", i+1, "error", err)
			return err
		}
	}

	if req.Verbose {
		if err := s.emit(ctx, Progress{Text: e.summarize(tbl)}); err != nil {
			return err
		}
	}

	logger.Info("✅ Artifact graph run finished.")
	return nil
}

// seedTable loads pre-existing artifacts into the run table. Only values
// tagged with a known artifact id participate; everything else is ignored
// so a caller can replay a mixed artifact dump safely.
func (e *Engine) seedTable(ctx context.Context, supplied []artifact.Artifact, tbl *table) {
	logger := ctxlog.FromContext(ctx)
	for _, a := range supplied {
		id, ok := artifact.TagID(a)
		if !ok {
			logger.Warn("Ignoring supplied artifact without an id tag.")
			continue
		}
		if !e.isKnownID(id) {
			logger.Warn("Ignoring supplied artifact with unknown id.", "id", id)
			continue
		}
		a.ID = id
		tbl.put(a)
		logger.Debug("Loaded pre-existing artifact.", "id", id)
	}
}

func (e *Engine) isKnownID(id artifact.ID) bool {
	for _, known := range e.knownIDs {
		if known == id {
			return true
		}
	}
	return false
}

// applySkips drops builders whose declared outputs all exist already and
// returns the rest in registration order.
func (e *Engine) applySkips(ctx context.Context, req Request, tbl *table, s *Stream) ([]*builder.Builder, error) {
	logger := ctxlog.FromContext(ctx)
	var active []*builder.Builder
	for _, b := range e.builders {
		done := true
		for _, out := range b.Outputs {
			if !tbl.has(out) {
				done = false
				break
			}
		}
		if !done {
			active = append(active, b)
			continue
		}
		logger.Debug("Skipping builder, outputs already present.", "builder", b.Name)
		if req.Verbose {
			text := fmt.Sprintf("skipping builder '%s': outputs [%s] already present", b.Name, joinIDs(b.Outputs))
			if err := s.emit(ctx, Progress{Builder: b.Name, Text: text}); err != nil {
				return nil, err
			}
		}
	}
	return active, nil
}

// gateBatch evaluates conditions for each builder of a batch, in batch
// order, before anything in the batch runs. A condition whose input cannot
// be resolved aborts the run; a false predicate skips the builder with an
// observable event.
func (e *Engine) gateBatch(ctx context.Context, batch plan.Batch, tbl *table, s *Stream) ([]*builder.Builder, error) {
	logger := ctxlog.FromContext(ctx)
	var runnable []*builder.Builder
	for _, b := range batch {
		blockedBy, err := e.checkConditions(b, tbl)
		if err != nil {
			return nil, err
		}
		if blockedBy != "" {
			logger.Info("Skipping builder, condition not satisfied.", "builder", b.Name, "condition", blockedBy)
			text := fmt.Sprintf("skipping builder '%s': condition '%s' not satisfied", b.Name, blockedBy)
			if err := s.emit(ctx, Progress{Builder: b.Name, Text: text}); err != nil {
				return nil, err
			}
			continue
		}
		runnable = append(runnable, b)
	}
	return runnable, nil
}

// checkConditions evaluates every condition gating b, in registration
// order. It returns the name of the first unsatisfied condition, or "" when
// all hold. This runs before each execution attempt, and a condition whose
// Then names one of b's own outputs still gates b.
func (e *Engine) checkConditions(b *builder.Builder, tbl *table) (string, error) {
	for _, c := range e.conditions {
		if !c.Gates(b) {
			continue
		}
		inputs := make(map[artifact.ID]cty.Value, len(c.Inputs))
		for _, id := range c.Inputs {
			a, ok := tbl.get(id)
			if !ok {
				return "", &MissingArtifactError{Builder: b.Name, Condition: c.Name, ID: id}
			}
			inputs[id] = a.Value
		}
		ok, err := c.Predicate(inputs)
		if err != nil {
			return "", fmt.Errorf("condition '%s' for builder '%s' failed: %w", c.Name, b.Name, err)
		}
		if !ok {
			return c.Name, nil
		}
	}
	return "", nil
}

// runBatch executes one batch's surviving builders, at most e.concurrency
// at a time. The first failure cancels the rest of the batch and aborts
// the run. With a limit of one the batch runs strictly in resolved order,
// which keeps single-worker runs fully deterministic.
func (e *Engine) runBatch(ctx context.Context, req Request, batch []*builder.Builder, tbl *table, s *Stream) error {
	if len(batch) == 0 {
		return nil
	}

	limit := e.concurrency
	if limit <= 0 || limit > len(batch) {
		limit = len(batch)
	}

	if limit == 1 {
		for _, b := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.invoke(ctx, req, b, tbl, s); err != nil {
				return err
			}
		}
		return nil
	}

	sem := make(chan struct{}, limit)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	for _, b := range batch {
		wg.Add(1)
		go func(b *builder.Builder) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-runCtx.Done():
				return
			}
			if err := e.invoke(runCtx, req, b, tbl, s); err != nil {
				fail(err)
			}
		}(b)
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// invoke resolves a builder's declared inputs and runs it. Inputs come
// from the table only; an absent one means scheduling let a gap through,
// which aborts the run rather than running the builder blind.
func (e *Engine) invoke(ctx context.Context, req Request, b *builder.Builder, tbl *table, s *Stream) error {
	logger := ctxlog.FromContext(ctx).With("builder", b.Name)
	logger.Info("▶️ Starting builder.")

	inputs := make(map[artifact.ID]cty.Value, len(b.Inputs))
	for _, id := range b.Inputs {
		a, ok := tbl.get(id)
		if !ok {
			return &MissingArtifactError{Builder: b.Name, ID: id}
		}
		inputs[id] = a.Value
	}

	sink := &streamSink{defs: e.defs, table: tbl, stream: s}
	bc := builder.NewContext(req.Task, req.History, b, inputs, sink)
	if err := b.Run(ctx, bc); err != nil {
		return fmt.Errorf("builder '%s' failed: %w", b.Name, err)
	}

	logger.Info("✅ Finished builder.")
	return nil
}

// summarize renders the end-of-run calculated/missing report over the full
// known artifact set.
func (e *Engine) summarize(tbl *table) string {
	var have, missing []artifact.ID
	for _, id := range e.knownIDs {
		if tbl.has(id) {
			have = append(have, id)
		} else {
			missing = append(missing, id)
		}
	}
	return fmt.Sprintf("run summary: calculated [%s]; missing [%s]", joinIDs(have), joinIDs(missing))
}

func joinIDs(ids []artifact.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
