package engine

import (
	"sync"

	"github.com/vk/artifactgraphgo/internal/artifact"
)

// table is the run-scoped artifact store. It holds at most one live
// artifact per id; re-production replaces the previous value wholesale.
// Builders in the same batch write concurrently, so access is guarded.
type table struct {
	mu        sync.RWMutex
	artifacts map[artifact.ID]artifact.Artifact
}

func newTable() *table {
	return &table{artifacts: make(map[artifact.ID]artifact.Artifact)}
}

func (t *table) put(a artifact.Artifact) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.artifacts[a.ID] = a
}

func (t *table) get(id artifact.ID) (artifact.Artifact, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	a, ok := t.artifacts[id]
	return a, ok
}

func (t *table) has(id artifact.ID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.artifacts[id]
	return ok
}
