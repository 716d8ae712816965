// Package artifact defines the typed data units that builders consume and
// produce. Artifact identifiers form a closed set declared alongside the
// graph; payloads are cty values so the same artifact can cross HCL
// expressions, Go handlers, and the wire without translation.
package artifact

import (
	"github.com/zclconf/go-cty/cty"
)

// MetaKeyID is the metadata key under which the engine records the artifact
// id on every artifact it produces. The same key identifies pre-existing
// artifacts supplied at run start; values without it are ignored.
const MetaKeyID = "artifactgraph.id"

// ID names one artifact within the closed set a graph declares.
type ID string

// Artifact is an immutable produced value. Re-producing an id replaces the
// whole artifact; nothing mutates one in place.
type Artifact struct {
	ID    ID
	Value cty.Value
	Meta  map[string]string
}

// New returns an artifact for id carrying value, tagged with MetaKeyID so
// a future run can recognize it.
func New(id ID, value cty.Value) Artifact {
	return Artifact{
		ID:    id,
		Value: value,
		Meta:  map[string]string{MetaKeyID: string(id)},
	}
}

// TagID extracts the artifact id recorded in an artifact's metadata.
// The second return is false when the artifact carries no id tag.
func TagID(a Artifact) (ID, bool) {
	if a.Meta == nil {
		return "", false
	}
	id, ok := a.Meta[MetaKeyID]
	if !ok || id == "" {
		return "", false
	}
	return ID(id), true
}
