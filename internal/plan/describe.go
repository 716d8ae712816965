package plan

import (
	"fmt"
	"strings"
)

// Describe renders the batch order as one line of human-readable text,
// e.g. "batch 1: [fetch]; batch 2: [parse, summarize]".
func (p *Plan) Describe() string {
	var sb strings.Builder
	for i, batch := range p.Batches {
		if i > 0 {
			sb.WriteString("; ")
		}
		names := make([]string, len(batch))
		for j, b := range batch {
			names[j] = b.Name
		}
		fmt.Fprintf(&sb, "batch %d: [%s]", i+1, strings.Join(names, ", "))
	}
	return sb.String()
}
