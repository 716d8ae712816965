// Package task defines the ambient task descriptor that accompanies every
// engine run. A task describes what the caller asked for; builders receive
// it read-only and the gateway mirrors its state on the wire.
package task

// Task identifies one unit of caller work. The engine never interprets the
// input text; it is carried verbatim to every builder.
type Task struct {
	// ID is the caller-assigned identifier, echoed on every emitted event.
	ID string `json:"id"`

	// Input is the free-form request text that triggered the run.
	Input string `json:"input,omitempty"`

	// Metadata holds caller-defined key-value pairs. May be nil.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Role attributes a history message to its author.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is a single turn of prior conversation, passed to builders in
// order so they can ground their work in what was already said.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// State tracks a run's lifecycle as reported over the gateway.
type State string

const (
	StateWorking   State = "working"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Terminal reports whether the state ends a run.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}
