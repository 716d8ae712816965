package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath string // hcl files

	// TaskID and TaskInput describe the task a one-shot run executes.
	// Serve mode ignores them; clients send their own tasks.
	TaskID      string
	TaskInput   string
	HistoryPath string

	ArtifactsInPath  string
	ArtifactsOutPath string
	Verbose          bool

	ServePort       int
	HealthcheckPort int
	LogFormat       string
	LogLevel        string
	WorkerCount     int
}

// NewConfig validates a Config and fills in its defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}

	if cfg.TaskID == "" {
		cfg.TaskID = "local"
	}

	// Future validations for other fields can be added here.
	// For example: checking if LogLevel is a valid value.

	return &cfg, nil
}
