package engine

// Config holds configuration for the orchestration engine.
type Config struct {
	// Progress receives research progress. Nil means LogProgress.
	Progress ProgressSink
}

func (c Config) progress() ProgressSink {
	if c.Progress == nil {
		return LogProgress
	}
	return c.Progress
}
