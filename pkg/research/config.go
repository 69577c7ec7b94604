package research

import "time"

// Config tunes the research collaborators.
type Config struct {
	// Concurrency bounds the SERP queries processed in parallel per level.
	Concurrency int

	// MaxQuestions caps the clarification questions returned.
	MaxQuestions int

	// MaxResults caps the search results fetched per SERP query.
	MaxResults int

	// MaxLearningChars caps the learnings block sent to the report prompt.
	MaxLearningChars int

	// Now returns the current time for prompts. Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns the defaults used when a field is zero.
func DefaultConfig() Config {
	return Config{
		Concurrency:      2,
		MaxQuestions:     3,
		MaxResults:       5,
		MaxLearningChars: 25000,
		Now:              time.Now,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.MaxQuestions <= 0 {
		c.MaxQuestions = d.MaxQuestions
	}
	if c.MaxResults <= 0 {
		c.MaxResults = d.MaxResults
	}
	if c.MaxLearningChars <= 0 {
		c.MaxLearningChars = d.MaxLearningChars
	}
	if c.Now == nil {
		c.Now = d.Now
	}
	return c
}
