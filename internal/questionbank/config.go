package questionbank

// Config controls question-set generation.
type Config struct {
	// QuestionCount is the size of each generated set.
	QuestionCount int

	// Validators run on every candidate question in order; the first
	// failure drops the candidate.
	Validators []Validator

	// Shuffle randomizes the order of same-difficulty items in a Bank.
	Shuffle bool

	// Seed fixes the shuffle for reproducible sets. Zero means time-seeded.
	Seed uint64

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorPrompts caps the prior prompts included for de-duplication.
	MaxPriorPrompts int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		QuestionCount: 10,
		Validators: []Validator{
			&StructuralValidator{},
			&ConsistencyValidator{},
		},
		MaxTokens:       4096,
		Temperature:     0.7,
		MaxPriorPrompts: 20,
	}
}

func (c Config) count() int {
	if c.QuestionCount <= 0 {
		return 10
	}
	return c.QuestionCount
}
