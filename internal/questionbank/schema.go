package questionbank

import "github.com/abhisek/skillcheck/internal/llm"

// QuestionSetSchema defines the JSON schema for LLM question-set responses.
var QuestionSetSchema = &llm.Schema{
	Name:        "question-set",
	Description: "An ordered set of assessment questions for one skill",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"prompt": map[string]any{
							"type":        "string",
							"description": "The question shown to the learner, self-contained",
						},
						"type": map[string]any{
							"type": "string",
							"enum": []any{string(SingleChoice), string(MultiChoice), string(ShortAnswer)},
						},
						"options": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"id":   map[string]any{"type": "string"},
									"text": map[string]any{"type": "string"},
								},
								"required":             []any{"id", "text"},
								"additionalProperties": false,
							},
							"description": "2-8 options for choice types, empty for short_answer",
						},
						"answer": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Correct option ids for choice types, accepted answers for short_answer",
						},
						"difficulty": map[string]any{
							"type":        "integer",
							"minimum":     1,
							"maximum":     5,
							"description": "1 intro, 2 basic, 3 intermediate, 4 advanced, 5 expert",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct answer is correct",
						},
					},
					"required":             []any{"prompt", "type", "options", "answer", "difficulty", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
