package questionbank

import "strings"

const (
	maxPromptLen      = 1000
	maxExplanationLen = 2000
	maxOptions        = 8
)

// StructuralValidator checks required fields, lengths and enum values.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg}
	}

	switch {
	case strings.TrimSpace(q.Prompt) == "":
		return fail("prompt is empty")
	case len(q.Prompt) > maxPromptLen:
		return fail("prompt exceeds 1000 characters")
	case len(q.Explanation) > maxExplanationLen:
		return fail("explanation exceeds 2000 characters")
	case !q.Type.Valid():
		return fail("type must be single_choice, multi_choice or short_answer")
	case !q.Difficulty.Valid():
		return fail("difficulty out of range")
	}

	if q.Type.HasOptions() {
		if len(q.Options) < 2 {
			return fail("choice questions need at least 2 options")
		}
		if len(q.Options) > maxOptions {
			return fail("too many options")
		}
		seen := make(map[string]bool, len(q.Options))
		for _, o := range q.Options {
			if o.ID == "" || strings.TrimSpace(o.Text) == "" {
				return fail("option id and text are required")
			}
			if seen[o.ID] {
				return fail("duplicate option id " + o.ID)
			}
			seen[o.ID] = true
		}
	} else if len(q.Options) > 0 {
		return fail("short answers must not carry options")
	}
	return nil
}

// ConsistencyValidator checks that the correct answer fits the question.
type ConsistencyValidator struct{}

func (v *ConsistencyValidator) Name() string { return "consistency" }

func (v *ConsistencyValidator) Validate(q *Question) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg}
	}

	switch q.Type {
	case SingleChoice:
		if len(q.CorrectAnswer) != 1 {
			return fail("single choice needs exactly one correct option")
		}
	case ShortAnswer:
		if len(q.CorrectAnswer) == 0 || Answer(q.CorrectAnswer).IsEmpty() {
			return fail("short answer needs at least one accepted answer")
		}
		return nil
	}

	for _, id := range q.CorrectAnswer {
		if !q.HasOption(id) {
			return fail("correct answer " + id + " is not an option")
		}
	}
	return nil
}
