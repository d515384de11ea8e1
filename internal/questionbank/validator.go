package questionbank

import "fmt"

// Validator checks a candidate question before it enters a set.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in error messages.
	Name() string

	// Validate returns nil if the question is usable.
	Validate(q *Question) *ValidationError
}

// ValidationError describes why a candidate question was rejected.
type ValidationError struct {
	Validator  string
	QuestionID string
	Message    string
}

func (e *ValidationError) Error() string {
	if e.QuestionID != "" {
		return fmt.Sprintf("validator %q: question %s: %s", e.Validator, e.QuestionID, e.Message)
	}
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

func runValidators(vs []Validator, q *Question) *ValidationError {
	for _, v := range vs {
		if verr := v.Validate(q); verr != nil {
			verr.QuestionID = q.ID
			return verr
		}
	}
	return nil
}
