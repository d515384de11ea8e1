package llm

// Purpose labels what a request is for. It selects request defaults and is
// recorded on every logged call.
type Purpose string

const (
	PurposeQuestionSet Purpose = "question-set"
	PurposeGrading     Purpose = "grading"
)

// purposeDefaults fill in MaxTokens when a caller leaves it zero. A question
// set carries a whole batch of items; a grading verdict is a few fields.
var purposeDefaults = map[Purpose]int{
	PurposeQuestionSet: 4096,
	PurposeGrading:     512,
}

const fallbackMaxTokens = 1024

func (p Purpose) String() string {
	if p == "" {
		return "unknown"
	}
	return string(p)
}

// withDefaults returns req with MaxTokens set from its purpose when unset.
func (r Request) withDefaults() Request {
	if r.MaxTokens > 0 {
		return r
	}
	if n, ok := purposeDefaults[r.Purpose]; ok {
		r.MaxTokens = n
	} else {
		r.MaxTokens = fallbackMaxTokens
	}
	return r
}
