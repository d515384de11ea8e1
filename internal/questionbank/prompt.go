package questionbank

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write assessment questions that measure a learner's command of one professional skill.

Rules:
- Generate exactly the requested number of questions, ordered from the starting difficulty outward.
- Each question must be self-contained and answerable without external material.
- single_choice: 2-8 options, exactly one correct. multi_choice: 2-8 options, zero or more correct. short_answer: no options, one or more accepted answers.
- Option ids are short tokens such as "a", "b", "c". The answer lists option ids for choice questions.
- Distractors should reflect real misconceptions, not obviously wrong filler.
- Keep short answers to a word or short phrase so they can be matched exactly.
- The explanation states why the correct answer is correct in two or three sentences.
- Do not repeat any question from the "already asked" list.`

func buildUserMessage(input GenerateInput, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Skill: %s\n", input.Skill.Name)
	if input.Skill.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", input.Skill.Description)
	}
	if len(input.Skill.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(input.Skill.Keywords, ", "))
	}
	fmt.Fprintf(&b, "Learner proficiency: %s\n", input.Proficiency)
	start := input.StartDifficulty()
	fmt.Fprintf(&b, "Starting difficulty: %d (%s)\n", int(start), start)
	fmt.Fprintf(&b, "Number of questions: %d\n", cfg.count())

	b.WriteString("\nAlready asked:\n")
	b.WriteString(priorList(input.PriorPrompts, cfg.MaxPriorPrompts))
	return b.String()
}

// priorList keeps only the most recent max prompts. "None" when empty.
func priorList(prompts []string, max int) string {
	if len(prompts) == 0 {
		return "None"
	}
	if max > 0 && len(prompts) > max {
		prompts = prompts[len(prompts)-max:]
	}
	var b strings.Builder
	for i, p := range prompts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
