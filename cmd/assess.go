package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/assessment"
	"github.com/abhisek/skillcheck/internal/questionbank"
	"github.com/abhisek/skillcheck/internal/skill"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Take an assessment in the terminal",
	Long: `Run one assessment interactively.

Answer choice questions with option IDs (comma separated for multi choice)
and short answers with free text. Enter :prev to go back, :check to grade
the current answer, or :quit to stop without scoring.`,
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().String("skill", "", "Skill ID (required)")
	assessCmd.Flags().String("proficiency", "awareness", "Target proficiency: awareness, knowledge, skill or mastery")
	assessCmd.Flags().Bool("adaptive", false, "Grade each answer immediately and adapt difficulty")
	assessCmd.Flags().String("learner", "", "Learner ID (defaults to $USER)")
	_ = assessCmd.MarkFlagRequired("skill")
}

func runAssess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	skillID, _ := cmd.Flags().GetString("skill")
	profVal, _ := cmd.Flags().GetString("proficiency")
	adaptive, _ := cmd.Flags().GetBool("adaptive")
	learner, _ := cmd.Flags().GetString("learner")
	if learner == "" {
		learner = os.Getenv("USER")
	}
	if learner == "" {
		learner = "local"
	}

	prof, err := skill.ParseProficiency(profVal)
	if err != nil {
		return err
	}

	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	eng, err := buildEngine(ctx, cmd, log)
	if err != nil {
		return err
	}
	defer eng.Close()

	sk, err := eng.bank.Lookup(ctx, skillID)
	if err != nil {
		return err
	}
	s, err := eng.newSession(learner, sk, prof, adaptive)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Skill: %s (%s)\nGenerating questions...\n\n", sk.Name, prof)
	if err := s.Start(ctx); err != nil {
		return err
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		snap := s.Snapshot()
		if snap.Phase == assessment.PhaseCompleted {
			break
		}
		printQuestion(out, snap)

		fmt.Fprint(out, "\nYour answer: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\n(input closed)")
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case ":quit":
			return nil
		case ":prev":
			if err := s.Previous(); err != nil {
				return err
			}
			continue
		case ":check":
			// The feedback is shown when the question is printed again.
			_, err := s.SubmitAnswer(ctx)
			if !reportInputErr(out, err) && err != nil {
				return err
			}
			continue
		}

		multi := snap.CurrentQuestion.Type == questionbank.MultiChoice
		if (line != "" || multi) && snap.Feedback == nil {
			if reportInputErr(out, s.Answer(parseAnswer(line, snap))) {
				continue
			}
		}
		if adaptive && snap.Feedback == nil {
			fb, err := s.SubmitAnswer(ctx)
			if reportInputErr(out, err) {
				continue
			}
			if err != nil {
				return err
			}
			printFeedback(out, fb, s.Snapshot())
		}
		if err := s.Next(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}

	o, err := s.Submit(ctx)
	if err != nil {
		if errors.Is(err, assessment.ErrIncomplete) {
			return fmt.Errorf("%w: use :prev to go back and answer every question", err)
		}
		return err
	}

	verdict := "\033[31mnot passed\033[0m"
	if o.Result.Passed {
		verdict = "\033[32mpassed\033[0m"
	}
	fmt.Fprintf(out, "── Result: %d/%d correct, score %d, %s ──\n", o.Result.Correct, o.Result.Total, o.Result.Score, verdict)
	if o.Award != nil {
		fmt.Fprintf(out, "Badge earned: %s (%s)\n", o.Award.Reason, o.Award.Rarity)
	}
	if o.Pending() {
		fmt.Fprintln(out, "Warning: the attempt could not be fully recorded.")
	}
	return nil
}

func parseAnswer(line string, snap assessment.Snapshot) []string {
	if snap.CurrentQuestion == nil || snap.CurrentQuestion.Type == questionbank.ShortAnswer {
		return []string{line}
	}
	var ids []string
	for _, part := range strings.Split(line, ",") {
		if p := strings.TrimSpace(part); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// reportInputErr prints errors the learner can correct and reports whether
// err was one of them.
func reportInputErr(w io.Writer, err error) bool {
	switch {
	case errors.Is(err, assessment.ErrMissingAnswer),
		errors.Is(err, assessment.ErrIncompatibleAnswer),
		errors.Is(err, assessment.ErrAnswerLocked):
		fmt.Fprintf(w, "  %v\n\n", err)
		return true
	}
	return false
}

func printQuestion(w io.Writer, snap assessment.Snapshot) {
	q := snap.CurrentQuestion
	fmt.Fprintf(w, "── Question %d/%d (%s) ──\n", snap.Index+1, snap.Total, q.Difficulty)
	fmt.Fprintln(w, q.Prompt)
	for _, o := range q.Options {
		fmt.Fprintf(w, "  %s) %s\n", o.ID, o.Text)
	}
	if q.Type == questionbank.MultiChoice {
		fmt.Fprintln(w, "  (select all that apply, or leave empty for none)")
	}
	if len(q.Answer) > 0 {
		fmt.Fprintf(w, "Current answer: %s\n", strings.Join(q.Answer, ", "))
	}
	if snap.Feedback != nil {
		printFeedback(w, *snap.Feedback, snap)
	}
}

func printFeedback(w io.Writer, fb questionbank.Feedback, snap assessment.Snapshot) {
	if fb.Correct {
		fmt.Fprintln(w, "\033[32m✓ Correct!\033[0m")
	} else {
		fmt.Fprint(w, "\033[31m✗ Wrong.\033[0m")
		if snap.CurrentQuestion != nil && len(snap.CurrentQuestion.CorrectAnswer) > 0 {
			fmt.Fprintf(w, " Answer: %s", strings.Join(snap.CurrentQuestion.CorrectAnswer, ", "))
		}
		fmt.Fprintln(w)
	}
	if fb.Explanation != "" {
		fmt.Fprintf(w, "Explanation: %s\n", fb.Explanation)
	}
}
