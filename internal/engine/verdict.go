package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
)

// ErrInvalidAccusation rejects a submission missing the accused id or the
// reasoning text. A rejected submission spends no attempt and leaves the
// state untouched.
var ErrInvalidAccusation = errors.NewSentinel("accusation must name a suspect and give reasoning")

// Scoring rubric. The weights are a deliberate choice documented here rather
// than inherited arithmetic: 30 for the correct suspect, up to 40 for citing
// key evidence in proportion to the key-evidence list, up to 20 for reasoning
// structure, minus 10 per detected fallacy, clamped to [0,100]. Citing
// non-key evidence never adds points.
const (
	scoreCorrectAccusation = 30
	scoreKeyEvidenceMax    = 40
	scoreSentenceBonus     = 10
	scoreDepthBonus        = 10
	scoreFallacyPenalty    = 10

	minSentences     = 2
	minReasoningWords = 40
)

// Adaptive feedback bands over the remaining attempts.
const (
	vagueHintThreshold  = 7
	directHintThreshold = 2
)

// EvaluateVerdict judges one accusation against the case solution.
//
// Correctness, fallacy detection, scoring, and feedback selection all run on
// every valid submission; every valid submission spends one attempt (floor 0)
// and is appended to the attempt history. When the final attempt is spent the
// result discloses the culprit and flags the case as failed, and later
// submissions keep returning that terminal result without further decrement.
func (e *Engine) EvaluateVerdict(
	def *models.CaseDefinition,
	state models.PlayerState,
	accusation models.Accusation,
) (models.VerdictResult, models.PlayerState, error) {
	if accusation.AccusedID == "" || strings.TrimSpace(accusation.Reasoning) == "" {
		return models.VerdictResult{}, state, ErrInvalidAccusation
	}

	solution := def.Solution
	correct := accusation.AccusedID == solution.Culprit
	fallacies := e.detectFallacies(def, accusation)

	next := state.Clone()
	if next.AttemptsRemaining > 0 {
		next.AttemptsRemaining--
	}
	next.VerdictAttempts = append(next.VerdictAttempts, models.VerdictAttempt{
		AccusedID:        accusation.AccusedID,
		Reasoning:        accusation.Reasoning,
		CitedEvidenceIDs: slices.Clone(accusation.CitedEvidenceIDs),
		Correct:          correct,
		Timestamp:        e.now(),
	})

	missing := missingKeyEvidence(solution, accusation.CitedEvidenceIDs)
	result := models.VerdictResult{
		Correct:           correct,
		Score:             score(correct, solution, accusation, fallacies),
		Fallacies:         fallacies,
		MissingEvidence:   missing,
		HintTone:          hintTone(next.AttemptsRemaining),
		AttemptsRemaining: next.AttemptsRemaining,
	}
	result.Feedback = e.feedback(def, accusation, result)

	if next.AttemptsRemaining == 0 {
		result.CaseFailed = true
		result.RevealedCulprit = solution.Culprit
	}

	return result, next, nil
}

func score(
	correct bool,
	solution models.Solution,
	accusation models.Accusation,
	fallacies []models.Fallacy,
) int {
	total := 0
	if correct {
		total += scoreCorrectAccusation
	}
	if len(solution.KeyEvidence) > 0 {
		cited := keyEvidenceOverlap(solution, accusation.CitedEvidenceIDs)
		total += scoreKeyEvidenceMax * cited / len(solution.KeyEvidence)
	}
	if countSentences(accusation.Reasoning) >= minSentences {
		total += scoreSentenceBonus
	}
	if len(strings.Fields(accusation.Reasoning)) >= minReasoningWords {
		total += scoreDepthBonus
	}
	total -= scoreFallacyPenalty * len(fallacies)

	return min(100, max(0, total))
}

func keyEvidenceOverlap(solution models.Solution, cited []string) int {
	overlap := 0
	for _, key := range solution.KeyEvidence {
		if slices.Contains(cited, key) {
			overlap++
		}
	}
	return overlap
}

func missingKeyEvidence(solution models.Solution, cited []string) []string {
	var missing []string
	for _, key := range solution.KeyEvidence {
		if !slices.Contains(cited, key) {
			missing = append(missing, key)
		}
	}
	return missing
}

func countSentences(text string) int {
	count := 0
	inSentence := false
	for _, r := range text {
		switch r {
		case '.', '!', '?':
			if inSentence {
				count++
			}
			inSentence = false
		default:
			if !isSpaceRune(r) {
				inSentence = true
			}
		}
	}
	if inSentence {
		count++
	}
	return count
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func hintTone(attemptsRemaining int) models.HintTone {
	switch {
	case attemptsRemaining >= vagueHintThreshold:
		return models.HintToneVague
	case attemptsRemaining <= directHintThreshold:
		return models.HintToneDirect
	default:
		return models.HintToneSpecific
	}
}

func (e *Engine) feedback(
	def *models.CaseDefinition,
	accusation models.Accusation,
	result models.VerdictResult,
) string {
	var b strings.Builder

	if result.Correct {
		b.WriteString("You have identified the culprit.")
		if len(result.Fallacies) > 0 {
			b.WriteString(" Your reasoning still shows flaws worth revisiting: ")
			b.WriteString(fallacyList(result.Fallacies))
			b.WriteString(".")
		}
		return b.String()
	}

	if mistake, ok := def.Solution.CommonMistakes[accusation.AccusedID]; ok {
		b.WriteString(mistake.Reason)
		b.WriteString(" ")
		b.WriteString(mistake.WhyWrong)
	} else {
		name := accusation.AccusedID
		if witness, ok := def.WitnessByID(accusation.AccusedID); ok {
			name = witness.Name
		}
		fmt.Fprintf(&b, "The evidence you cite does not support accusing %s.", name)
	}

	switch result.HintTone {
	case models.HintToneVague:
		b.WriteString(" Review what you have gathered before accusing again.")
	case models.HintToneSpecific:
		if n := len(result.MissingEvidence); n > 0 {
			fmt.Fprintf(&b, " You are missing %d key pieces of evidence.", n)
		}
	case models.HintToneDirect:
		switch {
		case len(result.MissingEvidence) > 0:
			if evidence, ok := def.EvidenceByID(result.MissingEvidence[0]); ok {
				fmt.Fprintf(&b, " Take another look at %s.", evidence.Name)
			} else {
				fmt.Fprintf(&b, " Take another look at %s.", result.MissingEvidence[0])
			}
		case len(def.Solution.Deductions) > 0:
			fmt.Fprintf(&b, " Consider this: %s", def.Solution.Deductions[0])
		}
	}

	return b.String()
}

func fallacyList(fallacies []models.Fallacy) string {
	parts := make([]string, len(fallacies))
	for i, f := range fallacies {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
