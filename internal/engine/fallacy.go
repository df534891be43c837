package engine

import (
	"slices"
	"strings"

	"github.com/myrjola/gumshoe/internal/models"
)

// counterArgumentKeywords mark reasoning that explicitly engages with a
// suspect's standing, which disarms the appeal-to-authority heuristic. The
// detection is best-effort and never blocks a submission.
var counterArgumentKeywords = []string{
	"despite",
	"even though",
	"regardless",
	"authority",
	"status",
	"position",
	"reputation",
}

// detectFallacies runs every detector regardless of correctness. Each
// detector is an independent heuristic over the accusation and the
// case-supplied tables; none of them consults the others.
func (e *Engine) detectFallacies(def *models.CaseDefinition, accusation models.Accusation) []models.Fallacy {
	var fallacies []models.Fallacy
	if confirmationBias(def.Solution, accusation) {
		fallacies = append(fallacies, models.FallacyConfirmationBias)
	}
	if correlationNotCausation(def.Solution, accusation) {
		fallacies = append(fallacies, models.FallacyCorrelationNotCausation)
	}
	if appealToAuthority(def, accusation) {
		fallacies = append(fallacies, models.FallacyAppealToAuthority)
	}
	if postHoc(def.Solution, accusation) {
		fallacies = append(fallacies, models.FallacyPostHoc)
	}
	return fallacies
}

// confirmationBias fires when fewer than half of the key-evidence ids are
// cited. A case without key evidence cannot exhibit it.
func confirmationBias(solution models.Solution, accusation models.Accusation) bool {
	if len(solution.KeyEvidence) == 0 {
		return false
	}
	overlap := keyEvidenceOverlap(solution, accusation.CitedEvidenceIDs)
	return 2*overlap < len(solution.KeyEvidence)
}

// correlationNotCausation fires when the citations place the accused at the
// scene through presence evidence but omit every piece of timeline evidence
// the case pairs with it. The pairing table comes from the case definition;
// nothing here is specific to one case.
func correlationNotCausation(solution models.Solution, accusation models.Accusation) bool {
	citedPresence := false
	for _, pair := range solution.CausationPairs {
		if !slices.Contains(accusation.CitedEvidenceIDs, pair.PresenceEvidenceID) {
			continue
		}
		citedPresence = true
		if slices.Contains(accusation.CitedEvidenceIDs, pair.TimelineEvidenceID) {
			return false
		}
	}
	return citedPresence
}

// appealToAuthority fires when the accused and the true culprit sit on
// opposite sides of the authority line and the reasoning never addresses
// standing explicitly.
func appealToAuthority(def *models.CaseDefinition, accusation models.Accusation) bool {
	culprit, ok := def.WitnessByID(def.Solution.Culprit)
	if !ok {
		return false
	}
	accused, ok := def.WitnessByID(accusation.AccusedID)
	if !ok {
		return false
	}
	if culprit.Authority == accused.Authority {
		return false
	}

	reasoning := strings.ToLower(accusation.Reasoning)
	for _, keyword := range counterArgumentKeywords {
		if strings.Contains(reasoning, keyword) {
			return false
		}
	}
	return true
}

// postHoc fires when a cited piece of evidence carries a causal claim whose
// supposed effect precedes it on the case timeline. Claims referencing
// evidence absent from the timeline are skipped.
func postHoc(solution models.Solution, accusation models.Accusation) bool {
	for _, claim := range solution.PostHocClaims {
		if !slices.Contains(accusation.CitedEvidenceIDs, claim.EvidenceID) {
			continue
		}
		causeIdx := slices.Index(solution.Timeline, claim.EvidenceID)
		effectIdx := slices.Index(solution.Timeline, claim.EffectEvidenceID)
		if causeIdx < 0 || effectIdx < 0 {
			continue
		}
		if effectIdx < causeIdx {
			return true
		}
	}
	return false
}
