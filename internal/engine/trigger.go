package engine

import (
	"log/slog"
	"strings"

	"github.com/myrjola/gumshoe/internal/models"
)

// MatchAction tests the player's free-text action against the evidence
// triggers of the current location.
//
// The input is lowercased and each trigger is matched as a substring; the
// first evidence entry with a matching trigger wins. A fresh match adds the
// evidence to the discovered set and charges the case's action cost. A match
// on already discovered evidence reports MatchAlreadyExamined without
// touching the state. When no evidence matches, the case's not-present
// triggers are consulted for a canned response; otherwise the result is
// MatchNoDiscovery. Evidence with an empty trigger list never matches.
func (e *Engine) MatchAction(
	def *models.CaseDefinition,
	state models.PlayerState,
	input string,
) (models.MatchResult, models.PlayerState) {
	normalized := strings.ToLower(input)

	for _, evidence := range def.Evidence {
		if evidence.LocationID != state.CurrentLocationID {
			continue
		}
		if len(evidence.Triggers) == 0 {
			// Authoring defect: fail closed, never match.
			e.logger.Warn("evidence has no triggers",
				slog.String("case_id", def.ID), slog.String("evidence_id", evidence.ID))
			continue
		}
		if !matchesTrigger(evidence.Triggers, normalized) {
			continue
		}
		if state.HasDiscovered(evidence.ID) {
			return models.MatchResult{
				Outcome:    models.MatchAlreadyExamined,
				EvidenceID: evidence.ID,
			}, state
		}

		next := state.Clone()
		next.DiscoveredEvidenceIDs = append(next.DiscoveredEvidenceIDs, evidence.ID)
		next.InvestigationPointsSpent += def.ActionCost
		return models.MatchResult{
			Outcome:    models.MatchDiscovered,
			EvidenceID: evidence.ID,
		}, next
	}

	for _, notPresent := range def.NotPresentTriggers {
		if matchesTrigger(notPresent.Triggers, normalized) {
			return models.MatchResult{
				Outcome:    models.MatchNotPresent,
				ResponseID: notPresent.ResponseID,
			}, state
		}
	}

	return models.MatchResult{Outcome: models.MatchNoDiscovery}, state
}

// SubmitAction runs MatchAction and chains an unlock scan over the updated
// state. The discovery is applied before the scan so a single action can both
// discover evidence and unlock the hypotheses that depend on it.
func (e *Engine) SubmitAction(
	def *models.CaseDefinition,
	state models.PlayerState,
	input string,
) (models.MatchResult, models.PlayerState) {
	result, next := e.MatchAction(def, state, input)
	events, next := e.ScanUnlocks(def, next)
	result.Unlocks = events
	return result, next
}

func matchesTrigger(triggers []string, normalizedInput string) bool {
	for _, trigger := range triggers {
		trigger = strings.ToLower(strings.TrimSpace(trigger))
		if trigger == "" {
			continue
		}
		if strings.Contains(normalizedInput, trigger) {
			return true
		}
	}
	return false
}
