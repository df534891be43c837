package engine_test

import (
	"io"
	"testing"
	"time"

	"github.com/myrjola/gumshoe/internal/engine"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/internal/testhelpers"
)

// newTestEngine builds an engine with a fixed clock and deterministic event
// ids so assertions can reference them directly.
func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(
		testhelpers.NewLogger(io.Discard),
		engine.WithClock(func() time.Time {
			return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		}),
		engine.WithEventIDGenerator(func(hypothesisID string) string {
			return "evt-" + hypothesisID
		}),
	)
}

// newTestCase is a small but complete case exercising every engine feature:
// trigger sets, a requirement-gated hypothesis, causation pairs, a timeline
// with a post-hoc claim, an authority split, and a common-mistake table.
func newTestCase() *models.CaseDefinition {
	return &models.CaseDefinition{
		ID:    "grand-hotel",
		Title: "Murder at the Grand Hotel",
		Locations: []models.Location{
			{ID: "study", Name: "The Study"},
			{ID: "cellar", Name: "The Cellar"},
		},
		Evidence: []models.Evidence{
			{
				ID:         "e1",
				LocationID: "study",
				Name:       "scratched desk drawer",
				Triggers:   []string{"desk", "drawer"},
			},
			{
				ID:         "e2",
				LocationID: "study",
				Name:       "monogrammed glove",
				Triggers:   []string{"glove"},
				Implicates: []string{"valet"},
			},
			{
				ID:         "e3",
				LocationID: "cellar",
				Name:       "punched train ticket",
				Triggers:   []string{"ticket"},
			},
			{
				ID:         "e4",
				LocationID: "cellar",
				Name:       "emptied ledger",
				Triggers:   []string{"ledger"},
			},
			{
				ID:         "e5",
				LocationID: "study",
				Name:       "scuffed ceiling hatch",
				Triggers:   []string{"look up", "examine ceiling"},
			},
			{
				ID:         "broken",
				LocationID: "study",
				Name:       "misauthored clue",
				Triggers:   nil,
			},
		},
		Witnesses: []models.Witness{
			{ID: "valet", Name: "Edmund the valet", Authority: false},
			{ID: "magistrate", Name: "Magistrate Harrow", Authority: true},
			{ID: "maid", Name: "Ivy the maid", Authority: false},
		},
		Hypotheses: []models.Hypothesis{
			{ID: "h1", Tier: models.TierOne, Title: "Someone inside the hotel did it"},
			{
				ID:    "h3",
				Tier:  models.TierTwo,
				Title: "The killer left through the ceiling",
				Requirement: models.AllOf{Children: []models.Requirement{
					models.EvidenceCollected{EvidenceID: "e5"},
					models.ThresholdMet{Metric: models.MetricInvestigationPointsSpent, Threshold: 6},
				}},
			},
			{
				ID:    "h4",
				Tier:  models.TierTwo,
				Title: "The motive was the ledger",
				Requirement: models.AnyOf{Children: []models.Requirement{
					models.AllOf{Children: []models.Requirement{
						models.EvidenceCollected{EvidenceID: "e4"},
						models.AnyOf{Children: []models.Requirement{
							models.EvidenceCollected{EvidenceID: "e1"},
							models.EvidenceCollected{EvidenceID: "e3"},
						}},
					}},
					models.ThresholdMet{Metric: models.MetricInvestigationProgress, Threshold: 100},
				}},
			},
		},
		NotPresentTriggers: []models.NotPresentTrigger{
			{Triggers: []string{"safe", "hidden compartment"}, ResponseID: "no-safe"},
		},
		ActionCost:      2,
		InitialAttempts: 10,
		Solution: models.Solution{
			Culprit:     "valet",
			Method:      "strangled with a curtain cord",
			Motive:      "debts recorded in the ledger",
			KeyEvidence: []string{"e2", "e3"},
			Deductions:  []string{"The ticket places the valet on the last train back."},
			CommonMistakes: map[string]models.CommonMistake{
				"maid": {
					Reason:   "Ivy found the body, so suspicion falls on her first.",
					WhyWrong: "She was locked out of the study all evening.",
				},
			},
			Timeline:       []string{"e1", "e2", "e3", "e4"},
			CausationPairs: []models.CausationPair{{PresenceEvidenceID: "e2", TimelineEvidenceID: "e3"}},
			PostHocClaims:  []models.PostHocClaim{{EvidenceID: "e4", EffectEvidenceID: "e1"}},
		},
	}
}

// discover marks evidence as found without going through trigger matching.
func discover(state models.PlayerState, evidenceIDs ...string) models.PlayerState {
	next := state.Clone()
	next.DiscoveredEvidenceIDs = append(next.DiscoveredEvidenceIDs, evidenceIDs...)
	return next
}
