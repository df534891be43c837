package engine_test

import (
	"testing"

	"github.com/myrjola/gumshoe/internal/models"
	"github.com/stretchr/testify/require"
)

func TestEngine_MatchAction(t *testing.T) {
	e := newTestEngine(t)
	def := newTestCase()

	tests := []struct {
		name           string
		state          models.PlayerState
		input          string
		wantOutcome    models.MatchOutcome
		wantEvidenceID string
		wantResponseID string
		wantDiscovered []string
		wantSpent      int
	}{
		{
			name:           "trigger substring discovers evidence",
			state:          models.NewPlayerState(def),
			input:          "I look up at the ceiling",
			wantOutcome:    models.MatchDiscovered,
			wantEvidenceID: "e5",
			wantDiscovered: []string{"e5"},
			wantSpent:      2,
		},
		{
			name:           "matching is case-insensitive",
			state:          models.NewPlayerState(def),
			input:          "EXAMINE CEILING carefully",
			wantOutcome:    models.MatchDiscovered,
			wantEvidenceID: "e5",
			wantDiscovered: []string{"e5"},
			wantSpent:      2,
		},
		{
			name:           "already discovered evidence reports already examined",
			state:          discover(models.NewPlayerState(def), "e5"),
			input:          "I look up at the ceiling",
			wantOutcome:    models.MatchAlreadyExamined,
			wantEvidenceID: "e5",
			wantDiscovered: []string{"e5"},
			wantSpent:      0,
		},
		{
			name:           "evidence in another location never matches",
			state:          models.NewPlayerState(def),
			input:          "check the train ticket",
			wantOutcome:    models.MatchNoDiscovery,
			wantDiscovered: nil,
			wantSpent:      0,
		},
		{
			name:           "not-present trigger returns canned response without discovery",
			state:          models.NewPlayerState(def),
			input:          "search for a hidden compartment",
			wantOutcome:    models.MatchNotPresent,
			wantResponseID: "no-safe",
			wantDiscovered: nil,
			wantSpent:      0,
		},
		{
			name:           "nothing matches",
			state:          models.NewPlayerState(def),
			input:          "whistle a tune",
			wantOutcome:    models.MatchNoDiscovery,
			wantDiscovered: nil,
			wantSpent:      0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, next := e.MatchAction(def, tt.state, tt.input)

			require.Equal(t, tt.wantOutcome, result.Outcome)
			require.Equal(t, tt.wantEvidenceID, result.EvidenceID)
			require.Equal(t, tt.wantResponseID, result.ResponseID)
			require.Equal(t, tt.wantDiscovered, next.DiscoveredEvidenceIDs)
			require.Equal(t, tt.wantSpent, next.InvestigationPointsSpent)
		})
	}
}

// Submitting the same discovering input twice discovers the evidence exactly
// once; the repeat changes nothing.
func TestEngine_MatchAction_idempotent(t *testing.T) {
	e := newTestEngine(t)
	def := newTestCase()
	state := models.NewPlayerState(def)

	result, state := e.MatchAction(def, state, "I look up at the ceiling")
	require.Equal(t, models.MatchDiscovered, result.Outcome)
	require.Equal(t, []string{"e5"}, state.DiscoveredEvidenceIDs)

	repeat, after := e.MatchAction(def, state, "I look up at the ceiling")
	require.Equal(t, models.MatchAlreadyExamined, repeat.Outcome)
	require.Equal(t, "e5", repeat.EvidenceID)
	require.Equal(t, state, after, "second submission must not change state")
}

// An evidence entry without triggers fails closed: other evidence in the
// location stays matchable and the broken entry is never discovered.
func TestEngine_MatchAction_missingTriggers(t *testing.T) {
	e := newTestEngine(t)
	def := newTestCase()
	state := models.NewPlayerState(def)

	result, next := e.MatchAction(def, state, "open the desk drawer")
	require.Equal(t, models.MatchDiscovered, result.Outcome)
	require.Equal(t, "e1", result.EvidenceID)
	require.NotContains(t, next.DiscoveredEvidenceIDs, "broken")
}

// SubmitAction applies the discovery before scanning unlocks, so an action
// that completes a requirement unlocks the hypothesis in the same call.
func TestEngine_SubmitAction_chainsUnlockScan(t *testing.T) {
	e := newTestEngine(t)
	def := newTestCase()
	state := models.NewPlayerState(def)
	state.InvestigationPointsSpent = 4
	// Flush the tier-1 unlock so only the gated hypothesis is in play.
	_, state = e.ScanUnlocks(def, state)

	result, next := e.SubmitAction(def, state, "I look up at the ceiling")

	require.Equal(t, models.MatchDiscovered, result.Outcome)
	// Discovery charged 2 points, reaching the h3 threshold of 6.
	require.Equal(t, 6, next.InvestigationPointsSpent)
	require.Len(t, result.Unlocks, 1)
	require.Equal(t, "h3", result.Unlocks[0].HypothesisID)
	require.True(t, next.HasUnlocked("h3"))
}
