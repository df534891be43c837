package engine_test

import (
	"testing"

	"github.com/myrjola/gumshoe/internal/models"
	"github.com/stretchr/testify/require"
)

func TestEngine_Evaluate(t *testing.T) {
	e := newTestEngine(t)
	def := newTestCase()
	totalEvidence := len(def.Evidence)

	tests := []struct {
		name  string
		req   models.Requirement
		state models.PlayerState
		want  bool
	}{
		{
			name:  "evidence collected",
			req:   models.EvidenceCollected{EvidenceID: "e5"},
			state: discover(models.NewPlayerState(def), "e5"),
			want:  true,
		},
		{
			name:  "evidence not collected",
			req:   models.EvidenceCollected{EvidenceID: "e5"},
			state: models.NewPlayerState(def),
			want:  false,
		},
		{
			name: "threshold met at exact value",
			req:  models.ThresholdMet{Metric: models.MetricInvestigationPointsSpent, Threshold: 6},
			state: models.PlayerState{
				InvestigationPointsSpent: 6,
			},
			want: true,
		},
		{
			name: "threshold not met",
			req:  models.ThresholdMet{Metric: models.MetricInvestigationPointsSpent, Threshold: 6},
			state: models.PlayerState{
				InvestigationPointsSpent: 5,
			},
			want: false,
		},
		{
			name:  "evidence count metric",
			req:   models.ThresholdMet{Metric: models.MetricEvidenceCount, Threshold: 2},
			state: discover(models.NewPlayerState(def), "e1", "e2"),
			want:  true,
		},
		{
			name:  "unknown metric fails closed",
			req:   models.ThresholdMet{Metric: "reputation", Threshold: 1},
			state: discover(models.NewPlayerState(def), "e1", "e2"),
			want:  false,
		},
		{
			name:  "empty all-of is vacuously true",
			req:   models.AllOf{},
			state: models.NewPlayerState(def),
			want:  true,
		},
		{
			name:  "empty any-of is false",
			req:   models.AnyOf{},
			state: models.NewPlayerState(def),
			want:  false,
		},
		{
			name: "nested tree depth three satisfied",
			req: models.AnyOf{Children: []models.Requirement{
				models.EvidenceCollected{EvidenceID: "never"},
				models.AllOf{Children: []models.Requirement{
					models.EvidenceCollected{EvidenceID: "e4"},
					models.AnyOf{Children: []models.Requirement{
						models.EvidenceCollected{EvidenceID: "e1"},
						models.EvidenceCollected{EvidenceID: "e3"},
					}},
				}},
			}},
			state: discover(models.NewPlayerState(def), "e4", "e3"),
			want:  true,
		},
		{
			name: "nested tree depth three unsatisfied",
			req: models.AnyOf{Children: []models.Requirement{
				models.EvidenceCollected{EvidenceID: "never"},
				models.AllOf{Children: []models.Requirement{
					models.EvidenceCollected{EvidenceID: "e4"},
					models.AnyOf{Children: []models.Requirement{
						models.EvidenceCollected{EvidenceID: "e1"},
						models.EvidenceCollected{EvidenceID: "e3"},
					}},
				}},
			}},
			state: discover(models.NewPlayerState(def), "e4"),
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, e.Evaluate(tt.req, tt.state, totalEvidence))
		})
	}
}

// A tree deeper than the recursion bound evaluates to false instead of
// crashing.
func TestEngine_Evaluate_depthBound(t *testing.T) {
	e := newTestEngine(t)
	def := newTestCase()

	var req models.Requirement = models.EvidenceCollected{EvidenceID: "e1"}
	for range 40 {
		req = models.AllOf{Children: []models.Requirement{req}}
	}

	state := discover(models.NewPlayerState(def), "e1")
	require.False(t, e.Evaluate(req, state, len(def.Evidence)))
}

// IsHypothesisUnlocked agrees with Evaluate for tier-2 hypotheses and is
// always true for tier 1.
func TestEngine_IsHypothesisUnlocked(t *testing.T) {
	e := newTestEngine(t)
	def := newTestCase()
	totalEvidence := len(def.Evidence)

	states := []models.PlayerState{
		models.NewPlayerState(def),
		discover(models.NewPlayerState(def), "e5"),
		discover(models.NewPlayerState(def), "e4", "e1"),
		func() models.PlayerState {
			s := discover(models.NewPlayerState(def), "e5")
			s.InvestigationPointsSpent = 8
			return s
		}(),
	}

	for _, h := range def.Hypotheses {
		for _, state := range states {
			got := e.IsHypothesisUnlocked(h, state, totalEvidence)
			if h.Tier == models.TierOne {
				require.True(t, got, "tier-1 hypothesis %s must always be unlocked", h.ID)
				continue
			}
			require.Equal(t, e.Evaluate(h.Requirement, state, totalEvidence), got,
				"hypothesis %s must follow its requirement tree", h.ID)
		}
	}
}

func TestEngine_ScanUnlocks(t *testing.T) {
	e := newTestEngine(t)
	def := newTestCase()

	// The first scan opens the tier-1 hypothesis.
	state := models.NewPlayerState(def)
	events, state := e.ScanUnlocks(def, state)
	require.Len(t, events, 1)
	require.Equal(t, "h1", events[0].HypothesisID)
	require.Equal(t, models.CauseManual, events[0].Cause.Kind)

	// Discovering e5 alone leaves h3 locked.
	state = discover(state, "e5")
	events, state = e.ScanUnlocks(def, state)
	require.Empty(t, events)
	require.False(t, state.HasUnlocked("h3"))

	// Reaching the point threshold unlocks h3 with exactly one event.
	state.InvestigationPointsSpent = 6
	events, state = e.ScanUnlocks(def, state)
	require.Len(t, events, 1)
	event := events[0]
	require.Equal(t, "h3", event.HypothesisID)
	require.Equal(t, "evt-h3", event.ID)
	require.Equal(t, models.CauseEvidence, event.Cause.Kind)
	require.Equal(t, "e5", event.Cause.EvidenceID)
	require.True(t, state.HasUnlocked("h3"))
	require.Contains(t, state.PendingNotificationIDs, "evt-h3")

	// Rescanning an unchanged state is a no-op.
	events, after := e.ScanUnlocks(def, state)
	require.Empty(t, events)
	require.Equal(t, state, after)
}

// Multiple hypotheses unlocking from one action are applied as a single
// batch: all events, unlocked ids, and pending notifications land together.
func TestEngine_ScanUnlocks_atomicBatch(t *testing.T) {
	e := newTestEngine(t)
	def := newTestCase()

	state := discover(models.NewPlayerState(def), "e5", "e4", "e1")
	state.InvestigationPointsSpent = 6

	events, next := e.ScanUnlocks(def, state)

	require.Len(t, events, 3)
	var hypothesisIDs []string
	for _, event := range events {
		hypothesisIDs = append(hypothesisIDs, event.HypothesisID)
		require.Contains(t, next.PendingNotificationIDs, event.ID)
	}
	require.ElementsMatch(t, []string{"h1", "h3", "h4"}, hypothesisIDs)
	require.ElementsMatch(t, []string{"h1", "h3", "h4"}, next.UnlockedHypothesisIDs)
	require.Len(t, next.UnlockEvents, 3)

	// The original snapshot is untouched.
	require.Empty(t, state.UnlockedHypothesisIDs)
}

// Discovered evidence, unlocked hypotheses, and spent points never shrink
// across a sequence of engine operations.
func TestEngine_monotonicity(t *testing.T) {
	e := newTestEngine(t)
	def := newTestCase()
	state := models.NewPlayerState(def)

	inputs := []string{
		"look at the desk",
		"I look up at the ceiling",
		"look up again",
		"search for a safe",
		"pick up the glove",
		"nothing in particular",
	}

	for _, input := range inputs {
		prevDiscovered := len(state.DiscoveredEvidenceIDs)
		prevUnlocked := len(state.UnlockedHypothesisIDs)
		prevSpent := state.InvestigationPointsSpent

		_, state = e.SubmitAction(def, state, input)

		require.GreaterOrEqual(t, len(state.DiscoveredEvidenceIDs), prevDiscovered)
		require.GreaterOrEqual(t, len(state.UnlockedHypothesisIDs), prevUnlocked)
		require.GreaterOrEqual(t, state.InvestigationPointsSpent, prevSpent)
	}
}
