package engine

import (
	"log/slog"

	"github.com/myrjola/gumshoe/internal/models"
)

// maxRequirementDepth bounds the recursive evaluation. Case validation
// guarantees a finite tree; the bound exists so a malformed definition fails
// closed instead of exhausting the stack.
const maxRequirementDepth = 32

// Evaluate reports whether the requirement tree is satisfied by the state.
//
// totalEvidence is the number of evidence entries in the case, needed for the
// investigation-progress metric. Unknown metrics and trees deeper than
// maxRequirementDepth evaluate to false.
func (e *Engine) Evaluate(req models.Requirement, state models.PlayerState, totalEvidence int) bool {
	return e.evaluate(req, state, totalEvidence, 0)
}

func (e *Engine) evaluate(req models.Requirement, state models.PlayerState, totalEvidence, depth int) bool {
	if depth > maxRequirementDepth {
		e.logger.Warn("requirement tree exceeds maximum depth", slog.Int("max_depth", maxRequirementDepth))
		return false
	}

	switch r := req.(type) {
	case models.EvidenceCollected:
		return state.HasDiscovered(r.EvidenceID)
	case models.ThresholdMet:
		value, ok := state.MetricValue(r.Metric, totalEvidence)
		if !ok {
			e.logger.Warn("unknown requirement metric", slog.String("metric", string(r.Metric)))
			return false
		}
		return value >= r.Threshold
	case models.AllOf:
		for _, child := range r.Children {
			if !e.evaluate(child, state, totalEvidence, depth+1) {
				return false
			}
		}
		return true
	case models.AnyOf:
		for _, child := range r.Children {
			if e.evaluate(child, state, totalEvidence, depth+1) {
				return true
			}
		}
		return false
	default:
		e.logger.Warn("unknown requirement variant", slog.Any("requirement", req))
		return false
	}
}

// IsHypothesisUnlocked reports whether the hypothesis is open for the state.
// Tier-1 hypotheses are always open; tier-2 hypotheses follow their
// requirement tree. A tier-2 hypothesis without a requirement fails closed.
func (e *Engine) IsHypothesisUnlocked(h models.Hypothesis, state models.PlayerState, totalEvidence int) bool {
	if h.Tier == models.TierOne {
		return true
	}
	if h.Requirement == nil {
		e.logger.Warn("tier-2 hypothesis without requirement", slog.String("hypothesis_id", h.ID))
		return false
	}
	return e.Evaluate(h.Requirement, state, totalEvidence)
}

// FindNewlyUnlocked returns the ids of hypotheses whose requirement is now
// satisfied and that are not yet in the unlocked set. The check against the
// already-unlocked set is the sole idempotency guard: rescanning an unchanged
// state yields nothing.
func (e *Engine) FindNewlyUnlocked(def *models.CaseDefinition, state models.PlayerState) []string {
	var ids []string
	for _, h := range def.Hypotheses {
		if state.HasUnlocked(h.ID) {
			continue
		}
		if e.IsHypothesisUnlocked(h, state, len(def.Evidence)) {
			ids = append(ids, h.ID)
		}
	}
	return ids
}

// ScanUnlocks finds newly unlocked hypotheses and applies the unlock batch as
// one state transition: for every unlocked hypothesis exactly one UnlockEvent
// is appended to the log, the hypothesis id joins the unlocked set, and the
// event id joins the pending notifications. Callers never observe these
// partially applied.
func (e *Engine) ScanUnlocks(
	def *models.CaseDefinition,
	state models.PlayerState,
) ([]models.UnlockEvent, models.PlayerState) {
	ids := e.FindNewlyUnlocked(def, state)
	if len(ids) == 0 {
		return nil, state
	}

	next := state.Clone()
	events := make([]models.UnlockEvent, 0, len(ids))
	now := e.now()
	for _, hypothesisID := range ids {
		hypothesis, _ := def.HypothesisByID(hypothesisID)
		event := models.UnlockEvent{
			ID:           e.newEventID(hypothesisID),
			HypothesisID: hypothesisID,
			Cause:        e.unlockCause(hypothesis, next, len(def.Evidence)),
			Timestamp:    now,
		}
		events = append(events, event)
		next.UnlockEvents = append(next.UnlockEvents, event)
		next.UnlockedHypothesisIDs = append(next.UnlockedHypothesisIDs, hypothesisID)
		next.PendingNotificationIDs = append(next.PendingNotificationIDs, event.ID)
	}
	return events, next
}

// unlockCause finds the first satisfied leaf of the hypothesis requirement in
// depth-first order. Tier-1 hypotheses and composites without a satisfied
// leaf report a manual cause.
func (e *Engine) unlockCause(h models.Hypothesis, state models.PlayerState, totalEvidence int) models.UnlockCause {
	if h.Tier == models.TierOne || h.Requirement == nil {
		return models.UnlockCause{Kind: models.CauseManual}
	}
	if cause, ok := e.firstSatisfiedLeaf(h.Requirement, state, totalEvidence, 0); ok {
		return cause
	}
	return models.UnlockCause{Kind: models.CauseManual}
}

func (e *Engine) firstSatisfiedLeaf(
	req models.Requirement,
	state models.PlayerState,
	totalEvidence, depth int,
) (models.UnlockCause, bool) {
	if depth > maxRequirementDepth {
		return models.UnlockCause{}, false
	}

	switch r := req.(type) {
	case models.EvidenceCollected:
		if state.HasDiscovered(r.EvidenceID) {
			return models.UnlockCause{Kind: models.CauseEvidence, EvidenceID: r.EvidenceID}, true
		}
	case models.ThresholdMet:
		if value, ok := state.MetricValue(r.Metric, totalEvidence); ok && value >= r.Threshold {
			return models.UnlockCause{Kind: models.CauseThreshold, Metric: r.Metric, Threshold: r.Threshold}, true
		}
	case models.AllOf:
		for _, child := range r.Children {
			if cause, ok := e.firstSatisfiedLeaf(child, state, totalEvidence, depth+1); ok {
				return cause, true
			}
		}
	case models.AnyOf:
		for _, child := range r.Children {
			if cause, ok := e.firstSatisfiedLeaf(child, state, totalEvidence, depth+1); ok {
				return cause, true
			}
		}
	}
	return models.UnlockCause{}, false
}
