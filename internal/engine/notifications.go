package engine

import (
	"slices"

	"github.com/myrjola/gumshoe/internal/models"
)

// Pending returns the unlock events awaiting acknowledgment, in log order.
// It is a derived view over the append-only event log.
func (e *Engine) Pending(state models.PlayerState) []models.UnlockEvent {
	var pending []models.UnlockEvent
	for _, event := range state.UnlockEvents {
		if slices.Contains(state.PendingNotificationIDs, event.ID) {
			pending = append(pending, event)
		}
	}
	return pending
}

// Acknowledge marks the unlock event as seen: the id leaves the pending set
// and the log entry's acknowledged flag is set. An event moves from pending
// to acknowledged at most once and is never deleted. Acknowledging an unknown
// or already acknowledged event is a silent no-op.
func (e *Engine) Acknowledge(state models.PlayerState, eventID string) models.PlayerState {
	idx := slices.Index(state.PendingNotificationIDs, eventID)
	if idx < 0 {
		return state
	}

	next := state.Clone()
	next.PendingNotificationIDs = slices.Delete(next.PendingNotificationIDs, idx, idx+1)
	for i := range next.UnlockEvents {
		if next.UnlockEvents[i].ID == eventID {
			next.UnlockEvents[i].Acknowledged = true
			break
		}
	}
	return next
}

// Snapshot projects the state for presentation.
func (e *Engine) Snapshot(state models.PlayerState) models.Snapshot {
	return models.Snapshot{
		DiscoveredEvidenceIDs:    slices.Clone(state.DiscoveredEvidenceIDs),
		UnlockedHypothesisIDs:    slices.Clone(state.UnlockedHypothesisIDs),
		PendingNotifications:     e.Pending(state),
		AttemptsRemaining:        state.AttemptsRemaining,
		InvestigationPointsSpent: state.InvestigationPointsSpent,
	}
}
