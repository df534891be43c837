package main

import (
	"time"

	"github.com/myrjola/gumshoe/internal/models"
)

// JSON projections of the engine's result types. Only display-safe fields
// cross the wire; solution internals stay server-side.

type unlockCauseView struct {
	Kind       string `json:"kind"`
	EvidenceID string `json:"evidenceId,omitempty"`
	Metric     string `json:"metric,omitempty"`
	Threshold  int    `json:"threshold,omitempty"`
}

type unlockEventView struct {
	ID           string          `json:"id"`
	HypothesisID string          `json:"hypothesisId"`
	Cause        unlockCauseView `json:"cause"`
	Timestamp    time.Time       `json:"timestamp"`
	Acknowledged bool            `json:"acknowledged"`
}

type snapshotView struct {
	DiscoveredEvidenceIDs    []string          `json:"discoveredEvidenceIds"`
	UnlockedHypothesisIDs    []string          `json:"unlockedHypothesisIds"`
	PendingNotifications     []unlockEventView `json:"pendingNotifications"`
	AttemptsRemaining        int               `json:"attemptsRemaining"`
	InvestigationPointsSpent int               `json:"investigationPointsSpent"`
}

type matchResultView struct {
	Outcome    string            `json:"outcome"`
	EvidenceID string            `json:"evidenceId,omitempty"`
	ResponseID string            `json:"responseId,omitempty"`
	Unlocks    []unlockEventView `json:"unlocks"`
}

type verdictResultView struct {
	Correct           bool     `json:"correct"`
	Score             int      `json:"score"`
	Fallacies         []string `json:"fallacies"`
	MissingEvidence   []string `json:"missingEvidence"`
	Feedback          string   `json:"feedback"`
	HintTone          string   `json:"hintTone"`
	AttemptsRemaining int      `json:"attemptsRemaining"`
	CaseFailed        bool     `json:"caseFailed"`
	RevealedCulprit   string   `json:"revealedCulprit,omitempty"`
}

func newUnlockEventView(event models.UnlockEvent) unlockEventView {
	return unlockEventView{
		ID:           event.ID,
		HypothesisID: event.HypothesisID,
		Cause: unlockCauseView{
			Kind:       string(event.Cause.Kind),
			EvidenceID: event.Cause.EvidenceID,
			Metric:     string(event.Cause.Metric),
			Threshold:  event.Cause.Threshold,
		},
		Timestamp:    event.Timestamp,
		Acknowledged: event.Acknowledged,
	}
}

func newUnlockEventViews(events []models.UnlockEvent) []unlockEventView {
	views := make([]unlockEventView, len(events))
	for i, event := range events {
		views[i] = newUnlockEventView(event)
	}
	return views
}

func newSnapshotView(snapshot models.Snapshot) snapshotView {
	return snapshotView{
		DiscoveredEvidenceIDs:    snapshot.DiscoveredEvidenceIDs,
		UnlockedHypothesisIDs:    snapshot.UnlockedHypothesisIDs,
		PendingNotifications:     newUnlockEventViews(snapshot.PendingNotifications),
		AttemptsRemaining:        snapshot.AttemptsRemaining,
		InvestigationPointsSpent: snapshot.InvestigationPointsSpent,
	}
}

func newMatchResultView(result models.MatchResult) matchResultView {
	return matchResultView{
		Outcome:    string(result.Outcome),
		EvidenceID: result.EvidenceID,
		ResponseID: result.ResponseID,
		Unlocks:    newUnlockEventViews(result.Unlocks),
	}
}

func newVerdictResultView(result models.VerdictResult) verdictResultView {
	fallacies := make([]string, len(result.Fallacies))
	for i, fallacy := range result.Fallacies {
		fallacies[i] = string(fallacy)
	}
	return verdictResultView{
		Correct:           result.Correct,
		Score:             result.Score,
		Fallacies:         fallacies,
		MissingEvidence:   result.MissingEvidence,
		Feedback:          result.Feedback,
		HintTone:          string(result.HintTone),
		AttemptsRemaining: result.AttemptsRemaining,
		CaseFailed:        result.CaseFailed,
		RevealedCulprit:   result.RevealedCulprit,
	}
}
