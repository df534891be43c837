package models

import (
	"slices"
	"time"
)

// CauseKind tags the UnlockCause variant.
type CauseKind string

const (
	CauseEvidence  CauseKind = "evidence"
	CauseThreshold CauseKind = "threshold"
	CauseManual    CauseKind = "manual"
)

// UnlockCause records which requirement leaf tipped a hypothesis open, or
// that it was opened manually (tier-1 hypotheses and operator overrides).
type UnlockCause struct {
	Kind       CauseKind
	EvidenceID string
	Metric     Metric
	Threshold  int
}

// UnlockEvent is appended to the event log when a hypothesis unlocks. An
// event is created exactly once per hypothesis, moves from pending to
// acknowledged exactly once, and is never deleted.
type UnlockEvent struct {
	ID           string
	HypothesisID string
	Cause        UnlockCause
	Timestamp    time.Time
	Acknowledged bool
}

// VerdictAttempt is one past verdict submission.
type VerdictAttempt struct {
	AccusedID         string
	Reasoning         string
	CitedEvidenceIDs  []string
	Correct           bool
	Timestamp         time.Time
}

// PlayerState is the mutable per-session record of one player's progress in
// one case. Engine operations treat it as a value: they return an updated
// copy instead of mutating the argument, so the session layer holds the only
// writable reference at any instant.
type PlayerState struct {
	CaseID            string
	CurrentLocationID string

	// DiscoveredEvidenceIDs and UnlockedHypothesisIDs are sets with stable
	// insertion order. Both grow monotonically; nothing removes from them.
	DiscoveredEvidenceIDs  []string
	UnlockedHypothesisIDs  []string

	// UnlockEvents is append-only. PendingNotificationIDs holds event ids
	// not yet acknowledged.
	UnlockEvents           []UnlockEvent
	PendingNotificationIDs []string

	VerdictAttempts          []VerdictAttempt
	AttemptsRemaining        int
	InvestigationPointsSpent int
}

// NewPlayerState initialises a fresh session state for the given case.
func NewPlayerState(def *CaseDefinition) PlayerState {
	locationID := ""
	if len(def.Locations) > 0 {
		locationID = def.Locations[0].ID
	}
	return PlayerState{
		CaseID:            def.ID,
		CurrentLocationID: locationID,
		AttemptsRemaining: def.InitialAttempts,
	}
}

// HasDiscovered reports whether the evidence id has been discovered.
func (s PlayerState) HasDiscovered(evidenceID string) bool {
	return slices.Contains(s.DiscoveredEvidenceIDs, evidenceID)
}

// HasUnlocked reports whether the hypothesis id has been unlocked.
func (s PlayerState) HasUnlocked(hypothesisID string) bool {
	return slices.Contains(s.UnlockedHypothesisIDs, hypothesisID)
}

// Clone returns a deep copy. Engine operations clone before applying a state
// transition so callers never observe a partially applied update.
func (s PlayerState) Clone() PlayerState {
	clone := s
	clone.DiscoveredEvidenceIDs = slices.Clone(s.DiscoveredEvidenceIDs)
	clone.UnlockedHypothesisIDs = slices.Clone(s.UnlockedHypothesisIDs)
	clone.UnlockEvents = slices.Clone(s.UnlockEvents)
	clone.PendingNotificationIDs = slices.Clone(s.PendingNotificationIDs)
	clone.VerdictAttempts = make([]VerdictAttempt, len(s.VerdictAttempts))
	for i, attempt := range s.VerdictAttempts {
		attempt.CitedEvidenceIDs = slices.Clone(attempt.CitedEvidenceIDs)
		clone.VerdictAttempts[i] = attempt
	}
	return clone
}

// MetricValue reads the named metric from the state counters. totalEvidence
// is the case's evidence count, needed for the progress percentage. The
// boolean is false for metrics outside the closed set.
func (s PlayerState) MetricValue(m Metric, totalEvidence int) (int, bool) {
	switch m {
	case MetricEvidenceCount:
		return len(s.DiscoveredEvidenceIDs), true
	case MetricInvestigationPointsSpent:
		return s.InvestigationPointsSpent, true
	case MetricInvestigationProgress:
		if totalEvidence == 0 {
			return 0, true
		}
		return 100 * len(s.DiscoveredEvidenceIDs) / totalEvidence, true
	}
	return 0, false
}
