package models

// Fallacy is a heuristically detected reasoning defect in a verdict
// justification. The set is closed and every detector runs on every
// submission.
type Fallacy string

const (
	FallacyConfirmationBias        Fallacy = "confirmation-bias"
	FallacyCorrelationNotCausation Fallacy = "correlation-not-causation"
	FallacyAppealToAuthority       Fallacy = "appeal-to-authority"
	FallacyPostHoc                 Fallacy = "post-hoc"
)

// HintTone is the adaptive feedback band selected from the remaining
// attempts, independent of the scoring rubric.
type HintTone string

const (
	HintToneVague    HintTone = "vague"
	HintToneSpecific HintTone = "specific"
	HintToneDirect   HintTone = "direct"
)

// Accusation is a player's verdict submission.
type Accusation struct {
	AccusedID        string
	Reasoning        string
	CitedEvidenceIDs []string
}

// VerdictResult is the outcome of evaluating one accusation.
type VerdictResult struct {
	Correct   bool
	Score     int
	Fallacies []Fallacy

	// MissingEvidence lists key-evidence ids the player did not cite, in
	// the solution's order.
	MissingEvidence []string

	Feedback string
	HintTone HintTone

	AttemptsRemaining int

	// CaseFailed and RevealedCulprit are set when the final attempt has
	// been spent: the case is closed as solved by the mentor and the
	// culprit is disclosed regardless of correctness.
	CaseFailed      bool
	RevealedCulprit string
}

// MatchOutcome classifies what a free-text player action hit.
type MatchOutcome string

const (
	MatchDiscovered      MatchOutcome = "discovered"
	MatchAlreadyExamined MatchOutcome = "already-examined"
	MatchNotPresent      MatchOutcome = "not-present"
	MatchNoDiscovery     MatchOutcome = "no-discovery"
)

// MatchResult is the discovery decision for one player action. Unlocks is
// populated when an unlock scan is chained after the match.
type MatchResult struct {
	Outcome    MatchOutcome
	EvidenceID string
	ResponseID string
	Unlocks    []UnlockEvent
}

// Snapshot is the read-only projection of PlayerState for presentation.
type Snapshot struct {
	DiscoveredEvidenceIDs    []string
	UnlockedHypothesisIDs    []string
	PendingNotifications     []UnlockEvent
	AttemptsRemaining        int
	InvestigationPointsSpent int
}
