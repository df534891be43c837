package models

// CaseDefinition is the immutable, validated description of one playable case.
// It is produced by the case loader and shared read-only with the engine; no
// engine operation mutates it.
type CaseDefinition struct {
	ID          string
	Title       string
	Description string

	Locations  []Location
	Evidence   []Evidence
	Witnesses  []Witness
	Hypotheses []Hypothesis

	// NotPresentTriggers map player phrasings to canned response ids for
	// things the player looks for that the scene does not contain. The
	// response content is opaque to the engine.
	NotPresentTriggers []NotPresentTrigger

	// ActionCost is the number of investigation points spent per processed
	// player action.
	ActionCost int

	// InitialAttempts is how many verdict submissions the player gets.
	InitialAttempts int

	Solution Solution
}

// Location is a place the player can investigate. Evidence is placed in
// exactly one location.
type Location struct {
	ID          string
	Name        string
	Description string
}

// Evidence is a discoverable clue. Triggers are case-insensitive substrings
// matched against the player's free-text action. The display payload and the
// significance metadata are opaque to the engine and passed through to
// collaborators such as the narrator.
type Evidence struct {
	ID          string
	LocationID  string
	Name        string
	Description string
	Triggers    []string

	Significance string
	Strength     string
	Implicates   []string
	Exonerates   []string
}

// Witness is a person in the case. Authority feeds the appeal-to-authority
// fallacy heuristic. Wants and Fears are narrative hooks used by the
// narrator; their pairing is an authoring lint concern, not an engine rule.
type Witness struct {
	ID        string
	Name      string
	Role      string
	Authority bool
	Wants     string
	Fears     string
}

// NotPresentTrigger maps trigger phrases to a canned response id.
type NotPresentTrigger struct {
	Triggers   []string
	ResponseID string
}

// HypothesisTier separates always-visible hypotheses from requirement-gated ones.
type HypothesisTier int

const (
	TierOne HypothesisTier = 1
	TierTwo HypothesisTier = 2
)

// Hypothesis is a candidate explanation the player may pursue. Tier-1
// hypotheses are always unlocked. Tier-2 hypotheses are gated by Requirement.
type Hypothesis struct {
	ID          string
	Tier        HypothesisTier
	Title       string
	Description string
	Requirement Requirement
}

// CommonMistake is canned feedback for a frequently accused innocent suspect.
type CommonMistake struct {
	Reason   string
	WhyWrong string
}

// CausationPair names a piece of presence/association evidence and the
// timeline/alibi evidence required to distinguish presence from guilt.
type CausationPair struct {
	PresenceEvidenceID string
	TimelineEvidenceID string
}

// PostHocClaim records that citing EvidenceID implies the event it attests
// caused the event attested by EffectEvidenceID. The claim is contradicted
// when the case timeline places the effect before the supposed cause.
type PostHocClaim struct {
	EvidenceID       string
	EffectEvidenceID string
}

// Solution is the case author's answer key.
type Solution struct {
	Culprit     string
	Method      string
	Motive      string
	KeyEvidence []string
	Deductions  []string

	// CommonMistakes keys are suspect ids.
	CommonMistakes map[string]CommonMistake

	// FallacyExamples provide narrative examples per fallacy kind.
	FallacyExamples map[Fallacy]string

	// Timeline lists evidence ids in the chronological order of the events
	// they attest. Used by the post-hoc detector.
	Timeline []string

	CausationPairs []CausationPair
	PostHocClaims  []PostHocClaim
}

// EvidenceByID returns the evidence entry with the given id.
func (c *CaseDefinition) EvidenceByID(id string) (Evidence, bool) {
	for _, e := range c.Evidence {
		if e.ID == id {
			return e, true
		}
	}
	return Evidence{}, false
}

// WitnessByID returns the witness with the given id.
func (c *CaseDefinition) WitnessByID(id string) (Witness, bool) {
	for _, w := range c.Witnesses {
		if w.ID == id {
			return w, true
		}
	}
	return Witness{}, false
}

// HypothesisByID returns the hypothesis with the given id.
func (c *CaseDefinition) HypothesisByID(id string) (Hypothesis, bool) {
	for _, h := range c.Hypotheses {
		if h.ID == id {
			return h, true
		}
	}
	return Hypothesis{}, false
}
