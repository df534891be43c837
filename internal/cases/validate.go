package cases

import (
	"log/slog"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
)

// validate enforces the structural invariants a case definition must satisfy
// before the engine may see it. Every violation is collected so authors fix a
// file in one pass.
func validate(def *models.CaseDefinition) error {
	var errs []error

	fail := func(msg string, attrs ...slog.Attr) {
		errs = append(errs, errors.Wrap(ErrValidation, msg, attrs...))
	}

	if def.ID == "" {
		fail("case id is required")
	}
	if len(def.Locations) == 0 {
		fail("case needs at least one location")
	}
	if def.Solution.Culprit == "" {
		fail("solution culprit is required")
	}

	locationIDs := map[string]bool{}
	for _, location := range def.Locations {
		if location.ID == "" {
			fail("location id is required")
			continue
		}
		if locationIDs[location.ID] {
			fail("duplicate location id", slog.String("location_id", location.ID))
		}
		locationIDs[location.ID] = true
	}

	evidenceIDs := map[string]bool{}
	for _, evidence := range def.Evidence {
		if evidence.ID == "" {
			fail("evidence id is required")
			continue
		}
		if evidenceIDs[evidence.ID] {
			fail("duplicate evidence id", slog.String("evidence_id", evidence.ID))
		}
		evidenceIDs[evidence.ID] = true
		if !locationIDs[evidence.LocationID] {
			fail("evidence placed in unknown location",
				slog.String("evidence_id", evidence.ID), slog.String("location_id", evidence.LocationID))
		}
		if len(evidence.Triggers) == 0 {
			fail("evidence needs at least one trigger", slog.String("evidence_id", evidence.ID))
		}
	}

	witnessIDs := map[string]bool{}
	for _, witness := range def.Witnesses {
		if witness.ID == "" {
			fail("witness id is required")
			continue
		}
		if witnessIDs[witness.ID] {
			fail("duplicate witness id", slog.String("witness_id", witness.ID))
		}
		witnessIDs[witness.ID] = true
	}

	hypothesisIDs := map[string]bool{}
	for _, hypothesis := range def.Hypotheses {
		if hypothesis.ID == "" {
			fail("hypothesis id is required")
			continue
		}
		if hypothesisIDs[hypothesis.ID] {
			fail("duplicate hypothesis id", slog.String("hypothesis_id", hypothesis.ID))
		}
		hypothesisIDs[hypothesis.ID] = true

		switch hypothesis.Tier {
		case models.TierOne:
			if hypothesis.Requirement != nil {
				fail("tier-1 hypothesis must not have a requirement", slog.String("hypothesis_id", hypothesis.ID))
			}
		case models.TierTwo:
			if hypothesis.Requirement == nil {
				fail("tier-2 hypothesis needs a requirement", slog.String("hypothesis_id", hypothesis.ID))
			} else {
				validateRequirement(hypothesis.Requirement, hypothesis.ID, evidenceIDs, fail)
			}
		default:
			fail("hypothesis tier must be 1 or 2",
				slog.String("hypothesis_id", hypothesis.ID), slog.Int("tier", int(hypothesis.Tier)))
		}
	}

	if !witnessIDs[def.Solution.Culprit] {
		fail("solution culprit is not a witness", slog.String("culprit", def.Solution.Culprit))
	}
	for _, key := range def.Solution.KeyEvidence {
		if !evidenceIDs[key] {
			fail("key evidence references unknown evidence", slog.String("evidence_id", key))
		}
	}
	for accused := range def.Solution.CommonMistakes {
		if !witnessIDs[accused] {
			fail("common mistake references unknown witness", slog.String("witness_id", accused))
		}
	}
	for _, id := range def.Solution.Timeline {
		if !evidenceIDs[id] {
			fail("timeline references unknown evidence", slog.String("evidence_id", id))
		}
	}
	for _, pair := range def.Solution.CausationPairs {
		if !evidenceIDs[pair.PresenceEvidenceID] {
			fail("causation pair references unknown presence evidence",
				slog.String("evidence_id", pair.PresenceEvidenceID))
		}
		if !evidenceIDs[pair.TimelineEvidenceID] {
			fail("causation pair references unknown timeline evidence",
				slog.String("evidence_id", pair.TimelineEvidenceID))
		}
	}
	for _, claim := range def.Solution.PostHocClaims {
		if !evidenceIDs[claim.EvidenceID] {
			fail("post-hoc claim references unknown evidence", slog.String("evidence_id", claim.EvidenceID))
		}
		if !evidenceIDs[claim.EffectEvidenceID] {
			fail("post-hoc claim references unknown effect evidence",
				slog.String("evidence_id", claim.EffectEvidenceID))
		}
	}

	return errors.Join(errs...)
}

func validateRequirement(
	req models.Requirement,
	hypothesisID string,
	evidenceIDs map[string]bool,
	fail func(msg string, attrs ...slog.Attr),
) {
	switch r := req.(type) {
	case models.EvidenceCollected:
		if !evidenceIDs[r.EvidenceID] {
			fail("requirement references unknown evidence",
				slog.String("hypothesis_id", hypothesisID), slog.String("evidence_id", r.EvidenceID))
		}
	case models.ThresholdMet:
		if !models.KnownMetric(r.Metric) {
			fail("requirement uses unknown metric",
				slog.String("hypothesis_id", hypothesisID), slog.String("metric", string(r.Metric)))
		}
		if r.Threshold < 0 {
			fail("requirement threshold must not be negative",
				slog.String("hypothesis_id", hypothesisID), slog.Int("threshold", r.Threshold))
		}
	case models.AllOf:
		for _, child := range r.Children {
			validateRequirement(child, hypothesisID, evidenceIDs, fail)
		}
	case models.AnyOf:
		for _, child := range r.Children {
			validateRequirement(child, hypothesisID, evidenceIDs, fail)
		}
	}
}

// Lint reports authoring smells that do not make a case invalid. The
// wants/fears pairing rule lives here rather than in validation: it guides
// narrative quality, not engine correctness.
func Lint(def *models.CaseDefinition) []string {
	var warnings []string
	for _, witness := range def.Witnesses {
		if (witness.Wants == "") != (witness.Fears == "") {
			warnings = append(warnings,
				"witness "+witness.ID+" has only one of wants/fears; authors should provide both or neither")
		}
	}
	for _, evidence := range def.Evidence {
		if evidence.Description == "" {
			warnings = append(warnings, "evidence "+evidence.ID+" has no description for the narrator")
		}
	}
	if len(def.Solution.KeyEvidence) == 0 {
		warnings = append(warnings, "solution lists no key evidence; scoring will ignore citations")
	}
	return warnings
}
