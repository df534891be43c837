package models

// Metric names a PlayerState counter that a ThresholdMet requirement can
// read. The set is closed; a metric name outside it never satisfies a
// requirement.
type Metric string

const (
	MetricEvidenceCount            Metric = "evidenceCount"
	MetricInvestigationPointsSpent Metric = "investigationPointsSpent"
	MetricInvestigationProgress    Metric = "investigationProgress"
)

// KnownMetric reports whether m belongs to the closed metric set.
func KnownMetric(m Metric) bool {
	switch m {
	case MetricEvidenceCount, MetricInvestigationPointsSpent, MetricInvestigationProgress:
		return true
	}
	return false
}

// Requirement is a boolean expression tree gating a tier-2 hypothesis.
//
// The variants form a closed sum: EvidenceCollected and ThresholdMet are the
// leaves, AllOf and AnyOf the composites. Adding a variant requires touching
// every switch over Requirement, which is the point.
type Requirement interface {
	requirement()
}

// EvidenceCollected is satisfied when the named evidence has been discovered.
type EvidenceCollected struct {
	EvidenceID string
}

// ThresholdMet is satisfied when the named metric is at least Threshold.
type ThresholdMet struct {
	Metric    Metric
	Threshold int
}

// AllOf is satisfied when every child is. An empty child list is vacuously true.
type AllOf struct {
	Children []Requirement
}

// AnyOf is satisfied when at least one child is. An empty child list is false.
type AnyOf struct {
	Children []Requirement
}

func (EvidenceCollected) requirement() {}
func (ThresholdMet) requirement()      {}
func (AllOf) requirement()             {}
func (AnyOf) requirement()             {}
