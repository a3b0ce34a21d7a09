package domain

import "time"

// Assessment types
const (
	AssessmentInitial           = "Initial"
	AssessmentQuarterly         = "Quarterly"
	AssessmentChangeOfCondition = "Change of Condition"
)

// Assessment due status (derived, never stored)
const (
	AssessmentNeeded  = "initial assessment needed"
	AssessmentOverdue = "overdue"
	AssessmentDueSoon = "due soon"
	AssessmentCurrent = "current"
)

// Assessment is an RN clinical-stability evaluation snapshot. Records are
// append-only: once written to a resident's history they are never mutated
// or deleted.
type Assessment struct {
	AssessmentID string    `json:"assessment_id"`
	Date         time.Time `json:"date"`
	Type         string    `json:"type"` // Initial / Quarterly / Change of Condition
	Stable       bool      `json:"stable"`
	Narrative    string    `json:"narrative"`
	NextDueDate  time.Time `json:"next_due_date"`
}

// ValidAssessmentType reports whether t is one of the three catalog types.
func ValidAssessmentType(t string) bool {
	switch t {
	case AssessmentInitial, AssessmentQuarterly, AssessmentChangeOfCondition:
		return true
	}
	return false
}
