package domain

import "time"

// Resident assessment status values (mirror of the newest assessment's
// stable flag)
const (
	ResidentStable   = "Stable"
	ResidentUnstable = "Unstable"
)

// Resident is a care recipient. Assessments is the full evaluation history,
// newest first; AssessmentStatus always mirrors the stable flag of
// Assessments[0] once any assessment exists.
type Resident struct {
	ResidentID  string `json:"resident_id"`
	CommunityID string `json:"community_id"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Diagnosis   string `json:"diagnosis"`
	MedRegimen  string `json:"med_regimen"`

	LastAssessmentDate *time.Time `json:"last_assessment_date,omitempty"`
	// Explicit override; when nil the next due date falls back to
	// LastAssessmentDate + AssessmentCycleDays.
	NextAssessmentDate *time.Time `json:"next_assessment_date,omitempty"`
	AssessmentStatus   string     `json:"assessment_status,omitempty"`

	Assessments []Assessment `json:"assessments,omitempty"`
}
