package domain

import "time"

// MedTech is an unlicensed care worker (UAP) a task may be delegated to.
type MedTech struct {
	MedTechID   string `json:"medtech_id"`
	CommunityID string `json:"community_id"`
	Name        string `json:"name"`
	Credential  string `json:"credential"`

	Profile DelegationProfile `json:"profile"`

	// Append-only training history, newest first.
	TrainingRecords []TrainingRecord `json:"training_records,omitempty"`

	LastSupervisionDate *time.Time `json:"last_supervision_date,omitempty"`
}

// DelegationProfile holds reusable justification fragments carried from one
// delegation to the next.
type DelegationProfile struct {
	RNRelationshipMonths   int    `json:"rn_relationship_months"`
	InsulinMonthsCommunity int    `json:"insulin_months_community"`
	InsulinMonthsCareer    int    `json:"insulin_months_career"`
	Willingness            string `json:"willingness"`
}

// TrainingRecord is one entry on the medtech's training transcript.
type TrainingRecord struct {
	RecordID   string    `json:"record_id"`
	Date       time.Time `json:"date"`
	Course     string    `json:"course"`
	Instructor string    `json:"instructor"`
	Method     string    `json:"method"`
	Hours      float64   `json:"hours"`
}
