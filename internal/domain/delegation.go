package domain

import "time"

// Stored delegation status. "overdue" / "due soon" are derived display
// states, never stored — see DeriveStatus.
const (
	DelegationActive    = "active"
	DelegationRescinded = "rescinded"
)

// Regulatory constants. These are not configuration; the rule set is fixed
// by the delegation regulation, so they are compiled in.
const (
	MinAuthDays           = 1
	MaxAuthDays           = 180
	DueSoonWindowDays     = 14
	AssessmentCycleDays   = 90
	AssessmentDueSoonDays = 14

	// Initial supervision check-in window after creation.
	InitialSupervisionDays = 60
	// Interval applied when a supervision visit is logged. Equals
	// MaxAuthDays (not InitialSupervisionDays) — observed behavior of the
	// paper process, kept as-is pending regulatory confirmation.
	SupervisionResetDays   = 180
	SupervisionDueSoonDays = 7
)

// Audit actions
const (
	AuditCreated      = "CREATED"
	AuditReauthorized = "REAUTHORIZED"
	AuditRescinded    = "RESCINDED"
	AuditSupervision  = "SUPERVISION"
	AuditSigned       = "SIGNED"
)

// Delegation is a time-bounded authorization for one medtech to perform one
// task for one resident under RN oversight. It exclusively owns its
// checklist, justification and audit sub-structures; resident and medtech
// are referenced by id only.
//
// Invariant: EndDate == StartDate + AuthDays at all times. EndDate is always
// reconstructed from AuthDays, never edited independently. A rescinded
// delegation is terminal: only RescindDate/RescindReason are ever written
// during the rescission itself, nothing after.
type Delegation struct {
	DelegationID string `json:"delegation_id"`
	CommunityID  string `json:"community_id"`
	ResidentID   string `json:"resident_id"`
	MedTechID    string `json:"medtech_id"`
	TaskID       string `json:"task_id"`

	Status    string    `json:"status"` // active / rescinded
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	AuthDays  int       `json:"auth_days"`

	SupervisionDueDate time.Time `json:"supervision_due_date"`

	Checklist         Checklist           `json:"checklist"`
	CompetencyMethods CompetencyMethods   `json:"competency_methods"`
	Justification     JustificationFields `json:"justification"`

	// Composed narrative, regenerated in full on every
	// authorization-affecting mutation. Derived — never hand-edited.
	AuthJustification string `json:"auth_justification"`

	// Signer-of-record for the composed narrative. Defaults to the
	// community RN; replaced when an RN signs with a different name.
	SignerName string `json:"signer_name"`

	RNSignature *SignatureRecord `json:"rn_signature,omitempty"`
	MTSignature *SignatureRecord `json:"mt_signature,omitempty"`

	RescindDate   *time.Time `json:"rescind_date,omitempty"`
	RescindReason string     `json:"rescind_reason,omitempty"`

	// Append-only. Every lifecycle mutation appends exactly one entry.
	Audit []AuditEntry `json:"audit"`
}

// Checklist holds the seven required attestations.
type Checklist struct {
	StableCondition     bool `json:"stable_condition"`
	SafeEnvironment     bool `json:"safe_environment"`
	UAPSkill            bool `json:"uap_skill"`
	UAPWilling          bool `json:"uap_willing"`
	RNAvailable         bool `json:"rn_available"`
	WrittenInstructions bool `json:"written_instructions"`
	NonTransferable     bool `json:"non_transferable"`
}

// CompetencyMethods records how the medtech's competency was verified.
type CompetencyMethods struct {
	Demonstration       bool `json:"demonstration"`
	VerbalQuiz          bool `json:"verbal_quiz"`
	WrittenQuiz         bool `json:"written_quiz"`
	ReturnDemonstration bool `json:"return_demonstration"`
	Observation         bool `json:"observation"`
}

// JustificationFields are the six structured narrative fields required for a
// delegation to be regulatorily valid. The field set is closed and
// regulation-defined.
type JustificationFields struct {
	RNRelationship      string `json:"rn_relationship"`
	TrainingMethod      string `json:"training_method"`
	ExperienceCommunity string `json:"experience_community"`
	ExperienceCareer    string `json:"experience_career"`
	ResidentKnowledge   string `json:"resident_knowledge"`
	Willingness         string `json:"willingness"`
}

// SignatureRecord is a typed name plus timestamp, with the opaque image
// produced by the external capture capability (never inspected here).
type SignatureRecord struct {
	Name     string    `json:"name"`
	SignedAt time.Time `json:"signed_at"`
	Image    []byte    `json:"image,omitempty"`
}

// AuditEntry is one line of the delegation's append-only audit trail.
type AuditEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
}

// Signed reports whether both parties have signed.
func (d *Delegation) Signed() bool {
	return d.RNSignature != nil && d.MTSignature != nil
}
