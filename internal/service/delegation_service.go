package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GotYourSixConsulting/delegations/internal/dateutil"
	"github.com/GotYourSixConsulting/delegations/internal/domain"
	"github.com/GotYourSixConsulting/delegations/internal/narrative"
	"github.com/GotYourSixConsulting/delegations/internal/repository"
)

// DelegationService owns the delegation lifecycle: creation, reauthorization,
// rescission, supervision logging and the signing ceremony. All date-derived
// fields inside one operation are computed from a single clock read.
type DelegationService interface {
	Create(ctx context.Context, req CreateDelegationRequest) ([]*domain.Delegation, []string, error)
	Reauthorize(ctx context.Context, req ReauthorizeRequest) (*domain.Delegation, []string, error)
	Rescind(ctx context.Context, delegationID, reason string) (*domain.Delegation, []string, error)
	LogSupervision(ctx context.Context, req LogSupervisionRequest) (*domain.Delegation, error)
	RecordSignatures(ctx context.Context, req RecordSignaturesRequest) (*domain.Delegation, error)
	Get(ctx context.Context, delegationID string) (*DelegationView, error)
	List(ctx context.Context, req ListDelegationsRequest) ([]*DelegationView, int, error)
}

type delegationService struct {
	delegations repository.DelegationsRepository
	residents   repository.ResidentsRepository
	medTechs    repository.MedTechsRepository
	communities repository.CommunitiesRepository
	tasks       repository.TasksRepository
	clock       dateutil.Clock
	now         func() time.Time
	logger      *zap.Logger
}

// NewDelegationService creates a DelegationService instance.
func NewDelegationService(
	delegations repository.DelegationsRepository,
	residents repository.ResidentsRepository,
	medTechs repository.MedTechsRepository,
	communities repository.CommunitiesRepository,
	tasks repository.TasksRepository,
	clock dateutil.Clock,
	logger *zap.Logger,
) DelegationService {
	return &delegationService{
		delegations: delegations,
		residents:   residents,
		medTechs:    medTechs,
		communities: communities,
		tasks:       tasks,
		clock:       clock,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger,
	}
}

// CreateDelegationRequest create request. A multi-task submission fans out
// into one independent delegation record per task id.
type CreateDelegationRequest struct {
	ResidentID        string
	MedTechID         string
	TaskIDs           []string
	AuthDaysRequested int
	Checklist         domain.Checklist
	CompetencyMethods domain.CompetencyMethods
	Justification     domain.JustificationFields
}

// ReauthorizeRequest extension request. When CriteriaUnchanged is true the
// existing justification fields are retained verbatim; otherwise
// Justification replaces them in full (no merge).
type ReauthorizeRequest struct {
	DelegationID      string
	NewAuthDays       int
	CriteriaUnchanged bool
	Justification     domain.JustificationFields
}

// LogSupervisionRequest records a personal-observation supervision visit.
type LogSupervisionRequest struct {
	DelegationID       string
	ObservationMethods []string
}

// RecordSignaturesRequest the signing ceremony. Both signatures are stamped
// with one identical timestamp: signing is a single atomic event, not two.
// Images are opaque blobs from the external capture capability.
type RecordSignaturesRequest struct {
	DelegationID string
	RNName       string
	RNImage      []byte
	MTName       string
	MTImage      []byte
}

// ListDelegationsRequest list filters. Query matches resident or medtech
// names case-insensitively.
type ListDelegationsRequest struct {
	CommunityID string
	ResidentID  string
	MedTechID   string
	Status      string
	Query       string
	Page        int
	PageSize    int
}

// DelegationView is a delegation plus its display-only derived fields.
// DerivedStatus is recomputed on every read and never persisted.
type DelegationView struct {
	*domain.Delegation
	ResidentName   string `json:"resident_name"`
	MedTechName    string `json:"medtech_name"`
	TaskLabel      string `json:"task_label"`
	DerivedStatus  string `json:"derived_status"`
	DaysRemaining  int    `json:"days_remaining"`
	SupervisionDue bool   `json:"supervision_due"`
}

func clampAuthDays(n int) int {
	if n < domain.MinAuthDays {
		return domain.MinAuthDays
	}
	if n > domain.MaxAuthDays {
		return domain.MaxAuthDays
	}
	return n
}

// validateCreate collects every violation instead of failing fast; the full
// list goes back to the caller and nothing is created while it is non-empty.
func (s *delegationService) validateCreate(ctx context.Context, req CreateDelegationRequest) (*domain.Resident, *domain.MedTech, []*domain.DelegationTask, []string) {
	var violations []string

	var resident *domain.Resident
	if req.ResidentID == "" {
		violations = append(violations, "resident is required")
	} else {
		r, err := s.residents.GetResident(ctx, req.ResidentID)
		if err != nil {
			violations = append(violations, "resident not found")
		} else {
			resident = r
		}
	}

	var medTech *domain.MedTech
	if req.MedTechID == "" {
		violations = append(violations, "med tech is required")
	} else {
		mt, err := s.medTechs.GetMedTech(ctx, req.MedTechID)
		if err != nil {
			violations = append(violations, "med tech not found")
		} else {
			medTech = mt
		}
	}

	var tasks []*domain.DelegationTask
	if len(req.TaskIDs) == 0 {
		violations = append(violations, "at least one task is required")
	} else {
		for _, taskID := range req.TaskIDs {
			t, err := s.tasks.GetTask(ctx, taskID)
			if err != nil {
				violations = append(violations, fmt.Sprintf("unknown task %q", taskID))
				continue
			}
			tasks = append(tasks, t)
		}
	}

	if !req.Checklist.StableCondition {
		violations = append(violations, "resident condition must be stable and predictable")
	}

	violations = append(violations, missingJustificationFields(req.Justification)...)
	return resident, medTech, tasks, violations
}

func missingJustificationFields(f domain.JustificationFields) []string {
	var missing []string
	fields := []struct {
		label string
		value string
	}{
		{"RN/employee relationship", f.RNRelationship},
		{"training method", f.TrainingMethod},
		{"insulin experience in community", f.ExperienceCommunity},
		{"insulin experience over career", f.ExperienceCareer},
		{"resident-specific knowledge", f.ResidentKnowledge},
		{"willingness", f.Willingness},
	}
	for _, fld := range fields {
		if strings.TrimSpace(fld.value) == "" {
			missing = append(missing, fmt.Sprintf("justification field %q is required", fld.label))
		}
	}
	return missing
}

func (s *delegationService) Create(ctx context.Context, req CreateDelegationRequest) ([]*domain.Delegation, []string, error) {
	resident, medTech, tasks, violations := s.validateCreate(ctx, req)
	if len(violations) > 0 {
		return nil, violations, nil
	}

	community, err := s.communities.GetCommunity(ctx, resident.CommunityID)
	if err != nil {
		return nil, nil, fmt.Errorf("load community %s: %w", resident.CommunityID, err)
	}

	authDays := clampAuthDays(req.AuthDaysRequested)
	today := s.clock.Today()
	now := s.now()

	created := make([]*domain.Delegation, 0, len(tasks))
	for _, task := range tasks {
		d := &domain.Delegation{
			CommunityID:        resident.CommunityID,
			ResidentID:         resident.ResidentID,
			MedTechID:          medTech.MedTechID,
			TaskID:             task.TaskID,
			Status:             domain.DelegationActive,
			StartDate:          today,
			EndDate:            dateutil.AddDays(today, authDays),
			AuthDays:           authDays,
			SupervisionDueDate: dateutil.AddDays(today, domain.InitialSupervisionDays),
			Checklist:          req.Checklist,
			CompetencyMethods:  req.CompetencyMethods,
			Justification:      req.Justification,
			SignerName:         community.RNName,
			Audit: []domain.AuditEntry{{
				Timestamp: now,
				Action:    domain.AuditCreated,
				Detail:    fmt.Sprintf("Initial Auth %d days", authDays),
			}},
		}
		d.AuthJustification = narrative.Compose(d.SignerName, d.AuthDays, d.Checklist.StableCondition, d.Justification)

		id, err := s.delegations.CreateDelegation(ctx, d)
		if err != nil {
			return nil, nil, fmt.Errorf("create delegation for task %s: %w", task.TaskID, err)
		}
		d.DelegationID = id
		created = append(created, d)

		s.logger.Info("delegation created",
			zap.String("delegation_id", id),
			zap.String("resident_id", resident.ResidentID),
			zap.String("medtech_id", medTech.MedTechID),
			zap.String("task_id", task.TaskID),
			zap.Int("auth_days", authDays))
	}
	return created, nil, nil
}

// loadActive fetches a delegation and rejects the operation when the record
// is terminal.
func (s *delegationService) loadActive(ctx context.Context, delegationID string) (*domain.Delegation, error) {
	d, err := s.delegations.GetDelegation(ctx, delegationID)
	if err != nil {
		return nil, fmt.Errorf("load delegation %s: %w", delegationID, err)
	}
	if d.Status == domain.DelegationRescinded {
		return nil, ErrDelegationRescinded
	}
	return d, nil
}

func (s *delegationService) Reauthorize(ctx context.Context, req ReauthorizeRequest) (*domain.Delegation, []string, error) {
	d, err := s.loadActive(ctx, req.DelegationID)
	if err != nil {
		return nil, nil, err
	}

	authDays := clampAuthDays(req.NewAuthDays)
	today := s.clock.Today()

	if !req.CriteriaUnchanged {
		d.Justification = req.Justification
	}

	// Extension is measured from the moment of reauthorization, not the
	// original start, so the start is re-anchored to keep
	// EndDate == StartDate + AuthDays holding.
	d.StartDate = today
	d.AuthDays = authDays
	d.EndDate = dateutil.AddDays(today, authDays)
	d.SupervisionDueDate = dateutil.AddDays(today, minInt(authDays, domain.MaxAuthDays))

	signer := d.SignerName
	if signer == "" {
		if community, err := s.communities.GetCommunity(ctx, d.CommunityID); err == nil {
			signer = community.RNName
			d.SignerName = signer
		}
	}
	d.AuthJustification = narrative.Compose(signer, d.AuthDays, d.Checklist.StableCondition, d.Justification)

	criteriaNote := "criteria unchanged"
	if !req.CriteriaUnchanged {
		criteriaNote = "criteria updated"
	}
	d.Audit = append(d.Audit, domain.AuditEntry{
		Timestamp: s.now(),
		Action:    domain.AuditReauthorized,
		Detail:    fmt.Sprintf("Reauthorized %d days, %s", authDays, criteriaNote),
	})

	if err := s.delegations.UpdateDelegation(ctx, d.DelegationID, d); err != nil {
		return nil, nil, fmt.Errorf("update delegation %s: %w", d.DelegationID, err)
	}
	s.logger.Info("delegation reauthorized",
		zap.String("delegation_id", d.DelegationID),
		zap.Int("auth_days", authDays),
		zap.Bool("criteria_unchanged", req.CriteriaUnchanged))
	return d, nil, nil
}

func (s *delegationService) Rescind(ctx context.Context, delegationID, reason string) (*domain.Delegation, []string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, []string{"rescind reason is required"}, nil
	}

	d, err := s.loadActive(ctx, delegationID)
	if err != nil {
		return nil, nil, err
	}

	today := s.clock.Today()
	d.Status = domain.DelegationRescinded
	d.RescindDate = &today
	d.RescindReason = reason
	d.Audit = append(d.Audit, domain.AuditEntry{
		Timestamp: s.now(),
		Action:    domain.AuditRescinded,
		Detail:    fmt.Sprintf("Rescinded: %s", reason),
	})

	if err := s.delegations.UpdateDelegation(ctx, d.DelegationID, d); err != nil {
		return nil, nil, fmt.Errorf("update delegation %s: %w", d.DelegationID, err)
	}
	s.logger.Info("delegation rescinded",
		zap.String("delegation_id", d.DelegationID),
		zap.String("reason", reason))
	return d, nil, nil
}

func (s *delegationService) LogSupervision(ctx context.Context, req LogSupervisionRequest) (*domain.Delegation, error) {
	d, err := s.loadActive(ctx, req.DelegationID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	// Reset uses the maximum authorization window, not the shorter initial
	// interval — see the SupervisionResetDays constant.
	d.SupervisionDueDate = dateutil.AddDays(today, domain.SupervisionResetDays)

	detail := "Personal observation"
	if len(req.ObservationMethods) > 0 {
		detail = "Personal observation: " + strings.Join(req.ObservationMethods, ", ")
	}
	d.Audit = append(d.Audit, domain.AuditEntry{
		Timestamp: s.now(),
		Action:    domain.AuditSupervision,
		Detail:    detail,
	})

	if err := s.delegations.UpdateDelegation(ctx, d.DelegationID, d); err != nil {
		return nil, fmt.Errorf("update delegation %s: %w", d.DelegationID, err)
	}

	// Best effort: the medtech's last-supervision date is display metadata.
	if mt, err := s.medTechs.GetMedTech(ctx, d.MedTechID); err == nil {
		mt.LastSupervisionDate = &today
		if err := s.medTechs.UpdateMedTech(ctx, mt.MedTechID, mt); err != nil {
			s.logger.Warn("failed to update medtech supervision date",
				zap.String("medtech_id", mt.MedTechID), zap.Error(err))
		}
	}

	s.logger.Info("supervision logged", zap.String("delegation_id", d.DelegationID))
	return d, nil
}

func (s *delegationService) RecordSignatures(ctx context.Context, req RecordSignaturesRequest) (*domain.Delegation, error) {
	d, err := s.loadActive(ctx, req.DelegationID)
	if err != nil {
		return nil, err
	}

	// One timestamp for both records: the ceremony is atomic.
	signedAt := s.now()
	if req.RNName != "" {
		d.RNSignature = &domain.SignatureRecord{Name: req.RNName, SignedAt: signedAt, Image: req.RNImage}
		d.SignerName = req.RNName
	}
	if req.MTName != "" {
		d.MTSignature = &domain.SignatureRecord{Name: req.MTName, SignedAt: signedAt, Image: req.MTImage}
	}

	// Signer-of-record is a composer input, so the narrative is rebuilt.
	d.AuthJustification = narrative.Compose(d.SignerName, d.AuthDays, d.Checklist.StableCondition, d.Justification)

	d.Audit = append(d.Audit, domain.AuditEntry{
		Timestamp: signedAt,
		Action:    domain.AuditSigned,
		Detail:    signatureDetail(req.RNName, req.MTName),
	})

	if err := s.delegations.UpdateDelegation(ctx, d.DelegationID, d); err != nil {
		return nil, fmt.Errorf("update delegation %s: %w", d.DelegationID, err)
	}
	s.logger.Info("signatures recorded", zap.String("delegation_id", d.DelegationID))
	return d, nil
}

func signatureDetail(rnName, mtName string) string {
	switch {
	case rnName != "" && mtName != "":
		return fmt.Sprintf("Signed by RN %s and MedTech %s", rnName, mtName)
	case rnName != "":
		return fmt.Sprintf("Signed by RN %s", rnName)
	case mtName != "":
		return fmt.Sprintf("Signed by MedTech %s", mtName)
	default:
		return "Signature ceremony recorded with no names"
	}
}

func (s *delegationService) Get(ctx context.Context, delegationID string) (*DelegationView, error) {
	d, err := s.delegations.GetDelegation(ctx, delegationID)
	if err != nil {
		return nil, fmt.Errorf("load delegation %s: %w", delegationID, err)
	}
	return s.view(ctx, d), nil
}

func (s *delegationService) List(ctx context.Context, req ListDelegationsRequest) ([]*DelegationView, int, error) {
	filters := repository.DelegationFilters{
		CommunityID: req.CommunityID,
		ResidentID:  req.ResidentID,
		MedTechID:   req.MedTechID,
		Status:      req.Status,
	}

	if q := strings.TrimSpace(req.Query); q != "" {
		residentIDs, medTechIDs, err := resolveNameQuery(ctx, s.residents, s.medTechs, req.CommunityID, q)
		if err != nil {
			return nil, 0, err
		}
		filters.ResidentIDs = residentIDs
		filters.MedTechIDs = medTechIDs
	}

	ds, total, err := s.delegations.ListDelegations(ctx, filters, req.Page, req.PageSize)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*DelegationView, 0, len(ds))
	for _, d := range ds {
		views = append(views, s.view(ctx, d))
	}
	return views, total, nil
}

func (s *delegationService) view(ctx context.Context, d *domain.Delegation) *DelegationView {
	today := s.clock.Today()
	v := &DelegationView{
		Delegation:     d,
		DerivedStatus:  domain.DeriveStatus(d, today),
		DaysRemaining:  dateutil.DaysUntil(today, d.EndDate),
		SupervisionDue: domain.SupervisionDue(d, today),
	}
	if r, err := s.residents.GetResident(ctx, d.ResidentID); err == nil {
		v.ResidentName = r.Name
	}
	if mt, err := s.medTechs.GetMedTech(ctx, d.MedTechID); err == nil {
		v.MedTechName = mt.Name
	}
	if t, err := s.tasks.GetTask(ctx, d.TaskID); err == nil {
		v.TaskLabel = t.Label
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// IsNotFound reports whether err came from a repository miss.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
