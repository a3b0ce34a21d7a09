package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GotYourSixConsulting/delegations/internal/dateutil"
	"github.com/GotYourSixConsulting/delegations/internal/domain"
	"github.com/GotYourSixConsulting/delegations/internal/repository"
)

// AssessmentService maintains each resident's clinical-stability assessment
// history. History is append-only, newest first; the resident's derived
// fields (last/next date, status) always mirror the newest record.
type AssessmentService interface {
	LogAssessment(ctx context.Context, req LogAssessmentRequest) (*domain.Assessment, []string, error)
	DueStatus(resident *domain.Resident) (string, int)
}

type assessmentService struct {
	residents repository.ResidentsRepository
	clock     dateutil.Clock
	logger    *zap.Logger
}

// NewAssessmentService creates an AssessmentService instance.
func NewAssessmentService(residents repository.ResidentsRepository, clock dateutil.Clock, logger *zap.Logger) AssessmentService {
	return &assessmentService{residents: residents, clock: clock, logger: logger}
}

// LogAssessmentRequest new assessment entry. NextDueDate is optional for
// Initial/Quarterly (defaults to Date + AssessmentCycleDays) and required
// for Change of Condition, where the next interval is clinical judgment.
type LogAssessmentRequest struct {
	ResidentID  string
	Date        time.Time
	Type        string
	Stable      bool
	Narrative   string
	NextDueDate *time.Time
}

func (s *assessmentService) LogAssessment(ctx context.Context, req LogAssessmentRequest) (*domain.Assessment, []string, error) {
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

	if req.Date.IsZero() {
		violations = append(violations, "assessment date is required")
	}
	if !domain.ValidAssessmentType(req.Type) {
		violations = append(violations, fmt.Sprintf("invalid assessment type %q", req.Type))
	}
	if strings.TrimSpace(req.Narrative) == "" {
		violations = append(violations, "assessment narrative is required")
	}
	if req.Type == domain.AssessmentChangeOfCondition && req.NextDueDate == nil {
		violations = append(violations, "next due date is required for a change-of-condition assessment")
	}
	if len(violations) > 0 {
		return nil, violations, nil
	}

	date := dateutil.DateOnly(req.Date)
	nextDue := dateutil.AddDays(date, domain.AssessmentCycleDays)
	if req.NextDueDate != nil {
		nextDue = dateutil.DateOnly(*req.NextDueDate)
	}

	assessment := domain.Assessment{
		AssessmentID: uuid.NewString(),
		Date:         date,
		Type:         req.Type,
		Stable:       req.Stable,
		Narrative:    strings.TrimSpace(req.Narrative),
		NextDueDate:  nextDue,
	}

	// Prepend: history is most-recent-first and existing records are never
	// touched.
	resident.Assessments = append([]domain.Assessment{assessment}, resident.Assessments...)
	resident.LastAssessmentDate = &date
	resident.NextAssessmentDate = &nextDue
	if req.Stable {
		resident.AssessmentStatus = domain.ResidentStable
	} else {
		resident.AssessmentStatus = domain.ResidentUnstable
	}

	if err := s.residents.UpdateResident(ctx, resident.ResidentID, resident); err != nil {
		return nil, nil, fmt.Errorf("update resident %s: %w", resident.ResidentID, err)
	}

	s.logger.Info("assessment logged",
		zap.String("resident_id", resident.ResidentID),
		zap.String("type", req.Type),
		zap.Bool("stable", req.Stable))
	return &assessment, nil, nil
}

// DueStatus derives the assessment due status and days remaining for a
// resident as of today. Pure read; nothing is stored.
func (s *assessmentService) DueStatus(resident *domain.Resident) (string, int) {
	today := s.clock.Today()
	return AssessmentDueStatus(resident, today)
}

// AssessmentDueStatus is the derivation itself, exported for the report and
// packet builders so every caller applies the same thresholds.
func AssessmentDueStatus(resident *domain.Resident, today time.Time) (string, int) {
	next := resident.NextAssessmentDate
	if next == nil && resident.LastAssessmentDate != nil {
		fallback := dateutil.AddDays(*resident.LastAssessmentDate, domain.AssessmentCycleDays)
		next = &fallback
	}
	if next == nil {
		return domain.AssessmentNeeded, 0
	}
	remaining := dateutil.DaysUntil(today, *next)
	switch {
	case remaining < 0:
		return domain.AssessmentOverdue, remaining
	case remaining <= domain.AssessmentDueSoonDays:
		return domain.AssessmentDueSoon, remaining
	default:
		return domain.AssessmentCurrent, remaining
	}
}
