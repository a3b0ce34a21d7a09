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

// MedTechService maintains the delegate's append-only training transcript.
type MedTechService interface {
	AddTrainingRecord(ctx context.Context, req AddTrainingRecordRequest) (*domain.TrainingRecord, []string, error)
}

type medTechService struct {
	medTechs repository.MedTechsRepository
	logger   *zap.Logger
}

// NewMedTechService creates a MedTechService instance.
func NewMedTechService(medTechs repository.MedTechsRepository, logger *zap.Logger) MedTechService {
	return &medTechService{medTechs: medTechs, logger: logger}
}

// AddTrainingRecordRequest one transcript entry.
type AddTrainingRecordRequest struct {
	MedTechID  string
	Date       time.Time
	Course     string
	Instructor string
	Method     string
	Hours      float64
}

func (s *medTechService) AddTrainingRecord(ctx context.Context, req AddTrainingRecordRequest) (*domain.TrainingRecord, []string, error) {
	var violations []string

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
	if req.Date.IsZero() {
		violations = append(violations, "training date is required")
	}
	if strings.TrimSpace(req.Course) == "" {
		violations = append(violations, "course is required")
	}
	if len(violations) > 0 {
		return nil, violations, nil
	}

	record := domain.TrainingRecord{
		RecordID:   uuid.NewString(),
		Date:       dateutil.DateOnly(req.Date),
		Course:     strings.TrimSpace(req.Course),
		Instructor: strings.TrimSpace(req.Instructor),
		Method:     strings.TrimSpace(req.Method),
		Hours:      req.Hours,
	}

	// Prepend: transcript is append-only, newest first.
	medTech.TrainingRecords = append([]domain.TrainingRecord{record}, medTech.TrainingRecords...)
	if err := s.medTechs.UpdateMedTech(ctx, medTech.MedTechID, medTech); err != nil {
		return nil, nil, fmt.Errorf("update medtech %s: %w", medTech.MedTechID, err)
	}

	s.logger.Info("training record added",
		zap.String("medtech_id", medTech.MedTechID),
		zap.String("course", record.Course))
	return &record, nil, nil
}
