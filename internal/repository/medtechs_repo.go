package repository

import (
	"context"

	"github.com/GotYourSixConsulting/delegations/internal/domain"
)

// MedTechsRepository data access for delegate (UAP) records and their
// training transcripts.
type MedTechsRepository interface {
	GetMedTech(ctx context.Context, medTechID string) (*domain.MedTech, error)
	ListMedTechs(ctx context.Context, filters MedTechFilters, page, size int) ([]*domain.MedTech, int, error)
	CreateMedTech(ctx context.Context, medTech *domain.MedTech) (string, error)
	UpdateMedTech(ctx context.Context, medTechID string, medTech *domain.MedTech) error
	DeleteMedTech(ctx context.Context, medTechID string) error
}

// MedTechFilters medtech list filters.
type MedTechFilters struct {
	CommunityID string
	Search      string // case-insensitive substring on name
}
