package repository

import (
	"context"

	"github.com/GotYourSixConsulting/delegations/internal/domain"
)

// ResidentsRepository data access for residents and their assessment
// history. The Update path writes the whole resident back: the assessment
// tracker owns the history/derived-field consistency, the repository only
// stores.
type ResidentsRepository interface {
	GetResident(ctx context.Context, residentID string) (*domain.Resident, error)
	ListResidents(ctx context.Context, filters ResidentFilters, page, size int) ([]*domain.Resident, int, error)
	CreateResident(ctx context.Context, resident *domain.Resident) (string, error)
	UpdateResident(ctx context.Context, residentID string, resident *domain.Resident) error
	DeleteResident(ctx context.Context, residentID string) error
}

// ResidentFilters resident list filters.
type ResidentFilters struct {
	CommunityID string
	Search      string // case-insensitive substring on name
}
