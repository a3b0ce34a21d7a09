package repository

import (
	"context"

	"github.com/GotYourSixConsulting/delegations/internal/domain"
)

// DelegationsRepository data access for delegation records. Status filters
// here match the stored status only; derived display states (due-soon,
// overdue) are computed by the caller from today's date and must never be
// pushed down into storage.
type DelegationsRepository interface {
	GetDelegation(ctx context.Context, delegationID string) (*domain.Delegation, error)
	ListDelegations(ctx context.Context, filters DelegationFilters, page, size int) ([]*domain.Delegation, int, error)
	CreateDelegation(ctx context.Context, d *domain.Delegation) (string, error)
	UpdateDelegation(ctx context.Context, delegationID string, d *domain.Delegation) error
}

// DelegationFilters delegation list filters.
type DelegationFilters struct {
	CommunityID string
	ResidentID  string
	MedTechID   string
	Status      string // stored status: active / rescinded

	// Pre-resolved id allow-list for name search. The service resolves a
	// free-text query against resident/medtech names and passes the matching
	// delegation participants here; nil means no name filter.
	ResidentIDs []string
	MedTechIDs  []string
}
