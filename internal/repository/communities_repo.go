package repository

import (
	"context"

	"github.com/GotYourSixConsulting/delegations/internal/domain"
)

// CommunitiesRepository owns facility records. Communities are created by
// admin action and rarely removed, so there is no delete.
type CommunitiesRepository interface {
	GetCommunity(ctx context.Context, communityID string) (*domain.Community, error)
	ListCommunities(ctx context.Context) ([]*domain.Community, error)
	CreateCommunity(ctx context.Context, c *domain.Community) (string, error)
	UpdateCommunity(ctx context.Context, communityID string, c *domain.Community) error
}
