package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/GotYourSixConsulting/delegations/internal/domain"
)

// MemoryCommunitiesRepo in-memory CommunitiesRepository.
type MemoryCommunitiesRepo struct {
	mu          sync.RWMutex
	communities map[string]domain.Community
}

func NewMemoryCommunitiesRepo() *MemoryCommunitiesRepo {
	return &MemoryCommunitiesRepo{
		communities: map[string]domain.Community{},
	}
}

func (r *MemoryCommunitiesRepo) GetCommunity(_ context.Context, communityID string) (*domain.Community, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.communities[communityID]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *MemoryCommunitiesRepo) ListCommunities(_ context.Context) ([]*domain.Community, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*domain.Community, 0, len(r.communities))
	for id := range r.communities {
		c := r.communities[id]
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	return all, nil
}

func (r *MemoryCommunitiesRepo) CreateCommunity(_ context.Context, c *domain.Community) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	if cp.CommunityID == "" {
		cp.CommunityID = uuid.NewString()
	}
	r.communities[cp.CommunityID] = cp
	return cp.CommunityID, nil
}

func (r *MemoryCommunitiesRepo) UpdateCommunity(_ context.Context, communityID string, c *domain.Community) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.communities[communityID]; !ok {
		return ErrNotFound
	}
	cp := *c
	cp.CommunityID = communityID
	r.communities[communityID] = cp
	return nil
}
