package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/GotYourSixConsulting/delegations/internal/domain"
)

// MemoryDelegationsRepo in-memory DelegationsRepository.
type MemoryDelegationsRepo struct {
	mu          sync.RWMutex
	delegations map[string]domain.Delegation
}

func NewMemoryDelegationsRepo() *MemoryDelegationsRepo {
	return &MemoryDelegationsRepo{
		delegations: map[string]domain.Delegation{},
	}
}

func cloneDelegation(d domain.Delegation) domain.Delegation {
	cp := d
	if d.Audit != nil {
		cp.Audit = make([]domain.AuditEntry, len(d.Audit))
		copy(cp.Audit, d.Audit)
	}
	if d.RNSignature != nil {
		sig := *d.RNSignature
		sig.Image = append([]byte(nil), d.RNSignature.Image...)
		cp.RNSignature = &sig
	}
	if d.MTSignature != nil {
		sig := *d.MTSignature
		sig.Image = append([]byte(nil), d.MTSignature.Image...)
		cp.MTSignature = &sig
	}
	if d.RescindDate != nil {
		t := *d.RescindDate
		cp.RescindDate = &t
	}
	return cp
}

func matchIDList(id string, allow []string) bool {
	for _, v := range allow {
		if v == id {
			return true
		}
	}
	return false
}

func (r *MemoryDelegationsRepo) matches(d domain.Delegation, f DelegationFilters) bool {
	if f.CommunityID != "" && d.CommunityID != f.CommunityID {
		return false
	}
	if f.ResidentID != "" && d.ResidentID != f.ResidentID {
		return false
	}
	if f.MedTechID != "" && d.MedTechID != f.MedTechID {
		return false
	}
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	// Name-search allow-lists: keep when either participant matched the query.
	if f.ResidentIDs != nil || f.MedTechIDs != nil {
		if !matchIDList(d.ResidentID, f.ResidentIDs) && !matchIDList(d.MedTechID, f.MedTechIDs) {
			return false
		}
	}
	return true
}

func (r *MemoryDelegationsRepo) GetDelegation(_ context.Context, delegationID string) (*domain.Delegation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.delegations[delegationID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneDelegation(d)
	return &cp, nil
}

func (r *MemoryDelegationsRepo) ListDelegations(_ context.Context, filters DelegationFilters, page, size int) ([]*domain.Delegation, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.Delegation, 0, len(r.delegations))
	for _, d := range r.delegations {
		if r.matches(d, filters) {
			all = append(all, d)
		}
	}
	// Newest start date first; id tiebreak keeps ordering stable.
	sort.Slice(all, func(i, j int) bool {
		if !all[i].StartDate.Equal(all[j].StartDate) {
			return all[i].StartDate.After(all[j].StartDate)
		}
		return all[i].DelegationID < all[j].DelegationID
	})

	total := len(all)
	start, end := clampPage(total, page, size)
	out := make([]*domain.Delegation, 0, end-start)
	for _, d := range all[start:end] {
		cp := cloneDelegation(d)
		out = append(out, &cp)
	}
	return out, total, nil
}

func (r *MemoryDelegationsRepo) CreateDelegation(_ context.Context, d *domain.Delegation) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := cloneDelegation(*d)
	if cp.DelegationID == "" {
		cp.DelegationID = uuid.NewString()
	}
	r.delegations[cp.DelegationID] = cp
	return cp.DelegationID, nil
}

func (r *MemoryDelegationsRepo) UpdateDelegation(_ context.Context, delegationID string, d *domain.Delegation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.delegations[delegationID]; !ok {
		return ErrNotFound
	}
	cp := cloneDelegation(*d)
	cp.DelegationID = delegationID
	r.delegations[delegationID] = cp
	return nil
}
