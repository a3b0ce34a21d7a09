package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/GotYourSixConsulting/delegations/internal/domain"
)

// MemoryResidentsRepo in-memory ResidentsRepository.
type MemoryResidentsRepo struct {
	mu        sync.RWMutex
	residents map[string]domain.Resident
}

func NewMemoryResidentsRepo() *MemoryResidentsRepo {
	return &MemoryResidentsRepo{
		residents: map[string]domain.Resident{},
	}
}

func cloneResident(res domain.Resident) domain.Resident {
	cp := res
	if res.Assessments != nil {
		cp.Assessments = make([]domain.Assessment, len(res.Assessments))
		copy(cp.Assessments, res.Assessments)
	}
	return cp
}

func (r *MemoryResidentsRepo) GetResident(_ context.Context, residentID string) (*domain.Resident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.residents[residentID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneResident(res)
	return &cp, nil
}

func (r *MemoryResidentsRepo) ListResidents(_ context.Context, filters ResidentFilters, page, size int) ([]*domain.Resident, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.Resident, 0, len(r.residents))
	for _, res := range r.residents {
		if filters.CommunityID != "" && res.CommunityID != filters.CommunityID {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(res.Name), strings.ToLower(filters.Search)) {
			continue
		}
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})

	total := len(all)
	start, end := clampPage(total, page, size)
	out := make([]*domain.Resident, 0, end-start)
	for _, res := range all[start:end] {
		cp := cloneResident(res)
		out = append(out, &cp)
	}
	return out, total, nil
}

func (r *MemoryResidentsRepo) CreateResident(_ context.Context, resident *domain.Resident) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := cloneResident(*resident)
	if cp.ResidentID == "" {
		cp.ResidentID = uuid.NewString()
	}
	r.residents[cp.ResidentID] = cp
	return cp.ResidentID, nil
}

func (r *MemoryResidentsRepo) UpdateResident(_ context.Context, residentID string, resident *domain.Resident) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.residents[residentID]; !ok {
		return ErrNotFound
	}
	cp := cloneResident(*resident)
	cp.ResidentID = residentID
	r.residents[residentID] = cp
	return nil
}

func (r *MemoryResidentsRepo) DeleteResident(_ context.Context, residentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.residents[residentID]; !ok {
		return ErrNotFound
	}
	delete(r.residents, residentID)
	return nil
}
