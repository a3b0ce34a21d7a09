package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/GotYourSixConsulting/delegations/internal/domain"
)

// MemoryMedTechsRepo in-memory MedTechsRepository.
type MemoryMedTechsRepo struct {
	mu       sync.RWMutex
	medTechs map[string]domain.MedTech
}

func NewMemoryMedTechsRepo() *MemoryMedTechsRepo {
	return &MemoryMedTechsRepo{
		medTechs: map[string]domain.MedTech{},
	}
}

func cloneMedTech(mt domain.MedTech) domain.MedTech {
	cp := mt
	if mt.TrainingRecords != nil {
		cp.TrainingRecords = make([]domain.TrainingRecord, len(mt.TrainingRecords))
		copy(cp.TrainingRecords, mt.TrainingRecords)
	}
	return cp
}

func (r *MemoryMedTechsRepo) GetMedTech(_ context.Context, medTechID string) (*domain.MedTech, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mt, ok := r.medTechs[medTechID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := cloneMedTech(mt)
	return &cp, nil
}

func (r *MemoryMedTechsRepo) ListMedTechs(_ context.Context, filters MedTechFilters, page, size int) ([]*domain.MedTech, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.MedTech, 0, len(r.medTechs))
	for _, mt := range r.medTechs {
		if filters.CommunityID != "" && mt.CommunityID != filters.CommunityID {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(mt.Name), strings.ToLower(filters.Search)) {
			continue
		}
		all = append(all, mt)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})

	total := len(all)
	start, end := clampPage(total, page, size)
	out := make([]*domain.MedTech, 0, end-start)
	for _, mt := range all[start:end] {
		cp := cloneMedTech(mt)
		out = append(out, &cp)
	}
	return out, total, nil
}

func (r *MemoryMedTechsRepo) CreateMedTech(_ context.Context, medTech *domain.MedTech) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := cloneMedTech(*medTech)
	if cp.MedTechID == "" {
		cp.MedTechID = uuid.NewString()
	}
	r.medTechs[cp.MedTechID] = cp
	return cp.MedTechID, nil
}

func (r *MemoryMedTechsRepo) UpdateMedTech(_ context.Context, medTechID string, medTech *domain.MedTech) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.medTechs[medTechID]; !ok {
		return ErrNotFound
	}
	cp := cloneMedTech(*medTech)
	cp.MedTechID = medTechID
	r.medTechs[medTechID] = cp
	return nil
}

func (r *MemoryMedTechsRepo) DeleteMedTech(_ context.Context, medTechID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.medTechs[medTechID]; !ok {
		return ErrNotFound
	}
	delete(r.medTechs, medTechID)
	return nil
}
