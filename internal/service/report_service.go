package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/GotYourSixConsulting/delegations/internal/dateutil"
	"github.com/GotYourSixConsulting/delegations/internal/domain"
	"github.com/GotYourSixConsulting/delegations/internal/repository"
)

// ReportService derives dashboard counts from the current delegation set.
// A pure read-side projection: counts are recomputed from the store on every
// call because due-soon/overdue depend on today's date — caching them would
// serve stale status.
type ReportService interface {
	Dashboard(ctx context.Context, req DashboardRequest) (*DashboardCounts, error)
}

type reportService struct {
	delegations repository.DelegationsRepository
	residents   repository.ResidentsRepository
	medTechs    repository.MedTechsRepository
	clock       dateutil.Clock
	logger      *zap.Logger
}

// NewReportService creates a ReportService instance.
func NewReportService(
	delegations repository.DelegationsRepository,
	residents repository.ResidentsRepository,
	medTechs repository.MedTechsRepository,
	clock dateutil.Clock,
	logger *zap.Logger,
) ReportService {
	return &reportService{
		delegations: delegations,
		residents:   residents,
		medTechs:    medTechs,
		clock:       clock,
		logger:      logger,
	}
}

// DashboardRequest optional pre-filters: one community and/or a text query
// matched against resident and medtech names.
type DashboardRequest struct {
	CommunityID string
	Query       string
}

// DashboardCounts delegation dashboard tallies. Active counts stored status;
// DueSoon/Overdue count derived conditions on active records, so an overdue
// delegation appears in both Active and Overdue.
type DashboardCounts struct {
	Active         int `json:"active"`
	DueSoon        int `json:"due_soon"`
	Overdue        int `json:"overdue"`
	SupervisionDue int `json:"supervision_due"`
	Unsigned       int `json:"unsigned"`
	Rescinded      int `json:"rescinded"`
	Total          int `json:"total"`
}

func (s *reportService) Dashboard(ctx context.Context, req DashboardRequest) (*DashboardCounts, error) {
	filters := repository.DelegationFilters{CommunityID: req.CommunityID}

	if q := strings.TrimSpace(req.Query); q != "" {
		residentIDs, medTechIDs, err := resolveNameQuery(ctx, s.residents, s.medTechs, req.CommunityID, q)
		if err != nil {
			return nil, err
		}
		filters.ResidentIDs = residentIDs
		filters.MedTechIDs = medTechIDs
	}

	// Page size 0 falls back to the repo default; pull everything in pages
	// so the projection sees the full set.
	today := s.clock.Today()
	counts := &DashboardCounts{}
	page := 1
	const pageSize = 500
	for {
		ds, total, err := s.delegations.ListDelegations(ctx, filters, page, pageSize)
		if err != nil {
			return nil, fmt.Errorf("list delegations: %w", err)
		}
		for _, d := range ds {
			tally(counts, d, today)
		}
		if page*pageSize >= total || len(ds) == 0 {
			break
		}
		page++
	}
	return counts, nil
}

func tally(counts *DashboardCounts, d *domain.Delegation, today time.Time) {
	counts.Total++
	if d.Status == domain.DelegationRescinded {
		counts.Rescinded++
		return
	}
	counts.Active++
	switch domain.DeriveStatus(d, today) {
	case domain.StatusDueSoon:
		counts.DueSoon++
	case domain.StatusOverdue:
		counts.Overdue++
	}
	if domain.SupervisionDue(d, today) {
		counts.SupervisionDue++
	}
	if !d.Signed() {
		counts.Unsigned++
	}
}

const resolvePageSize = 500

// resolveNameQuery turns a free-text query into participant id allow-lists;
// repositories filter by ids only. Empty (non-nil) lists mean the query
// matched nobody. Both directories are walked in full so no match past the
// first page is dropped.
func resolveNameQuery(
	ctx context.Context,
	residents repository.ResidentsRepository,
	medTechs repository.MedTechsRepository,
	communityID, query string,
) ([]string, []string, error) {
	residentIDs := []string{}
	medTechIDs := []string{}

	for page := 1; ; page++ {
		rs, total, err := residents.ListResidents(ctx, repository.ResidentFilters{CommunityID: communityID, Search: query}, page, resolvePageSize)
		if err != nil {
			return nil, nil, fmt.Errorf("search residents: %w", err)
		}
		for _, r := range rs {
			residentIDs = append(residentIDs, r.ResidentID)
		}
		if page*resolvePageSize >= total || len(rs) == 0 {
			break
		}
	}

	for page := 1; ; page++ {
		mts, total, err := medTechs.ListMedTechs(ctx, repository.MedTechFilters{CommunityID: communityID, Search: query}, page, resolvePageSize)
		if err != nil {
			return nil, nil, fmt.Errorf("search medtechs: %w", err)
		}
		for _, mt := range mts {
			medTechIDs = append(medTechIDs, mt.MedTechID)
		}
		if page*resolvePageSize >= total || len(mts) == 0 {
			break
		}
	}
	return residentIDs, medTechIDs, nil
}
