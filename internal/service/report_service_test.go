package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GotYourSixConsulting/delegations/internal/dateutil"
	"github.com/GotYourSixConsulting/delegations/internal/domain"
	"github.com/GotYourSixConsulting/delegations/internal/repository"
)

type dashboardEnv struct {
	svc         ReportService
	delegations *repository.MemoryDelegationsRepo
	residents   *repository.MemoryResidentsRepo
	medTechs    *repository.MemoryMedTechsRepo
	today       time.Time
}

func newDashboardEnv(t *testing.T) *dashboardEnv {
	t.Helper()
	delegations := repository.NewMemoryDelegationsRepo()
	residents := repository.NewMemoryResidentsRepo()
	medTechs := repository.NewMemoryMedTechsRepo()
	today := dateutil.Date(2024, 1, 1)
	svc := NewReportService(delegations, residents, medTechs, &stepClock{today: today}, zap.NewNop())
	return &dashboardEnv{svc: svc, delegations: delegations, residents: residents, medTechs: medTechs, today: today}
}

func (e *dashboardEnv) seed(t *testing.T, d *domain.Delegation) string {
	t.Helper()
	id, err := e.delegations.CreateDelegation(context.Background(), d)
	require.NoError(t, err)
	return id
}

func signed(at time.Time) *domain.SignatureRecord {
	return &domain.SignatureRecord{Name: "x", SignedAt: at}
}

func TestDashboard_Counts(t *testing.T) {
	env := newDashboardEnv(t)
	at := env.today

	// In good standing, fully signed, supervision far out.
	env.seed(t, &domain.Delegation{
		Status:             domain.DelegationActive,
		EndDate:            dateutil.Date(2024, 6, 1),
		SupervisionDueDate: dateutil.Date(2024, 5, 1),
		RNSignature:        signed(at),
		MTSignature:        signed(at),
	})
	// Due soon, unsigned, supervision due this week.
	env.seed(t, &domain.Delegation{
		Status:             domain.DelegationActive,
		EndDate:            dateutil.Date(2024, 1, 10),
		SupervisionDueDate: dateutil.Date(2024, 1, 5),
	})
	// Overdue, RN signature only.
	env.seed(t, &domain.Delegation{
		Status:             domain.DelegationActive,
		EndDate:            dateutil.Date(2023, 12, 20),
		SupervisionDueDate: dateutil.Date(2024, 4, 1),
		RNSignature:        signed(at),
	})
	// Rescinded: counted once, contributes to no active bucket.
	env.seed(t, &domain.Delegation{
		Status:  domain.DelegationRescinded,
		EndDate: dateutil.Date(2023, 12, 1),
	})

	counts, err := env.svc.Dashboard(context.Background(), DashboardRequest{})
	require.NoError(t, err)

	assert.Equal(t, 3, counts.Active)
	assert.Equal(t, 1, counts.DueSoon)
	assert.Equal(t, 1, counts.Overdue)
	assert.Equal(t, 1, counts.SupervisionDue)
	assert.Equal(t, 2, counts.Unsigned)
	assert.Equal(t, 1, counts.Rescinded)
	assert.Equal(t, 4, counts.Total)
}

func TestDashboard_FiltersByCommunity(t *testing.T) {
	env := newDashboardEnv(t)
	env.seed(t, &domain.Delegation{
		CommunityID: "c1",
		Status:      domain.DelegationActive,
		EndDate:     dateutil.Date(2024, 6, 1),
	})
	env.seed(t, &domain.Delegation{
		CommunityID: "c2",
		Status:      domain.DelegationActive,
		EndDate:     dateutil.Date(2024, 6, 1),
	})

	counts, err := env.svc.Dashboard(context.Background(), DashboardRequest{CommunityID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Total)
}

func TestDashboard_QueryMatchesParticipantNames(t *testing.T) {
	env := newDashboardEnv(t)
	ctx := context.Background()

	residentID, err := env.residents.CreateResident(ctx, &domain.Resident{Name: "Dorothy Hale"})
	require.NoError(t, err)
	medTechID, err := env.medTechs.CreateMedTech(ctx, &domain.MedTech{Name: "Jamie Reyes"})
	require.NoError(t, err)

	env.seed(t, &domain.Delegation{
		ResidentID: residentID,
		MedTechID:  medTechID,
		Status:     domain.DelegationActive,
		EndDate:    dateutil.Date(2024, 6, 1),
	})
	env.seed(t, &domain.Delegation{
		ResidentID: "someone-else",
		MedTechID:  "other-medtech",
		Status:     domain.DelegationActive,
		EndDate:    dateutil.Date(2024, 6, 1),
	})

	byResident, err := env.svc.Dashboard(ctx, DashboardRequest{Query: "dorothy"})
	require.NoError(t, err)
	assert.Equal(t, 1, byResident.Total)

	byMedTech, err := env.svc.Dashboard(ctx, DashboardRequest{Query: "reyes"})
	require.NoError(t, err)
	assert.Equal(t, 1, byMedTech.Total)

	none, err := env.svc.Dashboard(ctx, DashboardRequest{Query: "nobody"})
	require.NoError(t, err)
	assert.Equal(t, 0, none.Total, "a query that matches no names matches no delegations")
}

func TestResolveNameQuery_WalksAllPages(t *testing.T) {
	residents := repository.NewMemoryResidentsRepo()
	medTechs := repository.NewMemoryMedTechsRepo()
	ctx := context.Background()

	// More matches than one directory page holds.
	count := resolvePageSize + 7
	for i := 0; i < count; i++ {
		_, err := residents.CreateResident(ctx, &domain.Resident{Name: fmt.Sprintf("Resident %04d", i)})
		require.NoError(t, err)
	}
	_, err := medTechs.CreateMedTech(ctx, &domain.MedTech{Name: "Resident Aide"})
	require.NoError(t, err)

	residentIDs, medTechIDs, err := resolveNameQuery(ctx, residents, medTechs, "", "resident")
	require.NoError(t, err)
	assert.Len(t, residentIDs, count)
	assert.Len(t, medTechIDs, 1)
}

func TestDashboard_OverdueStillCountedActive(t *testing.T) {
	env := newDashboardEnv(t)
	env.seed(t, &domain.Delegation{
		Status:  domain.DelegationActive,
		EndDate: dateutil.Date(2023, 11, 1),
	})

	counts, err := env.svc.Dashboard(context.Background(), DashboardRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Active, "overdue is a derived condition of an active record")
	assert.Equal(t, 1, counts.Overdue)
}
