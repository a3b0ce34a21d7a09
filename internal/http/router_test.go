package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/GotYourSixConsulting/delegations/internal/dateutil"
	"github.com/GotYourSixConsulting/delegations/internal/domain"
	"github.com/GotYourSixConsulting/delegations/internal/repository"
	"github.com/GotYourSixConsulting/delegations/internal/service"
)

type apiEnv struct {
	router     *Router
	residentID string
	medTechID  string
}

type testClock struct {
	today time.Time
}

func (c testClock) Today() time.Time { return c.today }

// newAPIEnv wires the full stack against memory stores, the way main does.
func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	ctx := context.Background()
	log := zap.NewNop()

	communities := repository.NewMemoryCommunitiesRepo()
	residents := repository.NewMemoryResidentsRepo()
	medTechs := repository.NewMemoryMedTechsRepo()
	delegations := repository.NewMemoryDelegationsRepo()
	tasks := repository.NewMemoryTasksRepo(repository.DefaultTaskCatalog())

	communityID, err := communities.CreateCommunity(ctx, &domain.Community{Name: "Willow Creek", RNName: "Pat Morgan"})
	require.NoError(t, err)
	residentID, err := residents.CreateResident(ctx, &domain.Resident{CommunityID: communityID, Name: "Dorothy Hale"})
	require.NoError(t, err)
	medTechID, err := medTechs.CreateMedTech(ctx, &domain.MedTech{CommunityID: communityID, Name: "Jamie Reyes"})
	require.NoError(t, err)

	clock := testClock{today: dateutil.Date(2024, 1, 1)}
	delegationSvc := service.NewDelegationService(delegations, residents, medTechs, communities, tasks, clock, log)
	assessmentSvc := service.NewAssessmentService(residents, clock, log)
	medTechSvc := service.NewMedTechService(medTechs, log)
	reportSvc := service.NewReportService(delegations, residents, medTechs, clock, log)
	packetSvc := service.NewPacketService(delegations, residents, medTechs, communities, tasks, clock, log)

	router := NewRouter(log)
	router.RegisterDelegationRoutes(NewDelegationHandler(delegationSvc, reportSvc, packetSvc, tasks, 50, log))
	router.RegisterResidentRoutes(NewResidentHandler(residents, assessmentSvc, packetSvc, 50, log))
	router.RegisterMedTechRoutes(NewMedTechHandler(medTechs, medTechSvc, packetSvc, 50, log))
	router.RegisterCommunityRoutes(NewCommunityHandler(communities, log))

	return &apiEnv{router: router, residentID: residentID, medTechID: medTechID}
}

func (e *apiEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (int, string, json.RawMessage) {
	t.Helper()
	var envelope struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Result  json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Code, envelope.Message, envelope.Result
}

func validCreateBody(e *apiEnv) map[string]any {
	return map[string]any{
		"resident_id": e.residentID,
		"medtech_id":  e.medTechID,
		"task_ids":    []string{"insulin-administration"},
		"auth_days":   90,
		"checklist": map[string]bool{
			"stable_condition":     true,
			"safe_environment":     true,
			"uap_skill":            true,
			"uap_willing":          true,
			"rn_available":         true,
			"written_instructions": true,
			"non_transferable":     true,
		},
		"justification": map[string]string{
			"rn_relationship":      "18 months",
			"training_method":      "Side-by-side",
			"experience_community": "12 months",
			"experience_career":    "3 years",
			"resident_knowledge":   "Daily caregiver",
			"willingness":          "Willing",
		},
	}
}

func createDelegation(t *testing.T, e *apiEnv) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/delegations/api/v1/delegations", validCreateBody(e))
	require.Equal(t, http.StatusOK, rec.Code)
	code, msg, result := decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code, msg)

	var created []struct {
		DelegationID string `json:"delegation_id"`
	}
	require.NoError(t, json.Unmarshal(result, &created))
	require.Len(t, created, 1)
	return created[0].DelegationID
}

func TestCreateDelegation_SuccessEnvelope(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/delegations/api/v1/delegations", validCreateBody(env))
	assert.Equal(t, http.StatusOK, rec.Code)

	code, msg, result := decodeEnvelope(t, rec)
	assert.Equal(t, ResultSuccess, code)
	assert.Equal(t, "ok", msg)

	var created []struct {
		Status    string `json:"status"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	require.NoError(t, json.Unmarshal(result, &created))
	require.Len(t, created, 1)
	assert.Equal(t, "active", created[0].Status)
	assert.True(t, strings.HasPrefix(created[0].StartDate, "2024-01-01"))
	assert.True(t, strings.HasPrefix(created[0].EndDate, "2024-03-31"))
}

func TestCreateDelegation_ViolationsInEnvelope(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/delegations/api/v1/delegations", map[string]any{})
	assert.Equal(t, http.StatusOK, rec.Code, "business failures never use transport-level status codes")

	code, msg, _ := decodeEnvelope(t, rec)
	assert.Equal(t, ResultError, code)
	assert.Contains(t, msg, "resident is required")
	assert.Contains(t, msg, "at least one task is required")
	assert.Contains(t, msg, "; ")
}

func TestDelegationLifecycleOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	id := createDelegation(t, env)

	rec := env.do(t, http.MethodPost, fmt.Sprintf("/delegations/api/v1/delegations/%s/reauthorize", id),
		map[string]any{"new_auth_days": 60, "criteria_unchanged": true})
	code, msg, _ := decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code, msg)

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/delegations/api/v1/delegations/%s/supervision", id),
		map[string]any{"observation_methods": []string{"direct observation"}})
	code, msg, _ = decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code, msg)

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/delegations/api/v1/delegations/%s/signatures", id),
		map[string]any{"rn_name": "Pat Morgan", "mt_name": "Jamie Reyes"})
	code, msg, _ = decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code, msg)

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/delegations/api/v1/delegations/%s/rescind", id),
		map[string]any{"reason": "Resident moved out"})
	code, msg, _ = decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code, msg)

	// Terminal state: further mutations fail in the envelope, still HTTP 200.
	rec = env.do(t, http.MethodPost, fmt.Sprintf("/delegations/api/v1/delegations/%s/rescind", id),
		map[string]any{"reason": "again"})
	assert.Equal(t, http.StatusOK, rec.Code)
	code, msg, _ = decodeEnvelope(t, rec)
	assert.Equal(t, ResultError, code)
	assert.Equal(t, "delegation is rescinded and can no longer change", msg)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/delegations/api/v1/delegations/%s", id), nil)
	code, _, result := decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code)
	var view struct {
		Status        string `json:"status"`
		DerivedStatus string `json:"derived_status"`
		Audit         []struct {
			Action string `json:"action"`
		} `json:"audit"`
	}
	require.NoError(t, json.Unmarshal(result, &view))
	assert.Equal(t, "rescinded", view.Status)
	assert.Equal(t, "rescinded", view.DerivedStatus)
	require.Len(t, view.Audit, 5)
	assert.Equal(t, "RESCINDED", view.Audit[4].Action)
}

func TestGetDelegation_NotFound(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodGet, "/delegations/api/v1/delegations/missing", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	code, msg, _ := decodeEnvelope(t, rec)
	assert.Equal(t, ResultError, code)
	assert.Equal(t, "record not found", msg)
}

func TestMethodGuards(t *testing.T) {
	env := newAPIEnv(t)
	id := createDelegation(t, env)

	cases := []struct {
		method, path string
	}{
		{http.MethodDelete, "/delegations/api/v1/delegations"},
		{http.MethodGet, fmt.Sprintf("/delegations/api/v1/delegations/%s/rescind", id)},
		{http.MethodPost, "/delegations/api/v1/dashboard"},
		{http.MethodPost, "/delegations/api/v1/tasks"},
		{http.MethodDelete, "/delegations/api/v1/residents"},
		{http.MethodDelete, "/delegations/api/v1/medtechs"},
	}
	for _, c := range cases {
		rec := env.do(t, c.method, c.path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", c.method, c.path)
	}

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/delegations/api/v1/delegations/%s/unknown-action", id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	createDelegation(t, env)

	rec := env.do(t, http.MethodGet, "/delegations/api/v1/dashboard", nil)
	code, _, result := decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code)

	var counts struct {
		Active   int `json:"active"`
		Unsigned int `json:"unsigned"`
		Total    int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(result, &counts))
	assert.Equal(t, 1, counts.Active)
	assert.Equal(t, 1, counts.Unsigned)
	assert.Equal(t, 1, counts.Total)
}

func TestListDelegations_SearchParam(t *testing.T) {
	env := newAPIEnv(t)
	createDelegation(t, env)

	rec := env.do(t, http.MethodGet, "/delegations/api/v1/delegations?search=dorothy", nil)
	code, _, result := decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code)
	var listing struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(result, &listing))
	assert.Equal(t, 1, listing.Total)

	rec = env.do(t, http.MethodGet, "/delegations/api/v1/delegations?search=nobody", nil)
	_, _, result = decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(result, &listing))
	assert.Equal(t, 0, listing.Total)
}

func TestAssessmentEndpoints(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, fmt.Sprintf("/delegations/api/v1/residents/%s/assessments", env.residentID),
		map[string]any{"date": "2024-01-01", "type": "Quarterly", "stable": true, "narrative": "Condition stable."})
	code, msg, _ := decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code, msg)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/delegations/api/v1/residents/%s", env.residentID), nil)
	code, _, result := decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code)
	var view struct {
		AssessmentDueStatus string `json:"assessment_due_status"`
	}
	require.NoError(t, json.Unmarshal(result, &view))
	assert.Equal(t, "current", view.AssessmentDueStatus)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/delegations/api/v1/residents/%s/assessment-report", env.residentID), nil)
	code, msg, result = decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code, msg)
	var doc struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(result, &doc))
	assert.Equal(t, "Resident Stability Assessment", doc.Title)

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/delegations/api/v1/residents/%s/assessments", env.residentID),
		map[string]any{"date": "not-a-date", "type": "Quarterly", "narrative": "x"})
	code, msg, _ = decodeEnvelope(t, rec)
	assert.Equal(t, ResultError, code)
	assert.Equal(t, "invalid date, expected YYYY-MM-DD", msg)
}

func TestTrainingEndpoints(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, fmt.Sprintf("/delegations/api/v1/medtechs/%s/training", env.medTechID),
		map[string]any{"date": "2024-01-10", "course": "Insulin Refresher", "instructor": "Pat Morgan", "method": "In person", "hours": 1.5})
	code, msg, _ := decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code, msg)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/delegations/api/v1/medtechs/%s/transcript", env.medTechID), nil)
	code, msg, result := decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code, msg)
	var doc struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(result, &doc))
	assert.Equal(t, "Training Transcript", doc.Title)
}

func TestPacketEndpoint(t *testing.T) {
	env := newAPIEnv(t)
	id := createDelegation(t, env)

	rec := env.do(t, http.MethodGet, fmt.Sprintf("/delegations/api/v1/delegations/%s/packet", id), nil)
	code, msg, result := decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code, msg)

	var doc struct {
		Title    string `json:"title"`
		Sections []struct {
			Heading string `json:"heading"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(result, &doc))
	assert.Equal(t, "Nurse Delegation Packet", doc.Title)

	var headings []string
	for _, s := range doc.Sections {
		headings = append(headings, s.Heading)
	}
	assert.Contains(t, headings, "Delegation Summary")
	assert.Contains(t, headings, "Audit Trail")
}

func TestConfiguredPageSizeAppliesWhenUnspecified(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()
	residents := repository.NewMemoryResidentsRepo()
	for _, name := range []string{"Dorothy Hale", "Albert Finch", "Dora Quinn"} {
		_, err := residents.CreateResident(ctx, &domain.Resident{Name: name})
		require.NoError(t, err)
	}

	clock := testClock{today: dateutil.Date(2024, 1, 1)}
	assessmentSvc := service.NewAssessmentService(residents, clock, log)
	packetSvc := service.NewPacketService(repository.NewMemoryDelegationsRepo(), residents,
		repository.NewMemoryMedTechsRepo(), repository.NewMemoryCommunitiesRepo(),
		repository.NewMemoryTasksRepo(nil), clock, log)

	router := NewRouter(log)
	router.RegisterResidentRoutes(NewResidentHandler(residents, assessmentSvc, packetSvc, 2, log))

	req := httptest.NewRequest(http.MethodGet, "/delegations/api/v1/residents", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	code, _, result := decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code)
	var listing struct {
		Items []json.RawMessage `json:"items"`
		Total int               `json:"total"`
	}
	require.NoError(t, json.Unmarshal(result, &listing))
	assert.Equal(t, 3, listing.Total)
	assert.Len(t, listing.Items, 2, "configured page size caps the default window")

	// An explicit size param still wins.
	req = httptest.NewRequest(http.MethodGet, "/delegations/api/v1/residents?size=3", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	_, _, result = decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(result, &listing))
	assert.Len(t, listing.Items, 3)
}

func TestCommunityEndpoints(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/delegations/api/v1/communities",
		map[string]any{"name": "Cedar Grove", "rn_name": "Alex Kim"})
	code, msg, _ := decodeEnvelope(t, rec)
	require.Equal(t, ResultSuccess, code, msg)

	rec = env.do(t, http.MethodPost, "/delegations/api/v1/communities", map[string]any{"name": "No RN"})
	code, msg, _ = decodeEnvelope(t, rec)
	assert.Equal(t, ResultError, code)
	assert.Equal(t, "designated RN name is required", msg)
}
