package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/GotYourSixConsulting/delegations/internal/domain"
	"github.com/GotYourSixConsulting/delegations/internal/repository"
	"github.com/GotYourSixConsulting/delegations/internal/service"
)

// ResidentHandler resident records, assessments and the assessment report.
type ResidentHandler struct {
	residents   repository.ResidentsRepository
	assessments service.AssessmentService
	packets     service.PacketService
	pageSize    int
	logger      *zap.Logger
}

func NewResidentHandler(
	residents repository.ResidentsRepository,
	assessments service.AssessmentService,
	packets service.PacketService,
	pageSize int,
	logger *zap.Logger,
) *ResidentHandler {
	return &ResidentHandler{
		residents:   residents,
		assessments: assessments,
		packets:     packets,
		pageSize:    pageSize,
		logger:      logger,
	}
}

type createResidentBody struct {
	CommunityID string `json:"community_id"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Diagnosis   string `json:"diagnosis"`
	MedRegimen  string `json:"med_regimen"`
}

func (h *ResidentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createResidentBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if body.Name == "" {
		writeJSON(w, http.StatusOK, Fail("resident name is required"))
		return
	}

	resident := &domain.Resident{
		CommunityID: body.CommunityID,
		Name:        body.Name,
		Unit:        body.Unit,
		Diagnosis:   body.Diagnosis,
		MedRegimen:  body.MedRegimen,
	}
	id, err := h.residents.CreateResident(r.Context(), resident)
	if err != nil {
		writeError(w, err)
		return
	}
	resident.ResidentID = id
	writeJSON(w, http.StatusOK, Ok(resident))
}

// residentView resident plus the derived assessment due status for list and
// detail pages.
type residentView struct {
	*domain.Resident
	AssessmentDueStatus string `json:"assessment_due_status"`
	AssessmentDaysLeft  int    `json:"assessment_days_left"`
}

func (h *ResidentHandler) view(resident *domain.Resident) *residentView {
	status, days := h.assessments.DueStatus(resident)
	return &residentView{Resident: resident, AssessmentDueStatus: status, AssessmentDaysLeft: days}
}

func (h *ResidentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	residents, total, err := h.residents.ListResidents(r.Context(), repository.ResidentFilters{
		CommunityID: q.Get("community_id"),
		Search:      q.Get("search"),
	}, parseInt(q.Get("page"), 1), parseInt(q.Get("size"), h.pageSize))
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]*residentView, 0, len(residents))
	for _, res := range residents {
		views = append(views, h.view(res))
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"items": views,
		"total": total,
	}))
}

func (h *ResidentHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	resident, err := h.residents.GetResident(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(h.view(resident)))
}

type logAssessmentBody struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Stable      bool   `json:"stable"`
	Narrative   string `json:"narrative"`
	NextDueDate string `json:"next_due_date"`
}

func (h *ResidentHandler) LogAssessment(w http.ResponseWriter, r *http.Request, id string) {
	var body logAssessmentBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}

	date, err := parseDate(body.Date)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid date, expected YYYY-MM-DD"))
		return
	}
	req := service.LogAssessmentRequest{
		ResidentID: id,
		Date:       date,
		Type:       body.Type,
		Stable:     body.Stable,
		Narrative:  body.Narrative,
	}
	if body.NextDueDate != "" {
		nextDue, err := parseDate(body.NextDueDate)
		if err != nil {
			writeJSON(w, http.StatusOK, Fail("invalid next_due_date, expected YYYY-MM-DD"))
			return
		}
		req.NextDueDate = &nextDue
	}

	assessment, violations, err := h.assessments.LogAssessment(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(violations) > 0 {
		writeViolations(w, violations)
		return
	}
	writeJSON(w, http.StatusOK, Ok(assessment))
}

func (h *ResidentHandler) AssessmentReport(w http.ResponseWriter, r *http.Request, id string) {
	doc, err := h.packets.BuildAssessmentReport(r.Context(), id, r.URL.Query().Get("assessment_id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(doc))
}
