package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/GotYourSixConsulting/delegations/internal/domain"
	"github.com/GotYourSixConsulting/delegations/internal/repository"
	"github.com/GotYourSixConsulting/delegations/internal/service"
)

// MedTechHandler delegate records, training and the transcript report.
type MedTechHandler struct {
	medTechs repository.MedTechsRepository
	training service.MedTechService
	packets  service.PacketService
	pageSize int
	logger   *zap.Logger
}

func NewMedTechHandler(
	medTechs repository.MedTechsRepository,
	training service.MedTechService,
	packets service.PacketService,
	pageSize int,
	logger *zap.Logger,
) *MedTechHandler {
	return &MedTechHandler{
		medTechs: medTechs,
		training: training,
		packets:  packets,
		pageSize: pageSize,
		logger:   logger,
	}
}

type createMedTechBody struct {
	CommunityID string                   `json:"community_id"`
	Name        string                   `json:"name"`
	Credential  string                   `json:"credential"`
	Profile     domain.DelegationProfile `json:"profile"`
}

func (h *MedTechHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createMedTechBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if body.Name == "" {
		writeJSON(w, http.StatusOK, Fail("med tech name is required"))
		return
	}

	medTech := &domain.MedTech{
		CommunityID: body.CommunityID,
		Name:        body.Name,
		Credential:  body.Credential,
		Profile:     body.Profile,
	}
	id, err := h.medTechs.CreateMedTech(r.Context(), medTech)
	if err != nil {
		writeError(w, err)
		return
	}
	medTech.MedTechID = id
	writeJSON(w, http.StatusOK, Ok(medTech))
}

func (h *MedTechHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	medTechs, total, err := h.medTechs.ListMedTechs(r.Context(), repository.MedTechFilters{
		CommunityID: q.Get("community_id"),
		Search:      q.Get("search"),
	}, parseInt(q.Get("page"), 1), parseInt(q.Get("size"), h.pageSize))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"items": medTechs,
		"total": total,
	}))
}

func (h *MedTechHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	medTech, err := h.medTechs.GetMedTech(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(medTech))
}

type addTrainingBody struct {
	Date       string  `json:"date"`
	Course     string  `json:"course"`
	Instructor string  `json:"instructor"`
	Method     string  `json:"method"`
	Hours      float64 `json:"hours"`
}

func (h *MedTechHandler) AddTraining(w http.ResponseWriter, r *http.Request, id string) {
	var body addTrainingBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	date, err := parseDate(body.Date)
	if err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid date, expected YYYY-MM-DD"))
		return
	}

	record, violations, err := h.training.AddTrainingRecord(r.Context(), service.AddTrainingRecordRequest{
		MedTechID:  id,
		Date:       date,
		Course:     body.Course,
		Instructor: body.Instructor,
		Method:     body.Method,
		Hours:      body.Hours,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if len(violations) > 0 {
		writeViolations(w, violations)
		return
	}
	writeJSON(w, http.StatusOK, Ok(record))
}

func (h *MedTechHandler) Transcript(w http.ResponseWriter, r *http.Request, id string) {
	doc, err := h.packets.BuildTrainingTranscript(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(doc))
}
