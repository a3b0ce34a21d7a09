package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/GotYourSixConsulting/delegations/internal/domain"
	"github.com/GotYourSixConsulting/delegations/internal/repository"
	"github.com/GotYourSixConsulting/delegations/internal/service"
)

// DelegationHandler lifecycle, dashboard and packet endpoints.
type DelegationHandler struct {
	delegations service.DelegationService
	reports     service.ReportService
	packets     service.PacketService
	tasks       repository.TasksRepository
	pageSize    int
	logger      *zap.Logger
}

func NewDelegationHandler(
	delegations service.DelegationService,
	reports service.ReportService,
	packets service.PacketService,
	tasks repository.TasksRepository,
	pageSize int,
	logger *zap.Logger,
) *DelegationHandler {
	return &DelegationHandler{
		delegations: delegations,
		reports:     reports,
		packets:     packets,
		tasks:       tasks,
		pageSize:    pageSize,
		logger:      logger,
	}
}

// writeError maps service errors onto the envelope. Business rejections stay
// HTTP 200 (the envelope carries the failure); only unexpected errors 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrDelegationRescinded):
		writeJSON(w, http.StatusOK, Fail("delegation is rescinded and can no longer change"))
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusOK, Fail("record not found"))
	default:
		writeJSON(w, http.StatusInternalServerError, Fail(fmt.Sprintf("internal error: %v", err)))
	}
}

func writeViolations(w http.ResponseWriter, violations []string) {
	writeJSON(w, http.StatusOK, Fail(strings.Join(violations, "; ")))
}

type createDelegationBody struct {
	ResidentID        string                     `json:"resident_id"`
	MedTechID         string                     `json:"medtech_id"`
	TaskIDs           []string                   `json:"task_ids"`
	AuthDays          int                        `json:"auth_days"`
	Checklist         domain.Checklist           `json:"checklist"`
	CompetencyMethods domain.CompetencyMethods   `json:"competency_methods"`
	Justification     domain.JustificationFields `json:"justification"`
}

func (h *DelegationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createDelegationBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}

	created, violations, err := h.delegations.Create(r.Context(), service.CreateDelegationRequest{
		ResidentID:        body.ResidentID,
		MedTechID:         body.MedTechID,
		TaskIDs:           body.TaskIDs,
		AuthDaysRequested: body.AuthDays,
		Checklist:         body.Checklist,
		CompetencyMethods: body.CompetencyMethods,
		Justification:     body.Justification,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if len(violations) > 0 {
		writeViolations(w, violations)
		return
	}
	writeJSON(w, http.StatusOK, Ok(created))
}

func (h *DelegationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	views, total, err := h.delegations.List(r.Context(), service.ListDelegationsRequest{
		CommunityID: q.Get("community_id"),
		ResidentID:  q.Get("resident_id"),
		MedTechID:   q.Get("medtech_id"),
		Status:      q.Get("status"),
		Query:       q.Get("search"),
		Page:        parseInt(q.Get("page"), 1),
		PageSize:    parseInt(q.Get("size"), h.pageSize),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"items": views,
		"total": total,
	}))
}

func (h *DelegationHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	view, err := h.delegations.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(view))
}

type reauthorizeBody struct {
	NewAuthDays       int                        `json:"new_auth_days"`
	CriteriaUnchanged bool                       `json:"criteria_unchanged"`
	Justification     domain.JustificationFields `json:"justification"`
}

func (h *DelegationHandler) Reauthorize(w http.ResponseWriter, r *http.Request, id string) {
	var body reauthorizeBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}

	d, violations, err := h.delegations.Reauthorize(r.Context(), service.ReauthorizeRequest{
		DelegationID:      id,
		NewAuthDays:       body.NewAuthDays,
		CriteriaUnchanged: body.CriteriaUnchanged,
		Justification:     body.Justification,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if len(violations) > 0 {
		writeViolations(w, violations)
		return
	}
	writeJSON(w, http.StatusOK, Ok(d))
}

type rescindBody struct {
	Reason string `json:"reason"`
}

func (h *DelegationHandler) Rescind(w http.ResponseWriter, r *http.Request, id string) {
	var body rescindBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}

	d, violations, err := h.delegations.Rescind(r.Context(), id, body.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(violations) > 0 {
		writeViolations(w, violations)
		return
	}
	writeJSON(w, http.StatusOK, Ok(d))
}

type supervisionBody struct {
	ObservationMethods []string `json:"observation_methods"`
}

func (h *DelegationHandler) LogSupervision(w http.ResponseWriter, r *http.Request, id string) {
	var body supervisionBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}

	d, err := h.delegations.LogSupervision(r.Context(), service.LogSupervisionRequest{
		DelegationID:       id,
		ObservationMethods: body.ObservationMethods,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(d))
}

type signaturesBody struct {
	RNName  string `json:"rn_name"`
	RNImage []byte `json:"rn_image"`
	MTName  string `json:"mt_name"`
	MTImage []byte `json:"mt_image"`
}

func (h *DelegationHandler) RecordSignatures(w http.ResponseWriter, r *http.Request, id string) {
	var body signaturesBody
	if err := readBodyJSON(r, 4<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}

	d, err := h.delegations.RecordSignatures(r.Context(), service.RecordSignaturesRequest{
		DelegationID: id,
		RNName:       body.RNName,
		RNImage:      body.RNImage,
		MTName:       body.MTName,
		MTImage:      body.MTImage,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(d))
}

func (h *DelegationHandler) Packet(w http.ResponseWriter, r *http.Request, id string) {
	doc, err := h.packets.BuildDelegationPacket(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(doc))
}

func (h *DelegationHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	counts, err := h.reports.Dashboard(r.Context(), service.DashboardRequest{
		CommunityID: q.Get("community_id"),
		Query:       q.Get("search"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(counts))
}

func (h *DelegationHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListTasks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(tasks))
}
