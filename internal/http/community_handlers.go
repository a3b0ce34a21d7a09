package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/GotYourSixConsulting/delegations/internal/domain"
	"github.com/GotYourSixConsulting/delegations/internal/repository"
)

// CommunityHandler facility records.
type CommunityHandler struct {
	communities repository.CommunitiesRepository
	logger      *zap.Logger
}

func NewCommunityHandler(communities repository.CommunitiesRepository, logger *zap.Logger) *CommunityHandler {
	return &CommunityHandler{communities: communities, logger: logger}
}

type createCommunityBody struct {
	Name       string `json:"name"`
	RNName     string `json:"rn_name"`
	RNPhone    string `json:"rn_phone"`
	RNEmail    string `json:"rn_email"`
	AdminName  string `json:"admin_name"`
	AdminPhone string `json:"admin_phone"`
}

func (h *CommunityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body createCommunityBody
	if err := readBodyJSON(r, 1<<20, &body); err != nil {
		writeJSON(w, http.StatusOK, Fail("invalid body"))
		return
	}
	if body.Name == "" {
		writeJSON(w, http.StatusOK, Fail("community name is required"))
		return
	}
	if body.RNName == "" {
		writeJSON(w, http.StatusOK, Fail("designated RN name is required"))
		return
	}

	community := &domain.Community{
		Name:       body.Name,
		RNName:     body.RNName,
		RNPhone:    body.RNPhone,
		RNEmail:    body.RNEmail,
		AdminName:  body.AdminName,
		AdminPhone: body.AdminPhone,
	}
	id, err := h.communities.CreateCommunity(r.Context(), community)
	if err != nil {
		writeError(w, err)
		return
	}
	community.CommunityID = id
	writeJSON(w, http.StatusOK, Ok(community))
}

func (h *CommunityHandler) List(w http.ResponseWriter, r *http.Request) {
	communities, err := h.communities.ListCommunities(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(communities))
}
