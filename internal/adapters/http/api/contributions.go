// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/okian/aporte/internal/domain/model"
)

// ContributionsHandler handles contribution ingestion requests.
type ContributionsHandler struct {
	deps Dependencies
}

// NewContributionsHandler creates a new contributions handler.
func NewContributionsHandler(deps Dependencies) *ContributionsHandler {
	return &ContributionsHandler{deps: deps}
}

// contributionRequest mirrors the inbound contribution event.
type contributionRequest struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"name"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

func (c contributionRequest) validate() error {
	switch {
	case c.UserID == 0:
		return NewKind("api.post_contribution", ErrBadRequest)
	case trimmed(c.DisplayName):
		return NewKind("api.post_contribution", ErrBadRequest)
	}
	// Zero or negative dimensions are tolerated: the scoring policy
	// normalizes them to the base award.
	return nil
}

// contributionResponse acknowledges a recorded contribution.
type contributionResponse struct {
	ContributionID string `json:"contribution_id"`
	Awarded        int    `json:"awarded"`
	Total          int    `json:"total"`
}

// HandlePostContribution handles POST /contributions requests.
func (h *ContributionsHandler) HandlePostContribution(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_contribution"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req contributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	c := model.Contribution{
		ID:          uuid.NewString(),
		UserID:      model.UserID(req.UserID),
		DisplayName: req.DisplayName,
		Width:       req.Width,
		Height:      req.Height,
		TS:          time.Now().UTC(),
	}

	awarded, total, err := h.deps.RecordContribution(r.Context(), c)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusOK, contributionResponse{
		ContributionID: c.ID,
		Awarded:        awarded,
		Total:          total,
	})
}
