package httpadapter

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rfp-optimize/platform/internal/core/domain"
	"github.com/rfp-optimize/platform/internal/core/usecase"
)

func (rt *Router) rfpCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.submitRFP(w, r)
	case http.MethodGet:
		rt.listRFPs(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) submitRFP(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	input, file, ok := rt.readSubmission(w, r)
	if !ok {
		return
	}
	if file != nil {
		defer file.Close()
	}
	input.UserID = identity.UserID

	rfp, err := rt.submit.Execute(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordSubmission(rt.service, rfp.AttachmentPath != "")
	}
	writeJSON(w, http.StatusCreated, rfp)
}

// readSubmission accepts either a multipart form with an optional
// "attachment" file part or a plain JSON body.
func (rt *Router) readSubmission(w http.ResponseWriter, r *http.Request) (usecase.SubmitRFPInput, multipart.File, bool) {
	var input usecase.SubmitRFPInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid multipart form"))
			return input, nil, false
		}

		input.Title = r.FormValue("title")
		input.Description = r.FormValue("description")
		input.ProjectType = r.FormValue("project_type")

		if raw := strings.TrimSpace(r.FormValue("approximate_budget")); raw != "" {
			budget, err := decimal.NewFromString(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody("approximate_budget must be a number"))
				return input, nil, false
			}
			input.Budget = budget
		}
		if raw := strings.TrimSpace(r.FormValue("due_date")); raw != "" {
			due, err := parseDate(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, errorBody("due_date must be RFC3339 or YYYY-MM-DD"))
				return input, nil, false
			}
			input.DueDate = &due
		}

		file, header, err := r.FormFile("attachment")
		if err == nil {
			input.AttachmentName = header.Filename
			input.Attachment = file
			return input, file, true
		}
		return input, nil, true
	}

	var req struct {
		Title       string          `json:"title"`
		Description string          `json:"description"`
		ProjectType string          `json:"project_type"`
		Budget      decimal.Decimal `json:"approximate_budget"`
		DueDate     *time.Time      `json:"due_date"`
	}
	if !decodeJSON(w, r, &req) {
		return input, nil, false
	}
	input.Title = req.Title
	input.Description = req.Description
	input.ProjectType = req.ProjectType
	input.Budget = req.Budget
	input.DueDate = req.DueDate
	return input, nil, true
}

func (rt *Router) listRFPs(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	rfps, err := rt.rfps.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rfps)
}

func (rt *Router) rfpItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/rfps/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("rfp id is required"))
		return
	}

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			rt.getRFP(w, r, id)
		case http.MethodPut:
			rt.updateRFP(w, r, id)
		default:
			methodNotAllowed(w)
		}
	case "analyze":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		rt.requestAnalysis(w, r, id)
	case "request-demo":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		rt.requestDemoForRFP(w, r, id)
	default:
		writeJSON(w, http.StatusNotFound, errorBody("unknown rfp action"))
	}
}

func (rt *Router) getRFP(w http.ResponseWriter, r *http.Request, id string) {
	rfp, err := rt.loadVisibleRFP(r, id)
	if err != nil {
		writeError(w, err)
		return
	}

	if rt.metrics != nil && rfp.Analysis != nil {
		rt.metrics.RecordRecommendation(rt.service, rfp.Analysis.Recommendation)
	}
	writeJSON(w, http.StatusOK, rfp)
}

func (rt *Router) updateRFP(w http.ResponseWriter, r *http.Request, id string) {
	identity := identityFromContext(r.Context())

	var req struct {
		Title       *string          `json:"title"`
		Description *string          `json:"description"`
		ProjectType *string          `json:"project_type"`
		Budget      *decimal.Decimal `json:"approximate_budget"`
		DueDate     *time.Time       `json:"due_date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	rfp, err := rt.rfps.GetOwned(r.Context(), id, identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Title != nil {
		rfp.Title = *req.Title
	}
	if req.Description != nil {
		rfp.Description = *req.Description
	}
	if req.ProjectType != nil {
		rfp.ProjectType = *req.ProjectType
	}
	if req.Budget != nil {
		rfp.Budget = *req.Budget
	}
	if req.DueDate != nil {
		rfp.DueDate = req.DueDate
	}
	rfp.UpdatedAt = time.Now().UTC()

	if err := rt.rfps.Update(r.Context(), rfp); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rfp)
}

// requestAnalysis marks the RFP pending and enqueues it. A queue outage is
// not surfaced to the client: the sweep picks pending RFPs up later.
func (rt *Router) requestAnalysis(w http.ResponseWriter, r *http.Request, id string) {
	rfp, err := rt.loadVisibleRFP(r, id)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := rt.rfps.UpdateAgentStatus(r.Context(), rfp.ID, domain.AgentStatusPending); err != nil {
		writeError(w, err)
		return
	}
	if err := rt.queue.PublishAnalysisRequested(r.Context(), rfp.ID); err != nil {
		slog.Warn("analysis_enqueue_failed", "rfp_id", rfp.ID, "error", err)
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"rfp_id": rfp.ID,
		"status": string(domain.AgentStatusPending),
	})
}

func (rt *Router) requestDemoForRFP(w http.ResponseWriter, r *http.Request, id string) {
	identity := identityFromContext(r.Context())

	var req struct {
		PreferredLocation   string     `json:"preferred_location"`
		PreferredDate       *time.Time `json:"preferred_date"`
		SpecialRequirements string     `json:"special_requirements"`
	}
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}

	demo, err := rt.demo.Request(r.Context(), usecase.RequestDemoInput{
		UserID:              identity.UserID,
		RFPID:               id,
		PreferredLocation:   req.PreferredLocation,
		PreferredDate:       req.PreferredDate,
		SpecialRequirements: req.SpecialRequirements,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, demo)
}

// loadVisibleRFP enforces ownership for clients; admins see every RFP.
func (rt *Router) loadVisibleRFP(r *http.Request, id string) (*domain.RFP, error) {
	identity := identityFromContext(r.Context())
	if identity.Role == domain.RoleAdmin {
		return rt.rfps.GetByID(r.Context(), id)
	}
	return rt.rfps.GetOwned(r.Context(), id, identity.UserID)
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
