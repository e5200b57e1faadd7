package httpadapter

import (
	"net/http"
	"strings"
	"time"

	"github.com/rfp-optimize/platform/internal/core/usecase"
)

func (rt *Router) listActiveDemoCenters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	centers, err := rt.demos.ListCenters(r.Context(), true)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, centers)
}

func (rt *Router) demoRequestCollection(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())

	switch r.Method {
	case http.MethodGet:
		requests, err := rt.demos.ListRequestsByUser(r.Context(), identity.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, requests)
	case http.MethodPost:
		var req struct {
			RFPID               string     `json:"rfp_id"`
			PreferredLocation   string     `json:"preferred_location"`
			PreferredDate       *time.Time `json:"preferred_date"`
			SpecialRequirements string     `json:"special_requirements"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}

		demo, err := rt.demo.Request(r.Context(), usecase.RequestDemoInput{
			UserID:              identity.UserID,
			RFPID:               req.RFPID,
			PreferredLocation:   req.PreferredLocation,
			PreferredDate:       req.PreferredDate,
			SpecialRequirements: req.SpecialRequirements,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, demo)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) demoRequestItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/demo-requests/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || action != "decision" {
		writeJSON(w, http.StatusNotFound, errorBody("unknown demo request action"))
		return
	}
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}

	identity := identityFromContext(r.Context())

	var req struct {
		ClientFeedback string `json:"client_feedback"`
		FinalDecision  string `json:"final_decision"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	demo, err := rt.demo.Complete(r.Context(), usecase.CompleteDemoInput{
		RequestID:      id,
		UserID:         identity.UserID,
		ClientFeedback: req.ClientFeedback,
		FinalDecision:  req.FinalDecision,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, demo)
}
