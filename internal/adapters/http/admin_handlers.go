package httpadapter

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rfp-optimize/platform/internal/core/domain"
	"github.com/rfp-optimize/platform/internal/core/usecase"
	"github.com/rfp-optimize/platform/internal/infrastructure/catalog"
)

func (rt *Router) adminListRFPs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	rfps, err := rt.rfps.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rfps)
}

// adminStartAnalysis sweeps the pending backlog through the pipeline right
// now, independent of the sweep-job schedule.
func (rt *Router) adminStartAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	processed, err := rt.sweep.SweepNow(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"processed": processed})
}

func (rt *Router) adminRuleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rules, err := rt.rules.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rules)
	case http.MethodPost:
		var rule domain.QualificationRule
		if !decodeJSON(w, r, &rule) {
			return
		}
		if strings.TrimSpace(rule.Name) == "" {
			writeJSON(w, http.StatusBadRequest, errorBody("rule name is required"))
			return
		}
		rule.ID = uuid.NewString()
		rule.CreatedAt = time.Now().UTC()
		if err := rt.rules.Create(r.Context(), &rule); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, rule)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) adminRuleItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/admin/rules/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("rule id is required"))
		return
	}

	switch r.Method {
	case http.MethodPut:
		var rule domain.QualificationRule
		if !decodeJSON(w, r, &rule) {
			return
		}
		rule.ID = id
		if err := rt.rules.Update(r.Context(), &rule); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rule)
	case http.MethodDelete:
		if err := rt.rules.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) adminProductPriceCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		prices, err := rt.prices.ListProductPrices(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, prices)
	case http.MethodPost:
		var price domain.ProductPrice
		if !decodeJSON(w, r, &price) {
			return
		}
		if strings.TrimSpace(price.SKUID) == "" {
			writeJSON(w, http.StatusBadRequest, errorBody("sku_id is required"))
			return
		}
		if price.Currency == "" {
			price.Currency = "USD"
		}
		if err := rt.prices.UpsertProductPrice(r.Context(), &price); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, price)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) adminProductPriceItem(w http.ResponseWriter, r *http.Request) {
	skuID := strings.TrimPrefix(r.URL.Path, "/v1/admin/product-prices/")
	if skuID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("sku id is required"))
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}

	if err := rt.prices.DeleteProductPrice(r.Context(), skuID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (rt *Router) adminTestPriceCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		prices, err := rt.prices.ListTestPrices(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, prices)
	case http.MethodPost:
		var price domain.TestPrice
		if !decodeJSON(w, r, &price) {
			return
		}
		if strings.TrimSpace(price.TestCode) == "" {
			writeJSON(w, http.StatusBadRequest, errorBody("test_code is required"))
			return
		}
		if price.Currency == "" {
			price.Currency = "USD"
		}
		if err := rt.prices.UpsertTestPrice(r.Context(), &price); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, price)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) adminTestPriceItem(w http.ResponseWriter, r *http.Request) {
	testCode := strings.TrimPrefix(r.URL.Path, "/v1/admin/test-prices/")
	if testCode == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("test code is required"))
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}

	if err := rt.prices.DeleteTestPrice(r.Context(), testCode); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// adminImportPrices loads a price book workbook. Sheet "Products" feeds the
// SKU repository, optional sheet "Tests" feeds the test fee table.
func (rt *Router) adminImportPrices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("multipart field 'file' is required"))
		return
	}
	defer file.Close()

	report, err := catalog.ImportXLSX(r.Context(), rt.prices, file)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (rt *Router) adminSweepJobCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		jobs, err := rt.sweepJobs.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, jobs)
	case http.MethodPost:
		var job domain.SweepJob
		if !decodeJSON(w, r, &job) {
			return
		}
		if job.ScheduleType != domain.SweepInterval && job.ScheduleType != domain.SweepCountBased {
			writeJSON(w, http.StatusBadRequest, errorBody("schedule_type must be interval or count_based"))
			return
		}
		job.ID = uuid.NewString()
		job.CreatedAt = time.Now().UTC()
		job.LastRun = nil
		if err := rt.sweepJobs.Create(r.Context(), &job); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, job)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) adminSweepJobItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/admin/sweep-jobs/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("sweep job id is required"))
		return
	}
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}

	var job domain.SweepJob
	if !decodeJSON(w, r, &job) {
		return
	}
	job.ID = id
	if err := rt.sweepJobs.Update(r.Context(), &job); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (rt *Router) adminDemoCenterCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		centers, err := rt.demos.ListCenters(r.Context(), false)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, centers)
	case http.MethodPost:
		var center domain.DemoCenter
		if !decodeJSON(w, r, &center) {
			return
		}
		if strings.TrimSpace(center.Name) == "" {
			writeJSON(w, http.StatusBadRequest, errorBody("center name is required"))
			return
		}
		center.ID = uuid.NewString()
		center.CreatedAt = time.Now().UTC()
		if err := rt.demos.CreateCenter(r.Context(), &center); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, center)
	default:
		methodNotAllowed(w)
	}
}

func (rt *Router) adminListDemoRequests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	requests, err := rt.demos.ListRequests(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (rt *Router) adminDemoRequestItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/admin/demo-requests/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || action != "schedule" {
		writeJSON(w, http.StatusNotFound, errorBody("unknown demo request action"))
		return
	}
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}

	var req struct {
		CenterID    string    `json:"center_id"`
		ScheduledAt time.Time `json:"scheduled_datetime"`
		AdminNotes  string    `json:"admin_notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	demo, err := rt.demo.Schedule(r.Context(), usecase.ScheduleDemoInput{
		RequestID:  id,
		CenterID:   req.CenterID,
		At:         req.ScheduledAt,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, demo)
}
