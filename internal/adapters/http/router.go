package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/rfp-optimize/platform/internal/auth"
	"github.com/rfp-optimize/platform/internal/core/domain"
	"github.com/rfp-optimize/platform/internal/core/ports"
	"github.com/rfp-optimize/platform/internal/core/usecase"
	"github.com/rfp-optimize/platform/internal/observability/metrics"
)

type Router struct {
	auth   *auth.Service
	submit *usecase.SubmitRFPUseCase
	demo   *usecase.DemoUseCase
	sweep  *usecase.SweepUseCase

	rfps          ports.RFPRepository
	rules         ports.RuleRepository
	prices        ports.PriceRepository
	notifications ports.NotificationRepository
	demos         ports.DemoRepository
	sweepJobs     ports.SweepJobRepository
	queue         ports.AnalysisQueue

	metrics *metrics.HTTPServerMetrics
	service string
}

type RouterDeps struct {
	Auth   *auth.Service
	Submit *usecase.SubmitRFPUseCase
	Demo   *usecase.DemoUseCase
	Sweep  *usecase.SweepUseCase

	RFPs          ports.RFPRepository
	Rules         ports.RuleRepository
	Prices        ports.PriceRepository
	Notifications ports.NotificationRepository
	Demos         ports.DemoRepository
	SweepJobs     ports.SweepJobRepository
	Queue         ports.AnalysisQueue

	Metrics *metrics.HTTPServerMetrics
	Service string
}

func NewRouter(deps RouterDeps) *Router {
	service := deps.Service
	if service == "" {
		service = "api"
	}
	return &Router{
		auth:          deps.Auth,
		submit:        deps.Submit,
		demo:          deps.Demo,
		sweep:         deps.Sweep,
		rfps:          deps.RFPs,
		rules:         deps.Rules,
		prices:        deps.Prices,
		notifications: deps.Notifications,
		demos:         deps.Demos,
		sweepJobs:     deps.SweepJobs,
		queue:         deps.Queue,
		metrics:       deps.Metrics,
		service:       service,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/register", rt.register)
	mux.HandleFunc("/login", rt.login)

	mux.HandleFunc("/v1/rfps", rt.authenticate(rt.rfpCollection))
	mux.HandleFunc("/v1/rfps/", rt.authenticate(rt.rfpItem))

	mux.HandleFunc("/v1/notifications", rt.authenticate(rt.listNotifications))
	mux.HandleFunc("/v1/notifications/", rt.authenticate(rt.notificationItem))

	mux.HandleFunc("/v1/demo-centers", rt.authenticate(rt.listActiveDemoCenters))
	mux.HandleFunc("/v1/demo-requests", rt.authenticate(rt.demoRequestCollection))
	mux.HandleFunc("/v1/demo-requests/", rt.authenticate(rt.demoRequestItem))

	mux.HandleFunc("/v1/admin/rfps", rt.authenticate(rt.adminListRFPs, domain.RoleAdmin))
	mux.HandleFunc("/v1/admin/start-analysis", rt.authenticate(rt.adminStartAnalysis, domain.RoleAdmin))
	mux.HandleFunc("/v1/admin/rules", rt.authenticate(rt.adminRuleCollection, domain.RoleAdmin))
	mux.HandleFunc("/v1/admin/rules/", rt.authenticate(rt.adminRuleItem, domain.RoleAdmin))
	mux.HandleFunc("/v1/admin/product-prices", rt.authenticate(rt.adminProductPriceCollection, domain.RoleAdmin))
	mux.HandleFunc("/v1/admin/product-prices/", rt.authenticate(rt.adminProductPriceItem, domain.RoleAdmin))
	mux.HandleFunc("/v1/admin/test-prices", rt.authenticate(rt.adminTestPriceCollection, domain.RoleAdmin))
	mux.HandleFunc("/v1/admin/test-prices/", rt.authenticate(rt.adminTestPriceItem, domain.RoleAdmin))
	mux.HandleFunc("/v1/admin/prices/import", rt.authenticate(rt.adminImportPrices, domain.RoleAdmin))
	mux.HandleFunc("/v1/admin/sweep-jobs", rt.authenticate(rt.adminSweepJobCollection, domain.RoleAdmin))
	mux.HandleFunc("/v1/admin/sweep-jobs/", rt.authenticate(rt.adminSweepJobItem, domain.RoleAdmin))
	mux.HandleFunc("/v1/admin/demo-centers", rt.authenticate(rt.adminDemoCenterCollection, domain.RoleAdmin))
	mux.HandleFunc("/v1/admin/demo-requests", rt.authenticate(rt.adminListDemoRequests, domain.RoleAdmin))
	mux.HandleFunc("/v1/admin/demo-requests/", rt.authenticate(rt.adminDemoRequestItem, domain.RoleAdmin))

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func errorBody(message string) map[string]string {
	return map[string]string{"error": message}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), errorBody(err.Error()))
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid json"))
		return false
	}
	return true
}
