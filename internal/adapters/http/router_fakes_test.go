package httpadapter

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/rfp-optimize/platform/internal/auth"
	"github.com/rfp-optimize/platform/internal/core/domain"
	"github.com/rfp-optimize/platform/internal/core/usecase"
)

type memRFPs struct {
	byID map[string]*domain.RFP
}

func newMemRFPs() *memRFPs { return &memRFPs{byID: map[string]*domain.RFP{}} }

func (m *memRFPs) Create(_ context.Context, rfp *domain.RFP) error {
	clone := *rfp
	m.byID[rfp.ID] = &clone
	return nil
}

func (m *memRFPs) GetByID(_ context.Context, id string) (*domain.RFP, error) {
	rfp, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrRFPNotFound
	}
	clone := *rfp
	return &clone, nil
}

func (m *memRFPs) GetOwned(ctx context.Context, id, userID string) (*domain.RFP, error) {
	rfp, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rfp.UserID != userID {
		return nil, domain.ErrRFPNotFound
	}
	return rfp, nil
}

func (m *memRFPs) ListByUser(_ context.Context, userID string) ([]domain.RFP, error) {
	var out []domain.RFP
	for _, rfp := range m.byID {
		if rfp.UserID == userID {
			out = append(out, *rfp)
		}
	}
	return out, nil
}

func (m *memRFPs) ListAll(context.Context) ([]domain.RFP, error) {
	var out []domain.RFP
	for _, rfp := range m.byID {
		out = append(out, *rfp)
	}
	return out, nil
}

func (m *memRFPs) ListPending(context.Context) ([]domain.RFP, error) {
	var out []domain.RFP
	for _, rfp := range m.byID {
		if rfp.AgentStatus == domain.AgentStatusPending || rfp.AgentStatus == domain.AgentStatusFailed {
			out = append(out, *rfp)
		}
	}
	return out, nil
}

func (m *memRFPs) CountPending(ctx context.Context) (int, error) {
	pending, _ := m.ListPending(ctx)
	return len(pending), nil
}

func (m *memRFPs) Update(_ context.Context, rfp *domain.RFP) error {
	if _, ok := m.byID[rfp.ID]; !ok {
		return domain.ErrRFPNotFound
	}
	clone := *rfp
	m.byID[rfp.ID] = &clone
	return nil
}

func (m *memRFPs) UpdateAgentStatus(_ context.Context, id string, status domain.AgentStatus) error {
	rfp, ok := m.byID[id]
	if !ok {
		return domain.ErrRFPNotFound
	}
	rfp.AgentStatus = status
	return nil
}

func (m *memRFPs) UpdateDemoStatus(_ context.Context, id string, status domain.DemoStatus) error {
	rfp, ok := m.byID[id]
	if !ok {
		return domain.ErrRFPNotFound
	}
	rfp.DemoStatus = status
	return nil
}

func (m *memRFPs) SaveAnalysis(_ context.Context, id string, result domain.AnalysisResult) error {
	rfp, ok := m.byID[id]
	if !ok {
		return domain.ErrRFPNotFound
	}
	rfp.Analysis = &result
	rfp.AgentStatus = result.AgentStatus
	return nil
}

type memUsers struct {
	byEmail map[string]*domain.User
}

func newMemUsers() *memUsers { return &memUsers{byEmail: map[string]*domain.User{}} }

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.byEmail[user.Email] = user
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memRules struct {
	rules []domain.QualificationRule
}

func (m *memRules) ActiveRules(context.Context) ([]domain.QualificationRule, error) {
	return m.rules, nil
}

func (m *memRules) Create(_ context.Context, rule *domain.QualificationRule) error {
	m.rules = append(m.rules, *rule)
	return nil
}

func (m *memRules) List(context.Context) ([]domain.QualificationRule, error) {
	return m.rules, nil
}

func (m *memRules) Update(_ context.Context, rule *domain.QualificationRule) error {
	for i := range m.rules {
		if m.rules[i].ID == rule.ID {
			m.rules[i] = *rule
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memRules) Delete(_ context.Context, id string) error {
	for i := range m.rules {
		if m.rules[i].ID == id {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type memPrices struct {
	products []domain.ProductPrice
	tests    []domain.TestPrice
}

func (m *memPrices) ListProductPrices(context.Context) ([]domain.ProductPrice, error) {
	return m.products, nil
}

func (m *memPrices) UpsertProductPrice(_ context.Context, price *domain.ProductPrice) error {
	for i := range m.products {
		if m.products[i].SKUID == price.SKUID {
			m.products[i] = *price
			return nil
		}
	}
	m.products = append(m.products, *price)
	return nil
}

func (m *memPrices) DeleteProductPrice(_ context.Context, skuID string) error {
	for i := range m.products {
		if m.products[i].SKUID == skuID {
			m.products = append(m.products[:i], m.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memPrices) ListTestPrices(context.Context) ([]domain.TestPrice, error) {
	return m.tests, nil
}

func (m *memPrices) UpsertTestPrice(_ context.Context, price *domain.TestPrice) error {
	m.tests = append(m.tests, *price)
	return nil
}

func (m *memPrices) DeleteTestPrice(_ context.Context, testCode string) error {
	for i := range m.tests {
		if m.tests[i].TestCode == testCode {
			m.tests = append(m.tests[:i], m.tests[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type memNotifications struct {
	items []domain.Notification
}

func (m *memNotifications) Create(_ context.Context, n *domain.Notification) error {
	m.items = append(m.items, *n)
	return nil
}

func (m *memNotifications) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range m.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotifications) MarkRead(_ context.Context, id, userID string) error {
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].UserID == userID {
			m.items[i].IsRead = true
			return nil
		}
	}
	return domain.ErrNotFound
}

type memDemos struct {
	centers  []domain.DemoCenter
	requests []domain.DemoRequest
}

func (m *memDemos) ListCenters(_ context.Context, activeOnly bool) ([]domain.DemoCenter, error) {
	var out []domain.DemoCenter
	for _, c := range m.centers {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *memDemos) GetCenter(_ context.Context, id string) (*domain.DemoCenter, error) {
	for i := range m.centers {
		if m.centers[i].ID == id {
			clone := m.centers[i]
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memDemos) CreateCenter(_ context.Context, center *domain.DemoCenter) error {
	m.centers = append(m.centers, *center)
	return nil
}

func (m *memDemos) CountCenters(context.Context) (int, error) { return len(m.centers), nil }

func (m *memDemos) FirstActiveCenter(ctx context.Context) (*domain.DemoCenter, error) {
	active, _ := m.ListCenters(ctx, true)
	if len(active) == 0 {
		return nil, domain.ErrNotFound
	}
	return &active[0], nil
}

func (m *memDemos) CreateRequest(_ context.Context, req *domain.DemoRequest) error {
	m.requests = append(m.requests, *req)
	return nil
}

func (m *memDemos) GetRequest(_ context.Context, id string) (*domain.DemoRequest, error) {
	for i := range m.requests {
		if m.requests[i].ID == id {
			clone := m.requests[i]
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memDemos) GetRequestByRFP(_ context.Context, rfpID string) (*domain.DemoRequest, error) {
	for i := range m.requests {
		if m.requests[i].RFPID == rfpID {
			clone := m.requests[i]
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memDemos) ListRequestsByUser(_ context.Context, userID string) ([]domain.DemoRequest, error) {
	var out []domain.DemoRequest
	for _, req := range m.requests {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (m *memDemos) ListRequests(context.Context) ([]domain.DemoRequest, error) {
	return m.requests, nil
}

func (m *memDemos) UpdateRequest(_ context.Context, req *domain.DemoRequest) error {
	for i := range m.requests {
		if m.requests[i].ID == req.ID {
			m.requests[i] = *req
			return nil
		}
	}
	return domain.ErrNotFound
}

type memSweepJobs struct {
	jobs []domain.SweepJob
}

func (m *memSweepJobs) List(context.Context) ([]domain.SweepJob, error) { return m.jobs, nil }

func (m *memSweepJobs) ListEnabled(context.Context) ([]domain.SweepJob, error) {
	var out []domain.SweepJob
	for _, job := range m.jobs {
		if job.Enabled {
			out = append(out, job)
		}
	}
	return out, nil
}

func (m *memSweepJobs) Create(_ context.Context, job *domain.SweepJob) error {
	m.jobs = append(m.jobs, *job)
	return nil
}

func (m *memSweepJobs) Update(_ context.Context, job *domain.SweepJob) error {
	for i := range m.jobs {
		if m.jobs[i].ID == job.ID {
			m.jobs[i] = *job
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memSweepJobs) StampLastRun(_ context.Context, id string, at time.Time) error {
	for i := range m.jobs {
		if m.jobs[i].ID == id {
			stamp := at
			m.jobs[i].LastRun = &stamp
			return nil
		}
	}
	return domain.ErrNotFound
}

type memQueue struct {
	published  []string
	publishErr error
}

func (m *memQueue) PublishAnalysisRequested(_ context.Context, rfpID string) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, rfpID)
	return nil
}

func (m *memQueue) SubscribeAnalysisRequested(context.Context, func(context.Context, string) error) error {
	return nil
}

type memStorage struct {
	saved map[string][]byte
}

func (m *memStorage) Save(_ context.Context, key string, data io.Reader) error {
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	if m.saved == nil {
		m.saved = map[string][]byte{}
	}
	m.saved[key] = raw
	return nil
}

func (m *memStorage) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, domain.ErrNotFound
}

type countingProcessor struct {
	processed []string
}

func (p *countingProcessor) ProcessByID(_ context.Context, rfpID string) error {
	p.processed = append(p.processed, rfpID)
	return nil
}

type testEnv struct {
	handler       http.Handler
	rfps          *memRFPs
	rules         *memRules
	prices        *memPrices
	notifications *memNotifications
	demos         *memDemos
	sweepJobs     *memSweepJobs
	queue         *memQueue
	processor     *countingProcessor
	auth          *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	rfps := newMemRFPs()
	rules := &memRules{}
	prices := &memPrices{}
	notifications := &memNotifications{}
	demos := &memDemos{}
	sweepJobs := &memSweepJobs{}
	queue := &memQueue{}
	processor := &countingProcessor{}

	authSvc, err := auth.NewService(newMemUsers(), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	router := NewRouter(RouterDeps{
		Auth:          authSvc,
		Submit:        usecase.NewSubmitRFPUseCase(rfps, &memStorage{}, queue),
		Demo:          usecase.NewDemoUseCase(demos, rfps, notifications),
		Sweep:         usecase.NewSweepUseCase(rfps, sweepJobs, processor),
		RFPs:          rfps,
		Rules:         rules,
		Prices:        prices,
		Notifications: notifications,
		Demos:         demos,
		SweepJobs:     sweepJobs,
		Queue:         queue,
	})

	return &testEnv{
		handler:       router.Handler(),
		rfps:          rfps,
		rules:         rules,
		prices:        prices,
		notifications: notifications,
		demos:         demos,
		sweepJobs:     sweepJobs,
		queue:         queue,
		processor:     processor,
		auth:          authSvc,
	}
}

func (env *testEnv) token(t *testing.T, email string, role domain.Role) string {
	t.Helper()
	session, err := env.auth.Register(context.Background(), auth.Credentials{
		Email:    email,
		Password: "long enough",
	}, role)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return session.Token
}

func (env *testEnv) userID(t *testing.T, token string) string {
	t.Helper()
	identity, err := env.auth.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	return identity.UserID
}
