package usecase

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/rfp-optimize/platform/internal/core/domain"
)

type fakeRFPRepo struct {
	byID          map[string]*domain.RFP
	saveErr       error
	statusChanges []domain.AgentStatus
}

func newFakeRFPRepo(rfps ...*domain.RFP) *fakeRFPRepo {
	repo := &fakeRFPRepo{byID: map[string]*domain.RFP{}}
	for _, r := range rfps {
		repo.byID[r.ID] = r
	}
	return repo
}

func (f *fakeRFPRepo) Create(_ context.Context, rfp *domain.RFP) error {
	f.byID[rfp.ID] = rfp
	return nil
}

func (f *fakeRFPRepo) GetByID(_ context.Context, id string) (*domain.RFP, error) {
	rfp, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrRFPNotFound
	}
	return rfp, nil
}

func (f *fakeRFPRepo) GetOwned(ctx context.Context, id, userID string) (*domain.RFP, error) {
	rfp, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rfp.UserID != userID {
		return nil, domain.ErrRFPNotFound
	}
	return rfp, nil
}

func (f *fakeRFPRepo) ListByUser(_ context.Context, userID string) ([]domain.RFP, error) {
	var out []domain.RFP
	for _, r := range f.byID {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRFPRepo) ListAll(_ context.Context) ([]domain.RFP, error) {
	var out []domain.RFP
	for _, r := range f.byID {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRFPRepo) ListPending(_ context.Context) ([]domain.RFP, error) {
	var out []domain.RFP
	for _, r := range f.byID {
		if r.AgentStatus == domain.AgentStatusPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRFPRepo) CountPending(ctx context.Context) (int, error) {
	pending, _ := f.ListPending(ctx)
	return len(pending), nil
}

func (f *fakeRFPRepo) Update(_ context.Context, rfp *domain.RFP) error {
	f.byID[rfp.ID] = rfp
	return nil
}

func (f *fakeRFPRepo) UpdateAgentStatus(_ context.Context, id string, status domain.AgentStatus) error {
	f.statusChanges = append(f.statusChanges, status)
	if rfp, ok := f.byID[id]; ok {
		rfp.AgentStatus = status
	}
	return nil
}

func (f *fakeRFPRepo) UpdateDemoStatus(_ context.Context, id string, status domain.DemoStatus) error {
	if rfp, ok := f.byID[id]; ok {
		rfp.DemoStatus = status
	}
	return nil
}

func (f *fakeRFPRepo) SaveAnalysis(_ context.Context, id string, result domain.AnalysisResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if rfp, ok := f.byID[id]; ok {
		rfp.Analysis = &result
		rfp.AgentStatus = result.AgentStatus
	}
	return nil
}

type fakeAnalyzer struct {
	result           domain.AnalysisResult
	calls            int
	checkConstraints []bool
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ domain.AnalysisInput, checkConstraints bool) domain.AnalysisResult {
	f.calls++
	f.checkConstraints = append(f.checkConstraints, checkConstraints)
	return f.result
}

func (f *fakeAnalyzer) CheckQualification(context.Context, domain.AnalysisInput) domain.QualificationVerdict {
	return domain.QualificationVerdict{Qualified: true}
}

type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(context.Context, string) (string, error) {
	return f.text, f.err
}

type fakeDemoRepo struct {
	centers  []domain.DemoCenter
	requests map[string]*domain.DemoRequest
}

func newFakeDemoRepo(centers ...domain.DemoCenter) *fakeDemoRepo {
	return &fakeDemoRepo{centers: centers, requests: map[string]*domain.DemoRequest{}}
}

func (f *fakeDemoRepo) ListCenters(_ context.Context, activeOnly bool) ([]domain.DemoCenter, error) {
	if !activeOnly {
		return f.centers, nil
	}
	var out []domain.DemoCenter
	for _, c := range f.centers {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeDemoRepo) GetCenter(_ context.Context, id string) (*domain.DemoCenter, error) {
	for i := range f.centers {
		if f.centers[i].ID == id {
			return &f.centers[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDemoRepo) CreateCenter(_ context.Context, center *domain.DemoCenter) error {
	f.centers = append(f.centers, *center)
	return nil
}

func (f *fakeDemoRepo) CountCenters(context.Context) (int, error) {
	return len(f.centers), nil
}

func (f *fakeDemoRepo) FirstActiveCenter(_ context.Context) (*domain.DemoCenter, error) {
	for i := range f.centers {
		if f.centers[i].IsActive {
			return &f.centers[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDemoRepo) CreateRequest(_ context.Context, req *domain.DemoRequest) error {
	f.requests[req.ID] = req
	return nil
}

func (f *fakeDemoRepo) GetRequest(_ context.Context, id string) (*domain.DemoRequest, error) {
	req, ok := f.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

func (f *fakeDemoRepo) GetRequestByRFP(_ context.Context, rfpID string) (*domain.DemoRequest, error) {
	for _, req := range f.requests {
		if req.RFPID == rfpID {
			return req, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeDemoRepo) ListRequestsByUser(_ context.Context, userID string) ([]domain.DemoRequest, error) {
	var out []domain.DemoRequest
	for _, req := range f.requests {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (f *fakeDemoRepo) ListRequests(context.Context) ([]domain.DemoRequest, error) {
	var out []domain.DemoRequest
	for _, req := range f.requests {
		out = append(out, *req)
	}
	return out, nil
}

func (f *fakeDemoRepo) UpdateRequest(_ context.Context, req *domain.DemoRequest) error {
	f.requests[req.ID] = req
	return nil
}

type fakeNotificationRepo struct {
	created []domain.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(context.Context, string, string) error { return nil }

type fakeStorage struct {
	saved map[string][]byte
	err   error
}

func newFakeStorage() *fakeStorage { return &fakeStorage{saved: map[string][]byte{}} }

func (f *fakeStorage) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	b, _ := io.ReadAll(data)
	f.saved[key] = b
	return nil
}

func (f *fakeStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := f.saved[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

type fakeQueue struct {
	published []string
	err       error
}

func (f *fakeQueue) PublishAnalysisRequested(_ context.Context, rfpID string) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, rfpID)
	return nil
}

func (f *fakeQueue) SubscribeAnalysisRequested(context.Context, func(context.Context, string) error) error {
	return nil
}

type fakeSweepJobRepo struct {
	jobs    []domain.SweepJob
	stamped []string
}

func (f *fakeSweepJobRepo) List(context.Context) ([]domain.SweepJob, error) { return f.jobs, nil }

func (f *fakeSweepJobRepo) ListEnabled(context.Context) ([]domain.SweepJob, error) {
	var out []domain.SweepJob
	for _, j := range f.jobs {
		if j.Enabled {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeSweepJobRepo) Create(_ context.Context, job *domain.SweepJob) error {
	f.jobs = append(f.jobs, *job)
	return nil
}

func (f *fakeSweepJobRepo) Update(_ context.Context, job *domain.SweepJob) error {
	for i := range f.jobs {
		if f.jobs[i].ID == job.ID {
			f.jobs[i] = *job
		}
	}
	return nil
}

func (f *fakeSweepJobRepo) StampLastRun(_ context.Context, id string, at time.Time) error {
	f.stamped = append(f.stamped, id)
	for i := range f.jobs {
		if f.jobs[i].ID == id {
			t := at
			f.jobs[i].LastRun = &t
		}
	}
	return nil
}

type fakeProcessor struct {
	processed []string
	err       error
}

func (f *fakeProcessor) ProcessByID(_ context.Context, rfpID string) error {
	if f.err != nil {
		return f.err
	}
	f.processed = append(f.processed, rfpID)
	return nil
}
