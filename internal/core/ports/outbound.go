package ports

import (
	"context"
	"io"
	"time"

	"github.com/rfp-optimize/platform/internal/core/domain"
)

// CompletionClient is the text-completion capability of the external LLM
// service: one prompt in, raw text out. The text may or may not be valid
// JSON and may arrive wrapped in markdown code fences.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CatalogProvider supplies the reference-data corpora that ground the LLM
// prompts. LoadCatalog never fails: when the named corpus is unavailable it
// returns a clearly marked placeholder so prompt construction can proceed.
type CatalogProvider interface {
	LoadCatalog(ctx context.Context, name string) string
}

// RuleProvider supplies the active qualification rules. Callers treat
// provider errors as "cannot evaluate" and fail open.
type RuleProvider interface {
	ActiveRules(ctx context.Context) ([]domain.QualificationRule, error)
}

// RFPRepository persists RFP records and their analysis payloads.
type RFPRepository interface {
	Create(ctx context.Context, rfp *domain.RFP) error
	GetByID(ctx context.Context, id string) (*domain.RFP, error)
	GetOwned(ctx context.Context, id, userID string) (*domain.RFP, error)
	ListByUser(ctx context.Context, userID string) ([]domain.RFP, error)
	ListAll(ctx context.Context) ([]domain.RFP, error)
	ListPending(ctx context.Context) ([]domain.RFP, error)
	CountPending(ctx context.Context) (int, error)
	Update(ctx context.Context, rfp *domain.RFP) error
	UpdateAgentStatus(ctx context.Context, id string, status domain.AgentStatus) error
	UpdateDemoStatus(ctx context.Context, id string, status domain.DemoStatus) error
	SaveAnalysis(ctx context.Context, id string, result domain.AnalysisResult) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type RuleRepository interface {
	RuleProvider
	Create(ctx context.Context, rule *domain.QualificationRule) error
	List(ctx context.Context) ([]domain.QualificationRule, error)
	Update(ctx context.Context, rule *domain.QualificationRule) error
	Delete(ctx context.Context, id string) error
}

type PriceRepository interface {
	ListProductPrices(ctx context.Context) ([]domain.ProductPrice, error)
	UpsertProductPrice(ctx context.Context, price *domain.ProductPrice) error
	DeleteProductPrice(ctx context.Context, skuID string) error
	ListTestPrices(ctx context.Context) ([]domain.TestPrice, error)
	UpsertTestPrice(ctx context.Context, price *domain.TestPrice) error
	DeleteTestPrice(ctx context.Context, testCode string) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type DemoRepository interface {
	ListCenters(ctx context.Context, activeOnly bool) ([]domain.DemoCenter, error)
	GetCenter(ctx context.Context, id string) (*domain.DemoCenter, error)
	CreateCenter(ctx context.Context, center *domain.DemoCenter) error
	CountCenters(ctx context.Context) (int, error)
	FirstActiveCenter(ctx context.Context) (*domain.DemoCenter, error)

	CreateRequest(ctx context.Context, req *domain.DemoRequest) error
	GetRequest(ctx context.Context, id string) (*domain.DemoRequest, error)
	GetRequestByRFP(ctx context.Context, rfpID string) (*domain.DemoRequest, error)
	ListRequestsByUser(ctx context.Context, userID string) ([]domain.DemoRequest, error)
	ListRequests(ctx context.Context) ([]domain.DemoRequest, error)
	UpdateRequest(ctx context.Context, req *domain.DemoRequest) error
}

type SweepJobRepository interface {
	List(ctx context.Context) ([]domain.SweepJob, error)
	ListEnabled(ctx context.Context) ([]domain.SweepJob, error)
	Create(ctx context.Context, job *domain.SweepJob) error
	Update(ctx context.Context, job *domain.SweepJob) error
	StampLastRun(ctx context.Context, id string, at time.Time) error
}

// AnalysisQueue carries analysis jobs from the API to the worker.
type AnalysisQueue interface {
	PublishAnalysisRequested(ctx context.Context, rfpID string) error
	SubscribeAnalysisRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// ObjectStorage stores uploaded RFP attachments.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// AttachmentExtractor pulls plain text out of a stored attachment.
type AttachmentExtractor interface {
	Extract(ctx context.Context, storagePath string) (string, error)
}
