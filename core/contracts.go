package core

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

type TokenSlot string

const (
	SlotAccessToken  TokenSlot = "access_token"
	SlotRefreshToken TokenSlot = "refresh_token"
)

// TokenSlots lists every persisted slot in the order they are cleared.
func TokenSlots() []TokenSlot {
	return []TokenSlot{SlotAccessToken, SlotRefreshToken}
}

// CredentialPair is the token pair issued by the token endpoint.
type CredentialPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// CredentialStore persists the access and refresh token slots. Get reports
// false when a slot is absent. Clear removes both slots.
type CredentialStore interface {
	Get(ctx context.Context, slot TokenSlot) (string, bool, error)
	Set(ctx context.Context, slot TokenSlot, value string) error
	Clear(ctx context.Context) error
}

// AuthExpiredHandler runs after credentials were purged because the session
// could not be recovered. Browser-like hosts use it to navigate to a login view.
type AuthExpiredHandler func(ctx context.Context)

type TransportRequest struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Query                map[string]string
	Body                 []byte
	Metadata             map[string]any
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// APIClient is the surface commands and queries depend on.
type APIClient interface {
	SessionService
	VacancyService
	CompanyService
	ResumeService
	ApplicationService
	CatalogService
	StatsService
}

type SessionService interface {
	Login(ctx context.Context, email string, password string) (CredentialPair, error)
	LoginAndLoadUser(ctx context.Context, email string, password string) (json.RawMessage, error)
	Register(ctx context.Context, userData any) (json.RawMessage, error)
	RegisterAndLogin(ctx context.Context, in RegistrationInput) (json.RawMessage, error)
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context) error
	RestoreSession(ctx context.Context) (json.RawMessage, bool, error)
	Session(ctx context.Context) (SessionState, error)
	GetCurrentUser(ctx context.Context) (json.RawMessage, error)
	UpdateCurrentUser(ctx context.Context, form *MultipartBody) (json.RawMessage, error)
}

type VacancyService interface {
	GetVacancies(ctx context.Context, params url.Values) ([]json.RawMessage, error)
	GetFeaturedVacancies(ctx context.Context) ([]json.RawMessage, error)
	GetVacancy(ctx context.Context, id string) (json.RawMessage, error)
	GetEmployerJobs(ctx context.Context) ([]json.RawMessage, error)
	CreateJob(ctx context.Context, jobData any) (json.RawMessage, error)
	UpdateJob(ctx context.Context, id string, jobData any) (json.RawMessage, error)
	DeleteJob(ctx context.Context, id string) error
	ApplyToVacancy(ctx context.Context, vacancyID string, resumeID string, coverLetter string) (json.RawMessage, error)
}

type CompanyService interface {
	GetCompanies(ctx context.Context, params url.Values) ([]json.RawMessage, error)
	GetPopularCompanies(ctx context.Context) ([]json.RawMessage, error)
	GetCompany(ctx context.Context, id string) (json.RawMessage, error)
	GetMyCompany(ctx context.Context) (json.RawMessage, error)
	CreateCompany(ctx context.Context, form *MultipartBody) (json.RawMessage, error)
	UpdateCompany(ctx context.Context, id string, form *MultipartBody) (json.RawMessage, error)
}

type ResumeService interface {
	GetResumes(ctx context.Context) ([]json.RawMessage, error)
	CreateResume(ctx context.Context, form *MultipartBody) (json.RawMessage, error)
}

type ApplicationService interface {
	GetApplications(ctx context.Context) ([]json.RawMessage, error)
	UpdateApplicationStatus(ctx context.Context, id string, status ApplicationStatus) (json.RawMessage, error)
}

type CatalogService interface {
	GetCategories(ctx context.Context) ([]json.RawMessage, error)
	GetSkills(ctx context.Context, search string) ([]json.RawMessage, error)
	GetContact(ctx context.Context) (json.RawMessage, error)
	CheckHealth(ctx context.Context) bool
}

type StatsService interface {
	GetJobStats(ctx context.Context) (int, error)
	GetCompanyStats(ctx context.Context) (int, error)
	GetUserStats(ctx context.Context) (int, error)
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type JobExecutionMessage struct {
	JobID          string
	ScriptPath     string
	Parameters     map[string]any
	IdempotencyKey string
	DedupPolicy    string
}

type JobNackOptions struct {
	Delay      time.Duration
	Requeue    bool
	DeadLetter bool
	Reason     string
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, msg *JobExecutionMessage) error
}

type JobDelivery interface {
	Message() *JobExecutionMessage
	Ack(ctx context.Context) error
	Nack(ctx context.Context, opts JobNackOptions) error
}

type JobDequeuer interface {
	Dequeue(ctx context.Context) (JobDelivery, error)
}

type JobDeliveryHandler interface {
	Handle(ctx context.Context, delivery JobDelivery) error
}

type JobWorkerHook interface {
	OnStart(ctx context.Context, event JobWorkerEvent)
	OnSuccess(ctx context.Context, event JobWorkerEvent)
	OnFailure(ctx context.Context, event JobWorkerEvent)
	OnRetry(ctx context.Context, event JobWorkerEvent)
}

type JobWorkerEvent struct {
	Message   *JobExecutionMessage
	Attempt   int
	Delay     time.Duration
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
