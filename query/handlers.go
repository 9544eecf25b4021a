package query

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/goliatone/go-easyjob/core"
)

// ReadService is the read side of the API client.
type ReadService interface {
	GetCurrentUser(ctx context.Context) (json.RawMessage, error)
	Session(ctx context.Context) (core.SessionState, error)
	GetVacancies(ctx context.Context, params url.Values) ([]json.RawMessage, error)
	GetFeaturedVacancies(ctx context.Context) ([]json.RawMessage, error)
	GetEmployerJobs(ctx context.Context) ([]json.RawMessage, error)
	GetVacancy(ctx context.Context, id string) (json.RawMessage, error)
	GetCompanies(ctx context.Context, params url.Values) ([]json.RawMessage, error)
	GetPopularCompanies(ctx context.Context) ([]json.RawMessage, error)
	GetCompany(ctx context.Context, id string) (json.RawMessage, error)
	GetMyCompany(ctx context.Context) (json.RawMessage, error)
	GetResumes(ctx context.Context) ([]json.RawMessage, error)
	GetApplications(ctx context.Context) ([]json.RawMessage, error)
	GetCategories(ctx context.Context) ([]json.RawMessage, error)
	GetSkills(ctx context.Context, search string) ([]json.RawMessage, error)
	GetContact(ctx context.Context) (json.RawMessage, error)
	CheckHealth(ctx context.Context) bool
	GetJobStats(ctx context.Context) (int, error)
	GetCompanyStats(ctx context.Context) (int, error)
	GetUserStats(ctx context.Context) (int, error)
}

type GetCurrentUserQuery struct {
	reader ReadService
}

func NewGetCurrentUserQuery(reader ReadService) *GetCurrentUserQuery {
	return &GetCurrentUserQuery{reader: reader}
}

func (q *GetCurrentUserQuery) Query(ctx context.Context, _ GetCurrentUserMessage) (json.RawMessage, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: user reader is required")
	}
	return q.reader.GetCurrentUser(ctx)
}

type SessionStateQuery struct {
	reader ReadService
}

func NewSessionStateQuery(reader ReadService) *SessionStateQuery {
	return &SessionStateQuery{reader: reader}
}

func (q *SessionStateQuery) Query(ctx context.Context, _ SessionStateMessage) (core.SessionState, error) {
	if q == nil || q.reader == nil {
		return core.SessionState{}, queryDependencyError("query: session reader is required")
	}
	return q.reader.Session(ctx)
}

type ListVacanciesQuery struct {
	reader ReadService
}

func NewListVacanciesQuery(reader ReadService) *ListVacanciesQuery {
	return &ListVacanciesQuery{reader: reader}
}

func (q *ListVacanciesQuery) Query(ctx context.Context, msg ListVacanciesMessage) ([]json.RawMessage, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: vacancy reader is required")
	}
	return q.reader.GetVacancies(ctx, msg.Params)
}

type ListFeaturedVacanciesQuery struct {
	reader ReadService
}

func NewListFeaturedVacanciesQuery(reader ReadService) *ListFeaturedVacanciesQuery {
	return &ListFeaturedVacanciesQuery{reader: reader}
}

func (q *ListFeaturedVacanciesQuery) Query(ctx context.Context, _ ListFeaturedVacanciesMessage) ([]json.RawMessage, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: vacancy reader is required")
	}
	return q.reader.GetFeaturedVacancies(ctx)
}

type ListEmployerJobsQuery struct {
	reader ReadService
}

func NewListEmployerJobsQuery(reader ReadService) *ListEmployerJobsQuery {
	return &ListEmployerJobsQuery{reader: reader}
}

func (q *ListEmployerJobsQuery) Query(ctx context.Context, _ ListEmployerJobsMessage) ([]json.RawMessage, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: vacancy reader is required")
	}
	return q.reader.GetEmployerJobs(ctx)
}

type GetVacancyQuery struct {
	reader ReadService
}

func NewGetVacancyQuery(reader ReadService) *GetVacancyQuery {
	return &GetVacancyQuery{reader: reader}
}

func (q *GetVacancyQuery) Query(ctx context.Context, msg GetVacancyMessage) (json.RawMessage, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: vacancy reader is required")
	}
	return q.reader.GetVacancy(ctx, msg.VacancyID)
}

type ListCompaniesQuery struct {
	reader ReadService
}

func NewListCompaniesQuery(reader ReadService) *ListCompaniesQuery {
	return &ListCompaniesQuery{reader: reader}
}

func (q *ListCompaniesQuery) Query(ctx context.Context, msg ListCompaniesMessage) ([]json.RawMessage, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: company reader is required")
	}
	return q.reader.GetCompanies(ctx, msg.Params)
}

type ListPopularCompaniesQuery struct {
	reader ReadService
}

func NewListPopularCompaniesQuery(reader ReadService) *ListPopularCompaniesQuery {
	return &ListPopularCompaniesQuery{reader: reader}
}

func (q *ListPopularCompaniesQuery) Query(ctx context.Context, _ ListPopularCompaniesMessage) ([]json.RawMessage, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: company reader is required")
	}
	return q.reader.GetPopularCompanies(ctx)
}

type GetCompanyQuery struct {
	reader ReadService
}

func NewGetCompanyQuery(reader ReadService) *GetCompanyQuery {
	return &GetCompanyQuery{reader: reader}
}

func (q *GetCompanyQuery) Query(ctx context.Context, msg GetCompanyMessage) (json.RawMessage, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: company reader is required")
	}
	return q.reader.GetCompany(ctx, msg.CompanyID)
}

type GetMyCompanyQuery struct {
	reader ReadService
}

func NewGetMyCompanyQuery(reader ReadService) *GetMyCompanyQuery {
	return &GetMyCompanyQuery{reader: reader}
}

func (q *GetMyCompanyQuery) Query(ctx context.Context, _ GetMyCompanyMessage) (json.RawMessage, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: company reader is required")
	}
	return q.reader.GetMyCompany(ctx)
}

type ListResumesQuery struct {
	reader ReadService
}

func NewListResumesQuery(reader ReadService) *ListResumesQuery {
	return &ListResumesQuery{reader: reader}
}

func (q *ListResumesQuery) Query(ctx context.Context, _ ListResumesMessage) ([]json.RawMessage, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: resume reader is required")
	}
	return q.reader.GetResumes(ctx)
}

type ListApplicationsQuery struct {
	reader ReadService
}

func NewListApplicationsQuery(reader ReadService) *ListApplicationsQuery {
	return &ListApplicationsQuery{reader: reader}
}

func (q *ListApplicationsQuery) Query(ctx context.Context, _ ListApplicationsMessage) ([]json.RawMessage, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: application reader is required")
	}
	return q.reader.GetApplications(ctx)
}

type ListCategoriesQuery struct {
	reader ReadService
}

func NewListCategoriesQuery(reader ReadService) *ListCategoriesQuery {
	return &ListCategoriesQuery{reader: reader}
}

func (q *ListCategoriesQuery) Query(ctx context.Context, _ ListCategoriesMessage) ([]json.RawMessage, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: catalog reader is required")
	}
	return q.reader.GetCategories(ctx)
}

type ListSkillsQuery struct {
	reader ReadService
}

func NewListSkillsQuery(reader ReadService) *ListSkillsQuery {
	return &ListSkillsQuery{reader: reader}
}

func (q *ListSkillsQuery) Query(ctx context.Context, msg ListSkillsMessage) ([]json.RawMessage, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: catalog reader is required")
	}
	return q.reader.GetSkills(ctx, msg.Search)
}

type GetContactQuery struct {
	reader ReadService
}

func NewGetContactQuery(reader ReadService) *GetContactQuery {
	return &GetContactQuery{reader: reader}
}

func (q *GetContactQuery) Query(ctx context.Context, _ GetContactMessage) (json.RawMessage, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: catalog reader is required")
	}
	return q.reader.GetContact(ctx)
}

// CheckHealthQuery never fails once wired; an unreachable backend reads as
// unhealthy.
type CheckHealthQuery struct {
	reader ReadService
}

func NewCheckHealthQuery(reader ReadService) *CheckHealthQuery {
	return &CheckHealthQuery{reader: reader}
}

func (q *CheckHealthQuery) Query(ctx context.Context, _ CheckHealthMessage) (bool, error) {
	if q == nil || q.reader == nil {
		return false, queryDependencyError("query: health reader is required")
	}
	return q.reader.CheckHealth(ctx), nil
}

type GetStatsQuery struct {
	reader ReadService
}

func NewGetStatsQuery(reader ReadService) *GetStatsQuery {
	return &GetStatsQuery{reader: reader}
}

func (q *GetStatsQuery) Query(ctx context.Context, msg GetStatsMessage) (int, error) {
	if q == nil || q.reader == nil {
		return 0, queryDependencyError("query: stats reader is required")
	}
	switch msg.Kind {
	case StatsJobs:
		return q.reader.GetJobStats(ctx)
	case StatsCompanies:
		return q.reader.GetCompanyStats(ctx)
	case StatsUsers:
		return q.reader.GetUserStats(ctx)
	default:
		return 0, msg.Validate()
	}
}
