package query

import (
	"net/url"
	"strings"
)

const (
	TypeGetCurrentUser        = "easyjob.query.user.current"
	TypeSessionState          = "easyjob.query.session.state"
	TypeListVacancies         = "easyjob.query.vacancy.list"
	TypeListFeaturedVacancies = "easyjob.query.vacancy.featured"
	TypeListEmployerJobs      = "easyjob.query.vacancy.mine"
	TypeGetVacancy            = "easyjob.query.vacancy.get"
	TypeListCompanies         = "easyjob.query.company.list"
	TypeListPopularCompanies  = "easyjob.query.company.popular"
	TypeGetCompany            = "easyjob.query.company.get"
	TypeGetMyCompany          = "easyjob.query.company.mine"
	TypeListResumes           = "easyjob.query.resume.list"
	TypeListApplications      = "easyjob.query.application.list"
	TypeListCategories        = "easyjob.query.catalog.categories"
	TypeListSkills            = "easyjob.query.catalog.skills"
	TypeGetContact            = "easyjob.query.catalog.contact"
	TypeCheckHealth           = "easyjob.query.health"
	TypeGetStats              = "easyjob.query.stats"
)

type StatsKind string

const (
	StatsJobs      StatsKind = "jobs"
	StatsCompanies StatsKind = "companies"
	StatsUsers     StatsKind = "users"
)

type GetCurrentUserMessage struct{}

func (GetCurrentUserMessage) Type() string { return TypeGetCurrentUser }

type SessionStateMessage struct{}

func (SessionStateMessage) Type() string { return TypeSessionState }

// ListVacanciesMessage passes Params through as the query string.
type ListVacanciesMessage struct {
	Params url.Values
}

func (ListVacanciesMessage) Type() string { return TypeListVacancies }

type ListFeaturedVacanciesMessage struct{}

func (ListFeaturedVacanciesMessage) Type() string { return TypeListFeaturedVacancies }

type ListEmployerJobsMessage struct{}

func (ListEmployerJobsMessage) Type() string { return TypeListEmployerJobs }

type GetVacancyMessage struct {
	VacancyID string
}

func (GetVacancyMessage) Type() string { return TypeGetVacancy }

func (m GetVacancyMessage) Validate() error {
	return requireID("vacancy_id", m.VacancyID)
}

type ListCompaniesMessage struct {
	Params url.Values
}

func (ListCompaniesMessage) Type() string { return TypeListCompanies }

type ListPopularCompaniesMessage struct{}

func (ListPopularCompaniesMessage) Type() string { return TypeListPopularCompanies }

type GetCompanyMessage struct {
	CompanyID string
}

func (GetCompanyMessage) Type() string { return TypeGetCompany }

func (m GetCompanyMessage) Validate() error {
	return requireID("company_id", m.CompanyID)
}

type GetMyCompanyMessage struct{}

func (GetMyCompanyMessage) Type() string { return TypeGetMyCompany }

type ListResumesMessage struct{}

func (ListResumesMessage) Type() string { return TypeListResumes }

type ListApplicationsMessage struct{}

func (ListApplicationsMessage) Type() string { return TypeListApplications }

type ListCategoriesMessage struct{}

func (ListCategoriesMessage) Type() string { return TypeListCategories }

type ListSkillsMessage struct {
	Search string
}

func (ListSkillsMessage) Type() string { return TypeListSkills }

type GetContactMessage struct{}

func (GetContactMessage) Type() string { return TypeGetContact }

type CheckHealthMessage struct{}

func (CheckHealthMessage) Type() string { return TypeCheckHealth }

type GetStatsMessage struct {
	Kind StatsKind
}

func (GetStatsMessage) Type() string { return TypeGetStats }

func (m GetStatsMessage) Validate() error {
	switch m.Kind {
	case StatsJobs, StatsCompanies, StatsUsers:
		return nil
	default:
		return queryValidationError("kind", "must be one of jobs, companies, users")
	}
}

func requireID(field string, value string) error {
	if strings.TrimSpace(value) == "" {
		return queryValidationError(field, "is required")
	}
	return nil
}
