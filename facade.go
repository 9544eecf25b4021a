package easyjob

import (
	"fmt"

	easyjobcommand "github.com/goliatone/go-easyjob/command"
	easyjobquery "github.com/goliatone/go-easyjob/query"
)

// CommandQueryService is implemented by *Client.
type CommandQueryService interface {
	easyjobcommand.MutatingService
	easyjobquery.ReadService
}

type Commands struct {
	Login                   *easyjobcommand.LoginCommand
	Logout                  *easyjobcommand.LogoutCommand
	RefreshSession          *easyjobcommand.RefreshSessionCommand
	Register                *easyjobcommand.RegisterCommand
	RegisterAndLogin        *easyjobcommand.RegisterAndLoginCommand
	UpdateCurrentUser       *easyjobcommand.UpdateCurrentUserCommand
	CreateJob               *easyjobcommand.CreateJobCommand
	UpdateJob               *easyjobcommand.UpdateJobCommand
	DeleteJob               *easyjobcommand.DeleteJobCommand
	ApplyToVacancy          *easyjobcommand.ApplyToVacancyCommand
	UpdateApplicationStatus *easyjobcommand.UpdateApplicationStatusCommand
	CreateResume            *easyjobcommand.CreateResumeCommand
	CreateCompany           *easyjobcommand.CreateCompanyCommand
	UpdateCompany           *easyjobcommand.UpdateCompanyCommand
}

type Queries struct {
	GetCurrentUser        *easyjobquery.GetCurrentUserQuery
	SessionState          *easyjobquery.SessionStateQuery
	ListVacancies         *easyjobquery.ListVacanciesQuery
	ListFeaturedVacancies *easyjobquery.ListFeaturedVacanciesQuery
	ListEmployerJobs      *easyjobquery.ListEmployerJobsQuery
	GetVacancy            *easyjobquery.GetVacancyQuery
	ListCompanies         *easyjobquery.ListCompaniesQuery
	ListPopularCompanies  *easyjobquery.ListPopularCompaniesQuery
	GetCompany            *easyjobquery.GetCompanyQuery
	GetMyCompany          *easyjobquery.GetMyCompanyQuery
	ListResumes           *easyjobquery.ListResumesQuery
	ListApplications      *easyjobquery.ListApplicationsQuery
	ListCategories        *easyjobquery.ListCategoriesQuery
	ListSkills            *easyjobquery.ListSkillsQuery
	GetContact            *easyjobquery.GetContactQuery
	CheckHealth           *easyjobquery.CheckHealthQuery
	GetStats              *easyjobquery.GetStatsQuery
}

// Facade builds every command and query once over a single service.
type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("easyjob: command/query service is required")
	}
	facade := &Facade{service: service}
	facade.commands = Commands{
		Login:                   easyjobcommand.NewLoginCommand(service),
		Logout:                  easyjobcommand.NewLogoutCommand(service),
		RefreshSession:          easyjobcommand.NewRefreshSessionCommand(service),
		Register:                easyjobcommand.NewRegisterCommand(service),
		RegisterAndLogin:        easyjobcommand.NewRegisterAndLoginCommand(service),
		UpdateCurrentUser:       easyjobcommand.NewUpdateCurrentUserCommand(service),
		CreateJob:               easyjobcommand.NewCreateJobCommand(service),
		UpdateJob:               easyjobcommand.NewUpdateJobCommand(service),
		DeleteJob:               easyjobcommand.NewDeleteJobCommand(service),
		ApplyToVacancy:          easyjobcommand.NewApplyToVacancyCommand(service),
		UpdateApplicationStatus: easyjobcommand.NewUpdateApplicationStatusCommand(service),
		CreateResume:            easyjobcommand.NewCreateResumeCommand(service),
		CreateCompany:           easyjobcommand.NewCreateCompanyCommand(service),
		UpdateCompany:           easyjobcommand.NewUpdateCompanyCommand(service),
	}
	facade.queries = Queries{
		GetCurrentUser:        easyjobquery.NewGetCurrentUserQuery(service),
		SessionState:          easyjobquery.NewSessionStateQuery(service),
		ListVacancies:         easyjobquery.NewListVacanciesQuery(service),
		ListFeaturedVacancies: easyjobquery.NewListFeaturedVacanciesQuery(service),
		ListEmployerJobs:      easyjobquery.NewListEmployerJobsQuery(service),
		GetVacancy:            easyjobquery.NewGetVacancyQuery(service),
		ListCompanies:         easyjobquery.NewListCompaniesQuery(service),
		ListPopularCompanies:  easyjobquery.NewListPopularCompaniesQuery(service),
		GetCompany:            easyjobquery.NewGetCompanyQuery(service),
		GetMyCompany:          easyjobquery.NewGetMyCompanyQuery(service),
		ListResumes:           easyjobquery.NewListResumesQuery(service),
		ListApplications:      easyjobquery.NewListApplicationsQuery(service),
		ListCategories:        easyjobquery.NewListCategoriesQuery(service),
		ListSkills:            easyjobquery.NewListSkillsQuery(service),
		GetContact:            easyjobquery.NewGetContactQuery(service),
		CheckHealth:           easyjobquery.NewCheckHealthQuery(service),
		GetStats:              easyjobquery.NewGetStatsQuery(service),
	}
	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

var _ CommandQueryService = (*Client)(nil)
