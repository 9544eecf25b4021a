package query

import (
	"encoding/json"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-easyjob/core"
)

var (
	_ gocmd.Querier[GetCurrentUserMessage, json.RawMessage]          = (*GetCurrentUserQuery)(nil)
	_ gocmd.Querier[SessionStateMessage, core.SessionState]          = (*SessionStateQuery)(nil)
	_ gocmd.Querier[ListVacanciesMessage, []json.RawMessage]         = (*ListVacanciesQuery)(nil)
	_ gocmd.Querier[ListFeaturedVacanciesMessage, []json.RawMessage] = (*ListFeaturedVacanciesQuery)(nil)
	_ gocmd.Querier[ListEmployerJobsMessage, []json.RawMessage]      = (*ListEmployerJobsQuery)(nil)
	_ gocmd.Querier[GetVacancyMessage, json.RawMessage]              = (*GetVacancyQuery)(nil)
	_ gocmd.Querier[ListCompaniesMessage, []json.RawMessage]         = (*ListCompaniesQuery)(nil)
	_ gocmd.Querier[ListPopularCompaniesMessage, []json.RawMessage]  = (*ListPopularCompaniesQuery)(nil)
	_ gocmd.Querier[GetCompanyMessage, json.RawMessage]              = (*GetCompanyQuery)(nil)
	_ gocmd.Querier[GetMyCompanyMessage, json.RawMessage]            = (*GetMyCompanyQuery)(nil)
	_ gocmd.Querier[ListResumesMessage, []json.RawMessage]           = (*ListResumesQuery)(nil)
	_ gocmd.Querier[ListApplicationsMessage, []json.RawMessage]      = (*ListApplicationsQuery)(nil)
	_ gocmd.Querier[ListCategoriesMessage, []json.RawMessage]        = (*ListCategoriesQuery)(nil)
	_ gocmd.Querier[ListSkillsMessage, []json.RawMessage]            = (*ListSkillsQuery)(nil)
	_ gocmd.Querier[GetContactMessage, json.RawMessage]              = (*GetContactQuery)(nil)
	_ gocmd.Querier[CheckHealthMessage, bool]                        = (*CheckHealthQuery)(nil)
	_ gocmd.Querier[GetStatsMessage, int]                            = (*GetStatsQuery)(nil)

	_ ReadService = (*core.Client)(nil)
)
