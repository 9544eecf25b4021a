package command

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-easyjob/core"
)

var (
	_ gocmd.Commander[LoginMessage]                   = (*LoginCommand)(nil)
	_ gocmd.Commander[LogoutMessage]                  = (*LogoutCommand)(nil)
	_ gocmd.Commander[RefreshSessionMessage]          = (*RefreshSessionCommand)(nil)
	_ gocmd.Commander[RegisterMessage]                = (*RegisterCommand)(nil)
	_ gocmd.Commander[RegisterAndLoginMessage]        = (*RegisterAndLoginCommand)(nil)
	_ gocmd.Commander[UpdateCurrentUserMessage]       = (*UpdateCurrentUserCommand)(nil)
	_ gocmd.Commander[CreateJobMessage]               = (*CreateJobCommand)(nil)
	_ gocmd.Commander[UpdateJobMessage]               = (*UpdateJobCommand)(nil)
	_ gocmd.Commander[DeleteJobMessage]               = (*DeleteJobCommand)(nil)
	_ gocmd.Commander[ApplyToVacancyMessage]          = (*ApplyToVacancyCommand)(nil)
	_ gocmd.Commander[UpdateApplicationStatusMessage] = (*UpdateApplicationStatusCommand)(nil)
	_ gocmd.Commander[CreateResumeMessage]            = (*CreateResumeCommand)(nil)
	_ gocmd.Commander[CreateCompanyMessage]           = (*CreateCompanyCommand)(nil)
	_ gocmd.Commander[UpdateCompanyMessage]           = (*UpdateCompanyCommand)(nil)

	_ MutatingService = (*core.Client)(nil)
)
