package command

import (
	"context"
	"encoding/json"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-easyjob/core"
)

// MutatingService is the write side of the API client.
type MutatingService interface {
	Login(ctx context.Context, email string, password string) (core.CredentialPair, error)
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context) error
	Register(ctx context.Context, userData any) (json.RawMessage, error)
	RegisterAndLogin(ctx context.Context, in core.RegistrationInput) (json.RawMessage, error)
	UpdateCurrentUser(ctx context.Context, form *core.MultipartBody) (json.RawMessage, error)
	CreateJob(ctx context.Context, jobData any) (json.RawMessage, error)
	UpdateJob(ctx context.Context, id string, jobData any) (json.RawMessage, error)
	DeleteJob(ctx context.Context, id string) error
	ApplyToVacancy(ctx context.Context, vacancyID string, resumeID string, coverLetter string) (json.RawMessage, error)
	UpdateApplicationStatus(ctx context.Context, id string, status core.ApplicationStatus) (json.RawMessage, error)
	CreateResume(ctx context.Context, form *core.MultipartBody) (json.RawMessage, error)
	CreateCompany(ctx context.Context, form *core.MultipartBody) (json.RawMessage, error)
	UpdateCompany(ctx context.Context, id string, form *core.MultipartBody) (json.RawMessage, error)
}

type LoginCommand struct {
	service MutatingService
}

func NewLoginCommand(service MutatingService) *LoginCommand {
	return &LoginCommand{service: service}
}

func (c *LoginCommand) Execute(ctx context.Context, msg LoginMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: login service is required")
	}
	pair, err := c.service.Login(ctx, msg.Email, msg.Password)
	if err != nil {
		return err
	}
	storeResult(ctx, pair)
	return nil
}

type LogoutCommand struct {
	service MutatingService
}

func NewLogoutCommand(service MutatingService) *LogoutCommand {
	return &LogoutCommand{service: service}
}

func (c *LogoutCommand) Execute(ctx context.Context, _ LogoutMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: logout service is required")
	}
	return c.service.Logout(ctx)
}

type RefreshSessionCommand struct {
	service MutatingService
}

func NewRefreshSessionCommand(service MutatingService) *RefreshSessionCommand {
	return &RefreshSessionCommand{service: service}
}

func (c *RefreshSessionCommand) Execute(ctx context.Context, _ RefreshSessionMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: refresh service is required")
	}
	return c.service.RefreshToken(ctx)
}

type RegisterCommand struct {
	service MutatingService
}

func NewRegisterCommand(service MutatingService) *RegisterCommand {
	return &RegisterCommand{service: service}
}

func (c *RegisterCommand) Execute(ctx context.Context, msg RegisterMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: register service is required")
	}
	return storeRaw(ctx)(c.service.Register(ctx, msg.UserData))
}

type RegisterAndLoginCommand struct {
	service MutatingService
}

func NewRegisterAndLoginCommand(service MutatingService) *RegisterAndLoginCommand {
	return &RegisterAndLoginCommand{service: service}
}

func (c *RegisterAndLoginCommand) Execute(ctx context.Context, msg RegisterAndLoginMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: register service is required")
	}
	return storeRaw(ctx)(c.service.RegisterAndLogin(ctx, msg.Input))
}

type UpdateCurrentUserCommand struct {
	service MutatingService
}

func NewUpdateCurrentUserCommand(service MutatingService) *UpdateCurrentUserCommand {
	return &UpdateCurrentUserCommand{service: service}
}

func (c *UpdateCurrentUserCommand) Execute(ctx context.Context, msg UpdateCurrentUserMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: user service is required")
	}
	return storeRaw(ctx)(c.service.UpdateCurrentUser(ctx, msg.Form))
}

type CreateJobCommand struct {
	service MutatingService
}

func NewCreateJobCommand(service MutatingService) *CreateJobCommand {
	return &CreateJobCommand{service: service}
}

func (c *CreateJobCommand) Execute(ctx context.Context, msg CreateJobMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: vacancy service is required")
	}
	return storeRaw(ctx)(c.service.CreateJob(ctx, msg.Job))
}

type UpdateJobCommand struct {
	service MutatingService
}

func NewUpdateJobCommand(service MutatingService) *UpdateJobCommand {
	return &UpdateJobCommand{service: service}
}

func (c *UpdateJobCommand) Execute(ctx context.Context, msg UpdateJobMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: vacancy service is required")
	}
	return storeRaw(ctx)(c.service.UpdateJob(ctx, msg.JobID, msg.Job))
}

type DeleteJobCommand struct {
	service MutatingService
}

func NewDeleteJobCommand(service MutatingService) *DeleteJobCommand {
	return &DeleteJobCommand{service: service}
}

func (c *DeleteJobCommand) Execute(ctx context.Context, msg DeleteJobMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: vacancy service is required")
	}
	return c.service.DeleteJob(ctx, msg.JobID)
}

type ApplyToVacancyCommand struct {
	service MutatingService
}

func NewApplyToVacancyCommand(service MutatingService) *ApplyToVacancyCommand {
	return &ApplyToVacancyCommand{service: service}
}

func (c *ApplyToVacancyCommand) Execute(ctx context.Context, msg ApplyToVacancyMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: vacancy service is required")
	}
	return storeRaw(ctx)(c.service.ApplyToVacancy(ctx, msg.VacancyID, msg.ResumeID, msg.CoverLetter))
}

type UpdateApplicationStatusCommand struct {
	service MutatingService
}

func NewUpdateApplicationStatusCommand(service MutatingService) *UpdateApplicationStatusCommand {
	return &UpdateApplicationStatusCommand{service: service}
}

func (c *UpdateApplicationStatusCommand) Execute(ctx context.Context, msg UpdateApplicationStatusMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: application service is required")
	}
	return storeRaw(ctx)(c.service.UpdateApplicationStatus(ctx, msg.ApplicationID, msg.Status))
}

type CreateResumeCommand struct {
	service MutatingService
}

func NewCreateResumeCommand(service MutatingService) *CreateResumeCommand {
	return &CreateResumeCommand{service: service}
}

func (c *CreateResumeCommand) Execute(ctx context.Context, msg CreateResumeMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: resume service is required")
	}
	return storeRaw(ctx)(c.service.CreateResume(ctx, msg.Form))
}

type CreateCompanyCommand struct {
	service MutatingService
}

func NewCreateCompanyCommand(service MutatingService) *CreateCompanyCommand {
	return &CreateCompanyCommand{service: service}
}

func (c *CreateCompanyCommand) Execute(ctx context.Context, msg CreateCompanyMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: company service is required")
	}
	return storeRaw(ctx)(c.service.CreateCompany(ctx, msg.Form))
}

type UpdateCompanyCommand struct {
	service MutatingService
}

func NewUpdateCompanyCommand(service MutatingService) *UpdateCompanyCommand {
	return &UpdateCompanyCommand{service: service}
}

func (c *UpdateCompanyCommand) Execute(ctx context.Context, msg UpdateCompanyMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: company service is required")
	}
	return storeRaw(ctx)(c.service.UpdateCompany(ctx, msg.CompanyID, msg.Form))
}

func storeRaw(ctx context.Context) func(json.RawMessage, error) error {
	return func(payload json.RawMessage, err error) error {
		if err != nil {
			return err
		}
		storeResult(ctx, payload)
		return nil
	}
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
