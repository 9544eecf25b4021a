package command

import (
	"strings"

	"github.com/goliatone/go-easyjob/core"
)

const (
	TypeLogin                   = "easyjob.command.session.login"
	TypeLogout                  = "easyjob.command.session.logout"
	TypeRefreshSession          = "easyjob.command.session.refresh"
	TypeRegister                = "easyjob.command.user.register"
	TypeRegisterAndLogin        = "easyjob.command.user.register_and_login"
	TypeUpdateCurrentUser       = "easyjob.command.user.update_current"
	TypeCreateJob               = "easyjob.command.vacancy.create"
	TypeUpdateJob               = "easyjob.command.vacancy.update"
	TypeDeleteJob               = "easyjob.command.vacancy.delete"
	TypeApplyToVacancy          = "easyjob.command.vacancy.apply"
	TypeUpdateApplicationStatus = "easyjob.command.application.update_status"
	TypeCreateResume            = "easyjob.command.resume.create"
	TypeCreateCompany           = "easyjob.command.company.create"
	TypeUpdateCompany           = "easyjob.command.company.update"
)

// LoginMessage carries credentials as typed; the backend judges them.
type LoginMessage struct {
	Email    string
	Password string
}

func (LoginMessage) Type() string { return TypeLogin }

type LogoutMessage struct{}

func (LogoutMessage) Type() string { return TypeLogout }

type RefreshSessionMessage struct{}

func (RefreshSessionMessage) Type() string { return TypeRefreshSession }

// RegisterMessage forwards UserData untouched. The backend owns
// registration rules.
type RegisterMessage struct {
	UserData any
}

func (RegisterMessage) Type() string { return TypeRegister }

type RegisterAndLoginMessage struct {
	Input core.RegistrationInput
}

func (RegisterAndLoginMessage) Type() string { return TypeRegisterAndLogin }

type UpdateCurrentUserMessage struct {
	Form *core.MultipartBody
}

func (UpdateCurrentUserMessage) Type() string { return TypeUpdateCurrentUser }

func (m UpdateCurrentUserMessage) Validate() error {
	return requireForm(m.Form)
}

type CreateJobMessage struct {
	Job any
}

func (CreateJobMessage) Type() string { return TypeCreateJob }

type UpdateJobMessage struct {
	JobID string
	Job   any
}

func (UpdateJobMessage) Type() string { return TypeUpdateJob }

func (m UpdateJobMessage) Validate() error {
	return requireID("job_id", m.JobID)
}

type DeleteJobMessage struct {
	JobID string
}

func (DeleteJobMessage) Type() string { return TypeDeleteJob }

func (m DeleteJobMessage) Validate() error {
	return requireID("job_id", m.JobID)
}

type ApplyToVacancyMessage struct {
	VacancyID   string
	ResumeID    string
	CoverLetter string
}

func (ApplyToVacancyMessage) Type() string { return TypeApplyToVacancy }

func (m ApplyToVacancyMessage) Validate() error {
	if err := requireID("vacancy_id", m.VacancyID); err != nil {
		return err
	}
	return requireID("resume_id", m.ResumeID)
}

type UpdateApplicationStatusMessage struct {
	ApplicationID string
	Status        core.ApplicationStatus
}

func (UpdateApplicationStatusMessage) Type() string { return TypeUpdateApplicationStatus }

func (m UpdateApplicationStatusMessage) Validate() error {
	if err := requireID("application_id", m.ApplicationID); err != nil {
		return err
	}
	if !m.Status.Valid() {
		return commandValidationError("status", "must be one of pending, reviewing, shortlisted, rejected, accepted")
	}
	return nil
}

type CreateResumeMessage struct {
	Form *core.MultipartBody
}

func (CreateResumeMessage) Type() string { return TypeCreateResume }

func (m CreateResumeMessage) Validate() error {
	return requireForm(m.Form)
}

type CreateCompanyMessage struct {
	Form *core.MultipartBody
}

func (CreateCompanyMessage) Type() string { return TypeCreateCompany }

func (m CreateCompanyMessage) Validate() error {
	return requireForm(m.Form)
}

type UpdateCompanyMessage struct {
	CompanyID string
	Form      *core.MultipartBody
}

func (UpdateCompanyMessage) Type() string { return TypeUpdateCompany }

func (m UpdateCompanyMessage) Validate() error {
	if err := requireID("company_id", m.CompanyID); err != nil {
		return err
	}
	return requireForm(m.Form)
}

func requireID(field string, value string) error {
	if strings.TrimSpace(value) == "" {
		return commandValidationError(field, "is required")
	}
	return nil
}

func requireForm(form *core.MultipartBody) error {
	if form == nil {
		return commandValidationError("form", "is required")
	}
	return nil
}
