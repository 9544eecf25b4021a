package command

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-easyjob/core"
	goerrors "github.com/goliatone/go-errors"
)

type stubMutatingService struct {
	calls []string
	err   error
}

func (s *stubMutatingService) record(call string) (json.RawMessage, error) {
	s.calls = append(s.calls, call)
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(`{"call":"` + call + `"}`), nil
}

func (s *stubMutatingService) Login(_ context.Context, email string, _ string) (core.CredentialPair, error) {
	s.calls = append(s.calls, "login:"+email)
	return core.CredentialPair{Access: "access-1", Refresh: "refresh-1"}, s.err
}

func (s *stubMutatingService) Logout(context.Context) error {
	s.calls = append(s.calls, "logout")
	return s.err
}

func (s *stubMutatingService) RefreshToken(context.Context) error {
	s.calls = append(s.calls, "refresh")
	return s.err
}

func (s *stubMutatingService) Register(_ context.Context, _ any) (json.RawMessage, error) {
	return s.record("register")
}

func (s *stubMutatingService) RegisterAndLogin(_ context.Context, in core.RegistrationInput) (json.RawMessage, error) {
	return s.record("register_and_login:" + in.Email)
}

func (s *stubMutatingService) UpdateCurrentUser(context.Context, *core.MultipartBody) (json.RawMessage, error) {
	return s.record("update_user")
}

func (s *stubMutatingService) CreateJob(context.Context, any) (json.RawMessage, error) {
	return s.record("create_job")
}

func (s *stubMutatingService) UpdateJob(_ context.Context, id string, _ any) (json.RawMessage, error) {
	return s.record("update_job:" + id)
}

func (s *stubMutatingService) DeleteJob(_ context.Context, id string) error {
	_, err := s.record("delete_job:" + id)
	return err
}

func (s *stubMutatingService) ApplyToVacancy(_ context.Context, vacancyID string, resumeID string, _ string) (json.RawMessage, error) {
	return s.record("apply:" + vacancyID + ":" + resumeID)
}

func (s *stubMutatingService) UpdateApplicationStatus(_ context.Context, id string, status core.ApplicationStatus) (json.RawMessage, error) {
	return s.record("status:" + id + ":" + string(status))
}

func (s *stubMutatingService) CreateResume(context.Context, *core.MultipartBody) (json.RawMessage, error) {
	return s.record("create_resume")
}

func (s *stubMutatingService) CreateCompany(context.Context, *core.MultipartBody) (json.RawMessage, error) {
	return s.record("create_company")
}

func (s *stubMutatingService) UpdateCompany(_ context.Context, id string, _ *core.MultipartBody) (json.RawMessage, error) {
	return s.record("update_company:" + id)
}

func TestLoginCommand_StoresCredentialPair(t *testing.T) {
	svc := &stubMutatingService{}
	collector := gocmd.NewResult[core.CredentialPair]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	if err := NewLoginCommand(svc).Execute(ctx, LoginMessage{Email: "ada@example.com", Password: "s3cret"}); err != nil {
		t.Fatalf("execute login: %v", err)
	}
	pair, ok := collector.Load()
	if !ok || pair.Access != "access-1" {
		t.Fatalf("expected stored pair, got %+v %v", pair, ok)
	}
	if svc.calls[0] != "login:ada@example.com" {
		t.Fatalf("unexpected call %v", svc.calls)
	}
}

func TestPayloadCommands_DelegateAndStoreResult(t *testing.T) {
	form := core.NewMultipartBody().AddField("name", "Acme")
	cases := []struct {
		name string
		run  func(ctx context.Context, svc *stubMutatingService) error
		call string
	}{
		{"register", func(ctx context.Context, svc *stubMutatingService) error {
			return NewRegisterCommand(svc).Execute(ctx, RegisterMessage{UserData: map[string]any{"email": "a@b.c"}})
		}, "register"},
		{"register and login", func(ctx context.Context, svc *stubMutatingService) error {
			return NewRegisterAndLoginCommand(svc).Execute(ctx, RegisterAndLoginMessage{Input: core.RegistrationInput{Email: "a@b.c"}})
		}, "register_and_login:a@b.c"},
		{"update user", func(ctx context.Context, svc *stubMutatingService) error {
			return NewUpdateCurrentUserCommand(svc).Execute(ctx, UpdateCurrentUserMessage{Form: form})
		}, "update_user"},
		{"create job", func(ctx context.Context, svc *stubMutatingService) error {
			return NewCreateJobCommand(svc).Execute(ctx, CreateJobMessage{Job: map[string]any{"title": "Go"}})
		}, "create_job"},
		{"update job", func(ctx context.Context, svc *stubMutatingService) error {
			return NewUpdateJobCommand(svc).Execute(ctx, UpdateJobMessage{JobID: "3"})
		}, "update_job:3"},
		{"apply", func(ctx context.Context, svc *stubMutatingService) error {
			return NewApplyToVacancyCommand(svc).Execute(ctx, ApplyToVacancyMessage{VacancyID: "1", ResumeID: "2"})
		}, "apply:1:2"},
		{"status", func(ctx context.Context, svc *stubMutatingService) error {
			return NewUpdateApplicationStatusCommand(svc).Execute(ctx, UpdateApplicationStatusMessage{ApplicationID: "4", Status: core.ApplicationRejected})
		}, "status:4:rejected"},
		{"create resume", func(ctx context.Context, svc *stubMutatingService) error {
			return NewCreateResumeCommand(svc).Execute(ctx, CreateResumeMessage{Form: form})
		}, "create_resume"},
		{"create company", func(ctx context.Context, svc *stubMutatingService) error {
			return NewCreateCompanyCommand(svc).Execute(ctx, CreateCompanyMessage{Form: form})
		}, "create_company"},
		{"update company", func(ctx context.Context, svc *stubMutatingService) error {
			return NewUpdateCompanyCommand(svc).Execute(ctx, UpdateCompanyMessage{CompanyID: "8", Form: form})
		}, "update_company:8"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubMutatingService{}
			collector := gocmd.NewResult[json.RawMessage]()
			ctx := gocmd.ContextWithResult(context.Background(), collector)
			if err := tc.run(ctx, svc); err != nil {
				t.Fatalf("execute: %v", err)
			}
			if len(svc.calls) != 1 || svc.calls[0] != tc.call {
				t.Fatalf("expected call %q, got %v", tc.call, svc.calls)
			}
			payload, ok := collector.Load()
			if !ok || string(payload) != `{"call":"`+tc.call+`"}` {
				t.Fatalf("expected stored payload, got %s %v", payload, ok)
			}
		})
	}
}

func TestSessionCommands_Delegate(t *testing.T) {
	svc := &stubMutatingService{}
	ctx := context.Background()
	if err := NewRefreshSessionCommand(svc).Execute(ctx, RefreshSessionMessage{}); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if err := NewLogoutCommand(svc).Execute(ctx, LogoutMessage{}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := NewDeleteJobCommand(svc).Execute(ctx, DeleteJobMessage{JobID: "9"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	want := []string{"refresh", "logout", "delete_job:9"}
	for i, call := range want {
		if svc.calls[i] != call {
			t.Fatalf("expected %v, got %v", want, svc.calls)
		}
	}
}

func TestCommands_PropagateServiceErrors(t *testing.T) {
	boom := errors.New("backend unavailable")
	svc := &stubMutatingService{err: boom}
	collector := gocmd.NewResult[json.RawMessage]()
	ctx := gocmd.ContextWithResult(context.Background(), collector)

	if err := NewCreateJobCommand(svc).Execute(ctx, CreateJobMessage{}); !errors.Is(err, boom) {
		t.Fatalf("expected service error, got %v", err)
	}
	if _, ok := collector.Load(); ok {
		t.Fatalf("failed commands must not store a result")
	}
}

func TestMessages_Validate(t *testing.T) {
	form := core.NewMultipartBody()
	invalid := map[string]interface{ Validate() error }{
		"update job without id":     UpdateJobMessage{},
		"delete job without id":     DeleteJobMessage{JobID: " "},
		"apply without resume":      ApplyToVacancyMessage{VacancyID: "1"},
		"status without id":         UpdateApplicationStatusMessage{Status: core.ApplicationPending},
		"unknown status":            UpdateApplicationStatusMessage{ApplicationID: "1", Status: "hired"},
		"resume without form":       CreateResumeMessage{},
		"company without form":      CreateCompanyMessage{},
		"update company without id": UpdateCompanyMessage{Form: form},
		"update user without form":  UpdateCurrentUserMessage{},
	}
	for name, msg := range invalid {
		err := msg.Validate()
		var rich *goerrors.Error
		if !goerrors.As(err, &rich) {
			t.Fatalf("%s: expected go-errors envelope, got %v", name, err)
		}
		if rich.Category != goerrors.CategoryValidation || rich.TextCode != core.ErrorBadInput {
			t.Fatalf("%s: unexpected envelope %q %q", name, rich.Category, rich.TextCode)
		}
	}

	valid := []interface{ Validate() error }{
		UpdateJobMessage{JobID: "1"},
		ApplyToVacancyMessage{VacancyID: "1", ResumeID: "2"},
		UpdateApplicationStatusMessage{ApplicationID: "1", Status: core.ApplicationReviewing},
		UpdateCompanyMessage{CompanyID: "1", Form: form},
	}
	for _, msg := range valid {
		if err := msg.Validate(); err != nil {
			t.Fatalf("expected %T to validate, got %v", msg, err)
		}
	}
}

func TestCommand_NilServiceReturnsRichError(t *testing.T) {
	var cmd *LoginCommand
	err := cmd.Execute(context.Background(), LoginMessage{})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryInternal {
		t.Fatalf("expected internal category, got %q", rich.Category)
	}
}
