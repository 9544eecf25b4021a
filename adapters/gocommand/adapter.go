package gocommand

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command"
	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	easyjobcommand "github.com/goliatone/go-easyjob/command"
	easyjobquery "github.com/goliatone/go-easyjob/query"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
)

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type RegistryAdapter struct {
	registry *command.Registry
}

func NewRegistryAdapter(registry *command.Registry) *RegistryAdapter {
	if registry == nil {
		registry = command.NewRegistry()
	}
	return &RegistryAdapter{registry: registry}
}

func (a *RegistryAdapter) Registry() *command.Registry {
	if a == nil {
		return nil
	}
	return a.registry
}

func (a *RegistryAdapter) RegisterCommand(cmd any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(cmd)
}

func (a *RegistryAdapter) RegisterQuery(qry any) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.RegisterCommand(qry)
}

func (a *RegistryAdapter) AddResolver(key string, resolver command.Resolver) error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.AddResolver(strings.TrimSpace(key), resolver)
}

func (a *RegistryAdapter) AddQueueResolver(key string, queueRegistry *jobqueuecommand.Registry) error {
	if queueRegistry == nil {
		return fmt.Errorf("gocommand: queue registry is required")
	}
	return a.AddResolver(key, jobqueuecommand.QueueResolver(queueRegistry))
}

func (a *RegistryAdapter) HasResolver(key string) bool {
	if a == nil || a.registry == nil {
		return false
	}
	return a.registry.HasResolver(strings.TrimSpace(key))
}

func (a *RegistryAdapter) Initialize() error {
	if a == nil || a.registry == nil {
		return fmt.Errorf("gocommand: registry is not configured")
	}
	return a.registry.Initialize()
}

func SubscribeCommand[T any](cmd command.Commander[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(cmd, runnerOpts...)
}

func SubscribeCommandFunc[T any](handler command.CommandFunc[T], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeCommand(handler, runnerOpts...)
}

func SubscribeQuery[T any, R any](qry command.Querier[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func SubscribeQueryFunc[T any, R any](qry command.QueryFunc[T, R], runnerOpts ...runner.Option) commanddispatcher.Subscription {
	return commanddispatcher.SubscribeQuery(qry, runnerOpts...)
}

func Dispatch[T any](ctx context.Context, msg T) error {
	return commanddispatcher.Dispatch(ctx, msg)
}

func Query[T any, R any](ctx context.Context, msg T) (R, error) {
	return commanddispatcher.Query[T, R](ctx, msg)
}

func RegisterAndSubscribe[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if cmd == nil {
		return nil, fmt.Errorf("gocommand: command is required")
	}
	subscription := SubscribeCommand(cmd, runnerOpts...)
	if err := adapter.RegisterCommand(cmd); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

func RegisterAndSubscribeQuery[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts ...runner.Option,
) (commanddispatcher.Subscription, error) {
	if adapter == nil || adapter.registry == nil {
		return nil, fmt.Errorf("gocommand: registry is not configured")
	}
	if qry == nil {
		return nil, fmt.Errorf("gocommand: query is required")
	}
	subscription := SubscribeQuery(qry, runnerOpts...)
	if err := adapter.RegisterQuery(qry); err != nil {
		if subscription != nil {
			subscription.Unsubscribe()
		}
		return nil, err
	}
	return subscription, nil
}

// Subscriptions groups the dispatcher subscriptions created by RegisterClient.
type Subscriptions []commanddispatcher.Subscription

func (s Subscriptions) Unsubscribe() {
	for _, subscription := range s {
		if subscription != nil {
			subscription.Unsubscribe()
		}
	}
}

// RegisterClient registers and subscribes every easyjob command and query.
// On error, subscriptions created so far are removed.
func RegisterClient(
	adapter *RegistryAdapter,
	writes easyjobcommand.MutatingService,
	reads easyjobquery.ReadService,
	runnerOpts ...runner.Option,
) (Subscriptions, error) {
	if writes == nil || reads == nil {
		return nil, fmt.Errorf("gocommand: mutating and read services are required")
	}
	var subs Subscriptions
	steps := []func() (commanddispatcher.Subscription, error){
		cmdStep(adapter, easyjobcommand.NewLoginCommand(writes), runnerOpts),
		cmdStep(adapter, easyjobcommand.NewLogoutCommand(writes), runnerOpts),
		cmdStep(adapter, easyjobcommand.NewRefreshSessionCommand(writes), runnerOpts),
		cmdStep(adapter, easyjobcommand.NewRegisterCommand(writes), runnerOpts),
		cmdStep(adapter, easyjobcommand.NewRegisterAndLoginCommand(writes), runnerOpts),
		cmdStep(adapter, easyjobcommand.NewUpdateCurrentUserCommand(writes), runnerOpts),
		cmdStep(adapter, easyjobcommand.NewCreateJobCommand(writes), runnerOpts),
		cmdStep(adapter, easyjobcommand.NewUpdateJobCommand(writes), runnerOpts),
		cmdStep(adapter, easyjobcommand.NewDeleteJobCommand(writes), runnerOpts),
		cmdStep(adapter, easyjobcommand.NewApplyToVacancyCommand(writes), runnerOpts),
		cmdStep(adapter, easyjobcommand.NewUpdateApplicationStatusCommand(writes), runnerOpts),
		cmdStep(adapter, easyjobcommand.NewCreateResumeCommand(writes), runnerOpts),
		cmdStep(adapter, easyjobcommand.NewCreateCompanyCommand(writes), runnerOpts),
		cmdStep(adapter, easyjobcommand.NewUpdateCompanyCommand(writes), runnerOpts),
		queryStep(adapter, easyjobquery.NewGetCurrentUserQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewSessionStateQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewListVacanciesQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewListFeaturedVacanciesQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewListEmployerJobsQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewGetVacancyQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewListCompaniesQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewListPopularCompaniesQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewGetCompanyQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewGetMyCompanyQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewListResumesQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewListApplicationsQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewListCategoriesQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewListSkillsQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewGetContactQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewCheckHealthQuery(reads), runnerOpts),
		queryStep(adapter, easyjobquery.NewGetStatsQuery(reads), runnerOpts),
	}
	for _, step := range steps {
		subscription, err := step()
		if err != nil {
			subs.Unsubscribe()
			return nil, err
		}
		subs = append(subs, subscription)
	}
	return subs, nil
}

func cmdStep[T any](
	adapter *RegistryAdapter,
	cmd command.Commander[T],
	runnerOpts []runner.Option,
) func() (commanddispatcher.Subscription, error) {
	return func() (commanddispatcher.Subscription, error) {
		return RegisterAndSubscribe(adapter, cmd, runnerOpts...)
	}
}

func queryStep[T any, R any](
	adapter *RegistryAdapter,
	qry command.Querier[T, R],
	runnerOpts []runner.Option,
) func() (commanddispatcher.Subscription, error) {
	return func() (commanddispatcher.Subscription, error) {
		return RegisterAndSubscribeQuery(adapter, qry, runnerOpts...)
	}
}
