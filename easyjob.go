package easyjob

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/goliatone/go-easyjob/core"
	"github.com/goliatone/go-easyjob/migrations"
	sqlstore "github.com/goliatone/go-easyjob/store/sql"
	"github.com/goliatone/go-easyjob/transport"
	persistence "github.com/goliatone/go-persistence-bun"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

type Config = core.Config

type Option = core.Option

type Client = core.Client

type CredentialStore = core.CredentialStore
type CredentialPair = core.CredentialPair
type TokenSlot = core.TokenSlot
type SessionState = core.SessionState
type TokenClaims = core.TokenClaims
type RegistrationInput = core.RegistrationInput
type ApplicationStatus = core.ApplicationStatus
type MultipartBody = core.MultipartBody
type TransportAdapter = core.TransportAdapter
type HTTPError = core.HTTPError

const (
	SlotAccessToken  = core.SlotAccessToken
	SlotRefreshToken = core.SlotRefreshToken
)

var (
	ErrNoRefreshToken = core.ErrNoRefreshToken
	ErrRefreshFailed  = core.ErrRefreshFailed
	ErrLoginFailed    = core.ErrLoginFailed
	ErrAuthFailed     = core.ErrAuthFailed
)

var (
	WithLogger               = core.WithLogger
	WithLoggerProvider       = core.WithLoggerProvider
	WithMetricsRecorder      = core.WithMetricsRecorder
	WithErrorMapper          = core.WithErrorMapper
	WithConfigProvider       = core.WithConfigProvider
	WithOptionsResolver      = core.WithOptionsResolver
	WithCredentialStore      = core.WithCredentialStore
	WithTransport            = core.WithTransport
	WithAuthExpiredHandler   = core.WithAuthExpiredHandler
	WithRefreshCoalescing    = core.WithRefreshCoalescing
	WithRequestIDGenerator   = core.WithRequestIDGenerator
	NewMemoryCredentialStore = core.NewMemoryCredentialStore
	NewMultipartBody         = core.NewMultipartBody
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// NewClient builds a client that talks HTTP through the REST transport
// unless a WithTransport option overrides it.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	base := []Option{core.WithTransport(transport.NewRESTAdapter(nil))}
	return core.NewClient(cfg, append(base, opts...)...)
}

// StoreConfig selects the SQL database that holds the credential slots.
type StoreConfig struct {
	Driver      string
	DSN         string
	Namespace   string
	Debug       bool
	PingTimeout time.Duration

	// Cache puts a go-repository-cache read-through layer in front of the
	// SQL store. CacheTTL defaults to the cache library default.
	Cache    bool
	CacheTTL time.Duration
}

// Runtime is a client bound to a persistent credential store.
type Runtime struct {
	Client      *Client
	Store       CredentialStore
	Persistence *persistence.Client
}

func (r *Runtime) Close() error {
	if r == nil || r.Persistence == nil {
		return nil
	}
	return r.Persistence.Close()
}

// Setup opens the credential database, applies the embedded migrations for
// its dialect and returns a client whose tokens live in that database.
func Setup(ctx context.Context, cfg Config, storeCfg StoreConfig, opts ...Option) (*Runtime, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	conn := sqlstore.ConnectionConfig{
		Driver:      storeCfg.Driver,
		DSN:         storeCfg.DSN,
		Debug:       storeCfg.Debug,
		PingTimeout: storeCfg.PingTimeout,
	}
	client, err := sqlstore.Open(conn)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*Runtime, error) {
		_ = client.Close()
		return nil, err
	}

	dialect := conn.Dialect()
	if _, err := migrations.Register(ctx, func(_ context.Context, target string, _ string, fsys fs.FS) error {
		if target != dialect {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, migrations.WithSource(GetMigrationsFS()), migrations.WithValidationTargets(dialect)); err != nil {
		return fail(fmt.Errorf("easyjob: register migrations: %w", err))
	}
	if err := client.Migrate(ctx); err != nil {
		return fail(fmt.Errorf("easyjob: migrate credential store: %w", err))
	}

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		return fail(err)
	}
	sqlStore, err := factory.CredentialStore(strings.TrimSpace(storeCfg.Namespace))
	if err != nil {
		return fail(err)
	}
	var store CredentialStore = sqlStore
	if storeCfg.Cache {
		cacheCfg := repositorycache.DefaultConfig()
		if storeCfg.CacheTTL > 0 {
			cacheCfg.TTL = storeCfg.CacheTTL
		}
		cacheService, err := repositorycache.NewCacheService(cacheCfg)
		if err != nil {
			return fail(fmt.Errorf("easyjob: credential cache: %w", err))
		}
		cached, err := sqlstore.NewCachedCredentialStore(sqlStore, cacheService)
		if err != nil {
			return fail(err)
		}
		store = cached
	}

	clientOpts := append(append([]Option(nil), opts...), core.WithCredentialStore(store))
	api, err := NewClient(cfg, clientOpts...)
	if err != nil {
		return fail(err)
	}
	return &Runtime{Client: api, Store: store, Persistence: client}, nil
}
