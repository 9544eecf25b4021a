package sqlstore_test

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-easyjob/core"
	"github.com/goliatone/go-easyjob/migrations"
	sqlstore "github.com/goliatone/go-easyjob/store/sql"
	persistence "github.com/goliatone/go-persistence-bun"
)

func TestMigrationSmokeApplySQLite(t *testing.T) {
	client := newSQLiteClient(t)

	var tableName string
	if err := client.DB().NewRaw(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?",
		"easyjob_credentials",
	).Scan(context.Background(), &tableName); err != nil {
		t.Fatalf("query sqlite master: %v", err)
	}
	if tableName != "easyjob_credentials" {
		t.Fatalf("expected easyjob_credentials table, got %q", tableName)
	}
}

func TestCredentialStore_SetGetOverwriteClear(t *testing.T) {
	ctx := context.Background()
	store := newCredentialStore(t, newSQLiteClient(t), "")

	if store.Namespace() != sqlstore.DefaultNamespace {
		t.Fatalf("expected default namespace, got %q", store.Namespace())
	}
	if _, ok, err := store.Get(ctx, core.SlotAccessToken); err != nil || ok {
		t.Fatalf("expected empty slot, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, core.SlotAccessToken, "access-1"); err != nil {
		t.Fatalf("set access: %v", err)
	}
	if err := store.Set(ctx, core.SlotRefreshToken, "refresh-1"); err != nil {
		t.Fatalf("set refresh: %v", err)
	}
	if err := store.Set(ctx, core.SlotAccessToken, "access-2"); err != nil {
		t.Fatalf("overwrite access: %v", err)
	}
	value, ok, err := store.Get(ctx, core.SlotAccessToken)
	if err != nil || !ok || value != "access-2" {
		t.Fatalf("expected overwritten access token, got %q %v %v", value, ok, err)
	}
	value, ok, err = store.Get(ctx, core.SlotRefreshToken)
	if err != nil || !ok || value != "refresh-1" {
		t.Fatalf("expected refresh token, got %q %v %v", value, ok, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	for _, slot := range core.TokenSlots() {
		if _, ok, err := store.Get(ctx, slot); err != nil || ok {
			t.Fatalf("expected %s cleared, got ok=%v err=%v", slot, ok, err)
		}
	}
	if err := store.Set(ctx, core.TokenSlot(" "), "x"); err == nil {
		t.Fatalf("expected blank slot rejection")
	}
}

func TestCredentialStore_EmptyValueReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	store := newCredentialStore(t, newSQLiteClient(t), "")
	if err := store.Set(ctx, core.SlotRefreshToken, "refresh-1"); err != nil {
		t.Fatalf("set refresh: %v", err)
	}
	if err := store.Set(ctx, core.SlotRefreshToken, ""); err != nil {
		t.Fatalf("set empty refresh: %v", err)
	}
	if value, ok, err := store.Get(ctx, core.SlotRefreshToken); err != nil || ok || value != "" {
		t.Fatalf("expected empty value to read as absent, got %q %v %v", value, ok, err)
	}
}

func TestCredentialStore_NamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)
	alice := newCredentialStore(t, client, "alice")
	bob := newCredentialStore(t, client, "bob")

	if err := alice.Set(ctx, core.SlotAccessToken, "alice-access"); err != nil {
		t.Fatalf("set alice: %v", err)
	}
	if err := bob.Set(ctx, core.SlotAccessToken, "bob-access"); err != nil {
		t.Fatalf("set bob: %v", err)
	}
	if err := alice.Clear(ctx); err != nil {
		t.Fatalf("clear alice: %v", err)
	}
	if _, ok, _ := alice.Get(ctx, core.SlotAccessToken); ok {
		t.Fatalf("expected alice cleared")
	}
	value, ok, err := bob.Get(ctx, core.SlotAccessToken)
	if err != nil || !ok || value != "bob-access" {
		t.Fatalf("expected bob untouched, got %q %v %v", value, ok, err)
	}
}

func TestCredentialStore_ConcurrentWritesKeepOneRow(t *testing.T) {
	ctx := context.Background()
	client := newSQLiteClient(t)
	store := newCredentialStore(t, client, "")

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Set(ctx, core.SlotAccessToken, fmt.Sprintf("access-%d", i))
		}(i)
	}
	wg.Wait()

	var count int
	if err := client.DB().NewRaw(
		"SELECT COUNT(*) FROM easyjob_credentials WHERE namespace = ? AND slot = ?",
		sqlstore.DefaultNamespace, string(core.SlotAccessToken),
	).Scan(ctx, &count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single access row, got %d", count)
	}
}

func TestCredentialStore_DrivesClientSession(t *testing.T) {
	ctx := context.Background()
	store := newCredentialStore(t, newSQLiteClient(t), "session")
	if err := store.Set(ctx, core.SlotAccessToken, "opaque-access"); err != nil {
		t.Fatalf("seed access: %v", err)
	}

	client, err := core.NewClient(core.Config{BaseURL: "http://api.test/api/v1"},
		core.WithTransport(unusedTransport{}),
		core.WithCredentialStore(store),
		core.WithConfigProvider(core.NewCfgxConfigProvider(nil)),
	)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	state, err := client.Session(ctx)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if !state.HasAccessToken || state.HasRefreshToken {
		t.Fatalf("unexpected state %+v", state)
	}
	if err := client.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok, _ := store.Get(ctx, core.SlotAccessToken); ok {
		t.Fatalf("expected logout to clear the sql store")
	}
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	if _, err := sqlstore.Open(sqlstore.ConnectionConfig{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
	if _, err := sqlstore.Open(sqlstore.ConnectionConfig{Driver: "sqlite3"}); err == nil {
		t.Fatalf("expected missing dsn error")
	}
	if got := (sqlstore.ConnectionConfig{Driver: "PostgreSQL"}).Dialect(); got != migrations.DialectPostgres {
		t.Fatalf("expected postgres dialect, got %q", got)
	}
	if got := (sqlstore.ConnectionConfig{}).Dialect(); got != migrations.DialectSQLite {
		t.Fatalf("expected sqlite dialect by default, got %q", got)
	}
}

func TestRepositoryFactory_RequiresDB(t *testing.T) {
	if _, err := sqlstore.NewRepositoryFactory(nil); err == nil {
		t.Fatalf("expected error for nil client")
	}
	if _, err := sqlstore.NewRepositoryFactory("not a db"); err == nil {
		t.Fatalf("expected error for unsupported client")
	}
}

type unusedTransport struct{}

func (unusedTransport) Kind() string { return "unused" }

func (unusedTransport) Do(context.Context, core.TransportRequest) (core.TransportResponse, error) {
	return core.TransportResponse{}, fmt.Errorf("unexpected request")
}

func newCredentialStore(t *testing.T, client *persistence.Client, namespace string) *sqlstore.CredentialStore {
	t.Helper()
	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		t.Fatalf("new repository factory: %v", err)
	}
	store, err := factory.CredentialStore(namespace)
	if err != nil {
		t.Fatalf("new credential store: %v", err)
	}
	return store
}

func newSQLiteClient(t *testing.T) *persistence.Client {
	t.Helper()

	client, err := sqlstore.Open(sqlstore.ConnectionConfig{
		Driver: sqlstore.DriverSQLite,
		DSN:    fmt.Sprintf("file:easyjob-test-%d?mode=memory&cache=shared", time.Now().UnixNano()),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	_, err = migrations.Register(ctx, func(_ context.Context, dialect string, _ string, fsys fs.FS) error {
		if dialect != migrations.DialectSQLite {
			return nil
		}
		client.RegisterSQLMigrations(fsys)
		return nil
	}, migrations.WithSource(os.DirFS("../..")), migrations.WithValidationTargets(migrations.DialectSQLite))
	if err != nil {
		t.Fatalf("register migrations: %v", err)
	}
	if err := client.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return client
}
