package easyjob_test

import (
	"context"
	"io/fs"
	"net/http/httptest"
	"path/filepath"
	"testing"

	easyjob "github.com/goliatone/go-easyjob"
	"github.com/goliatone/go-easyjob/core"
	sqlstore "github.com/goliatone/go-easyjob/store/sql"
)

func testConfigOption() easyjob.Option {
	return easyjob.WithConfigProvider(core.NewCfgxConfigProvider(nil))
}

func TestMigrationsFSCarriesBothDialects(t *testing.T) {
	for _, path := range []string{
		"data/sql/migrations/00001_easyjob_credentials.up.sql",
		"data/sql/migrations/00001_easyjob_credentials.down.sql",
		"data/sql/migrations/sqlite/00001_easyjob_credentials.up.sql",
		"data/sql/migrations/sqlite/00001_easyjob_credentials.down.sql",
	} {
		if _, err := fs.Stat(easyjob.GetMigrationsFS(), path); err != nil {
			t.Fatalf("expected embedded %s: %v", path, err)
		}
	}
}

func TestNewClientDefaultsToRESTTransport(t *testing.T) {
	server := httptest.NewServer(apiHandler(t))
	defer server.Close()

	client, err := easyjob.NewClient(easyjob.Config{BaseURL: server.URL + "/api/v1"}, testConfigOption())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	pair, err := client.Login(context.Background(), "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login over http: %v", err)
	}
	if pair.Access != "access-1" {
		t.Fatalf("unexpected pair %+v", pair)
	}
}

func TestSetupPersistsCredentialsAcrossRuntimes(t *testing.T) {
	server := httptest.NewServer(apiHandler(t))
	defer server.Close()

	ctx := context.Background()
	cfg := easyjob.Config{BaseURL: server.URL + "/api/v1"}
	storeCfg := easyjob.StoreConfig{
		Driver:    sqlstore.DriverSQLite,
		DSN:       "file:" + filepath.Join(t.TempDir(), "easyjob.db") + "?cache=shared",
		Namespace: "ada",
		Cache:     true,
	}

	first, err := easyjob.Setup(ctx, cfg, storeCfg, testConfigOption())
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := first.Client.Login(ctx, "ada@example.com", "s3cret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := easyjob.Setup(ctx, cfg, storeCfg, testConfigOption())
	if err != nil {
		t.Fatalf("second setup: %v", err)
	}
	defer second.Close()
	state, err := second.Client.Session(ctx)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if !state.HasAccessToken || !state.HasRefreshToken {
		t.Fatalf("expected restored slots, got %+v", state)
	}
	user, ok, err := second.Client.RestoreSession(ctx)
	if err != nil || !ok || len(user) == 0 {
		t.Fatalf("expected restored session, got %s %v %v", user, ok, err)
	}

	if err := second.Client.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, found, err := second.Store.Get(ctx, easyjob.SlotAccessToken); err != nil || found {
		t.Fatalf("expected access slot cleared, found=%v err=%v", found, err)
	}
}

func TestSetupRejectsUnknownDriver(t *testing.T) {
	_, err := easyjob.Setup(context.Background(), easyjob.Config{}, easyjob.StoreConfig{Driver: "oracle", DSN: "x"})
	if err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}

func TestRuntimeCloseNil(t *testing.T) {
	var runtime *easyjob.Runtime
	if err := runtime.Close(); err != nil {
		t.Fatalf("expected nil close, got %v", err)
	}
}
