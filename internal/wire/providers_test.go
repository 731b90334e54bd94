package wire

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"venuehub/internal/config"
	"venuehub/internal/dbmysql"
	"venuehub/internal/messaging"
	"venuehub/internal/profile"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			SQLitePath:   filepath.Join(t.TempDir(), "venuehub.db"),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Messaging: config.MessagingConfig{
			Store:             "sqlite",
			AdminUserID:       "admin",
			LookupConcurrency: 2,
			EventWorkers:      1,
			EventBuffer:       8,
		},
		Breaker: config.BreakerConfig{MaxFailures: 3, IntervalSec: 60, TimeoutSec: 30},
		Logging: config.LoggingConfig{Level: "error", Format: "json", OutputPath: "stderr"},
	}
}

func TestProvideLogger(t *testing.T) {
	cfg := testConfig(t)

	logger, cleanup, err := ProvideLogger(cfg)
	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, logger)

	cfg.Logging.Level = "loud"
	_, _, err = ProvideLogger(cfg)
	assert.Error(t, err)
}

func TestWarnInsecureConfig(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := testConfig(t)

	warnInsecureConfig(cfg, zap.New(core))
	assert.Equal(t, 1, logs.FilterMessage("JWT_SECRET is not set, every bearer token will be rejected").Len())

	cfg.Auth.JWTSecret = "s3cret"
	warnInsecureConfig(cfg, zap.New(core))
	assert.Equal(t, 1, logs.Len())
}

func TestProvideMessageStore(t *testing.T) {
	cfg := testConfig(t)
	db, cleanupDB, err := ProvideDatabase(cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanupDB()

	for _, kind := range []string{"sqlite", "memory"} {
		t.Run(kind, func(t *testing.T) {
			cfg.Messaging.Store = kind
			store, cleanup, err := ProvideMessageStore(cfg, db, zap.NewNop())
			require.NoError(t, err)
			defer cleanup()

			_, ok := store.(*messaging.GuardedStore)
			assert.True(t, ok)

			msg, err := store.Insert(context.Background(), "A", "V", "hello")
			require.NoError(t, err)
			received, err := store.FetchReceived(context.Background(), "V")
			require.NoError(t, err)
			require.Len(t, received, 1)
			assert.Equal(t, msg.ID, received[0].ID)
		})
	}

	cfg.Messaging.Store = "cassandra"
	_, _, err = ProvideMessageStore(cfg, db, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported message store")
}

func TestProvideProfileDirectory_WithoutCache(t *testing.T) {
	cfg := testConfig(t)
	db, cleanupDB, err := ProvideDatabase(cfg, zap.NewNop())
	require.NoError(t, err)
	defer cleanupDB()

	repo := profile.NewRepository(db)
	require.NoError(t, repo.CreateProfile(context.Background(), &dbmysql.Profile{UserID: "A", DisplayName: "Alice"}))

	directory, cleanup, err := ProvideProfileDirectory(cfg, db, zap.NewNop())
	require.NoError(t, err)
	defer cleanup()

	name, ok, err := directory.LookupDisplayName(context.Background(), "A")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Alice", name)
}

func TestProvideService_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	log := zap.NewNop()
	db, cleanupDB, err := ProvideDatabase(cfg, log)
	require.NoError(t, err)
	defer cleanupDB()

	store, cleanupStore, err := ProvideMessageStore(cfg, db, log)
	require.NoError(t, err)
	defer cleanupStore()
	directory, cleanupDir, err := ProvideProfileDirectory(cfg, db, log)
	require.NoError(t, err)
	defer cleanupDir()
	events, shutdown := ProvideEventManager(cfg, log)
	defer shutdown()

	svc := ProvideService(cfg, store, ProvideAggregator(cfg, directory, log), events, log)

	_, err = svc.SendAdminMessage(context.Background(), "V", "", "where is my invoice?")
	require.NoError(t, err)

	inbox, err := svc.Inbox(context.Background(), "admin", messaging.Options{})
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "V", inbox[0].CounterpartyID)
	assert.Equal(t, messaging.DefaultFallbackName, inbox[0].DisplayName)
	assert.True(t, inbox[0].Unread)
}
