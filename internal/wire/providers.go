package wire

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"venuehub/internal/chat/handler"
	"venuehub/internal/common"
	"venuehub/internal/config"
	"venuehub/internal/dbmongo"
	"venuehub/internal/dbmysql"
	"venuehub/internal/messaging"
	"venuehub/internal/messaging/repository"
	"venuehub/internal/notif"
	"venuehub/internal/profile"
)

// Application holds everything the entry points need.
type Application struct {
	Config  *config.Config
	Log     *zap.Logger
	Service *messaging.Service
	Events  *notif.EventManager
	GRPC    *handler.GRPCHandler
	HTTP    *handler.HTTPHandler
}

func ProvideConfig() *config.Config {
	return config.LoadConfig()
}

func ProvideLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	logger, err := common.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	warnInsecureConfig(cfg, logger)
	return logger, func() { _ = logger.Sync() }, nil
}

func warnInsecureConfig(cfg *config.Config, logger *zap.Logger) {
	if cfg.Auth.JWTSecret == "" {
		logger.Warn("JWT_SECRET is not set, every bearer token will be rejected")
	}
}

func ProvideDatabase(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := dbmysql.NewDB(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// ProvideMessageStore selects the backend named by MESSAGE_STORE and puts a
// circuit breaker in front of it.
func ProvideMessageStore(cfg *config.Config, db *gorm.DB, log *zap.Logger) (messaging.MessageStore, func(), error) {
	var (
		store   messaging.MessageStore
		cleanup = func() {}
	)

	switch cfg.Messaging.Store {
	case "", "mysql", "sqlite":
		store = repository.NewMessageRepository(db)
	case "mongo":
		client, err := dbmongo.NewMongoConnection(cfg)
		if err != nil {
			return nil, nil, err
		}
		mongoStore := dbmongo.NewMessageStore(client, cfg.MongoDB.Collection)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			log.Warn("could not create message indexes", zap.Error(err))
		}
		store = mongoStore
		cleanup = func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Close(ctx)
		}
	case "memory":
		log.Warn("using in-memory message store, messages are lost on restart")
		store = messaging.NewMemoryStore()
	default:
		return nil, nil, fmt.Errorf("unsupported message store %q", cfg.Messaging.Store)
	}

	log.Info("message store ready", zap.String("store", cfg.Messaging.Store))
	return messaging.NewGuardedStore(store, cfg.Breaker, log), cleanup, nil
}

// ProvideProfileDirectory reads display names from the profiles table,
// through Redis when a profile TTL is configured.
func ProvideProfileDirectory(cfg *config.Config, db *gorm.DB, log *zap.Logger) (messaging.ProfileDirectory, func(), error) {
	var (
		directory messaging.ProfileDirectory = profile.NewRepository(db)
		cleanup                              = func() {}
	)

	if cfg.Redis.ProfileTTL > 0 && cfg.Redis.Addr != "" {
		rdb, err := profile.NewRedisClient(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, profile cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		} else {
			ttl := time.Duration(cfg.Redis.ProfileTTL) * time.Second
			directory = profile.NewCachedDirectory(directory, rdb, ttl, log)
			cleanup = func() { _ = rdb.Close() }
		}
	}

	return messaging.NewGuardedDirectory(directory, cfg.Breaker, log), cleanup, nil
}

func ProvideAggregator(cfg *config.Config, directory messaging.ProfileDirectory, log *zap.Logger) *messaging.Aggregator {
	return messaging.NewAggregator(directory, log,
		messaging.WithFallbackName(cfg.Messaging.FallbackDisplayName),
		messaging.WithLookupConcurrency(cfg.Messaging.LookupConcurrency),
	)
}

func ProvideEventManager(cfg *config.Config, log *zap.Logger) (*notif.EventManager, func()) {
	em := notif.NewEventManager(cfg.Messaging.EventWorkers, cfg.Messaging.EventBuffer, log)
	em.Subscribe(notif.NewLogObserver(log))
	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		em.Subscribe(notif.NewKafkaObserver(notif.NewKafkaWriter(cfg.Kafka)))
	}
	return em, em.Shutdown
}

func ProvideService(cfg *config.Config, store messaging.MessageStore, aggregator *messaging.Aggregator, events messaging.EventPublisher, log *zap.Logger) *messaging.Service {
	return messaging.NewService(store, aggregator, events, cfg.Messaging.AdminUserID, log)
}
