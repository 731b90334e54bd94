package dbmysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"venuehub/internal/config"
)

// NewDB opens the relational store selected by cfg.Database.Driver
// ("mysql" or "sqlite") and migrates the tables this service owns.
func NewDB(cnf *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cnf.Database.Driver {
	case "", "mysql":
		dialector = mysql.Open(cnf.DSN())
	case "sqlite":
		if cnf.Database.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is not set")
		}
		dialector = sqlite.Open(cnf.Database.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cnf.Database.Driver)
	}

	logLevel := logger.Warn
	if cnf.Logging.Level == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:      logger.Default.LogMode(logLevel),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to %s: %w", driverName(cnf), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql.DB error: %w", err)
	}
	sqlDB.SetMaxOpenConns(cnf.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cnf.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("connected to relational store",
		zap.String("driver", driverName(cnf)),
		zap.String("database", cnf.Database.DatabaseName),
	)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Message{}, &Profile{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func driverName(cnf *config.Config) string {
	if cnf.Database.Driver == "" {
		return "mysql"
	}
	return cnf.Database.Driver
}
