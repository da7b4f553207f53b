package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio-cms-backend/config"
)

func gormLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		&log.Logger,
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// Open connects to the primary database named by cfg and registers the read
// replica when one is configured.
func Open(cfg config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		PrepareStmt:    false,
		Logger:         gormLogger(logger.Warn),
		TranslateError: true,
	}

	var db *gorm.DB
	var err error
	switch cfg.DBType {
	case "postgres":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DatabaseDSN,
			PreferSimpleProtocol: true,
		}), gormConfig)
	case "sqlite":
		db, err = OpenSQLite(cfg.SQLitePath, gormConfig)
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.DBType, err)
	}

	if cfg.DBType == "postgres" && cfg.DatabaseReplicaDSN != "" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  cfg.DatabaseReplicaDSN,
				PreferSimpleProtocol: true,
			})},
			Policy:            dbresolver.RandomPolicy{},
			TraceResolverMode: true,
		}).SetConnMaxIdleTime(time.Hour).SetMaxOpenConns(10))
		if err != nil {
			return nil, fmt.Errorf("register read replica: %w", err)
		}
		log.Info().Msg("read replica registered")
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}
	return db, nil
}

// OpenSQLite opens a file or in-memory database. A single connection keeps an
// in-memory database alive and serializes writers.
func OpenSQLite(path string, gormConfig *gorm.Config) (*gorm.DB, error) {
	if gormConfig == nil {
		gormConfig = &gorm.Config{Logger: gormLogger(logger.Silent), TranslateError: true}
	}
	db, err := gorm.Open(sqlite.Open(path), gormConfig)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}
	return db, nil
}
