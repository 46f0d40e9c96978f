package planrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/dagframe/dagframe/pkg/telemetry"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// DBConfig mirrors config.CacheConfig's dialect-selection fields without
// importing pkg/config, keeping planrepo usable standalone.
type DBConfig struct {
	Backend  string // postgres, mysql, or sqlite
	DSN      string
	MaxConns int
}

// NewGormDB opens a dialect-appropriate *gorm.DB, adapted from the teacher's
// internal/repository/factory.go NewGormDB: same OTEL-plugin wiring and
// connection-pool sizing, extended to a sqlite dialector for the
// plan-fragment cache's embedded-deployment mode.
func NewGormDB(cfg DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Backend {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Backend)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open plan cache database: %w", err)
	}

	if telemetry.Enabled() {
		if err := db.Use(tracing.NewPlugin()); err != nil {
			return nil, fmt.Errorf("failed to enable telemetry: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}
	sqlDB.SetMaxOpenConns(maxConns)
	sqlDB.SetMaxIdleConns(maxConns / 2)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping plan cache database: %w", err)
	}

	if err := db.AutoMigrate(&PlanCacheEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate plan cache schema: %w", err)
	}

	return db, nil
}
