package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	appLogger "soros-rag-be/internal/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	slowThreshold = time.Second
	maxLoggedSQL  = 300
)

// gormLogger forwards gorm's logging to the application logger.
// Statements are only logged when slow or failing; vector literals make the rest unreadable.
type gormLogger struct {
	log   appLogger.ILogger
	level logger.LogLevel
}

func newGormLogger(log appLogger.ILogger) logger.Interface {
	return &gormLogger{log: log, level: logger.Warn}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		l.log.Info("GORM", fmt.Sprintf(msg, args...), nil)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		l.log.Warn("GORM", fmt.Sprintf(msg, args...), nil)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		l.log.Error("GORM", fmt.Sprintf(msg, args...), nil)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		sql, rows := fc()
		l.log.Error("GORM", "Query failed", map[string]interface{}{
			"error":       err.Error(),
			"sql":         truncate(sql),
			"rows":        rows,
			"duration_ms": elapsed.Milliseconds(),
		})
	case elapsed > slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		l.log.Warn("GORM", "Slow query", map[string]interface{}{
			"sql":         truncate(sql),
			"rows":        rows,
			"duration_ms": elapsed.Milliseconds(),
		})
	}
}

func truncate(sql string) string {
	if len(sql) <= maxLoggedSQL {
		return sql
	}
	return sql[:maxLoggedSQL] + "..."
}

func configureConnectionPool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return nil
}

func NewGormDBFromDSN(dsn string, log appLogger.ILogger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newGormLogger(log),
	})
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db); err != nil {
		Close(db)
		return nil, err
	}

	return db, nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
