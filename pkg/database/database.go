package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"notes-service/internal/model"
	"notes-service/pkg/config"
)

var db *gorm.DB

// InitDB opens the PostgreSQL connection, configures the pool, and migrates
// the schema.
func InitDB(cfg *config.Config) error {
	// PreferSimpleProtocol disables implicit prepared statement usage and
	// avoids "prepared statement already exists" errors behind poolers.
	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true,
	}

	conn, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.DB.LogLevel),
	})
	if err != nil {
		return err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	if err := Migrate(conn); err != nil {
		return err
	}

	db = conn
	return nil
}

// Migrate creates or updates the table structure for all models.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(&model.Tenant{}, &model.User{}, &model.Note{})
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}
