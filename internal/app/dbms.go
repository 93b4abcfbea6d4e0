package app

import (
	"fmt"
	"path"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/cantwait/lash-backend/config"
)

func getDatabase(cfg config.DBConfig, workdir string) *gorm.DB {
	switch cfg.Type {
	case "sqlite":
		return getSqliteDatabase(cfg, workdir)
	default:
		return getPgDatabase(cfg)
	}
}

func gormConfig() *gorm.Config {
	loglevel := logger.Warn
	if config.DefaultAppConfig.System.Debug {
		loglevel = logger.Info
	}
	return &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(loglevel),
	}
}

func getPgDatabase(cfg config.DBConfig) *gorm.DB {
	pgdb, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.GetDSN(),
		PreferSimpleProtocol: true,
	}), gormConfig())
	if err != nil {
		panic(fmt.Errorf("failed to connect database: %w", err))
	}

	sqlDB, err := pgdb.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxIdleConns(cfg.IdleConn)
	sqlDB.SetMaxOpenConns(cfg.MaxConn)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return pgdb
}

func getSqliteDatabase(cfg config.DBConfig, workdir string) *gorm.DB {
	dbfile := path.Join(workdir, cfg.Name+".db")
	sdb, err := gorm.Open(sqlite.Open(dbfile), gormConfig())
	if err != nil {
		panic(fmt.Errorf("failed to connect database: %w", err))
	}
	zap.S().Infof("using sqlite database %s", dbfile)
	return sdb
}
