package app

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/cantwait/lash-backend/config"
	"github.com/cantwait/lash-backend/internal/notify"
	"github.com/cantwait/lash-backend/internal/session"
	"github.com/cantwait/lash-backend/internal/storage"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// NotifyProvider exposes the in-process event hub and the mail transport
type NotifyProvider interface {
	Hub() *notify.Hub
	Mailer() notify.Mailer
}

// SessionProvider exposes the session lifecycle service
type SessionProvider interface {
	Sessions() *session.Service
}

// AppContext combines all provider interfaces for full application context.
// Handlers should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedulerProvider
	NotifyProvider
	SessionProvider

	Images() storage.ImageStore

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
