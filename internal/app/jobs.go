package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/cantwait/lash-backend/internal/domain"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	a.sched = cron.New(cron.WithLocation(a.loc), cron.WithParser(cronParser))

	// The walk-in queue does not carry over between business days.
	// Purge before opening time.
	var err error
	_, err = a.sched.AddFunc("0 0 6 * * *", func() {
		a.SchedPurgeQueue()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedPurgeQueue drops queue entries created before the current day.
func (a *Application) SchedPurgeQueue() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	now := time.Now().In(a.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.loc)

	result := a.gormDB.Where("created_at < ?", dayStart).Delete(&domain.QueueCustomer{})
	if result.Error != nil {
		zap.L().Error("queue purge failed", zap.Error(result.Error))
		return
	}
	if result.RowsAffected > 0 {
		zap.L().Info("queue purged", zap.Int64("removed", result.RowsAffected))
	}
}
