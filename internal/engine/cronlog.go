package engine

import (
	"github.com/julianstephens/taskmaster/internal/logger"
)

var cronLog = logger.Component("cron")

// cronLogger routes robfig/cron's logging through the application logger.
// cron's info output is per-job chatter, so it goes to debug.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cronLog.Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	cronLog.Error(msg, append(keysAndValues, "error", err)...)
}
