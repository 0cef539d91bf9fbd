// Package logger holds the process-wide charmbracelet logger. Every session
// logs to a rotated file under the config directory; long-running sessions
// can mirror output to stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/taskmaster/internal/constants"
)

var (
	// Logger is the global logger instance. Nil until Init or UseWriter.
	Logger *log.Logger

	mu   sync.Mutex
	file io.Writer
)

type Config struct {
	Debug bool
	// ConfigDir is where the logs directory is created.
	ConfigDir string
	// Console mirrors log output to stderr at the configured level.
	Console bool
}

// Init opens the rotated log file and replaces the global logger. Debug
// output always reaches stderr.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.ConfigDir, constants.LogDirName)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	mu.Lock()
	defer mu.Unlock()

	file = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.AppName+".log"),
		MaxSize:    constants.LogMaxSizeMB,
		MaxBackups: constants.LogMaxBackups,
		MaxAge:     constants.LogMaxAgeDays,
		Compress:   true,
	}
	Logger = log.NewWithOptions(output(cfg.Debug || cfg.Console), log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

func output(console bool) io.Writer {
	if file == nil {
		return os.Stderr
	}
	if console {
		return io.MultiWriter(os.Stderr, file)
	}
	return file
}

// SetConsole turns stderr mirroring on or off for an initialized logger.
// The run command enables it so reminders and rollovers are visible.
func SetConsole(on bool) {
	mu.Lock()
	defer mu.Unlock()
	if Logger != nil {
		Logger.SetOutput(output(on))
	}
}

// UseWriter points the global logger at w. Tests use it to capture output.
func UseWriter(w io.Writer, level log.Level) {
	mu.Lock()
	defer mu.Unlock()
	file = nil
	Logger = log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: constants.AppName,
	})
}

// Scoped tags every entry with a component name.
type Scoped struct {
	component string
}

// Component returns a logger whose entries carry "component", name. It reads
// the global logger on each call, so it survives a later Init.
func Component(name string) Scoped {
	return Scoped{component: name}
}

func (s Scoped) with(keyvals []interface{}) []interface{} {
	return append([]interface{}{"component", s.component}, keyvals...)
}

func (s Scoped) Debug(msg string, keyvals ...interface{}) { Debug(msg, s.with(keyvals)...) }
func (s Scoped) Info(msg string, keyvals ...interface{})  { Info(msg, s.with(keyvals)...) }
func (s Scoped) Warn(msg string, keyvals ...interface{})  { Warn(msg, s.with(keyvals)...) }
func (s Scoped) Error(msg string, keyvals ...interface{}) { Error(msg, s.with(keyvals)...) }

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs and exits with status 1 even when no logger is set.
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
