// Package config loads taskmaster settings from a config file, TASKMASTER_*
// environment variables and the OS keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/julianstephens/taskmaster/internal/constants"
	"github.com/julianstephens/taskmaster/internal/keyring"
	"github.com/julianstephens/taskmaster/internal/notifier"
	"github.com/julianstephens/taskmaster/internal/storage"
)

const EnvPrefix = "TASKMASTER"

// Keyring lookups, swapped in tests.
var (
	connectionStringFunc = keyring.GetConnectionString
	telegramTokenFunc    = keyring.GetTelegramToken
	userHomeDirFunc      = os.UserHomeDir
)

type Config struct {
	Storage   StorageConfig
	Scheduler SchedulerConfig
	Notifier  NotifierConfig
	Telegram  TelegramConfig
	HTTP      HTTPConfig
	Log       LogConfig
	Timezone  string

	// File is the config file that was read, empty when none was found.
	File string
}

type StorageConfig struct {
	DSN string
}

type SchedulerConfig struct {
	ReminderInterval time.Duration
	RolloverSpec     string
}

type NotifierConfig struct {
	Backend       string
	Enabled       bool
	RatePerMinute int
}

type TelegramConfig struct {
	Token  string
	ChatID int64
	// Endpoint is a Bot API endpoint format string for self-hosted servers.
	Endpoint string
}

type HTTPConfig struct {
	Listen string
}

type LogConfig struct {
	Debug bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.dsn", constants.DefaultConfigPath)
	v.SetDefault("scheduler.reminder_interval", constants.DefaultReminderInterval)
	v.SetDefault("scheduler.rollover_spec", constants.DefaultRolloverSpec)
	v.SetDefault("notifier.backend", constants.NotifierTray)
	v.SetDefault("notifier.enabled", true)
	v.SetDefault("notifier.rate_per_minute", constants.NotifyRatePerMinute)
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.endpoint", "")
	v.SetDefault("http.listen", "")
	v.SetDefault("log.debug", false)
	v.SetDefault("timezone", "Local")
}

// Load reads configuration. When file is empty, config.yaml is searched in the
// default config directory and the working directory; a missing file is not
// an error.
func Load(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		path, err := ExpandPath(file)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := ExpandPath(constants.DefaultConfigDir); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || file != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		File: v.ConfigFileUsed(),
		Storage: StorageConfig{
			DSN: v.GetString("storage.dsn"),
		},
		Scheduler: SchedulerConfig{
			ReminderInterval: v.GetDuration("scheduler.reminder_interval"),
			RolloverSpec:     v.GetString("scheduler.rollover_spec"),
		},
		Notifier: NotifierConfig{
			Backend:       strings.ToLower(v.GetString("notifier.backend")),
			Enabled:       v.GetBool("notifier.enabled"),
			RatePerMinute: v.GetInt("notifier.rate_per_minute"),
		},
		Telegram: TelegramConfig{
			Token:  v.GetString("telegram.token"),
			ChatID: v.GetInt64("telegram.chat_id"),

			Endpoint: v.GetString("telegram.endpoint"),
		},
		HTTP: HTTPConfig{
			Listen: v.GetString("http.listen"),
		},
		Log: LogConfig{
			Debug: v.GetBool("log.debug"),
		},
		Timezone: v.GetString("timezone"),
	}

	// An explicitly configured DSN wins over the keyring.
	if !v.InConfig("storage.dsn") && os.Getenv(EnvPrefix+"_STORAGE_DSN") == "" {
		if connStr, err := connectionStringFunc(); err == nil && connStr != "" {
			cfg.Storage.DSN = connStr
		}
	}
	if cfg.Telegram.Token == "" {
		if token, err := telegramTokenFunc(); err == nil {
			cfg.Telegram.Token = token
		}
	}

	if !storage.IsPostgresDSN(cfg.Storage.DSN) {
		path, err := ExpandPath(cfg.Storage.DSN)
		if err != nil {
			return nil, err
		}
		cfg.Storage.DSN = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Storage.DSN == "" {
		return errors.New("storage.dsn must not be empty")
	}
	if c.Scheduler.ReminderInterval < time.Second {
		return fmt.Errorf("scheduler.reminder_interval must be at least 1s, got %s", c.Scheduler.ReminderInterval)
	}
	switch c.Notifier.Backend {
	case constants.NotifierTray, constants.NotifierTelegram, constants.NotifierLog, constants.NotifierNone:
	default:
		return fmt.Errorf("unknown notifier.backend %q", c.Notifier.Backend)
	}
	if c.Notifier.Backend == constants.NotifierTelegram && c.Telegram.ChatID == 0 {
		return errors.New("telegram.chat_id is required for the telegram notifier")
	}
	if c.Timezone != "" && c.Timezone != "Local" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
		}
	}
	return nil
}

// NotifierSettings converts the notifier sections into a notifier.Config.
func (c *Config) NotifierSettings() notifier.Config {
	return notifier.Config{
		Backend:        c.Notifier.Backend,
		Enabled:        c.Notifier.Enabled,
		RatePerMinute:  c.Notifier.RatePerMinute,
		TelegramToken:  c.Telegram.Token,
		TelegramChatID: c.Telegram.ChatID,

		TelegramEndpoint: c.Telegram.Endpoint,
	}
}

// Dir is the directory that holds logs and backups: the database's directory
// for sqlite and the default config directory for postgres.
func (c *Config) Dir() string {
	if !storage.IsPostgresDSN(c.Storage.DSN) {
		return filepath.Dir(c.Storage.DSN)
	}
	dir, err := ExpandPath(constants.DefaultConfigDir)
	if err != nil {
		return "."
	}
	return dir
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := userHomeDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
