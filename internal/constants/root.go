package constants

import "time"

const (
	AppName            = "taskmaster"
	DefaultKeyringUser = "database-connection"
	TelegramKeyringKey = "telegram-token"
	DefaultConfigDir   = "~/.config/taskmaster"
	DefaultConfigPath  = "~/.config/taskmaster/taskmaster.db"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// TimeFormat12h is the 12-hour time format accepted for task start/end times
	TimeFormat12h = "3:04 PM"

	// DisplayDateFormat is used in notification bodies, e.g. "Oct 18, 2026"
	DisplayDateFormat = "Jan 2, 2006"

	// Log file rotation
	LogDirName    = "logs"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "taskmaster-"
	BackupFileSuffix = ".db"

	// HistoryRetentionDays is how many days of task history are kept. Entries whose
	// date is strictly older than today minus this many days are pruned.
	HistoryRetentionDays = 7

	// Scheduler defaults
	DefaultReminderInterval = 15 * time.Minute
	DefaultRolloverSpec     = "0 0 0 * * *"

	// Notify constants
	NotifyRatePerMinute    = 30
	NotifySuppressionTTL   = 48 * time.Hour
	NotifySuppressionSize  = 4096
	NotifierLockfileName   = "taskmaster-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.taskmaster"
	TrayExecutable         = "taskmaster-tray"
	TraySecretHeader       = "X-Taskmaster-Secret"
	AnnounceTimeout        = 10 * time.Second
)
