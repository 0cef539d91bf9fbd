package constants

// Storage keys. Each key holds one JSON document.
const (
	KeyDailyTasks    = "dailyTasks"
	KeyPlannedTasks  = "plannedTasks"
	KeyFreeTasks     = "freeTasks"
	KeyReminders     = "reminders"
	KeyTaskHistory   = "taskHistory"
	KeyProjects      = "projects"
	KeyLastResetDate = "lastResetDate"
)

// AllKeys lists every persisted key in load order.
var AllKeys = []string{
	KeyDailyTasks,
	KeyPlannedTasks,
	KeyFreeTasks,
	KeyReminders,
	KeyTaskHistory,
	KeyProjects,
	KeyLastResetDate,
}
