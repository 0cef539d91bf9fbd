package constants

// Notification titles and body templates. Body templates take the reminder title.
const (
	TitleUpcomingReminder = "Upcoming Reminder"
	TitleReminderDue      = "Reminder Due"
	TitleReminderSet      = "Reminder Set"

	BodyDueInWeek      = "%q is due in 1 week"
	BodyDueInThreeDays = "%q is due in 3 days"
	BodyDueIn18Hours   = "%q is due in 18 hours"
	BodyDueNow         = "%q is due now!"

	// BodyReminderSet takes the title, the display date and the HH:MM time
	BodyReminderSet = "Reminder set for %q on %s at %s"
)

// Notifier backends
const (
	NotifierTray     = "tray"
	NotifierTelegram = "telegram"
	NotifierLog      = "log"
	NotifierNone     = "none"
)
