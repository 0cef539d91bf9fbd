package models

// TaskHistory is one day's daily-task outcome, keyed by Date (YYYY-MM-DD).
type TaskHistory struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

func (h *TaskHistory) Validate() error {
	if h.Completed < 0 || h.Total < 0 {
		return invalid("history counts must be non-negative")
	}
	if h.Total < h.Completed {
		return invalid("history total %d is less than completed %d", h.Total, h.Completed)
	}
	return nil
}

// DayStat is one weekday slot of the completion report.
type DayStat struct {
	Name      string `json:"name"` // Sun..Sat
	Date      string `json:"date"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// CountCompleted returns how many of tasks are completed.
func CountCompleted(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
