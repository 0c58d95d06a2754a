package office

const (
	TaskPending    = "Pending"
	TaskInProgress = "In Progress"
	TaskDone       = "Done"
)

// Task is an internal office to-do.
type Task struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenantId"`
	Task       string `json:"task"`
	Priority   string `json:"priority,omitempty"`
	AssignedTo string `json:"assignedTo,omitempty"`
	Deadline   string `json:"deadline,omitempty"`
	Status     string `json:"status"`
}

// ValidStatus reports whether s is a known task status.
func ValidStatus(s string) bool {
	return s == TaskPending || s == TaskInProgress || s == TaskDone
}
