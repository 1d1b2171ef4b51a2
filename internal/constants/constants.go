package constants

import "strings"

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in progress"
	StatusCompleted  TaskStatus = "completed"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// IsTerminal reports whether a status means no further work is pending.
// Only completed tasks are terminal.
func IsTerminal(s TaskStatus) bool {
	return s == StatusCompleted
}

// Weight ranks a priority for ordering purposes, low=1 up to urgent=4.
// Unknown values rank as medium.
func Weight(p TaskPriority) int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	default:
		return 2
	}
}

// ParseStatus matches a free-form status string against the enumeration,
// case-insensitively. Returns false when the value is not recognized.
func ParseStatus(raw string) (TaskStatus, bool) {
	switch normalize(raw) {
	case "pending", "todo", "open":
		return StatusPending, true
	case "in progress", "inprogress", "started", "doing":
		return StatusInProgress, true
	case "completed", "complete", "done":
		return StatusCompleted, true
	}
	return "", false
}

// ParsePriority matches a free-form priority string against the
// enumeration, case-insensitively. Returns false when not recognized.
func ParsePriority(raw string) (TaskPriority, bool) {
	switch normalize(raw) {
	case "low":
		return PriorityLow, true
	case "medium", "normal":
		return PriorityMedium, true
	case "high":
		return PriorityHigh, true
	case "urgent", "critical":
		return PriorityUrgent, true
	}
	return "", false
}

func normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return s
}
