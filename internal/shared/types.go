package shared

import (
	"time"
)

// ScanFilter provides filtering options for listing scan records
type ScanFilter struct {
	ProjectID  string
	PromptID   string
	ScheduleID string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Offset     int
}
