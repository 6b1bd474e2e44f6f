package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeZoneCreated     ActivityType = "zone_created"
	TypeZoneRenamed     ActivityType = "zone_renamed"
	TypeZoneDeactivated ActivityType = "zone_deactivated"
	TypeZoneReactivated ActivityType = "zone_reactivated"
	TypeSessionLogged   ActivityType = "session_logged"
	TypeSessionUpdated  ActivityType = "session_updated"
	TypeSessionDeleted  ActivityType = "session_deleted"
	TypeImportCompleted ActivityType = "import_completed"
	TypeExportSent      ActivityType = "export_sent"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	ActivityType ActivityType `json:"type"`
	SubjectID    *int64       `json:"subject_id,omitempty"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
