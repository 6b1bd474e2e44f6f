package preference

import "time"

// Keys of the persisted preferences.
const (
	KeyLastZoneID    = "last_zone_id"
	KeyLastTimeBlock = "last_time_block"
	KeyDraft         = "draft"
)

// Draft is an in-progress session kept until it is logged or cleared.
type Draft struct {
	ZoneID     int64      `json:"zone_id,omitempty"`
	TimeBlock  string     `json:"time_block,omitempty"`
	StartTime  *time.Time `json:"start_time,omitempty"`
	StartMiles *float64   `json:"start_miles,omitempty"`
	EndMiles   *float64   `json:"end_miles,omitempty"`
	SavedAt    time.Time  `json:"saved_at"`
}

// Empty reports whether the draft carries no user input.
func (d Draft) Empty() bool {
	return d.ZoneID == 0 && d.TimeBlock == "" && d.StartTime == nil && d.StartMiles == nil && d.EndMiles == nil
}
