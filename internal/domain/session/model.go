package session

import "time"

// Known time block labels. Any non-empty label is accepted.
const (
	BlockBreakfast = "Breakfast"
	BlockLunch     = "Lunch"
	BlockDinner    = "Dinner"
	BlockLateNight = "Late Night"
)

// TimeBlocks lists the known labels in display order.
var TimeBlocks = []string{BlockBreakfast, BlockLunch, BlockDinner, BlockLateNight}

// Session represents one logged work period.
type Session struct {
	ID            int64     `json:"id"`
	ZoneID        int64     `json:"zone_id"`
	TimeBlock     string    `json:"time_block"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Profit        float64   `json:"profit"`
	StartMiles    float64   `json:"start_miles"`
	EndMiles      float64   `json:"end_miles"`
	Orders        int       `json:"orders"`
	DashMinutes   int       `json:"dash_minutes"`
	ActiveMinutes int       `json:"active_minutes"`
	// WeekStart is the first instant of the session's week bucket, stored
	// redundantly for grouping.
	WeekStart time.Time `json:"week_start"`
}

// Derived holds computed, never stored, metrics for a session.
type Derived struct {
	TotalMiles     float64  `json:"total_miles"`
	TotalMinutes   int64    `json:"total_minutes"`
	WaitMinutes    int      `json:"wait_minutes"`
	DollarsPerHour *float64 `json:"dollars_per_hour,omitempty"`
	DollarsPerMile *float64 `json:"dollars_per_mile,omitempty"`
}

// Fields is the user-editable content of a session.
type Fields struct {
	ZoneID        int64
	TimeBlock     string
	StartTime     time.Time
	EndTime       time.Time
	Profit        float64
	StartMiles    float64
	EndMiles      float64
	Orders        int
	DashMinutes   int
	ActiveMinutes int
}

// Apply copies the fields onto s, leaving ID and WeekStart untouched.
func (f Fields) Apply(s *Session) {
	s.ZoneID = f.ZoneID
	s.TimeBlock = f.TimeBlock
	s.StartTime = f.StartTime
	s.EndTime = f.EndTime
	s.Profit = f.Profit
	s.StartMiles = f.StartMiles
	s.EndMiles = f.EndMiles
	s.Orders = f.Orders
	s.DashMinutes = f.DashMinutes
	s.ActiveMinutes = f.ActiveMinutes
}

// Session builds an unsaved session from the fields.
func (f Fields) Session() Session {
	var s Session
	f.Apply(&s)
	return s
}
