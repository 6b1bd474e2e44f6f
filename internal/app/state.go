package app

import (
	"time"

	"github.com/rpggio/dashlog/internal/domain/preference"
	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/domain/summary"
	"github.com/rpggio/dashlog/internal/domain/zone"
)

// SessionView is a session with its zone name and derived metrics.
type SessionView struct {
	Session  session.Session
	ZoneName string
	Derived  session.Derived
}

// State is everything a screen of the application shows.
type State struct {
	ActiveWeek    time.Time
	WeekLabel     string
	Totals        summary.Totals
	Recent        []SessionView
	Zones         []zone.Zone
	ActiveZones   []zone.Zone
	EditingID     int64
	Editing       *session.Session
	LastZoneID    int64
	LastTimeBlock string
	Draft         *preference.Draft
	// Warnings are those of the last write, confirmed or pending.
	Warnings []session.Warning
	Notice   string
}

// ZoneName resolves a zone id against the loaded zones.
func (s State) ZoneName(id int64) string {
	for _, z := range s.Zones {
		if z.ID == id {
			return z.Name
		}
	}
	return ""
}
