package session

import (
	"math"
	"time"
)

const rollover = 24 * time.Hour

// AdjustedEnd returns the end time used for elapsed-time math. An end earlier
// than the start means the session crossed midnight. The stored end time is
// never modified.
func AdjustedEnd(start, end time.Time) time.Time {
	if end.Before(start) {
		return end.Add(rollover)
	}
	return end
}

// Derive computes the metrics for one session.
func Derive(s Session) Derived {
	end := AdjustedEnd(s.StartTime, s.EndTime)
	elapsedMs := end.UnixMilli() - s.StartTime.UnixMilli()

	d := Derived{
		TotalMiles:   s.EndMiles - s.StartMiles,
		TotalMinutes: int64(math.Floor(float64(elapsedMs)/60000 + 0.5)),
		WaitMinutes:  max(s.DashMinutes-s.ActiveMinutes, 0),
	}

	if d.TotalMinutes > 0 {
		v := s.Profit / (float64(d.TotalMinutes) / 60)
		d.DollarsPerHour = &v
	}
	if d.TotalMiles > 0 {
		v := s.Profit / d.TotalMiles
		d.DollarsPerMile = &v
	}
	return d
}
