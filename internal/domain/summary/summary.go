package summary

import (
	"sort"
	"time"

	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/domain/week"
)

// Totals aggregates the sessions of one week bucket.
type Totals struct {
	WeekStart       time.Time `json:"week_start"`
	Label           string    `json:"label"`
	SessionCount    int       `json:"session_count"`
	ProfitSum       float64   `json:"profit_sum"`
	TotalMinutesSum int64     `json:"total_minutes_sum"`
	DollarsPerHour  *float64  `json:"dollars_per_hour,omitempty"`
	TotalMiles      float64   `json:"total_miles"`
	Orders          int       `json:"orders"`
}

// Aggregate sums the sessions whose stored week start equals weekStart.
func Aggregate(sessions []session.Session, weekStart time.Time) Totals {
	key := weekStart.UnixMilli()
	t := Totals{WeekStart: weekStart}
	for _, s := range sessions {
		if s.WeekStart.UnixMilli() != key {
			continue
		}
		t.add(s)
	}
	t.finish()
	return t
}

// ByWeek groups sessions by stored week start, newest week first.
func ByWeek(sessions []session.Session, cal week.Calendar) []Totals {
	buckets := make(map[int64]*Totals)
	for _, s := range sessions {
		key := s.WeekStart.UnixMilli()
		t, ok := buckets[key]
		if !ok {
			t = &Totals{WeekStart: cal.In(s.WeekStart)}
			buckets[key] = t
		}
		t.add(s)
	}

	out := make([]Totals, 0, len(buckets))
	for _, t := range buckets {
		t.finish()
		t.Label = cal.Label(t.WeekStart)
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].WeekStart.After(out[j].WeekStart)
	})
	return out
}

func (t *Totals) add(s session.Session) {
	d := session.Derive(s)
	t.SessionCount++
	t.ProfitSum += s.Profit
	t.TotalMinutesSum += max(d.TotalMinutes, 0)
	if d.TotalMiles > 0 {
		t.TotalMiles += d.TotalMiles
	}
	t.Orders += s.Orders
}

func (t *Totals) finish() {
	t.DollarsPerHour = nil
	if t.TotalMinutesSum > 0 {
		v := t.ProfitSum / (float64(t.TotalMinutesSum) / 60)
		t.DollarsPerHour = &v
	}
}
