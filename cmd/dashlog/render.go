package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"github.com/rpggio/dashlog/internal/app"
	"github.com/rpggio/dashlog/internal/domain/preference"
	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/rpggio/dashlog/internal/domain/summary"
	"github.com/rpggio/dashlog/internal/domain/zone"
	"github.com/rpggio/dashlog/internal/format"
)

var (
	okColor    = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	dimColor   = color.New(color.Faint)
	labelColor = color.New(color.Bold)
)

// printer writes human readable output for commands.
type printer struct {
	out io.Writer
	fmt *format.Formatter
	loc *time.Location
}

func newPrinter(out io.Writer, f *format.Formatter, loc *time.Location) *printer {
	if loc == nil {
		loc = time.Local
	}
	return &printer{out: out, fmt: f, loc: loc}
}

func (p *printer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// Render implements app.Renderer: the notice, any warnings, then the week totals.
func (p *printer) Render(state app.State) error {
	if state.Notice != "" {
		p.printf("%s\n", okColor.Sprint(state.Notice))
	}
	p.warnings(state.Warnings)
	p.totals(state.Totals)
	return nil
}

func (p *printer) warnings(warnings []session.Warning) {
	for _, w := range warnings {
		p.printf("%s %s\n", warnColor.Sprint("warning:"), w.Message)
	}
}

func (p *printer) totals(t summary.Totals) {
	p.printf("%s  %d sessions  %s  %s  %s  %s  %d orders\n",
		labelColor.Sprint(t.Label),
		t.SessionCount,
		p.fmt.Money(t.ProfitSum),
		format.HoursMinutes(t.TotalMinutesSum),
		p.fmt.Rate(t.DollarsPerHour, "/hr"),
		p.fmt.Miles(t.TotalMiles),
		t.Orders,
	)
}

func (p *printer) zones(zones []zone.Zone) {
	if len(zones) == 0 {
		p.printf("no zones\n")
		return
	}
	for _, z := range zones {
		status := okColor.Sprint("active")
		if !z.Active {
			status = dimColor.Sprint("inactive")
		}
		p.printf("%d\t%s\t%s\n", z.ID, z.Name, status)
	}
}

func (p *printer) sessionLine(s session.Session, zoneName string) {
	d := session.Derive(s)
	start := s.StartTime.In(p.loc)
	p.printf("%d\t%s\t%s-%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		s.ID,
		format.SessionDate(start),
		format.Clock(start),
		format.Clock(s.EndTime.In(p.loc)),
		zoneName,
		s.TimeBlock,
		p.fmt.Money(s.Profit),
		format.HoursMinutes(d.TotalMinutes),
		p.fmt.Rate(d.DollarsPerHour, "/hr"),
		p.fmt.Rate(d.DollarsPerMile, "/mi"),
	)
}

func (p *printer) sessionDetail(s session.Session, zoneName string) {
	d := session.Derive(s)
	rows := [][2]string{
		{"id", fmt.Sprint(s.ID)},
		{"zone", zoneName},
		{"time block", s.TimeBlock},
		{"start", s.StartTime.In(p.loc).Format("2006-01-02 15:04")},
		{"end", s.EndTime.In(p.loc).Format("2006-01-02 15:04")},
		{"profit", p.fmt.Money(s.Profit)},
		{"miles", fmt.Sprintf("%s (%s to %s)", p.fmt.Miles(d.TotalMiles), p.fmt.Number2(s.StartMiles), p.fmt.Number2(s.EndMiles))},
		{"orders", fmt.Sprint(s.Orders)},
		{"dash", fmt.Sprintf("%dm (active %dm, wait %dm)", s.DashMinutes, s.ActiveMinutes, d.WaitMinutes)},
		{"time", format.HoursMinutes(d.TotalMinutes)},
		{"$/hour", p.fmt.Rate(d.DollarsPerHour, "/hr")},
		{"$/mile", p.fmt.Rate(d.DollarsPerMile, "/mi")},
	}
	for _, r := range rows {
		p.printf("%s %s\n", labelColor.Sprintf("%-11s", r[0]+":"), r[1])
	}
}

func (p *printer) draft(d preference.Draft, names map[int64]string) {
	zoneName := ""
	if d.ZoneID != 0 {
		zoneName = zoneLabel(names, d.ZoneID)
	}
	start := ""
	if d.StartTime != nil {
		start = d.StartTime.In(p.loc).Format("2006-01-02 15:04")
	}
	miles := func(v *float64) string {
		if v == nil {
			return ""
		}
		return p.fmt.Number2(*v)
	}
	rows := [][2]string{
		{"zone", zoneName},
		{"time block", d.TimeBlock},
		{"start", start},
		{"start miles", miles(d.StartMiles)},
		{"end miles", miles(d.EndMiles)},
		{"saved", d.SavedAt.In(p.loc).Format("2006-01-02 15:04")},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		p.printf("%s %s\n", labelColor.Sprintf("%-12s", r[0]+":"), r[1])
	}
}

func zoneNames(zones []zone.Zone) map[int64]string {
	names := make(map[int64]string, len(zones))
	for _, z := range zones {
		names[z.ID] = z.Name
	}
	return names
}
