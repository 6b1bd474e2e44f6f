// Package codec encodes sessions to the portable CSV and JSON export formats
// and decodes them back for import. Zones travel by name, never by id.
package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/dashlog/internal/domain/session"
	"github.com/shopspring/decimal"
)

// Format names an export/import file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ContentType returns the MIME type sent with a payload of this format.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv"
}

// ParseFormat accepts "csv" or "json" in any case.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown format %q (want csv or json)", name)
}

// UnknownZone is exported when a session's zone id no longer resolves.
const UnknownZone = "Unknown"

// Row is one session ready for export.
type Row struct {
	Session  session.Session
	ZoneName string
}

// ZoneRecord is a zone as carried by the JSON envelope.
type ZoneRecord struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Record is one decoded session, referencing its zone by name.
type Record struct {
	Line     int
	ZoneName string
	Fields   session.Fields
}

// Import is the decoded content of an import file.
type Import struct {
	Zones    []ZoneRecord
	Sessions []Record
}

// ZoneNames returns every distinct zone name referenced, envelope zones first.
func (im *Import) ZoneNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		key := strings.ToLower(name)
		if !seen[key] {
			seen[key] = true
			names = append(names, name)
		}
	}
	for _, z := range im.Zones {
		add(z.Name)
	}
	for _, r := range im.Sessions {
		add(r.ZoneName)
	}
	return names
}

const timestampLayout = "2006-01-02T15:04:05.000Z"

// Timestamp renders t as an ISO-8601 UTC string with milliseconds.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}

// check applies the rules every decoded session must satisfy before any
// record is written.
func check(r *Record) error {
	r.ZoneName = strings.TrimSpace(r.ZoneName)
	r.Fields.TimeBlock = strings.TrimSpace(r.Fields.TimeBlock)
	switch {
	case r.ZoneName == "":
		return formatErr(r.Line, "zone", "must not be empty")
	case r.Fields.TimeBlock == "":
		return formatErr(r.Line, "time_block", "must not be empty")
	case r.Fields.StartTime.IsZero():
		return formatErr(r.Line, "start_time", "is required")
	case r.Fields.EndTime.IsZero():
		return formatErr(r.Line, "end_time", "is required")
	case r.Fields.Orders < 0 || r.Fields.DashMinutes < 0 || r.Fields.ActiveMinutes < 0:
		return formatErr(r.Line, "", "counts must not be negative")
	}
	return nil
}
