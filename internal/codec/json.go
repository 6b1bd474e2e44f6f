package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// AppTag identifies export files written by this application.
const AppTag = "dashlog"

// CurrentVersion is the envelope version written by WriteJSON.
const CurrentVersion = 1

// Envelope is the JSON export document.
type Envelope struct {
	App        string            `json:"app"`
	Version    int               `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Zones      []ZoneRecord      `json:"zones"`
	Sessions   []EnvelopeSession `json:"sessions"`
}

// EnvelopeSession is a session inside the JSON envelope.
type EnvelopeSession struct {
	ZoneName      string  `json:"zone_name"`
	TimeBlock     string  `json:"time_block"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Profit        float64 `json:"profit"`
	StartMiles    float64 `json:"start_miles"`
	EndMiles      float64 `json:"end_miles"`
	Orders        int     `json:"orders"`
	DashMinutes   int     `json:"dash_minutes"`
	ActiveMinutes int     `json:"active_minutes"`
}

// WriteJSON writes the envelope for the given zones and rows.
func WriteJSON(w io.Writer, zones []ZoneRecord, rows []Row, exportedAt time.Time) error {
	env := Envelope{
		App:        AppTag,
		Version:    CurrentVersion,
		ExportedAt: Timestamp(exportedAt),
		Zones:      zones,
		Sessions:   make([]EnvelopeSession, 0, len(rows)),
	}
	if env.Zones == nil {
		env.Zones = []ZoneRecord{}
	}
	for _, r := range rows {
		s := r.Session
		name := r.ZoneName
		if name == "" {
			name = UnknownZone
		}
		env.Sessions = append(env.Sessions, EnvelopeSession{
			ZoneName:      name,
			TimeBlock:     s.TimeBlock,
			StartTime:     Timestamp(s.StartTime),
			EndTime:       Timestamp(s.EndTime),
			Profit:        s.Profit,
			StartMiles:    s.StartMiles,
			EndMiles:      s.EndMiles,
			Orders:        s.Orders,
			DashMinutes:   s.DashMinutes,
			ActiveMinutes: s.ActiveMinutes,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// rawEnvelope keeps app and version untyped so shape errors can be reported
// as format errors instead of decoder errors.
type rawEnvelope struct {
	App      json.RawMessage   `json:"app"`
	Version  json.RawMessage   `json:"version"`
	Zones    []ZoneRecord      `json:"zones"`
	Sessions []EnvelopeSession `json:"sessions"`
}

// ReadJSON parses and validates a whole envelope.
func ReadJSON(r io.Reader) (*Import, error) {
	var raw rawEnvelope
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, formatErr(0, "", "invalid JSON: %v", err)
	}

	var app string
	if len(raw.App) == 0 || json.Unmarshal(raw.App, &app) != nil || app != AppTag {
		return nil, formatErr(0, "app", "expected %q", AppTag)
	}
	var version int
	if len(raw.Version) == 0 || json.Unmarshal(raw.Version, &version) != nil {
		return nil, formatErr(0, "version", "must be an integer")
	}
	if version < 1 || version > CurrentVersion {
		return nil, formatErr(0, "version", "unsupported version %d", version)
	}

	im := &Import{}
	for i, z := range raw.Zones {
		z.Name = strings.TrimSpace(z.Name)
		if z.Name == "" {
			return nil, formatErr(0, fmt.Sprintf("zones[%d].name", i), "must not be empty")
		}
		im.Zones = append(im.Zones, z)
	}

	for i, s := range raw.Sessions {
		rec := Record{ZoneName: s.ZoneName}
		rec.Fields.TimeBlock = s.TimeBlock
		rec.Fields.Profit = s.Profit
		rec.Fields.StartMiles = s.StartMiles
		rec.Fields.EndMiles = s.EndMiles
		rec.Fields.Orders = s.Orders
		rec.Fields.DashMinutes = s.DashMinutes
		rec.Fields.ActiveMinutes = s.ActiveMinutes

		var err error
		if rec.Fields.StartTime, err = parseTimestamp(s.StartTime); err != nil && s.StartTime != "" {
			return nil, formatErr(0, fmt.Sprintf("sessions[%d].start_time", i), "invalid timestamp %q", s.StartTime)
		}
		if rec.Fields.EndTime, err = parseTimestamp(s.EndTime); err != nil && s.EndTime != "" {
			return nil, formatErr(0, fmt.Sprintf("sessions[%d].end_time", i), "invalid timestamp %q", s.EndTime)
		}
		if err := check(&rec); err != nil {
			var fe *FormatError
			if errors.As(err, &fe) {
				fe.Field = fmt.Sprintf("sessions[%d].%s", i, jsonField(fe.Field))
			}
			return nil, err
		}
		im.Sessions = append(im.Sessions, rec)
	}
	return im, nil
}

func jsonField(field string) string {
	switch field {
	case "":
		return "counts"
	case "zone":
		return "zone_name"
	}
	return field
}

// Decode reads an import file of the given format.
func Decode(format Format, r io.Reader) (*Import, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatJSON:
		return ReadJSON(r)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}
