package codec

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rpggio/dashlog/internal/domain/session"
)

// CSVHeader is the fixed export column order.
var CSVHeader = []string{
	"id", "zone", "time_block", "start_time", "end_time", "profit",
	"start_miles", "end_miles", "orders", "dash_minutes", "active_minutes",
	"week_start", "total_miles", "total_minutes", "wait_minutes",
	"dollars_per_hour", "dollars_per_mile",
}

// RequiredCSVColumns must all be present in an import header.
var RequiredCSVColumns = []string{
	"zone", "time_block", "start_time", "end_time", "profit",
	"start_miles", "end_miles", "orders", "dash_minutes", "active_minutes",
}

// WriteCSV writes the header and one line per row, in the given order.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		s := r.Session
		d := session.Derive(s)
		zoneName := r.ZoneName
		if zoneName == "" {
			zoneName = UnknownZone
		}
		record := []string{
			strconv.FormatInt(s.ID, 10),
			zoneName,
			s.TimeBlock,
			Timestamp(s.StartTime),
			Timestamp(s.EndTime),
			fixed(s.Profit, 2),
			fixed(s.StartMiles, 1),
			fixed(s.EndMiles, 1),
			strconv.Itoa(s.Orders),
			strconv.Itoa(s.DashMinutes),
			strconv.Itoa(s.ActiveMinutes),
			Timestamp(s.WeekStart),
			fixed(d.TotalMiles, 1),
			strconv.FormatInt(d.TotalMinutes, 10),
			strconv.Itoa(d.WaitMinutes),
			optionalRate(d.DollarsPerHour),
			optionalRate(d.DollarsPerMile),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func optionalRate(v *float64) string {
	if v == nil {
		return ""
	}
	return fixed(*v, 2)
}

// ReadCSV parses a whole CSV file. Nothing is returned unless every line is
// valid.
func ReadCSV(r io.Reader) (*Import, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, formatErr(0, "", "file is empty")
	}
	if err != nil {
		return nil, csvErr(err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	var missing []string
	for _, name := range RequiredCSVColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, formatErr(1, "", "missing required columns: %s", strings.Join(missing, ", "))
	}

	im := &Import{}
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvErr(err)
		}
		line, _ := cr.FieldPos(0)
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}

		rec, err := parseCSVRecord(line, fields, cols)
		if err != nil {
			return nil, err
		}
		im.Sessions = append(im.Sessions, *rec)
	}
	return im, nil
}

func parseCSVRecord(line int, fields []string, cols map[string]int) (*Record, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(fields) {
			return ""
		}
		return fields[i]
	}

	rec := &Record{Line: line, ZoneName: cell("zone")}
	rec.Fields.TimeBlock = cell("time_block")

	var err error
	for _, c := range []struct {
		name string
		dst  *float64
	}{
		{"profit", &rec.Fields.Profit},
		{"start_miles", &rec.Fields.StartMiles},
		{"end_miles", &rec.Fields.EndMiles},
	} {
		if *c.dst, err = parseNumber(cell(c.name)); err != nil {
			return nil, formatErr(line, c.name, "invalid number %q", cell(c.name))
		}
	}
	for _, c := range []struct {
		name string
		dst  *int
	}{
		{"orders", &rec.Fields.Orders},
		{"dash_minutes", &rec.Fields.DashMinutes},
		{"active_minutes", &rec.Fields.ActiveMinutes},
	} {
		if *c.dst, err = parseCount(cell(c.name)); err != nil {
			return nil, formatErr(line, c.name, "invalid count %q", cell(c.name))
		}
	}
	if v := cell("start_time"); strings.TrimSpace(v) != "" {
		if rec.Fields.StartTime, err = parseTimestamp(v); err != nil {
			return nil, formatErr(line, "start_time", "invalid timestamp %q", v)
		}
	}
	if v := cell("end_time"); strings.TrimSpace(v) != "" {
		if rec.Fields.EndTime, err = parseTimestamp(v); err != nil {
			return nil, formatErr(line, "end_time", "invalid timestamp %q", v)
		}
	}

	if err := check(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func csvErr(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return formatErr(pe.Line, "", "%v", pe.Err)
	}
	return formatErr(0, "", "%v", err)
}
