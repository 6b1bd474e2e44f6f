package session

import "strings"

// WarningCode identifies an advisory validation finding.
type WarningCode string

const (
	WarnCrossesMidnight   WarningCode = "crosses_midnight"
	WarnNonPositiveTime   WarningCode = "non_positive_time"
	WarnNonPositiveMiles  WarningCode = "non_positive_miles"
	WarnActiveExceedsDash WarningCode = "active_exceeds_dash"
	WarnMilesBackward     WarningCode = "miles_backward"
)

// Warning is a non-blocking validation finding. The user may proceed anyway.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

// Validate returns the advisory warnings for a session.
func Validate(s Session) []Warning {
	var warnings []Warning
	if s.EndTime.Before(s.StartTime) {
		warnings = append(warnings, Warning{WarnCrossesMidnight, "End time earlier than start time (treated as crossing midnight)."})
	}
	d := Derive(s)
	if d.TotalMinutes <= 0 {
		warnings = append(warnings, Warning{WarnNonPositiveTime, "Total time is 0/negative → $/hour will be blank."})
	}
	if d.TotalMiles <= 0 {
		warnings = append(warnings, Warning{WarnNonPositiveMiles, "Miles is 0/negative → $/mile will be blank."})
	}
	if s.ActiveMinutes > s.DashMinutes {
		warnings = append(warnings, Warning{WarnActiveExceedsDash, "Active minutes > dash minutes → wait forced to 0."})
	}
	if s.EndMiles < s.StartMiles {
		warnings = append(warnings, Warning{WarnMilesBackward, "End miles < start miles → negative miles."})
	}
	return warnings
}

// checkFields rejects input no override can make valid.
func checkFields(f Session) error {
	switch {
	case f.ZoneID <= 0:
		return ErrInvalidInput
	case strings.TrimSpace(f.TimeBlock) == "":
		return ErrInvalidInput
	case f.StartTime.IsZero() || f.EndTime.IsZero():
		return ErrInvalidInput
	case f.Orders < 0 || f.DashMinutes < 0 || f.ActiveMinutes < 0:
		return ErrInvalidInput
	}
	return nil
}
