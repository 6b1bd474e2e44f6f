// Package format renders money, distances and durations for display.
package format

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is shown for metrics that cannot be computed.
const Placeholder = "—"

// Formatter formats values for one display locale and currency.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// New builds a formatter for a BCP 47 locale and an ISO 4217 currency code.
func New(locale, currencyCode string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return nil, fmt.Errorf("invalid currency %q: %w", currencyCode, err)
	}
	p := message.NewPrinter(tag)
	return &Formatter{
		printer: p,
		symbol:  p.Sprint(currency.NarrowSymbol(unit)),
	}, nil
}

// Default formats for en-US and USD.
func Default() *Formatter {
	f, _ := New("en-US", "USD")
	return f
}

// Money renders an amount like $1,234.50 or -$3.25.
func (f *Formatter) Money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + f.symbol + f.printer.Sprintf("%.2f", v)
}

// Number2 renders a number with two decimals and locale grouping.
func (f *Formatter) Number2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	return f.printer.Sprintf("%.2f", v)
}

// Miles renders a distance like 12.3 mi.
func (f *Formatter) Miles(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Placeholder
	}
	return f.printer.Sprintf("%.1f mi", v)
}

// Rate renders an optional money rate with a unit suffix such as "/hr".
func (f *Formatter) Rate(v *float64, suffix string) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return Placeholder
	}
	return f.Money(*v) + suffix
}

// HoursMinutes renders minutes like 2h 30m. Negative input shows as 0h 0m.
func HoursMinutes(minutes int64) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// SessionDate renders the day a session started, like Mon, Jan 1.
func SessionDate(t time.Time) string {
	return t.Format("Mon, Jan 2")
}

// Clock renders a time of day like 5:04 PM.
func Clock(t time.Time) string {
	return t.Format("3:04 PM")
}
