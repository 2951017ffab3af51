// Package numerator provides domain contracts for receipt auto-numbering.
package numerator

import (
	"fmt"
	"time"
)

// DefaultTimezone is the business day boundary used for counter keys.
const DefaultTimezone = "Asia/Ho_Chi_Minh"

// Movement identifies the stock movement a code is issued for.
type Movement string

const (
	MovementImport Movement = "import"
	MovementExport Movement = "export"
)

// Prefix returns the code prefix for the movement.
func (m Movement) Prefix() string {
	switch m {
	case MovementImport:
		return "NK"
	case MovementExport:
		return "XK"
	default:
		return ""
	}
}

// Validate checks that the movement is known.
func (m Movement) Validate() error {
	if m.Prefix() == "" {
		return fmt.Errorf("unknown movement type %q", string(m))
	}
	return nil
}

// Config holds numbering configuration.
type Config struct {
	// Location defines the calendar day a code belongs to.
	Location *time.Location

	// PadWidth is the minimum sequence width (default 3)
	PadWidth int
}

// DefaultConfig returns the configuration used in production.
func DefaultConfig() Config {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.FixedZone("ICT", 7*60*60)
	}
	return Config{
		Location: loc,
		PadWidth: 3,
	}
}

// DayStamp renders the business day of t as YYMMDD.
func (c Config) DayStamp(t time.Time) string {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("060102")
}

// CounterKey returns the counter row key, e.g. "export_251129".
func (c Config) CounterKey(m Movement, t time.Time) string {
	return fmt.Sprintf("%s_%s", m, c.DayStamp(t))
}

// Format builds the final code, e.g. "XK-251129-001".
func (c Config) Format(m Movement, t time.Time, seq int64) string {
	width := c.PadWidth
	if width <= 0 {
		width = 3
	}
	return fmt.Sprintf("%s-%s-%0*d", m.Prefix(), c.DayStamp(t), width, seq)
}
