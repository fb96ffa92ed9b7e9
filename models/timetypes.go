package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// LocalDate is a calendar date with no time zone attached. All booking
// dates are tutor-local wall-clock values, so the date never travels
// through UTC conversion.
type LocalDate struct {
	Year  int
	Month time.Month
	Day   int
}

func NewLocalDate(year int, month time.Month, day int) LocalDate {
	return LocalDate{Year: year, Month: month, Day: day}
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) LocalDate {
	y, m, d := t.Date()
	return LocalDate{Year: y, Month: m, Day: d}
}

func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return LocalDate{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d LocalDate) IsZero() bool {
	return d == LocalDate{}
}

// At combines the date with a wall-clock minute in the local time zone.
func (d LocalDate) At(m MinuteOfDay) time.Time {
	return time.Date(d.Year, d.Month, d.Day, int(m)/60, int(m)%60, 0, 0, time.Local)
}

func (d LocalDate) Weekday() time.Weekday {
	return d.At(0).Weekday()
}

func (d LocalDate) AddDays(n int) LocalDate {
	return DateOf(d.At(0).AddDate(0, 0, n))
}

func (d LocalDate) Before(other LocalDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d LocalDate) Value() (driver.Value, error) {
	return d.At(0), nil
}

func (d *LocalDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		parsed, err := ParseLocalDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into LocalDate", src)
	}
}

func (d LocalDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *LocalDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseLocalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GormDataType tells the migrator to use a plain date column.
func (LocalDate) GormDataType() string {
	return "date"
}

// MinuteOfDay is a wall-clock time expressed as minutes since midnight.
// Keeping the value as an integer makes interval overlap a pair of
// comparisons both in Go and in SQL range expressions.
type MinuteOfDay int16

const MinutesPerDay = 24 * 60

// ParseClock parses "HH:MM" (24-hour) into a MinuteOfDay.
func ParseClock(s string) (MinuteOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return MinuteOfDay(t.Hour()*60 + t.Minute()), nil
}

func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

func (m MinuteOfDay) Valid() bool {
	return m >= 0 && m < MinutesPerDay
}

func (m MinuteOfDay) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *MinuteOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*m = MinuteOfDay(v)
		return nil
	case int32:
		*m = MinuteOfDay(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into MinuteOfDay", src)
	}
}

func (m MinuteOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *MinuteOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (MinuteOfDay) GormDataType() string {
	return "smallint"
}
