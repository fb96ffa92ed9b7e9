package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseLocalDate(t *testing.T) {
	t.Parallel()

	d, err := ParseLocalDate("2026-03-16")
	if err != nil {
		t.Fatalf("ParseLocalDate failed: %v", err)
	}
	if d != NewLocalDate(2026, time.March, 16) {
		t.Fatalf("got %+v", d)
	}
	if d.String() != "2026-03-16" {
		t.Fatalf("String() = %q", d.String())
	}
	if d.Weekday() != time.Monday {
		t.Fatalf("2026-03-16 should be a Monday, got %s", d.Weekday())
	}

	for _, bad := range []string{"", "16/03/2026", "2026-13-01", "2026-02-30", "today"} {
		if _, err := ParseLocalDate(bad); err == nil {
			t.Errorf("ParseLocalDate(%q) should fail", bad)
		}
	}
}

func TestLocalDate_Arithmetic(t *testing.T) {
	t.Parallel()

	d := NewLocalDate(2026, time.March, 10)
	if got := d.AddDays(-6); got != NewLocalDate(2026, time.March, 4) {
		t.Fatalf("AddDays(-6) = %s", got)
	}
	// Month and year boundaries.
	if got := NewLocalDate(2026, time.January, 31).AddDays(1); got != NewLocalDate(2026, time.February, 1) {
		t.Fatalf("month rollover = %s", got)
	}
	if got := NewLocalDate(2025, time.December, 31).AddDays(1); got != NewLocalDate(2026, time.January, 1) {
		t.Fatalf("year rollover = %s", got)
	}

	if !NewLocalDate(2026, time.February, 28).Before(d) {
		t.Fatal("February should sort before March")
	}
	if d.Before(d) {
		t.Fatal("a date is not before itself")
	}
	if d.IsZero() {
		t.Fatal("populated date reported zero")
	}
	if !(LocalDate{}).IsZero() {
		t.Fatal("zero value not reported zero")
	}
}

func TestLocalDate_At(t *testing.T) {
	t.Parallel()

	d := NewLocalDate(2026, time.March, 16)
	at := d.At(16*60 + 30)
	want := time.Date(2026, time.March, 16, 16, 30, 0, 0, time.Local)
	if !at.Equal(want) {
		t.Fatalf("At() = %v, want %v", at, want)
	}
	if DateOf(at) != d {
		t.Fatalf("DateOf(At()) = %s", DateOf(at))
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want MinuteOfDay
	}{
		{"00:00", 0},
		{"09:05", 545},
		{"15:04", 904},
		{"23:59", 1439},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if err != nil {
			t.Errorf("ParseClock(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
		if got.String() != tc.in {
			t.Errorf("String() = %q, want %q", got.String(), tc.in)
		}
	}

	for _, bad := range []string{"", "24:00", "12:60", "-1:00", "noon", "12", "15:30xyz", "15:30 ", "x15:30"} {
		if _, err := ParseClock(bad); err == nil {
			t.Errorf("ParseClock(%q) should fail", bad)
		}
	}
}

func TestMinuteOfDay_Valid(t *testing.T) {
	t.Parallel()

	if !MinuteOfDay(0).Valid() || !MinuteOfDay(1439).Valid() {
		t.Fatal("boundary minutes should be valid")
	}
	if MinuteOfDay(-1).Valid() || MinuteOfDay(MinutesPerDay).Valid() {
		t.Fatal("out-of-range minutes should be invalid")
	}
}

func TestTimeTypes_JSON(t *testing.T) {
	t.Parallel()

	type window struct {
		Date  LocalDate   `json:"date"`
		Start MinuteOfDay `json:"start"`
	}

	in := window{Date: NewLocalDate(2026, time.March, 16), Start: 930}
	raw, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(raw) != `{"date":"2026-03-16","start":"15:30"}` {
		t.Fatalf("unexpected JSON: %s", raw)
	}

	var out window
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out != in {
		t.Fatalf("round trip changed value: %+v", out)
	}

	if err := json.Unmarshal([]byte(`{"start":"25:00"}`), &out); err == nil {
		t.Fatal("invalid clock string should fail to unmarshal")
	}
}
