package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()

	all := []BookingStatus{
		StatusPending, StatusScheduled, StatusRejected,
		StatusCancelled, StatusReschedulePending, StatusCompleted,
	}
	legal := map[BookingStatus]map[BookingStatus]bool{
		StatusPending: {
			StatusScheduled: true, StatusRejected: true,
			StatusCancelled: true, StatusReschedulePending: true,
		},
		StatusScheduled: {
			StatusCancelled: true, StatusReschedulePending: true,
			StatusCompleted: true,
		},
		StatusReschedulePending: {
			StatusScheduled: true, StatusRejected: true,
		},
	}

	for _, from := range all {
		for _, to := range all {
			want := legal[from][to]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("%s -> %s: got %v, want %v", from, to, got, want)
			}
		}
	}

	if BookingStatus("bogus").CanTransitionTo(StatusScheduled) {
		t.Error("unknown status must not transition anywhere")
	}
}

func TestBookingStatus_Classification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status   BookingStatus
		active   bool
		terminal bool
		awaiting bool
	}{
		{StatusPending, true, false, true},
		{StatusScheduled, true, false, false},
		{StatusReschedulePending, true, false, true},
		{StatusRejected, false, true, false},
		{StatusCancelled, false, true, false},
		{StatusCompleted, false, true, false},
	}
	for _, tc := range cases {
		if tc.status.Active() != tc.active {
			t.Errorf("%s: Active() = %v", tc.status, tc.status.Active())
		}
		if tc.status.Terminal() != tc.terminal {
			t.Errorf("%s: Terminal() = %v", tc.status, tc.status.Terminal())
		}
		if tc.status.AwaitingTutor() != tc.awaiting {
			t.Errorf("%s: AwaitingTutor() = %v", tc.status, tc.status.AwaitingTutor())
		}
	}

	if len(ActiveStatuses) != 3 {
		t.Fatalf("expected 3 active statuses, got %d", len(ActiveStatuses))
	}
	for _, s := range ActiveStatuses {
		if !s.Active() {
			t.Errorf("%s listed active but Active() is false", s)
		}
	}
}

func TestSessionAmount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		rate       string
		start, end MinuteOfDay
		want       string
	}{
		{"40.00", 15 * 60, 16 * 60, "40.00"},
		{"40.00", 15 * 60, 16*60 + 30, "60.00"},
		{"35.50", 10 * 60, 10*60 + 45, "26.63"}, // 35.50 * 0.75 = 26.625, rounds up
		{"0.00", 9 * 60, 17 * 60, "0.00"},
		{"25.00", 9 * 60, 9*60 + 1, "0.42"}, // one-minute edge
	}
	for _, tc := range cases {
		rate := decimal.RequireFromString(tc.rate)
		got := SessionAmount(rate, tc.start, tc.end)
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Errorf("SessionAmount(%s, %s, %s) = %s, want %s",
				tc.rate, tc.start, tc.end, got, tc.want)
		}
	}
}
