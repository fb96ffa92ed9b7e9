package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anjiri1684/tutor_marketplace/models"
	"github.com/anjiri1684/tutor_marketplace/repository"
)

// DateEarnings is one calendar day's completed-session income.
type DateEarnings struct {
	Date     models.LocalDate `json:"date"`
	Amount   decimal.Decimal  `json:"amount"`
	Sessions int              `json:"sessions"`
}

// SubjectEarnings is one subject's completed-session income.
type SubjectEarnings struct {
	Subject  string          `json:"subject"`
	Amount   decimal.Decimal `json:"amount"`
	Average  decimal.Decimal `json:"average"`
	Sessions int             `json:"sessions"`
}

// EarningsReport aggregates a tutor's completed bookings. All sums are
// fixed-point; nothing here accumulates floats.
type EarningsReport struct {
	TotalEarnings decimal.Decimal   `json:"total_earnings"`
	SessionsCount int               `json:"sessions_count"`
	ByDate        []DateEarnings    `json:"by_date"`
	BySubject     []SubjectEarnings `json:"by_subject"`
	Today         decimal.Decimal   `json:"today"`
	ThisWeek      decimal.Decimal   `json:"this_week"`
	ThisMonth     decimal.Decimal   `json:"this_month"`
}

// EarningsAggregator reduces completed bookings into per-day, per-subject
// and rolling-window totals.
type EarningsAggregator struct {
	store repository.Store
	now   func() time.Time
}

func NewEarningsAggregator(store repository.Store, now func() time.Time) *EarningsAggregator {
	if now == nil {
		now = time.Now
	}
	return &EarningsAggregator{store: store, now: now}
}

// GetEarnings scans the tutor's completed bookings in one pass. "Today" is
// the current calendar date, "this week" the last seven days including
// today, "this month" the current calendar month.
func (a *EarningsAggregator) GetEarnings(ctx context.Context, tutorID uuid.UUID) (*EarningsReport, error) {
	completed, err := a.store.Bookings().ListCompletedByTutor(ctx, tutorID)
	if err != nil {
		return nil, err
	}

	today := models.DateOf(a.now())
	weekStart := today.AddDays(-6)

	report := &EarningsReport{
		TotalEarnings: decimal.Zero,
		Today:         decimal.Zero,
		ThisWeek:      decimal.Zero,
		ThisMonth:     decimal.Zero,
		ByDate:        []DateEarnings{},
		BySubject:     []SubjectEarnings{},
	}

	byDate := make(map[models.LocalDate]*DateEarnings)
	bySubject := make(map[string]*SubjectEarnings)

	for i := range completed {
		b := &completed[i]
		amount := b.TotalAmount

		report.TotalEarnings = report.TotalEarnings.Add(amount)
		report.SessionsCount++

		day, ok := byDate[b.BookingDate]
		if !ok {
			day = &DateEarnings{Date: b.BookingDate, Amount: decimal.Zero}
			byDate[b.BookingDate] = day
		}
		day.Amount = day.Amount.Add(amount)
		day.Sessions++

		subject, ok := bySubject[b.Subject]
		if !ok {
			subject = &SubjectEarnings{Subject: b.Subject, Amount: decimal.Zero}
			bySubject[b.Subject] = subject
		}
		subject.Amount = subject.Amount.Add(amount)
		subject.Sessions++

		if b.BookingDate == today {
			report.Today = report.Today.Add(amount)
		}
		if !b.BookingDate.Before(weekStart) && !today.Before(b.BookingDate) {
			report.ThisWeek = report.ThisWeek.Add(amount)
		}
		if b.BookingDate.Year == today.Year && b.BookingDate.Month == today.Month {
			report.ThisMonth = report.ThisMonth.Add(amount)
		}
	}

	for _, day := range byDate {
		report.ByDate = append(report.ByDate, *day)
	}
	sort.Slice(report.ByDate, func(i, j int) bool {
		return report.ByDate[i].Date.Before(report.ByDate[j].Date)
	})

	for _, subject := range bySubject {
		subject.Average = subject.Amount.
			Div(decimal.NewFromInt(int64(subject.Sessions))).
			Round(2)
		report.BySubject = append(report.BySubject, *subject)
	}
	sort.Slice(report.BySubject, func(i, j int) bool {
		return report.BySubject[i].Subject < report.BySubject[j].Subject
	})

	return report, nil
}
