package scheduler

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loandash/loandash/internal/domain"
)

// IDFunc produces a unique opaque identifier for a generated payment.
type IDFunc func() string

// obligation is the scheduling view shared by debts and loans. State lives
// entirely in the record's own fields; the scheduler keeps nothing between
// passes.
type obligation struct {
	totalOwed  decimal.Decimal
	startDate  time.Time
	dueDate    time.Time
	recurrence *domain.RecurrenceSettings
	payments   []domain.Payment
	status     domain.Status
	next       *time.Time
	suggested  *decimal.Decimal
	lastAuto   *time.Time
}

func (ob *obligation) complete() {
	ob.status = domain.StatusCompleted
	ob.next = nil
	ob.suggested = nil
}

// RunDebt applies one scheduler pass to a debt. Bank loans progress when
// payment automation is enabled; Friend/Family credits progress when they
// are recurring. Anything else is left untouched.
func RunDebt(d *domain.Debt, now time.Time, newID IDFunc) {
	if d.Status != domain.StatusActive {
		return
	}

	switch {
	case d.Type == domain.DebtTypeBankLoan && d.PaymentAutomation.IsAuto():
		ob := &obligation{
			totalOwed:  d.TotalOwed(),
			startDate:  d.StartDate,
			dueDate:    d.DueDate,
			recurrence: d.RecurrenceSettings,
			payments:   d.Payments,
			status:     d.Status,
			next:       d.NextPaymentDate,
			suggested:  d.SuggestedPaymentAmount,
			lastAuto:   d.LastAutoPaymentDate,
		}
		run(ob, bankLoanPolicy, now, newID)
		d.Payments = ob.payments
		d.Status = ob.status
		d.NextPaymentDate = ob.next
		d.SuggestedPaymentAmount = ob.suggested
		d.LastAutoPaymentDate = ob.lastAuto

	case d.Type == domain.DebtTypeFriend && d.IsRecurring && d.RecurrenceSettings != nil:
		ob := &obligation{
			totalOwed:  d.TotalAmount,
			startDate:  d.StartDate,
			dueDate:    d.DueDate,
			recurrence: d.RecurrenceSettings,
			payments:   d.Payments,
			status:     d.Status,
			next:       d.NextPaymentDate,
			suggested:  d.SuggestedPaymentAmount,
		}
		run(ob, recurringDebtPolicy, now, newID)
		d.Payments = ob.payments
		d.Status = ob.status
		d.NextPaymentDate = ob.next
		d.SuggestedPaymentAmount = ob.suggested
	}
}

// RunLoan applies one scheduler pass to a recurring loan.
func RunLoan(l *domain.Loan, now time.Time, newID IDFunc) {
	if l.Status != domain.StatusActive || !l.IsRecurring || l.RecurrenceSettings == nil {
		return
	}

	ob := &obligation{
		totalOwed:  l.TotalAmount,
		startDate:  l.StartDate,
		dueDate:    l.DueDate,
		recurrence: l.RecurrenceSettings,
		payments:   l.Repayments,
		status:     l.Status,
		next:       l.NextPaymentDate,
		suggested:  l.SuggestedPaymentAmount,
	}
	run(ob, recurringLoanPolicy, now, newID)
	l.Repayments = ob.payments
	l.Status = ob.status
	l.NextPaymentDate = ob.next
	l.SuggestedPaymentAmount = ob.suggested
}

// run is one pass of the state machine over one obligation. It either
// leaves the record active with a fresh next-date/suggested-amount
// projection, materializes at most one due payment, or retires the record
// to completed. Running it twice with the same now yields the same record.
func run(ob *obligation, pol Policy, now time.Time, newID IDFunc) {
	today := dayOf(now)

	// Settlement guard.
	remaining := ob.totalOwed.Sub(domain.TotalPaid(ob.payments))
	if remaining.Sign() <= 0 {
		ob.complete()
		return
	}

	rec := ob.recurrence
	if pol.EnforceRecurrenceEnd && rec != nil {
		if rec.EndDate != nil && today.After(*rec.EndDate) {
			ob.complete()
			return
		}
		if rec.MaxOccurrences > 0 && len(ob.payments) >= rec.MaxOccurrences {
			ob.complete()
			return
		}
	}

	anchor := ob.startDate
	var fixedAmount *decimal.Decimal
	var recType domain.RecurrenceType
	if rec != nil {
		if rec.FirstPaymentDate != nil {
			anchor = *rec.FirstPaymentDate
		}
		fixedAmount = rec.PaymentAmount
		recType = rec.Type
	}

	expected := expectedOccurrences(ob, pol, anchor)
	var suggested decimal.Decimal
	if fixedAmount != nil && fixedAmount.Sign() > 0 {
		suggested = *fixedAmount
	} else {
		suggested = ob.totalOwed.Div(decimal.NewFromInt(int64(expected))).Ceil()
	}

	count := countGenerated(ob.payments, pol.Marker)

	next := ob.scheduleDate(pol, anchor, count, today)
	capped := decimal.Min(suggested, remaining)
	ob.next = &next
	ob.suggested = &capped

	if !isDue(next, today, now, pol) {
		return
	}

	// One generated payment per scheduled slot, no matter how many passes
	// run inside the window.
	payDate := next
	if !pol.MinutePrecision {
		payDate = today
	}
	if hasGeneratedPayment(ob.payments, pol, next, today) {
		return
	}

	amount := decimal.Min(capped, remaining)
	occurrence := count + 1
	totalForNote := expected
	if fixedAmount != nil && fixedAmount.Sign() > 0 {
		totalForNote = int(ob.totalOwed.Div(*fixedAmount).Ceil().IntPart())
	}

	ob.payments = append(ob.payments, domain.Payment{
		ID:           newID(),
		Amount:       amount,
		Date:         payDate,
		Method:       pol.Method,
		IsPartial:    amount.LessThan(remaining),
		Notes:        pol.note(occurrence, totalForNote, recType, amount),
		AutoSequence: occurrence,
	})
	if pol.MinutePrecision {
		ob.lastAuto = &payDate
	}

	// Advance one interval with the same snap and clamp rules used above,
	// so an immediate re-run lands on the same stored date.
	newNext := ob.scheduleDate(pol, anchor, occurrence, today)
	ob.next = &newNext

	newRemaining := ob.totalOwed.Sub(domain.TotalPaid(ob.payments))
	completed := newRemaining.Sign() <= 0
	if pol.EnforceRecurrenceEnd && rec != nil {
		if rec.MaxOccurrences > 0 && occurrence >= rec.MaxOccurrences {
			completed = true
		}
		if rec.EndDate != nil && !newNext.Before(*rec.EndDate) {
			completed = true
		}
	}
	if completed {
		ob.complete()
		return
	}

	newSuggested := decimal.Min(suggested, newRemaining)
	ob.suggested = &newSuggested
}

// scheduleDate computes the date of the next occurrence after count
// generated payments: anchor plus count intervals, snapped forward to
// today when it falls in the past (compensating for skipped passes), and
// clamped so it never exceeds the due date or the recurrence end date.
func (ob *obligation) scheduleDate(pol Policy, anchor time.Time, count int, today time.Time) time.Time {
	var next time.Time
	if count == 0 {
		next = anchor
		if next.Before(today) {
			next = today
		}
	} else {
		next = occurrenceDate(pol, anchor, count, ob.recurrence)
		if next.Before(today) {
			next = today
		}
	}

	if next.After(ob.dueDate) {
		next = ob.dueDate
	}
	if pol.EnforceRecurrenceEnd && ob.recurrence != nil && ob.recurrence.EndDate != nil && next.After(*ob.recurrence.EndDate) {
		next = *ob.recurrence.EndDate
	}
	if pol.MinutePrecision {
		next = processingInstant(next)
	}
	return next
}

// occurrenceDate is anchor + n intervals, computed by multiplication from
// the anchor rather than by repeated stepping.
func occurrenceDate(pol Policy, anchor time.Time, n int, rec *domain.RecurrenceSettings) time.Time {
	if pol.CalendarMonths {
		return anchor.AddDate(0, n, 0)
	}
	days := domain.RecurrenceMonthly.DaysBetween()
	if rec != nil {
		days = rec.Type.DaysBetween()
	}
	return anchor.AddDate(0, 0, n*days)
}

// expectedOccurrences is the number of whole intervals between the anchor
// and the due date, at least 1, clamped to maxOccurrences for recurring
// policies. It sizes the derived per-payment amount.
func expectedOccurrences(ob *obligation, pol Policy, anchor time.Time) int {
	if pol.CalendarMonths {
		return maxInt(1, monthsBetween(anchor, ob.dueDate))
	}

	days := domain.RecurrenceMonthly.DaysBetween()
	if ob.recurrence != nil {
		days = ob.recurrence.Type.DaysBetween()
	}
	totalDays := int(math.Ceil(ob.dueDate.Sub(anchor).Hours() / 24))
	n := maxInt(1, ceilDiv(totalDays, days))
	if ob.recurrence != nil && ob.recurrence.MaxOccurrences > 0 && n > ob.recurrence.MaxOccurrences {
		n = ob.recurrence.MaxOccurrences
	}
	return n
}

func isDue(next, today, now time.Time, pol Policy) bool {
	if pol.MinutePrecision {
		return !now.Before(next)
	}
	return !dayOf(next).After(today)
}

// hasGeneratedPayment reports whether a scheduler-generated payment is
// already recorded for the current slot: the exact due instant at minute
// granularity for bank loans, the current calendar day otherwise.
func hasGeneratedPayment(payments []domain.Payment, pol Policy, dueInstant, today time.Time) bool {
	for _, p := range payments {
		if !isGenerated(p, pol.Marker) {
			continue
		}
		if pol.MinutePrecision {
			if p.Date.Truncate(time.Minute).Equal(dueInstant.Truncate(time.Minute)) {
				return true
			}
		} else if sameDay(p.Date, today) {
			return true
		}
	}
	return false
}

// countGenerated counts prior occurrences under a policy. Payments written
// by current releases carry autoSequence; older documents are recognized
// by the marker token in their notes.
func countGenerated(payments []domain.Payment, marker string) int {
	n := 0
	for _, p := range payments {
		if isGenerated(p, marker) {
			n++
		}
	}
	return n
}

func isGenerated(p domain.Payment, marker string) bool {
	return p.AutoSequence > 0 || strings.Contains(p.Notes, marker)
}

// dayOf truncates to midnight in t's location.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// processingInstant is 00:01 on t's calendar day, the instant at which
// bank-loan auto-payments are processed.
func processingInstant(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 1, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// monthsBetween is the number of calendar months needed to go from a to at
// least b.
func monthsBetween(a, b time.Time) int {
	m := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if m < 0 {
		return 0
	}
	if a.AddDate(0, m, 0).Before(b) {
		m++
	}
	return m
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
