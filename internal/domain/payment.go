package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// RecurrenceType describes how often a recurring payment repeats.
type RecurrenceType string

const (
	RecurrenceNone      RecurrenceType = "none"
	RecurrenceDaily     RecurrenceType = "daily"
	RecurrenceWeekly    RecurrenceType = "weekly"
	RecurrenceBiWeekly  RecurrenceType = "bi-weekly"
	RecurrenceMonthly   RecurrenceType = "monthly"
	RecurrenceQuarterly RecurrenceType = "quarterly"
	RecurrenceYearly    RecurrenceType = "yearly"
)

// DaysBetween maps a recurrence type to its payment interval in days.
// Unknown or missing types fall back to monthly.
func (r RecurrenceType) DaysBetween() int {
	switch r {
	case RecurrenceDaily:
		return 1
	case RecurrenceWeekly:
		return 7
	case RecurrenceBiWeekly:
		return 14
	case RecurrenceMonthly:
		return 30
	case RecurrenceQuarterly:
		return 90
	case RecurrenceYearly:
		return 365
	default:
		return 30
	}
}

// NextAfter steps one recurrence period past t. Used for display
// projections only; the scheduler always multiplies from the anchor date
// instead of stepping so that edits cannot accumulate drift.
func (r RecurrenceType) NextAfter(t time.Time) time.Time {
	switch r {
	case RecurrenceDaily:
		return t.AddDate(0, 0, 1)
	case RecurrenceWeekly:
		return t.AddDate(0, 0, 7)
	case RecurrenceBiWeekly:
		return t.AddDate(0, 0, 14)
	case RecurrenceQuarterly:
		return t.AddDate(0, 3, 0)
	case RecurrenceYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}

func (r RecurrenceType) label() string {
	switch r {
	case RecurrenceDaily:
		return "Daily"
	case RecurrenceWeekly:
		return "Weekly"
	case RecurrenceBiWeekly:
		return "Bi-weekly"
	case RecurrenceQuarterly:
		return "Quarterly"
	case RecurrenceYearly:
		return "Yearly"
	default:
		return "Monthly"
	}
}

// RecurrenceSettings configures the recurring/auto payment policy of a
// debt or loan.
type RecurrenceSettings struct {
	Type             RecurrenceType   `json:"type"`
	EndDate          *time.Time       `json:"endDate,omitempty"`
	MaxOccurrences   int              `json:"maxOccurrences,omitempty" validate:"omitempty,gt=0"`
	FirstPaymentDate *time.Time       `json:"firstPaymentDate,omitempty"`
	PaymentAmount    *decimal.Decimal `json:"paymentAmount,omitempty"`
}

// Description renders the settings for display, e.g. "Weekly until
// 12/31/2024" or "Monthly for 6 occurrences".
func (s RecurrenceSettings) Description() string {
	desc := s.Type.label()
	if s.EndDate != nil {
		return fmt.Sprintf("%s until %s", desc, s.EndDate.Format("1/2/2006"))
	}
	if s.MaxOccurrences > 0 {
		return fmt.Sprintf("%s for %d occurrences", desc, s.MaxOccurrences)
	}
	return desc
}

// Payment is one monetary movement against a debt or loan.
//
// AutoSequence is the occurrence number stamped by the scheduler (1-based);
// zero means the payment was entered by hand. Scheduler-generated payments
// additionally keep a marker token in Notes for compatibility with
// documents written before AutoSequence existed.
type Payment struct {
	ID           string          `json:"id"`
	Amount       decimal.Decimal `json:"amount" validate:"gt=0"`
	Date         time.Time       `json:"date"`
	Method       string          `json:"method,omitempty"`
	IsPartial    bool            `json:"isPartial,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	AutoSequence int             `json:"autoSequence,omitempty"`
}

// TotalPaid sums the amounts of all payments.
func TotalPaid(payments []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}
