package scheduler

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/loandash/loandash/internal/domain"
)

// Marker tokens embedded in the notes of generated payments. They are kept
// for compatibility with documents written before payments carried an
// explicit autoSequence number; occurrence counting accepts either.
const (
	AutoPaymentMarker      = "[Auto-Payment]"
	RecurringPaymentMarker = "[Recurring Payment]"
)

// Policy parameterizes the shared auto-payment state machine. The three
// scheduling categories (bank-loan auto-pay, recurring debt, recurring
// loan) differ only in these knobs.
type Policy struct {
	// Marker is the note token identifying payments generated under this
	// policy.
	Marker string

	// Method is the payment method stamped on generated payments.
	Method string

	// MinutePrecision forces due instants to 00:01 and judges due-ness
	// against the wall clock at minute granularity. Without it, due-ness
	// and the duplicate guard compare calendar days and payments are dated
	// at the start of the due day.
	MinutePrecision bool

	// CalendarMonths makes occurrence n fall on anchor plus n calendar
	// months instead of n times the recurrence day interval.
	CalendarMonths bool

	// EnforceRecurrenceEnd applies the end-date and max-occurrence guards
	// from the recurrence settings.
	EnforceRecurrenceEnd bool
}

var (
	bankLoanPolicy = Policy{
		Marker:          AutoPaymentMarker,
		Method:          "Bank Transfer",
		MinutePrecision: true,
		CalendarMonths:  true,
	}

	recurringDebtPolicy = Policy{
		Marker:               RecurringPaymentMarker,
		Method:               "Cash",
		EnforceRecurrenceEnd: true,
	}

	recurringLoanPolicy = Policy{
		Marker:               RecurringPaymentMarker,
		Method:               "Bank Transfer",
		EnforceRecurrenceEnd: true,
	}
)

// note renders the human-readable notes line for a generated payment,
// matching the format of earlier releases.
func (p Policy) note(occurrence, totalExpected int, recType domain.RecurrenceType, amount decimal.Decimal) string {
	if p.MinutePrecision {
		return fmt.Sprintf("%s Monthly payment for bank loan (%d/%d) - Processed at 00:01 AM",
			p.Marker, occurrence, totalExpected)
	}
	return fmt.Sprintf("%s %s payment (%d) - Amount: %s", p.Marker, recType, occurrence, amount)
}
