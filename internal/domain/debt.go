package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status of a debt or loan.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDefaulted Status = "defaulted"
)

// DebtType distinguishes informal credit from bank loans.
type DebtType string

const (
	DebtTypeFriend   DebtType = "Friend/Family Credit"
	DebtTypeBankLoan DebtType = "Bank Loan"
)

// PaymentAutomation controls whether a bank loan is progressed by the
// scheduler or only by manual payments.
type PaymentAutomation string

const (
	AutomationManual PaymentAutomation = "Manual"
	AutomationAuto   PaymentAutomation = "Auto"
)

// IsAuto reports whether automation is enabled. Older documents stored the
// value lower-cased, so the comparison is case-insensitive.
func (p PaymentAutomation) IsAuto() bool {
	return strings.EqualFold(string(p), string(AutomationAuto))
}

// ReminderSettings configures upcoming-payment reminders for one record.
type ReminderSettings struct {
	Enabled    bool `json:"enabled"`
	DaysBefore int  `json:"daysBefore"`
}

// Debt is money the user owes to someone else.
//
// Exactly one of IsRecurring+RecurrenceSettings (Friend/Family Credit) or
// PaymentAutomation=Auto (Bank Loan) drives scheduling. NextPaymentDate,
// SuggestedPaymentAmount and LastAutoPaymentDate are scheduler outputs and
// are recomputed on every pass.
type Debt struct {
	ID                     string              `json:"id" validate:"required"`
	Type                   DebtType            `json:"type" validate:"oneof='Friend/Family Credit' 'Bank Loan'"`
	Name                   string              `json:"name" validate:"required"`
	TotalAmount            decimal.Decimal     `json:"totalAmount" validate:"gt=0"`
	StartDate              time.Time           `json:"startDate"`
	DueDate                time.Time           `json:"dueDate"`
	Payments               []Payment           `json:"payments" validate:"dive"`
	Description            string              `json:"description,omitempty"`
	InterestRate           *decimal.Decimal    `json:"interestRate,omitempty"`
	AccruedInterest        *decimal.Decimal    `json:"accruedInterest,omitempty"`
	IsRecurring            bool                `json:"isRecurring,omitempty"`
	RecurrenceSettings     *RecurrenceSettings `json:"recurrenceSettings,omitempty"`
	Status                 Status              `json:"status" validate:"oneof=active completed defaulted"`
	Currency               string              `json:"currency,omitempty"`
	ReminderSettings       *ReminderSettings   `json:"reminderSettings,omitempty"`
	PaymentAutomation      PaymentAutomation   `json:"paymentAutomation,omitempty"`
	NextPaymentDate        *time.Time          `json:"nextPaymentDate,omitempty"`
	SuggestedPaymentAmount *decimal.Decimal    `json:"suggestedPaymentAmount,omitempty"`
	LastAutoPaymentDate    *time.Time          `json:"lastAutoPaymentDate,omitempty"`
	ArchivedDate           *time.Time          `json:"archivedDate,omitempty"`
	AutoArchived           bool                `json:"autoArchived,omitempty"`
}

// TotalPaid sums all recorded payments.
func (d *Debt) TotalPaid() decimal.Decimal {
	return TotalPaid(d.Payments)
}

// TotalOwed is the principal plus any accrued interest.
func (d *Debt) TotalOwed() decimal.Decimal {
	if d.AccruedInterest != nil {
		return d.TotalAmount.Add(*d.AccruedInterest)
	}
	return d.TotalAmount
}

// Remaining is the outstanding balance. Fully settled means Remaining is
// zero or negative; no floating tolerance applies.
func (d *Debt) Remaining() decimal.Decimal {
	return d.TotalOwed().Sub(d.TotalPaid())
}
