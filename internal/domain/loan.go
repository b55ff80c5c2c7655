package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is money owed to the user. Same shape as Debt minus the bank-loan
// specifics; repayments take the place of payments.
type Loan struct {
	ID                     string              `json:"id" validate:"required"`
	Name                   string              `json:"name" validate:"required"`
	TotalAmount            decimal.Decimal     `json:"totalAmount" validate:"gt=0"`
	StartDate              time.Time           `json:"startDate"`
	DueDate                time.Time           `json:"dueDate"`
	Repayments             []Payment           `json:"repayments" validate:"dive"`
	Description            string              `json:"description,omitempty"`
	Status                 Status              `json:"status" validate:"oneof=active completed defaulted"`
	Currency               string              `json:"currency,omitempty"`
	ReminderSettings       *ReminderSettings   `json:"reminderSettings,omitempty"`
	IsRecurring            bool                `json:"isRecurring,omitempty"`
	RecurrenceSettings     *RecurrenceSettings `json:"recurrenceSettings,omitempty"`
	AccruedInterest        *decimal.Decimal    `json:"accruedInterest,omitempty"`
	NextPaymentDate        *time.Time          `json:"nextPaymentDate,omitempty"`
	SuggestedPaymentAmount *decimal.Decimal    `json:"suggestedPaymentAmount,omitempty"`
	ArchivedDate           *time.Time          `json:"archivedDate,omitempty"`
	AutoArchived           bool                `json:"autoArchived,omitempty"`
}

// TotalRepaid sums all recorded repayments.
func (l *Loan) TotalRepaid() decimal.Decimal {
	return TotalPaid(l.Repayments)
}

// TotalOwed is the principal plus any accrued interest.
func (l *Loan) TotalOwed() decimal.Decimal {
	if l.AccruedInterest != nil {
		return l.TotalAmount.Add(*l.AccruedInterest)
	}
	return l.TotalAmount
}

// Remaining is the outstanding balance.
func (l *Loan) Remaining() decimal.Decimal {
	return l.TotalOwed().Sub(l.TotalRepaid())
}
