package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EstimateAccruedInterest approximates the interest accrued on an active
// bank loan up to now, compounding monthly. Payments are bucketed by
// calendar month and applied to the balance before that month's interest
// is charged. This is a display-time estimate only; the scheduler works
// from the stored accruedInterest value, never from this function.
func EstimateAccruedInterest(d *Debt, now time.Time) decimal.Decimal {
	if d.Type != DebtTypeBankLoan || d.Status != StatusActive {
		return decimal.Zero
	}
	if d.InterestRate == nil || d.InterestRate.Sign() <= 0 {
		return decimal.Zero
	}

	// Annual percentage rate to monthly fraction.
	monthlyRate := d.InterestRate.Div(decimal.NewFromInt(1200))

	paidByMonth := make(map[string]decimal.Decimal)
	for _, p := range d.Payments {
		key := p.Date.Format("2006-01")
		paidByMonth[key] = paidByMonth[key].Add(p.Amount)
	}

	balance := d.TotalAmount
	accrued := decimal.Zero
	cursor := time.Date(d.StartDate.Year(), d.StartDate.Month(), 1, 0, 0, 0, 0, d.StartDate.Location())
	for !cursor.After(now) {
		if balance.Sign() <= 0 {
			break
		}
		balance = balance.Sub(paidByMonth[cursor.Format("2006-01")])
		if balance.Sign() > 0 {
			interest := balance.Mul(monthlyRate)
			accrued = accrued.Add(interest)
			balance = balance.Add(interest)
		}
		cursor = cursor.AddDate(0, 1, 0)
	}

	if accrued.Sign() < 0 {
		return decimal.Zero
	}
	return accrued
}
