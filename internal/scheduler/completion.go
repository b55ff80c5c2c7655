package scheduler

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loandash/loandash/internal/domain"
)

// CompletionDate replays the payment history in chronological order and
// returns the date of the first payment at which the running total reached
// the total owed. Payments with identical dates keep their list order. Nil
// when the history is empty or never reaches the threshold.
func CompletionDate(payments []domain.Payment, totalOwed decimal.Decimal) *time.Time {
	if len(payments) == 0 {
		return nil
	}

	sorted := make([]domain.Payment, len(payments))
	copy(sorted, payments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	running := decimal.Zero
	for _, p := range sorted {
		running = running.Add(p.Amount)
		if running.Cmp(totalOwed) >= 0 {
			d := p.Date
			return &d
		}
	}
	return nil
}
