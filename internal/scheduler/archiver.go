package scheduler

import (
	"time"

	"github.com/loandash/loandash/internal/domain"
)

// Sweep moves completed debts and loans from the active lists to the
// archive lists according to the document's auto-archive policy. Records
// that are fully paid but not yet past the policy threshold stay in the
// active list with status completed. Sweeping never alters a record's
// amounts or payment history, only its status, archive stamp, and list
// membership.
func Sweep(doc *domain.Document, now time.Time) {
	threshold, enabled := doc.AutoArchive.Threshold()
	if !enabled {
		return
	}

	if doc.ArchivedDebts == nil {
		doc.ArchivedDebts = []domain.Debt{}
	}
	if doc.ArchivedLoans == nil {
		doc.ArchivedLoans = []domain.Loan{}
	}

	activeDebts := make([]domain.Debt, 0, len(doc.Debts))
	for _, d := range doc.Debts {
		if d.Status != domain.StatusCompleted && d.Remaining().Sign() > 0 {
			activeDebts = append(activeDebts, d)
			continue
		}
		d.Status = domain.StatusCompleted
		if pastThreshold(CompletionDate(d.Payments, d.TotalOwed()), now, threshold) {
			stamp := now
			d.ArchivedDate = &stamp
			d.AutoArchived = true
			doc.ArchivedDebts = append(doc.ArchivedDebts, d)
			continue
		}
		activeDebts = append(activeDebts, d)
	}
	doc.Debts = activeDebts

	activeLoans := make([]domain.Loan, 0, len(doc.Loans))
	for _, l := range doc.Loans {
		if l.Status != domain.StatusCompleted && l.Remaining().Sign() > 0 {
			activeLoans = append(activeLoans, l)
			continue
		}
		l.Status = domain.StatusCompleted
		if pastThreshold(CompletionDate(l.Repayments, l.TotalOwed()), now, threshold) {
			stamp := now
			l.ArchivedDate = &stamp
			l.AutoArchived = true
			doc.ArchivedLoans = append(doc.ArchivedLoans, l)
			continue
		}
		activeLoans = append(activeLoans, l)
	}
	doc.Loans = activeLoans
}

// pastThreshold reports whether enough whole days have elapsed since
// completion. A zero threshold archives unconditionally; a record without
// a determinable completion date is held until the policy is immediate.
func pastThreshold(completed *time.Time, now time.Time, threshold int) bool {
	if threshold == 0 {
		return true
	}
	if completed == nil {
		return false
	}
	days := int(now.Sub(*completed).Hours() / 24)
	return days >= threshold
}
