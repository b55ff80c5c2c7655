package scheduler

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loandash/loandash/internal/domain"
)

func completedDebt(id string, total int64, paidOn time.Time) domain.Debt {
	return domain.Debt{
		ID:          id,
		Type:        domain.DebtTypeFriend,
		Name:        "Settled debt " + id,
		TotalAmount: decimal.NewFromInt(total),
		StartDate:   paidOn.AddDate(0, -1, 0),
		DueDate:     paidOn.AddDate(0, 1, 0),
		Payments: []domain.Payment{
			{ID: id + "-p", Amount: decimal.NewFromInt(total), Date: paidOn, Method: "Cash"},
		},
		Status: domain.StatusCompleted,
	}
}

func TestSweepSevenDayPolicy(t *testing.T) {
	now := date(2024, time.June, 20)
	doc := domain.DefaultDocument()
	doc.AutoArchive = domain.ArchiveAfter7Days
	doc.Debts = []domain.Debt{
		completedDebt("d-old", 100, now.AddDate(0, 0, -10)),
		completedDebt("d-fresh", 100, now.AddDate(0, 0, -5)),
	}

	Sweep(doc, now)

	// Only the record completed beyond the 7-day threshold moves.
	require.Len(t, doc.ArchivedDebts, 1)
	archived := doc.ArchivedDebts[0]
	assert.Equal(t, "d-old", archived.ID)
	assert.True(t, archived.AutoArchived)
	require.NotNil(t, archived.ArchivedDate)
	assert.Equal(t, now, *archived.ArchivedDate)

	require.Len(t, doc.Debts, 1)
	assert.Equal(t, "d-fresh", doc.Debts[0].ID)
	assert.Equal(t, domain.StatusCompleted, doc.Debts[0].Status)
	assert.False(t, doc.Debts[0].AutoArchived)
}

func TestSweepNeverPolicyIsNoOp(t *testing.T) {
	now := date(2024, time.June, 20)
	doc := domain.DefaultDocument()
	doc.AutoArchive = domain.ArchiveNever
	doc.Debts = []domain.Debt{completedDebt("d-1", 100, now.AddDate(0, 0, -90))}

	Sweep(doc, now)

	assert.Len(t, doc.Debts, 1)
	assert.Empty(t, doc.ArchivedDebts)
}

func TestSweepImmediatelyArchivesSettledRecords(t *testing.T) {
	now := date(2024, time.June, 20)
	doc := domain.DefaultDocument()
	doc.AutoArchive = domain.ArchiveImmediately
	doc.Debts = []domain.Debt{completedDebt("d-1", 100, now)}
	doc.Loans = []domain.Loan{
		{
			ID:          "l-1",
			Name:        "Lent to Driss",
			TotalAmount: decimal.NewFromInt(200),
			StartDate:   now.AddDate(0, -2, 0),
			DueDate:     now.AddDate(0, 1, 0),
			Repayments: []domain.Payment{
				{ID: "l-1-p", Amount: decimal.NewFromInt(200), Date: now, Method: "Cash"},
			},
			Status: domain.StatusActive,
		},
	}

	Sweep(doc, now)

	assert.Empty(t, doc.Debts)
	assert.Empty(t, doc.Loans)
	require.Len(t, doc.ArchivedDebts, 1)
	require.Len(t, doc.ArchivedLoans, 1)
	// A fully repaid loan is stamped completed on its way to the archive.
	assert.Equal(t, domain.StatusCompleted, doc.ArchivedLoans[0].Status)
	assert.True(t, doc.ArchivedLoans[0].AutoArchived)
}

func TestSweepLeavesActiveRecordsAlone(t *testing.T) {
	now := date(2024, time.June, 20)
	doc := domain.DefaultDocument()
	doc.AutoArchive = domain.ArchiveImmediately
	doc.Debts = []domain.Debt{
		{
			ID:          "d-open",
			Type:        domain.DebtTypeFriend,
			Name:        "Still owing",
			TotalAmount: decimal.NewFromInt(300),
			StartDate:   now.AddDate(0, -1, 0),
			DueDate:     now.AddDate(0, 1, 0),
			Payments: []domain.Payment{
				{ID: "p-1", Amount: decimal.NewFromInt(100), Date: now.AddDate(0, 0, -3)},
			},
			Status: domain.StatusActive,
		},
	}

	Sweep(doc, now)

	require.Len(t, doc.Debts, 1)
	assert.Equal(t, domain.StatusActive, doc.Debts[0].Status)
	assert.Empty(t, doc.ArchivedDebts)
}

func TestSweepConservesRecordsAndHistory(t *testing.T) {
	now := date(2024, time.June, 20)
	doc := domain.DefaultDocument()
	doc.AutoArchive = domain.ArchiveAfter1Day
	doc.Debts = []domain.Debt{
		completedDebt("d-1", 100, now.AddDate(0, 0, -2)),
		completedDebt("d-2", 250, now),
	}
	doc.ArchivedDebts = []domain.Debt{completedDebt("d-0", 50, now.AddDate(0, -6, 0))}

	Sweep(doc, now)

	// No record is created, dropped, or has its ledger altered.
	assert.Equal(t, 3, len(doc.Debts)+len(doc.ArchivedDebts))
	seen := map[string]bool{}
	for _, d := range append(doc.Debts, doc.ArchivedDebts...) {
		seen[d.ID] = true
		require.Len(t, d.Payments, 1)
		assert.True(t, d.TotalPaid().Equal(d.TotalAmount))
	}
	assert.True(t, seen["d-0"] && seen["d-1"] && seen["d-2"])
}

func TestSweepHoldsRecordWithoutCompletionDate(t *testing.T) {
	// Completed status but an empty ledger: there is no completion date to
	// measure a day threshold from, so the record stays put.
	now := date(2024, time.June, 20)
	doc := domain.DefaultDocument()
	doc.AutoArchive = domain.ArchiveAfter7Days
	d := completedDebt("d-1", 100, now)
	d.Payments = []domain.Payment{}
	doc.Debts = []domain.Debt{d}

	Sweep(doc, now)

	assert.Len(t, doc.Debts, 1)
	assert.Empty(t, doc.ArchivedDebts)
}
