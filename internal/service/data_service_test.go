package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loandash/loandash/internal/domain"
	customError "github.com/loandash/loandash/pkg/errors"
)

type fakeRepository struct {
	doc     *domain.Document
	saves   int
	loadErr error
	saveErr error
}

func (f *fakeRepository) Load(ctx context.Context) (*domain.Document, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.doc, nil
}

func (f *fakeRepository) Save(ctx context.Context, doc *domain.Document) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.doc = doc
	return nil
}

func newTestService(repo *fakeRepository, now time.Time) *DataService {
	log := logrus.New()
	log.SetOutput(io.Discard)

	n := 0
	return &DataService{
		repo: repo,
		log:  log,
		now:  func() time.Time { return now },
		newID: func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		},
	}
}

func autoBankLoanDoc() *domain.Document {
	doc := domain.DefaultDocument()
	doc.Debts = []domain.Debt{
		{
			ID:                "d-1",
			Type:              domain.DebtTypeBankLoan,
			Name:              "Car loan",
			TotalAmount:       decimal.NewFromInt(1200),
			StartDate:         time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			DueDate:           time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
			Payments:          []domain.Payment{},
			Status:            domain.StatusActive,
			PaymentAutomation: domain.AutomationAuto,
		},
	}
	return doc
}

func TestLoadPersistsSchedulerChanges(t *testing.T) {
	repo := &fakeRepository{doc: autoBankLoanDoc()}
	now := time.Date(2024, time.January, 1, 0, 2, 0, 0, time.UTC)
	svc := newTestService(repo, now)

	doc, err := svc.Load(context.Background())
	require.NoError(t, err)

	// The due installment was materialized and the result saved.
	require.Len(t, doc.Debts[0].Payments, 1)
	assert.Equal(t, "gen-1", doc.Debts[0].Payments[0].ID)
	assert.Equal(t, 1, repo.saves)

	// A second load at the same instant changes nothing and saves nothing.
	again, err := svc.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, again.Debts[0].Payments, 1)
	assert.Equal(t, 1, repo.saves)
}

func TestLoadServesDocumentWhenSaveFails(t *testing.T) {
	repo := &fakeRepository{doc: autoBankLoanDoc(), saveErr: errors.New("disk full")}
	now := time.Date(2024, time.January, 1, 0, 2, 0, 0, time.UTC)
	svc := newTestService(repo, now)

	doc, err := svc.Load(context.Background())

	require.Error(t, err)
	assert.True(t, customError.IsStorageError(err))
	require.NotNil(t, doc)
	assert.Len(t, doc.Debts[0].Payments, 1)
}

func TestLoadPropagatesReadFailure(t *testing.T) {
	repo := &fakeRepository{loadErr: errors.New("permission denied")}
	svc := newTestService(repo, time.Now())

	doc, err := svc.Load(context.Background())

	assert.Nil(t, doc)
	assert.True(t, customError.IsStorageError(err))
}

func TestSaveRunsPassBeforePersisting(t *testing.T) {
	repo := &fakeRepository{}
	now := time.Date(2024, time.January, 1, 0, 2, 0, 0, time.UTC)
	svc := newTestService(repo, now)

	saved, err := svc.Save(context.Background(), autoBankLoanDoc())
	require.NoError(t, err)

	assert.Len(t, saved.Debts[0].Payments, 1)
	assert.Equal(t, 1, repo.saves)
	assert.Same(t, saved, repo.doc)
}

func TestSaveAppliesArchivePolicy(t *testing.T) {
	now := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	doc := domain.DefaultDocument()
	doc.AutoArchive = domain.ArchiveImmediately
	doc.Debts = []domain.Debt{
		{
			ID:          "d-done",
			Type:        domain.DebtTypeFriend,
			Name:        "Settled",
			TotalAmount: decimal.NewFromInt(100),
			StartDate:   now.AddDate(0, -2, 0),
			DueDate:     now.AddDate(0, 1, 0),
			Payments: []domain.Payment{
				{ID: "p-1", Amount: decimal.NewFromInt(100), Date: now.AddDate(0, 0, -1)},
			},
			Status: domain.StatusActive,
		},
	}

	repo := &fakeRepository{}
	svc := newTestService(repo, now)

	saved, err := svc.Save(context.Background(), doc)
	require.NoError(t, err)

	assert.Empty(t, saved.Debts)
	require.Len(t, saved.ArchivedDebts, 1)
	assert.True(t, saved.ArchivedDebts[0].AutoArchived)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	rate := decimal.NewFromInt(12)

	doc := domain.DefaultDocument()
	doc.Debts = []domain.Debt{
		{
			ID:          "d-overdue",
			Type:        domain.DebtTypeFriend,
			Name:        "Overdue debt",
			TotalAmount: decimal.NewFromInt(300),
			StartDate:   now.AddDate(0, -3, 0),
			DueDate:     now.AddDate(0, 0, -5),
			Payments: []domain.Payment{
				{ID: "p-1", Amount: decimal.NewFromInt(100), Date: now.AddDate(0, -1, 0)},
			},
			Status: domain.StatusActive,
		},
		{
			ID:              "d-bank",
			Type:            domain.DebtTypeBankLoan,
			Name:            "Bank loan",
			TotalAmount:     decimal.NewFromInt(1000),
			AccruedInterest: &rate,
			StartDate:       now.AddDate(0, -1, 0),
			DueDate:         now.AddDate(0, 6, 0),
			Status:          domain.StatusActive,
		},
		{
			ID:          "d-done",
			Type:        domain.DebtTypeFriend,
			Name:        "Finished",
			TotalAmount: decimal.NewFromInt(50),
			DueDate:     now.AddDate(0, 0, -1),
			Status:      domain.StatusCompleted,
		},
	}
	doc.Loans = []domain.Loan{
		{
			ID:          "l-1",
			Name:        "Lent to Omar",
			TotalAmount: decimal.NewFromInt(500),
			DueDate:     now.AddDate(0, 1, 0),
			Repayments: []domain.Payment{
				{ID: "r-1", Amount: decimal.NewFromInt(300), Date: now.AddDate(0, 0, -10)},
			},
			Status: domain.StatusActive,
		},
	}

	svc := newTestService(&fakeRepository{}, now)
	sum := svc.Summarize(doc, now)

	assert.Equal(t, 2, sum.ActiveDebts)
	assert.Equal(t, 1, sum.ActiveLoans)
	assert.Equal(t, 1, sum.OverdueDebts)
	assert.Equal(t, 0, sum.OverdueLoans)
	// 200 outstanding informal credit + 1012 bank balance with interest.
	assert.True(t, sum.TotalOwed.Equal(decimal.NewFromInt(1212)), "totalOwed = %s", sum.TotalOwed)
	assert.True(t, sum.TotalOwing.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "MAD", sum.DefaultCurrency)
}

func TestUpcomingReminders(t *testing.T) {
	now := time.Date(2024, time.June, 20, 0, 0, 0, 0, time.UTC)
	inTwoDays := now.AddDate(0, 0, 2)
	inTenDays := now.AddDate(0, 0, 10)
	suggested := decimal.NewFromInt(100)

	doc := domain.DefaultDocument()
	doc.Debts = []domain.Debt{
		{
			ID:                     "d-soon",
			Type:                   domain.DebtTypeFriend,
			Name:                   "Due soon",
			TotalAmount:            decimal.NewFromInt(300),
			DueDate:                now.AddDate(0, 1, 0),
			NextPaymentDate:        &inTwoDays,
			SuggestedPaymentAmount: &suggested,
			Status:                 domain.StatusActive,
		},
		{
			ID:          "d-far",
			Type:        domain.DebtTypeFriend,
			Name:        "Due later",
			TotalAmount: decimal.NewFromInt(300),
			DueDate:     now.AddDate(0, 1, 0),
			NextPaymentDate: func() *time.Time {
				d := inTenDays
				return &d
			}(),
			Status: domain.StatusActive,
		},
		{
			ID:               "d-muted",
			Type:             domain.DebtTypeFriend,
			Name:             "Muted",
			TotalAmount:      decimal.NewFromInt(300),
			DueDate:          inTwoDays,
			ReminderSettings: &domain.ReminderSettings{Enabled: false, DaysBefore: 7},
			Status:           domain.StatusActive,
		},
	}
	doc.Loans = []domain.Loan{
		{
			ID:               "l-wide",
			Name:             "Wide window",
			TotalAmount:      decimal.NewFromInt(500),
			DueDate:          inTenDays,
			ReminderSettings: &domain.ReminderSettings{Enabled: true, DaysBefore: 14},
			Status:           domain.StatusActive,
		},
	}

	svc := newTestService(&fakeRepository{}, now)
	reminders := svc.UpcomingReminders(doc, now)

	// d-soon is inside the 3-day default window, d-far is not; the muted
	// debt is skipped; the loan widened its own window to 14 days. Sorted
	// soonest first.
	require.Len(t, reminders, 2)
	assert.Equal(t, "d-soon", reminders[0].ID)
	assert.Equal(t, 2, reminders[0].DaysUntil)
	assert.True(t, reminders[0].Amount.Equal(suggested))
	assert.Equal(t, "l-wide", reminders[1].ID)
	assert.Equal(t, "loan", reminders[1].Kind)
	assert.True(t, reminders[1].Amount.Equal(decimal.NewFromInt(500)))

	doc.NotificationSettings.Enabled = false
	assert.Nil(t, svc.UpcomingReminders(doc, now))
}
