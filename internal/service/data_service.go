package service

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/loandash/loandash/internal/domain"
	"github.com/loandash/loandash/internal/repository"
	"github.com/loandash/loandash/internal/scheduler"
	customError "github.com/loandash/loandash/pkg/errors"
)

// Clock supplies the current time. Injected so scheduler passes are
// deterministic under test.
type Clock func() time.Time

// DataService owns every read-modify-write cycle of the document. Each
// load and each save runs the full scheduler and archiver pass, and
// persists the result only when the pass changed something — reads can
// therefore cause writes, which keeps the schedule current without any
// background timer.
type DataService struct {
	repo  repository.DocumentRepository
	log   *logrus.Logger
	now   Clock
	newID scheduler.IDFunc
}

func NewDataService(repo repository.DocumentRepository, log *logrus.Logger) *DataService {
	return &DataService{
		repo:  repo,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// RunSchedulerAndArchiver applies the auto-payment scheduler to every debt
// and loan, then the auto-archive sweeper over the whole document. It
// reports whether the document changed, judged on the serialized form just
// as it will be persisted.
func (s *DataService) RunSchedulerAndArchiver(doc *domain.Document, now time.Time) bool {
	before, err := json.Marshal(doc)
	if err != nil {
		s.log.WithError(err).Error("could not snapshot document before pass")
		return false
	}

	for i := range doc.Debts {
		scheduler.RunDebt(&doc.Debts[i], now, s.newID)
	}
	for i := range doc.Loans {
		scheduler.RunLoan(&doc.Loans[i], now, s.newID)
	}
	scheduler.Sweep(doc, now)

	after, err := json.Marshal(doc)
	if err != nil {
		s.log.WithError(err).Error("could not snapshot document after pass")
		return true
	}
	return !bytes.Equal(before, after)
}

// Load reads the document, runs the pass, and persists the result if it
// changed. When persisting fails the computed document is still returned
// alongside the error; the change is simply not durable yet and will be
// recomputed by the next pass.
func (s *DataService) Load(ctx context.Context) (*domain.Document, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, customError.WrapStorageError(err)
	}

	if s.RunSchedulerAndArchiver(doc, s.now()) {
		if err := s.repo.Save(ctx, doc); err != nil {
			s.log.WithError(err).Error("could not persist scheduler changes")
			return doc, customError.WrapStorageError(err)
		}
		s.log.WithFields(logrus.Fields{
			"debts": len(doc.Debts),
			"loans": len(doc.Loans),
		}).Info("scheduler pass persisted changes")
	}
	return doc, nil
}

// Save runs the pass over a client-supplied document and persists it.
func (s *DataService) Save(ctx context.Context, doc *domain.Document) (*domain.Document, error) {
	s.RunSchedulerAndArchiver(doc, s.now())
	if err := s.repo.Save(ctx, doc); err != nil {
		return doc, customError.WrapStorageError(err)
	}
	return doc, nil
}

// Summary are the dashboard headline numbers.
type Summary struct {
	TotalOwed       decimal.Decimal `json:"totalOwed"`
	TotalOwing      decimal.Decimal `json:"totalOwing"`
	ActiveDebts     int             `json:"activeDebts"`
	ActiveLoans     int             `json:"activeLoans"`
	OverdueDebts    int             `json:"overdueDebts"`
	OverdueLoans    int             `json:"overdueLoans"`
	DefaultCurrency string          `json:"defaultCurrency"`
}

// Summarize computes outstanding totals and overdue counts. Bank-loan
// balances include the stored accrued interest when present, otherwise the
// display-time estimate.
func (s *DataService) Summarize(doc *domain.Document, now time.Time) Summary {
	sum := Summary{
		TotalOwed:       decimal.Zero,
		TotalOwing:      decimal.Zero,
		DefaultCurrency: doc.DefaultCurrency,
	}

	for i := range doc.Debts {
		d := &doc.Debts[i]
		if d.Status != domain.StatusActive {
			continue
		}
		sum.ActiveDebts++
		owed := d.TotalOwed()
		if d.AccruedInterest == nil {
			owed = owed.Add(domain.EstimateAccruedInterest(d, now))
		}
		remaining := owed.Sub(d.TotalPaid())
		if remaining.Sign() <= 0 {
			continue
		}
		sum.TotalOwed = sum.TotalOwed.Add(remaining)
		if d.DueDate.Before(now) {
			sum.OverdueDebts++
		}
	}

	for i := range doc.Loans {
		l := &doc.Loans[i]
		if l.Status != domain.StatusActive {
			continue
		}
		sum.ActiveLoans++
		remaining := l.Remaining()
		if remaining.Sign() <= 0 {
			continue
		}
		sum.TotalOwing = sum.TotalOwing.Add(remaining)
		if l.DueDate.Before(now) {
			sum.OverdueLoans++
		}
	}

	return sum
}

// Reminder is one upcoming scheduled or final payment within a record's
// reminder window.
type Reminder struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	DueDate   time.Time       `json:"dueDate"`
	Amount    decimal.Decimal `json:"amount"`
	DaysUntil int             `json:"daysUntil"`
}

// UpcomingReminders lists active records whose next payment (or final due
// date when nothing is scheduled) falls within their reminder window. A
// record's own reminder settings win over the document-wide defaults.
func (s *DataService) UpcomingReminders(doc *domain.Document, now time.Time) []Reminder {
	if !doc.NotificationSettings.Enabled {
		return nil
	}

	reminders := []Reminder{}
	for i := range doc.Debts {
		d := &doc.Debts[i]
		if d.Status != domain.StatusActive {
			continue
		}
		if r, ok := buildReminder(d.ID, d.Name, "debt", d.ReminderSettings, d.NextPaymentDate, d.DueDate,
			d.SuggestedPaymentAmount, d.Remaining(), doc.NotificationSettings, now); ok {
			reminders = append(reminders, r)
		}
	}
	for i := range doc.Loans {
		l := &doc.Loans[i]
		if l.Status != domain.StatusActive {
			continue
		}
		if r, ok := buildReminder(l.ID, l.Name, "loan", l.ReminderSettings, l.NextPaymentDate, l.DueDate,
			l.SuggestedPaymentAmount, l.Remaining(), doc.NotificationSettings, now); ok {
			reminders = append(reminders, r)
		}
	}

	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].DueDate.Before(reminders[j].DueDate)
	})
	return reminders
}

func buildReminder(id, name, kind string, rs *domain.ReminderSettings, next *time.Time, due time.Time,
	suggested *decimal.Decimal, remaining decimal.Decimal, defaults domain.NotificationSettings, now time.Time) (Reminder, bool) {

	window := defaults.DefaultReminderDays
	if rs != nil {
		if !rs.Enabled {
			return Reminder{}, false
		}
		window = rs.DaysBefore
	}

	target := due
	if next != nil {
		target = *next
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daysUntil := int(target.Sub(today).Hours() / 24)
	if daysUntil < 0 || daysUntil > window {
		return Reminder{}, false
	}

	amount := remaining
	if suggested != nil {
		amount = *suggested
	}

	return Reminder{
		ID:        id,
		Name:      name,
		Kind:      kind,
		DueDate:   target,
		Amount:    amount,
		DaysUntil: daysUntil,
	}, true
}
