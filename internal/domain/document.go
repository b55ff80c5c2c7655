package domain

import "github.com/shopspring/decimal"

func init() {
	// The stored document uses bare JSON numbers for amounts, matching the
	// files written by earlier releases.
	decimal.MarshalJSONWithoutQuotes = true
}

// AutoArchivePolicy controls how long a completed record stays in the
// active list before the sweeper moves it to the archive.
type AutoArchivePolicy string

const (
	ArchiveNever       AutoArchivePolicy = "never"
	ArchiveImmediately AutoArchivePolicy = "immediately"
	ArchiveAfter1Day   AutoArchivePolicy = "1day"
	ArchiveAfter7Days  AutoArchivePolicy = "7days"
	ArchiveAfter30Days AutoArchivePolicy = "30days"
)

// Threshold returns the number of days a record must have been completed
// before archiving, and whether archiving is enabled at all.
func (p AutoArchivePolicy) Threshold() (days int, enabled bool) {
	switch p {
	case ArchiveImmediately:
		return 0, true
	case ArchiveAfter1Day:
		return 1, true
	case ArchiveAfter7Days:
		return 7, true
	case ArchiveAfter30Days:
		return 30, true
	default:
		return 0, false
	}
}

// NotificationSettings are the document-wide reminder defaults.
type NotificationSettings struct {
	Enabled              bool `json:"enabled"`
	DefaultReminderDays  int  `json:"defaultReminderDays"`
	BrowserNotifications bool `json:"browserNotifications,omitempty"`
	EmailNotifications   bool `json:"emailNotifications,omitempty"`
}

// Document is the root persisted object. The JSON keys are the storage
// keys used since the first release, so existing data files load as-is.
type Document struct {
	DarkMode             bool                 `json:"loandash-dark-mode"`
	Debts                []Debt               `json:"loandash-debts" validate:"dive"`
	Loans                []Loan               `json:"loandash-loans" validate:"dive"`
	ArchivedDebts        []Debt               `json:"loandash-archived-debts" validate:"dive"`
	ArchivedLoans        []Loan               `json:"loandash-archived-loans" validate:"dive"`
	AutoArchive          AutoArchivePolicy    `json:"loandash-auto-archive" validate:"oneof=never immediately 1day 7days 30days"`
	DefaultCurrency      string               `json:"loandash-default-currency"`
	NotificationSettings NotificationSettings `json:"loandash-notification-settings"`
}

// DefaultDocument is the document written when the backing store is
// missing or unreadable.
func DefaultDocument() *Document {
	return &Document{
		DarkMode:        true,
		Debts:           []Debt{},
		Loans:           []Loan{},
		ArchivedDebts:   []Debt{},
		ArchivedLoans:   []Loan{},
		AutoArchive:     ArchiveNever,
		DefaultCurrency: "MAD",
		NotificationSettings: NotificationSettings{
			Enabled:              true,
			DefaultReminderDays:  3,
			BrowserNotifications: true,
			EmailNotifications:   false,
		},
	}
}
