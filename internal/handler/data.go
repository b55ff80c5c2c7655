package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/loandash/loandash/internal/domain"
	"github.com/loandash/loandash/internal/service"
	customError "github.com/loandash/loandash/pkg/errors"
	"github.com/loandash/loandash/pkg/response"
)

// DataService is the slice of the service layer the handlers depend on.
type DataService interface {
	Load(ctx context.Context) (*domain.Document, error)
	Save(ctx context.Context, doc *domain.Document) (*domain.Document, error)
	Summarize(doc *domain.Document, now time.Time) service.Summary
	UpcomingReminders(doc *domain.Document, now time.Time) []service.Reminder
}

type DataHandler struct {
	service   DataService
	log       *logrus.Logger
	validator *validator.Validate
}

func NewDataHandler(svc DataService, log *logrus.Logger) *DataHandler {
	v := validator.New()
	// Let the standard numeric tags (gt, gte) apply to decimal amounts.
	v.RegisterCustomTypeFunc(decimalAsFloat, decimal.Decimal{})

	return &DataHandler{
		service:   svc,
		log:       log,
		validator: v,
	}
}

func decimalAsFloat(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// GetData returns the full document, freshly passed through the scheduler
// and archiver. A failed post-pass save is logged but does not fail the
// request; the computed document is served anyway.
func (h *DataHandler) GetData(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Load(r.Context())
	if err != nil {
		if doc == nil {
			response.InternalServerError(w, "Could not read data file.", err)
			return
		}
		h.log.WithError(err).Warn("serving computed document despite save failure")
	}
	response.Raw(w, http.StatusOK, doc)
}

// SaveData accepts a client-supplied document, runs the scheduler pass,
// and persists the result.
func (h *DataHandler) SaveData(w http.ResponseWriter, r *http.Request) {
	var doc domain.Document
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 10<<20)).Decode(&doc); err != nil {
		response.BadRequest(w, "Invalid document payload", customError.WrapValidationError(err))
		return
	}

	if err := h.validator.Struct(&doc); err != nil {
		response.BadRequest(w, "Document failed validation", customError.WrapValidationError(err))
		return
	}

	if _, err := h.service.Save(r.Context(), &doc); err != nil {
		response.InternalServerError(w, "Could not save data.", err)
		return
	}

	response.Success(w, map[string]string{"message": "Data saved successfully."})
}

// GetSummary returns the dashboard headline numbers.
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Load(r.Context())
	if err != nil && doc == nil {
		response.InternalServerError(w, "Could not read data file.", err)
		return
	}
	response.Success(w, h.service.Summarize(doc, time.Now()))
}

// GetReminders returns upcoming payments within each record's reminder
// window.
func (h *DataHandler) GetReminders(w http.ResponseWriter, r *http.Request) {
	doc, err := h.service.Load(r.Context())
	if err != nil && doc == nil {
		response.InternalServerError(w, "Could not read data file.", err)
		return
	}
	response.Success(w, h.service.UpcomingReminders(doc, time.Now()))
}
