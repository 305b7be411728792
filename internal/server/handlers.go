package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/mnair/societypay/internal/config"
	"github.com/mnair/societypay/internal/models"
	"github.com/mnair/societypay/internal/roster"
	"github.com/mnair/societypay/internal/service"
	"github.com/mnair/societypay/internal/storage"
)

// APIHandlers exposes HTTP handlers for the portal API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.PaymentService
	roster  *roster.Roster
	portal  config.PortalConfig
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.PaymentService, r *roster.Roster, portal config.PortalConfig) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
		roster:  r,
		portal:  portal,
	}
}

type metaResponse struct {
	SocietyName     string   `json:"societyName"`
	SocietyNameFull string   `json:"societyNameFull"`
	MonthlyFee      string   `json:"monthlyFee"`
	Years           []int    `json:"years"`
	Quarters        []string `json:"quarters"`
	Months          []string `json:"months"`
}

type quoteResponse struct {
	PlotNo       string   `json:"plotNo"`
	ResidentName string   `json:"residentName"`
	PastDues     string   `json:"pastDues"`
	HasDues      bool     `json:"hasDues"`
	MonthlyFee   string   `json:"monthlyFee"`
	TotalDue     string   `json:"totalDue"`
	Periods      []string `json:"periods"`
	PaymentLink  string   `json:"paymentLink"`
}

type submitRequest struct {
	PlotNo         string          `json:"plotNo"`
	PeriodType     string          `json:"periodType"`
	Year           int             `json:"year"`
	Quarter        string          `json:"quarter,omitempty"`
	Month          string          `json:"month,omitempty"`
	AmountPaid     decimal.Decimal `json:"amountPaid"`
	TransactionRef string          `json:"transactionRef,omitempty"`
	ProofAttached  bool            `json:"proofAttached"`
	Confirmed      bool            `json:"confirmed"`
	SubmissionID   string          `json:"submissionId,omitempty"`
}

type recordPayload struct {
	Date          string `json:"date"`
	PlotNo        string `json:"plotNo"`
	Name          string `json:"name"`
	Period        string `json:"period"`
	Amount        string `json:"amount"`
	TransactionID string `json:"transactionId"`
	Receipt       string `json:"receipt"`
	Note          string `json:"note"`
	Verified      string `json:"verified"`
}

type submitResponse struct {
	SubmissionID string          `json:"submissionId"`
	Records      []recordPayload `json:"records"`
}

type historyResponse struct {
	PlotNo  string          `json:"plotNo"`
	Records []recordPayload `json:"records"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

func (h *APIHandlers) handleMeta(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	quarters := make([]string, len(models.Quarters))
	for i, q := range models.Quarters {
		quarters[i] = string(q)
	}
	months := make([]string, len(models.Months))
	for i, m := range models.Months {
		months[i] = string(m)
	}

	respondJSON(w, http.StatusOK, metaResponse{
		SocietyName:     h.portal.SocietyName,
		SocietyNameFull: h.portal.SocietyNameFull,
		MonthlyFee:      h.portal.MonthlyFee.String(),
		Years:           h.portal.Years(),
		Quarters:        quarters,
		Months:          months,
	})
}

func (h *APIHandlers) handleLanes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]string{"lanes": h.roster.Lanes()})
}

func (h *APIHandlers) handlePlots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	lane := r.URL.Query().Get("lane")
	if lane == "" {
		writeError(w, http.StatusBadRequest, "lane is required")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"lane":  lane,
		"plots": h.roster.Plots(lane),
	})
}

func (h *APIHandlers) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	plot := query.Get("plot")
	if plot == "" {
		writeError(w, http.StatusBadRequest, "plot is required")
		return
	}

	period, err := periodFromParams(query.Get("periodType"), query.Get("year"), query.Get("quarter"), query.Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	quote, err := h.service.Quote(plot, period)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, quoteResponse{
		PlotNo:       quote.PlotID,
		ResidentName: quote.ResidentName,
		PastDues:     quote.PastDues.String(),
		HasDues:      quote.HasDues,
		MonthlyFee:   quote.MonthlyFee.String(),
		TotalDue:     quote.TotalDue.String(),
		Periods:      quote.Periods,
		PaymentLink:  quote.PaymentLink,
	})
}

func (h *APIHandlers) handlePayments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.submitPayment(w, r)
	case http.MethodGet:
		h.listPayments(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *APIHandlers) submitPayment(w http.ResponseWriter, r *http.Request) {
	var payload submitRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	period := models.Period{
		Type:    models.PeriodType(payload.PeriodType),
		Year:    payload.Year,
		Quarter: models.Quarter(payload.Quarter),
		Month:   models.Month(payload.Month),
	}

	records, err := h.service.Submit(r.Context(), service.SubmitRequest{
		PlotID:         payload.PlotNo,
		Period:         period,
		AmountPaid:     payload.AmountPaid,
		TransactionRef: payload.TransactionRef,
		ProofAttached:  payload.ProofAttached,
		Confirmed:      payload.Confirmed,
		SubmissionID:   payload.SubmissionID,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := submitResponse{Records: make([]recordPayload, len(records))}
	if len(records) > 0 {
		resp.SubmissionID = records[0].SubmissionID
	}
	for i, record := range records {
		resp.Records[i] = toRecordPayload(record)
	}

	respondJSON(w, http.StatusCreated, resp)
}

func (h *APIHandlers) listPayments(w http.ResponseWriter, r *http.Request) {
	plot := r.URL.Query().Get("plot")
	if plot == "" {
		writeError(w, http.StatusBadRequest, "plot is required")
		return
	}

	records, err := h.service.History(r.Context(), plot)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := historyResponse{PlotNo: plot, Records: make([]recordPayload, len(records))}
	for i, record := range records {
		resp.Records[i] = toRecordPayload(record)
	}

	respondJSON(w, http.StatusOK, resp)
}

// writeServiceError maps service errors onto HTTP statuses: validation
// problems re-present the form (400), unknown plots 404, and ledger
// failures come back 503 with a retry hint instead of a swallowed
// "loading" state.
func (h *APIHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		writeError(w, http.StatusBadRequest, vErr.Reason)
		return
	}
	if errors.Is(err, service.ErrPlotNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if isTransient(err) {
		h.logger.Error("ledger unavailable", "path", r.URL.Path, "error", err)
		respondJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error:     "ledger is temporarily unavailable, please retry",
			Retryable: true,
		})
		return
	}
	h.logger.Error("request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func toRecordPayload(record *models.PaymentRecord) recordPayload {
	return recordPayload{
		Date:          record.RecordedAt.Format("2006-01-02 15:04:05"),
		PlotNo:        record.PlotID,
		Name:          record.ResidentName,
		Period:        record.PeriodLabel,
		Amount:        record.Amount.String(),
		TransactionID: record.TransactionRef,
		Receipt:       string(record.Proof),
		Note:          record.Note,
		Verified:      record.Verified,
	}
}

func periodFromParams(periodType, year, quarter, month string) (models.Period, error) {
	if periodType == "" {
		return models.Period{}, fmt.Errorf("periodType is required")
	}
	if year == "" {
		return models.Period{}, fmt.Errorf("year is required")
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return models.Period{}, fmt.Errorf("invalid year %q", year)
	}
	return models.Period{
		Type:    models.PeriodType(periodType),
		Year:    y,
		Quarter: models.Quarter(quarter),
		Month:   models.Month(month),
	}, nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	for _, method := range allowed {
		w.Header().Add("Allow", method)
	}
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func isTransient(err error) bool {
	var tErr *storage.TransientError
	return errors.As(err, &tErr)
}
