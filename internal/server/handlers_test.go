package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/mnair/societypay/internal/config"
	"github.com/mnair/societypay/internal/models"
	"github.com/mnair/societypay/internal/roster"
	"github.com/mnair/societypay/internal/service"
	"github.com/mnair/societypay/internal/storage"
	"github.com/mnair/societypay/internal/upi"
)

const testRosterCSV = `Plot No.,Lane No.,Name,Past Dues
A5,1,Asha Rao,"1,200"
A2,1,Vikram Shetty,0
B1,2,Meera Pillai,0
`

type stubLedger struct {
	records []*models.PaymentRecord
	fail    bool
}

func (s *stubLedger) AppendRecords(ctx context.Context, records []*models.PaymentRecord) error {
	if s.fail {
		return &storage.TransientError{Op: "append", Err: errors.New("unreachable")}
	}
	s.records = append(s.records, records...)
	return nil
}

func (s *stubLedger) ListByPlot(ctx context.Context, plotID string) ([]*models.PaymentRecord, error) {
	if s.fail {
		return nil, &storage.TransientError{Op: "read", Err: errors.New("unreachable")}
	}
	out := make([]*models.PaymentRecord, 0)
	for _, record := range s.records {
		if record.PlotID == plotID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *stubLedger) ListAll(ctx context.Context) ([]*models.PaymentRecord, error) {
	return s.records, nil
}

func (s *stubLedger) Ping(ctx context.Context) error { return nil }
func (s *stubLedger) Close() error                   { return nil }

func newTestHandlers(t *testing.T, ledger storage.Ledger) *APIHandlers {
	t.Helper()

	r, err := roster.Parse(strings.NewReader(testRosterCSV))
	if err != nil {
		t.Fatalf("failed to parse test roster: %v", err)
	}

	portal := config.PortalConfig{
		MonthlyFee:       decimal.NewFromInt(300),
		UPIPayeeID:       "treasurer@upi",
		SocietyName:      "RPE Association",
		SocietyNameFull:  "RPE Owners/Residents Association",
		FirstBillingYear: 2022,
		LastBillingYear:  2028,
	}
	svc := service.NewPaymentService(r, ledger, service.Options{
		MonthlyFee: portal.MonthlyFee,
		Links:      upi.LinkBuilder{PayeeID: portal.UPIPayeeID, PayeeName: portal.SocietyName},
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAPIHandlers(logger, svc, r, portal)
}

func TestHandleLanesAndPlots(t *testing.T) {
	handlers := newTestHandlers(t, &stubLedger{})

	t.Run("lanes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/lanes", nil)
		rec := httptest.NewRecorder()
		handlers.handleLanes(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var payload map[string][]string
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		lanes := payload["lanes"]
		if len(lanes) != 2 || lanes[0] != "1" || lanes[1] != "2" {
			t.Errorf("lanes = %v, want [1 2]", lanes)
		}
	})

	t.Run("plots filtered by lane", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/plots?lane=1", nil)
		rec := httptest.NewRecorder()
		handlers.handlePlots(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var payload struct {
			Lane  string   `json:"lane"`
			Plots []string `json:"plots"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(payload.Plots) != 2 || payload.Plots[0] != "A2" || payload.Plots[1] != "A5" {
			t.Errorf("plots = %v, want [A2 A5]", payload.Plots)
		}
	})

	t.Run("plots requires lane", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/plots", nil)
		rec := httptest.NewRecorder()
		handlers.handlePlots(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHandleQuote(t *testing.T) {
	handlers := newTestHandlers(t, &stubLedger{})

	t.Run("quarterly quote", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/quote?plot=A5&periodType=Quarter&year=2024&quarter=Q2", nil)
		rec := httptest.NewRecorder()
		handlers.handleQuote(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		var payload quoteResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if payload.ResidentName != "Asha Rao" {
			t.Errorf("resident = %q, want Asha Rao", payload.ResidentName)
		}
		if payload.TotalDue != "900" {
			t.Errorf("totalDue = %q, want 900", payload.TotalDue)
		}
		if !payload.HasDues || payload.PastDues != "1200" {
			t.Errorf("pastDues = %q (hasDues=%v), want 1200 overdue", payload.PastDues, payload.HasDues)
		}
		if len(payload.Periods) != 3 {
			t.Errorf("periods = %v, want 3 months", payload.Periods)
		}
		if !strings.Contains(payload.PaymentLink, "upi://pay?") {
			t.Errorf("paymentLink = %q, want a upi://pay link", payload.PaymentLink)
		}
	})

	t.Run("unknown plot is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/quote?plot=Z9&periodType=Year&year=2024", nil)
		rec := httptest.NewRecorder()
		handlers.handleQuote(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("bad period is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/quote?plot=A5&periodType=Quarter&year=2024&quarter=Q9", nil)
		rec := httptest.NewRecorder()
		handlers.handleQuote(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestSubmitPayment(t *testing.T) {
	submitBody := func() string {
		return `{
			"plotNo": "A5",
			"periodType": "Quarter",
			"year": 2024,
			"quarter": "Q2",
			"amountPaid": 900,
			"transactionRef": "UTR123",
			"confirmed": true
		}`
	}

	t.Run("quarterly submission appends three rows", func(t *testing.T) {
		ledger := &stubLedger{}
		handlers := newTestHandlers(t, ledger)

		req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(submitBody()))
		rec := httptest.NewRecorder()
		handlers.handlePayments(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		var payload submitResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if payload.SubmissionID == "" {
			t.Error("expected a submission id")
		}
		if len(payload.Records) != 3 {
			t.Fatalf("got %d records, want 3", len(payload.Records))
		}
		wantPeriods := []string{"Apr 2024", "May 2024", "Jun 2024"}
		for i, record := range payload.Records {
			if record.Period != wantPeriods[i] {
				t.Errorf("record %d period = %q, want %q", i, record.Period, wantPeriods[i])
			}
			if record.Amount != "300" {
				t.Errorf("record %d amount = %q, want 300", i, record.Amount)
			}
			if record.Verified != "Pending" {
				t.Errorf("record %d verified = %q, want Pending", i, record.Verified)
			}
		}
		if len(ledger.records) != 3 {
			t.Errorf("ledger holds %d records, want 3", len(ledger.records))
		}
	})

	t.Run("missing proof is rejected with 400 and no rows", func(t *testing.T) {
		ledger := &stubLedger{}
		handlers := newTestHandlers(t, ledger)

		body := `{"plotNo":"A5","periodType":"Month","year":2024,"month":"Apr","amountPaid":300,"confirmed":true}`
		req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handlers.handlePayments(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if len(ledger.records) != 0 {
			t.Errorf("ledger holds %d records after rejection, want 0", len(ledger.records))
		}
	})

	t.Run("ledger outage is 503 with retry hint", func(t *testing.T) {
		handlers := newTestHandlers(t, &stubLedger{fail: true})

		req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(submitBody()))
		rec := httptest.NewRecorder()
		handlers.handlePayments(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
		var payload errorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if !payload.Retryable {
			t.Error("expected the error to be marked retryable")
		}
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		handlers := newTestHandlers(t, &stubLedger{})

		req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		handlers.handlePayments(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestListPayments(t *testing.T) {
	ledger := &stubLedger{}
	handlers := newTestHandlers(t, ledger)

	// Seed via a real submission so the history shape matches production.
	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(
		`{"plotNo":"A5","periodType":"Month","year":2024,"month":"Jan","amountPaid":300,"transactionRef":"UTR1","confirmed":true}`,
	))
	rec := httptest.NewRecorder()
	handlers.handlePayments(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed submission failed: %d %s", rec.Code, rec.Body.String())
	}

	t.Run("history for own plot", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/payments?plot=A5", nil)
		rec := httptest.NewRecorder()
		handlers.handlePayments(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var payload historyResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(payload.Records) != 1 {
			t.Fatalf("got %d records, want 1", len(payload.Records))
		}
		if payload.Records[0].Period != "Jan 2024" {
			t.Errorf("period = %q, want Jan 2024", payload.Records[0].Period)
		}
	})

	t.Run("other plots see nothing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/payments?plot=B1", nil)
		rec := httptest.NewRecorder()
		handlers.handlePayments(rec, req)

		var payload historyResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(payload.Records) != 0 {
			t.Errorf("got %d records for B1, want 0", len(payload.Records))
		}
	})

	t.Run("history outage is 503, not a silent empty list", func(t *testing.T) {
		ledger.fail = true
		defer func() { ledger.fail = false }()

		req := httptest.NewRequest(http.MethodGet, "/api/payments?plot=A5", nil)
		rec := httptest.NewRecorder()
		handlers.handlePayments(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}

func TestHandleMeta(t *testing.T) {
	handlers := newTestHandlers(t, &stubLedger{})

	req := httptest.NewRequest(http.MethodGet, "/api/meta", nil)
	rec := httptest.NewRecorder()
	handlers.handleMeta(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var payload metaResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.MonthlyFee != "300" {
		t.Errorf("monthlyFee = %q, want 300", payload.MonthlyFee)
	}
	if len(payload.Years) != 7 || payload.Years[0] != 2022 || payload.Years[6] != 2028 {
		t.Errorf("years = %v, want 2022..2028", payload.Years)
	}
	if len(payload.Months) != 12 || len(payload.Quarters) != 4 {
		t.Errorf("months/quarters = %d/%d, want 12/4", len(payload.Months), len(payload.Quarters))
	}
}
