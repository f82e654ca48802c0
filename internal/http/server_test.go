package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	applog "milkyfeast/internal/log"
	"milkyfeast/internal/services"
	"milkyfeast/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	logger := applog.New(slog.LevelError, "api-test")
	return NewServer(":0", repo, services.NewTransactionService(repo, nil), logger, 0)
}

func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func wantStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}

func TestProductLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/products", map[string]any{
		"name":          "Full Cream Milk",
		"category":      "milk",
		"unit":          "liter",
		"selling_price": 70,
	})
	wantStatus(t, rec, http.StatusCreated)

	var msg messageResponse
	decodeResponse(t, rec, &msg)
	if msg.Message != "Product Created Successfully" {
		t.Errorf("message = %q", msg.Message)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/products", nil)
	wantStatus(t, rec, http.StatusOK)

	var list listResponse[productResponse]
	decodeResponse(t, rec, &list)
	if list.Total != 1 || len(list.Data) != 1 {
		t.Fatalf("list = %+v", list)
	}
	id := list.Data[0].ID
	if list.Data[0].Status != "active" {
		t.Errorf("new product status = %q", list.Data[0].Status)
	}

	rec = doRequest(t, srv, http.MethodPut, "/api/products/1", map[string]any{
		"name":          "Toned Milk",
		"category":      "milk",
		"unit":          "liter",
		"selling_price": 55,
	})
	wantStatus(t, rec, http.StatusOK)

	rec = doRequest(t, srv, http.MethodPatch, "/api/products/1/status", nil)
	wantStatus(t, rec, http.StatusOK)

	rec = doRequest(t, srv, http.MethodGet, "/api/products", nil)
	decodeResponse(t, rec, &list)
	if list.Data[0].Name != "Toned Milk" || list.Data[0].Status != "inactive" {
		t.Errorf("after update/toggle: %+v", list.Data[0])
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/products/1", nil)
	wantStatus(t, rec, http.StatusOK)

	rec = doRequest(t, srv, http.MethodGet, "/api/products", nil)
	decodeResponse(t, rec, &list)
	if list.Total != 0 {
		t.Errorf("archived product %d still listed", id)
	}

	// Archiving twice is a 404.
	rec = doRequest(t, srv, http.MethodDelete, "/api/products/1", nil)
	wantStatus(t, rec, http.StatusNotFound)
}

func TestMasterValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name    string
		path    string
		body    map[string]any
		wantMsg string
	}{
		{
			name:    "missing name",
			path:    "/api/workers",
			body:    map[string]any{"name": "  ", "salary": 9000},
			wantMsg: "Name is required",
		},
		{
			name:    "negative salary",
			path:    "/api/workers",
			body:    map[string]any{"name": "Ravi", "salary": -1},
			wantMsg: "Amounts must not be negative",
		},
		{
			name:    "negative credit limit",
			path:    "/api/distributors",
			body:    map[string]any{"name": "Gopal Stores", "credit_limit": -500},
			wantMsg: "Amounts must not be negative",
		},
		{
			name:    "negative investment",
			path:    "/api/partners",
			body:    map[string]any{"name": "Anil", "investment_amount": -100},
			wantMsg: "Amounts must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, tt.path, tt.body)
			wantStatus(t, rec, http.StatusBadRequest)

			var errResp errorResponse
			decodeResponse(t, rec, &errResp)
			if errResp.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", errResp.Message, tt.wantMsg)
			}
		})
	}
}

func TestUpdateMissingMaster(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPut, "/api/workers/99", map[string]any{
		"name":   "Ghost",
		"salary": 100,
	})
	wantStatus(t, rec, http.StatusNotFound)
}

func postTransaction(t *testing.T, srv *Server, body map[string]any) {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/api/transactions", body)
	wantStatus(t, rec, http.StatusCreated)
}

func TestCreateTransactionValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "bad date",
			body: map[string]any{"type": "income", "category": "milk_sale", "amount": 100, "transaction_date": "05-01-2026"},
		},
		{
			name: "bad type",
			body: map[string]any{"type": "transfer", "category": "milk_sale", "amount": 100, "transaction_date": "2026-01-05"},
		},
		{
			name: "negative amount",
			body: map[string]any{"type": "income", "category": "milk_sale", "amount": -100, "transaction_date": "2026-01-05"},
		},
		{
			name: "missing category",
			body: map[string]any{"type": "income", "amount": 100, "transaction_date": "2026-01-05"},
		},
		{
			name: "entity type without id",
			body: map[string]any{"type": "expense", "category": "salary", "amount": 100, "entity_type": "worker", "transaction_date": "2026-01-05"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/transactions", tt.body)
			wantStatus(t, rec, http.StatusBadRequest)
		})
	}
}

func TestTransactionListAndReports(t *testing.T) {
	srv := newTestServer(t)

	postTransaction(t, srv, map[string]any{
		"type": "income", "category": "milk_sale", "amount": 500,
		"payment_source": "cash", "transaction_date": "2026-01-05",
	})
	postTransaction(t, srv, map[string]any{
		"type": "expense", "category": "fodder", "amount": 200,
		"payment_source": "cash", "transaction_date": "2026-01-05",
	})
	postTransaction(t, srv, map[string]any{
		"type": "income", "category": "ghee_sale", "amount": 300,
		"payment_source": "online", "transaction_date": "2026-02-10",
	})

	rec := doRequest(t, srv, http.MethodGet, "/api/transactions", nil)
	wantStatus(t, rec, http.StatusOK)
	var all []transactionResponse
	decodeResponse(t, rec, &all)
	if len(all) != 3 {
		t.Fatalf("listed %d transactions, want 3", len(all))
	}
	// Newest first.
	if all[0].TransactionDate != "2026-02-10" {
		t.Errorf("first row date = %s", all[0].TransactionDate)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions?type=income", nil)
	decodeResponse(t, rec, &all)
	if len(all) != 2 {
		t.Errorf("income filter returned %d rows", len(all))
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions?startDate=2026-01-01&endDate=2026-01-31", nil)
	decodeResponse(t, rec, &all)
	if len(all) != 2 {
		t.Errorf("january range returned %d rows", len(all))
	}

	// A lone bound is an error, not an unfiltered list.
	rec = doRequest(t, srv, http.MethodGet, "/api/transactions?startDate=2026-01-01", nil)
	wantStatus(t, rec, http.StatusBadRequest)
	rec = doRequest(t, srv, http.MethodGet, "/api/transactions?endDate=2026-01-31", nil)
	wantStatus(t, rec, http.StatusBadRequest)

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions/reports/daily?date=2026-01-05", nil)
	wantStatus(t, rec, http.StatusOK)
	var daily dailyReportResponse
	decodeResponse(t, rec, &daily)
	if daily.TotalIncome.String() != "500" || daily.TotalExpense.String() != "200" || daily.Profit.String() != "300" {
		t.Errorf("daily report = %+v", daily)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions/reports/monthly?month=2026-02", nil)
	wantStatus(t, rec, http.StatusOK)
	var monthly monthlyReportResponse
	decodeResponse(t, rec, &monthly)
	if monthly.TotalIncome.String() != "300" || !monthly.TotalExpense.IsZero() {
		t.Errorf("monthly report = %+v", monthly)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions/reports/profit-loss", nil)
	wantStatus(t, rec, http.StatusOK)
	var pl profitLossResponse
	decodeResponse(t, rec, &pl)
	if pl.NetProfit.String() != "600" {
		t.Errorf("net profit = %s, want 600", pl.NetProfit)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions/reports/daily?date=bogus", nil)
	wantStatus(t, rec, http.StatusBadRequest)
	rec = doRequest(t, srv, http.MethodGet, "/api/transactions/reports/monthly?month=2026", nil)
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestLedgerReport(t *testing.T) {
	srv := newTestServer(t)

	postTransaction(t, srv, map[string]any{
		"type": "income", "category": "payment_received", "amount": 500,
		"entity_type": "distributor", "entity_id": 7, "transaction_date": "2026-01-03",
	})
	postTransaction(t, srv, map[string]any{
		"type": "expense", "category": "goods_delivered", "amount": 200,
		"entity_type": "distributor", "entity_id": 7, "transaction_date": "2026-01-03",
	})
	postTransaction(t, srv, map[string]any{
		"type": "income", "category": "payment_received", "amount": 100,
		"entity_type": "distributor", "entity_id": 7, "transaction_date": "2026-01-09",
	})
	// A different distributor must not leak into the ledger.
	postTransaction(t, srv, map[string]any{
		"type": "income", "category": "payment_received", "amount": 9999,
		"entity_type": "distributor", "entity_id": 8, "transaction_date": "2026-01-04",
	})

	rec := doRequest(t, srv, http.MethodGet, "/api/transactions/reports/ledger?entity_type=distributor&entity_id=7", nil)
	wantStatus(t, rec, http.StatusOK)

	var entries []ledgerEntryResponse
	decodeResponse(t, rec, &entries)
	if len(entries) != 3 {
		t.Fatalf("ledger has %d entries, want 3", len(entries))
	}
	for i, want := range []string{"500", "300", "400"} {
		if entries[i].RunningBalance.String() != want {
			t.Errorf("entry %d running balance = %s, want %s", i, entries[i].RunningBalance, want)
		}
	}

	// The general ledger needs no entity_id and must see general records.
	postTransaction(t, srv, map[string]any{
		"type": "expense", "category": "fodder", "amount": 150,
		"transaction_date": "2026-01-02",
	})
	rec = doRequest(t, srv, http.MethodGet, "/api/transactions/reports/ledger?entity_type=general", nil)
	wantStatus(t, rec, http.StatusOK)
	decodeResponse(t, rec, &entries)
	if len(entries) != 1 {
		t.Fatalf("general ledger has %d entries, want 1", len(entries))
	}
	if entries[0].RunningBalance.String() != "-150" {
		t.Errorf("general running balance = %s, want -150", entries[0].RunningBalance)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions/reports/ledger?entity_type=worker", nil)
	wantStatus(t, rec, http.StatusBadRequest)

	rec = doRequest(t, srv, http.MethodGet, "/api/transactions/reports/ledger?entity_type=alien&entity_id=1", nil)
	wantStatus(t, rec, http.StatusBadRequest)
}

func TestDashboardStats(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/partners", map[string]any{
		"name": "Anil", "investment_amount": 50000,
	})
	wantStatus(t, rec, http.StatusCreated)

	postTransaction(t, srv, map[string]any{
		"type": "income", "category": "milk_sale", "amount": 1000, "transaction_date": "2026-03-01",
	})
	postTransaction(t, srv, map[string]any{
		"type": "expense", "category": "fodder", "amount": 400, "transaction_date": "2026-04-02",
	})

	rec = doRequest(t, srv, http.MethodGet, "/api/dashboard/stats", nil)
	wantStatus(t, rec, http.StatusOK)

	var stats dashboardStatsResponse
	decodeResponse(t, rec, &stats)
	if stats.TotalPartners != 1 || stats.TotalProducts != 0 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.NetProfit.String() != "600" {
		t.Errorf("net profit = %s", stats.NetProfit)
	}
	if len(stats.MonthlyTrend) != 2 {
		t.Fatalf("trend has %d points", len(stats.MonthlyTrend))
	}
	// Trend is ascending by month.
	if stats.MonthlyTrend[0].Month != "2026-03" || stats.MonthlyTrend[1].Month != "2026-04" {
		t.Errorf("trend months = %v", stats.MonthlyTrend)
	}
	if len(stats.PartnerCapital) != 1 || stats.PartnerCapital[0].Name != "Anil" {
		t.Errorf("partner capital = %+v", stats.PartnerCapital)
	}

	// Empty slices serialize as [], not null.
	body := rec.Body.String()
	if strings.Contains(body, `"outstandingDistributors":null`) {
		t.Error("outstanding distributors serialized as null")
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/healthz", nil)
	wantStatus(t, rec, http.StatusOK)

	// Generate a labeled request so the counter has something to show.
	doRequest(t, srv, http.MethodGet, "/api/products", nil)

	rec = doRequest(t, srv, http.MethodGet, "/metrics", nil)
	wantStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "milkyfeast_http_requests_total") {
		t.Error("metrics output missing request counter")
	}
}

func TestRateLimit(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "rl.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	logger := applog.New(slog.LevelError, "api-test")
	srv := NewServer(":0", repo, services.NewTransactionService(repo, nil), logger, 3)

	for i := 0; i < 3; i++ {
		rec := doRequest(t, srv, http.MethodGet, "/healthz", nil)
		wantStatus(t, rec, http.StatusOK)
	}

	rec := doRequest(t, srv, http.MethodGet, "/healthz", nil)
	wantStatus(t, rec, http.StatusTooManyRequests)
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}
}

func TestInvalidBody(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	wantStatus(t, rec, http.StatusBadRequest)
}
