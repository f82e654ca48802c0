package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"milkyfeast/internal/core"
)

type (
	dailyReportResponse struct {
		Date         string          `json:"date"`
		TotalIncome  decimal.Decimal `json:"totalIncome"`
		TotalExpense decimal.Decimal `json:"totalExpense"`
		Profit       decimal.Decimal `json:"profit"`
	}

	monthlyReportResponse struct {
		Month        string          `json:"month"`
		TotalIncome  decimal.Decimal `json:"totalIncome"`
		TotalExpense decimal.Decimal `json:"totalExpense"`
		Profit       decimal.Decimal `json:"profit"`
	}

	profitLossResponse struct {
		TotalIncome  decimal.Decimal `json:"totalIncome"`
		TotalExpense decimal.Decimal `json:"totalExpense"`
		NetProfit    decimal.Decimal `json:"netProfit"`
	}

	ledgerEntryResponse struct {
		transactionResponse
		RunningBalance decimal.Decimal `json:"running_balance"`
	}
)

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	date, err := core.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid or missing date")
		return
	}

	txs, err := s.store.TransactionsForDate(r.Context(), date)
	if err != nil {
		respondStoreError(w, r, err, "daily report")
		return
	}

	totals := core.Summarize(txs)
	respondJSON(w, http.StatusOK, dailyReportResponse{
		Date:         date.String(),
		TotalIncome:  totals.TotalIncome,
		TotalExpense: totals.TotalExpense,
		Profit:       totals.NetProfit,
	})
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if _, err := time.Parse("2006-01", month); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid or missing month (want YYYY-MM)")
		return
	}

	txs, err := s.store.TransactionsForMonth(r.Context(), month)
	if err != nil {
		respondStoreError(w, r, err, "monthly report")
		return
	}

	totals := core.Summarize(txs)
	respondJSON(w, http.StatusOK, monthlyReportResponse{
		Month:        month,
		TotalIncome:  totals.TotalIncome,
		TotalExpense: totals.TotalExpense,
		Profit:       totals.NetProfit,
	})
}

func (s *Server) handleProfitLoss(w http.ResponseWriter, r *http.Request) {
	txs, err := s.store.AllTransactions(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "profit loss")
		return
	}

	totals := core.Summarize(txs)
	respondJSON(w, http.StatusOK, profitLossResponse{
		TotalIncome:  totals.TotalIncome,
		TotalExpense: totals.TotalExpense,
		NetProfit:    totals.NetProfit,
	})
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	entityType, err := core.ParseEntityType(query.Get("entity_type"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid entity_type")
		return
	}

	var entityID int64
	if v := query.Get("entity_id"); v != "" {
		entityID, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid entity_id")
			return
		}
	}
	if entityType != core.EntityGeneral && entityID == 0 {
		respondError(w, http.StatusBadRequest, "entity_id is required")
		return
	}

	// The store returns rows ascending by date with same-day rows in
	// insertion order, which is exactly what the fold needs.
	txs, err := s.store.TransactionsForEntity(r.Context(), entityType, entityID)
	if err != nil {
		respondStoreError(w, r, err, "ledger")
		return
	}

	entries := core.BuildLedger(txs)
	data := make([]ledgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		data = append(data, ledgerEntryResponse{
			transactionResponse: toTransactionResponse(e.Transaction),
			RunningBalance:      e.RunningBalance,
		})
	}
	respondJSON(w, http.StatusOK, data)
}
