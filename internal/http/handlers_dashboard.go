package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"milkyfeast/internal/core"
)

const (
	trendMonths            = 6
	outstandingDistributor = 5
)

type (
	trendPointResponse struct {
		Month   string          `json:"month"`
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
	}

	outstandingResponse struct {
		Name               string          `json:"name"`
		OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	}

	partnerCapitalResponse struct {
		Name             string          `json:"name"`
		InvestmentAmount decimal.Decimal `json:"investment_amount"`
	}

	dashboardStatsResponse struct {
		TotalProducts     int64                    `json:"totalProducts"`
		TotalWorkers      int64                    `json:"totalWorkers"`
		TotalDistributors int64                    `json:"totalDistributors"`
		TotalPartners     int64                    `json:"totalPartners"`
		TotalIncome       decimal.Decimal          `json:"totalIncome"`
		TotalExpense      decimal.Decimal          `json:"totalExpense"`
		NetProfit         decimal.Decimal          `json:"netProfit"`
		MonthlyTrend      []trendPointResponse     `json:"monthlyTrend"`
		Outstanding       []outstandingResponse    `json:"outstandingDistributors"`
		PartnerCapital    []partnerCapitalResponse `json:"partnerCapital"`
	}
)

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := s.store.CountMasters(ctx)
	if err != nil {
		respondStoreError(w, r, err, "dashboard counts")
		return
	}

	txs, err := s.store.AllTransactions(ctx)
	if err != nil {
		respondStoreError(w, r, err, "dashboard transactions")
		return
	}
	totals := core.Summarize(txs)

	trend := make([]trendPointResponse, 0, trendMonths)
	for _, pt := range core.MonthlyTrend(txs, trendMonths) {
		trend = append(trend, trendPointResponse{
			Month:   pt.Period,
			Income:  pt.Income,
			Expense: pt.Expense,
		})
	}

	top, err := s.store.TopOutstandingDistributors(ctx, outstandingDistributor)
	if err != nil {
		respondStoreError(w, r, err, "dashboard outstanding")
		return
	}
	outstanding := make([]outstandingResponse, 0, len(top))
	for _, d := range top {
		outstanding = append(outstanding, outstandingResponse{
			Name:               d.Name,
			OutstandingBalance: d.OutstandingBalance,
		})
	}

	capitals, err := s.store.PartnerCapitals(ctx)
	if err != nil {
		respondStoreError(w, r, err, "dashboard partner capital")
		return
	}
	partnerCapital := make([]partnerCapitalResponse, 0, len(capitals))
	for _, p := range capitals {
		partnerCapital = append(partnerCapital, partnerCapitalResponse{
			Name:             p.Name,
			InvestmentAmount: p.InvestmentAmount,
		})
	}

	respondJSON(w, http.StatusOK, dashboardStatsResponse{
		TotalProducts:     counts.Products,
		TotalWorkers:      counts.Workers,
		TotalDistributors: counts.Distributors,
		TotalPartners:     counts.Partners,
		TotalIncome:       totals.TotalIncome,
		TotalExpense:      totals.TotalExpense,
		NetProfit:         totals.NetProfit,
		MonthlyTrend:      trend,
		Outstanding:       outstanding,
		PartnerCapital:    partnerCapital,
	})
}
