package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name        string
		txs         []Transaction
		wantIncome  string
		wantExpense string
		wantNet     string
	}{
		{
			name:        "empty set",
			txs:         nil,
			wantIncome:  "0",
			wantExpense: "0",
			wantNet:     "0",
		},
		{
			name: "mixed",
			txs: []Transaction{
				tx(1, Income, "500", NewDate(2026, 1, 5)),
				tx(2, Expense, "200", NewDate(2026, 1, 10)),
				tx(3, Income, "100", NewDate(2026, 1, 15)),
			},
			wantIncome:  "600",
			wantExpense: "200",
			wantNet:     "400",
		},
		{
			name: "all expense",
			txs: []Transaction{
				tx(1, Expense, "150", NewDate(2026, 3, 1)),
				tx(2, Expense, "50", NewDate(2026, 3, 2)),
			},
			wantIncome:  "0",
			wantExpense: "200",
			wantNet:     "-200",
		},
		{
			name: "fractional amounts stay exact",
			txs: []Transaction{
				tx(1, Income, "0.10", NewDate(2026, 1, 1)),
				tx(2, Income, "0.20", NewDate(2026, 1, 2)),
				tx(3, Expense, "0.30", NewDate(2026, 1, 3)),
			},
			wantIncome:  "0.30",
			wantExpense: "0.30",
			wantNet:     "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.txs)
			assert.True(t, got.TotalIncome.Equal(decimal.RequireFromString(tt.wantIncome)), "income %s", got.TotalIncome)
			assert.True(t, got.TotalExpense.Equal(decimal.RequireFromString(tt.wantExpense)), "expense %s", got.TotalExpense)
			assert.True(t, got.NetProfit.Equal(decimal.RequireFromString(tt.wantNet)), "net %s", got.NetProfit)
			assert.True(t, got.NetProfit.Equal(got.TotalIncome.Sub(got.TotalExpense)))
		})
	}
}

func TestMonthlyTrendGroupsAndMerges(t *testing.T) {
	txs := []Transaction{
		tx(1, Income, "1000", NewDate(2026, 1, 3)),
		tx(2, Expense, "300", NewDate(2026, 1, 20)),
		tx(3, Income, "200", NewDate(2026, 2, 1)),
	}

	trend := MonthlyTrend(txs, 6)

	require.Len(t, trend, 2)
	assert.Equal(t, "2026-01", trend[0].Period)
	assert.True(t, trend[0].Income.Equal(decimal.RequireFromString("1000")))
	assert.True(t, trend[0].Expense.Equal(decimal.RequireFromString("300")))
	assert.Equal(t, "2026-02", trend[1].Period)
	assert.True(t, trend[1].Income.Equal(decimal.RequireFromString("200")))
	assert.True(t, trend[1].Expense.Equal(decimal.Zero))
}

func TestMonthlyTrendTruncatesNewestFirstThenReverses(t *testing.T) {
	var txs []Transaction
	// Eight months of activity, Jan..Aug 2026.
	for m := 1; m <= 8; m++ {
		txs = append(txs, tx(int64(m), Income, "100", NewDate(2026, m, 15)))
	}

	trend := MonthlyTrend(txs, 6)

	require.Len(t, trend, 6)
	// The two oldest months fall off; the rest come back ascending.
	assert.Equal(t, "2026-03", trend[0].Period)
	assert.Equal(t, "2026-08", trend[5].Period)
	for i := 1; i < len(trend); i++ {
		assert.Less(t, trend[i-1].Period, trend[i].Period)
	}
}

func TestMonthlyTrendLimitLargerThanPeriods(t *testing.T) {
	txs := []Transaction{
		tx(1, Income, "10", NewDate(2026, 4, 1)),
		tx(2, Expense, "5", NewDate(2026, 5, 1)),
	}

	trend := MonthlyTrend(txs, 6)

	require.Len(t, trend, 2)
	assert.Equal(t, "2026-04", trend[0].Period)
	assert.Equal(t, "2026-05", trend[1].Period)
}

func TestMonthlyTrendEmptyAndZeroLimit(t *testing.T) {
	assert.Empty(t, MonthlyTrend(nil, 6))
	assert.Nil(t, MonthlyTrend([]Transaction{tx(1, Income, "1", NewDate(2026, 1, 1))}, 0))
}

func TestMonthlyTrendCrossChecksSummarize(t *testing.T) {
	txs := []Transaction{
		tx(1, Income, "100.50", NewDate(2025, 11, 2)),
		tx(2, Expense, "40.25", NewDate(2025, 11, 9)),
		tx(3, Income, "60", NewDate(2025, 12, 1)),
		tx(4, Expense, "10", NewDate(2026, 1, 1)),
		tx(5, Income, "0.75", NewDate(2026, 1, 31)),
	}

	totals := Summarize(txs)
	trend := MonthlyTrend(txs, len(txs))

	income := decimal.Zero
	expense := decimal.Zero
	for _, pt := range trend {
		income = income.Add(pt.Income)
		expense = expense.Add(pt.Expense)
	}

	assert.True(t, income.Equal(totals.TotalIncome))
	assert.True(t, expense.Equal(totals.TotalExpense))
}
