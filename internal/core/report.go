package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

type (
	// Totals is an income/expense/net summary over a transaction set.
	// All fields are zero-valued (never absent) for empty input.
	Totals struct {
		TotalIncome  decimal.Decimal
		TotalExpense decimal.Decimal
		NetProfit    decimal.Decimal
	}

	// PeriodTotals holds per-period sums for trend charts.
	PeriodTotals struct {
		Period  string
		Income  decimal.Decimal
		Expense decimal.Decimal
	}
)

// Summarize folds a transaction set into overall totals.
// NetProfit is always TotalIncome - TotalExpense.
func Summarize(txs []Transaction) Totals {
	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			income = income.Add(tx.Amount)
		case Expense:
			expense = expense.Add(tx.Amount)
		}
	}
	return Totals{
		TotalIncome:  income,
		TotalExpense: expense,
		NetProfit:    income.Sub(expense),
	}
}

// MonthlyTrend groups transactions by year-month and returns the most recent
// limit periods in ascending order.
//
// Periods are sorted descending, truncated to limit, then reversed: the
// newest periods win when more than limit exist, and presentation order is
// oldest-to-newest either way. Transactions in the same period are merged by
// summation. A limit < 1 returns nil.
func MonthlyTrend(txs []Transaction, limit int) []PeriodTotals {
	if limit < 1 {
		return nil
	}

	buckets := make(map[string]*PeriodTotals)
	for _, tx := range txs {
		period := tx.Date.Period()
		pt, ok := buckets[period]
		if !ok {
			pt = &PeriodTotals{Period: period, Income: decimal.Zero, Expense: decimal.Zero}
			buckets[period] = pt
		}
		switch tx.Type {
		case Income:
			pt.Income = pt.Income.Add(tx.Amount)
		case Expense:
			pt.Expense = pt.Expense.Add(tx.Amount)
		}
	}

	periods := make([]string, 0, len(buckets))
	for p := range buckets {
		periods = append(periods, p)
	}
	// Newest first, so the limit keeps the most recent periods.
	sort.Sort(sort.Reverse(sort.StringSlice(periods)))
	if len(periods) > limit {
		periods = periods[:limit]
	}

	trend := make([]PeriodTotals, 0, len(periods))
	for i := len(periods) - 1; i >= 0; i-- {
		trend = append(trend, *buckets[periods[i]])
	}
	return trend
}
