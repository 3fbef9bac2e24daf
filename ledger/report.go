/*
report.go - Date filtering and period rollups

PURPOSE:
  Pure filter predicates over calendar days plus the aggregate sums the
  dashboard and reports views are built on. Filtering is by each record's
  date field; the rollups are simple sums over the filtered subset.

RANGES:
  today     date equals today
  month     date falls in the current calendar month
  custom    inclusive [from, to]
  lifetime  no filter
*/
package ledger

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// RANGES
// =============================================================================

type RangeKind string

const (
	RangeToday    RangeKind = "today"
	RangeMonth    RangeKind = "month"
	RangeCustom   RangeKind = "custom"
	RangeLifetime RangeKind = "lifetime"
)

// Range selects records by calendar day.
type Range struct {
	Kind RangeKind
	From Date // custom only
	To   Date // custom only
}

func TodayRange() Range { return Range{Kind: RangeToday} }
func ThisMonth() Range  { return Range{Kind: RangeMonth} }
func Lifetime() Range   { return Range{Kind: RangeLifetime} }

func Custom(from, to Date) (Range, error) {
	if !from.Valid() || !to.Valid() {
		return Range{}, &ValidationError{Field: "range", Message: "want YYYY-MM-DD bounds"}
	}
	if from > to {
		return Range{}, &ValidationError{Field: "range", Message: "from is after to"}
	}
	return Range{Kind: RangeCustom, From: from, To: to}, nil
}

// Contains reports whether the date falls inside the range.
func (r Range) Contains(d Date) bool {
	switch r.Kind {
	case RangeToday:
		return d == Today()
	case RangeMonth:
		return d.InMonth(Today().Month())
	case RangeCustom:
		return d.Between(r.From, r.To)
	default:
		return true
	}
}

// =============================================================================
// SUMMARY - Period rollups
// =============================================================================

// Summary is the aggregate rollup over one date range.
type Summary struct {
	// GrossRevenue sums match total values in the period.
	GrossRevenue decimal.Decimal
	// DiscountTotal sums allocation discounts across payments in the period.
	DiscountTotal decimal.Decimal
	// NetRevenue is gross minus discounts.
	NetRevenue decimal.Decimal
	// CollectedCash and CollectedOnline partition payment totals by mode.
	CollectedCash   decimal.Decimal
	CollectedOnline decimal.Decimal
	// ExpenseTotal sums expenses in the period.
	ExpenseTotal decimal.Decimal
	// NetCashFlow is everything collected minus expenses.
	NetCashFlow decimal.Decimal
	// MatchCount is how many matches were logged in the period.
	MatchCount int
}

// Summarize computes the rollup for the given range.
func (s *Store) Summarize(r Range) Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		GrossRevenue:    decimal.Zero,
		DiscountTotal:   decimal.Zero,
		CollectedCash:   decimal.Zero,
		CollectedOnline: decimal.Zero,
		ExpenseTotal:    decimal.Zero,
	}

	for _, m := range s.matches {
		if !r.Contains(m.Date) {
			continue
		}
		sum.GrossRevenue = sum.GrossRevenue.Add(m.TotalValue)
		sum.MatchCount++
	}

	for _, p := range s.payments {
		if !r.Contains(p.Date) {
			continue
		}
		switch p.Mode {
		case ModeCash:
			sum.CollectedCash = sum.CollectedCash.Add(p.TotalAmount)
		case ModeOnline:
			sum.CollectedOnline = sum.CollectedOnline.Add(p.TotalAmount)
		}
		for _, a := range p.Allocations {
			sum.DiscountTotal = sum.DiscountTotal.Add(a.Discount)
		}
	}

	for _, e := range s.expenses {
		if !r.Contains(e.Date) {
			continue
		}
		sum.ExpenseTotal = sum.ExpenseTotal.Add(e.Amount)
	}

	sum.NetRevenue = sum.GrossRevenue.Sub(sum.DiscountTotal)
	sum.NetCashFlow = sum.CollectedCash.Add(sum.CollectedOnline).Sub(sum.ExpenseTotal)
	return sum
}

// TotalDues sums positive pending balances across all players. Players in
// credit do not offset others' debts; this is the receivables figure, never
// period-filtered.
func (s *Store) TotalDues() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, p := range s.players {
		stats, err := s.playerStatsLocked(p.ID)
		if err != nil {
			continue
		}
		if stats.Pending.IsPositive() {
			total = total.Add(stats.Pending)
		}
	}
	return total
}
