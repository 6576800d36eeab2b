/*
metrics.go - Dashboard derivations over ledger snapshots

PURPOSE:
  Time-windowed revenue and transaction aggregates, plus reward-pending
  counts and a ranked top-customers view. Pure over the snapshots passed
  in; "now" comes from an injectable Clock so tests can pin it.

TIME WINDOWS:
  "Today" means same calendar year/month/day as now; "this month" means
  same year/month. Comparisons happen in now's location. Each method takes
  ONE now snapshot per call, so a midnight boundary cannot split a single
  derivation.

ANONYMOUS SALES:
  Included in every revenue/transaction window, excluded from every
  point-based view. Revenue is about money, points are about customers.
*/
package loyalty

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTopCustomersLimit caps the ranking when callers pass limit <= 0.
const DefaultTopCustomersLimit = 5

// Metrics derives dashboard numbers. A nil Clock means time.Now.
type Metrics struct {
	Clock Clock
}

func NewMetrics(clock Clock) *Metrics {
	return &Metrics{Clock: clock}
}

// =============================================================================
// TIME WINDOWS
// =============================================================================

// SameDay reports whether ts falls on the same calendar day as now,
// compared in now's location.
func SameDay(ts, now time.Time) bool {
	y1, m1, d1 := ts.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SameMonth reports whether ts falls in the same calendar month as now,
// compared in now's location.
func SameMonth(ts, now time.Time) bool {
	y1, m1, _ := ts.In(now.Location()).Date()
	y2, m2, _ := now.Date()
	return y1 == y2 && m1 == m2
}

// =============================================================================
// REVENUE / TRANSACTION WINDOWS
// =============================================================================

// TodayRevenue sums amounts of today's sales, anonymous included.
func (m *Metrics) TodayRevenue(sales []Sale) decimal.Decimal {
	now := m.Clock.now()
	return sumWhere(sales, func(s Sale) bool { return SameDay(s.CreatedAt, now) })
}

// TodayTransactions counts today's sales.
func (m *Metrics) TodayTransactions(sales []Sale) int {
	now := m.Clock.now()
	return countWhere(sales, func(s Sale) bool { return SameDay(s.CreatedAt, now) })
}

// MonthlyRevenue sums amounts of this month's sales, anonymous included.
func (m *Metrics) MonthlyRevenue(sales []Sale) decimal.Decimal {
	now := m.Clock.now()
	return sumWhere(sales, func(s Sale) bool { return SameMonth(s.CreatedAt, now) })
}

// MonthlyTransactions counts this month's sales.
func (m *Metrics) MonthlyTransactions(sales []Sale) int {
	now := m.Clock.now()
	return countWhere(sales, func(s Sale) bool { return SameMonth(s.CreatedAt, now) })
}

// AverageSale is monthly revenue over monthly transaction count, rounded to
// 2 decimal places. Zero when the month has no transactions.
func (m *Metrics) AverageSale(sales []Sale) decimal.Decimal {
	now := m.Clock.now()
	inMonth := func(s Sale) bool { return SameMonth(s.CreatedAt, now) }

	count := countWhere(sales, inMonth)
	if count == 0 {
		return decimal.Zero
	}
	revenue := sumWhere(sales, inMonth)
	return revenue.Div(decimal.NewFromInt(int64(count))).Round(2)
}

func sumWhere(sales []Sale, keep func(Sale) bool) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		if keep(s) {
			total = total.Add(s.Amount)
		}
	}
	return total
}

func countWhere(sales []Sale, keep func(Sale) bool) int {
	n := 0
	for _, s := range sales {
		if keep(s) {
			n++
		}
	}
	return n
}

// =============================================================================
// REWARD VIEWS
// =============================================================================

// RewardsPendingCount counts customers whose point total meets the current
// threshold. Anonymous sales never contribute; ids not present in the
// customer list are skipped.
func (m *Metrics) RewardsPendingCount(customers []Customer, sales []Sale, settings LoyaltySettings) int {
	byCustomer := pointsByCustomer(sales)
	n := 0
	for _, c := range customers {
		if byCustomer[c.ID] >= settings.RewardThreshold {
			n++
		}
	}
	return n
}

// TopCustomers ranks customers by total points, descending, truncated to
// limit (DefaultTopCustomersLimit when limit <= 0). Customers with zero
// points are dropped, and sales referencing ids outside the customer list
// are ignored. Ties keep customer-list order.
func (m *Metrics) TopCustomers(customers []Customer, sales []Sale, limit int) []CustomerPoints {
	if limit <= 0 {
		limit = DefaultTopCustomersLimit
	}

	byCustomer := pointsByCustomer(sales)

	var ranked []CustomerPoints
	for _, c := range customers {
		if pts := byCustomer[c.ID]; pts > 0 {
			ranked = append(ranked, CustomerPoints{Customer: c, TotalPoints: pts})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalPoints > ranked[j].TotalPoints
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// pointsByCustomer folds the frozen per-sale awards into per-customer
// totals. Anonymous sales are skipped.
func pointsByCustomer(sales []Sale) map[string]int64 {
	totals := make(map[string]int64)
	for _, s := range sales {
		if s.Anonymous() {
			continue
		}
		totals[s.CustomerID] += s.PointsEarned
	}
	return totals
}
