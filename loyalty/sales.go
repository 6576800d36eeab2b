/*
sales.go - Append-only sale ledger with point stamping

PURPOSE:
  Records sale events and stamps each one with the loyalty points it earns.

CRITICAL INVARIANT - POINTS ARE FROZEN AT WRITE TIME:
  PointsEarned is computed exactly once, inside Add, from the settings in
  effect at that moment:

      linked sale:    floor(amount / pointsPerUnit)
      anonymous sale: 0, regardless of amount

  The result is stored as a permanent fact. Changing PointsPerUnit later
  never touches existing sales; there is no recalculation path anywhere in
  this module.

WHY FLOOR, NOT ROUND:
  A 5500 sale at 1000 per point earns 5 points, not 6. Partial progress
  toward a point is intentionally forfeited.

NO UPDATE, NO DELETE:
  Sales are permanent once written. A miskeyed sale has no documented
  correction path in the source system; this module reproduces that gap
  rather than inventing a mutation on ledger history.
*/
package loyalty

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLedger appends sale events, reading the current ruleset at write time.
type SaleLedger struct {
	Store    SaleStore
	Settings *SettingsService
	Clock    Clock
}

func NewSaleLedger(store SaleStore, settings *SettingsService) *SaleLedger {
	return &SaleLedger{Store: store, Settings: settings}
}

// Add validates and records a sale, stamping id, timestamp and points.
// Amount must be strictly positive. CustomerID may be empty (anonymous).
func (l *SaleLedger) Add(ctx context.Context, in NewSale) (Sale, error) {
	if !in.Amount.IsPositive() {
		return Sale{}, &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}

	// Read the CURRENT ruleset synchronously. This is the only moment the
	// settings influence this sale.
	settings := l.Settings.Get(ctx)

	s := Sale{
		ID:           uuid.NewString(),
		Amount:       in.Amount,
		CustomerID:   in.CustomerID,
		PointsEarned: stampPoints(in.Amount, in.CustomerID, settings.PointsPerUnit),
		Description:  in.Description,
		CreatedAt:    l.Clock.now().UTC(),
	}
	if err := l.Store.Append(ctx, s); err != nil {
		return Sale{}, err
	}
	return s, nil
}

// List returns all sales in insertion order.
func (l *SaleLedger) List(ctx context.Context) ([]Sale, error) {
	return l.Store.List(ctx)
}

// stampPoints computes the frozen point award for a new sale.
// Anonymous sales never accrue points, whatever the amount.
func stampPoints(amount decimal.Decimal, customerID string, pointsPerUnit int64) int64 {
	if customerID == "" {
		return 0
	}
	return amount.Div(decimal.NewFromInt(pointsPerUnit)).Floor().IntPart()
}
