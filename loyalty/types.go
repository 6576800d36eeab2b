/*
Package loyalty provides the core customer-loyalty ledger engine.

PURPOSE:
  This package contains the entities and algorithms for recording customers
  and sale events, stamping loyalty points onto sales as they are written,
  and deriving business metrics (revenue windows, averages, reward
  eligibility, rankings) on demand.

KEY CONCEPTS IN THIS FILE (types.go):
  - Customer: A mutable directory record (name, phone, notes)
  - Sale: An immutable ledger entry carrying its frozen point award
  - LoyaltySettings: The singleton configurable ruleset

DESIGN PRINCIPLES:
  1. Frozen history: A sale's PointsEarned is computed once, at write time,
     from the settings in effect at that moment. It is never recalculated.
  2. Dynamic eligibility: Reward eligibility is a threshold comparison
     against the CURRENT settings, evaluated at read time.
  3. Precision: Uses decimal.Decimal for currency to avoid floating-point
     errors in revenue sums and point division.
  4. Derive, don't store: Totals, windows, and rankings are always computed
     from the ledger. There is no cached aggregate that can go stale.

SEE ALSO:
  - sales.go: Point stamping at write time
  - settings.go: Ruleset validation and default fallback
  - calculator.go: Per-customer derivations
  - metrics.go: Dashboard derivations
*/
package loyalty

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CUSTOMER - Mutable directory record
// =============================================================================

// Customer is a loyalty program member. ID and DateAdded are assigned at
// creation and never change; the remaining fields may be updated.
//
// Deleting a customer does NOT touch sales referencing it. Historical
// revenue and point math must survive customer deletion, so a Sale may
// carry a CustomerID that no longer resolves.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Notes     string
	DateAdded time.Time
}

// NewCustomer is the input for creating a customer. Only Name is required.
type NewCustomer struct {
	Name  string
	Phone string
	Notes string
}

// CustomerPatch carries partial updates. Nil fields are left untouched.
// ID and DateAdded are immutable and have no patch field.
type CustomerPatch struct {
	Name  *string
	Phone *string
	Notes *string
}

// =============================================================================
// SALE - Immutable ledger entry
// =============================================================================

// Sale is a recorded purchase event. Once written it is permanent ledger
// history: there is no update or delete operation anywhere in this module.
//
// CustomerID is empty for anonymous sales. Anonymous sales count toward
// revenue and transaction metrics but never earn points.
type Sale struct {
	ID           string
	Amount       decimal.Decimal
	CustomerID   string
	PointsEarned int64
	Description  string
	CreatedAt    time.Time
}

// Anonymous reports whether the sale is not linked to any customer.
func (s Sale) Anonymous() bool { return s.CustomerID == "" }

// NewSale is the input for recording a sale. Amount must be positive;
// CustomerID and Description are optional.
type NewSale struct {
	Amount      decimal.Decimal
	CustomerID  string
	Description string
}

// =============================================================================
// LOYALTY SETTINGS - Singleton configurable ruleset
// =============================================================================

// Settings defaults, used when nothing valid has been persisted.
const (
	DefaultPointsPerUnit   int64 = 1000
	DefaultRewardThreshold int64 = 50
)

// LoyaltySettings is the single configurable ruleset.
//
// PointsPerUnit is the currency amount required to earn one point. It is
// applied only when a sale is written; changing it later never rewrites
// history. RewardThreshold is the cumulative point total at which a reward
// becomes available; it is compared dynamically at read time.
//
// UpdatedAt is zero for the never-saved (default) state.
type LoyaltySettings struct {
	PointsPerUnit   int64
	RewardThreshold int64
	UpdatedAt       time.Time
}

// DefaultSettings returns the built-in ruleset.
func DefaultSettings() LoyaltySettings {
	return LoyaltySettings{
		PointsPerUnit:   DefaultPointsPerUnit,
		RewardThreshold: DefaultRewardThreshold,
	}
}

// =============================================================================
// DERIVED VIEWS
// =============================================================================

// CustomerPoints pairs a customer with their derived point total.
// Produced by Metrics.TopCustomers.
type CustomerPoints struct {
	Customer    Customer
	TotalPoints int64
}
