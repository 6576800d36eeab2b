/*
dto.go - JSON types for API requests and responses

PURPOSE:
  Decouples the wire format from the domain types. Amounts are
  decimal.Decimal, which unmarshals from a JSON number or a numeric
  string and marshals back as a quoted decimal string, so currency never
  round-trips through float64.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/loyalty-ledger/loyalty"
)

// =============================================================================
// CUSTOMERS
// =============================================================================

type CustomerDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
	DateAdded string `json:"date_added"`
}

type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

// UpdateCustomerRequest carries a partial update. Absent fields are left
// untouched; id and date_added are not patchable.
type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

func toCustomerDTO(c loyalty.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Notes:     c.Notes,
		DateAdded: c.DateAdded.Format(time.RFC3339),
	}
}

// =============================================================================
// SALES
// =============================================================================

type SaleDTO struct {
	ID           string          `json:"id"`
	Amount       decimal.Decimal `json:"amount"`
	CustomerID   string          `json:"customer_id,omitempty"`
	PointsEarned int64           `json:"points_earned"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

type CreateSaleRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	CustomerID  string          `json:"customer_id"`
	Description string          `json:"description"`
}

func toSaleDTO(s loyalty.Sale) SaleDTO {
	return SaleDTO{
		ID:           s.ID,
		Amount:       s.Amount,
		CustomerID:   s.CustomerID,
		PointsEarned: s.PointsEarned,
		Description:  s.Description,
		CreatedAt:    s.CreatedAt.Format(time.RFC3339),
	}
}

func toSaleDTOs(sales []loyalty.Sale) []SaleDTO {
	out := make([]SaleDTO, len(sales))
	for i, s := range sales {
		out[i] = toSaleDTO(s)
	}
	return out
}

// =============================================================================
// SETTINGS
// =============================================================================

type SettingsDTO struct {
	PointsPerUnit   int64  `json:"points_per_unit"`
	RewardThreshold int64  `json:"reward_threshold"`
	UpdatedAt       string `json:"updated_at,omitempty"`
}

// SaveSettingsRequest uses json.Number so that fractional values are
// rejected as "not an integer" instead of being silently truncated.
type SaveSettingsRequest struct {
	PointsPerUnit   json.Number `json:"points_per_unit"`
	RewardThreshold json.Number `json:"reward_threshold"`
}

func toSettingsDTO(s loyalty.LoyaltySettings) SettingsDTO {
	dto := SettingsDTO{
		PointsPerUnit:   s.PointsPerUnit,
		RewardThreshold: s.RewardThreshold,
	}
	if !s.UpdatedAt.IsZero() {
		dto.UpdatedAt = s.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// DERIVED VIEWS
// =============================================================================

// CustomerLoyaltyDTO is the per-customer loyalty view: frozen point total,
// eligibility against the current threshold, and sales newest-first.
type CustomerLoyaltyDTO struct {
	Customer        CustomerDTO `json:"customer"`
	TotalPoints     int64       `json:"total_points"`
	RewardAvailable bool        `json:"reward_available"`
	Sales           []SaleDTO   `json:"sales"`
}

type TopCustomerDTO struct {
	Customer    CustomerDTO `json:"customer"`
	TotalPoints int64       `json:"total_points"`
}

type DashboardDTO struct {
	TodayRevenue        decimal.Decimal  `json:"today_revenue"`
	TodayTransactions   int              `json:"today_transactions"`
	MonthlyRevenue      decimal.Decimal  `json:"monthly_revenue"`
	MonthlyTransactions int              `json:"monthly_transactions"`
	AverageSale         decimal.Decimal  `json:"average_sale"`
	RewardsPending      int              `json:"rewards_pending"`
	TopCustomers        []TopCustomerDTO `json:"top_customers"`
}
