/*
calculator.go - Per-customer loyalty derivations

PURPOSE:
  Pure functions over a sales snapshot. Nothing here reads storage or the
  clock; callers pass the snapshot (and, where relevant, the current
  settings) explicitly, which keeps these trivially testable.

THE ASYMMETRY THAT MAKES THIS WORK:
  TotalPoints sums the ALREADY-FROZEN per-sale awards; it does not consult
  the settings. IsRewardAvailable compares that frozen sum against the
  CURRENT threshold. So lowering the threshold immediately makes old point
  totals eligible without rewriting a single sale.
*/
package loyalty

import "sort"

// TotalPoints sums PointsEarned across the customer's sales. Anonymous
// sales and sales belonging to other customers are excluded. An empty
// snapshot, or an empty customer id, yields 0.
func TotalPoints(customerID string, sales []Sale) int64 {
	if customerID == "" {
		return 0
	}
	var total int64
	for _, s := range sales {
		if s.CustomerID == customerID {
			total += s.PointsEarned
		}
	}
	return total
}

// IsRewardAvailable reports whether a point total meets the current
// threshold. Evaluated at call time against the settings passed in, never
// stored.
func IsRewardAvailable(totalPoints int64, settings LoyaltySettings) bool {
	return totalPoints >= settings.RewardThreshold
}

// SalesForCustomer returns the customer's sales, most recent first.
// Order among equal CreatedAt values is unspecified.
func SalesForCustomer(customerID string, sales []Sale) []Sale {
	if customerID == "" {
		return nil
	}
	var out []Sale
	for _, s := range sales {
		if s.CustomerID == customerID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
