/*
settings.go - The singleton configurable ruleset

PURPOSE:
  Reads and writes the LoyaltySettings singleton with validation and
  graceful degradation.

READ PATH (Get):
  Never fails. Any field that fails validation in the persisted record is
  replaced with its default, field by field; if the record cannot be read
  at all, the full defaults are returned. A corrupt ruleset must never
  take the ledger down.

WRITE PATH (Save):
  Both fields must be integers >= 1. On violation the save is rejected
  with a ValidationError naming the field and the prior settings are left
  untouched - no partial write. On success the record is stamped with the
  current time and persisted wholesale.

NON-RETROACTIVITY:
  Saving new settings changes how FUTURE sales are stamped and how reward
  eligibility is evaluated from now on. It never rewrites PointsEarned on
  existing sales. See sales.go.
*/
package loyalty

import (
	"context"
	"fmt"
)

// SettingsService mediates access to the persisted ruleset.
type SettingsService struct {
	Store SettingsStore
	Clock Clock
}

func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{Store: store}
}

// Get returns the current settings, falling back to defaults for any field
// that is missing or invalid. It never returns an error.
func (s *SettingsService) Get(ctx context.Context) LoyaltySettings {
	rec, found, err := s.Store.Load(ctx)
	if err != nil || !found {
		return DefaultSettings()
	}

	out := LoyaltySettings{
		PointsPerUnit:   rec.PointsPerUnit,
		RewardThreshold: rec.RewardThreshold,
		UpdatedAt:       rec.UpdatedAt,
	}
	if out.PointsPerUnit < 1 {
		out.PointsPerUnit = DefaultPointsPerUnit
	}
	if out.RewardThreshold < 1 {
		out.RewardThreshold = DefaultRewardThreshold
	}
	return out
}

// SettingsInput is a candidate ruleset to save.
type SettingsInput struct {
	PointsPerUnit   int64
	RewardThreshold int64
}

// Save validates the candidate, stamps UpdatedAt and persists it wholesale.
// Returns the saved record including the timestamp.
func (s *SettingsService) Save(ctx context.Context, in SettingsInput) (LoyaltySettings, error) {
	if in.PointsPerUnit < 1 {
		return LoyaltySettings{}, &ValidationError{Field: "points_per_unit", Reason: "must be an integer >= 1"}
	}
	if in.RewardThreshold < 1 {
		return LoyaltySettings{}, &ValidationError{Field: "reward_threshold", Reason: "must be an integer >= 1"}
	}

	rec := SettingsRecord{
		PointsPerUnit:   in.PointsPerUnit,
		RewardThreshold: in.RewardThreshold,
		UpdatedAt:       s.Clock.now().UTC(),
	}
	if err := s.Store.Save(ctx, rec); err != nil {
		return LoyaltySettings{}, fmt.Errorf("save settings: %w", err)
	}

	return LoyaltySettings{
		PointsPerUnit:   rec.PointsPerUnit,
		RewardThreshold: rec.RewardThreshold,
		UpdatedAt:       rec.UpdatedAt,
	}, nil
}
