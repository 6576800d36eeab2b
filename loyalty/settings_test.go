package loyalty_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/loyalty-ledger/loyalty"
	"github.com/warp/loyalty-ledger/loyalty/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func fixedClock(at time.Time) loyalty.Clock {
	return func() time.Time { return at }
}

func newSettingsService(mem *store.Memory) *loyalty.SettingsService {
	return loyalty.NewSettingsService(mem.Settings)
}

// =============================================================================
// GET - Defaults and fallback
// =============================================================================

func TestSettings_Get_NeverSaved_ReturnsDefaults(t *testing.T) {
	// GIVEN: No settings have ever been persisted
	// WHEN: Reading the settings
	// THEN: The built-in defaults come back, with a zero UpdatedAt

	svc := newSettingsService(store.NewMemory())

	got := svc.Get(context.Background())

	assert.Equal(t, int64(1000), got.PointsPerUnit)
	assert.Equal(t, int64(50), got.RewardThreshold)
	assert.True(t, got.UpdatedAt.IsZero())
}

func TestSettings_Get_InvalidStoredField_FallsBackPerField(t *testing.T) {
	// GIVEN: A persisted record where one field is corrupt (0) and the
	//        other is valid
	// WHEN: Reading the settings
	// THEN: Only the corrupt field is replaced with its default

	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.Settings.Save(ctx, loyalty.SettingsRecord{
		PointsPerUnit:   0,
		RewardThreshold: 30,
	}))

	got := newSettingsService(mem).Get(ctx)

	assert.Equal(t, int64(1000), got.PointsPerUnit, "corrupt field replaced by default")
	assert.Equal(t, int64(30), got.RewardThreshold, "valid field preserved")
}

// =============================================================================
// SAVE - Validation and persistence
// =============================================================================

func TestSettings_Save_RoundTrip(t *testing.T) {
	// GIVEN: A valid candidate ruleset
	// WHEN: Saving it
	// THEN: The returned record carries the values and the save timestamp,
	//       and a subsequent Get sees the same

	ctx := context.Background()
	now := time.Date(2025, time.June, 10, 12, 0, 0, 0, time.UTC)
	svc := newSettingsService(store.NewMemory())
	svc.Clock = fixedClock(now)

	saved, err := svc.Save(ctx, loyalty.SettingsInput{PointsPerUnit: 500, RewardThreshold: 25})
	require.NoError(t, err)
	assert.Equal(t, int64(500), saved.PointsPerUnit)
	assert.Equal(t, int64(25), saved.RewardThreshold)
	assert.Equal(t, now, saved.UpdatedAt)

	assert.Equal(t, saved, svc.Get(ctx))
}

func TestSettings_Save_InvalidValue_RejectedWithoutPartialWrite(t *testing.T) {
	// GIVEN: A valid ruleset already saved
	// WHEN: Saving a candidate with pointsPerUnit = 0
	// THEN: The save fails with a ValidationError and the prior settings
	//       are untouched

	ctx := context.Background()
	svc := newSettingsService(store.NewMemory())

	_, err := svc.Save(ctx, loyalty.SettingsInput{PointsPerUnit: 2000, RewardThreshold: 60})
	require.NoError(t, err)

	_, err = svc.Save(ctx, loyalty.SettingsInput{PointsPerUnit: 0, RewardThreshold: 50})
	require.Error(t, err)
	assert.True(t, loyalty.IsValidation(err))
	var verr *loyalty.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "points_per_unit", verr.Field)

	got := svc.Get(ctx)
	assert.Equal(t, int64(2000), got.PointsPerUnit, "prior settings must survive a failed save")
	assert.Equal(t, int64(60), got.RewardThreshold)
}

func TestSettings_Save_InvalidThreshold_Rejected(t *testing.T) {
	svc := newSettingsService(store.NewMemory())

	_, err := svc.Save(context.Background(), loyalty.SettingsInput{PointsPerUnit: 1000, RewardThreshold: -5})

	require.Error(t, err)
	var verr *loyalty.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "reward_threshold", verr.Field)
}
