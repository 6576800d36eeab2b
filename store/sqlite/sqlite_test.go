package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/loyalty-ledger/loyalty"
	"github.com/warp/loyalty-ledger/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func ts(day, hour int) time.Time {
	return time.Date(2025, time.June, day, hour, 0, 0, 0, time.UTC)
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// =============================================================================
// CUSTOMERS
// =============================================================================

func TestSQLite_Customers_RoundTrip_InsertionOrder(t *testing.T) {
	ctx := context.Background()
	customers := newTestStore(t).Customers()

	first := loyalty.Customer{ID: "c1", Name: "Ada", Phone: "555-0101", Notes: "vip", DateAdded: ts(1, 9)}
	second := loyalty.Customer{ID: "c2", Name: "Grace", DateAdded: ts(2, 9)}
	require.NoError(t, customers.Insert(ctx, first))
	require.NoError(t, customers.Insert(ctx, second))

	got, err := customers.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first, got[0])
	assert.Equal(t, second, got[1])
}

func TestSQLite_Customers_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	customers := newTestStore(t).Customers()

	rec := loyalty.Customer{ID: "c1", Name: "Ada", DateAdded: ts(1, 9)}
	require.NoError(t, customers.Insert(ctx, rec))

	rec.Phone = "555-0199"
	require.NoError(t, customers.Update(ctx, rec))

	got, err := customers.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "555-0199", got.Phone)
	assert.Equal(t, ts(1, 9), got.DateAdded, "date_added survives updates")

	require.NoError(t, customers.Delete(ctx, "c1"))
	_, err = customers.Get(ctx, "c1")
	assert.ErrorIs(t, err, loyalty.ErrNotFound)
}

func TestSQLite_Customers_UnknownID_SentinelError(t *testing.T) {
	ctx := context.Background()
	customers := newTestStore(t).Customers()

	_, err := customers.Get(ctx, "missing")
	assert.ErrorIs(t, err, loyalty.ErrNotFound)

	assert.ErrorIs(t, customers.Update(ctx, loyalty.Customer{ID: "missing", DateAdded: ts(1, 9)}), loyalty.ErrNotFound)
	assert.ErrorIs(t, customers.Delete(ctx, "missing"), loyalty.ErrNotFound)
}

// =============================================================================
// SALES
// =============================================================================

func TestSQLite_Sales_RoundTrip_PreservesDecimalAndAnonymity(t *testing.T) {
	// GIVEN: A linked sale with a fractional amount and an anonymous sale
	// WHEN: Appending and listing
	// THEN: Amounts round-trip exactly (no float drift) and the anonymous
	//       sale comes back with an empty customer id

	ctx := context.Background()
	sales := newTestStore(t).Sales()

	linked := loyalty.Sale{
		ID:           "s1",
		Amount:       mustDec("1234.56"),
		CustomerID:   "c1",
		PointsEarned: 1,
		Description:  "repair",
		CreatedAt:    ts(3, 10),
	}
	anon := loyalty.Sale{ID: "s2", Amount: mustDec("0.01"), CreatedAt: ts(3, 11)}

	require.NoError(t, sales.Append(ctx, linked))
	require.NoError(t, sales.Append(ctx, anon))

	got, err := sales.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, got[0].Amount.Equal(mustDec("1234.56")))
	assert.Equal(t, "c1", got[0].CustomerID)
	assert.Equal(t, "repair", got[0].Description)
	assert.Equal(t, ts(3, 10), got[0].CreatedAt)

	assert.True(t, got[1].Anonymous())
	assert.True(t, got[1].Amount.Equal(mustDec("0.01")))
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestSQLite_Settings_SingletonOverwrite(t *testing.T) {
	ctx := context.Background()
	settings := newTestStore(t).Settings()

	_, found, err := settings.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found, "nothing persisted yet")

	first := loyalty.SettingsRecord{PointsPerUnit: 1000, RewardThreshold: 50, UpdatedAt: ts(5, 8)}
	require.NoError(t, settings.Save(ctx, first))

	second := loyalty.SettingsRecord{PointsPerUnit: 500, RewardThreshold: 25, UpdatedAt: ts(6, 8)}
	require.NoError(t, settings.Save(ctx, second))

	got, found, err := settings.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, second, got, "save overwrites the singleton wholesale")
}
