package loyalty_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/loyalty-ledger/loyalty"
	"github.com/warp/loyalty-ledger/loyalty/store"
)

func strPtr(s string) *string { return &s }

// =============================================================================
// ADD / LIST
// =============================================================================

func TestCustomers_Add_EmptyName_Rejected(t *testing.T) {
	// GIVEN: A create request without a name
	// WHEN: Adding the customer
	// THEN: A ValidationError names the field and nothing is stored

	ctx := context.Background()
	mem := store.NewMemory()
	ledger := loyalty.NewCustomerLedger(mem.Customers)

	_, err := ledger.Add(ctx, loyalty.NewCustomer{Phone: "555-0100"})

	require.Error(t, err)
	assert.True(t, loyalty.IsValidation(err))

	customers, err := ledger.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)
}

func TestCustomers_Add_RoundTrip_InsertionOrder(t *testing.T) {
	// GIVEN: Two customers added in sequence
	// WHEN: Listing
	// THEN: The list returns records equal to the ones Add returned, in
	//       insertion order

	ctx := context.Background()
	ledger := loyalty.NewCustomerLedger(store.NewMemory().Customers)

	first, err := ledger.Add(ctx, loyalty.NewCustomer{Name: "Ada", Phone: "555-0101"})
	require.NoError(t, err)
	second, err := ledger.Add(ctx, loyalty.NewCustomer{Name: "Grace", Notes: "prefers email"})
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.DateAdded.IsZero())

	customers, err := ledger.List(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, first, customers[0])
	assert.Equal(t, second, customers[1])
}

// =============================================================================
// UPDATE
// =============================================================================

func TestCustomers_Update_MergesPatchFields(t *testing.T) {
	// GIVEN: An existing customer
	// WHEN: Patching only the phone
	// THEN: Phone changes, everything else (including ID and DateAdded)
	//       stays as created

	ctx := context.Background()
	ledger := loyalty.NewCustomerLedger(store.NewMemory().Customers)

	created, err := ledger.Add(ctx, loyalty.NewCustomer{Name: "Ada", Phone: "555-0101", Notes: "vip"})
	require.NoError(t, err)

	updated, err := ledger.Update(ctx, created.ID, loyalty.CustomerPatch{Phone: strPtr("555-0199")})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.DateAdded, updated.DateAdded)
	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, "555-0199", updated.Phone)
	assert.Equal(t, "vip", updated.Notes)
}

func TestCustomers_Update_UnknownID_NotFound(t *testing.T) {
	ledger := loyalty.NewCustomerLedger(store.NewMemory().Customers)

	_, err := ledger.Update(context.Background(), "missing", loyalty.CustomerPatch{Name: strPtr("X")})

	require.Error(t, err)
	assert.True(t, loyalty.IsNotFound(err))
	var nferr *loyalty.NotFoundError
	require.ErrorAs(t, err, &nferr)
	assert.Equal(t, "customer", nferr.Kind)
	assert.Equal(t, "missing", nferr.ID)
}

// =============================================================================
// DELETE
// =============================================================================

func TestCustomers_Delete_RemovesRecordOnly(t *testing.T) {
	// GIVEN: A customer with a recorded sale
	// WHEN: Deleting the customer
	// THEN: The customer is gone but the sale still carries its id and
	//       frozen points

	ctx := context.Background()
	mem := store.NewMemory()
	customers := loyalty.NewCustomerLedger(mem.Customers)
	sales := loyalty.NewSaleLedger(mem.Sales, loyalty.NewSettingsService(mem.Settings))

	c, err := customers.Add(ctx, loyalty.NewCustomer{Name: "Ada"})
	require.NoError(t, err)
	s, err := sales.Add(ctx, loyalty.NewSale{Amount: dec("5000"), CustomerID: c.ID})
	require.NoError(t, err)

	require.NoError(t, customers.Delete(ctx, c.ID))

	remaining, err := customers.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	ledger, err := sales.List(ctx)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, c.ID, ledger[0].CustomerID, "sale keeps its (now dangling) customer id")
	assert.Equal(t, s.PointsEarned, ledger[0].PointsEarned)
}

func TestCustomers_Delete_UnknownID_NotFound(t *testing.T) {
	ledger := loyalty.NewCustomerLedger(store.NewMemory().Customers)

	err := ledger.Delete(context.Background(), "missing")

	require.Error(t, err)
	assert.True(t, loyalty.IsNotFound(err))
}
