/*
customers.go - Customer directory CRUD

PURPOSE:
  Create, list, patch and delete customer records. Independent of the sale
  ledger: deleting a customer never cascades to sales, so historical
  revenue and point math survives. Sales referencing a deleted customer
  simply carry a dangling id, which the derivation functions skip.
*/
package loyalty

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// CustomerLedger manages the customer collection.
type CustomerLedger struct {
	Store CustomerStore
	Clock Clock
}

func NewCustomerLedger(store CustomerStore) *CustomerLedger {
	return &CustomerLedger{Store: store}
}

// Add creates a customer. Name is required; Phone and Notes may be empty.
func (l *CustomerLedger) Add(ctx context.Context, in NewCustomer) (Customer, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Customer{}, &ValidationError{Field: "name", Reason: "is required"}
	}

	c := Customer{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Phone:     in.Phone,
		Notes:     in.Notes,
		DateAdded: l.Clock.now().UTC(),
	}
	if err := l.Store.Insert(ctx, c); err != nil {
		return Customer{}, err
	}
	return c, nil
}

// List returns all customers in insertion order.
func (l *CustomerLedger) List(ctx context.Context) ([]Customer, error) {
	return l.Store.List(ctx)
}

// Get returns a single customer.
func (l *CustomerLedger) Get(ctx context.Context, id string) (Customer, error) {
	c, err := l.Store.Get(ctx, id)
	if err != nil {
		return Customer{}, l.wrapNotFound(err, id)
	}
	return c, nil
}

// Update merges non-nil patch fields into the existing record.
// ID and DateAdded are immutable; the patch has no way to touch them.
func (l *CustomerLedger) Update(ctx context.Context, id string, patch CustomerPatch) (Customer, error) {
	c, err := l.Store.Get(ctx, id)
	if err != nil {
		return Customer{}, l.wrapNotFound(err, id)
	}

	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Phone != nil {
		c.Phone = *patch.Phone
	}
	if patch.Notes != nil {
		c.Notes = *patch.Notes
	}

	if err := l.Store.Update(ctx, c); err != nil {
		return Customer{}, l.wrapNotFound(err, id)
	}
	return c, nil
}

// Delete removes the customer record. Sales referencing the id are left
// untouched.
func (l *CustomerLedger) Delete(ctx context.Context, id string) error {
	if err := l.Store.Delete(ctx, id); err != nil {
		return l.wrapNotFound(err, id)
	}
	return nil
}

func (l *CustomerLedger) wrapNotFound(err error, id string) error {
	if errors.Is(err, ErrNotFound) {
		return &NotFoundError{Kind: "customer", ID: id}
	}
	return err
}
