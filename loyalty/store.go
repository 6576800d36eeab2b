/*
store.go - Persistence interfaces for the three collections

PURPOSE:
  Defines the boundary between the ledger logic and the storage medium.
  Three independent collections, three narrow interfaces. Different
  implementations can use SQLite or in-memory storage.

APPEND-ONLY CONTRACT:
  SaleStore has Append and List only. No Update or Delete method exists,
  here or on any implementation. Sales are permanent once written.

ORDERING CONTRACT:
  List methods return records in insertion order, stable across process
  restarts. Derivations that need a different order sort their own copy.

IMPLEMENTATIONS:
  - loyalty/store/memory.go: In-memory, for tests and dev
  - store/sqlite/sqlite.go:  Production SQLite
*/
package loyalty

import (
	"context"
	"time"
)

// CustomerStore persists the customer collection.
// Get, Update and Delete return ErrNotFound for unknown ids.
type CustomerStore interface {
	Insert(ctx context.Context, c Customer) error
	List(ctx context.Context) ([]Customer, error)
	Get(ctx context.Context, id string) (Customer, error)
	Update(ctx context.Context, c Customer) error
	Delete(ctx context.Context, id string) error
}

// SaleStore persists the sale ledger.
// IMPORTANT: append-only. No Update, no Delete. Ever.
type SaleStore interface {
	// Append adds a sale at the end of the ledger. This is the ONLY write.
	Append(ctx context.Context, s Sale) error

	// List returns all sales in insertion order.
	List(ctx context.Context) ([]Sale, error)
}

// SettingsRecord is the raw persisted form of the settings singleton.
// Validation and default fallback happen above this interface, in
// SettingsService, so a store only moves bytes.
type SettingsRecord struct {
	PointsPerUnit   int64
	RewardThreshold int64
	UpdatedAt       time.Time
}

// SettingsStore persists the singleton ruleset.
type SettingsStore interface {
	// Load returns the persisted record and whether one exists.
	Load(ctx context.Context) (SettingsRecord, bool, error)

	// Save overwrites the singleton wholesale.
	Save(ctx context.Context, rec SettingsRecord) error
}
