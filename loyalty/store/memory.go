// Package store provides in-memory implementations of the loyalty
// persistence interfaces, used by tests and dev runs.
package store

import (
	"context"
	"sync"

	"github.com/warp/loyalty-ledger/loyalty"
)

// Memory bundles one in-memory store per collection. The three collections
// are independent, matching the persisted layout: customers, sales, and the
// settings singleton.
type Memory struct {
	Customers *MemoryCustomers
	Sales     *MemorySales
	Settings  *MemorySettings
}

func NewMemory() *Memory {
	return &Memory{
		Customers: &MemoryCustomers{},
		Sales:     &MemorySales{},
		Settings:  &MemorySettings{},
	}
}

// Compile-time interface checks.
var (
	_ loyalty.CustomerStore = (*MemoryCustomers)(nil)
	_ loyalty.SaleStore     = (*MemorySales)(nil)
	_ loyalty.SettingsStore = (*MemorySettings)(nil)
)

// =============================================================================
// CUSTOMERS - Mutable collection, insertion order = slice order
// =============================================================================

type MemoryCustomers struct {
	mu   sync.RWMutex
	recs []loyalty.Customer
}

func (m *MemoryCustomers) Insert(_ context.Context, c loyalty.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, c)
	return nil
}

func (m *MemoryCustomers) List(_ context.Context) ([]loyalty.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]loyalty.Customer, len(m.recs))
	copy(out, m.recs)
	return out, nil
}

func (m *MemoryCustomers) Get(_ context.Context, id string) (loyalty.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.recs {
		if c.ID == id {
			return c, nil
		}
	}
	return loyalty.Customer{}, loyalty.ErrNotFound
}

func (m *MemoryCustomers) Update(_ context.Context, c loyalty.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.recs {
		if m.recs[i].ID == c.ID {
			m.recs[i] = c
			return nil
		}
	}
	return loyalty.ErrNotFound
}

func (m *MemoryCustomers) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.recs {
		if m.recs[i].ID == id {
			m.recs = append(m.recs[:i], m.recs[i+1:]...)
			return nil
		}
	}
	return loyalty.ErrNotFound
}

// =============================================================================
// SALES - Append-only, insertion order = slice order
// =============================================================================

type MemorySales struct {
	mu   sync.RWMutex
	recs []loyalty.Sale
}

// Append adds a sale. This is the only write; no mutation method exists.
func (m *MemorySales) Append(_ context.Context, s loyalty.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, s)
	return nil
}

func (m *MemorySales) List(_ context.Context) ([]loyalty.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]loyalty.Sale, len(m.recs))
	copy(out, m.recs)
	return out, nil
}

// =============================================================================
// SETTINGS - Singleton record
// =============================================================================

type MemorySettings struct {
	mu    sync.RWMutex
	rec   loyalty.SettingsRecord
	saved bool
}

func (m *MemorySettings) Load(_ context.Context) (loyalty.SettingsRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rec, m.saved, nil
}

func (m *MemorySettings) Save(_ context.Context, rec loyalty.SettingsRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec
	m.saved = true
	return nil
}
