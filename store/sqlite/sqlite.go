/*
Package sqlite provides the SQLite-backed implementation of the loyalty
storage interfaces.

PURPOSE:
  Persists the three independent collections - customers, sales, and the
  settings singleton - in a single SQLite file. Suitable for the system's
  single-writer model; WAL mode keeps readers from blocking.

APPEND-ONLY ENFORCEMENT:
  The sales table is written by exactly one INSERT statement. There is no
  UPDATE or DELETE against it anywhere in this package, which makes the
  "points frozen at write time" invariant structural rather than
  disciplinary.

ORDERING:
  Each collection carries an INTEGER PRIMARY KEY AUTOINCREMENT seq column.
  List queries order by seq, so insertion order survives process restarts.

DATA REPRESENTATION:
  - Amounts are stored as decimal strings (TEXT), never floats.
  - Timestamps are RFC 3339 in UTC.
  - An anonymous sale stores NULL for customer_id.

USAGE:
  st, err := sqlite.New("./loyalty.db") // ":memory:" for tests
  ...
  defer st.Close()
  customers := loyalty.NewCustomerLedger(st.Customers())

SEE ALSO:
  - loyalty/store.go: Interface definitions
  - loyalty/store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/loyalty-ledger/loyalty"
)

// Store owns the database handle and hands out per-collection views.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Customers returns the customer collection view.
func (s *Store) Customers() *Customers { return &Customers{db: s.db} }

// Sales returns the sale ledger view.
func (s *Store) Sales() *Sales { return &Sales{db: s.db} }

// Settings returns the settings singleton view.
func (s *Store) Settings() *Settings { return &Settings{db: s.db} }

func (s *Store) migrate() error {
	schema := `
	-- Customers (mutable directory)
	CREATE TABLE IF NOT EXISTS customers (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		phone      TEXT NOT NULL DEFAULT '',
		notes      TEXT NOT NULL DEFAULT '',
		date_added TEXT NOT NULL
	);

	-- Sales (append-only ledger; no UPDATE/DELETE in this package)
	CREATE TABLE IF NOT EXISTS sales (
		seq           INTEGER PRIMARY KEY AUTOINCREMENT,
		id            TEXT NOT NULL UNIQUE,
		amount        TEXT NOT NULL,
		customer_id   TEXT,
		points_earned INTEGER NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sales_customer
		ON sales(customer_id) WHERE customer_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_sales_created_at
		ON sales(created_at);

	-- Settings singleton (id pinned to 1)
	CREATE TABLE IF NOT EXISTS loyalty_settings (
		id               INTEGER PRIMARY KEY CHECK (id = 1),
		points_per_unit  INTEGER NOT NULL,
		reward_threshold INTEGER NOT NULL,
		updated_at       TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

const timeFormat = time.RFC3339Nano

// =============================================================================
// CUSTOMERS
// =============================================================================

// Customers implements loyalty.CustomerStore.
type Customers struct {
	db *sql.DB
}

var _ loyalty.CustomerStore = (*Customers)(nil)

func (c *Customers) Insert(ctx context.Context, rec loyalty.Customer) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO customers (id, name, phone, notes, date_added) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Phone, rec.Notes, rec.DateAdded.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (c *Customers) List(ctx context.Context) ([]loyalty.Customer, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, name, phone, notes, date_added FROM customers ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []loyalty.Customer
	for rows.Next() {
		rec, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (c *Customers) Get(ctx context.Context, id string) (loyalty.Customer, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT id, name, phone, notes, date_added FROM customers WHERE id = ?`, id)
	rec, err := scanCustomer(row)
	if err == sql.ErrNoRows {
		return loyalty.Customer{}, loyalty.ErrNotFound
	}
	return rec, err
}

func (c *Customers) Update(ctx context.Context, rec loyalty.Customer) error {
	// date_added is immutable; the column is deliberately absent here.
	res, err := c.db.ExecContext(ctx,
		`UPDATE customers SET name = ?, phone = ?, notes = ? WHERE id = ?`,
		rec.Name, rec.Phone, rec.Notes, rec.ID)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	return errIfNoRows(res)
}

func (c *Customers) Delete(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return errIfNoRows(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (loyalty.Customer, error) {
	var rec loyalty.Customer
	var added string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Phone, &rec.Notes, &added); err != nil {
		return loyalty.Customer{}, err
	}
	t, err := time.Parse(timeFormat, added)
	if err != nil {
		return loyalty.Customer{}, fmt.Errorf("parse date_added: %w", err)
	}
	rec.DateAdded = t
	return rec, nil
}

func errIfNoRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return loyalty.ErrNotFound
	}
	return nil
}

// =============================================================================
// SALES
// =============================================================================

// Sales implements loyalty.SaleStore. Append-only: the single INSERT below
// is the only statement that touches the sales table outside migration.
type Sales struct {
	db *sql.DB
}

var _ loyalty.SaleStore = (*Sales)(nil)

func (s *Sales) Append(ctx context.Context, rec loyalty.Sale) error {
	customerID := sql.NullString{String: rec.CustomerID, Valid: rec.CustomerID != ""}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sales (id, amount, customer_id, points_earned, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Amount.String(), customerID, rec.PointsEarned, rec.Description,
		rec.CreatedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("append sale: %w", err)
	}
	return nil
}

func (s *Sales) List(ctx context.Context) ([]loyalty.Sale, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount, customer_id, points_earned, description, created_at
		 FROM sales ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var out []loyalty.Sale
	for rows.Next() {
		var rec loyalty.Sale
		var amount, created string
		var customerID sql.NullString
		if err := rows.Scan(&rec.ID, &amount, &customerID, &rec.PointsEarned, &rec.Description, &created); err != nil {
			return nil, err
		}
		if rec.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("parse amount: %w", err)
		}
		if rec.CreatedAt, err = time.Parse(timeFormat, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		rec.CustomerID = customerID.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings implements loyalty.SettingsStore over a single pinned row.
type Settings struct {
	db *sql.DB
}

var _ loyalty.SettingsStore = (*Settings)(nil)

func (s *Settings) Load(ctx context.Context) (loyalty.SettingsRecord, bool, error) {
	var rec loyalty.SettingsRecord
	var updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT points_per_unit, reward_threshold, updated_at FROM loyalty_settings WHERE id = 1`).
		Scan(&rec.PointsPerUnit, &rec.RewardThreshold, &updated)
	if err == sql.ErrNoRows {
		return loyalty.SettingsRecord{}, false, nil
	}
	if err != nil {
		return loyalty.SettingsRecord{}, false, fmt.Errorf("load settings: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(timeFormat, updated); err != nil {
		return loyalty.SettingsRecord{}, false, fmt.Errorf("parse updated_at: %w", err)
	}
	return rec, true, nil
}

func (s *Settings) Save(ctx context.Context, rec loyalty.SettingsRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO loyalty_settings (id, points_per_unit, reward_threshold, updated_at)
		 VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			points_per_unit = excluded.points_per_unit,
			reward_threshold = excluded.reward_threshold,
			updated_at = excluded.updated_at`,
		rec.PointsPerUnit, rec.RewardThreshold, rec.UpdatedAt.UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
