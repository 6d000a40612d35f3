// Package testdb opens throwaway in-memory databases with the full schema
// for repository and service tests. Money and quantity columns are TEXT so
// decimal values round-trip exactly under sqlite.
package testdb

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var schema = []string{
	`CREATE TABLE accounts (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  balance TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE contacts (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  phone TEXT,
  email TEXT,
  address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE transactions (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL,
  type TEXT NOT NULL,
  amount TEXT NOT NULL,
  note TEXT,
  category_id TEXT,
  order_id TEXT,
  purchase_id TEXT,
  debt_id TEXT,
  transaction_date DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`,
	`CREATE TABLE debts (
  id TEXT PRIMARY KEY,
  contact_id TEXT NOT NULL,
  order_id TEXT,
  purchase_id TEXT,
  type TEXT NOT NULL,
  amount TEXT NOT NULL,
  remaining TEXT NOT NULL,
  due_date DATETIME,
  status TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  contact_id TEXT,
  invoice_number TEXT NOT NULL UNIQUE,
  transaction_date DATETIME NOT NULL,
  grand_total TEXT NOT NULL,
  status TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  stock_id TEXT,
  name TEXT NOT NULL,
  qty TEXT NOT NULL,
  unit_price TEXT NOT NULL,
  line_total TEXT NOT NULL,
  created_at DATETIME
);`,
	`CREATE TABLE purchases (
  id TEXT PRIMARY KEY,
  contact_id TEXT,
  order_id TEXT,
  reference_number TEXT,
  transaction_date DATETIME NOT NULL,
  grand_total TEXT NOT NULL,
  status TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE purchase_items (
  id TEXT PRIMARY KEY,
  purchase_id TEXT NOT NULL,
  stock_id TEXT,
  name TEXT NOT NULL,
  qty TEXT NOT NULL,
  unit_cost TEXT NOT NULL,
  line_total TEXT NOT NULL,
  created_at DATETIME
);`,
	`CREATE TABLE stocks (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  unit TEXT NOT NULL,
  qty TEXT NOT NULL,
  avg_cost TEXT NOT NULL,
  selling_price TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE stock_mutations (
  id TEXT PRIMARY KEY,
  stock_id TEXT NOT NULL,
  type TEXT NOT NULL,
  qty TEXT NOT NULL,
  current_qty TEXT NOT NULL,
  current_avg_cost TEXT NOT NULL,
  order_id TEXT,
  purchase_id TEXT,
  note TEXT,
  created_at DATETIME
);`,
}

// Open returns a fresh in-memory database with the full schema applied.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// the in-memory database lives and dies with a single connection
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("unwrap sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("apply schema: %v", err)
		}
	}
	return conn
}
