package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kasbookhq/kasbook-backend/pkg/migrate"
)

func TestMigrationDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q found", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestLedgerMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_ledger.sql")

	checks := []string{
		"CREATE TABLE debts",
		"CHECK (remaining >= 0 AND remaining <= amount)",
		"CONSTRAINT debts_single_origin",
		"CREATE TABLE transactions",
		"CHECK (amount > 0)",
		"CONSTRAINT transactions_single_origin",
		"deleted_at timestamptz",
		"CREATE TABLE stock_mutations",
		"CONSTRAINT stock_mutations_single_origin",
		"DROP TABLE stock_mutations",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestEnumMigrationCoversAllTypes(t *testing.T) {
	content := readMigration(t, "*_create_enums.sql")

	checks := []string{
		"CREATE TYPE transaction_type_enum AS ENUM ('income', 'expense')",
		"CREATE TYPE debt_type_enum AS ENUM ('payable', 'receivable')",
		"CREATE TYPE settlement_status_enum AS ENUM ('unpaid', 'partial', 'paid')",
		"CREATE TYPE stock_mutation_type_enum AS ENUM ('in', 'out', 'adjustment')",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
