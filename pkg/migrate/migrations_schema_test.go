package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mfarias-dev/puntoventa-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestCatalogMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_catalog_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS categories",
		"CREATE TABLE IF NOT EXISTS products",
		"CHECK (quantity >= 0)",
		"REFERENCES categories (id) ON DELETE SET NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name",
		"CREATE INDEX IF NOT EXISTS idx_products_name_lower",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSalesMigrationContainsSchemas(t *testing.T) {
	content := readMigration(t, "*_create_sales_tables.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS sales",
		"CREATE TABLE IF NOT EXISTS sale_lines",
		"payment_method text NOT NULL CHECK (payment_method IN ('cash', 'debit', 'credit'))",
		"REFERENCES sales (id) ON DELETE CASCADE",
		"CREATE INDEX IF NOT EXISTS idx_sales_sale_date",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	dir := t.TempDir()

	path, err := migrate.CreateSQLMigration(dir, "Add Loyalty Points!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_loyalty_points.sql") {
		t.Fatalf("unexpected filename %q", path)
	}

	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("generated migration failed validation: %v", err)
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
