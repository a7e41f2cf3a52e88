package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateSQLMigrationWritesGooseTemplate(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Reorder Index")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasSuffix(base, "_add_reorder_index.sql") {
		t.Fatalf("unexpected filename %q", base)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if !strings.Contains(string(content), "-- +goose Up") {
		t.Fatalf("missing up marker in %q", string(content))
	}
	if !strings.Contains(string(content), "-- +goose Down") {
		t.Fatalf("missing down marker in %q", string(content))
	}

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("freshly created migration should validate: %v", err)
	}
}

func TestCreateSQLMigrationRejectsEmptyName(t *testing.T) {
	if _, err := CreateSQLMigration(t.TempDir(), "!!!"); err == nil {
		t.Fatal("expected error for name with no usable characters")
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "init.sql", "-- +goose Up\n-- +goose Down\n")

	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected error for filename without version prefix")
	}
}

func TestValidateDirRejectsMissingMarkers(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "00001_init.sql", "CREATE TABLE widgets (id INT);")

	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected error for missing goose markers")
	}
}

func TestValidateDirRejectsDuplicateVersions(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "00001_init.sql", "-- +goose Up\n-- +goose Down\n")
	writeMigration(t, dir, "00001_other.sql", "-- +goose Up\n-- +goose Down\n")

	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected error for duplicate versions")
	}
}

func TestValidateDirAcceptsSequentialAndTimestamped(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "00001_init.sql", "-- +goose Up\n-- +goose Down\n")
	writeMigration(t, dir, "20250301000000_add_audit.sql", "-- +goose Up\n-- +goose Down\n")

	if err := ValidateDir(dir); err != nil {
		t.Fatalf("expected mixed version styles to validate: %v", err)
	}
}

func writeMigration(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
