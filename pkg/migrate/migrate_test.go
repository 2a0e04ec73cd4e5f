package migrate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations invalid: %v", err)
	}
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected invalid filename error")
	}

	dir = t.TempDir()
	body := "-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n-- +goose Down\n"
	if err := os.WriteFile(filepath.Join(dir, "20250101000000_unbalanced.sql"), []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil || !strings.Contains(err.Error(), "StatementBegin") {
		t.Fatalf("expected unbalanced marker error, got %v", err)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	nowFunc = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = time.Now })

	path, err := CreateSQLMigration(dir, "Add Booking Notes!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(path) != "20250601120000_add_booking_notes.sql" {
		t.Fatalf("unexpected filename %s", filepath.Base(path))
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migration invalid: %v", err)
	}
	next, err := CreateSQLMigration(dir, "add booking index")
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if filepath.Base(next) != "20250601120001_add_booking_index.sql" {
		t.Fatalf("expected bumped version, got %s", filepath.Base(next))
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("generated migrations invalid: %v", err)
	}
	if _, err := CreateSQLMigration(dir, "!!!"); err == nil {
		t.Fatal("expected empty name error")
	}
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"20250101000000_a.sql": "-- +goose Up\nSELECT 1;\n-- +goose Down\n",
		"20250101000000_b.sql": "-- +goose Up\nSELECT 1;\n-- +goose Down\n",
		"20250102000000_c.sql": "-- +goose Down\n-- +goose Up\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	err := ValidateDir(dir)
	if err == nil {
		t.Fatal("expected errors")
	}
	for _, want := range []string{"duplicate migration version", "Down before Up"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestAutoMigrateCreatesActiveSlotIndex(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:automigrate_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(conn); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if !conn.Migrator().HasIndex(&models.Booking{}, models.BookingActiveSlotIndex) {
		t.Fatal("expected active slot index")
	}
	if !conn.Migrator().HasTable(&models.ShopSettings{}) {
		t.Fatal("expected shop_settings table")
	}
}

func TestEmbeddedMigrationsMatchSourceTree(t *testing.T) {
	embeddedFiles, err := fs.Glob(Embedded(), "migrations/*.sql")
	if err != nil {
		t.Fatalf("glob embedded: %v", err)
	}
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob disk: %v", err)
	}
	if len(embeddedFiles) == 0 || len(embeddedFiles) != len(onDisk) {
		t.Fatalf("embedded %d migrations, found %d on disk", len(embeddedFiles), len(onDisk))
	}
}
