package seed

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/cycletime/internal/db"
	"github.com/Simplici0/cycletime/internal/migrations"
)

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	for i := 0; i < 10; i++ {
		stats, err := Run(database)
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 1 {
				t.Fatalf("expected 1 insert in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM estimator_config WHERE id = 1`, 1)

	var setup, fraction float64
	if err := database.QueryRow(`SELECT setup_minutes, finishing_fraction FROM estimator_config WHERE id = 1`).Scan(&setup, &fraction); err != nil {
		t.Fatalf("query estimator config: %v", err)
	}
	if setup != 5.0 {
		t.Fatalf("expected setup_minutes 5.0, got %v", setup)
	}
	if fraction != 0.10 {
		t.Fatalf("expected finishing_fraction 0.10, got %v", fraction)
	}
}

func TestRunPreservesTunedValues(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "seed-tuned-test.db")
	database, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	if _, err := Run(database); err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if _, err := database.Exec(`UPDATE estimator_config SET setup_minutes = 7.5 WHERE id = 1`); err != nil {
		t.Fatalf("tune config: %v", err)
	}
	if _, err := Run(database); err != nil {
		t.Fatalf("re-run seed: %v", err)
	}

	var setup float64
	if err := database.QueryRow(`SELECT setup_minutes FROM estimator_config WHERE id = 1`).Scan(&setup); err != nil {
		t.Fatalf("query setup minutes: %v", err)
	}
	if setup != 7.5 {
		t.Fatalf("expected seed to preserve tuned setup_minutes 7.5, got %v", setup)
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, expected int) {
	t.Helper()

	var count int
	if err := database.QueryRow(query).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
