package seed

import (
	"database/sql"
	"fmt"
)

// Defaults of the estimator tunables. Empirical starting points the shop
// adjusts from the admin surface, not validated constants.
const (
	defaultSetupMinutes      = 5.0
	defaultFinishingFraction = 0.10
	defaultDeepPocketRatio   = 3.0
	defaultThinWallMM        = 3.0
	defaultSimilarTopK       = 5
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureEstimatorConfig(tx, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureEstimatorConfig(tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM estimator_config WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check estimator config existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO estimator_config (
			id,
			setup_minutes,
			finishing_fraction,
			deep_pocket_ratio,
			thin_wall_mm,
			similar_top_k
		)
		VALUES (1, ?, ?, ?, ?, ?)
	`,
		defaultSetupMinutes,
		defaultFinishingFraction,
		defaultDeepPocketRatio,
		defaultThinWallMM,
		defaultSimilarTopK,
	); err != nil {
		return fmt.Errorf("insert estimator config singleton: %w", err)
	}
	stats.Inserts++
	return nil
}
