package calibration

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/cycletime/internal/similar"
)

var (
	// ErrNotFound reports a missing record.
	ErrNotFound = errors.New("calibration record not found")
	// ErrVersionConflict reports a mutation submitted against a stale
	// version. The stored record is untouched; the caller re-reads and
	// retries. Updates are never merged field-by-field across versions.
	ErrVersionConflict = errors.New("calibration record version conflict")
)

// Store persists calibration records in SQLite. Reads never block; writes
// use optimistic concurrency on the version column, no lock is held across
// an IO boundary.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const recordColumns = `
	id, subject, subject_type, method,
	machine_estimate_min, model_identity, confidence,
	breakdown_json, features_json,
	human_estimate_min, actual_min, complexity, notes,
	volume_cm3, removal_ratio, surface_area_cm2, aspect_xy, aspect_xz, machinability, rotational,
	version, status, created_at, updated_at`

// Create inserts a new record at version 1. A missing ID gets a fresh UUID;
// a missing status defaults to estimated, since records are created the
// moment a machine estimate exists.
func (s *Store) Create(rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Status == "" {
		rec.Status = StatusEstimated
	}
	if rec.Status.rank() < 0 {
		return Record{}, fmt.Errorf("invalid status %q", rec.Status)
	}
	rec.Version = 1
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO calibration_records (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID, rec.Subject, rec.SubjectType, string(rec.Method),
		nullable(rec.MachineEstimateMin), rec.ModelIdentity, rec.Confidence,
		rec.BreakdownJSON, rec.FeaturesJSON,
		nullable(rec.HumanEstimateMin), nullable(rec.ActualMin), rec.Complexity, rec.Notes,
		rec.Features.VolumeCM3, rec.Features.RemovalRatio, rec.Features.SurfaceAreaCM2,
		rec.Features.AspectXY, rec.Features.AspectXZ, rec.Features.Machinability, rec.Features.Rotational,
		rec.Version, string(rec.Status),
		rec.CreatedAt.Format(time.RFC3339Nano), rec.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Record{}, fmt.Errorf("insert calibration record: %w", err)
	}
	return rec, nil
}

// Get reads one record by ID.
func (s *Store) Get(id string) (Record, error) {
	row := s.db.QueryRow(`SELECT `+recordColumns+` FROM calibration_records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get calibration record %s: %w", id, err)
	}
	return rec, nil
}

// List returns records newest first, optionally filtered by a free-text
// query over subject and notes and by subject type.
func (s *Store) List(query, subjectType string) ([]Record, error) {
	search := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT `+recordColumns+`
		FROM calibration_records
		WHERE (? = '' OR subject LIKE ? OR notes LIKE ?)
		  AND (? = '' OR subject_type = ?)
		ORDER BY datetime(created_at) DESC, id DESC
	`, query, search, search, subjectType, subjectType)
	if err != nil {
		return nil, fmt.Errorf("query calibration records: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan calibration record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calibration records: %w", err)
	}
	return records, nil
}

// Correction carries a human calibration update. Nil fields are left as-is.
type Correction struct {
	HumanEstimateMin *float64
	ActualMin        *float64
	Complexity       *string
	SubjectType      *string
	Notes            *string
	FeaturesJSON     *string
}

// ApplyCorrection applies a human update against the version it was read at.
// A stale version yields ErrVersionConflict and leaves the row untouched. If
// nothing actually changes, the call is a no-op: not an error, but the
// version is not bumped either. The second return value reports whether a
// write happened.
func (s *Store) ApplyCorrection(id string, fromVersion int64, corr Correction) (Record, bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Record{}, false, fmt.Errorf("begin correction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+recordColumns+` FROM calibration_records WHERE id = ?`, id)
	current, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, ErrNotFound
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("read calibration record %s: %w", id, err)
	}
	if current.Version != fromVersion {
		return Record{}, false, fmt.Errorf("%w: have %d, submitted against %d", ErrVersionConflict, current.Version, fromVersion)
	}

	next := current
	changed := false
	if corr.HumanEstimateMin != nil && !sameFloat(current.HumanEstimateMin, corr.HumanEstimateMin) {
		next.HumanEstimateMin = corr.HumanEstimateMin
		changed = true
	}
	if corr.ActualMin != nil && !sameFloat(current.ActualMin, corr.ActualMin) {
		next.ActualMin = corr.ActualMin
		changed = true
	}
	if corr.Complexity != nil && *corr.Complexity != current.Complexity {
		next.Complexity = *corr.Complexity
		changed = true
	}
	if corr.SubjectType != nil && *corr.SubjectType != current.SubjectType {
		next.SubjectType = *corr.SubjectType
		changed = true
	}
	if corr.Notes != nil && *corr.Notes != current.Notes {
		next.Notes = *corr.Notes
		changed = true
	}
	if corr.FeaturesJSON != nil && *corr.FeaturesJSON != current.FeaturesJSON {
		next.FeaturesJSON = *corr.FeaturesJSON
		changed = true
	}

	if !changed {
		return current, false, nil
	}

	next.Version = current.Version + 1
	if current.Status.CanAdvanceTo(StatusCalibrated) {
		next.Status = StatusCalibrated
	}
	next.UpdatedAt = time.Now().UTC()

	result, err := tx.Exec(`
		UPDATE calibration_records
		SET
			human_estimate_min = ?,
			actual_min = ?,
			complexity = ?,
			subject_type = ?,
			notes = ?,
			features_json = ?,
			version = ?,
			status = ?,
			updated_at = ?
		WHERE id = ? AND version = ?
	`,
		nullable(next.HumanEstimateMin), nullable(next.ActualMin),
		next.Complexity, next.SubjectType, next.Notes, next.FeaturesJSON,
		next.Version, string(next.Status), next.UpdatedAt.Format(time.RFC3339Nano),
		id, fromVersion,
	)
	if err != nil {
		return Record{}, false, fmt.Errorf("update calibration record %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Record{}, false, fmt.Errorf("update calibration record %s: %w", id, err)
	}
	if affected == 0 {
		// Someone else won the version race between our read and write.
		return Record{}, false, fmt.Errorf("%w: record moved past version %d", ErrVersionConflict, fromVersion)
	}

	if err := tx.Commit(); err != nil {
		return Record{}, false, fmt.Errorf("commit correction: %w", err)
	}
	return next, true, nil
}

// MarkVerified advances a calibrated record to verified once the actual
// production time has been confirmed by an authoritative source. The same
// optimistic concurrency contract applies.
func (s *Store) MarkVerified(id string, fromVersion int64) (Record, error) {
	current, err := s.Get(id)
	if err != nil {
		return Record{}, err
	}
	if current.Version != fromVersion {
		return Record{}, fmt.Errorf("%w: have %d, submitted against %d", ErrVersionConflict, current.Version, fromVersion)
	}
	if current.Status != StatusCalibrated {
		return Record{}, fmt.Errorf("cannot verify record in status %q", current.Status)
	}
	if current.ActualMin == nil {
		return Record{}, fmt.Errorf("cannot verify record without an actual time")
	}

	next := current
	next.Version = current.Version + 1
	next.Status = StatusVerified
	next.UpdatedAt = time.Now().UTC()

	result, err := s.db.Exec(`
		UPDATE calibration_records
		SET version = ?, status = ?, updated_at = ?
		WHERE id = ? AND version = ?
	`, next.Version, string(next.Status), next.UpdatedAt.Format(time.RFC3339Nano), id, fromVersion)
	if err != nil {
		return Record{}, fmt.Errorf("verify calibration record %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Record{}, fmt.Errorf("verify calibration record %s: %w", id, err)
	}
	if affected == 0 {
		return Record{}, fmt.Errorf("%w: record moved past version %d", ErrVersionConflict, fromVersion)
	}
	return next, nil
}

// CorpusEntries projects every record carrying a recorded time into the
// similarity-matcher corpus, excluding the query part itself.
func (s *Store) CorpusEntries(excludeID string) ([]similar.Entry, error) {
	records, err := s.List("", "")
	if err != nil {
		return nil, err
	}

	entries := make([]similar.Entry, 0, len(records))
	for _, rec := range records {
		if rec.ID == excludeID {
			continue
		}
		if entry, ok := rec.SimilarEntry(); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var machine, human, actual sql.NullFloat64
	var method, status, createdStr, updatedStr string

	err := row.Scan(
		&rec.ID, &rec.Subject, &rec.SubjectType, &method,
		&machine, &rec.ModelIdentity, &rec.Confidence,
		&rec.BreakdownJSON, &rec.FeaturesJSON,
		&human, &actual, &rec.Complexity, &rec.Notes,
		&rec.Features.VolumeCM3, &rec.Features.RemovalRatio, &rec.Features.SurfaceAreaCM2,
		&rec.Features.AspectXY, &rec.Features.AspectXZ, &rec.Features.Machinability, &rec.Features.Rotational,
		&rec.Version, &status, &createdStr, &updatedStr,
	)
	if err != nil {
		return Record{}, err
	}

	rec.Method = Method(method)
	rec.Status = Status(status)
	if machine.Valid {
		rec.MachineEstimateMin = &machine.Float64
	}
	if human.Valid {
		rec.HumanEstimateMin = &human.Float64
	}
	if actual.Valid {
		rec.ActualMin = &actual.Float64
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	return rec, nil
}
