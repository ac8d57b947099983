// Package export flattens calibration records into the tabular training
// dataset consumed by the downstream correction-model pipeline.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Simplici0/cycletime/internal/calibration"
)

// Columns is the fixed column ordering of the export. Downstream training
// pipelines append exports to each other, so this order must stay stable;
// new columns go at the end.
var Columns = []string{
	"record_id",
	"subject",
	"subject_type",
	"method",
	"volume_cm3",
	"removal_ratio",
	"surface_area_cm2",
	"aspect_xy",
	"aspect_xz",
	"machinability",
	"rotational",
	"confidence",
	"complexity",
	"machine_estimate_min",
	"human_estimate_min",
	"actual_min",
	"status",
	"created_at",
}

// Row flattens one record. Missing ground truth stays an empty cell; the
// status column is what tells verified rows apart, the exporter never
// imputes a value.
func Row(rec calibration.Record) []string {
	return []string{
		rec.ID,
		rec.Subject,
		rec.SubjectType,
		string(rec.Method),
		formatFloat(rec.Features.VolumeCM3),
		formatFloat(rec.Features.RemovalRatio),
		formatFloat(rec.Features.SurfaceAreaCM2),
		formatFloat(rec.Features.AspectXY),
		formatFloat(rec.Features.AspectXZ),
		formatFloat(rec.Features.Machinability),
		formatFloat(rec.Features.Rotational),
		rec.Confidence,
		rec.Complexity,
		formatNullable(rec.MachineEstimateMin),
		formatNullable(rec.HumanEstimateMin),
		formatNullable(rec.ActualMin),
		string(rec.Status),
		rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Rows flattens every record, one row each, in the given order. Records
// without an actual time are included: they are useful for inference-only
// datasets.
func Rows(records []calibration.Record) [][]string {
	out := make([][]string, 0, len(records))
	for _, rec := range records {
		out = append(out, Row(rec))
	}
	return out
}

// WriteCSV writes the header plus one row per record.
func WriteCSV(w io.Writer, records []calibration.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(Row(rec)); err != nil {
			return fmt.Errorf("write export row %s: %w", rec.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatNullable(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
