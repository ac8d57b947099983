package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/cycletime/internal/calibration"
	"github.com/Simplici0/cycletime/internal/export"
	"github.com/Simplici0/cycletime/internal/feature"
	"github.com/Simplici0/cycletime/internal/similar"
)

func (s *server) handleRecordsList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	subjectType := strings.TrimSpace(r.URL.Query().Get("subject_type"))

	records, err := s.records.List(query, subjectType)
	if err != nil {
		s.log.Error("list calibration records", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load records")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (s *server) handleRecordDetail(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadRecord(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"record":     rec,
		"deviations": rec.Deviations(),
	})
}

type correctionRequest struct {
	Version          int64    `json:"version"`
	HumanEstimateMin *float64 `json:"human_estimate_min"`
	ActualMin        *float64 `json:"actual_min"`
	Complexity       *string  `json:"complexity"`
	SubjectType      *string  `json:"subject_type"`
	Notes            *string  `json:"notes"`
	FeaturesJSON     *string  `json:"features_json"`
}

func (s *server) handleRecordCorrection(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req correctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "cuerpo JSON inválido")
		return
	}
	if req.Version <= 0 {
		respondError(w, http.StatusBadRequest, "version debe ser mayor a 0")
		return
	}
	if req.HumanEstimateMin != nil && *req.HumanEstimateMin <= 0 {
		respondError(w, http.StatusBadRequest, "human_estimate_min debe ser mayor a 0")
		return
	}
	if req.ActualMin != nil && *req.ActualMin <= 0 {
		respondError(w, http.StatusBadRequest, "actual_min debe ser mayor a 0")
		return
	}

	if req.FeaturesJSON != nil {
		var edited []feature.Item
		if err := json.Unmarshal([]byte(*req.FeaturesJSON), &edited); err != nil {
			respondError(w, http.StatusBadRequest, "features_json inválido")
			return
		}
		current, err := s.records.Get(id)
		if errors.Is(err, calibration.ErrNotFound) {
			respondError(w, http.StatusNotFound, "registro no encontrado")
			return
		}
		if err != nil {
			s.log.Error("get calibration record", "error", err, "record_id", id)
			respondError(w, http.StatusInternalServerError, "failed to load record")
			return
		}
		merged := mergeEditedFeatures(edited, current.FeaturesJSON)
		req.FeaturesJSON = &merged
	}

	rec, changed, err := s.records.ApplyCorrection(id, req.Version, calibration.Correction{
		HumanEstimateMin: req.HumanEstimateMin,
		ActualMin:        req.ActualMin,
		Complexity:       req.Complexity,
		SubjectType:      req.SubjectType,
		Notes:            req.Notes,
		FeaturesJSON:     req.FeaturesJSON,
	})
	switch {
	case errors.Is(err, calibration.ErrNotFound):
		respondError(w, http.StatusNotFound, "registro no encontrado")
		return
	case errors.Is(err, calibration.ErrVersionConflict):
		respondError(w, http.StatusConflict, "el registro fue modificado por otra sesión; recarga e intenta de nuevo")
		return
	case err != nil:
		s.log.Error("apply correction", "error", err, "record_id", id)
		respondError(w, http.StatusInternalServerError, "failed to apply correction")
		return
	}

	if changed {
		s.log.Info("correction applied",
			"record_id", rec.ID, "version", rec.Version, "status", rec.Status)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"record":     rec,
		"changed":    changed,
		"deviations": rec.Deviations(),
	})
}

// mergeEditedFeatures carries the previously computed times onto an edited
// feature list so a correction does not silently wipe them. Items the edit
// added have no match and keep zero times until the estimate is recomputed.
func mergeEditedFeatures(edited []feature.Item, computedJSON string) string {
	var computed []feature.Item
	if computedJSON != "" {
		_ = json.Unmarshal([]byte(computedJSON), &computed)
	}
	out, _ := json.Marshal(feature.ApplyComputed(edited, computed))
	return string(out)
}

func (s *server) handleRecordVerify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Version int64 `json:"version"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "cuerpo JSON inválido")
		return
	}
	if req.Version <= 0 {
		respondError(w, http.StatusBadRequest, "version debe ser mayor a 0")
		return
	}

	rec, err := s.records.MarkVerified(id, req.Version)
	switch {
	case errors.Is(err, calibration.ErrNotFound):
		respondError(w, http.StatusNotFound, "registro no encontrado")
		return
	case errors.Is(err, calibration.ErrVersionConflict):
		respondError(w, http.StatusConflict, "el registro fue modificado por otra sesión; recarga e intenta de nuevo")
		return
	case err != nil:
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.log.Info("record verified", "record_id", rec.ID, "version", rec.Version)
	respondJSON(w, http.StatusOK, map[string]any{"record": rec})
}

func (s *server) handleRecordSimilar(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadRecord(w, r)
	if !ok {
		return
	}

	ec, err := s.getEstimatorConfig()
	if err != nil {
		s.log.Error("load estimator config", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load estimator config")
		return
	}

	params := similar.DefaultParams()
	params.TopK = ec.SimilarTopK
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		topK, err := strconv.Atoi(raw)
		if err != nil || topK <= 0 {
			respondError(w, http.StatusBadRequest, "top_k debe ser un entero mayor a 0")
			return
		}
		params.TopK = topK
	}

	corpus, err := s.records.CorpusEntries(rec.ID)
	if err != nil {
		s.log.Error("load similarity corpus", "error", err, "record_id", rec.ID)
		respondError(w, http.StatusInternalServerError, "failed to load similarity corpus")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"record_id": rec.ID,
		"matches":   similar.Rank(rec.Features, corpus, params),
	})
}

func (s *server) handleExportTraining(w http.ResponseWriter, r *http.Request) {
	subjectType := strings.TrimSpace(r.URL.Query().Get("subject_type"))
	records, err := s.records.List("", subjectType)
	if err != nil {
		s.log.Error("load records for export", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load records")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="training.csv"`)
	if err := export.WriteCSV(w, records); err != nil {
		s.log.Error("write training export", "error", err)
	}
}

func (s *server) loadRecord(w http.ResponseWriter, r *http.Request) (calibration.Record, bool) {
	id := chi.URLParam(r, "id")
	rec, err := s.records.Get(id)
	if errors.Is(err, calibration.ErrNotFound) {
		respondError(w, http.StatusNotFound, "registro no encontrado")
		return calibration.Record{}, false
	}
	if err != nil {
		s.log.Error("get calibration record", "error", err, "record_id", id)
		respondError(w, http.StatusInternalServerError, "failed to load record")
		return calibration.Record{}, false
	}
	return rec, true
}
