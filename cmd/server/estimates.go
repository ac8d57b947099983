package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Simplici0/cycletime/internal/calibration"
	"github.com/Simplici0/cycletime/internal/constraint"
	"github.com/Simplici0/cycletime/internal/estimate"
	"github.com/Simplici0/cycletime/internal/feature"
	"github.com/Simplici0/cycletime/internal/geometry"
	"github.com/Simplici0/cycletime/internal/material"
	"github.com/Simplici0/cycletime/internal/provider"
	"github.com/Simplici0/cycletime/internal/similar"
)

type volumetricRequest struct {
	Subject      string              `json:"subject"`
	SubjectType  string              `json:"subject_type"`
	MaterialCode string              `json:"material_code"`
	StockModel   geometry.StockModel `json:"stock_model"`
	Geometry     geometry.Descriptor `json:"geometry"`
	Persist      *bool               `json:"persist"`
}

type featureEstimateRequest struct {
	Subject          string          `json:"subject"`
	SubjectType      string          `json:"subject_type"`
	Mode             string          `json:"mode"`
	ModelIdentity    string          `json:"model_identity"`
	Features         []feature.Item  `json:"features"`
	ProviderResponse json.RawMessage `json:"provider_response"`
	Persist          *bool           `json:"persist"`
}

func (s *server) handleEstimateVolumetric(w http.ResponseWriter, r *http.Request) {
	var req volumetricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "cuerpo JSON inválido")
		return
	}

	if strings.TrimSpace(req.Subject) == "" {
		respondError(w, http.StatusBadRequest, "subject es requerido")
		return
	}

	mat, err := s.materials.Lookup(req.MaterialCode)
	if err != nil {
		var unknown *material.UnknownCodeError
		if errors.As(err, &unknown) {
			respondError(w, http.StatusBadRequest, "código de material desconocido: "+unknown.Code)
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ec, err := s.getEstimatorConfig()
	if err != nil {
		s.log.Error("load estimator config", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load estimator config")
		return
	}

	model := req.StockModel
	if model == "" {
		model = geometry.ModelBBox
	}

	res, err := estimate.Volumetric(req.Geometry, model, mat,
		constraint.Thresholds{DeepPocketRatio: ec.DeepPocketRatio, ThinWallMM: ec.ThinWallMM},
		estimate.Params{FinishingFraction: ec.FinishingFraction, SetupMinutes: ec.SetupMinutes},
	)
	if err != nil {
		var gerr *geometry.Error
		if errors.As(err, &gerr) {
			respondError(w, http.StatusUnprocessableEntity, "geometría inválida: "+gerr.Field+" "+gerr.Reason)
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := map[string]any{
		"method":   calibration.MethodVolumetric,
		"estimate": res,
	}

	if req.Persist == nil || *req.Persist {
		total := res.Breakdown.TotalMin
		breakdownJSON, _ := json.Marshal(res.Breakdown)
		rec, err := s.records.Create(calibration.Record{
			Subject:            req.Subject,
			SubjectType:        req.SubjectType,
			Method:             calibration.MethodVolumetric,
			MachineEstimateMin: &total,
			Confidence:         string(res.Confidence),
			BreakdownJSON:      string(breakdownJSON),
			Features:           fingerprint(req.Geometry, mat, res.StockVolumeMM3, res.RemovalVolumeMM3),
			Status:             calibration.StatusEstimated,
		})
		if err != nil {
			s.log.Error("persist volumetric estimate", "error", err, "subject", req.Subject)
			respondError(w, http.StatusInternalServerError, "failed to persist estimate")
			return
		}
		s.log.Info("volumetric estimate recorded",
			"record_id", rec.ID, "subject", rec.Subject,
			"total_min", total, "confidence", res.Confidence)
		response["record"] = rec
	}

	respondJSON(w, http.StatusOK, response)
}

func (s *server) handleEstimateFeatures(w http.ResponseWriter, r *http.Request) {
	var req featureEstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "cuerpo JSON inválido")
		return
	}

	if strings.TrimSpace(req.Subject) == "" {
		respondError(w, http.StatusBadRequest, "subject es requerido")
		return
	}

	mode := feature.ModeMid
	if req.Mode != "" {
		var err error
		if mode, err = feature.ParseMode(req.Mode); err != nil {
			respondError(w, http.StatusBadRequest, "mode debe ser low, mid o high")
			return
		}
	}

	items := req.Features
	if len(req.ProviderResponse) > 0 {
		payload, err := provider.Parse(req.ProviderResponse)
		if err != nil {
			if errors.Is(err, provider.ErrInvalidResponse) {
				respondError(w, http.StatusUnprocessableEntity, "respuesta del proveedor inválida")
				return
			}
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		if payload.Holistic != nil {
			s.finishHolisticEstimate(w, req, payload.Holistic)
			return
		}
		// Feature-list shape. A client-supplied list is an edit of the
		// extraction and wins over the raw provider items.
		if len(items) == 0 {
			items = payload.Features.Features
		}
	}

	if len(items) == 0 {
		respondError(w, http.StatusBadRequest, "features es requerido")
		return
	}

	res, err := feature.ComputeTimes(s.features, items, mode)
	if err != nil {
		var unknown *feature.UnknownTypeError
		if errors.As(err, &unknown) {
			respondError(w, http.StatusUnprocessableEntity, "tipo de operación desconocido: "+unknown.Key)
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := map[string]any{
		"method": calibration.MethodFeatureBased,
		"mode":   mode,
		"result": res,
	}

	if req.Persist == nil || *req.Persist {
		total := res.TotalMinutes
		featuresJSON, _ := json.Marshal(res.Items)
		rec, err := s.records.Create(calibration.Record{
			Subject:            req.Subject,
			SubjectType:        req.SubjectType,
			Method:             calibration.MethodFeatureBased,
			MachineEstimateMin: &total,
			ModelIdentity:      req.ModelIdentity,
			FeaturesJSON:       string(featuresJSON),
			Status:             calibration.StatusEstimated,
		})
		if err != nil {
			s.log.Error("persist feature estimate", "error", err, "subject", req.Subject)
			respondError(w, http.StatusInternalServerError, "failed to persist estimate")
			return
		}
		s.log.Info("feature estimate recorded",
			"record_id", rec.ID, "subject", rec.Subject,
			"total_min", total, "items", len(res.Items))
		response["record"] = rec
	}

	respondJSON(w, http.StatusOK, response)
}

func (s *server) finishHolisticEstimate(w http.ResponseWriter, req featureEstimateRequest, h *provider.Holistic) {
	response := map[string]any{
		"method":   calibration.MethodAIHolistic,
		"estimate": h,
	}

	if req.Persist == nil || *req.Persist {
		total := h.EstimatedTimeMin
		breakdownJSON, _ := json.Marshal(h.OperationBreakdown)
		rec, err := s.records.Create(calibration.Record{
			Subject:            req.Subject,
			SubjectType:        req.SubjectType,
			Method:             calibration.MethodAIHolistic,
			MachineEstimateMin: &total,
			ModelIdentity:      req.ModelIdentity,
			Confidence:         h.Confidence,
			Complexity:         h.Complexity,
			BreakdownJSON:      string(breakdownJSON),
			Status:             calibration.StatusEstimated,
		})
		if err != nil {
			s.log.Error("persist holistic estimate", "error", err, "subject", req.Subject)
			respondError(w, http.StatusInternalServerError, "failed to persist estimate")
			return
		}
		s.log.Info("holistic estimate recorded",
			"record_id", rec.ID, "subject", rec.Subject, "total_min", total)
		response["record"] = rec
	}

	respondJSON(w, http.StatusOK, response)
}

// fingerprint builds the matching vector for a part from its geometry and
// material. Volumes land in cm so the scales stay comparable across parts.
func fingerprint(d geometry.Descriptor, m material.Entry, stockMM3, removalMM3 float64) similar.Features {
	xy, xz := d.AspectRatios()

	removalRatio := 0.0
	if stockMM3 > 0 {
		removalRatio = removalMM3 / stockMM3
	}

	rotational := 0.0
	if d.RotationalSymmetry {
		rotational = 1.0
	}

	return similar.Features{
		VolumeCM3:      d.PartVolumeMM3 / 1000.0,
		RemovalRatio:   removalRatio,
		SurfaceAreaCM2: d.SurfaceAreaMM2 / 100.0,
		AspectXY:       xy,
		AspectXZ:       xz,
		Machinability:  m.MachinabilityIndex(),
		Rotational:     rotational,
	}
}
