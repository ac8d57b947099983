package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/cycletime/internal/calibration"
	"github.com/Simplici0/cycletime/internal/config"
	"github.com/Simplici0/cycletime/internal/db"
	"github.com/Simplici0/cycletime/internal/feature"
	"github.com/Simplici0/cycletime/internal/logger"
	"github.com/Simplici0/cycletime/internal/material"
	"github.com/Simplici0/cycletime/internal/migrations"
	"github.com/Simplici0/cycletime/internal/seed"
)

type server struct {
	auth      *authService
	db        *sql.DB
	log       *logger.Logger
	records   *calibration.Store
	materials material.Catalog
	features  feature.Catalog
}

// estimatorConfig mirrors the estimator_config singleton row. These are the
// shop-tunable knobs; changing them affects new estimates only, never stored
// records.
type estimatorConfig struct {
	SetupMinutes      float64 `json:"setup_minutes"`
	FinishingFraction float64 `json:"finishing_fraction"`
	DeepPocketRatio   float64 `json:"deep_pocket_ratio"`
	ThinWallMM        float64 `json:"thin_wall_mm"`
	SimilarTopK       int     `json:"similar_top_k"`
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to build logger: %v", err))
	}
	defer log.Sync()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("failed to open database", "error", err)
	}
	defer database.Close()

	if cfg.MigrationsOn {
		if err := migrations.Up(database, "migrations"); err != nil {
			log.Fatal("failed to run database migrations", "error", err)
		}
	}

	stats, err := seed.Run(database)
	if err != nil {
		log.Fatal("failed to run startup seed", "error", err)
	}
	log.Info("startup seed completed", "inserts", stats.Inserts, "updates", stats.Updates)

	srv := &server{
		auth:      newAuthService(cfg.TokenSecret, cfg.ShopToken),
		db:        database,
		log:       log,
		records:   calibration.NewStore(database),
		materials: material.DefaultCatalog(),
		features:  feature.DefaultCatalog(),
	}

	addr := ":" + cfg.Port
	log.Info("listening", "addr", addr)
	if err := http.ListenAndServe(addr, srv.routes()); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/auth/token", s.handleIssueToken)

	r.Group(func(r chi.Router) {
		r.Use(s.auth.middleware)
		r.Get("/materials", s.handleMaterialsList)
		r.Get("/features/catalog", s.handleFeatureCatalog)
		r.Post("/estimates/volumetric", s.handleEstimateVolumetric)
		r.Post("/estimates/features", s.handleEstimateFeatures)
		r.Get("/records", s.handleRecordsList)
		r.Get("/records/{id}", s.handleRecordDetail)
		r.Post("/records/{id}/corrections", s.handleRecordCorrection)
		r.Post("/records/{id}/verify", s.handleRecordVerify)
		r.Get("/records/{id}/similar", s.handleRecordSimilar)
		r.Get("/export/training.csv", s.handleExportTraining)
		r.Get("/admin/estimator-config", s.handleEstimatorConfigGet)
		r.Put("/admin/estimator-config", s.handleEstimatorConfigUpdate)
	})

	return r
}

func (s *server) handleMaterialsList(w http.ResponseWriter, r *http.Request) {
	type materialView struct {
		Code          string  `json:"code"`
		Category      string  `json:"category"`
		Name          string  `json:"name"`
		HardnessHB    float64 `json:"hardness_hb"`
		DensityGCm3   float64 `json:"density_g_cm3"`
		MRRAggressive float64 `json:"mrr_aggressive_cm3_min"`
		MRRFinishing  float64 `json:"mrr_finishing_cm2_min"`
		Machinability float64 `json:"machinability_index"`
	}

	entries := s.materials.All()
	views := make([]materialView, 0, len(entries))
	for _, m := range entries {
		views = append(views, materialView{
			Code:          m.Code,
			Category:      m.Category,
			Name:          m.Name,
			HardnessHB:    m.HardnessHB,
			DensityGCm3:   m.DensityGCm3,
			MRRAggressive: m.MRRAggressive,
			MRRFinishing:  m.MRRFinishing,
			Machinability: m.MachinabilityIndex(),
		})
	}

	respondJSON(w, http.StatusOK, map[string]any{"materials": views})
}

func (s *server) handleFeatureCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"groups": s.features.Groups()})
}

func (s *server) handleEstimatorConfigGet(w http.ResponseWriter, r *http.Request) {
	ec, err := s.getEstimatorConfig()
	if err != nil {
		s.log.Error("load estimator config", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load estimator config")
		return
	}
	respondJSON(w, http.StatusOK, ec)
}

func (s *server) handleEstimatorConfigUpdate(w http.ResponseWriter, r *http.Request) {
	var ec estimatorConfig
	if err := json.NewDecoder(r.Body).Decode(&ec); err != nil {
		respondError(w, http.StatusBadRequest, "cuerpo JSON inválido")
		return
	}

	if err := validateEstimatorConfig(ec); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.updateEstimatorConfig(ec); err != nil {
		s.log.Error("save estimator config", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save estimator config")
		return
	}

	respondJSON(w, http.StatusOK, ec)
}

func validateEstimatorConfig(ec estimatorConfig) error {
	if ec.SetupMinutes < 0 {
		return fmt.Errorf("setup_minutes debe ser mayor o igual a 0")
	}
	if ec.FinishingFraction <= 0 || ec.FinishingFraction > 1 {
		return fmt.Errorf("finishing_fraction debe estar entre 0 y 1")
	}
	if ec.DeepPocketRatio <= 0 {
		return fmt.Errorf("deep_pocket_ratio debe ser mayor a 0")
	}
	if ec.ThinWallMM <= 0 {
		return fmt.Errorf("thin_wall_mm debe ser mayor a 0")
	}
	if ec.SimilarTopK <= 0 {
		return fmt.Errorf("similar_top_k debe ser mayor a 0")
	}
	return nil
}

func (s *server) getEstimatorConfig() (estimatorConfig, error) {
	var ec estimatorConfig
	err := s.db.QueryRow(`
		SELECT setup_minutes, finishing_fraction, deep_pocket_ratio, thin_wall_mm, similar_top_k
		FROM estimator_config
		WHERE id = 1
	`).Scan(
		&ec.SetupMinutes,
		&ec.FinishingFraction,
		&ec.DeepPocketRatio,
		&ec.ThinWallMM,
		&ec.SimilarTopK,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return estimatorConfig{}, fmt.Errorf("estimator_config singleton not found")
		}
		return estimatorConfig{}, fmt.Errorf("query estimator_config: %w", err)
	}
	return ec, nil
}

func (s *server) updateEstimatorConfig(ec estimatorConfig) error {
	_, err := s.db.Exec(`
		UPDATE estimator_config
		SET
			setup_minutes = ?,
			finishing_fraction = ?,
			deep_pocket_ratio = ?,
			thin_wall_mm = ?,
			similar_top_k = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = 1
	`,
		ec.SetupMinutes,
		ec.FinishingFraction,
		ec.DeepPocketRatio,
		ec.ThinWallMM,
		ec.SimilarTopK,
	)
	if err != nil {
		return fmt.Errorf("update estimator_config: %w", err)
	}

	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
