package climate

import (
	"database/sql"
	"net/http"

	"hawaii-climate/internal/config"
	"hawaii-climate/internal/modules/climate/controller"
	"hawaii-climate/internal/modules/climate/repository"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB, cfg config.Config) {
	climateRepository := repository.NewRepository(db)
	climateController := controller.NewClimateController(climateRepository, controller.Options{
		TobsStation:     cfg.TobsStation,
		TobsWindowStart: cfg.TobsWindowStart,
		TobsWindowEnd:   cfg.TobsWindowEnd,
	})
	climateController.RegisterRoutes(mux)
}
