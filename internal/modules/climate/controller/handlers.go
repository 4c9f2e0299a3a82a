package controller

import (
	"bytes"
	"log/slog"
	"net/http"

	"hawaii-climate/internal/dates"
	"hawaii-climate/internal/modules/climate/types"
	"hawaii-climate/internal/modules/climate/views"
	"hawaii-climate/internal/utils"
)

func (c *climateControllerImpl) handleHome(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := views.RenderHome(&buf, &views.HomeData{Routes: homeRoutes}); err != nil {
		slog.Error("home template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteHTML(w, http.StatusOK, buf.Bytes())
}

func (c *climateControllerImpl) handlePrecipitation(w http.ResponseWriter, r *http.Request) {
	readings, err := c.repository.GetPrecipitation(r.Context())
	if err != nil {
		slog.Error("precipitation: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load precipitation")
		return
	}
	utils.WriteJSON(w, http.StatusOK, precipitationByDate(readings))
}

func (c *climateControllerImpl) handleStations(w http.ResponseWriter, r *http.Request) {
	stations, err := c.repository.GetStations(r.Context())
	if err != nil {
		slog.Error("stations: query failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load stations")
		return
	}
	if stations == nil {
		stations = []string{}
	}
	utils.WriteJSON(w, http.StatusOK, stations)
}

func (c *climateControllerImpl) handleTobs(w http.ResponseWriter, r *http.Request) {
	readings, err := c.repository.GetStationPrecipitation(r.Context(), c.opts.TobsStation, c.opts.TobsWindowStart, c.opts.TobsWindowEnd)
	if err != nil {
		slog.Error("tobs: query failed", "station", c.opts.TobsStation, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load station precipitation")
		return
	}
	utils.WriteJSON(w, http.StatusOK, flattenReadings(readings))
}

func (c *climateControllerImpl) handleTemperatureFrom(w http.ResponseWriter, r *http.Request) {
	start, err := dates.Parse(r.PathValue("start"))
	if err != nil {
		writeDateError(w, err, singleDateMessage)
		return
	}

	summaries, err := c.repository.GetTemperatureSummary(r.Context(), start)
	if err != nil {
		slog.Error("temperature: query failed", "start", start, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature summary")
		return
	}
	utils.WriteJSON(w, http.StatusOK, nonNilSummaries(summaries))
}

func (c *climateControllerImpl) handleTemperatureRange(w http.ResponseWriter, r *http.Request) {
	start, err := dates.Parse(r.PathValue("start"))
	if err != nil {
		writeDateError(w, err, rangeDateMessage)
		return
	}
	end, err := dates.Parse(r.PathValue("end"))
	if err != nil {
		writeDateError(w, err, rangeDateMessage)
		return
	}

	summaries, err := c.repository.GetTemperatureSummaryRange(r.Context(), start, end)
	if err != nil {
		slog.Error("temperature range: query failed", "start", start, "end", end, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to load temperature summary")
		return
	}
	utils.WriteJSON(w, http.StatusOK, nonNilSummaries(summaries))
}

func (c *climateControllerImpl) handleMalformedDate(w http.ResponseWriter, r *http.Request) {
	slog.Debug("malformed date path", "rest", r.PathValue("rest"))
	utils.WriteError(w, http.StatusNotFound, rangeDateMessage)
}

// precipitationByDate turns each reading into a single-key object; rows
// sharing a date stay separate.
func precipitationByDate(readings []types.PrecipitationReading) []map[string]*float64 {
	out := make([]map[string]*float64, 0, len(readings))
	for _, rd := range readings {
		out = append(out, map[string]*float64{rd.Date: rd.Prcp})
	}
	return out
}

// flattenReadings lays rows out as date, prcp, date, prcp, ...
func flattenReadings(readings []types.PrecipitationReading) []any {
	out := make([]any, 0, 2*len(readings))
	for _, rd := range readings {
		out = append(out, rd.Date, rd.Prcp)
	}
	return out
}

func nonNilSummaries(s []types.TemperatureSummary) []types.TemperatureSummary {
	if s == nil {
		return []types.TemperatureSummary{}
	}
	return s
}
