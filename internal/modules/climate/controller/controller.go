package controller

import (
	"net/http"

	"hawaii-climate/internal/dates"
	"hawaii-climate/internal/modules/climate/repository"
	"hawaii-climate/internal/modules/climate/views"
)

const apiPrefix = "/api/v1.0"

// Options carries the fixed /tobs query parameters.
type Options struct {
	TobsStation     string
	TobsWindowStart dates.Date
	TobsWindowEnd   dates.Date
}

type ClimateController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type climateControllerImpl struct {
	repository repository.ClimateRepository
	opts       Options
}

func NewClimateController(repository repository.ClimateRepository, opts Options) ClimateController {
	return &climateControllerImpl{repository: repository, opts: opts}
}

func (c *climateControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleHome)
	mux.HandleFunc("GET "+apiPrefix+"/precipitation", c.handlePrecipitation)
	mux.HandleFunc("GET "+apiPrefix+"/stations", c.handleStations)
	mux.HandleFunc("GET "+apiPrefix+"/tobs", c.handleTobs)
	mux.HandleFunc("GET "+apiPrefix+"/{start}", c.handleTemperatureFrom)
	mux.HandleFunc("GET "+apiPrefix+"/{start}/{end}", c.handleTemperatureRange)
	// Anything deeper, e.g. an unescaped 2017/08/23, is a malformed date.
	mux.HandleFunc("GET "+apiPrefix+"/{rest...}", c.handleMalformedDate)
}

var homeRoutes = []views.Route{
	{Path: apiPrefix + "/precipitation", Description: "Precipitation by date"},
	{Path: apiPrefix + "/stations", Description: "List of stations"},
	{Path: apiPrefix + "/tobs", Description: "List of precipitation measurements from most active station over the previous year"},
	{Path: apiPrefix + "/start_date", Description: "Enter date (" + dates.Formats + ")"},
	{Path: apiPrefix + "/start_date/end_date", Description: "Enter dates (" + dates.Formats + ")"},
}
