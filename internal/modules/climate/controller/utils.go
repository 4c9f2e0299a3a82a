package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"hawaii-climate/internal/dates"
	"hawaii-climate/internal/utils"
)

const (
	singleDateMessage = "Character not found. Make sure date is entered correctly (" + dates.Formats + ")"
	rangeDateMessage  = "Character not found. Make sure dates are entered correctly (" + dates.Formats + ")"
)

// writeDateError answers a date that failed to parse with 404 and msg.
func writeDateError(w http.ResponseWriter, err error, msg string) {
	var invalid *dates.InvalidDateError
	if errors.As(err, &invalid) {
		slog.Debug("invalid date", "input", invalid.Input, "reason", invalid.Reason)
	} else {
		slog.Warn("date parse failed", "error", err)
	}
	utils.WriteError(w, http.StatusNotFound, msg)
}
