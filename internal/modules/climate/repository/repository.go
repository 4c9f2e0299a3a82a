package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"

	"hawaii-climate/internal/dates"
	"hawaii-climate/internal/modules/climate/types"
)

//go:embed sql/get-precipitation.sql
var getPrecipitationSQL string

//go:embed sql/get-stations.sql
var getStationsSQL string

//go:embed sql/get-station-precipitation.sql
var getStationPrecipitationSQL string

//go:embed sql/get-temperature-summary.sql
var getTemperatureSummarySQL string

//go:embed sql/get-temperature-summary-range.sql
var getTemperatureSummaryRangeSQL string

type ClimateRepository interface {
	GetPrecipitation(ctx context.Context) ([]types.PrecipitationReading, error)
	GetStations(ctx context.Context) ([]string, error)
	GetStationPrecipitation(ctx context.Context, station string, from, to dates.Date) ([]types.PrecipitationReading, error)
	GetTemperatureSummary(ctx context.Context, start dates.Date) ([]types.TemperatureSummary, error)
	GetTemperatureSummaryRange(ctx context.Context, start, end dates.Date) ([]types.TemperatureSummary, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) ClimateRepository {
	return &repositoryImpl{db: db}
}

// withConn runs fn on a connection held for the duration of one call. The
// connection goes back to the pool on every return path.
func (r *repositoryImpl) withConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("release conn", "error", err)
		}
	}()
	return fn(conn)
}

func (r *repositoryImpl) GetPrecipitation(ctx context.Context) ([]types.PrecipitationReading, error) {
	var out []types.PrecipitationReading
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, getPrecipitationSQL)
		if err != nil {
			return err
		}
		defer closeRows(rows, "precipitation")
		out, err = scanPrecipitation(rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get precipitation: %w", err)
	}
	return out, nil
}

func (r *repositoryImpl) GetStations(ctx context.Context) ([]string, error) {
	var out []string
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, getStationsSQL)
		if err != nil {
			return err
		}
		defer closeRows(rows, "stations")
		for rows.Next() {
			var s string
			if err := rows.Scan(&s); err != nil {
				return err
			}
			out = append(out, s)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("get stations: %w", err)
	}
	return out, nil
}

func (r *repositoryImpl) GetStationPrecipitation(ctx context.Context, station string, from, to dates.Date) ([]types.PrecipitationReading, error) {
	var out []types.PrecipitationReading
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, getStationPrecipitationSQL, station, from.String(), to.String())
		if err != nil {
			return err
		}
		defer closeRows(rows, "station precipitation")
		out, err = scanPrecipitation(rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get precipitation for %s: %w", station, err)
	}
	return out, nil
}

func (r *repositoryImpl) GetTemperatureSummary(ctx context.Context, start dates.Date) ([]types.TemperatureSummary, error) {
	var out []types.TemperatureSummary
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, getTemperatureSummarySQL, start.String())
		if err != nil {
			return err
		}
		defer closeRows(rows, "temperature summary")
		out, err = scanTemperatureSummaries(rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get temperature summary from %s: %w", start, err)
	}
	return out, nil
}

func (r *repositoryImpl) GetTemperatureSummaryRange(ctx context.Context, start, end dates.Date) ([]types.TemperatureSummary, error) {
	var out []types.TemperatureSummary
	err := r.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, getTemperatureSummaryRangeSQL, start.String(), end.String())
		if err != nil {
			return err
		}
		defer closeRows(rows, "temperature summary range")
		out, err = scanTemperatureSummaries(rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get temperature summary %s..%s: %w", start, end, err)
	}
	return out, nil
}

func scanPrecipitation(rows *sql.Rows) ([]types.PrecipitationReading, error) {
	var out []types.PrecipitationReading
	for rows.Next() {
		var rec types.PrecipitationReading
		var prcp sql.NullFloat64
		if err := rows.Scan(&rec.Date, &prcp); err != nil {
			return nil, err
		}
		if prcp.Valid {
			v := prcp.Float64
			rec.Prcp = &v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanTemperatureSummaries(rows *sql.Rows) ([]types.TemperatureSummary, error) {
	var out []types.TemperatureSummary
	for rows.Next() {
		var s types.TemperatureSummary
		if err := rows.Scan(&s.Date, &s.TMin, &s.TMax, &s.TAvg); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Error("close "+what+" rows", "error", err)
	}
}
