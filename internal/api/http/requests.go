package httpapi

import (
	"time"

	"github.com/i474232898/weatherstack-dashboard/internal/weather"
)

type tabRequest struct {
	Tab string `json:"tab" validate:"required"`
}

type dateRange struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

// searchRequest carries the query text plus the filter controls. The query
// itself is checked by the orchestrator so an empty one surfaces as a view
// error rather than a 400.
type searchRequest struct {
	Query          string     `json:"query"`
	Unit           string     `json:"unit" validate:"omitempty,oneof=metric imperial scientific m f s"`
	Language       string     `json:"language" validate:"omitempty,max=16"`
	ForecastDays   int        `json:"forecastDays" validate:"omitempty,min=1,max=14"`
	HistoricalDate string     `json:"historicalDate" validate:"omitempty,datetime=2006-01-02"`
	DateRange      *dateRange `json:"dateRange" validate:"omitempty"`
	Tide           bool       `json:"tide"`
}

func (r searchRequest) filters() (weather.SearchFilters, error) {
	f := weather.SearchFilters{
		Language:     r.Language,
		ForecastDays: r.ForecastDays,
		Tide:         r.Tide,
	}
	if r.Unit != "" {
		unit, err := weather.ParseUnit(r.Unit)
		if err != nil {
			return f, err
		}
		f.Unit = unit
	}
	if r.HistoricalDate != "" {
		f.HistoricalDate, _ = time.Parse(dateLayout, r.HistoricalDate)
	}
	if r.DateRange != nil {
		start, _ := time.Parse(dateLayout, r.DateRange.Start)
		end, _ := time.Parse(dateLayout, r.DateRange.End)
		f.DateRange = &weather.DateRange{Start: start, End: end}
	}
	return f, nil
}

type dateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

// locationRequest picks a place either by name or by its position in the
// session's cached location-search results.
type locationRequest struct {
	Name  string `json:"name" validate:"required_without=Index"`
	Index *int   `json:"index" validate:"omitempty,min=0"`
}
