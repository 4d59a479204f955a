package weather

import (
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/weatherstack-dashboard/internal/weatherstack"
)

// Category identifies one dashboard tab and the upstream operation behind it.
type Category string

const (
	CategoryCurrent    Category = "current"
	CategoryForecast   Category = "forecast"
	CategoryHistorical Category = "historical"
	CategoryMarine     Category = "marine"
	CategoryLocation   Category = "location"
)

// Categories lists every tab in display order.
var Categories = []Category{
	CategoryCurrent,
	CategoryForecast,
	CategoryHistorical,
	CategoryMarine,
	CategoryLocation,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts a tab name case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", &ValidationError{Field: "tab", Message: fmt.Sprintf("unknown tab %q", s)}
	}
	return c, nil
}

// Unit is the unit system requested from the service. Conversion happens upstream.
type Unit string

const (
	UnitMetric     Unit = "metric"
	UnitImperial   Unit = "imperial"
	UnitScientific Unit = "scientific"
)

// Code maps the unit system onto the service's one-letter code.
func (u Unit) Code() weatherstack.Units {
	switch u {
	case UnitImperial:
		return weatherstack.UnitsFahrenheit
	case UnitScientific:
		return weatherstack.UnitsScientific
	default:
		return weatherstack.UnitsMetric
	}
}

// ParseUnit accepts the long names as well as the service codes m, f and s.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "metric", "m":
		return UnitMetric, nil
	case "imperial", "f":
		return UnitImperial, nil
	case "scientific", "s":
		return UnitScientific, nil
	default:
		return "", &ValidationError{Field: "unit", Message: fmt.Sprintf("unknown unit system %q", s)}
	}
}

// DateRange is an inclusive span of calendar dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SearchFilters is built fresh from the UI controls on every submission.
type SearchFilters struct {
	Unit           Unit       `json:"unit"`
	Language       string     `json:"language"`
	ForecastDays   int        `json:"forecastDays,omitempty"`
	HistoricalDate time.Time  `json:"historicalDate,omitzero"`
	DateRange      *DateRange `json:"dateRange,omitempty"`
	Tide           bool       `json:"tide,omitempty"`
}

// HasDate reports whether a historical lookup has what it needs.
func (f SearchFilters) HasDate() bool {
	return !f.HistoricalDate.IsZero() || f.DateRange != nil
}

func (f SearchFilters) options() weatherstack.Options {
	return weatherstack.Options{Units: f.Unit.Code(), Language: f.Language}
}

// Defaults fill in filter fields the caller left empty.
type Defaults struct {
	Unit         Unit
	Language     string
	ForecastDays int
	SearchLimit  int
}

// NewDefaults mirrors the dashboard's out-of-the-box behaviour.
func NewDefaults() Defaults {
	return Defaults{
		Unit:         UnitMetric,
		Language:     "en",
		ForecastDays: 7,
		SearchLimit:  10,
	}
}

// Query is the raw search text plus the tab it was submitted on.
type Query struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
}

// Location is the place the service resolved a query to.
type Location struct {
	Name           string `json:"name"`
	Country        string `json:"country"`
	Region         string `json:"region"`
	Lat            string `json:"lat"`
	Lon            string `json:"lon"`
	TimezoneID     string `json:"timezoneId"`
	Localtime      string `json:"localtime"`
	LocaltimeEpoch int64  `json:"localtimeEpoch"`
	UTCOffset      string `json:"utcOffset"`
}

type Astro struct {
	Sunrise          string `json:"sunrise"`
	Sunset           string `json:"sunset"`
	Moonrise         string `json:"moonrise"`
	Moonset          string `json:"moonset"`
	MoonPhase        string `json:"moonPhase"`
	MoonIllumination int    `json:"moonIllumination"`
}

type AirQuality struct {
	CO           string `json:"co"`
	NO2          string `json:"no2"`
	O3           string `json:"o3"`
	SO2          string `json:"so2"`
	PM25         string `json:"pm2_5"`
	PM10         string `json:"pm10"`
	USEPAIndex   string `json:"usEpaIndex"`
	GBDefraIndex string `json:"gbDefraIndex"`
}

// Conditions is a point-in-time observation in the requested unit system.
type Conditions struct {
	ObservationTime string      `json:"observationTime,omitempty"`
	Temperature     float64     `json:"temperature"`
	FeelsLike       float64     `json:"feelsLike"`
	WeatherCode     int         `json:"weatherCode"`
	Condition       Condition   `json:"condition"`
	Description     string      `json:"description"`
	Icons           []string    `json:"icons,omitempty"`
	WindSpeed       float64     `json:"windSpeed"`
	WindDegree      float64     `json:"windDegree"`
	WindDir         string      `json:"windDir"`
	Pressure        float64     `json:"pressure"`
	Precip          float64     `json:"precip"`
	Humidity        float64     `json:"humidity"`
	CloudCover      float64     `json:"cloudCover"`
	UVIndex         float64     `json:"uvIndex"`
	Visibility      float64     `json:"visibility"`
	Astro           *Astro      `json:"astro,omitempty"`
	AirQuality      *AirQuality `json:"airQuality,omitempty"`
}

// DaySummary is one day of a forecast or historical series.
type DaySummary struct {
	Date      string       `json:"date"`
	DateEpoch int64        `json:"dateEpoch"`
	MinTemp   float64      `json:"minTemp"`
	MaxTemp   float64      `json:"maxTemp"`
	AvgTemp   float64      `json:"avgTemp"`
	TotalSnow float64      `json:"totalSnow"`
	SunHours  float64      `json:"sunHours"`
	UVIndex   float64      `json:"uvIndex"`
	Astro     *Astro       `json:"astro,omitempty"`
	Hourly    []Conditions `json:"hourly,omitempty"`
}

// SeaState is the marine-specific part of an observation.
type SeaState struct {
	SwellHeight      float64  `json:"swellHeight"`
	SwellDirection   float64  `json:"swellDirection"`
	SwellPeriod      float64  `json:"swellPeriod"`
	WaterTemperature float64  `json:"waterTemperature"`
	TideHeight       *float64 `json:"tideHeight,omitempty"`
	TideDirection    *string  `json:"tideDirection,omitempty"`
}

type MarineConditions struct {
	Conditions
	SeaState
}

type MarineDay struct {
	Date      string             `json:"date"`
	DateEpoch int64              `json:"dateEpoch"`
	MinTemp   float64            `json:"minTemp"`
	MaxTemp   float64            `json:"maxTemp"`
	AvgTemp   float64            `json:"avgTemp"`
	SunHours  float64            `json:"sunHours"`
	UVIndex   float64            `json:"uvIndex"`
	Astro     *Astro             `json:"astro,omitempty"`
	Hourly    []MarineConditions `json:"hourly,omitempty"`
}

// LocationResult is one autocomplete match.
type LocationResult struct {
	Name       string `json:"name"`
	Country    string `json:"country"`
	Region     string `json:"region"`
	Lat        string `json:"lat"`
	Lon        string `json:"lon"`
	TimezoneID string `json:"timezoneId"`
	UTCOffset  string `json:"utcOffset"`
}

// Label is the text used when a result is picked to run a current-conditions query.
func (r LocationResult) Label() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{r.Name, r.Region, r.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Payload is the normalized response for exactly one category. The set of
// implementations is closed: CurrentPayload, ForecastPayload,
// HistoricalPayload, MarinePayload and LocationPayload.
type Payload interface {
	Category() Category
	isPayload()
}

type CurrentPayload struct {
	Location Location   `json:"location"`
	Current  Conditions `json:"current"`
}

type ForecastPayload struct {
	Location Location     `json:"location"`
	Current  Conditions   `json:"current"`
	Days     []DaySummary `json:"days"` // ascending by date
}

type HistoricalPayload struct {
	Location Location     `json:"location"`
	Current  Conditions   `json:"current"`
	Days     []DaySummary `json:"days"` // ascending by date
}

type MarinePayload struct {
	Location Location         `json:"location"`
	Current  MarineConditions `json:"current"`
	Days     []MarineDay      `json:"days,omitempty"`
}

type LocationPayload struct {
	Query   string           `json:"query"`
	Results []LocationResult `json:"results"`
}

func (CurrentPayload) Category() Category    { return CategoryCurrent }
func (ForecastPayload) Category() Category   { return CategoryForecast }
func (HistoricalPayload) Category() Category { return CategoryHistorical }
func (MarinePayload) Category() Category     { return CategoryMarine }
func (LocationPayload) Category() Category   { return CategoryLocation }

func (CurrentPayload) isPayload()    {}
func (ForecastPayload) isPayload()   {}
func (HistoricalPayload) isPayload() {}
func (MarinePayload) isPayload()     {}
func (LocationPayload) isPayload()   {}
