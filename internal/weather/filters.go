package weather

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

const maxForecastDays = 14

// NormalizeLanguage reduces a BCP 47 tag ("en-GB", "PT_br") to the base
// language code the service expects. Empty input stays empty.
func NormalizeLanguage(s string) (string, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", "-"))
	if s == "" {
		return "", nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", &ValidationError{Field: "language", Message: fmt.Sprintf("unrecognized language %q", s)}
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// ParseCoordinates parses a "lat,lon" pair. Both parts must be finite numbers
// within the valid latitude/longitude ranges.
func ParseCoordinates(s string) (lat, lon float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, &ValidationError{Field: "query", Message: fmt.Sprintf("expected \"lat,lon\" coordinates, got %q", s)}
	}

	lat, err = parseFinite(parts[0])
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, &ValidationError{Field: "query", Message: fmt.Sprintf("latitude %q must be a number between -90 and 90", strings.TrimSpace(parts[0]))}
	}
	lon, err = parseFinite(parts[1])
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, &ValidationError{Field: "query", Message: fmt.Sprintf("longitude %q must be a number between -180 and 180", strings.TrimSpace(parts[1]))}
	}
	return lat, lon, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not finite")
	}
	return v, nil
}

// resolve applies defaults and checks the filter fields that do not depend on the tab.
func (f SearchFilters) resolve(d Defaults) (SearchFilters, error) {
	if f.Unit == "" {
		f.Unit = d.Unit
	}
	if f.Unit == "" {
		f.Unit = UnitMetric
	}
	unit, err := ParseUnit(string(f.Unit))
	if err != nil {
		return f, err
	}
	f.Unit = unit

	lang, err := NormalizeLanguage(f.Language)
	if err != nil {
		return f, err
	}
	if lang == "" {
		lang = d.Language
	}
	f.Language = lang

	if f.ForecastDays == 0 {
		f.ForecastDays = d.ForecastDays
	}
	if f.ForecastDays < 1 || f.ForecastDays > maxForecastDays {
		return f, &ValidationError{Field: "forecastDays", Message: fmt.Sprintf("must be between 1 and %d", maxForecastDays)}
	}

	if r := f.DateRange; r != nil {
		if r.Start.IsZero() || r.End.IsZero() {
			return f, &ValidationError{Field: "dateRange", Message: "start and end are both required"}
		}
		if r.End.Before(r.Start) {
			return f, &ValidationError{Field: "dateRange", Message: "end must not be before start"}
		}
	}
	return f, nil
}
