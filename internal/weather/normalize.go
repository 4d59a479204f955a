package weather

import (
	"sort"

	"github.com/i474232898/weatherstack-dashboard/internal/common"
	"github.com/i474232898/weatherstack-dashboard/internal/weatherstack"
)

// The Normalize* functions reshape raw service responses into payloads.
// Numbers pass through untouched: the service already converted units.
// Optional blocks (astro, air quality, tide) stay nil when absent.

func NormalizeCurrent(r *weatherstack.CurrentResponse) CurrentPayload {
	return CurrentPayload{
		Location: normalizeLocation(r.Location),
		Current:  normalizeConditions(r.Current),
	}
}

func NormalizeForecast(r *weatherstack.ForecastResponse) ForecastPayload {
	return ForecastPayload{
		Location: normalizeLocation(r.Location),
		Current:  normalizeConditions(r.Current),
		Days:     normalizeDays(r.Forecast),
	}
}

func NormalizeHistorical(r *weatherstack.HistoricalResponse) HistoricalPayload {
	return HistoricalPayload{
		Location: normalizeLocation(r.Location),
		Current:  normalizeConditions(r.Current),
		Days:     normalizeDays(r.Historical),
	}
}

func NormalizeMarine(r *weatherstack.MarineResponse) MarinePayload {
	p := MarinePayload{
		Location: normalizeLocation(r.Location),
		Current: MarineConditions{
			Conditions: normalizeConditions(r.Current.Current),
			SeaState: SeaState{
				SwellHeight:      r.Current.SwellHeight,
				SwellDirection:   r.Current.SwellDirection,
				SwellPeriod:      r.Current.SwellPeriod,
				WaterTemperature: r.Current.WaterTemperature,
				TideHeight:       r.Current.TideHeight,
				TideDirection:    r.Current.TideDirection,
			},
		},
	}

	for _, key := range sortedKeys(r.Forecast) {
		d := r.Forecast[key]
		day := MarineDay{
			Date:      common.FirstNonEmpty(d.Date, key),
			DateEpoch: d.DateEpoch,
			MinTemp:   d.MinTemp,
			MaxTemp:   d.MaxTemp,
			AvgTemp:   d.AvgTemp,
			SunHours:  d.SunHour,
			UVIndex:   d.UVIndex,
			Astro:     normalizeAstro(d.Astro),
		}
		for _, h := range d.Hourly {
			day.Hourly = append(day.Hourly, MarineConditions{
				Conditions: normalizeHourly(h.Hourly),
				SeaState: SeaState{
					SwellHeight:      h.SwellHeight,
					SwellDirection:   h.SwellDirection,
					SwellPeriod:      h.SwellPeriod,
					WaterTemperature: h.WaterTemperature,
					TideHeight:       h.TideHeight,
				},
			})
		}
		p.Days = append(p.Days, day)
	}
	return p
}

func NormalizeLocations(query string, r *weatherstack.LocationSearchResponse) LocationPayload {
	p := LocationPayload{
		Query:   query,
		Results: make([]LocationResult, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		p.Results = append(p.Results, LocationResult{
			Name:       res.Name,
			Country:    res.Country,
			Region:     res.Region,
			Lat:        res.Lat,
			Lon:        res.Lon,
			TimezoneID: res.TimezoneID,
			UTCOffset:  res.UTCOffset,
		})
	}
	return p
}

func normalizeLocation(l weatherstack.Location) Location {
	return Location{
		Name:           l.Name,
		Country:        l.Country,
		Region:         l.Region,
		Lat:            l.Lat,
		Lon:            l.Lon,
		TimezoneID:     l.TimezoneID,
		Localtime:      l.Localtime,
		LocaltimeEpoch: l.LocaltimeEpoch,
		UTCOffset:      l.UTCOffset,
	}
}

func normalizeConditions(c weatherstack.Current) Conditions {
	out := Conditions{
		ObservationTime: c.ObservationTime,
		Temperature:     c.Temperature,
		FeelsLike:       c.Feelslike,
		WeatherCode:     c.WeatherCode,
		Condition:       ClassifyCode(c.WeatherCode),
		Description:     describe(c.WeatherCode, c.WeatherDescriptions),
		Icons:           c.WeatherIcons,
		WindSpeed:       c.WindSpeed,
		WindDegree:      c.WindDegree,
		WindDir:         c.WindDir,
		Pressure:        c.Pressure,
		Precip:          c.Precip,
		Humidity:        c.Humidity,
		CloudCover:      c.Cloudcover,
		UVIndex:         c.UVIndex,
		Visibility:      c.Visibility,
		Astro:           normalizeAstro(c.Astro),
	}
	if c.AirQuality != nil {
		aq := AirQuality(*c.AirQuality)
		out.AirQuality = &aq
	}
	return out
}

func normalizeHourly(h weatherstack.Hourly) Conditions {
	return Conditions{
		ObservationTime: h.Time,
		Temperature:     h.Temperature,
		FeelsLike:       h.Feelslike,
		WeatherCode:     h.WeatherCode,
		Condition:       ClassifyCode(h.WeatherCode),
		Description:     describe(h.WeatherCode, h.WeatherDescriptions),
		Icons:           h.WeatherIcons,
		WindSpeed:       h.WindSpeed,
		WindDegree:      h.WindDegree,
		WindDir:         h.WindDir,
		Pressure:        h.Pressure,
		Precip:          h.Precip,
		Humidity:        h.Humidity,
		CloudCover:      h.Cloudcover,
		UVIndex:         h.UVIndex,
		Visibility:      h.Visibility,
	}
}

func normalizeDays(days map[string]weatherstack.Day) []DaySummary {
	out := make([]DaySummary, 0, len(days))
	for _, key := range sortedKeys(days) {
		d := days[key]
		day := DaySummary{
			Date:      common.FirstNonEmpty(d.Date, key),
			DateEpoch: d.DateEpoch,
			MinTemp:   d.MinTemp,
			MaxTemp:   d.MaxTemp,
			AvgTemp:   d.AvgTemp,
			TotalSnow: d.TotalSnow,
			SunHours:  d.SunHour,
			UVIndex:   d.UVIndex,
			Astro:     normalizeAstro(d.Astro),
		}
		for _, h := range d.Hourly {
			day.Hourly = append(day.Hourly, normalizeHourly(h))
		}
		out = append(out, day)
	}
	return out
}

func normalizeAstro(a *weatherstack.Astro) *Astro {
	if a == nil {
		return nil
	}
	out := Astro(*a)
	return &out
}

// describe prefers the service's (localized) text and falls back to the code table.
func describe(code int, descriptions []string) string {
	if d := common.FirstNonEmpty(descriptions...); d != "" {
		return d
	}
	return DescribeCode(code)
}

// sortedKeys orders the date-keyed maps; ISO dates sort lexically.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
