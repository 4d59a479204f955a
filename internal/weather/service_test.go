package weather_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weatherstack-dashboard/internal/observability"
	"github.com/i474232898/weatherstack-dashboard/internal/store"
	"github.com/i474232898/weatherstack-dashboard/internal/weather"
	"github.com/i474232898/weatherstack-dashboard/internal/weatherstack"
)

// call records one gateway invocation.
type call struct {
	op    string
	query string
	days  int
	date  time.Time
	start time.Time
	end   time.Time
	lat   float64
	lon   float64
	tide  bool
	limit int
	opts  weatherstack.Options
}

// fakeGateway answers every endpoint from canned data and records calls.
type fakeGateway struct {
	mu    sync.Mutex
	calls []call
	err   error
	// release, when set, blocks Current until the query's channel is closed.
	release map[string]chan struct{}
}

func (g *fakeGateway) record(c call) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, c)
	return g.err
}

func (g *fakeGateway) Calls() []call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]call(nil), g.calls...)
}

func (g *fakeGateway) Current(ctx context.Context, query string, opts weatherstack.Options) (*weatherstack.CurrentResponse, error) {
	if ch, ok := g.release[query]; ok {
		<-ch
	}
	if err := g.record(call{op: "current", query: query, opts: opts}); err != nil {
		return nil, err
	}
	return &weatherstack.CurrentResponse{
		Location: weatherstack.Location{Name: query},
		Current:  weatherstack.Current{Temperature: 15, WeatherCode: 113},
	}, nil
}

func (g *fakeGateway) Forecast(ctx context.Context, query string, days int, opts weatherstack.Options) (*weatherstack.ForecastResponse, error) {
	if err := g.record(call{op: "forecast", query: query, days: days, opts: opts}); err != nil {
		return nil, err
	}
	return &weatherstack.ForecastResponse{
		Location: weatherstack.Location{Name: query},
		Forecast: map[string]weatherstack.Day{
			"2026-10-18": {Date: "2026-10-18"},
			"2026-10-17": {Date: "2026-10-17"},
		},
	}, nil
}

func (g *fakeGateway) Historical(ctx context.Context, query string, date time.Time, opts weatherstack.Options) (*weatherstack.HistoricalResponse, error) {
	if err := g.record(call{op: "historical", query: query, date: date, opts: opts}); err != nil {
		return nil, err
	}
	key := date.Format("2006-01-02")
	return &weatherstack.HistoricalResponse{
		Location:   weatherstack.Location{Name: query},
		Historical: map[string]weatherstack.Day{key: {Date: key}},
	}, nil
}

func (g *fakeGateway) HistoricalRange(ctx context.Context, query string, start, end time.Time, opts weatherstack.Options) (*weatherstack.HistoricalResponse, error) {
	if err := g.record(call{op: "historical_range", query: query, start: start, end: end, opts: opts}); err != nil {
		return nil, err
	}
	return &weatherstack.HistoricalResponse{Location: weatherstack.Location{Name: query}}, nil
}

func (g *fakeGateway) Marine(ctx context.Context, lat, lon float64, opts weatherstack.Options, tide bool) (*weatherstack.MarineResponse, error) {
	if err := g.record(call{op: "marine", lat: lat, lon: lon, tide: tide, opts: opts}); err != nil {
		return nil, err
	}
	return &weatherstack.MarineResponse{
		Current: weatherstack.MarineCurrent{SwellHeight: 1.1},
	}, nil
}

func (g *fakeGateway) SearchLocations(ctx context.Context, text string, limit int) (*weatherstack.LocationSearchResponse, error) {
	if err := g.record(call{op: "autocomplete", query: text, limit: limit}); err != nil {
		return nil, err
	}
	return &weatherstack.LocationSearchResponse{
		Results: []weatherstack.LocationResult{{Name: text, Country: "Somewhere"}},
	}, nil
}

type fakeGeocoder struct {
	lat, lon float64
	err      error
}

func (g fakeGeocoder) Geocode(context.Context, string) (float64, float64, error) {
	return g.lat, g.lon, g.err
}

var metricEN = weather.SearchFilters{Unit: weather.UnitMetric, Language: "en"}

func newFixture(t *testing.T) (*weather.Service, *fakeGateway, *store.Session, *observability.Metrics) {
	t.Helper()
	gw := &fakeGateway{}
	metrics := observability.NewMetricsForTesting()
	svc := weather.NewService(gw, nil, weather.NewDefaults(), metrics, nil)
	return svc, gw, store.NewSession("test", 0, metricEN, nil), metrics
}

func TestSubmit_CurrentLondon(t *testing.T) {
	svc, gw, st, metrics := newFixture(t)

	err := svc.Submit(context.Background(), st, weather.Query{Text: "London", Category: weather.CategoryCurrent}, metricEN)
	require.NoError(t, err)

	v := st.View()
	assert.False(t, v.Loading)
	assert.Empty(t, v.Error)
	assert.Equal(t, store.RenderPayload, v.Render)
	assert.Equal(t, "London", v.Payload.(weather.CurrentPayload).Location.Name)
	assert.Equal(t, 15.0, v.Payload.(weather.CurrentPayload).Current.Temperature)
	assert.Equal(t, []string{"London"}, v.History)

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "current", calls[0].op)
	assert.Equal(t, weatherstack.Options{Units: weatherstack.UnitsMetric, Language: "en"}, calls[0].opts)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Submissions.WithLabelValues("current", "success")))
}

func TestSubmit_ServiceErrorEnvelope(t *testing.T) {
	svc, gw, st, _ := newFixture(t)
	gw.err = &weatherstack.APIError{Code: 101, Type: "invalid_access_key", Info: "Invalid API key"}

	err := svc.Submit(context.Background(), st, weather.Query{Text: "London", Category: weather.CategoryCurrent}, metricEN)
	require.Error(t, err)

	v := st.View()
	assert.Equal(t, "Invalid API key", v.Error)
	assert.False(t, v.Loading)
	assert.Equal(t, store.RenderError, v.Render)
	_, ok := st.Payload(weather.CategoryCurrent)
	assert.False(t, ok, "no payload written on failure")
}

func TestSubmit_NetworkError(t *testing.T) {
	svc, gw, st, _ := newFixture(t)
	gw.err = &weatherstack.NetworkError{Operation: "forecast", Err: errors.New("connection refused")}

	_ = svc.Submit(context.Background(), st, weather.Query{Text: "Oslo", Category: weather.CategoryForecast}, metricEN)
	assert.Equal(t, "network error", st.View().Error)
}

func TestSubmit_ForecastUsesDefaultAndCustomDays(t *testing.T) {
	svc, gw, st, _ := newFixture(t)
	q := weather.Query{Text: "Paris", Category: weather.CategoryForecast}

	require.NoError(t, svc.Submit(context.Background(), st, q, metricEN))

	custom := metricEN
	custom.ForecastDays = 3
	require.NoError(t, svc.Submit(context.Background(), st, q, custom))

	calls := gw.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, 7, calls[0].days)
	assert.Equal(t, 3, calls[1].days)

	p, ok := st.Payload(weather.CategoryForecast)
	require.True(t, ok)
	days := p.(weather.ForecastPayload).Days
	require.Len(t, days, 2)
	assert.Equal(t, "2026-10-17", days[0].Date)
}

func TestSubmit_MarineCoordinates(t *testing.T) {
	svc, gw, st, _ := newFixture(t)
	f := metricEN
	f.Tide = true

	require.NoError(t, svc.Submit(context.Background(), st, weather.Query{Text: "40.71,-74.00", Category: weather.CategoryMarine}, f))

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "marine", calls[0].op)
	assert.Equal(t, 40.71, calls[0].lat)
	assert.Equal(t, -74.00, calls[0].lon)
	assert.True(t, calls[0].tide)
}

func TestSubmit_MarineMalformedSurfacesError(t *testing.T) {
	for _, in := range []string{"London", "40.71", "abc,def", "NaN,3", "1,2,3"} {
		t.Run(in, func(t *testing.T) {
			svc, gw, st, metrics := newFixture(t)

			err := svc.Submit(context.Background(), st, weather.Query{Text: in, Category: weather.CategoryMarine}, metricEN)

			var valErr *weather.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Empty(t, gw.Calls(), "no gateway call for malformed coordinates")

			v := st.View()
			assert.Equal(t, store.RenderError, v.Render)
			assert.Contains(t, v.Error, "invalid query")
			assert.False(t, v.Loading)
			assert.Empty(t, v.History, "rejected input is not recorded")
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Submissions.WithLabelValues("marine", "invalid")))
		})
	}
}

func TestSubmit_MarinePlaceNameWithGeocoder(t *testing.T) {
	gw := &fakeGateway{}
	svc := weather.NewService(gw, fakeGeocoder{lat: 36.6, lon: -121.9}, weather.NewDefaults(), nil, nil)
	st := store.NewSession("test", 0, metricEN, nil)

	require.NoError(t, svc.Submit(context.Background(), st, weather.Query{Text: "Monterey Bay", Category: weather.CategoryMarine}, metricEN))

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 36.6, calls[0].lat)
	assert.Equal(t, -121.9, calls[0].lon)
}

func TestSubmit_MarineGeocoderFailure(t *testing.T) {
	gw := &fakeGateway{}
	svc := weather.NewService(gw, fakeGeocoder{err: errors.New("ZERO_RESULTS")}, weather.NewDefaults(), nil, nil)
	st := store.NewSession("test", 0, metricEN, nil)

	err := svc.Submit(context.Background(), st, weather.Query{Text: "Atlantis", Category: weather.CategoryMarine}, metricEN)
	require.Error(t, err)
	assert.Empty(t, gw.Calls())
	assert.Contains(t, st.View().Error, "could not resolve")
}

func TestSubmit_HistoricalWithoutDateWaits(t *testing.T) {
	svc, gw, st, _ := newFixture(t)
	st.SetActiveTab(weather.CategoryHistorical)

	err := svc.Submit(context.Background(), st, weather.Query{Text: "Rome", Category: weather.CategoryHistorical}, metricEN)
	assert.ErrorIs(t, err, weather.ErrDateRequired)
	assert.Empty(t, gw.Calls())

	v := st.View()
	assert.Equal(t, store.RenderDatePrompt, v.Render)
	assert.Empty(t, v.Error)
	assert.Equal(t, []string{"Rome"}, v.History)

	// Picking a date loads the remembered query.
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, svc.SelectHistoricalDate(context.Background(), st, date))

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "historical", calls[0].op)
	assert.Equal(t, "Rome", calls[0].query)
	assert.True(t, date.Equal(calls[0].date))

	v = st.View()
	assert.Equal(t, store.RenderPayload, v.Render)
	assert.Equal(t, "2025-06-01", v.Payload.(weather.HistoricalPayload).Days[0].Date)
}

func TestSubmit_HistoricalUsesPickedDate(t *testing.T) {
	svc, gw, st, _ := newFixture(t)
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.SelectHistoricalDate(context.Background(), st, date))
	require.NoError(t, svc.Submit(context.Background(), st, weather.Query{Text: "London", Category: weather.CategoryHistorical}, metricEN))

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "historical", calls[0].op)
	assert.True(t, date.Equal(calls[0].date))

	v := st.View()
	assert.Equal(t, store.RenderPayload, v.Render)
	assert.True(t, date.Equal(v.Filters.HistoricalDate))
}

func TestSelectHistoricalDate_NoQueryYet(t *testing.T) {
	svc, gw, st, _ := newFixture(t)

	require.NoError(t, svc.SelectHistoricalDate(context.Background(), st, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.Empty(t, gw.Calls())

	v := st.View()
	assert.Equal(t, weather.CategoryHistorical, v.ActiveTab)
	assert.Equal(t, store.RenderEmpty, v.Render)
}

func TestSubmit_HistoricalRange(t *testing.T) {
	svc, gw, st, _ := newFixture(t)
	f := metricEN
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f.DateRange = &weather.DateRange{Start: start, End: start.AddDate(0, 0, 2)}

	require.NoError(t, svc.Submit(context.Background(), st, weather.Query{Text: "Rome", Category: weather.CategoryHistorical}, f))

	calls := gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "historical_range", calls[0].op)
	assert.True(t, start.Equal(calls[0].start))
}

func TestSubmit_LocationSearchAndSelect(t *testing.T) {
	svc, gw, st, _ := newFixture(t)
	st.SetActiveTab(weather.CategoryLocation)

	require.NoError(t, svc.Submit(context.Background(), st, weather.Query{Text: "Springfield", Category: weather.CategoryLocation}, metricEN))
	p, ok := st.Payload(weather.CategoryLocation)
	require.True(t, ok)
	assert.Equal(t, "Springfield", p.(weather.LocationPayload).Results[0].Name)

	require.NoError(t, svc.SelectLocation(context.Background(), st, "Springfield, Somewhere"))

	calls := gw.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "autocomplete", calls[0].op)
	assert.Equal(t, 10, calls[0].limit)
	assert.Equal(t, "current", calls[1].op)
	assert.Equal(t, "Springfield, Somewhere", calls[1].query)

	v := st.View()
	assert.Equal(t, weather.CategoryCurrent, v.ActiveTab)
	assert.Equal(t, store.RenderPayload, v.Render)
}

func TestSubmit_EmptyQueryRejected(t *testing.T) {
	svc, gw, st, _ := newFixture(t)

	err := svc.Submit(context.Background(), st, weather.Query{Text: "   ", Category: weather.CategoryCurrent}, metricEN)
	require.Error(t, err)
	assert.Empty(t, gw.Calls())
	assert.Equal(t, "invalid query: must not be empty", st.View().Error)
}

func TestSubmit_LanguageNormalized(t *testing.T) {
	svc, gw, st, _ := newFixture(t)
	f := weather.SearchFilters{Unit: weather.UnitImperial, Language: "fr-CA"}

	require.NoError(t, svc.Submit(context.Background(), st, weather.Query{Text: "Montreal", Category: weather.CategoryCurrent}, f))
	assert.Equal(t, weatherstack.Options{Units: weatherstack.UnitsFahrenheit, Language: "fr"}, gw.Calls()[0].opts)
}

func TestSubmit_Idempotent(t *testing.T) {
	svc, _, st, _ := newFixture(t)
	q := weather.Query{Text: "London", Category: weather.CategoryCurrent}

	require.NoError(t, svc.Submit(context.Background(), st, q, metricEN))
	first, _ := st.Payload(weather.CategoryCurrent)
	require.NoError(t, svc.Submit(context.Background(), st, q, metricEN))
	second, _ := st.Payload(weather.CategoryCurrent)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"London"}, st.History())
}

func TestSubmit_HistoryCappedAtTen(t *testing.T) {
	svc, _, st, _ := newFixture(t)
	for i := 1; i <= 12; i++ {
		require.NoError(t, svc.Submit(context.Background(), st, weather.Query{Text: fmt.Sprintf("city-%d", i), Category: weather.CategoryCurrent}, metricEN))
	}

	h := st.History()
	require.Len(t, h, 10)
	assert.Equal(t, "city-12", h[0])
}

func TestSubmit_LastIssuedWins(t *testing.T) {
	gw := &fakeGateway{release: map[string]chan struct{}{"Slow": make(chan struct{})}}
	metrics := observability.NewMetricsForTesting()
	svc := weather.NewService(gw, nil, weather.NewDefaults(), metrics, nil)
	st := store.NewSession("test", 0, metricEN, nil)

	done := make(chan error)
	go func() {
		done <- svc.Submit(context.Background(), st, weather.Query{Text: "Slow", Category: weather.CategoryCurrent}, metricEN)
	}()

	// Wait until the slow submission is in flight before issuing the fast one.
	require.Eventually(t, func() bool { return st.View().Loading }, time.Second, time.Millisecond)
	require.NoError(t, svc.Submit(context.Background(), st, weather.Query{Text: "Fast", Category: weather.CategoryCurrent}, metricEN))

	close(gw.release["Slow"])
	require.NoError(t, <-done)

	v := st.View()
	assert.False(t, v.Loading)
	assert.Equal(t, "Fast", v.Payload.(weather.CurrentPayload).Location.Name)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StaleResponses))
}

func TestFetch_UnknownTab(t *testing.T) {
	svc, _, _, _ := newFixture(t)
	_, err := svc.Fetch(context.Background(), weather.Query{Text: "x", Category: "radar"}, metricEN)

	var valErr *weather.ValidationError
	assert.True(t, errors.As(err, &valErr))
}
