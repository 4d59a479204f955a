package weatherstack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weatherstack-dashboard/internal/observability"
)

// DefaultBaseURL is the public weatherstack endpoint.
const DefaultBaseURL = "https://api.weatherstack.com"

const dateLayout = "2006-01-02"

const (
	endpointCurrent      = "current"
	endpointForecast     = "forecast"
	endpointHistorical   = "historical"
	endpointMarine       = "marine"
	endpointAutocomplete = "autocomplete"
)

// Units is the service's unit-system code.
type Units string

const (
	UnitsMetric     Units = "m"
	UnitsFahrenheit Units = "f"
	UnitsScientific Units = "s"
)

// Options carries the per-request presentation parameters.
type Options struct {
	Units    Units
	Language string
}

// Settings configures a Client.
type Settings struct {
	AccessKey      string
	BaseURL        string
	Backoff        BackoffConfig
	BreakerTimeout time.Duration
}

// Client talks to the weatherstack REST API. It is stateless apart from the
// circuit breaker and safe for concurrent use.
type Client struct {
	name      string
	accessKey string
	baseURL   string
	httpCfg   HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewClient builds a Client. The http.Client carries the request timeout.
func NewClient(httpClient *http.Client, settings Settings, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if logger == nil {
		logger = observability.NopLogger()
	}
	baseURL := strings.TrimRight(settings.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := settings.BreakerTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	c := &Client{
		name:      "weatherstack",
		accessKey: settings.AccessKey,
		baseURL:   baseURL,
		httpCfg: HTTPClientConfig{
			Client:  httpClient,
			Backoff: settings.Backoff,
		},
		metrics: metrics,
		logger:  logger,
	}
	c.circuit = newCircuitBreaker(c.name, timeout, func(name string, from, to gobreaker.State) {
		logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
	})
	return c
}

// Current fetches current conditions for a place name or "lat,lon" pair.
func (c *Client) Current(ctx context.Context, query string, opts Options) (*CurrentResponse, error) {
	params := c.baseParams(query, opts)

	var out CurrentResponse
	if err := c.get(ctx, endpointCurrent, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Forecast fetches a days-long forecast with hourly breakdown.
func (c *Client) Forecast(ctx context.Context, query string, days int, opts Options) (*ForecastResponse, error) {
	params := c.baseParams(query, opts)
	params.Set("forecast_days", strconv.Itoa(days))
	params.Set("hourly", "1")

	var out ForecastResponse
	if err := c.get(ctx, endpointForecast, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Historical fetches observations for a single past date.
func (c *Client) Historical(ctx context.Context, query string, date time.Time, opts Options) (*HistoricalResponse, error) {
	params := c.baseParams(query, opts)
	params.Set("historical_date", date.Format(dateLayout))
	params.Set("hourly", "1")

	var out HistoricalResponse
	if err := c.get(ctx, endpointHistorical, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HistoricalRange fetches observations for every date in [start, end].
func (c *Client) HistoricalRange(ctx context.Context, query string, start, end time.Time, opts Options) (*HistoricalResponse, error) {
	params := c.baseParams(query, opts)
	params.Set("historical_date_start", start.Format(dateLayout))
	params.Set("historical_date_end", end.Format(dateLayout))
	params.Set("hourly", "1")

	var out HistoricalResponse
	if err := c.get(ctx, endpointHistorical, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Marine fetches sea conditions at a coordinate. Tide data is requested only when tide is true.
func (c *Client) Marine(ctx context.Context, lat, lon float64, opts Options, tide bool) (*MarineResponse, error) {
	params := c.baseParams(FormatCoordinates(lat, lon), opts)
	if tide {
		params.Set("tide", "yes")
	}

	var out MarineResponse
	if err := c.get(ctx, endpointMarine, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchLocations runs an autocomplete lookup. A non-positive limit uses 10.
func (c *Client) SearchLocations(ctx context.Context, text string, limit int) (*LocationSearchResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("query", text)
	params.Set("limit", strconv.Itoa(limit))

	var out LocationSearchResponse
	if err := c.get(ctx, endpointAutocomplete, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FormatCoordinates renders a "lat,lon" query without trailing zeros.
func FormatCoordinates(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}

func (c *Client) baseParams(query string, opts Options) url.Values {
	values := url.Values{}
	values.Set("query", query)
	if opts.Units != "" {
		values.Set("units", string(opts.Units))
	}
	if opts.Language != "" {
		values.Set("language", opts.Language)
	}
	return values
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.accessKey == "" {
		return fmt.Errorf("weatherstack access key is not configured")
	}

	start := time.Now()
	err := c.fetch(ctx, endpoint, params, out)
	c.observe(endpoint, start, err)
	return err
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values, out any) error {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		for k, v := range params {
			values[k] = v
		}
		values.Set("access_key", c.accessKey)

		u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, values.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, endpoint, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Operation: endpoint, Err: err}
	}

	// The service reports failures in a 200 body; check for the envelope first.
	var env envelope
	if json.Unmarshal(body, &env) == nil && env.Success != nil && !*env.Success && env.Error != nil {
		return env.Error
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func (c *Client) observe(endpoint string, start time.Time, err error) {
	outcome := outcomeFor(err)
	if err != nil {
		c.logger.Warn("gateway request failed", "provider", c.name, "endpoint", endpoint, "outcome", outcome, "error", err)
	} else {
		c.logger.Debug("gateway request", "provider", c.name, "endpoint", endpoint, "duration", time.Since(start))
	}

	if c.metrics == nil {
		return
	}
	c.metrics.GatewayRequests.WithLabelValues(endpoint, outcome).Inc()
	c.metrics.GatewayDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func outcomeFor(err error) string {
	var (
		apiErr    *APIError
		netErr    *NetworkError
		statusErr *StatusError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &apiErr):
		return "service_error"
	case errors.As(err, &netErr):
		return "network_error"
	case errors.As(err, &statusErr):
		return "status_error"
	case errors.Is(err, ErrCircuitOpen):
		return "circuit_open"
	default:
		return "error"
	}
}
