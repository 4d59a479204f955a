package weatherstack

// Wire types for the weatherstack REST API. Field names follow the JSON the
// service returns; optional blocks are pointers so absence survives decoding.

// RequestInfo echoes the parameters the service used to answer a request.
type RequestInfo struct {
	Type     string `json:"type"`
	Query    string `json:"query"`
	Language string `json:"language"`
	Unit     string `json:"unit"`
}

// Location describes the resolved place. lat/lon arrive as strings.
type Location struct {
	Name           string `json:"name"`
	Country        string `json:"country"`
	Region         string `json:"region"`
	Lat            string `json:"lat"`
	Lon            string `json:"lon"`
	TimezoneID     string `json:"timezone_id"`
	Localtime      string `json:"localtime"`
	LocaltimeEpoch int64  `json:"localtime_epoch"`
	UTCOffset      string `json:"utc_offset"`
}

type Astro struct {
	Sunrise          string `json:"sunrise"`
	Sunset           string `json:"sunset"`
	Moonrise         string `json:"moonrise"`
	Moonset          string `json:"moonset"`
	MoonPhase        string `json:"moon_phase"`
	MoonIllumination int    `json:"moon_illumination"`
}

type AirQuality struct {
	CO           string `json:"co"`
	NO2          string `json:"no2"`
	O3           string `json:"o3"`
	SO2          string `json:"so2"`
	PM25         string `json:"pm2_5"`
	PM10         string `json:"pm10"`
	USEPAIndex   string `json:"us-epa-index"`
	GBDefraIndex string `json:"gb-defra-index"`
}

// Current holds observed conditions.
type Current struct {
	ObservationTime     string      `json:"observation_time"`
	Temperature         float64     `json:"temperature"`
	WeatherCode         int         `json:"weather_code"`
	WeatherIcons        []string    `json:"weather_icons"`
	WeatherDescriptions []string    `json:"weather_descriptions"`
	Astro               *Astro      `json:"astro,omitempty"`
	AirQuality          *AirQuality `json:"air_quality,omitempty"`
	WindSpeed           float64     `json:"wind_speed"`
	WindDegree          float64     `json:"wind_degree"`
	WindDir             string      `json:"wind_dir"`
	Pressure            float64     `json:"pressure"`
	Precip              float64     `json:"precip"`
	Humidity            float64     `json:"humidity"`
	Cloudcover          float64     `json:"cloudcover"`
	Feelslike           float64     `json:"feelslike"`
	UVIndex             float64     `json:"uv_index"`
	Visibility          float64     `json:"visibility"`
	IsDay               string      `json:"is_day,omitempty"`
}

// Hourly is one hourly entry of a forecast or historical day.
type Hourly struct {
	Time                string   `json:"time"`
	Temperature         float64  `json:"temperature"`
	WeatherCode         int      `json:"weather_code"`
	WeatherIcons        []string `json:"weather_icons"`
	WeatherDescriptions []string `json:"weather_descriptions"`
	WindSpeed           float64  `json:"wind_speed"`
	WindDegree          float64  `json:"wind_degree"`
	WindDir             string   `json:"wind_dir"`
	Pressure            float64  `json:"pressure"`
	Precip              float64  `json:"precip"`
	Humidity            float64  `json:"humidity"`
	Cloudcover          float64  `json:"cloudcover"`
	Feelslike           float64  `json:"feelslike"`
	UVIndex             float64  `json:"uv_index"`
	Visibility          float64  `json:"visibility"`
}

// Day is one entry of the date-keyed forecast/historical maps.
type Day struct {
	Date      string   `json:"date"`
	DateEpoch int64    `json:"date_epoch"`
	Astro     *Astro   `json:"astro,omitempty"`
	MinTemp   float64  `json:"mintemp"`
	MaxTemp   float64  `json:"maxtemp"`
	AvgTemp   float64  `json:"avgtemp"`
	TotalSnow float64  `json:"totalsnow"`
	SunHour   float64  `json:"sunhour"`
	UVIndex   float64  `json:"uv_index"`
	Hourly    []Hourly `json:"hourly,omitempty"`
}

// MarineCurrent extends current conditions with sea state. Tide fields are only
// present when the request asked for tide data.
type MarineCurrent struct {
	Current
	SwellHeight      float64  `json:"swell_height"`
	SwellDirection   float64  `json:"swell_direction"`
	SwellPeriod      float64  `json:"swell_period"`
	WaterTemperature float64  `json:"water_temperature"`
	TideHeight       *float64 `json:"tide_height,omitempty"`
	TideDirection    *string  `json:"tide_direction,omitempty"`
}

type MarineHourly struct {
	Hourly
	SwellHeight      float64  `json:"swell_height"`
	SwellDirection   float64  `json:"swell_direction"`
	SwellPeriod      float64  `json:"swell_period"`
	WaterTemperature float64  `json:"water_temperature"`
	TideHeight       *float64 `json:"tide_height,omitempty"`
}

type MarineDay struct {
	Date      string         `json:"date"`
	DateEpoch int64          `json:"date_epoch"`
	Astro     *Astro         `json:"astro,omitempty"`
	MinTemp   float64        `json:"mintemp"`
	MaxTemp   float64        `json:"maxtemp"`
	AvgTemp   float64        `json:"avgtemp"`
	TotalSnow float64        `json:"totalsnow"`
	SunHour   float64        `json:"sunhour"`
	UVIndex   float64        `json:"uv_index"`
	Hourly    []MarineHourly `json:"hourly,omitempty"`
}

// LocationResult is one autocomplete match.
type LocationResult struct {
	Name       string `json:"name"`
	Country    string `json:"country"`
	Region     string `json:"region"`
	Lat        string `json:"lat"`
	Lon        string `json:"lon"`
	TimezoneID string `json:"timezone_id"`
	UTCOffset  string `json:"utc_offset"`
}

type CurrentResponse struct {
	Request  RequestInfo `json:"request"`
	Location Location    `json:"location"`
	Current  Current     `json:"current"`
}

type ForecastResponse struct {
	Request  RequestInfo    `json:"request"`
	Location Location       `json:"location"`
	Current  Current        `json:"current"`
	Forecast map[string]Day `json:"forecast"`
}

type HistoricalResponse struct {
	Request    RequestInfo    `json:"request"`
	Location   Location       `json:"location"`
	Current    Current        `json:"current"`
	Historical map[string]Day `json:"historical"`
}

type MarineResponse struct {
	Request  RequestInfo          `json:"request"`
	Location Location             `json:"location"`
	Current  MarineCurrent        `json:"current"`
	Forecast map[string]MarineDay `json:"forecast,omitempty"`
}

type LocationSearchResponse struct {
	Request RequestInfo      `json:"request"`
	Results []LocationResult `json:"results"`
}

// envelope is the error shape: {"success": false, "error": {...}}.
type envelope struct {
	Success *bool     `json:"success"`
	Error   *APIError `json:"error"`
}
