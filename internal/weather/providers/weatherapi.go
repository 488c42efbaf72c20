package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultWeatherAPIURL is the WeatherAPI.com current-conditions endpoint.
const DefaultWeatherAPIURL = "https://api.weatherapi.com/v1/current.json"

// WeatherAPIProvider implements weather.Fetcher for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

// WeatherAPIOption customizes a WeatherAPIProvider.
type WeatherAPIOption func(*WeatherAPIProvider)

// WithBaseURL points the provider at another endpoint (tests, proxies).
func WithBaseURL(u string) WeatherAPIOption {
	return func(p *WeatherAPIProvider) {
		if u != "" {
			p.baseURL = u
		}
	}
}

// WithBreaker replaces the default circuit breaker settings.
func WithBreaker(cfg BreakerConfig) WeatherAPIOption {
	return func(p *WeatherAPIProvider) {
		p.circuit = newBreaker(p.name, cfg)
	}
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, opts ...WeatherAPIOption) *WeatherAPIProvider {
	p := &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: DefaultWeatherAPIURL,
		client:  client,
	}
	p.circuit = newBreaker(p.name, DefaultBreakerConfig)

	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// currentResponse mirrors the subset of current.json we read. Objects are
// pointers so an absent "current" or "location" is detectable.
type currentResponse struct {
	Location *struct {
		Name string `json:"name"`
	} `json:"location"`
	Current *struct {
		TempC     *float64 `json:"temp_c"`
		Condition *struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

// Current fetches current conditions for a free-text location query.
func (p *WeatherAPIProvider) Current(ctx context.Context, query string) (weather.Snapshot, error) {
	if p.apiKey == "" {
		return weather.Snapshot{}, fmt.Errorf("%s: %w", p.name, errMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", query)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return weather.Snapshot{}, fmt.Errorf("%s: %w", p.name, err)
	}
	defer resp.Body.Close()

	var payload currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Snapshot{}, fmt.Errorf("%s: decode response: %w", p.name, err)
	}

	return p.toSnapshot(payload)
}

func (p *WeatherAPIProvider) toSnapshot(payload currentResponse) (weather.Snapshot, error) {
	switch {
	case payload.Current == nil:
		return weather.Snapshot{}, fmt.Errorf("%s: %w: missing current", p.name, errMalformedPayload)
	case payload.Current.TempC == nil:
		return weather.Snapshot{}, fmt.Errorf("%s: %w: missing current.temp_c", p.name, errMalformedPayload)
	case payload.Current.Condition == nil:
		return weather.Snapshot{}, fmt.Errorf("%s: %w: missing current.condition", p.name, errMalformedPayload)
	case payload.Location == nil:
		return weather.Snapshot{}, fmt.Errorf("%s: %w: missing location", p.name, errMalformedPayload)
	}

	return weather.Snapshot{
		Temperature: *payload.Current.TempC,
		Description: payload.Current.Condition.Text,
		Location:    payload.Location.Name,
		Unit:        weather.UnitCelsius,
	}, nil
}
