// Package fred implements a client for the FRED (Federal Reserve Economic
// Data) API, scoped to what the daily treasury pipeline needs: series
// observations over a date range and series metadata.
//
// Requires a free API key from https://fred.stlouisfed.org/docs/api/api_key.html
// Rate limit: 120 requests/minute.
// Docs: https://fred.stlouisfed.org/docs/api/fred/
package fred

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/seenimoa/curvewatch/internal/config"
	"github.com/seenimoa/curvewatch/internal/logger"
	"github.com/seenimoa/curvewatch/pkg/models"
)

const (
	defaultBaseURL   = "https://api.stlouisfed.org/fred/"
	defaultTimeout   = 30 * time.Second
	defaultRateLimit = 120 // requests per minute
)

// ErrNoAPIKey is returned when the provider has no API key configured.
var ErrNoAPIKey = errors.New("fred: API key not configured")

// Provider is an HTTP client for the FRED REST API. All calls pass through a
// client-side rate limiter honoring FRED's published request limit.
type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	log     *logger.Entry
}

// New creates a FRED provider from the fred config section.
func New(cfg config.FREDConfig, log *logger.Log) *Provider {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	perMinute := cfg.RateLimit
	if perMinute <= 0 {
		perMinute = defaultRateLimit
	}
	if log == nil {
		log = logger.Default()
	}
	return &Provider{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(base, "/") + "/",
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 5),
		log:     log.WithComponent("fred"),
	}
}

// HasAPIKey reports whether an API key is configured.
func (p *Provider) HasAPIKey() bool {
	return p.apiKey != ""
}

// FetchSeries returns the observations of one FRED series over [start, end].
// FRED reports missing values as the literal "."; those observations are
// dropped here and surface as missing cells once series are merged into a
// table. A malformed value or date fails the whole series.
func (p *Provider) FetchSeries(ctx context.Context, seriesID string, start, end time.Time) ([]models.SeriesPoint, error) {
	if p.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	endpoint := fmt.Sprintf("series/observations?series_id=%s&observation_start=%s&observation_end=%s",
		url.QueryEscape(seriesID), start.Format("2006-01-02"), end.Format("2006-01-02"))

	var resp fredObservationsResponse
	if err := p.fetchJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("fred series %s: %w", seriesID, err)
	}

	points := make([]models.SeriesPoint, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		if o.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("fred series %s: bad value %q on %s", seriesID, o.Value, o.Date)
		}
		d := parseFredDate(o.Date)
		if d.IsZero() {
			return nil, fmt.Errorf("fred series %s: bad date %q", seriesID, o.Date)
		}
		points = append(points, models.SeriesPoint{Date: d, Value: v})
	}

	p.log.WithFields(logger.Fields{
		"series":       seriesID,
		"observations": len(points),
	}).Debug("fetched series")
	return points, nil
}

// FetchYieldCurve fetches every canonical treasury series over [start, end],
// one request at a time in maturity order. A series that fails is recorded
// in the returned error map and left out of the result; the call itself
// fails only when no API key is configured or the context ends.
func (p *Provider) FetchYieldCurve(ctx context.Context, start, end time.Time) (map[models.Maturity][]models.SeriesPoint, map[models.Maturity]error, error) {
	if p.apiKey == "" {
		return nil, nil, ErrNoAPIKey
	}

	series := make(map[models.Maturity][]models.SeriesPoint, len(models.CanonicalMaturities))
	failed := make(map[models.Maturity]error)
	for _, m := range models.CanonicalMaturities {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		points, err := p.FetchSeries(ctx, models.TreasurySeries[m], start, end)
		if err != nil {
			failed[m] = err
			continue
		}
		series[m] = points
	}
	return series, failed, nil
}

// SeriesInfo describes one FRED series.
type SeriesInfo struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Units       string `json:"units"`
	Frequency   string `json:"frequency"`
	LastUpdated string `json:"last_updated"`
}

// SeriesInfo returns metadata for one FRED series.
func (p *Provider) SeriesInfo(ctx context.Context, seriesID string) (*SeriesInfo, error) {
	if p.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	body, err := p.get(ctx, "series?series_id="+url.QueryEscape(seriesID))
	if err != nil {
		return nil, fmt.Errorf("fred series info %s: %w", seriesID, err)
	}

	first := gjson.GetBytes(body, "seriess.0")
	if !first.Exists() {
		return nil, fmt.Errorf("fred series info %s: not found", seriesID)
	}
	return &SeriesInfo{
		ID:          seriesID,
		Title:       first.Get("title").String(),
		Units:       first.Get("units").String(),
		Frequency:   first.Get("frequency").String(),
		LastUpdated: first.Get("last_updated").String(),
	}, nil
}

// Ping checks connectivity and key validity with a cheap metadata request.
func (p *Provider) Ping(ctx context.Context) error {
	if p.apiKey == "" {
		return ErrNoAPIKey
	}
	if _, err := p.get(ctx, "series?series_id=DGS10"); err != nil {
		return fmt.Errorf("fred ping: %w", err)
	}
	return nil
}

// --- Shared helpers ---

// fredURL appends api_key and file_type=json to an endpoint path.
func (p *Provider) fredURL(endpoint string) string {
	sep := "?"
	if strings.ContainsRune(endpoint, '?') {
		sep = "&"
	}
	return p.baseURL + endpoint + sep + "api_key=" + url.QueryEscape(p.apiKey) + "&file_type=json"
}

// get performs a rate-limited GET and returns the response body.
// Error messages never include the request URL, which carries the API key.
func (p *Provider) get(ctx context.Context, endpoint string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.fredURL(endpoint), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		// A transport error wraps the full URL, which carries the key.
		if uerr, ok := err.(*url.Error); ok {
			return nil, fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if msg := gjson.GetBytes(data, "error_message").String(); msg != "" {
			return nil, fmt.Errorf("status %d: %s", resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return data, nil
}

// fetchJSON performs a GET request to the FRED API and decodes JSON.
func (p *Provider) fetchJSON(ctx context.Context, endpoint string, dest any) error {
	data, err := p.get(ctx, endpoint)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse FRED JSON: %w", err)
	}
	return nil
}
