// Package feed talks to the airport operator's operational flight data API
// and keeps a last-good snapshot in redis so the schedule survives provider
// outages.
package feed

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aerops-dev/crew-scheduler/backend/internal/config"
)

const dateKeyLayout = "2006-01-02"

type Client struct {
	snapshotURL string
	updatesURL  string
	appID       string
	appKey      string
	httpClient  *http.Client

	// now is swapped out in tests to pin the day-offset arithmetic.
	now func() time.Time
}

func NewClient(cfg *config.Config) *Client {
	snapshotURL := cfg.Feed.SnapshotURL
	if len(cfg.Feed.Carriers) > 0 {
		snapshotURL = strings.TrimSuffix(snapshotURL, "/") + "/" + strings.Join(cfg.Feed.Carriers, ",")
	}

	return &Client{
		snapshotURL: snapshotURL,
		updatesURL:  cfg.Feed.UpdatesURL,
		appID:       cfg.Feed.AppID,
		appKey:      cfg.Feed.AppKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Feed.RequestTimeout) * time.Second,
		},
		now: time.Now,
	}
}

// Snapshot fetches the full movement list around dateKey. The provider
// addresses days relative to its own today, so the requested date becomes a
// startDay offset; endDay reaches one day further to catch overnight
// departures. direction optionally narrows to Arrival or Departure.
func (c *Client) Snapshot(ctx context.Context, dateKey, direction string, loc *time.Location) ([]byte, error) {
	target, err := time.ParseInLocation(dateKeyLayout, dateKey, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date key %q: %w", dateKey, err)
	}

	now := c.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	diffDays := int(math.Round(target.Sub(today).Hours() / 24))

	params := url.Values{}
	params.Set("startDay", strconv.Itoa(diffDays))
	params.Set("endDay", strconv.Itoa(diffDays+1))
	if direction != "" {
		params.Set("direction", direction)
	}

	return c.get(ctx, c.snapshotURL, params)
}

// Updates fetches movements modified since latestModTime, the provider's
// incremental endpoint.
func (c *Client) Updates(ctx context.Context, latestModTime string) ([]byte, error) {
	params := url.Values{}
	if latestModTime != "" {
		params.Set("latestModTime", latestModTime)
	}
	return c.get(ctx, c.updatesURL, params)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("app_id", c.appID)
	req.Header.Set("app_key", c.appKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flight feed returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
