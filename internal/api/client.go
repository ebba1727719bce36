// Package api is the HTTP client for the backend transaction API. All data
// shown by the site comes from here; the client never writes.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"sudogwon/web/internal/models"
)

// Client fetches JSON from the backend API at a configured base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger

	detailCache *metaCache
}

// NewClient creates a client for the given backend base URL.
func NewClient(baseURL string, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		logger:      logger,
		detailCache: newMetaCache(),
	}
}

// getJSON fetches path with params and decodes the response body into out.
// Non-2xx statuses and malformed bodies are returned as errors; callers treat
// every failure kind the same way (log and keep prior view state).
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// ApartmentDetail fetches the apartment header, initial transactions and
// area stats in one bundle.
func (c *Client) ApartmentDetail(ctx context.Context, id int64) (*models.ApartmentDetail, error) {
	var detail models.ApartmentDetail
	if err := c.getJSON(ctx, fmt.Sprintf("/api/apartments/%d", id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ApartmentHistory fetches the monthly price trend, optionally scoped to an
// area bucket (±2 m² server-side).
func (c *Client) ApartmentHistory(ctx context.Context, id int64, months int, area *float64) ([]models.HistoryPoint, error) {
	params := url.Values{"months": {strconv.Itoa(months)}}
	if area != nil {
		params.Set("area", formatArea(*area))
	}
	var history []models.HistoryPoint
	if err := c.getJSON(ctx, fmt.Sprintf("/api/apartments/%d/history", id), params, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// ApartmentTransactions fetches one page of the transaction list.
func (c *Client) ApartmentTransactions(ctx context.Context, id int64, limit, offset int, area *float64) (*models.TransactionPage, error) {
	params := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	if area != nil {
		params.Set("area", formatArea(*area))
	}
	var page models.TransactionPage
	if err := c.getJSON(ctx, fmt.Sprintf("/api/apartments/%d/transactions", id), params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ApartmentIDs fetches every known apartment id, used by the sitemap.
func (c *Client) ApartmentIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := c.getJSON(ctx, "/api/apartments/ids", nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Search runs the server-side ranked apartment search.
func (c *Client) Search(ctx context.Context, q string, limit int) ([]models.SearchResult, error) {
	params := url.Values{
		"q":     {q},
		"limit": {strconv.Itoa(limit)},
	}
	var results []models.SearchResult
	if err := c.getJSON(ctx, "/api/search", params, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// RegionHierarchy fetches the city → district grouping.
func (c *Client) RegionHierarchy(ctx context.Context) (models.RegionHierarchy, error) {
	var hierarchy models.RegionHierarchy
	if err := c.getJSON(ctx, "/api/regions/hierarchy", nil, &hierarchy); err != nil {
		return nil, err
	}
	return hierarchy, nil
}

// RegionApartments fetches the apartment listing for one district.
func (c *Client) RegionApartments(ctx context.Context, code string, limit int) (*models.RegionApartments, error) {
	params := url.Values{"limit": {strconv.Itoa(limit)}}
	var region models.RegionApartments
	if err := c.getJSON(ctx, "/api/regions/"+url.PathEscape(code)+"/apartments", params, &region); err != nil {
		return nil, err
	}
	return &region, nil
}

// Compare fetches the side-by-side bundle for the given apartment ids.
func (c *Client) Compare(ctx context.Context, ids []int64) ([]models.CompareEntry, error) {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = strconv.FormatInt(id, 10)
	}
	params := url.Values{"apt_ids": {strings.Join(strIDs, ",")}}
	var entries []models.CompareEntry
	if err := c.getJSON(ctx, "/api/compare", params, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// RegionStats fetches the per-district stats table plus the city summary.
func (c *Client) RegionStats(ctx context.Context) (*models.RegionStatsResponse, error) {
	var stats models.RegionStatsResponse
	if err := c.getJSON(ctx, "/api/stats/regions", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecentTransactions fetches the latest deals across all regions.
func (c *Client) RecentTransactions(ctx context.Context, limit int) ([]models.RecentTransaction, error) {
	params := url.Values{"limit": {strconv.Itoa(limit)}}
	var txs []models.RecentTransaction
	if err := c.getJSON(ctx, "/api/transactions", params, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// MarketStats fetches the global counters for the home page.
func (c *Client) MarketStats(ctx context.Context) (*models.MarketStats, error) {
	var stats models.MarketStats
	if err := c.getJSON(ctx, "/api/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Monitor fetches the collection coverage snapshot.
func (c *Client) Monitor(ctx context.Context) (*models.MonitorData, error) {
	var data models.MonitorData
	if err := c.getJSON(ctx, "/api/monitor", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Progress fetches the ingestion progress snapshot.
func (c *Client) Progress(ctx context.Context) (*models.ProgressData, error) {
	var data models.ProgressData
	if err := c.getJSON(ctx, "/api/progress", nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// formatArea keeps whole-number buckets free of a trailing ".0" so the query
// matches what the area-stat grid links carry.
func formatArea(area float64) string {
	return strconv.FormatFloat(area, 'f', -1, 64)
}
