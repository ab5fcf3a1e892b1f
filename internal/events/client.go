// Package events queries the platform's public events API for upcoming fixtures.
package events

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
	"time"

	"github.com/sportrium/assistant/internal/metrics"
	"github.com/sportrium/assistant/internal/models"
)

// DefaultLimit is the page size requested when a query does not set one.
const DefaultLimit = 5

// ErrUnexpectedStatus is returned for any non-200 response.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Query filters upcoming fixtures. From and To are inclusive calendar dates.
type Query struct {
	City  string
	Sport string
	From  time.Time
	To    time.Time
	Limit int
}

// Client calls GET {base}/api/games.
type Client struct {
	base    string
	timeout time.Duration
	client  *http.Client
	logger  *slog.Logger
	metrics *metrics.Collector
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithMetrics records query timings into m.
func WithMetrics(m *metrics.Collector) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client for the events API rooted at base.
// Every call is bounded by timeout regardless of the caller's context.
func New(base string, timeout time.Duration, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		base:    base,
		timeout: timeout,
		client:  &http.Client{},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Base returns the configured API base URL.
func (c *Client) Base() string {
	return c.base
}

// Upcoming returns fixtures matching q.
func (c *Client) Upcoming(ctx context.Context, q Query) ([]models.Fixture, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	fixtures, err := c.fetch(ctx, q)
	duration := time.Since(start)
	c.metrics.RecordTiming(metrics.OpEventsQuery, duration, err)

	if err != nil {
		c.logger.Warn("events query failed",
			"city", q.City, "sport", q.Sport, "duration_ms", duration.Milliseconds(), "error", err)
		return nil, err
	}
	c.logger.Debug("events query",
		"city", q.City, "sport", q.Sport, "results", len(fixtures), "duration_ms", duration.Milliseconds())
	return fixtures, nil
}

func (c *Client) fetch(ctx context.Context, q Query) ([]models.Fixture, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/games?"+params(q).Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, string(body))
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	records, err := unwrap(raw)
	if err != nil {
		return nil, err
	}

	out := make([]models.Fixture, 0, len(records))
	for _, r := range records {
		out = append(out, toFixture(r, q))
	}
	return out, nil
}

func params(q Query) url.Values {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	v := url.Values{}
	v.Set("city", q.City)
	v.Set("status", "upcoming")
	v.Set("limit", strconv.Itoa(limit))
	if !q.From.IsZero() {
		v.Set("date_from", q.From.Format(time.DateOnly))
	}
	if !q.To.IsZero() {
		v.Set("date_to", q.To.Format(time.DateOnly))
	}
	if q.Sport != "" {
		v.Set("sports", q.Sport)
	}
	return v
}

type record map[string]any

// unwrap accepts a bare list or an object carrying the list under items, games or data.
func unwrap(raw json.RawMessage) ([]record, error) {
	var list []record
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	for _, key := range []string{"items", "games", "data"} {
		body, ok := envelope[key]
		if !ok || string(body) == "null" {
			continue
		}
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		if len(list) > 0 {
			return list, nil
		}
	}
	return nil, nil
}

func toFixture(r record, q Query) models.Fixture {
	return models.Fixture{
		Title: r.first("Match", "title", "name"),
		Sport: r.first(q.Sport, "sport"),
		City:  r.first(q.City, "city"),
		Venue: r.first("", "venue", "location"),
		When:  r.first("", "when", "start_time", "start"),
	}
}

// first returns the first non-empty value among keys, or def.
func (r record) first(def string, keys ...string) string {
	for _, k := range keys {
		switch v := r[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return def
}
