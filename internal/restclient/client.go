// Package restclient fetches snapshot, history and summary data from the backend REST endpoints.
package restclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/logger"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker"
)

const (
	defaultTimeout      = 5 * time.Second
	maxBodyBytes        = 4 << 20 // 4 MB
	breakerTripFailures = 5
	breakerOpenTimeout  = 30 * time.Second
)

var (
	// ErrStatus is wrapped by errors for non-2xx responses.
	ErrStatus = errors.New("unexpected response status")
	// ErrMalformedBody is wrapped when a 2xx body lacks required fields.
	ErrMalformedBody = errors.New("malformed response body")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Client talks to the backend snapshot endpoints for one base URL.
type Client struct {
	base    *url.URL
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *logger.Logger
}

// New builds a client. timeout bounds each request; zero picks a default.
func New(baseURL string, timeout time.Duration, log *logger.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "snapshot:" + u.Host,
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnw("snapshot_breaker_state", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return c, nil
}

// todayEvent is the wire shape of one /events/today entry.
type todayEvent struct {
	EventType string          `json:"event_type"`
	Status    string          `json:"status"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// liveStatus is the wire shape of /events/live. Every field must be present.
type liveStatus struct {
	Sleep *bool `json:"sleep" validate:"required"`
	Phone *bool `json:"phone" validate:"required"`
	Away  *bool `json:"away" validate:"required"`
}

// Live fetches GET /events/live/{subjectID}.
// A body missing any of sleep/phone/away, or null, is rejected with ErrMalformedBody.
func (c *Client) Live(ctx context.Context, subjectID string) (models.LiveStatus, error) {
	var raw liveStatus
	if err := c.getJSON(ctx, &raw, "events", "live", subjectID); err != nil {
		return models.LiveStatus{}, err
	}
	if err := validate.Struct(raw); err != nil {
		c.log.Warnw("live_status_malformed", "subject", subjectID, "err", err)
		return models.LiveStatus{}, fmt.Errorf("live %s: %w: %v", subjectID, ErrMalformedBody, err)
	}
	return models.LiveStatus{Sleep: *raw.Sleep, Phone: *raw.Phone, Away: *raw.Away}, nil
}

// Today fetches GET /events/today/{subjectID} in server order.
// Entries with unreadable timestamps are kept with a zero timestamp.
func (c *Client) Today(ctx context.Context, subjectID string) ([]models.TimelineEvent, error) {
	var raw []todayEvent
	if err := c.getJSON(ctx, &raw, "events", "today", subjectID); err != nil {
		return nil, err
	}
	out := make([]models.TimelineEvent, 0, len(raw))
	for _, e := range raw {
		ts, err := models.ParseTimestamp(e.Timestamp)
		if err != nil {
			c.log.Warnw("today_event_timestamp_invalid", "event_type", e.EventType, "err", err)
		}
		out = append(out, models.TimelineEvent{
			EventType:  models.Field(e.EventType),
			Transition: models.Transition(e.Status),
			Timestamp:  ts,
		})
	}
	return out, nil
}

// Summary fetches GET /summary/today/{subjectID}.
func (c *Client) Summary(ctx context.Context, subjectID string) (models.Summary, error) {
	var s models.Summary
	if err := c.getJSON(ctx, &s, "summary", "today", subjectID); err != nil {
		return models.Summary{}, err
	}
	return s, nil
}

// getJSON issues a GET through the breaker and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, out any, segments ...string) error {
	target := c.endpoint(segments...)
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, target, out)
	})
	return err
}

func (c *Client) do(ctx context.Context, target string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", target, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("get %s: %w: %d", target, ErrStatus, resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", target, err)
	}
	return nil
}

// endpoint joins escaped segments onto the base URL.
func (c *Client) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.base.JoinPath(escaped...).String()
}
