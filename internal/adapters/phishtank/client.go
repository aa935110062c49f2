// Package phishtank queries the PhishTank community phishing database.
package phishtank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/mailguard/email-guard/internal/core"
)

const checkEndpoint = "https://checkurl.phishtank.com/checkurl/"

type checkResponse struct {
	Results struct {
		InDatabase bool `json:"in_database"`
		Verified   bool `json:"verified"`
	} `json:"results"`
}

// Client implements core.PhishReportDB against the PhishTank check API.
type Client struct {
	appKey  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewClient builds a PhishTank client. The application key is optional
// for this endpoint but raises rate limits when present.
func NewClient(appKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		appKey: appKey,
		http:   &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "phishtank",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
		logger: logger,
	}
}

// Check looks one URL up in the community database.
func (c *Client) Check(ctx context.Context, target string) (*core.PhishReport, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.lookup(ctx, target)
	})
	if err != nil {
		return nil, err
	}
	return result.(*core.PhishReport), nil
}

func (c *Client) lookup(ctx context.Context, target string) (*core.PhishReport, error) {
	form := url.Values{}
	form.Set("url", target)
	form.Set("format", "json")
	if c.appKey != "" {
		form.Set("app_key", c.appKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		checkEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build phishtank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "phishtank/email-guard")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("phishtank request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("phishtank returned status %d", resp.StatusCode)
	}

	var decoded checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode phishtank response: %w", err)
	}

	return &core.PhishReport{
		InDatabase: decoded.Results.InDatabase,
		Verified:   decoded.Results.Verified,
	}, nil
}
