// Package safebrowsing queries the Google Safe Browsing v4 lookup API,
// the authoritative threat list of the reputation pipeline.
package safebrowsing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/mailguard/email-guard/internal/core"
)

const lookupEndpoint = "https://safebrowsing.googleapis.com/v4/threatMatches:find"

type lookupRequest struct {
	Client     clientInfo `json:"client"`
	ThreatInfo threatInfo `json:"threatInfo"`
}

type clientInfo struct {
	ClientID      string `json:"clientId"`
	ClientVersion string `json:"clientVersion"`
}

type threatInfo struct {
	ThreatTypes      []string   `json:"threatTypes"`
	PlatformTypes    []string   `json:"platformTypes"`
	ThreatEntryTypes []string   `json:"threatEntryTypes"`
	ThreatEntries    []urlEntry `json:"threatEntries"`
}

type urlEntry struct {
	URL string `json:"url"`
}

type lookupResponse struct {
	Matches []struct {
		ThreatType string `json:"threatType"`
	} `json:"matches"`
}

// Client implements core.ThreatList against the Safe Browsing lookup API.
// A circuit breaker keeps a degraded upstream from stalling every
// analysis.
type Client struct {
	apiKey  string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewClient builds a Safe Browsing client. An empty API key yields a
// client whose checks report core.ErrUnavailable.
func NewClient(apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "safebrowsing",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		}),
		logger: logger,
	}
}

// Check looks one URL up against the threat list.
func (c *Client) Check(ctx context.Context, url string) (*core.ThreatMatch, error) {
	if c.apiKey == "" {
		return nil, core.ErrUnavailable
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.lookup(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	return result.(*core.ThreatMatch), nil
}

func (c *Client) lookup(ctx context.Context, url string) (*core.ThreatMatch, error) {
	payload := lookupRequest{
		Client: clientInfo{ClientID: "email-guard", ClientVersion: "1.0"},
		ThreatInfo: threatInfo{
			ThreatTypes: []string{
				"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE",
				"POTENTIALLY_HARMFUL_APPLICATION",
			},
			PlatformTypes:    []string{"ANY_PLATFORM"},
			ThreatEntryTypes: []string{"URL"},
			ThreatEntries:    []urlEntry{{URL: url}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		lookupEndpoint+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("safe browsing request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("safe browsing returned status %d", resp.StatusCode)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode safe browsing response: %w", err)
	}

	match := &core.ThreatMatch{}
	if len(decoded.Matches) > 0 {
		match.Matched = true
		match.ThreatType = decoded.Matches[0].ThreatType
	}
	return match, nil
}
