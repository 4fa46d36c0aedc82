package source

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsGate checks robots.txt before the client hits a listing path.
// Fetch failures fail open: robots.txt being down shouldn't block analysis.
type RobotsGate struct {
	mu         sync.Mutex
	data       map[string]*robotstxt.RobotsData
	httpClient *http.Client
	userAgent  string
}

// NewRobotsGate creates a robots.txt gate
func NewRobotsGate(userAgent string, timeout time.Duration) *RobotsGate {
	return &RobotsGate{
		data:       make(map[string]*robotstxt.RobotsData),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// Allowed reports whether path on host may be fetched
func (g *RobotsGate) Allowed(ctx context.Context, scheme, host, path string) bool {
	data, err := g.robotsData(ctx, scheme, host)
	if err != nil {
		return true
	}
	return data.TestAgent(path, g.userAgent)
}

func (g *RobotsGate) robotsData(ctx context.Context, scheme, host string) (*robotstxt.RobotsData, error) {
	g.mu.Lock()
	cached, ok := g.data[host]
	g.mu.Unlock()
	if ok {
		return cached, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	g.mu.Lock()
	g.data[host] = data
	g.mu.Unlock()
	return data, nil
}
