package sources

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/axsec/backend/domain"
)

var sourceLabels = []string{"Primary DB", "Cache", "External API", "Archive"}

// Generator fabricates per-module payloads with a simulated upstream
// latency. The latency wait is context-aware so a caller abandoning the
// lookup does not leak the goroutine.
type Generator struct {
	mu         sync.Mutex
	rng        *rand.Rand
	minLatency time.Duration
	jitter     time.Duration
}

// New builds a Generator. A zero seed derives one from the clock.
func New(seed int64, minLatency, jitter time.Duration) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if minLatency < 0 {
		minLatency = 0
	}
	if jitter < 0 {
		jitter = 0
	}
	return &Generator{
		rng:        rand.New(rand.NewSource(seed)),
		minLatency: minLatency,
		jitter:     jitter,
	}
}

// Lookup fabricates a result for the module and query after the simulated
// delay. Only Status, Source and Data are filled in; the caller owns the
// rest of the record. The returned error is only ever the context's.
func (g *Generator) Lookup(ctx context.Context, moduleID, query string) (*domain.SearchResult, error) {
	delay, success, source := g.roll()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	status := domain.SearchSuccess
	if !success {
		status = domain.SearchNotFound
	}

	return &domain.SearchResult{
		Status: status,
		Source: source,
		Data:   payloadFor(moduleID, query),
	}, nil
}

// roll draws all random values under one lock so concurrent lookups do not
// race on the rng.
func (g *Generator) roll() (time.Duration, bool, string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delay := g.minLatency
	if g.jitter > 0 {
		delay += time.Duration(g.rng.Int63n(int64(g.jitter)))
	}
	success := g.rng.Float64() > 0.2
	source := sourceLabels[g.rng.Intn(len(sourceLabels))]
	return delay, success, source
}

func payloadFor(moduleID, query string) map[string]interface{} {
	switch moduleID {
	case "discord":
		return map[string]interface{}{
			"user_id":        query,
			"username":       "target_user#1234",
			"created_at":     "2019-03-15",
			"badges":         []string{"Nitro", "Early Supporter"},
			"mutual_servers": 12,
			"connections":    []string{"Steam", "Spotify", "GitHub"},
		}
	case "instagram":
		return map[string]interface{}{
			"username":    query,
			"full_name":   "John Doe",
			"followers":   1523,
			"following":   342,
			"posts":       89,
			"is_verified": false,
			"is_private":  true,
		}
	case "snusbase":
		return map[string]interface{}{
			"email":           query,
			"breaches":        []string{"LinkedIn 2021", "Adobe 2019", "Dropbox 2012"},
			"total_records":   4,
			"password_hashes": 2,
			"first_seen":      "2012-07-15",
			"last_updated":    "2024-08-20",
		}
	case "shodan":
		return map[string]interface{}{
			"ip":       query,
			"hostname": "server.example.com",
			"country":  "United States",
			"city":     "San Francisco",
			"org":      "Cloudflare Inc",
			"ports":    []int{80, 443, 22, 8080},
			"vulns":    []string{"CVE-2021-44228"},
		}
	default:
		return map[string]interface{}{
			"query":  query,
			"module": moduleID,
			"result": "Sample data found",
		}
	}
}
