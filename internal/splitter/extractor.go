// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package splitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/pdiddy/bookdex/pkg/types"
)

// Extraction is the output of an entity-extraction backend for one cleaned
// query line. Any or all fields may be empty; Confidence 0 means the backend
// found nothing usable.
type Extraction struct {
	// Title is the backend's work-title candidate, if it produced one.
	Title string `json:"title"`

	// Persons lists person-name entities in text order.
	Persons []string `json:"persons"`

	// Confidence is the backend's self-reported confidence in [0,1].
	Confidence float64 `json:"confidence"`
}

// Extractor is an optional entity-extraction backend. Implementations return
// an error on load or transport failure; callers treat any error as "no
// extraction", never as a resolution failure.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, text string) (Extraction, error)
}

// Chain tries candidate backends in priority order and settles on the first
// one that answers. Selection happens lazily on the first Extract call and at
// most once per process; if every candidate fails the chain settles on "no
// backend" and every later call returns an empty extraction. A settled chain
// also swallows runtime errors from its active backend, so Chain itself
// never returns an error.
type Chain struct {
	backends []Extractor

	mu      sync.Mutex
	settled bool
	active  Extractor
}

// NewChain builds a chain over backends in the given priority order.
func NewChain(backends ...Extractor) *Chain {
	return &Chain{backends: backends}
}

// Name returns the active backend's name, or "none" before selection or when
// no backend is available.
func (c *Chain) Name() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != nil {
		return c.active.Name()
	}
	return "none"
}

// Extract runs the active backend, selecting one on first use.
func (c *Chain) Extract(ctx context.Context, text string) (Extraction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.settled {
		c.settled = true
		for _, b := range c.backends {
			ex, err := b.Extract(ctx, text)
			if err != nil {
				continue
			}
			c.active = b
			return ex, nil
		}
		return Extraction{}, nil
	}

	if c.active == nil {
		return Extraction{}, nil
	}
	ex, err := c.active.Extract(ctx, text)
	if err != nil {
		return Extraction{}, nil
	}
	return ex, nil
}

// HTTPExtractor calls a NER service over HTTP. The service accepts
// {"text": ...} and answers {"title": ..., "persons": [...], "confidence": ...}.
type HTTPExtractor struct {
	// Endpoint is the service URL.
	Endpoint string

	// Client is the HTTP client; its timeout bounds each call.
	Client *http.Client

	// UserAgent is sent with each request.
	UserAgent string
}

// Name identifies the backend by its endpoint.
func (e *HTTPExtractor) Name() string { return "ner:" + e.Endpoint }

// Extract posts the cleaned text and decodes the extraction.
func (e *HTTPExtractor) Extract(ctx context.Context, text string) (Extraction, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Extraction{}, fmt.Errorf("marshaling NER request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Extraction{}, fmt.Errorf("creating NER request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.UserAgent != "" {
		req.Header.Set("User-Agent", e.UserAgent)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return Extraction{}, fmt.Errorf("NER request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Extraction{}, fmt.Errorf("NER service returned HTTP %d", resp.StatusCode)
	}

	var ex Extraction
	if err := json.NewDecoder(resp.Body).Decode(&ex); err != nil {
		return Extraction{}, fmt.Errorf("parsing NER response: %w", err)
	}
	return ex, nil
}

// NewFromConfig builds the extractor strategy for the splitter: a chain over
// the configured endpoints, or nil when none are configured. A nil extractor
// is the normal "no backend available" state.
func NewFromConfig(cfg types.ExtractorConfig) Extractor {
	if len(cfg.Endpoints) == 0 {
		return nil
	}
	client := &http.Client{Timeout: cfg.FastTimeout}
	backends := make([]Extractor, 0, len(cfg.Endpoints))
	for _, ep := range cfg.Endpoints {
		backends = append(backends, &HTTPExtractor{
			Endpoint:  ep,
			Client:    client,
			UserAgent: cfg.UserAgent,
		})
	}
	return NewChain(backends...)
}
