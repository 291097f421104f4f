package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// StaticTrendAggregator serves trend signals from a JSON file, keeping the
// signals whose topic or related tags intersect the requested topics.
type StaticTrendAggregator struct {
	name string
	path string
}

// NewStaticTrendAggregator returns an aggregator referencing the given file.
func NewStaticTrendAggregator(name, path string) (*StaticTrendAggregator, error) {
	if name == "" {
		return nil, errors.New("providers: trend aggregator requires a name")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("providers: trend aggregator: %w", err)
	}
	return &StaticTrendAggregator{name: name, path: path}, nil
}

// Name returns the aggregator name.
func (a *StaticTrendAggregator) Name() string { return a.name }

// Aggregate reads the signal file and filters by topic overlap.
func (a *StaticTrendAggregator) Aggregate(ctx context.Context, req TrendRequest) (*TrendAggregate, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	raw, err := os.ReadFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("providers: read trend signals %s: %w", a.path, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	var signals []TrendSignal
	if err := decoder.Decode(&signals); err != nil {
		return nil, fmt.Errorf("providers: decode trend signals %s: %w", a.path, err)
	}

	wanted := make(map[string]struct{}, len(req.Topics))
	for _, topic := range req.Topics {
		wanted[strings.ToLower(topic)] = struct{}{}
	}

	var matched []TrendSignal
	for _, signal := range signals {
		if signalMatches(signal, wanted) {
			signal.Window = req.Window
			matched = append(matched, signal)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score > matched[j].Score
	})

	return &TrendAggregate{
		Signals:    matched,
		ObservedAt: time.Now().UTC().Format(time.RFC3339),
		Sources:    req.Sources,
	}, nil
}

func signalMatches(signal TrendSignal, wanted map[string]struct{}) bool {
	if len(wanted) == 0 {
		return true
	}
	if _, ok := wanted[strings.ToLower(signal.Topic)]; ok {
		return true
	}
	for _, tag := range signal.RelatedTags {
		if _, ok := wanted[strings.ToLower(tag)]; ok {
			return true
		}
	}
	return false
}

// CachedTrendAggregator memoizes an inner aggregator per topic set for a
// TTL. The flow still receives it by injection; the cache is an explicit
// decorator, not a process-wide singleton.
type CachedTrendAggregator struct {
	Inner TrendAggregator
	TTL   time.Duration

	mu      sync.Mutex
	entries map[string]cachedAggregate
}

type cachedAggregate struct {
	value    *TrendAggregate
	storedAt time.Time
}

// NewCachedTrendAggregator wraps inner with a TTL cache.
func NewCachedTrendAggregator(inner TrendAggregator, ttl time.Duration) *CachedTrendAggregator {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &CachedTrendAggregator{Inner: inner, TTL: ttl, entries: make(map[string]cachedAggregate)}
}

// Name identifies the decorated aggregator.
func (c *CachedTrendAggregator) Name() string { return c.Inner.Name() + "_cached" }

// Aggregate returns a cached aggregate when fresh, otherwise delegates.
func (c *CachedTrendAggregator) Aggregate(ctx context.Context, req TrendRequest) (*TrendAggregate, error) {
	key := cacheKey(req)

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && time.Since(entry.storedAt) < c.TTL {
		c.mu.Unlock()
		return entry.value, nil
	}
	c.mu.Unlock()

	value, err := c.Inner.Aggregate(ctx, req)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cachedAggregate{value: value, storedAt: time.Now()}
	c.mu.Unlock()
	return value, nil
}

func cacheKey(req TrendRequest) string {
	topics := append([]string(nil), req.Topics...)
	sort.Strings(topics)
	return strings.Join(topics, ",") + "|" + string(req.Window) + "|" + req.Locality.Country + req.Locality.UF + req.Locality.City
}
