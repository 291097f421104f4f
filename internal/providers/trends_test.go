package providers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trendFixture = `[
  {"source": "tiktok", "topic": "promo", "score": 88, "confidence": 0.8, "momentum": "high"},
  {"source": "x", "topic": "festa", "score": 47, "confidence": 0.4, "momentum": "low", "related_tags": ["musica"]},
  {"source": "instagram", "topic": "familia", "score": 61, "confidence": 0.6, "momentum": "medium"}
]`

func TestStaticTrendAggregatorFiltersAndSorts(t *testing.T) {
	aggregator, err := NewStaticTrendAggregator("trends", writeFixture(t, trendFixture))
	require.NoError(t, err)

	aggregate, err := aggregator.Aggregate(context.Background(), TrendRequest{
		Topics: []string{"promo", "musica"},
		Window: "7d",
	})
	require.NoError(t, err)
	require.Len(t, aggregate.Signals, 2)

	// Sorted by score descending; window stamped from the request.
	assert.Equal(t, "promo", aggregate.Signals[0].Topic)
	assert.Equal(t, "festa", aggregate.Signals[1].Topic)
	assert.Equal(t, TimeWindow("7d"), aggregate.Signals[0].Window)
}

func TestStaticTrendAggregatorNoTopicsMatchesAll(t *testing.T) {
	aggregator, err := NewStaticTrendAggregator("trends", writeFixture(t, trendFixture))
	require.NoError(t, err)

	aggregate, err := aggregator.Aggregate(context.Background(), TrendRequest{})
	require.NoError(t, err)
	assert.Len(t, aggregate.Signals, 3)
}

type countingAggregator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingAggregator) Name() string { return "counting" }

func (c *countingAggregator) Aggregate(ctx context.Context, req TrendRequest) (*TrendAggregate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return &TrendAggregate{Signals: []TrendSignal{{Topic: "promo", Score: 80}}}, nil
}

func TestCachedTrendAggregatorMemoizesPerKey(t *testing.T) {
	inner := &countingAggregator{}
	cached := NewCachedTrendAggregator(inner, time.Minute)

	req := TrendRequest{Topics: []string{"promo"}, Window: "7d", Locality: Locality{Country: "BR"}}
	for i := 0; i < 3; i++ {
		_, err := cached.Aggregate(context.Background(), req)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, inner.calls)

	// A different topic set misses the cache.
	other := TrendRequest{Topics: []string{"festa"}, Window: "7d", Locality: Locality{Country: "BR"}}
	_, err := cached.Aggregate(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
