//go:build !integration

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheInterface(t *testing.T) {
	var c Cache[[]string] = &mockCache[[]string]{}

	result, found := c.Get("colombo-kandy|train")
	assert.False(t, found)
	assert.Nil(t, result)

	c.Set("colombo-kandy|train", []string{"sch-1"})
	c.Stop()
}

func TestCacheWithMetricsInterface(t *testing.T) {
	var c CacheWithMetrics[int] = &mockCacheWithMetrics[int]{}

	result, found := c.Get("k")
	assert.False(t, found)
	assert.Zero(t, result)
	assert.Equal(t, Metrics{}, c.Metrics())
	c.Stop()
}

type mockCache[V any] struct{}

func (m *mockCache[V]) Get(string) (V, bool) {
	var zero V
	return zero, false
}

func (m *mockCache[V]) Set(string, V) {}

func (m *mockCache[V]) Invalidate(string) {}

func (m *mockCache[V]) Clear() {}

func (m *mockCache[V]) Stop() {}

type mockCacheWithMetrics[V any] struct {
	mockCache[V]
}

func (m *mockCacheWithMetrics[V]) Metrics() Metrics {
	return Metrics{}
}
