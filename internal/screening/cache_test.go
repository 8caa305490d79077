package screening

import (
	"context"
	"testing"
	"time"

	"freightgate/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey(t *testing.T) {
	tests := []struct {
		party    domain.ScreeningParty
		expected string
	}{
		{domain.ScreeningParty{Name: "Acme Corp", Country: "DE", Address: "1 Main St"}, "acme corp|de|1 main st"},
		{domain.ScreeningParty{Name: "Acme Corp", Country: "DE"}, "acme corp|de"},
		{domain.ScreeningParty{Name: "Acme Corp"}, "acme corp"},
		{domain.ScreeningParty{Name: "  ACME Corp  ", Address: "1 Main St"}, "acme corp|1 main st"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, CacheKey(tc.party))
	}
}

func TestCacheKeyIgnoresRole(t *testing.T) {
	a := domain.ScreeningParty{Name: "Acme Corp", Role: domain.RoleShipper}
	b := domain.ScreeningParty{Name: "Acme Corp", Role: domain.RoleConsignee}
	assert.Equal(t, CacheKey(a), CacheKey(b))
}

func TestMemoryCachePutGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	result := &domain.ScreeningResult{RiskLevel: domain.RiskClear}
	c.Put(ctx, "key", result, time.Minute)

	got, ok := c.Get(ctx, "key")
	assert.True(t, ok)
	assert.Equal(t, domain.RiskClear, got.RiskLevel)

	_, ok = c.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	c.Put(ctx, "key", &domain.ScreeningResult{}, 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get(ctx, "key")
	assert.False(t, ok)
}

func TestMemoryCacheClear(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	c.Put(ctx, "a", &domain.ScreeningResult{}, time.Minute)
	c.Put(ctx, "b", &domain.ScreeningResult{}, time.Minute)

	assert.NoError(t, c.Clear(ctx))

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)
}

func TestMemoryCacheReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	c.Put(ctx, "key", &domain.ScreeningResult{RiskLevel: domain.RiskClear}, time.Minute)

	first, _ := c.Get(ctx, "key")
	first.RiskLevel = domain.RiskCritical

	second, _ := c.Get(ctx, "key")
	assert.Equal(t, domain.RiskClear, second.RiskLevel)
}
