// Package testing provides utilities and helpers for testing the catalog search service.
package testing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/mioding/catalog-search/model"
	"github.com/mioding/catalog-search/services"
)

// FakeClock is a manually advanced clock for TTL tests.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a clock frozen at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the frozen time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string { return &s }

// SampleProducts returns a small mixed catalog used across packages.
func SampleProducts() []model.Product {
	return []model.Product{
		{
			ID: "p01", Code: "LS-PVCU-50", Name: "PVC-U排水管50mm", ProductName: "联塑PVC-U排水管",
			Brand: "联塑", Material: "PVC-U", Specification: "DN50", Color: "白色", Length: "4m",
			Pressure: "0.6MPa", Price: StrPtr("23.50"), ProductType: "管材", UsageType: "排水", SubType: "直管",
		},
		{
			ID: "p02", Code: "WX-PE-63", Name: "PE给水管63mm", ProductName: "伟星PE给水管",
			Brand: "伟星", Material: "PE", Specification: "DN63", Color: "蓝色", Length: "6m",
			Pressure: "1.6MPa", Price: StrPtr("41.00"), ProductType: "管材", UsageType: "给水", SubType: "直管",
		},
		{
			ID: "p03", Code: "WX-PPR-25", Name: "PPR热水管25mm", ProductName: "伟星PPR热水管",
			Brand: "伟星", Material: "PPR", Specification: "DN25", Color: "白色", Length: "4m",
			Pressure: "2.0MPa", Price: StrPtr("18.80"), ProductType: "管材", UsageType: "给水", SubType: "热水管",
		},
		{
			ID: "p04", Code: "JD-ELB-90", Name: "90度弯头", Brand: "金德", Material: "PVC",
			Specification: "DN50", Degree: "90°", Price: StrPtr("3.20"), ProductType: "管件", UsageType: "排水", SubType: "弯头",
		},
		{
			ID: "p05", Code: "LS-BV-20", Name: "铜球阀", Brand: "联塑", Material: "铜",
			Specification: "DN20", Pressure: "1.6MPa", ProductType: "阀门", UsageType: "给水", SubType: "球阀",
		},
		{
			ID: "p06", Code: "JM-TAP-01", Name: "不锈钢水龙头", Description: "厨房冷热水龙头",
			Brand: "九牧", Material: "不锈钢", Color: "银色", Weight: "0.8kg", Price: StrPtr("129.00"),
			ProductType: "龙头", UsageType: "厨房",
		},
		{
			ID: "p07", Code: "LS-TEE-50", Name: "PVC三通", Brand: "连塑", Material: "PVC",
			Specification: "DN50", ProductType: "管件", UsageType: "排水", SubType: "三通",
		},
		{
			ID: "p08", Code: "OP-HTR-2K", Name: "电热水器", Brand: "欧普", Wattage: "2kW",
			Price: StrPtr("899.00"), ProductType: "电器", UsageType: "卫浴",
		},
	}
}

// NumberedProducts returns n products with ids "n001".."nNNN", all named "管材 i".
func NumberedProducts(n int) []model.Product {
	out := make([]model.Product, n)
	for i := range out {
		out[i] = model.Product{
			ID:          fmt.Sprintf("n%03d", i+1),
			Code:        fmt.Sprintf("C%03d", i+1),
			Name:        fmt.Sprintf("管材 %d", i+1),
			Brand:       []string{"联塑", "伟星", "金德"}[i%3],
			ProductType: "管材",
		}
	}
	return out
}

// RequireDocker skips the test under -short or when no container runtime is reachable.
func RequireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// SearchTestCase represents a test case for search operations
type SearchTestCase struct {
	Name          string
	Request       model.SearchRequest
	ExpectedTotal int
	ExpectedFirst string // Expected first result product ID
	ValidateFunc  func(t *testing.T, result *model.SearchResult)
}

// RunSearchTests runs a suite of search tests against a searcher
func RunSearchTests(t *testing.T, searcher services.Searcher, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			result, err := searcher.Search(context.Background(), tt.Request)
			require.NoError(t, err, "Search should not fail")

			assert.Equal(t, tt.ExpectedTotal, result.Meta.Total, "Result count should match")

			if tt.ExpectedFirst != "" {
				require.NotEmpty(t, result.Items, "Expected at least one result")
				assert.Equal(t, tt.ExpectedFirst, result.Items[0].ID, "First result should match expected")
			}

			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, &result)
			}
		})
	}
}
