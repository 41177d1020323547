package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"insurance-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPlanStore is an in-memory PlanStore keyed by plan code.
type memPlanStore struct {
	mu    sync.Mutex
	plans map[string]*models.InsurancePlan
}

func newMemPlanStore() *memPlanStore {
	return &memPlanStore{plans: make(map[string]*models.InsurancePlan)}
}

func (m *memPlanStore) CreatePlan(_ context.Context, plan *models.InsurancePlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *plan
	m.plans[plan.PlanCode] = &cp
	return nil
}

func (m *memPlanStore) GetPlanByCode(_ context.Context, planCode string) (*models.InsurancePlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[planCode]
	if !ok {
		return nil, ErrPlanNotFound
	}
	cp := *plan
	return &cp, nil
}

func (m *memPlanStore) GetActivePlanByCode(ctx context.Context, planCode string) (*models.InsurancePlan, error) {
	plan, err := m.GetPlanByCode(ctx, planCode)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func (m *memPlanStore) ListActivePlans(_ context.Context) ([]models.InsurancePlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.InsurancePlan
	for _, plan := range m.plans {
		if plan.IsActive {
			out = append(out, *plan)
		}
	}
	return out, nil
}

func (m *memPlanStore) ListPlansByCoverageType(_ context.Context, coverageType models.CoverageType) ([]models.InsurancePlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.InsurancePlan
	for _, plan := range m.plans {
		if plan.IsActive && plan.CoverageType == coverageType {
			out = append(out, *plan)
		}
	}
	return out, nil
}

func (m *memPlanStore) ListEligiblePlansByAge(_ context.Context, age int) ([]models.InsurancePlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.InsurancePlan
	for _, plan := range m.plans {
		if !plan.IsActive {
			continue
		}
		if plan.MinAge != nil && age < *plan.MinAge {
			continue
		}
		if plan.MaxAge != nil && age > *plan.MaxAge {
			continue
		}
		out = append(out, *plan)
	}
	return out, nil
}

func (m *memPlanStore) ListPlansWithinBudget(_ context.Context, maxDailyPremium decimal.Decimal) ([]models.InsurancePlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.InsurancePlan
	for _, plan := range m.plans {
		if plan.IsActive && plan.DailyPremium.LessThanOrEqual(maxDailyPremium) {
			out = append(out, *plan)
		}
	}
	return out, nil
}

func (m *memPlanStore) ListPlansWithMinCoverage(_ context.Context, minCoverage decimal.Decimal) ([]models.InsurancePlan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.InsurancePlan
	for _, plan := range m.plans {
		if plan.IsActive && plan.CoverageAmount.GreaterThanOrEqual(minCoverage) {
			out = append(out, *plan)
		}
	}
	return out, nil
}

func (m *memPlanStore) ListCoverageTypes(_ context.Context) ([]models.CoverageType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[models.CoverageType]struct{})
	var out []models.CoverageType
	for _, plan := range m.plans {
		if _, ok := seen[plan.CoverageType]; !ok && plan.IsActive {
			seen[plan.CoverageType] = struct{}{}
			out = append(out, plan.CoverageType)
		}
	}
	return out, nil
}

func (m *memPlanStore) UpdatePlan(_ context.Context, plan *models.InsurancePlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *plan
	m.plans[plan.PlanCode] = &cp
	return nil
}

// memCache is an in-memory PlanCache that counts hits against the backing
// store indirectly via Set calls.
type memCache struct {
	mu   sync.Mutex
	data map[string]string
	sets int
	dels int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.data, key)
	}
	c.dels++
	return nil
}

func newPlanFixture(t *testing.T) (*PlanService, *memPlanStore, *memCache) {
	t.Helper()
	store := newMemPlanStore()
	cache := newMemCache()
	require.NoError(t, store.CreatePlan(context.Background(), testPlan()))
	return NewPlanService(store, cache, testCalculator(), 5*time.Minute), store, cache
}

func TestGetActivePlanPopulatesCache(t *testing.T) {
	svc, _, cache := newPlanFixture(t)
	ctx := context.Background()

	plan, err := svc.GetActivePlan(ctx, "GIG_BASIC")
	require.NoError(t, err)
	assert.Equal(t, "GIG_BASIC", plan.PlanCode)
	assert.Equal(t, 1, cache.sets)

	// Second lookup is served from the cache, no further writes.
	plan, err = svc.GetActivePlan(ctx, "GIG_BASIC")
	require.NoError(t, err)
	assert.Equal(t, "GIG_BASIC", plan.PlanCode)
	assert.Equal(t, "5.00", plan.DailyPremium.StringFixed(2))
	assert.Equal(t, 1, cache.sets)
}

func TestGetActivePlanWithoutCache(t *testing.T) {
	store := newMemPlanStore()
	require.NoError(t, store.CreatePlan(context.Background(), testPlan()))
	svc := NewPlanService(store, nil, testCalculator(), 5*time.Minute)

	plan, err := svc.GetActivePlan(context.Background(), "GIG_BASIC")
	require.NoError(t, err)
	assert.Equal(t, "GIG_BASIC", plan.PlanCode)
}

func TestGetActivePlanUnknownCode(t *testing.T) {
	svc, _, _ := newPlanFixture(t)

	_, err := svc.GetActivePlan(context.Background(), "NO_SUCH_PLAN")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestCreatePlanRejectsDuplicateCode(t *testing.T) {
	svc, _, _ := newPlanFixture(t)

	_, err := svc.CreatePlan(context.Background(), &models.UpsertPlanRequest{
		PlanCode:       "GIG_BASIC",
		PlanName:       "Duplicate",
		DailyPremium:   decimal.RequireFromString("1.00"),
		CoverageAmount: decimal.RequireFromString("1000.00"),
		CoverageType:   models.CoverageAccident,
	})
	assert.ErrorIs(t, err, ErrPlanExists)
}

func TestUpdatePlanInvalidatesCache(t *testing.T) {
	svc, store, cache := newPlanFixture(t)
	ctx := context.Background()

	_, err := svc.GetActivePlan(ctx, "GIG_BASIC")
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	_, err = svc.UpdatePlan(ctx, "GIG_BASIC", &models.UpsertPlanRequest{
		PlanCode:       "GIG_BASIC",
		PlanName:       "Gig Basic v2",
		DailyPremium:   decimal.RequireFromString("6.00"),
		CoverageAmount: decimal.RequireFromString("100000.00"),
		CoverageType:   models.CoverageAccident,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.dels)

	// Next lookup sees the new price.
	plan, err := svc.GetActivePlan(ctx, "GIG_BASIC")
	require.NoError(t, err)
	assert.Equal(t, "6.00", plan.DailyPremium.StringFixed(2))

	stored, err := store.GetPlanByCode(ctx, "GIG_BASIC")
	require.NoError(t, err)
	assert.Equal(t, "Gig Basic v2", stored.PlanName)
}

func TestDeactivatePlanHidesItFromActiveLookup(t *testing.T) {
	svc, _, cache := newPlanFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.DeactivatePlan(ctx, "GIG_BASIC"))
	assert.Equal(t, 1, cache.dels)

	_, err := svc.GetActivePlan(ctx, "GIG_BASIC")
	assert.ErrorIs(t, err, ErrPlanNotFound)

	// Retired plans stay resolvable for existing policies.
	plan, err := svc.GetPlan(ctx, "GIG_BASIC")
	require.NoError(t, err)
	assert.False(t, plan.IsActive)
}

func TestSubscriptionPremiumForPlan(t *testing.T) {
	svc, _, _ := newPlanFixture(t)
	ctx := context.Background()

	monthly, err := svc.MonthlyPremiumForPlan(ctx, "GIG_BASIC")
	require.NoError(t, err)
	assert.Equal(t, "135.00", monthly.StringFixed(2)) // 5.00 x 30 x 0.9

	annual, err := svc.AnnualPremiumForPlan(ctx, "GIG_BASIC")
	require.NoError(t, err)
	assert.Equal(t, "1460.00", annual.StringFixed(2)) // 5.00 x 365 x 0.8
}
