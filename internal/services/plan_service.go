package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"insurance-service/internal/models"
	"insurance-service/internal/premium"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanService serves the plan catalog. Active-plan lookups sit on the hot
// path of every coverage activation, so they go through a cache-aside redis
// layer; any cache failure falls through to the store.
type PlanService struct {
	store PlanStore
	cache PlanCache
	calc  *premium.Calculator
	ttl   time.Duration
}

func NewPlanService(store PlanStore, cache PlanCache, calc *premium.Calculator, cacheTTL time.Duration) *PlanService {
	return &PlanService{
		store: store,
		cache: cache,
		calc:  calc,
		ttl:   cacheTTL,
	}
}

func activePlanCacheKey(planCode string) string {
	return "insurance:plan:active:" + planCode
}

// GetActivePlan implements PlanLookup.
func (s *PlanService) GetActivePlan(ctx context.Context, planCode string) (*models.InsurancePlan, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, activePlanCacheKey(planCode)); err != nil {
			slog.Warn("plan cache read failed", "plan_code", planCode, "error", err)
		} else if cached != "" {
			var plan models.InsurancePlan
			if err := json.Unmarshal([]byte(cached), &plan); err == nil {
				return &plan, nil
			}
		}
	}

	plan, err := s.store.GetActivePlanByCode(ctx, planCode)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(plan); err == nil {
			if err := s.cache.Set(ctx, activePlanCacheKey(planCode), string(payload), s.ttl); err != nil {
				slog.Warn("plan cache write failed", "plan_code", planCode, "error", err)
			}
		}
	}

	return plan, nil
}

// GetPlan implements PlanCatalog; it finds plans regardless of active flag.
func (s *PlanService) GetPlan(ctx context.Context, planCode string) (*models.InsurancePlan, error) {
	return s.store.GetPlanByCode(ctx, planCode)
}

func (s *PlanService) ListActivePlans(ctx context.Context) ([]models.InsurancePlan, error) {
	return s.store.ListActivePlans(ctx)
}

func (s *PlanService) ListPlansByCoverageType(ctx context.Context, coverageType models.CoverageType) ([]models.InsurancePlan, error) {
	return s.store.ListPlansByCoverageType(ctx, coverageType)
}

func (s *PlanService) ListEligiblePlansByAge(ctx context.Context, age int) ([]models.InsurancePlan, error) {
	return s.store.ListEligiblePlansByAge(ctx, age)
}

func (s *PlanService) ListPlansWithinBudget(ctx context.Context, maxDailyPremium decimal.Decimal) ([]models.InsurancePlan, error) {
	return s.store.ListPlansWithinBudget(ctx, maxDailyPremium)
}

func (s *PlanService) ListPlansWithMinCoverage(ctx context.Context, minCoverage decimal.Decimal) ([]models.InsurancePlan, error) {
	return s.store.ListPlansWithMinCoverage(ctx, minCoverage)
}

func (s *PlanService) ListCoverageTypes(ctx context.Context) ([]models.CoverageType, error) {
	return s.store.ListCoverageTypes(ctx)
}

func (s *PlanService) CreatePlan(ctx context.Context, req *models.UpsertPlanRequest) (*models.InsurancePlan, error) {
	if existing, err := s.store.GetPlanByCode(ctx, req.PlanCode); err == nil && existing != nil {
		return nil, ErrPlanExists
	}

	plan := &models.InsurancePlan{
		ID:                uuid.New(),
		PlanCode:          req.PlanCode,
		PlanName:          req.PlanName,
		Description:       req.Description,
		DailyPremium:      req.DailyPremium,
		CoverageAmount:    req.CoverageAmount,
		CoverageType:      req.CoverageType,
		MinAge:            req.MinAge,
		MaxAge:            req.MaxAge,
		WaitingPeriodDays: 30,
		IsActive:          true,
	}
	if req.WaitingPeriodDays != nil {
		plan.WaitingPeriodDays = *req.WaitingPeriodDays
	}

	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}

	slog.Info("insurance plan created", "plan_code", plan.PlanCode, "plan_name", plan.PlanName)
	return plan, nil
}

func (s *PlanService) UpdatePlan(ctx context.Context, planCode string, req *models.UpsertPlanRequest) (*models.InsurancePlan, error) {
	plan, err := s.store.GetPlanByCode(ctx, planCode)
	if err != nil {
		return nil, err
	}

	plan.PlanName = req.PlanName
	plan.Description = req.Description
	plan.DailyPremium = req.DailyPremium
	plan.CoverageAmount = req.CoverageAmount
	plan.CoverageType = req.CoverageType
	plan.MinAge = req.MinAge
	plan.MaxAge = req.MaxAge
	if req.WaitingPeriodDays != nil {
		plan.WaitingPeriodDays = *req.WaitingPeriodDays
	}
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if err := s.store.UpdatePlan(ctx, plan); err != nil {
		return nil, err
	}
	s.invalidate(ctx, planCode)

	slog.Info("insurance plan updated", "plan_code", planCode)
	return plan, nil
}

func (s *PlanService) DeactivatePlan(ctx context.Context, planCode string) error {
	plan, err := s.store.GetPlanByCode(ctx, planCode)
	if err != nil {
		return err
	}

	plan.IsActive = false
	if err := s.store.UpdatePlan(ctx, plan); err != nil {
		return err
	}
	s.invalidate(ctx, planCode)

	slog.Info("insurance plan deactivated", "plan_code", planCode)
	return nil
}

// MonthlyPremiumForPlan prices a 30-day subscription of the plan.
func (s *PlanService) MonthlyPremiumForPlan(ctx context.Context, planCode string) (decimal.Decimal, error) {
	plan, err := s.store.GetPlanByCode(ctx, planCode)
	if err != nil {
		return decimal.Zero, err
	}
	return s.calc.MonthlyPremium(plan.DailyPremium), nil
}

// AnnualPremiumForPlan prices a 365-day subscription of the plan.
func (s *PlanService) AnnualPremiumForPlan(ctx context.Context, planCode string) (decimal.Decimal, error) {
	plan, err := s.store.GetPlanByCode(ctx, planCode)
	if err != nil {
		return decimal.Zero, err
	}
	return s.calc.AnnualPremium(plan.DailyPremium), nil
}

func (s *PlanService) invalidate(ctx context.Context, planCode string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, activePlanCacheKey(planCode)); err != nil {
		slog.Warn("plan cache invalidation failed", "plan_code", planCode, "error", err)
	}
}
