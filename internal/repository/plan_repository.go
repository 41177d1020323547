package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"insurance-service/internal/models"
	"insurance-service/internal/services"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// PlanRepository is the Postgres implementation of services.PlanStore.
type PlanRepository struct {
	db *sqlx.DB
}

func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) CreatePlan(ctx context.Context, plan *models.InsurancePlan) error {
	if plan.ID == uuid.Nil {
		plan.ID = uuid.New()
	}
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()

	query := `
		INSERT INTO insurance_plans (
			id, plan_code, plan_name, description, daily_premium, coverage_amount,
			coverage_type, min_age, max_age, waiting_period_days, is_active,
			created_at, updated_at
		) VALUES (
			:id, :plan_code, :plan_name, :description, :daily_premium, :coverage_amount,
			:coverage_type, :min_age, :max_age, :waiting_period_days, :is_active,
			:created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, plan)
	if err != nil {
		return fmt.Errorf("failed to create insurance plan: %w", err)
	}

	return nil
}

func (r *PlanRepository) GetPlanByCode(ctx context.Context, planCode string) (*models.InsurancePlan, error) {
	var plan models.InsurancePlan
	query := `SELECT * FROM insurance_plans WHERE plan_code = $1`

	err := r.db.GetContext(ctx, &plan, query, planCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get insurance plan: %w", err)
	}

	return &plan, nil
}

func (r *PlanRepository) GetActivePlanByCode(ctx context.Context, planCode string) (*models.InsurancePlan, error) {
	var plan models.InsurancePlan
	query := `SELECT * FROM insurance_plans WHERE plan_code = $1 AND is_active = true`

	err := r.db.GetContext(ctx, &plan, query, planCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active insurance plan: %w", err)
	}

	return &plan, nil
}

func (r *PlanRepository) ListActivePlans(ctx context.Context) ([]models.InsurancePlan, error) {
	var plans []models.InsurancePlan
	query := `SELECT * FROM insurance_plans WHERE is_active = true ORDER BY plan_code`

	err := r.db.SelectContext(ctx, &plans, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active insurance plans: %w", err)
	}

	return plans, nil
}

func (r *PlanRepository) ListPlansByCoverageType(ctx context.Context, coverageType models.CoverageType) ([]models.InsurancePlan, error) {
	var plans []models.InsurancePlan
	query := `SELECT * FROM insurance_plans WHERE coverage_type = $1 AND is_active = true ORDER BY plan_code`

	err := r.db.SelectContext(ctx, &plans, query, coverageType)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans by coverage type: %w", err)
	}

	return plans, nil
}

func (r *PlanRepository) ListEligiblePlansByAge(ctx context.Context, age int) ([]models.InsurancePlan, error) {
	var plans []models.InsurancePlan
	query := `
		SELECT * FROM insurance_plans
		WHERE is_active = true
		  AND (min_age IS NULL OR min_age <= $1)
		  AND (max_age IS NULL OR max_age >= $1)
		ORDER BY plan_code`

	err := r.db.SelectContext(ctx, &plans, query, age)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible plans by age: %w", err)
	}

	return plans, nil
}

func (r *PlanRepository) ListPlansWithinBudget(ctx context.Context, maxDailyPremium decimal.Decimal) ([]models.InsurancePlan, error) {
	var plans []models.InsurancePlan
	query := `SELECT * FROM insurance_plans WHERE is_active = true AND daily_premium <= $1 ORDER BY daily_premium`

	err := r.db.SelectContext(ctx, &plans, query, maxDailyPremium)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans within budget: %w", err)
	}

	return plans, nil
}

func (r *PlanRepository) ListPlansWithMinCoverage(ctx context.Context, minCoverage decimal.Decimal) ([]models.InsurancePlan, error) {
	var plans []models.InsurancePlan
	query := `SELECT * FROM insurance_plans WHERE is_active = true AND coverage_amount >= $1 ORDER BY coverage_amount`

	err := r.db.SelectContext(ctx, &plans, query, minCoverage)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans with minimum coverage: %w", err)
	}

	return plans, nil
}

func (r *PlanRepository) ListCoverageTypes(ctx context.Context) ([]models.CoverageType, error) {
	var types []models.CoverageType
	query := `SELECT DISTINCT coverage_type FROM insurance_plans WHERE is_active = true ORDER BY coverage_type`

	err := r.db.SelectContext(ctx, &types, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list coverage types: %w", err)
	}

	return types, nil
}

func (r *PlanRepository) UpdatePlan(ctx context.Context, plan *models.InsurancePlan) error {
	plan.UpdatedAt = time.Now()

	query := `
		UPDATE insurance_plans SET
			plan_name = :plan_name, description = :description,
			daily_premium = :daily_premium, coverage_amount = :coverage_amount,
			coverage_type = :coverage_type, min_age = :min_age, max_age = :max_age,
			waiting_period_days = :waiting_period_days, is_active = :is_active,
			updated_at = :updated_at
		WHERE id = :id`

	_, err := r.db.NamedExecContext(ctx, query, plan)
	if err != nil {
		return fmt.Errorf("failed to update insurance plan: %w", err)
	}

	return nil
}
