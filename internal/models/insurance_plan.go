package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================================
// INSURANCE PLAN (CATALOG ENTRIES)
// ============================================================================

type InsurancePlan struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	PlanCode          string          `json:"plan_code" db:"plan_code"`
	PlanName          string          `json:"plan_name" db:"plan_name"`
	Description       *string         `json:"description,omitempty" db:"description"`
	DailyPremium      decimal.Decimal `json:"daily_premium" db:"daily_premium"`
	CoverageAmount    decimal.Decimal `json:"coverage_amount" db:"coverage_amount"`
	CoverageType      CoverageType    `json:"coverage_type" db:"coverage_type"`
	MinAge            *int            `json:"min_age,omitempty" db:"min_age"`
	MaxAge            *int            `json:"max_age,omitempty" db:"max_age"`
	WaitingPeriodDays int             `json:"waiting_period_days" db:"waiting_period_days"`
	IsActive          bool            `json:"is_active" db:"is_active"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}
