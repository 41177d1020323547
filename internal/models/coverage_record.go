package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================================
// COVERAGE RECORD (ONE ROW PER POLICY PER CALENDAR DAY)
// ============================================================================

// A coverage record is created lazily on the first toggle for a given date.
// PremiumAmount is written once on activation and never changed afterwards;
// WeatherRiskMultiplier keeps the weather factor that was in effect at
// activation for auditing.
type CoverageRecord struct {
	ID                    uuid.UUID       `json:"id" db:"id"`
	PolicyID              uuid.UUID       `json:"policy_id" db:"policy_id"`
	CoverageDate          time.Time       `json:"coverage_date" db:"coverage_date"`
	Status                CoverageStatus  `json:"status" db:"status"`
	IsActive              bool            `json:"is_active" db:"is_active"`
	StartTime             *time.Time      `json:"start_time,omitempty" db:"start_time"`
	EndTime               *time.Time      `json:"end_time,omitempty" db:"end_time"`
	PremiumAmount         decimal.Decimal `json:"premium_amount" db:"premium_amount"`
	CoverageAmount        decimal.Decimal `json:"coverage_amount" db:"coverage_amount"`
	WeatherRiskMultiplier decimal.Decimal `json:"weather_risk_multiplier" db:"weather_risk_multiplier"`
	Location              *string         `json:"location,omitempty" db:"location"`
	GigPlatform           *string         `json:"gig_platform,omitempty" db:"gig_platform"`
	CreatedAt             time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at" db:"updated_at"`
}

// DateKey normalizes the coverage date to its calendar-day form.
func (r *CoverageRecord) DateKey() string {
	return r.CoverageDate.Format("2006-01-02")
}
