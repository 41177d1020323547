package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// COVERAGE REQUESTS
// ============================================================================

// ToggleCoverageRequest toggles the per-day coverage for a policy.
// CoverageDate is optional ("2006-01-02"); when empty the service uses today
// in its configured timezone.
type ToggleCoverageRequest struct {
	PolicyNumber   string   `json:"policy_number"`
	CoverageDate   string   `json:"coverage_date,omitempty"`
	ToggleCoverage *bool    `json:"toggle_coverage"`
	Location       string   `json:"location,omitempty"`
	GigPlatform    string   `json:"gig_platform,omitempty"`
	Temperature    *float64 `json:"temperature,omitempty"`
}

func (r *ToggleCoverageRequest) Validate() error {
	if r.PolicyNumber == "" {
		return fmt.Errorf("policy_number is required")
	}
	if r.ToggleCoverage == nil {
		return fmt.Errorf("toggle_coverage is required")
	}
	if r.CoverageDate != "" {
		if _, err := time.Parse("2006-01-02", r.CoverageDate); err != nil {
			return fmt.Errorf("coverage_date must be in YYYY-MM-DD format")
		}
	}
	return nil
}

// ============================================================================
// POLICY REQUESTS
// ============================================================================

type CreatePolicyRequest struct {
	PlanCode           string           `json:"plan_code"`
	AutoRenew          *bool            `json:"auto_renew,omitempty"`
	InitialWalletTopUp *decimal.Decimal `json:"initial_wallet_top_up,omitempty"`
}

func (r *CreatePolicyRequest) Validate() error {
	if r.PlanCode == "" {
		return fmt.Errorf("plan_code is required")
	}
	if r.InitialWalletTopUp != nil && r.InitialWalletTopUp.IsNegative() {
		return fmt.Errorf("initial_wallet_top_up cannot be negative")
	}
	return nil
}

type RenewPolicyRequest struct {
	PolicyNumber  string           `json:"policy_number"`
	RenewalMonths *int             `json:"renewal_months,omitempty"`
	WalletTopUp   *decimal.Decimal `json:"wallet_top_up,omitempty"`
}

func (r *RenewPolicyRequest) Validate() error {
	if r.PolicyNumber == "" {
		return fmt.Errorf("policy_number is required")
	}
	if r.RenewalMonths != nil && *r.RenewalMonths <= 0 {
		return fmt.Errorf("renewal_months must be positive")
	}
	if r.WalletTopUp != nil && r.WalletTopUp.IsNegative() {
		return fmt.Errorf("wallet_top_up cannot be negative")
	}
	return nil
}

// WalletAdjustRequest credits (positive) or debits (negative) a policy wallet.
type WalletAdjustRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r *WalletAdjustRequest) Validate() error {
	if r.Amount.IsZero() {
		return fmt.Errorf("amount must be non-zero")
	}
	return nil
}

// ============================================================================
// PREMIUM QUOTE REQUESTS
// ============================================================================

type PremiumQuoteRequest struct {
	PlanCode              string   `json:"plan_code"`
	Temperature           *float64 `json:"temperature,omitempty"`
	Location              string   `json:"location,omitempty"`
	GigPlatform           string   `json:"gig_platform,omitempty"`
	NoClaimYears          int      `json:"no_claim_years,omitempty"`
	IsMonthlySubscription bool     `json:"is_monthly_subscription,omitempty"`
	IsAnnualSubscription  bool     `json:"is_annual_subscription,omitempty"`
}

func (r *PremiumQuoteRequest) Validate() error {
	if r.PlanCode == "" {
		return fmt.Errorf("plan_code is required")
	}
	if r.NoClaimYears < 0 {
		return fmt.Errorf("no_claim_years cannot be negative")
	}
	if r.IsMonthlySubscription && r.IsAnnualSubscription {
		return fmt.Errorf("only one subscription variant may be requested")
	}
	return nil
}

// ============================================================================
// PLAN REQUESTS
// ============================================================================

type UpsertPlanRequest struct {
	PlanCode          string          `json:"plan_code"`
	PlanName          string          `json:"plan_name"`
	Description       *string         `json:"description,omitempty"`
	DailyPremium      decimal.Decimal `json:"daily_premium"`
	CoverageAmount    decimal.Decimal `json:"coverage_amount"`
	CoverageType      CoverageType    `json:"coverage_type"`
	MinAge            *int            `json:"min_age,omitempty"`
	MaxAge            *int            `json:"max_age,omitempty"`
	WaitingPeriodDays *int            `json:"waiting_period_days,omitempty"`
	IsActive          *bool           `json:"is_active,omitempty"`
}

func (r *UpsertPlanRequest) Validate() error {
	if r.PlanCode == "" {
		return fmt.Errorf("plan_code is required")
	}
	if r.PlanName == "" {
		return fmt.Errorf("plan_name is required")
	}
	if r.DailyPremium.IsNegative() {
		return fmt.Errorf("daily_premium cannot be negative")
	}
	if r.CoverageAmount.IsNegative() {
		return fmt.Errorf("coverage_amount cannot be negative")
	}
	switch r.CoverageType {
	case CoverageAccident, CoverageHealth, CoverageComprehensive:
	default:
		return fmt.Errorf("coverage_type must be one of ACCIDENT, HEALTH, COMPREHENSIVE")
	}
	if r.MinAge != nil && r.MaxAge != nil && *r.MinAge > *r.MaxAge {
		return fmt.Errorf("min_age cannot exceed max_age")
	}
	return nil
}
