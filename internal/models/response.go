package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CoverageResponse struct {
	PolicyNumber   string          `json:"policy_number"`
	CoverageDate   string          `json:"coverage_date"`
	Status         CoverageStatus  `json:"status"`
	CoverageActive bool            `json:"coverage_active"`
	Message        string          `json:"message"`
	PremiumCharged decimal.Decimal `json:"premium_charged"`
	CoverageAmount decimal.Decimal `json:"coverage_amount"`
	WalletBalance  decimal.Decimal `json:"wallet_balance"`
	GigPlatform    *string         `json:"gig_platform,omitempty"`
	StartTime      *time.Time      `json:"start_time,omitempty"`
	EndTime        *time.Time      `json:"end_time,omitempty"`
}

type CoverageStatusResponse struct {
	PolicyNumber     string          `json:"policy_number"`
	CoverageDate     string          `json:"coverage_date"`
	IsCoverageActive bool            `json:"is_coverage_active"`
	CurrentStatus    CoverageStatus  `json:"current_status"`
	PremiumPaidToday decimal.Decimal `json:"premium_paid_today"`
	WalletBalance    decimal.Decimal `json:"wallet_balance"`
	GigPlatform      *string         `json:"gig_platform,omitempty"`
	Location         *string         `json:"location,omitempty"`
}

type PolicyResponse struct {
	PolicyNumber     string          `json:"policy_number"`
	UserID           string          `json:"user_id"`
	PlanCode         string          `json:"plan_code"`
	PlanName         string          `json:"plan_name"`
	DailyPremium     decimal.Decimal `json:"daily_premium"`
	CoverageAmount   decimal.Decimal `json:"coverage_amount"`
	CoverageType     CoverageType    `json:"coverage_type"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
	Status           PolicyStatus    `json:"status"`
	WalletBalance    decimal.Decimal `json:"wallet_balance"`
	TotalPremiumPaid decimal.Decimal `json:"total_premium_paid"`
	AutoRenew        bool            `json:"auto_renew"`
	DaysRemaining    int             `json:"days_remaining"`
}

type PremiumQuoteResponse struct {
	PlanCode           string          `json:"plan_code"`
	PlanName           string          `json:"plan_name"`
	BasePremium        decimal.Decimal `json:"base_premium"`
	CalculatedPremium  decimal.Decimal `json:"calculated_premium"`
	WeatherMultiplier  decimal.Decimal `json:"weather_multiplier"`
	LocationMultiplier decimal.Decimal `json:"location_multiplier"`
	PlatformMultiplier decimal.Decimal `json:"platform_multiplier"`
	TimeMultiplier     decimal.Decimal `json:"time_multiplier"`
	NoClaimDiscount    decimal.Decimal `json:"no_claim_discount"`
	FinalPremium       decimal.Decimal `json:"final_premium"`
	Currency           string          `json:"currency"`
}
