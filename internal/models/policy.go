package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================================
// POLICY (PER-USER POLICY INSTANCES WITH PREPAID WALLET)
// ============================================================================

type Policy struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	PolicyNumber      string          `json:"policy_number" db:"policy_number"`
	UserID            string          `json:"user_id" db:"user_id"`
	PlanCode          string          `json:"plan_code" db:"plan_code"`
	StartDate         time.Time       `json:"start_date" db:"start_date"`
	EndDate           time.Time       `json:"end_date" db:"end_date"`
	Status            PolicyStatus    `json:"status" db:"status"`
	WalletBalance     decimal.Decimal `json:"wallet_balance" db:"wallet_balance"`
	TotalPremiumPaid  decimal.Decimal `json:"total_premium_paid" db:"total_premium_paid"`
	TotalClaims       int             `json:"total_claims" db:"total_claims"`
	TotalClaimsAmount decimal.Decimal `json:"total_claims_amount" db:"total_claims_amount"`
	AutoRenew         bool            `json:"auto_renew" db:"auto_renew"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}
