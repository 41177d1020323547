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
)

// Store is the Postgres implementation of services.Store. Per-policy
// serialization is a SELECT ... FOR UPDATE on the policy row: the balance
// check, debit and coverage-record write all happen under that row lock, so
// two concurrent toggles on one policy cannot both read the pre-debit
// balance. Different policies lock different rows and run in parallel.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreatePolicy(ctx context.Context, policy *models.Policy) error {
	if policy.ID == uuid.Nil {
		policy.ID = uuid.New()
	}
	policy.CreatedAt = time.Now()
	policy.UpdatedAt = time.Now()

	query := `
		INSERT INTO policies (
			id, policy_number, user_id, plan_code, start_date, end_date, status,
			wallet_balance, total_premium_paid, total_claims, total_claims_amount,
			auto_renew, created_at, updated_at
		) VALUES (
			:id, :policy_number, :user_id, :plan_code, :start_date, :end_date, :status,
			:wallet_balance, :total_premium_paid, :total_claims, :total_claims_amount,
			:auto_renew, :created_at, :updated_at
		)`

	_, err := s.db.NamedExecContext(ctx, query, policy)
	if err != nil {
		return fmt.Errorf("failed to create policy: %w", err)
	}

	return nil
}

func (s *Store) GetPolicy(ctx context.Context, policyNumber string) (*models.Policy, error) {
	var policy models.Policy
	query := `SELECT * FROM policies WHERE policy_number = $1`

	err := s.db.GetContext(ctx, &policy, query, policyNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}

	return &policy, nil
}

func (s *Store) ListPoliciesByUser(ctx context.Context, userID string) ([]models.Policy, error) {
	var policies []models.Policy
	query := `SELECT * FROM policies WHERE user_id = $1 ORDER BY created_at DESC`

	err := s.db.SelectContext(ctx, &policies, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list policies by user: %w", err)
	}

	return policies, nil
}

func (s *Store) GetActivePolicyByUser(ctx context.Context, userID string) (*models.Policy, error) {
	var policy models.Policy
	query := `SELECT * FROM policies WHERE user_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT 1`

	err := s.db.GetContext(ctx, &policy, query, userID, models.PolicyActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active policy by user: %w", err)
	}

	return &policy, nil
}

func (s *Store) CountActivePoliciesByUser(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM policies WHERE user_id = $1 AND status = $2`

	err := s.db.GetContext(ctx, &count, query, userID, models.PolicyActive)
	if err != nil {
		return 0, fmt.Errorf("failed to count active policies: %w", err)
	}

	return count, nil
}

func (s *Store) FindCoverageRecord(ctx context.Context, policyID uuid.UUID, date time.Time) (*models.CoverageRecord, error) {
	return findCoverageRecord(ctx, s.db, policyID, date)
}

func (s *Store) InPolicyTx(ctx context.Context, fn func(tx services.PolicyTx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&policyTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// policyTx implements services.PolicyTx over one sqlx transaction.
type policyTx struct {
	tx *sqlx.Tx
}

func (t *policyTx) LockPolicy(ctx context.Context, policyNumber string) (*models.Policy, error) {
	var policy models.Policy
	query := `SELECT * FROM policies WHERE policy_number = $1 FOR UPDATE`

	err := t.tx.GetContext(ctx, &policy, query, policyNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock policy: %w", err)
	}

	return &policy, nil
}

func (t *policyTx) SavePolicy(ctx context.Context, policy *models.Policy) error {
	policy.UpdatedAt = time.Now()

	query := `
		UPDATE policies SET
			plan_code = :plan_code, start_date = :start_date, end_date = :end_date,
			status = :status, wallet_balance = :wallet_balance,
			total_premium_paid = :total_premium_paid, total_claims = :total_claims,
			total_claims_amount = :total_claims_amount, auto_renew = :auto_renew,
			updated_at = :updated_at
		WHERE id = :id`

	_, err := t.tx.NamedExecContext(ctx, query, policy)
	if err != nil {
		return fmt.Errorf("failed to save policy: %w", err)
	}

	return nil
}

func (t *policyTx) FindCoverageRecord(ctx context.Context, policyID uuid.UUID, date time.Time) (*models.CoverageRecord, error) {
	return findCoverageRecord(ctx, t.tx, policyID, date)
}

// SaveCoverageRecord upserts on (policy_id, coverage_date); the unique
// constraint keeps at most one record per policy per day even if two
// transactions race to create it.
func (t *policyTx) SaveCoverageRecord(ctx context.Context, record *models.CoverageRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	record.UpdatedAt = time.Now()

	query := `
		INSERT INTO coverage_records (
			id, policy_id, coverage_date, status, is_active, start_time, end_time,
			premium_amount, coverage_amount, weather_risk_multiplier,
			location, gig_platform, created_at, updated_at
		) VALUES (
			:id, :policy_id, :coverage_date, :status, :is_active, :start_time, :end_time,
			:premium_amount, :coverage_amount, :weather_risk_multiplier,
			:location, :gig_platform, :created_at, :updated_at
		)
		ON CONFLICT (policy_id, coverage_date) DO UPDATE SET
			status = EXCLUDED.status,
			is_active = EXCLUDED.is_active,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			premium_amount = EXCLUDED.premium_amount,
			weather_risk_multiplier = EXCLUDED.weather_risk_multiplier,
			location = EXCLUDED.location,
			gig_platform = EXCLUDED.gig_platform,
			updated_at = EXCLUDED.updated_at`

	_, err := t.tx.NamedExecContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("failed to save coverage record: %w", err)
	}

	return nil
}

func findCoverageRecord(ctx context.Context, q sqlx.QueryerContext, policyID uuid.UUID, date time.Time) (*models.CoverageRecord, error) {
	var record models.CoverageRecord
	query := `SELECT * FROM coverage_records WHERE policy_id = $1 AND coverage_date = $2`

	err := sqlx.GetContext(ctx, q, &record, query, policyID, date.Format("2006-01-02"))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find coverage record: %w", err)
	}

	return &record, nil
}
