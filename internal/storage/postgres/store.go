package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"humanwork/internal/model"
	"humanwork/internal/storage"
)

const uniqueViolationCode = "23505"

// Store provides Postgres persistence for users, projects, disputes, and
// analysis results.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema creates the tables the worker writes to. Failure here is a
// fatal startup condition.
func (s *Store) InitSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			wallet_address TEXT UNIQUE NOT NULL,
			username TEXT,
			role TEXT,
			reputation_score BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id BIGSERIAL PRIMARY KEY,
			project_id BIGINT UNIQUE NOT NULL,
			client_address TEXT NOT NULL,
			freelancer_address TEXT NOT NULL,
			status TEXT,
			total_amount DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS disputes (
			id BIGSERIAL PRIMARY KEY,
			dispute_id BIGINT UNIQUE NOT NULL,
			project_id BIGINT NOT NULL,
			milestone_id BIGINT NOT NULL,
			initiator_address TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'OPEN',
			ai_verdict TEXT,
			ai_confidence DOUBLE PRECISION,
			jury_verdict TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			resolved_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS ai_analysis (
			id BIGSERIAL PRIMARY KEY,
			dispute_id BIGINT UNIQUE NOT NULL,
			contract_compliance_score DOUBLE PRECISION,
			work_quality_score DOUBLE PRECISION,
			timeline_adherence_score DOUBLE PRECISION,
			overall_verdict TEXT,
			confidence_score DOUBLE PRECISION,
			analysis_details TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// GetOrCreateUser returns the user for a wallet, creating it at
// reputation 0 when absent.
func (s *Store) GetOrCreateUser(ctx context.Context, walletAddress string) (model.User, error) {
	if walletAddress == "" {
		return model.User{}, fmt.Errorf("wallet address required")
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (wallet_address, role)
		VALUES ($1, 'USER')
		ON CONFLICT (wallet_address) DO NOTHING
	`, walletAddress)
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	row := s.pool.QueryRow(ctx, `
		SELECT id, wallet_address, COALESCE(role, ''), reputation_score, created_at
		FROM users WHERE wallet_address = $1
	`, walletAddress)
	if err := row.Scan(&user.ID, &user.WalletAddress, &user.Role, &user.ReputationScore, &user.CreatedAt); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// InsertProject records a project; an existing project id is left as is.
func (s *Store) InsertProject(ctx context.Context, project model.Project) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO projects (project_id, client_address, freelancer_address, status, total_amount)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (project_id) DO NOTHING
	`,
		int64(project.ProjectID),
		project.ClientAddress,
		project.FreelancerAddress,
		project.Status,
		project.TotalAmount,
	)
	return err
}

// GetProject returns a project by its on-chain id.
func (s *Store) GetProject(ctx context.Context, projectID uint64) (model.Project, error) {
	var project model.Project
	var id int64
	row := s.pool.QueryRow(ctx, `
		SELECT project_id, client_address, freelancer_address, COALESCE(status, ''), COALESCE(total_amount, 0)
		FROM projects WHERE project_id = $1
	`, int64(projectID))
	if err := row.Scan(&id, &project.ClientAddress, &project.FreelancerAddress, &project.Status, &project.TotalAmount); err != nil {
		return model.Project{}, err
	}
	project.ProjectID = uint64(id)
	return project, nil
}

// InsertDispute records a new OPEN dispute; a duplicate dispute id is
// rejected with storage.ErrDisputeExists.
func (s *Store) InsertDispute(ctx context.Context, dispute model.Dispute) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO disputes (dispute_id, project_id, milestone_id, initiator_address, status)
		VALUES ($1, $2, $3, $4, 'OPEN')
	`,
		int64(dispute.DisputeID),
		int64(dispute.ProjectID),
		int64(dispute.MilestoneID),
		dispute.InitiatorAddress,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return storage.ErrDisputeExists
		}
		return err
	}
	return nil
}

// ResolveDispute transitions OPEN -> RESOLVED at most once.
func (s *Store) ResolveDispute(ctx context.Context, disputeID uint64, verdict string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE disputes
		SET status = 'RESOLVED', jury_verdict = $2, resolved_at = now()
		WHERE dispute_id = $1 AND status = 'OPEN'
	`, int64(disputeID), verdict)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// InsertAIAnalysis writes the analysis row and stamps the verdict and
// confidence onto the dispute, in one transaction.
func (s *Store) InsertAIAnalysis(ctx context.Context, analysis model.Analysis) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO ai_analysis (
			dispute_id, contract_compliance_score, work_quality_score,
			timeline_adherence_score, overall_verdict, confidence_score, analysis_details
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		int64(analysis.DisputeID),
		analysis.ComplianceScore,
		analysis.QualityScore,
		analysis.TimelineScore,
		analysis.Verdict,
		analysis.Confidence,
		analysis.Reasoning,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return storage.ErrDisputeExists
		}
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE disputes SET ai_verdict = $2, ai_confidence = $3
		WHERE dispute_id = $1
	`, int64(analysis.DisputeID), analysis.Verdict, analysis.Confidence)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetUserReputation returns the reputation score for a wallet.
func (s *Store) GetUserReputation(ctx context.Context, walletAddress string) (int64, bool, error) {
	var score int64
	row := s.pool.QueryRow(ctx, `SELECT reputation_score FROM users WHERE wallet_address = $1`, walletAddress)
	if err := row.Scan(&score); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return score, true, nil
}

// UpdateUserReputation overwrites the reputation score for a wallet.
func (s *Store) UpdateUserReputation(ctx context.Context, walletAddress string, score int64) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE users SET reputation_score = $2 WHERE wallet_address = $1
	`, walletAddress, score)
	return err
}

// ApplyReputationDeltas adjusts both parties inside one transaction so a
// concurrent resolution touching the same pair cannot lose an update.
func (s *Store) ApplyReputationDeltas(ctx context.Context, freelancerAddress, clientAddress string, freelancerDelta, clientDelta int64) (model.ReputationOutcome, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.ReputationOutcome{}, err
	}
	defer tx.Rollback(ctx)

	// Lock rows in address order so two resolutions over the same pair
	// cannot deadlock.
	first, second := freelancerAddress, clientAddress
	if second < first {
		first, second = second, first
	}

	for _, addr := range []string{first, second} {
		if _, err := tx.Exec(ctx, `
			INSERT INTO users (wallet_address, role)
			VALUES ($1, 'USER')
			ON CONFLICT (wallet_address) DO NOTHING
		`, addr); err != nil {
			return model.ReputationOutcome{}, err
		}
		if _, err := tx.Exec(ctx, `
			SELECT reputation_score FROM users WHERE wallet_address = $1 FOR UPDATE
		`, addr); err != nil {
			return model.ReputationOutcome{}, err
		}
	}

	freelancer, err := adjustScore(ctx, tx, freelancerAddress, freelancerDelta)
	if err != nil {
		return model.ReputationOutcome{}, err
	}
	client, err := adjustScore(ctx, tx, clientAddress, clientDelta)
	if err != nil {
		return model.ReputationOutcome{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return model.ReputationOutcome{}, err
	}

	return model.ReputationOutcome{Freelancer: freelancer, Client: client}, nil
}

func adjustScore(ctx context.Context, tx pgx.Tx, walletAddress string, delta int64) (model.ReputationChange, error) {
	var old int64
	row := tx.QueryRow(ctx, `SELECT reputation_score FROM users WHERE wallet_address = $1`, walletAddress)
	if err := row.Scan(&old); err != nil {
		return model.ReputationChange{}, err
	}

	next := old + delta
	if next < 0 {
		next = 0
	}

	if _, err := tx.Exec(ctx, `
		UPDATE users SET reputation_score = $2 WHERE wallet_address = $1
	`, walletAddress, next); err != nil {
		return model.ReputationChange{}, err
	}

	return model.ReputationChange{Old: old, New: next}, nil
}
