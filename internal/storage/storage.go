package storage

import (
	"context"
	"errors"

	"humanwork/internal/model"
)

// ErrDisputeExists signals that a dispute id is already recorded. A second
// DisputeCreated for the same id is rejected rather than overwritten.
var ErrDisputeExists = errors.New("dispute already exists")

// Store is the persistence gateway consumed by the event pipeline. The
// HTTP and dashboard layers read through the same gateway.
type Store interface {
	// GetOrCreateUser returns the user for a wallet address, creating it
	// with default reputation 0 if absent.
	GetOrCreateUser(ctx context.Context, walletAddress string) (model.User, error)

	// InsertProject records an escrow project. Re-inserting an existing
	// project id is a no-op.
	InsertProject(ctx context.Context, project model.Project) error

	// GetProject returns a project by its on-chain id.
	GetProject(ctx context.Context, projectID uint64) (model.Project, error)

	// InsertDispute records a new OPEN dispute. Returns ErrDisputeExists
	// if the dispute id is already present.
	InsertDispute(ctx context.Context, dispute model.Dispute) error

	// ResolveDispute transitions a dispute from OPEN to RESOLVED and
	// records the jury verdict. Returns false if the dispute was not
	// OPEN, so the transition happens at most once.
	ResolveDispute(ctx context.Context, disputeID uint64, verdict string) (bool, error)

	// InsertAIAnalysis records the scoring result for a dispute and
	// stamps the verdict onto the dispute row. The analysis row is
	// immutable once written.
	InsertAIAnalysis(ctx context.Context, analysis model.Analysis) error

	// GetUserReputation returns the reputation score for a wallet, with
	// ok=false when the user does not exist.
	GetUserReputation(ctx context.Context, walletAddress string) (int64, bool, error)

	// UpdateUserReputation overwrites the reputation score for a wallet.
	UpdateUserReputation(ctx context.Context, walletAddress string, score int64) error

	// ApplyReputationDeltas adjusts both parties' scores in a single
	// transaction, flooring each result at zero, and returns the old and
	// new values. Missing users are created at score 0 first.
	ApplyReputationDeltas(ctx context.Context, freelancerAddress, clientAddress string, freelancerDelta, clientDelta int64) (model.ReputationOutcome, error)
}
