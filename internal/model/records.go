package model

import "time"

// User is a wallet-addressed participant with a reputation score.
type User struct {
	ID              int64     `json:"id"`
	WalletAddress   string    `json:"wallet_address"`
	Role            string    `json:"role"`
	ReputationScore int64     `json:"reputation_score"`
	CreatedAt       time.Time `json:"created_at"`
}

// Project is an escrow project between a client and a freelancer.
type Project struct {
	ProjectID         uint64  `json:"project_id"`
	ClientAddress     string  `json:"client_address"`
	FreelancerAddress string  `json:"freelancer_address"`
	Status            string  `json:"status"`
	TotalAmount       float64 `json:"total_amount"`
}

// Dispute statuses.
const (
	DisputeStatusOpen     = "OPEN"
	DisputeStatusResolved = "RESOLVED"
)

// Dispute is a milestone dispute raised on chain.
type Dispute struct {
	DisputeID        uint64     `json:"dispute_id"`
	ProjectID        uint64     `json:"project_id"`
	MilestoneID      uint64     `json:"milestone_id"`
	InitiatorAddress string     `json:"initiator_address"`
	Status           string     `json:"status"`
	AIVerdict        string     `json:"ai_verdict"`
	AIConfidence     float64    `json:"ai_confidence"`
	JuryVerdict      string     `json:"jury_verdict"`
	CreatedAt        time.Time  `json:"created_at"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
}

// Analysis is the scoring engine result persisted for a dispute.
// One row per dispute, immutable once written.
type Analysis struct {
	DisputeID       uint64  `json:"dispute_id"`
	ComplianceScore float64 `json:"compliance_score"`
	QualityScore    float64 `json:"quality_score"`
	TimelineScore   float64 `json:"timeline_score"`
	Verdict         string  `json:"verdict"`
	Confidence      float64 `json:"confidence"`
	Reasoning       string  `json:"reasoning"`
}

// ReputationChange records a score transition for one wallet.
type ReputationChange struct {
	Old int64 `json:"old"`
	New int64 `json:"new"`
}

// ReputationOutcome is the result of applying a verdict to both parties.
type ReputationOutcome struct {
	Freelancer ReputationChange `json:"freelancer"`
	Client     ReputationChange `json:"client"`
}
