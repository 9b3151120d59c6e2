package model

// Event names emitted by the monitored contracts.
const (
	EventProjectCreated     = "ProjectCreated"
	EventMilestoneSubmitted = "MilestoneSubmitted"
	EventDisputeCreated     = "DisputeCreated"
	EventDisputeResolved    = "DisputeResolved"
	EventJudgmentRequested  = "JudgmentRequested"
	EventJudgmentFulfilled  = "JudgmentFulfilled"
	EventVoteCasted         = "VoteCasted"
	EventDisputeFinalized   = "DisputeFinalized"
)

// Event is a decoded contract event ready for dispatch. Data holds the
// typed payload for the event name (one of the *Data structs below).
type Event struct {
	Source      string      `json:"source"`
	Name        string      `json:"name"`
	TxHash      string      `json:"tx_hash"`
	BlockNumber uint64      `json:"block_number"`
	Data        interface{} `json:"data"`
}

// ProjectCreatedData is the decoded ProjectCreated payload.
type ProjectCreatedData struct {
	ProjectID  uint64 `json:"project_id"`
	Client     string `json:"client"`
	Freelancer string `json:"freelancer"`
}

// MilestoneSubmittedData is the decoded MilestoneSubmitted payload.
type MilestoneSubmittedData struct {
	ProjectID   uint64 `json:"project_id"`
	MilestoneID uint64 `json:"milestone_id"`
}

// DisputeCreatedData is the decoded DisputeCreated payload.
type DisputeCreatedData struct {
	ProjectID   uint64 `json:"project_id"`
	MilestoneID uint64 `json:"milestone_id"`
	Initiator   string `json:"initiator"`
}

// DisputeResolvedData is the decoded DisputeResolved payload.
type DisputeResolvedData struct {
	ProjectID   uint64 `json:"project_id"`
	MilestoneID uint64 `json:"milestone_id"`
	Verdict     uint8  `json:"verdict"`
}

// JudgmentRequestedData is the decoded JudgmentRequested payload.
type JudgmentRequestedData struct {
	DisputeID uint64 `json:"dispute_id"`
	Evidence  string `json:"evidence"`
}

// JudgmentFulfilledData is the decoded JudgmentFulfilled payload.
type JudgmentFulfilledData struct {
	DisputeID uint64 `json:"dispute_id"`
	Verdict   uint8  `json:"verdict"`
	Reasoning string `json:"reasoning"`
}

// VoteCastedData is the decoded VoteCasted payload.
type VoteCastedData struct {
	DisputeID uint64 `json:"dispute_id"`
	Juror     string `json:"juror"`
	Verdict   uint8  `json:"verdict"`
}

// DisputeFinalizedData is the decoded DisputeFinalized payload.
type DisputeFinalizedData struct {
	DisputeID    uint64 `json:"dispute_id"`
	FinalVerdict uint8  `json:"final_verdict"`
}
