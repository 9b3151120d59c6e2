package reputation

import (
	"context"

	"go.uber.org/zap"

	"humanwork/internal/model"
)

// Fixed reputation deltas applied on dispute resolution.
const (
	disputeWinDelta    = 50
	disputeLossDelta   = -20
	partialRefundDelta = 10
)

// Store is the subset of the persistence gateway the updater needs.
type Store interface {
	ApplyReputationDeltas(ctx context.Context, freelancerAddress, clientAddress string, freelancerDelta, clientDelta int64) (model.ReputationOutcome, error)
}

// Updater applies verdicts to both parties' reputation scores.
type Updater struct {
	store  Store
	logger *zap.Logger
}

func New(store Store, logger *zap.Logger) *Updater {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Updater{store: store, logger: logger}
}

// Deltas returns the score adjustments for a verdict. Unknown verdicts
// adjust nothing.
func Deltas(verdict string) (freelancer, client int64) {
	switch verdict {
	case model.VerdictFreelancerWin:
		return disputeWinDelta, disputeLossDelta
	case model.VerdictClientWin:
		return disputeLossDelta, disputeWinDelta
	case model.VerdictPartialRefund:
		return partialRefundDelta, partialRefundDelta
	default:
		return 0, 0
	}
}

// ApplyVerdict adjusts both parties' scores for the verdict, flooring
// each result at zero, and returns the old and new values.
func (u *Updater) ApplyVerdict(ctx context.Context, verdict, freelancerAddress, clientAddress string) (model.ReputationOutcome, error) {
	freelancerDelta, clientDelta := Deltas(verdict)

	outcome, err := u.store.ApplyReputationDeltas(ctx, freelancerAddress, clientAddress, freelancerDelta, clientDelta)
	if err != nil {
		return model.ReputationOutcome{}, err
	}

	u.logger.Info("reputation updated",
		zap.String("verdict", verdict),
		zap.Int64("freelancer_old", outcome.Freelancer.Old),
		zap.Int64("freelancer_new", outcome.Freelancer.New),
		zap.Int64("client_old", outcome.Client.Old),
		zap.Int64("client_new", outcome.Client.New),
	)

	return outcome, nil
}
