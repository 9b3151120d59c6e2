package dispatch

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"humanwork/internal/metrics"
	"humanwork/internal/model"
	"humanwork/internal/reputation"
	"humanwork/internal/scoring"
	"humanwork/internal/storage"
)

// disputeContext is the evidence text fed to the scoring engine for a
// freshly created dispute. Detailed evidence arrives through the API
// layer, not the chain event, so creation-time analysis runs on this
// placeholder.
const disputeContext = "Dispute raised for evaluation"

// Handler processes one decoded event.
type Handler func(ctx context.Context, event model.Event)

// Dispatcher routes decoded events to handlers by event name. Events with
// no registered handler are dropped; sources emit event types this
// pipeline does not act on.
type Dispatcher struct {
	store    storage.Store
	rep      *reputation.Updater
	logger   *zap.Logger
	handlers map[string]Handler
	wg       sync.WaitGroup
}

// New builds a dispatcher with the built-in handlers registered.
func New(store storage.Store, rep *reputation.Updater, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		store:    store,
		rep:      rep,
		logger:   logger,
		handlers: make(map[string]Handler),
	}
	d.Register(model.EventProjectCreated, d.handleProjectCreated)
	d.Register(model.EventDisputeCreated, d.handleDisputeCreated)
	d.Register(model.EventDisputeResolved, d.handleDisputeResolved)
	return d
}

// Register binds a handler to an event name, replacing any existing one.
func (d *Dispatcher) Register(eventName string, handler Handler) {
	d.handlers[eventName] = handler
}

// Dispatch routes an event to its handler.
func (d *Dispatcher) Dispatch(ctx context.Context, event model.Event) {
	handler, ok := d.handlers[event.Name]
	if !ok {
		d.logger.Debug("unhandled event",
			zap.String("source", event.Source),
			zap.String("event", event.Name),
		)
		return
	}
	handler(ctx, event)
}

// Wait blocks until in-flight asynchronous analyses have finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// handleProjectCreated ensures both parties exist as users and records
// the project. No reputation changes here.
func (d *Dispatcher) handleProjectCreated(ctx context.Context, event model.Event) {
	data, ok := event.Data.(model.ProjectCreatedData)
	if !ok {
		d.logger.Warn("unexpected payload for ProjectCreated", zap.String("tx_hash", event.TxHash))
		return
	}

	d.logger.Info("project created",
		zap.Uint64("project_id", data.ProjectID),
		zap.String("client", data.Client),
		zap.String("freelancer", data.Freelancer),
	)

	for _, wallet := range []string{data.Client, data.Freelancer} {
		if _, err := d.store.GetOrCreateUser(ctx, wallet); err != nil {
			metrics.HandlerErrors.WithLabelValues(model.EventProjectCreated).Inc()
			d.logger.Error("failed to create user", zap.String("wallet", wallet), zap.Error(err))
		}
	}

	err := d.store.InsertProject(ctx, model.Project{
		ProjectID:         data.ProjectID,
		ClientAddress:     data.Client,
		FreelancerAddress: data.Freelancer,
		Status:            "ACTIVE",
	})
	if err != nil {
		metrics.HandlerErrors.WithLabelValues(model.EventProjectCreated).Inc()
		d.logger.Error("failed to save project", zap.Uint64("project_id", data.ProjectID), zap.Error(err))
	}
}

// handleDisputeCreated persists the dispute and kicks off analysis. A
// persistence failure is logged but does not abort the handler; a
// duplicate dispute id is rejected and the existing analysis kept.
func (d *Dispatcher) handleDisputeCreated(ctx context.Context, event model.Event) {
	data, ok := event.Data.(model.DisputeCreatedData)
	if !ok {
		d.logger.Warn("unexpected payload for DisputeCreated", zap.String("tx_hash", event.TxHash))
		return
	}

	d.logger.Info("dispute created",
		zap.Uint64("project_id", data.ProjectID),
		zap.Uint64("milestone_id", data.MilestoneID),
		zap.String("initiator", data.Initiator),
	)

	// The chain event carries no dispute id; disputes are keyed by
	// project id.
	disputeID := data.ProjectID

	err := d.store.InsertDispute(ctx, model.Dispute{
		DisputeID:        disputeID,
		ProjectID:        data.ProjectID,
		MilestoneID:      data.MilestoneID,
		InitiatorAddress: data.Initiator,
		Status:           model.DisputeStatusOpen,
	})
	if errors.Is(err, storage.ErrDisputeExists) {
		d.logger.Warn("dispute already recorded, keeping existing analysis", zap.Uint64("dispute_id", disputeID))
		return
	}
	if err != nil {
		metrics.HandlerErrors.WithLabelValues(model.EventDisputeCreated).Inc()
		d.logger.Error("failed to save dispute", zap.Uint64("dispute_id", disputeID), zap.Error(err))
	}

	// The analysis write must survive shutdown: Wait drains these
	// goroutines after the signal context is canceled, so they run on a
	// detached context.
	analysisCtx := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.analyzeDispute(analysisCtx, disputeID)
	}()
}

func (d *Dispatcher) analyzeDispute(ctx context.Context, disputeID uint64) {
	result := scoring.Analyze(disputeContext)

	err := d.store.InsertAIAnalysis(ctx, model.Analysis{
		DisputeID:       disputeID,
		ComplianceScore: result.ComplianceScore,
		QualityScore:    result.QualityScore,
		TimelineScore:   result.TimelineScore,
		Verdict:         result.Verdict,
		Confidence:      result.Confidence,
		Reasoning:       result.Reasoning,
	})
	if err != nil {
		metrics.HandlerErrors.WithLabelValues(model.EventDisputeCreated).Inc()
		d.logger.Error("failed to save analysis", zap.Uint64("dispute_id", disputeID), zap.Error(err))
		return
	}

	metrics.DisputesAnalyzed.WithLabelValues(result.Verdict).Inc()
	d.logger.Info("dispute analysis complete",
		zap.Uint64("dispute_id", disputeID),
		zap.Float64("compliance", result.ComplianceScore),
		zap.Float64("quality", result.QualityScore),
		zap.Float64("timeline", result.TimelineScore),
		zap.String("verdict", result.Verdict),
		zap.Float64("confidence", result.Confidence),
	)
}

// handleDisputeResolved marks the dispute resolved and applies the
// verdict to both parties' reputation. The OPEN to RESOLVED transition
// happens at most once; a repeat event changes nothing.
func (d *Dispatcher) handleDisputeResolved(ctx context.Context, event model.Event) {
	data, ok := event.Data.(model.DisputeResolvedData)
	if !ok {
		d.logger.Warn("unexpected payload for DisputeResolved", zap.String("tx_hash", event.TxHash))
		return
	}

	verdict := model.VerdictFromCode(data.Verdict)
	if verdict == "" {
		d.logger.Warn("unknown verdict code",
			zap.Uint64("project_id", data.ProjectID),
			zap.Uint8("code", data.Verdict),
		)
		return
	}

	disputeID := data.ProjectID

	// Load the parties before flipping the dispute to RESOLVED. The
	// transition happens at most once, so anything that fails after it
	// commits is lost for good.
	project, err := d.store.GetProject(ctx, data.ProjectID)
	if err != nil {
		metrics.HandlerErrors.WithLabelValues(model.EventDisputeResolved).Inc()
		d.logger.Error("failed to load project for reputation update",
			zap.Uint64("project_id", data.ProjectID),
			zap.Error(err),
		)
		return
	}

	resolved, err := d.store.ResolveDispute(ctx, disputeID, verdict)
	if err != nil {
		metrics.HandlerErrors.WithLabelValues(model.EventDisputeResolved).Inc()
		d.logger.Error("failed to resolve dispute", zap.Uint64("dispute_id", disputeID), zap.Error(err))
		return
	}
	if !resolved {
		d.logger.Warn("dispute not open, skipping resolution", zap.Uint64("dispute_id", disputeID))
		return
	}

	if _, err := d.rep.ApplyVerdict(ctx, verdict, project.FreelancerAddress, project.ClientAddress); err != nil {
		metrics.HandlerErrors.WithLabelValues(model.EventDisputeResolved).Inc()
		d.logger.Error("failed to update reputation", zap.Uint64("dispute_id", disputeID), zap.Error(err))
	}
}
