package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"humanwork/internal/metrics"
	"humanwork/internal/model"
)

// ChainReader is the subset of the chain client the watcher needs.
type ChainReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, address common.Address, fromBlock, toBlock uint64) ([]types.Log, error)
}

// Dispatcher consumes decoded events.
type Dispatcher interface {
	Dispatch(ctx context.Context, event model.Event)
}

// Config holds runtime settings for the watcher.
type Config struct {
	PollInterval   time.Duration
	StartOffset    uint64
	ErrorThreshold int
	ErrorLogLimit  int
	StatsInterval  time.Duration
}

// Watcher polls each enabled source on its own schedule, decodes new
// logs, and hands events to the dispatcher. Sources fail independently:
// a source that exceeds the error threshold stops for the rest of the
// process lifetime while its siblings keep polling.
type Watcher struct {
	cfg      Config
	chain    ChainReader
	dispatch Dispatcher
	logger   *zap.Logger
	sources  []*Source
}

// New builds a Watcher with its dependencies.
func New(cfg Config, chain ChainReader, dispatch Dispatcher, sources []*Source, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.ErrorThreshold <= 0 {
		cfg.ErrorThreshold = 10
	}
	if cfg.ErrorLogLimit <= 0 {
		cfg.ErrorLogLimit = 3
	}
	return &Watcher{
		cfg:      cfg,
		chain:    chain,
		dispatch: dispatch,
		logger:   logger,
		sources:  sources,
	}
}

// Run initializes cursors from the current head and polls until the
// context is cancelled. Failing to read the initial head is fatal.
func (w *Watcher) Run(ctx context.Context) error {
	if w.chain == nil {
		return fmt.Errorf("chain reader is nil")
	}
	if w.dispatch == nil {
		return fmt.Errorf("dispatcher is nil")
	}

	head, err := w.chain.BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("get initial block height: %w", err)
	}

	var wg sync.WaitGroup
	started := 0
	for _, source := range w.sources {
		if !source.Enabled() {
			w.logger.Warn("source address not configured, skipping", zap.String("source", source.Name()))
			continue
		}

		source.initCursor(head, w.cfg.StartOffset)
		metrics.SourceCursor.WithLabelValues(source.Name()).Set(float64(source.Cursor()))
		w.logger.Info("monitoring source",
			zap.String("source", source.Name()),
			zap.String("address", source.Address().Hex()),
			zap.Uint64("from_block", source.Cursor()+1),
		)

		started++
		wg.Add(1)
		go func(s *Source) {
			defer wg.Done()
			w.pollLoop(ctx, s)
		}(source)
	}

	if started == 0 {
		w.logger.Warn("no sources enabled, watcher is idle")
	}

	if w.cfg.StatsInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.statsLoop(ctx)
		}()
	}

	wg.Wait()
	return ctx.Err()
}

func (w *Watcher) pollLoop(ctx context.Context, source *Source) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if stopped := w.tick(ctx, source); stopped {
			return
		}
	}
}

// tick runs one poll pass for a source. The cursor only advances after a
// fully successful fetch-and-decode pass; any chain failure leaves it in
// place so the same range is retried next tick. Returns true once the
// source has permanently stopped.
func (w *Watcher) tick(ctx context.Context, source *Source) bool {
	head, err := w.chain.BlockNumber(ctx)
	if err != nil {
		return w.recordFailure(source, "get block height", err)
	}

	cursor := source.Cursor()
	if head <= cursor {
		return false
	}

	logs, err := w.chain.FilterLogs(ctx, source.Address(), cursor+1, head)
	if err != nil {
		return w.recordFailure(source, "fetch logs", err)
	}

	if len(logs) > 0 {
		w.logger.Info("logs found",
			zap.String("source", source.Name()),
			zap.Int("count", len(logs)),
			zap.Uint64("from", cursor+1),
			zap.Uint64("to", head),
		)
	}

	for _, rawLog := range logs {
		w.handleLog(ctx, source, rawLog)
	}

	source.completeTick(head)
	metrics.SourceCursor.WithLabelValues(source.Name()).Set(float64(head))
	return false
}

// handleLog dedups by transaction hash, decodes, and dispatches. Logs
// matching no known signature are skipped silently; they belong to event
// types this pipeline does not track.
func (w *Watcher) handleLog(ctx context.Context, source *Source, rawLog types.Log) {
	txHash := rawLog.TxHash.Hex()
	if source.seen(txHash) {
		return
	}

	event, ok, err := source.decoder.Decode(source.Name(), rawLog)
	if err != nil {
		w.logger.Debug("log decode failed",
			zap.String("source", source.Name()),
			zap.String("tx_hash", txHash),
			zap.Error(err),
		)
		return
	}
	if !ok {
		return
	}

	source.markProcessed(txHash)
	metrics.EventsDispatched.WithLabelValues(source.Name(), event.Name).Inc()
	w.logger.Info("event decoded",
		zap.String("source", source.Name()),
		zap.String("event", event.Name),
		zap.String("tx_hash", txHash),
		zap.Uint64("block", rawLog.BlockNumber),
	)

	w.dispatch.Dispatch(ctx, event)
}

// recordFailure bumps the source's failure streak. Only the first few
// failures are logged verbosely; past the threshold the source stops for
// good while other sources continue.
func (w *Watcher) recordFailure(source *Source, op string, err error) bool {
	streak := source.recordError()
	metrics.PollErrors.WithLabelValues(source.Name()).Inc()

	if streak <= w.cfg.ErrorLogLimit {
		w.logger.Error("poll tick failed",
			zap.String("source", source.Name()),
			zap.String("op", op),
			zap.Int("consecutive_errors", streak),
			zap.Error(err),
		)
	}

	if streak > w.cfg.ErrorThreshold {
		source.markStopped()
		metrics.SourcesStopped.Inc()
		w.logger.Error("too many consecutive errors, stopping source",
			zap.String("source", source.Name()),
			zap.Int("consecutive_errors", streak),
		)
		return true
	}
	return false
}

func (w *Watcher) statsLoop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.StatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		for _, source := range w.sources {
			stats := source.Stats()
			w.logger.Info("source stats",
				zap.String("source", stats.Name),
				zap.Bool("enabled", stats.Enabled),
				zap.Bool("stopped", stats.Stopped),
				zap.Uint64("cursor", stats.Cursor),
				zap.Uint64("events", stats.Events),
			)
		}
	}
}
