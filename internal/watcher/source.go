package watcher

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"humanwork/internal/contracts"
)

// Source tracks one monitored contract: its polling cursor, the set of
// transaction hashes already dispatched, and its failure streak. A source
// with the zero address is inert but still listed for observability.
//
// All mutable fields are guarded by mu; each source is polled by exactly
// one goroutine, but the stats ticker reads concurrently.
type Source struct {
	name    string
	address common.Address
	enabled bool
	decoder *contracts.EventDecoder

	mu        sync.Mutex
	cursor    uint64
	processed map[string]struct{}
	order     []string
	dedupCap  int
	errStreak int
	events    uint64
	stopped   bool
}

// SourceStats is a point-in-time snapshot of a source.
type SourceStats struct {
	Name    string
	Enabled bool
	Stopped bool
	Cursor  uint64
	Events  uint64
}

// NewSource builds a source for a contract address. An unset, malformed,
// or zero address yields a disabled source. dedupCap bounds the processed
// transaction set; 0 means unbounded.
func NewSource(name, address string, decoder *contracts.EventDecoder, dedupCap int) *Source {
	s := &Source{
		name:      name,
		decoder:   decoder,
		dedupCap:  dedupCap,
		processed: make(map[string]struct{}),
	}
	if common.IsHexAddress(address) {
		parsed := common.HexToAddress(address)
		if parsed != (common.Address{}) {
			s.address = parsed
			s.enabled = true
		}
	}
	return s
}

func (s *Source) Name() string { return s.name }

func (s *Source) Enabled() bool { return s.enabled }

func (s *Source) Address() common.Address { return s.address }

// Cursor returns the last fully processed block.
func (s *Source) Cursor() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Stats returns a snapshot for logging and metrics.
func (s *Source) Stats() SourceStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SourceStats{
		Name:    s.name,
		Enabled: s.enabled,
		Stopped: s.stopped,
		Cursor:  s.cursor,
		Events:  s.events,
	}
}

// initCursor sets the cold-start cursor to head minus the configured
// offset. Events older than the offset are accepted as missed.
func (s *Source) initCursor(head, offset uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if head > offset {
		s.cursor = head - offset
	} else {
		s.cursor = 0
	}
}

// seen reports whether a transaction hash was already dispatched.
func (s *Source) seen(txHash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.processed[txHash]
	return ok
}

// markProcessed records a dispatched transaction hash and bumps the
// lifetime event count. When the dedup cap is set, the oldest hash is
// evicted once the set exceeds it.
func (s *Source) markProcessed(txHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.processed[txHash]; ok {
		return
	}
	s.processed[txHash] = struct{}{}
	s.order = append(s.order, txHash)
	s.events++

	if s.dedupCap > 0 {
		for len(s.order) > s.dedupCap {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.processed, oldest)
		}
	}
}

// completeTick advances the cursor and clears the failure streak. The
// cursor never moves backwards.
func (s *Source) completeTick(head uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if head > s.cursor {
		s.cursor = head
	}
	s.errStreak = 0
}

// recordError increments and returns the consecutive failure count.
func (s *Source) recordError() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errStreak++
	return s.errStreak
}

// markStopped flags the source as permanently failed.
func (s *Source) markStopped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
}
