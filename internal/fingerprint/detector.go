// internal/fingerprint/detector.go
package fingerprint

import (
	"context"
	"sync"
	"time"

	"oddscrawler/internal/utils"
)

// Record is the stored snapshot of one match's fingerprints, along with
// the flattened odds used for similarity checks.
type Record struct {
	Triple      Triple    `json:"fingerprints"`
	CurrentOdds []float64 `json:"current_odds"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store persists fingerprint records between crawl runs.
type Store interface {
	// Get returns the stored record for a match, or nil when none
	// exists.
	Get(ctx context.Context, matchID string) (*Record, error)
	// Put stores or replaces the record for a match.
	Put(ctx context.Context, matchID string, record *Record) error
	// Close releases the store.
	Close() error
}

// Decision is the outcome of evaluating a fresh snapshot against the
// store.
type Decision struct {
	Change ChangeType
	// Ignored is true when odds moved but by less than the configured
	// sensitivity allows, so the match is treated as unchanged.
	Ignored bool
	// Similarity is the odds similarity that informed the decision. It
	// is only meaningful for odds changes.
	Similarity float64
}

// Changed reports whether the match should be processed as updated.
func (d Decision) Changed() bool {
	return d.Change != ChangeNone && !d.Ignored
}

// ShouldScrape reports whether the match warrants a full extraction:
// any new match, odds movement, or history growth that survived the
// sensitivity gate.
func (d Decision) ShouldScrape() bool {
	return d.Changed()
}

// ShouldPersistHistory reports whether this snapshot's odds history
// should be written through: odds moved or the history itself grew.
func (d Decision) ShouldPersistHistory() bool {
	return !d.Ignored && (d.Change == ChangeOdds || d.Change == ChangeHistory)
}

// Detector evaluates scraped matches against stored fingerprints.
type Detector struct {
	store       Store
	sensitivity Sensitivity
	logger      utils.Logger
	now         func() time.Time
}

// NewDetector builds a detector over the given store.
func NewDetector(store Store, sensitivity Sensitivity, logger utils.Logger) *Detector {
	return &Detector{
		store:       store,
		sensitivity: sensitivity,
		logger:      logger,
		now:         time.Now,
	}
}

// Evaluate classifies the fresh snapshot, applies the sensitivity gate
// to odds changes, and stores the new record whenever the match counts
// as changed. Unchanged and ignored snapshots leave the store as is so
// similarity keeps being measured against the last accepted state.
func (d *Detector) Evaluate(ctx context.Context, matchID string, triple Triple, currentOdds []float64) (Decision, error) {
	previous, err := d.store.Get(ctx, matchID)
	if err != nil {
		return Decision{}, err
	}

	var oldTriple *Triple
	var oldOdds []float64
	if previous != nil {
		oldTriple = &previous.Triple
		oldOdds = previous.CurrentOdds
	}

	decision := Decision{Change: Classify(oldTriple, triple)}

	if decision.Change == ChangeOdds {
		decision.Similarity = OddsSimilarity(oldOdds, currentOdds)
		if d.sensitivity.ShouldIgnore(decision.Similarity) {
			d.logger.Debugf("match %s odds moved but similarity %.3f is below %s threshold",
				matchID, decision.Similarity, d.sensitivity)
			decision.Ignored = true
			return decision, nil
		}
	}

	if decision.Change == ChangeNone {
		return decision, nil
	}

	record := &Record{
		Triple:      triple,
		CurrentOdds: currentOdds,
		UpdatedAt:   d.now(),
	}
	if err := d.store.Put(ctx, matchID, record); err != nil {
		return decision, err
	}
	return decision, nil
}

// MemoryStore is an in-process Store. It backs tests and runs where no
// persistent store is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Get(ctx context.Context, matchID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[matchID]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (s *MemoryStore) Put(ctx context.Context, matchID string, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *record
	s.records[matchID] = &copied
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
