// internal/fingerprint/fingerprint.go

// Package fingerprint implements incremental change detection for
// scraped matches. Each match is summarized by three fingerprints
// covering identity, current odds, and odds history, so re-crawls can
// tell exactly what changed and skip work accordingly.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"oddscrawler/internal/markets"
	"oddscrawler/internal/utils"
)

// MatchIdentity is the stable identification of a match. Fields are
// normalized before hashing, so case and surrounding whitespace do not
// produce distinct identities.
type MatchIdentity struct {
	Sport     string
	MatchDate string
	HomeTeam  string
	AwayTeam  string
	League    string
}

// Triple holds the three fingerprints of one match snapshot.
type Triple struct {
	Identity string `json:"identity"`
	Odds     string `json:"odds"`
	History  string `json:"history"`
}

// MarketSnapshot is the odds-relevant view of one extracted market.
type MarketSnapshot struct {
	CurrentOdds []float64 `json:"current_odds"`
	Bookmakers  []string  `json:"bookmakers"`
}

func hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// IdentityFingerprint hashes the normalized identity fields joined in a
// fixed order.
func IdentityFingerprint(id MatchIdentity) string {
	parts := []string{
		utils.NormalizeKey(id.Sport),
		utils.NormalizeKey(id.MatchDate),
		utils.NormalizeKey(id.HomeTeam),
		utils.NormalizeKey(id.AwayTeam),
		utils.NormalizeKey(id.League),
	}
	return hash([]byte(strings.Join(parts, "|")))
}

// OddsFingerprint hashes the current odds of all markets. Marshaling a
// map keyed by market sorts the keys, so the encoding is canonical.
func OddsFingerprint(snapshots map[string]MarketSnapshot) string {
	data, err := json.Marshal(snapshots)
	if err != nil {
		// Only unsupported value types can fail here, and the snapshot
		// holds none.
		return hash([]byte(fmt.Sprintf("%v", snapshots)))
	}
	return hash(data)
}

// HistoryFingerprint hashes the odds history of all markets.
func HistoryFingerprint(histories map[string][]markets.BookmakerHistory) string {
	data, err := json.Marshal(histories)
	if err != nil {
		return hash([]byte(fmt.Sprintf("%v", histories)))
	}
	return hash(data)
}

// Compute builds the fingerprint triple for one scraped match.
func Compute(id MatchIdentity, results map[string]markets.MarketResult) Triple {
	snapshots := make(map[string]MarketSnapshot, len(results))
	histories := make(map[string][]markets.BookmakerHistory)
	for key, result := range results {
		snapshots[key] = MarketSnapshot{
			CurrentOdds: result.CurrentOdds,
			Bookmakers:  result.Bookmakers,
		}
		if len(result.History) > 0 {
			histories[key] = result.History
		}
	}
	return Triple{
		Identity: IdentityFingerprint(id),
		Odds:     OddsFingerprint(snapshots),
		History:  HistoryFingerprint(histories),
	}
}

// ChangeType says which tier of a match snapshot changed since the
// stored fingerprints. Tiers are checked in identity, odds, history
// order and the first difference wins.
type ChangeType int

const (
	// ChangeNone means all three fingerprints match.
	ChangeNone ChangeType = iota
	// ChangeNew means no previous snapshot exists, or the stored one
	// describes a different match.
	ChangeNew
	// ChangeOdds means current odds moved.
	ChangeOdds
	// ChangeHistory means only the odds history grew.
	ChangeHistory
)

func (c ChangeType) String() string {
	switch c {
	case ChangeNone:
		return "none"
	case ChangeNew:
		return "new"
	case ChangeOdds:
		return "odds"
	case ChangeHistory:
		return "history"
	default:
		return "unknown"
	}
}

// Classify compares a stored triple with a fresh one. An identity
// mismatch means the stored record belongs to another match, so the
// snapshot is treated like a first sighting.
func Classify(old *Triple, current Triple) ChangeType {
	if old == nil {
		return ChangeNew
	}
	if old.Identity != current.Identity {
		return ChangeNew
	}
	if old.Odds != current.Odds {
		return ChangeOdds
	}
	if old.History != current.History {
		return ChangeHistory
	}
	return ChangeNone
}

// oddsTolerance is the absolute difference below which two odds values
// count as equal for similarity purposes.
const oddsTolerance = 0.01

// OddsSimilarity returns the fraction of positionally aligned odds that
// are within tolerance of each other. The comparison only makes sense
// between snapshots of the same shape: when the lengths differ, or
// either side is empty, the sets are not comparable and the similarity
// is 0 so the change is never gated away.
func OddsSimilarity(old, current []float64) float64 {
	if len(old) == 0 || len(current) == 0 || len(old) != len(current) {
		return 0
	}

	matches := 0
	for i := range old {
		if math.Abs(old[i]-current[i]) <= oddsTolerance {
			matches++
		}
	}
	return float64(matches) / float64(len(old))
}

// Sensitivity controls how large an odds movement must be before a
// re-scraped match counts as changed.
type Sensitivity int

const (
	// SensitivityConservative treats every fingerprint difference as a
	// change.
	SensitivityConservative Sensitivity = iota
	// SensitivityNormal ignores odds differences whose values are all
	// within tolerance.
	SensitivityNormal
	// SensitivityAggressive also ignores small movements, skipping
	// anything more than 95% similar.
	SensitivityAggressive
)

// ParseSensitivity converts a configuration value to a Sensitivity.
func ParseSensitivity(name string) (Sensitivity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "conservative":
		return SensitivityConservative, nil
	case "", "normal":
		return SensitivityNormal, nil
	case "aggressive":
		return SensitivityAggressive, nil
	default:
		return SensitivityNormal, fmt.Errorf("unknown sensitivity: %s", name)
	}
}

func (s Sensitivity) String() string {
	switch s {
	case SensitivityConservative:
		return "conservative"
	case SensitivityAggressive:
		return "aggressive"
	default:
		return "normal"
	}
}

// ShouldIgnore reports whether an odds change with the given similarity
// is too small to count under this sensitivity.
func (s Sensitivity) ShouldIgnore(similarity float64) bool {
	switch s {
	case SensitivityAggressive:
		return similarity > 0.95
	case SensitivityNormal:
		return similarity >= 1.0
	default:
		return false
	}
}
