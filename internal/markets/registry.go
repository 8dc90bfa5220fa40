// internal/markets/registry.go

// Package markets defines the supported sports, the market extraction
// strategies for each, and the data types extracted odds are carried in.
package markets

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Sport identifies a supported sport.
type Sport string

const (
	Football   Sport = "football"
	Tennis     Sport = "tennis"
	Basketball Sport = "basketball"
	IceHockey  Sport = "ice-hockey"
	Baseball   Sport = "baseball"
	Rugby      Sport = "rugby-union"
)

// ParseSport converts a sport name from configuration into a Sport.
func ParseSport(name string) (Sport, error) {
	switch Sport(strings.ToLower(strings.TrimSpace(name))) {
	case Football:
		return Football, nil
	case Tennis:
		return Tennis, nil
	case Basketball:
		return Basketball, nil
	case IceHockey, "hockey":
		return IceHockey, nil
	case Baseball:
		return Baseball, nil
	case Rugby, "rugby":
		return Rugby, nil
	default:
		return "", fmt.Errorf("unsupported sport: %s", name)
	}
}

// MarketStrategy describes how to reach one market on a match page:
// which tab to open, which sub-market block to expand within it (empty
// when the tab itself is the market), and the outcome labels of the
// resulting odds table.
type MarketStrategy struct {
	Key            string
	MainMarket     string
	SpecificMarket string
	OddsLabels     []string
}

type registryKey struct {
	sport Sport
	key   string
}

// Registry is an immutable lookup of per-sport market strategies. Build
// one with a RegistryBuilder.
type Registry struct {
	entries map[registryKey]MarketStrategy
}

// Lookup returns the strategy registered for the given sport and market
// key, if any.
func (r *Registry) Lookup(sport Sport, key string) (MarketStrategy, bool) {
	strategy, ok := r.entries[registryKey{sport: sport, key: key}]
	return strategy, ok
}

// Keys returns the market keys registered for a sport, sorted.
func (r *Registry) Keys(sport Sport) []string {
	var keys []string
	for k := range r.entries {
		if k.sport == sport {
			keys = append(keys, k.key)
		}
	}
	sort.Strings(keys)
	return keys
}

// RegistryBuilder accumulates market strategies and produces an
// immutable Registry.
type RegistryBuilder struct {
	entries map[registryKey]MarketStrategy
}

// NewRegistryBuilder returns an empty builder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{entries: make(map[registryKey]MarketStrategy)}
}

// Register adds a strategy for a sport. Registering the same key twice
// overwrites the earlier entry.
func (b *RegistryBuilder) Register(sport Sport, strategy MarketStrategy) *RegistryBuilder {
	b.entries[registryKey{sport: sport, key: strategy.Key}] = strategy
	return b
}

// Build copies the accumulated entries into a Registry. The builder may
// be reused afterwards without affecting the built registry.
func (b *RegistryBuilder) Build() *Registry {
	entries := make(map[registryKey]MarketStrategy, len(b.entries))
	for k, v := range b.entries {
		entries[k] = v
	}
	return &Registry{entries: entries}
}

// ParseOddsValue parses a displayed odds cell into a float. Cells that
// show a dash or are empty report ok=false.
func ParseOddsValue(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" || cleaned == "-" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
