// internal/fingerprint/fingerprint_test.go
package fingerprint

import (
	"testing"

	"oddscrawler/internal/markets"
)

func TestIdentityFingerprintNormalization(t *testing.T) {
	base := MatchIdentity{
		Sport:     "football",
		MatchDate: "2024-01-15",
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		League:    "premier-league",
	}
	shouted := MatchIdentity{
		Sport:     " FOOTBALL ",
		MatchDate: "2024-01-15",
		HomeTeam:  "ARSENAL",
		AwayTeam:  " chelsea",
		League:    "Premier-League ",
	}

	if IdentityFingerprint(base) != IdentityFingerprint(shouted) {
		t.Error("identity fingerprint should ignore case and surrounding whitespace")
	}

	other := base
	other.AwayTeam = "Tottenham"
	if IdentityFingerprint(base) == IdentityFingerprint(other) {
		t.Error("different matches should have different identity fingerprints")
	}
}

func TestOddsFingerprintDeterminism(t *testing.T) {
	a := map[string]MarketSnapshot{
		"1x2":            {CurrentOdds: []float64{1.85, 3.40, 4.20}, Bookmakers: []string{"bet365", "bet365", "bet365"}},
		"over_under_2_5": {CurrentOdds: []float64{1.90, 1.95}, Bookmakers: []string{"bet365", "bet365"}},
	}
	b := map[string]MarketSnapshot{
		"over_under_2_5": {CurrentOdds: []float64{1.90, 1.95}, Bookmakers: []string{"bet365", "bet365"}},
		"1x2":            {CurrentOdds: []float64{1.85, 3.40, 4.20}, Bookmakers: []string{"bet365", "bet365", "bet365"}},
	}

	if OddsFingerprint(a) != OddsFingerprint(b) {
		t.Error("fingerprint should not depend on map insertion order")
	}

	b["1x2"] = MarketSnapshot{CurrentOdds: []float64{1.86, 3.40, 4.20}, Bookmakers: []string{"bet365", "bet365", "bet365"}}
	if OddsFingerprint(a) == OddsFingerprint(b) {
		t.Error("changed odds should change the fingerprint")
	}
}

func TestClassify(t *testing.T) {
	stored := Triple{Identity: "id-a", Odds: "odds-a", History: "hist-a"}

	tests := []struct {
		name     string
		old      *Triple
		current  Triple
		expected ChangeType
	}{
		{
			name:     "no previous record",
			old:      nil,
			current:  stored,
			expected: ChangeNew,
		},
		{
			name:     "identity mismatch is a new match",
			old:      &stored,
			current:  Triple{Identity: "id-b", Odds: "odds-a", History: "hist-a"},
			expected: ChangeNew,
		},
		{
			name:     "odds changed",
			old:      &stored,
			current:  Triple{Identity: "id-a", Odds: "odds-b", History: "hist-a"},
			expected: ChangeOdds,
		},
		{
			name:     "history changed",
			old:      &stored,
			current:  Triple{Identity: "id-a", Odds: "odds-a", History: "hist-b"},
			expected: ChangeHistory,
		},
		{
			name:     "identity mismatch outranks odds change",
			old:      &stored,
			current:  Triple{Identity: "id-b", Odds: "odds-b", History: "hist-b"},
			expected: ChangeNew,
		},
		{
			name:     "unchanged",
			old:      &stored,
			current:  stored,
			expected: ChangeNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.old, tt.current)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestOddsSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		old      []float64
		current  []float64
		expected float64
	}{
		{
			name:     "identical",
			old:      []float64{1.85, 3.40},
			current:  []float64{1.85, 3.40},
			expected: 1.0,
		},
		{
			name:     "within tolerance",
			old:      []float64{1.85, 3.40},
			current:  []float64{1.86, 3.39},
			expected: 1.0,
		},
		{
			name:     "one of two moved",
			old:      []float64{1.85, 3.40},
			current:  []float64{1.85, 3.60},
			expected: 0.5,
		},
		{
			name:     "length mismatch is not comparable",
			old:      []float64{1.85, 3.40},
			current:  []float64{1.85, 3.40, 4.20, 5.00},
			expected: 0,
		},
		{
			name:     "new bookmaker with all prior odds intact",
			old:      []float64{1.85, 3.40, 4.20},
			current:  []float64{1.85, 3.40, 4.20, 5.00},
			expected: 0,
		},
		{
			name:     "empty against populated",
			old:      nil,
			current:  []float64{1.85},
			expected: 0,
		},
		{
			name:     "both empty",
			old:      nil,
			current:  nil,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := OddsSimilarity(tt.old, tt.current)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestSensitivityShouldIgnore(t *testing.T) {
	tests := []struct {
		sensitivity Sensitivity
		similarity  float64
		expected    bool
	}{
		{SensitivityAggressive, 0.96, true},
		{SensitivityAggressive, 0.95, false},
		{SensitivityAggressive, 1.0, true},
		{SensitivityNormal, 0.96, false},
		{SensitivityNormal, 1.0, true},
		{SensitivityConservative, 0.96, false},
		{SensitivityConservative, 1.0, false},
	}

	for _, tt := range tests {
		result := tt.sensitivity.ShouldIgnore(tt.similarity)
		if result != tt.expected {
			t.Errorf("%s.ShouldIgnore(%v): expected %v, got %v",
				tt.sensitivity, tt.similarity, tt.expected, result)
		}
	}
}

func TestParseSensitivity(t *testing.T) {
	tests := []struct {
		input    string
		expected Sensitivity
		wantErr  bool
	}{
		{"conservative", SensitivityConservative, false},
		{"normal", SensitivityNormal, false},
		{"AGGRESSIVE", SensitivityAggressive, false},
		{"", SensitivityNormal, false},
		{"paranoid", SensitivityNormal, true},
	}

	for _, tt := range tests {
		result, err := ParseSensitivity(tt.input)
		if tt.wantErr && err == nil {
			t.Errorf("ParseSensitivity(%q): expected error", tt.input)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("ParseSensitivity(%q): unexpected error: %v", tt.input, err)
		}
		if result != tt.expected {
			t.Errorf("ParseSensitivity(%q): expected %v, got %v", tt.input, tt.expected, result)
		}
	}
}

func TestCompute(t *testing.T) {
	id := MatchIdentity{
		Sport:     "football",
		MatchDate: "2024-01-15",
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		League:    "premier-league",
	}
	results := map[string]markets.MarketResult{
		"1x2": {
			MarketKey:   "1x2",
			CurrentOdds: []float64{1.85, 3.40, 4.20},
			Bookmakers:  []string{"bet365", "bet365", "bet365"},
		},
	}

	first := Compute(id, results)
	second := Compute(id, results)
	if first != second {
		t.Error("fingerprints should be deterministic")
	}

	results["1x2"] = markets.MarketResult{
		MarketKey:   "1x2",
		CurrentOdds: []float64{1.95, 3.40, 4.20},
		Bookmakers:  []string{"bet365", "bet365", "bet365"},
	}
	moved := Compute(id, results)
	if moved.Odds == first.Odds {
		t.Error("odds movement should change the odds fingerprint")
	}
	if moved.Identity != first.Identity {
		t.Error("odds movement should not change the identity fingerprint")
	}
}
