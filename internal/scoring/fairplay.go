package scoring

// Tier classifies how heavily a violation pattern is penalised.
type Tier string

const (
	TierSevere   Tier = "severe"
	TierModerate Tier = "moderate"
	TierLight    Tier = "light"
)

// Deduction maps a violation count threshold to a fixed point deduction.
// For a given type the highest matching MinCount wins.
type Deduction struct {
	Type     ViolationType
	MinCount int
	Tier     Tier
	Points   int
}

// Overflow applies a linear per-event penalty for every occurrence beyond
// Threshold, on top of any tier deduction.
type Overflow struct {
	Type      ViolationType
	Threshold int
	PerEvent  int
}

// RuleSet is the versioned fairplay rule table. Keeping the rules as data
// makes the deduction policy auditable and keeps a single canonical version
// shared by every consumer.
type RuleSet struct {
	Version    string
	Deductions []Deduction
	Overflows  []Overflow
}

// DefaultRules returns the canonical fairplay rule table.
func DefaultRules() RuleSet {
	return RuleSet{
		Version: "2024.1",
		Deductions: []Deduction{
			{Type: ViolationMultipleFaces, MinCount: 2, Tier: TierSevere, Points: 25},
			{Type: ViolationMultipleFaces, MinCount: 1, Tier: TierModerate, Points: 15},
			{Type: ViolationPhoneDetected, MinCount: 1, Tier: TierSevere, Points: 25},
			{Type: ViolationNoFace, MinCount: 15, Tier: TierSevere, Points: 25},
			{Type: ViolationNoFace, MinCount: 5, Tier: TierModerate, Points: 15},
			{Type: ViolationNoFace, MinCount: 1, Tier: TierLight, Points: 5},
			{Type: ViolationTabSwitch, MinCount: 5, Tier: TierModerate, Points: 15},
			{Type: ViolationTabSwitch, MinCount: 1, Tier: TierLight, Points: 5},
			{Type: ViolationLookingAway, MinCount: 10, Tier: TierLight, Points: 5},
			{Type: ViolationCopyPaste, MinCount: 1, Tier: TierModerate, Points: 15},
			{Type: ViolationPrintScreen, MinCount: 1, Tier: TierModerate, Points: 15},
			{Type: ViolationMouseExit, MinCount: 10, Tier: TierLight, Points: 5},
		},
		Overflows: []Overflow{
			{Type: ViolationNoFace, Threshold: 15, PerEvent: 2},
		},
	}
}

// FairplayScore maps violation counts to an integrity score. The score always
// lands in [0,100] no matter how extreme the counts are.
func (r RuleSet) FairplayScore(summary ViolationSummary) int {
	score := 100

	// Highest matching threshold per type wins.
	applied := make(map[ViolationType]Deduction)
	for _, rule := range r.Deductions {
		count := summary.Count(rule.Type)
		if count < rule.MinCount {
			continue
		}
		if best, ok := applied[rule.Type]; !ok || rule.MinCount > best.MinCount {
			applied[rule.Type] = rule
		}
	}
	for _, rule := range applied {
		score -= rule.Points
	}

	for _, overflow := range r.Overflows {
		count := summary.Count(overflow.Type)
		if count > overflow.Threshold {
			score -= (count - overflow.Threshold) * overflow.PerEvent
		}
	}

	return clampInt(score, 0, 100)
}

// TierFor reports the tier triggered by the recorded count for a type, or an
// empty tier when no rule matched.
func (r RuleSet) TierFor(summary ViolationSummary, t ViolationType) Tier {
	var best *Deduction
	for i, rule := range r.Deductions {
		if rule.Type != t || summary.Count(t) < rule.MinCount {
			continue
		}
		if best == nil || rule.MinCount > best.MinCount {
			best = &r.Deductions[i]
		}
	}
	if best == nil {
		return ""
	}
	return best.Tier
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
