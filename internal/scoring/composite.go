package scoring

// Candidate status tiers derived from the overall score.
const (
	StatusHighMatch = "High Match"
	StatusPotential = "Potential"
	StatusReject    = "Reject"
	StatusNotTested = "Not Tested"
)

// Hiring verdicts attached to status tiers.
const (
	VerdictHire   = "Hire"
	VerdictNoHire = "No-Hire"
)

// Weights are the evaluation criteria percentages. They are expected to sum
// to 100; callers validate recruiter-supplied overrides before use.
type Weights struct {
	Technical    float64
	Psychometric float64
	SoftSkill    float64
	Fairplay     float64
}

// DefaultWeights returns the recommended 1.5:1:1:0.5 split.
func DefaultWeights() Weights {
	return Weights{
		Technical:    37.5,
		Psychometric: 25,
		SoftSkill:    25,
		Fairplay:     12.5,
	}
}

// Total sums the configured percentages.
func (w Weights) Total() float64 {
	return w.Technical + w.Psychometric + w.SoftSkill + w.Fairplay
}

// Components carries the per-round inputs for a composite computation. A nil
// round score means the round was never taken, which is distinct from a
// scored zero.
type Components struct {
	Technical    *float64
	Psychometric *float64
	SoftSkill    *float64
	Fairplay     int
}

// Composite is the derived candidate evaluation. It is recomputed on every
// read and never persisted as authoritative.
type Composite struct {
	Technical    *float64 `json:"technical_score"`
	Psychometric *float64 `json:"psychometric_score"`
	SoftSkill    *float64 `json:"soft_skill_score"`
	Fairplay     int      `json:"fairplay_score"`
	Overall      *float64 `json:"overall_score"`
	Status       string   `json:"status"`
	Verdict      string   `json:"verdict"`
}

// Compute folds component scores into an overall score and verdict. Missing
// upstream data degrades to zero inside the weighted sum; the computation
// itself never fails. When no round has been taken at all the candidate is
// reported as Not Tested with a nil overall score.
func Compute(c Components, w Weights) Composite {
	result := Composite{
		Technical:    c.Technical,
		Psychometric: c.Psychometric,
		SoftSkill:    c.SoftSkill,
		Fairplay:     clampInt(c.Fairplay, 0, 100),
	}

	if c.Technical == nil && c.Psychometric == nil && c.SoftSkill == nil {
		result.Status = StatusNotTested
		result.Verdict = VerdictNoHire
		return result
	}

	overall := scoreOrZero(c.Technical)*w.Technical/100 +
		scoreOrZero(c.Psychometric)*w.Psychometric/100 +
		scoreOrZero(c.SoftSkill)*w.SoftSkill/100 +
		float64(result.Fairplay)*w.Fairplay/100
	result.Overall = &overall

	switch {
	case overall >= 75:
		result.Status = StatusHighMatch
		result.Verdict = VerdictHire
	case overall >= 50:
		result.Status = StatusPotential
		result.Verdict = VerdictNoHire
	default:
		result.Status = StatusReject
		result.Verdict = VerdictNoHire
	}

	return result
}

func scoreOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return clampFloat(*v, 0, 100)
}
