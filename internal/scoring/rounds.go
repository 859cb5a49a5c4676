package scoring

// UngradedPartialCredit is the soft-skill score assigned when answers exist
// but grading has not produced a communication score yet.
const UngradedPartialCredit = 40

// TechnicalScore converts MCQ answer counts into a 0-100 percentage. A
// candidate with no scored answers receives 0.
func TechnicalScore(correct, wrong int) float64 {
	total := correct + wrong
	if total <= 0 {
		return 0
	}
	return 100 * float64(correct) / float64(total)
}

// SoftSkillScore resolves the externally graded communication score.
// communicationScore is nil when the grading call has not run; hasAnswers
// reports whether the candidate submitted any text answers.
func SoftSkillScore(communicationScore *float64, hasAnswers bool) float64 {
	if communicationScore != nil {
		return clampFloat(*communicationScore, 0, 100)
	}
	if hasAnswers {
		return UngradedPartialCredit
	}
	return 0
}

// PsychometricScore normalises summed Likert trait points into a 0-100
// percentage. Items score 1-5, so the maximum is five points per question.
func PsychometricScore(totalPoints, questionsAnswered int) float64 {
	if questionsAnswered <= 0 {
		return 0
	}
	max := float64(questionsAnswered * 5)
	return clampFloat(100*float64(totalPoints)/max, 0, 100)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
