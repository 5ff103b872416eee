// internal/game/scoring.go
package game

import "math"

// Scoring constants. A combo is a streak of consecutive fast-correct
// answers; each streak level adds 5% to the base award, capped at 2x.
const (
	BasePoints  = 100
	BasePenalty = 25

	comboStep            = 0.05
	maxMultiplier        = 2.0
	maxPenaltyMultiplier = 1.5

	// FastAnswerMs is the threshold under which a correct answer
	// extends the combo. Slower correct answers score flat and reset it.
	FastAnswerMs = 10000
)

// Score computes the score delta and new combo count for one answer.
// It is a pure function of the previous combo, correctness, and elapsed
// answer time in milliseconds.
//
// Correct within FastAnswerMs: combo grows, award scales with the combo
// level. Correct but slow: flat award, combo resets. Incorrect: penalty
// scales with the streak that was just broken (capped), combo resets.
// The caller clamps the applied score at zero.
func Score(prevCombo int, correct bool, elapsedMs int64) (delta, newCombo int) {
	if correct {
		if elapsedMs <= FastAnswerMs {
			newCombo = prevCombo + 1
			level := newCombo - 1
			if level < 0 {
				level = 0
			}
			mult := math.Min(1.0+float64(level)*comboStep, maxMultiplier)
			return int(math.Round(BasePoints * mult)), newCombo
		}
		return BasePoints, 0
	}

	level := prevCombo - 1
	if level < 0 {
		level = 0
	}
	mult := math.Min(1.0+float64(level)*comboStep, maxMultiplier)
	penaltyMult := math.Min(mult, maxPenaltyMultiplier)
	return -int(math.Round(BasePenalty * penaltyMult)), 0
}

// ApplyDelta adds delta to score, clamping at zero. Score is never
// carried as a negative ledger.
func ApplyDelta(score, delta int) int {
	if s := score + delta; s > 0 {
		return s
	}
	return 0
}
