// internal/game/scoring_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreFastCorrectGrowsCombo(t *testing.T) {
	delta, combo := Score(0, true, 500)
	assert.Equal(t, 100, delta)
	assert.Equal(t, 1, combo)

	delta, combo = Score(combo, true, 500)
	assert.Equal(t, 105, delta, "combo level 1 should apply a 1.05 multiplier")
	assert.Equal(t, 2, combo)

	delta, combo = Score(combo, true, 500)
	assert.Equal(t, 110, delta)
	assert.Equal(t, 3, combo)
}

func TestScoreSlowCorrectIsFlatAndResets(t *testing.T) {
	delta, combo := Score(7, true, FastAnswerMs+1)
	assert.Equal(t, 100, delta, "no multiplier reward for slow-but-correct answers")
	assert.Equal(t, 0, combo)
}

func TestScoreBoundaryElapsedCountsAsFast(t *testing.T) {
	delta, combo := Score(0, true, FastAnswerMs)
	assert.Equal(t, 100, delta)
	assert.Equal(t, 1, combo)
}

func TestScoreIncorrectPenalty(t *testing.T) {
	// Broken streak of 2: level 1, multiplier 1.05, penalty round(25*1.05)=26.
	delta, combo := Score(2, false, 500)
	assert.Equal(t, -26, delta)
	assert.Equal(t, 0, combo)

	// No streak: flat 25 penalty.
	delta, combo = Score(0, false, 500)
	assert.Equal(t, -25, delta)
	assert.Equal(t, 0, combo)
}

func TestScoreIncorrectPenaltyIsCapped(t *testing.T) {
	// A very long streak caps the reward multiplier at 2.0 but the
	// penalty multiplier at 1.5.
	delta, combo := Score(50, false, 500)
	assert.Equal(t, -38, delta, "round(25*1.5)=38")
	assert.Equal(t, 0, combo)
}

func TestScoreRewardMultiplierIsCapped(t *testing.T) {
	delta, combo := Score(50, true, 500)
	assert.Equal(t, 200, delta, "reward multiplier caps at 2.0")
	assert.Equal(t, 51, combo)
}

func TestScoreSpecScenario(t *testing.T) {
	delta1, combo1 := Score(0, true, 500)
	assert.Equal(t, 100, delta1)
	assert.Equal(t, 1, combo1)

	delta2, combo2 := Score(combo1, true, 500)
	assert.Equal(t, 105, delta2)
	assert.Equal(t, 2, combo2)

	delta3, combo3 := Score(combo2, false, 500)
	assert.Equal(t, -26, delta3)
	assert.Equal(t, 0, combo3)
}

func TestApplyDeltaClampsAtZero(t *testing.T) {
	assert.Equal(t, 0, ApplyDelta(10, -26))
	assert.Equal(t, 0, ApplyDelta(0, -25))
	assert.Equal(t, 74, ApplyDelta(100, -26))
	assert.Equal(t, 105, ApplyDelta(0, 105))
}
