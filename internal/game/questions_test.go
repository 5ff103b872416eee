// internal/game/questions_test.go
package game

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickfire-games/mathrush/internal/models"
)

// evalEquation recomputes the answer from the displayed equation.
func evalEquation(t *testing.T, equation string) int {
	t.Helper()
	fields := strings.Fields(equation)
	require.Len(t, fields, 3, "equation %q should be 'A op B'", equation)

	a, err := strconv.Atoi(fields[0])
	require.NoError(t, err)
	b, err := strconv.Atoi(fields[2])
	require.NoError(t, err)

	switch fields[1] {
	case "+":
		return a + b
	case "-":
		return a - b
	case "×":
		return a * b
	case "÷":
		require.NotZero(t, b)
		require.Zero(t, a%b, "division %q must be exact", equation)
		return a / b
	case "^":
		result := 1
		for i := 0; i < b; i++ {
			result *= a
		}
		return result
	}
	t.Fatalf("unknown operator in %q", equation)
	return 0
}

func TestGenerateBatchShape(t *testing.T) {
	s := models.DefaultSettings()
	s.QuestionCount = 25

	batch := GenerateBatch(s)
	require.Len(t, batch, 25)

	enabled := map[string]bool{}
	for _, op := range s.Operations.Enabled() {
		enabled[op] = true
	}

	for i, q := range batch {
		assert.Equal(t, i+1, q.ID, "IDs are 1-based and ordered")
		assert.True(t, enabled[q.Operation], "operation %q must be enabled", q.Operation)
		assert.Equal(t, q.Answer, evalEquation(t, q.Equation))
	}
}

func TestGenerateBatchAllOperationsAllDifficulties(t *testing.T) {
	for _, difficulty := range []string{models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard} {
		s := models.Settings{
			Difficulty:    difficulty,
			RoundDuration: 60,
			QuestionCount: 50,
			Operations: models.Operations{
				Addition:       true,
				Subtraction:    true,
				Multiplication: true,
				Division:       true,
				Exponents:      true,
			},
		}
		for _, q := range GenerateBatch(s) {
			assert.Equal(t, q.Answer, evalEquation(t, q.Equation), "difficulty %s", difficulty)
			assert.GreaterOrEqual(t, q.Answer, 0, "answers are never negative (difficulty %s)", difficulty)
		}
	}
}

func TestGenerateBatchNoOperationsFallsBackToAddition(t *testing.T) {
	s := models.DefaultSettings()
	s.Operations = models.Operations{}
	s.QuestionCount = 5

	for _, q := range GenerateBatch(s) {
		assert.Equal(t, models.OpAddition, q.Operation)
	}
}

func TestGenerateBatchUnknownDifficultyFallsBackToEasy(t *testing.T) {
	s := models.DefaultSettings()
	s.Difficulty = "nightmare"
	s.QuestionCount = 5

	batch := GenerateBatch(s)
	require.Len(t, batch, 5)
	for _, q := range batch {
		assert.Equal(t, q.Answer, evalEquation(t, q.Equation))
	}
}

func TestGenerateBatchMinimumCount(t *testing.T) {
	s := models.DefaultSettings()
	s.QuestionCount = 0

	assert.Len(t, GenerateBatch(s), 1)
}
