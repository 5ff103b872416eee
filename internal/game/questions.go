// internal/game/questions.go
package game

import (
	"fmt"
	"math/rand"

	"github.com/quickfire-games/mathrush/internal/models"
)

// operandRange bounds the operands drawn for one operation at one
// difficulty. For division the pair is (divisor, quotient); for
// exponents it is (base, exponent).
type operandRange struct {
	lo, hi int
	lo2    int
	hi2    int
}

func (r operandRange) draw(rng *rand.Rand) (int, int) {
	a := r.lo + rng.Intn(r.hi-r.lo+1)
	b := r.lo2 + rng.Intn(r.hi2-r.lo2+1)
	return a, b
}

var ranges = map[string]map[string]operandRange{
	models.OpAddition: {
		models.DifficultyEasy:   {1, 10, 1, 10},
		models.DifficultyMedium: {10, 50, 10, 50},
		models.DifficultyHard:   {25, 100, 25, 100},
	},
	models.OpSubtraction: {
		models.DifficultyEasy:   {1, 10, 1, 10},
		models.DifficultyMedium: {10, 50, 10, 50},
		models.DifficultyHard:   {25, 100, 25, 100},
	},
	models.OpMultiplication: {
		models.DifficultyEasy:   {2, 9, 2, 9},
		models.DifficultyMedium: {2, 12, 2, 12},
		models.DifficultyHard:   {5, 25, 5, 25},
	},
	models.OpDivision: {
		models.DifficultyEasy:   {2, 9, 2, 9},
		models.DifficultyMedium: {2, 12, 2, 12},
		models.DifficultyHard:   {3, 20, 3, 20},
	},
	models.OpExponents: {
		models.DifficultyEasy:   {2, 5, 2, 2},
		models.DifficultyMedium: {2, 9, 2, 3},
		models.DifficultyHard:   {2, 12, 2, 3},
	},
}

// GenerateBatch produces an ordered batch of questions from the lobby
// settings: QuestionCount questions with 1-based IDs, each drawn from
// the enabled operations at the configured difficulty. Answers are
// always integers: division pairs are built divisor-first so they
// divide exactly, and subtraction operands are ordered so the result
// is non-negative.
func GenerateBatch(s models.Settings) []models.Question {
	return generateBatch(s, nil)
}

func generateBatch(s models.Settings, rng *rand.Rand) []models.Question {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	ops := s.Operations.Enabled()
	if len(ops) == 0 {
		ops = []string{models.OpAddition}
	}
	difficulty := s.Difficulty
	if _, ok := ranges[models.OpAddition][difficulty]; !ok {
		difficulty = models.DifficultyEasy
	}

	count := s.QuestionCount
	if count < 1 {
		count = 1
	}

	questions := make([]models.Question, 0, count)
	for i := 1; i <= count; i++ {
		op := ops[rng.Intn(len(ops))]
		equation, answer := makeEquation(rng, op, ranges[op][difficulty])
		questions = append(questions, models.Question{
			ID:        i,
			Equation:  equation,
			Answer:    answer,
			Operation: op,
		})
	}
	return questions
}

func makeEquation(rng *rand.Rand, op string, r operandRange) (string, int) {
	a, b := r.draw(rng)
	switch op {
	case models.OpAddition:
		return fmt.Sprintf("%d + %d", a, b), a + b
	case models.OpSubtraction:
		if b > a {
			a, b = b, a
		}
		return fmt.Sprintf("%d - %d", a, b), a - b
	case models.OpMultiplication:
		return fmt.Sprintf("%d × %d", a, b), a * b
	case models.OpDivision:
		// a is the divisor, b the quotient; present the product so the
		// answer divides exactly.
		return fmt.Sprintf("%d ÷ %d", a*b, a), b
	case models.OpExponents:
		answer := 1
		for i := 0; i < b; i++ {
			answer *= a
		}
		return fmt.Sprintf("%d ^ %d", a, b), answer
	}
	// Unknown tags cannot come from Operations.Enabled.
	return fmt.Sprintf("%d + %d", a, b), a + b
}
