// internal/models/settings.go
package models

import "fmt"

// Difficulty levels accepted in lobby settings.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Operation tags attached to generated questions.
const (
	OpAddition       = "addition"
	OpSubtraction    = "subtraction"
	OpMultiplication = "multiplication"
	OpDivision       = "division"
	OpExponents      = "exponents"
)

// Operations holds the per-operation enabled flags.
type Operations struct {
	Addition       bool `json:"addition"`
	Subtraction    bool `json:"subtraction"`
	Multiplication bool `json:"multiplication"`
	Division       bool `json:"division"`
	Exponents      bool `json:"exponents"`
}

// Enabled returns the enabled operation tags in a fixed order.
func (o Operations) Enabled() []string {
	var ops []string
	if o.Addition {
		ops = append(ops, OpAddition)
	}
	if o.Subtraction {
		ops = append(ops, OpSubtraction)
	}
	if o.Multiplication {
		ops = append(ops, OpMultiplication)
	}
	if o.Division {
		ops = append(ops, OpDivision)
	}
	if o.Exponents {
		ops = append(ops, OpExponents)
	}
	return ops
}

// Settings is the lobby's round configuration. Owned by the lobby and
// mutated only by the host via ApplyPatch.
type Settings struct {
	Difficulty    string     `json:"difficulty"`
	RoundDuration int        `json:"roundDuration"` // seconds
	QuestionCount int        `json:"questionCount"`
	Operations    Operations `json:"operations"`
}

// DefaultSettings returns the settings a freshly created lobby starts with.
func DefaultSettings() Settings {
	return Settings{
		Difficulty:    DifficultyEasy,
		RoundDuration: 60,
		QuestionCount: 10,
		Operations: Operations{
			Addition:       true,
			Subtraction:    true,
			Multiplication: true,
		},
	}
}

// OperationsPatch carries optional per-operation flag updates.
type OperationsPatch struct {
	Addition       *bool `json:"addition,omitempty"`
	Subtraction    *bool `json:"subtraction,omitempty"`
	Multiplication *bool `json:"multiplication,omitempty"`
	Division       *bool `json:"division,omitempty"`
	Exponents      *bool `json:"exponents,omitempty"`
}

// SettingsPatch is a partial settings update. Nil fields are left
// untouched; supplied fields are validated before any of them apply.
type SettingsPatch struct {
	Difficulty    *string          `json:"difficulty,omitempty"`
	RoundDuration *int             `json:"roundDuration,omitempty"`
	QuestionCount *int             `json:"questionCount,omitempty"`
	Operations    *OperationsPatch `json:"operations,omitempty"`
}

// Validate checks every supplied field's type/range without applying it.
func (p SettingsPatch) Validate() error {
	if p.Difficulty != nil {
		switch *p.Difficulty {
		case DifficultyEasy, DifficultyMedium, DifficultyHard:
		default:
			return fmt.Errorf("invalid difficulty %q", *p.Difficulty)
		}
	}
	if p.RoundDuration != nil && (*p.RoundDuration < 10 || *p.RoundDuration > 600) {
		return fmt.Errorf("round duration %d out of range [10,600]", *p.RoundDuration)
	}
	if p.QuestionCount != nil && (*p.QuestionCount < 1 || *p.QuestionCount > 100) {
		return fmt.Errorf("question count %d out of range [1,100]", *p.QuestionCount)
	}
	return nil
}

// ApplyPatch shallow-merges the patch into s. The patch must have been
// validated; unset fields are untouched.
func (s *Settings) ApplyPatch(p SettingsPatch) {
	if p.Difficulty != nil {
		s.Difficulty = *p.Difficulty
	}
	if p.RoundDuration != nil {
		s.RoundDuration = *p.RoundDuration
	}
	if p.QuestionCount != nil {
		s.QuestionCount = *p.QuestionCount
	}
	if p.Operations != nil {
		if p.Operations.Addition != nil {
			s.Operations.Addition = *p.Operations.Addition
		}
		if p.Operations.Subtraction != nil {
			s.Operations.Subtraction = *p.Operations.Subtraction
		}
		if p.Operations.Multiplication != nil {
			s.Operations.Multiplication = *p.Operations.Multiplication
		}
		if p.Operations.Division != nil {
			s.Operations.Division = *p.Operations.Division
		}
		if p.Operations.Exponents != nil {
			s.Operations.Exponents = *p.Operations.Exponents
		}
	}
}
