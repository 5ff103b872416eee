// internal/models/settings_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestSettingsPatchValidate(t *testing.T) {
	assert.NoError(t, SettingsPatch{}.Validate(), "empty patch is valid")
	assert.NoError(t, SettingsPatch{
		Difficulty:    strPtr(DifficultyHard),
		RoundDuration: intPtr(10),
		QuestionCount: intPtr(100),
	}.Validate())

	assert.Error(t, SettingsPatch{Difficulty: strPtr("nightmare")}.Validate())
	assert.Error(t, SettingsPatch{RoundDuration: intPtr(9)}.Validate())
	assert.Error(t, SettingsPatch{RoundDuration: intPtr(601)}.Validate())
	assert.Error(t, SettingsPatch{QuestionCount: intPtr(0)}.Validate())
	assert.Error(t, SettingsPatch{QuestionCount: intPtr(101)}.Validate())
}

func TestApplyPatchMergesOnlySetFields(t *testing.T) {
	s := DefaultSettings()
	s.ApplyPatch(SettingsPatch{
		RoundDuration: intPtr(120),
		Operations:    &OperationsPatch{Division: boolPtr(true), Addition: boolPtr(false)},
	})

	assert.Equal(t, 120, s.RoundDuration)
	assert.True(t, s.Operations.Division)
	assert.False(t, s.Operations.Addition)
	// Fields absent from the patch keep their values.
	assert.Equal(t, DifficultyEasy, s.Difficulty)
	assert.Equal(t, 10, s.QuestionCount)
	assert.True(t, s.Operations.Subtraction)
	assert.True(t, s.Operations.Multiplication)
}

func TestOperationsEnabledOrder(t *testing.T) {
	ops := Operations{Addition: true, Division: true, Exponents: true}
	require.Equal(t, []string{OpAddition, OpDivision, OpExponents}, ops.Enabled())

	assert.Empty(t, Operations{}.Enabled())
}
