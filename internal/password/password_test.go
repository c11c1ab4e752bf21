package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "stockdesk/internal/errors"
	"stockdesk/internal/password"
)

func TestStrength(t *testing.T) {
	cases := []struct {
		pw    string
		score int
		band  password.Band
	}{
		{"", 0, password.BandNone},
		{"abc", 1, password.BandWeak},
		{"abcdefgh", 2, password.BandWeak},
		{"abcdefgH", 3, password.BandMedium},
		{"abcdefH1", 4, password.BandMedium},
		{"abcdeH1!", 5, password.BandStrong},
		{"abcdefgH1!xy", 6, password.BandStrong},
	}

	for _, tc := range cases {
		score, band := password.Strength(tc.pw)
		assert.Equal(t, tc.score, score, tc.pw)
		assert.Equal(t, tc.band, band, tc.pw)
	}
}

func TestRequirements_Order(t *testing.T) {
	st := password.Requirements("Ab1")

	assert.Equal(t, []password.RequirementStatus{
		{Requirement: password.RequirementLength, Met: false},
		{Requirement: password.RequirementUppercase, Met: true},
		{Requirement: password.RequirementLowercase, Met: true},
		{Requirement: password.RequirementDigit, Met: true},
		{Requirement: password.RequirementSpecial, Met: false},
	}, st)
}

func TestValidate_FirstFailingRequirement(t *testing.T) {
	assert.Equal(t, apperror.ReasonPasswordTooShort, apperror.ReasonOf(password.Validate("Ab1!")))
	assert.Equal(t, apperror.ReasonPasswordNoUppercase, apperror.ReasonOf(password.Validate("abcdefg1!")))
	assert.Equal(t, apperror.ReasonPasswordNoLowercase, apperror.ReasonOf(password.Validate("ABCDEFG1!")))
	assert.Equal(t, apperror.ReasonPasswordNoDigit, apperror.ReasonOf(password.Validate("Abcdefgh!")))
	assert.Equal(t, apperror.ReasonPasswordNoSpecial, apperror.ReasonOf(password.Validate("Abcdefg12")))
	assert.NoError(t, password.Validate("Abcdef1!"))
}

func TestMatchAndCheckChange(t *testing.T) {
	assert.Equal(t, password.MatchEmpty, password.Match("Abcdef1!", ""))
	assert.Equal(t, password.MatchOK, password.Match("Abcdef1!", "Abcdef1!"))
	assert.Equal(t, password.MatchMismatch, password.Match("Abcdef1!", "Abcdef1?"))

	assert.NoError(t, password.CheckChange("Abcdef1!", "Abcdef1!"))
	assert.Equal(t, apperror.ReasonPasswordMismatch, apperror.ReasonOf(password.CheckChange("Abcdef1!", "x")))
	assert.Equal(t, apperror.ReasonPasswordTooShort, apperror.ReasonOf(password.CheckChange("x", "x")))
}
