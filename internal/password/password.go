// Package password faz a verificação de senha do lado do cliente:
// força, requisitos mínimos e confirmação.
package password

import (
	"strings"
	"unicode/utf8"

	apperror "stockdesk/internal/errors"
)

// MinLength é o comprimento mínimo exigido.
const MinLength = 8

// strongLength dá um ponto extra de força.
const strongLength = 12

// SpecialChars são os caracteres aceitos como especiais.
const SpecialChars = `!@#$%^&*(),.?":{}|<>`

// Band é a faixa de força exibida.
type Band string

const (
	BandNone   Band = ""
	BandWeak   Band = "weak"
	BandMedium Band = "medium"
	BandStrong Band = "strong"
)

// Requirement identifica um requisito de senha.
type Requirement string

const (
	RequirementLength    Requirement = "length"
	RequirementUppercase Requirement = "uppercase"
	RequirementLowercase Requirement = "lowercase"
	RequirementDigit     Requirement = "number"
	RequirementSpecial   Requirement = "special"
)

// RequirementStatus indica se um requisito foi atendido.
type RequirementStatus struct {
	Requirement Requirement
	Met         bool
}

// MatchState é o estado do campo de confirmação.
type MatchState int

const (
	MatchEmpty MatchState = iota
	MatchOK
	MatchMismatch
)

type charClasses struct {
	lower, upper, digit, special bool
}

func classify(pw string) charClasses {
	var c charClasses
	for _, r := range pw {
		switch {
		case r >= 'a' && r <= 'z':
			c.lower = true
		case r >= 'A' && r <= 'Z':
			c.upper = true
		case r >= '0' && r <= '9':
			c.digit = true
		case strings.ContainsRune(SpecialChars, r):
			c.special = true
		}
	}
	return c
}

// Strength devolve a pontuação (0 a 6) e a faixa. Senha vazia não tem faixa.
func Strength(pw string) (int, Band) {
	if pw == "" {
		return 0, BandNone
	}

	score := 0
	n := utf8.RuneCountInString(pw)
	if n >= MinLength {
		score++
	}
	if n >= strongLength {
		score++
	}

	c := classify(pw)
	for _, ok := range []bool{c.lower, c.upper, c.digit, c.special} {
		if ok {
			score++
		}
	}

	switch {
	case score <= 2:
		return score, BandWeak
	case score <= 4:
		return score, BandMedium
	default:
		return score, BandStrong
	}
}

// Requirements devolve o estado de cada requisito, na ordem de exibição.
func Requirements(pw string) []RequirementStatus {
	c := classify(pw)
	return []RequirementStatus{
		{RequirementLength, utf8.RuneCountInString(pw) >= MinLength},
		{RequirementUppercase, c.upper},
		{RequirementLowercase, c.lower},
		{RequirementDigit, c.digit},
		{RequirementSpecial, c.special},
	}
}

var requirementReasons = map[Requirement]apperror.Reason{
	RequirementLength:    apperror.ReasonPasswordTooShort,
	RequirementUppercase: apperror.ReasonPasswordNoUppercase,
	RequirementLowercase: apperror.ReasonPasswordNoLowercase,
	RequirementDigit:     apperror.ReasonPasswordNoDigit,
	RequirementSpecial:   apperror.ReasonPasswordNoSpecial,
}

// Validate devolve o primeiro requisito não atendido como ValidationError.
func Validate(pw string) error {
	for _, st := range Requirements(pw) {
		if !st.Met {
			return apperror.NewValidationError(requirementReasons[st.Requirement],
				"Senha não atende ao requisito: "+string(st.Requirement))
		}
	}
	return nil
}

// Match compara a senha com a confirmação.
func Match(pw, confirm string) MatchState {
	switch {
	case confirm == "":
		return MatchEmpty
	case pw == confirm:
		return MatchOK
	default:
		return MatchMismatch
	}
}

// CheckChange é a validação de envio do formulário de troca de senha.
func CheckChange(pw, confirm string) error {
	if err := Validate(pw); err != nil {
		return err
	}
	if pw != confirm {
		return apperror.NewValidationError(apperror.ReasonPasswordMismatch, "As senhas não coincidem")
	}
	return nil
}
