// Package stockengine contém as regras puras de transação de estoque:
// previsão, validação e classificação. Não faz I/O nem depende de UI.
package stockengine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"stockdesk/internal/domain"
	apperror "stockdesk/internal/errors"
)

// ParseOperation converte a entrada do usuário em uma domain.Operation.
func ParseOperation(raw string) (domain.Operation, error) {
	op := domain.Operation(strings.ToLower(strings.TrimSpace(raw)))
	if !op.Valid() {
		return "", apperror.NewUnknownOperationError(raw)
	}
	return op, nil
}

// ParseQuantity interpreta o campo de quantidade.
// Entrada vazia ou não inteira é rejeitada com a regra da operação:
// MissingOrNonPositiveQuantity para in/out e NegativeTargetStock para set.
func ParseQuantity(op domain.Operation, raw string) (int, error) {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err == nil {
		return qty, nil
	}
	if op == domain.OperationSet {
		return 0, apperror.NewValidationError(apperror.ReasonNegativeTargetStock,
			"O novo estoque deve ser um inteiro maior ou igual a zero.")
	}
	return 0, apperror.NewValidationError(apperror.ReasonMissingOrNonPositiveQuantity,
		"Informe uma quantidade inteira maior que zero.")
}

// Predict calcula o estoque resultante sem contatar nenhum sistema externo.
// O valor é apenas consultivo; o valor oficial vem sempre do servidor.
// A soma satura nos limites de int em vez de dar a volta.
func Predict(current int, op domain.Operation, qty int) int {
	switch op {
	case domain.OperationIn:
		return addSaturated(current, qty)
	case domain.OperationOut:
		if qty == math.MinInt {
			return math.MaxInt
		}
		return addSaturated(current, -qty)
	case domain.OperationSet:
		return qty
	default:
		return current
	}
}

func addSaturated(a, b int) int {
	sum := a + b
	switch {
	case b > 0 && sum < a:
		return math.MaxInt
	case b < 0 && sum > a:
		return math.MinInt
	}
	return sum
}

// Validate aplica as regras na ordem: quantidade positiva (in/out),
// estoque alvo não negativo (set), limite de domain.MaxStock, estoque suficiente (out).
// Retorna nil quando a transação é válida.
func Validate(current int, op domain.Operation, qty int) error {
	if !op.Valid() {
		return apperror.NewUnknownOperationError(string(op))
	}

	// 1. in/out exigem quantidade estritamente positiva
	if (op == domain.OperationIn || op == domain.OperationOut) && qty <= 0 {
		return apperror.NewValidationError(apperror.ReasonMissingOrNonPositiveQuantity,
			"Informe uma quantidade inteira maior que zero.")
	}

	// 2. set exige estoque alvo >= 0
	if op == domain.OperationSet && qty < 0 {
		return apperror.NewValidationError(apperror.ReasonNegativeTargetStock,
			"O novo estoque deve ser um inteiro maior ou igual a zero.")
	}

	// 3. quantidade e estoque resultante cabem em domain.MaxStock
	if qty > domain.MaxStock || (op == domain.OperationIn && qty > domain.MaxStock-current) {
		return apperror.NewValidationError(apperror.ReasonStockOutOfRange,
			fmt.Sprintf("O estoque resultante excede o limite permitido (%d unidades).", domain.MaxStock))
	}

	// 4. out não pode exceder o estoque atual
	if op == domain.OperationOut && qty > current {
		return apperror.NewInsufficientStockError(
			fmt.Sprintf("Estoque insuficiente (atual: %d unidades).", current), current)
	}

	return nil
}

// Classify devolve a faixa de severidade de exibição de um nível de estoque.
func Classify(stock int) domain.SeverityBand {
	switch {
	case stock <= 0:
		return domain.SeverityDanger
	case stock <= domain.LowStockThreshold:
		return domain.SeverityWarning
	default:
		return domain.SeverityOK
	}
}

// Preview recalcula previsão e faixa a partir da entrada bruta, para exibição.
// Quantidade ilegível é tratada como zero, como no campo vazio do formulário.
func Preview(current int, op domain.Operation, raw string) domain.Preview {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		qty = 0
	}
	predicted := Predict(current, op, qty)
	return domain.Preview{Predicted: predicted, Band: Classify(predicted)}
}
