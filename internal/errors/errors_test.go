package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "stockdesk/internal/errors"
)

func TestMapToHTTPStatus(t *testing.T) {
	cases := []struct {
		err      error
		status   int
		category string
	}{
		{apperror.NewValidationError(apperror.ReasonInvalidProduct, "x"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{apperror.NewNotFoundError("x"), http.StatusNotFound, "NOT_FOUND"},
		{apperror.NewConflictError("x"), http.StatusConflict, "CONFLICT"},
		{apperror.NewForbiddenError("x"), http.StatusForbidden, "FORBIDDEN"},
		{apperror.NewTransportError("x", nil), http.StatusBadGateway, "TRANSPORT_ERROR"},
		{apperror.NewServerRejection("x", 0), http.StatusOK, "SERVER_REJECTION"},
		{fmt.Errorf("envolto: %w", apperror.NewInternalError("x", errors.New("db"))), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{errors.New("qualquer"), http.StatusInternalServerError, "UNKNOWN_ERROR"},
	}

	for _, tc := range cases {
		status, category, _ := apperror.MapToHTTPStatus(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.category, category, tc.err.Error())
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Produto excluído.", apperror.PublicMessage(apperror.NewConflictError("Produto excluído.")))
	assert.Equal(t, "Quantidade inválida", apperror.PublicMessage(
		fmt.Errorf("camada: %w", apperror.NewValidationError(apperror.ReasonMissingOrNonPositiveQuantity, "Quantidade inválida"))))
	assert.Equal(t, "Falha ao processar a requisição. Contate o administrador do sistema.",
		apperror.PublicMessage(apperror.NewInternalError("segredo", errors.New("db"))))
}

func TestReasonOf(t *testing.T) {
	err := fmt.Errorf("ctx: %w", apperror.NewInsufficientStockError("sem estoque", 2))

	assert.Equal(t, apperror.ReasonInsufficientStock, apperror.ReasonOf(err))
	assert.Equal(t, apperror.Reason(""), apperror.ReasonOf(errors.New("outro")))
}

func TestTransportError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperror.NewTransportError("falha", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
