package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do stockdesk.
// Ela permite que o código externo (Handler, Dialog) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "TRANSPORT_ERROR")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// Reason identifica qual regra de validação falhou.
type Reason string

const (
	ReasonMissingOrNonPositiveQuantity Reason = "MissingOrNonPositiveQuantity"
	ReasonNegativeTargetStock          Reason = "NegativeTargetStock"
	ReasonInsufficientStock            Reason = "InsufficientStock"
	ReasonUnknownOperation             Reason = "UnknownOperation"
	ReasonInvalidProduct               Reason = "InvalidProduct"
	ReasonInvalidPayload               Reason = "InvalidPayload"
	ReasonStockOutOfRange              Reason = "StockOutOfRange"

	// Regras de senha
	ReasonPasswordTooShort    Reason = "PasswordTooShort"
	ReasonPasswordNoUppercase Reason = "PasswordNoUppercase"
	ReasonPasswordNoLowercase Reason = "PasswordNoLowercase"
	ReasonPasswordNoDigit     Reason = "PasswordNoDigit"
	ReasonPasswordNoSpecial   Reason = "PasswordNoSpecial"
	ReasonPasswordMismatch    Reason = "PasswordMismatch"
	ReasonPasswordIncorrect   Reason = "PasswordIncorrect"
	ReasonPasswordUnchanged   Reason = "PasswordUnchanged"
)

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada.
// Erros de validação locais nunca geram chamada de rede.
type ValidationError struct {
	Reason       Reason
	Msg          string
	Input        string // Valor rejeitado, quando relevante para a mensagem
	CurrentStock int    // Preenchido apenas para ReasonInsufficientStock
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }                   // Não encapsula erro subjacente

// NewValidationError cria um novo erro de validação.
func NewValidationError(reason Reason, msg string) *ValidationError {
	return &ValidationError{Reason: reason, Msg: msg}
}

// NewUnknownOperationError cria o erro de operação desconhecida guardando a entrada.
func NewUnknownOperationError(input string) *ValidationError {
	return &ValidationError{
		Reason: ReasonUnknownOperation,
		Msg:    fmt.Sprintf("Operação desconhecida: %q.", input),
		Input:  input,
	}
}

// NewInsufficientStockError cria o erro de estoque insuficiente carregando o estoque atual.
func NewInsufficientStockError(msg string, currentStock int) *ValidationError {
	return &ValidationError{Reason: ReasonInsufficientStock, Msg: msg, CurrentStock: currentStock}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa um conflito na regra de negócio (e.g., OCC).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito (usado em OCC).
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// ForbiddenError representa uma requisição sem token anti-falsificação válido.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return fmt.Sprintf("Acesso negado: %s", e.Msg) }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden } // 403
func (e *ForbiddenError) Unwrap() error    { return nil }

// NewForbiddenError cria um novo erro de acesso negado.
func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// --- Tipos de Erro do Lado Cliente ---

// TransportError representa falhas de rede, timeout ou resposta malformada.
// A mensagem exibida ao usuário é sempre genérica; Err guarda a causa.
type TransportError struct {
	Msg string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("Erro de Transporte: %s", e.Msg)
	}
	return fmt.Sprintf("Erro de Transporte: %s: %v", e.Msg, e.Err)
}
func (e *TransportError) Category() string { return "TRANSPORT_ERROR" }
func (e *TransportError) HTTPStatus() int  { return http.StatusBadGateway } // 502
func (e *TransportError) Unwrap() error    { return e.Err }

// NewTransportError cria um erro de transporte encapsulando a causa.
func NewTransportError(msg string, err error) *TransportError {
	return &TransportError{Msg: msg, Err: err}
}

// ServerRejection representa uma resposta `success: false` do servidor.
// Msg é a mensagem do servidor, repassada literalmente.
type ServerRejection struct {
	Msg    string
	Status int
}

func (e *ServerRejection) Error() string    { return e.Msg }
func (e *ServerRejection) Category() string { return "SERVER_REJECTION" }
func (e *ServerRejection) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusOK
	}
	return e.Status
}
func (e *ServerRejection) Unwrap() error { return nil }

// NewServerRejection cria um erro de rejeição do servidor.
func NewServerRejection(msg string, status int) *ServerRejection {
	return &ServerRejection{Msg: msg, Status: status}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error
}

func (e *InternalError) Error() string    { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// --- Helpers ---

// ReasonOf devolve a Reason de um ValidationError na cadeia, ou "" se não houver.
func ReasonOf(err error) Reason {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Reason
	}
	return ""
}

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado: tratar como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}

// PublicMessage devolve a mensagem de um AppError sem o prefixo de categoria,
// própria para o campo `message` do envelope de resposta.
func PublicMessage(err error) string {
	var (
		vErr        *ValidationError
		notFoundErr *NotFoundError
		conflictErr *ConflictError
		forbidErr   *ForbiddenError
		rejection   *ServerRejection
	)
	switch {
	case errors.As(err, &vErr):
		return vErr.Msg
	case errors.As(err, &notFoundErr):
		return notFoundErr.Msg
	case errors.As(err, &conflictErr):
		return conflictErr.Msg
	case errors.As(err, &forbidErr):
		return forbidErr.Msg
	case errors.As(err, &rejection):
		return rejection.Msg
	}
	return "Falha ao processar a requisição. Contate o administrador do sistema."
}
