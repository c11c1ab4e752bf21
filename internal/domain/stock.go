package domain

import (
	"math"
	"time"
)

// Operation é o tipo de transação de estoque.
type Operation string

const (
	OperationIn  Operation = "in"  // Entrada: soma a quantidade ao estoque atual
	OperationOut Operation = "out" // Saída: subtrai a quantidade do estoque atual
	OperationSet Operation = "set" // Ajuste: define o estoque absoluto
)

// Valid informa se a operação é uma das três conhecidas.
func (o Operation) Valid() bool {
	switch o {
	case OperationIn, OperationOut, OperationSet:
		return true
	}
	return false
}

// SeverityBand é a classificação de exibição de um nível de estoque.
type SeverityBand string

const (
	SeverityOK      SeverityBand = "ok"
	SeverityWarning SeverityBand = "warning"
	SeverityDanger  SeverityBand = "danger"
)

// LowStockThreshold é o maior estoque ainda classificado como warning.
const LowStockThreshold = 20

// MaxStock é o maior estoque e a maior quantidade aceitos (faixa de um inteiro de 32 bits).
const MaxStock = math.MaxInt32

// StockTransactionRequest é o payload enviado ao endpoint update-stock.
type StockTransactionRequest struct {
	ProductID int       `json:"productId"`
	Operation Operation `json:"transactionType"`
	Quantity  int       `json:"quantity"`
	Remarks   string    `json:"remarks"`
}

// TransactionOutcome é o resultado de um submit. Sempre carrega Message.
// Err classifica a falha (ValidationError, TransportError, ServerRejection) e é nil no sucesso.
type TransactionOutcome struct {
	Success        bool
	ResultingStock int
	Message        string
	Err            error
}

// Preview é o valor previsto (consultivo) exibido antes do submit.
type Preview struct {
	Predicted int
	Band      SeverityBand
}

// StockTransaction é um registro do histórico de estoque de um produto.
type StockTransaction struct {
	ID              int       `json:"id,omitempty"`
	ProductID       int       `json:"productId,omitempty"`
	TransactionDate time.Time `json:"transactionDate"`
	TransactionType Operation `json:"transactionType"`
	Quantity        int       `json:"quantity"`
	BeforeStock     int       `json:"beforeStock"`
	AfterStock      int       `json:"afterStock"`
	UserID          string    `json:"userId"`
	Remarks         string    `json:"remarks"`
}
