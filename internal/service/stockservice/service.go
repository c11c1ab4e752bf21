package stockservice

import (
	"context"
	"errors"
	"fmt"

	"stockdesk/internal/domain"
	apperror "stockdesk/internal/errors"
	"stockdesk/internal/pkg/i18n"
	"stockdesk/internal/pkg/logger"
	"stockdesk/internal/service/stockengine"
)

// InventoryGateway define o contrato que o Serviço de Estoque espera da API de inventário.
type InventoryGateway interface {
	UpdateStock(ctx context.Context, req domain.StockTransactionRequest) (domain.APIResponse, error)
}

// Service executa o submit de uma transação de estoque.
type Service struct {
	gateway InventoryGateway
	printer *i18n.Printer
	logger  logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(gateway InventoryGateway, printer *i18n.Printer, logger logger.Logger) *Service {
	return &Service{gateway: gateway, printer: printer, logger: logger}
}

// Submit valida a transação localmente e, se válida, envia ao servidor.
// Nunca retorna erro: toda falha vira um TransactionOutcome com Message preenchida
// e Err classificando a causa.
func (s *Service) Submit(ctx context.Context, current int, req domain.StockTransactionRequest) domain.TransactionOutcome {
	s.logger.Debug("Iniciando transação de estoque no serviço.", map[string]interface{}{
		"product_id":    req.ProductID,
		"operation":     req.Operation,
		"quantity":      req.Quantity,
		"current_stock": current,
	})

	if req.ProductID <= 0 {
		return s.fail(apperror.NewValidationError(apperror.ReasonInvalidProduct,
			fmt.Sprintf("Produto inválido: %d", req.ProductID)))
	}

	// Validação local: nenhuma chamada de rede em caso de falha
	if err := stockengine.Validate(current, req.Operation, req.Quantity); err != nil {
		s.logger.Debug("Transação rejeitada na validação local.", map[string]interface{}{
			"product_id": req.ProductID,
			"reason":     apperror.ReasonOf(err),
		})
		return s.fail(err)
	}

	resp, err := s.gateway.UpdateStock(ctx, req)
	if err != nil {
		s.logger.Error("Falha de transporte ao atualizar estoque.", err)
		var transportErr *apperror.TransportError
		if !errors.As(err, &transportErr) {
			err = apperror.NewTransportError("update-stock", err)
		}
		return s.fail(err)
	}

	if !resp.Success {
		s.logger.Warn("Servidor rejeitou a transação de estoque.", map[string]interface{}{
			"product_id": req.ProductID,
			"message":    resp.Message,
		})
		if resp.Message == "" {
			return s.fail(apperror.NewTransportError("update-stock: rejeição sem mensagem", nil))
		}
		return s.fail(apperror.NewServerRejection(resp.Message, 0))
	}

	if resp.Product == nil {
		s.logger.Warn("Resposta de sucesso sem produto.", map[string]interface{}{"product_id": req.ProductID})
		return s.fail(apperror.NewTransportError("update-stock: resposta sem produto", nil))
	}

	s.logger.Info("Estoque atualizado com sucesso.", map[string]interface{}{
		"product_id": req.ProductID,
		"operation":  req.Operation,
		"new_stock":  resp.Product.Stock,
	})
	return domain.TransactionOutcome{
		Success:        true,
		ResultingStock: resp.Product.Stock,
		Message:        s.printer.Sprintf(i18n.MsgUpdateSuccess, resp.Message, resp.Product.Stock),
	}
}

func (s *Service) fail(err error) domain.TransactionOutcome {
	return domain.TransactionOutcome{
		Success: false,
		Message: s.printer.ErrorMessage(err),
		Err:     err,
	}
}
