package inventoryservice

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"stockdesk/internal/domain"
	apperror "stockdesk/internal/errors"
	"stockdesk/internal/password"
	"stockdesk/internal/pkg/logger"
	"stockdesk/internal/service/stockengine"
)

// InventoryRepository define o contrato que o Serviço de Inventário espera da camada de Persistência.
type InventoryRepository interface {
	GetProduct(ctx context.Context, id int) (domain.Product, error)
	ApplyTransaction(ctx context.Context, expectedVersion, newStock int, tx domain.StockTransaction) (domain.Product, error)
	History(ctx context.Context, productID, limit int) ([]domain.StockTransaction, error)
	SetDeleted(ctx context.Context, id int, deleted bool) (domain.Product, error)
	DeleteUser(ctx context.Context, id string) error
	GetUser(ctx context.Context, id string) (domain.User, error)
	SetPasswordHash(ctx context.Context, id, hash string) error
}

// Actor identifica quem faz a requisição.
type Actor struct {
	UserID string
	Admin  bool
}

// Service aplica as regras do servidor de inventário.
type Service struct {
	repo   InventoryRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Inventário.
func NewService(repo InventoryRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// UpdateStock valida e aplica uma transação de estoque.
// Sem privilégio de administrador apenas in/out em produtos ativos são aceitos.
// Devolve o produto atualizado e a mensagem de sucesso.
func (s *Service) UpdateStock(ctx context.Context, actor Actor, req domain.StockTransactionRequest) (domain.Product, string, error) {
	s.logger.Debug("Iniciando atualização de estoque no serviço.", map[string]interface{}{
		"product_id": req.ProductID,
		"operation":  req.Operation,
		"quantity":   req.Quantity,
		"admin":      actor.Admin,
	})

	if req.ProductID <= 0 {
		return domain.Product{}, "", apperror.NewValidationError(apperror.ReasonInvalidProduct, "Produto inválido.")
	}
	if !req.Operation.Valid() || (!actor.Admin && req.Operation == domain.OperationSet) {
		return domain.Product{}, "", apperror.NewUnknownOperationError(string(req.Operation))
	}

	product, err := s.repo.GetProduct(ctx, req.ProductID)
	if err != nil {
		return domain.Product{}, "", err
	}
	if product.Deleted && !actor.Admin {
		return domain.Product{}, "", apperror.NewConflictError("Produto excluído.")
	}

	if err := stockengine.Validate(product.Stock, req.Operation, req.Quantity); err != nil {
		var vErr *apperror.ValidationError
		if errors.As(err, &vErr) && vErr.Reason == apperror.ReasonInsufficientStock {
			return domain.Product{}, "", apperror.NewConflictError(vErr.Msg)
		}
		return domain.Product{}, "", err
	}

	after := stockengine.Predict(product.Stock, req.Operation, req.Quantity)
	tx := domain.StockTransaction{
		ProductID:       req.ProductID,
		TransactionType: recordedType(req.Operation, product.Stock, after),
		Quantity:        req.Quantity,
		BeforeStock:     product.Stock,
		AfterStock:      after,
		UserID:          actor.UserID,
		Remarks:         req.Remarks,
	}

	updated, err := s.repo.ApplyTransaction(ctx, product.Version, after, tx)
	if err != nil {
		s.logger.Error("Falha ao aplicar transação de estoque.", err)
		return domain.Product{}, "", err
	}

	s.logger.Info("Transação de estoque aplicada.", map[string]interface{}{
		"product_id": req.ProductID,
		"before":     product.Stock,
		"after":      updated.Stock,
	})
	return updated, successMessage(req), nil
}

// recordedType converte `set` em in/out pela direção da mudança; sem mudança registra `in`.
func recordedType(op domain.Operation, before, after int) domain.Operation {
	if op != domain.OperationSet {
		return op
	}
	if after < before {
		return domain.OperationOut
	}
	return domain.OperationIn
}

func successMessage(req domain.StockTransactionRequest) string {
	switch req.Operation {
	case domain.OperationIn:
		return fmt.Sprintf("Entrada de %d unidades concluída.", req.Quantity)
	case domain.OperationOut:
		return fmt.Sprintf("Saída de %d unidades concluída.", req.Quantity)
	default:
		return fmt.Sprintf("Estoque definido em %d unidades.", req.Quantity)
	}
}

// History devolve o produto e suas transações, da mais recente para a mais antiga.
func (s *Service) History(ctx context.Context, productID, limit int) (domain.Product, []domain.StockTransaction, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, nil, err
	}

	txs, err := s.repo.History(ctx, productID, limit)
	if err != nil {
		s.logger.Error("Falha ao buscar histórico.", err)
		return domain.Product{}, nil, err
	}
	return product, txs, nil
}

// DeleteProduct faz a exclusão lógica do produto.
func (s *Service) DeleteProduct(ctx context.Context, productID int) (string, error) {
	if _, err := s.repo.SetDeleted(ctx, productID, true); err != nil {
		return "", err
	}
	s.logger.Info("Produto excluído (exclusão lógica).", map[string]interface{}{"product_id": productID})
	return "Produto excluído (exclusão lógica).", nil
}

// RestoreProduct desfaz a exclusão lógica do produto.
func (s *Service) RestoreProduct(ctx context.Context, productID int) (string, error) {
	if _, err := s.repo.SetDeleted(ctx, productID, false); err != nil {
		return "", err
	}
	s.logger.Info("Produto restaurado.", map[string]interface{}{"product_id": productID})
	return "Produto restaurado.", nil
}

// DeleteUser exclui um usuário. O usuário da própria sessão não pode ser excluído.
func (s *Service) DeleteUser(ctx context.Context, actor Actor, userID string) (string, error) {
	if userID == actor.UserID {
		return "", apperror.NewConflictError("Não é possível excluir o próprio usuário.")
	}
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return "", err
	}
	s.logger.Info("Usuário excluído.", map[string]interface{}{"user_id": userID})
	return "Usuário excluído.", nil
}

// ChangePassword troca a senha do usuário depois de conferir a senha atual.
// Usuário sem senha definida aceita senha atual vazia.
func (s *Service) ChangePassword(ctx context.Context, userID string, req domain.PasswordChangeRequest) (string, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.Deleted {
		return "", apperror.NewNotFoundError(fmt.Sprintf("Usuário não encontrado: ID=%s", userID))
	}

	// 1. Senha atual
	if user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			s.logger.Warn("Senha atual incorreta.", map[string]interface{}{"user_id": userID})
			return "", apperror.NewValidationError(apperror.ReasonPasswordIncorrect, "A senha atual está incorreta.")
		}
	}

	// 2. Regras da nova senha e confirmação
	if err := password.CheckChange(req.NewPassword, req.ConfirmPassword); err != nil {
		return "", err
	}
	if user.PasswordHash != "" && req.NewPassword == req.CurrentPassword {
		return "", apperror.NewValidationError(apperror.ReasonPasswordUnchanged, "A nova senha deve ser diferente da atual.")
	}

	// 3. Hashing da Senha
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}
	if err := s.repo.SetPasswordHash(ctx, userID, string(hashed)); err != nil {
		return "", err
	}

	s.logger.Info("Senha alterada.", map[string]interface{}{"user_id": userID})
	return "Senha alterada com sucesso.", nil
}
