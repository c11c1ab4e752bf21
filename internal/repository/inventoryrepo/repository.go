package inventoryrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"stockdesk/internal/domain"
	"stockdesk/internal/errors"
	"stockdesk/internal/pkg/logger"
)

// InventoryRepository guarda produtos, histórico e usuários do sandbox em memória.
type InventoryRepository struct {
	mu       sync.RWMutex
	products map[int]domain.Product
	history  map[int][]domain.StockTransaction
	users    map[string]domain.User
	nextTxID int
	logger   logger.Logger
	now      func() time.Time
}

// NewInventoryRepository cria e retorna uma nova instância do Repositório de Inventário.
func NewInventoryRepository(logger logger.Logger) *InventoryRepository {
	return &InventoryRepository{
		products: make(map[int]domain.Product),
		history:  make(map[int][]domain.StockTransaction),
		users:    make(map[string]domain.User),
		nextTxID: 1,
		logger:   logger,
		now:      time.Now,
	}
}

// Seed carrega produtos e usuários iniciais. Produtos começam na versão 1.
func (r *InventoryRepository) Seed(products []domain.Product, users []domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range products {
		p.Version = 1
		p.UpdatedAt = r.now()
		r.products[p.ID] = p
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	r.logger.Info("Repositório de inventário carregado.", map[string]interface{}{"products": len(products), "users": len(users)})
}

// GetProduct busca um produto pelo id.
func (r *InventoryRepository) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, errors.NewInternalError("Requisição cancelada", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		r.logger.Info("Produto não encontrado.", map[string]interface{}{"product_id": id})
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto não encontrado: ID=%d", id))
	}
	return p, nil
}

// ListProducts devolve todos os produtos ordenados por id.
func (r *InventoryRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewInternalError("Requisição cancelada", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ApplyTransaction grava o novo estoque e registra a transação, com controle de
// concorrência otimista (OCC): falha com ConflictError se a versão mudou.
func (r *InventoryRepository) ApplyTransaction(ctx context.Context, expectedVersion, newStock int, tx domain.StockTransaction) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, errors.NewInternalError("Requisição cancelada", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[tx.ProductID]
	if !ok {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto não encontrado: ID=%d", tx.ProductID))
	}

	if current.Version != expectedVersion {
		r.logger.Warn("Falha no controle de concorrência otimista (OCC). Versão do registro desatualizada.", map[string]interface{}{
			"product_id":       tx.ProductID,
			"expected_version": expectedVersion,
			"current_version":  current.Version,
		})
		return domain.Product{}, errors.NewConflictError("O estoque foi modificado por outra operação. Tente novamente.")
	}

	now := r.now()
	current.Stock = newStock
	current.Version++
	current.UpdatedAt = now
	r.products[tx.ProductID] = current

	tx.ID = r.nextTxID
	r.nextTxID++
	if tx.TransactionDate.IsZero() {
		tx.TransactionDate = now
	}
	r.history[tx.ProductID] = append(r.history[tx.ProductID], tx)

	r.logger.Info("Estoque atualizado no repositório.", map[string]interface{}{
		"product_id":  tx.ProductID,
		"new_stock":   newStock,
		"new_version": current.Version,
	})
	return current, nil
}

// History devolve as transações do produto, da mais recente para a mais antiga.
// limit <= 0 devolve todas.
func (r *InventoryRepository) History(ctx context.Context, productID, limit int) ([]domain.StockTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewInternalError("Requisição cancelada", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.history[productID]
	out := make([]domain.StockTransaction, 0, len(src))
	for i := len(src) - 1; i >= 0; i-- {
		out = append(out, src[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// SetDeleted altera o indicador de exclusão lógica. Falha com ConflictError se já estiver no estado pedido.
func (r *InventoryRepository) SetDeleted(ctx context.Context, id int, deleted bool) (domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return domain.Product{}, errors.NewInternalError("Requisição cancelada", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto não encontrado: ID=%d", id))
	}
	if p.Deleted == deleted {
		if deleted {
			return domain.Product{}, errors.NewConflictError("O produto já está excluído.")
		}
		return domain.Product{}, errors.NewConflictError("O produto não está excluído.")
	}

	p.Deleted = deleted
	p.Version++
	p.UpdatedAt = r.now()
	r.products[id] = p
	return p, nil
}

// GetUser busca um usuário pelo id.
func (r *InventoryRepository) GetUser(ctx context.Context, id string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, errors.NewInternalError("Requisição cancelada", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return domain.User{}, errors.NewNotFoundError(fmt.Sprintf("Usuário não encontrado: ID=%s", id))
	}
	return u, nil
}

// DeleteUser marca o usuário como excluído.
func (r *InventoryRepository) DeleteUser(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return errors.NewInternalError("Requisição cancelada", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return errors.NewNotFoundError(fmt.Sprintf("Usuário não encontrado: ID=%s", id))
	}
	if u.Deleted {
		return errors.NewConflictError("O usuário já está excluído.")
	}
	u.Deleted = true
	r.users[id] = u
	return nil
}

// SetPasswordHash substitui o hash de senha do usuário.
func (r *InventoryRepository) SetPasswordHash(ctx context.Context, id, hash string) error {
	if err := ctx.Err(); err != nil {
		return errors.NewInternalError("Requisição cancelada", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.Deleted {
		return errors.NewNotFoundError(fmt.Sprintf("Usuário não encontrado: ID=%s", id))
	}
	u.PasswordHash = hash
	r.users[id] = u
	return nil
}

// ListUsers devolve todos os usuários ordenados por nome.
func (r *InventoryRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewInternalError("Requisição cancelada", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
