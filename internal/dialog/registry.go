package dialog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"stockdesk/internal/domain"
)

// Role identifica o papel do elemento que dispara um diálogo.
type Role string

const (
	RoleEditStock         Role = "edit-stock"
	RoleViewHistory       Role = "view-history"
	RoleConfirmDelete     Role = "confirm-delete"
	RoleRestore           Role = "restore"
	RoleConfirmUserDelete Role = "confirm-user-delete"
)

// Trigger carrega os dados do elemento que disparou o diálogo.
type Trigger struct {
	ProductID    int
	ProductName  string
	CurrentStock int
	UserID       string
	Username     string
}

// Handler trata o disparo de um papel.
type Handler func(ctx context.Context, trigger Trigger) error

// Registry mapeia papéis para handlers. Cada papel é registrado uma única vez.
type Registry struct {
	mu       sync.RWMutex
	handlers map[Role]Handler
}

// NewRegistry cria um Registry vazio.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Role]Handler)}
}

// Register associa um handler ao papel.
func (r *Registry) Register(role Role, h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[role]; exists {
		return fmt.Errorf("papel %q já registrado", role)
	}
	r.handlers[role] = h
	return nil
}

// Dispatch executa o handler do papel.
func (r *Registry) Dispatch(ctx context.Context, role Role, trigger Trigger) error {
	r.mu.RLock()
	h, ok := r.handlers[role]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("papel %q sem handler registrado", role)
	}
	return h(ctx, trigger)
}

// Roles devolve os papéis registrados em ordem alfabética.
func (r *Registry) Roles() []Role {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]Role, 0, len(r.handlers))
	for role := range r.handlers {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// Controllers agrupa os controladores ligados pelo RegisterDefaults.
// Campos nil não são registrados.
type Controllers struct {
	Stock      *StockDialog
	History    *HistoryDialog
	Delete     *DeleteDialog
	Restore    *RestoreDialog
	UserDelete *UserDeleteDialog
	// OnAction recebe o resultado das ações confirmadas (e.g., para sincronizar a página).
	OnAction func(role Role, trigger Trigger, result ActionResult)
}

// RegisterDefaults registra os papéis padrão da tela de inventário.
func RegisterDefaults(r *Registry, c Controllers) error {
	notify := func(role Role, t Trigger, res ActionResult) error {
		if c.OnAction != nil {
			c.OnAction(role, t, res)
		}
		return nil
	}

	if c.Stock != nil {
		if err := r.Register(RoleEditStock, func(_ context.Context, t Trigger) error {
			c.Stock.Open(domain.ProductSnapshot{ProductID: t.ProductID, ProductName: t.ProductName, CurrentStock: t.CurrentStock})
			return nil
		}); err != nil {
			return err
		}
	}
	if c.History != nil {
		if err := r.Register(RoleViewHistory, func(ctx context.Context, t Trigger) error {
			_, err := c.History.Show(ctx, t.ProductID, t.ProductName)
			return err
		}); err != nil {
			return err
		}
	}
	if c.Delete != nil {
		if err := r.Register(RoleConfirmDelete, func(ctx context.Context, t Trigger) error {
			return notify(RoleConfirmDelete, t, c.Delete.Run(ctx, t.ProductID, t.ProductName))
		}); err != nil {
			return err
		}
	}
	if c.Restore != nil {
		if err := r.Register(RoleRestore, func(ctx context.Context, t Trigger) error {
			return notify(RoleRestore, t, c.Restore.Run(ctx, t.ProductID, t.ProductName))
		}); err != nil {
			return err
		}
	}
	if c.UserDelete != nil {
		if err := r.Register(RoleConfirmUserDelete, func(ctx context.Context, t Trigger) error {
			return notify(RoleConfirmUserDelete, t, c.UserDelete.Run(ctx, t.UserID, t.Username))
		}); err != nil {
			return err
		}
	}
	return nil
}
