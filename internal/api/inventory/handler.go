package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"stockdesk/internal/domain"
	apperror "stockdesk/internal/errors"
	"stockdesk/internal/pkg/logger"
	"stockdesk/internal/pkg/middleware"
	"stockdesk/internal/service/inventoryservice"
)

// InventoryService define o contrato que o Handler espera da camada de Serviço.
type InventoryService interface {
	UpdateStock(ctx context.Context, actor inventoryservice.Actor, req domain.StockTransactionRequest) (domain.Product, string, error)
	History(ctx context.Context, productID, limit int) (domain.Product, []domain.StockTransaction, error)
	DeleteProduct(ctx context.Context, productID int) (string, error)
	RestoreProduct(ctx context.Context, productID int) (string, error)
	DeleteUser(ctx context.Context, actor inventoryservice.Actor, userID string) (string, error)
	ChangePassword(ctx context.Context, userID string, req domain.PasswordChangeRequest) (string, error)
}

// Handler agrupa todos os métodos de Handler de inventário.
type Handler struct {
	Service InventoryService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc InventoryService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse envia o envelope {success, message, ...} ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data domain.APIResponse, err error, successStatus int) {
	status := successStatus
	if err != nil {
		var category string
		status, category, _ = apperror.MapToHTTPStatus(err)

		if status >= 500 {
			h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
		} else {
			h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
		}
		data = domain.APIResponse{Success: false, Message: apperror.PublicMessage(err)}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
		h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
	}
}

func actorFrom(r *http.Request, admin bool) inventoryservice.Actor {
	claims, _ := middleware.GetSessionClaimsFromContext(r.Context())
	return inventoryservice.Actor{UserID: claims.SessionID, Admin: admin}
}

func productIDFrom(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, apperror.NewValidationError(apperror.ReasonInvalidProduct, "ID de produto inválido.")
	}
	return id, nil
}

// UpdateStockHandler lida com POST .../update-stock. admin define a família de endpoint.
func (h *Handler) UpdateStockHandler(admin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.StockTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.handleServiceResponse(w, r, domain.APIResponse{}, apperror.NewValidationError(apperror.ReasonInvalidPayload, "Payload inválido. Verifique o formato JSON."), http.StatusOK)
			return
		}

		product, msg, err := h.Service.UpdateStock(r.Context(), actorFrom(r, admin), req)
		if err != nil {
			h.handleServiceResponse(w, r, domain.APIResponse{}, err, http.StatusOK)
			return
		}
		h.handleServiceResponse(w, r, domain.APIResponse{Success: true, Message: msg, Product: &product}, nil, http.StatusOK)
	}
}

// HistoryHandler lida com GET /admin/api/inventory/products/{id}/history[?limit=N].
func (h *Handler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDFrom(r)
	if err != nil {
		h.handleServiceResponse(w, r, domain.APIResponse{}, err, http.StatusOK)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			h.handleServiceResponse(w, r, domain.APIResponse{}, apperror.NewValidationError(apperror.ReasonInvalidPayload, "Parâmetro limit inválido."), http.StatusOK)
			return
		}
	}

	product, txs, err := h.Service.History(r.Context(), id, limit)
	if err != nil {
		h.handleServiceResponse(w, r, domain.APIResponse{}, err, http.StatusOK)
		return
	}
	if txs == nil {
		txs = []domain.StockTransaction{}
	}
	h.handleServiceResponse(w, r, domain.APIResponse{Success: true, Product: &product, Transactions: txs}, nil, http.StatusOK)
}

// DeleteProductHandler lida com POST /admin/api/inventory/products/{id}/delete.
func (h *Handler) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	h.toggleDeleted(w, r, h.Service.DeleteProduct)
}

// RestoreProductHandler lida com POST /admin/api/inventory/products/{id}/restore.
func (h *Handler) RestoreProductHandler(w http.ResponseWriter, r *http.Request) {
	h.toggleDeleted(w, r, h.Service.RestoreProduct)
}

func (h *Handler) toggleDeleted(w http.ResponseWriter, r *http.Request, action func(context.Context, int) (string, error)) {
	id, err := productIDFrom(r)
	if err != nil {
		h.handleServiceResponse(w, r, domain.APIResponse{}, err, http.StatusOK)
		return
	}

	msg, err := action(r.Context(), id)
	if err != nil {
		h.handleServiceResponse(w, r, domain.APIResponse{}, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, domain.APIResponse{Success: true, Message: msg}, nil, http.StatusOK)
}

// DeleteUserHandler lida com POST /admin/users/{id}/delete.
func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	msg, err := h.Service.DeleteUser(r.Context(), actorFrom(r, true), r.PathValue("id"))
	if err != nil {
		h.handleServiceResponse(w, r, domain.APIResponse{}, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, domain.APIResponse{Success: true, Message: msg}, nil, http.StatusOK)
}

// ChangePasswordHandler lida com POST /users/{id}/password.
func (h *Handler) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.PasswordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, domain.APIResponse{}, apperror.NewValidationError(apperror.ReasonInvalidPayload, "Payload inválido. Verifique o formato JSON."), http.StatusOK)
		return
	}

	msg, err := h.Service.ChangePassword(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.handleServiceResponse(w, r, domain.APIResponse{}, err, http.StatusOK)
		return
	}
	h.handleServiceResponse(w, r, domain.APIResponse{Success: true, Message: msg}, nil, http.StatusOK)
}
