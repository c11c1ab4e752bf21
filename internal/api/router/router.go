package router

import (
	"encoding/json"
	"net/http"

	"stockdesk/internal/api/inventory"
	"stockdesk/internal/domain"
	"stockdesk/internal/pkg/logger"
	"stockdesk/internal/pkg/middleware"
)

// NewRouter configura e retorna o roteador HTTP do sandbox.
// Recebe os Handlers e o serviço de tokens já inicializados por injeção de dependências.
func NewRouter(inventoryHandler *inventory.Handler, tokenSvc middleware.TokenService, csrfHeader string, log logger.Logger) http.Handler {
	mux := http.NewServeMux()

	csrf := middleware.NewCSRFMiddleware(tokenSvc, csrfHeader, log)
	adminOnly := middleware.PrivilegeMiddleware("admin")
	admin := func(h http.HandlerFunc) http.HandlerFunc { return csrf(adminOnly(h)) }

	// --- 1. Health Check ---
	mux.HandleFunc("GET /ping", PingHandler)

	// --- 2. Inventário (usuário) ---
	mux.HandleFunc("POST /api/inventory/update-stock", csrf(inventoryHandler.UpdateStockHandler(false)))

	// --- 3. Inventário (administrador) ---
	mux.HandleFunc("POST /admin/api/inventory/update-stock", admin(inventoryHandler.UpdateStockHandler(true)))
	mux.HandleFunc("GET /admin/api/inventory/products/{id}/history", admin(inventoryHandler.HistoryHandler))
	mux.HandleFunc("POST /admin/api/inventory/products/{id}/delete", admin(inventoryHandler.DeleteProductHandler))
	mux.HandleFunc("POST /admin/api/inventory/products/{id}/restore", admin(inventoryHandler.RestoreProductHandler))

	// --- 4. Usuários ---
	mux.HandleFunc("POST /users/{id}/password", csrf(inventoryHandler.ChangePasswordHandler))
	mux.HandleFunc("POST /admin/users/{id}/delete", admin(inventoryHandler.DeleteUserHandler))

	// Qualquer outra rota
	mux.HandleFunc("/", NotFoundHandler)

	return middleware.RequestLogger(log)(mux)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

// NotFoundHandler responde rotas desconhecidas fora do envelope de inventário.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     http.StatusNotFound,
		Category: "NOT_FOUND",
		Message:  "Rota não encontrada: " + r.Method + " " + r.URL.Path,
	})
}
