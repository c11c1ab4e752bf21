package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"stockdesk/internal/domain"
	"stockdesk/internal/pkg/logger"
	"stockdesk/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto deste pacote.
type ContextKey int

const (
	SessionClaimsKey ContextKey = iota
)

// SessionClaims são os dados da sessão extraídos do token anti-falsificação.
type SessionClaims struct {
	SessionID string
	Privilege string
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CSRFClaims, error)
}

// writeForbidden responde 403 no envelope padrão da API.
func writeForbidden(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(domain.APIResponse{Success: false, Message: message})
}

// NewCSRFMiddleware valida o token anti-falsificação do cabeçalho configurado
// e anexa as claims da sessão ao contexto.
func NewCSRFMiddleware(tokenSvc TokenService, header string, log logger.Logger) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get(header)
			if tokenString == "" {
				log.Warn("Requisição sem token anti-falsificação.", map[string]interface{}{"path": r.URL.Path, "header": header})
				writeForbidden(w, "Token anti-falsificação ausente.")
				return
			}

			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				log.Warn("Token anti-falsificação inválido.", map[string]interface{}{"path": r.URL.Path, "error": err.Error()})
				writeForbidden(w, "Token anti-falsificação inválido ou expirado.")
				return
			}

			ctx := context.WithValue(r.Context(), SessionClaimsKey, SessionClaims{
				SessionID: claims.SessionID,
				Privilege: claims.Privilege,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetSessionClaimsFromContext é uma função utilitária para extrair as claims no handler.
func GetSessionClaimsFromContext(ctx context.Context) (SessionClaims, bool) {
	claims, ok := ctx.Value(SessionClaimsKey).(SessionClaims)
	return claims, ok
}

// PrivilegeMiddleware restringe a rota às sessões com um dos privilégios informados.
// Deve rodar depois do NewCSRFMiddleware.
func PrivilegeMiddleware(required ...string) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetSessionClaimsFromContext(r.Context())
			if !ok {
				writeForbidden(w, "Sessão não identificada.")
				return
			}

			for _, priv := range required {
				if claims.Privilege == priv {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeForbidden(w, "Acesso negado. Você não tem a permissão necessária.")
		}
	}
}
