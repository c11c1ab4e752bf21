package inventoryapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"stockdesk/internal/domain"
	apperror "stockdesk/internal/errors"
)

// Caminhos dos endpoints consumidos.
const (
	UserUpdateStockPath  = "/api/inventory/update-stock"
	AdminUpdateStockPath = "/admin/api/inventory/update-stock"
	historyPathFmt       = "/admin/api/inventory/products/%d/history"
	deletePathFmt        = "/admin/api/inventory/products/%d/delete"
	restorePathFmt       = "/admin/api/inventory/products/%d/restore"
	userDeletePathFmt    = "/admin/users/%s/delete"
	passwordPathFmt      = "/users/%s/password"

	// RequestIDHeader identifica cada chamada nos logs do servidor.
	RequestIDHeader = "X-Request-ID"
)

// Options reúne o que a página fornece ao cliente: endereço, privilégio e token anti-falsificação.
type Options struct {
	BaseURL    string
	Admin      bool // Usa a família /admin/api para update-stock
	CSRFHeader string
	CSRFToken  string
	Timeout    time.Duration
}

// Client é a implementação, sobre resty, dos endpoints de inventário.
type Client struct {
	httpClient      *resty.Client
	updateStockPath string
}

// NewClient monta o cliente HTTP com os cabeçalhos fixos da página.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(opts.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	if opts.CSRFHeader != "" && opts.CSRFToken != "" {
		restyClient.SetHeader(opts.CSRFHeader, opts.CSRFToken)
	}

	path := UserUpdateStockPath
	if opts.Admin {
		path = AdminUpdateStockPath
	}

	return &Client{httpClient: restyClient, updateStockPath: path}
}

// UpdateStock envia a transação de estoque. Uma resposta `success: false`
// é devolvida sem erro; erro significa falha de transporte.
func (c *Client) UpdateStock(ctx context.Context, req domain.StockTransactionRequest) (domain.APIResponse, error) {
	return c.do(ctx, http.MethodPost, c.updateStockPath, req)
}

// History busca o histórico de transações de um produto.
func (c *Client) History(ctx context.Context, productID int) (domain.APIResponse, error) {
	return c.do(ctx, http.MethodGet, fmt.Sprintf(historyPathFmt, productID), nil)
}

// DeleteProduct faz a exclusão lógica de um produto.
func (c *Client) DeleteProduct(ctx context.Context, productID int) (domain.APIResponse, error) {
	return c.do(ctx, http.MethodPost, fmt.Sprintf(deletePathFmt, productID), nil)
}

// RestoreProduct desfaz a exclusão lógica de um produto.
func (c *Client) RestoreProduct(ctx context.Context, productID int) (domain.APIResponse, error) {
	return c.do(ctx, http.MethodPost, fmt.Sprintf(restorePathFmt, productID), nil)
}

// DeleteUser exclui um usuário pela tela de administração.
func (c *Client) DeleteUser(ctx context.Context, userID string) (domain.APIResponse, error) {
	return c.do(ctx, http.MethodPost, fmt.Sprintf(userDeletePathFmt, url.PathEscape(userID)), nil)
}

// ChangePassword envia o formulário de troca de senha.
func (c *Client) ChangePassword(ctx context.Context, userID string, req domain.PasswordChangeRequest) (domain.APIResponse, error) {
	return c.do(ctx, http.MethodPost, fmt.Sprintf(passwordPathFmt, url.PathEscape(userID)), req)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (domain.APIResponse, error) {
	result := new(domain.APIResponse)

	req := c.httpClient.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, uuid.NewString()).
		SetResult(result).
		SetError(result)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		// Conexão recusada, timeout ou JSON malformado
		return domain.APIResponse{}, apperror.NewTransportError(fmt.Sprintf("%s %s", method, path), err)
	}

	if !strings.Contains(resp.Header().Get("Content-Type"), "json") {
		return domain.APIResponse{}, apperror.NewTransportError(
			fmt.Sprintf("%s %s: resposta não-JSON (status %d)", method, path, resp.StatusCode()), nil)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		if result.Success || result.Message == "" {
			return domain.APIResponse{}, apperror.NewTransportError(
				fmt.Sprintf("%s %s: status %d sem mensagem", method, path, resp.StatusCode()), nil)
		}
		// Rejeição do servidor com corpo no envelope padrão
		result.Success = false
	}

	return *result, nil
}
