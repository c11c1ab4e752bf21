package domain

// APIResponse é o envelope padronizado das respostas da API de inventário.
type APIResponse struct {
	Success      bool               `json:"success"`
	Message      string             `json:"message"`
	Product      *Product           `json:"product,omitempty"`
	Transactions []StockTransaction `json:"transactions,omitempty"`
}

// ErrorResponse é a estrutura de erro usada pelo sandbox fora do envelope (e.g., 404 de rota).
type ErrorResponse struct {
	Code     int    `json:"code"`
	Category string `json:"category"`
	Message  string `json:"message"`
}
