package dialog

import (
	"context"
	"strconv"

	"stockdesk/internal/domain"
	"stockdesk/internal/pkg/i18n"
	"stockdesk/internal/pkg/logger"
)

// HistoryDateLayout é o formato da coluna de data do histórico.
const HistoryDateLayout = "2006-01-02 15:04"

// HistoryRow é uma linha já formatada da tabela de histórico.
type HistoryRow struct {
	Date     string
	Type     string
	Quantity string
	Before   string
	After    string
	UserID   string
	Remarks  string
}

// HistoryRenderer exibe o diálogo de histórico.
// Notice é a linha única exibida no lugar das linhas (carregando, vazio, falha).
type HistoryRenderer interface {
	ShowHistory(title string)
	RenderHistoryRows(rows []HistoryRow)
	RenderHistoryNotice(notice string)
}

// HistoryLoader busca o histórico de um produto.
type HistoryLoader interface {
	History(ctx context.Context, productID int) (domain.APIResponse, error)
}

// HistoryDialog carrega e exibe o histórico de transações, somente leitura.
type HistoryDialog struct {
	loader   HistoryLoader
	renderer HistoryRenderer
	printer  *i18n.Printer
	logger   logger.Logger
}

// NewHistoryDialog cria o controlador do diálogo de histórico.
func NewHistoryDialog(loader HistoryLoader, renderer HistoryRenderer, printer *i18n.Printer, log logger.Logger) *HistoryDialog {
	return &HistoryDialog{loader: loader, renderer: renderer, printer: printer, logger: log}
}

// Show abre o diálogo e carrega o histórico do produto.
// Devolve as linhas exibidas; em falha devolve o erro e exibe a linha de falha.
func (h *HistoryDialog) Show(ctx context.Context, productID int, productName string) ([]HistoryRow, error) {
	h.renderer.ShowHistory(h.printer.Sprintf(i18n.MsgHistoryTitle, productName))
	h.renderer.RenderHistoryNotice(h.printer.Sprintf(i18n.MsgHistoryLoading))

	resp, err := h.loader.History(ctx, productID)
	if err != nil {
		h.logger.Error("Falha ao carregar histórico.", err)
		h.renderer.RenderHistoryNotice(h.printer.Sprintf(i18n.MsgHistoryFailed))
		return nil, err
	}
	if !resp.Success {
		h.logger.Warn("Servidor rejeitou a consulta de histórico.", map[string]interface{}{
			"product_id": productID,
			"message":    resp.Message,
		})
		h.renderer.RenderHistoryNotice(h.printer.Sprintf(i18n.MsgHistoryFailed))
		return nil, nil
	}

	if len(resp.Transactions) == 0 {
		h.renderer.RenderHistoryNotice(h.printer.Sprintf(i18n.MsgHistoryEmpty))
		return nil, nil
	}

	rows := make([]HistoryRow, 0, len(resp.Transactions))
	for _, tx := range resp.Transactions {
		rows = append(rows, h.formatRow(tx))
	}
	h.renderer.RenderHistoryRows(rows)
	return rows, nil
}

func (h *HistoryDialog) formatRow(tx domain.StockTransaction) HistoryRow {
	remarks := tx.Remarks
	if remarks == "" {
		remarks = "-"
	}
	return HistoryRow{
		Date:     tx.TransactionDate.Format(HistoryDateLayout),
		Type:     h.typeLabel(tx.TransactionType),
		Quantity: strconv.Itoa(tx.Quantity),
		Before:   strconv.Itoa(tx.BeforeStock),
		After:    strconv.Itoa(tx.AfterStock),
		UserID:   tx.UserID,
		Remarks:  remarks,
	}
}

func (h *HistoryDialog) typeLabel(op domain.Operation) string {
	switch op {
	case domain.OperationIn:
		return h.printer.Sprintf(i18n.MsgTypeIn)
	case domain.OperationOut:
		return h.printer.Sprintf(i18n.MsgTypeOut)
	case domain.OperationSet:
		return h.printer.Sprintf(i18n.MsgTypeSet)
	default:
		return string(op)
	}
}
