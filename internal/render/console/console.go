// Package console implementa os adaptadores de exibição dos diálogos para o terminal.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"stockdesk/internal/dialog"
	"stockdesk/internal/domain"
)

// Renderer escreve os diálogos em um io.Writer e lê confirmações de um io.Reader.
// Implementa dialog.StockRenderer, dialog.HistoryRenderer e dialog.Prompter.
type Renderer struct {
	mu         sync.Mutex
	out        io.Writer
	in         *bufio.Reader
	submitting bool

	// Cabeçalho das colunas do histórico, já traduzido pelo chamador.
	HistoryHeader []string
}

var (
	_ dialog.StockRenderer   = (*Renderer)(nil)
	_ dialog.HistoryRenderer = (*Renderer)(nil)
	_ dialog.Prompter        = (*Renderer)(nil)
)

// NewRenderer cria o renderer do terminal.
func NewRenderer(out io.Writer, in io.Reader) *Renderer {
	return &Renderer{
		out:           out,
		in:            bufio.NewReader(in),
		HistoryHeader: []string{"DATA", "TIPO", "QTD", "ANTES", "DEPOIS", "USUÁRIO", "OBS"},
	}
}

func (r *Renderer) printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

// ShowStockDialog escreve o título do diálogo de estoque.
func (r *Renderer) ShowStockDialog(title string) { r.printf("== %s ==\n", title) }

// HideStockDialog encerra o bloco do diálogo.
func (r *Renderer) HideStockDialog() { r.printf("-- fechado --\n") }

// ResetInputs não tem efeito no terminal: os campos vêm dos argumentos.
func (r *Renderer) ResetInputs() {}

// RenderPreview escreve o estoque previsto e sua faixa.
func (r *Renderer) RenderPreview(p domain.Preview) {
	r.printf("previsto: %d [%s]\n", p.Predicted, bandTag(p.Band))
}

// RenderMessage escreve uma mensagem marcada pelo tipo.
func (r *Renderer) RenderMessage(kind dialog.MessageKind, text string) {
	r.printf("[%s] %s\n", strings.ToUpper(string(kind)), text)
}

// SetSubmitting marca no terminal quando o envio fica bloqueado e quando é liberado.
// Só escreve nas transições.
func (r *Renderer) SetSubmitting(submitting bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if submitting == r.submitting {
		return
	}
	r.submitting = submitting
	if submitting {
		fmt.Fprintln(r.out, "... enviando (aguarde o resultado)")
		return
	}
	fmt.Fprintln(r.out, "... envio liberado")
}

// PatchSummaryRow escreve a linha de resumo atualizada.
func (r *Renderer) PatchSummaryRow(productID, stock int, band domain.SeverityBand) {
	r.printf("produto #%d: %d [%s]\n", productID, stock, bandTag(band))
}

// ShowHistory escreve o título do histórico.
func (r *Renderer) ShowHistory(title string) { r.printf("== %s ==\n", title) }

// RenderHistoryNotice escreve a linha única (carregando, vazio ou falha).
func (r *Renderer) RenderHistoryNotice(notice string) { r.printf("%s\n", notice) }

// RenderHistoryRows escreve as linhas do histórico em colunas alinhadas.
func (r *Renderer) RenderHistoryRows(rows []dialog.HistoryRow) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(r.HistoryHeader, "\t"))
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Date, row.Type, row.Quantity, row.Before, row.After, row.UserID, row.Remarks)
	}
	_ = tw.Flush()
}

// Confirm pergunta e aceita "s", "sim", "y" ou "yes". Qualquer outra resposta cancela.
func (r *Renderer) Confirm(question string) bool {
	r.printf("%s [s/N]: ", question)

	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true
	}
	return false
}

// Alert escreve a mensagem de alerta.
func (r *Renderer) Alert(message string) { r.printf("! %s\n", message) }

func bandTag(b domain.SeverityBand) string {
	switch b {
	case domain.SeverityDanger:
		return "CRÍTICO"
	case domain.SeverityWarning:
		return "BAIXO"
	default:
		return "OK"
	}
}
