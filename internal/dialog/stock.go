// Package dialog contém os controladores dos diálogos da tela de inventário.
// Cada controlador guarda apenas o estado da sua sessão (abrir/fechar) e
// conversa com a tela através das interfaces Renderer e Prompter.
package dialog

import (
	"context"
	"errors"
	"sync"

	"stockdesk/internal/domain"
	"stockdesk/internal/pkg/i18n"
	"stockdesk/internal/pkg/logger"
	"stockdesk/internal/service/stockengine"
)

var (
	ErrDialogNotOpen  = errors.New("diálogo de estoque não está aberto")
	ErrSubmitInFlight = errors.New("já existe uma transação em andamento")

	// ErrOutcomeDiscarded indica que o resultado chegou depois do diálogo ser fechado ou reaberto.
	ErrOutcomeDiscarded = errors.New("resultado descartado: sessão do diálogo encerrada")
)

// State é o estado do diálogo de estoque.
type State int

const (
	StateIdle State = iota
	StateOpen
	StateEditing
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// MessageKind indica o estilo da mensagem exibida no diálogo.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
	MessageInfo    MessageKind = "info"
)

// StockRenderer é o adaptador de exibição do diálogo de estoque.
type StockRenderer interface {
	ShowStockDialog(title string)
	HideStockDialog()
	ResetInputs()
	RenderPreview(preview domain.Preview)
	RenderMessage(kind MessageKind, text string)
	SetSubmitting(submitting bool)
	// PatchSummaryRow atualiza a linha do produto fora do diálogo.
	PatchSummaryRow(productID, stock int, band domain.SeverityBand)
}

// Submitter executa a transação (implementado por stockservice.Service).
type Submitter interface {
	Submit(ctx context.Context, current int, req domain.StockTransactionRequest) domain.TransactionOutcome
}

// StockDialog controla uma instância do diálogo de edição de estoque.
type StockDialog struct {
	submitter Submitter
	renderer  StockRenderer
	printer   *i18n.Printer
	logger    logger.Logger

	mu         sync.Mutex
	state      State
	generation uint64
	inFlight   bool // vale para a instância, não para a sessão
	snapshot   domain.ProductSnapshot
	op         domain.Operation
	rawQty     string
	remarks    string
}

// NewStockDialog cria o controlador no estado Idle.
func NewStockDialog(submitter Submitter, renderer StockRenderer, printer *i18n.Printer, log logger.Logger) *StockDialog {
	return &StockDialog{
		submitter: submitter,
		renderer:  renderer,
		printer:   printer,
		logger:    log,
		op:        domain.OperationIn,
	}
}

// Open inicia uma nova sessão com o snapshot do produto e zera os campos.
func (d *StockDialog) Open(snapshot domain.ProductSnapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.generation++
	d.snapshot = snapshot
	d.resetInputsLocked()
	d.state = StateOpen

	d.logger.Debug("Diálogo de estoque aberto.", map[string]interface{}{
		"product_id":    snapshot.ProductID,
		"current_stock": snapshot.CurrentStock,
	})

	d.renderer.ShowStockDialog(d.titleLocked())
	d.renderer.ResetInputs()
	d.renderer.SetSubmitting(d.inFlight)
	d.renderer.RenderPreview(stockengine.Preview(snapshot.CurrentStock, d.op, d.rawQty))
}

// Change registra a operação e a quantidade digitadas e recalcula a previsão.
func (d *StockDialog) Change(op domain.Operation, rawQty string) (domain.Preview, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateIdle {
		return domain.Preview{}, ErrDialogNotOpen
	}

	d.op = op
	d.rawQty = rawQty
	if d.state == StateOpen {
		d.state = StateEditing
	}

	preview := stockengine.Preview(d.snapshot.CurrentStock, op, rawQty)
	d.renderer.RenderPreview(preview)
	return preview, nil
}

// SetRemarks registra a observação da transação.
func (d *StockDialog) SetRemarks(remarks string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateIdle {
		return ErrDialogNotOpen
	}
	d.remarks = remarks
	return nil
}

// Submit envia a transação atual. Somente um submit fica em andamento por
// instância, mesmo que o diálogo seja fechado e reaberto antes do resultado;
// o controle é reabilitado quando o resultado chega, com sucesso ou falha.
func (d *StockDialog) Submit(ctx context.Context) (domain.TransactionOutcome, error) {
	d.mu.Lock()
	if d.state == StateIdle {
		d.mu.Unlock()
		return domain.TransactionOutcome{}, ErrDialogNotOpen
	}
	if d.inFlight {
		d.mu.Unlock()
		return domain.TransactionOutcome{}, ErrSubmitInFlight
	}

	qty, err := stockengine.ParseQuantity(d.op, d.rawQty)
	if err != nil {
		outcome := domain.TransactionOutcome{Message: d.printer.ErrorMessage(err), Err: err}
		d.state = StateEditing
		d.renderer.RenderMessage(MessageError, outcome.Message)
		d.mu.Unlock()
		return outcome, nil
	}

	req := domain.StockTransactionRequest{
		ProductID: d.snapshot.ProductID,
		Operation: d.op,
		Quantity:  qty,
		Remarks:   d.remarksLocked(),
	}
	current := d.snapshot.CurrentStock
	generation := d.generation
	d.state = StateSubmitting
	d.inFlight = true
	d.renderer.SetSubmitting(true)
	d.renderer.RenderMessage(MessageInfo, d.printer.Sprintf(i18n.MsgSubmitting))
	d.mu.Unlock()

	outcome := d.submitter.Submit(ctx, current, req)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.inFlight = false
	if d.generation != generation {
		d.logger.Warn("Resultado de transação descartado: diálogo fechado ou reaberto.", map[string]interface{}{
			"product_id": req.ProductID,
			"success":    outcome.Success,
		})
		if d.state != StateIdle {
			d.renderer.SetSubmitting(false)
		}
		return outcome, ErrOutcomeDiscarded
	}

	d.renderer.SetSubmitting(false)

	if !outcome.Success {
		d.state = StateEditing
		d.renderer.RenderMessage(MessageError, outcome.Message)
		return outcome, nil
	}

	d.snapshot.CurrentStock = outcome.ResultingStock
	d.resetInputsLocked()
	d.state = StateOpen

	band := stockengine.Classify(outcome.ResultingStock)
	d.renderer.ShowStockDialog(d.titleLocked())
	d.renderer.ResetInputs()
	d.renderer.RenderPreview(stockengine.Preview(outcome.ResultingStock, d.op, d.rawQty))
	d.renderer.RenderMessage(MessageSuccess, outcome.Message)
	d.renderer.PatchSummaryRow(req.ProductID, outcome.ResultingStock, band)
	return outcome, nil
}

// Close encerra a sessão. Resultados pendentes desta sessão serão descartados.
func (d *StockDialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateIdle {
		return
	}
	d.generation++
	d.state = StateIdle
	d.snapshot = domain.ProductSnapshot{}
	d.resetInputsLocked()
	d.renderer.HideStockDialog()
}

// State devolve o estado atual do diálogo.
func (d *StockDialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Stock devolve o estoque retido pela sessão (o último valor confirmado).
func (d *StockDialog) Stock() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot.CurrentStock
}

func (d *StockDialog) resetInputsLocked() {
	d.op = domain.OperationIn
	d.rawQty = ""
	d.remarks = ""
}

func (d *StockDialog) titleLocked() string {
	return d.printer.Sprintf(i18n.MsgDialogTitle, d.snapshot.ProductName, d.snapshot.CurrentStock)
}

// remarksLocked usa a observação padrão da operação quando o campo está vazio.
func (d *StockDialog) remarksLocked() string {
	if d.remarks != "" {
		return d.remarks
	}
	switch d.op {
	case domain.OperationOut:
		return d.printer.Sprintf(i18n.MsgRemarksOut)
	case domain.OperationSet:
		return d.printer.Sprintf(i18n.MsgRemarksSet)
	default:
		return d.printer.Sprintf(i18n.MsgRemarksIn)
	}
}
