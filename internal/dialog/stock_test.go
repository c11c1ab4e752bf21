package dialog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdesk/internal/client/inventoryapi"
	"stockdesk/internal/dialog"
	"stockdesk/internal/domain"
	apperror "stockdesk/internal/errors"
	"stockdesk/internal/pkg/i18n"
	"stockdesk/internal/pkg/logger"
	"stockdesk/internal/service/stockservice"
)

// recordingRenderer grava tudo o que o diálogo pede para exibir.
type recordingRenderer struct {
	mu         sync.Mutex
	title      string
	visible    bool
	preview    domain.Preview
	messages   []string
	kinds      []dialog.MessageKind
	submitting bool
	resets     int
	patches    map[int]int
	bands      map[int]domain.SeverityBand
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{patches: map[int]int{}, bands: map[int]domain.SeverityBand{}}
}

func (r *recordingRenderer) ShowStockDialog(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.title, r.visible = title, true
}

func (r *recordingRenderer) HideStockDialog() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible = false
}

func (r *recordingRenderer) ResetInputs() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
}

func (r *recordingRenderer) RenderPreview(p domain.Preview) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.preview = p
}

func (r *recordingRenderer) RenderMessage(kind dialog.MessageKind, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
	r.messages = append(r.messages, text)
}

func (r *recordingRenderer) SetSubmitting(s bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitting = s
}

func (r *recordingRenderer) PatchSummaryRow(id, stock int, band domain.SeverityBand) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patches[id] = stock
	r.bands[id] = band
}

func (r *recordingRenderer) lastMessage() (dialog.MessageKind, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return "", ""
	}
	return r.kinds[len(r.kinds)-1], r.messages[len(r.messages)-1]
}

// inventoryServer simula o endpoint update-stock e conta as requisições recebidas.
type inventoryServer struct {
	*httptest.Server
	requests atomic.Int32
	lastReq  atomic.Value
}

func newInventoryServer(t *testing.T, release <-chan struct{}, respond func(req domain.StockTransactionRequest) domain.APIResponse) *inventoryServer {
	t.Helper()
	s := &inventoryServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.requests.Add(1)
		var req domain.StockTransactionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.lastReq.Store(req)
		if release != nil {
			<-release
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(respond(req))
	}))
	return s
}

func newStockDialog(baseURL string, renderer dialog.StockRenderer) *dialog.StockDialog {
	printer := i18n.NewPrinter("pt-BR")
	log := logger.NewLogger("debug")
	client := inventoryapi.NewClient(inventoryapi.Options{BaseURL: baseURL, CSRFHeader: "X-CSRF-TOKEN", CSRFToken: "tok"})
	svc := stockservice.NewService(client, printer, log)
	return dialog.NewStockDialog(svc, renderer, printer, log)
}

// TestStockDialog_EndToEnd_OutToWarning testa o cenário estoque 15, saída de 5, confirmado em 10.
func TestStockDialog_EndToEnd_OutToWarning(t *testing.T) {
	srv := newInventoryServer(t, nil, func(req domain.StockTransactionRequest) domain.APIResponse {
		return domain.APIResponse{Success: true, Message: "Estoque atualizado", Product: &domain.Product{ID: req.ProductID, Stock: 10}}
	})
	defer srv.Close()

	renderer := newRecordingRenderer()
	d := newStockDialog(srv.URL, renderer)

	d.Open(domain.ProductSnapshot{ProductID: 3, ProductName: "Parafuso", CurrentStock: 15})
	assert.Equal(t, dialog.StateOpen, d.State())
	assert.Equal(t, "Estoque - Parafuso (atual: 15 unidades)", renderer.title)

	preview, err := d.Change(domain.OperationOut, "5")
	require.NoError(t, err)
	assert.Equal(t, 10, preview.Predicted)
	assert.Equal(t, domain.SeverityWarning, preview.Band)
	assert.Equal(t, dialog.StateEditing, d.State())

	outcome, err := d.Submit(context.Background())
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Equal(t, 10, outcome.ResultingStock)
	assert.Equal(t, 10, d.Stock())
	assert.Equal(t, dialog.StateOpen, d.State())
	assert.Equal(t, int32(1), srv.requests.Load())

	sent := srv.lastReq.Load().(domain.StockTransactionRequest)
	assert.Equal(t, domain.OperationOut, sent.Operation)
	assert.Equal(t, 5, sent.Quantity)
	assert.Equal(t, "Saída de estoque", sent.Remarks)

	assert.Equal(t, "Estoque - Parafuso (atual: 10 unidades)", renderer.title)
	assert.Equal(t, 10, renderer.patches[3])
	assert.Equal(t, domain.SeverityWarning, renderer.bands[3])
	assert.False(t, renderer.submitting)
	kind, msg := renderer.lastMessage()
	assert.Equal(t, dialog.MessageSuccess, kind)
	assert.Equal(t, "Estoque atualizado (novo estoque: 10 unidades)", msg)
}

// TestStockDialog_Change_InFromZero testa a previsão de entrada a partir de estoque zero.
func TestStockDialog_Change_InFromZero(t *testing.T) {
	renderer := newRecordingRenderer()
	d := newStockDialog("http://127.0.0.1:1", renderer)

	d.Open(domain.ProductSnapshot{ProductID: 1, ProductName: "Porca", CurrentStock: 0})
	assert.Equal(t, domain.SeverityDanger, renderer.preview.Band)

	preview, err := d.Change(domain.OperationIn, "30")
	require.NoError(t, err)
	assert.Equal(t, 30, preview.Predicted)
	assert.Equal(t, domain.SeverityOK, preview.Band)
	assert.Equal(t, preview, renderer.preview)
}

// TestStockDialog_Submit_TwiceRapidly_SendsOneRequest testa o bloqueio de submit duplicado.
func TestStockDialog_Submit_TwiceRapidly_SendsOneRequest(t *testing.T) {
	release := make(chan struct{})
	srv := newInventoryServer(t, release, func(req domain.StockTransactionRequest) domain.APIResponse {
		return domain.APIResponse{Success: true, Message: "ok", Product: &domain.Product{Stock: 12}}
	})
	defer srv.Close()

	renderer := newRecordingRenderer()
	d := newStockDialog(srv.URL, renderer)
	d.Open(domain.ProductSnapshot{ProductID: 1, ProductName: "Porca", CurrentStock: 10})
	_, err := d.Change(domain.OperationIn, "2")
	require.NoError(t, err)

	first := make(chan domain.TransactionOutcome, 1)
	go func() {
		outcome, _ := d.Submit(context.Background())
		first <- outcome
	}()

	require.Eventually(t, func() bool { return d.State() == dialog.StateSubmitting }, 2*time.Second, 5*time.Millisecond)

	_, err = d.Submit(context.Background())
	assert.ErrorIs(t, err, dialog.ErrSubmitInFlight)

	close(release)
	outcome := <-first

	assert.True(t, outcome.Success)
	assert.Equal(t, int32(1), srv.requests.Load())
	assert.Equal(t, 12, d.Stock())
}

// TestStockDialog_Submit_Fail_ValidationKeepsEditing testa que falha local não chama o servidor.
func TestStockDialog_Submit_Fail_ValidationKeepsEditing(t *testing.T) {
	srv := newInventoryServer(t, nil, func(req domain.StockTransactionRequest) domain.APIResponse {
		return domain.APIResponse{Success: true, Product: &domain.Product{}}
	})
	defer srv.Close()

	renderer := newRecordingRenderer()
	d := newStockDialog(srv.URL, renderer)
	d.Open(domain.ProductSnapshot{ProductID: 1, ProductName: "Porca", CurrentStock: 10})
	_, err := d.Change(domain.OperationOut, "11")
	require.NoError(t, err)

	outcome, err := d.Submit(context.Background())
	require.NoError(t, err)

	assert.False(t, outcome.Success)
	assert.Equal(t, apperror.ReasonInsufficientStock, apperror.ReasonOf(outcome.Err))
	assert.Equal(t, dialog.StateEditing, d.State())
	assert.Equal(t, 10, d.Stock())
	assert.Equal(t, int32(0), srv.requests.Load())
	kind, msg := renderer.lastMessage()
	assert.Equal(t, dialog.MessageError, kind)
	assert.Contains(t, msg, "10")

	// Campo vazio também é rejeitado localmente
	_, err = d.Change(domain.OperationIn, "")
	require.NoError(t, err)
	outcome, err = d.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, apperror.ReasonMissingOrNonPositiveQuantity, apperror.ReasonOf(outcome.Err))
	assert.Equal(t, int32(0), srv.requests.Load())
}

// TestStockDialog_Submit_Fail_ServerRejectionRetry testa que a rejeição mantém os campos para nova tentativa.
func TestStockDialog_Submit_Fail_ServerRejectionRetry(t *testing.T) {
	var calls atomic.Int32
	srv := newInventoryServer(t, nil, func(req domain.StockTransactionRequest) domain.APIResponse {
		if calls.Add(1) == 1 {
			return domain.APIResponse{Success: false, Message: "Produto bloqueado"}
		}
		return domain.APIResponse{Success: true, Message: "ok", Product: &domain.Product{Stock: 7}}
	})
	defer srv.Close()

	renderer := newRecordingRenderer()
	d := newStockDialog(srv.URL, renderer)
	d.Open(domain.ProductSnapshot{ProductID: 1, ProductName: "Porca", CurrentStock: 10})
	_, err := d.Change(domain.OperationSet, "7")
	require.NoError(t, err)

	outcome, err := d.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, "Produto bloqueado", outcome.Message)
	assert.Equal(t, dialog.StateEditing, d.State())
	assert.False(t, renderer.submitting)

	// Sem redigitar: os campos foram preservados
	outcome, err = d.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, 7, d.Stock())
	assert.Equal(t, int32(2), srv.requests.Load())
}

// TestStockDialog_Submit_Fail_NotOpen testa submit sem diálogo aberto.
func TestStockDialog_Submit_Fail_NotOpen(t *testing.T) {
	d := newStockDialog("http://127.0.0.1:1", newRecordingRenderer())

	_, err := d.Submit(context.Background())
	assert.ErrorIs(t, err, dialog.ErrDialogNotOpen)

	_, err = d.Change(domain.OperationIn, "1")
	assert.ErrorIs(t, err, dialog.ErrDialogNotOpen)
}

// TestStockDialog_LateOutcomeDiscarded testa que o resultado que chega após o fechamento é descartado.
func TestStockDialog_LateOutcomeDiscarded(t *testing.T) {
	release := make(chan struct{})
	srv := newInventoryServer(t, release, func(req domain.StockTransactionRequest) domain.APIResponse {
		return domain.APIResponse{Success: true, Message: "ok", Product: &domain.Product{Stock: 99}}
	})
	defer srv.Close()

	renderer := newRecordingRenderer()
	d := newStockDialog(srv.URL, renderer)
	d.Open(domain.ProductSnapshot{ProductID: 5, ProductName: "Arruela", CurrentStock: 10})
	_, err := d.Change(domain.OperationIn, "89")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, err := d.Submit(context.Background())
		errCh <- err
	}()
	require.Eventually(t, func() bool { return d.State() == dialog.StateSubmitting }, 2*time.Second, 5*time.Millisecond)

	d.Close()
	assert.Equal(t, dialog.StateIdle, d.State())

	close(release)
	assert.ErrorIs(t, <-errCh, dialog.ErrOutcomeDiscarded)

	assert.Empty(t, renderer.patches)
	assert.False(t, renderer.visible)
	assert.Equal(t, dialog.StateIdle, d.State())
}

// TestStockDialog_ReopenWhileSubmitting testa fechar e reabrir com uma transação pendente:
// o resultado antigo é descartado e nenhum segundo envio sai antes dele chegar.
func TestStockDialog_ReopenWhileSubmitting(t *testing.T) {
	release := make(chan struct{})
	srv := newInventoryServer(t, release, func(req domain.StockTransactionRequest) domain.APIResponse {
		return domain.APIResponse{Success: true, Message: "ok", Product: &domain.Product{ID: req.ProductID, Stock: 40}}
	})
	defer srv.Close()

	renderer := newRecordingRenderer()
	d := newStockDialog(srv.URL, renderer)
	d.Open(domain.ProductSnapshot{ProductID: 5, ProductName: "Arruela", CurrentStock: 10})
	_, err := d.Change(domain.OperationIn, "30")
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		_, err := d.Submit(context.Background())
		errCh <- err
	}()
	require.Eventually(t, func() bool { return srv.requests.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	d.Close()
	d.Open(domain.ProductSnapshot{ProductID: 5, ProductName: "Arruela", CurrentStock: 10})
	assert.Equal(t, dialog.StateOpen, d.State())
	assert.True(t, renderer.submitting)

	_, err = d.Change(domain.OperationIn, "1")
	require.NoError(t, err)
	_, err = d.Submit(context.Background())
	assert.ErrorIs(t, err, dialog.ErrSubmitInFlight)
	assert.Equal(t, int32(1), srv.requests.Load())

	close(release)
	assert.ErrorIs(t, <-errCh, dialog.ErrOutcomeDiscarded)

	// A sessão reaberta não recebe o resultado antigo e volta a aceitar envio
	assert.False(t, renderer.submitting)
	assert.Empty(t, renderer.patches)
	assert.Equal(t, 10, d.Stock())
	assert.Equal(t, dialog.StateEditing, d.State())

	outcome, err := d.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, int32(2), srv.requests.Load())
	assert.Equal(t, 1, srv.lastReq.Load().(domain.StockTransactionRequest).Quantity)
}

// TestStockDialog_Transport_GenericMessage testa a mensagem genérica quando o servidor está fora.
func TestStockDialog_Transport_GenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	renderer := newRecordingRenderer()
	d := newStockDialog(url, renderer)
	d.Open(domain.ProductSnapshot{ProductID: 1, ProductName: "Porca", CurrentStock: 10})
	_, err := d.Change(domain.OperationIn, "1")
	require.NoError(t, err)

	outcome, err := d.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, "Falha ao atualizar o estoque. Contate o administrador do sistema.", outcome.Message)
	assert.Equal(t, dialog.StateEditing, d.State())
}
