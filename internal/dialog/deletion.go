package dialog

import (
	"context"

	"stockdesk/internal/domain"
	"stockdesk/internal/pkg/i18n"
	"stockdesk/internal/pkg/logger"
)

// Prompter abstrai confirm/alert nativos.
type Prompter interface {
	Confirm(message string) bool
	Alert(message string)
}

// ProductGateway expõe as ações de exclusão lógica de produto.
type ProductGateway interface {
	DeleteProduct(ctx context.Context, productID int) (domain.APIResponse, error)
	RestoreProduct(ctx context.Context, productID int) (domain.APIResponse, error)
}

// UserGateway expõe a exclusão de usuário.
type UserGateway interface {
	DeleteUser(ctx context.Context, userID string) (domain.APIResponse, error)
}

// ActionResult é o resultado de uma ação destrutiva confirmada pelo usuário.
type ActionResult struct {
	Confirmed bool
	Success   bool
	Message   string
}

// confirmedAction é o fluxo comum: confirmar, chamar o servidor, alertar o resultado.
type confirmedAction struct {
	prompter   Prompter
	printer    *i18n.Printer
	logger     logger.Logger
	failureKey string
}

func (a confirmedAction) run(question string, call func() (domain.APIResponse, error), fields map[string]interface{}) ActionResult {
	if !a.prompter.Confirm(question) {
		a.logger.Debug("Ação cancelada pelo usuário.", fields)
		return ActionResult{Confirmed: false, Message: a.printer.Sprintf(i18n.MsgCancelled)}
	}

	resp, err := call()
	if err != nil {
		a.logger.Error("Falha de transporte na ação confirmada.", err)
		msg := a.printer.Sprintf(a.failureKey)
		a.prompter.Alert(msg)
		return ActionResult{Confirmed: true, Message: msg}
	}

	msg := resp.Message
	if msg == "" && !resp.Success {
		msg = a.printer.Sprintf(a.failureKey)
	}
	if !resp.Success {
		a.logger.Warn("Servidor rejeitou a ação.", fields)
	} else {
		a.logger.Info("Ação concluída.", fields)
	}
	if msg != "" {
		a.prompter.Alert(msg)
	}
	return ActionResult{Confirmed: true, Success: resp.Success, Message: msg}
}

// DeleteDialog confirma e executa a exclusão lógica de um produto.
type DeleteDialog struct {
	gateway ProductGateway
	action  confirmedAction
}

// NewDeleteDialog cria o controlador de exclusão de produto.
func NewDeleteDialog(gateway ProductGateway, prompter Prompter, printer *i18n.Printer, log logger.Logger) *DeleteDialog {
	return &DeleteDialog{
		gateway: gateway,
		action:  confirmedAction{prompter: prompter, printer: printer, logger: log, failureKey: i18n.MsgDeleteFailed},
	}
}

// Run pede confirmação e, se aceita, exclui o produto.
func (d *DeleteDialog) Run(ctx context.Context, productID int, productName string) ActionResult {
	question := d.action.printer.Sprintf(i18n.MsgConfirmDelete, productName)
	return d.action.run(question, func() (domain.APIResponse, error) {
		return d.gateway.DeleteProduct(ctx, productID)
	}, map[string]interface{}{"action": "delete", "product_id": productID})
}

// RestoreDialog confirma e executa a restauração de um produto excluído.
type RestoreDialog struct {
	gateway ProductGateway
	action  confirmedAction
}

// NewRestoreDialog cria o controlador de restauração de produto.
func NewRestoreDialog(gateway ProductGateway, prompter Prompter, printer *i18n.Printer, log logger.Logger) *RestoreDialog {
	return &RestoreDialog{
		gateway: gateway,
		action:  confirmedAction{prompter: prompter, printer: printer, logger: log, failureKey: i18n.MsgRestoreFailed},
	}
}

// Run pede confirmação e, se aceita, restaura o produto.
func (d *RestoreDialog) Run(ctx context.Context, productID int, productName string) ActionResult {
	question := d.action.printer.Sprintf(i18n.MsgConfirmRestore, productName)
	return d.action.run(question, func() (domain.APIResponse, error) {
		return d.gateway.RestoreProduct(ctx, productID)
	}, map[string]interface{}{"action": "restore", "product_id": productID})
}

// UserDeleteDialog confirma e executa a exclusão de um usuário.
type UserDeleteDialog struct {
	gateway UserGateway
	action  confirmedAction
}

// NewUserDeleteDialog cria o controlador de exclusão de usuário.
func NewUserDeleteDialog(gateway UserGateway, prompter Prompter, printer *i18n.Printer, log logger.Logger) *UserDeleteDialog {
	return &UserDeleteDialog{
		gateway: gateway,
		action:  confirmedAction{prompter: prompter, printer: printer, logger: log, failureKey: i18n.MsgUserDeleteFailed},
	}
}

// Run pede confirmação e, se aceita, exclui o usuário.
func (d *UserDeleteDialog) Run(ctx context.Context, userID, username string) ActionResult {
	question := d.action.printer.Sprintf(i18n.MsgConfirmUserDelete, username)
	result := d.action.run(question, func() (domain.APIResponse, error) {
		return d.gateway.DeleteUser(ctx, userID)
	}, map[string]interface{}{"action": "delete-user", "user_id": userID})

	if result.Success && result.Message == "" {
		result.Message = d.action.printer.Sprintf(i18n.MsgUserDeleted)
		d.action.prompter.Alert(result.Message)
	}
	return result
}
