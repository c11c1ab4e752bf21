// Package i18n concentra as mensagens exibidas ao usuário e sua tradução.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Chaves de mensagem. Todo texto visível ao usuário passa por uma delas.
const (
	MsgInvalidQuantity   = "stock.invalid_quantity"
	MsgNegativeTarget    = "stock.negative_target"
	MsgStockOutOfRange   = "stock.out_of_range"
	MsgInsufficientStock = "stock.insufficient"
	MsgUnknownOperation  = "stock.unknown_operation"
	MsgInvalidProduct    = "stock.invalid_product"
	MsgTransportFailure  = "stock.transport_failure"
	MsgUpdateSuccess     = "stock.update_success"
	MsgServerError       = "stock.server_error"
	MsgDialogTitle       = "stock.dialog_title"
	MsgSubmitting        = "stock.submitting"
	MsgRemarksIn         = "stock.remarks_in"
	MsgRemarksOut        = "stock.remarks_out"
	MsgRemarksSet        = "stock.remarks_set"

	MsgHistoryTitle   = "history.title"
	MsgHistoryLoading = "history.loading"
	MsgHistoryEmpty   = "history.empty"
	MsgHistoryFailed  = "history.failed"
	MsgTypeIn         = "history.type_in"
	MsgTypeOut        = "history.type_out"
	MsgTypeSet        = "history.type_set"

	MsgConfirmDelete     = "product.confirm_delete"
	MsgConfirmRestore    = "product.confirm_restore"
	MsgDeleteFailed      = "product.delete_failed"
	MsgRestoreFailed     = "product.restore_failed"
	MsgConfirmUserDelete = "user.confirm_delete"
	MsgUserDeleteFailed  = "user.delete_failed"
	MsgUserDeleted       = "user.deleted"
	MsgCancelled         = "dialog.cancelled"

	MsgPasswordTooShort    = "password.too_short"
	MsgPasswordNoUppercase = "password.no_uppercase"
	MsgPasswordNoLowercase = "password.no_lowercase"
	MsgPasswordNoDigit     = "password.no_digit"
	MsgPasswordNoSpecial   = "password.no_special"
	MsgPasswordMismatch    = "password.mismatch"
	MsgStrengthWeak        = "password.strength_weak"
	MsgStrengthMedium      = "password.strength_medium"
	MsgStrengthStrong      = "password.strength_strong"
)

// translation guarda o texto de uma chave em cada idioma suportado.
type translation struct {
	pt, en, ja string
}

var table = map[string]translation{
	MsgInvalidQuantity:   {"Informe uma quantidade de estoque válida.", "Enter a valid stock quantity.", "有効な在庫数を入力してください。"},
	MsgNegativeTarget:    {"O novo estoque não pode ser negativo.", "The new stock level cannot be negative.", "在庫数は0以上で入力してください。"},
	MsgStockOutOfRange:   {"O estoque resultante excede o limite permitido (%d unidades).", "The resulting stock exceeds the allowed limit (%d units).", "在庫数が上限（%d個）を超えています。"},
	MsgInsufficientStock: {"A quantidade de saída deve ser no máximo o estoque atual (%d unidades).", "The out quantity must not exceed the current stock (%d units).", "出庫数は現在の在庫数（%d個）以下で入力してください。"},
	MsgUnknownOperation:  {"Operação desconhecida: %s.", "Unknown operation: %s.", "取引種別が不正です: %s"},
	MsgInvalidProduct:    {"Produto inválido.", "Invalid product.", "商品IDが不正です。"},
	MsgTransportFailure:  {"Falha ao atualizar o estoque. Contate o administrador do sistema.", "Stock update failed. Please contact the system administrator.", "在庫更新に失敗しました。システム管理者に連絡してください。"},
	MsgUpdateSuccess:     {"%s (novo estoque: %d unidades)", "%s (new stock: %d units)", "%s (新しい在庫数: %d個)"},
	MsgServerError:       {"Erro: %s", "Error: %s", "エラー: %s"},
	MsgDialogTitle:       {"Estoque - %s (atual: %d unidades)", "Stock - %s (current: %d units)", "在庫管理 - %s (現在: %d個)"},
	MsgSubmitting:        {"Atualizando...", "Updating...", "更新中..."},
	MsgRemarksIn:         {"Entrada de estoque", "Stock in", "入庫処理"},
	MsgRemarksOut:        {"Saída de estoque", "Stock out", "出庫処理"},
	MsgRemarksSet:        {"Ajuste de estoque", "Stock set", "在庫設定"},

	MsgHistoryTitle:   {"Histórico - %s", "History - %s", "在庫履歴 - %s"},
	MsgHistoryLoading: {"Carregando...", "Loading...", "読み込み中..."},
	MsgHistoryEmpty:   {"Sem histórico", "No history", "履歴がありません"},
	MsgHistoryFailed:  {"Falha ao carregar o histórico", "Failed to load history", "履歴の取得に失敗しました"},
	MsgTypeIn:         {"Entrada", "In", "入庫"},
	MsgTypeOut:        {"Saída", "Out", "出庫"},
	MsgTypeSet:        {"Ajuste", "Set", "設定"},

	MsgConfirmDelete:     {"Excluir o produto \"%s\"?", "Delete product \"%s\"?", "商品「%s」を削除しますか?"},
	MsgConfirmRestore:    {"Restaurar o produto \"%s\"?", "Restore product \"%s\"?", "商品「%s」を復元しますか?"},
	MsgDeleteFailed:      {"Falha ao excluir o produto", "Failed to delete product", "商品削除に失敗しました"},
	MsgRestoreFailed:     {"Falha ao restaurar o produto", "Failed to restore product", "商品復元に失敗しました"},
	MsgConfirmUserDelete: {"Excluir o usuário \"%s\"?", "Delete user \"%s\"?", "ユーザー「%s」を削除しますか?"},
	MsgUserDeleteFailed:  {"Falha ao excluir o usuário", "Failed to delete user", "ユーザー削除に失敗しました"},
	MsgUserDeleted:       {"Usuário excluído.", "User deleted.", "ユーザーを削除しました。"},
	MsgCancelled:         {"Operação cancelada.", "Operation cancelled.", "キャンセルしました。"},

	MsgPasswordTooShort:    {"A senha deve ter pelo menos 8 caracteres.", "The password must be at least 8 characters long.", "パスワードは8文字以上で入力してください。"},
	MsgPasswordNoUppercase: {"A senha deve conter letras maiúsculas.", "The password must contain an uppercase letter.", "パスワードには英大文字を含めてください。"},
	MsgPasswordNoLowercase: {"A senha deve conter letras minúsculas.", "The password must contain a lowercase letter.", "パスワードには英小文字を含めてください。"},
	MsgPasswordNoDigit:     {"A senha deve conter números.", "The password must contain a digit.", "パスワードには数字を含めてください。"},
	MsgPasswordNoSpecial:   {"A senha deve conter caracteres especiais.", "The password must contain a special character.", "パスワードには特殊文字を含めてください。"},
	MsgPasswordMismatch:    {"As senhas não coincidem", "Passwords do not match", "パスワードが一致しません"},
	MsgStrengthWeak:        {"Força: fraca", "Strength: weak", "強度: 弱い"},
	MsgStrengthMedium:      {"Força: média", "Strength: medium", "強度: 普通"},
	MsgStrengthStrong:      {"Força: forte", "Strength: strong", "強度: 強い"},
}

var supported = []language.Tag{language.BrazilianPortuguese, language.English, language.Japanese}

var (
	cat     = buildCatalog()
	matcher = language.NewMatcher(supported)
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.BrazilianPortuguese))
	for key, tr := range table {
		_ = b.SetString(language.BrazilianPortuguese, key, tr.pt)
		_ = b.SetString(language.English, key, tr.en)
		_ = b.SetString(language.Japanese, key, tr.ja)
	}
	return b
}

// Printer formata mensagens no idioma escolhido.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// NewPrinter cria um Printer para o locale informado (e.g., "pt-BR", "en", "ja").
// Locales inválidos ou não suportados caem para pt-BR.
func NewPrinter(locale string) *Printer {
	tag := language.BrazilianPortuguese
	if parsed, err := language.Parse(locale); err == nil {
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}
}

// Sprintf formata a mensagem da chave com os argumentos.
func (p *Printer) Sprintf(key string, args ...interface{}) string {
	return p.p.Sprintf(key, args...)
}

// Language devolve o idioma efetivamente usado.
func (p *Printer) Language() language.Tag {
	return p.tag
}
