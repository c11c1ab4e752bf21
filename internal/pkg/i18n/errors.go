package i18n

import (
	"errors"

	"stockdesk/internal/domain"
	apperror "stockdesk/internal/errors"
)

var reasonKeys = map[apperror.Reason]string{
	apperror.ReasonMissingOrNonPositiveQuantity: MsgInvalidQuantity,
	apperror.ReasonNegativeTargetStock:          MsgNegativeTarget,
	apperror.ReasonInvalidProduct:               MsgInvalidProduct,
	apperror.ReasonPasswordTooShort:             MsgPasswordTooShort,
	apperror.ReasonPasswordNoUppercase:          MsgPasswordNoUppercase,
	apperror.ReasonPasswordNoLowercase:          MsgPasswordNoLowercase,
	apperror.ReasonPasswordNoDigit:              MsgPasswordNoDigit,
	apperror.ReasonPasswordNoSpecial:            MsgPasswordNoSpecial,
	apperror.ReasonPasswordMismatch:             MsgPasswordMismatch,
}

// ErrorMessage traduz um erro da aplicação para a mensagem exibida ao usuário.
//   - ValidationError: mensagem da regra violada (com o estoque atual, se for o caso)
//   - ServerRejection: mensagem do servidor, literal
//   - qualquer outro: mensagem genérica de falha de transporte
func (p *Printer) ErrorMessage(err error) string {
	var vErr *apperror.ValidationError
	if errors.As(err, &vErr) {
		switch vErr.Reason {
		case apperror.ReasonInsufficientStock:
			return p.Sprintf(MsgInsufficientStock, vErr.CurrentStock)
		case apperror.ReasonUnknownOperation:
			return p.Sprintf(MsgUnknownOperation, vErr.Input)
		case apperror.ReasonStockOutOfRange:
			return p.Sprintf(MsgStockOutOfRange, domain.MaxStock)
		}
		if key, ok := reasonKeys[vErr.Reason]; ok {
			return p.Sprintf(key)
		}
		return vErr.Msg
	}

	var rejection *apperror.ServerRejection
	if errors.As(err, &rejection) {
		return rejection.Msg
	}

	return p.Sprintf(MsgTransportFailure)
}
