package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribucion-api/internal/domain"
)

// PaymentState estado del pago individual. CLEARED y CANCELED son terminales.
type PaymentState string

const (
	PaymentPending  PaymentState = "PENDING"
	PaymentCleared  PaymentState = "CLEARED"
	PaymentCanceled PaymentState = "CANCELED"
)

func (s PaymentState) String() string { return string(s) }

// IsTerminal CLEARED y CANCELED son definitivos.
func (s PaymentState) IsTerminal() bool {
	return s == PaymentCleared || s == PaymentCanceled
}

// CanTransitionTo tabla de transiciones del pago.
func (s PaymentState) CanTransitionTo(target PaymentState) bool {
	if s.IsTerminal() {
		return false
	}
	switch s {
	case PaymentPending:
		return target == PaymentCleared || target == PaymentCanceled
	default:
		return false
	}
}

// PaymentMethod medio de pago.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodCheck    PaymentMethod = "CHECK"
	PaymentMethodCredit   PaymentMethod = "CREDIT"
)

// ParsePaymentMethod valida el medio de pago.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(normalize(s)); m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard, PaymentMethodCheck, PaymentMethodCredit:
		return m, nil
	}
	return "", fmt.Errorf("%w: medio de pago desconocido %q", domain.ErrInvalidInput, s)
}

// Payment abono a una factura. Solo los CLEARED cuentan en el saldo.
type Payment struct {
	ID             string
	Code           string
	InvoiceID      string
	Amount         decimal.Decimal
	Method         PaymentMethod
	Status         PaymentState
	PaymentDate    time.Time
	Reference      string
	IdempotencyKey string
	Version        int64
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TransitionTo valida y aplica el cambio de estado.
func (p *Payment) TransitionTo(target PaymentState, now time.Time) error {
	if !p.Status.CanTransitionTo(target) {
		return transitionError("pago "+p.Code, p.Status, target)
	}
	p.Status = target
	p.UpdatedAt = now
	return nil
}
