package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/pricing"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

// RecordPayment registra un pago sobre la factura. Si llega CLEARED el saldo y el
// estado de pago se recalculan en la misma transacción. Con IdempotencyKey un
// reintento devuelve el pago ya registrado.
func (o *Orchestrator) RecordPayment(ctx context.Context, actorID, invoiceID string, req dto.RecordPaymentRequest) (*dto.PaymentResultResponse, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, invalid("el monto del pago debe ser mayor que cero")
	}
	if !req.Amount.Equal(pricing.Money(req.Amount)) {
		return nil, invalid("el monto %s tiene más de %d decimales", req.Amount, pricing.MoneyScale)
	}
	method, err := entity.ParsePaymentMethod(req.Method)
	if err != nil {
		return nil, err
	}
	initial := entity.PaymentPending
	switch req.Status {
	case "", string(entity.PaymentPending):
	case string(entity.PaymentCleared):
		initial = entity.PaymentCleared
	default:
		return nil, invalid("estado inicial de pago inválido %q", req.Status)
	}

	var (
		inv     *entity.Invoice
		payment *entity.Payment
		created bool
	)
	err = o.store.Run(ctx, func(r repository.Repos) error {
		var (
			payments []entity.Payment
			err      error
		)
		if inv, payments, err = o.loadInvoice(ctx, r, invoiceID); err != nil {
			return err
		}
		if req.IdempotencyKey != "" {
			existing, err := r.Payments.GetByIdempotencyKey(ctx, invoiceID, req.IdempotencyKey)
			switch {
			case err == nil:
				payment = existing
				return nil
			case !isNotFound(err):
				return err
			}
		}
		if inv.Status == entity.InvoiceStatusCancelled {
			return conflict("la factura %s está cancelada", inv.Code)
		}
		if req.Amount.GreaterThan(inv.RemainingAmount) {
			return invalid("el pago de %s supera el saldo de %s", req.Amount, inv.RemainingAmount)
		}

		ts := now()
		payment = &entity.Payment{
			ID:             uuid.New().String(),
			InvoiceID:      inv.ID,
			Amount:         req.Amount,
			Method:         method,
			Status:         initial,
			PaymentDate:    ts,
			Reference:      req.Reference,
			IdempotencyKey: req.IdempotencyKey,
			CreatedBy:      actorID,
			CreatedAt:      ts,
			UpdatedAt:      ts,
		}
		if req.PaymentDate != nil {
			payment.PaymentDate = req.PaymentDate.UTC()
		}
		if payment.Code, err = r.Codes.Next(ctx, entity.CodePrefixPayment); err != nil {
			return err
		}
		if err := r.Payments.Create(ctx, payment); err != nil {
			return err
		}
		created = true
		if initial != entity.PaymentCleared {
			return nil
		}
		inv.ApplyPayments(append(payments, *payment))
		inv.UpdatedAt = ts
		return r.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	if created {
		o.log.Info().
			Str("document", "payment").
			Str("code", payment.Code).
			Str("invoice", inv.Code).
			Str("amount", payment.Amount.String()).
			Str("status", string(payment.Status)).
			Str("payment_status", string(inv.PaymentStatus)).
			Str("actor", actorID).
			Msg("pago registrado")
	}
	return &dto.PaymentResultResponse{Payment: *toPaymentResponse(payment), Invoice: *toInvoiceResponse(inv), Created: created}, nil
}

// ClearPayment confirma un pago PENDING y recalcula el saldo de la factura.
// Confirmar un pago ya CLEARED no hace nada.
func (o *Orchestrator) ClearPayment(ctx context.Context, actorID, paymentID string) (*dto.PaymentResultResponse, error) {
	return o.settlePayment(ctx, actorID, paymentID, entity.PaymentCleared)
}

// CancelPayment anula un pago PENDING. Cancelar un pago ya CANCELED no hace nada.
func (o *Orchestrator) CancelPayment(ctx context.Context, actorID, paymentID string) (*dto.PaymentResultResponse, error) {
	return o.settlePayment(ctx, actorID, paymentID, entity.PaymentCanceled)
}

func (o *Orchestrator) settlePayment(ctx context.Context, actorID, paymentID string, target entity.PaymentState) (*dto.PaymentResultResponse, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	var (
		inv     *entity.Invoice
		payment *entity.Payment
		from    entity.PaymentState
		changed bool
	)
	err := o.store.Run(ctx, func(r repository.Repos) error {
		var err error
		if payment, err = r.Payments.GetByID(ctx, paymentID); err != nil {
			return err
		}
		var payments []entity.Payment
		if inv, payments, err = o.loadInvoice(ctx, r, payment.InvoiceID); err != nil {
			return err
		}
		from = payment.Status
		if from == target {
			return nil
		}
		if err := payment.TransitionTo(target, now()); err != nil {
			return err
		}
		if target == entity.PaymentCleared {
			if inv.Status == entity.InvoiceStatusCancelled {
				return conflict("la factura %s está cancelada", inv.Code)
			}
			if payment.Amount.GreaterThan(inv.RemainingAmount) {
				return conflict("el pago %s de %s supera el saldo de %s", payment.Code, payment.Amount, inv.RemainingAmount)
			}
		}
		if err := r.Payments.Update(ctx, payment); err != nil {
			return err
		}
		changed = true
		if target != entity.PaymentCleared {
			return nil
		}
		for i := range payments {
			if payments[i].ID == payment.ID {
				payments[i] = *payment
			}
		}
		inv.ApplyPayments(payments)
		inv.UpdatedAt = now()
		return r.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		o.logTransition("payment", payment.Code, from, target, actorID)
	}
	return &dto.PaymentResultResponse{Payment: *toPaymentResponse(payment), Invoice: *toInvoiceResponse(inv)}, nil
}
