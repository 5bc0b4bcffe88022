package entity

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Distribucion-api/internal/domain"
)

// Prefijos de código por tipo de entidad (ver repository.CodeAllocator).
const (
	CodePrefixOrder         = "SO"
	CodePrefixPurchaseOrder = "PO"
	CodePrefixInvoice       = "INV"
	CodePrefixDeliveryNote  = "DN"
	CodePrefixPayment       = "PAY"
	CodePrefixMovement      = "MOV"
)

// invalidPricing traduce un error del motor de precios a la taxonomía de dominio.
func invalidPricing(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

// transitionError construye el error estándar de transición ilegal.
func transitionError(doc string, from, to fmt.Stringer) error {
	return fmt.Errorf("%w: %s de %s a %s", domain.ErrInvalidTransition, doc, from, to)
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
