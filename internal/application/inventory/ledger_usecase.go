package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	ledger "github.com/jhoicas/Distribucion-api/internal/domain/inventory"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
	"github.com/jhoicas/Distribucion-api/pkg/logger"
)

// MovementInput datos para aplicar un movimiento al libro de stock.
type MovementInput struct {
	ProductID string
	Type      entity.MovementType
	Direction entity.Direction // solo ADJUSTMENT
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal // solo PRODUCTION_IN; cero conserva el costo vigente
	Reference string
	Notes     string
	ActorID   string
}

// LedgerUseCase único punto de mutación de Product.CurrentStock.
// Bloquea la fila del producto (SELECT ... FOR UPDATE), calcula el nuevo stock,
// inserta el asiento y guarda el producto con control optimista de versión.
type LedgerUseCase struct {
	store  repository.Store
	policy ledger.OutboundPolicy
	log    *logger.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(store repository.Store, policy ledger.OutboundPolicy, log *logger.Logger) *LedgerUseCase {
	return &LedgerUseCase{store: store, policy: policy, log: log}
}

// ApplyInTx aplica el movimiento con los repositorios de la transacción del caller.
// No registra logs: el caller llama a Report después del Commit.
func (uc *LedgerUseCase) ApplyInTx(ctx context.Context, r repository.Repos, in MovementInput) (*entity.StockMovement, *entity.Product, error) {
	product, err := r.Products.GetForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, nil, err
	}
	e, err := ledger.Apply(product.CurrentStock, in.Type, in.Quantity, in.Direction, uc.policy)
	if err != nil {
		return nil, nil, fmt.Errorf("producto %s: %w", product.Code, err)
	}
	code, err := r.Codes.Next(ctx, entity.CodePrefixMovement)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	unitCost := product.Cost
	if in.Type == entity.MovementProductionIn && in.UnitCost.IsPositive() {
		unitCost = in.UnitCost
		product.Cost = ledger.WeightedAverageCost(product.CurrentStock, product.Cost, e.Applied, in.UnitCost)
	}
	mov := &entity.StockMovement{
		ID:                uuid.New().String(),
		Code:              code,
		ProductID:         product.ID,
		Type:              in.Type,
		Direction:         e.Direction,
		Quantity:          e.Applied,
		RequestedQuantity: e.Requested,
		PreviousStock:     e.Previous,
		NewStock:          e.New,
		UnitCost:          unitCost,
		Reference:         in.Reference,
		Notes:             in.Notes,
		ActorID:           in.ActorID,
		CreatedAt:         now,
	}
	product.CurrentStock = e.New
	product.UpdatedAt = now
	if err := r.Products.Update(ctx, product); err != nil {
		return nil, nil, err
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, nil, err
	}
	return mov, product, nil
}

// Report registra el movimiento ya confirmado y las alertas de stock.
func (uc *LedgerUseCase) Report(mov *entity.StockMovement, product *entity.Product) {
	uc.log.Info().
		Str("movement", mov.Code).
		Str("product", product.Code).
		Str("type", string(mov.Type)).
		Str("quantity", mov.Quantity.String()).
		Str("new_stock", mov.NewStock.String()).
		Str("reference", mov.Reference).
		Str("actor", mov.ActorID).
		Msg("movimiento de stock registrado")
	if mov.Clamped() {
		uc.log.Warn().
			Str("movement", mov.Code).
			Str("product", product.Code).
			Str("requested", mov.RequestedQuantity.String()).
			Str("applied", mov.Quantity.String()).
			Msg("salida recortada: stock insuficiente")
	}
	if product.BelowMinimum() {
		uc.log.Warn().
			Str("product", product.Code).
			Str("stock", product.CurrentStock.String()).
			Str("minimum", product.MinimumStock.String()).
			Msg("producto por debajo del stock mínimo")
	}
}

// Register movimiento manual: PRODUCTION_IN, RETURN_IN o ADJUSTMENT.
// SALES_OUT solo se genera desde la entrega de una remisión.
func (uc *LedgerUseCase) Register(ctx context.Context, actorID string, req dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	in := MovementInput{
		ProductID: req.ProductID,
		Type:      entity.MovementType(req.Type),
		Direction: entity.Direction(req.Direction),
		Quantity:  req.Quantity,
		Reference: req.Reference,
		Notes:     req.Notes,
		ActorID:   actorID,
	}
	if req.ProductID == "" || !in.Type.IsValid() || in.Type == entity.MovementSalesOut {
		return nil, fmt.Errorf("%w: tipo de movimiento manual inválido %q", domain.ErrInvalidInput, req.Type)
	}
	if !in.Quantity.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if req.UnitCost != nil {
		if req.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
		}
		in.UnitCost = *req.UnitCost
	}

	var (
		mov     *entity.StockMovement
		product *entity.Product
	)
	err := uc.store.Run(ctx, func(r repository.Repos) error {
		var err error
		mov, product, err = uc.ApplyInTx(ctx, r, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.Report(mov, product)
	return ToMovementResponse(mov), nil
}

// ListMovements historial del producto, del más reciente al más antiguo.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, productID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	repos := uc.store.Repos()
	if _, err := repos.Products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	list, err := repos.Movements.ListByProduct(ctx, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Verify recalcula el stock desde el libro (todo producto nace con stock cero)
// y lo compara con el stock actual, en una misma transacción.
func (uc *LedgerUseCase) Verify(ctx context.Context, productID string) (*dto.LedgerVerificationResponse, error) {
	var out *dto.LedgerVerificationResponse
	err := uc.store.Run(ctx, func(r repository.Repos) error {
		product, err := r.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		history, err := r.Movements.History(ctx, productID)
		if err != nil {
			return err
		}
		expected, broken := ledger.Replay(decimal.Zero, history)
		out = &dto.LedgerVerificationResponse{
			ProductID:     product.ID,
			MovementCount: len(history),
			ExpectedStock: expected,
			CurrentStock:  product.CurrentStock,
			Consistent:    broken < 0 && expected.Equal(product.CurrentStock),
		}
		if broken >= 0 {
			out.BrokenAt = history[broken].Code
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !out.Consistent {
		uc.log.Error().Str("product", productID).Str("broken_at", out.BrokenAt).Msg("libro de stock inconsistente")
	}
	return out, nil
}

// ToMovementResponse mapea un asiento a su DTO.
func ToMovementResponse(m *entity.StockMovement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:                m.ID,
		Code:              m.Code,
		ProductID:         m.ProductID,
		Type:              string(m.Type),
		Direction:         string(m.Direction),
		Quantity:          m.Quantity,
		RequestedQuantity: m.RequestedQuantity,
		PreviousStock:     m.PreviousStock,
		NewStock:          m.NewStock,
		UnitCost:          m.UnitCost,
		Reference:         m.Reference,
		Notes:             m.Notes,
		ActorID:           m.ActorID,
		Clamped:           m.Clamped(),
		CreatedAt:         m.CreatedAt,
	}
}
