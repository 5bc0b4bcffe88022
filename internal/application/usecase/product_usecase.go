package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Distribucion-api/internal/application/dto"
	"github.com/jhoicas/Distribucion-api/internal/application/inventory"
	"github.com/jhoicas/Distribucion-api/internal/domain"
	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/jhoicas/Distribucion-api/internal/domain/repository"
)

// StockPoster aplica movimientos al libro dentro de una transacción abierta.
type StockPoster interface {
	ApplyInTx(ctx context.Context, r repository.Repos, in inventory.MovementInput) (*entity.StockMovement, *entity.Product, error)
	Report(mov *entity.StockMovement, product *entity.Product)
}

// ProductUseCase casos de uso del catálogo. Cost y Stock se manejan vía movimientos.
type ProductUseCase struct {
	store  repository.Store
	ledger StockPoster
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(store repository.Store, ledger StockPoster) *ProductUseCase {
	return &ProductUseCase{store: store, ledger: ledger}
}

// Create crea un producto con stock cero. Si trae InitialStock se registra como
// PRODUCTION_IN en la misma transacción, así el libro explica el stock desde el inicio.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Price.IsNegative() || in.Cost.IsNegative() || in.MinimumStock.IsNegative() || in.InitialStock.IsNegative() {
		return nil, fmt.Errorf("%w: precio, costo y cantidades no pueden ser negativos", domain.ErrInvalidInput)
	}
	if in.Unit == "" {
		in.Unit = "UND"
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:           uuid.New().String(),
		Code:         strings.TrimSpace(in.Code),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Unit:         in.Unit,
		Price:        in.Price,
		Cost:         in.Cost,
		CurrentStock: decimal.Zero,
		MinimumStock: in.MinimumStock,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var (
		mov     *entity.StockMovement
		updated *entity.Product
	)
	err := uc.store.Run(ctx, func(r repository.Repos) error {
		if existing, err := r.Products.GetByCode(ctx, product.Code); err == nil && existing != nil {
			return fmt.Errorf("%w: código %s", domain.ErrDuplicate, product.Code)
		}
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}
		if !in.InitialStock.IsPositive() {
			return nil
		}
		var err error
		mov, updated, err = uc.ledger.ApplyInTx(ctx, r, inventory.MovementInput{
			ProductID: product.ID,
			Type:      entity.MovementProductionIn,
			Quantity:  in.InitialStock,
			UnitCost:  in.Cost,
			Reference: "STOCK-INICIAL",
			ActorID:   actorID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if updated != nil {
		uc.ledger.Report(mov, updated)
		product = updated
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.store.Repos().Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Update actualiza campos descriptivos. No permite modificar Cost ni Stock (se manejan vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if (in.Price != nil && in.Price.IsNegative()) || (in.MinimumStock != nil && in.MinimumStock.IsNegative()) {
		return nil, fmt.Errorf("%w: precio y stock mínimo no pueden ser negativos", domain.ErrInvalidInput)
	}
	var product *entity.Product
	err := uc.store.Run(ctx, func(r repository.Repos) error {
		var err error
		product, err = r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			product.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Unit != nil {
			product.Unit = *in.Unit
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.MinimumStock != nil {
			product.MinimumStock = *in.MinimumStock
		}
		if in.Active != nil {
			product.Active = *in.Active
		}
		product.UpdatedAt = time.Now().UTC()
		return r.Products.Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación. activeOnly filtra los inactivos.
func (uc *ProductUseCase) List(ctx context.Context, search string, activeOnly bool, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.store.Repos().Products.List(ctx, repository.ProductFilter{
		ActiveOnly: activeOnly,
		Search:     search,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		Unit:         p.Unit,
		Price:        p.Price,
		Cost:         p.Cost,
		CurrentStock: p.CurrentStock,
		MinimumStock: p.MinimumStock,
		Active:       p.Active,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
