package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mudras/stock-ledger/internal/application/dto"
	"github.com/mudras/stock-ledger/internal/application/inventory"
	"github.com/mudras/stock-ledger/internal/domain"
	"github.com/mudras/stock-ledger/internal/domain/entity"
	"github.com/mudras/stock-ledger/internal/domain/repository"
)

var _ inventory.LocationRegistry = (*LocationUseCase)(nil)

// LocationUseCase registro de puntos Mudras: CRUD, consultas para el libro y estadísticas.
type LocationUseCase struct {
	repo      repository.LocationRepository
	stockRepo repository.StockReader
	movRepo   repository.MovementReader
	now       func() time.Time
}

// NewLocationUseCase construye el caso de uso. stockRepo y movRepo solo se usan en Stats.
func NewLocationUseCase(repo repository.LocationRepository, stockRepo repository.StockReader, movRepo repository.MovementReader) *LocationUseCase {
	return &LocationUseCase{
		repo:      repo,
		stockRepo: stockRepo,
		movRepo:   movRepo,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create crea un punto. Un punto nuevo está activo salvo que se indique lo contrario.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	kind := entity.LocationKind(in.Kind)
	if name == "" || !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	loc := &entity.Location{
		Name:                name,
		Kind:                kind,
		Active:              active,
		Description:         in.Description,
		Address:             in.Address,
		Phone:               in.Phone,
		Email:               in.Email,
		AllowsOnlineSales:   in.AllowsOnlineSales,
		TracksPhysicalStock: in.TracksPhysicalStock,
	}
	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// GetByID obtiene un punto por ID; nil si no existe.
func (uc *LocationUseCase) GetByID(ctx context.Context, id int64) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// GetLocation devuelve la entidad (nil, nil si no existe).
func (uc *LocationUseCase) GetLocation(ctx context.Context, id int64) (*entity.Location, error) {
	return uc.repo.GetByID(ctx, id)
}

// IsActiveLocation indica si el punto existe y está activo.
func (uc *LocationUseCase) IsActiveLocation(ctx context.Context, id int64) (bool, error) {
	loc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return loc != nil && loc.Active, nil
}

// Update actualiza un punto; nil si no existe.
func (uc *LocationUseCase) Update(ctx context.Context, id int64, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		loc.Name = name
	}
	if in.Kind != nil {
		kind := entity.LocationKind(*in.Kind)
		if !kind.Valid() {
			return nil, domain.ErrInvalidInput
		}
		loc.Kind = kind
	}
	if in.Active != nil {
		loc.Active = *in.Active
	}
	if in.Description != nil {
		loc.Description = *in.Description
	}
	if in.Address != nil {
		loc.Address = *in.Address
	}
	if in.Phone != nil {
		loc.Phone = *in.Phone
	}
	if in.Email != nil {
		loc.Email = *in.Email
	}
	if in.AllowsOnlineSales != nil {
		loc.AllowsOnlineSales = *in.AllowsOnlineSales
	}
	if in.TracksPhysicalStock != nil {
		loc.TracksPhysicalStock = *in.TracksPhysicalStock
	}
	if err := uc.repo.Update(ctx, loc); err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// List lista puntos con paginación.
func (uc *LocationUseCase) List(ctx context.Context, limit, offset int) (*dto.LocationListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: len(items)},
	}, nil
}

// Stats cuenta puntos por tipo y estado, artículos con stock y movimientos desde el inicio del día.
func (uc *LocationUseCase) Stats(ctx context.Context) (*dto.LocationStatsResponse, error) {
	all, err := uc.repo.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	var out dto.LocationStatsResponse
	for _, l := range all {
		out.TotalLocations++
		switch l.Kind {
		case entity.LocationKindSale:
			out.SalePoints++
		case entity.LocationKindWarehouse:
			out.Warehouses++
		}
		if l.Active {
			out.ActiveLocations++
		}
	}
	if out.ArticlesWithStock, err = uc.stockRepo.CountArticlesWithStock(ctx); err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}
	now := uc.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if out.MovementsToday, err = uc.movRepo.CountSince(ctx, startOfDay); err != nil {
		return nil, fmt.Errorf("count movements: %w", err)
	}
	return &out, nil
}

func toLocationResponse(l *entity.Location) *dto.LocationResponse {
	if l == nil {
		return nil
	}
	return &dto.LocationResponse{
		ID:                  l.ID,
		Name:                l.Name,
		Kind:                string(l.Kind),
		Active:              l.Active,
		Description:         l.Description,
		Address:             l.Address,
		Phone:               l.Phone,
		Email:               l.Email,
		AllowsOnlineSales:   l.AllowsOnlineSales,
		TracksPhysicalStock: l.TracksPhysicalStock,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}
}
