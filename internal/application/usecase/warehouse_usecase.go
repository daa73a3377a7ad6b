package usecase

import (
	"context"
	"time"

	"github.com/fakturahaus/faktura-api/internal/application/dto"
	"github.com/fakturahaus/faktura-api/internal/domain"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/internal/domain/repository"
)

// WarehouseUseCase trägt die Lagerort-Verwaltung. Gelöscht wird nur weich;
// das Journal referenziert Lager dauerhaft.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase baut den Usecase.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// Create legt einen Lagerort an.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if in.Name == "" || in.Code == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	w := &entity.Warehouse{
		Name:      in.Name,
		Code:      in.Code,
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := uc.repo.Create(ctx, w)
	if err != nil {
		return nil, err
	}
	w.ID = id
	return dto.ToWarehouseResponse(w), nil
}

// GetByID liefert einen Lagerort.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id int64) (*dto.WarehouseResponse, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToWarehouseResponse(w), nil
}

// Update übernimmt die gesetzten Felder.
func (uc *WarehouseUseCase) Update(ctx context.Context, id int64, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		w.Name = *in.Name
	}
	if in.Code != nil {
		w.Code = *in.Code
	}
	w.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	return dto.ToWarehouseResponse(w), nil
}

// List liefert alle aktiven Lagerorte.
func (uc *WarehouseUseCase) List(ctx context.Context) ([]dto.WarehouseResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *dto.ToWarehouseResponse(w))
	}
	return items, nil
}

// Delete löscht einen Lagerort weich. Das letzte aktive Lager darf nicht
// verschwinden, sonst liefe das Standardlager ins Leere.
func (uc *WarehouseUseCase) Delete(ctx context.Context, id int64) error {
	w, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if w == nil {
		return domain.ErrNotFound
	}
	active, err := uc.repo.CountActive(ctx)
	if err != nil {
		return err
	}
	if active <= 1 {
		return domain.ErrConflict
	}
	return uc.repo.SoftDelete(ctx, id)
}
