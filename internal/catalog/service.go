package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dquinterov/mesacompras-backend/pkg/db/models"
	"github.com/dquinterov/mesacompras-backend/pkg/enums"
	pkgerrors "github.com/dquinterov/mesacompras-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes catalog management and free-text resolution.
type Service interface {
	Create(ctx context.Context, input CreateEntryInput) (*models.CatalogEntry, error)
	List(ctx context.Context, category *enums.CatalogCategory) ([]models.CatalogEntry, error)
	UpdateValue(ctx context.Context, id int64, value string) (*models.CatalogEntry, error)
	Delete(ctx context.Context, id int64) error
	Resolve(ctx context.Context, text string, category *enums.CatalogCategory) (*models.CatalogEntry, error)
	ResolveID(ctx context.Context, text string, category enums.CatalogCategory) (*int64, error)
}

// CreateEntryInput captures a new catalog row.
type CreateEntryInput struct {
	Category enums.CatalogCategory `json:"categoria" validate:"required"`
	Value    string                `json:"valor" validate:"required,max=255"`
}

type service struct {
	repo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateEntryInput) (*models.CatalogEntry, error) {
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown catalog category %q", input.Category))
	}
	value := strings.TrimSpace(input.Value)
	if value == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog value cannot be empty")
	}

	entry := &models.CatalogEntry{Category: input.Category, Value: value}
	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating catalog entry")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, category *enums.CatalogCategory) ([]models.CatalogEntry, error) {
	if category != nil {
		if !category.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown catalog category %q", *category))
		}
		entries, err := s.repo.ListByCategory(ctx, *category)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing catalog entries")
		}
		return entries, nil
	}

	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing catalog entries")
	}
	return entries, nil
}

func (s *service) UpdateValue(ctx context.Context, id int64, value string) (*models.CatalogEntry, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog value cannot be empty")
	}

	if err := s.repo.UpdateValue(ctx, id, value); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("catalog entry %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating catalog entry")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("catalog entry %d not found", id))
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting catalog entry")
	}
	return nil
}

func (s *service) Resolve(ctx context.Context, text string, category *enums.CatalogCategory) (*models.CatalogEntry, error) {
	entry, err := s.repo.ResolveValue(ctx, text, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving catalog value")
	}
	return entry, nil
}

// ResolveID is the import-path helper: a miss is not an error, it simply
// yields a nil id so the row can be stored unresolved.
func (s *service) ResolveID(ctx context.Context, text string, category enums.CatalogCategory) (*int64, error) {
	entry, err := s.repo.ResolveValue(ctx, text, &category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving catalog value")
	}
	if entry == nil {
		return nil, nil
	}
	id := entry.ID
	return &id, nil
}
