package parties

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

// Service exposes party management and supplier resolution.
type Service interface {
	Create(ctx context.Context, input CreatePartyInput) (*models.Party, error)
	Get(ctx context.Context, id int64) (*models.Party, error)
	List(ctx context.Context, partyType *enums.PartyType) ([]models.Party, error)
	Update(ctx context.Context, id int64, input UpdatePartyInput) (*models.Party, error)
	Delete(ctx context.Context, id int64) error
	ResolveSupplierID(ctx context.Context, text string) (*int64, error)
}

// CreatePartyInput captures a new tercero.
type CreatePartyInput struct {
	Name  string          `json:"nombre" validate:"required,max=255"`
	Phone *string         `json:"telefono" validate:"omitempty,max=40"`
	Email *string         `json:"correo" validate:"omitempty,email"`
	Type  enums.PartyType `json:"tipo" validate:"required"`
}

// UpdatePartyInput carries optional field updates.
type UpdatePartyInput struct {
	Name  *string `json:"nombre" validate:"omitempty,max=255"`
	Phone *string `json:"telefono" validate:"omitempty,max=40"`
	Email *string `json:"correo" validate:"omitempty,email"`
}

type service struct {
	repo Repository
}

// NewService builds a parties service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("parties repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreatePartyInput) (*models.Party, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown party type %q", input.Type))
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "party name cannot be empty")
	}

	party := &models.Party{
		Name:  name,
		Phone: input.Phone,
		Email: input.Email,
		Type:  input.Type,
	}
	created, err := s.repo.Create(ctx, party)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating party")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id int64) (*models.Party, error) {
	party, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("party %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading party")
	}
	return party, nil
}

func (s *service) List(ctx context.Context, partyType *enums.PartyType) ([]models.Party, error) {
	if partyType != nil {
		if !partyType.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown party type %q", *partyType))
		}
		list, err := s.repo.ListByType(ctx, *partyType)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing parties")
		}
		return list, nil
	}

	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing parties")
	}
	return list, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdatePartyInput) (*models.Party, error) {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "party name cannot be empty")
		}
		updates["nombre"] = name
	}
	if input.Phone != nil {
		updates["telefono"] = *input.Phone
	}
	if input.Email != nil {
		updates["correo"] = *input.Email
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("party %d not found", id))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating party")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("party %d not found", id))
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting party")
	}
	return nil
}

// ResolveSupplierID matches free text against supplier names. Misses yield a
// nil id, not an error.
func (s *service) ResolveSupplierID(ctx context.Context, text string) (*int64, error) {
	party, err := s.repo.ResolveByName(ctx, text, enums.PartyTypeSupplier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving supplier")
	}
	if party == nil {
		return nil, nil
	}
	id := party.ID
	return &id, nil
}
