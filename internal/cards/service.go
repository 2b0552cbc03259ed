package cards

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bcardz/bcard-backend/pkg/db/models"
	pkgerrors "github.com/bcardz/bcard-backend/pkg/errors"
	"github.com/bcardz/bcard-backend/pkg/pagination"
)

const (
	bizNumberMin = 1000000
	bizNumberMax = 9999999

	maxBizNumberAttempts = 25
)

// Actor identifies the authenticated caller for ownership checks.
type Actor struct {
	UserID     uuid.UUID
	IsAdmin    bool
	IsBusiness bool
}

// Service defines the behavior needed by the cards controller.
type Service interface {
	ListPublic(ctx context.Context, page pagination.Params) ([]PublicCardDTO, error)
	ListMine(ctx context.Context, actor Actor) ([]CardDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CardDTO, error)
	Create(ctx context.Context, actor Actor, req CardRequest) (*CardDTO, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req CardRequest) (*CardDTO, error)
	ToggleLike(ctx context.Context, actor Actor, id uuid.UUID) (*CardDTO, error)
	SetBizNumber(ctx context.Context, id uuid.UUID, bizNumber int) (*CardDTO, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) (*CardDTO, error)
}

type repository interface {
	Create(ctx context.Context, card *models.Card) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Card, error)
	FindByEmail(ctx context.Context, email string) (*models.Card, error)
	FindByBizNumber(ctx context.Context, bizNumber int) (*models.Card, error)
	List(ctx context.Context, page pagination.Params) ([]models.Card, error)
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Card, error)
	Save(ctx context.Context, card *models.Card) error
	SetBizNumber(ctx context.Context, id uuid.UUID, bizNumber int) error
	Delete(ctx context.Context, id uuid.UUID) error
	Likes(ctx context.Context, cardID uuid.UUID) ([]uuid.UUID, error)
	HasLike(ctx context.Context, cardID, userID uuid.UUID) (bool, error)
	AddLike(ctx context.Context, cardID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, cardID, userID uuid.UUID) error
}

type service struct {
	repo    repository
	randBiz func() int
}

// ServiceParams bundles the dependencies required to build a cards service.
type ServiceParams struct {
	Repo repository
	// RandBizNumber overrides business-number generation, tests only.
	RandBizNumber func() int
}

// NewService constructs a cards service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cards repository is required")
	}
	randBiz := params.RandBizNumber
	if randBiz == nil {
		randBiz = func() int {
			return bizNumberMin + rand.IntN(bizNumberMax-bizNumberMin+1)
		}
	}
	return &service{repo: params.Repo, randBiz: randBiz}, nil
}

func (s *service) ListPublic(ctx context.Context, page pagination.Params) ([]PublicCardDTO, error) {
	records, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cards")
	}
	dtos := make([]PublicCardDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, *FromModelPublic(&records[i]))
	}
	return dtos, nil
}

func (s *service) ListMine(ctx context.Context, actor Actor) ([]CardDTO, error) {
	records, err := s.repo.ListByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cards")
	}
	dtos := make([]CardDTO, 0, len(records))
	for i := range records {
		dto, err := s.withLikes(ctx, &records[i])
		if err != nil {
			return nil, err
		}
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CardDTO, error) {
	card, err := s.findCard(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withLikes(ctx, card)
}

func (s *service) Create(ctx context.Context, actor Actor, req CardRequest) (*CardDTO, error) {
	if !actor.IsBusiness {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "business account required")
	}

	email := normalizeEmail(req.Email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "card email already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup card")
	}

	bizNumber, err := s.generateBizNumber(ctx)
	if err != nil {
		return nil, err
	}

	card := &models.Card{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Phone:       req.Phone,
		Email:       email,
		Web:         req.Web,
		Image:       req.image(),
		Address:     req.address(),
		BizNumber:   bizNumber,
		UserID:      actor.UserID,
	}
	if err := s.repo.Create(ctx, card); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create card")
	}
	return s.withLikes(ctx, card)
}

func (s *service) Update(ctx context.Context, actor Actor, id uuid.UUID, req CardRequest) (*CardDTO, error) {
	card, err := s.findCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && card.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not the card owner")
	}

	email := normalizeEmail(req.Email)
	if email != card.Email {
		if other, err := s.repo.FindByEmail(ctx, email); err == nil && other.ID != card.ID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "card email already in use")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup card email")
		}
	}

	card.Title = req.Title
	card.Subtitle = req.Subtitle
	card.Description = req.Description
	card.Phone = req.Phone
	card.Email = email
	card.Web = req.Web
	card.Image = req.image()
	card.Address = req.address()

	if err := s.repo.Save(ctx, card); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update card")
	}
	return s.withLikes(ctx, card)
}

// ToggleLike removes the caller's like when present and records it otherwise.
func (s *service) ToggleLike(ctx context.Context, actor Actor, id uuid.UUID) (*CardDTO, error) {
	card, err := s.findCard(ctx, id)
	if err != nil {
		return nil, err
	}

	liked, err := s.repo.HasLike(ctx, card.ID, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read likes")
	}
	if liked {
		err = s.repo.RemoveLike(ctx, card.ID, actor.UserID)
	} else {
		err = s.repo.AddLike(ctx, card.ID, actor.UserID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggle like")
	}
	return s.withLikes(ctx, card)
}

func (s *service) SetBizNumber(ctx context.Context, id uuid.UUID, bizNumber int) (*CardDTO, error) {
	card, err := s.findCard(ctx, id)
	if err != nil {
		return nil, err
	}

	if holder, err := s.repo.FindByBizNumber(ctx, bizNumber); err == nil && holder.ID != card.ID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "business number already in use")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup business number")
	}

	if card.BizNumber != bizNumber {
		if err := s.repo.SetBizNumber(ctx, card.ID, bizNumber); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set business number")
		}
		card.BizNumber = bizNumber
	}
	return s.withLikes(ctx, card)
}

func (s *service) Delete(ctx context.Context, actor Actor, id uuid.UUID) (*CardDTO, error) {
	card, err := s.findCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && card.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not the card owner")
	}

	dto, err := s.withLikes(ctx, card)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, card.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete card")
	}
	return dto, nil
}

func (s *service) generateBizNumber(ctx context.Context) (int, error) {
	for attempt := 0; attempt < maxBizNumberAttempts; attempt++ {
		candidate := s.randBiz()
		_, err := s.repo.FindByBizNumber(ctx, candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup business number")
		}
	}
	return 0, pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a business number")
}

func (s *service) findCard(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "card not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup card")
	}
	return card, nil
}

func (s *service) withLikes(ctx context.Context, card *models.Card) (*CardDTO, error) {
	likes, err := s.repo.Likes(ctx, card.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read likes")
	}
	return FromModel(card, likes), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
