package cards

import (
	"time"

	"github.com/google/uuid"

	"github.com/bcardz/bcard-backend/internal/users"
	"github.com/bcardz/bcard-backend/pkg/db/models"
)

const (
	defaultCardImageURL = "https://media.istockphoto.com/id/1409329028/vector/no-picture-available-placeholder-thumbnail-icon-illustration-design.jpg?s=612x612&w=0&k=20&c=_zOuJu755g2eEUioiOUdz_mHKJQJn-tDgIAhQzyeKUQ="
)

// PublicCardDTO is the redacted listing projection. It omits the storage id,
// biz number, likes, owner reference, and audit fields.
type PublicCardDTO struct {
	Title       string           `json:"title"`
	Subtitle    string           `json:"subtitle"`
	Description string           `json:"description"`
	Phone       string           `json:"phone"`
	Email       string           `json:"email"`
	Web         string           `json:"web"`
	Image       users.ImageDTO   `json:"image"`
	Address     users.AddressDTO `json:"address"`
}

// CardDTO is the full transport shape, including the like set.
type CardDTO struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Subtitle    string           `json:"subtitle"`
	Description string           `json:"description"`
	Phone       string           `json:"phone"`
	Email       string           `json:"email"`
	Web         string           `json:"web"`
	Image       users.ImageDTO   `json:"image"`
	Address     users.AddressDTO `json:"address"`
	BizNumber   int              `json:"biz_number"`
	Likes       []uuid.UUID      `json:"likes"`
	UserID      uuid.UUID        `json:"user_id"`
	CreatedAt   time.Time        `json:"created_at"`
}

// CardRequest is the create/full-update schema. BizNumber, likes, owner, and
// audit fields are never client-settable here.
type CardRequest struct {
	Title       string             `json:"title" validate:"required,min=2,max=256"`
	Subtitle    string             `json:"subtitle" validate:"required,min=10,max=256"`
	Description string             `json:"description" validate:"required,min=10,max=1024"`
	Phone       string             `json:"phone" validate:"required,min=9,max=11,ilphone"`
	Email       string             `json:"email" validate:"required,min=5,email"`
	Web         string             `json:"web" validate:"required,min=14,url"`
	Image       users.ImageRequest `json:"image"`
	Address     CardAddressRequest `json:"address"`
}

// CardAddressRequest mirrors the user address schema except that state may be
// empty.
type CardAddressRequest struct {
	State       *string `json:"state,omitempty"`
	Country     string  `json:"country" validate:"required,min=2,max=256"`
	City        string  `json:"city" validate:"required,min=2,max=256"`
	Street      string  `json:"street" validate:"required,min=2,max=256"`
	HouseNumber int     `json:"house_number" validate:"required,gte=2"`
	Zip         int     `json:"zip" validate:"required,gte=2"`
}

// SetBizNumberRequest repoints a card's business number.
type SetBizNumberRequest struct {
	BizNumber int `json:"biz_number" validate:"required,gte=1000000,lte=9999999"`
}

// FromModel projects the full transport shape from a persisted card.
func FromModel(c *models.Card, likes []uuid.UUID) *CardDTO {
	if c == nil {
		return nil
	}
	if likes == nil {
		likes = []uuid.UUID{}
	}
	return &CardDTO{
		ID:          c.ID,
		Title:       c.Title,
		Subtitle:    c.Subtitle,
		Description: c.Description,
		Phone:       c.Phone,
		Email:       c.Email,
		Web:         c.Web,
		Image:       users.ImageDTO{URL: c.Image.URL, Alt: c.Image.Alt},
		Address:     addressDTO(c.Address),
		BizNumber:   c.BizNumber,
		Likes:       likes,
		UserID:      c.UserID,
		CreatedAt:   c.CreatedAt,
	}
}

// FromModelPublic projects the redacted listing shape.
func FromModelPublic(c *models.Card) *PublicCardDTO {
	if c == nil {
		return nil
	}
	return &PublicCardDTO{
		Title:       c.Title,
		Subtitle:    c.Subtitle,
		Description: c.Description,
		Phone:       c.Phone,
		Email:       c.Email,
		Web:         c.Web,
		Image:       users.ImageDTO{URL: c.Image.URL, Alt: c.Image.Alt},
		Address:     addressDTO(c.Address),
	}
}

func addressDTO(a models.Address) users.AddressDTO {
	return users.AddressDTO{
		State:       a.State,
		Country:     a.Country,
		City:        a.City,
		Street:      a.Street,
		HouseNumber: a.HouseNumber,
		Zip:         a.Zip,
	}
}

func (r CardRequest) image() models.Image {
	url := defaultCardImageURL
	if r.Image.URL != nil && *r.Image.URL != "" {
		url = *r.Image.URL
	}
	return models.Image{URL: url, Alt: r.Image.Alt}
}

func (r CardRequest) address() models.Address {
	state := ""
	if r.Address.State != nil {
		state = *r.Address.State
	}
	return models.Address{
		State:       state,
		Country:     r.Address.Country,
		City:        r.Address.City,
		Street:      r.Address.Street,
		HouseNumber: r.Address.HouseNumber,
		Zip:         r.Address.Zip,
	}
}
