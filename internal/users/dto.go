package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/bcardz/bcard-backend/pkg/db/models"
)

const (
	defaultUserImageURL = "https://static.vecteezy.com/system/resources/thumbnails/024/983/914/small_2x/simple-user-default-icon-free-png.png"
	defaultUserState    = "not defined"
)

// NameDTO is the transport shape of a user's name.
type NameDTO struct {
	First  string  `json:"first"`
	Middle *string `json:"middle,omitempty"`
	Last   string  `json:"last"`
}

// AddressDTO is the transport shape of a postal address.
type AddressDTO struct {
	State       string `json:"state"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Street      string `json:"street"`
	HouseNumber int    `json:"house_number"`
	Zip         int    `json:"zip"`
}

// ImageDTO is the transport shape of an image url/alt pair.
type ImageDTO struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// RegisteredUserDTO is the registration response shape. It omits credentials,
// role flags, and audit fields.
type RegisteredUserDTO struct {
	ID      uuid.UUID  `json:"id"`
	Name    NameDTO    `json:"name"`
	Phone   string     `json:"phone"`
	Email   string     `json:"email"`
	Image   ImageDTO   `json:"image"`
	Address AddressDTO `json:"address"`
}

// UserDTO is the full transport shape minus the password hash.
type UserDTO struct {
	ID         uuid.UUID  `json:"id"`
	Name       NameDTO    `json:"name"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`
	Image      ImageDTO   `json:"image"`
	Address    AddressDTO `json:"address"`
	IsAdmin    bool       `json:"is_admin"`
	IsBusiness bool       `json:"is_business"`
	CreatedAt  time.Time  `json:"created_at"`
}

// RegisterRequest captures the full user input for registration.
type RegisterRequest struct {
	Name       NameRequest    `json:"name"`
	Phone      string         `json:"phone" validate:"required,min=9,max=11,ilphone"`
	Email      string         `json:"email" validate:"required,min=5,email"`
	Password   string         `json:"password" validate:"required,min=7,max=1024"`
	Image      ImageRequest   `json:"image"`
	Address    AddressRequest `json:"address"`
	IsBusiness bool           `json:"is_business"`
}

// LoginRequest captures the credentials sent to the login endpoint. The
// password minimum is stricter than the registration minimum on purpose.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest is the edit schema: registration minus password and role flags.
type UpdateUserRequest struct {
	Name    NameRequest    `json:"name"`
	Phone   string         `json:"phone" validate:"required,min=9,max=11,ilphone"`
	Email   string         `json:"email" validate:"required,min=5,email"`
	Image   ImageRequest   `json:"image"`
	Address AddressRequest `json:"address"`
}

// SetBusinessRequest patches the business flag only.
type SetBusinessRequest struct {
	IsBusiness bool `json:"is_business"`
}

// NameRequest validates a user's name fields.
type NameRequest struct {
	First  string  `json:"first" validate:"required,min=2,max=256"`
	Middle *string `json:"middle,omitempty" validate:"omitempty,min=2,max=256"`
	Last   string  `json:"last" validate:"required,min=2,max=256"`
}

// AddressRequest validates the postal address fields shared with the card schema.
type AddressRequest struct {
	State       *string `json:"state,omitempty"`
	Country     string  `json:"country" validate:"required,min=2,max=256"`
	City        string  `json:"city" validate:"required,min=2,max=256"`
	Street      string  `json:"street" validate:"required,min=2,max=256"`
	HouseNumber int     `json:"house_number" validate:"required,gte=2"`
	Zip         int     `json:"zip" validate:"required,gte=2"`
}

// ImageRequest validates an image reference; the url falls back to a placeholder.
type ImageRequest struct {
	URL *string `json:"url,omitempty" validate:"omitempty,url"`
	Alt string  `json:"alt" validate:"required,min=2,max=256"`
}

// LoginResponse carries the bearer token issued on successful authentication.
type LoginResponse struct {
	Token string `json:"token"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         models.PersonName
	Phone        string
	Email        string
	PasswordHash string
	Image        models.Image
	Address      models.Address
	IsBusiness   bool
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Image:        c.Image,
		Address:      c.Address,
		IsBusiness:   c.IsBusiness,
	}
}

// FromModelRegistered projects the registration response from a persisted user.
func FromModelRegistered(u *models.User) *RegisteredUserDTO {
	if u == nil {
		return nil
	}
	return &RegisteredUserDTO{
		ID:      u.ID,
		Name:    nameDTO(u.Name),
		Phone:   u.Phone,
		Email:   u.Email,
		Image:   ImageDTO{URL: u.Image.URL, Alt: u.Image.Alt},
		Address: addressDTO(u.Address),
	}
}

// FromModel projects the full transport shape from a persisted user.
func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:         u.ID,
		Name:       nameDTO(u.Name),
		Phone:      u.Phone,
		Email:      u.Email,
		Image:      ImageDTO{URL: u.Image.URL, Alt: u.Image.Alt},
		Address:    addressDTO(u.Address),
		IsAdmin:    u.IsAdmin,
		IsBusiness: u.IsBusiness,
		CreatedAt:  u.CreatedAt,
	}
}

func nameDTO(n models.PersonName) NameDTO {
	return NameDTO{First: n.First, Middle: n.Middle, Last: n.Last}
}

func addressDTO(a models.Address) AddressDTO {
	return AddressDTO{
		State:       a.State,
		Country:     a.Country,
		City:        a.City,
		Street:      a.Street,
		HouseNumber: a.HouseNumber,
		Zip:         a.Zip,
	}
}

func (r RegisterRequest) name() models.PersonName {
	return models.PersonName{First: r.Name.First, Middle: r.Name.Middle, Last: r.Name.Last}
}

func (r RegisterRequest) image() models.Image {
	url := defaultUserImageURL
	if r.Image.URL != nil && *r.Image.URL != "" {
		url = *r.Image.URL
	}
	return models.Image{URL: url, Alt: r.Image.Alt}
}

func (r RegisterRequest) address() models.Address {
	state := defaultUserState
	if r.Address.State != nil && *r.Address.State != "" {
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

func (r UpdateUserRequest) name() models.PersonName {
	return models.PersonName{First: r.Name.First, Middle: r.Name.Middle, Last: r.Name.Last}
}

func (r UpdateUserRequest) image() models.Image {
	url := defaultUserImageURL
	if r.Image.URL != nil && *r.Image.URL != "" {
		url = *r.Image.URL
	}
	return models.Image{URL: url, Alt: r.Image.Alt}
}

func (r UpdateUserRequest) address() models.Address {
	state := defaultUserState
	if r.Address.State != nil && *r.Address.State != "" {
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
