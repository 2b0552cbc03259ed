package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PersonName is the embedded given/middle/family name of a user.
type PersonName struct {
	First  string  `gorm:"column:first;not null"`
	Middle *string `gorm:"column:middle"`
	Last   string  `gorm:"column:last;not null"`
}

// Address is the embedded postal address shared by users and cards.
type Address struct {
	State       string `gorm:"column:state"`
	Country     string `gorm:"column:country;not null"`
	City        string `gorm:"column:city;not null"`
	Street      string `gorm:"column:street;not null"`
	HouseNumber int    `gorm:"column:house_number;not null"`
	Zip         int    `gorm:"column:zip;not null"`
}

// Image is the embedded image url/alt pair shared by users and cards.
type Image struct {
	URL string `gorm:"column:url;not null"`
	Alt string `gorm:"column:alt;not null"`
}

// User represents the canonical identity entity.
type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name           PersonName `gorm:"embedded;embeddedPrefix:name_"`
	Phone          string     `gorm:"column:phone;not null"`
	Email          string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash   string     `gorm:"column:password_hash;not null"`
	Image          Image      `gorm:"embedded;embeddedPrefix:image_"`
	Address        Address    `gorm:"embedded;embeddedPrefix:address_"`
	IsAdmin        bool       `gorm:"column:is_admin;not null;default:false"`
	IsBusiness     bool       `gorm:"column:is_business;not null;default:false"`
	FailedAttempts int        `gorm:"column:failed_attempts;not null;default:0"`
	LockUntil      *time.Time `gorm:"column:lock_until"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// BeforeCreate assigns the identifier so the sqlite driver works without a
// database-side uuid default.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
