package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Card represents a business listing owned by a business user.
type Card struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Subtitle    string    `gorm:"column:subtitle;not null"`
	Description string    `gorm:"column:description;not null"`
	Phone       string    `gorm:"column:phone;not null"`
	Email       string    `gorm:"type:text;not null;uniqueIndex"`
	Web         string    `gorm:"column:web;not null"`
	Image       Image     `gorm:"embedded;embeddedPrefix:image_"`
	Address     Address   `gorm:"embedded;embeddedPrefix:address_"`
	BizNumber   int       `gorm:"column:biz_number;not null;uniqueIndex"`
	UserID      uuid.UUID `gorm:"type:uuid;column:user_id;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CardLike is one user's like on one card. The composite primary key makes a
// duplicate like impossible at the store level.
type CardLike struct {
	CardID    uuid.UUID `gorm:"type:uuid;column:card_id;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;column:user_id;primaryKey"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName keeps the join table name stable across drivers.
func (CardLike) TableName() string {
	return "card_likes"
}
