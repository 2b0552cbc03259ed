package cards

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bcardz/bcard-backend/pkg/db/models"
	"github.com/bcardz/bcard-backend/pkg/pagination"
)

// Repository exposes card-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cards repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new card.
func (r *Repository) Create(ctx context.Context, card *models.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// FindByID loads a card by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	var card models.Card
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByEmail retrieves the card matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Card, error) {
	var card models.Card
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByBizNumber retrieves the card holding the given business number.
func (r *Repository) FindByBizNumber(ctx context.Context, bizNumber int) (*models.Card, error) {
	var card models.Card
	if err := r.db.WithContext(ctx).Where("biz_number = ?", bizNumber).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// List returns a page of cards ordered by creation time.
func (r *Repository) List(ctx context.Context, page pagination.Params) ([]models.Card, error) {
	var cards []models.Card
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// ListByOwner returns every card owned by the given user.
func (r *Repository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Card, error) {
	var cards []models.Card
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// Save persists the full mutable state of an existing card.
func (r *Repository) Save(ctx context.Context, card *models.Card) error {
	return r.db.WithContext(ctx).Save(card).Error
}

// SetBizNumber overwrites the business number only.
func (r *Repository) SetBizNumber(ctx context.Context, id uuid.UUID, bizNumber int) error {
	return r.db.WithContext(ctx).
		Model(&models.Card{}).
		Where("id = ?", id).
		UpdateColumn("biz_number", bizNumber).Error
}

// Delete removes a card and its likes.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CardLike{}, "card_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Card{}, "id = ?", id).Error
	})
}

// Likes returns the ids of every user who liked the card.
func (r *Repository) Likes(ctx context.Context, cardID uuid.UUID) ([]uuid.UUID, error) {
	var likes []models.CardLike
	err := r.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		Order("created_at ASC").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(likes))
	for _, like := range likes {
		ids = append(ids, like.UserID)
	}
	return ids, nil
}

// HasLike reports whether the user currently likes the card.
func (r *Repository) HasLike(ctx context.Context, cardID, userID uuid.UUID) (bool, error) {
	var like models.CardLike
	err := r.db.WithContext(ctx).
		Where("card_id = ? AND user_id = ?", cardID, userID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AddLike records the user's like. The composite primary key rejects duplicates.
func (r *Repository) AddLike(ctx context.Context, cardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&models.CardLike{CardID: cardID, UserID: userID}).Error
}

// RemoveLike removes the user's like if present.
func (r *Repository) RemoveLike(ctx context.Context, cardID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&models.CardLike{}, "card_id = ? AND user_id = ?", cardID, userID).Error
}
