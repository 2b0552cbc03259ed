package seed

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/bcardz/bcard-backend/pkg/config"
	"github.com/bcardz/bcard-backend/pkg/db/models"
	"github.com/bcardz/bcard-backend/pkg/logger"
	"github.com/bcardz/bcard-backend/pkg/security"
)

const seedPassword = "123456789"

const (
	userImageURL = "https://static.vecteezy.com/system/resources/thumbnails/024/983/914/small_2x/simple-user-default-icon-free-png.png"
	cardImageURL = "https://media.istockphoto.com/id/1409329028/vector/no-picture-available-placeholder-thumbnail-icon-illustration-design.jpg?s=612x612&w=0&k=20&c=_zOuJu755g2eEUioiOUdz_mHKJQJn-tDgIAhQzyeKUQ="
)

// Run inserts the bootstrap users and cards when the corresponding tables are
// empty. A populated store is left untouched, so running it twice is safe.
func Run(ctx context.Context, gdb *gorm.DB, passwordCfg config.PasswordConfig, logg *logger.Logger) error {
	seededUsers, users, err := seedUsers(ctx, gdb, passwordCfg)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	seededCards, err := seedCards(ctx, gdb, users)
	if err != nil {
		return fmt.Errorf("seed cards: %w", err)
	}

	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"users_inserted": seededUsers,
			"cards_inserted": seededCards,
		})
		logg.Info(logCtx, "seed.complete")
	}
	return nil
}

func seedUsers(ctx context.Context, gdb *gorm.DB, passwordCfg config.PasswordConfig) (int, []models.User, error) {
	var count int64
	if err := gdb.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count > 0 {
		var existing []models.User
		if err := gdb.WithContext(ctx).Order("created_at ASC").Find(&existing).Error; err != nil {
			return 0, nil, err
		}
		return 0, existing, nil
	}

	hash, err := security.HashPassword(seedPassword, passwordCfg)
	if err != nil {
		return 0, nil, err
	}

	users := fixtureUsers(hash)
	if err := gdb.WithContext(ctx).Create(&users).Error; err != nil {
		return 0, nil, err
	}
	return len(users), users, nil
}

func seedCards(ctx context.Context, gdb *gorm.DB, users []models.User) (int, error) {
	var count int64
	if err := gdb.WithContext(ctx).Model(&models.Card{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	owner, ok := businessOwner(users)
	if !ok {
		return 0, fmt.Errorf("no business user to own seed cards")
	}

	cards := fixtureCards(owner)
	if err := gdb.WithContext(ctx).Create(&cards).Error; err != nil {
		return 0, err
	}
	return len(cards), nil
}

func businessOwner(users []models.User) (models.User, bool) {
	for _, u := range users {
		if u.IsBusiness && !u.IsAdmin {
			return u, true
		}
	}
	for _, u := range users {
		if u.IsBusiness {
			return u, true
		}
	}
	return models.User{}, false
}

func fixtureUsers(passwordHash string) []models.User {
	return []models.User{
		{
			Name:         models.PersonName{First: "John", Last: "Doe"},
			Phone:        "0521234567",
			Email:        "regular@example.com",
			PasswordHash: passwordHash,
			Image:        models.Image{URL: userImageURL, Alt: "User profile image"},
			Address: models.Address{
				State:       "not defined",
				Country:     "Israel",
				City:        "Tel Aviv",
				Street:      "Herzl",
				HouseNumber: 10,
				Zip:         12345,
			},
		},
		{
			Name:         models.PersonName{First: "Sarah", Last: "Levi"},
			Phone:        "0539876543",
			Email:        "business@example.com",
			PasswordHash: passwordHash,
			IsBusiness:   true,
			Image:        models.Image{URL: userImageURL, Alt: "User profile image"},
			Address: models.Address{
				State:       "not defined",
				Country:     "Israel",
				City:        "Haifa",
				Street:      "Ben Gurion",
				HouseNumber: 50,
				Zip:         54321,
			},
		},
		{
			Name:         models.PersonName{First: "Admin", Last: "User"},
			Phone:        "0547654321",
			Email:        "admin@example.com",
			PasswordHash: passwordHash,
			IsAdmin:      true,
			Image:        models.Image{URL: userImageURL, Alt: "User profile image"},
			Address: models.Address{
				State:       "not defined",
				Country:     "Israel",
				City:        "Jerusalem",
				Street:      "King David",
				HouseNumber: 11,
				Zip:         10000,
			},
		},
	}
}

func fixtureCards(owner models.User) []models.Card {
	return []models.Card{
		{
			Title:       "Business Card 1",
			Subtitle:    "Best in Tel Aviv",
			Description: "Quality services for all",
			Phone:       "0523334444",
			Email:       "card1@example.com",
			Web:         "https://www.youtube.com/",
			Image:       models.Image{URL: cardImageURL, Alt: "Business logo 1"},
			Address: models.Address{
				Country:     "Israel",
				City:        "Tel Aviv",
				Street:      "Dizengoff",
				HouseNumber: 22,
				Zip:         67890,
			},
			BizNumber: 1234567,
			UserID:    owner.ID,
		},
		{
			Title:       "Business Card 2",
			Subtitle:    "Haifa Experts",
			Description: "Reliable and trusted",
			Phone:       "0529998888",
			Email:       "card2@example.com",
			Web:         "https://www.youtube.com/",
			Image:       models.Image{URL: cardImageURL, Alt: "Business logo 2"},
			Address: models.Address{
				Country:     "Israel",
				City:        "Haifa",
				Street:      "Hahistadrut",
				HouseNumber: 12,
				Zip:         65432,
			},
			BizNumber: 2345678,
			UserID:    owner.ID,
		},
		{
			Title:       "Business Card 3",
			Subtitle:    "Tech Solutions",
			Description: "Innovative and efficient",
			Phone:       "0525556666",
			Email:       "card3@example.com",
			Web:         "https://www.youtube.com/",
			Image:       models.Image{URL: cardImageURL, Alt: "Business logo 3"},
			Address: models.Address{
				Country:     "Israel",
				City:        "Jerusalem",
				Street:      "Jaffa",
				HouseNumber: 30,
				Zip:         78901,
			},
			BizNumber: 3456789,
			UserID:    owner.ID,
		},
	}
}
