package migrate

import (
	"fmt"

	"github.com/bcardz/bcard-backend/pkg/db"
	"github.com/bcardz/bcard-backend/pkg/db/models"
)

// AutoMigrateModels creates the schema from the GORM models. Used for the
// sqlite driver where the postgres goose files do not apply.
func AutoMigrateModels(client *db.Client) error {
	if client == nil {
		return fmt.Errorf("db client is required")
	}
	return client.DB().AutoMigrate(
		&models.User{},
		&models.Card{},
		&models.CardLike{},
	)
}
