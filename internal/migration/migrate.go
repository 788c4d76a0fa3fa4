package migration

import (
	"fmt"

	"github.com/vidora/vidora-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table the API owns, in dependency order
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Video{},
		&domain.Comment{},
		&domain.Tweet{},
		&domain.Reaction{},
		&domain.Subscription{},
		&domain.Playlist{},
		&domain.PlaylistVideo{},
		&domain.WatchHistory{},
	}
}

// Run creates or updates the schema. Unique indexes (reactions, subscriptions,
// users) come from the struct tags, so AutoMigrate is the single place they are declared.
func Run(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto migrate %T: %w", model, err)
		}
	}
	return nil
}
