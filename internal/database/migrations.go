package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hypersenta/backend/internal/models"
)

// SchemaMigration records an applied schema version.
type SchemaMigration struct {
	ID        string    `gorm:"primaryKey"`
	AppliedAt time.Time `gorm:"not null"`
}

// TableName keeps the bookkeeping table name stable across drivers.
func (SchemaMigration) TableName() string { return "schema_migrations" }

// Migration is a versioned schema change with an upgrade and a downgrade step.
type Migration struct {
	ID   string
	Up   func(tx *gorm.DB) error
	Down func(tx *gorm.DB) error
}

// migrations lists every schema version in application order.
func migrations() []Migration {
	return []Migration{
		{
			ID: "20221103_create_users",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{})
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.User{})
			},
		},
		{
			ID: "20221118_create_organizations",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Organization{}, &models.OrganizationMember{})
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.OrganizationMember{}, &models.Organization{})
			},
		},
		{
			ID: "20221204_create_messages",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Message{})
			},
			Down: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&models.Message{})
			},
		},
	}
}

// Migrate applies all pending migrations in order, each inside a transaction.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return fmt.Errorf("migrations: prepare bookkeeping table: %w", err)
	}

	for _, migration := range migrations() {
		applied, err := isApplied(db, migration.ID)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{ID: migration.ID, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return fmt.Errorf("migrations: apply %s: %w", migration.ID, err)
		}
	}

	return nil
}

// Rollback reverts the most recently applied migration.
func Rollback(db *gorm.DB) error {
	var latest SchemaMigration
	err := db.Order("id DESC").First(&latest).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrations: load latest version: %w", err)
	}

	for _, migration := range migrations() {
		if migration.ID != latest.ID {
			continue
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&SchemaMigration{}, "id = ?", migration.ID).Error
		})
		if err != nil {
			return fmt.Errorf("migrations: rollback %s: %w", migration.ID, err)
		}
		return nil
	}

	return fmt.Errorf("migrations: version %s has no registered downgrade", latest.ID)
}

func isApplied(db *gorm.DB, id string) (bool, error) {
	var count int64
	if err := db.Model(&SchemaMigration{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("migrations: check %s: %w", id, err)
	}
	return count > 0, nil
}
