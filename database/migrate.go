package database

import (
	"fmt"

	"github.com/rpupo63/learning-projects-backend/models"
	"gorm.io/gorm"
)

// Migrate enables the required extensions and brings every table, index and
// constraint up to date with the models
func Migrate(db *gorm.DB) error {
	// gen_random_uuid() is built in from Postgres 13 and lives in pgcrypto before that
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("error enabling pgcrypto extension: %w", err)
	}

	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})
	if err := migrateDB.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("error during models migration: %w", err)
	}
	if err := repairCascades(db); err != nil {
		return fmt.Errorf("error repairing foreign keys: %w", err)
	}
	return nil
}

// repairCascades rebuilds foreign keys that exist under the expected name but
// without ON DELETE CASCADE. AutoMigrate only creates constraints that are
// missing, so it never fixes one an earlier schema created differently.
func repairCascades(db *gorm.DB) error {
	seen := map[string]bool{}
	for _, model := range models.All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return err
		}

		for _, rel := range stmt.Schema.Relationships.Relations {
			if rel.JoinTable != nil {
				continue
			}
			constraint := rel.ParseConstraint()
			if constraint == nil || constraint.OnDelete != "CASCADE" || seen[constraint.Name] {
				continue
			}
			seen[constraint.Name] = true

			var deleteRule string
			err := db.Raw(
				"SELECT confdeltype::text FROM pg_constraint WHERE conname = ? AND conrelid = ?::regclass",
				constraint.Name, constraint.Schema.Table,
			).Scan(&deleteRule).Error
			if err != nil {
				return err
			}
			// "c" is cascade; an empty rule means AutoMigrate has not created it
			if deleteRule == "" || deleteRule == "c" {
				continue
			}

			err = db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Migrator().DropConstraint(model, constraint.Name); err != nil {
					return err
				}
				return tx.Migrator().CreateConstraint(model, constraint.Name)
			})
			if err != nil {
				return fmt.Errorf("%s: %w", constraint.Name, err)
			}
		}
	}
	return nil
}
