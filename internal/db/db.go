package db

import (
	"fmt"
	"log"

	"argot/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and runs migrations.
func Open(dsn string) (*gorm.DB, error) {
	g, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(g); err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return g, nil
}

// Migrate creates the schema. The vote ledger's one-row-per-(votable, voter)
// rule lives in partial unique indexes: gorm's uniqueIndex tag can't express
// uniqueness over nullable column pairs, but Postgres predicates can.
func Migrate(g *gorm.DB) error {
	err := g.AutoMigrate(
		&models.User{},
		&models.Word{},
		&models.Comment{},
		&models.Vote{},
	)
	if err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	ledgerIndexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_votes_account_word
			ON votes (user_id, word_id)
			WHERE user_id IS NOT NULL AND word_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_votes_account_comment
			ON votes (user_id, comment_id)
			WHERE user_id IS NOT NULL AND comment_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_votes_session_word
			ON votes (session_token, word_id)
			WHERE user_id IS NULL AND session_token IS NOT NULL AND word_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_votes_session_comment
			ON votes (session_token, comment_id)
			WHERE user_id IS NULL AND session_token IS NOT NULL AND comment_id IS NOT NULL`,
	}
	for _, stmt := range ledgerIndexes {
		if err := g.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create ledger index: %w", err)
		}
	}

	return nil
}
