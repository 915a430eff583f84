package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hray3182/LedgerLine/internal/database"
	"github.com/hray3182/LedgerLine/internal/models"
)

type ConfigRepository struct {
	db *database.DB
}

func NewConfigRepository(db *database.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// GetOrCreate returns the user's config, seeding the defaults on first use.
func (r *ConfigRepository) GetOrCreate(ctx context.Context, userID int64) (*models.UserConfig, error) {
	cfg, err := r.Get(ctx, userID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	def := models.DefaultUserConfig()
	if err := r.Save(ctx, userID, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

func (r *ConfigRepository) Get(ctx context.Context, userID int64) (*models.UserConfig, error) {
	var categories, keywords []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT categories, keywords FROM user_config WHERE user_id = $1`,
		userID,
	).Scan(&categories, &keywords)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeConfig(categories, keywords)
}

func (r *ConfigRepository) Save(ctx context.Context, userID int64, cfg *models.UserConfig) error {
	categories, keywords, err := encodeConfig(cfg)
	if err != nil {
		return err
	}

	_, err = r.db.Pool.Exec(ctx,
		`INSERT INTO user_config (user_id, categories, keywords, updated_at)
		 VALUES ($1, $2::jsonb, $3::jsonb, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id) DO UPDATE
		 SET categories = EXCLUDED.categories, keywords = EXCLUDED.keywords, updated_at = CURRENT_TIMESTAMP`,
		userID, categories, keywords,
	)
	return err
}

// Edit runs fn on the user's config while holding its row lock, so edits from
// the bot and the API never overwrite each other. The config is written back
// only when fn reports a change; an error from fn rolls back and is returned.
func (r *ConfigRepository) Edit(ctx context.Context, userID int64, fn func(cfg *models.UserConfig) (bool, error)) error {
	def := models.DefaultUserConfig()
	seedCategories, seedKeywords, err := encodeConfig(&def)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, r.db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_config (user_id, categories, keywords)
			 VALUES ($1, $2::jsonb, $3::jsonb)
			 ON CONFLICT (user_id) DO NOTHING`,
			userID, seedCategories, seedKeywords,
		); err != nil {
			return err
		}

		var categories, keywords []byte
		if err := tx.QueryRow(ctx,
			`SELECT categories, keywords FROM user_config WHERE user_id = $1 FOR UPDATE`,
			userID,
		).Scan(&categories, &keywords); err != nil {
			return err
		}
		cfg, err := decodeConfig(categories, keywords)
		if err != nil {
			return err
		}

		changed, err := fn(cfg)
		if err != nil || !changed {
			return err
		}

		newCategories, newKeywords, err := encodeConfig(cfg)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE user_config SET categories = $2::jsonb, keywords = $3::jsonb, updated_at = CURRENT_TIMESTAMP
			 WHERE user_id = $1`,
			userID, newCategories, newKeywords,
		)
		return err
	})
}

func encodeConfig(cfg *models.UserConfig) (string, string, error) {
	categories, err := json.Marshal(cfg.Categories)
	if err != nil {
		return "", "", err
	}
	keywords, err := json.Marshal(cfg.Keywords)
	if err != nil {
		return "", "", err
	}
	return string(categories), string(keywords), nil
}

func decodeConfig(categories, keywords []byte) (*models.UserConfig, error) {
	cfg := &models.UserConfig{}
	if err := json.Unmarshal(categories, &cfg.Categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	if err := json.Unmarshal(keywords, &cfg.Keywords); err != nil {
		return nil, fmt.Errorf("failed to decode keywords: %w", err)
	}
	return cfg, nil
}
