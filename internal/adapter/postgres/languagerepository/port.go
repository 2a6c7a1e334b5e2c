package languagerepository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/graderelay.net/internal/core/ports/primary"
	"gitlab.com/graderelay.net/internal/domain"
	querybuilder "gitlab.com/graderelay.net/internal/utils"
)

const schemaDDL = `
	CREATE TABLE IF NOT EXISTS languages (
		slug TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		version TEXT NOT NULL
	)
`

// LanguageRepository implements the LanguageRepository interface with PostgreSQL
type LanguageRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

// NewLanguageRepository creates a new PostgreSQL language repository
func NewLanguageRepository(db *sqlx.DB, logger primary.Logger, schema string) *LanguageRepository {
	return &LanguageRepository{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

// EnsureSeeded creates the languages table and installs the fixed registry
// entries. Existing slugs are left untouched.
func (r *LanguageRepository) EnsureSeeded(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaDDL); err != nil {
		r.logger.Error("Failed to ensure languages schema", "error", err)
		return fmt.Errorf("failed to ensure languages schema: %w", err)
	}

	tbl := domain.GetLanguageTable()
	builder := querybuilder.NewQueryBuilder(r.schema).
		Insert(tbl.Slug, tbl.Name, tbl.Version).
		Into(tbl.TableName())
	for _, lang := range domain.SeedLanguages() {
		builder = builder.Values(lang.Slug, lang.Name, lang.Version)
	}
	query, args := builder.OnConflict(tbl.Slug).DoNothing().Build()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to seed languages", "error", err)
		return fmt.Errorf("failed to seed languages: %w", err)
	}

	return nil
}

// GetLanguage retrieves a language by slug
func (r *LanguageRepository) GetLanguage(ctx context.Context, slug string) (*domain.Language, error) {
	query := `
		SELECT slug, name, version
		FROM languages
		WHERE slug = $1
	`

	var lang domain.Language
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&lang.Slug,
		&lang.Name,
		&lang.Version,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get language", "slug", slug, "error", err)
		return nil, fmt.Errorf("failed to get language: %w", err)
	}

	return &lang, nil
}

// ListLanguages retrieves all registered languages
func (r *LanguageRepository) ListLanguages(ctx context.Context) ([]*domain.Language, error) {
	query := `
		SELECT slug, name, version
		FROM languages
		ORDER BY slug
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list languages", "error", err)
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	defer rows.Close()

	languages := make([]*domain.Language, 0)
	for rows.Next() {
		var lang domain.Language
		if err := rows.Scan(&lang.Slug, &lang.Name, &lang.Version); err != nil {
			r.logger.Error("Failed to scan language row", "error", err)
			return nil, fmt.Errorf("failed to scan language row: %w", err)
		}
		languages = append(languages, &lang)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating language rows", "error", err)
		return nil, fmt.Errorf("error iterating language rows: %w", err)
	}

	return languages, nil
}
