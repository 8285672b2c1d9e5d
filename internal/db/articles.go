package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/shoespec/internal/types"
)

// DefaultArticleLimit applies when a filter carries no limit.
const DefaultArticleLimit = 100

// ListArticles retrieves articles oldest first.
func (db *DB) ListArticles(ctx context.Context, filter ArticleFilter) ([]types.Article, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultArticleLimit
	}

	query := `SELECT id, title, content, date, source_link FROM articles`
	if filter.PendingOnly {
		query += ` WHERE extracted_at IS NULL`
	}
	query += ` ORDER BY created_at, id LIMIT $1`

	rows, err := db.pool.Query(ctx, query, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var articles []types.Article
	for rows.Next() {
		var a types.Article
		var link *string
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Date, &link); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		if link != nil {
			a.SourceLink = *link
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

// GetArticle retrieves an article by ID. A missing article yields nil, nil.
func (db *DB) GetArticle(ctx context.Context, id string) (*types.Article, error) {
	var a types.Article
	var link *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, content, date, source_link FROM articles WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Title, &a.Content, &a.Date, &link)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	if link != nil {
		a.SourceLink = *link
	}
	return &a, nil
}

// SaveArticle inserts or replaces an article.
func (db *DB) SaveArticle(ctx context.Context, a types.Article) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO articles (id, title, content, date, source_link)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE SET title = $2, content = $3, date = $4, source_link = $5`,
		a.ID, a.Title, a.Content, a.Date, nullString(a.SourceLink),
	)
	if err != nil {
		return fmt.Errorf("failed to save article %s: %w", a.ID, err)
	}
	return nil
}

// MarkArticleExtracted records the terminal state of an article's extraction.
func (db *DB) MarkArticleExtracted(ctx context.Context, id, state string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE articles SET extracted_at = NOW(), extract_state = $2 WHERE id = $1`,
		id, state,
	)
	if err != nil {
		return fmt.Errorf("failed to mark article %s: %w", id, err)
	}
	return nil
}
