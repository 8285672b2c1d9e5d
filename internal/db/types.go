package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/shoespec/internal/types"
)

// Run status values
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run represents an extraction run record
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Status      string     `json:"status"`
	DryRun      bool       `json:"dry_run"`
	Articles    int        `json:"articles"`
	Records     int        `json:"records"`
	Failed      int        `json:"failed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RunStats are the totals written when a run completes.
type RunStats struct {
	Articles int
	Records  int
	Failed   int
}

// ArticleFilter narrows ListArticles.
type ArticleFilter struct {
	Limit int
	// Only articles never extracted before
	PendingOnly bool
}

// Provenance identifies where a persisted record came from.
type Provenance struct {
	RunID      uuid.UUID
	ArticleID  string
	SourceLink string
	Source     types.Source
}

// StoredSpec is a persisted spec row.
type StoredSpec struct {
	ID         uuid.UUID        `json:"id"`
	ModelKey   string           `json:"model_key"`
	Record     types.SpecRecord `json:"record"`
	Source     string           `json:"source"`
	ArticleID  *string          `json:"article_id,omitempty"`
	SourceLink *string          `json:"source_link,omitempty"`
	RunID      *uuid.UUID       `json:"run_id,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
