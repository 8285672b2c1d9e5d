package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/shoespec/internal/normalize"
	"github.com/jonathan/shoespec/internal/types"
)

const specColumns = `id, model_key, brand_name, model,
	heel_height, forefoot_height, heel_drop, weight, price,
	upper_breathability, carbon_plate, waterproof, primary_use,
	cushioning_type, surface_type, foot_width, additional_features,
	source, article_id, source_link, run_id, created_at, updated_at`

// upsertSpecSQL keys rows by model_key. Values already stored win; a later
// article only fills columns that are still null.
const upsertSpecSQL = `INSERT INTO shoe_specs (
	model_key, brand_name, model,
	heel_height, forefoot_height, heel_drop, weight, price,
	upper_breathability, carbon_plate, waterproof, primary_use,
	cushioning_type, surface_type, foot_width, additional_features,
	source, article_id, source_link, run_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
ON CONFLICT (model_key) DO UPDATE SET
	heel_height         = COALESCE(shoe_specs.heel_height, EXCLUDED.heel_height),
	forefoot_height     = COALESCE(shoe_specs.forefoot_height, EXCLUDED.forefoot_height),
	heel_drop           = COALESCE(shoe_specs.heel_drop, EXCLUDED.heel_drop),
	weight              = COALESCE(shoe_specs.weight, EXCLUDED.weight),
	price               = COALESCE(shoe_specs.price, EXCLUDED.price),
	upper_breathability = COALESCE(shoe_specs.upper_breathability, EXCLUDED.upper_breathability),
	carbon_plate        = COALESCE(shoe_specs.carbon_plate, EXCLUDED.carbon_plate),
	waterproof          = COALESCE(shoe_specs.waterproof, EXCLUDED.waterproof),
	primary_use         = COALESCE(shoe_specs.primary_use, EXCLUDED.primary_use),
	cushioning_type     = COALESCE(shoe_specs.cushioning_type, EXCLUDED.cushioning_type),
	surface_type        = COALESCE(shoe_specs.surface_type, EXCLUDED.surface_type),
	foot_width          = COALESCE(shoe_specs.foot_width, EXCLUDED.foot_width),
	additional_features = COALESCE(shoe_specs.additional_features, EXCLUDED.additional_features),
	updated_at          = NOW()
RETURNING (xmax = 0)`

// UpsertSpec persists a finalized record under its model_key and reports
// whether a new row was inserted.
func (db *DB) UpsertSpec(ctx context.Context, rec types.SpecRecord, prov Provenance) (bool, error) {
	var inserted bool
	err := db.pool.QueryRow(ctx, upsertSpecSQL, specArgs(rec, prov)...).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert spec %s: %w", rec.Key(), err)
	}
	return inserted, nil
}

// specArgs maps a record onto the upsert parameters; empty text becomes NULL.
func specArgs(rec types.SpecRecord, prov Provenance) []any {
	var runID any
	if prov.RunID != uuid.Nil {
		runID = prov.RunID
	}
	return []any{
		normalize.ModelKey(rec.BrandName, rec.Model),
		rec.BrandName,
		rec.Model,
		rec.HeelHeight,
		rec.ForefootHeight,
		rec.Drop,
		rec.Weight,
		rec.Price,
		nullString(rec.UpperBreathability),
		rec.CarbonPlate,
		rec.Waterproof,
		nullString(rec.PrimaryUse),
		nullString(rec.CushioningType),
		nullString(rec.SurfaceType),
		nullString(rec.FootWidth),
		nullString(rec.AdditionalFeatures),
		string(prov.Source),
		nullString(prov.ArticleID),
		nullString(prov.SourceLink),
		runID,
	}
}

// GetSpec retrieves a spec by model key. A missing spec yields nil, nil.
func (db *DB) GetSpec(ctx context.Context, modelKey string) (*StoredSpec, error) {
	row := db.pool.QueryRow(ctx, `SELECT `+specColumns+` FROM shoe_specs WHERE model_key = $1`, modelKey)
	spec, err := scanSpec(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get spec: %w", err)
	}
	return spec, nil
}

// ListSpecs retrieves specs for a brand, or all specs when brand is empty.
func (db *DB) ListSpecs(ctx context.Context, brand string, limit int) ([]StoredSpec, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.pool.Query(ctx,
		`SELECT `+specColumns+` FROM shoe_specs
		 WHERE $1 = '' OR brand_name ILIKE $1
		 ORDER BY brand_name, model LIMIT $2`,
		brand, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list specs: %w", err)
	}
	defer rows.Close()

	var specs []StoredSpec
	for rows.Next() {
		spec, err := scanSpec(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan spec: %w", err)
		}
		specs = append(specs, *spec)
	}
	return specs, rows.Err()
}

func scanSpec(row pgx.Row) (*StoredSpec, error) {
	var (
		s    StoredSpec
		text [6]*string
	)
	r := &s.Record
	err := row.Scan(&s.ID, &s.ModelKey, &r.BrandName, &r.Model,
		&r.HeelHeight, &r.ForefootHeight, &r.Drop, &r.Weight, &r.Price,
		&text[0], &r.CarbonPlate, &r.Waterproof, &text[1],
		&text[2], &text[3], &text[4], &text[5],
		&s.Source, &s.ArticleID, &s.SourceLink, &s.RunID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.UpperBreathability = deref(text[0])
	r.PrimaryUse = deref(text[1])
	r.CushioningType = deref(text[2])
	r.SurfaceType = deref(text[3])
	r.FootWidth = deref(text[4])
	r.AdditionalFeatures = deref(text[5])
	return &s, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
