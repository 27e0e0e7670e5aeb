package repository

import (
	"context"
	"database/sql"

	"github.com/homereach/estate-api/internal/model"
)

// SavedSearchRepo manages per-user persisted search criteria.
type SavedSearchRepo struct{ DB *sql.DB }

func NewSavedSearchRepo(db *sql.DB) *SavedSearchRepo { return &SavedSearchRepo{DB: db} }

// Create inserts a saved search and returns its id.
func (r *SavedSearchRepo) Create(ctx context.Context, s model.SavedSearch) (uint64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO saved_searches (user_id, name, property_type,
			min_price_cents, max_price_cents, min_bedrooms, min_bathrooms_x10,
			min_area_x100, max_area_x100, location)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		s.UserID, s.Name, s.PropertyType,
		s.MinPriceCents, s.MaxPriceCents, s.MinBedrooms, s.MinBathroomsX10,
		s.MinAreaX100, s.MaxAreaX100, s.Location)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// ListForUser returns the user's saved searches, newest first.
func (r *SavedSearchRepo) ListForUser(ctx context.Context, userID uint64) ([]model.SavedSearch, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, name, property_type, min_price_cents,
		       max_price_cents, min_bedrooms, min_bathrooms_x10,
		       min_area_x100, max_area_x100, location, created_at, updated_at
		FROM saved_searches WHERE user_id=?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.SavedSearch{}
	for rows.Next() {
		s, err := scanSavedSearch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get fetches one saved search by id.
func (r *SavedSearchRepo) Get(ctx context.Context, id uint64) (model.SavedSearch, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, name, property_type, min_price_cents,
		       max_price_cents, min_bedrooms, min_bathrooms_x10,
		       min_area_x100, max_area_x100, location, created_at, updated_at
		FROM saved_searches WHERE id=? LIMIT 1`, id)
	return scanSavedSearch(row)
}

// Delete removes a saved search owned by userID.
func (r *SavedSearchRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM saved_searches WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.DB.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM saved_searches WHERE id=?)", id).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrForbidden
		}
		return sql.ErrNoRows
	}
	return nil
}

type savedSearchScanner interface {
	Scan(dest ...any) error
}

func scanSavedSearch(row savedSearchScanner) (model.SavedSearch, error) {
	var (
		s        model.SavedSearch
		minPrice sql.NullInt64
		maxPrice sql.NullInt64
		minBeds  sql.NullInt64
		minBaths sql.NullInt64
		minArea  sql.NullInt64
		maxArea  sql.NullInt64
	)
	err := row.Scan(&s.ID, &s.UserID, &s.Name, &s.PropertyType, &minPrice,
		&maxPrice, &minBeds, &minBaths, &minArea, &maxArea, &s.Location,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return model.SavedSearch{}, err
	}
	if minPrice.Valid {
		v := minPrice.Int64
		s.MinPriceCents = &v
	}
	if maxPrice.Valid {
		v := maxPrice.Int64
		s.MaxPriceCents = &v
	}
	if minBeds.Valid {
		v := int(minBeds.Int64)
		s.MinBedrooms = &v
	}
	if minBaths.Valid {
		v := int(minBaths.Int64)
		s.MinBathroomsX10 = &v
	}
	if minArea.Valid {
		v := minArea.Int64
		s.MinAreaX100 = &v
	}
	if maxArea.Valid {
		v := maxArea.Int64
		s.MaxAreaX100 = &v
	}
	return s, nil
}
