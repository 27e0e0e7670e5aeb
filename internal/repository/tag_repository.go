package repository

import (
	"context"
	"database/sql"

	"github.com/homereach/estate-api/internal/model"
)

// TagRepo serves the feature and amenity tag catalogs and their listing
// associations.  Associations are replaced wholesale inside a transaction
// so a failed update never leaves a listing half-tagged.
type TagRepo struct{ DB *sql.DB }

func NewTagRepo(db *sql.DB) *TagRepo { return &TagRepo{DB: db} }

// Features returns the full feature catalog.
func (r *TagRepo) Features(ctx context.Context) ([]model.Feature, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, icon FROM features ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Feature{}
	for rows.Next() {
		var f model.Feature
		if err := rows.Scan(&f.ID, &f.Name, &f.Icon); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Amenities returns the full amenity catalog.
func (r *TagRepo) Amenities(ctx context.Context) ([]model.Amenity, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name, icon FROM amenities ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Amenity{}
	for rows.Next() {
		var a model.Amenity
		if err := rows.Scan(&a.ID, &a.Name, &a.Icon); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetListingTags replaces a listing's feature and amenity associations.
func (r *TagRepo) SetListingTags(ctx context.Context, listingID uint64, featureIDs, amenityIDs []int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, "DELETE FROM listing_features WHERE listing_id=?", listingID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM listing_amenities WHERE listing_id=?", listingID); err != nil {
		return err
	}
	for _, id := range featureIDs {
		if _, err = tx.ExecContext(ctx,
			"INSERT IGNORE INTO listing_features (listing_id, feature_id) VALUES (?,?)", listingID, id); err != nil {
			return err
		}
	}
	for _, id := range amenityIDs {
		if _, err = tx.ExecContext(ctx,
			"INSERT IGNORE INTO listing_amenities (listing_id, amenity_id) VALUES (?,?)", listingID, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListingFeatures returns the features attached to a listing.
func (r *TagRepo) ListingFeatures(ctx context.Context, listingID uint64) ([]model.Feature, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT f.id, f.name, f.icon
		FROM features f
		JOIN listing_features lf ON lf.feature_id = f.id
		WHERE lf.listing_id = ?
		ORDER BY f.name`, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Feature{}
	for rows.Next() {
		var f model.Feature
		if err := rows.Scan(&f.ID, &f.Name, &f.Icon); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ListingAmenities returns the amenities attached to a listing.
func (r *TagRepo) ListingAmenities(ctx context.Context, listingID uint64) ([]model.Amenity, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT a.id, a.name, a.icon
		FROM amenities a
		JOIN listing_amenities la ON la.amenity_id = a.id
		WHERE la.listing_id = ?
		ORDER BY a.name`, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Amenity{}
	for rows.Next() {
		var a model.Amenity
		if err := rows.Scan(&a.ID, &a.Name, &a.Icon); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
