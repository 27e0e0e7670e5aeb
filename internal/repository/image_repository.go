package repository

import (
	"context"
	"database/sql"

	"github.com/homereach/estate-api/internal/model"
)

// ImageRepo manages the listing_images gallery table.
type ImageRepo struct{ DB *sql.DB }

func NewImageRepo(db *sql.DB) *ImageRepo { return &ImageRepo{DB: db} }

// Add appends a gallery image and returns its id.
func (r *ImageRepo) Add(ctx context.Context, img model.ListingImage) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO listing_images (listing_id, image_url, caption, is_primary) VALUES (?,?,?,?)",
		img.ListingID, img.ImageURL, img.Caption, img.IsPrimary)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// Get fetches a single image row.
func (r *ImageRepo) Get(ctx context.Context, id uint64) (model.ListingImage, error) {
	var img model.ListingImage
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, listing_id, image_url, caption, is_primary, created_at FROM listing_images WHERE id=? LIMIT 1",
		id).Scan(&img.ID, &img.ListingID, &img.ImageURL, &img.Caption, &img.IsPrimary, &img.CreatedAt)
	return img, err
}

// ListForListing returns the gallery ordered primary-first, then oldest
// upload first, matching the original display order.
func (r *ImageRepo) ListForListing(ctx context.Context, listingID uint64) ([]model.ListingImage, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, listing_id, image_url, caption, is_primary, created_at FROM listing_images WHERE listing_id=? ORDER BY is_primary DESC, created_at ASC",
		listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ListingImage{}
	for rows.Next() {
		var img model.ListingImage
		if err := rows.Scan(&img.ID, &img.ListingID, &img.ImageURL, &img.Caption, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

// CountForListing returns the current gallery size.
func (r *ImageRepo) CountForListing(ctx context.Context, listingID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM listing_images WHERE listing_id=?", listingID).Scan(&n)
	return n, err
}

// Delete removes one gallery image.
func (r *ImageRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM listing_images WHERE id=?", id)
	return err
}
