package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/homereach/estate-api/internal/model"
	"github.com/homereach/estate-api/internal/utils"
)

// ListingRepo provides access to the listings table and its gallery,
// feature and amenity association tables.
type ListingRepo struct{ DB *sql.DB }

func NewListingRepo(db *sql.DB) *ListingRepo { return &ListingRepo{DB: db} }

const listingColumns = `l.id, l.title, l.slug, l.description, l.property_type,
	l.listing_type, l.status, l.price_cents, l.area_sqft_x100, l.bedrooms,
	l.bathrooms_x10, l.garage, l.year_built, l.address, l.city, l.state,
	l.zip_code, l.country, l.latitude, l.longitude, l.main_image_url,
	l.video_url, l.virtual_tour_url, l.owner_id, l.agent_id, l.is_featured,
	l.views_count, l.created_at, l.updated_at`

type listingScanner interface {
	Scan(dest ...any) error
}

func scanListing(row listingScanner) (model.Listing, error) {
	var (
		l         model.Listing
		yearBuilt sql.NullInt64
		lat, lon  sql.NullFloat64
		agentID   sql.NullInt64
	)
	err := row.Scan(&l.ID, &l.Title, &l.Slug, &l.Description, &l.PropertyType,
		&l.ListingType, &l.Status, &l.PriceCents, &l.AreaX100, &l.Bedrooms,
		&l.BathroomsX10, &l.Garage, &yearBuilt, &l.Address, &l.City, &l.State,
		&l.ZipCode, &l.Country, &lat, &lon, &l.MainImageURL,
		&l.VideoURL, &l.VirtualTourURL, &l.OwnerID, &agentID, &l.IsFeatured,
		&l.ViewsCount, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return model.Listing{}, err
	}
	if yearBuilt.Valid {
		y := int(yearBuilt.Int64)
		l.YearBuilt = &y
	}
	if lat.Valid {
		v := lat.Float64
		l.Latitude = &v
	}
	if lon.Valid {
		v := lon.Float64
		l.Longitude = &v
	}
	if agentID.Valid {
		a := uint64(agentID.Int64)
		l.AgentID = &a
	}
	return l, nil
}

// Create inserts a listing.  The slug is derived from the title exactly
// once here; on a slug collision a numeric suffix is appended.  Later
// title edits never touch the slug.
func (r *ListingRepo) Create(ctx context.Context, l *model.Listing) error {
	base := utils.Slugify(l.Title)
	if base == "" {
		base = "listing"
	}
	slug := base
	for attempt := 2; ; attempt++ {
		res, err := r.DB.ExecContext(ctx, `
			INSERT INTO listings (title, slug, description, property_type,
				listing_type, status, price_cents, area_sqft_x100, bedrooms,
				bathrooms_x10, garage, year_built, address, city, state,
				zip_code, country, latitude, longitude, main_image_url,
				video_url, virtual_tour_url, owner_id, agent_id, is_featured)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			l.Title, slug, l.Description, l.PropertyType,
			l.ListingType, l.Status, l.PriceCents, l.AreaX100, l.Bedrooms,
			l.BathroomsX10, l.Garage, l.YearBuilt, l.Address, l.City, l.State,
			l.ZipCode, l.Country, l.Latitude, l.Longitude, l.MainImageURL,
			l.VideoURL, l.VirtualTourURL, l.OwnerID, l.AgentID, l.IsFeatured)
		if err != nil {
			if isDuplicateKey(err) && attempt <= 10 {
				slug = fmt.Sprintf("%s-%d", base, attempt)
				continue
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		l.ID = uint64(id)
		l.Slug = slug
		return nil
	}
}

// GetByID fetches a listing by id.
func (r *ListingRepo) GetByID(ctx context.Context, id uint64) (model.Listing, error) {
	return scanListing(r.DB.QueryRowContext(ctx,
		"SELECT "+listingColumns+" FROM listings l WHERE l.id=? LIMIT 1", id))
}

// GetBySlug fetches a listing by slug.
func (r *ListingRepo) GetBySlug(ctx context.Context, slug string) (model.Listing, error) {
	return scanListing(r.DB.QueryRowContext(ctx,
		"SELECT "+listingColumns+" FROM listings l WHERE l.slug=? LIMIT 1", slug))
}

// Update persists the mutable listing fields.  The slug column is
// deliberately absent from the statement.
func (r *ListingRepo) Update(ctx context.Context, l model.Listing) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE listings SET title=?, description=?, property_type=?,
			listing_type=?, status=?, price_cents=?, area_sqft_x100=?,
			bedrooms=?, bathrooms_x10=?, garage=?, year_built=?, address=?,
			city=?, state=?, zip_code=?, country=?, latitude=?, longitude=?,
			main_image_url=?, video_url=?, virtual_tour_url=?, agent_id=?,
			is_featured=?
		WHERE id=?`,
		l.Title, l.Description, l.PropertyType,
		l.ListingType, l.Status, l.PriceCents, l.AreaX100,
		l.Bedrooms, l.BathroomsX10, l.Garage, l.YearBuilt, l.Address,
		l.City, l.State, l.ZipCode, l.Country, l.Latitude, l.Longitude,
		l.MainImageURL, l.VideoURL, l.VirtualTourURL, l.AgentID,
		l.IsFeatured, l.ID)
	return err
}

// SetStatus soft-transitions a listing (sold/rented/off_market/...).
func (r *ListingRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE listings SET status=? WHERE id=?", status, id)
	return err
}

// Delete removes a listing; gallery rows and associations cascade.
func (r *ListingRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM listings WHERE id=?", id)
	return err
}

// IncrementViews bumps the view counter in a single atomic statement.
func (r *ListingRepo) IncrementViews(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE listings SET views_count = views_count + 1 WHERE id=?", id)
	return err
}

// ListByOwner returns all listings the user owns, every status included,
// newest first.
func (r *ListingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Listing, error) {
	return r.queryListings(ctx,
		"SELECT "+listingColumns+" FROM listings l WHERE l.owner_id=? ORDER BY l.created_at DESC, l.id DESC",
		ownerID)
}

// ListManagedBy returns listings where the user is the managing agent.
func (r *ListingRepo) ListManagedBy(ctx context.Context, agentID uint64) ([]model.Listing, error) {
	return r.queryListings(ctx,
		"SELECT "+listingColumns+" FROM listings l WHERE l.agent_id=? ORDER BY l.created_at DESC, l.id DESC",
		agentID)
}

// AvailableByAgent returns the available listings an agent owns or
// manages, for the public agent detail page.
func (r *ListingRepo) AvailableByAgent(ctx context.Context, userID uint64, limit int) ([]model.Listing, error) {
	return r.queryListings(ctx,
		"SELECT "+listingColumns+` FROM listings l
		 WHERE l.status='available' AND (l.owner_id=? OR l.agent_id=?)
		 ORDER BY l.created_at DESC, l.id DESC LIMIT ?`,
		userID, userID, limit)
}

// Featured returns up to limit listings for the home page: featured
// available listings first, backfilled with the newest available ones.
func (r *ListingRepo) Featured(ctx context.Context, limit int) ([]model.Listing, error) {
	featured, err := r.queryListings(ctx,
		"SELECT "+listingColumns+` FROM listings l
		 WHERE l.is_featured = TRUE AND l.status = 'available'
		 ORDER BY l.created_at DESC, l.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	if len(featured) >= limit {
		return featured, nil
	}
	seen := make([]any, 0, len(featured)+1)
	ph := "0"
	for _, l := range featured {
		seen = append(seen, l.ID)
	}
	if len(seen) > 0 {
		ph = placeholdersN(len(seen))
	}
	args := append(seen, limit-len(featured))
	recent, err := r.queryListings(ctx,
		"SELECT "+listingColumns+` FROM listings l
		 WHERE l.status = 'available' AND l.id NOT IN (`+ph+`)
		 ORDER BY l.created_at DESC, l.id DESC LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	return append(featured, recent...), nil
}

// Similar returns up to limit other available listings of the same
// property type, used on the detail page.
func (r *ListingRepo) Similar(ctx context.Context, propertyType string, excludeID uint64, limit int) ([]model.Listing, error) {
	return r.queryListings(ctx,
		"SELECT "+listingColumns+` FROM listings l
		 WHERE l.property_type=? AND l.status='available' AND l.id<>?
		 ORDER BY l.created_at DESC, l.id DESC LIMIT ?`,
		propertyType, excludeID, limit)
}

// GeoPoint is the map payload row: only geocoded available listings.
type GeoPoint struct {
	ID        uint64  `json:"id"`
	Title     string  `json:"title"`
	Slug      string  `json:"slug"`
	Price     float64 `json:"price"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoded returns map points for available listings with coordinates.
func (r *ListingRepo) Geocoded(ctx context.Context) ([]GeoPoint, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, title, slug, price_cents, latitude, longitude
		FROM listings
		WHERE status='available' AND latitude IS NOT NULL AND longitude IS NOT NULL
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []GeoPoint{}
	for rows.Next() {
		var (
			p     GeoPoint
			cents int64
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &cents, &p.Latitude, &p.Longitude); err != nil {
			return nil, err
		}
		p.Price = float64(cents) / 100.0
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ListingRepo) queryListings(ctx context.Context, query string, args ...any) ([]model.Listing, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func placeholdersN(n int) string {
	out := "?"
	for i := 1; i < n; i++ {
		out += ",?"
	}
	return out
}
