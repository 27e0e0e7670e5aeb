package repository

import (
	"context"
	"time"

	"github.com/homereach/estate-api/internal/search"
	"github.com/homereach/estate-api/prometheus"
)

// ListingSummary is the row shape returned by search and browse queries.
// Scaled integers are converted to display floats on the way out.
type ListingSummary struct {
	ID           uint64  `json:"id"`
	Title        string  `json:"title"`
	Slug         string  `json:"slug"`
	PropertyType string  `json:"property_type"`
	ListingType  string  `json:"listing_type"`
	Status       string  `json:"status"`
	Price        float64 `json:"price"`
	Area         float64 `json:"area"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	MainImageURL string  `json:"main_image_url"`
	IsFeatured   bool    `json:"is_featured"`
	CreatedAt    string  `json:"created_at"`
}

const summarySelect = `l.id, l.title, l.slug, l.property_type, l.listing_type,
	l.status, l.price_cents, l.area_sqft_x100, l.bedrooms, l.bathrooms_x10,
	l.city, l.state, l.main_image_url, l.is_featured,
	DATE_FORMAT(l.created_at, '%Y-%m-%d %T') AS created_at`

// Search runs the composed criteria against the listings table and returns
// one page of ordered summaries plus the total match count.  Multi-join
// criteria (features/amenities) select DISTINCT so duplicated join rows
// collapse before pagination.
func (r *ListingRepo) Search(ctx context.Context, c search.Criteria, page, pageSize int) ([]ListingSummary, int64, error) {
	q, err := search.Build(c)
	if err != nil {
		return nil, 0, err
	}
	defer prometheus.TrackDBOperation("listing_search")(time.Now())

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 12
	}

	countExpr := "COUNT(*)"
	selectKw := "SELECT "
	if q.Distinct {
		countExpr = "COUNT(DISTINCT l.id)"
		selectKw = "SELECT DISTINCT "
	}

	var total int64
	countSQL := "SELECT " + countExpr + " FROM listings l " + q.JoinClause() + " WHERE " + q.Cond()
	if err := r.DB.QueryRowContext(ctx, countSQL, q.Args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := pageSize
	offset := (page - 1) * pageSize

	dataSQL := selectKw + summarySelect +
		" FROM listings l " + q.JoinClause() +
		" WHERE " + q.Cond() +
		" ORDER BY " + q.OrderBy +
		" LIMIT ? OFFSET ?"
	args := append(append([]any{}, q.Args...), limit, offset)

	rows, err := r.DB.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]ListingSummary, 0, limit)
	for rows.Next() {
		var (
			s          ListingSummary
			priceCents int64
			areaX100   int64
			bathsX10   int
		)
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Slug, &s.PropertyType, &s.ListingType,
			&s.Status, &priceCents, &areaX100, &s.Bedrooms, &bathsX10,
			&s.City, &s.State, &s.MainImageURL, &s.IsFeatured, &s.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		s.Price = float64(priceCents) / 100.0
		s.Area = float64(areaX100) / 100.0
		s.Bathrooms = float64(bathsX10) / 10.0
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
