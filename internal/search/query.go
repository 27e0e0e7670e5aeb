package search

import (
	"fmt"
	"strings"
)

// ValidationError reports the single caller-correctable failure the
// composer can produce: both area bounds present with min above max.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", strings.Join(e.Fields, ", "), e.Reason)
}

// Query is a composed set of SQL fragments over the listings table
// (aliased "l").  Where conditions combine conjunctively; a multi-value
// join (features/amenities) sets Distinct so the result is deduplicated.
// OrderBy always ends with created_at DESC, id DESC tie-breakers so the
// ordering is a stable total order regardless of the primary sort key.
type Query struct {
	Joins    []string
	Where    []string
	Args     []any
	Distinct bool
	OrderBy  string
}

// Cond returns the WHERE conditions joined with AND, or "1=1" when no
// constraint applies.
func (q Query) Cond() string {
	if len(q.Where) == 0 {
		return "1=1"
	}
	return strings.Join(q.Where, " AND ")
}

// JoinClause returns the JOIN fragments separated by newlines.
func (q Query) JoinClause() string {
	return strings.Join(q.Joins, "\n")
}

// Build translates a Criteria into a Query.  Unspecified fields impose no
// restriction; specified fields compose conjunctively.  Only the id lists
// compose disjunctively within themselves ("any of").  Build never fails
// on malformed input, which is normalized away during parsing; it only
// rejects the inverted area range.
func Build(c Criteria) (Query, error) {
	if c.MinAreaX100 != nil && c.MaxAreaX100 != nil && *c.MinAreaX100 > *c.MaxAreaX100 {
		return Query{}, &ValidationError{
			Fields: []string{"min_area", "max_area"},
			Reason: "minimum area cannot be greater than maximum area",
		}
	}

	var q Query

	if c.IncludeAllStatuses {
		if c.Status != "" {
			q.Where = append(q.Where, "l.status = ?")
			q.Args = append(q.Args, c.Status)
		}
	} else {
		q.Where = append(q.Where, "l.status = ?")
		q.Args = append(q.Args, "available")
	}

	if c.Keyword != "" {
		kw := "%" + strings.ToLower(c.Keyword) + "%"
		q.Where = append(q.Where,
			"(LOWER(l.title) LIKE ? OR LOWER(l.description) LIKE ? OR LOWER(l.address) LIKE ?)")
		q.Args = append(q.Args, kw, kw, kw)
	}
	if c.PropertyType != "" {
		q.Where = append(q.Where, "l.property_type = ?")
		q.Args = append(q.Args, c.PropertyType)
	}
	if c.ListingType != "" {
		q.Where = append(q.Where, "l.listing_type = ?")
		q.Args = append(q.Args, c.ListingType)
	}
	if c.MinPriceCents != nil {
		q.Where = append(q.Where, "l.price_cents >= ?")
		q.Args = append(q.Args, *c.MinPriceCents)
	}
	if c.MaxPriceCents != nil {
		q.Where = append(q.Where, "l.price_cents <= ?")
		q.Args = append(q.Args, *c.MaxPriceCents)
	}
	if c.MinBedrooms != nil {
		q.Where = append(q.Where, "l.bedrooms >= ?")
		q.Args = append(q.Args, *c.MinBedrooms)
	}
	if c.MinBathroomsX10 != nil {
		q.Where = append(q.Where, "l.bathrooms_x10 >= ?")
		q.Args = append(q.Args, *c.MinBathroomsX10)
	}
	if c.MinAreaX100 != nil {
		q.Where = append(q.Where, "l.area_sqft_x100 >= ?")
		q.Args = append(q.Args, *c.MinAreaX100)
	}
	if c.MaxAreaX100 != nil {
		q.Where = append(q.Where, "l.area_sqft_x100 <= ?")
		q.Args = append(q.Args, *c.MaxAreaX100)
	}
	if c.YearBuiltMin != nil {
		q.Where = append(q.Where, "l.year_built >= ?")
		q.Args = append(q.Args, *c.YearBuiltMin)
	}
	if c.YearBuiltMax != nil {
		q.Where = append(q.Where, "l.year_built <= ?")
		q.Args = append(q.Args, *c.YearBuiltMax)
	}
	if c.Location != "" {
		loc := "%" + strings.ToLower(c.Location) + "%"
		q.Where = append(q.Where,
			"(LOWER(l.address) LIKE ? OR LOWER(l.city) LIKE ? OR LOWER(l.state) LIKE ? OR LOWER(l.zip_code) LIKE ?)")
		q.Args = append(q.Args, loc, loc, loc, loc)
	}
	if len(c.FeatureIDs) > 0 {
		q.Joins = append(q.Joins, "JOIN listing_features lf ON lf.listing_id = l.id")
		q.Where = append(q.Where, "lf.feature_id IN ("+placeholders(len(c.FeatureIDs))+")")
		for _, id := range c.FeatureIDs {
			q.Args = append(q.Args, id)
		}
		q.Distinct = true
	}
	if len(c.AmenityIDs) > 0 {
		q.Joins = append(q.Joins, "JOIN listing_amenities la ON la.listing_id = l.id")
		q.Where = append(q.Where, "la.amenity_id IN ("+placeholders(len(c.AmenityIDs))+")")
		for _, id := range c.AmenityIDs {
			q.Args = append(q.Args, id)
		}
		q.Distinct = true
	}
	if c.AgentID != nil {
		q.Where = append(q.Where, "l.agent_id = ?")
		q.Args = append(q.Args, *c.AgentID)
	}
	if c.Featured != nil {
		q.Where = append(q.Where, "l.is_featured = ?")
		q.Args = append(q.Args, *c.Featured)
	}

	q.OrderBy = orderBy(c.Sort)
	return q, nil
}

// orderBy maps a sort key to its ORDER BY clause.  Absent or unrecognized
// keys fall back to newest-first.  Ties always break by creation time then
// id, both descending, so pagination stays deterministic.
func orderBy(sort string) string {
	switch sort {
	case SortPriceLow:
		return "l.price_cents ASC, l.created_at DESC, l.id DESC"
	case SortPriceHigh:
		return "l.price_cents DESC, l.created_at DESC, l.id DESC"
	case SortBeds:
		return "l.bedrooms DESC, l.created_at DESC, l.id DESC"
	case SortBaths:
		return "l.bathrooms_x10 DESC, l.created_at DESC, l.id DESC"
	case SortArea:
		return "l.area_sqft_x100 DESC, l.created_at DESC, l.id DESC"
	default:
		return "l.created_at DESC, l.id DESC"
	}
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
