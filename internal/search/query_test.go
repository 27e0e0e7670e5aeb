package search

import (
	"net/url"
	"reflect"
	"strings"
	"testing"
)

func TestBuildDefaultsToAvailable(t *testing.T) {
	q, err := Build(Criteria{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := q.Cond(); got != "l.status = ?" {
		t.Errorf("Cond() = %q, want %q", got, "l.status = ?")
	}
	if len(q.Args) != 1 || q.Args[0] != "available" {
		t.Errorf("Args = %v, want [available]", q.Args)
	}
	if q.Distinct {
		t.Error("Distinct = true, want false")
	}
	if q.OrderBy != "l.created_at DESC, l.id DESC" {
		t.Errorf("OrderBy = %q", q.OrderBy)
	}
}

func TestBuildIncludeAllStatuses(t *testing.T) {
	q, err := Build(Criteria{IncludeAllStatuses: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := q.Cond(); got != "1=1" {
		t.Errorf("Cond() = %q, want 1=1", got)
	}

	q, err = Build(Criteria{IncludeAllStatuses: true, Status: "sold"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := q.Cond(); got != "l.status = ?" {
		t.Errorf("Cond() = %q, want status filter", got)
	}
	if q.Args[0] != "sold" {
		t.Errorf("Args[0] = %v, want sold", q.Args[0])
	}
}

func TestBuildInvertedAreaRange(t *testing.T) {
	lo, hi := int64(120000), int64(80000)
	_, err := Build(Criteria{MinAreaX100: &lo, MaxAreaX100: &hi})
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if !reflect.DeepEqual(ve.Fields, []string{"min_area", "max_area"}) {
		t.Errorf("Fields = %v, want [min_area max_area]", ve.Fields)
	}

	// Equal bounds are a valid single-point range.
	if _, err := Build(Criteria{MinAreaX100: &hi, MaxAreaX100: &hi}); err != nil {
		t.Errorf("equal bounds: %v", err)
	}
	// One-sided bounds can never be inverted.
	if _, err := Build(Criteria{MinAreaX100: &lo}); err != nil {
		t.Errorf("min only: %v", err)
	}
}

func TestBuildConjunctiveComposition(t *testing.T) {
	minPrice := int64(10000000)
	beds := 3
	c := Criteria{
		Keyword:       "garden",
		PropertyType:  "house",
		ListingType:   "sale",
		MinPriceCents: &minPrice,
		MinBedrooms:   &beds,
		Location:      "Austin",
	}
	q, err := Build(c)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	cond := q.Cond()
	for _, frag := range []string{
		"l.status = ?",
		"LOWER(l.title) LIKE ?",
		"l.property_type = ?",
		"l.listing_type = ?",
		"l.price_cents >= ?",
		"l.bedrooms >= ?",
		"LOWER(l.city) LIKE ?",
	} {
		if !strings.Contains(cond, frag) {
			t.Errorf("Cond() missing %q:\n%s", frag, cond)
		}
	}
	if got := strings.Count(cond, " AND "); got != 6 {
		t.Errorf("AND count = %d, want 6", got)
	}
	// status, 3x keyword, type, type, price, beds, 4x location
	if len(q.Args) != 12 {
		t.Errorf("len(Args) = %d, want 12", len(q.Args))
	}
}

func TestBuildTagJoinsSelectDistinct(t *testing.T) {
	q, err := Build(Criteria{FeatureIDs: []int64{1, 2}, AmenityIDs: []int64{7}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !q.Distinct {
		t.Error("Distinct = false, want true")
	}
	joins := q.JoinClause()
	if !strings.Contains(joins, "listing_features") || !strings.Contains(joins, "listing_amenities") {
		t.Errorf("JoinClause() = %q", joins)
	}
	if !strings.Contains(q.Cond(), "lf.feature_id IN (?,?)") {
		t.Errorf("Cond() = %q, want feature IN with two placeholders", q.Cond())
	}
	if !strings.Contains(q.Cond(), "la.amenity_id IN (?)") {
		t.Errorf("Cond() = %q, want amenity IN with one placeholder", q.Cond())
	}
}

func TestOrderByAlwaysEndsWithStableTieBreaker(t *testing.T) {
	sorts := []string{"", SortLatest, SortPriceLow, SortPriceHigh, SortBeds, SortBaths, SortArea, "bogus"}
	for _, s := range sorts {
		q, err := Build(Criteria{Sort: s})
		if err != nil {
			t.Fatalf("Build(%q): %v", s, err)
		}
		if !strings.HasSuffix(q.OrderBy, "l.created_at DESC, l.id DESC") {
			t.Errorf("sort %q: OrderBy = %q lacks stable suffix", s, q.OrderBy)
		}
	}
}

func TestOrderByKnownSorts(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{SortPriceLow, "l.price_cents ASC, l.created_at DESC, l.id DESC"},
		{SortPriceHigh, "l.price_cents DESC, l.created_at DESC, l.id DESC"},
		{SortBeds, "l.bedrooms DESC, l.created_at DESC, l.id DESC"},
		{SortBaths, "l.bathrooms_x10 DESC, l.created_at DESC, l.id DESC"},
		{SortArea, "l.area_sqft_x100 DESC, l.created_at DESC, l.id DESC"},
		{"nonsense", "l.created_at DESC, l.id DESC"},
	}
	for _, tt := range tests {
		if got := orderBy(tt.sort); got != tt.want {
			t.Errorf("orderBy(%q) = %q, want %q", tt.sort, got, tt.want)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	raw, _ := url.ParseQuery("keyword=pool&property_type=condo&min_price=500&features=2,9&sort=price_low")
	c := ParseCriteria(raw)

	first, err1 := Build(c)
	second, err2 := Build(c)
	if err1 != nil || err2 != nil {
		t.Fatalf("Build: %v / %v", err1, err2)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Build not deterministic:\n%#v\n%#v", first, second)
	}
}
