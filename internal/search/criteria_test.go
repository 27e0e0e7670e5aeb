package search

import (
	"net/url"
	"reflect"
	"testing"
)

func TestParseCriteriaTolerantNumerics(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(t *testing.T, c Criteria)
	}{
		{
			name:  "well-formed bounds",
			query: "min_price=1000&max_price=2500.50&bedrooms=3&bathrooms=1.5&min_area=800&max_area=1200.25",
			check: func(t *testing.T, c Criteria) {
				if c.MinPriceCents == nil || *c.MinPriceCents != 100000 {
					t.Errorf("MinPriceCents = %v, want 100000", c.MinPriceCents)
				}
				if c.MaxPriceCents == nil || *c.MaxPriceCents != 250050 {
					t.Errorf("MaxPriceCents = %v, want 250050", c.MaxPriceCents)
				}
				if c.MinBedrooms == nil || *c.MinBedrooms != 3 {
					t.Errorf("MinBedrooms = %v, want 3", c.MinBedrooms)
				}
				if c.MinBathroomsX10 == nil || *c.MinBathroomsX10 != 15 {
					t.Errorf("MinBathroomsX10 = %v, want 15", c.MinBathroomsX10)
				}
				if c.MinAreaX100 == nil || *c.MinAreaX100 != 80000 {
					t.Errorf("MinAreaX100 = %v, want 80000", c.MinAreaX100)
				}
				if c.MaxAreaX100 == nil || *c.MaxAreaX100 != 120025 {
					t.Errorf("MaxAreaX100 = %v, want 120025", c.MaxAreaX100)
				}
			},
		},
		{
			name:  "malformed numerics become absent",
			query: "min_price=cheap&max_price=-5&bedrooms=many&bathrooms=1.55&min_area=&max_area=12..5",
			check: func(t *testing.T, c Criteria) {
				if c.MinPriceCents != nil || c.MaxPriceCents != nil {
					t.Errorf("price bounds = %v/%v, want both nil", c.MinPriceCents, c.MaxPriceCents)
				}
				if c.MinBedrooms != nil {
					t.Errorf("MinBedrooms = %v, want nil", c.MinBedrooms)
				}
				if c.MinBathroomsX10 != nil {
					t.Errorf("MinBathroomsX10 = %v, want nil", c.MinBathroomsX10)
				}
				if c.MinAreaX100 != nil || c.MaxAreaX100 != nil {
					t.Errorf("area bounds = %v/%v, want both nil", c.MinAreaX100, c.MaxAreaX100)
				}
			},
		},
		{
			name:  "unknown featured flag ignored",
			query: "is_featured=maybe",
			check: func(t *testing.T, c Criteria) {
				if c.Featured != nil {
					t.Errorf("Featured = %v, want nil", c.Featured)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			tt.check(t, ParseCriteria(q))
		})
	}
}

func TestParseCriteriaIDListDropsBadTokens(t *testing.T) {
	messy, _ := url.ParseQuery("features=3,abc,5&amenities=,,7")
	clean, _ := url.ParseQuery("features=3,5&amenities=7")

	got := ParseCriteria(messy)
	want := ParseCriteria(clean)
	if !reflect.DeepEqual(got.FeatureIDs, want.FeatureIDs) {
		t.Errorf("FeatureIDs = %v, want %v", got.FeatureIDs, want.FeatureIDs)
	}
	if !reflect.DeepEqual(got.AmenityIDs, want.AmenityIDs) {
		t.Errorf("AmenityIDs = %v, want %v", got.AmenityIDs, want.AmenityIDs)
	}
	if !reflect.DeepEqual(got.FeatureIDs, []int64{3, 5}) {
		t.Errorf("FeatureIDs = %v, want [3 5]", got.FeatureIDs)
	}
}

func TestParsePriceBucket(t *testing.T) {
	tests := []struct {
		in      string
		wantMin int64
		wantMax int64 // -1 means nil
		wantOK  bool
	}{
		{"100000-200000", 10000000, 20000000, true},
		{"0-100000", 0, 10000000, true},
		{"1000000-plus", 100000000, -1, true},
		{"abc-def", 0, 0, false},
		{"100000", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			min, max, ok := ParsePriceBucket(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if min == nil || *min != tt.wantMin {
				t.Errorf("min = %v, want %d", min, tt.wantMin)
			}
			if tt.wantMax == -1 {
				if max != nil {
					t.Errorf("max = %v, want nil", max)
				}
			} else if max == nil || *max != tt.wantMax {
				t.Errorf("max = %v, want %d", max, tt.wantMax)
			}
		})
	}
}

func TestPriceBucketOverridesExplicitBounds(t *testing.T) {
	q, _ := url.ParseQuery("min_price=1&max_price=2&price_range=100000-200000")
	c := ParseCriteria(q)
	if c.MinPriceCents == nil || *c.MinPriceCents != 10000000 {
		t.Errorf("MinPriceCents = %v, want 10000000", c.MinPriceCents)
	}
	if c.MaxPriceCents == nil || *c.MaxPriceCents != 20000000 {
		t.Errorf("MaxPriceCents = %v, want 20000000", c.MaxPriceCents)
	}
}

func TestParseScaled(t *testing.T) {
	tests := []struct {
		in    string
		scale int
		want  int64 // -1 means nil
	}{
		{"1.5", 1, 15},
		{"2", 1, 20},
		{"1234.56", 2, 123456},
		{"1234.5", 2, 123450},
		{"1234.", 2, 123400},
		{"1.555", 2, -1}, // too many fraction digits
		{"-1", 2, -1},
		{"1,5", 1, -1},
		{"", 2, -1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseScaled(tt.in, tt.scale)
			if tt.want == -1 {
				if got != nil {
					t.Errorf("parseScaled(%q, %d) = %d, want nil", tt.in, tt.scale, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("parseScaled(%q, %d) = %v, want %d", tt.in, tt.scale, got, tt.want)
			}
		})
	}
}

func TestParseDigitsOverflowIsMalformed(t *testing.T) {
	tests := []struct {
		in   string
		want int64 // -1 means nil expected
	}{
		{"9223372036854775807", 9223372036854775807}, // max int64 still parses
		{"9223372036854775808", -1},                  // one past max wraps, so rejected
		{"99999999999999999999999999", -1},
		{"123", 123},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseDigits(tt.in)
			if tt.want == -1 {
				if got != nil {
					t.Errorf("parseDigits(%q) = %d, want nil", tt.in, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("parseDigits(%q) = %v, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestOverflowingQueryValuesAreIgnored(t *testing.T) {
	q := url.Values{}
	q.Set("min_price", "99999999999999999999999999")
	q.Set("features", "3,99999999999999999999999999,5")
	c := ParseCriteria(q)
	if c.MinPriceCents != nil {
		t.Errorf("overflowing min_price parsed to %d, want absent", *c.MinPriceCents)
	}
	if len(c.FeatureIDs) != 2 || c.FeatureIDs[0] != 3 || c.FeatureIDs[1] != 5 {
		t.Errorf("FeatureIDs = %v, want [3 5]", c.FeatureIDs)
	}
}
