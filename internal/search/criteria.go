// Package search composes listing search criteria into SQL query
// fragments.  Parsing is tolerant: malformed optional input is normalized
// to "absent" and never produces an error.  The only failure the composer
// knows is the single cross-field area rule checked in Build.
package search

import (
	"math"
	"net/url"
	"strings"
)

// Sort keys accepted by the composer.  Anything else falls back to
// SortLatest.
const (
	SortLatest    = "latest"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortBeds      = "beds"
	SortBaths     = "baths"
	SortArea      = "area"
)

// Criteria is an immutable bundle of optional search constraints.  A nil
// pointer or zero string means "no constraint" for that field.  Scaled
// integer encodings match the listings table: cents for prices, hundredths
// for area, tenths for bathrooms.
type Criteria struct {
	Keyword         string  // substring over title/description/address
	PropertyType    string  // exact match
	ListingType     string  // exact match
	Status          string  // exact match, only honored for privileged callers
	MinPriceCents   *int64
	MaxPriceCents   *int64
	MinBedrooms     *int
	MinBathroomsX10 *int
	MinAreaX100     *int64
	MaxAreaX100     *int64
	YearBuiltMin    *int
	YearBuiltMax    *int
	Location        string // substring over address/city/state/zip
	FeatureIDs      []int64
	AmenityIDs      []int64
	AgentID         *uint64
	Featured        *bool
	Sort            string

	// IncludeAllStatuses lifts the implicit status=available restriction.
	// Never set directly from request input; callers grant it only to
	// privileged identities.
	IncludeAllStatuses bool
}

// ParseCriteria extracts a Criteria from request query parameters.  Every
// malformed numeric value is treated as an absent constraint.  A price
// bucket in "price_range" takes precedence over explicit min/max params.
func ParseCriteria(q url.Values) Criteria {
	c := Criteria{
		Keyword:      strings.TrimSpace(q.Get("keyword")),
		PropertyType: strings.TrimSpace(q.Get("property_type")),
		ListingType:  strings.TrimSpace(q.Get("listing_type")),
		Location:     strings.TrimSpace(q.Get("location")),
		Sort:         strings.TrimSpace(q.Get("sort")),
	}

	c.MinPriceCents = parseScaled(q.Get("min_price"), 2)
	c.MaxPriceCents = parseScaled(q.Get("max_price"), 2)
	if min, max, ok := ParsePriceBucket(q.Get("price_range")); ok {
		c.MinPriceCents, c.MaxPriceCents = min, max
	}

	c.MinBedrooms = parseInt(q.Get("bedrooms"))
	if c.MinBedrooms == nil {
		c.MinBedrooms = parseInt(q.Get("min_bedrooms"))
	}
	if v := parseScaled(q.Get("bathrooms"), 1); v != nil {
		n := int(*v)
		c.MinBathroomsX10 = &n
	}
	c.MinAreaX100 = parseScaled(q.Get("min_area"), 2)
	c.MaxAreaX100 = parseScaled(q.Get("max_area"), 2)
	c.YearBuiltMin = parseInt(q.Get("year_built_min"))
	c.YearBuiltMax = parseInt(q.Get("year_built_max"))
	c.FeatureIDs = parseIDList(q.Get("features"))
	c.AmenityIDs = parseIDList(q.Get("amenities"))

	if v := parseInt(q.Get("agent")); v != nil && *v > 0 {
		id := uint64(*v)
		c.AgentID = &id
	}
	switch strings.ToLower(q.Get("is_featured")) {
	case "true", "1":
		t := true
		c.Featured = &t
	case "false", "0":
		f := false
		c.Featured = &f
	}
	return c
}

// ParsePriceBucket maps a named price bucket like "100000-200000" to a
// (min,max) pair in cents.  The open-ended top bucket "1000000-plus"
// yields a nil max.  Unknown or malformed buckets report ok=false so
// callers can fall back to explicit bounds.
func ParsePriceBucket(s string) (min, max *int64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil, false
	}
	if s == "1000000-plus" {
		lo := int64(1000000) * 100
		return &lo, nil, true
	}
	lo, hi, found := strings.Cut(s, "-")
	if !found {
		return nil, nil, false
	}
	minD := parseDigits(lo)
	maxD := parseDigits(hi)
	if minD == nil || maxD == nil {
		return nil, nil, false
	}
	lc := *minD * 100
	hc := *maxD * 100
	return &lc, &hc, true
}

// parseDigits parses a plain non-negative integer; anything else is nil.
// Values that would overflow int64 count as malformed, so an absurdly long
// digit string is ignored instead of silently wrapping.
func parseDigits(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var n int64
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch < '0' || ch > '9' {
			return nil
		}
		if n > (math.MaxInt64-int64(ch-'0'))/10 {
			return nil
		}
		n = n*10 + int64(ch-'0')
	}
	return &n
}

// parseScaled parses a non-negative decimal with at most `scale` fraction
// digits into an integer scaled by 10^scale.  Parsing stays in integer
// arithmetic so half-step values like 1.5 never suffer float drift.
// Malformed input (signs, extra dots, too many fraction digits) is nil.
func parseScaled(s string, scale int) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if len(fracPart) > scale {
		return nil
	}
	whole := parseDigits(intPart)
	if whole == nil {
		return nil
	}
	n := *whole
	for i := 0; i < scale; i++ {
		n *= 10
		if i < len(fracPart) {
			ch := fracPart[i]
			if ch < '0' || ch > '9' {
				return nil
			}
			n += int64(ch - '0')
		}
	}
	return &n
}

// parseInt parses a plain non-negative integer into *int.
func parseInt(s string) *int {
	v := parseDigits(strings.TrimSpace(s))
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

// parseIDList splits a comma-separated id list, silently discarding
// non-numeric tokens.  "3,abc,5" therefore parses the same as "3,5".
func parseIDList(s string) []int64 {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var ids []int64
	for _, tok := range strings.Split(s, ",") {
		if v := parseDigits(tok); v != nil {
			ids = append(ids, *v)
		}
	}
	return ids
}
