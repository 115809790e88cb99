package adcopy

import (
	"strings"
)

// Request holds the campaign attributes used to pick suggestions.
// Empty strings and zero ages disable the corresponding filter.
type Request struct {
	Category   string
	Platform   string
	Gender     string
	AgeMin     int
	AgeMax     int
	Locations  string
	Price      string
	PriceRange string

	// Accepted for forward compatibility; not used for filtering.
	UserDescription string
	TargetAudience  string
}

// Request defaults applied when a field is absent from the body.
const (
	DefaultCategory = "Clothing"
	DefaultPlatform = "Meta"
	DefaultGender   = "Male"
	DefaultAgeMin   = 1
	DefaultAgeMax   = 100
)

// MatchLevel names the cascade level that produced the suggestions.
type MatchLevel string

const (
	LevelFiltered MatchLevel = "filtered"
	LevelCategory MatchLevel = "category"
	LevelAll      MatchLevel = "all"
	LevelMock     MatchLevel = "mock"
)

// MaxPerField caps each suggestion list.
const MaxPerField = 10

// Suggestions is the response bundle.
type Suggestions struct {
	Headlines    []string   `json:"headlines"`
	Descriptions []string   `json:"descriptions"`
	Keywords     []string   `json:"keywords"`
	ImagePrompts []string   `json:"image_prompts"`
	CTA          string     `json:"cta"`
	TotalMatches int        `json:"total_matches"`
	MatchLevel   MatchLevel `json:"match_level"`
}

// Select runs the cascade over rows:
//
//  1. Category equals category
//  2. Platform equals platform (when set)
//  3. Gender equals gender (when set and not "All")
//  4. [Age_Min, Age_Max] overlaps [age_min, age_max] (when both non-zero)
//  5. Locations token sets intersect (when set)
//
// An empty result falls back to category-only rows, then to every row.
// It returns the rows of the level used and the level.
func Select(rows []Row, req Request) ([]Row, MatchLevel) {
	byCategory := where(rows, func(r Row) bool { return eq(r.Category, req.Category) })

	filtered := byCategory
	if req.Platform != "" {
		filtered = where(filtered, func(r Row) bool { return eq(r.Platform, req.Platform) })
	}
	if req.Gender != "" && req.Gender != "All" {
		filtered = where(filtered, func(r Row) bool { return eq(r.Gender, req.Gender) })
	}
	if req.AgeMin != 0 && req.AgeMax != 0 {
		lo, hi := float64(req.AgeMin), float64(req.AgeMax)
		filtered = where(filtered, func(r Row) bool {
			return r.HasAges && r.AgeMin <= hi && r.AgeMax >= lo
		})
	}
	if req.Locations != "" {
		want := locationTokens(req.Locations)
		filtered = where(filtered, func(r Row) bool { return intersects(locationTokens(r.Locations), want) })
	}

	switch {
	case len(filtered) > 0:
		return filtered, LevelFiltered
	case len(byCategory) > 0:
		return byCategory, LevelCategory
	default:
		return rows, LevelAll
	}
}

// Suggest selects rows for req and builds the suggestion bundle.
func Suggest(rows []Row, req Request) Suggestions {
	used, level := Select(rows, req)
	return Suggestions{
		Headlines:    firstN(used, func(r Row) string { return r.Headline }),
		Descriptions: firstN(used, func(r Row) string { return r.Description }),
		Keywords:     firstN(used, func(r Row) string { return r.Keyword }),
		ImagePrompts: firstN(used, func(r Row) string { return r.ImagePrompt }),
		CTA:          CallToAction(req),
		TotalMatches: len(used),
		MatchLevel:   level,
	}
}

// CallToAction is "Shop Now" when the request mentions a price.
func CallToAction(req Request) string {
	if req.Price != "" || req.PriceRange != "" {
		return "Shop Now"
	}
	return "Learn More"
}

// eq matches a present cell exactly. Missing cells never match.
func eq(cell, want string) bool {
	return cell != "" && cell == want
}

func where(rows []Row, keep func(Row) bool) []Row {
	var out []Row
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// firstN returns up to MaxPerField non-empty values in row order.
func firstN(rows []Row, field func(Row) string) []string {
	out := make([]string, 0, MaxPerField)
	for _, r := range rows {
		if len(out) == MaxPerField {
			break
		}
		if v := field(r); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// locationTokens splits a comma separated list into trimmed lowercase tokens.
func locationTokens(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
