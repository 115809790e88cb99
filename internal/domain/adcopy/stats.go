package adcopy

import (
	"math"
	"strconv"
)

// Stats describes the dataset for the model-stats endpoint.
type Stats struct {
	TotalRows          int      `json:"total_rows"`
	TotalUsers         int      `json:"total_users"`
	Categories         []string `json:"categories"`
	Genders            []string `json:"genders"`
	Platforms          []string `json:"platforms"`
	AgeRange           string   `json:"age_range"`
	UniqueHeadlines    int      `json:"unique_headlines"`
	UniqueDescriptions int      `json:"unique_descriptions"`
	CSVPath            string   `json:"csv_path"`
}

// Summarize computes Stats for a loaded dataset. Missing cells are not
// counted as distinct values.
func Summarize(d *Dataset) Stats {
	s := Stats{
		TotalRows:  len(d.Rows),
		CSVPath:    d.Path,
		Categories: distinct(d.Rows, func(r Row) string { return r.Category }),
		Genders:    distinct(d.Rows, func(r Row) string { return r.Gender }),
		Platforms:  distinct(d.Rows, func(r Row) string { return r.Platform }),
	}
	s.TotalUsers = len(distinct(d.Rows, func(r Row) string { return r.UserID }))
	s.UniqueHeadlines = len(distinct(d.Rows, func(r Row) string { return r.Headline }))
	s.UniqueDescriptions = len(distinct(d.Rows, func(r Row) string { return r.Description }))

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range d.Rows {
		if !r.HasAges {
			continue
		}
		lo = math.Min(lo, r.AgeMin)
		hi = math.Max(hi, r.AgeMax)
	}
	if !math.IsInf(lo, 1) {
		s.AgeRange = formatAge(lo) + " - " + formatAge(hi)
	}
	return s
}

// distinct returns non-empty values in order of first appearance.
func distinct(rows []Row, field func(Row) string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range rows {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func formatAge(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
