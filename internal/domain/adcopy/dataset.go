// Package adcopy reads the pre-generated ad copy dataset and selects
// suggestions from it with a cascading filter.
//
// The dataset is a CSV file produced offline. It is read from disk on every
// call; nothing is cached.
package adcopy

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// Column names in the dataset header. Extra columns are ignored.
const (
	colUserID      = "User_ID"
	colCategory    = "Category"
	colPlatform    = "Platform"
	colGender      = "Gender"
	colAgeMin      = "Age_Min"
	colAgeMax      = "Age_Max"
	colLocations   = "Locations"
	colHeadline    = "Headline"
	colDescription = "Ad_Description"
	colKeyword     = "Keyword"
	colImagePrompt = "Image_Prompt"
)

var requiredColumns = []string{
	colUserID, colCategory, colPlatform, colGender, colAgeMin, colAgeMax,
	colLocations, colHeadline, colDescription, colKeyword, colImagePrompt,
}

var (
	// ErrNotFound is returned when the dataset file does not exist.
	ErrNotFound = errors.New("dataset not found")
	// ErrEmpty is returned when the dataset file has no header.
	ErrEmpty = errors.New("dataset is empty")
)

// Row is one pre-generated ad. An empty string is a missing cell.
type Row struct {
	UserID      string
	Category    string
	Platform    string
	Gender      string
	AgeMin      float64
	AgeMax      float64
	HasAges     bool // both Age_Min and Age_Max parsed
	Locations   string
	Headline    string
	Description string
	Keyword     string
	ImagePrompt string
}

// Dataset is the parsed file.
type Dataset struct {
	Path string
	Rows []Row
}

// Load reads and parses the dataset at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	rows, err := Parse(f)
	if err != nil {
		return nil, err
	}
	return &Dataset{Path: path, Rows: rows}, nil
}

// Parse reads dataset rows from r.
func Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		cell := func(name string) string {
			i := idx[name]
			if i >= len(rec) {
				return ""
			}
			return rec[i]
		}

		row := Row{
			UserID:      cell(colUserID),
			Category:    cell(colCategory),
			Platform:    cell(colPlatform),
			Gender:      cell(colGender),
			Locations:   cell(colLocations),
			Headline:    cell(colHeadline),
			Description: cell(colDescription),
			Keyword:     cell(colKeyword),
			ImagePrompt: cell(colImagePrompt),
		}
		minV, minOK := parseAge(cell(colAgeMin))
		maxV, maxOK := parseAge(cell(colAgeMax))
		row.AgeMin, row.AgeMax, row.HasAges = minV, maxV, minOK && maxOK
		rows = append(rows, row)
	}
	return rows, nil
}

func parseAge(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
