package adcopy

import (
	"errors"
	"path/filepath"
)

// Service answers suggestion and stats requests from the dataset at a path.
type Service struct {
	path string
}

// NewService returns a Service reading the dataset at path.
func NewService(path string) *Service {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Service{path: path}
}

// Path returns the absolute dataset path.
func (s *Service) Path() string { return s.path }

// Suggest loads the dataset and runs the cascade. A missing dataset or one
// without rows yields the static mock bundle. A header-only file is treated
// like a missing one, so it returns the mock bundle rather than empty lists
// with total_matches 0.
func (s *Service) Suggest(req Request) (Suggestions, error) {
	d, err := Load(s.path)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmpty) {
		return Mock(), nil
	}
	if err != nil {
		return Suggestions{}, err
	}
	if len(d.Rows) == 0 {
		return Mock(), nil
	}
	return Suggest(d.Rows, req), nil
}

// Stats loads the dataset and summarizes it. A missing or empty dataset
// returns ErrNotFound or ErrEmpty.
func (s *Service) Stats() (Stats, error) {
	d, err := Load(s.path)
	if err != nil {
		return Stats{}, err
	}
	if len(d.Rows) == 0 {
		return Stats{}, ErrEmpty
	}
	return Summarize(d), nil
}
