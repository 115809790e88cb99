// Package suggestions serves ad-copy suggestions from the CSV dataset.
//
// Endpoints (mounted at /api, no auth):
//   - POST /generate-suggestions - run the cascade for campaign attributes
//   - GET  /model-stats          - describe the dataset
//
// The dataset is read from disk on every request.
package suggestions

import (
	"errors"
	"net/http"

	"github.com/ashishmicrocom/adPatterns/internal/app/system/jsonutil"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/metrics"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/patch"
	"github.com/ashishmicrocom/adPatterns/internal/domain/adcopy"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the suggestion endpoints.
type Handler struct {
	svc    *adcopy.Service
	logger *zap.Logger
}

// NewHandler creates a suggestions Handler reading the dataset at path.
func NewHandler(path string, logger *zap.Logger) *Handler {
	return &Handler{svc: adcopy.NewService(path), logger: logger}
}

// Routes returns a chi.Router with the suggestion endpoints mounted.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/generate-suggestions", h.Generate)
	r.Get("/model-stats", h.Stats)
	return r
}

// suggestionInput distinguishes an absent key (default applies) from an
// explicit null (filter disabled).
type suggestionInput struct {
	Category        patch.Field[*string] `json:"category"`
	Platform        patch.Field[*string] `json:"platform"`
	Gender          patch.Field[*string] `json:"gender"`
	AgeMin          patch.Field[*int]    `json:"age_min"`
	AgeMax          patch.Field[*int]    `json:"age_max"`
	Locations       *string              `json:"locations"`
	Price           *string              `json:"price"`
	PriceRange      *string              `json:"price_range"`
	UserDescription *string              `json:"user_description"`
	TargetAudience  *string              `json:"target_audience"`
}

func (in suggestionInput) request() adcopy.Request {
	return adcopy.Request{
		Category:        str(in.Category, adcopy.DefaultCategory),
		Platform:        str(in.Platform, adcopy.DefaultPlatform),
		Gender:          str(in.Gender, adcopy.DefaultGender),
		AgeMin:          num(in.AgeMin, adcopy.DefaultAgeMin),
		AgeMax:          num(in.AgeMax, adcopy.DefaultAgeMax),
		Locations:       deref(in.Locations),
		Price:           deref(in.Price),
		PriceRange:      deref(in.PriceRange),
		UserDescription: deref(in.UserDescription),
		TargetAudience:  deref(in.TargetAudience),
	}
}

func str(f patch.Field[*string], def string) string {
	if !f.Set() {
		return def
	}
	return deref(f.Value())
}

func num(f patch.Field[*int], def int) int {
	if !f.Set() {
		return def
	}
	if v := f.Value(); v != nil {
		return *v
	}
	return 0
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Generate handles POST /generate-suggestions.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var in suggestionInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.WriteError(w, err)
		return
	}
	req := in.request()

	s, err := h.svc.Suggest(req)
	if err != nil {
		h.logger.Error("generate suggestions failed",
			zap.String("path", h.svc.Path()),
			zap.Error(err))
		jsonutil.InternalError(w, "Error generating suggestions: "+err.Error())
		return
	}

	metrics.RecordSuggestion(string(s.MatchLevel))
	h.logger.Debug("suggestions generated",
		zap.String("category", req.Category),
		zap.String("match_level", string(s.MatchLevel)),
		zap.Int("total_matches", s.TotalMatches))
	jsonutil.OK(w, s)
}

// Stats handles GET /model-stats. A missing or empty dataset is reported in
// the body with status 200.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Stats()
	if errors.Is(err, adcopy.ErrNotFound) || errors.Is(err, adcopy.ErrEmpty) {
		h.logger.Warn("model stats: dataset unavailable", zap.String("path", h.svc.Path()), zap.Error(err))
		jsonutil.OK(w, map[string]string{
			"error": "Model CSV not found",
			"path":  h.svc.Path(),
		})
		return
	}
	if err != nil {
		h.logger.Error("model stats failed", zap.String("path", h.svc.Path()), zap.Error(err))
		jsonutil.InternalError(w, err.Error())
		return
	}
	jsonutil.OK(w, st)
}
