// Package campaigns provides the campaign endpoints.
//
// Endpoints (mounted at /api/campaigns, bearer auth):
//   - GET    /               - list (?status, ?platform, ?skip, ?limit), newest first
//   - POST   /               - create a draft (or supplied status) campaign
//   - GET    /summary/stats  - totals across the caller's campaigns
//   - GET    /{id}           - read
//   - PUT    /{id}           - partial update
//   - DELETE /{id}           - delete
//   - POST   /{id}/publish   - move to active
package campaigns

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	campaignstore "github.com/ashishmicrocom/adPatterns/internal/app/store/campaigns"
	"github.com/ashishmicrocom/adPatterns/internal/app/store/storeutil"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/apperr"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/auth"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/inputval"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/jsonutil"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/normalize"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/patch"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/textsanitize"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/timeouts"
	"github.com/ashishmicrocom/adPatterns/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgInvalidID     = "Invalid campaign ID"
	msgNotFound      = "Campaign not found"
	msgAlreadyActive = "Campaign is already active"
)

// Handler serves the campaign endpoints.
type Handler struct {
	campaigns *campaignstore.Store
	logger    *zap.Logger
}

// NewHandler creates a campaign Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		campaigns: campaignstore.New(db),
		logger:    logger,
	}
}

// listQuery is the parsed query string of GET /.
type listQuery struct {
	filter campaignstore.Filter
	skip   int64
	limit  int64
}

func parseListQuery(r *http.Request) (listQuery, error) {
	q := r.URL.Query()
	out := listQuery{skip: 0, limit: storeutil.DefaultLimit}

	if v := normalize.Status(q.Get("status")); v != "" {
		if !models.IsValidCampaignStatus(v) {
			return out, apperr.Validation("status must be one of: " + strings.Join(models.AllCampaignStatuses(), ", "))
		}
		out.filter.Status = v
	}
	if v := normalize.Platform(q.Get("platform")); v != "" {
		if !models.IsValidPlatform(v) {
			return out, apperr.Validation("platform must be one of: " + strings.Join(models.AllPlatforms(), ", "))
		}
		out.filter.Platform = v
	}
	if v := normalize.QueryParam(q.Get("skip")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return out, apperr.Validation("skip must be a non-negative integer")
		}
		out.skip = n
	}
	if v := normalize.QueryParam(q.Get("limit")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 || n > storeutil.MaxLimit {
			return out, apperr.Validation("limit must be an integer between 1 and 100")
		}
		out.limit = n
	}
	return out, nil
}

// List handles GET /.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	lq, err := parseListQuery(r)
	if err != nil {
		jsonutil.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.campaigns.List(ctx, u.UserID(), lq.filter, lq.skip, lq.limit)
	if err != nil {
		h.writeErr(w, "list campaigns", u.UserID(), err)
		return
	}
	jsonutil.OK(w, list)
}

type createInput struct {
	Name        string         `json:"name" validate:"required,max=200" label:"Campaign name"`
	Platform    string         `json:"platform" validate:"required,platform" label:"Platform"`
	Objective   string         `json:"objective" validate:"required,objective" label:"Objective"`
	Budget      float64        `json:"budget" validate:"gt=0" label:"Budget"`
	BudgetType  string         `json:"budget_type" validate:"omitempty,oneof=daily lifetime" label:"Budget type"`
	StartDate   *time.Time     `json:"start_date"`
	EndDate     *time.Time     `json:"end_date"`
	Status      string         `json:"status" validate:"omitempty,campaignstatus" label:"Status"`
	AdAccountID string         `json:"ad_account_id" validate:"required,max=128" label:"Ad account"`
	Targeting   map[string]any `json:"targeting"`
	AdCreative  map[string]any `json:"ad_creative"`
}

// Create handles POST /.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	var in createInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.WriteError(w, err)
		return
	}
	in.Name = textsanitize.Plain(in.Name)
	in.Platform = normalize.Platform(in.Platform)
	in.Objective = normalize.Enum(in.Objective)
	in.BudgetType = normalize.Enum(in.BudgetType)
	in.Status = normalize.Status(in.Status)
	in.AdAccountID = strings.TrimSpace(in.AdAccountID)
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.WriteError(w, res.Err())
		return
	}
	if err := checkDates(in.StartDate, in.EndDate); err != nil {
		jsonutil.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.campaigns.Create(ctx, models.Campaign{
		UserID:      u.UserID(),
		AdAccountID: in.AdAccountID,
		Name:        in.Name,
		Platform:    in.Platform,
		Objective:   in.Objective,
		Budget:      in.Budget,
		BudgetType:  in.BudgetType,
		StartDate:   utcPtr(in.StartDate),
		EndDate:     utcPtr(in.EndDate),
		Status:      in.Status,
		Targeting:   in.Targeting,
		AdCreative:  in.AdCreative,
	})
	if err != nil {
		h.writeErr(w, "create campaign", u.UserID(), err)
		return
	}
	h.logger.Debug("campaign created", zap.String("user_id", u.UserID()), zap.String("id", c.ID.Hex()))
	jsonutil.Created(w, c)
}

// Summary handles GET /summary/stats.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.logger, "campaign summary")
	defer cancel()

	s, err := h.campaigns.Summary(ctx, u.UserID())
	if err != nil {
		h.writeErr(w, "campaign summary", u.UserID(), err)
		return
	}
	jsonutil.OK(w, s)
}

// Get handles GET /{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	id, err := inputval.ParseObjectID(chi.URLParam(r, "id"), msgInvalidID)
	if err != nil {
		jsonutil.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.campaigns.Get(ctx, u.UserID(), id)
	if err != nil {
		h.writeErr(w, "get campaign", u.UserID(), err)
		return
	}
	jsonutil.OK(w, c)
}

type updateInput struct {
	Name       patch.Field[string]         `json:"name"`
	Objective  patch.Field[string]         `json:"objective"`
	Budget     patch.Field[float64]        `json:"budget"`
	BudgetType patch.Field[string]         `json:"budget_type"`
	StartDate  patch.Field[*time.Time]     `json:"start_date"`
	EndDate    patch.Field[*time.Time]     `json:"end_date"`
	Status     patch.Field[string]         `json:"status"`
	Targeting  patch.Field[map[string]any] `json:"targeting"`
	AdCreative patch.Field[map[string]any] `json:"ad_creative"`
}

// mask validates the supplied fields and returns them in declaration order.
func (in updateInput) mask() (*patch.Mask, error) {
	m := &patch.Mask{}
	if in.Name.Set() {
		name := textsanitize.Plain(in.Name.Value())
		if res := inputval.Var(name, "required,max=200", "Campaign name"); res.HasErrors() {
			return nil, res.Err()
		}
		m.Add("name", name)
	}
	if in.Objective.Set() {
		v := normalize.Enum(in.Objective.Value())
		if res := inputval.Var(v, "objective", "Objective"); res.HasErrors() {
			return nil, res.Err()
		}
		m.Add("objective", v)
	}
	if in.Budget.Set() {
		if res := inputval.Var(in.Budget.Value(), "gt=0", "Budget"); res.HasErrors() {
			return nil, res.Err()
		}
		m.Add("budget", in.Budget.Value())
	}
	if in.BudgetType.Set() {
		v := normalize.Enum(in.BudgetType.Value())
		if res := inputval.Var(v, "oneof=daily lifetime", "Budget type"); res.HasErrors() {
			return nil, res.Err()
		}
		m.Add("budget_type", v)
	}
	if in.StartDate.Set() {
		m.Add("start_date", utcPtr(in.StartDate.Value()))
	}
	if in.EndDate.Set() {
		m.Add("end_date", utcPtr(in.EndDate.Value()))
	}
	if in.StartDate.Set() && in.EndDate.Set() {
		if err := checkDates(in.StartDate.Value(), in.EndDate.Value()); err != nil {
			return nil, err
		}
	}
	if in.Status.Set() {
		v := normalize.Status(in.Status.Value())
		if res := inputval.Var(v, "campaignstatus", "Status"); res.HasErrors() {
			return nil, res.Err()
		}
		m.Add("status", v)
	}
	if in.Targeting.Set() {
		m.Add("targeting", in.Targeting.Value())
	}
	if in.AdCreative.Set() {
		m.Add("ad_creative", in.AdCreative.Value())
	}
	return m, nil
}

// Update handles PUT /{id}. Omitted fields keep their stored values.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	id, err := inputval.ParseObjectID(chi.URLParam(r, "id"), msgInvalidID)
	if err != nil {
		jsonutil.WriteError(w, err)
		return
	}

	var in updateInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.WriteError(w, err)
		return
	}
	m, err := in.mask()
	if err != nil {
		jsonutil.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.campaigns.Update(ctx, u.UserID(), id, m)
	if err != nil {
		h.writeErr(w, "update campaign", u.UserID(), err)
		return
	}
	jsonutil.OK(w, c)
}

// Delete handles DELETE /{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	id, err := inputval.ParseObjectID(chi.URLParam(r, "id"), msgInvalidID)
	if err != nil {
		jsonutil.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.campaigns.Delete(ctx, u.UserID(), id); err != nil {
		h.writeErr(w, "delete campaign", u.UserID(), err)
		return
	}
	jsonutil.NoContent(w)
}

// Publish handles POST /{id}/publish.
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}
	id, err := inputval.ParseObjectID(chi.URLParam(r, "id"), msgInvalidID)
	if err != nil {
		jsonutil.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.campaigns.Publish(ctx, u.UserID(), id)
	if err != nil {
		h.writeErr(w, "publish campaign", u.UserID(), err)
		return
	}
	h.logger.Info("campaign published", zap.String("user_id", u.UserID()), zap.String("id", id.Hex()))
	jsonutil.OK(w, c)
}

func (h *Handler) writeErr(w http.ResponseWriter, op, userID string, err error) {
	switch {
	case errors.Is(err, storeutil.ErrNotFound):
		jsonutil.NotFound(w, msgNotFound)
	case errors.Is(err, campaignstore.ErrAlreadyActive):
		jsonutil.WriteError(w, apperr.Conflict(msgAlreadyActive))
	default:
		h.logger.Error(op+" failed", zap.String("user_id", userID), zap.Error(err))
		jsonutil.InternalError(w, "database error")
	}
}

// checkDates rejects an end date before the start date.
func checkDates(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return apperr.Validation("End date must be after start date.")
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
