// Package adaccounts provides the ad-account endpoints.
//
// Endpoints (mounted at /api/ad-accounts, bearer auth):
//   - GET    /          - list the caller's linked accounts
//   - POST   /          - link an account with caller-supplied credentials
//   - POST   /connect   - link an account by exchanging an OAuth2 authorization code
//   - GET    /{id}      - read one account
//   - PUT    /{id}      - partial update
//   - DELETE /{id}      - unlink
//
// Linking and unlinking write two documents (the account and the owner's
// ad_accounts list) and run through txn.Run.
package adaccounts

import (
	"context"
	"errors"
	"net/http"
	"strings"

	adaccountstore "github.com/ashishmicrocom/adPatterns/internal/app/store/adaccounts"
	"github.com/ashishmicrocom/adPatterns/internal/app/store/storeutil"
	userstore "github.com/ashishmicrocom/adPatterns/internal/app/store/users"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/apperr"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/auth"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/inputval"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/jsonutil"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/normalize"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/patch"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/textsanitize"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/timeouts"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/txn"
	"github.com/ashishmicrocom/adPatterns/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgInvalidID = "Invalid account ID"
	msgNotFound  = "Ad account not found"
	msgDuplicate = "Ad account already connected"
)

// Handler serves the ad-account endpoints.
type Handler struct {
	db        *mongo.Database
	accounts  *adaccountstore.Store
	users     *userstore.Store
	connector *Connector
	logger    *zap.Logger
}

// NewHandler creates an ad-account Handler. connector may be nil, in which
// case /connect rejects every platform as not configured.
func NewHandler(db *mongo.Database, connector *Connector, logger *zap.Logger) *Handler {
	if connector == nil {
		connector = NewConnector(nil)
	}
	return &Handler{
		db:        db,
		accounts:  adaccountstore.New(db),
		users:     userstore.New(db),
		connector: connector,
		logger:    logger,
	}
}

// List handles GET /.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.accounts.List(ctx, u.UserID())
	if err != nil {
		h.logger.Error("list ad accounts failed", zap.String("user_id", u.UserID()), zap.Error(err))
		jsonutil.InternalError(w, "database error")
		return
	}
	jsonutil.OK(w, list)
}

type createInput struct {
	Platform     string          `json:"platform" validate:"required,platform" label:"Platform"`
	AccountID    string          `json:"account_id" validate:"required,max=128" label:"Account ID"`
	AccountName  string          `json:"account_name" validate:"required,max=200" label:"Account name"`
	Currency     string          `json:"currency" validate:"omitempty,len=3,alpha" label:"Currency"`
	AccessToken  string          `json:"access_token" validate:"required" label:"Access token"`
	RefreshToken *string         `json:"refresh_token"`
	Permissions  map[string]bool `json:"permissions"`
}

func (in *createInput) normalize() {
	in.Platform = normalize.Platform(in.Platform)
	in.AccountID = strings.TrimSpace(in.AccountID)
	in.AccountName = textsanitize.Plain(in.AccountName)
	in.Currency = normalize.Currency(in.Currency)
	in.AccessToken = strings.TrimSpace(in.AccessToken)
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
	in.normalize()
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.WriteError(w, res.Err())
		return
	}

	created, err := h.link(r.Context(), u.UserID(), models.AdAccount{
		UserID:       u.UserID(),
		Platform:     in.Platform,
		AccountID:    in.AccountID,
		AccountName:  in.AccountName,
		Currency:     in.Currency,
		AccessToken:  in.AccessToken,
		RefreshToken: in.RefreshToken,
		Permissions:  in.Permissions,
	})
	if err != nil {
		h.writeErr(w, "link ad account", u.UserID(), err)
		return
	}
	jsonutil.Created(w, created)
}

// link checks for an existing link, inserts the account and appends its id
// to the owner's ad_accounts list.
func (h *Handler) link(ctx context.Context, email string, a models.AdAccount) (models.AdAccount, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), h.logger, "ad account link")
	defer cancel()

	exists, err := h.accounts.Exists(ctx, email, a.Platform, a.AccountID)
	if err != nil {
		return models.AdAccount{}, err
	}
	if exists {
		return models.AdAccount{}, apperr.Conflict(msgDuplicate)
	}

	var created models.AdAccount
	err = txn.Run(ctx, h.db, h.logger, func(ctx context.Context) error {
		var err error
		created, err = h.accounts.Create(ctx, a)
		if err != nil {
			return err
		}
		return h.users.AddAdAccount(ctx, email, created.ID.Hex())
	})
	if errors.Is(err, adaccountstore.ErrDuplicateAccount) {
		return models.AdAccount{}, apperr.Conflict(msgDuplicate)
	}
	if err != nil {
		return models.AdAccount{}, err
	}

	h.logger.Debug("ad account linked",
		zap.String("user_id", email),
		zap.String("platform", created.Platform),
		zap.String("account_id", created.AccountID))
	return created, nil
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

	a, err := h.accounts.Get(ctx, u.UserID(), id)
	if err != nil {
		h.writeErr(w, "get ad account", u.UserID(), err)
		return
	}
	jsonutil.OK(w, a)
}

type updateInput struct {
	AccountName  patch.Field[string]          `json:"account_name"`
	Status       patch.Field[string]          `json:"status"`
	AccessToken  patch.Field[string]          `json:"access_token"`
	RefreshToken patch.Field[*string]         `json:"refresh_token"`
	Permissions  patch.Field[map[string]bool] `json:"permissions"`
}

func (in updateInput) mask() (*patch.Mask, error) {
	m := &patch.Mask{}
	if in.AccountName.Set() {
		name := textsanitize.Plain(in.AccountName.Value())
		if res := inputval.Var(name, "required,max=200", "Account name"); res.HasErrors() {
			return nil, res.Err()
		}
		m.Add("account_name", name)
	}
	if in.Status.Set() {
		st := normalize.Status(in.Status.Value())
		if res := inputval.Var(st, "accountstatus", "Status"); res.HasErrors() {
			return nil, res.Err()
		}
		m.Add("status", st)
	}
	if in.AccessToken.Set() {
		tok := strings.TrimSpace(in.AccessToken.Value())
		if tok == "" {
			return nil, apperr.Validation("Access token is required.")
		}
		m.Add("access_token", tok)
	}
	patch.Apply(m, "refresh_token", in.RefreshToken)
	patch.Apply(m, "permissions", in.Permissions)
	return m, nil
}

// Update handles PUT /{id}. Only supplied fields change.
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

	a, err := h.accounts.Update(ctx, u.UserID(), id, m)
	if err != nil {
		h.writeErr(w, "update ad account", u.UserID(), err)
		return
	}
	jsonutil.OK(w, a)
}

// Delete handles DELETE /{id}. Campaigns that reference the account are
// left in place.
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

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.logger, "ad account unlink")
	defer cancel()

	err = txn.Run(ctx, h.db, h.logger, func(ctx context.Context) error {
		if err := h.accounts.Delete(ctx, u.UserID(), id); err != nil {
			return err
		}
		return h.users.RemoveAdAccount(ctx, u.UserID(), id.Hex())
	})
	if err != nil {
		h.writeErr(w, "delete ad account", u.UserID(), err)
		return
	}
	h.logger.Debug("ad account unlinked", zap.String("user_id", u.UserID()), zap.String("id", id.Hex()))
	jsonutil.NoContent(w)
}

// writeErr maps store and apperr errors to responses and logs the rest.
func (h *Handler) writeErr(w http.ResponseWriter, op, userID string, err error) {
	switch {
	case errors.Is(err, storeutil.ErrNotFound):
		jsonutil.NotFound(w, msgNotFound)
	case apperr.KindOf(err) != apperr.KindInternal:
		if apperr.Is(err, apperr.KindUpstream) {
			h.logger.Warn(op+" failed", zap.String("user_id", userID), zap.Error(err))
		}
		jsonutil.WriteError(w, err)
	default:
		h.logger.Error(op+" failed", zap.String("user_id", userID), zap.Error(err))
		jsonutil.InternalError(w, "database error")
	}
}
