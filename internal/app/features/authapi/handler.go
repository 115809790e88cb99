// Package authapi provides registration, login and profile endpoints.
//
// Endpoints (mounted at /api/auth):
//   - POST /register    - create an account, returns a bearer token
//   - POST /login       - form login (username, password), returns a bearer token
//   - POST /login/json  - JSON login (email, password), returns a bearer token
//   - GET  /me          - current user
//   - PUT  /me          - partial profile update
package authapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/ashishmicrocom/adPatterns/internal/app/store/storeutil"
	userstore "github.com/ashishmicrocom/adPatterns/internal/app/store/users"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/apperr"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/auth"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/authutil"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/inputval"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/jsonutil"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/metrics"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/normalize"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/patch"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/textsanitize"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/timeouts"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/tokens"
	"github.com/ashishmicrocom/adPatterns/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const badCredentials = "Incorrect email or password"

// Handler serves the auth endpoints.
type Handler struct {
	users  *userstore.Store
	issuer *tokens.Issuer
	logger *zap.Logger
}

// NewHandler creates an auth Handler.
func NewHandler(db *mongo.Database, issuer *tokens.Issuer, logger *zap.Logger) *Handler {
	return &Handler{
		users:  userstore.New(db),
		issuer: issuer,
		logger: logger,
	}
}

type registerInput struct {
	Email       string  `json:"email" validate:"required,email,max=254" label:"Email"`
	FullName    string  `json:"full_name" validate:"required,max=200" label:"Full name"`
	Password    string  `json:"password" validate:"required" label:"Password"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32" label:"Phone number"`
	Company     *string `json:"company" validate:"omitempty,max=200" label:"Company"`
}

// Register handles POST /register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.WriteError(w, err)
		return
	}
	in.Email = normalize.Email(in.Email)
	in.FullName = textsanitize.Plain(in.FullName)
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.WriteError(w, res.Err())
		return
	}
	if err := authutil.ValidatePassword(in.Password); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.users.GetByEmail(ctx, in.Email); err == nil {
		jsonutil.WriteError(w, apperr.Conflict("Email already registered"))
		return
	} else if !errors.Is(err, storeutil.ErrNotFound) {
		h.logger.Error("register: lookup failed", zap.String("user_id", in.Email), zap.Error(err))
		jsonutil.InternalError(w, "database error")
		return
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		h.logger.Error("register: hash failed", zap.Error(err))
		jsonutil.InternalError(w, "failed to hash password")
		return
	}

	u, err := h.users.Create(ctx, models.User{
		Email:          in.Email,
		FullName:       in.FullName,
		PhoneNumber:    trimmedPtr(in.PhoneNumber),
		Company:        trimmedPtr(in.Company),
		HashedPassword: hash,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		jsonutil.WriteError(w, apperr.Conflict("Email already registered"))
		return
	}
	if err != nil {
		h.logger.Error("register: insert failed", zap.String("user_id", in.Email), zap.Error(err))
		jsonutil.InternalError(w, "database error")
		return
	}

	h.logger.Info("user registered", zap.String("user_id", u.Email))
	h.writeToken(w, http.StatusCreated, u.Email)
}

// Login handles POST /login with an application/x-www-form-urlencoded body
// carrying username (the email) and password.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		jsonutil.BadRequest(w, "invalid form body")
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if username == "" || password == "" {
		jsonutil.BadRequest(w, "username and password are required")
		return
	}
	h.login(w, r, username, password)
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

// LoginJSON handles POST /login/json.
func (h *Handler) LoginJSON(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.WriteError(w, err)
		return
	}
	in.Email = normalize.Email(in.Email)
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.WriteError(w, res.Err())
		return
	}
	h.login(w, r, in.Email, in.Password)
}

// login verifies credentials and writes a token. Unknown email, wrong
// password and inactive accounts all produce the same 401.
func (h *Handler) login(w http.ResponseWriter, r *http.Request, email, password string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, storeutil.ErrNotFound) {
		h.logger.Error("login: lookup failed", zap.Error(err))
		jsonutil.InternalError(w, "database error")
		return
	}
	hash := ""
	if u != nil {
		hash = u.HashedPassword
	}
	if !authutil.CheckPassword(password, hash) || !u.IsActive {
		h.logger.Warn("login rejected", zap.String("user_id", normalize.Email(email)))
		metrics.RecordAuthFailure("bad_credentials")
		jsonutil.Unauthorized(w, badCredentials)
		return
	}

	h.writeToken(w, http.StatusOK, u.Email)
}

func (h *Handler) writeToken(w http.ResponseWriter, status int, email string) {
	tok, _, err := h.issuer.Issue(email)
	if err != nil {
		h.logger.Error("token issue failed", zap.String("user_id", email), zap.Error(err))
		jsonutil.InternalError(w, "failed to issue token")
		return
	}
	jsonutil.JSON(w, status, models.NewBearerToken(tok))
}

// Me handles GET /me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	cu, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.users.GetByEmail(ctx, cu.Email)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "User not found")
		return
	}
	if err != nil {
		h.logger.Error("me: lookup failed", zap.String("user_id", cu.Email), zap.Error(err))
		jsonutil.InternalError(w, "database error")
		return
	}
	jsonutil.OK(w, u)
}

type updateMeInput struct {
	FullName    patch.Field[string]  `json:"full_name"`
	PhoneNumber patch.Field[*string] `json:"phone_number"`
	Company     patch.Field[*string] `json:"company"`
	Password    patch.Field[string]  `json:"password"`
}

// UpdateMe handles PUT /me. Only supplied fields change; phone_number and
// company may be cleared with null. The email is the owner key of every
// campaign and ad account and cannot be changed.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	cu, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	var in updateMeInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.WriteError(w, err)
		return
	}

	mask := &patch.Mask{}
	if in.FullName.Set() {
		name := textsanitize.Plain(in.FullName.Value())
		if res := inputval.Var(name, "required,max=200", "Full name"); res.HasErrors() {
			jsonutil.WriteError(w, res.Err())
			return
		}
		mask.Add("full_name", name)
	}
	if in.PhoneNumber.Set() {
		mask.Add("phone_number", trimmedPtr(in.PhoneNumber.Value()))
	}
	if in.Company.Set() {
		mask.Add("company", trimmedPtr(in.Company.Value()))
	}
	if in.Password.Set() {
		if err := authutil.ValidatePassword(in.Password.Value()); err != nil {
			jsonutil.BadRequest(w, err.Error())
			return
		}
		hash, err := authutil.HashPassword(in.Password.Value())
		if err != nil {
			h.logger.Error("update me: hash failed", zap.Error(err))
			jsonutil.InternalError(w, "failed to hash password")
			return
		}
		mask.Add("hashed_password", hash)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.users.UpdateProfile(ctx, cu.Email, mask)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, "User not found")
		return
	}
	if err != nil {
		h.logger.Error("update me failed", zap.String("user_id", cu.Email), zap.Error(err))
		jsonutil.InternalError(w, "database error")
		return
	}
	h.logger.Debug("profile updated", zap.String("user_id", cu.Email), zap.Int("fields", len(mask.Pairs())))
	jsonutil.OK(w, u)
}

// trimmedPtr trims *s and maps blank to nil.
func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
