package adaccounts

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ashishmicrocom/adPatterns/internal/app/system/apperr"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/auth"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/inputval"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/jsonutil"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/normalize"
	"github.com/ashishmicrocom/adPatterns/internal/app/system/textsanitize"
	"github.com/ashishmicrocom/adPatterns/internal/domain/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/linkedin"
)

// Credentials are the OAuth client registrations for each platform.
// A platform with an empty client id is not configured.
type Credentials struct {
	MetaAppID            string
	MetaAppSecret        string
	MetaAPIVersion       string
	GoogleClientID       string
	GoogleClientSecret   string
	LinkedInClientID     string
	LinkedInClientSecret string
}

var (
	errUnsupported   = errors.New("platform does not support OAuth connect")
	errNotConfigured = errors.New("platform OAuth client is not configured")
)

// ProviderConfigs builds one oauth2.Config per configured platform.
// Twitter has no code-exchange flow here and is never included.
func ProviderConfigs(c Credentials) map[string]*oauth2.Config {
	out := map[string]*oauth2.Config{}
	if c.MetaAppID != "" {
		ver := c.MetaAPIVersion
		if ver == "" {
			ver = "v18.0"
		}
		out[models.PlatformMeta] = &oauth2.Config{
			ClientID:     c.MetaAppID,
			ClientSecret: c.MetaAppSecret,
			Scopes:       []string{"ads_management", "ads_read"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   "https://www.facebook.com/" + ver + "/dialog/oauth",
				TokenURL:  "https://graph.facebook.com/" + ver + "/oauth/access_token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
	}
	if c.GoogleClientID != "" {
		out[models.PlatformGoogle] = &oauth2.Config{
			ClientID:     c.GoogleClientID,
			ClientSecret: c.GoogleClientSecret,
			Scopes:       []string{"https://www.googleapis.com/auth/adwords"},
			Endpoint:     google.Endpoint,
		}
	}
	if c.LinkedInClientID != "" {
		out[models.PlatformLinkedIn] = &oauth2.Config{
			ClientID:     c.LinkedInClientID,
			ClientSecret: c.LinkedInClientSecret,
			Scopes:       []string{"r_ads", "rw_ads"},
			Endpoint:     linkedin.Endpoint,
		}
	}
	return out
}

// Connector exchanges authorization codes for platform tokens.
type Connector struct {
	configs map[string]*oauth2.Config
	client  *http.Client
}

// NewConnector returns a Connector for the given platform configs.
func NewConnector(configs map[string]*oauth2.Config) *Connector {
	if configs == nil {
		configs = map[string]*oauth2.Config{}
	}
	return &Connector{
		configs: configs,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Exchange trades code for a token on platform. redirectURI, when set,
// must match the one used to obtain the code.
func (c *Connector) Exchange(ctx context.Context, platform, code, redirectURI string) (*oauth2.Token, error) {
	if platform == models.PlatformTwitter {
		return nil, errUnsupported
	}
	base, ok := c.configs[platform]
	if !ok {
		return nil, errNotConfigured
	}
	cfg := *base
	if redirectURI != "" {
		cfg.RedirectURL = redirectURI
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.client)
	return cfg.Exchange(ctx, code)
}

type connectInput struct {
	Platform          string `json:"platform" validate:"required,platform" label:"Platform"`
	AuthorizationCode string `json:"authorization_code" validate:"required" label:"Authorization code"`
	AccountID         string `json:"account_id" validate:"required,max=128" label:"Account ID"`
	AccountName       string `json:"account_name" validate:"required,max=200" label:"Account name"`
	Currency          string `json:"currency" validate:"omitempty,len=3,alpha" label:"Currency"`
	RedirectURI       string `json:"redirect_uri" validate:"omitempty,url" label:"Redirect URI"`
}

// Connect handles POST /connect: exchange the code, then link the account
// with the returned credentials.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.RequireUser(w, r)
	if !ok {
		return
	}

	var in connectInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.WriteError(w, err)
		return
	}
	in.Platform = normalize.Platform(in.Platform)
	in.AccountID = strings.TrimSpace(in.AccountID)
	in.AccountName = textsanitize.Plain(in.AccountName)
	in.Currency = normalize.Currency(in.Currency)
	in.RedirectURI = strings.TrimSpace(in.RedirectURI)
	if res := inputval.Validate(in); res.HasErrors() {
		jsonutil.WriteError(w, res.Err())
		return
	}

	tok, err := h.connector.Exchange(r.Context(), in.Platform, in.AuthorizationCode, in.RedirectURI)
	switch {
	case errors.Is(err, errUnsupported):
		jsonutil.BadRequest(w, "OAuth connect is not supported for "+in.Platform)
		return
	case errors.Is(err, errNotConfigured):
		jsonutil.BadRequest(w, "OAuth is not configured for "+in.Platform)
		return
	case err != nil:
		h.writeErr(w, "oauth exchange", u.UserID(), apperr.Upstream("Authorization code exchange failed", err))
		return
	}

	a := models.AdAccount{
		UserID:      u.UserID(),
		Platform:    in.Platform,
		AccountID:   in.AccountID,
		AccountName: in.AccountName,
		Currency:    in.Currency,
		AccessToken: tok.AccessToken,
		Metadata:    map[string]any{"connected_via": "oauth"},
	}
	if tok.RefreshToken != "" {
		rt := tok.RefreshToken
		a.RefreshToken = &rt
	}
	if !tok.Expiry.IsZero() {
		a.Metadata["token_expires_at"] = tok.Expiry.UTC()
	}

	created, err := h.link(r.Context(), u.UserID(), a)
	if err != nil {
		h.writeErr(w, "connect ad account", u.UserID(), err)
		return
	}
	jsonutil.Created(w, created)
}
