package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/zbonzo/Warlock-sub004/internal/constants"
	"github.com/zbonzo/Warlock-sub004/internal/storage"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type AuthHandler struct {
	repo storage.Repository
}

func NewAuthHandler(repo storage.Repository) *AuthHandler {
	return &AuthHandler{repo: repo}
}

type googleCallbackRequest struct {
	Code string `json:"code"`
}

// googleProfile is the slice of Google's userinfo payload we care about.
type googleProfile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleOAuthCallback exchanges the one-time code from the frontend for the
// player's Google identity and mints the session cookie.
func (h *AuthHandler) GoogleOAuthCallback(c *gin.Context) {
	var req googleCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	profile, err := fetchGoogleProfile(c.Request.Context(), req.Code)
	switch {
	case errors.Is(err, errGoogleEnvMissing):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMissingGoogleEnv})
		return
	case errors.Is(err, errGoogleExchange):
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrFailedExchangeToken, constants.JSONKeyDetails: err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedGetUserInfo, constants.JSONKeyDetails: err.Error()})
		return
	}
	if profile.Email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrNoEmailInGoogleProfile})
		return
	}

	// A custom display name saved on the profile wins over whatever Google
	// reports, so renamed players stay renamed across logins.
	displayName := profile.Name
	if h.repo != nil {
		if ps, err := h.repo.GetStatsByEmail(profile.Email); err == nil && ps.PlayerName != "" {
			displayName = ps.PlayerName
		}
	}

	token, err := mintSessionToken(profile.Email, displayName, sessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateSession, constants.JSONKeyDetails: err.Error()})
		return
	}
	setSessionCookie(c, token, sessionTTL)

	out := gin.H{"email": profile.Email, "name": displayName}
	if profile.Picture != "" {
		out["picture"] = profile.Picture
	}
	c.JSON(http.StatusOK, out)
}

var (
	errGoogleEnvMissing = errors.New("google oauth credentials not configured")
	errGoogleExchange   = errors.New("google code exchange failed")
)

// fetchGoogleProfile trades the authorization code for the minimal profile.
func fetchGoogleProfile(ctx context.Context, code string) (*googleProfile, error) {
	clientID := os.Getenv(constants.EnvGoogleClientID)
	clientSecret := os.Getenv(constants.EnvGoogleClientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, errGoogleEnvMissing
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  constants.GoogleOAuthRedirect,
		Scopes:       constants.GoogleUserInfoScopes,
		Endpoint:     google.Endpoint,
	}
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, errGoogleExchange
	}

	resp, err := conf.Client(ctx, token).Get(constants.GoogleUserInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var profile googleProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
