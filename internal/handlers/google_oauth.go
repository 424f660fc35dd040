package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

// googleUserInfo is the subset of the userinfo response we consume.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	Picture       string `json:"picture"`
}

func generateStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// GoogleLogin starts the OAuth handshake, parking a state token in the
// session for the callback to verify.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.oauth == nil || h.oauth.ClientID == "" {
		Render(c, http.StatusServiceUnavailable, "auth/login.html", gin.H{"Error": "Google login is not configured"})
		return
	}

	state, err := generateStateToken()
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not start Google login")
		return
	}

	session := sessions.Default(c)
	session.Set("oauth_state", state)
	session.Save()

	c.Redirect(http.StatusTemporaryRedirect, h.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

// GoogleCallback finishes the handshake and logs the user in, provisioning
// an account on first federated login.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	session := sessions.Default(c)
	savedState := session.Get("oauth_state")

	if savedState == nil || c.Query("state") != savedState.(string) {
		Render(c, http.StatusBadRequest, "auth/login.html", gin.H{"Error": "Invalid login state, please try again"})
		return
	}
	session.Delete("oauth_state")
	session.Save()

	code := c.Query("code")
	if code == "" {
		Render(c, http.StatusBadRequest, "auth/login.html", gin.H{"Error": "Google login was cancelled"})
		return
	}

	token, err := h.oauth.Exchange(context.Background(), code)
	if err != nil {
		Render(c, http.StatusInternalServerError, "auth/login.html", gin.H{"Error": "Could not complete Google login"})
		return
	}

	info, err := fetchGoogleUserInfo(token.AccessToken)
	if err != nil {
		Render(c, http.StatusInternalServerError, "auth/login.html", gin.H{"Error": "Could not read your Google profile"})
		return
	}
	if !info.VerifiedEmail {
		Render(c, http.StatusBadRequest, "auth/login.html", gin.H{"Error": "Your Google email is not verified"})
		return
	}

	displayName := info.GivenName
	if displayName == "" {
		displayName = info.Name
	}
	user, err := h.identity.FindOrProvisionByEmail(info.Email, displayName, info.Picture)
	if err != nil {
		Render(c, http.StatusInternalServerError, "auth/login.html", gin.H{"Error": "Could not sign you in"})
		return
	}

	h.startSession(c, user.ID)
	c.Redirect(http.StatusFound, "/")
}

func fetchGoogleUserInfo(accessToken string) (*googleUserInfo, error) {
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + accessToken)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
