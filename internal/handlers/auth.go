package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"inkwell/internal/policy"
	"inkwell/internal/store"
)

type AuthHandler struct {
	identity *store.IdentityStore
	oauth    *oauth2.Config
}

func NewAuthHandler(identity *store.IdentityStore, oauth *oauth2.Config) *AuthHandler {
	return &AuthHandler{identity: identity, oauth: oauth}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")
	language := c.PostForm("language")

	if username == "" {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{"Error": "Username is required"})
		return
	}
	if len(password) < 6 {
		Render(c, http.StatusBadRequest, "auth/register.html", gin.H{"Error": "Password must be at least 6 characters"})
		return
	}

	user, err := h.identity.Register(username, email, password, language)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrReservedUsername):
			Render(c, http.StatusBadRequest, "auth/register.html", gin.H{"Error": "That username is reserved"})
		case errors.Is(err, store.ErrDuplicateUsername):
			Render(c, http.StatusConflict, "auth/register.html", gin.H{"Error": "Username already taken"})
		case errors.Is(err, store.ErrDuplicateEmail):
			Render(c, http.StatusConflict, "auth/register.html", gin.H{"Error": "Email already registered"})
		default:
			Render(c, http.StatusInternalServerError, "auth/register.html", gin.H{"Error": "Registration failed, please try again"})
		}
		return
	}

	h.startSession(c, user.ID)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.identity.Authenticate(username, password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "Invalid username or password"})
			return
		}
		Render(c, http.StatusInternalServerError, "auth/login.html", gin.H{"Error": "Login failed, please try again"})
		return
	}

	h.startSession(c, user.ID)
	if user.IsAdmin() {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := policy.Authorize(caller(c), policy.ActionLogout); err != nil {
		denyPolicy(c, err)
		return
	}
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) startSession(c *gin.Context, userID uint) {
	session := sessions.Default(c)
	session.Set("user_id", userID)
	session.Save()
}
