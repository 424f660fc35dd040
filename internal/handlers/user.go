package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/internal/middleware"
	"inkwell/internal/policy"
	"inkwell/internal/services"
	"inkwell/internal/store"
)

type UserHandler struct {
	identity *store.IdentityStore
	uploader *services.Uploader
}

func NewUserHandler(identity *store.IdentityStore, uploader *services.Uploader) *UserHandler {
	return &UserHandler{identity: identity, uploader: uploader}
}

func (h *UserHandler) ShowSettings(c *gin.Context) {
	if err := policy.Authorize(caller(c), policy.ActionUpdateProfile); err != nil {
		denyPolicy(c, err)
		return
	}
	Render(c, http.StatusOK, "user/settings.html", gin.H{"Title": "Settings"})
}

func (h *UserHandler) UpdateSettings(c *gin.Context) {
	if err := policy.Authorize(caller(c), policy.ActionUpdateProfile); err != nil {
		denyPolicy(c, err)
		return
	}
	user := middleware.CurrentUser(c)

	email := c.PostForm("email")
	mobile := c.PostForm("mobile")
	language := c.PostForm("language")

	changes := store.ProfileChanges{
		Email:    &email,
		Mobile:   &mobile,
		Language: &language,
	}

	if file, header, err := c.Request.FormFile("picture"); err == nil {
		defer file.Close()
		ref, err := h.uploader.Store(file, header)
		if err != nil {
			Render(c, http.StatusBadRequest, "user/settings.html", gin.H{
				"Title": "Settings",
				"Error": "Picture upload failed: " + err.Error(),
			})
			return
		}
		changes.Picture = &ref
	}

	if err := h.identity.UpdateProfile(user.ID, changes); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			Render(c, http.StatusConflict, "user/settings.html", gin.H{
				"Title": "Settings",
				"Error": "That email belongs to another account",
			})
			return
		}
		Render(c, http.StatusInternalServerError, "user/settings.html", gin.H{
			"Title": "Settings",
			"Error": "Could not save your settings",
		})
		return
	}

	c.Redirect(http.StatusFound, "/settings")
}
