package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/internal/policy"
	"inkwell/internal/services"
	"inkwell/internal/store"
	"inkwell/internal/utils"
)

// AdminHandler serves the post-management dashboard. Every route is gated by
// the policy's admin actions before a store is touched.
type AdminHandler struct {
	content  *store.ContentStore
	uploader *services.Uploader
	cache    *utils.Cache
}

func NewAdminHandler(content *store.ContentStore, uploader *services.Uploader, cache *utils.Cache) *AdminHandler {
	return &AdminHandler{content: content, uploader: uploader, cache: cache}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	if err := policy.Authorize(caller(c), policy.ActionManagePosts); err != nil {
		denyPolicy(c, err)
		return
	}

	posts, err := h.content.List("")
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load posts")
		return
	}
	Render(c, http.StatusOK, "dashboard/index.html", gin.H{
		"Title": "Dashboard",
		"Posts": posts,
	})
}

func (h *AdminHandler) ShowCreate(c *gin.Context) {
	if err := policy.Authorize(caller(c), policy.ActionCreatePost); err != nil {
		denyPolicy(c, err)
		return
	}
	Render(c, http.StatusOK, "dashboard/form.html", gin.H{"Title": "New post"})
}

func (h *AdminHandler) Create(c *gin.Context) {
	if err := policy.Authorize(caller(c), policy.ActionCreatePost); err != nil {
		denyPolicy(c, err)
		return
	}

	title := c.PostForm("title")
	content := c.PostForm("content")
	category := c.PostForm("category")

	if title == "" {
		Render(c, http.StatusBadRequest, "dashboard/form.html", gin.H{
			"Title": "New post",
			"Error": "Title is required",
		})
		return
	}

	image, err := h.storedImage(c)
	if err != nil {
		Render(c, http.StatusBadRequest, "dashboard/form.html", gin.H{
			"Title": "New post",
			"Error": "Image upload failed: " + err.Error(),
		})
		return
	}

	if _, err := h.content.Create(title, content, category, image); err != nil {
		Render(c, http.StatusInternalServerError, "dashboard/form.html", gin.H{
			"Title": "New post",
			"Error": "Could not publish the post",
		})
		return
	}

	h.cache.Delete(homeCacheKey)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AdminHandler) ShowEdit(c *gin.Context) {
	if err := policy.Authorize(caller(c), policy.ActionUpdatePost); err != nil {
		denyPolicy(c, err)
		return
	}

	post, err := h.content.Get(utils.StringToUint(c.Param("id")))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "Post not found")
			return
		}
		RenderError(c, http.StatusInternalServerError, "Could not load post")
		return
	}
	Render(c, http.StatusOK, "dashboard/form.html", gin.H{
		"Title": "Edit post",
		"Post":  post,
	})
}

func (h *AdminHandler) Update(c *gin.Context) {
	if err := policy.Authorize(caller(c), policy.ActionUpdatePost); err != nil {
		denyPolicy(c, err)
		return
	}

	title := c.PostForm("title")
	content := c.PostForm("content")
	category := c.PostForm("category")

	image, err := h.storedImage(c)
	if err != nil {
		RenderError(c, http.StatusBadRequest, "Image upload failed: "+err.Error())
		return
	}

	changes := store.PostChanges{Title: &title, Content: &content, Category: &category}
	if image != "" {
		changes.Image = &image
	}

	id := utils.StringToUint(c.Param("id"))
	if _, err := h.content.Update(id, changes); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "Post not found")
			return
		}
		RenderError(c, http.StatusInternalServerError, "Could not save the post")
		return
	}

	h.cache.Delete(homeCacheKey)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AdminHandler) Delete(c *gin.Context) {
	if err := policy.Authorize(caller(c), policy.ActionDeletePost); err != nil {
		denyPolicy(c, err)
		return
	}

	if err := h.content.Delete(utils.StringToUint(c.Param("id"))); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "Post not found")
			return
		}
		RenderError(c, http.StatusInternalServerError, "Could not delete the post")
		return
	}

	h.cache.Delete(homeCacheKey)
	c.Redirect(http.StatusFound, "/dashboard")
}

// storedImage persists an optional multipart image and returns its
// reference, or "" when no file was attached.
func (h *AdminHandler) storedImage(c *gin.Context) (string, error) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", err
	}
	defer file.Close()
	return h.uploader.Store(file, header)
}
