package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/store"
	"inkwell/internal/utils"
)

const homeCacheKey = "posts:list:home"

// homePage is the cacheable part of the front page; flash state stays out of
// the cache and is injected per request.
type homePage struct {
	Posts      []models.Post
	Categories []string
}

type BlogHandler struct {
	content *store.ContentStore
	cache   *utils.Cache
}

func NewBlogHandler(content *store.ContentStore, cache *utils.Cache) *BlogHandler {
	return &BlogHandler{content: content, cache: cache}
}

// List renders the front page, optionally filtered by category. The
// unfiltered page is cached briefly; writes invalidate it.
func (h *BlogHandler) List(c *gin.Context) {
	category := c.Query("category")

	var page homePage
	cached, _ := h.cache.Get(homeCacheKey).(homePage)
	if category == "" && cached.Posts != nil {
		page = cached
	} else {
		posts, err := h.content.List(category)
		if err != nil {
			RenderError(c, http.StatusInternalServerError, "Could not load posts")
			return
		}
		categories, err := h.content.Categories()
		if err != nil {
			RenderError(c, http.StatusInternalServerError, "Could not load posts")
			return
		}
		page = homePage{Posts: posts, Categories: categories}
		if category == "" {
			h.cache.Set(homeCacheKey, page, time.Minute)
		}
	}

	Render(c, http.StatusOK, "blog/list.html", gin.H{
		"Title":      "Latest posts",
		"Posts":      page.Posts,
		"Categories": page.Categories,
		"Category":   category,
		"Subscribed": c.Query("subscribed"),
	})
}

// Detail renders a post with its comments, related posts and reading time.
func (h *BlogHandler) Detail(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	post, err := h.content.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "Post not found")
			return
		}
		RenderError(c, http.StatusInternalServerError, "Could not load post")
		return
	}

	comments, err := h.content.Comments(post.ID)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load comments")
		return
	}
	related, err := h.content.Related(post, store.RelatedPostsLimit)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not load post")
		return
	}

	Render(c, http.StatusOK, "blog/detail.html", gin.H{
		"Title":       post.Title,
		"Post":        post,
		"PostContent": utils.RenderMarkdown(post.Content),
		"ReadingTime": utils.ReadingTime(post.Content),
		"Comments":    comments,
		"Related":     related,
		"Error":       c.Query("error"),
	})
}

// Like adds one reaction and returns to the post. Repeat reactions from the
// same caller are allowed; the counter is a tally, not a per-user vote.
func (h *BlogHandler) Like(c *gin.Context) {
	h.react(c, policy.ActionLikePost, h.content.Like)
}

func (h *BlogHandler) Dislike(c *gin.Context) {
	h.react(c, policy.ActionDislikePost, h.content.Dislike)
}

func (h *BlogHandler) react(c *gin.Context, action policy.Action, apply func(uint) (int, error)) {
	if err := policy.Authorize(caller(c), action); err != nil {
		denyPolicy(c, err)
		return
	}

	id := utils.StringToUint(c.Param("id"))
	if _, err := apply(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RenderError(c, http.StatusNotFound, "Post not found")
			return
		}
		RenderError(c, http.StatusInternalServerError, "Could not save your reaction")
		return
	}
	c.Redirect(http.StatusFound, "/post/"+c.Param("id"))
}

func (h *BlogHandler) CreateComment(c *gin.Context) {
	if err := policy.Authorize(caller(c), policy.ActionComment); err != nil {
		denyPolicy(c, err)
		return
	}
	user := middleware.CurrentUser(c)

	id := utils.StringToUint(c.Param("id"))
	_, err := h.content.AddComment(id, user.ID, c.PostForm("content"))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			RenderError(c, http.StatusNotFound, "Post not found")
		case errors.Is(err, store.ErrEmptyContent):
			c.Redirect(http.StatusFound, "/post/"+c.Param("id")+"?error=empty_comment")
		default:
			RenderError(c, http.StatusInternalServerError, "Could not save your comment")
		}
		return
	}

	// Comment counts appear on the front page.
	h.cache.Delete(homeCacheKey)
	c.Redirect(http.StatusFound, "/post/"+c.Param("id"))
}
