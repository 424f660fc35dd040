package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inkwell/internal/store"
)

type NewsletterHandler struct {
	subscriptions *store.SubscriptionStore
}

func NewNewsletterHandler(subscriptions *store.SubscriptionStore) *NewsletterHandler {
	return &NewsletterHandler{subscriptions: subscriptions}
}

// Subscribe records a newsletter email. Anyone may subscribe; a repeat
// attempt only changes the confirmation message.
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	if email == "" || !strings.Contains(email, "@") {
		c.Redirect(http.StatusFound, "/?subscribed=invalid")
		return
	}

	already, err := h.subscriptions.Subscribe(email)
	if err != nil {
		RenderError(c, http.StatusInternalServerError, "Could not save your subscription")
		return
	}
	if already {
		c.Redirect(http.StatusFound, "/?subscribed=already")
		return
	}
	c.Redirect(http.StatusFound, "/?subscribed=ok")
}
