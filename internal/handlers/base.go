package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/internal/middleware"
	"inkwell/internal/policy"
)

// Render injects common view data (current user, current path) before
// handing off to the template.
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}
	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path
	c.HTML(code, name, obj)
}

func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// caller builds the policy identity for the request, nil when anonymous.
func caller(c *gin.Context) *policy.Identity {
	return policy.IdentityOf(middleware.CurrentUser(c))
}

// denyPolicy turns a policy refusal into a response: missing login goes to
// the login page, everything else renders a forbidden page.
func denyPolicy(c *gin.Context, err error) {
	if errors.Is(err, policy.ErrUnauthenticated) {
		c.Redirect(http.StatusFound, "/login")
		return
	}
	RenderError(c, http.StatusForbidden, "You don't have permission to do that.")
}
