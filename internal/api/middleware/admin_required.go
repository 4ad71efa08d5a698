package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/spdavis3/golf-pool/pkg/utils"
)

const adminSessionKey = "admin"

// AdminRequired gates administrative routes behind the session flag set by a
// successful admin login. Page requests are redirected to the login form;
// API requests get a 401 envelope.
func AdminRequired(c *gin.Context) {
	session := sessions.Default(c)
	if admin, ok := session.Get(adminSessionKey).(bool); !ok || !admin {
		if c.Request.Method == http.MethodGet {
			c.Redirect(http.StatusFound, "/admin/login")
		} else {
			utils.SendUnauthorized(c, "Admin login required")
		}
		c.Abort()
		return
	}
	c.Next()
}

// IsAdmin reports whether the current session is an admin login. Used by the
// dashboard to decide whether to show the lock controls.
func IsAdmin(c *gin.Context) bool {
	session := sessions.Default(c)
	admin, ok := session.Get(adminSessionKey).(bool)
	return ok && admin
}

// SetAdmin flips the session's admin flag.
func SetAdmin(c *gin.Context, admin bool) error {
	session := sessions.Default(c)
	if admin {
		session.Set(adminSessionKey, true)
	} else {
		session.Delete(adminSessionKey)
	}
	return session.Save()
}
