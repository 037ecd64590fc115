package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/userhub/admin-api/internal/access"
)

const (
	// HeaderUserID and HeaderUserRoles carry the caller identity. The
	// upstream gateway validates them; this service trusts their content.
	HeaderUserID    = "X-User-Id"
	HeaderUserRoles = "X-User-Roles"

	ContextCaller = "caller"
)

// Identity extracts the pre-validated caller identity from request headers
// into the gin context. Authorization decisions happen in the services.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := access.Caller{
			ID: strings.TrimSpace(c.GetHeader(HeaderUserID)),
		}
		if roles := c.GetHeader(HeaderUserRoles); roles != "" {
			for _, role := range strings.Split(roles, ",") {
				if role = strings.TrimSpace(role); role != "" {
					caller.Roles = append(caller.Roles, role)
				}
			}
		}

		c.Set(ContextCaller, caller)
		c.Next()
	}
}

// RequireIdentity rejects requests with no caller id. Public routes skip it.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller.ID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    "UNAUTHENTICATED",
				Message: "missing " + HeaderUserID + " header",
				TraceID: c.GetString(ContextRequestID),
			})
			return
		}
		c.Next()
	}
}

// CallerFrom returns the caller identity set by Identity; zero value when
// the middleware did not run or no headers were present.
func CallerFrom(c *gin.Context) access.Caller {
	if v, ok := c.Get(ContextCaller); ok {
		if caller, ok := v.(access.Caller); ok {
			return caller
		}
	}
	return access.Caller{}
}
