package middleware

import "github.com/gin-gonic/gin"

// NoStore keeps browsers from caching pages that depend on the session.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
