package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	PageNotFound      = "404"
	PageInternalError = "500"
)

func Page(c *gin.Context, status int, name string, data gin.H) {
	c.HTML(status, name, data)
}

func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// JSON mirrors Page for machine-facing endpoints.
func JSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
