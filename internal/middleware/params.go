package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/devtrack/internal/errors"
)

func paramKey(name string) string {
	return "param:" + name
}

// RequireIDParams parses the named path parameters as uint64 ids and stores
// them in the context.
func RequireIDParams(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, name := range names {
			id, err := strconv.ParseUint(c.Param(name), 10, 64)
			if err != nil || id == 0 {
				apierrors.BadRequest(c, "Invalid "+name)
				c.Abort()
				return
			}
			c.Set(paramKey(name), id)
		}
		c.Next()
	}
}

// GetIDParam retrieves an id parsed by RequireIDParams
func GetIDParam(c *gin.Context, name string) uint64 {
	return c.GetUint64(paramKey(name))
}
