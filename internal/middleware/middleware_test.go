package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/devtrack/internal/authz"
	"github.com/yukikurage/devtrack/internal/constants"
	"github.com/yukikurage/devtrack/internal/models"
)

func TestRequireIDParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/teams/:id/members/:user_id", RequireIDParams("id", "user_id"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":      GetIDParam(c, "id"),
			"user_id": GetIDParam(c, "user_id"),
		})
	})

	tests := []struct {
		path string
		code int
	}{
		{"/teams/3/members/7", http.StatusOK},
		{"/teams/x/members/7", http.StatusBadRequest},
		{"/teams/3/members/0", http.StatusBadRequest},
		{"/teams/3/members/-1", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(actor *authz.Actor) int {
		r := gin.New()
		r.GET("/", func(c *gin.Context) {
			if actor != nil {
				c.Set(constants.ContextKeyActor, *actor)
			}
			c.Next()
		}, RequireRole(models.RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, run(nil))
	assert.Equal(t, http.StatusForbidden, run(&authz.Actor{UserID: 1, Role: models.RoleManager}))
	assert.Equal(t, http.StatusNoContent, run(&authz.Actor{UserID: 1, Role: models.RoleAdmin}))
	assert.Equal(t, http.StatusNoContent, run(&authz.Actor{UserID: 1, Role: models.RoleSuperAdmin}))
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetUserID(c)
	require.False(t, ok)

	c.Set(constants.ContextKeyUserID, uint64(42))
	id, ok := GetUserID(c)
	require.True(t, ok)
	assert.Equal(t, uint64(42), id)

	c.Set(constants.ContextKeyUserID, -1)
	_, ok = GetUserID(c)
	assert.False(t, ok)
}
