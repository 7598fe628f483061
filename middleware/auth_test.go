package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mobilemech/models"
	"mobilemech/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(auth Auth) *gin.Engine {
	r := gin.New()
	echo := func(c *gin.Context) {
		id := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"userId": id.UserID, "isAdmin": id.IsAdmin})
	}
	r.GET("/optional", auth.Optional(), echo)
	r.GET("/required", auth.Required(), echo)
	r.GET("/admin", auth.Admin(), echo)
	return r
}

func do(r http.Handler, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthLevels(t *testing.T) {
	utils.InitJWT("test-secret")
	customer, err := utils.GenerateToken("alice", false, time.Hour)
	require.NoError(t, err)
	staff, err := utils.GenerateToken("ops-1", true, time.Hour)
	require.NoError(t, err)
	expired, err := utils.GenerateToken("alice", false, -time.Minute)
	require.NoError(t, err)

	r := newAuthRouter(Auth{AdminToken: "static-admin"})

	assert.Equal(t, http.StatusOK, do(r, "/optional", "").Code)
	assert.Equal(t, http.StatusOK, do(r, "/optional", "garbage").Code)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/required", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/required", expired).Code)
	w := do(r, "/required", customer)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":"alice"`)

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", customer).Code)
	assert.Equal(t, http.StatusOK, do(r, "/admin", staff).Code)
	w = do(r, "/admin", "static-admin")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"isAdmin":true`)
}

func TestIdentityFromWithoutAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, models.Identity{}, IdentityFrom(c))
	assert.True(t, IdentityFrom(c).Anonymous())
}

func TestRateLimitPerClient(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, hit("203.0.113.7"))
	assert.Equal(t, http.StatusNoContent, hit("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, hit("203.0.113.7"))
	assert.Equal(t, http.StatusNoContent, hit("198.51.100.2"))
}
