package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"tour_chat/pkg/errors"
)

func newErrorRouter(fail func(c *gin.Context)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/fail", fail)
	return router
}

func Test_Error_Handler_Maps_Sentinel_To_Status(t *testing.T) {
	req := require.New(t)
	router := newErrorRouter(func(c *gin.Context) {
		_ = c.Error(errors.ErrNoAdminAvailable)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	req.Equal(http.StatusServiceUnavailable, w.Code)
	req.Contains(w.Body.String(), errors.ErrNoAdminAvailable.Error())
}

func Test_Error_Handler_Uses_APIError_Code(t *testing.T) {
	req := require.New(t)
	router := newErrorRouter(func(c *gin.Context) {
		_ = c.Error(errors.NewAPIError("conversation is closed", http.StatusConflict))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	req.Equal(http.StatusConflict, w.Code)
	req.Contains(w.Body.String(), "conversation is closed")
}

func Test_Error_Handler_Unknown_Error_Is_Internal(t *testing.T) {
	req := require.New(t)
	router := newErrorRouter(func(c *gin.Context) {
		_ = c.Error(errors.ErrInternalServer)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	req.Equal(http.StatusInternalServerError, w.Code)
}
