package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/rag-assistant/backend/internal/infrastructure/log"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func echoRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.POST("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "text/plain", body)
	})
	r.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, log.RequestIDFromContext(c.Request.Context()))
	})
	return r
}

func TestEnsureUTF8Body_TranscodesGBK(t *testing.T) {
	gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(`{"question":"你好世界"}`))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(gbk))
	req.Header.Set("Content-Type", "application/json")
	echoRouter(EnsureUTF8Body()).ServeHTTP(w, req)

	assert.Equal(t, `{"question":"你好世界"}`, w.Body.String())
}

func TestEnsureUTF8Body_LeavesUTF8Alone(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader([]byte("héllo")))
	echoRouter(EnsureUTF8Body()).ServeHTTP(w, req)
	assert.Equal(t, "héllo", w.Body.String())
}

func TestRequestID(t *testing.T) {
	r := echoRouter(RequestID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/id", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))
}

func TestCORS_Preflight(t *testing.T) {
	w := httptest.NewRecorder()
	echoRouter(CORS()).ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/echo", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
