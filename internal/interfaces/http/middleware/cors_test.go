package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// serveWith runs a single request through an engine that mounts mw in front
// of okHandler on every method of "/".
func serveWith(mw gin.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	engine := gin.New()
	engine.Use(mw)
	engine.Any("/", okHandler)
	engine.Any("/api/v1/analyses", okHandler)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, r)
	return w
}

func corsRequest(method, origin string) *http.Request {
	r := httptest.NewRequest(method, "/", nil)
	if origin != "" {
		r.Header.Set("Origin", origin)
	}
	return r
}

func TestCORS_PreflightRequest(t *testing.T) {
	config := DefaultCORSConfig()
	config.AllowedOrigins = []string{"https://app.example.com"}

	r := httptest.NewRequest(http.MethodOptions, "/api/v1/analyses", nil)
	r.Header.Set("Origin", "https://app.example.com")
	r.Header.Set("Access-Control-Request-Method", "POST")
	r.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w := serveWith(CORS(config), r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, w.Body.String())
}

func TestCORS_SimpleRequest(t *testing.T) {
	config := DefaultCORSConfig()
	config.AllowedOrigins = []string{"https://a.com", "https://B.com"}

	w := serveWith(CORS(config), corsRequest(http.MethodGet, "https://b.com"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://b.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "ok", w.Body.String())

	exposed := w.Header().Get("Access-Control-Expose-Headers")
	assert.Contains(t, exposed, RequestIDHeader)
	assert.Contains(t, exposed, "Retry-After")

	vary := w.Header().Values("Vary")
	assert.Contains(t, vary, "Origin")
	assert.Contains(t, vary, "Access-Control-Request-Method")
}

func TestCORS_DisallowedOrNoOrigin(t *testing.T) {
	config := DefaultCORSConfig()
	config.AllowedOrigins = []string{"https://allowed.com"}

	for _, origin := range []string{"https://evil.com", ""} {
		w := serveWith(CORS(config), corsRequest(http.MethodGet, origin))
		// The browser enforces blocking; the server still answers.
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORS_WildcardOrigin(t *testing.T) {
	config := DefaultCORSConfig()
	config.AllowedOrigins = []string{"*"}

	w := serveWith(CORS(config), corsRequest(http.MethodGet, "https://any-origin.com"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	// With credentials the origin is echoed instead of *.
	config.AllowCredentials = true
	w = serveWith(CORS(config), corsRequest(http.MethodGet, "https://specific.com"))
	assert.Equal(t, "https://specific.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_SubdomainWildcard(t *testing.T) {
	config := DefaultCORSConfig()
	config.AllowedOrigins = []string{"*.example.com"}

	w := serveWith(CORS(config), corsRequest(http.MethodGet, "https://app.example.com"))
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = serveWith(CORS(config), corsRequest(http.MethodGet, "https://other.com"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	config.AllowWildcard = false
	w = serveWith(CORS(config), corsRequest(http.MethodGet, "https://app.example.com"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), "pattern is literal without AllowWildcard")
}

func TestDefaultCORSConfig(t *testing.T) {
	config := DefaultCORSConfig()

	assert.Empty(t, config.AllowedOrigins)
	assert.Contains(t, config.AllowedMethods, http.MethodGet)
	assert.Contains(t, config.AllowedMethods, http.MethodPost)
	assert.NotContains(t, config.AllowedMethods, http.MethodDelete)
	assert.Contains(t, config.AllowedHeaders, "Content-Type")
	assert.Contains(t, config.ExposedHeaders, RequestIDHeader)
	assert.False(t, config.AllowCredentials)
	assert.Equal(t, 86400, config.MaxAge)
}

//Personal.AI order the ending
