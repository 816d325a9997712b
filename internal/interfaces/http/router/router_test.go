package router

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

type stubRegistrar struct {
	path string
}

func (s *stubRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET(s.path, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

func TestRouterSetup(t *testing.T) {
	t.Run("registers routes under the default version", func(t *testing.T) {
		engine := gin.New()
		router := NewRouter(engine)
		router.Register(&stubRegistrar{path: "/billing/invoices"})
		router.Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/billing/invoices", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("honors a custom version prefix", func(t *testing.T) {
		engine := gin.New()
		router := NewRouter(engine, WithAPIVersion("v2"))
		router.Register(&stubRegistrar{path: "/ping"})
		router.Setup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v2/ping", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("registers multiple registrars", func(t *testing.T) {
		engine := gin.New()
		NewRouter(engine).
			Register(&stubRegistrar{path: "/a"}).
			Register(&stubRegistrar{path: "/b"}).
			Setup()

		for _, path := range []string{"/api/v1/a", "/api/v1/b"} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, path, nil)
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})
}
