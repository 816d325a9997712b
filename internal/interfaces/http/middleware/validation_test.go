package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/billing/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createStateRequest struct {
	Code string `json:"code" binding:"required,max=30"`
	Name string `json:"name" binding:"required,max=60"`
}

func newValidationTestEngine() *gin.Engine {
	SetupValidator()
	engine := gin.New()
	engine.Use(RequestID())
	engine.POST("/states", func(c *gin.Context) {
		var req createStateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusCreated, dto.NewSuccessResponse(req))
	})
	return engine
}

func TestHandleValidationError(t *testing.T) {
	t.Run("reports missing fields by JSON name", func(t *testing.T) {
		engine := newValidationTestEngine()

		body, _ := json.Marshal(map[string]interface{}{"code": "KUL"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/states", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "name", resp.Error.Details[0].Field)
		assert.Equal(t, "This field is required", resp.Error.Details[0].Message)
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("malformed JSON falls back to a plain bad request", func(t *testing.T) {
		engine := newValidationTestEngine()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/states", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
		assert.Empty(t, resp.Error.Details)
	})

	t.Run("valid payload passes through", func(t *testing.T) {
		engine := newValidationTestEngine()

		body, _ := json.Marshal(map[string]interface{}{"code": "KUL", "name": "Kuala Lumpur"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/states", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}
