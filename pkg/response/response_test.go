package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perform(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(c)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestSuccessEnvelope(t *testing.T) {
	rec, body := perform(t, func(c *gin.Context) {
		Success(c, gin.H{"id": "1"})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "error")
	assert.NotContains(t, body, "message")
}

func TestSuccessWithMessage(t *testing.T) {
	rec, body := perform(t, func(c *gin.Context) {
		SuccessWithMessage(c, "nothing here", []string{})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nothing here", body["message"])
}

func TestErrorEnvelopes(t *testing.T) {
	rec, body := perform(t, func(c *gin.Context) {
		NotFound(c, "gone")
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "gone", body["error"])

	rec, body = perform(t, func(c *gin.Context) {
		BadRequest(c, "bad input")
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad input", body["error"])

	rec, _ = perform(t, func(c *gin.Context) {
		InternalError(c, "boom")
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
