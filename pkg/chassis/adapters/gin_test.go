package adapters

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func ginRequest(t *testing.T, message, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	adapter := NewDefaultGinAdapter(testBus(t))
	adapter.Mount("/bus")

	req := httptest.NewRequest(http.MethodPost, "/bus/"+message, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	adapter.Engine().ServeHTTP(rec, req)
	return rec
}

func TestGinAdapter_Command(t *testing.T) {
	rec := ginRequest(t, "greetCommand", `{"name":"Ada"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello, Ada")
}

func TestGinAdapter_VoidCommand(t *testing.T) {
	rec := ginRequest(t, "resetCommand", `{}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGinAdapter_UnknownMessage(t *testing.T) {
	rec := ginRequest(t, "nopeCommand", `{}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGinAdapter_WatchRejected(t *testing.T) {
	rec := ginRequest(t, "tickQuery", `{}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
