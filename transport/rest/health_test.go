package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCounter int

func (that stubCounter) Count() int {
	return int(that)
}

func TestHealthHandler(t *testing.T) {
	// Given: three live sessions
	handler := healthHandler(stubCounter(3))

	// When: the health endpoint is hit
	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))

	// Then: it reports healthy with the session count
	require.Equal(t, http.StatusOK, recorder.Code)

	var response healthResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response.Status)
	assert.Equal(t, 3, response.ActiveSessions)
}

func TestPingHandler(t *testing.T) {
	recorder := httptest.NewRecorder()
	pingHandler(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "pong", recorder.Body.String())
}
