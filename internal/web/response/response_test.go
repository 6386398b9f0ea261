package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]int{"tables": 3})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"tables":3}`, w.Body.String())
}

func TestJSONEncodingFailure(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestError(t *testing.T) {
	tests := []struct {
		status int
		code   string
		want   string
	}{
		{http.StatusNotFound, "", "not_found"},
		{http.StatusBadRequest, "", "bad_request"},
		{http.StatusServiceUnavailable, "", "service_unavailable"},
		{http.StatusTeapot, "", "error"},
		{http.StatusNotFound, "namespace_not_found", "namespace_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			w := httptest.NewRecorder()
			Error(w, tt.status, "boom", tt.code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.want, body.Code)
			assert.Equal(t, "boom", body.Message)
			assert.Nil(t, body.Details)
		})
	}
}

func TestNotFoundSuggestions(t *testing.T) {
	w := httptest.NewRecorder()
	NotFound(w, "Cannot find table 'Studnt'", []string{"Student"})

	assert.JSONEq(t, `{
		"error": "error",
		"message": "Cannot find table 'Studnt'",
		"code": "not_found",
		"details": {"suggestions": ["Student"]}
	}`, w.Body.String())
}
