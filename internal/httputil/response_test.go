package httputil

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteJSONOK(rec, map[string]int{"rows": 4})

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 4, body["rows"])
}

func TestErrorHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		write  func(rec *httptest.ResponseRecorder)
		status int
		msg    string
	}{
		{"bad request", func(r *httptest.ResponseRecorder) { BadRequest(r, "bad period") }, 400, "bad period"},
		{"not found", func(r *httptest.ResponseRecorder) { NotFound(r, "no such pin") }, 404, "no such pin"},
		{"method not allowed", func(r *httptest.ResponseRecorder) { MethodNotAllowed(r) }, 405, "method not allowed"},
		{"unprocessable", func(r *httptest.ResponseRecorder) { Unprocessable(r, "prototype mismatch") }, 422, "prototype mismatch"},
		{"internal", func(r *httptest.ResponseRecorder) { InternalServerError(r, "boom") }, 500, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.status, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.msg, body["error"])
		})
	}
}
