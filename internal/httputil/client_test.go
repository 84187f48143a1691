package httputil

import (
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClientReturnsQueuedResponses(t *testing.T) {
	t.Parallel()

	m := NewMockHTTPClient().
		AddResponse(200, `{"ok":true}`).
		AddResponse(404, `{"error":"no such pin"}`)

	req, err := http.NewRequest(http.MethodGet, "http://board.local/pins/demo", nil)
	require.NoError(t, err)

	resp, err := m.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(body))

	resp, err = m.Do(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	// Exhausted queue falls back to an empty 200.
	resp, err = m.Do(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	assert.Equal(t, 3, m.RequestCount())
}

func TestMockClientReturnsQueuedErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	m := NewMockHTTPClient().AddError(boom)

	req, err := http.NewRequest(http.MethodGet, "http://board.local/pins/demo", nil)
	require.NoError(t, err)

	_, err = m.Do(req)
	assert.ErrorIs(t, err, boom)
}

func TestNewStandardClientDefaults(t *testing.T) {
	t.Parallel()

	c := NewStandardClient(nil)
	assert.Same(t, http.DefaultClient, c.Client)
}
